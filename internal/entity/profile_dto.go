package entity

// CreateProfileRequest creates a profile, optionally with a
// caller-supplied id and initial attribute values.
type CreateProfileRequest struct {
	ID     string            `json:"id,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// UpdateProfileRequest applies direct attribute updates outside the
// conversation flow. Unknown field names are rejected; the progress
// marker never moves on this path.
type UpdateProfileRequest struct {
	ID     string
	Fields map[string]string
}

// ListProfilesRequest paginates the profile listing.
type ListProfilesRequest struct {
	Skip  int
	Limit int
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Normalize clamps pagination parameters to sane values.
func (r *ListProfilesRequest) Normalize() {
	if r.Skip < 0 {
		r.Skip = 0
	}
	if r.Limit <= 0 {
		r.Limit = defaultListLimit
	}
	if r.Limit > maxListLimit {
		r.Limit = maxListLimit
	}
}

// OnboardingTurnRequest is one inbound conversation turn.
type OnboardingTurnRequest struct {
	UserID string `json:"user_id"`
	Input  string `json:"input,omitempty"`
}

// OnboardingTurnResponse is the outward reply for one turn.
type OnboardingTurnResponse struct {
	Response string `json:"response"`
	UserID   string `json:"user_id"`
}

// Export formats for the profile summary.
type ExportFormat string

const (
	FormatMarkdown ExportFormat = "md"
	FormatPDF      ExportFormat = "pdf"
	FormatDOCX     ExportFormat = "docx"
)
