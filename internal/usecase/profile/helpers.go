package profile

import (
	"fmt"
	"strings"

	"github.com/futig/onboarding-backend/internal/entity"
)

var summaryLabels = map[string]string{
	entity.FieldFirstName:    "First name",
	entity.FieldLastName:     "Last name",
	entity.FieldTitle:        "Title",
	entity.FieldCompany:      "Company",
	entity.FieldCompanySize:  "Company size",
	entity.FieldJobFunction:  "Job function",
	entity.FieldJobTitle:     "Job title",
	entity.FieldHeardAboutUs: "Heard about us",
}

// renderSummary produces the plain-text body handed to a formatter.
// Unset fields are listed as em-dash placeholders so the export always
// shows the full schema.
func renderSummary(p *entity.Profile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Profile %s\n\n", p.ID)

	for _, field := range entity.ProfileFields {
		value, _ := p.Field(field)
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "%s: %s\n", summaryLabels[field], value)
	}

	fmt.Fprintf(&b, "\nOnboarding step: %d\n", p.OnboardingStep)

	return b.String()
}
