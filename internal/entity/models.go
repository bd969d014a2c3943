package entity

import "time"

// Profile is the per-user record collected during onboarding.
// All attribute fields are optional and empty until collected
// (either by the onboarding engine or by a direct update).
type Profile struct {
	ID             string
	FirstName      string
	LastName       string
	Title          string
	Company        string
	CompanySize    string
	JobFunction    string
	JobTitle       string
	HeardAboutUs   string
	OnboardingStep int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Canonical attribute names used on the wire and in step definitions.
const (
	FieldFirstName    = "firstname"
	FieldLastName     = "lastname"
	FieldTitle        = "title"
	FieldCompany      = "company"
	FieldCompanySize  = "company_size"
	FieldJobFunction  = "job_function"
	FieldJobTitle     = "job_title"
	FieldHeardAboutUs = "heard_about_us"
)

// ProfileFields lists every settable attribute. Anything outside this
// set is rejected with ErrUnknownField before touching storage.
var ProfileFields = []string{
	FieldFirstName,
	FieldLastName,
	FieldTitle,
	FieldCompany,
	FieldCompanySize,
	FieldJobFunction,
	FieldJobTitle,
	FieldHeardAboutUs,
}

// IsProfileField reports whether name is one of the fixed attributes.
func IsProfileField(name string) bool {
	for _, f := range ProfileFields {
		if f == name {
			return true
		}
	}
	return false
}

// Field returns the value of the named attribute.
func (p *Profile) Field(name string) (string, error) {
	switch name {
	case FieldFirstName:
		return p.FirstName, nil
	case FieldLastName:
		return p.LastName, nil
	case FieldTitle:
		return p.Title, nil
	case FieldCompany:
		return p.Company, nil
	case FieldCompanySize:
		return p.CompanySize, nil
	case FieldJobFunction:
		return p.JobFunction, nil
	case FieldJobTitle:
		return p.JobTitle, nil
	case FieldHeardAboutUs:
		return p.HeardAboutUs, nil
	default:
		return "", ErrUnknownField
	}
}

// SetField assigns the named attribute. Unknown names fail with
// ErrUnknownField; keys are never reflected onto the struct.
func (p *Profile) SetField(name, value string) error {
	switch name {
	case FieldFirstName:
		p.FirstName = value
	case FieldLastName:
		p.LastName = value
	case FieldTitle:
		p.Title = value
	case FieldCompany:
		p.Company = value
	case FieldCompanySize:
		p.CompanySize = value
	case FieldJobFunction:
		p.JobFunction = value
	case FieldJobTitle:
		p.JobTitle = value
	case FieldHeardAboutUs:
		p.HeardAboutUs = value
	default:
		return ErrUnknownField
	}
	return nil
}
