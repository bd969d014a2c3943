package profile

import "github.com/futig/onboarding-backend/internal/entity"

// ProfileView is the wire shape of a profile. The "uid" key is kept for
// compatibility with existing API consumers.
type ProfileView struct {
	UID            string `json:"uid"`
	FirstName      string `json:"firstname,omitempty"`
	LastName       string `json:"lastname,omitempty"`
	Title          string `json:"title,omitempty"`
	Company        string `json:"company,omitempty"`
	CompanySize    string `json:"company_size,omitempty"`
	JobFunction    string `json:"job_function,omitempty"`
	JobTitle       string `json:"job_title,omitempty"`
	HeardAboutUs   string `json:"heard_about_us,omitempty"`
	OnboardingStep int    `json:"onboarding_step"`
}

func toProfileView(p *entity.Profile) *ProfileView {
	return &ProfileView{
		UID:            p.ID,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Title:          p.Title,
		Company:        p.Company,
		CompanySize:    p.CompanySize,
		JobFunction:    p.JobFunction,
		JobTitle:       p.JobTitle,
		HeardAboutUs:   p.HeardAboutUs,
		OnboardingStep: p.OnboardingStep,
	}
}
