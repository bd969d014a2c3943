package repository

import (
	"github.com/futig/onboarding-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// scanProfile reads one profiles row in profileColumns order.
func scanProfile(row pgx.Row) (*entity.Profile, error) {
	var (
		id           pgtype.UUID
		firstname    pgtype.Text
		lastname     pgtype.Text
		title        pgtype.Text
		company      pgtype.Text
		companySize  pgtype.Text
		jobFunction  pgtype.Text
		jobTitle     pgtype.Text
		heardAboutUs pgtype.Text
		step         int
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&id, &firstname, &lastname, &title, &company, &companySize,
		&jobFunction, &jobTitle, &heardAboutUs, &step, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &entity.Profile{
		ID:             uuid.UUID(id.Bytes).String(),
		FirstName:      firstname.String,
		LastName:       lastname.String,
		Title:          title.String,
		Company:        company.String,
		CompanySize:    companySize.String,
		JobFunction:    jobFunction.String,
		JobTitle:       jobTitle.String,
		HeardAboutUs:   heardAboutUs.String,
		OnboardingStep: step,
		CreatedAt:      createdAt.Time,
		UpdatedAt:      updatedAt.Time,
	}, nil
}
