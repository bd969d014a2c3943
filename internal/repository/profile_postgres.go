package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/onboarding-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository defines the interface for profile persistence
type ProfileRepository interface {
	Get(ctx context.Context, id string) (*entity.Profile, error)
	List(ctx context.Context, skip, limit int) ([]*entity.Profile, error)
	Create(ctx context.Context, profile entity.Profile) (*entity.Profile, error)
	UpdateFields(ctx context.Context, id string, fields map[string]string) (*entity.Profile, error)
	SetField(ctx context.Context, id, field, value string) error
	AdvanceStep(ctx context.Context, id string) error
	SaveAnswer(ctx context.Context, id, field, value string, expectedStep int) error
}

var _ ProfileRepository = &ProfilePostgres{}

// fieldColumns is the allow-list mapping attribute names to columns.
// Anything not in this map never reaches a query.
var fieldColumns = map[string]string{
	entity.FieldFirstName:    "firstname",
	entity.FieldLastName:     "lastname",
	entity.FieldTitle:        "title",
	entity.FieldCompany:      "company",
	entity.FieldCompanySize:  "company_size",
	entity.FieldJobFunction:  "job_function",
	entity.FieldJobTitle:     "job_title",
	entity.FieldHeardAboutUs: "heard_about_us",
}

const profileColumns = `id, firstname, lastname, title, company, company_size,
	job_function, job_title, heard_about_us, onboarding_step, created_at, updated_at`

// uniqueViolation is the Postgres error code for duplicate primary keys.
const uniqueViolation = "23505"

// ProfilePostgres implements ProfileRepository using PostgreSQL
type ProfilePostgres struct {
	db *pgxpool.Pool
}

func NewProfilePostgres(db *pgxpool.Pool) *ProfilePostgres {
	return &ProfilePostgres{db: db}
}

func (r *ProfilePostgres) Get(ctx context.Context, id string) (*entity.Profile, error) {
	profileID, err := parseProfileID(id)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`,
		profileID,
	)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return profile, nil
}

func (r *ProfilePostgres) List(ctx context.Context, skip, limit int) ([]*entity.Profile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at, id LIMIT $1 OFFSET $2`,
		limit, skip,
	)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*entity.Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	return profiles, nil
}

func (r *ProfilePostgres) Create(ctx context.Context, profile entity.Profile) (*entity.Profile, error) {
	profileID, err := parseProfileID(profile.ID)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO profiles (id, firstname, lastname, title, company, company_size,
			job_function, job_title, heard_about_us)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+profileColumns,
		profileID,
		nullText(profile.FirstName),
		nullText(profile.LastName),
		nullText(profile.Title),
		nullText(profile.Company),
		nullText(profile.CompanySize),
		nullText(profile.JobFunction),
		nullText(profile.JobTitle),
		nullText(profile.HeardAboutUs),
	)

	created, err := scanProfile(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, entity.ErrProfileExists
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	return created, nil
}

func (r *ProfilePostgres) UpdateFields(ctx context.Context, id string, fields map[string]string) (*entity.Profile, error) {
	profileID, err := parseProfileID(id)
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", entity.ErrInvalidParameter)
	}

	setClauses := make([]string, 0, len(fields)+1)
	args := []any{profileID}
	for field, value := range fields {
		column, ok := fieldColumns[field]
		if !ok {
			return nil, fmt.Errorf("%w: %q", entity.ErrUnknownField, field)
		}
		args = append(args, nullText(value))
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	setClauses = append(setClauses, "updated_at = now()")

	query := `UPDATE profiles SET ` + strings.Join(setClauses, ", ") +
		` WHERE id = $1 RETURNING ` + profileColumns

	row := r.db.QueryRow(ctx, query, args...)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrProfileNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return profile, nil
}

func (r *ProfilePostgres) SetField(ctx context.Context, id, field, value string) error {
	profileID, err := parseProfileID(id)
	if err != nil {
		return err
	}

	column, ok := fieldColumns[field]
	if !ok {
		return fmt.Errorf("%w: %q", entity.ErrUnknownField, field)
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET `+column+` = $2, updated_at = now() WHERE id = $1`,
		profileID, nullText(value),
	)
	if err != nil {
		return fmt.Errorf("set profile field: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return entity.ErrProfileNotFound
	}

	return nil
}

func (r *ProfilePostgres) AdvanceStep(ctx context.Context, id string) error {
	profileID, err := parseProfileID(id)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET onboarding_step = onboarding_step + 1, updated_at = now() WHERE id = $1`,
		profileID,
	)
	if err != nil {
		return fmt.Errorf("advance onboarding step: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return entity.ErrProfileNotFound
	}

	return nil
}

// SaveAnswer stores a validated answer and advances the progress marker
// as one conditional UPDATE, guarded by the step the caller read. Zero
// rows affected with an existing profile means another turn advanced
// first; the caller sees ErrStepConflict and nothing was written.
func (r *ProfilePostgres) SaveAnswer(ctx context.Context, id, field, value string, expectedStep int) error {
	profileID, err := parseProfileID(id)
	if err != nil {
		return err
	}

	column, ok := fieldColumns[field]
	if !ok {
		return fmt.Errorf("%w: %q", entity.ErrUnknownField, field)
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE profiles
		 SET `+column+` = $2, onboarding_step = onboarding_step + 1, updated_at = now()
		 WHERE id = $1 AND onboarding_step = $3`,
		profileID, nullText(value), expectedStep,
	)
	if err != nil {
		return fmt.Errorf("save answer: %w", err)
	}

	if tag.RowsAffected() == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return entity.ErrStepConflict
	}

	return nil
}

func parseProfileID(id string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("%w: profile id %q is not a UUID", entity.ErrInvalidParameter, id)
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

func nullText(value string) pgtype.Text {
	return pgtype.Text{String: value, Valid: value != ""}
}
