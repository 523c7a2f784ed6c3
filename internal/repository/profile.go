package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/gearbase/cmms-server-go/internal/database"
	"github.com/gearbase/cmms-server-go/internal/model"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*model.Profile, error)
	Create(ctx context.Context, params model.CreateProfileParams) (*model.Profile, error)
	Update(ctx context.Context, id string, params model.UpdateProfileParams) (*model.Profile, error)
	SetCurrentCompany(ctx context.Context, id string, companyID string) error
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) ProfileRepository
}

type profileRepo struct {
	db database.DBTX
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) WithTx(tx *sqlx.Tx) ProfileRepository {
	return &profileRepo{db: tx}
}

func (r *profileRepo) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, `
		SELECT * FROM profiles WHERE id = $1
	`, id)
	return HandleNotFound(&profile, err)
}

func (r *profileRepo) Create(ctx context.Context, params model.CreateProfileParams) (*model.Profile, error) {
	var profile model.Profile
	// The no-op update keeps RETURNING populated when the row already
	// exists, so a duplicate provision reads back the existing profile.
	err := r.db.GetContext(ctx, &profile, `
		INSERT INTO profiles (id, full_name, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
		RETURNING *
	`, params.ID, params.FullName, params.Role)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) Update(ctx context.Context, id string, params model.UpdateProfileParams) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, `
		UPDATE profiles SET
			full_name = COALESCE($2, full_name),
			avatar_url = COALESCE($3, avatar_url),
			updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, id, params.FullName, params.AvatarURL)
	return HandleNotFound(&profile, err)
}

func (r *profileRepo) SetCurrentCompany(ctx context.Context, id string, companyID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE profiles SET
			current_company_id = $2,
			updated_at = NOW()
		WHERE id = $1
	`, id, companyID)
	return err
}
