package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/gearbase/cmms-server-go/internal/database"
	"github.com/gearbase/cmms-server-go/internal/model"
)

type LicenseRepository interface {
	FindByID(ctx context.Context, id string) (*model.License, error)
	// FindCurrentForUser returns the newest license for the user whose status
	// is active or trialing, optionally scoped to a company. Validity against
	// expiry dates is the caller's concern.
	FindCurrentForUser(ctx context.Context, userID string, companyID *string) (*model.License, error)
	Create(ctx context.Context, params model.CreateLicenseParams) (*model.License, error)
	UpdateStatus(ctx context.Context, id string, status model.LicenseStatus) error
	MarkExpired(ctx context.Context) (int64, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) LicenseRepository
}

type licenseRepo struct {
	db database.DBTX
}

func NewLicenseRepository(db *sqlx.DB) LicenseRepository {
	return &licenseRepo{db: db}
}

func (r *licenseRepo) WithTx(tx *sqlx.Tx) LicenseRepository {
	return &licenseRepo{db: tx}
}

func (r *licenseRepo) FindByID(ctx context.Context, id string) (*model.License, error) {
	var license model.License
	err := r.db.GetContext(ctx, &license, `
		SELECT * FROM licenses WHERE id = $1
	`, id)
	return HandleNotFound(&license, err)
}

func (r *licenseRepo) FindCurrentForUser(ctx context.Context, userID string, companyID *string) (*model.License, error) {
	var license model.License
	err := r.db.GetContext(ctx, &license, `
		SELECT * FROM licenses
		WHERE user_id = $1
		AND status IN ('active', 'trialing')
		AND ($2::uuid IS NULL OR company_id = $2)
		ORDER BY created_at DESC
		LIMIT 1
	`, userID, companyID)
	return HandleNotFound(&license, err)
}

func (r *licenseRepo) Create(ctx context.Context, params model.CreateLicenseParams) (*model.License, error) {
	var license model.License
	err := r.db.GetContext(ctx, &license, `
		INSERT INTO licenses (user_id, company_id, license_type_id, status, starts_at, ends_at, trial_ends_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING *
	`, params.UserID, params.CompanyID, params.LicenseTypeID, params.Status,
		params.StartsAt, params.EndsAt, params.TrialEndsAt, params.Notes)
	if err != nil {
		return nil, err
	}
	return &license, nil
}

func (r *licenseRepo) UpdateStatus(ctx context.Context, id string, status model.LicenseStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE licenses SET
			status = $2,
			updated_at = NOW()
		WHERE id = $1
	`, id, status)
	return err
}

// MarkExpired flips licenses whose deciding date has passed to status
// 'expired' so they stop matching FindCurrentForUser.
func (r *licenseRepo) MarkExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE licenses SET
			status = 'expired',
			updated_at = NOW()
		WHERE (status = 'trialing' AND trial_ends_at IS NOT NULL AND trial_ends_at < NOW())
		OR (status = 'active' AND ends_at IS NOT NULL AND ends_at < NOW())
	`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
