package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/gearbase/cmms-server-go/internal/database"
	"github.com/gearbase/cmms-server-go/internal/model"
)

type LicenseTypeRepository interface {
	FindByID(ctx context.Context, id string) (*model.LicenseType, error)
	List(ctx context.Context) ([]model.LicenseType, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) LicenseTypeRepository
}

type licenseTypeRepo struct {
	db database.DBTX
}

func NewLicenseTypeRepository(db *sqlx.DB) LicenseTypeRepository {
	return &licenseTypeRepo{db: db}
}

func (r *licenseTypeRepo) WithTx(tx *sqlx.Tx) LicenseTypeRepository {
	return &licenseTypeRepo{db: tx}
}

func (r *licenseTypeRepo) FindByID(ctx context.Context, id string) (*model.LicenseType, error) {
	var licenseType model.LicenseType
	err := r.db.GetContext(ctx, &licenseType, `
		SELECT * FROM license_types WHERE id = $1
	`, id)
	return HandleNotFound(&licenseType, err)
}

func (r *licenseTypeRepo) List(ctx context.Context) ([]model.LicenseType, error) {
	licenseTypes := []model.LicenseType{}
	err := r.db.SelectContext(ctx, &licenseTypes, `
		SELECT * FROM license_types ORDER BY monthly_price_cents ASC
	`)
	if err != nil {
		return nil, err
	}
	return licenseTypes, nil
}
