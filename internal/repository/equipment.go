package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/gearbase/cmms-server-go/internal/database"
	"github.com/gearbase/cmms-server-go/internal/model"
)

type EquipmentRepository interface {
	FindByID(ctx context.Context, id string) (*model.Equipment, error)
	FindByCompanyID(ctx context.Context, companyID string, limit, offset int) ([]model.Equipment, error)
	CountByCompanyID(ctx context.Context, companyID string) (int, error)
	Create(ctx context.Context, params model.CreateEquipmentParams) (*model.Equipment, error)
	Update(ctx context.Context, id string, params model.UpdateEquipmentParams) (*model.Equipment, error)
	Delete(ctx context.Context, id string) error
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) EquipmentRepository
}

type equipmentRepo struct {
	db database.DBTX
}

func NewEquipmentRepository(db *sqlx.DB) EquipmentRepository {
	return &equipmentRepo{db: db}
}

func (r *equipmentRepo) WithTx(tx *sqlx.Tx) EquipmentRepository {
	return &equipmentRepo{db: tx}
}

func (r *equipmentRepo) FindByID(ctx context.Context, id string) (*model.Equipment, error) {
	var equipment model.Equipment
	err := r.db.GetContext(ctx, &equipment, `
		SELECT * FROM equipments WHERE id = $1
	`, id)
	return HandleNotFound(&equipment, err)
}

func (r *equipmentRepo) FindByCompanyID(ctx context.Context, companyID string, limit, offset int) ([]model.Equipment, error) {
	equipments := []model.Equipment{}
	err := r.db.SelectContext(ctx, &equipments, `
		SELECT * FROM equipments
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	return equipments, nil
}

func (r *equipmentRepo) CountByCompanyID(ctx context.Context, companyID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM equipments WHERE company_id = $1
	`, companyID)
	return count, err
}

func (r *equipmentRepo) Create(ctx context.Context, params model.CreateEquipmentParams) (*model.Equipment, error) {
	var equipment model.Equipment
	err := r.db.GetContext(ctx, &equipment, `
		INSERT INTO equipments (company_id, name, serial_number, location)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, params.CompanyID, params.Name, params.SerialNumber, params.Location)
	if err != nil {
		return nil, err
	}
	return &equipment, nil
}

func (r *equipmentRepo) Update(ctx context.Context, id string, params model.UpdateEquipmentParams) (*model.Equipment, error) {
	var equipment model.Equipment
	err := r.db.GetContext(ctx, &equipment, `
		UPDATE equipments SET
			name = COALESCE($2, name),
			serial_number = COALESCE($3, serial_number),
			location = COALESCE($4, location),
			status = COALESCE($5, status),
			updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, id, params.Name, params.SerialNumber, params.Location, params.Status)
	return HandleNotFound(&equipment, err)
}

func (r *equipmentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM equipments WHERE id = $1
	`, id)
	return err
}
