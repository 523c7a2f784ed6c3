package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/gearbase/cmms-server-go/internal/database"
	"github.com/gearbase/cmms-server-go/internal/model"
)

type ServiceRequestRepository interface {
	FindByID(ctx context.Context, id string) (*model.ServiceRequest, error)
	FindByCompanyID(ctx context.Context, companyID string, limit, offset int) ([]model.ServiceRequest, error)
	CountByCompanyIDAndStatus(ctx context.Context, companyID string, status model.ServiceRequestStatus) (int, error)
	Create(ctx context.Context, params model.CreateServiceRequestParams) (*model.ServiceRequest, error)
	UpdateStatus(ctx context.Context, id string, status model.ServiceRequestStatus) error
	LinkWorkOrder(ctx context.Context, id string, workOrderID string) error
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) ServiceRequestRepository
}

type serviceRequestRepo struct {
	db database.DBTX
}

func NewServiceRequestRepository(db *sqlx.DB) ServiceRequestRepository {
	return &serviceRequestRepo{db: db}
}

func (r *serviceRequestRepo) WithTx(tx *sqlx.Tx) ServiceRequestRepository {
	return &serviceRequestRepo{db: tx}
}

func (r *serviceRequestRepo) FindByID(ctx context.Context, id string) (*model.ServiceRequest, error) {
	var request model.ServiceRequest
	err := r.db.GetContext(ctx, &request, `
		SELECT * FROM service_requests WHERE id = $1
	`, id)
	return HandleNotFound(&request, err)
}

func (r *serviceRequestRepo) FindByCompanyID(ctx context.Context, companyID string, limit, offset int) ([]model.ServiceRequest, error) {
	requests := []model.ServiceRequest{}
	err := r.db.SelectContext(ctx, &requests, `
		SELECT * FROM service_requests
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *serviceRequestRepo) CountByCompanyIDAndStatus(ctx context.Context, companyID string, status model.ServiceRequestStatus) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM service_requests
		WHERE company_id = $1 AND status = $2
	`, companyID, status)
	return count, err
}

func (r *serviceRequestRepo) Create(ctx context.Context, params model.CreateServiceRequestParams) (*model.ServiceRequest, error) {
	var request model.ServiceRequest
	err := r.db.GetContext(ctx, &request, `
		INSERT INTO service_requests (company_id, equipment_id, title, description, requested_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.CompanyID, params.EquipmentID, params.Title, params.Description, params.RequestedBy)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *serviceRequestRepo) UpdateStatus(ctx context.Context, id string, status model.ServiceRequestStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE service_requests SET
			status = $2,
			updated_at = NOW()
		WHERE id = $1
	`, id, status)
	return err
}

func (r *serviceRequestRepo) LinkWorkOrder(ctx context.Context, id string, workOrderID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE service_requests SET
			work_order_id = $2,
			status = 'converted',
			updated_at = NOW()
		WHERE id = $1
	`, id, workOrderID)
	return err
}
