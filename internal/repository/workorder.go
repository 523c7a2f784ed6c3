package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/gearbase/cmms-server-go/internal/database"
	"github.com/gearbase/cmms-server-go/internal/model"
)

type WorkOrderRepository interface {
	FindByID(ctx context.Context, id string) (*model.WorkOrder, error)
	FindByCompanyID(ctx context.Context, companyID string, limit, offset int) ([]model.WorkOrder, error)
	CountByCompanyIDAndStatus(ctx context.Context, companyID string, status model.WorkOrderStatus) (int, error)
	Create(ctx context.Context, params model.CreateWorkOrderParams) (*model.WorkOrder, error)
	Update(ctx context.Context, id string, params model.UpdateWorkOrderParams) (*model.WorkOrder, error)
	Delete(ctx context.Context, id string) error
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) WorkOrderRepository
}

type workOrderRepo struct {
	db database.DBTX
}

func NewWorkOrderRepository(db *sqlx.DB) WorkOrderRepository {
	return &workOrderRepo{db: db}
}

func (r *workOrderRepo) WithTx(tx *sqlx.Tx) WorkOrderRepository {
	return &workOrderRepo{db: tx}
}

func (r *workOrderRepo) FindByID(ctx context.Context, id string) (*model.WorkOrder, error) {
	var workOrder model.WorkOrder
	err := r.db.GetContext(ctx, &workOrder, `
		SELECT * FROM work_orders WHERE id = $1
	`, id)
	return HandleNotFound(&workOrder, err)
}

func (r *workOrderRepo) FindByCompanyID(ctx context.Context, companyID string, limit, offset int) ([]model.WorkOrder, error) {
	workOrders := []model.WorkOrder{}
	err := r.db.SelectContext(ctx, &workOrders, `
		SELECT * FROM work_orders
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	return workOrders, nil
}

func (r *workOrderRepo) CountByCompanyIDAndStatus(ctx context.Context, companyID string, status model.WorkOrderStatus) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM work_orders
		WHERE company_id = $1 AND status = $2
	`, companyID, status)
	return count, err
}

func (r *workOrderRepo) Create(ctx context.Context, params model.CreateWorkOrderParams) (*model.WorkOrder, error) {
	var workOrder model.WorkOrder
	err := r.db.GetContext(ctx, &workOrder, `
		INSERT INTO work_orders (company_id, equipment_id, title, description, priority, assigned_to, due_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING *
	`, params.CompanyID, params.EquipmentID, params.Title, params.Description,
		params.Priority, params.AssignedTo, params.DueAt, params.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &workOrder, nil
}

func (r *workOrderRepo) Update(ctx context.Context, id string, params model.UpdateWorkOrderParams) (*model.WorkOrder, error) {
	var workOrder model.WorkOrder
	err := r.db.GetContext(ctx, &workOrder, `
		UPDATE work_orders SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			status = COALESCE($4, status),
			priority = COALESCE($5, priority),
			assigned_to = COALESCE($6, assigned_to),
			due_at = COALESCE($7, due_at),
			updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, id, params.Title, params.Description, params.Status, params.Priority,
		params.AssignedTo, params.DueAt)
	return HandleNotFound(&workOrder, err)
}

func (r *workOrderRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM work_orders WHERE id = $1
	`, id)
	return err
}
