package model

import (
	"time"
)

type WorkOrder struct {
	ID          string            `db:"id" json:"id"`
	CompanyID   string            `db:"company_id" json:"companyId"`
	EquipmentID *string           `db:"equipment_id" json:"equipmentId,omitempty"`
	Title       string            `db:"title" json:"title"`
	Description *string           `db:"description" json:"description,omitempty"`
	Status      WorkOrderStatus   `db:"status" json:"status"`
	Priority    WorkOrderPriority `db:"priority" json:"priority"`
	AssignedTo  *string           `db:"assigned_to" json:"assignedTo,omitempty"`
	DueAt       *time.Time        `db:"due_at" json:"dueAt,omitempty"`
	CreatedBy   string            `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updatedAt"`
}

type CreateWorkOrderParams struct {
	CompanyID   string
	EquipmentID *string
	Title       string
	Description *string
	Priority    WorkOrderPriority
	AssignedTo  *string
	DueAt       *time.Time
	CreatedBy   string
}

type UpdateWorkOrderParams struct {
	Title       *string
	Description *string
	Status      *WorkOrderStatus
	Priority    *WorkOrderPriority
	AssignedTo  *string
	DueAt       *time.Time
}
