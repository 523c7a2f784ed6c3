package model

import (
	"time"
)

type ServiceRequest struct {
	ID          string               `db:"id" json:"id"`
	CompanyID   string               `db:"company_id" json:"companyId"`
	EquipmentID *string              `db:"equipment_id" json:"equipmentId,omitempty"`
	Title       string               `db:"title" json:"title"`
	Description *string              `db:"description" json:"description,omitempty"`
	Status      ServiceRequestStatus `db:"status" json:"status"`
	RequestedBy string               `db:"requested_by" json:"requestedBy"`
	WorkOrderID *string              `db:"work_order_id" json:"workOrderId,omitempty"`
	CreatedAt   time.Time            `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time            `db:"updated_at" json:"updatedAt"`
}

type CreateServiceRequestParams struct {
	CompanyID   string
	EquipmentID *string
	Title       string
	Description *string
	RequestedBy string
}
