package model

import (
	"time"
)

type Equipment struct {
	ID           string          `db:"id" json:"id"`
	CompanyID    string          `db:"company_id" json:"companyId"`
	Name         string          `db:"name" json:"name"`
	SerialNumber *string         `db:"serial_number" json:"serialNumber,omitempty"`
	Location     *string         `db:"location" json:"location,omitempty"`
	Status       EquipmentStatus `db:"status" json:"status"`
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updatedAt"`
}

type CreateEquipmentParams struct {
	CompanyID    string
	Name         string
	SerialNumber *string
	Location     *string
}

type UpdateEquipmentParams struct {
	Name         *string
	SerialNumber *string
	Location     *string
	Status       *EquipmentStatus
}
