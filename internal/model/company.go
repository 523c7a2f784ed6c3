package model

import (
	"time"
)

type Company struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	OwnerID   string    `db:"owner_id" json:"ownerId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type CreateCompanyParams struct {
	Name    string
	OwnerID string
}

// CompanyMembership is a read-only view of the companies a user belongs to,
// joined with the user's role inside each. Not independently persisted;
// recomputed on demand.
type CompanyMembership struct {
	CompanyID   string    `db:"company_id" json:"companyId"`
	CompanyName string    `db:"company_name" json:"companyName"`
	OwnerID     string    `db:"owner_id" json:"ownerId"`
	Role        Role      `db:"role" json:"roleInCompany"`
	JoinedAt    time.Time `db:"joined_at" json:"joinedAt"`
}
