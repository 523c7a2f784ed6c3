package model

import (
	"time"
)

// Profile is the application-level user record, distinct from the bare
// authentication identity in users. Provisioned asynchronously after
// signup.
type Profile struct {
	ID               string    `db:"id" json:"id"`
	FullName         string    `db:"full_name" json:"fullName"`
	Role             Role      `db:"role" json:"role"`
	AvatarURL        *string   `db:"avatar_url" json:"avatarUrl,omitempty"`
	CurrentCompanyID *string   `db:"current_company_id" json:"currentCompanyId,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

type CreateProfileParams struct {
	ID       string
	FullName string
	Role     Role
}

type UpdateProfileParams struct {
	FullName  *string
	AvatarURL *string
}
