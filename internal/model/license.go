package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type License struct {
	ID            string        `db:"id" json:"id"`
	UserID        string        `db:"user_id" json:"userId"`
	CompanyID     *string       `db:"company_id" json:"companyId,omitempty"`
	LicenseTypeID string        `db:"license_type_id" json:"licenseTypeId"`
	Status        LicenseStatus `db:"status" json:"status"`
	StartsAt      time.Time     `db:"starts_at" json:"startsAt"`
	EndsAt        *time.Time    `db:"ends_at" json:"endsAt,omitempty"`
	TrialEndsAt   *time.Time    `db:"trial_ends_at" json:"trialEndsAt,omitempty"`
	Notes         *string       `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updatedAt"`
}

// ExpiryDate returns the date that decides this license's validity: the
// trial end for trialing licenses, the end date for everything else. A nil
// result means no expiry.
func (l *License) ExpiryDate() *time.Time {
	if l.Status == LicenseStatusTrialing {
		return l.TrialEndsAt
	}
	return l.EndsAt
}

// ValidAt reports whether the license grants access at the given instant.
// A missing expiry date means the license never expires.
func (l *License) ValidAt(now time.Time) bool {
	expiry := l.ExpiryDate()
	if expiry == nil {
		return true
	}
	return expiry.After(now)
}

type LicenseType struct {
	ID                string          `db:"id" json:"id"`
	Name              string          `db:"name" json:"name"`
	Features          json.RawMessage `db:"features" json:"features"`
	MonthlyPriceCents int             `db:"monthly_price_cents" json:"monthlyPriceCents"`
	YearlyPriceCents  int             `db:"yearly_price_cents" json:"yearlyPriceCents"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
}

type CreateLicenseParams struct {
	UserID        string
	CompanyID     *string
	LicenseTypeID string
	Status        LicenseStatus
	StartsAt      time.Time
	EndsAt        *time.Time
	TrialEndsAt   *time.Time
	Notes         *string
}

// NormalizeFeatures decodes a plan's feature list. The column is jsonb and
// should hold an array of strings, but legacy rows sometimes hold a
// JSON-encoded string containing the array. Anything else is an error.
func NormalizeFeatures(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}

	var features []string
	if err := json.Unmarshal(raw, &features); err == nil {
		return features, nil
	}

	// Legacy shape: the array serialized into a JSON string.
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &features); err == nil {
			return features, nil
		}
	}

	return nil, fmt.Errorf("malformed feature list: %s", string(raw))
}

// AdminFeature is the sentinel feature set entry granting platform
// administrators access to everything.
const AdminFeature = "*"

// ResolvedLicense is a license enriched with its plan, ready for feature
// gating. A nil ResolvedLicense means no active entitlement.
type ResolvedLicense struct {
	License  License  `json:"license"`
	PlanName string   `json:"planName"`
	Features []string `json:"features"`
	IsActive bool     `json:"isActive"`
}

// HasFeature reports whether the resolved license includes the feature key.
// The admin sentinel grants every feature.
func (r *ResolvedLicense) HasFeature(key string) bool {
	if r == nil {
		return false
	}
	for _, f := range r.Features {
		if f == AdminFeature || f == key {
			return true
		}
	}
	return false
}
