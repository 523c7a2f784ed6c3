package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLicenseValidity(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	t.Run("trialing license uses trial end date", func(t *testing.T) {
		lic := &License{Status: LicenseStatusTrialing, TrialEndsAt: &future, EndsAt: &past}
		assert.True(t, lic.ValidAt(now))
	})

	t.Run("trialing license with past trial end is invalid", func(t *testing.T) {
		lic := &License{Status: LicenseStatusTrialing, TrialEndsAt: &past, EndsAt: &future}
		assert.False(t, lic.ValidAt(now))
	})

	t.Run("active license with nil end date never expires", func(t *testing.T) {
		lic := &License{Status: LicenseStatusActive}
		assert.True(t, lic.ValidAt(now))
	})

	t.Run("active license with past end date is invalid", func(t *testing.T) {
		lic := &License{Status: LicenseStatusActive, EndsAt: &past}
		assert.False(t, lic.ValidAt(now))
	})

	t.Run("trialing license with nil trial end never expires", func(t *testing.T) {
		lic := &License{Status: LicenseStatusTrialing, EndsAt: &past}
		assert.True(t, lic.ValidAt(now))
	})
}

func TestNormalizeFeatures(t *testing.T) {
	t.Run("decodes jsonb array", func(t *testing.T) {
		features, err := NormalizeFeatures(json.RawMessage(`["dashboard_access", "work_orders_management"]`))
		require.NoError(t, err)
		assert.Equal(t, []string{"dashboard_access", "work_orders_management"}, features)
	})

	t.Run("decodes legacy string-encoded array", func(t *testing.T) {
		features, err := NormalizeFeatures(json.RawMessage(`"[\"dashboard_access\"]"`))
		require.NoError(t, err)
		assert.Equal(t, []string{"dashboard_access"}, features)
	})

	t.Run("empty input yields empty list", func(t *testing.T) {
		features, err := NormalizeFeatures(nil)
		require.NoError(t, err)
		assert.Empty(t, features)
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		_, err := NormalizeFeatures(json.RawMessage(`{"not": "a list"}`))
		assert.Error(t, err)
	})

	t.Run("rejects string not containing an array", func(t *testing.T) {
		_, err := NormalizeFeatures(json.RawMessage(`"dashboard_access"`))
		assert.Error(t, err)
	})
}

func TestResolvedLicenseHasFeature(t *testing.T) {
	t.Run("nil license grants nothing", func(t *testing.T) {
		var r *ResolvedLicense
		assert.False(t, r.HasFeature("dashboard_access"))
	})

	t.Run("listed feature is granted", func(t *testing.T) {
		r := &ResolvedLicense{Features: []string{"dashboard_access"}}
		assert.True(t, r.HasFeature("dashboard_access"))
		assert.False(t, r.HasFeature("work_orders_management"))
	})

	t.Run("admin sentinel grants every feature", func(t *testing.T) {
		r := &ResolvedLicense{Features: []string{AdminFeature}}
		assert.True(t, r.HasFeature("anything_at_all"))
	})
}

func TestRoleRequiresCompany(t *testing.T) {
	assert.True(t, RoleCompanyAdmin.RequiresCompany())
	assert.True(t, RoleCompanyTechnician.RequiresCompany())
	assert.True(t, RoleCompanyViewer.RequiresCompany())
	assert.False(t, RoleAdmin.RequiresCompany())
	assert.False(t, RoleClient.RequiresCompany())
}
