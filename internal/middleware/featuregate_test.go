package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/repository"
	"github.com/gearbase/cmms-server-go/internal/service"
)

type stubLicenseRepo struct {
	license *model.License
}

func (m *stubLicenseRepo) FindByID(ctx context.Context, id string) (*model.License, error) {
	return nil, nil
}

func (m *stubLicenseRepo) FindCurrentForUser(ctx context.Context, userID string, companyID *string) (*model.License, error) {
	return m.license, nil
}

func (m *stubLicenseRepo) Create(ctx context.Context, params model.CreateLicenseParams) (*model.License, error) {
	return nil, nil
}

func (m *stubLicenseRepo) UpdateStatus(ctx context.Context, id string, status model.LicenseStatus) error {
	return nil
}

func (m *stubLicenseRepo) MarkExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *stubLicenseRepo) WithTx(tx *sqlx.Tx) repository.LicenseRepository {
	return m
}

type stubLicenseTypeRepo struct {
	plan *model.LicenseType
}

func (m *stubLicenseTypeRepo) FindByID(ctx context.Context, id string) (*model.LicenseType, error) {
	return m.plan, nil
}

func (m *stubLicenseTypeRepo) List(ctx context.Context) ([]model.LicenseType, error) {
	return nil, nil
}

func (m *stubLicenseTypeRepo) WithTx(tx *sqlx.Tx) repository.LicenseTypeRepository {
	return m
}

func requestWithProfile(profile *model.Profile) *http.Request {
	req := httptest.NewRequest("GET", "/equipments", nil)
	ctx := context.WithValue(req.Context(), ProfileContextKey, profile)
	return req.WithContext(ctx)
}

func TestFeatureGate(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("licensed feature passes", func(t *testing.T) {
		end := time.Now().Add(24 * time.Hour)
		licenses := service.NewLicenseService(
			&stubLicenseRepo{license: &model.License{
				ID:            "lic-1",
				LicenseTypeID: "plan-1",
				Status:        model.LicenseStatusActive,
				EndsAt:        &end,
			}},
			&stubLicenseTypeRepo{plan: &model.LicenseType{
				ID:       "plan-1",
				Name:     "Starter",
				Features: json.RawMessage(`["equipment_management"]`),
			}},
		)
		gate := NewFeatureGate(licenses)

		rec := httptest.NewRecorder()
		gate.Require("equipment_management")(okHandler).ServeHTTP(rec,
			requestWithProfile(&model.Profile{ID: "user-1", Role: model.RoleCompanyAdmin}))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unlicensed feature is denied", func(t *testing.T) {
		end := time.Now().Add(24 * time.Hour)
		licenses := service.NewLicenseService(
			&stubLicenseRepo{license: &model.License{
				ID:            "lic-1",
				LicenseTypeID: "plan-1",
				Status:        model.LicenseStatusActive,
				EndsAt:        &end,
			}},
			&stubLicenseTypeRepo{plan: &model.LicenseType{
				ID:       "plan-1",
				Name:     "Starter",
				Features: json.RawMessage(`["equipment_management"]`),
			}},
		)
		gate := NewFeatureGate(licenses)

		rec := httptest.NewRecorder()
		gate.Require("work_orders_management")(okHandler).ServeHTTP(rec,
			requestWithProfile(&model.Profile{ID: "user-1", Role: model.RoleCompanyAdmin}))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("denial emits audit event", func(t *testing.T) {
		end := time.Now().Add(24 * time.Hour)
		licenses := service.NewLicenseService(
			&stubLicenseRepo{license: &model.License{
				ID:            "lic-1",
				LicenseTypeID: "plan-1",
				Status:        model.LicenseStatusActive,
				EndsAt:        &end,
			}},
			&stubLicenseTypeRepo{plan: &model.LicenseType{
				ID:       "plan-1",
				Name:     "Starter",
				Features: json.RawMessage(`["equipment_management"]`),
			}},
		)
		gate := NewFeatureGate(licenses)

		var logBuf bytes.Buffer
		origLogger := log.Logger
		log.Logger = zerolog.New(&logBuf)
		defer func() { log.Logger = origLogger }()

		rec := httptest.NewRecorder()
		gate.Require("work_orders_management")(okHandler).ServeHTTP(rec,
			requestWithProfile(&model.Profile{ID: "user-1", Role: model.RoleCompanyAdmin}))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, logBuf.String(), `"event_type":"feature_denied"`)
		assert.Contains(t, logBuf.String(), `"feature":"work_orders_management"`)
	})

	t.Run("no license at all", func(t *testing.T) {
		licenses := service.NewLicenseService(&stubLicenseRepo{}, &stubLicenseTypeRepo{})
		gate := NewFeatureGate(licenses)

		rec := httptest.NewRecorder()
		gate.Require("equipment_management")(okHandler).ServeHTTP(rec,
			requestWithProfile(&model.Profile{ID: "user-1", Role: model.RoleCompanyAdmin}))

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	})

	t.Run("platform admin passes every gate", func(t *testing.T) {
		licenses := service.NewLicenseService(&stubLicenseRepo{}, &stubLicenseTypeRepo{})
		gate := NewFeatureGate(licenses)

		rec := httptest.NewRecorder()
		gate.Require("anything")(okHandler).ServeHTTP(rec,
			requestWithProfile(&model.Profile{ID: "admin-1", Role: model.RoleAdmin}))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no profile in context", func(t *testing.T) {
		licenses := service.NewLicenseService(&stubLicenseRepo{}, &stubLicenseTypeRepo{})
		gate := NewFeatureGate(licenses)

		rec := httptest.NewRecorder()
		gate.Require("equipment_management")(okHandler).ServeHTTP(rec, httptest.NewRequest("GET", "/equipments", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireCompany(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("passes with current company", func(t *testing.T) {
		companyID := "co-1"
		rec := httptest.NewRecorder()
		RequireCompany(okHandler).ServeHTTP(rec,
			requestWithProfile(&model.Profile{ID: "user-1", CurrentCompanyID: &companyID}))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("conflict without current company", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireCompany(okHandler).ServeHTTP(rec,
			requestWithProfile(&model.Profile{ID: "user-1"}))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
