package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/gearbase/cmms-server-go/internal/errors"
	"github.com/gearbase/cmms-server-go/internal/middleware"
	"github.com/gearbase/cmms-server-go/internal/service"
)

type LicenseHandler struct {
	licenseService *service.LicenseService
}

func NewLicenseHandler(licenseService *service.LicenseService) *LicenseHandler {
	return &LicenseHandler{licenseService: licenseService}
}

func (h *LicenseHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/current", h.Current)
	r.Get("/plans", h.ListPlans)
	r.Post("/trial", h.StartTrial)

	return r
}

// GET /v1/licenses/current
func (h *LicenseHandler) Current(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		handleError(w, apperrors.ProfileUnavailable())
		return
	}

	resolved, err := h.licenseService.ResolveActive(r.Context(), profile.ID, profile.CurrentCompanyID, profile.Role)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"license": resolved})
}

// GET /v1/licenses/plans
func (h *LicenseHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.licenseService.ListPlans(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"plans": plans})
}

type startTrialRequest struct {
	PlanID    string `json:"planId"`
	TrialDays int    `json:"trialDays"`
}

// POST /v1/licenses/trial
func (h *LicenseHandler) StartTrial(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		handleError(w, apperrors.ProfileUnavailable())
		return
	}

	var req startTrialRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PlanID == "" {
		handleError(w, apperrors.MissingRequired("planId"))
		return
	}
	if req.TrialDays <= 0 || req.TrialDays > 90 {
		req.TrialDays = 14
	}

	license, err := h.licenseService.StartTrial(r.Context(), profile.ID, profile.CurrentCompanyID, req.PlanID, req.TrialDays)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, license)
}
