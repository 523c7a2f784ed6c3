package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gearbase/cmms-server-go/internal/audit"
	"github.com/gearbase/cmms-server-go/internal/authflow"
	apperrors "github.com/gearbase/cmms-server-go/internal/errors"
	"github.com/gearbase/cmms-server-go/internal/middleware"
	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/service"
	"github.com/gearbase/cmms-server-go/internal/util"
)

type CompanyHandler struct {
	companyService *service.CompanyService
	resolver       *authflow.Resolver
}

func NewCompanyHandler(companyService *service.CompanyService, resolver *authflow.Resolver) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
		resolver:       resolver,
	}
}

func (h *CompanyHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListMemberships)
	r.Post("/", h.Create)
	r.Post("/{companyID}/select", h.Select)

	return r
}

// GET /v1/companies
func (h *CompanyHandler) ListMemberships(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	memberships, err := h.companyService.ListMemberships(r.Context(), session.UserID)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"memberships": memberships})
}

type createCompanyRequest struct {
	Name string `json:"name"`
}

// POST /v1/companies
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	var req createCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	company, err := h.companyService.CreateCompany(r.Context(), session.UserID, req.Name)
	if err != nil {
		handleError(w, err)
		return
	}

	// Owning a new company can change the aggregate state, e.g. resolving
	// a pending company selection.
	h.resolver.Dispatch(r.Context(), model.SessionEvent{
		Type:   model.EventUserUpdated,
		UserID: session.UserID,
	})

	writeJSON(w, http.StatusCreated, company)
}

// POST /v1/companies/{companyID}/select
func (h *CompanyHandler) Select(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	companyID := chi.URLParam(r, "companyID")
	if !util.IsValidUUID(companyID) {
		handleError(w, apperrors.InvalidInput("companyID", "not a valid id"))
		return
	}

	snapshot, err := h.resolver.SelectCompany(r.Context(), session.UserID, companyID)
	if err != nil {
		audit.LogFromRequest(r, audit.Event{
			Type:      audit.EventCompanyDenied,
			UserID:    session.UserID,
			CompanyID: companyID,
		})
		handleError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:      audit.EventCompanySwitch,
		UserID:    session.UserID,
		CompanyID: companyID,
	})
	writeJSON(w, http.StatusOK, snapshot)
}
