package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gearbase/cmms-server-go/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Summary)

	return r
}

// GET /v1/dashboard
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboardService.Summary(r.Context(), currentCompanyID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
