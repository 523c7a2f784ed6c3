package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gearbase/cmms-server-go/internal/middleware"
	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/service"
)

type ServiceRequestHandler struct {
	requestService *service.ServiceRequestService
}

func NewServiceRequestHandler(requestService *service.ServiceRequestService) *ServiceRequestHandler {
	return &ServiceRequestHandler{requestService: requestService}
}

func (h *ServiceRequestHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{requestID}", h.Get)
	r.Post("/{requestID}/status", h.UpdateStatus)
	r.Post("/{requestID}/convert", h.Convert)

	return r
}

// GET /v1/service-requests
func (h *ServiceRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	pagination := ParsePagination(r)

	items, err := h.requestService.List(r.Context(), currentCompanyID(r), pagination.Limit, pagination.Offset)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"serviceRequests": items})
}

type createServiceRequestRequest struct {
	EquipmentID *string `json:"equipmentId"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// POST /v1/service-requests
func (h *ServiceRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	var req createServiceRequestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	request, err := h.requestService.Create(r.Context(), model.CreateServiceRequestParams{
		CompanyID:   currentCompanyID(r),
		EquipmentID: req.EquipmentID,
		Title:       req.Title,
		Description: req.Description,
		RequestedBy: session.UserID,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, request)
}

// GET /v1/service-requests/{requestID}
func (h *ServiceRequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	request, err := h.requestService.Get(r.Context(), chi.URLParam(r, "requestID"), currentCompanyID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, request)
}

type updateRequestStatusRequest struct {
	Status model.ServiceRequestStatus `json:"status"`
}

// POST /v1/service-requests/{requestID}/status
func (h *ServiceRequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateRequestStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	request, err := h.requestService.UpdateStatus(r.Context(), chi.URLParam(r, "requestID"), currentCompanyID(r), req.Status)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, request)
}

// POST /v1/service-requests/{requestID}/convert
func (h *ServiceRequestHandler) Convert(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	workOrder, err := h.requestService.Convert(r.Context(), chi.URLParam(r, "requestID"), currentCompanyID(r), session.UserID)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, workOrder)
}
