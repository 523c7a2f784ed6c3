package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gearbase/cmms-server-go/internal/middleware"
	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/service"
)

type WorkOrderHandler struct {
	workOrderService *service.WorkOrderService
}

func NewWorkOrderHandler(workOrderService *service.WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{workOrderService: workOrderService}
}

func (h *WorkOrderHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{workOrderID}", h.Get)
	r.Patch("/{workOrderID}", h.Update)
	r.Delete("/{workOrderID}", h.Delete)

	return r
}

// GET /v1/work-orders
func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	pagination := ParsePagination(r)

	items, err := h.workOrderService.List(r.Context(), currentCompanyID(r), pagination.Limit, pagination.Offset)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"workOrders": items})
}

type createWorkOrderRequest struct {
	EquipmentID *string                 `json:"equipmentId"`
	Title       string                  `json:"title"`
	Description *string                 `json:"description"`
	Priority    model.WorkOrderPriority `json:"priority"`
	AssignedTo  *string                 `json:"assignedTo"`
	DueAt       *time.Time              `json:"dueAt"`
}

// POST /v1/work-orders
func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	var req createWorkOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	workOrder, err := h.workOrderService.Create(r.Context(), model.CreateWorkOrderParams{
		CompanyID:   currentCompanyID(r),
		EquipmentID: req.EquipmentID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		DueAt:       req.DueAt,
		CreatedBy:   session.UserID,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, workOrder)
}

// GET /v1/work-orders/{workOrderID}
func (h *WorkOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	workOrder, err := h.workOrderService.Get(r.Context(), chi.URLParam(r, "workOrderID"), currentCompanyID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, workOrder)
}

type updateWorkOrderRequest struct {
	Title       *string                  `json:"title"`
	Description *string                  `json:"description"`
	Status      *model.WorkOrderStatus   `json:"status"`
	Priority    *model.WorkOrderPriority `json:"priority"`
	AssignedTo  *string                  `json:"assignedTo"`
	DueAt       *time.Time               `json:"dueAt"`
}

// PATCH /v1/work-orders/{workOrderID}
func (h *WorkOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateWorkOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	workOrder, err := h.workOrderService.Update(r.Context(), chi.URLParam(r, "workOrderID"), currentCompanyID(r), model.UpdateWorkOrderParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		DueAt:       req.DueAt,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, workOrder)
}

// DELETE /v1/work-orders/{workOrderID}
func (h *WorkOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.workOrderService.Delete(r.Context(), chi.URLParam(r, "workOrderID"), currentCompanyID(r)); err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
