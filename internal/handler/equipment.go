package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gearbase/cmms-server-go/internal/middleware"
	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/service"
)

type EquipmentHandler struct {
	equipmentService *service.EquipmentService
}

func NewEquipmentHandler(equipmentService *service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{equipmentService: equipmentService}
}

func (h *EquipmentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{equipmentID}", h.Get)
	r.Patch("/{equipmentID}", h.Update)
	r.Delete("/{equipmentID}", h.Delete)

	return r
}

func currentCompanyID(r *http.Request) string {
	profile := middleware.GetProfile(r.Context())
	if profile == nil || profile.CurrentCompanyID == nil {
		return ""
	}
	return *profile.CurrentCompanyID
}

// GET /v1/equipments
func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	pagination := ParsePagination(r)

	items, err := h.equipmentService.List(r.Context(), currentCompanyID(r), pagination.Limit, pagination.Offset)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"equipments": items})
}

type createEquipmentRequest struct {
	Name         string  `json:"name"`
	SerialNumber *string `json:"serialNumber"`
	Location     *string `json:"location"`
}

// POST /v1/equipments
func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEquipmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	equipment, err := h.equipmentService.Create(r.Context(), model.CreateEquipmentParams{
		CompanyID:    currentCompanyID(r),
		Name:         req.Name,
		SerialNumber: req.SerialNumber,
		Location:     req.Location,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, equipment)
}

// GET /v1/equipments/{equipmentID}
func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	equipment, err := h.equipmentService.Get(r.Context(), chi.URLParam(r, "equipmentID"), currentCompanyID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, equipment)
}

type updateEquipmentRequest struct {
	Name         *string                `json:"name"`
	SerialNumber *string                `json:"serialNumber"`
	Location     *string                `json:"location"`
	Status       *model.EquipmentStatus `json:"status"`
}

// PATCH /v1/equipments/{equipmentID}
func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateEquipmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	equipment, err := h.equipmentService.Update(r.Context(), chi.URLParam(r, "equipmentID"), currentCompanyID(r), model.UpdateEquipmentParams{
		Name:         req.Name,
		SerialNumber: req.SerialNumber,
		Location:     req.Location,
		Status:       req.Status,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, equipment)
}

// DELETE /v1/equipments/{equipmentID}
func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.equipmentService.Delete(r.Context(), chi.URLParam(r, "equipmentID"), currentCompanyID(r)); err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "deleted",
		"deletedAt": time.Now().Format(time.RFC3339),
	})
}
