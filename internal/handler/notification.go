package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gearbase/cmms-server-go/internal/middleware"
	"github.com/gearbase/cmms-server-go/internal/service"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/unread-count", h.UnreadCount)
	r.Post("/{notificationID}/read", h.MarkRead)
	r.Post("/read-all", h.MarkAllRead)

	return r
}

// GET /v1/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	pagination := ParsePagination(r)

	notifications, err := h.notificationService.List(r.Context(), session.UserID, pagination.Limit, pagination.Offset)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"notifications": notifications})
}

// GET /v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	count, err := h.notificationService.UnreadCount(r.Context(), session.UserID)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// POST /v1/notifications/{notificationID}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	notificationID := chi.URLParam(r, "notificationID")

	if err := h.notificationService.MarkRead(r.Context(), notificationID, session.UserID); err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	if err := h.notificationService.MarkAllRead(r.Context(), session.UserID); err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
