package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/gearbase/cmms-server-go/internal/errors"
	"github.com/gearbase/cmms-server-go/internal/middleware"
	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Get)
	r.Patch("/", h.Update)

	return r
}

// GET /v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile := middleware.GetProfile(r.Context())
	if profile == nil {
		handleError(w, apperrors.ProfileUnavailable())
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	FullName  *string `json:"fullName"`
	AvatarURL *string `json:"avatarUrl"`
}

// PATCH /v1/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.profileService.Update(r.Context(), session.UserID, model.UpdateProfileParams{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
