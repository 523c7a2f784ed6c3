package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gearbase/cmms-server-go/internal/audit"
	"github.com/gearbase/cmms-server-go/internal/authflow"
	"github.com/gearbase/cmms-server-go/internal/middleware"
	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	resolver    *authflow.Resolver
}

func NewAuthHandler(authService *service.AuthService, resolver *authflow.Resolver) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		resolver:    resolver,
	}
}

type signUpRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	FullName string     `json:"fullName"`
	Role     model.Role `json:"role"`
}

// POST /v1/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Role == "" {
		req.Role = model.RoleClient
	}

	user, err := h.authService.SignUp(r.Context(), req.Email, req.Password, req.FullName, req.Role)
	if err != nil {
		handleError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventSignup, UserID: user.ID})
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":    user.ID,
		"email": user.Email,
	})
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /v1/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		audit.LogFromRequest(r, audit.Event{Type: audit.EventLoginFailure})
		handleError(w, err)
		return
	}

	snapshot, err := h.resolver.Dispatch(r.Context(), model.SessionEvent{
		Type:    model.EventSignedIn,
		UserID:  result.Session.UserID,
		Session: result.Session,
	})
	if err != nil {
		log.Error().Err(err).Msg("post-signin resolution failed")
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventLoginSuccess, UserID: result.Session.UserID})
	writeJSON(w, http.StatusOK, map[string]any{
		"sessionToken": result.SessionToken,
		"expiresAt":    result.ExpiresAt,
		"auth":         snapshot,
	})
}

// POST /v1/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	if err := h.authService.SignOut(r.Context(), session.ID); err != nil {
		handleError(w, err)
		return
	}

	snapshot, _ := h.resolver.Dispatch(r.Context(), model.SessionEvent{
		Type:   model.EventSignedOut,
		UserID: session.UserID,
	})

	audit.LogFromRequest(r, audit.Event{Type: audit.EventLogout, UserID: session.UserID})
	writeJSON(w, http.StatusOK, map[string]any{"auth": snapshot})
}

// GET /v1/auth/state runs the full resolution chain for the current
// session and returns the resulting snapshot. Clients call this once on
// startup and then follow /v1/events for updates.
func (h *AuthHandler) State(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	snapshot, err := h.resolver.Dispatch(r.Context(), model.SessionEvent{
		Type:    model.EventInitialSession,
		UserID:  session.UserID,
		Session: session,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

type updatePasswordRequest struct {
	Password string `json:"password"`
}

// POST /v1/auth/password accepts both regular and recovery sessions.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	var req updatePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.UpdatePassword(r.Context(), session.UserID, req.Password); err != nil {
		handleError(w, err)
		return
	}

	// All sessions were revoked, including this one, so the user signs in
	// again with the new password.
	h.resolver.Dispatch(r.Context(), model.SessionEvent{
		Type:   model.EventSignedOut,
		UserID: session.UserID,
	})

	audit.LogFromRequest(r, audit.Event{Type: audit.EventPasswordChange, UserID: session.UserID})
	writeJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

type resetRequest struct {
	Email string `json:"email"`
}

// POST /v1/auth/password/reset
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// The response is identical whether or not the account exists.
	if _, err := h.authService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		handleError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventPasswordReset})
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "If the account exists, a recovery link has been sent",
	})
}
