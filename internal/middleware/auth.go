package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gearbase/cmms-server-go/internal/audit"
	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/repository"
	"github.com/gearbase/cmms-server-go/internal/util"
)

type contextKey string

const (
	SessionContextKey contextKey = "session"
	ProfileContextKey contextKey = "profile"
)

func GetSession(ctx context.Context) *model.AuthSession {
	if session, ok := ctx.Value(SessionContextKey).(*model.AuthSession); ok {
		return session
	}
	return nil
}

func GetProfile(ctx context.Context) *model.Profile {
	if profile, ok := ctx.Value(ProfileContextKey).(*model.Profile); ok {
		return profile
	}
	return nil
}

type AuthMiddleware struct {
	sessionRepo repository.AuthSessionRepository
	profileRepo repository.ProfileRepository

	// tokenSecret keys the stored session digests; must match the auth
	// service's secret.
	tokenSecret string
}

func NewAuthMiddleware(sessionRepo repository.AuthSessionRepository, profileRepo repository.ProfileRepository, tokenSecret string) *AuthMiddleware {
	return &AuthMiddleware{sessionRepo: sessionRepo, profileRepo: profileRepo, tokenSecret: tokenSecret}
}

// Handler authenticates regular API requests. Recovery sessions are
// rejected here; they are only good for setting a new password.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := m.authenticate(w, r)
		if !ok {
			return
		}

		if session.Recovery {
			writeJSON(w, http.StatusForbidden, map[string]string{
				"error": "Recovery session cannot access this resource",
			})
			return
		}

		profile, err := m.profileRepo.FindByID(r.Context(), session.UserID)
		if err != nil {
			log.Error().Err(err).Msg("auth middleware: profile lookup failed")
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "Authentication failed",
			})
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		if profile != nil {
			ctx = context.WithValue(ctx, ProfileContextKey, profile)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RecoveryHandler authenticates the password update endpoint. It accepts
// both regular and recovery sessions.
func (m *AuthMiddleware) RecoveryHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := m.authenticate(w, r)
		if !ok {
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request) (*model.AuthSession, bool) {
	token := extractToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error": "Missing authentication token",
		})
		return nil, false
	}

	session, err := m.sessionRepo.FindByTokenHash(r.Context(), util.HashToken(m.tokenSecret, token))
	if err != nil {
		log.Error().Err(err).Msg("auth middleware: database error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Authentication failed",
		})
		return nil, false
	}
	if session == nil {
		log.Warn().Msg("auth middleware: invalid token attempt")
		audit.LogFromRequest(r, audit.Event{
			Type:    audit.EventAuthFailure,
			Details: map[string]interface{}{"reason": "invalid_token"},
		})
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error": "Invalid or expired token",
		})
		return nil, false
	}

	return session, true
}

func extractToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}
