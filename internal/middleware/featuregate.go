package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gearbase/cmms-server-go/internal/audit"
	apperrors "github.com/gearbase/cmms-server-go/internal/errors"
	"github.com/gearbase/cmms-server-go/internal/httputil"
	"github.com/gearbase/cmms-server-go/internal/service"
)

// RequireCompany only lets through requests whose profile has a current
// company. Must run after AuthMiddleware.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile := GetProfile(r.Context())
		if profile == nil {
			httputil.WriteError(w, apperrors.ProfileUnavailable())
			return
		}
		if profile.CurrentCompanyID == nil {
			httputil.WriteError(w, apperrors.CompanyRequired())
			return
		}
		next.ServeHTTP(w, r)
	})
}

type FeatureGate struct {
	licenses *service.LicenseService
}

func NewFeatureGate(licenses *service.LicenseService) *FeatureGate {
	return &FeatureGate{licenses: licenses}
}

// Require gates a route group behind a licensed feature. Platform
// administrators pass every gate through the license resolver's bypass.
func (g *FeatureGate) Require(featureKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile := GetProfile(r.Context())
			if profile == nil {
				httputil.WriteError(w, apperrors.ProfileUnavailable())
				return
			}

			resolved, err := g.licenses.ResolveActive(r.Context(), profile.ID, profile.CurrentCompanyID, profile.Role)
			if err != nil {
				log.Error().Err(err).
					Str("userId", profile.ID).
					Str("feature", featureKey).
					Msg("feature gate: license resolution failed")
				httputil.WriteError(w, apperrors.Database(err))
				return
			}
			if resolved == nil {
				httputil.WriteError(w, apperrors.LicenseRequired())
				return
			}
			if !g.licenses.HasAccess(resolved, featureKey) {
				log.Warn().
					Str("userId", profile.ID).
					Str("feature", featureKey).
					Str("plan", resolved.PlanName).
					Msg("feature gate: access denied")
				event := audit.Event{
					Type:    audit.EventFeatureDenied,
					UserID:  profile.ID,
					Details: map[string]interface{}{"feature": featureKey, "plan": resolved.PlanName},
				}
				if profile.CurrentCompanyID != nil {
					event.CompanyID = *profile.CurrentCompanyID
				}
				audit.LogFromRequest(r, event)
				httputil.WriteError(w, apperrors.FeatureDenied(featureKey))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
