package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/gearbase/cmms-server-go/internal/errors"
	"github.com/gearbase/cmms-server-go/internal/httputil"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

// handleError maps service errors onto HTTP responses. Application errors
// carry their own code and status; anything else is a 500.
func handleError(w http.ResponseWriter, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		httputil.WriteError(w, appErr)
		return
	}

	log.Error().Err(err).Msg("unhandled request error")
	httputil.WriteError(w, apperrors.Internal("Internal server error"))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return false
	}
	return true
}
