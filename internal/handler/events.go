package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gearbase/cmms-server-go/internal/authflow"
	"github.com/gearbase/cmms-server-go/internal/middleware"
	"github.com/gearbase/cmms-server-go/internal/sse"
)

type EventsHandler struct {
	broker   *sse.Broker
	resolver *authflow.Resolver
}

func NewEventsHandler(broker *sse.Broker, resolver *authflow.Resolver) *EventsHandler {
	return &EventsHandler{
		broker:   broker,
		resolver: resolver,
	}
}

// ServeHTTP streams auth state changes and notifications to the client
// over server-sent events.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Streaming not supported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := h.broker.Subscribe(session.UserID)
	defer h.broker.Unsubscribe(client)

	log.Info().
		Str("userId", session.UserID).
		Msg("sse connection established")

	// The last committed snapshot goes out first so a reconnecting client
	// does not wait for the next state change.
	snapshot := h.resolver.Current(session.UserID)
	if data, err := json.Marshal(snapshot); err == nil {
		h.sendEvent(w, flusher, sse.Event{Type: sse.EventTypeAuthState, Data: data})
	}

	ctx := r.Context()
	heartbeat := time.NewTicker(sse.HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().
				Str("userId", session.UserID).
				Msg("sse connection closed by client")
			return

		case <-client.Done:
			log.Info().
				Str("userId", session.UserID).
				Msg("sse connection closed by broker")
			return

		case event := <-client.Events:
			if err := h.sendEvent(w, flusher, event); err != nil {
				log.Error().Err(err).Msg("failed to send event")
				return
			}

		case <-heartbeat.C:
			if _, err := fmt.Fprintf(w, ": ping\n\n"); err != nil {
				log.Debug().
					Str("userId", session.UserID).
					Msg("heartbeat write failed, closing")
				return
			}
			flusher.Flush()
		}
	}
}

func (h *EventsHandler) sendEvent(w http.ResponseWriter, flusher http.Flusher, event sse.Event) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
