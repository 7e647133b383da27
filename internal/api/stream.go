package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"event-explorer/internal/apperr"
)

// StreamUpdates streams booking and favorites notices as Server-Sent Events.
// An eventId query parameter limits the stream to one event.
func (h *Handler) StreamUpdates(w http.ResponseWriter, r *http.Request) {
	eventID := 0
	if raw := r.URL.Query().Get("eventId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, h.Logger, apperr.Invalid("eventId", "must be an integer"))
			return
		}
		eventID = id
	}

	rc := http.NewResponseController(w)
	// The stream outlives the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	setupSSEHeaders(w)
	ctx := r.Context()
	messages := h.Stream.Subscribe(ctx, eventID)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"eventId\":%d}\n\n", eventID)
	if err := rc.Flush(); err != nil {
		h.Logger.Error("SSE", fmt.Sprintf("Streaming unsupported: %v", err))
		return
	}
	h.Logger.Info("SSE", fmt.Sprintf("Client connected to update stream (event %d)", eventID))

	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				return
			}
			data, err := json.Marshal(msg.Data)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize %s notice: %v", msg.Event, err))
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, data)
			if err := rc.Flush(); err != nil {
				return
			}
		case <-ctx.Done():
			h.Logger.Debug("SSE", fmt.Sprintf("Client disconnected from update stream (event %d)", eventID))
			return
		}
	}
}

func setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}
