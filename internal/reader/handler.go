package reader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/foliolabs/folio/internal/events"
	"github.com/foliolabs/folio/internal/render"
	"github.com/foliolabs/folio/pkg/handlers"
	"github.com/foliolabs/folio/pkg/routes"
)

// Handler provides the reading session HTTP endpoints. Opening a session
// upgrades the response to an SSE stream; all other endpoints are plain
// JSON.
type Handler struct {
	manager *Manager
	logger  *slog.Logger
}

// NewHandler creates a reader handler.
func NewHandler(manager *Manager, logger *slog.Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  logger.With("handler", "reader"),
	}
}

// Routes returns the reader endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/reader",
		Tags:        []string{"Reader"},
		Description: "Reading sessions and live render events",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{documentID}/open", Handler: h.Open},
			{Method: "POST", Pattern: "/sessions/{id}/scroll", Handler: h.Scroll},
			{Method: "POST", Pattern: "/sessions/{id}/tap", Handler: h.Tap},
			{Method: "POST", Pattern: "/sessions/{id}/events", Handler: h.Event},
			{Method: "GET", Pattern: "/sessions/{id}", Handler: h.Get},
			{Method: "DELETE", Pattern: "/sessions/{id}", Handler: h.Close},
		},
	}
}

// OpenRequest carries the reader surface dimensions.
type OpenRequest struct {
	Viewport render.Viewport `json:"viewport"`
}

// ScrollRequest carries a scroll position sample.
type ScrollRequest struct {
	ScrollOffset   float64 `json:"scroll_offset"`
	ViewportHeight float64 `json:"viewport_height"`
}

// Open starts a session and streams its events as SSE until the session
// closes or the client disconnects. The session ID rides in the
// X-Session-ID response header so the client can address the other
// endpoints immediately.
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	documentID, err := uuid.Parse(r.PathValue("documentID"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var req OpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError,
			fmt.Errorf("streaming unsupported"))
		return
	}

	session, stream, err := h.manager.Open(r.Context(), documentID, req.Viewport)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Session-ID", session.ID.String())
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			// Client went away; the session teardown persists progress.
			if err := h.manager.Close(context.Background(), session.ID); err != nil && err != ErrSessionNotFound {
				h.logger.Warn("close after disconnect failed", "session", session.ID, "error", err)
			}
			return
		case evt, open := <-stream.Events():
			if !open {
				return
			}
			if err := writeEvent(w, flusher, evt); err != nil {
				h.logger.Debug("event write failed", "session", session.ID, "error", err)
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, evt events.Event) error {
	data, err := events.Encode(evt)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Type, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

func (h *Handler) Scroll(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var req ScrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	page, changed, err := h.manager.Scroll(sessionID, req.ScrollOffset, req.ViewportHeight)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"page":    page,
		"changed": changed,
	})
}

// Event accepts a raw surface message in the cross-boundary protocol, for
// surfaces that speak the wire format directly instead of the typed
// endpoints. A tap toggles the chrome; a ready signal answers with the
// current session state. Malformed payloads are logged and dropped without
// touching the session.
func (h *Handler) Event(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	evt, err := events.Decode(body)
	if err != nil {
		h.logger.Warn("inbound event dropped", "session", sessionID, "error", err)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	switch evt.Type {
	case events.TypeTap:
		controls, err := h.manager.Tap(sessionID)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]any{"controls": controls})
	case events.TypeReady:
		state, err := h.manager.Get(sessionID)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		handlers.RespondJSON(w, http.StatusOK, state)
	default:
		h.logger.Warn("inbound event ignored", "session", sessionID, "type", evt.Type)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) Tap(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	controls, err := h.manager.Tap(sessionID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{"controls": controls})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	state, err := h.manager.Get(sessionID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, state)
}

func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.manager.Close(r.Context(), sessionID); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
