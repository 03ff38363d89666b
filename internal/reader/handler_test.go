package reader_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/foliolabs/folio/internal/reader"
)

func postEvent(t *testing.T, h *reader.Handler, sessionID uuid.UUID, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/reader/sessions/"+sessionID.String()+"/events", strings.NewReader(body))
	req.SetPathValue("id", sessionID.String())
	rec := httptest.NewRecorder()
	h.Event(rec, req)
	return rec
}

func TestHandler_Event_TapTogglesChrome(t *testing.T) {
	doc := testDocument()
	m := testManager(t, newFakeDocs(doc), &stubSource{})
	h := reader.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)))

	session, _, err := m.Open(context.Background(), doc.ID, testViewport())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer m.Close(context.Background(), session.ID)

	rec := postEvent(t, h, session.ID, `{"version":1,"type":"tap","x":120,"y":340}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Controls reader.Visibility `json:"controls"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Controls != reader.ControlsFading {
		t.Errorf("controls = %v, want %v", resp.Controls, reader.ControlsFading)
	}
}

func TestHandler_Event_ReadyReturnsState(t *testing.T) {
	doc := testDocument()
	m := testManager(t, newFakeDocs(doc), &stubSource{})
	h := reader.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)))

	session, stream, err := m.Open(context.Background(), doc.ID, testViewport())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer m.Close(context.Background(), session.ID)

	drainUntilRendered(t, stream)

	rec := postEvent(t, h, session.ID, `{"version":1,"type":"ready"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var state reader.State
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if state.ID != session.ID {
		t.Errorf("state id = %s, want %s", state.ID, session.ID)
	}
	if state.Status != "ready" {
		t.Errorf("state status = %q, want %q", state.Status, "ready")
	}
}

func TestHandler_Event_MalformedDropped(t *testing.T) {
	doc := testDocument()
	m := testManager(t, newFakeDocs(doc), &stubSource{})
	h := reader.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)))

	session, _, err := m.Open(context.Background(), doc.ID, testViewport())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer m.Close(context.Background(), session.ID)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"type":`},
		{"unknown type", `{"version":1,"type":"swipe"}`},
		{"outbound type", `{"version":1,"type":"loaded","total_pages":3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postEvent(t, h, session.ID, tt.body)
			if rec.Code != http.StatusNoContent {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
			}
		})
	}

	// A dropped payload leaves the chrome untouched.
	state, err := m.Get(session.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if state.Controls != reader.ControlsVisible {
		t.Errorf("controls = %v, want %v", state.Controls, reader.ControlsVisible)
	}
}

func TestHandler_Event_UnknownSession(t *testing.T) {
	m := testManager(t, newFakeDocs(), &stubSource{})
	h := reader.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := postEvent(t, h, uuid.New(), `{"version":1,"type":"tap"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
