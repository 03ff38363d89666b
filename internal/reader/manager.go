// Package reader owns reading sessions: opening a document against a
// viewport, running its render pipeline, routing scroll and tap input, and
// tearing the session down with a single progress write.
package reader

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/foliolabs/folio/internal/config"
	"github.com/foliolabs/folio/internal/documents"
	"github.com/foliolabs/folio/internal/events"
	"github.com/foliolabs/folio/internal/render"
)

// entry bundles everything owned by one live session.
type entry struct {
	session *render.Session
	stream  *events.Stream
	chrome  *Chrome
	cancel  context.CancelFunc
}

// Manager tracks active sessions. A document has at most one live session;
// opening a second returns ErrSessionActive.
type Manager struct {
	documents documents.System
	pipeline  *render.Pipeline
	cfg       config.ReaderConfig
	logger    *slog.Logger

	mu         sync.Mutex
	sessions   map[uuid.UUID]*entry
	byDocument map[uuid.UUID]uuid.UUID
}

// NewManager creates a session manager.
func NewManager(docs documents.System, pipeline *render.Pipeline, cfg config.ReaderConfig, logger *slog.Logger) *Manager {
	return &Manager{
		documents:  docs,
		pipeline:   pipeline,
		cfg:        cfg,
		logger:     logger.With("system", "reader"),
		sessions:   make(map[uuid.UUID]*entry),
		byDocument: make(map[uuid.UUID]uuid.UUID),
	}
}

// Open creates a session for a document and starts its render pipeline on a
// fresh goroutine. The returned stream delivers pipeline and tracker events
// until the session closes.
func (m *Manager) Open(ctx context.Context, documentID uuid.UUID, viewport render.Viewport) (*render.Session, *events.Stream, error) {
	doc, err := m.documents.Find(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}

	session := render.NewSession(doc.ID, viewport, doc.LastReadPage, m.cfg.Oversample)
	stream := events.NewStream(m.cfg.EventBuffer)

	// The pipeline outlives the opening request, so it runs against its
	// own context; Close cancels it.
	runCtx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	if _, active := m.byDocument[doc.ID]; active {
		m.mu.Unlock()
		cancel()
		stream.Close()
		return nil, nil, ErrSessionActive
	}
	m.sessions[session.ID] = &entry{
		session: session,
		stream:  stream,
		chrome:  NewChrome(m.cfg.ChromeIdleDuration(), m.cfg.ChromeFadeDuration()),
		cancel:  cancel,
	}
	m.byDocument[doc.ID] = session.ID
	m.mu.Unlock()

	m.logger.Info("session opened",
		"session", session.ID,
		"document", doc.ID,
		"viewport_width", viewport.Width,
		"viewport_height", viewport.Height)

	go func() {
		err := m.pipeline.Run(runCtx, session, doc.Locator(), stream)
		switch {
		case err == nil:
			m.confirmPageCount(session)
		case !errors.Is(err, context.Canceled):
			m.logger.Warn("pipeline stopped", "session", session.ID, "error", err)
		}
	}()

	return session, stream, nil
}

// confirmPageCount writes the decoded page count back to the library. The
// count recorded at import can be missing or stale; the render decode is
// authoritative. Runs on the pipeline goroutine, so it carries its own
// context rather than the long-gone opening request's.
func (m *Manager) confirmPageCount(session *render.Session) {
	total := session.TotalPages()
	if total < 1 {
		return
	}
	if err := m.documents.ConfirmPageCount(context.Background(), session.DocumentID, total); err != nil {
		m.logger.Warn("page count not confirmed",
			"session", session.ID,
			"document", session.DocumentID,
			"pages", total,
			"error", err)
	}
}

// Scroll feeds a scroll position to a ready session. The page event is
// emitted only when the tracked page actually changed.
func (m *Manager) Scroll(sessionID uuid.UUID, scrollOffset, viewportHeight float64) (page int, changed bool, err error) {
	e, err := m.find(sessionID)
	if err != nil {
		return 0, false, err
	}

	if e.session.Status() != render.StatusReady {
		return 0, false, ErrSessionNotReady
	}

	page, changed = e.session.Observe(scrollOffset, viewportHeight)
	if changed {
		if err := e.stream.Send(events.PageChanged(page, e.session.TotalPages())); err != nil {
			m.logger.Debug("page event dropped", "session", sessionID, "error", err)
		}
	}
	return page, changed, nil
}

// Tap toggles the session chrome and returns the new visibility.
func (m *Manager) Tap(sessionID uuid.UUID) (Visibility, error) {
	e, err := m.find(sessionID)
	if err != nil {
		return "", err
	}
	return e.chrome.Toggle(), nil
}

// State describes a session for API responses.
type State struct {
	render.Snapshot
	Controls Visibility `json:"controls"`
}

// Get returns a point-in-time view of a session.
func (m *Manager) Get(sessionID uuid.UUID) (*State, error) {
	e, err := m.find(sessionID)
	if err != nil {
		return nil, err
	}
	return &State{Snapshot: e.session.Snapshot(), Controls: e.chrome.State()}, nil
}

// Close tears a session down: the pipeline is cancelled, the event stream
// closed, and the reading position persisted. Events produced by a pipeline
// racing the teardown land on the closed stream and are discarded. The
// progress write happens here and only here, once per session.
func (m *Manager) Close(ctx context.Context, sessionID uuid.UUID) error {
	m.mu.Lock()
	e, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(m.sessions, sessionID)
	delete(m.byDocument, e.session.DocumentID)
	m.mu.Unlock()

	e.cancel()
	e.chrome.Stop()
	e.stream.Close()

	page := e.session.CurrentPage()
	if err := m.documents.UpdateProgress(ctx, e.session.DocumentID, page); err != nil {
		m.logger.Warn("progress not persisted",
			"session", sessionID,
			"document", e.session.DocumentID,
			"page", page,
			"error", err)
	}

	m.logger.Info("session closed", "session", sessionID, "document", e.session.DocumentID, "page", page)
	return nil
}

// CloseAll tears down every live session, typically at shutdown.
func (m *Manager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	ids := make([]uuid.UUID, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		if err := m.Close(ctx, id); err != nil && !errors.Is(err, ErrSessionNotFound) {
			m.logger.Warn("session close failed", "session", id, "error", err)
		}
	}
}

func (m *Manager) find(sessionID uuid.UUID) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}
