package render

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle stage of a render session. Transitions only move
// forward; a failed session is discarded and a fresh one created, never
// retried in place.
type Status int

const (
	StatusIdle Status = iota
	StatusFetchingBytes
	StatusDecoding
	StatusRendering
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusFetchingBytes:
		return "fetching_bytes"
	case StatusDecoding:
		return "decoding"
	case StatusRendering:
		return "rendering"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Terminal reports whether the session can make no further transitions.
func (s Status) Terminal() bool {
	return s == StatusReady || s == StatusFailed
}

// Session holds the mutable state of one document render. All mutation goes
// through methods holding the session mutex; the pipeline goroutine writes,
// HTTP handlers read.
type Session struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	Viewport   Viewport
	CreatedAt  time.Time

	mu            sync.Mutex
	status        Status
	totalPages    int
	renderingPage int
	currentPage   int
	failure       string
	boundaries    []PageBoundary
	flow          *Flow
	tracker       *Tracker
}

// NewSession creates an idle session. currentPage seeds the reading
// position, normally the document's last read page.
func NewSession(documentID uuid.UUID, viewport Viewport, currentPage int, oversample float64) *Session {
	if currentPage < 1 {
		currentPage = 1
	}
	return &Session{
		ID:          uuid.New(),
		DocumentID:  documentID,
		Viewport:    viewport,
		CreatedAt:   time.Now().UTC(),
		status:      StatusIdle,
		currentPage: currentPage,
		flow:        NewFlow(oversample),
	}
}

// advance moves the session forward to a later status. Moving backward or
// out of a terminal status is a programming error and returns one.
func (s *Session) advance(to Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Terminal() {
		return fmt.Errorf("session %s is %s: no transition to %s", s.ID, s.status, to)
	}
	if to <= s.status && to != StatusRendering {
		return fmt.Errorf("session %s cannot move %s -> %s", s.ID, s.status, to)
	}

	s.status = to
	return nil
}

// fail marks the session failed with a reason. Idempotent once terminal.
func (s *Session) fail(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Terminal() {
		return
	}
	s.status = StatusFailed
	s.failure = reason
}

func (s *Session) setLoaded(totalPages int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalPages = totalPages
}

func (s *Session) setRenderingPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderingPage = page
}

// appendPage stacks a rendered bitmap into the flow and records the measured
// boundary. Flow and boundaries move together under the lock so a concurrent
// snapshot never sees one without the other.
func (s *Session) appendPage(page int, img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	top, bottom := s.flow.Append(img)
	s.boundaries = append(s.boundaries, PageBoundary{Page: page, Top: top, Bottom: bottom})
}

// finish marks the session ready and attaches the tracker over the final
// boundary slice. Tracking before this point would observe a flow that is
// still growing.
func (s *Session) finish() error {
	if err := s.advance(StatusReady); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker = NewTracker(s.boundaries, s.currentPage)
	return nil
}

// Status returns the current lifecycle stage.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// TotalPages returns the page count reported at decode, zero before then.
func (s *Session) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPages
}

// CurrentPage returns the tracked reading position.
func (s *Session) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPage
}

// FlowHeight returns the total logical height rendered so far.
func (s *Session) FlowHeight() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flow.Height()
}

// Boundaries returns a copy of the measured page boundaries.
func (s *Session) Boundaries() []PageBoundary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PageBoundary, len(s.boundaries))
	copy(out, s.boundaries)
	return out
}

// Observe feeds a scroll position to the tracker and updates the current
// page. changed is true only when the page differs from the last
// notification. Observing a session that is not ready reports no change.
func (s *Session) Observe(scrollOffset, viewportHeight float64) (page int, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusReady || s.tracker == nil {
		return s.currentPage, false
	}

	page, changed = s.tracker.Observe(scrollOffset, viewportHeight)
	if changed {
		s.currentPage = page
	}
	return page, changed
}

// Snapshot is a point-in-time view of the session for API responses.
type Snapshot struct {
	ID            uuid.UUID      `json:"id"`
	DocumentID    uuid.UUID      `json:"document_id"`
	Status        string         `json:"status"`
	CurrentPage   int            `json:"current_page"`
	TotalPages    int            `json:"total_pages,omitempty"`
	RenderingPage int            `json:"rendering_page,omitempty"`
	Failure       string         `json:"failure,omitempty"`
	FlowHeight    float64        `json:"flow_height"`
	Boundaries    []PageBoundary `json:"boundaries,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Snapshot captures the session state under the lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	boundaries := make([]PageBoundary, len(s.boundaries))
	copy(boundaries, s.boundaries)

	return Snapshot{
		ID:            s.ID,
		DocumentID:    s.DocumentID,
		Status:        s.status.String(),
		CurrentPage:   s.currentPage,
		TotalPages:    s.totalPages,
		RenderingPage: s.renderingPage,
		Failure:       s.failure,
		FlowHeight:    s.flow.Height(),
		Boundaries:    boundaries,
		CreatedAt:     s.CreatedAt,
	}
}
