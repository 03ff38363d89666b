package render_test

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/foliolabs/folio/internal/events"
	"github.com/foliolabs/folio/internal/render"
)

type fakeSource struct {
	data  []byte
	err   error
	calls int
}

func (s *fakeSource) Fetch(ctx context.Context, locator string) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

type fakeRenderer struct {
	pages     int
	openErr   error
	renderErr map[int]error
	opened    int
}

func (r *fakeRenderer) Open(data []byte) (render.Document, error) {
	r.opened++
	if r.openErr != nil {
		return nil, r.openErr
	}
	return &fakeDocument{renderer: r}, nil
}

type fakeDocument struct {
	renderer *fakeRenderer
	closed   bool
}

func (d *fakeDocument) PageCount() int {
	return d.renderer.pages
}

func (d *fakeDocument) PageSize(page int) (float64, float64, error) {
	return 500, 700, nil
}

func (d *fakeDocument) RenderPage(page int, scale float64) (image.Image, error) {
	if err := d.renderer.renderErr[page]; err != nil {
		return nil, err
	}
	return image.NewRGBA(image.Rect(0, 0, int(500*scale), int(700*scale))), nil
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

type recorder struct {
	events []events.Event
}

func (r *recorder) Send(evt events.Event) error {
	r.events = append(r.events, evt)
	return nil
}

func (r *recorder) types() []events.Type {
	out := make([]events.Type, len(r.events))
	for i, evt := range r.events {
		out[i] = evt.Type
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSession() *render.Session {
	return render.NewSession(uuid.New(), render.Viewport{Width: 432, Height: 800}, 1, 2.0)
}

func TestPipeline_Run(t *testing.T) {
	src := &fakeSource{data: []byte("%PDF")}
	renderer := &fakeRenderer{pages: 3}
	pipeline := render.NewPipeline(src, renderer, 2.0, 16, testLogger())

	session := newTestSession()
	ch := &recorder{}

	if err := pipeline.Run(context.Background(), session, "blob:doc", ch); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := session.Status(); got != render.StatusReady {
		t.Fatalf("Status() = %v, want %v", got, render.StatusReady)
	}
	if src.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", src.calls)
	}
	if got := session.TotalPages(); got != 3 {
		t.Errorf("TotalPages() = %d, want 3", got)
	}

	want := []events.Type{
		events.TypeLoaded,
		events.TypeProgress, events.TypeProgress, events.TypeProgress,
		events.TypeRendered,
	}
	got := ch.types()
	if len(got) != len(want) {
		t.Fatalf("event types = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// Progress pages strictly increasing.
	last := 0
	for _, evt := range ch.events {
		if evt.Type != events.TypeProgress {
			continue
		}
		if evt.Page <= last {
			t.Fatalf("progress pages not strictly increasing: %d after %d", evt.Page, last)
		}
		if evt.TotalPages != 3 {
			t.Errorf("progress total = %d, want 3", evt.TotalPages)
		}
		last = evt.Page
	}
}

func TestPipeline_Run_BoundariesStackWithoutGaps(t *testing.T) {
	src := &fakeSource{data: []byte("%PDF")}
	pipeline := render.NewPipeline(src, &fakeRenderer{pages: 3}, 2.0, 16, testLogger())

	session := newTestSession()
	if err := pipeline.Run(context.Background(), session, "blob:doc", &recorder{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	bounds := session.Boundaries()
	if len(bounds) != 3 {
		t.Fatalf("len(Boundaries()) = %d, want 3", len(bounds))
	}

	// Content width 400 at 2x oversample over a 500x700pt page: 560 logical
	// units per page.
	if bounds[0].Top != 0 || bounds[0].Bottom != 560 {
		t.Errorf("boundary[0] = %+v, want top 0 bottom 560", bounds[0])
	}
	for i := 1; i < len(bounds); i++ {
		if bounds[i].Page != bounds[i-1].Page+1 {
			t.Errorf("boundary pages out of order: %+v after %+v", bounds[i], bounds[i-1])
		}
		if bounds[i].Top != bounds[i-1].Bottom {
			t.Errorf("gap between boundary %d and %d: %v != %v", i-1, i, bounds[i-1].Bottom, bounds[i].Top)
		}
	}
}

func TestPipeline_Run_SnapshotDuringRender(t *testing.T) {
	src := &fakeSource{data: []byte("%PDF")}
	pipeline := render.NewPipeline(src, &fakeRenderer{pages: 40}, 2.0, 16, testLogger())

	session := newTestSession()
	done := make(chan error, 1)
	go func() {
		done <- pipeline.Run(context.Background(), session, "blob:doc", &recorder{})
	}()

	// Snapshot concurrently with the append path; the race detector flags
	// any flow mutation outside the session lock.
	for {
		snap := session.Snapshot()
		if len(snap.Boundaries) > 0 {
			last := snap.Boundaries[len(snap.Boundaries)-1]
			if snap.FlowHeight != last.Bottom {
				t.Fatalf("FlowHeight = %v, want %v (bottom of last boundary)", snap.FlowHeight, last.Bottom)
			}
		}

		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			snap = session.Snapshot()
			if snap.FlowHeight != 560*40 {
				t.Errorf("FlowHeight = %v, want %v", snap.FlowHeight, 560.0*40)
			}
			return
		default:
		}
	}
}

func TestPipeline_Run_FetchFailureNeverDecodes(t *testing.T) {
	src := &fakeSource{err: errors.New("fetch blob:doc: source returned no data")}
	renderer := &fakeRenderer{pages: 3}
	pipeline := render.NewPipeline(src, renderer, 2.0, 16, testLogger())

	session := newTestSession()
	ch := &recorder{}

	if err := pipeline.Run(context.Background(), session, "blob:doc", ch); err == nil {
		t.Fatal("Run() error = nil, want fetch failure")
	}

	if got := session.Status(); got != render.StatusFailed {
		t.Errorf("Status() = %v, want %v", got, render.StatusFailed)
	}
	if renderer.opened != 0 {
		t.Errorf("renderer opened %d times, want 0", renderer.opened)
	}
	if len(ch.events) != 1 || ch.events[0].Type != events.TypeError {
		t.Errorf("events = %v, want single error event", ch.types())
	}
	if ch.events[0].Message == "" {
		t.Error("error event has empty message")
	}
}

func TestPipeline_Run_DecodeFailure(t *testing.T) {
	src := &fakeSource{data: []byte("not a pdf")}
	pipeline := render.NewPipeline(src, &fakeRenderer{openErr: errors.New("bad header")}, 2.0, 16, testLogger())

	session := newTestSession()
	ch := &recorder{}

	if err := pipeline.Run(context.Background(), session, "blob:doc", ch); err == nil {
		t.Fatal("Run() error = nil, want decode failure")
	}

	if got := session.Status(); got != render.StatusFailed {
		t.Errorf("Status() = %v, want %v", got, render.StatusFailed)
	}
	if len(ch.events) != 1 || ch.events[0].Type != events.TypeError {
		t.Errorf("events = %v, want single error event", ch.types())
	}
}

func TestPipeline_Run_PageFailureStopsMidRender(t *testing.T) {
	src := &fakeSource{data: []byte("%PDF")}
	renderer := &fakeRenderer{
		pages:     3,
		renderErr: map[int]error{2: fmt.Errorf("damaged page")},
	}
	pipeline := render.NewPipeline(src, renderer, 2.0, 16, testLogger())

	session := newTestSession()
	ch := &recorder{}

	if err := pipeline.Run(context.Background(), session, "blob:doc", ch); err == nil {
		t.Fatal("Run() error = nil, want render failure")
	}

	if got := session.Status(); got != render.StatusFailed {
		t.Errorf("Status() = %v, want %v", got, render.StatusFailed)
	}
	if got := len(session.Boundaries()); got != 1 {
		t.Errorf("len(Boundaries()) = %d, want 1", got)
	}

	want := []events.Type{events.TypeLoaded, events.TypeProgress, events.TypeError}
	got := ch.types()
	if len(got) != len(want) {
		t.Fatalf("event types = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPipeline_Run_CancelledContextEmitsNothingFurther(t *testing.T) {
	src := &fakeSource{data: []byte("%PDF")}
	pipeline := render.NewPipeline(src, &fakeRenderer{pages: 3}, 2.0, 16, testLogger())

	session := newTestSession()
	ch := &recorder{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pipeline.Run(ctx, session, "blob:doc", ch)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}

	// The loaded event precedes the first cancellation check; nothing else
	// may follow, in particular no error event.
	for _, evt := range ch.events {
		if evt.Type == events.TypeError || evt.Type == events.TypeRendered || evt.Type == events.TypeProgress {
			t.Errorf("unexpected %v event after cancellation", evt.Type)
		}
	}
	if got := session.Status(); got == render.StatusFailed || got == render.StatusReady {
		t.Errorf("Status() = %v, want non-terminal after cancellation", got)
	}
}

func TestPipeline_Run_ClosedChannelStopsQuietly(t *testing.T) {
	src := &fakeSource{data: []byte("%PDF")}
	pipeline := render.NewPipeline(src, &fakeRenderer{pages: 3}, 2.0, 16, testLogger())

	session := newTestSession()
	stream := events.NewStream(4)
	stream.Close()

	if err := pipeline.Run(context.Background(), session, "blob:doc", stream); err != nil {
		t.Fatalf("Run() error = %v, want nil on torn-down stream", err)
	}

	if got := session.Status(); got == render.StatusFailed {
		t.Errorf("Status() = %v, teardown must not fail the session", got)
	}
}
