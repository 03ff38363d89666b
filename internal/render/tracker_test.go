package render_test

import (
	"testing"

	"github.com/foliolabs/folio/internal/render"
)

func boundaries() []render.PageBoundary {
	return []render.PageBoundary{
		{Page: 1, Top: 0, Bottom: 560},
		{Page: 2, Top: 560, Bottom: 1120},
		{Page: 3, Top: 1120, Bottom: 1680},
	}
}

func TestTracker_Locate(t *testing.T) {
	tests := []struct {
		name           string
		scrollOffset   float64
		viewportHeight float64
		want           int
	}{
		{"top of flow", 0, 800, 1},
		{"probe in second page", 400, 800, 2},
		{"probe in third page", 1000, 800, 3},
		{"probe exactly on boundary top", 160, 800, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := render.NewTracker(boundaries(), 1)
			if got := tr.Locate(tt.scrollOffset, tt.viewportHeight); got != tt.want {
				t.Errorf("Locate(%v, %v) = %d, want %d", tt.scrollOffset, tt.viewportHeight, got, tt.want)
			}
		})
	}
}

func TestTracker_Locate_OutsideBoundariesRetainsPage(t *testing.T) {
	tr := render.NewTracker(boundaries(), 1)

	if got := tr.Locate(700, 800); got != 3 {
		t.Fatalf("Locate() = %d, want 3", got)
	}

	// Overscroll past the end of the flow: probe beyond every boundary.
	if got := tr.Locate(5000, 800); got != 3 {
		t.Errorf("Locate() after overscroll = %d, want retained page 3", got)
	}
}

func TestTracker_Observe_EdgeTriggered(t *testing.T) {
	tr := render.NewTracker(boundaries(), 1)

	page, changed := tr.Observe(400, 800)
	if page != 2 || !changed {
		t.Fatalf("Observe() = (%d, %v), want (2, true)", page, changed)
	}

	// Identical probe never re-reports.
	page, changed = tr.Observe(400, 800)
	if page != 2 || changed {
		t.Errorf("repeat Observe() = (%d, %v), want (2, false)", page, changed)
	}

	// A different offset that lands on the same page also stays quiet.
	page, changed = tr.Observe(410, 800)
	if page != 2 || changed {
		t.Errorf("same-page Observe() = (%d, %v), want (2, false)", page, changed)
	}
}

func TestTracker_Observe_InitialPageSeedsEdge(t *testing.T) {
	tr := render.NewTracker(boundaries(), 2)

	// The probe lands on the seeded page, so nothing changed.
	if page, changed := tr.Observe(400, 800); page != 2 || changed {
		t.Errorf("Observe() = (%d, %v), want (2, false)", page, changed)
	}
}

func TestTracker_Observe_MonotoneScroll(t *testing.T) {
	tr := render.NewTracker(boundaries(), 1)

	var notified []int
	for offset := 0.0; offset <= 1400; offset += 100 {
		if page, changed := tr.Observe(offset, 800); changed {
			notified = append(notified, page)
		}
	}

	for i := 1; i < len(notified); i++ {
		if notified[i] <= notified[i-1] {
			t.Fatalf("notifications not strictly increasing: %v", notified)
		}
	}
	if len(notified) == 0 || notified[len(notified)-1] != 3 {
		t.Errorf("notifications = %v, want final page 3", notified)
	}
}
