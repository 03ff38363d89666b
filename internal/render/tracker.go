package render

// Tracker maps a scroll offset to the page under the middle of the
// viewport. It is attached once a session is ready, over the final boundary
// slice; it never blocks and never touches the pipeline.
type Tracker struct {
	boundaries   []PageBoundary
	current      int
	lastNotified int
}

// NewTracker creates a tracker over measured boundaries. initialPage seeds
// both the located page and the notification edge so the first Observe only
// reports a change when the position actually moved.
func NewTracker(boundaries []PageBoundary, initialPage int) *Tracker {
	return &Tracker{
		boundaries:   boundaries,
		current:      initialPage,
		lastNotified: initialPage,
	}
}

// Locate returns the page under the probe point, the vertical middle of the
// viewport. When the probe lands outside every boundary (overscroll bounce,
// top or bottom padding) the previously located page is retained.
func (t *Tracker) Locate(scrollOffset, viewportHeight float64) int {
	probe := scrollOffset + viewportHeight/2

	for _, b := range t.boundaries {
		if b.Top <= probe && probe < b.Bottom {
			t.current = b.Page
			break
		}
	}
	return t.current
}

// Observe locates the page and reports whether it differs from the last
// notification. Edge-triggered: an identical result never re-reports.
func (t *Tracker) Observe(scrollOffset, viewportHeight float64) (page int, changed bool) {
	page = t.Locate(scrollOffset, viewportHeight)
	if page == t.lastNotified {
		return page, false
	}

	t.lastNotified = page
	return page, true
}
