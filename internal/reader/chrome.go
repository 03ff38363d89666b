package reader

import (
	"sync"
	"time"
)

// Visibility is the reader chrome state. Chrome fades rather than snapping:
// Fading still hit-tests as present; removal happens only when the fade
// completes and the state reaches Hidden.
type Visibility string

const (
	ControlsVisible Visibility = "visible"
	ControlsFading  Visibility = "fading"
	ControlsHidden  Visibility = "hidden"
)

// Chrome tracks reader control visibility with an idle auto-hide. At most
// one timer is ever pending: showing cancels and reschedules.
type Chrome struct {
	mu    sync.Mutex
	state Visibility
	idle  time.Duration
	fade  time.Duration
	timer *time.Timer
}

// NewChrome creates chrome in the visible state with the idle hide armed.
func NewChrome(idle, fade time.Duration) *Chrome {
	c := &Chrome{
		state: ControlsVisible,
		idle:  idle,
		fade:  fade,
	}
	c.mu.Lock()
	c.schedule(idle, c.beginFade)
	c.mu.Unlock()
	return c
}

// State returns the current visibility.
func (c *Chrome) State() Visibility {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Show makes the chrome visible and restarts the idle countdown, cancelling
// any pending hide or fade.
func (c *Chrome) Show() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = ControlsVisible
	c.schedule(c.idle, c.beginFade)
}

// Toggle flips visibility in response to a tap: visible chrome begins
// fading out immediately, anything else shows. Returns the new state.
func (c *Chrome) Toggle() Visibility {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == ControlsVisible {
		c.startFade()
	} else {
		c.state = ControlsVisible
		c.schedule(c.idle, c.beginFade)
	}
	return c.state
}

// Stop cancels any pending timer. Called at session teardown.
func (c *Chrome) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// beginFade is the idle timer callback.
func (c *Chrome) beginFade() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != ControlsVisible {
		return
	}
	c.startFade()
}

// startFade moves to Fading and arms the fade timer. Caller holds the lock.
func (c *Chrome) startFade() {
	c.state = ControlsFading
	c.schedule(c.fade, c.completeFade)
}

// completeFade is the fade timer callback.
func (c *Chrome) completeFade() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != ControlsFading {
		return
	}
	c.state = ControlsHidden
	c.timer = nil
}

// schedule replaces the pending timer. Caller holds the lock.
func (c *Chrome) schedule(d time.Duration, fn func()) {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(d, fn)
}
