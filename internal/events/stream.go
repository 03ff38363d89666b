package events

import (
	"errors"
	"sync"
)

// Channel delivery errors.
var (
	ErrChannelClosed = errors.New("event channel closed")
	ErrChannelFull   = errors.New("event channel buffer full")
)

// Channel accepts events for delivery to a reader surface. Sends after the
// channel closes return ErrChannelClosed; producers treat that as a signal
// to stop, not as a failure.
type Channel interface {
	Send(evt Event) error
}

// Stream is a buffered in-process Channel. One goroutine consumes Events()
// while any number of producers Send.
type Stream struct {
	mu     sync.Mutex
	events chan Event
	closed bool
}

// NewStream creates a stream with the given buffer capacity.
func NewStream(buffer int) *Stream {
	return &Stream{
		events: make(chan Event, buffer),
	}
}

// Send queues an event for delivery without blocking.
func (s *Stream) Send(evt Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrChannelClosed
	}

	select {
	case s.events <- evt:
		return nil
	default:
		return ErrChannelFull
	}
}

// Events returns the delivery channel. It closes when the stream closes;
// buffered events remain readable after close.
func (s *Stream) Events() <-chan Event {
	return s.events
}

// Close tears down the stream. Safe to call more than once.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.events)
}
