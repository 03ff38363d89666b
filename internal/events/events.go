// Package events defines the messages exchanged between the host and a
// reader surface during a render session. Outbound events describe pipeline
// and tracker state; inbound events carry reader gestures and commands.
// Events cross the process boundary as JSON, one object per message.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ProtocolVersion stamps every encoded event so surfaces can reject frames
// from an incompatible host.
const ProtocolVersion = 1

// Type discriminates event payloads.
type Type string

// Host-to-surface event types.
const (
	TypeLoaded       Type = "loaded"
	TypeProgress     Type = "progress"
	TypeRendered     Type = "rendered"
	TypePage         Type = "page"
	TypeError        Type = "error"
	TypeLoadDocument Type = "load_document"
)

// Surface-to-host event types.
const (
	TypeReady Type = "ready"
	TypeTap   Type = "tap"
)

// Event is the single message shape for both directions. Only the fields
// relevant to the Type are populated.
type Event struct {
	Version int  `json:"version"`
	Type    Type `json:"type"`

	// loaded, progress, page
	TotalPages int `json:"total_pages,omitempty"`

	// progress and page
	Page int `json:"page,omitempty"`

	// error
	Message string `json:"message,omitempty"`

	// load_document, base64-encoded document bytes
	Data string `json:"data,omitempty"`

	// tap, in viewport coordinates
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`
}

// Loaded signals that the document decoded successfully. Emitted exactly
// once per session, before any progress events.
func Loaded(totalPages int) Event {
	return Event{Version: ProtocolVersion, Type: TypeLoaded, TotalPages: totalPages}
}

// Progress signals that a page finished rendering. Page values are strictly
// increasing within a session.
func Progress(page, totalPages int) Event {
	return Event{Version: ProtocolVersion, Type: TypeProgress, Page: page, TotalPages: totalPages}
}

// Rendered signals that every page rendered and the session is ready.
func Rendered() Event {
	return Event{Version: ProtocolVersion, Type: TypeRendered}
}

// PageChanged signals that the tracked reading position moved to a new page.
func PageChanged(page, totalPages int) Event {
	return Event{Version: ProtocolVersion, Type: TypePage, Page: page, TotalPages: totalPages}
}

// Failed signals that the session failed; no further events follow.
func Failed(message string) Event {
	return Event{Version: ProtocolVersion, Type: TypeError, Message: message}
}

// ErrMalformedEvent indicates an inbound message that could not be decoded.
// Callers log and drop these rather than failing the session.
var ErrMalformedEvent = errors.New("malformed event")

var validTypes = map[Type]struct{}{
	TypeReady:        {},
	TypeLoaded:       {},
	TypeProgress:     {},
	TypeRendered:     {},
	TypePage:         {},
	TypeError:        {},
	TypeTap:          {},
	TypeLoadDocument: {},
}

// Decode parses a JSON-encoded event, rejecting unknown or missing types.
func Decode(data []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if _, ok := validTypes[evt.Type]; !ok {
		return Event{}, fmt.Errorf("%w: unknown type %q", ErrMalformedEvent, evt.Type)
	}
	return evt, nil
}

// Encode serializes an event for transport.
func Encode(evt Event) ([]byte, error) {
	return json.Marshal(evt)
}
