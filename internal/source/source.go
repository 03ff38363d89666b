// Package source obtains raw document bytes from a locator. A locator names
// where a document's bytes live: blob storage, the local filesystem, or a
// remote URL. A fetch happens exactly once per render session and is never
// retried; failed sessions are recreated by the caller.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Fetch errors. An empty result is always a failure: decoding zero bytes is
// undefined behavior in the renderer, so it must never reach it.
var (
	ErrUnreachableSource  = errors.New("source unreachable")
	ErrEmptySource        = errors.New("source returned no data")
	ErrPermissionDenied   = errors.New("source permission denied")
	ErrUnsupportedLocator = errors.New("unsupported locator scheme")
)

// FetchError wraps a fetch failure with the locator that caused it.
type FetchError struct {
	Locator string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Locator, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Adapter fetches the raw bytes a locator points at.
type Adapter interface {
	Fetch(ctx context.Context, locator string) ([]byte, error)
}

// fetcher resolves one locator scheme.
type fetcher interface {
	fetch(ctx context.Context, ref string) ([]byte, error)
}

type adapter struct {
	schemes map[string]fetcher
}

// Fetch dispatches on the locator scheme and normalizes failures into
// FetchError values.
func (a *adapter) Fetch(ctx context.Context, locator string) ([]byte, error) {
	scheme, ref, ok := splitLocator(locator)
	if !ok {
		return nil, &FetchError{Locator: locator, Err: ErrUnsupportedLocator}
	}

	f, ok := a.schemes[scheme]
	if !ok {
		return nil, &FetchError{Locator: locator, Err: ErrUnsupportedLocator}
	}

	data, err := f.fetch(ctx, ref)
	if err != nil {
		return nil, &FetchError{Locator: locator, Err: err}
	}
	if len(data) == 0 {
		return nil, &FetchError{Locator: locator, Err: ErrEmptySource}
	}

	return data, nil
}

func splitLocator(locator string) (scheme, ref string, ok bool) {
	idx := strings.Index(locator, ":")
	if idx <= 0 {
		return "", "", false
	}

	scheme = locator[:idx]
	switch scheme {
	case "http", "https":
		// URL fetchers need the full locator.
		return scheme, locator, true
	default:
		return scheme, locator[idx+1:], true
	}
}
