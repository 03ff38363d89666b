package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/foliolabs/folio/internal/storage"
)

// New creates an Adapter supporting blob, file, and http(s) locators.
// fetchTimeout bounds network fetches; zero leaves them unbounded. The
// pipeline imposes no timeout of its own.
func New(store storage.System, fetchTimeout time.Duration) Adapter {
	client := &http.Client{Timeout: fetchTimeout}

	remote := &urlFetcher{client: client}
	return &adapter{
		schemes: map[string]fetcher{
			"blob":  &blobFetcher{store: store},
			"file":  &fileFetcher{},
			"http":  remote,
			"https": remote,
		},
	}
}

// blobFetcher reads from the document blob store.
type blobFetcher struct {
	store storage.System
}

func (f *blobFetcher) fetch(ctx context.Context, key string) ([]byte, error) {
	data, err := f.store.Retrieve(ctx, key)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidKey):
			return nil, ErrUnreachableSource
		case errors.Is(err, storage.ErrPermissionDenied):
			return nil, ErrPermissionDenied
		default:
			return nil, err
		}
	}
	return data, nil
}

// fileFetcher reads directly from the local filesystem.
type fileFetcher struct{}

func (f *fileFetcher) fetch(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, ErrUnreachableSource
		case errors.Is(err, fs.ErrPermission):
			return nil, ErrPermissionDenied
		default:
			return nil, err
		}
	}
	return data, nil
}

// urlFetcher downloads over HTTP(S).
type urlFetcher struct {
	client *http.Client
}

func (f *urlFetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachableSource, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachableSource, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrPermissionDenied
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: status %d", ErrUnreachableSource, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachableSource, err)
	}

	return data, nil
}
