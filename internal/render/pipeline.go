package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/foliolabs/folio/internal/events"
	"github.com/foliolabs/folio/internal/source"
)

// Pipeline drives a session from idle to ready: fetch bytes, decode, then
// rasterize every page in order into the session flow. One Run per session,
// always on its own goroutine.
type Pipeline struct {
	source            source.Adapter
	renderer          Renderer
	oversample        float64
	horizontalPadding float64
	logger            *slog.Logger
}

// NewPipeline creates a pipeline. oversample is the rasterization factor
// applied on top of the logical content width; horizontalPadding is the
// per-side margin subtracted from the viewport width.
func NewPipeline(src source.Adapter, renderer Renderer, oversample, horizontalPadding float64, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		source:            src,
		renderer:          renderer,
		oversample:        oversample,
		horizontalPadding: horizontalPadding,
		logger:            logger.With("system", "render"),
	}
}

// Run executes the render for a session. Any failure marks the session
// failed, emits a single error event, and stops. A cancelled context stops
// scheduling pages and emits nothing further; the caller owns teardown.
func (p *Pipeline) Run(ctx context.Context, session *Session, locator string, ch events.Channel) error {
	if err := session.advance(StatusFetchingBytes); err != nil {
		return err
	}

	data, err := p.source.Fetch(ctx, locator)
	if err != nil {
		return p.fail(session, ch, fmt.Errorf("fetch: %w", err))
	}

	if err := session.advance(StatusDecoding); err != nil {
		return err
	}

	doc, err := p.renderer.Open(data)
	if err != nil {
		return p.fail(session, ch, fmt.Errorf("decode: %w", err))
	}
	defer doc.Close()

	total := doc.PageCount()
	if total < 1 {
		return p.fail(session, ch, errors.New("decode: document has no pages"))
	}

	session.setLoaded(total)
	if stop, err := p.emit(session, ch, events.Loaded(total)); stop {
		return err
	}

	if err := session.advance(StatusRendering); err != nil {
		return err
	}

	contentWidth := session.Viewport.Width - 2*p.horizontalPadding
	if contentWidth <= 0 {
		return p.fail(session, ch, fmt.Errorf("viewport width %.1f leaves no content area", session.Viewport.Width))
	}

	for page := 1; page <= total; page++ {
		// Cancellation takes effect at page granularity.
		select {
		case <-ctx.Done():
			p.logger.Debug("render cancelled", "session", session.ID, "page", page)
			return ctx.Err()
		default:
		}

		session.setRenderingPage(page)

		width, _, err := doc.PageSize(page)
		if err != nil {
			return p.fail(session, ch, fmt.Errorf("page %d: %w", page, err))
		}
		if width <= 0 {
			return p.fail(session, ch, fmt.Errorf("page %d has zero width", page))
		}

		scale := contentWidth * p.oversample / width
		img, err := doc.RenderPage(page, scale)
		if err != nil {
			return p.fail(session, ch, fmt.Errorf("page %d: %w", page, err))
		}

		session.appendPage(page, img)

		if stop, err := p.emit(session, ch, events.Progress(page, total)); stop {
			return err
		}
	}

	if err := session.finish(); err != nil {
		return err
	}
	if stop, err := p.emit(session, ch, events.Rendered()); stop {
		return err
	}

	p.logger.Info("document rendered",
		"session", session.ID,
		"document", session.DocumentID,
		"pages", total,
		"flow_height", session.FlowHeight())
	return nil
}

// emit sends an event and decides whether the pipeline should stop. A closed
// channel means the session was torn down underneath us: stop without
// failing. A full buffer means the consumer cannot keep up: the session is
// unrecoverable.
func (p *Pipeline) emit(session *Session, ch events.Channel, evt events.Event) (stop bool, err error) {
	switch sendErr := ch.Send(evt); {
	case sendErr == nil:
		return false, nil
	case errors.Is(sendErr, events.ErrChannelClosed):
		p.logger.Debug("event dropped after teardown", "session", session.ID, "type", evt.Type)
		return true, nil
	default:
		session.fail(sendErr.Error())
		return true, sendErr
	}
}

// fail marks the session failed and notifies the surface once.
func (p *Pipeline) fail(session *Session, ch events.Channel, cause error) error {
	session.fail(cause.Error())
	p.logger.Error("render failed", "session", session.ID, "document", session.DocumentID, "error", cause)

	if err := ch.Send(events.Failed(cause.Error())); err != nil && !errors.Is(err, events.ErrChannelClosed) {
		p.logger.Warn("error event undelivered", "session", session.ID, "error", err)
	}
	return cause
}
