// Package render turns raw document bytes into a vertical flow of page
// bitmaps and tracks the reading position within it. Rasterization goes
// through the Renderer interface; the pipeline never inspects document
// internals itself.
package render

import "image"

// Renderer opens raw document bytes for rasterization. Implementations are
// black boxes; a failed Open means the bytes are not a readable document.
type Renderer interface {
	Open(data []byte) (Document, error)
}

// Document is an open document ready to rasterize. Pages are 1-based.
type Document interface {
	PageCount() int

	// PageSize reports the page dimensions in points (1/72 inch) at scale 1.
	PageSize(page int) (width, height float64, err error)

	// RenderPage rasterizes a page. The bitmap width equals the page width
	// in points multiplied by scale.
	RenderPage(page int, scale float64) (image.Image, error)

	Close() error
}

// Viewport describes the reader surface in logical units.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PageBoundary records where a page landed in the flow, in logical units.
// Boundaries are measured after insertion, never predicted from page
// metadata, so they match what the surface actually laid out.
type PageBoundary struct {
	Page   int     `json:"page"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}
