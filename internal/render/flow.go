package render

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Flow stacks page bitmaps vertically with zero gap between them. Bitmaps
// arrive oversampled; the flow retains display-resolution copies and reports
// offsets in logical units.
type Flow struct {
	oversample float64
	height     float64
	pages      []image.Image
}

// NewFlow creates an empty flow. oversample is the rasterization factor the
// incoming bitmaps were rendered at.
func NewFlow(oversample float64) *Flow {
	return &Flow{oversample: oversample}
}

// Append adds a bitmap below everything already in the flow and returns its
// measured top and bottom offsets in logical units. The logical height is
// the pixel height divided by the oversample factor, rounded to the nearest
// whole unit the way layout rounds.
func (f *Flow) Append(img image.Image) (top, bottom float64) {
	bounds := img.Bounds()
	logicalW := math.Round(float64(bounds.Dx()) / f.oversample)
	logicalH := math.Round(float64(bounds.Dy()) / f.oversample)

	top = f.height
	bottom = top + logicalH
	f.height = bottom

	f.pages = append(f.pages, downscale(img, int(logicalW), int(logicalH)))
	return top, bottom
}

// Height returns the total logical height of the flow.
func (f *Flow) Height() float64 {
	return f.height
}

// Len returns the number of pages appended so far.
func (f *Flow) Len() int {
	return len(f.pages)
}

// Page returns the display-resolution bitmap for a 1-based page number.
func (f *Flow) Page(page int) (image.Image, bool) {
	if page < 1 || page > len(f.pages) {
		return nil, false
	}
	return f.pages[page-1], true
}

func downscale(src image.Image, width, height int) image.Image {
	bounds := src.Bounds()
	if bounds.Dx() == width && bounds.Dy() == height {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
