package render_test

import (
	"image"
	"testing"

	"github.com/foliolabs/folio/internal/render"
)

func TestFlow_AppendMeasuresLogicalOffsets(t *testing.T) {
	flow := render.NewFlow(2.0)

	top, bottom := flow.Append(image.NewRGBA(image.Rect(0, 0, 800, 1120)))
	if top != 0 || bottom != 560 {
		t.Fatalf("Append() = (%v, %v), want (0, 560)", top, bottom)
	}

	top, bottom = flow.Append(image.NewRGBA(image.Rect(0, 0, 800, 900)))
	if top != 560 || bottom != 1010 {
		t.Fatalf("Append() = (%v, %v), want (560, 1010)", top, bottom)
	}

	if flow.Height() != 1010 {
		t.Errorf("Height() = %v, want 1010", flow.Height())
	}
}

func TestFlow_AppendZeroGap(t *testing.T) {
	flow := render.NewFlow(2.0)

	_, firstBottom := flow.Append(image.NewRGBA(image.Rect(0, 0, 800, 1120)))
	secondTop, _ := flow.Append(image.NewRGBA(image.Rect(0, 0, 800, 1120)))

	if secondTop != firstBottom {
		t.Errorf("second page top = %v, want %v (zero gap)", secondTop, firstBottom)
	}
}

func TestFlow_AppendRoundsLikeLayout(t *testing.T) {
	flow := render.NewFlow(2.0)

	// 1121 px at 2x oversample is 560.5 logical: rounds to 561.
	_, bottom := flow.Append(image.NewRGBA(image.Rect(0, 0, 800, 1121)))
	if bottom != 561 {
		t.Errorf("Append() bottom = %v, want 561", bottom)
	}
}

func TestFlow_PageRetainsDisplayResolution(t *testing.T) {
	flow := render.NewFlow(2.0)
	flow.Append(image.NewRGBA(image.Rect(0, 0, 800, 1120)))

	img, ok := flow.Page(1)
	if !ok {
		t.Fatal("Page(1) not found")
	}

	bounds := img.Bounds()
	if bounds.Dx() != 400 || bounds.Dy() != 560 {
		t.Errorf("Page(1) = %dx%d, want 400x560", bounds.Dx(), bounds.Dy())
	}

	if _, ok := flow.Page(2); ok {
		t.Error("Page(2) found, want missing")
	}
	if _, ok := flow.Page(0); ok {
		t.Error("Page(0) found, want missing")
	}
}
