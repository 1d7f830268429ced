package scroll

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// Layout is a single snapshot of an element's geometry, in document
// coordinates.
type Layout struct {
	Metrics
	Top         float64 `json:"top"`
	Left        float64 `json:"left"`
	OuterWidth  float64 `json:"outerWidth"`
	OuterHeight float64 `json:"outerHeight"`
	ScrollTop   float64 `json:"scrollTop"`
	ScrollLeft  float64 `json:"scrollLeft"`
}

// Box is the outer (border-box) rectangle of a target element.
type Box struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
}

// Viewport is the visible client area of a scroll container together with its
// current scroll position.
type Viewport struct {
	Box
	ScrollX float64 `json:"scrollX"`
	ScrollY float64 `json:"scrollY"`
}

// Padding is the signed distance between each edge of a target and the
// corresponding edge of the viewport.  Negative values mean the target
// extends past that edge.
type Padding struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// Delta holds the absolute scroll positions to assign to a scroller.  A nil
// field leaves that axis alone.
type Delta struct {
	ScrollTop  *float64 `json:"scrollTop,omitempty"`
	ScrollLeft *float64 `json:"scrollLeft,omitempty"`
}

// BoxOf returns the outer box of an element from its layout snapshot.
func BoxOf(layout *Layout) Box {
	return Box{
		Top:    layout.Top,
		Left:   layout.Left,
		Bottom: layout.Top + layout.OuterHeight,
		Right:  layout.Left + layout.OuterWidth,
	}
}

// ViewportOf returns the visible area of a scroller from its layout snapshot.
func ViewportOf(layout *Layout) Viewport {
	return Viewport{
		Box: Box{
			Top:    layout.Top,
			Left:   layout.Left,
			Bottom: layout.Top + layout.ClientHeight,
			Right:  layout.Left + layout.ClientWidth,
		},
		ScrollX: layout.ScrollLeft,
		ScrollY: layout.ScrollTop,
	}
}

// PaddingOf measures target against viewport.
func PaddingOf(target Box, viewport Viewport) Padding {
	return Padding{
		Top:    target.Top - viewport.Top,
		Bottom: viewport.Bottom - target.Bottom,
		Left:   target.Left - viewport.Left,
		Right:  viewport.Right - target.Right,
	}
}

// Calculate works out the scroll positions that bring target fully inside
// viewport along the requested axes.  Axes not in axis are never touched.
//
// When the leading edge (top/left) is hidden, the scroller moves back by
// exactly the hidden amount.  When only the trailing edge (bottom/right) is
// hidden, it moves forward by the hidden amount but never by more than the
// leading gap, so a target larger than the viewport keeps its leading edge
// visible and is cut off at the trailing edge.
func Calculate(target Box, viewport Viewport, axis Axis) (Delta, Padding) {
	var delta Delta
	var padding = PaddingOf(target, viewport)

	if axis.Y {
		delta.ScrollTop = adjust(viewport.ScrollY, padding.Top, padding.Bottom)
	}

	if axis.X {
		delta.ScrollLeft = adjust(viewport.ScrollX, padding.Left, padding.Right)
	}

	return delta, padding
}

func adjust(current float64, leading float64, trailing float64) *float64 {
	var position float64

	if leading < 0 {
		position = current + leading
	} else if leading > 0 && trailing < 0 {
		position = current + math.Min(-trailing, leading)
	} else {
		return nil
	}

	return &position
}

// Reports whether no scrolling is required.
func (self Delta) IsEmpty() bool {
	return self.ScrollTop == nil && self.ScrollLeft == nil
}

// Returns a map of the scroll properties to assign, suitable for passing to
// the host.
func (self Delta) ToMap() map[string]interface{} {
	out := make(map[string]interface{})

	if self.ScrollTop != nil {
		out[`scrollTop`] = *self.ScrollTop
	}

	if self.ScrollLeft != nil {
		out[`scrollLeft`] = *self.ScrollLeft
	}

	return out
}

func (self Delta) String() string {
	parts := make([]string, 0)

	if self.ScrollTop != nil {
		parts = append(parts, fmt.Sprintf("scrollTop=%s", humanize.Ftoa(*self.ScrollTop)))
	}

	if self.ScrollLeft != nil {
		parts = append(parts, fmt.Sprintf("scrollLeft=%s", humanize.Ftoa(*self.ScrollLeft)))
	}

	if len(parts) == 0 {
		return `none`
	}

	return strings.Join(parts, ` `)
}
