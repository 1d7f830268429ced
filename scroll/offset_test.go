package scroll

import (
	"testing"

	"github.com/ghetzel/testify/require"
)

func viewport(top, left, bottom, right, scrollX, scrollY float64) Viewport {
	return Viewport{
		Box: Box{
			Top:    top,
			Left:   left,
			Bottom: bottom,
			Right:  right,
		},
		ScrollX: scrollX,
		ScrollY: scrollY,
	}
}

func TestCalculateBelowViewport(t *testing.T) {
	assert := require.New(t)

	delta, padding := Calculate(
		Box{Top: 150, Bottom: 180, Left: 10, Right: 20},
		viewport(0, 0, 100, 100, 0, 0),
		Both,
	)

	assert.Equal(float64(150), padding.Top)
	assert.Equal(float64(-80), padding.Bottom)
	assert.NotNil(delta.ScrollTop)
	assert.Equal(float64(80), *delta.ScrollTop)
	assert.Nil(delta.ScrollLeft)
}

func TestCalculateAboveViewport(t *testing.T) {
	assert := require.New(t)

	delta, padding := Calculate(
		Box{Top: -20, Bottom: 10, Left: 10, Right: 20},
		viewport(0, 0, 100, 100, 0, 50),
		Vertical,
	)

	assert.Equal(float64(-20), padding.Top)
	assert.NotNil(delta.ScrollTop)
	assert.Equal(float64(30), *delta.ScrollTop)
}

func TestCalculateAlreadyVisible(t *testing.T) {
	assert := require.New(t)

	delta, _ := Calculate(
		Box{Top: 10, Bottom: 50, Left: 10, Right: 50},
		viewport(0, 0, 100, 100, 0, 0),
		Both,
	)

	assert.True(delta.IsEmpty())
	assert.Equal(`none`, delta.String())
	assert.Empty(delta.ToMap())
}

func TestCalculateTallerThanViewport(t *testing.T) {
	assert := require.New(t)

	// the target starts 30px below the top and is 300px tall: only move by
	// the leading gap so the top edge stays visible
	delta, _ := Calculate(
		Box{Top: 30, Bottom: 330},
		viewport(0, 0, 100, 100, 0, 10),
		Vertical,
	)

	assert.NotNil(delta.ScrollTop)
	assert.Equal(float64(40), *delta.ScrollTop)
}

func TestCalculateTouchingTopEdge(t *testing.T) {
	assert := require.New(t)

	// padding.top == 0 with the bottom overflowing takes neither branch
	delta, _ := Calculate(
		Box{Top: 0, Bottom: 300},
		viewport(0, 0, 100, 100, 0, 0),
		Vertical,
	)

	assert.True(delta.IsEmpty())
}

func TestCalculateHorizontal(t *testing.T) {
	assert := require.New(t)

	delta, padding := Calculate(
		Box{Top: 10, Bottom: 20, Left: 250, Right: 290},
		viewport(0, 100, 100, 200, 40, 0),
		Horizontal,
	)

	assert.Equal(float64(150), padding.Left)
	assert.Equal(float64(-90), padding.Right)
	assert.Nil(delta.ScrollTop)
	assert.NotNil(delta.ScrollLeft)
	assert.Equal(float64(130), *delta.ScrollLeft)
	assert.Equal(`scrollLeft=130`, delta.String())

	delta, _ = Calculate(
		Box{Top: 10, Bottom: 20, Left: 60, Right: 90},
		viewport(0, 100, 100, 200, 40, 0),
		Horizontal,
	)

	assert.NotNil(delta.ScrollLeft)
	assert.Equal(float64(0), *delta.ScrollLeft)
}

func TestCalculateDirectionFiltering(t *testing.T) {
	assert := require.New(t)

	delta, _ := Calculate(
		Box{Top: 150, Bottom: 180, Left: 10, Right: 20},
		viewport(0, 0, 100, 100, 0, 0),
		Horizontal,
	)

	assert.True(delta.IsEmpty())
}

func TestCalculateUnrecognizedDirection(t *testing.T) {
	assert := require.New(t)

	target := Box{Top: 150, Bottom: 180, Left: 250, Right: 290}
	vp := viewport(0, 0, 100, 100, 5, 5)

	expected, _ := Calculate(target, vp, ParseAxis(`both`))
	actual, _ := Calculate(target, vp, ParseAxis(`diagonal`))

	assert.Equal(expected.ToMap(), actual.ToMap())
	assert.Len(actual.ToMap(), 2)
}

func TestBoxAndViewportOf(t *testing.T) {
	assert := require.New(t)

	layout := &Layout{
		Metrics: Metrics{
			ClientWidth:  85,
			ClientHeight: 100,
		},
		Top:         40,
		Left:        8,
		OuterWidth:  102,
		OuterHeight: 102,
		ScrollTop:   12,
		ScrollLeft:  3,
	}

	assert.Equal(Box{Top: 40, Left: 8, Bottom: 142, Right: 110}, BoxOf(layout))
	assert.Equal(viewport(40, 8, 140, 93, 3, 12), ViewportOf(layout))
}
