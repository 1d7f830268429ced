package scroll

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var leadingNumber = regexp.MustCompile(`^\s*[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)

var overflowPolicy = map[string]bool{
	`auto`:    true,
	`scroll`:  true,
	`visible`: false,
	`hidden`:  false,
}

// Metrics holds the computed style and box measurements needed to decide
// whether an element is a scroll container.
type Metrics struct {
	OverflowX         string  `json:"overflowX"`
	OverflowY         string  `json:"overflowY"`
	BorderTopWidth    string  `json:"borderTopWidth"`
	BorderBottomWidth string  `json:"borderBottomWidth"`
	BorderLeftWidth   string  `json:"borderLeftWidth"`
	BorderRightWidth  string  `json:"borderRightWidth"`
	OffsetWidth       float64 `json:"offsetWidth"`
	OffsetHeight      float64 `json:"offsetHeight"`
	ScrollWidth       float64 `json:"scrollWidth"`
	ScrollHeight      float64 `json:"scrollHeight"`
	ClientWidth       float64 `json:"clientWidth"`
	ClientHeight      float64 `json:"clientHeight"`
}

// Reports whether the computed overflow value permits scrolling.
func OverflowAllowed(value string) bool {
	return overflowPolicy[strings.ToLower(strings.TrimSpace(value))]
}

// ParseBorderWidth reads the leading number out of a CSS length ("2px",
// "0.5em", "3").  Values that do not start with a number are 0.
func ParseBorderWidth(value string) float64 {
	if match := leadingNumber.FindString(value); match != `` {
		if v, err := strconv.ParseFloat(strings.TrimSpace(match), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v
		}
	}

	return 0
}

// The offset height of the element minus its top and bottom borders.
func (self *Metrics) ActualHeight() float64 {
	return self.OffsetHeight - (ParseBorderWidth(self.BorderTopWidth) + ParseBorderWidth(self.BorderBottomWidth))
}

// The offset width of the element minus its left and right borders.
func (self *Metrics) ActualWidth() float64 {
	return self.OffsetWidth - (ParseBorderWidth(self.BorderLeftWidth) + ParseBorderWidth(self.BorderRightWidth))
}

// ScrollableY reports vertical overflow.  The gate is on the width axis: the
// element must be wider than its client area (i.e. a vertical scrollbar is
// taking up room) and its content taller than the client area.
func (self *Metrics) ScrollableY() bool {
	return self.ActualWidth() > self.ClientWidth && self.ScrollHeight > self.ClientHeight
}

// ScrollableX mirrors ScrollableY: the element must be taller than its client
// area and its content wider than the client area.
func (self *Metrics) ScrollableX() bool {
	return self.ActualHeight() > self.ClientHeight && self.ScrollWidth > self.ClientWidth
}

// IsScrollable reports whether the element described by metrics is a scroll
// container along any of the requested axes.  An axis only counts when its
// own overflow style is auto or scroll.
func IsScrollable(metrics *Metrics, axis Axis) bool {
	if metrics == nil {
		return false
	}

	policyX := OverflowAllowed(metrics.OverflowX)
	policyY := OverflowAllowed(metrics.OverflowY)

	// completely unscrollable
	if !policyX && !policyY {
		return false
	}

	if axis.Y && policyY && metrics.ScrollableY() {
		return true
	}

	return axis.X && policyX && metrics.ScrollableX()
}
