// Package scroll decides whether elements can scroll, and by how much an
// element's nearest scrollable ancestor must move to bring it fully into view.
//
// Everything in this package is a pure function of a layout snapshot. Reading
// live layout and assigning scroll positions is left to an Element
// implementation supplied by the host (see the browser package).
package scroll

import (
	"strings"
)

// Axis selects which scroll directions an operation may consider.
type Axis struct {
	X bool `json:"x"`
	Y bool `json:"y"`
}

var (
	Vertical   = Axis{X: false, Y: true}
	Horizontal = Axis{X: true, Y: false}
	Both       = Axis{X: true, Y: true}
)

var axisTokens = map[string]Axis{
	`vertical`:   Vertical,
	`y`:          Vertical,
	`horizontal`: Horizontal,
	`x`:          Horizontal,
	`both`:       Both,
}

// ParseAxis converts a direction token ("vertical", "y", "horizontal", "x" or
// "both", in any case) into an Axis.  Anything else, including values that
// are not strings at all, yields Both.
func ParseAxis(token interface{}) Axis {
	switch t := token.(type) {
	case Axis:
		return t
	case string:
		if axis, ok := axisTokens[strings.ToLower(t)]; ok {
			return axis
		}
	}

	return Both
}

// Label returns the canonical direction name for this axis set.
func (self Axis) Label() string {
	var label string

	if self.X {
		label = `horizontal`
	}

	if self.Y {
		if label != `` {
			label = `both`
		} else {
			label = `vertical`
		}
	}

	return label
}

func (self Axis) String() string {
	return self.Label()
}
