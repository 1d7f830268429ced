package scroll

import (
	"strconv"
	"strings"
	"time"

	defaults "github.com/ghetzel/go-defaults"
	"github.com/ghetzel/go-stockutil/typeutil"
)

// Immediately requests a scroll assignment without any animation.  A zero
// Duration cannot be used for this because it is replaced by the default.
const Immediately time.Duration = -1

var DefaultDuration = 200 * time.Millisecond

var namedSpeeds = map[string]time.Duration{
	`fast`:     200 * time.Millisecond,
	`normal`:   400 * time.Millisecond,
	`_default`: 400 * time.Millisecond,
	`slow`:     600 * time.Millisecond,
	`instant`:  Immediately,
	`none`:     Immediately,
}

// CompleteFunc is called with the scroller once a scroll has settled.
type CompleteFunc func(scroller Element)

type Options struct {
	// How long the scroll animation takes.  Use Immediately to assign the
	// position without animating.
	Duration time.Duration `json:"duration" default:"200ms"`

	// Which axes may be scrolled: "vertical" (or "y"), "horizontal" (or "x"),
	// or "both".
	Direction string `json:"direction" default:"both"`

	// Called exactly once after the scroller has been moved.  It is not called
	// if nothing needed to move.
	Complete CompleteFunc `json:"-"`
}

// Returns a copy of these options with unset fields filled with their
// defaults.  The receiver may be nil.
func (self *Options) withDefaults() Options {
	var merged Options

	if self != nil {
		merged = *self
	}

	defaults.SetDefaults(&merged)

	return merged
}

// Returns the axis selected by Direction.
func (self Options) Axis() Axis {
	return ParseAxis(self.Direction)
}

// ParseDuration accepts the named speeds "fast", "normal" and "slow" (plus
// "instant"/"none"), duration strings like "150ms", and bare numbers, which
// are taken as milliseconds.  Unknown speed names give the "_default" speed
// (400ms); empty or unsupported values give DefaultDuration.
func ParseDuration(value interface{}) time.Duration {
	switch v := value.(type) {
	case nil:
		return DefaultDuration
	case time.Duration:
		return millisecondsIfTiny(v)
	case string:
		v = strings.ToLower(strings.TrimSpace(v))

		if v == `` {
			return DefaultDuration
		} else if speed, ok := namedSpeeds[v]; ok {
			return speed
		} else if d, err := time.ParseDuration(v); err == nil {
			return immediateIfZero(d)
		} else if ms, err := strconv.ParseFloat(v, 64); err == nil {
			return immediateIfZero(time.Duration(ms * float64(time.Millisecond)))
		} else {
			return namedSpeeds[`_default`]
		}
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return immediateIfZero(time.Duration(typeutil.V(v).Float() * float64(time.Millisecond)))
	}

	return DefaultDuration
}

func millisecondsIfTiny(d time.Duration) time.Duration {
	if d > 0 && d < time.Millisecond {
		return time.Duration(int64(d)) * time.Millisecond
	}

	return immediateIfZero(d)
}

func immediateIfZero(d time.Duration) time.Duration {
	if d <= 0 {
		return Immediately
	}

	return d
}
