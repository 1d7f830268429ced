package scroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ghetzel/go-stockutil/log"
)

var ErrNoLayout = errors.New(`element has no layout`)

// Element is a node in the host's layout tree.
type Element interface {
	// Returns the parent element, or nil at the top of the tree.
	Parent(ctx context.Context) (Element, error)

	// Returns a snapshot of the element's current geometry.
	Layout(ctx context.Context) (*Layout, error)

	// Assigns the scroll position described by delta, animating over duration
	// when it is positive, and returns once the position has settled.
	ApplyScroll(ctx context.Context, delta Delta, duration time.Duration) error
}

// Plan is the measured relationship between a target and its scroller.
type Plan struct {
	Scroller Element  `json:"-"`
	Axis     Axis     `json:"axis"`
	Box      Box      `json:"box"`
	Viewport Viewport `json:"viewport"`
	Padding  Padding  `json:"padding"`
	Delta    Delta    `json:"delta"`
}

// Reports whether carrying out this plan would move anything.
func (self *Plan) NeedsScroll() bool {
	return self != nil && self.Scroller != nil && !self.Delta.IsEmpty()
}

// Closest returns the first element, starting with element itself and moving
// up through its ancestors, that is scrollable along axis.  It returns nil if
// there is none.
func Closest(ctx context.Context, element Element, axis Axis) (Element, error) {
	for current := element; current != nil; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if layout, err := current.Layout(ctx); err == nil {
			if layout != nil && IsScrollable(&layout.Metrics, axis) {
				return current, nil
			}
		} else {
			return nil, err
		}

		if parent, err := current.Parent(ctx); err == nil {
			current = parent
		} else {
			return nil, err
		}
	}

	return nil, nil
}

// Scrollable reports whether a live element is a scroll container along the
// given direction ("vertical", "horizontal", "both", ...).
func Scrollable(ctx context.Context, element Element, direction interface{}) (bool, error) {
	if element == nil {
		return false, nil
	}

	if layout, err := element.Layout(ctx); err == nil {
		if layout == nil {
			return false, nil
		}

		return IsScrollable(&layout.Metrics, ParseAxis(direction)), nil
	} else {
		return false, err
	}
}

// Measure locates the scroller for target and works out the delta needed to
// bring target into view, without moving anything.  A nil Plan means no
// ancestor can scroll along axis.
func Measure(ctx context.Context, target Element, axis Axis) (*Plan, error) {
	scroller, err := Closest(ctx, target, axis)

	if err != nil {
		return nil, fmt.Errorf("scroller lookup: %w", err)
	} else if scroller == nil {
		return nil, nil
	}

	visible, err := scroller.Layout(ctx)

	if err != nil {
		return nil, fmt.Errorf("scroller layout: %w", err)
	} else if visible == nil {
		return nil, ErrNoLayout
	}

	actual, err := target.Layout(ctx)

	if err != nil {
		return nil, fmt.Errorf("target layout: %w", err)
	} else if actual == nil {
		return nil, ErrNoLayout
	}

	plan := &Plan{
		Scroller: scroller,
		Axis:     axis,
		Box:      BoxOf(actual),
		Viewport: ViewportOf(visible),
	}

	plan.Delta, plan.Padding = Calculate(plan.Box, plan.Viewport, axis)

	return plan, nil
}

// IntoView scrolls the nearest scrollable ancestor of target (or target
// itself) so that target is fully visible, and returns target.
//
// If there is no such ancestor, or target is already visible along the
// requested axes, nothing happens and opts.Complete is not called.
func IntoView(ctx context.Context, target Element, opts *Options) (Element, error) {
	_, err := IntoViewPlan(ctx, target, opts)
	return target, err
}

// IntoViewPlan behaves like IntoView but also returns the plan it carried out.
func IntoViewPlan(ctx context.Context, target Element, opts *Options) (*Plan, error) {
	if target == nil {
		return nil, nil
	}

	options := opts.withDefaults()
	axis := options.Axis()

	plan, err := Measure(ctx, target, axis)

	if err != nil {
		return nil, err
	} else if plan == nil {
		log.Debugf("[scroll] No %v scroller found", axis)
		return nil, nil
	} else if !plan.NeedsScroll() {
		log.Debugf("[scroll] Target already visible (padding %+v)", plan.Padding)
		return plan, nil
	}

	log.Debugf("[scroll] Applying %v over %v", plan.Delta, options.Duration)

	if err := plan.Scroller.ApplyScroll(ctx, plan.Delta, options.Duration); err != nil {
		return plan, fmt.Errorf("apply scroll: %w", err)
	}

	if options.Complete != nil {
		options.Complete(plan.Scroller)
	}

	return plan, nil
}
