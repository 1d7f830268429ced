package core

import (
	"context"
	"fmt"
	"time"

	defaults "github.com/ghetzel/go-defaults"
	"github.com/ghetzel/go-scrollfriend/browser"
	"github.com/ghetzel/go-scrollfriend/scroll"
	"github.com/ghetzel/go-scrollfriend/utils"
	"github.com/ghetzel/go-stockutil/log"
)

type ScrollToArgs struct {
	// How long the scroll animation should take.  This can be a duration
	// ("750ms"), a number of milliseconds, or one of "fast" (200ms), "normal"
	// (400ms), "slow" (600ms) or "instant".
	Duration interface{} `json:"duration"`

	// Which axes may be scrolled: "vertical" ("y"), "horizontal" ("x") or "both".
	Direction string `json:"direction" default:"both"`

	// How long to wait for the element to appear.
	Timeout time.Duration `json:"timeout" default:"5s"`
}

type ScrollToResponse struct {
	// Whether anything actually moved.
	Scrolled bool `json:"scrolled"`

	// The element that was scrolled, if any.
	Scroller *browser.Element `json:"scroller,omitempty"`

	// The element that was brought into view.
	Element *browser.Element `json:"element"`

	// The scroll position(s) that were assigned.
	Delta map[string]interface{} `json:"delta,omitempty"`

	// Distances between the element's edges and the scroller's before scrolling.
	Padding *scroll.Padding `json:"padding,omitempty"`
}

// Scroll the first element matched by selector into view, scrolling its
// nearest scrollable ancestor (or the element itself) just far enough that the
// element is fully visible.
func (self *Commands) ScrollTo(selector browser.Selector, args *ScrollToArgs) (*ScrollToResponse, error) {
	if args == nil {
		args = &ScrollToArgs{}
	}

	defaults.SetDefaults(args)
	args.Timeout = utils.FudgeDuration(args.Timeout)

	tab, err := self.tab()

	if err != nil {
		return nil, err
	}

	ctx, cancel := commandContext(args.Timeout + DefaultCommandTimeout)
	defer cancel()

	lookupCtx, lookupCancel := context.WithTimeout(ctx, args.Timeout)
	defer lookupCancel()

	if elements, err := selectElements(lookupCtx, tab, selector, &SelectArgs{
		MinMatches: 1,
		Interval:   125 * time.Millisecond,
	}); err == nil {
		return scrollElementIntoView(ctx, elements[0], args)
	} else {
		return nil, err
	}
}

func scrollElementIntoView(ctx context.Context, element scroll.Element, args *ScrollToArgs) (*ScrollToResponse, error) {
	response := &ScrollToResponse{}

	if el, ok := element.(*browser.Element); ok {
		response.Element = el
	}

	plan, err := scroll.IntoViewPlan(ctx, element, &scroll.Options{
		Duration:  scroll.ParseDuration(args.Duration),
		Direction: args.Direction,
		Complete: func(scroller scroll.Element) {
			response.Scrolled = true
		},
	})

	if err != nil {
		return nil, err
	}

	if plan != nil {
		response.Padding = &plan.Padding

		if el, ok := plan.Scroller.(*browser.Element); ok {
			response.Scroller = el
		}

		if response.Scrolled {
			response.Delta = plan.Delta.ToMap()
		}
	}

	log.Debugf("[scroll] scroll_to %v: scrolled=%v", element, response.Scrolled)

	return response, nil
}

type ScrollableArgs struct {
	// Which axes to test: "vertical" ("y"), "horizontal" ("x") or "both".
	Direction string `json:"direction" default:"both"`

	// How long to wait for the element to appear.
	Timeout time.Duration `json:"timeout" default:"5s"`
}

// Report whether the first element matched by selector can be scrolled along
// the given direction.
func (self *Commands) Scrollable(selector browser.Selector, args *ScrollableArgs) (bool, error) {
	if args == nil {
		args = &ScrollableArgs{}
	}

	defaults.SetDefaults(args)
	args.Timeout = utils.FudgeDuration(args.Timeout)

	tab, err := self.tab()

	if err != nil {
		return false, err
	}

	ctx, cancel := commandContext(args.Timeout)
	defer cancel()

	if elements, err := selectElements(ctx, tab, selector, &SelectArgs{
		MinMatches: 1,
		Interval:   125 * time.Millisecond,
	}); err == nil {
		return scroll.Scrollable(ctx, elements[0], args.Direction)
	} else {
		return false, err
	}
}

type ScrollToCoordsArgs struct {
	// The horizontal position to scroll the window to.
	X int `json:"x"`

	// The vertical position to scroll the window to.
	Y int `json:"y"`
}

// Scroll the viewport to the given X,Y coordinates relative to the top-left of
// the current page.
func (self *Commands) ScrollToCoords(args *ScrollToCoordsArgs) error {
	if args == nil {
		args = &ScrollToCoordsArgs{}
	}

	tab, err := self.tab()

	if err != nil {
		return err
	}

	ctx, cancel := commandContext(0)
	defer cancel()

	_, err = tab.Evaluate(ctx, fmt.Sprintf("window.scrollTo(%d, %d)", args.X, args.Y))
	return err
}
