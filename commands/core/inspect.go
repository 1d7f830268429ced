package core

import (
	"fmt"
	"time"

	defaults "github.com/ghetzel/go-defaults"
	"github.com/ghetzel/go-scrollfriend/browser"
	"github.com/ghetzel/go-scrollfriend/utils"
)

type InspectArgs struct {
	// Discard everything known about the current document and load it again
	// before inspecting.
	Reload bool `json:"reload"`

	// How long to wait for the element to appear.
	Timeout time.Duration `json:"timeout" default:"5s"`
}

// Return the markup tree under the elements matched by selector, or the whole
// document if no selector is given.
func (self *Commands) Inspect(selector browser.Selector, args *InspectArgs) (string, error) {
	if args == nil {
		args = &InspectArgs{}
	}

	defaults.SetDefaults(args)
	args.Timeout = utils.FudgeDuration(args.Timeout)

	tab, err := self.tab()

	if err != nil {
		return ``, err
	}

	if args.Reload {
		if err := tab.DOM().Reset(); err != nil {
			return ``, err
		}
	}

	if selector.IsNone() {
		if root := tab.DOM().Root(); root != nil {
			return root.TreeString(0), nil
		} else {
			return ``, fmt.Errorf("document is not loaded")
		}
	}

	ctx, cancel := commandContext(args.Timeout)
	defer cancel()

	if elements, err := selectElements(ctx, tab, selector, &SelectArgs{
		MinMatches: 1,
		Interval:   125 * time.Millisecond,
	}); err == nil {
		output := ``

		for _, element := range elements {
			if err := element.RefreshAttributes(); err != nil {
				return ``, err
			}

			output += element.TreeString(0)
		}

		return output, nil
	} else {
		return ``, err
	}
}

// Focuses the element described by selector. One and only one element may match the selector.
func (self *Commands) Focus(selector browser.Selector) (*browser.Element, error) {
	if elements, err := self.Select(selector, nil); err == nil {
		if element, err := onlyMatch(selector, elements); err == nil {
			if err := element.Focus(); err == nil {
				return element, nil
			} else {
				return nil, err
			}
		} else {
			return nil, err
		}
	} else {
		return nil, err
	}
}

type ClickArgs struct {
	// Click every matching element instead of requiring exactly one match.
	Multiple bool `json:"multiple"`

	// If Multiple clicks are permitted, what is the delay between each click.
	Delay time.Duration `json:"delay" default:"20ms"`
}

// Click on HTML element(s) matched by selector.  If multiple is true, then all
// elements matched by selector will be clicked in the order they are returned.
// Otherwise, an error is returned unless selector matches exactly one element.
func (self *Commands) Click(selector browser.Selector, args *ClickArgs) ([]*browser.Element, error) {
	if args == nil {
		args = &ClickArgs{}
	}

	defaults.SetDefaults(args)
	args.Delay = utils.FudgeDuration(args.Delay)

	if elements, err := self.Select(selector, nil); err == nil {
		if !args.Multiple {
			if _, err := onlyMatch(selector, elements); err != nil {
				return nil, err
			}
		}

		for i, element := range elements {
			if i > 0 && args.Delay > 0 {
				time.Sleep(args.Delay)
			}

			if err := element.Click(); err != nil {
				return elements[0:i], err
			}
		}

		return elements, nil
	} else {
		return nil, err
	}
}

func onlyMatch(selector browser.Selector, elements []*browser.Element) (*browser.Element, error) {
	switch l := len(elements); l {
	case 1:
		return elements[0], nil
	case 0:
		return nil, fmt.Errorf("Selector %q did not match any elements", selector)
	default:
		return nil, browser.TooManyMatchesErr(selector, 1, l)
	}
}
