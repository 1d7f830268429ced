package core

import (
	"context"
	"fmt"
	"time"

	defaults "github.com/ghetzel/go-defaults"
	"github.com/ghetzel/go-scrollfriend/browser"
	"github.com/ghetzel/go-scrollfriend/utils"
)

type SelectArgs struct {
	// The timeout before we stop waiting for the element to appear.
	Timeout time.Duration `json:"timeout" default:"5s"`

	// The minimum number of matches necessary to be considered a successful match.
	MinMatches int `json:"min_matches" default:"1"`

	// The polling interval between element re-checks.
	Interval time.Duration `json:"interval" default:"125ms"`
}

// Polls the DOM for an element that matches the given selector. Either the
// element will be found and returned within the given timeout, or a
// TimeoutError will be returned.
func (self *Commands) Select(selector browser.Selector, args *SelectArgs) ([]*browser.Element, error) {
	if args == nil {
		args = &SelectArgs{}
	}

	defaults.SetDefaults(args)
	args.Timeout = utils.FudgeDuration(args.Timeout)
	args.Interval = utils.FudgeDuration(args.Interval)

	tab, err := self.tab()

	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), args.Timeout)
	defer cancel()

	return selectElements(ctx, tab, selector, args)
}

func selectElements(ctx context.Context, tab *browser.Tab, selector browser.Selector, args *SelectArgs) ([]*browser.Element, error) {
	for {
		if elements, err := tab.ElementQuery(ctx, selector); err == nil {
			if len(elements) >= args.MinMatches {
				return elements, nil
			}
		}

		select {
		case <-ctx.Done():
			// If we timed out but are allowed to have zero hits, then it's not an error.
			if args.MinMatches == 0 {
				return make([]*browser.Element, 0), nil
			} else {
				return nil, fmt.Errorf("Timed out waiting for '%v'", selector)
			}
		case <-time.After(args.Interval):
		}
	}
}
