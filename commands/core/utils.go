package core

import (
	defaults "github.com/ghetzel/go-defaults"
	"github.com/ghetzel/go-scrollfriend/browser"
	"github.com/ghetzel/go-stockutil/stringutil"
)

// [SKIP]
// Directly call an RPC method with the given parameters.
func (self *Commands) Rpc(method string, args map[string]interface{}) (interface{}, error) {
	mod, meth := stringutil.SplitPair(method, `::`)

	if tab, err := self.tab(); err == nil {
		if reply, err := tab.RPC(mod, meth, args); err == nil {
			return reply.Result, nil
		} else {
			return nil, err
		}
	} else {
		return nil, err
	}
}

type HighlightArgs struct {
	// The red component of the highlight color (0 <= r < 256)
	R int `json:"r" default:"0"`

	// The green component of the highlight color (0 <= g < 256)
	G int `json:"g" default:"128"`

	// The blue component of the highlight color (0 <= b < 256)
	B int `json:"b" default:"128"`

	// The alpha component of the highlight color (0.0 <= a <= 1.0)
	A float64 `json:"a" default:"0.5"`
}

// Highlight the node matching the given selector, or clear all highlights if
// the selector is "none"
func (self *Commands) Highlight(selector browser.Selector, args *HighlightArgs) error {
	if args == nil {
		args = &HighlightArgs{}
	}

	defaults.SetDefaults(args)

	tab, err := self.tab()

	if err != nil {
		return err
	}

	if selector.IsNone() {
		return tab.AsyncRPC(`Overlay`, `hideHighlight`, nil)
	}

	if _, err := tab.RPC(`Overlay`, `enable`, nil); err != nil {
		return err
	}

	ctx, cancel := commandContext(0)
	defer cancel()

	if elements, err := tab.ElementQuery(ctx, selector); err == nil {
		for _, element := range elements {
			if err := element.Highlight(args.R, args.G, args.B, args.A); err != nil {
				return err
			}
		}

		return nil
	} else {
		return err
	}
}

// Immediately close the browser without error or delay.
func (self *Commands) Exit() error {
	return browser.ExitRequested
}
