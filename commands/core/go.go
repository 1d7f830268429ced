package core

import (
	"fmt"
	"net/url"
	"time"

	defaults "github.com/ghetzel/go-defaults"
	"github.com/ghetzel/go-scrollfriend/utils"
	"github.com/ghetzel/go-stockutil/log"
)

type GoArgs struct {
	// Whether to block until the page has finished loading.
	WaitForLoad bool `json:"wait_for_load" default:"true"`

	// The amount of time to wait for the page to load.
	Timeout time.Duration `json:"timeout" default:"30s"`

	// Whether to continue execution if load_event_name is not seen before
	// timeout elapses.
	ContinueOnTimeout bool `json:"continue_on_timeout" default:"false"`

	// The RPC event to wait for before proceeding to the next command.
	LoadEventName string `json:"load_event_name" default:"Page.loadEventFired"`
}

type GoResponse struct {
	// The URL of the page that was loaded.
	URL string `json:"url"`

	// The frame the page was loaded into.
	FrameID string `json:"frame_id,omitempty"`

	// The loader responsible for the navigation.
	LoaderID string `json:"loader_id,omitempty"`

	// How long the page took to load, in milliseconds.
	OverallTimeMs float64 `json:"overall_time_ms"`
}

// Navigate to a URL.  If a scheme is not given, HTTPS is assumed.
func (self *Commands) Go(uri string, args *GoArgs) (*GoResponse, error) {
	if args == nil {
		args = &GoArgs{}
	}

	defaults.SetDefaults(args)
	args.Timeout = utils.FudgeDuration(args.Timeout)

	u, err := url.Parse(uri)

	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}

	// if a scheme wasn't given, prepend HTTPS
	if u.Scheme == `` {
		u.Scheme = `https`
	}

	tab, err := self.tab()

	if err != nil {
		return nil, err
	}

	// register the waiter BEFORE making the Page.navigate call because some pages will load
	// so fast that we get a race condition otherwise
	waiter, err := tab.CreateEventWaiter(args.LoadEventName)

	if err != nil {
		return nil, err
	}

	defer waiter.Remove()

	ctx, cancel := commandContext(args.Timeout)
	defer cancel()

	commandIssued := time.Now()

	if rv, err := tab.Navigate(ctx, u.String()); err == nil {
		if args.WaitForLoad && args.Timeout > 0 {
			if event, err := waiter.Wait(ctx, args.Timeout); err != nil {
				if utils.IsTimeoutErr(err) {
					if !args.ContinueOnTimeout {
						return nil, fmt.Errorf("timed out waiting for event %s", args.LoadEventName)
					}
				} else {
					return nil, err
				}
			} else {
				log.Debugf("core::go proceeding: got event %v", event.Name)
			}
		}

		totalTime := time.Since(commandIssued)

		log.Debugf("Page loaded in %v: %v", totalTime, u)

		return &GoResponse{
			URL:           u.String(),
			FrameID:       rv.R().String(`frameId`),
			LoaderID:      rv.R().String(`loaderId`),
			OverallTimeMs: float64(totalTime.Nanoseconds()) / float64(1e6),
		}, nil
	} else {
		return nil, err
	}
}
