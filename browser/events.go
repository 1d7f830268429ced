package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/maputil"
	"github.com/ghetzel/go-stockutil/stringutil"
	"github.com/gobwas/glob"
)

type EventCallbackFunc func(event *Event)

// EventWaiter receives every event whose name matches Pattern.
type EventWaiter struct {
	Pattern glob.Glob
	Events  chan *Event
	id      string
	tab     *Tab
}

func NewEventWaiter(tab *Tab, eventGlob string) (*EventWaiter, error) {
	if pattern, err := glob.Compile(eventGlob); err == nil {
		return &EventWaiter{
			Pattern: pattern,
			Events:  make(chan *Event, MaxUnreadEvents),
			id:      stringutil.UUID().String(),
			tab:     tab,
		}, nil
	} else {
		return nil, err
	}
}

func (self *EventWaiter) ID() string {
	return self.id
}

func (self *EventWaiter) Match(event *Event) bool {
	return self.Pattern.Match(event.Name)
}

// Wait blocks until a matching event arrives, ctx is done, or timeout elapses
// (a zero timeout relies on ctx alone).
func (self *EventWaiter) Wait(ctx context.Context, timeout time.Duration) (*Event, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	select {
	case event := <-self.Events:
		log.Debugf("[rpc] Wait over; got %v", event)
		return event, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("timeout: %w", ctx.Err())
	}
}

func (self *EventWaiter) Remove() {
	if self.tab != nil {
		self.tab.RemoveWaiter(self.id)
	}
}

type Event struct {
	ID        int
	Name      string
	Result    *maputil.Map
	Params    *maputil.Map
	Error     error
	Timestamp time.Time
}

func (self *Event) P() *maputil.Map {
	return self.Params
}

func (self *Event) String() string {
	if self.Error != nil {
		return self.Error.Error()
	} else {
		return self.Name
	}
}

func eventFromRpcResponse(resp *RpcMessage) *Event {
	return &Event{
		ID:        int(resp.ID),
		Name:      resp.Method,
		Result:    maputil.M(resp.Result),
		Params:    maputil.M(resp.Params),
		Timestamp: time.Now(),
		Error:     resp.Err(),
	}
}
