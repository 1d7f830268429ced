package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/maputil"
	"github.com/ghetzel/go-stockutil/stringutil"
	"github.com/gobwas/glob"
	"github.com/mafredri/cdp/devtool"
)

var domTrackingEvents = `DOM.*`
var consoleEvents = `Console.messageAdded`

type PageInfo struct {
	URL      string `json:"url"`
	State    string `json:"state"`
	loaderId string
	frameId  string
}

// Tab is a single page target with its own DevTools connection.
type Tab struct {
	browser         *Browser
	id              string
	rpc             *RPC
	waiters         sync.Map
	accumulators    sync.Map
	currentDocument *Document
	docLock         sync.Mutex
	mostRecentInfo  *PageInfo
}

func newTabFromTarget(browser *Browser, target *devtool.Target) (*Tab, error) {
	if tab, err := ConnectTab(target.ID, target.URL, target.WebSocketDebuggerURL); err == nil {
		tab.browser = browser
		return tab, nil
	} else {
		return nil, err
	}
}

// ConnectTab attaches to the page target reachable at the given DevTools
// websocket URL.
func ConnectTab(id string, pageUrl string, wsUrl string) (*Tab, error) {
	tab := &Tab{
		id: id,
		mostRecentInfo: &PageInfo{
			URL:   pageUrl,
			State: `initial`,
		},
	}

	if conn, err := NewRPC(wsUrl); err == nil {
		tab.rpc = conn

		return tab, tab.setupEvents()
	} else {
		return nil, err
	}
}

func (self *Tab) Info() *PageInfo {
	return self.mostRecentInfo
}

func (self *Tab) ID() string {
	return self.id
}

func (self *Tab) Disconnect() error {
	return self.rpc.Close()
}

// Emit injects a synthetic event (e.g. "Scrollfriend.urlChanged") into this
// tab's event stream.
func (self *Tab) Emit(method string, params map[string]interface{}) {
	self.rpc.SynthesizeEvent(RpcMessage{
		Method: method,
		Params: params,
	})
}

func (self *Tab) Navigate(ctx context.Context, url string) (*RpcMessage, error) {
	self.mostRecentInfo = &PageInfo{
		URL:   url,
		State: `initial`,
	}

	self.Emit(`Scrollfriend.urlChanged`, map[string]interface{}{
		`url`: url,
	})

	result, err := self.RPCContext(ctx, `Page`, `navigate`, map[string]interface{}{
		`url`: url,
	})

	if err == nil {
		r := result.R()

		if errText := r.String(`errorText`); errText != `` {
			return result, fmt.Errorf("navigate to %v: %v", url, errText)
		}

		self.mostRecentInfo.loaderId = r.String(`loaderId`)
		self.mostRecentInfo.frameId = r.String(`frameId`)
	}

	return result, err
}

// DOM returns the current document, loading it on first use.
func (self *Tab) DOM() *Document {
	self.docLock.Lock()
	defer self.docLock.Unlock()

	if self.currentDocument == nil {
		self.currentDocument = NewDocument(self)
	}

	return self.currentDocument
}

func (self *Tab) resetDocument() {
	self.docLock.Lock()
	defer self.docLock.Unlock()

	self.currentDocument = nil
}

// Returns the elements matching selector in the current document.
func (self *Tab) ElementQuery(ctx context.Context, selector Selector) ([]*Element, error) {
	return self.DOM().Query(ctx, selector)
}

// Evaluate runs a JavaScript expression in the page, awaiting it if it is a
// Promise, and returns its JSON value.
func (self *Tab) Evaluate(ctx context.Context, expression string) (interface{}, error) {
	if rv, err := self.RPCContext(ctx, `Runtime`, `evaluate`, map[string]interface{}{
		`expression`:    expression,
		`returnByValue`: true,
		`awaitPromise`:  true,
	}); err == nil {
		return remoteValue(rv.R())
	} else {
		return nil, err
	}
}

func (self *Tab) CreateAccumulator(filter string) (*eventAccumulator, error) {
	if pattern, err := glob.Compile(filter); err == nil {
		acc := &eventAccumulator{
			id:     stringutil.UUID().String(),
			tab:    self,
			filter: pattern,
			Events: make([]*Event, 0),
		}

		self.accumulators.Store(acc.id, acc)
		return acc, nil
	} else {
		return nil, err
	}
}

func (self *Tab) AsyncRPC(module string, method string, args map[string]interface{}) error {
	return self.rpc.CallAsync(
		fmt.Sprintf("%s.%s", module, method),
		args,
	)
}

func (self *Tab) RPC(module string, method string, args map[string]interface{}) (*RpcMessage, error) {
	return self.RPCContext(context.Background(), module, method, args)
}

func (self *Tab) RPCContext(ctx context.Context, module string, method string, args map[string]interface{}) (*RpcMessage, error) {
	return self.rpc.Call(ctx, fmt.Sprintf("%s.%s", module, method), args)
}

func (self *Tab) setupEvents() error {
	// do this before any events will be emitted, otherwise the event loop will block
	go self.startEventReceiver()

	self.registerInternalEvents()

	for _, domain := range []string{`Console`, `Page`, `DOM`, `Runtime`} {
		if err := self.rpc.CallAsync(domain+`.enable`, nil); err != nil {
			return err
		}
	}

	return nil
}

func (self *Tab) startEventReceiver() {
	for message := range self.rpc.Messages() {
		event := eventFromRpcResponse(message)

		if event.Name == `` {
			continue
		}

		log.Debugf("[event] %v", event.Name)

		// accumulators see the event before anything waiting on it wakes up
		self.accumulators.Range(func(_ interface{}, accI interface{}) bool {
			if accumulator, ok := accI.(*eventAccumulator); ok {
				accumulator.AppendIfMatch(event)
			}

			return true
		})

		self.waiters.Range(func(_ interface{}, waiterI interface{}) bool {
			if waiter, ok := waiterI.(*EventWaiter); ok && waiter.Match(event) {
				select {
				case waiter.Events <- event:
				default:
					log.Warningf("[event] Waiter %v is full, dropping %v", waiter.id, event.Name)
				}
			}

			return true
		})
	}

	log.Debugf("[tab] %v: event stream closed", self.id)
}

func (self *Tab) registerInternalEvents() {
	self.RegisterEventHandler(consoleEvents, func(event *Event) {
		var level log.Level

		switch event.Params.String(`message.level`) {
		case `warning`:
			level = log.WARNING
		case `error`:
			level = log.ERROR
		case `debug`:
			level = log.DEBUG
		case `info`:
			level = log.INFO
		default:
			level = log.NOTICE
		}

		log.Logf(
			level,
			"[CONSOLE %s] %v",
			event.Params.String(`message.source`),
			event.Params.String(`message.text`),
		)
	})

	self.RegisterEventHandler(domTrackingEvents, func(event *Event) {
		switch event.Name {
		case `DOM.documentUpdated`:
			self.resetDocument()

		case `DOM.childNodeInserted`:
			self.DOM().addNode(
				maputil.M(event.Params.Get(`node`).Value),
				0,
				int(event.Params.Int(`parentNodeId`)),
			)

		case `DOM.setChildNodes`:
			parentId := int(event.Params.Int(`parentId`))

			for _, node := range event.Params.Slice(`nodes`) {
				self.DOM().addNode(maputil.M(node.Value), 0, parentId)
			}

		case `DOM.childNodeRemoved`:
			self.DOM().removeElement(int(event.Params.Int(`nodeId`)))
		}
	})

	self.RegisterEventHandler(`Page.frameNavigated`, func(event *Event) {
		if info := self.mostRecentInfo; info != nil {
			if event.Params.String(`frame.parentId`) != `` {
				return
			}

			if url := event.Params.String(`frame.url`); url != `` && url != info.URL {
				self.Emit(`Scrollfriend.urlChanged`, map[string]interface{}{
					`oldUrl`: info.URL,
					`url`:    url,
				})

				info.URL = url
			}
		}
	})

	self.RegisterEventHandler(`Page.loadEventFired`, func(event *Event) {
		if info := self.mostRecentInfo; info != nil {
			info.State = `loaded`
		}
	})
}

func (self *Tab) CreateEventWaiter(eventGlob string) (*EventWaiter, error) {
	if waiter, err := NewEventWaiter(self, eventGlob); err == nil {
		self.waiters.Store(waiter.id, waiter)
		return waiter, nil
	} else {
		return nil, err
	}
}

func (self *Tab) RemoveWaiter(id string) {
	self.waiters.Delete(id)
}

func (self *Tab) WaitFor(ctx context.Context, eventGlob string, timeout time.Duration) (*Event, error) {
	if waiter, err := self.CreateEventWaiter(eventGlob); err == nil {
		defer self.RemoveWaiter(waiter.id)

		log.Debugf("[rpc] Waiting for %v for up to %v", eventGlob, timeout)
		return waiter.Wait(ctx, timeout)
	} else {
		return nil, err
	}
}

func (self *Tab) RegisterEventHandler(eventGlob string, callback EventCallbackFunc) (string, error) {
	if waiter, err := self.CreateEventWaiter(eventGlob); err == nil {
		log.Debugf("[rpc] Registered persistent handler for %v", eventGlob)

		go func() {
			for event := range waiter.Events {
				callback(event)
			}
		}()

		return waiter.id, nil
	} else {
		return ``, err
	}
}

func (self *Tab) releaseObjectGroup(gid string) error {
	return self.AsyncRPC(`Runtime`, `releaseObjectGroup`, map[string]interface{}{
		`objectGroup`: gid,
	})
}

// Extracts the value from a Runtime.evaluate / Runtime.callFunctionOn reply,
// turning thrown exceptions into errors.
func remoteValue(reply *maputil.Map) (interface{}, error) {
	if exc := reply.Get(`exceptionDetails`); !exc.IsZero() {
		excM := maputil.M(exc.Value)

		return nil, fmt.Errorf(
			"Evaluation error: %v",
			excM.String(`exception.description`, excM.String(`text`)),
		)
	}

	return reply.Get(`result.value`).Value, nil
}
