package browser

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

type fakeHandler func(params map[string]interface{}) (map[string]interface{}, map[string]interface{})

// fakeDevtools is a websocket endpoint answering DevTools calls from a table
// of handlers.  Unhandled methods get an empty result.
type fakeDevtools struct {
	server   *httptest.Server
	handlers map[string]fakeHandler
	calls    []*RpcMessage
	conn     *websocket.Conn
	lock     sync.Mutex
	ready    chan struct{}
}

func newFakeDevtools(t *testing.T) *fakeDevtools {
	fake := &fakeDevtools{
		handlers: make(map[string]fakeHandler),
		ready:    make(chan struct{}),
	}

	upgrader := websocket.Upgrader{}

	fake.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)

		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}

		fake.lock.Lock()
		fake.conn = conn
		fake.lock.Unlock()
		close(fake.ready)

		for {
			var message RpcMessage

			if _, data, err := conn.ReadMessage(); err == nil {
				if err := json.Unmarshal(data, &message); err != nil {
					t.Errorf("decode: %v", err)
					return
				}
			} else {
				return
			}

			fake.lock.Lock()
			fake.calls = append(fake.calls, &message)
			handler, ok := fake.handlers[message.Method]
			fake.lock.Unlock()

			reply := &RpcMessage{
				ID:     message.ID,
				Result: map[string]interface{}{},
			}

			if ok {
				reply.Result, reply.Error = handler(message.Params)
			}

			fake.write(reply)
		}
	}))

	t.Cleanup(fake.server.Close)

	return fake
}

func (self *fakeDevtools) URL() string {
	return `ws` + strings.TrimPrefix(self.server.URL, `http`)
}

func (self *fakeDevtools) Handle(method string, handler fakeHandler) {
	self.lock.Lock()
	defer self.lock.Unlock()

	self.handlers[method] = handler
}

func (self *fakeDevtools) write(message *RpcMessage) {
	self.lock.Lock()
	defer self.lock.Unlock()

	if self.conn != nil {
		self.conn.WriteJSON(message)
	}
}

// Emit sends an unsolicited event to the client.
func (self *fakeDevtools) Emit(method string, params map[string]interface{}) {
	<-self.ready

	self.write(&RpcMessage{
		Method: method,
		Params: params,
	})
}

// Returns the params of every call made to method so far.
func (self *fakeDevtools) Calls(method string) []map[string]interface{} {
	self.lock.Lock()
	defer self.lock.Unlock()

	out := make([]map[string]interface{}, 0)

	for _, call := range self.calls {
		if call.Method == method {
			out = append(out, call.Params)
		}
	}

	return out
}
