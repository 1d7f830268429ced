package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/maputil"
	"github.com/gorilla/websocket"
)

var MaxUnreadEvents = 1024
var DefaultReplyTimeout = 10 * time.Second

// RPC is a DevTools protocol client speaking JSON over a websocket.  Replies
// are matched to calls by message ID; everything else is delivered on
// Messages().
type RPC struct {
	URL       string
	conn      *websocket.Conn
	messageId int64
	pending   sync.Map
	recv      chan *RpcMessage
	sendlock  sync.Mutex
	closing   int32
	recvlock  sync.RWMutex
	recvDone  bool
}

type RpcError struct {
	Code    int
	Message string
	Data    string
}

func (self *RpcError) Error() string {
	if self.Data != `` {
		return fmt.Sprintf("code %d: %v (%v)", self.Code, self.Message, self.Data)
	}

	return fmt.Sprintf("code %d: %v", self.Code, self.Message)
}

type RpcMessage struct {
	ID     int64                  `json:"id,omitempty"`
	Method string                 `json:"method,omitempty"`
	Params map[string]interface{} `json:"params,omitempty"`
	Result map[string]interface{} `json:"result,omitempty"`
	Error  map[string]interface{} `json:"error,omitempty"`
}

func (self *RpcMessage) P() *maputil.Map {
	return maputil.M(self.Params)
}

func (self *RpcMessage) R() *maputil.Map {
	return maputil.M(self.Result)
}

// Returns the protocol error carried by this message, if any.
func (self *RpcMessage) Err() error {
	if len(self.Error) > 0 {
		eM := maputil.M(self.Error)

		return &RpcError{
			Code:    int(eM.Int(`code`)),
			Message: eM.String(`message`),
			Data:    eM.String(`data`),
		}
	}

	return nil
}

func (self *RpcMessage) String() string {
	if data, err := json.Marshal(self); err == nil {
		return string(data)
	} else {
		return fmt.Sprintf("ERR<%v>", err)
	}
}

func NewRPC(wsUrl string) (*RPC, error) {
	rpc := &RPC{
		URL:  wsUrl,
		recv: make(chan *RpcMessage, MaxUnreadEvents),
	}

	if conn, _, err := websocket.DefaultDialer.Dial(rpc.URL, nil); err == nil {
		rpc.conn = conn
		go rpc.startReading()

		return rpc, nil
	} else {
		return nil, err
	}
}

func (self *RPC) isClosing() bool {
	return atomic.LoadInt32(&self.closing) == 1
}

// Injects a message into the event stream as though the browser had sent it.
func (self *RPC) SynthesizeEvent(message RpcMessage) {
	self.recvlock.RLock()
	defer self.recvlock.RUnlock()

	if !self.recvDone {
		self.recv <- &message
	}
}

func (self *RPC) startReading() {
	defer self.shutdown()

	for {
		message := &RpcMessage{}

		if _, data, err := self.conn.ReadMessage(); err == nil {
			if err := json.Unmarshal(data, message); err != nil {
				log.Errorf("Failed to decode RPC message: %v", err)
				return
			}

			if message.ID > 0 {
				if waiter, ok := self.pending.Load(message.ID); ok {
					log.Debugf("[rpc] REPLY %d", message.ID)
					waiter.(chan *RpcMessage) <- message
					continue
				}
			}

			self.recv <- message
		} else if self.isClosing() {
			return
		} else {
			log.Errorf("Failed to read from RPC: %v", err)
			return
		}
	}
}

// Stops the event stream.  Only the reader calls this, so its own sends never
// race the close; SynthesizeEvent is kept out by recvlock.
func (self *RPC) shutdown() {
	atomic.StoreInt32(&self.closing, 1)

	self.recvlock.Lock()
	defer self.recvlock.Unlock()

	if !self.recvDone {
		self.recvDone = true
		close(self.recv)
	}
}

func (self *RPC) Messages() <-chan *RpcMessage {
	return self.recv
}

// Call sends a method call and waits for its reply.  If ctx has no deadline,
// DefaultReplyTimeout applies.
func (self *RPC) Call(ctx context.Context, method string, params map[string]interface{}) (*RpcMessage, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultReplyTimeout)
		defer cancel()
	}

	return self.send(ctx, &RpcMessage{
		Method: method,
		Params: params,
	}, true)
}

// CallAsync sends a method call without waiting for the reply.
func (self *RPC) CallAsync(method string, params map[string]interface{}) error {
	_, err := self.send(context.Background(), &RpcMessage{
		Method: method,
		Params: params,
	}, false)

	return err
}

func (self *RPC) send(ctx context.Context, message *RpcMessage, waitForReply bool) (*RpcMessage, error) {
	if self.isClosing() {
		return nil, fmt.Errorf("Cannot send, connection is closing...")
	} else if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", message.Method, err)
	}

	message.ID = atomic.AddInt64(&self.messageId, 1)
	replies := make(chan *RpcMessage, 1)

	if waitForReply {
		self.pending.Store(message.ID, replies)
		defer self.pending.Delete(message.ID)
	}

	self.sendlock.Lock()
	err := self.conn.WriteJSON(message)
	self.sendlock.Unlock()

	if err != nil {
		return nil, err
	}

	log.Debugf("[rpc] WROTE: %v", message)

	if !waitForReply {
		return nil, nil
	}

	select {
	case reply := <-replies:
		if err := reply.Err(); err != nil {
			return reply, fmt.Errorf("%s: %w", message.Method, err)
		}

		return reply, nil

	case <-ctx.Done():
		return nil, fmt.Errorf("Timed out waiting for reply to message %d (%s): %w", message.ID, message.Method, ctx.Err())
	}
}

func (self *RPC) Close() error {
	if !self.isClosing() {
		log.Debug("[rpc] Closing RPC connection")
	}

	atomic.StoreInt32(&self.closing, 1)

	return self.conn.Close()
}
