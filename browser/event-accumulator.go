package browser

import (
	"sync"

	"github.com/gobwas/glob"
)

// Collects matching events between creation and Stop, e.g. the
// DOM.setChildNodes bursts that answer DOM.requestChildNodes.
type eventAccumulator struct {
	id      string
	tab     *Tab
	filter  glob.Glob
	stopped bool
	lock    sync.Mutex
	Events  []*Event
}

func (self *eventAccumulator) AppendIfMatch(event *Event) bool {
	self.lock.Lock()
	defer self.lock.Unlock()

	if self.stopped {
		return false
	}

	if self.filter.Match(event.Name) {
		self.Events = append(self.Events, event)
		return true
	}

	return false
}

func (self *eventAccumulator) Stop() []*Event {
	self.lock.Lock()
	defer self.lock.Unlock()

	self.stopped = true

	return self.Events
}

func (self *eventAccumulator) Destroy() {
	if self.tab != nil {
		self.tab.accumulators.Delete(self.id)
	}
}
