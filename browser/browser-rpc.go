package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/sliceutil"
	"github.com/mafredri/cdp/devtool"
)

var rpcConnectRetryInterval = (125 * time.Millisecond)
var rpcConnectMaxRetries = 40

func (self *Browser) connectRPC(address string) error {
	if !strings.Contains(address, `://`) {
		address = `http://` + address
	}

	self.devtools = devtool.New(address)

	for i := 0; i < rpcConnectMaxRetries; i++ {
		ctx, cancel := self.ctx()
		version, err := self.devtools.Version(ctx)
		cancel()

		if err == nil {
			log.Debugf("[browser] Connected to %v; protocol %v", version.Browser, version.Protocol)
			return self.syncState()
		}

		time.Sleep(rpcConnectRetryInterval)
	}

	return fmt.Errorf("Failed to connect to RPC interface after %d attempts", rpcConnectMaxRetries)
}

// Brings our tab list in line with the page targets the browser reports.
func (self *Browser) syncState() error {
	if self.devtools == nil {
		return fmt.Errorf("DevTools connection unavailable")
	}

	ctx, cancel := self.ctx()
	defer cancel()

	targets, err := self.devtools.List(ctx)

	if err != nil {
		return fmt.Errorf("DevTools error: %v", err)
	}

	self.tabLock.Lock()
	defer self.tabLock.Unlock()

	var ids []string

	for _, target := range targets {
		if target.Type != devtool.Page {
			continue
		}

		ids = append(ids, target.ID)

		if _, ok := self.tabs[target.ID]; ok {
			continue
		}

		if tab, err := newTabFromTarget(self, target); err == nil {
			self.tabs[target.ID] = tab

			if self.activeTabId == `` {
				log.Debugf("[browser] Setting tab %v as active", tab.ID())
				self.activeTabId = tab.ID()
			}
		} else {
			log.Warningf("[browser] failed to register tab %v: %v", target.ID, err)
		}
	}

	// cull tabs on our end that no longer exist in Chrome
	for id, tab := range self.tabs {
		if !sliceutil.ContainsString(ids, id) {
			if err := tab.Disconnect(); err != nil {
				log.Warningf("[browser] failed to disconnect tab %v: %v", tab.ID(), err)
			}

			delete(self.tabs, id)

			if self.activeTabId == id {
				self.activeTabId = ``
			}
		}
	}

	if len(self.tabs) == 0 {
		return fmt.Errorf("DevTools reported no page targets")
	} else if self.activeTabId == `` {
		for id := range self.tabs {
			self.activeTabId = id
			break
		}
	}

	return nil
}
