// Commonly used commands for basic browser interaction.
package core

import (
	"context"
	"time"

	"github.com/ghetzel/friendscript/commands/core"
	fsutils "github.com/ghetzel/friendscript/utils"
	"github.com/ghetzel/go-scrollfriend/browser"
	"github.com/ghetzel/go-scrollfriend/utils"
)

var DefaultCommandTimeout = 30 * time.Second

// TabSource yields the tab commands should operate on.  *browser.Browser
// satisfies it.
type TabSource interface {
	Tab() (*browser.Tab, error)
}

type Commands struct {
	*core.Commands
	tabs TabSource
}

func New(tabs TabSource, env fsutils.Runtime) *Commands {
	var cmd = &Commands{
		Commands: core.New(env),
		tabs:     tabs,
	}

	cmd.SetInstance(cmd)

	return cmd
}

func (self *Commands) tab() (*browser.Tab, error) {
	if self.tabs == nil {
		return nil, browser.NoActiveTab
	}

	return self.tabs.Tab()
}

func commandContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout = utils.FudgeDuration(timeout); timeout <= 0 {
		timeout = DefaultCommandTimeout
	}

	return context.WithTimeout(context.Background(), timeout)
}
