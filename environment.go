package scrollfriend

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/ghetzel/friendscript"
	"github.com/ghetzel/friendscript/scripting"
	"github.com/ghetzel/go-scrollfriend/browser"
	"github.com/ghetzel/go-scrollfriend/commands/core"
	"github.com/ghetzel/go-scrollfriend/utils"
	"github.com/ghetzel/go-stockutil/log"
)

var DefaultModule = scripting.UnqualifiedModuleName

// Environment is a Friendscript environment whose core module drives a
// browser.  Scripts run one at a time; single commands run concurrently.
type Environment struct {
	*friendscript.Environment
	Core     *core.Commands
	browser  *browser.Browser
	lock     sync.RWMutex
	evalLock sync.Mutex
}

func NewEnvironment(chrome *browser.Browser) *Environment {
	var tabs core.TabSource

	if chrome != nil {
		tabs = chrome
	}

	environment := &Environment{
		Environment: friendscript.NewEnvironment(),
		browser:     chrome,
	}

	environment.Name = `scrollfriend`
	environment.Core = core.New(tabs, environment.Environment)
	environment.Environment.RegisterModule(DefaultModule, environment.Core)

	return environment
}

func (self *Environment) Browser() *browser.Browser {
	return self.browser
}

// Registers (or replaces) the module that handles "name::..." commands.
func (self *Environment) RegisterModule(name string, module friendscript.Module) {
	self.evalLock.Lock()
	defer self.evalLock.Unlock()
	self.lock.Lock()
	defer self.lock.Unlock()

	self.Environment.RegisterModule(name, module)
}

// Returns the names of all registered modules.
func (self *Environment) ModuleNames() []string {
	self.lock.RLock()
	defer self.lock.RUnlock()

	names := make([]string, 0)

	for name := range self.Environment.Modules() {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Execute runs a single command outside of any script.  The name may be
// qualified with a module ("core::scroll_to"); unqualified names belong to the
// core module.
func (self *Environment) Execute(name string, arg interface{}, options map[string]interface{}) (interface{}, error) {
	modname, cmdname := utils.SplitCommandName(strings.TrimSpace(name), DefaultModule)

	if cmdname == `` {
		return nil, fmt.Errorf("no command specified")
	}

	self.lock.RLock()
	module, ok := self.Environment.Module(modname)
	self.lock.RUnlock()

	if !ok {
		return nil, fmt.Errorf("Cannot locate module %q", modname)
	}

	// same as a script command given only an options object
	if arg == nil && len(options) > 0 {
		arg = options
		options = nil
	}

	log.Debugf("EXEC %v::%v", modname, cmdname)

	return module.ExecuteCommand(cmdname, arg, options)
}

// EvaluateReader runs the Friendscript read from reader.  An exit command ends
// the script without error.
func (self *Environment) EvaluateReader(reader io.Reader, scope ...*scripting.Scope) (*scripting.Scope, error) {
	self.evalLock.Lock()
	defer self.evalLock.Unlock()

	return exitOk(self.Environment.EvaluateReader(reader, scope...))
}

func (self *Environment) EvaluateString(data string, scope ...*scripting.Scope) (*scripting.Scope, error) {
	self.evalLock.Lock()
	defer self.evalLock.Unlock()

	return exitOk(self.Environment.EvaluateString(data, scope...))
}

func exitOk(scope *scripting.Scope, err error) (*scripting.Scope, error) {
	if browser.IsExitRequestedErr(err) {
		log.Debugf("Exit requested")
		return scope, nil
	}

	return scope, err
}
