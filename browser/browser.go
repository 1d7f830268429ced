package browser

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/ghetzel/argonaut"
	"github.com/ghetzel/go-stockutil/httputil"
	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/pathutil"
	"github.com/mafredri/cdp/devtool"
	"github.com/mitchellh/go-ps"
	"github.com/phayes/freeport"
)

var rpcGlobalTimeout = (60 * time.Second)
var DefaultStartWait = time.Duration(500) * time.Millisecond
var ProcessExitMaxWait = 10 * time.Second
var ProcessExitCheckInterval = 125 * time.Millisecond

// Browser is a Chrome process (or a remote DevTools endpoint) and the page
// tabs it exposes.  The exported argonaut-tagged fields become the command
// line used to launch it.
type Browser struct {
	Command                     argonaut.CommandName   `argonaut:",joiner=[=]"`
	DisableGPU                  bool                   `argonaut:"disable-gpu,long"`
	HideScrollbars              bool                   `argonaut:"hide-scrollbars,long"`
	Headless                    bool                   `argonaut:"headless,long"`
	RemoteDebuggingPort         int                    `argonaut:"remote-debugging-port,long"`
	UserDataDirectory           string                 `argonaut:"user-data-dir,long"`
	WindowSize                  string                 `argonaut:"window-size,long"`
	DisableSessionCrashedBubble bool                   `argonaut:"disable-session-crashed-bubble,long"`
	DisableInfobars             bool                   `argonaut:"disable-infobars,long"`
	DisableSharedMemory         bool                   `argonaut:"disable-dev-shm-usage,long"`
	NoFirstRun                  bool                   `argonaut:"no-first-run,long"`
	NoSandbox                   bool                   `argonaut:"no-sandbox,long"`
	UserAgent                   string                 `argonaut:"user-agent,long"`
	URL                         string                 `argonaut:",positional"`
	RemoteAddress               string                 `argonaut:"-"`
	StartWait                   time.Duration          `argonaut:"-"`
	Environment                 map[string]interface{} `argonaut:"-"`
	cmd                         *exec.Cmd
	exitchan                    chan error
	devtools                    *devtool.DevTools
	isTempUserDataDir           bool
	activeTabId                 string
	tabs                        map[string]*Tab
	tabLock                     sync.Mutex
}

func NewBrowser() *Browser {
	return &Browser{
		Command:             argonaut.CommandName(LocateChromeExecutable()),
		URL:                 `about:blank`,
		Headless:            true,
		NoFirstRun:          true,
		RemoteDebuggingPort: 0,
		StartWait:           DefaultStartWait,
		exitchan:            make(chan error, 1),
		tabs:                make(map[string]*Tab),
	}
}

func Start() (*Browser, error) {
	browser := NewBrowser()
	return browser, browser.Launch()
}

// Launch starts Chrome and connects to its first page.  If RemoteAddress is
// set, no process is started and the existing DevTools endpoint is used.
func (self *Browser) Launch() error {
	if self.RemoteAddress != `` {
		log.Debugf("[browser] Connecting to remote DevTools at %v", self.RemoteAddress)
		return self.connectRPC(self.RemoteAddress)
	}

	if self.UserDataDirectory == `` {
		if userDataDir, err := ioutil.TempDir(``, `scrollfriend-`); err == nil {
			self.UserDataDirectory = userDataDir
			self.isTempUserDataDir = true
		} else {
			return err
		}
	} else if dir, err := pathutil.ExpandUser(self.UserDataDirectory); err == nil {
		self.UserDataDirectory = dir
	} else {
		return err
	}

	if self.RemoteDebuggingPort <= 0 {
		if port, err := freeport.GetFreePort(); err == nil {
			self.RemoteDebuggingPort = port
		} else {
			return err
		}
	}

	cmd, err := argonaut.Command(self)

	if err != nil {
		return err
	}

	if args := os.Getenv(`SCROLLFRIEND_BROWSER_ARGS`); args != `` {
		cmd.Args = append(cmd.Args, strings.Split(args, ` `)...)
	}

	self.cmd = cmd

	for k, v := range self.Environment {
		self.cmd.Env = append(self.cmd.Env, fmt.Sprintf("%v=%v", k, v))
	}

	self.cmd.Stdout = httputil.NewWritableLogger(httputil.Info, `[PROC] `)
	self.cmd.Stderr = httputil.NewWritableLogger(httputil.Warning, `[PROC] `)

	go func() {
		log.Debugf("[browser] Executing: %v", strings.Join(self.cmd.Args, ` `))
		self.exitchan <- self.cmd.Run()
	}()

	select {
	case err := <-self.exitchan:
		if eerr, ok := err.(*exec.ExitError); ok {
			if status, ok := eerr.Sys().(syscall.WaitStatus); ok {
				err = fmt.Errorf("Process exited prematurely with status %d", status.ExitStatus())
			}
		} else if err == nil {
			err = fmt.Errorf("Process exited prematurely without error")
		}

		self.cleanupUserDataDirectory()
		return err

	case <-time.After(self.StartWait):
		log.Debugf("[browser] Process stayed running for %v", self.StartWait)

		if err := self.connectRPC(fmt.Sprintf("127.0.0.1:%d", self.RemoteDebuggingPort)); err == nil {
			return nil
		} else {
			defer self.Stop()
			return err
		}
	}
}

func (self *Browser) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), rpcGlobalTimeout)
}

// Tab returns the active tab.
func (self *Browser) Tab() (*Tab, error) {
	self.tabLock.Lock()
	defer self.tabLock.Unlock()

	if self.activeTabId != `` {
		if tab, ok := self.tabs[self.activeTabId]; ok {
			return tab, nil
		}
	}

	return nil, NoActiveTab
}

// Wait blocks until the browser process exits.
func (self *Browser) Wait() error {
	if self.cmd == nil {
		return nil
	}

	return <-self.exitchan
}

func (self *Browser) Stop() error {
	self.tabLock.Lock()
	defer self.tabLock.Unlock()
	defer self.cleanupUserDataDirectory()

	log.Debug("[browser] Stopping...")

	for id, tab := range self.tabs {
		tab.Disconnect()
		delete(self.tabs, id)
	}

	if self.cmd == nil {
		return nil
	} else if process := self.cmd.Process; process == nil {
		return fmt.Errorf("Process not running")
	} else {
		log.Debugf("[browser] Killing browser process %d", process.Pid)

		if err := process.Kill(); err == nil {
			started := time.Now()
			deadline := started.Add(ProcessExitMaxWait)

			for t := started; t.Before(deadline); t = time.Now() {
				if proc, err := ps.FindProcess(process.Pid); err == nil && proc == nil {
					log.Debugf("[browser] PID %d is gone", process.Pid)
					return nil
				}

				log.Debugf("[browser] Polling for PID %d to disappear", process.Pid)
				time.Sleep(ProcessExitCheckInterval)
			}

			return fmt.Errorf("Could not confirm process %d exited", process.Pid)
		} else {
			return err
		}
	}
}

func (self *Browser) cleanupUserDataDirectory() error {
	if self.isTempUserDataDir && pathutil.DirExists(self.UserDataDirectory) {
		log.Debugf("[browser] Cleaning up temporary profile %s", self.UserDataDirectory)
		return os.RemoveAll(self.UserDataDirectory)
	}

	return nil
}
