package scrollfriend

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ghetzel/friendscript"
	"github.com/ghetzel/go-scrollfriend/browser"
	"github.com/ghetzel/testify/require"
)

type stubArgs struct {
	Duration  int    `json:"duration"`
	Direction string `json:"direction"`
}

type stubCommands struct {
	friendscript.Module
	calls   []string
	entered chan bool
	release chan bool
}

func newStubCommands() *stubCommands {
	stub := &stubCommands{
		entered: make(chan bool, 1),
		release: make(chan bool),
	}

	stub.Module = friendscript.CreateModule(stub)
	return stub
}

func (self *stubCommands) ScrollTo(selector string, args *stubArgs) (string, error) {
	self.calls = append(self.calls, `scroll_to `+selector)
	return fmt.Sprintf("ScrollTo(%v, %d, %v)", selector, args.Duration, args.Direction), nil
}

func (self *stubCommands) Configure(args *stubArgs) (string, error) {
	return fmt.Sprintf("Configure(%d)", args.Duration), nil
}

func (self *stubCommands) Explode() error {
	self.calls = append(self.calls, `explode`)
	return fmt.Errorf("failed on purpose")
}

func (self *stubCommands) Block() error {
	self.entered <- true
	<-self.release
	return nil
}

func newStubEnvironment() (*Environment, *stubCommands) {
	env := NewEnvironment(nil)
	stub := newStubCommands()

	env.RegisterModule(`stub`, stub)

	return env, stub
}

func TestExecuteRouting(t *testing.T) {
	assert := require.New(t)
	env, stub := newStubEnvironment()

	out, err := env.Execute(`stub::scroll_to`, `#item`, map[string]interface{}{
		`duration`:  600,
		`direction`: `y`,
	})

	assert.NoError(err)
	assert.Equal(`ScrollTo(#item, 600, y)`, out)
	assert.Equal([]string{`scroll_to #item`}, stub.calls)

	out, err = env.Execute(`put`, `hello`, nil)
	assert.NoError(err)
	assert.Equal(`hello`, out)

	_, err = env.Execute(`nope::scroll_to`, nil, nil)
	assert.Error(err)

	_, err = env.Execute(` `, nil, nil)
	assert.Error(err)

	assert.Contains(env.ModuleNames(), `core`)
	assert.Contains(env.ModuleNames(), `stub`)
	assert.Contains(env.Commands(), `core::scroll_to`)
	assert.Contains(env.Commands(), `core::inspect`)
}

func TestExecuteOptionsOnly(t *testing.T) {
	assert := require.New(t)
	env, _ := newStubEnvironment()

	out, err := env.Execute(`stub::configure`, nil, map[string]interface{}{
		`duration`: 250,
	})

	assert.NoError(err)
	assert.Equal(`Configure(250)`, out)
}

func TestExecuteCoreWithoutBrowser(t *testing.T) {
	assert := require.New(t)
	env := NewEnvironment(nil)

	_, err := env.Execute(`core::scroll_to`, `#item`, nil)
	assert.True(errors.Is(err, browser.NoActiveTab))

	_, err = env.Execute(`exit`, nil, nil)
	assert.True(browser.IsExitRequestedErr(err))
}

func TestExecuteDoesNotBlockModuleListing(t *testing.T) {
	assert := require.New(t)
	env, stub := newStubEnvironment()
	done := make(chan error, 1)

	go func() {
		_, err := env.Execute(`stub::block`, nil, nil)
		done <- err
	}()

	<-stub.entered

	listed := make(chan []string, 1)

	go func() {
		listed <- env.ModuleNames()
	}()

	select {
	case names := <-listed:
		assert.Contains(names, `stub`)
	case <-time.After(time.Second):
		assert.Fail("module listing blocked behind a running command")
	}

	close(stub.release)
	assert.NoError(<-done)
}

func TestEvaluateString(t *testing.T) {
	assert := require.New(t)
	env, stub := newStubEnvironment()

	scope, err := env.EvaluateString(`
		stub::scroll_to "#item" {
			duration:  600,
			direction: "y",
		} -> $first

		$target = "#list"
		stub::scroll_to $target -> $second
	`)

	assert.NoError(err)
	assert.Equal(`ScrollTo(#item, 600, y)`, scope.Get(`first`))
	assert.Equal(`ScrollTo(#list, 0, )`, scope.Get(`second`))
	assert.Len(stub.calls, 2)
}

func TestEvaluateStringCoreCommand(t *testing.T) {
	assert := require.New(t)
	env := NewEnvironment(nil)

	_, err := env.EvaluateString(`core::scroll_to "#item" {duration: "slow"}`)
	assert.True(errors.Is(err, browser.NoActiveTab))

	_, err = env.EvaluateString(`scrollable "#list" {direction: "x"}`)
	assert.True(errors.Is(err, browser.NoActiveTab))
}

func TestEvaluateStringStopsOnError(t *testing.T) {
	assert := require.New(t)
	env, stub := newStubEnvironment()

	_, err := env.EvaluateString(`
		stub::scroll_to "#a"
		stub::explode
		stub::scroll_to "#b"
	`)

	assert.EqualError(err, `failed on purpose`)
	assert.Equal([]string{`scroll_to #a`, `explode`}, stub.calls)
}

func TestEvaluateStringExit(t *testing.T) {
	assert := require.New(t)
	env, stub := newStubEnvironment()

	_, err := env.EvaluateString(`
		stub::scroll_to "#a"
		exit
		stub::scroll_to "#b"
	`)

	assert.NoError(err)
	assert.Equal([]string{`scroll_to #a`}, stub.calls)
}

func TestEvaluateStringInvalid(t *testing.T) {
	assert := require.New(t)
	env, _ := newStubEnvironment()

	_, err := env.EvaluateString(`stub::scroll_to "#item" {`)
	assert.Error(err)
}
