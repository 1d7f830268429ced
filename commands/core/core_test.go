package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghetzel/friendscript"
	"github.com/ghetzel/go-scrollfriend/browser"
	"github.com/ghetzel/go-scrollfriend/scroll"
	"github.com/ghetzel/testify/require"
)

type noTabs struct{}

func (self noTabs) Tab() (*browser.Tab, error) {
	return nil, browser.NoActiveTab
}

type fakeElement struct {
	parent   *fakeElement
	layout   *scroll.Layout
	scrolled []scroll.Delta
	took     []time.Duration
}

func (self *fakeElement) Parent(ctx context.Context) (scroll.Element, error) {
	if self.parent == nil {
		return nil, nil
	}

	return self.parent, nil
}

func (self *fakeElement) Layout(ctx context.Context) (*scroll.Layout, error) {
	return self.layout, nil
}

func (self *fakeElement) ApplyScroll(ctx context.Context, delta scroll.Delta, duration time.Duration) error {
	self.scrolled = append(self.scrolled, delta)
	self.took = append(self.took, duration)
	return nil
}

func newTree() (*fakeElement, *fakeElement) {
	scroller := &fakeElement{
		layout: &scroll.Layout{
			Metrics: scroll.Metrics{
				OverflowX:    `hidden`,
				OverflowY:    `scroll`,
				OffsetWidth:  100,
				OffsetHeight: 100,
				ClientWidth:  85,
				ClientHeight: 100,
				ScrollWidth:  85,
				ScrollHeight: 500,
			},
			Top:         0,
			Left:        0,
			OuterWidth:  100,
			OuterHeight: 100,
		},
	}

	item := &fakeElement{
		parent: scroller,
		layout: &scroll.Layout{
			Metrics: scroll.Metrics{
				OverflowX: `visible`,
				OverflowY: `visible`,
			},
			Top:         120,
			Left:        0,
			OuterWidth:  50,
			OuterHeight: 40,
		},
	}

	return scroller, item
}

func newCommands(tabs TabSource) *Commands {
	return New(tabs, friendscript.NewEnvironment())
}

func TestExecuteCommandDispatch(t *testing.T) {
	assert := require.New(t)
	cmds := newCommands(noTabs{})

	_, err := cmds.ExecuteCommand(`exit`, nil, nil)
	assert.True(browser.IsExitRequestedErr(err))

	_, err = cmds.ExecuteCommand(`scroll_to`, `#item`, map[string]interface{}{
		`duration`: `slow`,
	})

	assert.True(errors.Is(err, browser.NoActiveTab))

	_, err = cmds.ExecuteCommand(`scrollable`, `#item`, nil)
	assert.True(errors.Is(err, browser.NoActiveTab))

	_, err = cmds.ExecuteCommand(`scroll_to_coords`, map[string]interface{}{
		`x`: 0,
		`y`: 100,
	}, nil)

	assert.True(errors.Is(err, browser.NoActiveTab))

	_, err = cmds.ExecuteCommand(`not_a_command`, nil, nil)
	assert.Error(err)

	// scripting builtins stay available alongside the browser commands
	out, err := cmds.ExecuteCommand(`put`, `hello`, nil)
	assert.NoError(err)
	assert.Equal(`hello`, out)

	err = cmds.Fail(`stop here`)
	assert.EqualError(err, `stop here`)
}

func TestCommandsWithoutSource(t *testing.T) {
	assert := require.New(t)

	_, err := newCommands(nil).Select(`#item`, nil)
	assert.True(errors.Is(err, browser.NoActiveTab))
}

func TestScrollElementIntoView(t *testing.T) {
	assert := require.New(t)
	scroller, item := newTree()

	response, err := scrollElementIntoView(context.Background(), item, &ScrollToArgs{
		Duration:  `slow`,
		Direction: `both`,
	})

	assert.NoError(err)
	assert.True(response.Scrolled)
	assert.Nil(response.Element)
	assert.Equal(map[string]interface{}{
		`scrollTop`: float64(60),
	}, response.Delta)
	assert.Equal(float64(-60), response.Padding.Bottom)

	assert.Len(scroller.scrolled, 1)
	assert.Equal(600*time.Millisecond, scroller.took[0])
}

func TestScrollElementIntoViewMilliseconds(t *testing.T) {
	assert := require.New(t)
	scroller, item := newTree()

	_, err := scrollElementIntoView(context.Background(), item, &ScrollToArgs{
		Duration:  float64(750),
		Direction: `vertical`,
	})

	assert.NoError(err)
	assert.Equal(750*time.Millisecond, scroller.took[0])
}

func TestScrollElementIntoViewWrongAxis(t *testing.T) {
	assert := require.New(t)
	scroller, item := newTree()

	response, err := scrollElementIntoView(context.Background(), item, &ScrollToArgs{
		Direction: `horizontal`,
	})

	assert.NoError(err)
	assert.False(response.Scrolled)
	assert.Nil(response.Padding)
	assert.Empty(scroller.scrolled)
}

func TestScrollElementIntoViewAlreadyVisible(t *testing.T) {
	assert := require.New(t)
	scroller, item := newTree()
	item.layout.Top = 10

	response, err := scrollElementIntoView(context.Background(), item, &ScrollToArgs{
		Direction: `both`,
	})

	assert.NoError(err)
	assert.False(response.Scrolled)
	assert.NotNil(response.Padding)
	assert.Nil(response.Delta)
	assert.Empty(scroller.scrolled)
}

func TestElementCommandsWithoutSource(t *testing.T) {
	assert := require.New(t)
	cmds := newCommands(nil)

	_, err := cmds.Inspect(`#item`, nil)
	assert.True(errors.Is(err, browser.NoActiveTab))

	_, err = cmds.Inspect(``, &InspectArgs{
		Reload: true,
	})

	assert.True(errors.Is(err, browser.NoActiveTab))

	_, err = cmds.Focus(`#item`)
	assert.True(errors.Is(err, browser.NoActiveTab))

	_, err = cmds.ExecuteCommand(`click`, `#item`, map[string]interface{}{
		`multiple`: true,
	})

	assert.True(errors.Is(err, browser.NoActiveTab))
}

func TestOnlyMatch(t *testing.T) {
	assert := require.New(t)
	a := &browser.Element{}
	b := &browser.Element{}

	el, err := onlyMatch(`#a`, []*browser.Element{a})
	assert.NoError(err)
	assert.True(el == a)

	_, err = onlyMatch(`li`, []*browser.Element{a, b})
	assert.EqualError(err, `Selector "li" matched too many elements; expected 1, got 2`)

	_, err = onlyMatch(`.missing`, nil)
	assert.Error(err)
}
