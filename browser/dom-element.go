package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/ghetzel/go-scrollfriend/scroll"
	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/maputil"
	"github.com/ghetzel/go-stockutil/mathutil"
	"github.com/ghetzel/go-stockutil/stringutil"
	"github.com/ghetzel/go-stockutil/typeutil"
)

const (
	elementNode  = 1
	documentNode = 9
)

var ChildNodesWait = 500 * time.Millisecond

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Top    int `json:"top"`
	Left   int `json:"left"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Element is a DOM node in a tab.  It implements scroll.Element, reading its
// layout and applying scroll positions through the DevTools Runtime domain.
type Element struct {
	document       *Document
	parent         int
	name           string
	nodeType       int
	attributes     map[string]interface{}
	value          string
	backendId      int
	id             int
	children       []*Element
	loadedChildren bool
}

var _ scroll.Element = (*Element)(nil)

func (self *Element) ID() int {
	return self.id
}

func (self *Element) Name() string {
	return self.name
}

// Retrieve the text value of the element.
func (self *Element) Text() string {
	return self.value
}

// Retrieve the current attributes on the element.
func (self *Element) Attributes() map[string]interface{} {
	return maputil.DeepCopy(self.attributes)
}

// Satisifies the fmt.Stringer interface.
func (self *Element) String() string {
	return fmt.Sprintf("[NODE %v] %v", self.id, self.name)
}

// Return a map representation of the element, as returned from commands.
func (self *Element) ToMap() map[string]interface{} {
	output := map[string]interface{}{
		`id`:         self.id,
		`name`:       self.name,
		`attributes`: self.attributes,
	}

	if self.value != `` {
		output[`text`] = self.value
	}

	if position, err := self.Position(context.Background()); err == nil {
		output[`position`] = position
	} else {
		log.Warningf("Error retrieving element position: %v", err)
	}

	return output
}

func (self *Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.ToMap())
}

// ParentElement returns the parent element, or nil if this is the top-most
// element of the document.
func (self *Element) ParentElement(ctx context.Context) (*Element, error) {
	if self.parent > 0 {
		if parent, err := self.document.ElementByID(ctx, self.parent); err == nil {
			if parent.nodeType != 0 && parent.nodeType != elementNode {
				return nil, nil
			}

			return parent, nil
		} else {
			return nil, err
		}
	}

	// we were never told who the parent is; ask the page
	var parentId int

	err := self.withObject(ctx, parentScript, func(objectId string) error {
		if reply, err := self.document.tab.RPCContext(ctx, `DOM`, `requestNode`, map[string]interface{}{
			`objectId`: objectId,
		}); err == nil {
			parentId = int(reply.R().Int(`nodeId`))
			return nil
		} else {
			return err
		}
	})

	if err != nil {
		return nil, err
	} else if parentId <= 0 {
		return nil, nil
	}

	self.parent = parentId

	return self.document.ElementByID(ctx, parentId)
}

// Parent implements scroll.Element.
func (self *Element) Parent(ctx context.Context) (scroll.Element, error) {
	if parent, err := self.ParentElement(ctx); err == nil && parent != nil {
		return parent, nil
	} else {
		return nil, err
	}
}

// Layout implements scroll.Element.
func (self *Element) Layout(ctx context.Context) (*scroll.Layout, error) {
	if result, err := self.CallFunction(ctx, layoutScript); err == nil {
		var layout scroll.Layout

		if result == nil {
			return nil, scroll.ErrNoLayout
		}

		if data, err := json.Marshal(result); err == nil {
			if err := json.Unmarshal(data, &layout); err != nil {
				return nil, fmt.Errorf("bad layout for %v: %v", self, err)
			}
		} else {
			return nil, err
		}

		return &layout, nil
	} else {
		return nil, err
	}
}

// ApplyScroll implements scroll.Element.
func (self *Element) ApplyScroll(ctx context.Context, delta scroll.Delta, duration time.Duration) error {
	if delta.IsEmpty() {
		return nil
	}

	var top interface{}
	var left interface{}
	var ms float64

	if delta.ScrollTop != nil {
		top = *delta.ScrollTop
	}

	if delta.ScrollLeft != nil {
		left = *delta.ScrollLeft
	}

	if duration > 0 {
		ms = float64(duration) / float64(time.Millisecond)

		// leave room for the animation on top of the reply timeout
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, DefaultReplyTimeout+duration)
			defer cancel()
		}
	}

	log.Debugf("[scroll] %v: %v over %vms", self, delta, ms)

	_, err := self.CallFunction(ctx, applyScrollScript, top, left, ms)
	return err
}

// Retrieve the current position and dimensions of the element, relative to
// the viewport.
func (self *Element) Position(ctx context.Context) (Dimensions, error) {
	if result, err := self.CallFunction(ctx, positionScript); err == nil {
		dimensions := maputil.M(result)

		return Dimensions{
			Width:  int(dimensions.Int(`width`)),
			Height: int(dimensions.Int(`height`)),
			Top:    int(dimensions.Int(`top`)),
			Left:   int(dimensions.Int(`left`)),
			Bottom: int(dimensions.Int(`bottom`)),
			Right:  int(dimensions.Int(`right`)),
		}, nil
	} else {
		return Dimensions{}, err
	}
}

// Loads all child elements under this element.
func (self *Element) Children() []*Element {
	if self.nodeType != 0 && self.nodeType != elementNode && self.nodeType != documentNode {
		return nil
	}

	if !self.loadedChildren {
		// setup an accumulator that will capture all setChildNodes events received between
		// now and the end of the RequestChildNodes call
		tab := self.document.tab

		if accumulator, err := tab.CreateAccumulator(`DOM.setChildNodes`); err == nil {
			defer accumulator.Destroy()

			if waiter, err := tab.CreateEventWaiter(`DOM.setChildNodes`); err == nil {
				defer waiter.Remove()

				if _, err := tab.RPC(`DOM`, `requestChildNodes`, map[string]interface{}{
					`nodeId`: self.id,
					`depth`:  1,
				}); err == nil {
					// the nodes arrive as an event, which may trail the reply
					waiter.Wait(context.Background(), ChildNodesWait)

					for _, event := range accumulator.Stop() {
						if int(event.Params.Int(`parentId`)) != self.id {
							continue
						}

						for _, node := range event.Params.Slice(`nodes`) {
							self.children = append(self.children, self.document.addNode(maputil.M(node.Value), 0, self.id))
						}
					}
				} else {
					log.Warningf("[dom] %v: failed to load children: %v", self, err)
				}
			}
		}

		self.loadedChildren = true
	}

	return self.children
}

// Retrieve the current attributes on this node and update our local copy.
func (self *Element) RefreshAttributes() error {
	if rv, err := self.document.tab.RPC(`DOM`, `getAttributes`, map[string]interface{}{
		`nodeId`: self.ID(),
	}); err == nil {
		self.setAttributesFromInterleavedArray(rv.R().Slice(`attributes`))
		return nil
	} else {
		return err
	}
}

// Focus the current element.
func (self *Element) Focus() error {
	_, err := self.document.tab.RPC(`DOM`, `focus`, map[string]interface{}{
		`nodeId`: self.ID(),
	})

	return err
}

// Click on the current element.
func (self *Element) Click() error {
	_, err := self.Evaluate(`this.click()`)
	return err
}

func (self *Element) Highlight(r int, g int, b int, a float64) error {
	r = int(mathutil.Clamp(float64(r), 0, 255))
	g = int(mathutil.Clamp(float64(g), 0, 255))
	b = int(mathutil.Clamp(float64(b), 0, 255))
	a = mathutil.Clamp(a, 0, 1)

	return self.document.tab.AsyncRPC(`Overlay`, `highlightNode`, map[string]interface{}{
		`highlightConfig`: map[string]interface{}{
			`contentColor`: map[string]interface{}{
				`r`: r,
				`g`: g,
				`b`: b,
				`a`: a,
			},
		},
		`nodeId`: self.id,
	})
}

// Evaluate runs the given statements as the body of an anonymous function
// bound to this element and returns the JSON value of its return statement.
func (self *Element) Evaluate(script string) (interface{}, error) {
	return self.CallFunction(
		context.Background(),
		fmt.Sprintf("function(){ %s }", script),
	)
}

// CallFunction calls a JavaScript function declaration with this element as
// `this`, awaiting it if it returns a Promise.  The result is returned by
// value.
func (self *Element) CallFunction(ctx context.Context, declaration string, args ...interface{}) (interface{}, error) {
	if out, groupId, err := self.callFunctionOn(ctx, declaration, true, args...); err == nil {
		defer self.document.tab.releaseObjectGroup(groupId)
		return remoteValue(out)
	} else {
		return nil, err
	}
}

// Calls declaration and hands the remote object ID of its result to fn.  fn
// is not called if the function returned null or undefined.
func (self *Element) withObject(ctx context.Context, declaration string, fn func(objectId string) error) error {
	if out, groupId, err := self.callFunctionOn(ctx, declaration, false); err == nil {
		defer self.document.tab.releaseObjectGroup(groupId)

		if _, err := remoteValue(out); err != nil {
			return err
		}

		if oid := out.String(`result.objectId`); oid != `` {
			return fn(oid)
		}

		return nil
	} else {
		return err
	}
}

func (self *Element) callFunctionOn(ctx context.Context, declaration string, byValue bool, args ...interface{}) (*maputil.Map, string, error) {
	tab := self.document.tab
	callGroupId := stringutil.UUID().String()

	rv, err := tab.RPCContext(ctx, `DOM`, `resolveNode`, map[string]interface{}{
		`nodeId`:      self.ID(),
		`objectGroup`: callGroupId,
	})

	if err != nil {
		return nil, ``, err
	}

	oid := rv.R().String(`object.objectId`)

	if oid == `` {
		return nil, ``, fmt.Errorf("Unable to determine RemoteObjectID for node %d", self.ID())
	}

	arguments := make([]map[string]interface{}, 0, len(args))

	for _, arg := range args {
		arguments = append(arguments, map[string]interface{}{
			`value`: arg,
		})
	}

	params := map[string]interface{}{
		`objectId`:            oid,
		`functionDeclaration`: declaration,
		`returnByValue`:       byValue,
		`awaitPromise`:        true,
		`objectGroup`:         callGroupId,
	}

	if len(arguments) > 0 {
		params[`arguments`] = arguments
	}

	if reply, err := tab.RPCContext(ctx, `Runtime`, `callFunctionOn`, params); err == nil {
		return reply.R(), callGroupId, nil
	} else {
		tab.releaseObjectGroup(callGroupId)
		return nil, ``, err
	}
}

// Prints this element and all subelements.
func (self *Element) TreeString(depth int) string {
	output := ``

	switch self.name {
	case `#text`:
		output += strings.Repeat(`  `, depth) + strings.TrimSpace(self.value) + "\n"

	default:
		attrs := []string{}
		astr := ``

		maputil.Walk(self.attributes, func(value interface{}, path []string, isLeaf bool) error {
			if isLeaf {
				attrs = append(attrs, fmt.Sprintf(
					"%v=\"%v\"",
					color.GreenString(strings.Join(path, `.`)),
					color.YellowString(fmt.Sprintf("%v", value)),
				))
			}

			return nil
		})

		if len(attrs) > 0 {
			astr = ` ` + strings.Join(attrs, ` `)
		}

		line := strings.Repeat(`  `, depth)
		line += color.MagentaString(`<`)
		line += color.RedString(self.name)
		line += astr
		line += color.MagentaString(`>`)

		output += line + "\n"
	}

	for _, child := range self.Children() {
		output += child.TreeString(depth + 1)
	}

	return output
}

func (self *Element) setAttributesFromInterleavedArray(attrpairs []typeutil.Variant) {
	attributes := make(map[string]interface{})

	for i := 0; i < len(attrpairs); i += 2 {
		if (i + 1) < len(attrpairs) {
			attributes[attrpairs[i].String()] = attrpairs[i+1].Auto()
		}
	}

	self.attributes = attributes
}
