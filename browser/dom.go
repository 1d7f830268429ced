package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/maputil"
	"github.com/ghetzel/go-stockutil/typeutil"
)

// Document tracks the DOM nodes the browser has told us about, keyed by
// their DevTools node ID.
type Document struct {
	tab      *Tab
	root     *Element
	elements sync.Map
}

func NewDocument(tab *Tab) *Document {
	doc := &Document{
		tab: tab,
	}

	if err := doc.populate(context.Background()); err != nil {
		log.Warningf("[dom] Failed to load document: %v", err)
	}

	return doc
}

func (self *Document) Root() *Element {
	return self.root
}

func (self *Document) String() string {
	return fmt.Sprintf("%v", self.root)
}

func (self *Document) Reset() error {
	self.root = nil
	self.elements = sync.Map{}

	return self.populate(context.Background())
}

func (self *Document) populate(ctx context.Context) error {
	if reply, err := self.tab.RPCContext(ctx, `DOM`, `getDocument`, map[string]interface{}{
		`depth`:  1,
		`pierce`: false,
	}); err == nil {
		self.root = self.addElementFromResult(maputil.M(reply.R().Get(`root`).Value))
		return nil
	} else {
		return err
	}
}

// Element returns the known element with the given node ID.
func (self *Document) Element(id int) (*Element, bool) {
	if el, ok := self.elements.Load(id); ok {
		return el.(*Element), true
	}

	return nil, false
}

// Returns the element with the given node ID, asking the browser to describe
// it if we have not seen it yet.
func (self *Document) ElementByID(ctx context.Context, id int) (*Element, error) {
	if el, ok := self.Element(id); ok {
		return el, nil
	}

	if reply, err := self.tab.RPCContext(ctx, `DOM`, `describeNode`, map[string]interface{}{
		`nodeId`: id,
	}); err == nil {
		// describeNode reports nodeId 0 for nodes it was not asked to push
		return self.addNode(maputil.M(reply.R().Get(`node`).Value), id, 0), nil
	} else {
		return nil, err
	}
}

// Query returns all elements matching the given selector.
func (self *Document) Query(ctx context.Context, selector Selector) ([]*Element, error) {
	if self.root == nil {
		if err := self.populate(ctx); err != nil {
			return nil, err
		}
	}

	if selector.IsNone() {
		return nil, fmt.Errorf("empty selector")
	}

	stype, expr, err := selector.GetAnnotation()

	if err != nil {
		return nil, err
	}

	var nodeIds []int

	switch stype {
	case `css`:
		if reply, err := self.tab.RPCContext(ctx, `DOM`, `querySelectorAll`, map[string]interface{}{
			`nodeId`:   self.root.ID(),
			`selector`: expr,
		}); err == nil {
			nodeIds = intSlice(reply.R().Slice(`nodeIds`))
		} else {
			return nil, err
		}

	default:
		if ids, err := self.search(ctx, expr); err == nil {
			nodeIds = ids
		} else {
			return nil, err
		}
	}

	elements := make([]*Element, 0, len(nodeIds))

	for _, id := range nodeIds {
		if id <= 0 {
			continue
		}

		if el, err := self.ElementByID(ctx, id); err == nil {
			elements = append(elements, el)
		} else {
			return nil, err
		}
	}

	log.Debugf("[dom] %v matched %d element(s)", selector, len(elements))

	return elements, nil
}

// Runs a DOM.performSearch query (plain text or XPath) and returns the node IDs it found.
func (self *Document) search(ctx context.Context, query string) ([]int, error) {
	reply, err := self.tab.RPCContext(ctx, `DOM`, `performSearch`, map[string]interface{}{
		`query`: query,
	})

	if err != nil {
		return nil, err
	}

	searchId := reply.R().String(`searchId`)
	count := int(reply.R().Int(`resultCount`))

	defer self.tab.AsyncRPC(`DOM`, `discardSearchResults`, map[string]interface{}{
		`searchId`: searchId,
	})

	if count == 0 {
		return nil, nil
	}

	if results, err := self.tab.RPCContext(ctx, `DOM`, `getSearchResults`, map[string]interface{}{
		`searchId`:  searchId,
		`fromIndex`: 0,
		`toIndex`:   count,
	}); err == nil {
		return intSlice(results.R().Slice(`nodeIds`)), nil
	} else {
		return nil, err
	}
}

func (self *Document) addElementFromResult(node *maputil.Map) *Element {
	return self.addNode(node, 0, 0)
}

// Registers node (and any children it carries).  Non-zero id and parentId
// override what the node description says.
func (self *Document) addNode(node *maputil.Map, id int, parentId int) *Element {
	element := &Element{
		document:   self,
		id:         int(node.Int(`nodeId`)),
		backendId:  int(node.Int(`backendNodeId`)),
		parent:     int(node.Int(`parentId`)),
		name:       node.String(`localName`, node.String(`nodeName`)),
		nodeType:   int(node.Int(`nodeType`)),
		value:      node.String(`nodeValue`),
		attributes: make(map[string]interface{}),
	}

	if id > 0 {
		element.id = id
	}

	if element.parent == 0 {
		element.parent = parentId
	}

	element.setAttributesFromInterleavedArray(node.Slice(`attributes`))

	if existing, ok := self.Element(element.id); ok && element.parent == 0 {
		element.parent = existing.parent
	}

	if children := node.Slice(`children`); len(children) > 0 {
		for _, child := range children {
			element.children = append(element.children, self.addNode(maputil.M(child.Value), 0, element.id))
		}

		element.loadedChildren = true
	}

	if element.id > 0 {
		self.elements.Store(element.id, element)
	}

	return element
}

func (self *Document) removeElement(id int) {
	self.elements.Delete(id)
}

func intSlice(in []typeutil.Variant) []int {
	out := make([]int, 0, len(in))

	for _, v := range in {
		out = append(out, int(v.Int()))
	}

	return out
}
