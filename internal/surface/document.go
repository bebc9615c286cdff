// Package surface models the page a report viewer draws on: a tree of
// elements with ids, classes, data attributes, content, visibility and
// click handlers. The portal renders it to HTML; tests drive it directly.
package surface

import (
	"context"
	"slices"
	"sync"
)

// ClickHandler runs when an element is clicked.
type ClickHandler func(ctx context.Context)

// Disposable removes a registration. Calling it more than once is safe.
type Disposable func()

type handlerEntry struct {
	id uint64
	fn ClickHandler
}

// Document owns an element tree. All element access goes through the
// document lock, so a document can be rendered while a selection is
// being applied from another request.
type Document struct {
	mu        sync.RWMutex
	body      *Element
	handlerID uint64
}

// Element is a node in a Document.
type Element struct {
	doc      *Document
	tag      string
	id       string
	classes  []string
	data     map[string]string
	attrs    map[string]string
	text     string
	markup   string
	hidden   bool
	parent   *Element
	children []*Element
	handlers []handlerEntry
}

// NewDocument creates an empty document with a body element.
func NewDocument() *Document {
	d := &Document{}
	d.body = d.CreateElement("body")
	return d
}

// Body returns the root element.
func (d *Document) Body() *Element {
	return d.body
}

// CreateElement creates a detached element owned by d.
func (d *Document) CreateElement(tag string) *Element {
	return &Element{
		doc:   d,
		tag:   tag,
		data:  map[string]string{},
		attrs: map[string]string{},
	}
}

// ElementByID returns the attached element with the given id, or nil.
func (d *Document) ElementByID(id string) *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var found *Element
	walk(d.body, func(e *Element) bool {
		if e.id == id {
			found = e
			return false
		}
		return true
	})
	return found
}

// ElementsByClass returns attached elements carrying class, in document order.
func (d *Document) ElementsByClass(class string) []*Element {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []*Element
	walk(d.body, func(e *Element) bool {
		if slices.Contains(e.classes, class) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// QueryData returns the first attached element with class whose data
// attribute key equals value, or nil.
func (d *Document) QueryData(class, key, value string) *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var found *Element
	walk(d.body, func(e *Element) bool {
		if slices.Contains(e.classes, class) && e.data[key] == value {
			found = e
			return false
		}
		return true
	})
	return found
}

// walk visits e and its descendants depth-first until fn returns false.
// Caller holds the document lock.
func walk(e *Element, fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.children {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.tag }

// ID returns the element id.
func (e *Element) ID() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.id
}

// SetID sets the element id and returns e for chaining.
func (e *Element) SetID(id string) *Element {
	e.doc.mu.Lock()
	e.id = id
	e.doc.mu.Unlock()
	return e
}

// AddClass adds class if it is not already present.
func (e *Element) AddClass(class string) *Element {
	e.doc.mu.Lock()
	if !slices.Contains(e.classes, class) {
		e.classes = append(e.classes, class)
	}
	e.doc.mu.Unlock()
	return e
}

// RemoveClass removes class if present.
func (e *Element) RemoveClass(class string) {
	e.doc.mu.Lock()
	e.classes = slices.DeleteFunc(e.classes, func(c string) bool { return c == class })
	e.doc.mu.Unlock()
}

// HasClass reports whether e carries class.
func (e *Element) HasClass(class string) bool {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return slices.Contains(e.classes, class)
}

// Classes returns a copy of the class list.
func (e *Element) Classes() []string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return slices.Clone(e.classes)
}

// SetData sets a data-* attribute.
func (e *Element) SetData(key, value string) *Element {
	e.doc.mu.Lock()
	e.data[key] = value
	e.doc.mu.Unlock()
	return e
}

// Data returns a data-* attribute, or "" when unset.
func (e *Element) Data(key string) string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.data[key]
}

// SetAttr sets a plain attribute such as src or alt.
func (e *Element) SetAttr(key, value string) *Element {
	e.doc.mu.Lock()
	e.attrs[key] = value
	e.doc.mu.Unlock()
	return e
}

// Attr returns a plain attribute, or "" when unset.
func (e *Element) Attr(key string) string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.attrs[key]
}

// SetText replaces the element's content with plain text.
func (e *Element) SetText(text string) *Element {
	e.doc.mu.Lock()
	e.text = text
	e.markup = ""
	e.doc.mu.Unlock()
	return e
}

// Text returns the element's plain text content.
func (e *Element) Text() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.text
}

// SetInnerHTML replaces the element's content with trusted markup.
func (e *Element) SetInnerHTML(markup string) {
	e.doc.mu.Lock()
	e.markup = markup
	e.text = ""
	e.doc.mu.Unlock()
}

// InnerHTML returns the element's markup content.
func (e *Element) InnerHTML() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return e.markup
}

// Show makes the element visible.
func (e *Element) Show() { e.setHidden(false) }

// Hide hides the element.
func (e *Element) Hide() { e.setHidden(true) }

func (e *Element) setHidden(hidden bool) {
	e.doc.mu.Lock()
	e.hidden = hidden
	e.doc.mu.Unlock()
}

// Visible reports whether the element is shown.
func (e *Element) Visible() bool {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return !e.hidden
}

// AppendChild attaches child as the last child of e, detaching it from any
// previous parent.
func (e *Element) AppendChild(child *Element) *Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	if child.parent != nil {
		child.parent.children = slices.DeleteFunc(child.parent.children, func(c *Element) bool { return c == child })
	}
	child.parent = e
	e.children = append(e.children, child)
	return e
}

// ReplaceChildren detaches every current child, dropping the click handlers
// registered anywhere in the removed subtrees, and attaches children.
func (e *Element) ReplaceChildren(children ...*Element) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	for _, old := range e.children {
		old.parent = nil
		walk(old, func(n *Element) bool {
			n.handlers = nil
			return true
		})
	}
	e.children = make([]*Element, 0, len(children))
	for _, c := range children {
		c.parent = e
		e.children = append(e.children, c)
	}
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	if e.parent == nil {
		return
	}
	e.parent.children = slices.DeleteFunc(e.parent.children, func(c *Element) bool { return c == e })
	e.parent = nil
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return slices.Clone(e.children)
}

// OnClick registers h and returns a Disposable that unregisters it.
func (e *Element) OnClick(h ClickHandler) Disposable {
	e.doc.mu.Lock()
	e.doc.handlerID++
	id := e.doc.handlerID
	e.handlers = append(e.handlers, handlerEntry{id: id, fn: h})
	e.doc.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.doc.mu.Lock()
			e.handlers = slices.DeleteFunc(e.handlers, func(h handlerEntry) bool { return h.id == id })
			e.doc.mu.Unlock()
		})
	}
}

// HandlerCount returns the number of registered click handlers.
func (e *Element) HandlerCount() int {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return len(e.handlers)
}

// Click runs every registered handler in registration order. Handlers run
// without the document lock held. It reports whether any handler ran.
func (e *Element) Click(ctx context.Context) bool {
	e.doc.mu.RLock()
	handlers := slices.Clone(e.handlers)
	e.doc.mu.RUnlock()

	for _, h := range handlers {
		h.fn(ctx)
	}
	return len(handlers) > 0
}
