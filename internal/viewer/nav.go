package viewer

import (
	"context"
	"sync"

	"github.com/bobmcallan/vire-reports/internal/surface"
)

// SelectFunc is called when the user picks an entry.
type SelectFunc func(ctx context.Context, entry ReportEntry, source string)

// NavRenderer draws the report list and quick-switch buttons and keeps
// their active markers in sync with the selection.
type NavRenderer struct {
	doc        *surface.Document
	addressing Addressing

	mu       sync.Mutex
	navBinds []surface.Disposable
	btnBinds []surface.Disposable
}

// NewNavRenderer creates a renderer for doc.
func NewNavRenderer(doc *surface.Document, addressing Addressing) *NavRenderer {
	return &NavRenderer{doc: doc, addressing: addressing}
}

// Render replaces the navigation list with one item per catalog entry.
// Handlers from a previous render are disposed first, so rendering the
// same catalog twice yields the same list. Without a navigation
// container this does nothing.
func (r *NavRenderer) Render(c *Catalog, onSelect SelectFunc) {
	list := r.doc.ElementByID(surface.NavListID)
	if list == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, dispose := range r.navBinds {
		dispose()
	}
	r.navBinds = r.navBinds[:0]

	entries := c.Entries()
	items := make([]*surface.Element, 0, len(entries))
	for _, entry := range entries {
		item := r.doc.CreateElement("li").
			AddClass(surface.NavItemClass).
			SetData(surface.SymbolKey, entry.Symbol).
			SetText(r.addressing.Label(entry))

		r.navBinds = append(r.navBinds, item.OnClick(func(ctx context.Context) {
			onSelect(ctx, entry, "nav")
		}))
		items = append(items, item)
	}
	list.ReplaceChildren(items...)
}

// BindQuickSwitch wires every quick-switch button on the page. A button
// whose symbol is not in the catalog does nothing when clicked.
func (r *NavRenderer) BindQuickSwitch(c *Catalog, onSelect SelectFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, dispose := range r.btnBinds {
		dispose()
	}
	r.btnBinds = r.btnBinds[:0]

	for _, btn := range r.doc.ElementsByClass(surface.SymbolButtonClass) {
		symbol := btn.Data(surface.SymbolKey)
		r.btnBinds = append(r.btnBinds, btn.OnClick(func(ctx context.Context) {
			if entry, ok := c.Lookup(symbol); ok {
				onSelect(ctx, entry, "switch")
			}
		}))
	}
}

// UpdateActiveStates clears the active marker from every nav item and
// quick-switch button, then marks the ones for symbol. An unknown symbol
// leaves nothing marked.
func (r *NavRenderer) UpdateActiveStates(symbol string) {
	for _, class := range []string{surface.NavItemClass, surface.SymbolButtonClass} {
		for _, el := range r.doc.ElementsByClass(class) {
			el.RemoveClass(surface.ActiveClass)
			if el.Data(surface.SymbolKey) == symbol {
				el.AddClass(surface.ActiveClass)
			}
		}
	}
}

// Dispose unregisters every handler this renderer bound.
func (r *NavRenderer) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, dispose := range append(r.navBinds, r.btnBinds...) {
		dispose()
	}
	r.navBinds = nil
	r.btnBinds = nil
}
