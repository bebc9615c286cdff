package viewer

import "github.com/bobmcallan/vire-reports/internal/surface"

// ChartPresenter keeps at most one chart visible.
type ChartPresenter struct {
	doc        *surface.Document
	addressing Addressing
}

// NewChartPresenter creates a presenter for doc.
func NewChartPresenter(doc *surface.Document, addressing Addressing) *ChartPresenter {
	return &ChartPresenter{doc: doc, addressing: addressing}
}

// Mount fills the chart container with one hidden chart image per entry
// that has a chart location. Without a container this does nothing.
func (p *ChartPresenter) Mount(c *Catalog) {
	container := p.doc.ElementByID(surface.ChartContainerID)
	if container == nil {
		return
	}

	var charts []*surface.Element
	for _, entry := range c.Entries() {
		src := p.addressing.ChartURL(entry)
		if src == "" {
			continue
		}
		img := p.doc.CreateElement("img").
			SetID(surface.ChartID(entry.Symbol)).
			AddClass(surface.ChartItemClass).
			SetData(surface.SymbolKey, entry.Symbol).
			SetAttr("src", src).
			SetAttr("alt", entry.Symbol+" chart")
		img.Hide()
		charts = append(charts, img)
	}
	container.ReplaceChildren(charts...)
}

// Show hides every chart, then shows the one for symbol if it exists.
// Charts are matched by class and symbol, not id, since a chart id can
// coincide with a page region id.
func (p *ChartPresenter) Show(symbol string) {
	for _, el := range p.doc.ElementsByClass(surface.ChartItemClass) {
		el.Hide()
	}
	if el := p.doc.QueryData(surface.ChartItemClass, surface.SymbolKey, symbol); el != nil {
		el.Show()
	}
}
