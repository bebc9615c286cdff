package surface

import "html/template"

// ItemView is a rendered nav item or quick-switch button.
type ItemView struct {
	Symbol string `json:"symbol"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// ChartView is a rendered chart element.
type ChartView struct {
	Symbol  string `json:"symbol"`
	ID      string `json:"id"`
	Src     string `json:"src"`
	Alt     string `json:"alt"`
	Visible bool   `json:"visible"`
}

// PageView is a point-in-time copy of the report page regions, shaped for
// templates and JSON.
type PageView struct {
	LastUpdate   string        `json:"last_update"`
	Buttons      []ItemView    `json:"buttons"`
	NavItems     []ItemView    `json:"nav_items"`
	Content      template.HTML `json:"content"`
	Charts       []ChartView   `json:"charts"`
	Error        string        `json:"error,omitempty"`
	ErrorVisible bool          `json:"error_visible"`
}

// View captures the current state of the page regions. Regions missing
// from the document are left empty.
func (d *Document) View() PageView {
	var v PageView

	if el := d.ElementByID(LastUpdateID); el != nil {
		v.LastUpdate = el.Text()
	}
	for _, el := range d.ElementsByClass(SymbolButtonClass) {
		v.Buttons = append(v.Buttons, itemView(el))
	}
	for _, el := range d.ElementsByClass(NavItemClass) {
		v.NavItems = append(v.NavItems, itemView(el))
	}
	if el := d.ElementByID(ContentID); el != nil {
		// Content is goldmark output (raw HTML disabled) or generator-owned HTML.
		v.Content = template.HTML(el.InnerHTML())
	}
	for _, el := range d.ElementsByClass(ChartItemClass) {
		v.Charts = append(v.Charts, ChartView{
			Symbol:  el.Data(SymbolKey),
			ID:      el.ID(),
			Src:     el.Attr("src"),
			Alt:     el.Attr("alt"),
			Visible: el.Visible(),
		})
	}
	if el := d.ElementByID(ErrorID); el != nil {
		v.Error = el.Text()
		v.ErrorVisible = el.Visible()
	}

	return v
}

func itemView(el *Element) ItemView {
	return ItemView{
		Symbol: el.Data(SymbolKey),
		Label:  el.Text(),
		Active: el.HasClass(ActiveClass),
	}
}
