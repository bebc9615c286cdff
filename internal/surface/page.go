package surface

// Named regions and markers of the report page.
const (
	NavListID        = "report-nav-list"
	ContentID        = "report-content"
	ChartContainerID = "chart-container"
	ErrorID          = "error-message"
	LastUpdateID     = "last-update"
	SymbolSwitchID   = "symbol-switch"

	NavItemClass      = "report-nav-item"
	SymbolButtonClass = "symbol-btn"
	ChartItemClass    = "chart-item"
	ActiveClass       = "active"

	SymbolKey = "symbol"
)

// ChartID returns the element id of the chart for symbol.
func ChartID(symbol string) string {
	return "chart-" + symbol
}

// NewReportPage builds the host page: last-update line, one quick-switch
// button per symbol, a hidden error region, the navigation list, the
// content container and the chart container.
func NewReportPage(quickSymbols []string) *Document {
	d := NewDocument()
	body := d.Body()

	header := d.CreateElement("header")
	header.AppendChild(d.CreateElement("span").SetID(LastUpdateID))

	switcher := d.CreateElement("div").SetID(SymbolSwitchID)
	for _, sym := range quickSymbols {
		btn := d.CreateElement("button").
			AddClass(SymbolButtonClass).
			SetData(SymbolKey, sym).
			SetText(sym)
		switcher.AppendChild(btn)
	}
	header.AppendChild(switcher)
	body.AppendChild(header)

	errRegion := d.CreateElement("div").SetID(ErrorID)
	errRegion.Hide()
	body.AppendChild(errRegion)

	body.AppendChild(d.CreateElement("ul").SetID(NavListID))

	main := d.CreateElement("main")
	main.AppendChild(d.CreateElement("div").SetID(ContentID))
	main.AppendChild(d.CreateElement("div").SetID(ChartContainerID))
	body.AppendChild(main)

	return d
}
