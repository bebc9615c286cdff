// Package viewer is the report viewer controller: it loads the report
// catalog, draws the navigation, and swaps report content and charts as
// the user selects reports on a surface.Document.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bobmcallan/vire-reports/internal/common"
	"github.com/bobmcallan/vire-reports/internal/metrics"
	"github.com/bobmcallan/vire-reports/internal/surface"
)

// CatalogSource loads the session catalog.
type CatalogSource interface {
	Load(ctx context.Context) (*Catalog, []string, error)
}

// Options wires a Controller's collaborators.
type Options struct {
	Catalog      CatalogSource
	Content      ContentSource
	Converter    Converter
	Addressing   Addressing
	ErrorDisplay time.Duration
	Logger       *common.Logger
	Metrics      *metrics.Metrics
}

// Controller owns one page session: its selection state and the
// presenters drawing on its document.
type Controller struct {
	doc      *surface.Document
	source   CatalogSource
	state    *SelectionState
	nav      *NavRenderer
	content  *ContentPresenter
	charts   *ChartPresenter
	notifier *Notifier
	logger   *common.Logger
	metrics  *metrics.Metrics

	initMu sync.Mutex
}

// NewController creates a controller drawing on doc.
func NewController(doc *surface.Document, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	converter := opts.Converter
	if converter == nil {
		converter = NewMarkdownConverter()
	}

	state := NewSelectionState()
	return &Controller{
		doc:      doc,
		source:   opts.Catalog,
		state:    state,
		nav:      NewNavRenderer(doc, opts.Addressing),
		content:  NewContentPresenter(doc, opts.Addressing, opts.Content, converter, state),
		charts:   NewChartPresenter(doc, opts.Addressing),
		notifier: NewNotifier(doc, opts.ErrorDisplay, logger, opts.Metrics),
		logger:   logger,
		metrics:  opts.Metrics,
	}
}

// Document returns the surface the controller draws on.
func (c *Controller) Document() *surface.Document { return c.doc }

// Catalog returns the loaded catalog, or nil before a successful Init.
func (c *Controller) Catalog() *Catalog { return c.state.Catalog() }

// Loaded reports whether the catalog has been installed.
func (c *Controller) Loaded() bool { return c.state.Catalog() != nil }

// Current returns the active symbol.
func (c *Controller) Current() (string, bool) { return c.state.Current() }

// Init loads the catalog, draws the navigation, binds quick-switch
// buttons, selects the first report and shows the last-update time.
// After a successful Init further calls do nothing; after a failed one
// they retry the load. A catalog failure is logged, shown to the user and
// returned; a failure showing the first report is only logged and shown.
func (c *Controller) Init(ctx context.Context) error {
	c.initMu.Lock()
	defer c.initMu.Unlock()

	if c.Loaded() {
		return nil
	}

	cat, dropped, err := c.source.Load(ctx)
	if err != nil {
		c.metrics.CatalogLoaded("error")
		c.logger.Error().Str("error", err.Error()).Msg("failed to load report catalog")
		c.notifier.Notify(fmt.Sprintf("Failed to load the report list (%s). Refresh to retry.", describe(err)))
		return fmt.Errorf("load catalog: %w", err)
	}
	c.metrics.CatalogLoaded("ok")
	if len(dropped) > 0 {
		c.logger.Warn().Strs("symbols", dropped).Msg("dropped catalog entries with missing or duplicate symbols")
	}

	if err := c.state.Install(cat); err != nil {
		return err
	}

	c.charts.Mount(cat)
	c.nav.Render(cat, c.selectEntry)
	c.nav.BindQuickSwitch(cat, c.selectEntry)
	c.showLastUpdate(cat)

	c.logger.Info().Int("reports", cat.Len()).Msg("report catalog loaded")

	if first, ok := cat.First(); ok {
		// Content failures are already logged and notified by present.
		_ = c.present(ctx, first, "initial")
	}
	return nil
}

// Select presents the report for symbol as if the user picked it. An
// unknown symbol is ignored.
func (c *Controller) Select(ctx context.Context, symbol string) error {
	entry, ok := c.state.Catalog().Lookup(symbol)
	if !ok {
		c.logger.Debug().Str("symbol", symbol).Msg("ignoring selection of unknown symbol")
		return nil
	}
	return c.present(ctx, entry, "api")
}

// selectEntry is the click path for nav items and quick-switch buttons.
func (c *Controller) selectEntry(ctx context.Context, entry ReportEntry, source string) {
	_ = c.present(ctx, entry, source)
}

// present runs one selection: markers and chart switch immediately, then
// the content is fetched and swapped in. Failures other than a superseded
// selection are logged and notified.
func (c *Controller) present(ctx context.Context, entry ReportEntry, source string) error {
	c.metrics.Selected(source)
	token, sctx := c.state.Select(ctx, entry.Symbol)

	err := ErrStaleSelection
	if c.markSelection(token, entry.Symbol) {
		err = c.content.Show(sctx, entry, token)
	}
	switch {
	case err == nil:
		c.metrics.ReportFetched("ok")
		c.logger.Debug().Str("symbol", entry.Symbol).Str("source", source).Msg("report shown")
		return nil
	case errors.Is(err, ErrStaleSelection):
		c.metrics.ReportFetched("stale")
		c.logger.Debug().Str("symbol", entry.Symbol).Msg("discarded superseded report")
		return err
	}

	c.metrics.ReportFetched("error")
	c.logger.Error().
		Str("symbol", entry.Symbol).
		Str("error", err.Error()).
		Msg("failed to show report")
	c.notifier.Notify(fmt.Sprintf("Failed to load report %s (%s).", entry.Symbol, describe(err)))
	return err
}

// markSelection moves the active markers and the visible chart to symbol,
// unless a newer selection has started since token was issued.
func (c *Controller) markSelection(token Token, symbol string) bool {
	return c.state.CommitIfCurrent(token, func() {
		c.nav.UpdateActiveStates(symbol)
		c.charts.Show(symbol)
	})
}

func (c *Controller) showLastUpdate(cat *Catalog) {
	el := c.doc.ElementByID(surface.LastUpdateID)
	first, ok := cat.First()
	if el == nil || !ok || first.Timestamp == "" {
		return
	}
	el.SetText("Last updated: " + first.Timestamp.Display())
}

// Close releases handlers, timers and the outstanding selection.
func (c *Controller) Close() {
	c.nav.Dispose()
	c.notifier.Stop()
	c.state.Close()
}

// describe turns an error into the short reason shown to users.
func describe(err error) string {
	var fe *FetchError
	var pe *ParseError
	var me *MissingElementError
	switch {
	case errors.Is(err, ErrResponseTooLarge):
		return "too large to display"
	case errors.As(err, &fe) && fe.Status != 0:
		return fmt.Sprintf("status %d", fe.Status)
	case errors.As(err, &fe):
		return "network error"
	case errors.As(err, &pe):
		return "unexpected response format"
	case errors.As(err, &me):
		return "page is incomplete"
	}
	return "could not be displayed"
}
