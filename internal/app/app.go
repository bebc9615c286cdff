package app

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/vire-reports/internal/common"
	"github.com/bobmcallan/vire-reports/internal/config"
	"github.com/bobmcallan/vire-reports/internal/handlers"
	"github.com/bobmcallan/vire-reports/internal/mcp"
	"github.com/bobmcallan/vire-reports/internal/metrics"
	"github.com/bobmcallan/vire-reports/internal/session"
	"github.com/bobmcallan/vire-reports/internal/surface"
	"github.com/bobmcallan/vire-reports/internal/viewer"
)

// sweepInterval is how often expired sessions are dropped.
const sweepInterval = time.Minute

// App holds all application components and dependencies.
type App struct {
	Config  *config.Config
	Logger  *common.Logger
	Metrics *metrics.Metrics

	Addressing viewer.Addressing
	Fetcher    *viewer.Fetcher
	Catalog    *viewer.CatalogLoader
	Sessions   *session.Store

	// HTTP handlers
	PageHandler          *handlers.PageHandler
	ViewerHandler        *handlers.ViewerHandler
	HealthHandler        *handlers.HealthHandler
	CatalogHealthHandler *handlers.CatalogHealthHandler
	VersionHandler       *handlers.VersionHandler
	MCPHandler           *mcp.Handler

	stopSweep context.CancelFunc
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	addressing, err := viewer.NewAddressing(cfg.Viewer.Scheme, cfg.CatalogURL(), cfg.Viewer.ContentPattern, cfg.Viewer.ChartPattern)
	if err != nil {
		return nil, fmt.Errorf("addressing: %w", err)
	}
	a.Addressing = addressing
	a.Fetcher = viewer.NewFetcher(cfg.FetchTimeout())
	a.Catalog = viewer.NewCatalogLoader(cfg.CatalogURL(), a.Fetcher)
	a.Sessions = session.New(cfg.SessionTTL(), cfg.Session.MaxSessions, a.NewController, a.Metrics)

	a.initHandlers()

	ctx, cancel := context.WithCancel(context.Background())
	a.stopSweep = cancel
	go a.sweepSessions(ctx)

	logger.Info().
		Str("catalog_url", cfg.CatalogURL()).
		Str("scheme", addressing.Name).
		Str("format", addressing.Format.String()).
		Msg("application initialization complete")

	return a, nil
}

// NewController builds a viewer controller on a fresh report page.
func (a *App) NewController() *viewer.Controller {
	return viewer.NewController(surface.NewReportPage(a.Config.Viewer.QuickSymbols), viewer.Options{
		Catalog:      a.Catalog,
		Content:      a.Fetcher,
		Addressing:   a.Addressing,
		ErrorDisplay: a.Config.ErrorDisplay(),
		Logger:       a.Logger,
		Metrics:      a.Metrics,
	})
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.PageHandler = handlers.NewPageHandler(a.Logger, false)
	a.ViewerHandler = handlers.NewViewerHandler(a.Logger, a.PageHandler, a.Sessions, a.Config.ErrorDisplay())
	a.HealthHandler = handlers.NewHealthHandler(a.Logger, a.Sessions)
	a.CatalogHealthHandler = handlers.NewCatalogHealthHandler(a.Logger, a.Config.CatalogURL())
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)

	lib := mcp.NewLibrary(a.Catalog, a.Fetcher, a.Addressing, nil)
	a.MCPHandler = mcp.NewHandler(lib, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

func (a *App) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.Sessions.Sweep(); n > 0 {
				a.Logger.Debug().Int("sessions", n).Msg("expired viewer sessions removed")
			}
		}
	}
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.stopSweep != nil {
		a.stopSweep()
	}
	a.Sessions.Close()
	return nil
}
