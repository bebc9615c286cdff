package server

import (
	"net/http"

	"github.com/bobmcallan/vire-reports/internal/handlers"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	cfg := s.app.Config

	// Viewer pages
	mux.HandleFunc("/", s.app.ViewerHandler.ServeIndex)
	mux.HandleFunc("/select/", s.app.ViewerHandler.HandleSelect)
	mux.HandleFunc("/switch/", s.app.ViewerHandler.HandleSwitch)

	// Static files (CSS, JS, images)
	mux.HandleFunc("/static/", s.app.PageHandler.StaticFileHandler)

	// Generator output
	mux.HandleFunc("/reports/", handlers.DirHandler("/reports/", cfg.Reports.Dir))
	if cfg.Reports.ChartsDir != "" {
		mux.HandleFunc("/charts/", handlers.DirHandler("/charts/", cfg.Reports.ChartsDir))
	}

	// MCP endpoint (JSON-RPC over HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// Prometheus metrics
	mux.Handle("/metrics", s.app.Metrics.Handler())

	// API routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/catalog-health", s.app.CatalogHealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)
	mux.HandleFunc("/api/state", s.app.ViewerHandler.HandleState)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusNotFound, map[string]string{
		"error":   "Not Found",
		"message": "The requested endpoint does not exist",
	})
}
