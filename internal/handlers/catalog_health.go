package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bobmcallan/vire-reports/internal/common"
)

// CatalogHealthHandler reports whether the report catalog is reachable.
type CatalogHealthHandler struct {
	logger     *common.Logger
	catalogURL string
	client     *http.Client
}

// NewCatalogHealthHandler creates a new catalog health handler.
func NewCatalogHealthHandler(logger *common.Logger, catalogURL string) *CatalogHealthHandler {
	return &CatalogHealthHandler{logger: logger, catalogURL: catalogURL, client: http.DefaultClient}
}

// ServeHTTP handles GET /api/catalog-health.
func (h *CatalogHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	down := map[string]string{"status": "down", "catalog_url": h.catalogURL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.catalogURL, nil)
	if err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, down)
		return
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn().Str("url", h.catalogURL).Str("error", err.Error()).Msg("catalog unreachable")
		}
		WriteJSON(w, http.StatusServiceUnavailable, down)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "catalog_url": h.catalogURL})
		return
	}

	WriteJSON(w, http.StatusServiceUnavailable, down)
}
