package handlers

import (
	"net/http"
	"time"

	"github.com/bobmcallan/vire-reports/internal/common"
	"github.com/bobmcallan/vire-reports/internal/config"
	"github.com/bobmcallan/vire-reports/internal/session"
	"github.com/bobmcallan/vire-reports/internal/surface"
	"github.com/bobmcallan/vire-reports/internal/viewer"
)

// ViewerHandler serves the report viewer. Each browser session gets its
// own controller; selections arrive as clicks on that session's document.
type ViewerHandler struct {
	logger       *common.Logger
	pages        *PageHandler
	sessions     *session.Store
	errorDisplay time.Duration
}

// NewViewerHandler creates a new viewer handler.
func NewViewerHandler(logger *common.Logger, pages *PageHandler, sessions *session.Store, errorDisplay time.Duration) *ViewerHandler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &ViewerHandler{
		logger:       logger,
		pages:        pages,
		sessions:     sessions,
		errorDisplay: errorDisplay,
	}
}

// ServeIndex handles GET /. The first request of a session loads the
// catalog; a session whose load failed retries on the next request.
func (h *ViewerHandler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	_, ctrl := h.sessions.Resolve(w, r)
	h.ensureLoaded(r, ctrl)
	h.render(w, ctrl)
}

// HandleSelect handles GET /select/{symbol}: a click on the symbol's
// navigation item.
func (h *ViewerHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	h.click(w, r, "/select/", surface.NavItemClass)
}

// HandleSwitch handles GET /switch/{symbol}: a click on the symbol's
// quick-switch button.
func (h *ViewerHandler) HandleSwitch(w http.ResponseWriter, r *http.Request) {
	h.click(w, r, "/switch/", surface.SymbolButtonClass)
}

func (h *ViewerHandler) click(w http.ResponseWriter, r *http.Request, prefix, class string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, prefix)
	_, ctrl := h.sessions.Resolve(w, r)
	h.ensureLoaded(r, ctrl)

	if el := ctrl.Document().QueryData(class, surface.SymbolKey, symbol); el != nil {
		el.Click(r.Context())
	} else {
		h.logger.Debug().Str("symbol", symbol).Str("target", class).Msg("no element to click")
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// stateResponse is the JSON form of a session's page.
type stateResponse struct {
	Loaded  bool             `json:"loaded"`
	Current string           `json:"current,omitempty"`
	Reports int              `json:"reports"`
	View    surface.PageView `json:"view"`
}

// HandleState handles GET /api/state.
func (h *ViewerHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	_, ctrl := h.sessions.Resolve(w, r)
	h.ensureLoaded(r, ctrl)

	current, _ := ctrl.Current()
	WriteJSON(w, http.StatusOK, stateResponse{
		Loaded:  ctrl.Loaded(),
		Current: current,
		Reports: ctrl.Catalog().Len(),
		View:    ctrl.Document().View(),
	})
}

func (h *ViewerHandler) ensureLoaded(r *http.Request, ctrl *viewer.Controller) {
	if ctrl.Loaded() {
		return
	}
	if err := ctrl.Init(r.Context()); err != nil {
		h.logger.Debug().Str("error", err.Error()).Msg("viewer init failed, page shows the error")
	}
}

func (h *ViewerHandler) render(w http.ResponseWriter, ctrl *viewer.Controller) {
	current, _ := ctrl.Current()
	h.pages.Render(w, "viewer.html", map[string]any{
		"Page":           "viewer",
		"Version":        config.GetVersion(),
		"Current":        current,
		"View":           ctrl.Document().View(),
		"ErrorDismissMs": h.errorDisplay.Milliseconds(),
	})
}
