package handlers

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bobmcallan/vire-reports/internal/common"
)

// PageHandler renders the HTML templates under the pages directory and
// serves its static assets.
type PageHandler struct {
	logger    *common.Logger
	templates *template.Template
	pagesDir  string
	devMode   bool
}

// NewPageHandler creates a new page handler that loads templates from the pages directory.
func NewPageHandler(logger *common.Logger, devMode bool) *PageHandler {
	pagesDir := FindPagesDir()

	templates := template.Must(template.ParseGlob(filepath.Join(pagesDir, "*.html")))
	template.Must(templates.ParseGlob(filepath.Join(pagesDir, "partials", "*.html")))

	return &PageHandler{
		logger:    logger,
		templates: templates,
		pagesDir:  pagesDir,
		devMode:   devMode,
	}
}

// FindPagesDir locates the pages directory.
func FindPagesDir() string {
	dirs := []string{
		"./pages",
		"../pages",
		"../../pages",
	}

	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			abs, _ := filepath.Abs(dir)
			return abs
		}
	}

	return "."
}

// Render executes templateName with data. data["DevMode"] is filled in
// when data is a map.
func (h *PageHandler) Render(w http.ResponseWriter, templateName string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["DevMode"] = h.devMode

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, templateName, data); err != nil {
		if h.logger != nil {
			h.logger.Error().Str("template", templateName).Str("error", err.Error()).Msg("failed to render page")
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// StaticFileHandler serves static files (CSS, JS, images).
func (h *PageHandler) StaticFileHandler(w http.ResponseWriter, r *http.Request) {
	ServeDir(w, r, "/static/", filepath.Join(h.pagesDir, "static"))
}

// DirHandler serves the files under dir at prefix, e.g. generated reports
// at /reports/.
func DirHandler(prefix, dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !RequireMethod(w, r, http.MethodGet) {
			return
		}
		ServeDir(w, r, prefix, dir)
	}
}

// ServeDir serves the file under dir named by the request path after
// prefix. Paths escaping dir are not found.
func ServeDir(w http.ResponseWriter, r *http.Request, prefix, dir string) {
	path, ok := strings.CutPrefix(r.URL.Path, prefix)
	if !ok || path == "" {
		http.NotFound(w, r)
		return
	}
	fullPath := filepath.Join(dir, filepath.FromSlash(path))

	// Security: prevent directory traversal
	absDir, _ := filepath.Abs(dir)
	absFullPath, _ := filepath.Abs(fullPath)
	if !strings.HasPrefix(absFullPath, absDir+string(filepath.Separator)) {
		http.NotFound(w, r)
		return
	}

	info, err := os.Stat(absFullPath)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, absFullPath)
}
