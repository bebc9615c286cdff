package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bobmcallan/vire-reports/internal/app"
	"github.com/bobmcallan/vire-reports/internal/common"
	"github.com/bobmcallan/vire-reports/internal/config"
)

const routesCatalog = `{"reports":[
	{"symbol":"AAPL","title":"Apple Q1","timestamp":"20260105_093000","url":"reports/aapl.md"},
	{"symbol":"MSFT","title":"Microsoft Q1","url":"reports/msft.md"}
]}`

// writeSite lays out a generator output tree and returns its root.
func writeSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"reports/reports.json":   routesCatalog,
		"reports/aapl.md":        "# Apple\n\n| Metric | Value |\n|---|---|\n| EPS | 1.52 |\n",
		"reports/msft.md":        "# Microsoft\n",
		"charts/AAPL_latest.png": "png",
	}
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// newTestApp serves the site from a separate file server so the catalog
// URL is known before the app starts.
func newTestApp(t *testing.T) *app.App {
	t.Helper()

	root := writeSite(t)
	files := httptest.NewServer(http.FileServer(http.Dir(root)))
	t.Cleanup(files.Close)

	cfg := config.NewDefaultConfig()
	cfg.Catalog.URL = files.URL + "/reports/reports.json"
	cfg.Reports.Dir = filepath.Join(root, "reports")
	cfg.Reports.ChartsDir = filepath.Join(root, "charts")

	application, err := app.New(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("failed to create test app: %v", err)
	}

	t.Cleanup(func() {
		application.Close()
	})

	return application
}

func TestRoutes_HealthEndpoint(t *testing.T) {
	srv := New(newTestApp(t))

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
}

func TestRoutes_VersionEndpoint(t *testing.T) {
	srv := New(newTestApp(t))

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/version", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if _, ok := body["version"]; !ok {
		t.Error("expected version field in response")
	}
}

func TestRoutes_CatalogHealthEndpoint(t *testing.T) {
	srv := New(newTestApp(t))

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/catalog-health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoutes_APINotFound(t *testing.T) {
	srv := New(newTestApp(t))

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/nonexistent", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected JSON 404, got %s", w.Header().Get("Content-Type"))
	}
}

func TestRoutes_ViewerPage(t *testing.T) {
	srv := New(newTestApp(t))

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{
		"VIRE REPORTS",
		"viewer.css",
		"Apple Q1",
		"<table>",
		"Last updated: 2026-01-05 09:30",
		`href="/switch/000001.SZ"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected viewer page to contain %q", want)
		}
	}
}

func TestRoutes_SelectThenRender(t *testing.T) {
	srv := New(newTestApp(t))
	handler := srv.Handler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	cookies := w.Result().Cookies()

	req := httptest.NewRequest("GET", "/select/MSFT", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/state", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var state struct {
		Current string `json:"current"`
		View    struct {
			Content string `json:"content"`
		} `json:"view"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if state.Current != "MSFT" {
		t.Errorf("expected MSFT selected, got %s", state.Current)
	}
	if !strings.Contains(state.View.Content, "Microsoft") {
		t.Errorf("expected Microsoft content, got %q", state.View.Content)
	}
}

func TestRoutes_ServesGeneratorOutput(t *testing.T) {
	srv := New(newTestApp(t))

	cases := []struct {
		path string
		want int
	}{
		{"/reports/reports.json", http.StatusOK},
		{"/reports/aapl.md", http.StatusOK},
		{"/charts/AAPL_latest.png", http.StatusOK},
		{"/charts/TSLA_latest.png", http.StatusNotFound},
		{"/static/css/viewer.css", http.StatusOK},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", tc.path, nil))
		if w.Code != tc.want {
			t.Errorf("%s: expected status %d, got %d", tc.path, tc.want, w.Code)
		}
	}
}

func TestRoutes_MetricsEndpoint(t *testing.T) {
	srv := New(newTestApp(t))
	handler := srv.Handler()

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`vire_reports_catalog_loads_total{result="ok"} 1`,
		"vire_reports_active_sessions 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected metrics to contain %q", want)
		}
	}
}

func TestRoutes_MiddlewareApplied(t *testing.T) {
	srv := New(newTestApp(t))

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))

	if w.Header().Get("X-Correlation-ID") == "" {
		t.Error("expected X-Correlation-ID header from middleware")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header from middleware")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected X-Content-Type-Options header from security middleware")
	}
	if w.Header().Get("Content-Security-Policy") == "" {
		t.Error("expected Content-Security-Policy header from security middleware")
	}
}
