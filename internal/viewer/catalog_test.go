package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveJSON(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCatalogLoader_Load(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `{"reports":[
		{"symbol":"AAPL","title":"Apple Q1","timestamp":"2026-01-05 09:30:00","url":"r1.md"},
		{"symbol":"MSFT","title":"Microsoft Q1","timestamp":"2026-01-04 09:30:00","url":"r2.md"}
	]}`)

	cat, dropped, err := NewCatalogLoader(srv.URL+"/reports/reports.json", NewFetcher(time.Second)).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, dropped)
	require.Equal(t, 2, cat.Len())

	first, ok := cat.First()
	require.True(t, ok)
	assert.Equal(t, "AAPL", first.Symbol)
	assert.Equal(t, "Apple Q1", first.Title)

	msft, ok := cat.Lookup("MSFT")
	require.True(t, ok)
	assert.Equal(t, "r2.md", msft.URL)
}

func TestCatalogLoader_MissingReportsFieldIsEmpty(t *testing.T) {
	for _, body := range []string{`{}`, `{"generated":"today"}`, `{"reports":null}`} {
		srv := serveJSON(t, http.StatusOK, body)

		cat, _, err := NewCatalogLoader(srv.URL, NewFetcher(time.Second)).Load(context.Background())
		require.NoError(t, err, body)
		assert.Equal(t, 0, cat.Len(), body)
		_, ok := cat.First()
		assert.False(t, ok)
	}
}

func TestCatalogLoader_NonSuccessStatusIsFetchError(t *testing.T) {
	srv := serveJSON(t, http.StatusNotFound, `{"error":"not found"}`)

	_, _, err := NewCatalogLoader(srv.URL, NewFetcher(time.Second)).Load(context.Background())
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.Status)
	assert.Contains(t, err.Error(), "status 404")
}

func TestCatalogLoader_UnreachableIsFetchError(t *testing.T) {
	_, _, err := NewCatalogLoader("http://127.0.0.1:1/reports.json", NewFetcher(time.Second)).Load(context.Background())

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Zero(t, fe.Status)
}

func TestCatalogLoader_BadShapeIsParseError(t *testing.T) {
	for _, body := range []string{
		`not json`,
		`[{"symbol":"AAPL"}]`,
		`null`,
		`{"reports":"AAPL"}`,
		`{"reports":[{"symbol":42}]}`,
	} {
		srv := serveJSON(t, http.StatusOK, body)

		_, _, err := NewCatalogLoader(srv.URL, NewFetcher(time.Second)).Load(context.Background())
		var pe *ParseError
		assert.True(t, errors.As(err, &pe), "body %q: expected ParseError, got %v", body, err)
	}
}

func TestNewCatalog_DropsDuplicatesAndBlankSymbols(t *testing.T) {
	cat, dropped := NewCatalog([]ReportEntry{
		{Symbol: "AAPL", Title: "first"},
		{Symbol: ""},
		{Symbol: "TSLA"},
		{Symbol: "AAPL", Title: "second"},
	})

	require.Equal(t, 2, cat.Len())
	assert.Equal(t, []string{"", "AAPL"}, dropped)

	aapl, _ := cat.Lookup("AAPL")
	assert.Equal(t, "first", aapl.Title)
	assert.Equal(t, []string{"AAPL", "TSLA"}, []string{cat.Entries()[0].Symbol, cat.Entries()[1].Symbol})
}

func TestCatalog_NilIsEmpty(t *testing.T) {
	var cat *Catalog
	assert.Equal(t, 0, cat.Len())
	assert.Nil(t, cat.Entries())
	_, ok := cat.Lookup("AAPL")
	assert.False(t, ok)
}

func TestCatalog_EntriesIsACopy(t *testing.T) {
	cat, _ := NewCatalog([]ReportEntry{{Symbol: "AAPL"}})
	entries := cat.Entries()
	entries[0].Symbol = "MUTATED"

	first, _ := cat.First()
	assert.Equal(t, "AAPL", first.Symbol)
}

func TestTimestamp_StringOrNumber(t *testing.T) {
	var e struct {
		A Timestamp `json:"a"`
		B Timestamp `json:"b"`
		C Timestamp `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"20260105_093000","b":1767605400,"c":null}`), &e))

	assert.Equal(t, Timestamp("20260105_093000"), e.A)
	assert.Equal(t, Timestamp("1767605400"), e.B)
	assert.Equal(t, Timestamp(""), e.C)

	ts, ok := e.A.Time()
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC), ts)

	ts, ok = e.B.Time()
	require.True(t, ok)
	assert.Equal(t, int64(1767605400), ts.Unix())
}

func TestTimestamp_Display(t *testing.T) {
	assert.Equal(t, "2026-01-05 09:30", Timestamp("2026-01-05T09:30:00Z").Display())
	assert.Equal(t, "yesterday", Timestamp("yesterday").Display())
}

func TestFetcher_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher(5*time.Second).FetchText(ctx, srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFetcher_OversizedBodyIsFetchError(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, strings.Repeat("a", maxBodyBytes)+"END")

	_, err := NewFetcher(5*time.Second).FetchText(context.Background(), srv.URL)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.ErrorIs(t, err, ErrResponseTooLarge)
	assert.Zero(t, fe.Status)
}

func TestFetcher_BodyAtLimitIsAccepted(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, strings.Repeat("a", maxBodyBytes))

	text, err := NewFetcher(5*time.Second).FetchText(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, text, maxBodyBytes)
}
