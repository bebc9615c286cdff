package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteRoot(t *testing.T) {
	base, err := SiteRoot("http://example.com:8080/reports/reports.json?x=1")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com:8080/", base.String())
}

func TestManifestScheme(t *testing.T) {
	a, err := NewAddressing(SchemeManifest, "http://host/reports/reports.json", "", "")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, a.Format)

	entry := ReportEntry{Symbol: "AAPL", Title: "Apple Q1", URL: "r1.md"}
	assert.Equal(t, "Apple Q1", a.Label(entry))
	assert.Equal(t, "http://host/r1.md", a.ContentURL(entry))
	assert.Equal(t, "http://host/charts/AAPL_latest.png", a.ChartURL(entry))

	assert.Equal(t, "MSFT", a.Label(ReportEntry{Symbol: "MSFT"}))
}

func TestManifestScheme_ContentFallbacks(t *testing.T) {
	a, err := NewAddressing(SchemeManifest, "http://host/reports.json", "", "")
	require.NoError(t, err)

	assert.Equal(t, "http://host/reports/aapl_2026.md", a.ContentURL(ReportEntry{Symbol: "AAPL", Filename: "aapl_2026.md"}))
	assert.Equal(t, "", a.ContentURL(ReportEntry{Symbol: "AAPL"}))
	assert.Equal(t, "https://cdn.test/a.md", a.ContentURL(ReportEntry{Symbol: "AAPL", URL: "https://cdn.test/a.md"}))

	patterned, err := NewAddressing(SchemeManifest, "http://host/reports.json", "md/{symbol}.md", "img/{symbol}.svg")
	require.NoError(t, err)
	assert.Equal(t, "http://host/md/TSLA.md", patterned.ContentURL(ReportEntry{Symbol: "TSLA"}))
	assert.Equal(t, "http://host/img/TSLA.svg", patterned.ChartURL(ReportEntry{Symbol: "TSLA"}))
	assert.Equal(t, "http://host/own.png", patterned.ChartURL(ReportEntry{Symbol: "TSLA", Chart: "/own.png"}))
}

func TestLatestScheme(t *testing.T) {
	a, err := NewAddressing(SchemeLatest, "http://host/reports/reports.json", "", "")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, a.Format)

	entry := ReportEntry{Symbol: "000001.SZ", Period: "1Y"}
	assert.Equal(t, "000001.SZ (1Y)", a.Label(entry))
	assert.Equal(t, "http://host/reports/000001.SZ_report_latest.html", a.ContentURL(entry))
	assert.Equal(t, "http://host/charts/000001.SZ_latest.png", a.ChartURL(entry))
	assert.Equal(t, "TSLA", a.Label(ReportEntry{Symbol: "TSLA"}))
}

func TestNewAddressing_UnknownScheme(t *testing.T) {
	_, err := NewAddressing("weekly", "http://host/reports.json", "", "")
	assert.Error(t, err)
}

func TestExpandPattern_EscapesSegments(t *testing.T) {
	got := expandPattern("reports/{symbol}_{period}.md", ReportEntry{Symbol: "BRK B", Period: "1/2"})
	assert.Equal(t, "reports/BRK%20B_1%2F2.md", got)
}
