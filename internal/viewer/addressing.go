package viewer

import (
	"fmt"
	"net/url"
	"strings"
)

// ContentFormat says how report content must be converted before display.
type ContentFormat int

const (
	// FormatMarkdown content goes through the Markdown converter.
	FormatMarkdown ContentFormat = iota
	// FormatHTML content is pre-rendered and shown as is.
	FormatHTML
)

func (f ContentFormat) String() string {
	if f == FormatHTML {
		return "html"
	}
	return "markdown"
}

// Scheme names accepted by NewAddressing.
const (
	SchemeManifest = "manifest"
	SchemeLatest   = "latest"
)

const (
	defaultChartPattern  = "charts/{symbol}_latest.png"
	latestContentPattern = "reports/{symbol}_report_latest.html"
)

// Addressing maps a catalog entry to its label, content location and chart
// location. Relative locations resolve against Base.
type Addressing struct {
	Name        string
	Format      ContentFormat
	Base        *url.URL
	Label       func(ReportEntry) string
	ContentPath func(ReportEntry) string
	ChartPath   func(ReportEntry) string
}

// ContentURL returns the absolute content location for e.
func (a Addressing) ContentURL(e ReportEntry) string {
	return a.resolve(a.ContentPath(e))
}

// ChartURL returns the absolute chart image location for e, or "" when the
// entry has no chart.
func (a Addressing) ChartURL(e ReportEntry) string {
	if a.ChartPath == nil {
		return ""
	}
	p := a.ChartPath(e)
	if p == "" {
		return ""
	}
	return a.resolve(p)
}

func (a Addressing) resolve(ref string) string {
	if a.Base == nil || ref == "" {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return a.Base.ResolveReference(u).String()
}

// SiteRoot returns the origin of rawURL with path "/", the base that
// relative report locators resolve against.
func SiteRoot(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog url %q: %w", rawURL, err)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}, nil
}

// ManifestScheme addresses reports by the catalog's own url field and
// labels them by title. Entries without a url fall back to contentPattern
// (or reports/{filename}). Charts come from the entry's chart field or
// chartPattern.
func ManifestScheme(base *url.URL, contentPattern, chartPattern string) Addressing {
	if chartPattern == "" {
		chartPattern = defaultChartPattern
	}
	return Addressing{
		Name:   SchemeManifest,
		Format: FormatMarkdown,
		Base:   base,
		Label: func(e ReportEntry) string {
			if e.Title != "" {
				return e.Title
			}
			return e.Symbol
		},
		ContentPath: func(e ReportEntry) string {
			switch {
			case e.URL != "":
				return e.URL
			case contentPattern != "":
				return expandPattern(contentPattern, e)
			case e.Filename != "":
				return "reports/" + url.PathEscape(e.Filename)
			}
			return ""
		},
		ChartPath: func(e ReportEntry) string {
			if e.Chart != "" {
				return e.Chart
			}
			return expandPattern(chartPattern, e)
		},
	}
}

// LatestScheme addresses each symbol's most recent pre-rendered HTML
// report and chart by naming convention, labelled "SYMBOL (period)".
func LatestScheme(base *url.URL, contentPattern, chartPattern string) Addressing {
	if contentPattern == "" {
		contentPattern = latestContentPattern
	}
	if chartPattern == "" {
		chartPattern = defaultChartPattern
	}
	return Addressing{
		Name:   SchemeLatest,
		Format: FormatHTML,
		Base:   base,
		Label: func(e ReportEntry) string {
			if e.Period == "" {
				return e.Symbol
			}
			return fmt.Sprintf("%s (%s)", e.Symbol, e.Period)
		},
		ContentPath: func(e ReportEntry) string {
			return expandPattern(contentPattern, e)
		},
		ChartPath: func(e ReportEntry) string {
			return expandPattern(chartPattern, e)
		},
	}
}

// NewAddressing builds the named scheme with relative locators resolved
// against the site root of catalogURL.
func NewAddressing(scheme, catalogURL, contentPattern, chartPattern string) (Addressing, error) {
	base, err := SiteRoot(catalogURL)
	if err != nil {
		return Addressing{}, err
	}
	switch scheme {
	case SchemeManifest, "":
		return ManifestScheme(base, contentPattern, chartPattern), nil
	case SchemeLatest:
		return LatestScheme(base, contentPattern, chartPattern), nil
	}
	return Addressing{}, fmt.Errorf("unknown addressing scheme %q", scheme)
}

// expandPattern substitutes {symbol}, {period} and {filename}.
func expandPattern(pattern string, e ReportEntry) string {
	return strings.NewReplacer(
		"{symbol}", url.PathEscape(e.Symbol),
		"{period}", url.PathEscape(e.Period),
		"{filename}", url.PathEscape(e.Filename),
	).Replace(pattern)
}
