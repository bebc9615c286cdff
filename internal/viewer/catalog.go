package viewer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// maxBodyBytes caps catalog and report downloads.
const maxBodyBytes = 8 << 20

// Timestamp is the generation time as the generator wrote it. The catalog
// may carry it as a string or as Unix seconds.
type Timestamp string

// UnmarshalJSON accepts a JSON string or number.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Timestamp(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("timestamp must be a string or number: %w", err)
	}
	*t = Timestamp(n.String())
	return nil
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"20060102_150405",
	"2006-01-02",
}

// Time parses the timestamp. Numbers are read as Unix seconds.
func (t Timestamp) Time() (time.Time, bool) {
	s := string(t)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), true
	}
	return time.Time{}, false
}

// Display formats the timestamp for the last-update line, falling back to
// the raw value when it cannot be parsed.
func (t Timestamp) Display() string {
	if ts, ok := t.Time(); ok {
		return ts.Format("2006-01-02 15:04")
	}
	return string(t)
}

// ReportEntry is one generated report in the catalog.
type ReportEntry struct {
	Symbol    string    `json:"symbol"`
	Title     string    `json:"title,omitempty"`
	Timestamp Timestamp `json:"timestamp,omitempty"`
	URL       string    `json:"url,omitempty"`
	Filename  string    `json:"filename,omitempty"`
	Period    string    `json:"period,omitempty"`
	Chart     string    `json:"chart,omitempty"`
}

// Catalog is the ordered, read-only list of reports for a session.
// Symbols are unique; the first entry is the default selection.
type Catalog struct {
	entries []ReportEntry
	index   map[string]int
}

// NewCatalog builds a catalog from entries in order. Entries without a
// symbol and repeats of an earlier symbol are dropped; their symbols (or
// "" for missing ones) are returned so the caller can log them.
func NewCatalog(entries []ReportEntry) (*Catalog, []string) {
	c := &Catalog{index: make(map[string]int, len(entries))}
	var dropped []string
	for _, e := range entries {
		if e.Symbol == "" {
			dropped = append(dropped, "")
			continue
		}
		if _, dup := c.index[e.Symbol]; dup {
			dropped = append(dropped, e.Symbol)
			continue
		}
		c.index[e.Symbol] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, dropped
}

// Len returns the number of entries. A nil catalog is empty.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []ReportEntry {
	if c == nil {
		return nil
	}
	out := make([]ReportEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// First returns the default selection.
func (c *Catalog) First() (ReportEntry, bool) {
	if c.Len() == 0 {
		return ReportEntry{}, false
	}
	return c.entries[0], true
}

// Lookup finds the entry for symbol.
func (c *Catalog) Lookup(symbol string) (ReportEntry, bool) {
	if c == nil {
		return ReportEntry{}, false
	}
	i, ok := c.index[symbol]
	if !ok {
		return ReportEntry{}, false
	}
	return c.entries[i], true
}

// Fetcher performs the GET requests behind catalog and report loading.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher with the given client timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// NewFetcherWithClient creates a fetcher around an existing client.
func NewFetcherWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch GETs url and returns the body. Any failure, including a non-2xx
// status or a body over maxBodyBytes, is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if len(body) > maxBodyBytes {
		return nil, &FetchError{URL: url, Err: ErrResponseTooLarge}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, Status: resp.StatusCode}
	}
	return body, nil
}

// FetchText GETs url and returns the body as text.
func (f *Fetcher) FetchText(ctx context.Context, url string) (string, error) {
	body, err := f.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// CatalogLoader fetches and decodes the report catalog.
type CatalogLoader struct {
	url     string
	fetcher *Fetcher
}

// NewCatalogLoader creates a loader for the catalog at url.
func NewCatalogLoader(url string, fetcher *Fetcher) *CatalogLoader {
	return &CatalogLoader{url: url, fetcher: fetcher}
}

// URL returns the catalog location.
func (l *CatalogLoader) URL() string { return l.url }

// Load fetches the catalog. A response without a "reports" field is an
// empty catalog. A body that is not a JSON object, or whose "reports" is
// not a list of entries, is a *ParseError.
func (l *CatalogLoader) Load(ctx context.Context) (*Catalog, []string, error) {
	body, err := l.fetcher.Fetch(ctx, l.url)
	if err != nil {
		return nil, nil, err
	}

	entries, err := decodeCatalog(body)
	if err != nil {
		return nil, nil, &ParseError{URL: l.url, Err: err}
	}

	cat, dropped := NewCatalog(entries)
	return cat, dropped, nil
}

func decodeCatalog(body []byte) ([]ReportEntry, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("catalog is not a JSON object")
	}

	raw, ok := doc["reports"]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return nil, nil
	}

	var entries []ReportEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("reports: %w", err)
	}
	return entries, nil
}
