package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/vire-reports/internal/viewer"
)

// Library reads reports for tool calls. The catalog is fetched on every
// call so tools always see the generator's latest output.
type Library struct {
	catalog    viewer.CatalogSource
	content    viewer.ContentSource
	addressing viewer.Addressing
	converter  viewer.Converter
}

// NewLibrary creates a Library. A nil converter uses Markdown.
func NewLibrary(catalog viewer.CatalogSource, content viewer.ContentSource, addressing viewer.Addressing, converter viewer.Converter) *Library {
	if converter == nil {
		converter = viewer.NewMarkdownConverter()
	}
	return &Library{catalog: catalog, content: content, addressing: addressing, converter: converter}
}

// reportSummary is one list_reports row.
type reportSummary struct {
	Symbol     string `json:"symbol"`
	Label      string `json:"label"`
	Timestamp  string `json:"timestamp,omitempty"`
	ContentURL string `json:"content_url"`
	ChartURL   string `json:"chart_url,omitempty"`
}

// ListReportsTool returns the mcp.Tool definition for list_reports.
func ListReportsTool() mcp.Tool {
	return mcp.NewTool("list_reports",
		mcp.WithDescription("List the generated stock reports, newest catalog order first. Returns symbol, label, timestamp and report/chart locations."),
	)
}

// ListReportsHandler lists the catalog.
func ListReportsHandler(lib *Library) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cat, _, err := lib.catalog.Load(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("failed to load report catalog: %v", err)), nil
		}

		rows := make([]reportSummary, 0, cat.Len())
		for _, e := range cat.Entries() {
			rows = append(rows, reportSummary{
				Symbol:     e.Symbol,
				Label:      lib.addressing.Label(e),
				Timestamp:  string(e.Timestamp),
				ContentURL: lib.addressing.ContentURL(e),
				ChartURL:   lib.addressing.ChartURL(e),
			})
		}
		return jsonResult(map[string]any{"reports": rows}), nil
	}
}

// GetReportTool returns the mcp.Tool definition for get_report.
func GetReportTool() mcp.Tool {
	return mcp.NewTool("get_report",
		mcp.WithDescription("Get the content of one stock report by symbol."),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Ticker symbol as listed by list_reports, e.g. AAPL or 000001.SZ"),
		),
		mcp.WithString("format",
			mcp.Description("raw (as generated, default) or html"),
			mcp.Enum("raw", "html"),
		),
	)
}

// GetReportHandler fetches one report.
func GetReportHandler(lib *Library) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol := r.GetString("symbol", "")
		if symbol == "" {
			return errorResult("symbol is required"), nil
		}
		format := r.GetString("format", "raw")
		if format != "raw" && format != "html" {
			return errorResult(fmt.Sprintf("unknown format %q", format)), nil
		}

		cat, _, err := lib.catalog.Load(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("failed to load report catalog: %v", err)), nil
		}
		entry, ok := cat.Lookup(symbol)
		if !ok {
			return errorResult(fmt.Sprintf("no report for symbol %s", symbol)), nil
		}

		text, err := lib.content.FetchText(ctx, lib.addressing.ContentURL(entry))
		if err != nil {
			return errorResult(fmt.Sprintf("failed to load report %s: %v", symbol, err)), nil
		}
		if format == "html" {
			if text, err = lib.converter.Convert(text, lib.addressing.Format); err != nil {
				return errorResult(fmt.Sprintf("failed to convert report %s: %v", symbol, err)), nil
			}
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(text)},
		}, nil
	}
}

// RegisterTools adds every report tool to s and returns how many were added.
func RegisterTools(s *server.MCPServer, lib *Library) int {
	s.AddTool(ListReportsTool(), ListReportsHandler(lib))
	s.AddTool(GetReportTool(), GetReportHandler(lib))
	s.AddTool(VersionTool(), VersionToolHandler())
	return 3
}
