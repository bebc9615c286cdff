package viewer

import (
	"context"
	"fmt"

	"github.com/bobmcallan/vire-reports/internal/surface"
)

// ContentSource fetches raw report text.
type ContentSource interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// ContentPresenter loads a report, converts it and swaps it into the
// content container.
type ContentPresenter struct {
	doc        *surface.Document
	addressing Addressing
	source     ContentSource
	converter  Converter
	state      *SelectionState
}

// NewContentPresenter creates a presenter for doc.
func NewContentPresenter(doc *surface.Document, addressing Addressing, source ContentSource, converter Converter, state *SelectionState) *ContentPresenter {
	return &ContentPresenter{
		doc:        doc,
		addressing: addressing,
		source:     source,
		converter:  converter,
		state:      state,
	}
}

// Show fetches and renders entry for the selection identified by token.
// The content container is only written once the whole document has been
// converted, and only if token is still the current selection; otherwise
// ErrStaleSelection is returned and the container is left alone. On any
// failure the previous content stays in place.
func (p *ContentPresenter) Show(ctx context.Context, entry ReportEntry, token Token) error {
	container := p.doc.ElementByID(surface.ContentID)
	if container == nil {
		return &MissingElementError{Selector: "#" + surface.ContentID}
	}

	url := p.addressing.ContentURL(entry)
	if url == "" {
		return fmt.Errorf("report %s has no content location", entry.Symbol)
	}

	text, err := p.source.FetchText(ctx, url)
	if !p.state.IsCurrent(token) {
		return ErrStaleSelection
	}
	if err != nil {
		return err
	}

	markup, err := p.converter.Convert(text, p.addressing.Format)
	if err != nil {
		return err
	}

	if !p.state.CommitIfCurrent(token, func() { container.SetInnerHTML(markup) }) {
		return ErrStaleSelection
	}
	return nil
}
