package viewer

import (
	"errors"
	"fmt"
)

// ErrStaleSelection is returned when a report finished loading after a
// newer selection replaced it. The result is dropped, not shown.
var ErrStaleSelection = errors.New("selection superseded by a newer one")

// ErrCatalogInstalled is returned when a second catalog is installed into
// a session that already has one.
var ErrCatalogInstalled = errors.New("catalog already installed")

// ErrResponseTooLarge is wrapped by a FetchError when a body exceeds the
// download limit. The partial body is discarded.
var ErrResponseTooLarge = errors.New("response exceeds size limit")

// FetchError reports a failed HTTP request: a transport error or a
// non-2xx status.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a catalog response that is not the expected JSON shape.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingElementError reports that a required page region is absent.
type MissingElementError struct {
	Selector string
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("required element %s not found", e.Selector)
}
