package viewer

import (
	"context"
	"sync"
)

// Token identifies one selection. Tokens only grow; a result stamped with
// a token that is no longer current belongs to a superseded selection.
type Token uint64

// SelectionState is a session's catalog plus its single active symbol.
type SelectionState struct {
	mu      sync.Mutex
	catalog *Catalog
	symbol  string
	active  bool
	token   Token
	cancel  context.CancelFunc
}

// NewSelectionState creates an empty state with no catalog and no selection.
func NewSelectionState() *SelectionState {
	return &SelectionState{}
}

// Install sets the session catalog. It can only happen once.
func (s *SelectionState) Install(c *Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalog != nil {
		return ErrCatalogInstalled
	}
	s.catalog = c
	return nil
}

// Catalog returns the installed catalog, or nil before load.
func (s *SelectionState) Catalog() *Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// Select makes symbol the active selection without checking the catalog.
// It cancels the previous selection's context and returns the new token
// with a context derived from ctx that lives until the next Select.
func (s *SelectionState) Select(ctx context.Context, symbol string) (Token, context.Context) {
	sctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.token++
	s.symbol = symbol
	s.active = true
	s.cancel = cancel
	return s.token, sctx
}

// Current returns the active symbol, if any.
func (s *SelectionState) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.symbol, s.active
}

// IsCurrent reports whether t is still the latest selection.
func (s *SelectionState) IsCurrent(t Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t == s.token
}

// CommitIfCurrent runs commit only if t is still the latest selection,
// holding the state lock so no newer selection can start in between.
func (s *SelectionState) CommitIfCurrent(t Token, commit func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t != s.token {
		return false
	}
	commit()
	return true
}

// Close cancels the outstanding selection context.
func (s *SelectionState) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
