package viewer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionState_InstallOnce(t *testing.T) {
	s := NewSelectionState()
	assert.Nil(t, s.Catalog())

	cat, _ := NewCatalog([]ReportEntry{{Symbol: "AAPL"}})
	require.NoError(t, s.Install(cat))
	assert.Same(t, cat, s.Catalog())

	other, _ := NewCatalog(nil)
	assert.ErrorIs(t, s.Install(other), ErrCatalogInstalled)
	assert.Same(t, cat, s.Catalog())
}

func TestSelectionState_SelectReplacesPrevious(t *testing.T) {
	s := NewSelectionState()
	_, ok := s.Current()
	assert.False(t, ok)

	t1, ctx1 := s.Select(context.Background(), "AAPL")
	t2, ctx2 := s.Select(context.Background(), "MSFT")

	assert.Greater(t, t2, t1)
	sym, ok := s.Current()
	assert.True(t, ok)
	assert.Equal(t, "MSFT", sym)

	assert.False(t, s.IsCurrent(t1))
	assert.True(t, s.IsCurrent(t2))
	assert.ErrorIs(t, ctx1.Err(), context.Canceled)
	assert.NoError(t, ctx2.Err())

	s.Close()
	assert.ErrorIs(t, ctx2.Err(), context.Canceled)
}

func TestSelectionState_CommitIfCurrent(t *testing.T) {
	s := NewSelectionState()
	old, _ := s.Select(context.Background(), "AAPL")
	cur, _ := s.Select(context.Background(), "AAPL")

	ran := false
	assert.False(t, s.CommitIfCurrent(old, func() { ran = true }))
	assert.False(t, ran)

	assert.True(t, s.CommitIfCurrent(cur, func() { ran = true }))
	assert.True(t, ran)
}
