package mktree

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "history.mktree")
	h, err := NewHistory(path)
	require.NoError(t, err)
	assert.Empty(t, h.Recent(5))

	require.NoError(t, h.Record(Manifest{Base: "/tmp/one", Items: []Item{
		{Kind: KindFolder, Name: "src", Path: "/tmp/one/src"},
		{Kind: KindFile, Name: "a.go", Path: "/tmp/one/src/a.go", Err: errors.New("permission\ndenied")},
	}}))
	require.NoError(t, h.Record(Manifest{Base: "/tmp/two"}))

	reloaded, err := NewHistory(path)
	require.NoError(t, err)
	entries := reloaded.Recent(0)
	require.Len(t, entries, 2)

	assert.Equal(t, "/tmp/two", entries[0].Base)
	assert.Equal(t, "/tmp/one", entries[1].Base)
	require.Len(t, entries[1].Records, 2)
	assert.Equal(t, Record{Kind: KindFolder, Path: "/tmp/one/src"}, entries[1].Records[0])
	assert.Equal(t, "permission denied", entries[1].Records[1].Err)
	assert.NotZero(t, entries[1].Timestamp)

	assert.Len(t, reloaded.Recent(1), 1)
}

func TestHistoryLimit(t *testing.T) {
	h, err := NewHistory(filepath.Join(t.TempDir(), "h"))
	require.NoError(t, err)
	h.limit = 3

	for _, base := range []string{"a", "b", "c", "d"} {
		require.NoError(t, h.Record(Manifest{Base: base}))
	}
	var bases []string
	for _, e := range h.Recent(0) {
		bases = append(bases, e.Base)
	}
	assert.Equal(t, []string{"d", "c", "b"}, bases)
}
