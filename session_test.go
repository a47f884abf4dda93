package mktree

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, dir string) *Session {
	t.Helper()
	s, err := NewSession(dir, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, err)
	return s
}

func TestSessionBuild(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	s := newTestSession(t, base)

	m, err := s.Build("pkg/\n└── doc.go")
	require.NoError(t, err)
	assert.DirExists(t, base)
	assert.FileExists(t, filepath.Join(base, "pkg", "doc.go"))
	assert.Equal(t, base, m.Base)
	assert.False(t, s.Building(base))
}

func TestSessionInputErrors(t *testing.T) {
	base := filepath.Join(t.TempDir(), "never")
	s := newTestSession(t, base)

	for _, text := range []string{"  ", "# note\n// x", "│\n└──"} {
		_, err := s.Build(text)
		assert.ErrorIs(t, err, ErrEmptyStructure, text)
		assert.NoDirExists(t, base, text)
	}

	_, err := s.BuildInto("", "src/")
	assert.ErrorIs(t, err, ErrEmptyBase)
}

func TestSessionRejectsConcurrentBuildIntoSameFolder(t *testing.T) {
	base := t.TempDir()
	s := newTestSession(t, base)

	key := s.key(base)
	require.True(t, s.acquire(key))
	assert.True(t, s.Building(base))

	_, err := s.Build("a.txt")
	assert.True(t, errors.Is(err, ErrBuildInProgress))
	assert.NoFileExists(t, filepath.Join(base, "a.txt"))

	other := t.TempDir()
	_, err = s.BuildInto(other, "a.txt")
	assert.NoError(t, err)

	s.release(key)
	_, err = s.Build("a.txt")
	assert.NoError(t, err)
}

func TestSessionBuildAsync(t *testing.T) {
	base := t.TempDir()
	s := newTestSession(t, base)

	res, ok := <-s.BuildAsync("src/\n└── main.py")
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Equal(t, Stats{Folders: 1, Files: 1}, res.Manifest.Counts())

	_, ok = <-s.BuildAsync("x.txt")
	assert.True(t, ok)
}

func TestSessionRecordsHistory(t *testing.T) {
	base := t.TempDir()
	s := newTestSession(t, base)
	h, err := NewHistory(filepath.Join(t.TempDir(), "history"))
	require.NoError(t, err)
	s.SetHistory(h)

	_, err = s.Build("a/\n└── b.txt")
	require.NoError(t, err)

	s.Options.DryRun = true
	_, err = s.Build("c.txt")
	require.NoError(t, err)

	entries := h.Recent(0)
	require.Len(t, entries, 1)
	folders, files, failed := entries[0].Counts()
	assert.Equal(t, [3]int{1, 1, 0}, [3]int{folders, files, failed})
}

func TestSessionRecoversPanics(t *testing.T) {
	s := newTestSession(t, t.TempDir())
	s.Options.Progress = func(int, int) { panic("boom") }

	_, err := s.Build("a.txt")
	var detailed *DetailedError
	require.ErrorAs(t, err, &detailed)
	assert.Contains(t, detailed.Error(), "boom")
	assert.NotEmpty(t, detailed.Stack)
}
