package mktree

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorGenerate(t *testing.T) {
	e := NewEditor(newTestSession(t, t.TempDir()), NewSelector(nil, false), ParseOptions{})
	e.description.SetValue("unity game")

	model, _ := e.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	e = model.(Editor)
	assert.True(t, strings.HasPrefix(e.structure.Value(), "Assets/"))
	assert.Greater(t, e.preview.Stats.Folders, 0)
	assert.Contains(t, e.status, "Game Project")
}

func TestEditorBuild(t *testing.T) {
	base := filepath.Join(t.TempDir(), "proj")
	e := NewEditor(newTestSession(t, base), NewSelector(nil, false), ParseOptions{})
	e.structure.SetValue("src/\n└── main.py")

	model, cmd := e.startBuild()
	e = model.(Editor)
	require.NotNil(t, cmd)
	assert.True(t, e.building)

	again, again2 := e.startBuild()
	assert.Nil(t, again2)
	assert.True(t, again.(Editor).building)

	m, err := e.session.BuildInto(base, e.structure.Value())
	require.NoError(t, err)
	model, _ = e.Update(buildResultMsg{manifest: m})
	e = model.(Editor)
	assert.False(t, e.building)
	assert.True(t, e.Built())
	assert.Equal(t, "Built 1 folders and 1 files", e.status)
	assert.FileExists(t, filepath.Join(base, "src", "main.py"))
}

func TestEditorBuildNeedsInput(t *testing.T) {
	e := NewEditor(newTestSession(t, t.TempDir()), NewSelector(nil, false), ParseOptions{})
	model, cmd := e.startBuild()
	assert.Nil(t, cmd)
	assert.Contains(t, model.(Editor).status, "empty")
}

func TestBuildStatus(t *testing.T) {
	assert.Equal(t, "A build is already running for this folder", buildStatus(Manifest{}, ErrBuildInProgress))
	assert.Equal(t, "Build failed: boom", buildStatus(Manifest{}, errors.New("boom")))
	m := Manifest{Items: []Item{{Kind: KindFile, Err: errors.New("x")}, {Kind: KindFolder}}}
	assert.Equal(t, "Built 1 folders and 0 files, 1 failed", buildStatus(m, nil))
}
