package mktree

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileEmoji(t *testing.T) {
	assert.Equal(t, "🐍", FileEmoji("main.py"))
	assert.Equal(t, "⚛️", FileEmoji("App.TSX"))
	assert.Equal(t, "📦", FileEmoji("dist.tar.gz"))
	assert.Equal(t, "📄", FileEmoji("Makefile.unknown"))
}

func TestBuildPreview(t *testing.T) {
	p := BuildPreview("src/ # code\n├── main.py\n└── Makefile", ParseOptions{}, 0)
	assert.Equal(t, Stats{Folders: 1, Files: 2}, p.Stats)
	assert.Equal(t, []string{"📁 src/", "├── 🐍 main.py", "└── Makefile"}, p.Lines)
	assert.Zero(t, p.More)
	assert.True(t, strings.HasPrefix(p.String(), "📊 Live Preview: 1 folders, 2 files\n"))
}

func TestBuildPreviewLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "file%d.txt\n", i)
	}
	p := BuildPreview(b.String(), ParseOptions{}, PreviewLimit)
	require.Len(t, p.Lines, PreviewLimit)
	assert.Equal(t, 5, p.More)
	assert.Equal(t, 30, p.Stats.Files)
	assert.Contains(t, p.String(), "... 5 more items")
}

func TestBuildPreviewEmpty(t *testing.T) {
	p := BuildPreview("\n  \n", ParseOptions{}, 0)
	assert.Empty(t, p.Lines)
	assert.Contains(t, p.Render(), "Type or paste")
}
