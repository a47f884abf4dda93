package mktree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entryShape struct {
	Name  string
	Depth int
}

func shapes(entries []Entry) []entryShape {
	out := make([]entryShape, len(entries))
	for i, e := range entries {
		out[i] = entryShape{Name: e.Name, Depth: e.Depth}
	}
	return out
}

func TestParseConnectorDepth(t *testing.T) {
	entries := Parse("a/\n├── b/\n│   └── c.txt\n└── d/", ParseOptions{})
	assert.Equal(t, []entryShape{
		{"a/", 0},
		{"b/", 1},
		{"c.txt", 2},
		{"d/", 1},
	}, shapes(entries))
	assert.True(t, entries[0].IsDir)
	assert.False(t, entries[2].IsDir)
}

func TestParseBlankColumnsUnderLastChild(t *testing.T) {
	text := "src/\n└── assets/\n    ├── images/\n    └── fonts/\nandroid/"
	assert.Equal(t, []entryShape{
		{"src/", 0},
		{"assets/", 1},
		{"images/", 2},
		{"fonts/", 2},
		{"android/", 0},
	}, shapes(Parse(text, ParseOptions{})))
}

func TestParseIndentedBlock(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []entryShape
	}{
		{
			name:     "connectors",
			input:    "    src/\n    ├── a/\n    │   └── b.txt\n    └── c.txt",
			expected: []entryShape{{"src/", 0}, {"a/", 1}, {"b.txt", 2}, {"c.txt", 1}},
		},
		{
			name:     "blank column under last child",
			input:    "  src/\n  └── assets/\n      └── logo.png\n  docs/",
			expected: []entryShape{{"src/", 0}, {"assets/", 1}, {"logo.png", 2}, {"docs/", 0}},
		},
		{
			name:     "tabs",
			input:    "\tsrc/\n\t├── a.txt\n\t└── b.txt",
			expected: []entryShape{{"src/", 0}, {"a.txt", 1}, {"b.txt", 1}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, shapes(Parse(tc.input, ParseOptions{})))
		})
	}
}

func TestParseDeepConnectors(t *testing.T) {
	text := "src/\n├── main/\n│   ├── java/\n│   │   └── com/\n│   │       └── App.java\n│   └── resources/\n└── test/"
	assert.Equal(t, []entryShape{
		{"src/", 0},
		{"main/", 1},
		{"java/", 2},
		{"com/", 3},
		{"App.java", 4},
		{"resources/", 2},
		{"test/", 1},
	}, shapes(Parse(text, ParseOptions{})))
}

func TestParseASCIIConnectors(t *testing.T) {
	text := "root/\n|-- lib/\n|   `-- util.go\n+-- -notes.md\n`-- main.go"
	assert.Equal(t, []entryShape{
		{"root/", 0},
		{"lib/", 1},
		{"util.go", 2},
		{"-notes.md", 1},
		{"main.go", 1},
	}, shapes(Parse(text, ParseOptions{})))
}

func TestParseIndentation(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		opts     ParseOptions
		expected []entryShape
	}{
		{
			name:     "four spaces",
			input:    "src/\n    main.py\n    utils/\n        io.py\nREADME.md",
			expected: []entryShape{{"src/", 0}, {"main.py", 1}, {"utils/", 1}, {"io.py", 2}, {"README.md", 0}},
		},
		{
			name:     "tabs count as one level",
			input:    "src/\n\tmain.py\n\tpkg/\n\t\tmod.py",
			expected: []entryShape{{"src/", 0}, {"main.py", 1}, {"pkg/", 1}, {"mod.py", 2}},
		},
		{
			name:     "custom width",
			input:    "src/\n  a.go\n  b/\n    c.go",
			opts:     ParseOptions{IndentWidth: 2},
			expected: []entryShape{{"src/", 0}, {"a.go", 1}, {"b/", 1}, {"c.go", 2}},
		},
		{
			name:     "jump is clamped",
			input:    "src/\n            deep.txt",
			expected: []entryShape{{"src/", 0}, {"deep.txt", 1}},
		},
		{
			name:     "first entry is depth zero",
			input:    "    lonely/\n        child.txt",
			expected: []entryShape{{"lonely/", 0}, {"child.txt", 1}},
		},
		{
			name:     "dash prefix kept",
			input:    "-notes.md",
			expected: []entryShape{{"-notes.md", 0}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, shapes(Parse(tc.input, tc.opts)))
		})
	}
}

func TestParseSkipsDecorationOnlyLines(t *testing.T) {
	entries := Parse("src/\n│\n├── a.txt\n│   \n└── b.txt", ParseOptions{})
	require.Len(t, entries, 3)
	assert.Equal(t, "b.txt", entries[2].Name)
}

func TestParseNormalizesFolderMarker(t *testing.T) {
	entries := Parse("src /\n└── lib//", ParseOptions{})
	require.Len(t, entries, 2)
	assert.Equal(t, "src/", entries[0].Name)
	assert.True(t, entries[0].IsDir)
	// "//" starts a comment, so lib is left without a folder marker
	assert.Equal(t, "lib", entries[1].Name)
	assert.False(t, entries[1].IsDir)
}

func TestParseInferDirs(t *testing.T) {
	entries := Parse("src\n    main.go\nMakefile", ParseOptions{InferDirs: true})
	require.Len(t, entries, 3)
	assert.Equal(t, "src/", entries[0].Name)
	assert.True(t, entries[0].IsDir)
	assert.False(t, entries[2].IsDir)
}

func TestDetectEncoding(t *testing.T) {
	assert.Equal(t, EncodingConnector, DetectEncoding([]string{"src/", "└── a"}))
	assert.Equal(t, EncodingConnector, DetectEncoding([]string{"src/", "|   `-- a"}))
	assert.Equal(t, EncodingIndent, DetectEncoding([]string{"src/", "    a", "|pipe.txt"}))
	assert.Equal(t, "connector", EncodingConnector.String())
}
