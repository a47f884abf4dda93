package mktree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "arrow comment", input: "config/ <-- settings folder", expected: "config/"},
		{name: "slash comment", input: "main.py // entry point", expected: "main.py"},
		{name: "hash comment", input: "├── utils/   # helpers", expected: "├── utils/"},
		{name: "html entities", input: "&lt;-- gone\nsrc/", expected: "src/"},
		{name: "parenthetical", input: "app.py (main application)", expected: "app.py"},
		{name: "quoted", input: `README.md "docs"`, expected: "README.md"},
		{name: "blank lines dropped", input: "src/\n\n   \n└── a.txt", expected: "src/\n└── a.txt"},
		{name: "crlf", input: "src/\r\n└── a.txt\r\n", expected: "src/\n└── a.txt"},
		{name: "tree footer", input: "src/\n└── a.txt\n\n1 directory, 1 file", expected: "src/\n└── a.txt"},
		{name: "indentation kept", input: "src/\n    main.py", expected: "src/\n    main.py"},
		{name: "case kept", input: "Assets/\n└── README.MD", expected: "Assets/\n└── README.MD"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	input := "project/ # root\n├── src/ <-- code\n│   └── main.go (entry)\n\n└── go.mod"
	once := Normalize(input)
	assert.Equal(t, once, Normalize(once))
}

func TestCountItems(t *testing.T) {
	text := "src/\n├── components/\n│   └── Button.jsx\n├── index.js\n└── styles/\npackage.json"
	assert.Equal(t, Stats{Folders: 3, Files: 3}, CountItems(text))
	assert.Equal(t, 6, CountItems(text).Total())

	ascii := "src/\n|-- lib/\n|   `-- util.go\n`-- main.go"
	assert.Equal(t, Stats{Folders: 2, Files: 2}, CountItems(ascii))

	assert.Equal(t, Stats{}, CountItems("  \n\n"))
}
