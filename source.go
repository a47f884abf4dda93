package mktree

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// SourceProvider reads structure text from a named file, "-" for stdin,
// a stdin pipe, or the clipboard, in that order of preference.
type SourceProvider struct {
	Path  string
	Stdin io.Reader
}

func NewSourceProvider(path string) *SourceProvider {
	return &SourceProvider{Path: path, Stdin: os.Stdin}
}

func (sp *SourceProvider) GetContent() (string, error) {
	switch sp.Path {
	case "":
	case "-":
		return sp.readStdin()
	default:
		c, err := os.ReadFile(sp.Path)
		if err != nil {
			return "", fmt.Errorf("read structure: %w", err)
		}
		return string(c), nil
	}

	if f, ok := sp.Stdin.(*os.File); ok {
		stat, err := f.Stat()
		if err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
			return sp.readStdin()
		}
	} else if sp.Stdin != nil {
		return sp.readStdin()
	}

	c, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return strings.TrimSpace(c), nil
}

func (sp *SourceProvider) readStdin() (string, error) {
	c, err := io.ReadAll(sp.Stdin)
	if err != nil {
		return "", err
	}
	return string(c), nil
}

// CopyToClipboard puts text on the system clipboard.
func CopyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}
