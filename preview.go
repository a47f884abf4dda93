package mktree

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const PreviewLimit = 25

var emojiByExt = map[string]string{
	"js": "🟨", "jsx": "⚛️", "ts": "🔷", "tsx": "⚛️",
	"py": "🐍", "java": "☕", "cpp": "⚙️", "c": "⚙️",
	"html": "🌐", "css": "🎨", "scss": "🎨", "sass": "🎨",
	"json": "📋", "xml": "📋", "yml": "⚙️", "yaml": "⚙️",
	"md": "📝", "txt": "📄", "pdf": "📕",
	"png": "🖼️", "jpg": "🖼️", "jpeg": "🖼️", "gif": "🖼️",
	"mp4": "🎬", "mp3": "🎵", "wav": "🎵",
	"zip": "📦", "tar": "📦", "gz": "📦",
}

// FileEmoji picks an icon from the file extension.
func FileEmoji(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if e, ok := emojiByExt[ext]; ok {
		return e
	}
	return "📄"
}

// Preview is the live view of structure text before it is built.
type Preview struct {
	Stats Stats
	Lines []string
	// More counts lines left out after the limit.
	More int
}

// BuildPreview counts the entries of text and decorates up to limit
// normalized lines with folder and file icons. The tree drawing is kept.
func BuildPreview(text string, opts ParseOptions, limit int) Preview {
	if limit <= 0 {
		limit = PreviewLimit
	}
	p := Preview{Stats: CountItems(text)}
	normalized := Normalize(text)
	if normalized == "" {
		return p
	}

	lines := strings.Split(normalized, "\n")
	enc := DetectEncoding(lines)
	width := opts.indentWidth()
	for i, line := range lines {
		if i == limit {
			p.More = len(lines) - limit
			break
		}
		var rest string
		if enc == EncodingConnector {
			_, rest = connectorDepth(line, width)
		} else {
			_, rest = indentDepth(line, width)
		}
		p.Lines = append(p.Lines, decorate(line, cleanName(rest)))
	}
	return p
}

func decorate(line, name string) string {
	if name == "" {
		return line
	}
	var icon string
	switch {
	case strings.HasSuffix(name, "/"):
		icon = "📁"
	case strings.Contains(name, "."):
		icon = FileEmoji(name)
	default:
		return line
	}
	idx := strings.LastIndex(line, strings.TrimRight(name, "/"))
	if idx < 0 {
		return line
	}
	return line[:idx] + icon + " " + line[idx:]
}

var (
	previewBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	counterStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
)

// Header is the counter line shown above the tree.
func (p Preview) Header() string {
	return fmt.Sprintf("📊 Live Preview: %d folders, %d files", p.Stats.Folders, p.Stats.Files)
}

func (p Preview) String() string {
	var b strings.Builder
	b.WriteString(p.Header() + "\n")
	b.WriteString(strings.Repeat("─", 40) + "\n")
	for _, l := range p.Lines {
		b.WriteString(l + "\n")
	}
	if p.More > 0 {
		fmt.Fprintf(&b, "\n... %d more items\n", p.More)
	}
	return b.String()
}

// Render draws the preview in a bordered box.
func (p Preview) Render() string {
	body := strings.Join(p.Lines, "\n")
	if p.More > 0 {
		body += mutedStyle.Render(fmt.Sprintf("\n\n... %d more items", p.More))
	}
	if body == "" {
		body = mutedStyle.Render("Type or paste a structure to see it here.")
	}
	counters := counterStyle.Render(fmt.Sprintf("📁 %d  📄 %d", p.Stats.Folders, p.Stats.Files))
	return previewBox.Render(counters + "\n\n" + body)
}
