package mktree

import (
	"strings"
	"unicode/utf8"
)

const DefaultIndentWidth = 4

// Encoding is the nesting notation a block of structure text uses.
type Encoding int

const (
	EncodingIndent Encoding = iota
	EncodingConnector
)

func (e Encoding) String() string {
	if e == EncodingConnector {
		return "connector"
	}
	return "indent"
}

// Entry is one cleaned node of the described hierarchy.
type Entry struct {
	Name  string
	Depth int
	IsDir bool
	Line  int
}

type ParseOptions struct {
	// IndentWidth is the number of columns per level for indentation input.
	// Zero means DefaultIndentWidth.
	IndentWidth int
	// InferDirs treats an entry as a folder when the next entry is nested
	// under it, even without a trailing slash.
	InferDirs bool
}

func (o ParseOptions) indentWidth() int {
	if o.IndentWidth <= 0 {
		return DefaultIndentWidth
	}
	return o.IndentWidth
}

// Parse normalizes text and turns each retained line into an Entry.
// Lines that clean down to nothing are skipped. Depth is clamped so it never
// grows by more than one level from the previous entry.
func Parse(text string, opts ParseOptions) []Entry {
	lines := dedent(strings.Split(Normalize(text), "\n"))
	enc := DetectEncoding(lines)
	width := opts.indentWidth()

	entries := make([]Entry, 0, len(lines))
	for i, line := range lines {
		var depth int
		var rest string
		if enc == EncodingConnector {
			depth, rest = connectorDepth(line, width)
		} else {
			depth, rest = indentDepth(line, width)
		}

		name := cleanName(rest)
		if name == "" || name == "/" {
			continue
		}

		if len(entries) == 0 {
			depth = 0
		} else if prev := entries[len(entries)-1].Depth; depth > prev+1 {
			depth = prev + 1
		}

		entries = append(entries, Entry{
			Name:  name,
			Depth: depth,
			IsDir: strings.HasSuffix(name, "/"),
			Line:  i + 1,
		})
	}

	if opts.InferDirs {
		for i := range entries {
			if !entries[i].IsDir && i+1 < len(entries) && entries[i+1].Depth > entries[i].Depth {
				entries[i].IsDir = true
				entries[i].Name += "/"
			}
		}
	}
	return entries
}

// dedent removes the leading whitespace every line shares, so a tree pasted
// as an indented block nests the same as one starting at column zero.
func dedent(lines []string) []string {
	common := -1
	for _, line := range lines {
		if isBlank(line) {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}
	if common <= 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if len(line) >= common {
			out[i] = line[common:]
		}
	}
	return out
}

// DetectEncoding picks connector encoding when any line carries a branch
// connector, indentation otherwise. The choice applies to the whole input.
func DetectEncoding(lines []string) Encoding {
	for _, line := range lines {
		if hasConnector(line) {
			return EncodingConnector
		}
	}
	return EncodingIndent
}

func hasConnector(line string) bool {
	rest := strings.TrimLeft(line, " \t│")
	for rest != "" {
		switch {
		case strings.HasPrefix(rest, "├"), strings.HasPrefix(rest, "└"),
			strings.HasPrefix(rest, "|--"), strings.HasPrefix(rest, "`--"), strings.HasPrefix(rest, "+--"):
			return true
		case strings.HasPrefix(rest, "|"):
			rest = strings.TrimLeft(rest[1:], " \t│")
		default:
			return false
		}
	}
	return false
}

// connectorDepth scans the decorative prefix of a tree(1) style line.
// Each vertical bar is one level and swallows its padding, every further
// run of indentWidth blanks is one level (the column under a last child),
// and the branch connector adds the final level.
func connectorDepth(line string, width int) (int, string) {
	depth := 0
	blanks := 0
	sawIndicator := false
	i := 0
	for i < len(line) {
		r, size := utf8.DecodeRuneInString(line[i:])
		switch {
		case r == ' ' || r == '\t':
			if r == '\t' {
				blanks += width
			} else {
				blanks++
			}
			i += size
			continue
		case r == '├' || r == '└':
			depth += blanks / width
			return depth + 1, strings.TrimLeft(line[i+size:], "─")
		case (r == '|' || r == '`' || r == '+') && strings.HasPrefix(line[i+size:], "--"):
			depth += blanks / width
			return depth + 1, strings.TrimLeft(line[i+size:], "-")
		case r == '│' || r == '|':
			depth += blanks/width + 1
			blanks = 0
			sawIndicator = true
			i += size
			// padding that belongs to the bar
			for pad := 0; pad < width-1 && i < len(line) && line[i] == ' '; pad++ {
				i++
			}
			continue
		}
		break
	}
	if !sawIndicator {
		return 0, line[i:]
	}
	return depth + blanks/width, line[i:]
}

func indentDepth(line string, width int) (int, string) {
	columns := 0
	i := 0
	for ; i < len(line); i++ {
		switch line[i] {
		case ' ':
			columns++
		case '\t':
			columns += width
		default:
			return columns / width, line[i:]
		}
	}
	return columns / width, ""
}

// cleanName removes connector filler and surrounding whitespace.
func cleanName(rest string) string {
	name := strings.Trim(rest, "│├└─ \t")
	if name == "" {
		return ""
	}
	// "src /" means the folder src
	if strings.HasSuffix(name, "/") {
		name = strings.TrimRight(strings.TrimRight(name, "/"), " \t") + "/"
	}
	return name
}

// baseName is the entry name without its folder marker.
func (e Entry) baseName() string {
	return strings.TrimRight(e.Name, "/")
}
