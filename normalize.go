package mktree

import (
	"regexp"
	"strings"
)

var (
	commentRegex    = regexp.MustCompile(`\s*(<--|//|#).*$`)
	annotationRegex = regexp.MustCompile(`\s*["(].*?[")]\s*$`)
	treeSummaryRx   = regexp.MustCompile(`^\d+\s+director(y|ies)(,\s*\d+\s+files?)?$`)
	entityReplacer  = strings.NewReplacer("&lt;", "<", "&gt;", ">")
)

// Normalize strips comments and trailing annotations from structure text
// and drops lines left empty. Indentation and connectors are kept so depth
// can still be computed.
func Normalize(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if cleaned, ok := normalizeLine(line); ok {
			kept = append(kept, cleaned)
		}
	}
	return strings.Join(kept, "\n")
}

func normalizeLine(line string) (string, bool) {
	line = entityReplacer.Replace(line)
	line = commentRegex.ReplaceAllString(line, "")
	line = annotationRegex.ReplaceAllString(line, "")
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || isTreeSummary(trimmed) {
		return "", false
	}
	return line, true
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

// isTreeSummary matches the "N directories, M files" footer printed by tree(1).
func isTreeSummary(line string) bool {
	return treeSummaryRx.MatchString(strings.ToLower(line))
}

// Stats holds the live preview counters.
type Stats struct {
	Folders int
	Files   int
}

func (s Stats) Total() int { return s.Folders + s.Files }

// CountItems classifies every entry of the text as a folder (trailing "/")
// or a file, using the same name cleaning the materializer uses.
func CountItems(text string) Stats {
	return StatsOf(Parse(text, ParseOptions{}))
}

func StatsOf(entries []Entry) Stats {
	var s Stats
	for _, e := range entries {
		if e.IsDir {
			s.Folders++
		} else {
			s.Files++
		}
	}
	return s
}
