package mktree

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	stateDirName    = "mktree"
	historyFileName = "history.mktree"
	entrySeparator  = "\n===\n"
	opSeparator     = "\n---\n"
	none            = "-"

	DefaultHistoryLimit = 50
)

// Record is one manifest item as stored in the history file.
type Record struct {
	Kind ItemKind
	Path string
	Err  string
}

type HistoryEntry struct {
	Timestamp int64
	Base      string
	Records   []Record
}

func (e HistoryEntry) Time() time.Time { return time.Unix(e.Timestamp, 0) }

func (e HistoryEntry) Counts() (folders, files, failed int) {
	for _, r := range e.Records {
		switch {
		case r.Err != "":
			failed++
		case r.Kind == KindFolder:
			folders++
		default:
			files++
		}
	}
	return folders, files, failed
}

// History is an append-only log of finished builds, newest last.
type History struct {
	mu      sync.Mutex
	path    string
	limit   int
	entries []HistoryEntry
}

// DefaultHistoryPath places the log under the user state (cache) folder.
func DefaultHistoryPath() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, stateDirName, historyFileName), nil
}

func NewHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	h := &History{path: path, limit: DefaultHistoryLimit}
	if err := h.load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return h, nil
}

func (h *History) load() error {
	data, err := os.ReadFile(h.path)
	if err != nil {
		return err
	}

	h.entries = nil
	for _, block := range strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), entrySeparator) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		parts := strings.Split(block, opSeparator)
		header := strings.Split(strings.TrimSpace(parts[0]), "\n")
		if len(header) < 2 {
			continue
		}

		entry := HistoryEntry{
			Timestamp: parseTimestamp(header[0]),
			Base:      strings.TrimSpace(header[1]),
		}
		for _, opBlock := range parts[1:] {
			lines := strings.Split(strings.TrimSpace(opBlock), "\n")
			if len(lines) < 3 {
				continue
			}
			rec := Record{Kind: KindFile, Path: val(lines[1]), Err: val(lines[2])}
			if strings.TrimSpace(lines[0]) == KindFolder.String() {
				rec.Kind = KindFolder
			}
			entry.Records = append(entry.Records, rec)
		}
		h.entries = append(h.entries, entry)
	}
	return nil
}

func val(s string) string {
	s = strings.TrimSpace(s)
	if s == none {
		return ""
	}
	return s
}

func placeholder(s string) string {
	if s == "" {
		return none
	}
	return strings.ReplaceAll(s, "\n", " ")
}

func parseTimestamp(s string) int64 {
	ts, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return ts
}

func (h *History) save() error {
	var b strings.Builder
	for i, e := range h.entries {
		if i > 0 {
			b.WriteString(entrySeparator)
		}
		fmt.Fprintf(&b, "%d\n%s", e.Timestamp, placeholder(e.Base))
		for _, r := range e.Records {
			b.WriteString(opSeparator)
			fmt.Fprintf(&b, "%s\n%s\n%s", r.Kind, placeholder(r.Path), placeholder(r.Err))
		}
	}
	return os.WriteFile(h.path, []byte(b.String()), 0o644)
}

// Record appends a finished build. Only the oldest entries beyond the limit
// are dropped.
func (h *History) Record(m Manifest) error {
	entry := HistoryEntry{Timestamp: time.Now().UTC().Unix(), Base: m.Base}
	for _, it := range m.Items {
		rec := Record{Kind: it.Kind, Path: it.Path}
		if it.Err != nil {
			rec.Err = it.Err.Error()
		}
		entry.Records = append(entry.Records, rec)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, entry)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = h.entries[over:]
	}
	return h.save()
}

// Recent returns up to n entries, newest first.
func (h *History) Recent(n int) []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n <= 0 || n > len(h.entries) {
		n = len(h.entries)
	}
	out := make([]HistoryEntry, 0, n)
	for i := len(h.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, h.entries[i])
	}
	return out
}
