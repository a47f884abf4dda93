package mktree

import (
	"fmt"
	"path/filepath"
)

type ItemKind int

const (
	KindFolder ItemKind = iota
	KindFile
)

func (k ItemKind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

// Item records one entry the materializer handled.
type Item struct {
	Kind  ItemKind
	Name  string
	Path  string
	Depth int
	// Existed is true when the folder or file was already on disk.
	Existed bool
	Err     error
}

func (it Item) Failed() bool { return it.Err != nil }

// Line renders the item the way the summary lists it.
func (it Item) Line() string {
	if it.Kind == KindFolder {
		return "📁 " + it.Name
	}
	return "📄 " + it.Name
}

// Manifest is the ordered record of one build.
type Manifest struct {
	Base   string
	DryRun bool
	Items  []Item
}

func (m Manifest) filter(keep func(Item) bool) []Item {
	var out []Item
	for _, it := range m.Items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func (m Manifest) Folders() []Item {
	return m.filter(func(it Item) bool { return it.Kind == KindFolder && !it.Failed() })
}

func (m Manifest) Files() []Item {
	return m.filter(func(it Item) bool { return it.Kind == KindFile && !it.Failed() })
}

func (m Manifest) Failures() []Item {
	return m.filter(Item.Failed)
}

// Created lists the items that did not exist before the build.
func (m Manifest) Created() []Item {
	return m.filter(func(it Item) bool { return !it.Existed && !it.Failed() })
}

// Counts returns the number of successful folders and files.
func (m Manifest) Counts() Stats {
	var s Stats
	for _, it := range m.Items {
		if it.Failed() {
			continue
		}
		if it.Kind == KindFolder {
			s.Folders++
		} else {
			s.Files++
		}
	}
	return s
}

// Lines is the human-readable manifest in encounter order.
func (m Manifest) Lines() []string {
	lines := make([]string, 0, len(m.Items))
	for _, it := range m.Items {
		if it.Failed() {
			lines = append(lines, fmt.Sprintf("❌ %s: %v", it.Name, it.Err))
			continue
		}
		lines = append(lines, it.Line())
	}
	return lines
}

// Rel returns p relative to the manifest base, or p unchanged when that
// is not possible.
func (m Manifest) Rel(p string) string {
	if r, err := filepath.Rel(m.Base, p); err == nil {
		return r
	}
	return p
}
