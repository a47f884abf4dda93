package mktree

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyBase      = errors.New("base directory is empty")
	ErrEmptyStructure = errors.New("structure text is empty")
	ErrConflict       = errors.New("path exists with a different type")
)

const (
	DefaultDirPerm  os.FileMode = 0o755
	DefaultFilePerm os.FileMode = 0o644
)

// ProgressUpdate reports how many entries a build has handled so far.
type ProgressUpdate func(current, total int)

type Options struct {
	// DryRun computes the manifest without touching the disk.
	DryRun   bool
	DirPerm  os.FileMode
	FilePerm os.FileMode
	Parse    ParseOptions
	Logger   *slog.Logger
	Progress ProgressUpdate
}

// Materializer turns structure text into folders and empty files.
type Materializer struct {
	opts Options
	log  *slog.Logger
}

func NewMaterializer(opts Options) *Materializer {
	if opts.DirPerm == 0 {
		opts.DirPerm = DefaultDirPerm
	}
	if opts.FilePerm == 0 {
		opts.FilePerm = DefaultFilePerm
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Materializer{opts: opts, log: log}
}

// Materialize parses text and creates every entry beneath base. Input
// errors are returned before anything is created. Filesystem errors are
// recorded on the failing item and the run continues.
func (m *Materializer) Materialize(base, text string) (Manifest, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return Manifest{}, ErrEmptyBase
	}
	entries := Parse(text, m.opts.Parse)
	if len(entries) == 0 {
		return Manifest{}, ErrEmptyStructure
	}
	return m.Apply(base, entries), nil
}

// Apply creates already parsed entries beneath base.
func (m *Materializer) Apply(base string, entries []Entry) Manifest {
	base = filepath.Clean(base)
	manifest := Manifest{Base: base, DryRun: m.opts.DryRun, Items: make([]Item, 0, len(entries))}
	m.log.Info("build started", slog.String("base", base), slog.Int("entries", len(entries)), slog.Bool("dry_run", m.opts.DryRun))

	var stack []string
	for i, e := range entries {
		depth := e.Depth
		if depth > len(stack) {
			depth = len(stack)
		}
		stack = stack[:depth]

		name := e.baseName()
		target := filepath.Join(append([]string{base}, append(stack, name)...)...)

		item := Item{Name: name, Path: target, Depth: depth, Kind: KindFile}
		if e.IsDir {
			item.Kind = KindFolder
			item.Existed, item.Err = m.ensureDir(target)
			// children still resolve under a folder that failed so their
			// failures are reported against the right path
			stack = append(stack, name)
		} else {
			item.Existed, item.Err = m.ensureFile(target)
		}

		if item.Err != nil {
			m.log.Warn("item failed", slog.String("kind", item.Kind.String()), slog.String("path", target), slog.String("err", item.Err.Error()))
		}
		manifest.Items = append(manifest.Items, item)
		if m.opts.Progress != nil {
			m.opts.Progress(i+1, len(entries))
		}
	}

	counts := manifest.Counts()
	m.log.Info("build finished",
		slog.String("base", base),
		slog.Int("folders", counts.Folders),
		slog.Int("files", counts.Files),
		slog.Int("failed", len(manifest.Failures())))
	return manifest
}

func (m *Materializer) ensureDir(path string) (existed bool, err error) {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return true, nil
	case err == nil:
		return false, fmt.Errorf("%w: %s is a file", ErrConflict, path)
	case errors.Is(err, os.ErrNotExist):
		if m.opts.DryRun {
			return false, nil
		}
		if err := os.MkdirAll(path, m.opts.DirPerm); err != nil {
			return false, fmt.Errorf("mkdir %s: %w", path, err)
		}
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}

func (m *Materializer) ensureFile(path string) (existed bool, err error) {
	if _, err := m.ensureDir(filepath.Dir(path)); err != nil {
		return false, err
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return false, fmt.Errorf("%w: %s is a folder", ErrConflict, path)
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		if m.opts.DryRun {
			return false, nil
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, m.opts.FilePerm)
		if errors.Is(err, os.ErrExist) {
			return true, nil
		}
		if err != nil {
			return false, fmt.Errorf("create %s: %w", path, err)
		}
		return false, f.Close()
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}
