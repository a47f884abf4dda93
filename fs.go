package mktree

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathResolver anchors relative output folders at the working directory
// the process started in.
type PathResolver struct {
	wd string
}

func NewPathResolver() (*PathResolver, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("could not get current working directory: %w", err)
	}
	return &PathResolver{wd: wd}, nil
}

func (r *PathResolver) Resolve(relativePath string) string {
	if filepath.IsAbs(relativePath) {
		return filepath.Clean(relativePath)
	}
	return filepath.Join(r.wd, relativePath)
}

// Rel shortens p for display when it sits under the working directory.
func (r *PathResolver) Rel(p string) string {
	rel, err := filepath.Rel(r.wd, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return rel
}

// EnsureBase checks that the output folder is usable, creating it when it
// is missing.
func (r *PathResolver) EnsureBase(base string, dryRun bool) (string, error) {
	if base == "" {
		return "", ErrEmptyBase
	}
	abs := r.Resolve(base)
	info, err := os.Stat(abs)
	switch {
	case err == nil && !info.IsDir():
		return "", fmt.Errorf("%w: %s is a file", ErrConflict, abs)
	case err == nil:
		return abs, nil
	case errors.Is(err, os.ErrNotExist):
		if dryRun {
			return abs, nil
		}
		if err := os.MkdirAll(abs, DefaultDirPerm); err != nil {
			return "", fmt.Errorf("error creating directory '%s': %w", abs, err)
		}
		return abs, nil
	default:
		return "", fmt.Errorf("stat %s: %w", abs, err)
	}
}
