package mktree

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"sync"
)

var ErrBuildInProgress = errors.New("a build is already running for this folder")

type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string { return e.Err.Error() }
func (e *DetailedError) Unwrap() error { return e.Err }

// BuildResult is delivered once per asynchronous build.
type BuildResult struct {
	Manifest Manifest
	Err      error
}

// Session holds the output folder and the set of folders with a build in
// flight. Each build owns its own path stack and manifest.
type Session struct {
	mu       sync.Mutex
	outDir   string
	inFlight map[string]struct{}

	resolver *PathResolver
	history  *History
	log      *slog.Logger

	// Options is copied into every build.
	Options Options
}

func NewSession(outDir string, opts Options) (*Session, error) {
	pr, err := NewPathResolver()
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		outDir:   outDir,
		inFlight: make(map[string]struct{}),
		resolver: pr,
		log:      log,
		Options:  opts,
	}, nil
}

// SetHistory makes finished builds get appended to h.
func (s *Session) SetHistory(h *History) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = h
}

func (s *Session) SetOutDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outDir = dir
}

func (s *Session) OutDir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outDir
}

func (s *Session) Resolver() *PathResolver { return s.resolver }

// Building reports whether a build into dir is still running.
func (s *Session) Building(dir string) bool {
	key := s.key(dir)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[key]
	return ok
}

// Build materializes text into the session's output folder. A second build
// into the same folder while one is running fails with ErrBuildInProgress.
func (s *Session) Build(text string) (manifest Manifest, err error) {
	return s.BuildInto(s.OutDir(), text)
}

func (s *Session) BuildInto(dir, text string) (manifest Manifest, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{Err: fmt.Errorf("panic: %v", r), Stack: debug.Stack()}
		}
	}()

	if isBlank(dir) {
		return Manifest{}, ErrEmptyBase
	}
	opts := s.Options
	entries := Parse(text, opts.Parse)
	if len(entries) == 0 {
		return Manifest{}, ErrEmptyStructure
	}

	key := s.key(dir)
	if !s.acquire(key) {
		return Manifest{}, fmt.Errorf("%w: %s", ErrBuildInProgress, key)
	}
	defer s.release(key)

	if opts.Logger == nil {
		opts.Logger = s.log
	}
	base, err := s.resolver.EnsureBase(key, opts.DryRun)
	if err != nil {
		return Manifest{}, err
	}

	manifest = NewMaterializer(opts).Apply(base, entries)

	s.mu.Lock()
	h := s.history
	s.mu.Unlock()
	if h != nil && !manifest.DryRun {
		if herr := h.Record(manifest); herr != nil {
			s.log.Warn("could not record history", slog.String("err", herr.Error()))
		}
	}
	return manifest, nil
}

// BuildAsync runs Build on its own goroutine. The channel receives exactly
// one result and is then closed.
func (s *Session) BuildAsync(text string) <-chan BuildResult {
	dir := s.OutDir()
	ch := make(chan BuildResult, 1)
	go func() {
		defer close(ch)
		m, err := s.BuildInto(dir, text)
		ch <- BuildResult{Manifest: m, Err: err}
	}()
	return ch
}

func (s *Session) key(dir string) string {
	return filepath.Clean(s.resolver.Resolve(dir))
}

func (s *Session) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *Session) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}
