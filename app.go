package mktree

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// App wires one invocation: read the structure, build it, and report.
type App struct {
	cfg              *Config
	session          *Session
	sourceProvider   *SourceProvider
	log              *slog.Logger
	progressCallback ProgressUpdate
}

func NewApp(cfg *Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	session, err := NewSession(cfg.OutDir, Options{
		DryRun: cfg.DryRun,
		Parse:  cfg.ParseOptions(),
		Logger: log,
	})
	if err != nil {
		return nil, err
	}

	if path, err := DefaultHistoryPath(); err == nil {
		if h, err := NewHistory(path); err == nil {
			session.SetHistory(h)
		} else {
			log.Warn("history disabled", slog.String("err", err.Error()))
		}
	}

	return &App{
		cfg:            cfg,
		session:        session,
		sourceProvider: NewSourceProvider(cfg.Input),
		log:            log,
	}, nil
}

func (a *App) Session() *Session { return a.session }

func (a *App) SetProgressCallback(cb ProgressUpdate) { a.progressCallback = cb }

// Execute reads the configured source and builds it.
func (a *App) Execute() (manifest Manifest, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{Err: fmt.Errorf("panic: %v", r), Stack: debug.Stack()}
		}
	}()

	c, err := a.sourceProvider.GetContent()
	if err != nil {
		return Manifest{}, err
	}
	return a.BuildText(ExtractStructure(c))
}

// BuildText builds structure text that is already in hand.
func (a *App) BuildText(text string) (Manifest, error) {
	a.session.Options.Progress = a.progressCallback
	manifest, err := a.session.Build(text)
	if err != nil {
		return manifest, err
	}

	if a.cfg.Open && !manifest.DryRun {
		a.openInEditor(manifest)
	}
	return manifest, nil
}

func (a *App) openInEditor(m Manifest) {
	var files []string
	for _, it := range m.Files() {
		files = append(files, it.Path)
	}
	if len(files) == 0 {
		return
	}

	nm, err := NewNvimManager()
	if err != nil {
		a.log.Warn("neovim unavailable", slog.String("err", err.Error()))
		return
	}
	defer nm.Close()

	if _, failed := nm.OpenFiles(files, nil); len(failed) > 0 {
		a.log.Warn("neovim could not open files", slog.Int("failed", len(failed)))
	}
}
