package mktree

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	createdStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	existsStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
)

// SetTheme switches the summary palette. Unknown names keep the dark one.
func SetTheme(name string) {
	if name != "light" {
		return
	}
	headerStyle = headerStyle.Foreground(lipgloss.Color("55"))
	createdStyle = createdStyle.Foreground(lipgloss.Color("25"))
	existsStyle = existsStyle.Foreground(lipgloss.Color("240"))
	successStyle = successStyle.Foreground(lipgloss.Color("28"))
	mutedStyle = mutedStyle.Foreground(lipgloss.Color("244"))
	errorStyle = errorStyle.Foreground(lipgloss.Color("160"))
}

type TUI struct {
	app         *App
	noAnimation bool
	frames      []string
	frame       int
	mu          sync.Mutex
	cur, total  int
}

func NewTUI(app *App, noAnimation bool) *TUI {
	return &TUI{app: app, noAnimation: noAnimation, frames: spinner.Dot.Frames}
}

func (t *TUI) Run() (Manifest, error) {
	if t.noAnimation {
		m, err := t.app.Execute()
		if err == nil {
			fmt.Print(FormatManifest(m, t.app.Session().Resolver().Rel))
		}
		return m, err
	}

	t.app.SetProgressCallback(func(c, tot int) {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.cur, t.total = c, tot
	})

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			case <-time.After(spinner.Dot.FPS):
				t.renderProgress()
			}
		}
	}()

	m, err := t.app.Execute()
	close(done)
	wg.Wait()
	fmt.Print("\r\x1b[K")

	if err == nil {
		fmt.Print(FormatManifest(m, t.app.Session().Resolver().Rel))
	}
	return m, err
}

func (t *TUI) renderProgress() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Print(t.progressLine())
}

// progressLine advances the spinner one frame and renders the counter.
func (t *TUI) progressLine() string {
	t.frame = (t.frame + 1) % len(t.frames)
	return fmt.Sprintf("\r%s Building... %d/%d\x1b[K", t.frames[t.frame], t.cur, t.total)
}

// FormatManifest renders a build summary. rel shortens paths for display
// and may be nil.
func FormatManifest(m Manifest, rel func(string) string) string {
	if rel == nil {
		rel = func(p string) string { return p }
	}

	var b strings.Builder
	counts := m.Counts()
	failures := m.Failures()
	title := fmt.Sprintf("Built %d folders and %d files in %s", counts.Folders, counts.Files, rel(m.Base))
	if m.DryRun {
		title = fmt.Sprintf("Would build %d folders and %d files in %s", counts.Folders, counts.Files, rel(m.Base))
	}
	if len(m.Items) == 0 {
		title = "Nothing to build"
	}
	b.WriteString(headerStyle.Render(title) + "\n\n")

	var created, existing []Item
	for _, it := range m.Items {
		switch {
		case it.Failed():
		case it.Existed:
			existing = append(existing, it)
		default:
			created = append(created, it)
		}
	}

	renderList := func(heading string, style lipgloss.Style, items []Item) {
		if len(items) == 0 {
			return
		}
		b.WriteString(style.Render(heading) + "\n")
		for _, it := range items {
			line := "📄 " + rel(it.Path)
			if it.Kind == KindFolder {
				line = "📁 " + rel(it.Path) + "/"
			}
			if it.Err != nil {
				line += mutedStyle.Render(": " + it.Err.Error())
			}
			b.WriteString(fmt.Sprintf("  %s\n", line))
		}
	}

	createdHeading := "Created:"
	if m.DryRun {
		createdHeading = "To create:"
	}
	renderList(createdHeading, createdStyle, created)
	renderList("Already present:", existsStyle, existing)
	renderList("Failed:", errorStyle, failures)

	if len(failures) == 0 && len(m.Items) > 0 {
		b.WriteString(successStyle.Render("Done.") + "\n")
	}
	return b.String()
}

// FormatAnalysis renders a template suggestion.
func FormatAnalysis(a Analysis) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%s confidence, score %d)", a.Template.Title, a.Confidence, a.Score)) + "\n")
	if len(a.Matched) > 0 {
		b.WriteString(mutedStyle.Render("Keywords: "+strings.Join(a.Matched, ", ")) + "\n")
	}
	if len(a.Tips) > 0 {
		b.WriteString("\n" + successStyle.Render("Tips:") + "\n")
		for _, tip := range a.Tips {
			b.WriteString("  • " + tip + "\n")
		}
	}
	b.WriteString("\n" + a.Structure + "\n")
	return b.String()
}
