package mktree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type EditorKeyMap struct {
	Build    key.Binding
	Generate key.Binding
	Next     key.Binding
	Quit     key.Binding
}

func DefaultEditorKeyMap() EditorKeyMap {
	return EditorKeyMap{
		Build: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "build"),
		),
		Generate: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "generate from description"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

func (k EditorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Build, k.Generate, k.Next, k.Quit}
}

func (k EditorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type editorField int

const (
	fieldStructure editorField = iota
	fieldDescription
	fieldOutDir
)

type buildResultMsg struct {
	manifest Manifest
	err      error
}

// Editor is the interactive front end: a structure pane with live preview,
// a description box for the template selector and an output folder box.
type Editor struct {
	session  *Session
	selector *Selector
	parse    ParseOptions
	keys     EditorKeyMap
	help     help.Model

	structure   textarea.Model
	description textinput.Model
	outDir      textinput.Model
	spinner     spinner.Model
	focus       editorField

	preview  Preview
	building bool
	built    bool
	status   string
	width    int
}

func NewEditor(session *Session, selector *Selector, parse ParseOptions) Editor {
	ta := textarea.New()
	ta.Placeholder = "src/\n├── main.py\n└── utils/"
	ta.ShowLineNumbers = false
	ta.SetWidth(48)
	ta.SetHeight(18)
	ta.Focus()

	desc := textinput.New()
	desc.Prompt = "Describe: "
	desc.Placeholder = "React ecommerce app with payments"

	out := textinput.New()
	out.Prompt = "Output:   "
	out.SetValue(session.OutDir())

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	return Editor{
		session:     session,
		selector:    selector,
		parse:       parse,
		keys:        DefaultEditorKeyMap(),
		help:        help.New(),
		structure:   ta,
		description: desc,
		outDir:      out,
		spinner:     sp,
		status:      "Ready",
		width:       100,
	}
}

// Built reports whether at least one build finished without an input error.
func (e Editor) Built() bool { return e.built }

func (e Editor) OutDir() string { return strings.TrimSpace(e.outDir.Value()) }

func (e Editor) Init() tea.Cmd {
	return textarea.Blink
}

func (e Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		e.width = typed.Width
		e.structure.SetWidth(max(24, typed.Width/2-4))
		e.structure.SetHeight(max(8, typed.Height-10))
		return e, nil
	case buildResultMsg:
		e.building = false
		e.status = buildStatus(typed.manifest, typed.err)
		if typed.err == nil {
			e.built = true
		}
		return e, nil
	case spinner.TickMsg:
		if !e.building {
			return e, nil
		}
		var cmd tea.Cmd
		e.spinner, cmd = e.spinner.Update(typed)
		return e, cmd
	case tea.KeyMsg:
		switch {
		case key.Matches(typed, e.keys.Quit):
			return e, tea.Quit
		case key.Matches(typed, e.keys.Next):
			return e.cycleFocus()
		case key.Matches(typed, e.keys.Build):
			return e.startBuild()
		case key.Matches(typed, e.keys.Generate):
			return e.generate(), nil
		}
	}
	return e.updateFocused(msg)
}

func (e Editor) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch e.focus {
	case fieldStructure:
		e.structure, cmd = e.structure.Update(msg)
		e.preview = BuildPreview(e.structure.Value(), e.parse, PreviewLimit)
	case fieldDescription:
		e.description, cmd = e.description.Update(msg)
	case fieldOutDir:
		e.outDir, cmd = e.outDir.Update(msg)
	}
	return e, cmd
}

func (e Editor) cycleFocus() (tea.Model, tea.Cmd) {
	e.structure.Blur()
	e.description.Blur()
	e.outDir.Blur()

	e.focus = (e.focus + 1) % 3
	switch e.focus {
	case fieldDescription:
		return e, e.description.Focus()
	case fieldOutDir:
		return e, e.outDir.Focus()
	default:
		return e, e.structure.Focus()
	}
}

func (e Editor) startBuild() (tea.Model, tea.Cmd) {
	if e.building {
		return e, nil
	}
	dir := e.OutDir()
	text := e.structure.Value()
	if isBlank(text) {
		e.status = "Nothing to build: the structure is empty"
		return e, nil
	}
	if dir == "" {
		e.status = "Choose an output folder first"
		return e, nil
	}

	e.building = true
	e.status = "Building..."
	e.session.SetOutDir(dir)
	session := e.session
	build := func() tea.Msg {
		m, err := session.BuildInto(dir, text)
		return buildResultMsg{manifest: m, err: err}
	}
	return e, tea.Batch(build, e.spinner.Tick)
}

func (e Editor) generate() Editor {
	desc := strings.TrimSpace(e.description.Value())
	if desc == "" {
		e.status = "Type a project description first"
		return e
	}
	a := e.selector.Analyze(desc)
	e.structure.SetValue(a.Structure)
	e.preview = BuildPreview(a.Structure, e.parse, PreviewLimit)
	e.status = ChatReply(a)
	return e
}

func buildStatus(m Manifest, err error) string {
	switch {
	case errors.Is(err, ErrBuildInProgress):
		return "A build is already running for this folder"
	case err != nil:
		return "Build failed: " + err.Error()
	}
	counts := m.Counts()
	status := fmt.Sprintf("Built %d folders and %d files", counts.Folders, counts.Files)
	if n := len(m.Failures()); n > 0 {
		status += fmt.Sprintf(", %d failed", n)
	}
	return status
}

var (
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
)

func (e Editor) View() string {
	left := paneStyle.Render(e.structure.View())
	right := e.preview.Render()
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	status := e.status
	if e.building {
		status = e.spinner.View() + " " + status
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("mktree"),
		body,
		e.description.View(),
		e.outDir.View(),
		"",
		statusStyle.Render(status),
		e.help.View(e.keys),
	)
}

// RunEditor runs the editor until the user quits and returns the final
// state.
func RunEditor(session *Session, selector *Selector, parse ParseOptions, initial string) (Editor, error) {
	e := NewEditor(session, selector, parse)
	if initial != "" {
		e.structure.SetValue(initial)
		e.preview = BuildPreview(initial, parse, PreviewLimit)
	}
	final, err := tea.NewProgram(e, tea.WithAltScreen()).Run()
	if err != nil {
		return e, err
	}
	if fe, ok := final.(Editor); ok {
		return fe, nil
	}
	return e, nil
}
