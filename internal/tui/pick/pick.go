// Package pick implements the interactive tie-break prompt.
package pick

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Digital-Shane/rom-tidy/internal/tui/theme"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ErrCanceled is returned when the prompt is dismissed without a selection.
var ErrCanceled = errors.New("selection canceled")

// Model asks the user which of several tied releases to keep. A valid answer
// is an integer in [0, len(names)]; anything else re-prompts.
type Model struct {
	key   string
	names []string
	input textinput.Model

	choice   int
	done     bool
	canceled bool
	errMsg   string

	width int
	theme theme.Theme
}

// Option configures a Model.
type Option func(*Model)

// WithTheme overrides the default theme.
func WithTheme(th theme.Theme) Option {
	return func(m *Model) { m.theme = th }
}

// WithWidth sets the initial render width.
func WithWidth(w int) Option {
	return func(m *Model) { m.width = w }
}

// New builds a prompt for the tied names of group key.
func New(key string, names []string, opts ...Option) *Model {
	m := &Model{
		key:   key,
		names: names,
		width: 80,
		theme: theme.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	runewidth.DefaultCondition.EastAsianWidth = false
	runewidth.DefaultCondition.StrictEmojiNeutral = true

	colors := m.theme.Colors()
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "0"
	ti.CharLimit = len(strconv.Itoa(len(names))) + 1
	ti.Width = 8
	ti.CursorStyle = lipgloss.NewStyle().Foreground(colors.Background).Background(colors.Accent)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colors.Primary)
	ti.Focus()
	m.input = ti
	return m
}

// Init starts the cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update processes Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, tea.Quit
		case "enter":
			return m.submit()
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	n, err := strconv.Atoi(raw)
	if err != nil {
		m.errMsg = "Invalid input. Please enter a number."
		return m, nil
	}
	if n < 0 || n > len(m.names) {
		m.errMsg = fmt.Sprintf("Please enter a number between 0 and %d.", len(m.names))
		return m, nil
	}
	m.errMsg = ""
	m.choice = n
	m.done = true
	return m, tea.Quit
}

// View renders the prompt.
func (m *Model) View() string {
	if m.done || m.canceled {
		return ""
	}

	header := m.theme.HeaderStyle().Width(m.width).
		Render(fmt.Sprintf("%s Can't decide which one is the best for %q", m.theme.Icon("tie"), m.key))

	nameWidth := max(m.width-8, 10)
	lines := make([]string, 0, len(m.names))
	for i, name := range m.names {
		label := m.theme.MutedStyle().Render(fmt.Sprintf("%2d.", i+1))
		lines = append(lines, fmt.Sprintf(" %s %s", label, runewidth.Truncate(name, nameWidth, "…")))
	}

	sections := []string{
		header,
		strings.Join(lines, "\n"),
		"Enter the number of the file to keep (0 to keep all):",
		m.input.View(),
	}
	if m.errMsg != "" {
		sections = append(sections, m.theme.WarnStyle().Render(m.theme.Icon("warning")+" "+m.errMsg))
	}
	sections = append(sections, m.theme.StatusBarStyle().Width(m.width).Render("enter: confirm  esc: keep all"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

// Choice returns the selected number, or ErrCanceled when the prompt was
// dismissed.
func (m *Model) Choice() (int, error) {
	if m.canceled || !m.done {
		return 0, ErrCanceled
	}
	return m.choice, nil
}

// programRunner runs a prompt to completion. Tests replace it.
type programRunner func(m *Model, opts ...tea.ProgramOption) (tea.Model, error)

var runProgram programRunner = func(m *Model, opts ...tea.ProgramOption) (tea.Model, error) {
	return tea.NewProgram(m, opts...).Run()
}

// Chooser adapts Model to the resolver's tie-break callback.
type Chooser struct {
	Theme theme.Theme
	In    io.Reader
	Out   io.Writer
}

// Choose shows the prompt and blocks until the user answers.
func (c *Chooser) Choose(key string, names []string) (int, error) {
	m := New(key, names, WithTheme(c.Theme))
	var opts []tea.ProgramOption
	if c.In != nil {
		opts = append(opts, tea.WithInput(c.In))
	}
	if c.Out != nil {
		opts = append(opts, tea.WithOutput(c.Out))
	}
	final, err := runProgram(m, opts...)
	if err != nil {
		return 0, fmt.Errorf("run picker: %w", err)
	}
	fm, ok := final.(*Model)
	if !ok {
		return 0, fmt.Errorf("unexpected picker model %T", final)
	}
	return fm.Choice()
}
