// Package history is a read-only browser over past cleanup sessions.
package history

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Digital-Shane/rom-tidy/internal/log"
	"github.com/Digital-Shane/rom-tidy/internal/tui/theme"

	"github.com/Digital-Shane/treeview"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// recentOps is how many operations the details panel lists.
const recentOps = 8

// Model shows the session list on the left and details of the focused session
// on the right.
type Model struct {
	*treeview.TuiTreeModel[log.SessionSummary]
	width      int
	height     int
	splitRatio float64
	theme      theme.Theme

	details        *viewport.Model
	detailsFocused bool
}

// Option configures a Model during construction.
type Option func(*Model)

// WithTheme overrides the default theme.
func WithTheme(th theme.Theme) Option {
	return func(m *Model) {
		m.theme = th
	}
}

// NewTree builds a flat tree with one node per session, focused on the newest.
func NewTree(summaries []log.SessionSummary) *treeview.Tree[log.SessionSummary] {
	nodes := make([]*treeview.Node[log.SessionSummary], len(summaries))
	for i, s := range summaries {
		label := fmt.Sprintf("%s %s", s.Icon, s.RelativeTime)
		if len(s.Session.Metadata.CommandArgs) > 0 {
			label += "  " + strings.Join(s.Session.Metadata.CommandArgs, " ")
		}
		nodes[i] = treeview.NewNode("session-"+s.Session.Metadata.SessionID, label, s)
	}
	tree := treeview.NewTree(nodes)
	if len(nodes) > 0 {
		_, _ = tree.SetFocusedID(context.Background(), nodes[0].ID())
	}
	return tree
}

// New creates the history browser over tree.
func New(tree *treeview.Tree[log.SessionSummary], opts ...Option) *Model {
	m := &Model{
		width:      80,
		height:     24,
		splitRatio: 0.5,
	}
	for _, opt := range append([]Option{WithTheme(theme.Default())}, opts...) {
		opt(m)
	}

	keyMap := treeview.DefaultKeyMap()
	keyMap.SearchStart = []string{}
	keyMap.Reset = []string{}

	treeWidth := m.treeWidth()
	m.TuiTreeModel = treeview.NewTuiTreeModel(tree,
		treeview.WithTuiWidth[log.SessionSummary](treeWidth),
		treeview.WithTuiHeight[log.SessionSummary](m.height-4),
		treeview.WithTuiAllowResize[log.SessionSummary](true),
		treeview.WithTuiDisableNavBar[log.SessionSummary](true),
		treeview.WithTuiKeyMap[log.SessionSummary](keyMap),
	)
	m.details = newDetailsViewport(m.width-treeWidth-6, m.height-8, m.theme)
	return m
}

// newDetailsViewport returns a borderless viewport with the theme's panel
// padding.
func newDetailsViewport(width, height int, th theme.Theme) *viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle().Padding(0, th.Spacing().PanelPadding)
	return &vp
}

func (m *Model) treeWidth() int {
	return int(float64(m.width)*m.splitRatio) - 2
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		treeWidth := m.treeWidth()
		treeModel, cmd := m.TuiTreeModel.Update(tea.WindowSizeMsg{Width: treeWidth, Height: m.height - 4})
		m.TuiTreeModel = treeModel.(*treeview.TuiTreeModel[log.SessionSummary])
		m.details.Width = m.width - treeWidth - 6
		m.details.Height = m.height - 8
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.detailsFocused = !m.detailsFocused
			return m, nil
		}
		if m.detailsFocused {
			switch msg.String() {
			case "up":
				m.details.ScrollUp(1)
			case "down":
				m.details.ScrollDown(1)
			case "pgup":
				m.details.HalfPageUp()
			case "pgdown":
				m.details.HalfPageDown()
			}
			return m, nil
		}
	}

	if m.detailsFocused {
		return m, nil
	}
	treeModel, cmd := m.TuiTreeModel.Update(msg)
	m.TuiTreeModel = treeModel.(*treeview.TuiTreeModel[log.SessionSummary])
	return m, cmd
}

func (m *Model) View() string {
	header := m.theme.HeaderStyle().Width(m.width).Render(m.theme.Icon("history") + " ROM Cleanup History")

	leftWidth := int(float64(m.width) * m.splitRatio)
	left := m.renderList(leftWidth, m.height-3)
	right := m.renderDetails(m.width-leftWidth, m.height-3)

	focus := "Tab: Details Focus"
	if m.detailsFocused {
		focus = "Tab: List Focus"
	}
	help := lipgloss.NewStyle().
		Italic(true).
		Width(m.width).
		Align(lipgloss.Center).
		Foreground(m.theme.Colors().Muted).
		Render(focus + " | ↑↓ Navigate | PgUp/PgDn: Page | Esc/q: Quit")

	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n" + help
}

func (m *Model) panel(width, height int, border lipgloss.Color) lipgloss.Style {
	style := m.theme.PanelStyle().BorderForeground(border)
	if w := width - style.GetHorizontalFrameSize(); w > 0 {
		style = style.Width(w)
	}
	if h := height - style.GetVerticalFrameSize(); h > 0 {
		style = style.Height(h)
	}
	return style.Padding(0, 1)
}

func (m *Model) title(text string, width int, color lipgloss.Color) string {
	if width > 4 {
		width -= 4
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color).Width(width).Align(lipgloss.Center).Render(text)
}

func (m *Model) renderList(width, height int) string {
	colors := m.theme.Colors()
	return m.panel(width, height, colors.Primary).Render(
		m.title("Sessions", width, colors.Primary) + "\n" + m.TuiTreeModel.View(),
	)
}

func (m *Model) renderDetails(width, height int) string {
	colors := m.theme.Colors()
	if node := m.TuiTreeModel.Tree.GetFocusedNode(); node != nil {
		m.details.SetContent(m.formatDetails(*node.Data(), m.details.Width))
	} else {
		m.details.SetContent(m.theme.MutedStyle().Italic(true).Render("No cleanup sessions recorded yet"))
	}

	text := "Session Details"
	if m.details.TotalLineCount() > m.details.Height {
		if m.detailsFocused {
			text += " [↑↓ to scroll]"
		} else {
			text += " [Tab to scroll]"
		}
	}
	content := lipgloss.JoinVertical(lipgloss.Left, m.title(text, width, colors.Secondary), "", m.details.View())
	return m.panel(width, height, colors.Secondary).Render(content)
}

func (m *Model) formatDetails(s log.SessionSummary, width int) string {
	meta := s.Session.Metadata
	colors := m.theme.Colors()
	label := lipgloss.NewStyle().Bold(true).Foreground(colors.Accent)
	value := lipgloss.NewStyle().Foreground(colors.Primary)
	indent := lipgloss.NewStyle().MarginLeft(2)

	var b strings.Builder
	field := func(name, v string) {
		b.WriteString(label.Render(name+": ") + value.Render(v) + "\n")
	}

	field("Command", strings.Join(meta.CommandArgs, " "))
	if meta.DryRun {
		b.WriteString(m.theme.WarnStyle().Render(m.theme.Icon("dryrun")+" Dry run") + "\n")
	}
	b.WriteString("\n")
	field("Time", s.RelativeTime)
	field("Date", meta.Timestamp.Format("2006-01-02 15:04:05"))
	b.WriteString("\n")
	field("Directory", shortenPath(meta.WorkingDir, width-12))
	b.WriteString("\n")

	b.WriteString(label.Render("Operations:") + "\n")
	stats := fmt.Sprintf("ROMs deleted: %d\nFolders removed: %d\nFailed: %d", s.Deleted, s.DirsRemoved, s.Failed)
	b.WriteString(indent.Render(value.Render(stats)) + "\n\n")

	if n := len(s.Session.Operations); n > 0 {
		b.WriteString(label.Render("Recent Operations:") + "\n")
		for _, op := range s.Session.Operations[max(0, n-recentOps):] {
			b.WriteString(indent.Render(m.opIcon(op)+" "+formatOp(op, width-6)) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(label.Render("Session ID: "))
	b.WriteString(m.theme.MutedStyle().Italic(true).Render(meta.SessionID))
	return b.String()
}

func (m *Model) opIcon(op log.OperationLog) string {
	switch {
	case !op.Success:
		return m.theme.Icon("error")
	case op.Type == log.OpDelete:
		return m.theme.Icon("remove")
	case op.Type == log.OpRemoveDir:
		return m.theme.Icon("folder")
	default:
		return m.theme.Icon("unknown")
	}
}

func formatOp(op log.OperationLog, maxWidth int) string {
	var text string
	switch op.Type {
	case log.OpDelete:
		text = "Delete: " + filepath.Base(op.Path)
	case log.OpRemoveDir:
		text = "Remove: " + filepath.Base(op.Path) + "/"
	default:
		text = string(op.Type)
	}
	text = shorten(text, maxWidth)
	if !op.Success && op.Error != "" {
		text += " (failed)"
	}
	return text
}

// shorten trims s to width runes.
func shorten(s string, width int) string {
	r := []rune(s)
	if width < 4 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// shortenPath trims a path to width runes, keeping its tail.
func shortenPath(p string, width int) string {
	r := []rune(p)
	if width < 4 || len(r) <= width {
		return p
	}
	return "..." + string(r[len(r)-(width-3):])
}

// Render prints a plain listing of summaries for non-interactive output.
func Render(summaries []log.SessionSummary, th theme.Theme) string {
	if len(summaries) == 0 {
		return th.MutedStyle().Render("No cleanup sessions recorded yet") + "\n"
	}
	var b strings.Builder
	for _, s := range summaries {
		meta := s.Session.Metadata
		line := fmt.Sprintf("%s %-16s %s  deleted %d, folders %d, failed %d",
			s.Icon,
			s.RelativeTime,
			meta.Timestamp.Format("2006-01-02 15:04"),
			s.Deleted, s.DirsRemoved, s.Failed)
		if meta.DryRun {
			line += th.MutedStyle().Render(" (dry run)")
		}
		b.WriteString(line + "\n")
		if len(meta.CommandArgs) > 0 {
			b.WriteString(th.MutedStyle().Render("   "+strings.Join(meta.CommandArgs, " ")) + "\n")
		}
	}
	return b.String()
}
