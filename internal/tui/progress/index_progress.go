package progress

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Digital-Shane/rom-tidy/internal/scan"
	"github.com/Digital-Shane/rom-tidy/internal/tui/theme"
	"github.com/Digital-Shane/treeview"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// IndexProgressModel displays a full-screen progress UI while the ROM
// directory is indexed into a tree. Once complete the caller extracts the
// candidate paths and hands them to the resolver.
type IndexProgressModel struct {
	// config
	path       string
	totalRoots int

	// indexing progress
	processedRoots int
	romsFound      int
	indexingDone   bool
	canceled       bool

	// layout
	width  int
	height int

	// tree building + error
	ctx    context.Context
	cancel context.CancelFunc
	tree   *treeview.Tree[treeview.FileInfo]
	err    error

	// progress components
	progress progress.Model
	msgCh    chan tea.Msg
	rootPath string

	theme theme.Theme
}

// indexCounts is a snapshot of the builder's counters. The builder goroutine
// owns the live values; the model only sees copies delivered as messages.
type indexCounts struct {
	processedRoots int
	romsFound      int
}

// indexProgressMsg updates counters.
type indexProgressMsg struct{ indexCounts }

// indexCompleteMsg signals completion with the final counters and result.
type indexCompleteMsg struct {
	indexCounts
	tree *treeview.Tree[treeview.FileInfo]
	err  error
}

type treeBuilderFunc func(context.Context, string, bool, ...treeview.Option[treeview.FileInfo]) (*treeview.Tree[treeview.FileInfo], error)

var indexProgressTreeBuilder treeBuilderFunc = treeview.NewTreeFromFileSystem

// NewIndexProgressModel creates a model and pre computes the top level entry
// count used as the progress denominator.
func NewIndexProgressModel(path string, th theme.Theme) *IndexProgressModel {
	entries, _ := os.ReadDir(path)
	total := max(len(entries), 1)
	gradient := th.ProgressGradient()
	if len(gradient) < 2 {
		colors := th.Colors()
		gradient = []string{string(colors.Primary), string(colors.Accent)}
	}
	p := progress.New(progress.WithGradient(gradient[0], gradient[1]))
	p.Width = 50
	rootPath, _ := filepath.Abs(path)
	ctx, cancel := context.WithCancel(context.Background())
	return &IndexProgressModel{
		path:       path,
		totalRoots: total,
		width:      80,
		height:     12,
		ctx:        ctx,
		cancel:     cancel,
		progress:   p,
		msgCh:      make(chan tea.Msg, 64),
		rootPath:   rootPath,
		theme:      th,
	}
}

// Init kicks off asynchronous tree building.
func (m *IndexProgressModel) Init() tea.Cmd {
	go m.buildTreeAsync()
	return m.waitForMsg()
}

func (m *IndexProgressModel) waitForMsg() tea.Cmd { return func() tea.Msg { return <-m.msgCh } }

// buildTreeAsync runs on its own goroutine and touches no model state beyond
// the read-only path, context and channel.
func (m *IndexProgressModel) buildTreeAsync() {
	var counts indexCounts
	seen := make(map[string]struct{})
	opts := append(scan.Options(m.path),
		treeview.WithProgressCallback[treeview.FileInfo](func(_ int, n *treeview.Node[treeview.FileInfo]) {
			parent, _ := filepath.Abs(filepath.Dir(n.Data().Path))
			if parent == m.rootPath {
				name := n.Data().Name()
				if _, ok := seen[name]; !ok {
					seen[name] = struct{}{}
					counts.processedRoots++
				}
			}
			if !n.Data().IsDir() {
				counts.romsFound++
			}
			select {
			case m.msgCh <- indexProgressMsg{counts}:
			default:
			}
		}),
	)
	t, err := indexProgressTreeBuilder(m.ctx, m.path, false, opts...)
	m.msgCh <- indexCompleteMsg{indexCounts: counts, tree: t, err: err}
}

func (m *IndexProgressModel) applyCounts(c indexCounts) tea.Cmd {
	m.processedRoots, m.romsFound = c.processedRoots, c.romsFound
	ratio := math.Min(float64(m.processedRoots)/float64(m.totalRoots), 1)
	return m.progress.SetPercent(ratio)
}

// Update processes Bubble Tea messages.
func (m *IndexProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.progress.Width = msg.Width - 4
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "esc" {
			m.canceled = true
			m.cancel()
			return m, tea.Quit
		}
	case indexProgressMsg:
		cmd := m.applyCounts(msg.indexCounts)
		// Always continue waiting so we can receive indexCompleteMsg.
		return m, tea.Batch(cmd, m.waitForMsg())
	case indexCompleteMsg:
		m.applyCounts(msg.indexCounts)
		m.tree, m.err = msg.tree, msg.err
		m.indexingDone = true
		return m, tea.Quit
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// View renders the progress UI.
func (m *IndexProgressModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}
	percent := 100 * m.processedRoots / m.totalRoots

	statsLines := []string{
		fmt.Sprintf("%s Top-level entries: %d", m.theme.Icon("folder"), m.totalRoots),
		fmt.Sprintf("%s ROMs found: %d", m.theme.Icon("rom"), m.romsFound),
		fmt.Sprintf("%s Progress: %d%%", m.theme.Icon("stats"), percent),
	}

	panel := m.theme.PanelStyle()
	panelWidth := max(m.width-panel.GetHorizontalFrameSize(), 0)

	sections := []string{
		m.theme.HeaderStyle().Width(m.width).Render("Indexing ROM Library"),
		m.progress.View(),
		fmt.Sprintf("Entries processed: %d/%d  ROMs found: %d", m.processedRoots, m.totalRoots, m.romsFound),
		panel.Width(panelWidth).Render(strings.Join(statsLines, "\n")),
		m.theme.StatusBarStyle().Width(m.width).Render("Indexing... press esc to cancel"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Tree returns the constructed tree.
func (m *IndexProgressModel) Tree() *treeview.Tree[treeview.FileInfo] { return m.tree }

// Paths returns every indexed ROM path.
func (m *IndexProgressModel) Paths() ([]string, error) {
	return scan.Collect(context.Background(), m.tree)
}

// Err returns any build error.
func (m *IndexProgressModel) Err() error { return m.err }

// Canceled reports whether the user aborted indexing.
func (m *IndexProgressModel) Canceled() bool { return m.canceled }
