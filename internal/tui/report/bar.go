package report

import (
	"fmt"
	"io"

	"github.com/Digital-Shane/rom-tidy/internal/dedupe"
	"github.com/Digital-Shane/rom-tidy/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
)

const barLabel = "Cleaning Duplicates"

// Bar redraws a single progress line as groups are resolved. It is the quiet
// counterpart of Console.
type Bar struct {
	Out   io.Writer
	theme theme.Theme
	bar   progress.Model
}

// NewBar returns a progress bar reporter of the given width.
func NewBar(out io.Writer, th theme.Theme, width int) *Bar {
	gradient := th.ProgressGradient()
	bar := progress.New(progress.WithGradient(gradient[0], gradient[1]))
	if width > 0 {
		bar.Width = width
	}
	return &Bar{Out: out, theme: th, bar: bar}
}

// Start prints the library totals above the bar.
func (b *Bar) Start(total, groups int) {
	writeHeader(b.Out, b.theme, total, groups)
}

// GroupResolved advances the bar. Warnings about failed deletions are left to
// the resolver's stderr output.
func (b *Bar) GroupResolved(index, total int, _ dedupe.Decision) {
	if total <= 0 {
		return
	}
	pct := float64(index) / float64(total)
	fmt.Fprintf(b.Out, "\r%s %s %d/%d", barLabel, b.bar.ViewAs(pct), index, total)
	if index >= total {
		fmt.Fprintln(b.Out)
	}
}
