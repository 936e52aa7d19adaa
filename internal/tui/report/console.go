// Package report renders resolver progress and results for the terminal.
package report

import (
	"fmt"
	"io"

	"github.com/Digital-Shane/rom-tidy/internal/dedupe"
	"github.com/Digital-Shane/rom-tidy/internal/rom"
	"github.com/Digital-Shane/rom-tidy/internal/tui/theme"
)

// Console prints a line-by-line account of every group as it is resolved.
type Console struct {
	Out    io.Writer
	Theme  theme.Theme
	DryRun bool
}

// NewConsole returns a verbose reporter writing to out.
func NewConsole(out io.Writer, th theme.Theme, dryRun bool) *Console {
	return &Console{Out: out, Theme: th, DryRun: dryRun}
}

// Start prints the library totals.
func (c *Console) Start(total, groups int) {
	writeHeader(c.Out, c.Theme, total, groups)
}

// GroupResolved prints the decision for one group.
func (c *Console) GroupResolved(index, total int, d dedupe.Decision) {
	p := c.Theme.MutedStyle().Render(fmt.Sprintf("(%d/%d)", index, total)) + " "
	kept := winners(d)

	switch d.Outcome {
	case dedupe.OutcomeSingle:
		c.line(p, "Single ROM: %s", c.keep(kept[0].Name))

	case dedupe.OutcomeLatestBeta:
		for _, name := range c.lost(d, dedupe.ReasonEarlierBeta) {
			c.line(p, "Removing earlier Beta: %s", name)
		}
		c.line(p, "Latest Beta: %s", c.keep(kept[0].Name))

	default:
		if betas := c.lost(d, dedupe.ReasonBeta); len(betas) > 0 {
			c.line(p, "Removing all Betas:")
			for _, name := range betas {
				c.line(p, "  %s", name)
			}
			releases := releaseNames(d)
			c.line(p, " | >> Has %d release(s):", len(releases))
			for _, name := range releases {
				c.line(p, "  %s", c.keep(name))
			}
		}
		c.releases(p, d, kept)
	}

	for _, f := range d.Failed {
		c.line(p, "%s %s: %v", c.Theme.WarnStyle().Render("Could not delete"), f.Entry.Name, f.Err)
	}
}

func (c *Console) releases(p string, d dedupe.Decision, kept []rom.Entry) {
	for _, name := range c.lost(d, dedupe.ReasonOutscored) {
		c.line(p, "Removing duplicate: %s", name)
	}

	switch d.Outcome {
	case dedupe.OutcomeSingleRelease:
		c.line(p, "Single release ROM: %s", c.keep(kept[0].Name))
	case dedupe.OutcomeBestRelease:
		c.line(p, "Best ROM: %s", c.keep(kept[0].Name))
	case dedupe.OutcomeTieKeptAll:
		c.line(p, "Keeping all best ROMs:")
		for _, e := range kept {
			c.line(p, "  %s", c.keep(e.Name))
		}
	case dedupe.OutcomeTieKeptOne:
		c.line(p, "Removing duplicate(s):")
		for _, name := range c.lost(d, dedupe.ReasonTieBreak) {
			c.line(p, "  %s", name)
		}
		c.line(p, "| >> Keeping one: %s", c.keep(kept[0].Name))
		c.line(p, "Best ROM: %s", c.keep(kept[0].Name))
	case dedupe.OutcomeFallback:
		c.line(p, "%s", c.Theme.WarnStyle().Render("No best ROM, keeping all:"))
		for _, e := range kept {
			c.line(p, "  %s", e.Name)
		}
	}
}

func (c *Console) line(prefix, format string, args ...any) {
	fmt.Fprint(c.Out, prefix)
	fmt.Fprintf(c.Out, format, args...)
	fmt.Fprintln(c.Out)
}

func (c *Console) keep(name string) string {
	return c.Theme.KeepStyle().Render(name)
}

// lost returns the styled names removed for reason, failed deletions included.
func (c *Console) lost(d dedupe.Decision, reason dedupe.Reason) []string {
	var names []string
	for _, r := range d.Removed {
		if r.Reason != reason {
			continue
		}
		name := c.Theme.RemoveStyle().Render(r.Entry.Name)
		if c.DryRun {
			name += c.Theme.MutedStyle().Render(" (dry run)")
		}
		names = append(names, name)
	}
	for _, f := range d.Failed {
		if f.Reason == reason {
			names = append(names, c.Theme.WarnStyle().Render(f.Entry.Name))
		}
	}
	return names
}

// winners returns the kept entries that were chosen, leaving out files that
// survived only because their deletion failed.
func winners(d dedupe.Decision) []rom.Entry {
	failed := make(map[string]struct{}, len(d.Failed))
	for _, f := range d.Failed {
		failed[f.Entry.Path] = struct{}{}
	}
	var out []rom.Entry
	for _, e := range d.Kept {
		if _, ok := failed[e.Path]; !ok {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return d.Kept
	}
	return out
}

// releaseNames lists every regular release that took part in the group.
func releaseNames(d dedupe.Decision) []string {
	var names []string
	for _, e := range winners(d) {
		names = append(names, e.Name)
	}
	for _, r := range d.Removed {
		if r.Reason == dedupe.ReasonOutscored || r.Reason == dedupe.ReasonTieBreak {
			names = append(names, r.Entry.Name)
		}
	}
	for _, f := range d.Failed {
		if f.Reason == dedupe.ReasonOutscored || f.Reason == dedupe.ReasonTieBreak {
			names = append(names, f.Entry.Name)
		}
	}
	return names
}

func writeHeader(out io.Writer, th theme.Theme, total, groups int) {
	fmt.Fprintln(out, th.PanelTitleStyle().Render(">> Removing duplicates safely..."))
	fmt.Fprintf(out, "Total ROMs: %d\n", total)
	fmt.Fprintf(out, "Actual games: %d\n", groups)
}
