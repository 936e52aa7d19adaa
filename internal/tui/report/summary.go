package report

import (
	"fmt"
	"strings"

	"github.com/Digital-Shane/rom-tidy/internal/dedupe"
	"github.com/Digital-Shane/rom-tidy/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Cleanup counts the housekeeping that ran after deduplication.
type Cleanup struct {
	MetaFiles int
	EmptyDirs int
}

// Summary renders the end-of-run statistics panel.
func Summary(res dedupe.Result, cleanup Cleanup, dryRun bool, th theme.Theme) string {
	label := lipgloss.NewStyle().Bold(true).Foreground(th.Colors().Accent)
	row := func(name string, value int) string {
		return label.Render(name+":") + " " + fmt.Sprint(value)
	}

	removed := "Removed"
	if dryRun {
		removed = "Would remove"
	}

	lines := []string{
		th.PanelTitleStyle().Render(th.Icon("stats")+" Summary") + " " + statusBadge(res, dryRun, th),
		"",
		row("Total ROMs", res.Total),
		row("Actual games", res.Groups),
		row(removed, res.RemovedCount()),
	}
	if n := res.FailedCount(); n > 0 {
		lines = append(lines, th.WarnStyle().Render(fmt.Sprintf("Failed deletions: %d", n)))
	}
	if cleanup.MetaFiles > 0 {
		lines = append(lines, row("Metadata files removed", cleanup.MetaFiles))
	}
	if cleanup.EmptyDirs > 0 {
		lines = append(lines, row("Empty folders removed", cleanup.EmptyDirs))
	}
	lines = append(lines, row("Total ROMs after duplicates removal", len(res.Survivors)))
	if res.Canceled {
		lines = append(lines, th.WarnStyle().Render(fmt.Sprintf("Canceled after %d of %d games", len(res.Decisions), res.Groups)))
	}
	if dryRun {
		lines = append(lines, th.MutedStyle().Render("Dry run: no files were deleted"))
	}

	return th.PanelStyle().Render(strings.Join(lines, "\n"))
}

// statusBadge labels the run's overall outcome. Failures outrank
// cancellation, which outranks a dry run.
func statusBadge(res dedupe.Result, dryRun bool, th theme.Theme) string {
	kind, text := theme.BadgeSuccess, "CLEAN"
	switch {
	case res.FailedCount() > 0:
		kind, text = theme.BadgeError, "FAILED"
	case res.Canceled:
		kind, text = theme.BadgeWarning, "CANCELED"
	case dryRun:
		kind, text = theme.BadgeInfo, "DRY RUN"
	case res.RemovedCount() == 0:
		kind, text = theme.BadgeMuted, "NO DUPLICATES"
	}
	return th.BadgeStyle(kind).Render(text)
}
