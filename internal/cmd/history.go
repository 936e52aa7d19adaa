package cmd

import (
	"fmt"

	"github.com/Digital-Shane/rom-tidy/internal/log"
	"github.com/Digital-Shane/rom-tidy/internal/tui/history"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent cleanup sessions",
	Long: `Display the operation log of recent dedupe runs: when they ran, where,
and which files were deleted.

Deleted ROMs are gone for good; the log is a record, not an undo list.`,
	Args: cobra.NoArgs,
	RunE: runHistoryCommand,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of sessions to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

// runHistoryProgram runs the history browser. Tests replace it.
var runHistoryProgram = func(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

func runHistoryCommand(cmd *cobra.Command, _ []string) error {
	summaries, err := log.GetSessionSummaries(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read log sessions: %w", err)
	}

	th := currentTheme()
	if len(summaries) == 0 || !isTerminal() {
		fmt.Fprint(cmd.OutOrStdout(), history.Render(summaries, th))
		return nil
	}
	return runHistoryProgram(history.New(history.NewTree(summaries), history.WithTheme(th)))
}
