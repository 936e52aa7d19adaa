package cmd

import (
	"os"

	"github.com/Digital-Shane/rom-tidy/internal/tui/theme"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rom-tidy",
	Short: "Remove duplicate No-Intro ROM dumps",
	Long: `rom-tidy cleans a No-Intro named ROM collection down to one copy per game.

Files are grouped by title (multi-disc games per disc), pre-release dumps are
dropped when a regular release exists, and the remaining releases are ranked by
region coverage, language, revision and video format. Releases that tie for the
best score are kept, reduced to one, or offered as a choice (--action).`,
	SilenceUsage: true,
}

var plainOutput bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&plainOutput, "plain", false, "Use ASCII icons and borders with basic terminal colors")
}

// currentTheme returns the theme selected by --plain.
func currentTheme() theme.Theme {
	if plainOutput {
		return theme.Plain()
	}
	return theme.Default()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether both stdin and stdout are attached to a terminal,
// which is when the full-screen indexer and picker can be used.
var isTerminal = func() bool {
	in, out := os.Stdin.Fd(), os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}
