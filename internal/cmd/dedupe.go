package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/Digital-Shane/rom-tidy/internal/config"
	"github.com/Digital-Shane/rom-tidy/internal/core"
	"github.com/Digital-Shane/rom-tidy/internal/dedupe"
	"github.com/Digital-Shane/rom-tidy/internal/log"
	"github.com/Digital-Shane/rom-tidy/internal/scan"
	"github.com/Digital-Shane/rom-tidy/internal/tui/pick"
	"github.com/Digital-Shane/rom-tidy/internal/tui/progress"
	"github.com/Digital-Shane/rom-tidy/internal/tui/report"
	"github.com/Digital-Shane/rom-tidy/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const (
	barWidth  = 40
	treeWidth = 100
)

var errIndexCanceled = errors.New("indexing canceled")

var (
	actionFlag string
	verbose    bool
	dryRun     bool
	showTree   bool
	noMeta     bool
	pruneEmpty bool
)

var dedupeCmd = &cobra.Command{
	Use:     "dedupe [dir]",
	Aliases: []string{"clean"},
	Short:   "Delete duplicate ROMs, keeping the best release of each game",
	Long: `Scan dir (default: the current directory) recursively and delete every
ROM that is not the best dump of its game.

Pre-release dumps (Beta, Proto, Sample, Demo) are removed whenever a regular
release exists; otherwise only the latest pre-release is kept. Deletions are
permanent. Use --dry-run to preview.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDedupeCommand,
}

func init() {
	dedupeCmd.Flags().StringVarP(&actionFlag, "action", "a", "", "What to do with tied releases: ask, all, or one")
	dedupeCmd.Flags().BoolVarP(&verbose, "log", "l", false, "Print every group decision (default action becomes ask)")
	dedupeCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be deleted without deleting anything")
	dedupeCmd.Flags().BoolVar(&showTree, "tree", false, "Print a tree of every duplicate group after the run")
	dedupeCmd.Flags().BoolVar(&noMeta, "no-meta", false, "Delete desktop.ini, Thumbs.db and .DS_Store files")
	dedupeCmd.Flags().BoolVar(&pruneEmpty, "prune-empty", false, "Remove folders left empty after cleaning")
	rootCmd.AddCommand(dedupeCmd)
}

// resolveAction applies flag > config > DefaultAction precedence. An empty
// flag value means the flag was not given.
func resolveAction(flag string, cfg *config.Config, verbose bool) (dedupe.Action, error) {
	if flag != "" {
		return dedupe.ParseAction(flag)
	}
	a, ok, err := cfg.Action()
	if err != nil {
		return 0, err
	}
	if ok {
		return a, nil
	}
	return dedupe.DefaultAction(verbose), nil
}

func runDedupeCommand(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if info, err := os.Stat(dir); err != nil {
		return fmt.Errorf("cannot read ROM directory: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	action, err := resolveAction(actionFlag, cfg, verbose)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	log.Initialize(cfg.EnableLogging, cfg.LogRetentionDays)
	if err := log.StartSession("dedupe", args, dryRun); err != nil {
		fmt.Fprintf(stderr, "Warning: operation log unavailable: %v\n", err)
	}
	defer func() {
		if err := log.EndSession(); err != nil {
			fmt.Fprintf(stderr, "Warning: failed to save operation log: %v\n", err)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	interactive := isTerminal()
	paths, err := indexROMs(ctx, dir, interactive)
	if errors.Is(err, errIndexCanceled) {
		fmt.Fprintln(cmd.OutOrStdout(), "Indexing canceled, nothing was deleted.")
		return nil
	}
	if err != nil {
		return err
	}

	th := currentTheme()
	out := cmd.OutOrStdout()
	r := newResolver(action, interactive, th, cmd.InOrStdin(), out, stderr)
	res := r.Run(ctx, paths)

	cleanup := runCleanup(dir, cfg, stderr)
	fmt.Fprintln(out, report.Summary(res, cleanup, dryRun, th))
	if showTree {
		fmt.Fprintln(out, report.Tree(res, false, th, treeWidth))
	}

	if n := res.FailedCount(); n > 0 {
		return fmt.Errorf("%d file(s) could not be deleted", n)
	}
	return nil
}

func newResolver(action dedupe.Action, interactive bool, th theme.Theme, in io.Reader, out, stderr io.Writer) *dedupe.Resolver {
	r := &dedupe.Resolver{
		Action: action,
		Remove: core.DeleteFile,
		Stderr: stderr,
	}
	if dryRun {
		r.Remove = core.DryRunRemove
	}
	if verbose {
		r.Reporter = report.NewConsole(out, th, dryRun)
	} else {
		r.Reporter = report.NewBar(out, th, barWidth)
	}
	if action == dedupe.ActionAsk {
		if interactive {
			r.Chooser = &pick.Chooser{Theme: th}
		} else {
			r.Chooser = dedupe.NewLineChooser(in, out)
		}
	}
	return r
}

// runCleanup performs the optional housekeeping passes. Nothing runs on a
// dry run.
func runCleanup(dir string, cfg *config.Config, stderr io.Writer) report.Cleanup {
	var c report.Cleanup
	if dryRun {
		return c
	}
	if noMeta || cfg.RemoveMetaFiles {
		n, errs := core.RemoveMetaFiles(dir)
		c.MetaFiles = n
		warnAll(stderr, errs)
	}
	if pruneEmpty || cfg.PruneEmptyDirs {
		n, errs := core.PruneEmptyDirs(dir)
		c.EmptyDirs = n
		warnAll(stderr, errs)
	}
	return c
}

func warnAll(w io.Writer, errs []error) {
	for _, err := range errs {
		fmt.Fprintf(w, "Warning: %v\n", err)
	}
}

// indexROMs lists candidate files below dir, showing the full-screen indexer
// when attached to a terminal.
func indexROMs(ctx context.Context, dir string, interactive bool) ([]string, error) {
	if !interactive {
		return scan.Files(ctx, dir)
	}
	return runIndexer(dir)
}

var runIndexer = func(dir string) ([]string, error) {
	idxModel := progress.NewIndexProgressModel(dir, currentTheme())
	finalModel, err := tea.NewProgram(idxModel, tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}
	im, ok := finalModel.(*progress.IndexProgressModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T after indexing", finalModel)
	}
	if im.Canceled() {
		return nil, errIndexCanceled
	}
	if err := im.Err(); err != nil {
		return nil, fmt.Errorf("index %s: %w", dir, err)
	}
	return im.Paths()
}
