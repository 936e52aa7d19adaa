package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/Digital-Shane/rom-tidy/internal/config"
	"github.com/Digital-Shane/rom-tidy/internal/dedupe"
	"github.com/Digital-Shane/rom-tidy/internal/log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

type flagState struct {
	action                                   string
	verbose, dryRun, tree, noMeta, pruneEmpty bool
}

// withFlags sets the dedupe flags for one test and restores them afterwards.
// It also isolates HOME and forces the non-interactive code paths.
func withFlags(t *testing.T, f flagState) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	saved := flagState{actionFlag, verbose, dryRun, showTree, noMeta, pruneEmpty}
	actionFlag, verbose, dryRun, showTree, noMeta, pruneEmpty = f.action, f.verbose, f.dryRun, f.tree, f.noMeta, f.pruneEmpty
	origTerm := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() {
		actionFlag, verbose, dryRun, showTree, noMeta, pruneEmpty = saved.action, saved.verbose, saved.dryRun, saved.tree, saved.noMeta, saved.pruneEmpty
		isTerminal = origTerm
	})
}

func newTestCommand(in string) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	c := &cobra.Command{}
	c.SetIn(strings.NewReader(in))
	c.SetOut(&out)
	c.SetErr(&errOut)
	return c, &out, &errOut
}

func writeROMs(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("rom"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		if d.IsDir() {
			rel += "/"
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(out)
	return out
}

func TestResolveAction(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		cfg     string
		verbose bool
		want    dedupe.Action
		wantErr bool
	}{
		{name: "FlagWins", flag: "one", cfg: "ask", want: dedupe.ActionKeepOne},
		{name: "ConfigUsed", cfg: "all", verbose: true, want: dedupe.ActionKeepAll},
		{name: "DefaultQuiet", want: dedupe.ActionKeepAll},
		{name: "DefaultVerbose", verbose: true, want: dedupe.ActionAsk},
		{name: "BadFlag", flag: "some", wantErr: true},
		{name: "BadConfig", cfg: "maybe", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.DefaultAction = tc.cfg
			got, err := resolveAction(tc.flag, cfg, tc.verbose)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("resolveAction(%q, %q) error = nil, want error", tc.flag, tc.cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveAction(%q, %q) error = %v", tc.flag, tc.cfg, err)
			}
			if got != tc.want {
				t.Errorf("resolveAction(%q, %q) = %v, want %v", tc.flag, tc.cfg, got, tc.want)
			}
		})
	}
}

func TestRunDedupeCommandDeletesAndCleans(t *testing.T) {
	withFlags(t, flagState{action: "one", noMeta: true, pruneEmpty: true, tree: true})
	root := t.TempDir()
	writeROMs(t, root,
		"md/Sonic (Europe).md",
		"md/Sonic (USA).md",
		"gb/Tetris (World).gb",
		"gb/Thumbs.db",
		"nes/Mario (Europe) (En).nes",
		"nes/Mario (Europe) (Fr).nes",
		"old/Zelda (USA) (Beta).sfc",
		"old/.DS_Store",
		"snes/Zelda (USA).sfc",
	)

	c, out, _ := newTestCommand("")
	if err := runDedupeCommand(c, []string{root}); err != nil {
		t.Fatalf("runDedupeCommand() error = %v", err)
	}

	want := []string{
		"gb/",
		"gb/Tetris (World).gb",
		"md/",
		"md/Sonic (USA).md",
		"nes/",
		"nes/Mario (Europe) (En).nes",
		"snes/",
		"snes/Zelda (USA).sfc",
	}
	if diff := cmp.Diff(want, listFiles(t, root)); diff != "" {
		t.Errorf("remaining files mismatch (-want +got):\n%s", diff)
	}

	got := out.String()
	for _, s := range []string{
		"Total ROMs: 7",
		"Actual games: 4",
		"Removed: 3",
		"Total ROMs after duplicates removal: 4",
		"Metadata files removed: 2",
		"Empty folders removed: 1",
		"Sonic (best release)",
	} {
		if !strings.Contains(got, s) {
			t.Errorf("output missing %q:\n%s", s, got)
		}
	}

	sessions, err := log.ReadSessions(0)
	if err != nil {
		t.Fatalf("ReadSessions() error = %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("ReadSessions() = %d sessions, want 1", len(sessions))
	}
	// 3 ROMs, 2 meta files, 1 folder
	if n := len(sessions[0].Operations); n != 6 {
		t.Errorf("logged %d operations, want 6", n)
	}
}

func TestRunDedupeCommandDryRun(t *testing.T) {
	withFlags(t, flagState{action: "all", dryRun: true, noMeta: true, verbose: true})
	root := t.TempDir()
	files := []string{"Sonic (Europe).md", "Sonic (USA).md", "Thumbs.db"}
	writeROMs(t, root, files...)

	c, out, _ := newTestCommand("")
	if err := runDedupeCommand(c, []string{root}); err != nil {
		t.Fatalf("runDedupeCommand() error = %v", err)
	}
	if diff := cmp.Diff(files, listFiles(t, root)); diff != "" {
		t.Errorf("dry run touched files (-want +got):\n%s", diff)
	}
	for _, s := range []string{"Sonic (Europe).md (dry run)", "Would remove: 1", "Dry run: no files were deleted"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("output missing %q:\n%s", s, out.String())
		}
	}

	sessions, err := log.ReadSessions(0)
	if err != nil || len(sessions) != 1 {
		t.Fatalf("ReadSessions() = %d sessions, %v; want 1", len(sessions), err)
	}
	if !sessions[0].Metadata.DryRun {
		t.Error("session DryRun = false, want true")
	}
}

func TestRunDedupeCommandAskReadsStdin(t *testing.T) {
	withFlags(t, flagState{action: "ask"})
	root := t.TempDir()
	writeROMs(t, root, "Mario (Europe) (En).nes", "Mario (Europe) (Fr).nes")

	c, out, _ := newTestCommand("x\n2\n")
	if err := runDedupeCommand(c, []string{root}); err != nil {
		t.Fatalf("runDedupeCommand() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Mario (Europe) (Fr).nes"}, listFiles(t, root)); diff != "" {
		t.Errorf("remaining files mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.String(), "Invalid input. Please enter a number.") {
		t.Errorf("expected a re-prompt:\n%s", out.String())
	}
}

func TestRunDedupeCommandAskEOFKeepsAll(t *testing.T) {
	withFlags(t, flagState{action: "ask"})
	root := t.TempDir()
	files := []string{"Mario (Europe) (En).nes", "Mario (Europe) (Fr).nes"}
	writeROMs(t, root, files...)

	c, _, errOut := newTestCommand("")
	if err := runDedupeCommand(c, []string{root}); err != nil {
		t.Fatalf("runDedupeCommand() error = %v", err)
	}
	if diff := cmp.Diff(files, listFiles(t, root)); diff != "" {
		t.Errorf("remaining files mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(errOut.String(), "keeping all") {
		t.Errorf("expected a warning on stderr, got %q", errOut.String())
	}
}

func TestRunDedupeCommandRejectsBadInput(t *testing.T) {
	withFlags(t, flagState{})
	file := filepath.Join(t.TempDir(), "a.bin")
	writeROMs(t, filepath.Dir(file), "a.bin")

	tests := []struct {
		name string
		args []string
		flag string
	}{
		{"Missing", []string{filepath.Join(t.TempDir(), "nope")}, ""},
		{"NotADirectory", []string{file}, ""},
		{"BadAction", []string{t.TempDir()}, "sometimes"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actionFlag = tc.flag
			c, _, _ := newTestCommand("")
			if err := runDedupeCommand(c, tc.args); err == nil {
				t.Errorf("runDedupeCommand(%v) error = nil, want error", tc.args)
			}
		})
	}
}

func TestRunDedupeCommandInteractiveIndexCanceled(t *testing.T) {
	withFlags(t, flagState{})
	isTerminal = func() bool { return true }
	orig := runIndexer
	runIndexer = func(string) ([]string, error) { return nil, errIndexCanceled }
	t.Cleanup(func() { runIndexer = orig })

	root := t.TempDir()
	writeROMs(t, root, "Sonic (Europe).md", "Sonic (USA).md")
	c, out, _ := newTestCommand("")
	if err := runDedupeCommand(c, []string{root}); err != nil {
		t.Fatalf("runDedupeCommand() error = %v", err)
	}
	if !strings.Contains(out.String(), "Indexing canceled") {
		t.Errorf("output = %q, want cancel notice", out.String())
	}
	if len(listFiles(t, root)) != 2 {
		t.Error("files were deleted after a canceled index")
	}
}

func TestHistoryCommand(t *testing.T) {
	withFlags(t, flagState{action: "one"})
	root := t.TempDir()
	writeROMs(t, root, "Sonic (Europe).md", "Sonic (USA).md")
	c, _, _ := newTestCommand("")
	if err := runDedupeCommand(c, []string{root}); err != nil {
		t.Fatalf("runDedupeCommand() error = %v", err)
	}

	hc, out, _ := newTestCommand("")
	if err := runHistoryCommand(hc, nil); err != nil {
		t.Fatalf("runHistoryCommand() error = %v", err)
	}
	if !strings.Contains(out.String(), "deleted 1, folders 0, failed 0") {
		t.Errorf("history output = %q", out.String())
	}

	isTerminal = func() bool { return true }
	var ran tea.Model
	orig := runHistoryProgram
	runHistoryProgram = func(m tea.Model) error { ran = m; return nil }
	t.Cleanup(func() { runHistoryProgram = orig })
	if err := runHistoryCommand(hc, nil); err != nil {
		t.Fatalf("runHistoryCommand() error = %v", err)
	}
	if ran == nil {
		t.Error("history browser was not started in a terminal")
	}
}

func TestHistoryCommandEmpty(t *testing.T) {
	withFlags(t, flagState{})
	c, out, _ := newTestCommand("")
	if err := runHistoryCommand(c, nil); err != nil {
		t.Fatalf("runHistoryCommand() error = %v", err)
	}
	if !strings.Contains(out.String(), "No cleanup sessions recorded yet") {
		t.Errorf("history output = %q", out.String())
	}
}

func TestConfigCommands(t *testing.T) {
	withFlags(t, flagState{})

	c, out, _ := newTestCommand("")
	if err := runConfigSet(c, []string{"default_action", "one"}); err != nil {
		t.Fatalf("config set error = %v", err)
	}
	if got := out.String(); got != "default_action = one\n" {
		t.Errorf("config set output = %q", got)
	}
	if err := runConfigSet(c, []string{"log_retention_days", "-1"}); err == nil {
		t.Error("config set with a negative retention should fail")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	if cfg.DefaultAction != "one" {
		t.Errorf("saved DefaultAction = %q, want one", cfg.DefaultAction)
	}

	show, showOut, _ := newTestCommand("")
	if err := configShowCmd.RunE(show, nil); err != nil {
		t.Fatalf("config show error = %v", err)
	}
	for _, key := range config.Keys {
		if !strings.Contains(showOut.String(), key) {
			t.Errorf("config show missing %q:\n%s", key, showOut.String())
		}
	}

	pc, pathOut, _ := newTestCommand("")
	if err := configPathCmd.RunE(pc, nil); err != nil {
		t.Fatalf("config path error = %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(pathOut.String()), filepath.Join(".rom-tidy", "config.json")) {
		t.Errorf("config path = %q", pathOut.String())
	}
}

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"dedupe", "history", "config"} {
		if !names[want] {
			t.Errorf("root command missing %q", want)
		}
	}
	if diff := cmp.Diff([]string{"clean"}, dedupeCmd.Aliases); diff != "" {
		t.Errorf("dedupe aliases mismatch (-want +got):\n%s", diff)
	}
	for _, flag := range []string{"action", "log", "dry-run", "tree", "no-meta", "prune-empty"} {
		if dedupeCmd.Flags().Lookup(flag) == nil {
			t.Errorf("dedupe flag --%s not registered", flag)
		}
	}
}

func TestCurrentThemeHonorsPlainFlag(t *testing.T) {
	if rootCmd.PersistentFlags().Lookup("plain") == nil {
		t.Fatal("root flag --plain not registered")
	}
	saved := plainOutput
	t.Cleanup(func() { plainOutput = saved })

	plainOutput = true
	if got, want := currentTheme().Icon("keep"), "[+]"; got != want {
		t.Errorf("plain theme Icon(keep) = %q, want %q", got, want)
	}
}
