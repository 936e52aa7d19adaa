package dedupe

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Action selects what happens to releases that tie for the best score.
type Action int

const (
	ActionKeepAll Action = iota // Keep every tied release
	ActionKeepOne               // Keep the lexicographically smallest path
	ActionAsk                   // Ask the user to pick one (or keep all)
)

func (a Action) String() string {
	switch a {
	case ActionKeepAll:
		return "all"
	case ActionKeepOne:
		return "one"
	case ActionAsk:
		return "ask"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ParseAction accepts the CLI spellings "ask", "all" and "one".
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ask":
		return ActionAsk, nil
	case "all":
		return ActionKeepAll, nil
	case "one":
		return ActionKeepOne, nil
	}
	return 0, fmt.Errorf("unknown action %q (must be ask, all, or one)", s)
}

// DefaultAction asks when the user is watching verbose output and keeps every
// tied release otherwise.
func DefaultAction(verbose bool) Action {
	if verbose {
		return ActionAsk
	}
	return ActionKeepAll
}

// Chooser picks one of the tied files for ActionAsk. names is presented as a
// 1-based list; the returned index is 0 to keep all, or k to keep names[k-1].
type Chooser interface {
	Choose(key string, names []string) (int, error)
}

// ChooserFunc adapts a plain function to Chooser.
type ChooserFunc func(key string, names []string) (int, error)

func (f ChooserFunc) Choose(key string, names []string) (int, error) { return f(key, names) }

// LineChooser prompts on Out and reads one line at a time from In until it
// gets an integer in range. It only gives up when In is exhausted.
type LineChooser struct {
	In  io.Reader
	Out io.Writer

	scanner *bufio.Scanner
}

// NewLineChooser builds a console prompt over in/out.
func NewLineChooser(in io.Reader, out io.Writer) *LineChooser {
	return &LineChooser{In: in, Out: out}
}

func (c *LineChooser) Choose(key string, names []string) (int, error) {
	if c.scanner == nil {
		c.scanner = bufio.NewScanner(c.In)
	}
	fmt.Fprintf(c.Out, "Can't decide which one is the best for %q. Please select one to keep:\n", key)
	for i, name := range names {
		fmt.Fprintf(c.Out, " %d. %s\n", i+1, name)
	}
	for {
		fmt.Fprint(c.Out, "Enter the number of the file to keep (0 to keep all): ")
		if !c.scanner.Scan() {
			if err := c.scanner.Err(); err != nil {
				return 0, fmt.Errorf("read selection: %w", err)
			}
			return 0, io.ErrUnexpectedEOF
		}
		n, err := strconv.Atoi(strings.TrimSpace(c.scanner.Text()))
		if err != nil {
			fmt.Fprintln(c.Out, "Invalid input. Please enter a number.")
			continue
		}
		if n < 0 || n > len(names) {
			fmt.Fprintf(c.Out, "Please enter a number between 0 and %d.\n", len(names))
			continue
		}
		return n, nil
	}
}
