package dedupe

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/Digital-Shane/rom-tidy/internal/rom"
)

// Outcome describes how a group was settled.
type Outcome int

const (
	OutcomeSingle        Outcome = iota // Only file in its group
	OutcomeLatestBeta                   // Best of several pre-release dumps
	OutcomeSingleRelease                // One regular release left after dropping pre-releases
	OutcomeBestRelease                  // Unique best regular release
	OutcomeTieKeptAll                   // Tied releases all kept
	OutcomeTieKeptOne                   // Tie narrowed to one release
	OutcomeFallback                     // No winner could be picked; the candidates were kept
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSingle:
		return "single"
	case OutcomeLatestBeta:
		return "latest beta"
	case OutcomeSingleRelease:
		return "single release"
	case OutcomeBestRelease:
		return "best release"
	case OutcomeTieKeptAll:
		return "tie, kept all"
	case OutcomeTieKeptOne:
		return "tie, kept one"
	case OutcomeFallback:
		return "fallback"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Reason explains why a file was removed.
type Reason int

const (
	ReasonBeta        Reason = iota // Pre-release dropped because a regular release exists
	ReasonEarlierBeta               // Pre-release outranked by another pre-release
	ReasonOutscored                 // Regular release outranked
	ReasonTieBreak                  // Tied release that was not chosen
)

func (r Reason) String() string {
	switch r {
	case ReasonBeta:
		return "pre-release"
	case ReasonEarlierBeta:
		return "earlier pre-release"
	case ReasonOutscored:
		return "outscored"
	case ReasonTieBreak:
		return "tie-break"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Removal is a file deleted from disk.
type Removal struct {
	Entry  rom.Entry
	Reason Reason
}

// Failure is a file that lost but could not be deleted. It is counted as kept.
type Failure struct {
	Entry  rom.Entry
	Reason Reason
	Err    error
}

// Decision is the resolution of one group.
type Decision struct {
	Key     string
	Outcome Outcome
	Kept    []rom.Entry
	Removed []Removal
	Failed  []Failure
}

// Result summarizes a whole run.
type Result struct {
	Total     int
	Groups    int
	Decisions []Decision
	// Survivors are the kept paths in the order the caller supplied them.
	Survivors []string
	// Canceled is set when the context ended before every group was resolved.
	// Unresolved groups are left untouched and all of their files survive.
	Canceled bool
}

// RemovedCount returns the number of files deleted from disk.
func (r Result) RemovedCount() int {
	n := 0
	for _, d := range r.Decisions {
		n += len(d.Removed)
	}
	return n
}

// FailedCount returns the number of deletions that failed.
func (r Result) FailedCount() int {
	n := 0
	for _, d := range r.Decisions {
		n += len(d.Failed)
	}
	return n
}

// Reporter observes each group as soon as it is settled.
type Reporter interface {
	GroupResolved(index, total int, d Decision)
}

// StartReporter is an optional Reporter extension that receives the totals
// before the first group is resolved.
type StartReporter interface {
	Start(total, groups int)
}

// Resolver applies the selection rules group by group. Groups are always
// processed one at a time: a tie prompt blocks and deletions of one group
// finish before the next group starts.
type Resolver struct {
	Action  Action
	Chooser Chooser
	// Remove deletes a losing file. When nil, decisions are recorded only.
	Remove   func(path string) error
	Reporter Reporter
	Stderr   io.Writer
}

func (r *Resolver) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

// Run groups paths, resolves every group in order and returns the survivors.
// Cancellation is only observed between groups.
func (r *Resolver) Run(ctx context.Context, paths []string) Result {
	groups := BuildGroups(paths)
	res := Result{Groups: len(groups)}
	for _, g := range groups {
		res.Total += len(g.Entries)
	}
	if s, ok := r.Reporter.(StartReporter); ok {
		s.Start(res.Total, res.Groups)
	}

	keep := make(map[string]struct{}, len(paths))
	for i, g := range groups {
		if ctx.Err() != nil {
			res.Canceled = true
			for _, rest := range groups[i:] {
				for _, e := range rest.Entries {
					keep[e.Path] = struct{}{}
				}
			}
			break
		}
		d := r.Resolve(g)
		for _, e := range d.Kept {
			keep[e.Path] = struct{}{}
		}
		res.Decisions = append(res.Decisions, d)
		if r.Reporter != nil {
			r.Reporter.GroupResolved(i+1, len(groups), d)
		}
	}

	for _, p := range paths {
		if _, ok := keep[p]; ok {
			res.Survivors = append(res.Survivors, p)
			delete(keep, p)
		}
	}
	return res
}

// Resolve settles a single group. At least one file is always kept.
func (r *Resolver) Resolve(g Group) Decision {
	d := Decision{Key: g.Key}
	if len(g.Entries) == 1 {
		d.Outcome = OutcomeSingle
		d.Kept = slices.Clone(g.Entries)
		return d
	}

	var releases, betas []rom.Entry
	for _, e := range g.Entries {
		if rom.IsBetaProto(e.Tags) {
			betas = append(betas, e)
		} else {
			releases = append(releases, e)
		}
	}

	if len(releases) == 0 {
		r.resolveBetas(&d, betas)
		return d
	}

	for _, e := range betas {
		r.remove(&d, e, ReasonBeta)
	}
	r.resolveReleases(&d, releases)
	return d
}

// resolveBetas keeps the single best pre-release. Ties go to the first entry.
func (r *Resolver) resolveBetas(d *Decision, betas []rom.Entry) {
	best := -1
	var bestScore rom.Score
	for i, e := range betas {
		s := rom.ScoreBeta(e).Vector()
		if best == -1 || s.Less(bestScore) {
			best, bestScore = i, s
		}
	}
	if best == -1 {
		d.Outcome = OutcomeFallback
		d.Kept = append(d.Kept, betas...)
		return
	}

	d.Outcome = OutcomeLatestBeta
	d.Kept = append(d.Kept, betas[best])
	for i, e := range betas {
		if i != best {
			r.remove(d, e, ReasonEarlierBeta)
		}
	}
}

// resolveReleases keeps every release sharing the best score, then narrows a
// tie with the configured action.
func (r *Resolver) resolveReleases(d *Decision, releases []rom.Entry) {
	if len(releases) == 1 {
		d.Outcome = OutcomeSingleRelease
		d.Kept = append(d.Kept, releases[0])
		return
	}

	scores := make([]rom.Score, len(releases))
	var bestScore rom.Score
	for i, e := range releases {
		scores[i] = rom.ScoreNormal(e).Vector()
		if i == 0 || scores[i].Less(bestScore) {
			bestScore = scores[i]
		}
	}

	var best, rest []rom.Entry
	for i, e := range releases {
		if scores[i].Equal(bestScore) {
			best = append(best, e)
		} else {
			rest = append(rest, e)
		}
	}
	if len(best) == 0 {
		d.Outcome = OutcomeFallback
		d.Kept = append(d.Kept, releases...)
		return
	}

	for _, e := range rest {
		r.remove(d, e, ReasonOutscored)
	}
	if len(best) == 1 {
		d.Outcome = OutcomeBestRelease
		d.Kept = append(d.Kept, best[0])
		return
	}
	r.breakTie(d, best)
}

func (r *Resolver) breakTie(d *Decision, tied []rom.Entry) {
	switch r.Action {
	case ActionKeepOne:
		smallest := 0
		for i, e := range tied {
			if e.Path < tied[smallest].Path {
				smallest = i
			}
		}
		r.keepOne(d, tied, smallest)
		return

	case ActionAsk:
		if r.Chooser == nil {
			break
		}
		names := make([]string, len(tied))
		for i, e := range tied {
			names[i] = e.Name
		}
		n, err := r.Chooser.Choose(d.Key, names)
		if err != nil {
			fmt.Fprintf(r.stderr(), "Warning: no selection for %q, keeping all: %v\n", d.Key, err)
			break
		}
		if n > 0 && n <= len(tied) {
			r.keepOne(d, tied, n-1)
			return
		}
	}

	d.Outcome = OutcomeTieKeptAll
	d.Kept = append(d.Kept, tied...)
}

func (r *Resolver) keepOne(d *Decision, tied []rom.Entry, idx int) {
	d.Outcome = OutcomeTieKeptOne
	d.Kept = append(d.Kept, tied[idx])
	for i, e := range tied {
		if i != idx {
			r.remove(d, e, ReasonTieBreak)
		}
	}
}

// remove deletes a losing file. A failed deletion is reported and the file is
// kept so the run can continue.
func (r *Resolver) remove(d *Decision, e rom.Entry, reason Reason) {
	if r.Remove != nil {
		if err := r.Remove(e.Path); err != nil {
			fmt.Fprintf(r.stderr(), "Warning: failed to delete %s: %v\n", e.Path, err)
			d.Failed = append(d.Failed, Failure{Entry: e, Reason: reason, Err: err})
			d.Kept = append(d.Kept, e)
			return
		}
	}
	d.Removed = append(d.Removed, Removal{Entry: e, Reason: reason})
}
