package report

import (
	"fmt"
	"strconv"

	"github.com/Digital-Shane/rom-tidy/internal/dedupe"
	"github.com/Digital-Shane/rom-tidy/internal/tui/theme"

	"github.com/Digital-Shane/treeview"
	"github.com/charmbracelet/lipgloss"
)

// ItemKind tags a node in the result tree.
type ItemKind int

const (
	ItemGroup ItemKind = iota
	ItemKept
	ItemRemoved
	ItemFailed
)

// Item is the payload of a result tree node.
type Item struct {
	Kind    ItemKind
	Name    string
	Path    string
	Outcome dedupe.Outcome
	Reason  dedupe.Reason
	Err     error
}

func kindIs(k ItemKind) func(*treeview.Node[Item]) bool {
	return func(n *treeview.Node[Item]) bool { return n.Data().Kind == k }
}

func tieGroup() func(*treeview.Node[Item]) bool {
	return func(n *treeview.Node[Item]) bool {
		d := n.Data()
		return d.Kind == ItemGroup && (d.Outcome == dedupe.OutcomeTieKeptAll || d.Outcome == dedupe.OutcomeTieKeptOne)
	}
}

func betaGroup() func(*treeview.Node[Item]) bool {
	return func(n *treeview.Node[Item]) bool {
		d := n.Data()
		return d.Kind == ItemGroup && d.Outcome == dedupe.OutcomeLatestBeta
	}
}

// ResultProvider decorates result tree nodes with status icons and colors.
func ResultProvider(th theme.Theme) *treeview.DefaultNodeProvider[Item] {
	colors := th.Colors()

	return treeview.NewDefaultNodeProvider(
		treeview.WithIconRule(kindIs(ItemFailed), th.Icon("failed")),
		treeview.WithIconRule(kindIs(ItemRemoved), th.Icon("remove")),
		treeview.WithIconRule(kindIs(ItemKept), th.Icon("keep")),
		treeview.WithIconRule(tieGroup(), th.Icon("tie")),
		treeview.WithIconRule(betaGroup(), th.Icon("beta")),
		treeview.WithIconRule(kindIs(ItemGroup), th.Icon("group")),
		treeview.WithDefaultIcon[Item](th.Icon("default")),

		treeview.WithStyleRule(
			kindIs(ItemFailed),
			lipgloss.NewStyle().Foreground(colors.Warning),
			lipgloss.NewStyle().Foreground(colors.Background).Background(colors.Warning),
		),
		treeview.WithStyleRule(
			kindIs(ItemRemoved),
			lipgloss.NewStyle().Foreground(colors.Error).Strikethrough(true),
			lipgloss.NewStyle().Foreground(colors.Background).Background(colors.Error).Strikethrough(true),
		),
		treeview.WithStyleRule(
			kindIs(ItemKept),
			lipgloss.NewStyle().Foreground(colors.Success),
			lipgloss.NewStyle().Foreground(colors.Background).Background(colors.Success),
		),
		treeview.WithStyleRule(
			kindIs(ItemGroup),
			lipgloss.NewStyle().Foreground(colors.Primary).Bold(true),
			lipgloss.NewStyle().Foreground(colors.Background).Bold(true).Background(colors.Secondary).PaddingRight(1),
		),

		treeview.WithFormatter(ResultFormatter),
	)
}

// ResultFormatter labels groups with their outcome and failed files with the
// deletion error.
func ResultFormatter(node *treeview.Node[Item]) (string, bool) {
	d := node.Data()
	switch d.Kind {
	case ItemGroup:
		return fmt.Sprintf("%s (%s)", d.Name, d.Outcome), true
	case ItemRemoved:
		return fmt.Sprintf("%s (%s)", d.Name, d.Reason), true
	case ItemFailed:
		return fmt.Sprintf("%s: %v", d.Name, d.Err), true
	}
	return d.Name, true
}

// BuildTree turns the decisions of a run into a tree of groups. Groups that
// only ever held one file are left out unless all is set.
func BuildTree(res dedupe.Result, all bool, th theme.Theme) *treeview.Tree[Item] {
	var nodes []*treeview.Node[Item]
	for i, d := range res.Decisions {
		if !all && d.Outcome == dedupe.OutcomeSingle {
			continue
		}
		id := "group-" + strconv.Itoa(i)
		group := treeview.NewNode(id, d.Key, Item{Kind: ItemGroup, Name: d.Key, Outcome: d.Outcome})

		for _, e := range winners(d) {
			group.AddChild(treeview.NewNode(id+"/"+e.Path, e.Name, Item{Kind: ItemKept, Name: e.Name, Path: e.Path}))
		}
		for _, r := range d.Removed {
			item := Item{Kind: ItemRemoved, Name: r.Entry.Name, Path: r.Entry.Path, Reason: r.Reason}
			group.AddChild(treeview.NewNode(id+"/"+r.Entry.Path, r.Entry.Name, item))
		}
		for _, f := range d.Failed {
			item := Item{Kind: ItemFailed, Name: f.Entry.Name, Path: f.Entry.Path, Reason: f.Reason, Err: f.Err}
			group.AddChild(treeview.NewNode(id+"/"+f.Entry.Path, f.Entry.Name, item))
		}
		nodes = append(nodes, group)
	}

	return treeview.NewTree(nodes,
		treeview.WithExpandAll[Item](),
		treeview.WithProvider(ResultProvider(th)),
	)
}

// Tree renders the result tree as static text.
func Tree(res dedupe.Result, all bool, th theme.Theme, width int) string {
	t := BuildTree(res, all, th)
	height := 1
	for _, d := range res.Decisions {
		if all || d.Outcome != dedupe.OutcomeSingle {
			height += 1 + len(winners(d)) + len(d.Removed) + len(d.Failed)
		}
	}
	if height == 1 {
		return th.MutedStyle().Render("No duplicates found")
	}

	m := treeview.NewTuiTreeModel(t,
		treeview.WithTuiWidth[Item](width),
		treeview.WithTuiHeight[Item](height),
		treeview.WithTuiDisableNavBar[Item](true),
	)
	return m.View()
}
