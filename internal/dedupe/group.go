package dedupe

import (
	"slices"

	"github.com/Digital-Shane/rom-tidy/internal/rom"
)

// Group is every candidate file that represents one logical game.
type Group struct {
	Key     string
	Entries []rom.Entry
}

// BuildGroups parses paths and clusters them by grouping key. Paths are sorted
// first so group order, member order and the beta "first wins" tie rule do not
// depend on how the caller enumerated the directory. A path listed twice is
// one file and joins its group once.
func BuildGroups(paths []string) []Group {
	sorted := slices.Clone(paths)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	index := make(map[string]int)
	var groups []Group
	for _, p := range sorted {
		e := rom.Parse(p)
		key := e.Key()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}
