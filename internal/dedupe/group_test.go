package dedupe

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildGroups(t *testing.T) {
	t.Parallel()
	paths := []string{
		"roms/Zelda (USA).nes",
		"roms/Metroid (Europe).nes",
		"roms/Zelda (Europe) (Rev 1).nes",
		"roms/Final Fantasy VII (USA) (Disc 2).bin",
		"roms/Final Fantasy VII (USA) (Disc 1).bin",
		"roms/Final Fantasy VII (Europe) (Disc 1).bin",
		"roms/Metroid (USA).nes",
	}
	groups := BuildGroups(paths)

	got := map[string][]string{}
	var order []string
	for _, g := range groups {
		order = append(order, g.Key)
		for _, e := range g.Entries {
			got[g.Key] = append(got[g.Key], e.Name)
		}
	}
	wantOrder := []string{"Final Fantasy VII (Disc 1)", "Final Fantasy VII (Disc 2)", "Metroid", "Zelda"}
	if diff := cmp.Diff(wantOrder, order); diff != "" {
		t.Errorf("group order mismatch (-want +got):\n%s", diff)
	}
	want := map[string][]string{
		"Final Fantasy VII (Disc 1)": {"Final Fantasy VII (Europe) (Disc 1).bin", "Final Fantasy VII (USA) (Disc 1).bin"},
		"Final Fantasy VII (Disc 2)": {"Final Fantasy VII (USA) (Disc 2).bin"},
		"Metroid":                    {"Metroid (Europe).nes", "Metroid (USA).nes"},
		"Zelda":                      {"Zelda (Europe) (Rev 1).nes", "Zelda (USA).nes"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("group members mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildGroupsOrderIndependent(t *testing.T) {
	t.Parallel()
	a := BuildGroups([]string{"B (USA).bin", "A (USA).bin", "B (Europe).bin"})
	b := BuildGroups([]string{"B (Europe).bin", "B (USA).bin", "A (USA).bin"})
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("grouping depends on input order (-first +second):\n%s", diff)
	}
}

func TestBuildGroupsDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	paths := []string{"b.bin", "a.bin"}
	BuildGroups(paths)
	if diff := cmp.Diff([]string{"b.bin", "a.bin"}, paths); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}
}

func TestBuildGroupsEmpty(t *testing.T) {
	t.Parallel()
	if got := BuildGroups(nil); len(got) != 0 {
		t.Errorf("BuildGroups(nil) = %v, want empty", got)
	}
}

func TestBuildGroupsCollapsesRepeatedPaths(t *testing.T) {
	t.Parallel()
	groups := BuildGroups([]string{"Game (USA).bin", "Game (Europe).bin", "Game (USA).bin"})
	if len(groups) != 1 {
		t.Fatalf("BuildGroups returned %d groups, want 1", len(groups))
	}
	var got []string
	for _, e := range groups[0].Entries {
		got = append(got, e.Path)
	}
	if diff := cmp.Diff([]string{"Game (Europe).bin", "Game (USA).bin"}, got); diff != "" {
		t.Errorf("group members mismatch (-want +got):\n%s", diff)
	}
}
