package rom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPredicates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name                 string
		tags                 []string
		homebrew, pirate, bp bool
		asianNotEnglish      bool
	}{
		{name: "Empty", tags: nil},
		{name: "Homebrew", tags: []string{"world", "homebrew"}, homebrew: true},
		{name: "Aftermarket", tags: []string{"aftermarket"}, homebrew: true},
		{name: "Pirate", tags: []string{"pirate"}, pirate: true},
		{name: "Unlicensed", tags: []string{"usa", "unl"}, pirate: true},
		{name: "BetaNumbered", tags: []string{"beta 2"}, bp: true},
		{name: "Prototype", tags: []string{"usa", "proto"}, bp: true},
		{name: "Sample", tags: []string{"sample"}, bp: true},
		{name: "Demo", tags: []string{"demo"}, bp: true},
		{name: "Japan", tags: []string{"japan"}, asianNotEnglish: true},
		{name: "JapanEnglish", tags: []string{"japan", "en"}},
		{name: "EnglishFirst", tags: []string{"en", "korea"}},
		{name: "Europe", tags: []string{"europe"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsHomebrew(tc.tags); got != tc.homebrew {
				t.Errorf("IsHomebrew(%v) = %v, want %v", tc.tags, got, tc.homebrew)
			}
			if got := IsPirate(tc.tags); got != tc.pirate {
				t.Errorf("IsPirate(%v) = %v, want %v", tc.tags, got, tc.pirate)
			}
			if got := IsBetaProto(tc.tags); got != tc.bp {
				t.Errorf("IsBetaProto(%v) = %v, want %v", tc.tags, got, tc.bp)
			}
			if got := IsAsianNotEnglish(tc.tags); got != tc.asianNotEnglish {
				t.Errorf("IsAsianNotEnglish(%v) = %v, want %v", tc.tags, got, tc.asianNotEnglish)
			}
		})
	}
}

func TestRegionCoverage(t *testing.T) {
	t.Parallel()
	tests := []struct {
		tags         []string
		wantCoverage int
		wantIndex    int
	}{
		{[]string{"world"}, 2, 0},
		{[]string{"usa", "europe"}, 2, 0},
		{[]string{"europe", "usa"}, 2, 0},
		{[]string{"usa"}, 1, 0},
		{[]string{"europe"}, 1, 1},
		{[]string{"japan"}, 0, 2},
		{nil, 0, 2},
		{[]string{"europe", "world"}, 2, 0},
	}
	for _, tc := range tests {
		coverage, idx := RegionCoverage(tc.tags)
		if coverage != tc.wantCoverage || idx != tc.wantIndex {
			t.Errorf("RegionCoverage(%v) = (%d,%d), want (%d,%d)", tc.tags, coverage, idx, tc.wantCoverage, tc.wantIndex)
		}
	}
}

func TestRegionCoverageWorldMatchesFullCoverage(t *testing.T) {
	t.Parallel()
	wc, wi := RegionCoverage([]string{"world"})
	fc, fi := RegionCoverage([]string{"usa", "europe"})
	if wc != fc || wi != fi {
		t.Errorf("world = (%d,%d), usa+europe = (%d,%d)", wc, wi, fc, fi)
	}
}

func TestCountUnknownTags(t *testing.T) {
	t.Parallel()
	tests := []struct {
		tags []string
		want int
	}{
		{nil, 0},
		{[]string{"usa", "europe", "world", "japan", "asia", "china", "korea"}, 0},
		{[]string{"en", "fr", "de", "es", "it", "nl", "pt", "sv", "no", "da", "fi"}, 0},
		{[]string{"rev 1", "rev a", "v1.1", "1.02", "virtual console"}, 0},
		{[]string{"beta", "beta 2", "proto", "sample"}, 0},
		{[]string{"usa", "alt"}, 1},
		{[]string{"demo"}, 1},
		{[]string{"homebrew", "ja", "1993-07-09"}, 3},
		{[]string{""}, 1},
	}
	for _, tc := range tests {
		if got := CountUnknownTags(tc.tags); got != tc.want {
			t.Errorf("CountUnknownTags(%v) = %d, want %d", tc.tags, got, tc.want)
		}
	}
}

func TestParseRevision(t *testing.T) {
	t.Parallel()
	tests := []struct {
		tags      []string
		want      Version
		wantFound bool
	}{
		{[]string{"usa"}, Version{}, false},
		{[]string{"usa", "rev 1"}, Version{1, 0, 0, 0}, true},
		{[]string{"v1.1", "rev 2"}, Version{2, 0, 0, 0}, true},
		{[]string{"1.02"}, Version{1, 2, 0, 0}, true},
		{[]string{"v1.2.3.4"}, Version{1, 2, 3, 4}, true},
		{[]string{"rev 0"}, Version{}, true},
		{[]string{"rev a"}, Version{}, false},
		{[]string{"v1.2.3.4.5"}, Version{}, false},
		{[]string{"rev 99999999999999999999"}, Version{maxVersionComponent, 0, 0, 0}, true},
		{[]string{"v1.99999999999", "rev 2"}, Version{2, 0, 0, 0}, true},
	}
	for _, tc := range tests {
		got, found := ParseRevision(tc.tags)
		if diff := cmp.Diff(tc.want, got); diff != "" || found != tc.wantFound {
			t.Errorf("ParseRevision(%v) = (%v,%v), want (%v,%v)", tc.tags, got, found, tc.want, tc.wantFound)
		}
	}
}

func TestVersionWeightSaturates(t *testing.T) {
	t.Parallel()
	top := Version{maxVersionComponent, maxVersionComponent, maxVersionComponent, maxVersionComponent}
	if w := top.Weight(); w <= (Version{maxVersionComponent}).Weight() {
		t.Errorf("Weight(%v) = %d, want above the single-component weight", top, w)
	}
	v, ok := parseVersion("18446744073709551616.1")
	if !ok || v != (Version{maxVersionComponent, 1, 0, 0}) {
		t.Errorf("parseVersion(huge) = (%v,%v), want saturated first component", v, ok)
	}
	if v.Weight() <= (Version{2}).Weight() {
		t.Errorf("saturated Weight = %d, want larger than Version{2}", v.Weight())
	}
}

func TestBetaVersion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		tags []string
		want Version
	}{
		{[]string{"beta"}, Version{}},
		{[]string{"beta 1"}, Version{1, 0, 0, 0}},
		{[]string{"beta 2", "beta 1"}, Version{2, 0, 0, 0}},
		{[]string{"proto v1.5"}, Version{1, 5, 0, 0}},
		{[]string{"demo 3", "usa"}, Version{3, 0, 0, 0}},
		{[]string{"sample", "2"}, Version{2, 0, 0, 0}},
	}
	for _, tc := range tests {
		if diff := cmp.Diff(tc.want, BetaVersion(tc.tags)); diff != "" {
			t.Errorf("BetaVersion(%v) mismatch (-want +got):\n%s", tc.tags, diff)
		}
	}
}

func TestBestDate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		tags []string
		want int
	}{
		{nil, 0},
		{[]string{"1993-07-09"}, 19930709},
		{[]string{"1993-07-09", "1994-01-02", "1993-12-31"}, 19940102},
		{[]string{"1993-7-9", "beta"}, 0},
	}
	for _, tc := range tests {
		if got := BestDate(tc.tags); got != tc.want {
			t.Errorf("BestDate(%v) = %d, want %d", tc.tags, got, tc.want)
		}
	}
}

func TestVideoFormatScore(t *testing.T) {
	t.Parallel()
	tests := []struct {
		tags []string
		want int
	}{
		{nil, 1},
		{[]string{"ntsc"}, 2},
		{[]string{"pal"}, 0},
		{[]string{"pal", "ntsc"}, 0},
		{[]string{"europe", "ntsc", "pal"}, 2},
	}
	for _, tc := range tests {
		if got := VideoFormatScore(tc.tags); got != tc.want {
			t.Errorf("VideoFormatScore(%v) = %d, want %d", tc.tags, got, tc.want)
		}
	}
}

func TestVersionWeight(t *testing.T) {
	t.Parallel()
	tests := []struct {
		v    Version
		want int64
	}{
		{Version{}, 0},
		{Version{1, 0, 0, 0}, 1_000_000_000},
		{Version{1, 2, 3, 4}, 1_002_003_004},
		{Version{0, 0, 0, 999}, 999},
	}
	for _, tc := range tests {
		if got := tc.v.Weight(); got != tc.want {
			t.Errorf("%v.Weight() = %d, want %d", tc.v, got, tc.want)
		}
	}
	if !(Version{1, 9, 0, 0}).Less(Version{2, 0, 0, 0}) {
		t.Errorf("Version{1,9} should be less than Version{2}")
	}
	if (Version{2, 0, 0, 0}).Less(Version{2, 0, 0, 0}) {
		t.Errorf("equal versions should not be less")
	}
}
