package rom

import (
	"errors"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Classification works on raw lowercase tags with prefix matching rather than
// a closed vocabulary. Dump groups are inconsistent ("beta", "beta 2",
// "proto 1", "sample") and every variant must still be recognized.
const worldRegion = "world"

var (
	// regionPriority lists preferred regions, best first.
	regionPriority = []string{"usa", "europe"}

	asianRegions = []string{"japan", "asia", "china", "korea"}

	// languageTags are language codes that carry no penalty.
	languageTags = []string{"en", "fr", "de", "es", "it", "nl", "pt", "sv", "no", "da", "fi"}

	// Revision tokens: "rev 1", "v1.1", "1.02"
	revisionRe = regexp.MustCompile(`^(?:rev\s+)?v?(\d+(?:\.\d+){0,3})$`)

	// Pre-release version tokens: "beta 2", "proto v1.1", "demo 3", "2"
	betaVersionRe = regexp.MustCompile(`^(?:(?:beta|proto|sample|demo)\s+)?v?(\d+(?:\.\d+){0,3})$`)

	// Bare dotted numerics are treated as versions by the unknown-tag counter.
	dottedNumberRe = regexp.MustCompile(`^\d+(?:\.\d+){0,3}$`)

	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Version is a four component dotted version, zero padded on the right.
type Version [4]int

// maxVersionComponent caps each component so Weight cannot overflow int64.
const maxVersionComponent = 999_999_999

// Less compares component by component.
func (v Version) Less(o Version) bool {
	for i := range v {
		if v[i] != o[i] {
			return v[i] < o[i]
		}
	}
	return false
}

// Weight folds the version into one comparable integer.
func (v Version) Weight() int64 {
	return int64(v[0])*1_000_000_000 + int64(v[1])*1_000_000 + int64(v[2])*1_000 + int64(v[3])
}

// parseVersion converts "1.2" into Version{1, 2, 0, 0}. Components larger
// than maxVersionComponent saturate.
func parseVersion(s string) (Version, bool) {
	var v Version
	for i, part := range strings.Split(s, ".") {
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return Version{}, false
		}
		v[i] = int(min(n, maxVersionComponent))
	}
	return v, true
}

// IsHomebrew reports homebrew or aftermarket releases.
func IsHomebrew(tags []string) bool {
	return slices.Contains(tags, "homebrew") || slices.Contains(tags, "aftermarket")
}

// IsPirate reports pirate or unlicensed releases.
func IsPirate(tags []string) bool {
	return slices.Contains(tags, "pirate") || slices.Contains(tags, "unl")
}

// IsBetaProto reports pre-release dumps.
func IsBetaProto(tags []string) bool {
	for _, t := range tags {
		if hasAnyPrefix(t, "beta", "proto", "sample", "demo") {
			return true
		}
	}
	return false
}

// RegionCoverage returns how many prioritized regions the tags cover and the
// best (lowest) priority index among them. A World release covers every
// prioritized region at the best position. With no match the index is
// len(regionPriority), which sorts after every real index.
func RegionCoverage(tags []string) (coverage, minIndex int) {
	if slices.Contains(tags, worldRegion) {
		return len(regionPriority), 0
	}
	minIndex = len(regionPriority)
	for _, t := range tags {
		idx := slices.Index(regionPriority, t)
		if idx == -1 {
			continue
		}
		coverage++
		minIndex = min(minIndex, idx)
	}
	return coverage, minIndex
}

// IsAsianNotEnglish reports Asian releases without an English language tag.
func IsAsianNotEnglish(tags []string) bool {
	asian := false
	for _, t := range tags {
		if t == "en" {
			return false
		}
		if slices.Contains(asianRegions, t) {
			asian = true
		}
	}
	return asian
}

// CountUnknownTags counts tags that are not a region, language, revision or
// pre-release marker.
func CountUnknownTags(tags []string) int {
	count := 0
	for _, t := range tags {
		switch {
		case t == worldRegion,
			slices.Contains(regionPriority, t),
			slices.Contains(asianRegions, t):
		case strings.HasPrefix(t, "rev"), strings.HasPrefix(t, "v"), dottedNumberRe.MatchString(t):
		case hasAnyPrefix(t, "beta", "proto", "sample"):
		case slices.Contains(languageTags, t):
		default:
			count++
		}
	}
	return count
}

// ParseRevision returns the highest revision token and whether any was found.
func ParseRevision(tags []string) (Version, bool) {
	return maxVersion(tags, revisionRe)
}

// BetaVersion returns the highest pre-release version token.
func BetaVersion(tags []string) Version {
	v, _ := maxVersion(tags, betaVersionRe)
	return v
}

// BestDate returns the latest YYYY-MM-DD tag as YYYYMMDD, or 0.
func BestDate(tags []string) int {
	best := 0
	for _, t := range tags {
		if !dateRe.MatchString(t) {
			continue
		}
		if n, err := strconv.Atoi(strings.ReplaceAll(t, "-", "")); err == nil && n > best {
			best = n
		}
	}
	return best
}

// VideoFormatScore ranks NTSC (2) above unspecified (1) above PAL (0). The
// first ntsc or pal tag decides.
func VideoFormatScore(tags []string) int {
	for _, t := range tags {
		switch t {
		case "ntsc":
			return 2
		case "pal":
			return 0
		}
	}
	return 1
}

func maxVersion(tags []string, re *regexp.Regexp) (Version, bool) {
	var best Version
	found := false
	for _, t := range tags {
		m := re.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		v, ok := parseVersion(m[1])
		if !ok {
			continue
		}
		found = true
		if best.Less(v) {
			best = v
		}
	}
	return best, found
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
