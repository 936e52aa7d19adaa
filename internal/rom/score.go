package rom

import "slices"

// Score is compared lexicographically, ascending: the smaller score is the
// better file. Fields where "more is better" are stored negated.
type Score []int64

// Compare returns -1, 0 or +1.
func (s Score) Compare(o Score) int { return slices.Compare(s, o) }

// Less reports whether s ranks strictly better than o.
func (s Score) Less(o Score) bool { return s.Compare(o) < 0 }

// Equal reports whether s and o rank the same.
func (s Score) Equal(o Score) bool { return s.Compare(o) == 0 }

// asianPenalty pushes untranslated Asian releases behind an equally tagged
// English release, even an older one.
const asianPenalty = 2

// NormalScore ranks regular releases.
type NormalScore struct {
	// Penalty is the unknown tag count plus the Asian and defaulted revision penalties. Lower is better.
	Penalty int
	// Coverage is the number of prioritized regions. Higher is better.
	Coverage int
	// RegionIndex is the best priority position. Lower is better.
	RegionIndex int
	// VideoFormat prefers NTSC over unspecified over PAL. Higher is better.
	VideoFormat int
	// Revision is the highest revision token. Higher is better.
	Revision Version
	// RevisionDefaulted is set when an unversioned homebrew or pirate release was assumed to be v1.
	RevisionDefaulted bool
}

// Vector orders the fields by priority with the sign conventions applied.
func (s NormalScore) Vector() Score {
	return Score{
		int64(s.Penalty),
		-int64(s.Coverage),
		int64(s.RegionIndex),
		-int64(s.VideoFormat),
		-s.Revision.Weight(),
	}
}

// ScoreNormal scores a regular release.
func ScoreNormal(e Entry) NormalScore {
	coverage, minIndex := RegionCoverage(e.Tags)
	revision, found := ParseRevision(e.Tags)

	s := NormalScore{
		Penalty:     CountUnknownTags(e.Tags),
		Coverage:    coverage,
		RegionIndex: minIndex,
		VideoFormat: VideoFormatScore(e.Tags),
		Revision:    revision,
	}
	if IsAsianNotEnglish(e.Tags) {
		s.Penalty += asianPenalty
	}
	// Homebrew and pirate dumps rarely carry an explicit initial version.
	if !found && (IsHomebrew(e.Tags) || IsPirate(e.Tags)) {
		s.Revision = Version{1, 0, 0, 0}
		s.RevisionDefaulted = true
		s.Penalty++
	}
	return s
}

// BetaScore ranks pre-release dumps when a group has no regular release.
type BetaScore struct {
	// Date is the latest YYYYMMDD build date, 0 when undated. Higher is better.
	Date int
	// Coverage is the number of prioritized regions. Higher is better.
	Coverage int
	// Version is the highest pre-release number. Higher is better.
	Version Version
	// Unknown is the unknown tag count. Lower is better.
	Unknown int
}

// Vector orders the fields by priority with the sign conventions applied.
func (s BetaScore) Vector() Score {
	return Score{
		-int64(s.Date),
		-int64(s.Coverage),
		-s.Version.Weight(),
		int64(s.Unknown),
	}
}

// ScoreBeta scores a pre-release dump.
func ScoreBeta(e Entry) BetaScore {
	coverage, _ := RegionCoverage(e.Tags)
	return BetaScore{
		Date:     BestDate(e.Tags),
		Coverage: coverage,
		Version:  BetaVersion(e.Tags),
		Unknown:  CountUnknownTags(e.Tags),
	}
}
