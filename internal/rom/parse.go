package rom

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Filename parsing for No-Intro style names:
//
//	BaseTitle (tag1) (tag2, tag3) (tag4).ext
//
// Parsing never fails. A name without parenthetical groups simply has no tags
// and its whole extension-stripped name becomes the title.
var (
	// tagGroupRe matches each parenthesized group, non-greedy so adjacent groups stay separate.
	tagGroupRe = regexp.MustCompile(`\((.*?)\)`)

	// discRe matches multi-disc markers: "disc 1", "Disk2".
	discRe = regexp.MustCompile(`(?i)^(?:disc|disk)\s*(\d+)`)
)

// Entry is a candidate file with everything parsed from its name.
type Entry struct {
	Path      string
	Name      string
	Tags      []string
	Title     string
	Disc      int
	MultiDisc bool
}

// Parse builds an Entry from path. Only the basename is inspected.
func Parse(path string) Entry {
	name := filepath.Base(path)
	tags := ExtractTags(name)
	e := Entry{
		Path:  path,
		Name:  name,
		Tags:  tags,
		Title: BaseTitle(name),
	}
	e.Disc, e.MultiDisc = DiscNumber(tags)
	return e
}

// Key is the grouping key. Discs of a multi-disc release get their own key so
// they are never treated as duplicates of each other.
func (e Entry) Key() string {
	if e.MultiDisc {
		return fmt.Sprintf("%s (Disc %d)", e.Title, e.Disc)
	}
	return e.Title
}

// ExtractTags returns the lowercase comma-split contents of every parenthetical
// group in filename, left to right. Duplicates are kept.
func ExtractTags(filename string) []string {
	matches := tagGroupRe.FindAllStringSubmatch(StripExtension(filename), -1)
	tags := []string{}
	for _, m := range matches {
		for _, t := range strings.Split(m[1], ",") {
			tags = append(tags, strings.ToLower(strings.TrimSpace(t)))
		}
	}
	return tags
}

// BaseTitle returns the text before the first "(" of the extension-stripped name.
func BaseTitle(filename string) string {
	name := StripExtension(filename)
	if idx := strings.Index(name, "("); idx != -1 {
		return strings.TrimSpace(name[:idx])
	}
	return strings.TrimSpace(name)
}

// DiscNumber reports the disc index of the first disc tag, if any.
func DiscNumber(tags []string) (int, bool) {
	for _, t := range tags {
		m := discRe.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, true
		}
	}
	return 0, false
}

// StripExtension removes the final extension. Leading dots are not treated as
// an extension separator, so ".hidden" is returned unchanged.
func StripExtension(filename string) string {
	trimmed := strings.TrimLeft(filename, ".")
	lead := len(filename) - len(trimmed)
	if dot := strings.LastIndex(trimmed, "."); dot != -1 {
		return filename[:lead+dot]
	}
	return filename
}
