package bundle

import (
	"sort"

	"github.com/arthur-debert/assetcfg/pkg/config"
	"github.com/arthur-debert/assetcfg/pkg/pattern"
)

const (
	groupBefore = iota
	groupMiddle
	groupAfter
)

// ApplyOrder reorders the files of one bundle. Files matching a before hint
// come first, sorted by the first hint they match; files matching an after
// hint come last, sorted the same way; all others stay in between. Ties keep
// encounter order. A file matching both lists counts as before.
func ApplyOrder(files []string, hints config.OrderingHints) []string {
	type entry struct {
		path  string
		group int
		rank  int
	}

	entries := make([]entry, len(files))
	for i, f := range files {
		e := entry{path: f, group: groupMiddle}
		if r := pattern.FirstMatch(hints.Before, f); r >= 0 {
			e.group, e.rank = groupBefore, r
		} else if r := pattern.FirstMatch(hints.After, f); r >= 0 {
			e.group, e.rank = groupAfter, r
		}
		entries[i] = e
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].group != entries[j].group {
			return entries[i].group < entries[j].group
		}
		return entries[i].rank < entries[j].rank
	})

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.path
	}
	return out
}
