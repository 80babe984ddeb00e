// Package rerank implements the boolean phrase re-ranker: spec.md 4.7.
// It does not change any score — it only stably partitions a VSM ranking
// so documents containing every original phrase come first, preserving
// relative order within each partition.
package rerank

import (
	"sort"
	"strings"

	"github.com/standardbeagle/retrix/internal/types"
)

// Rerank stably sorts ranking so that documents whose content contains
// every phrase in phrases (case-sensitive substring match against the
// raw, unstemmed document, per spec.md 4.7's "preserved because
// observable" note) rank before those that don't. Within each partition,
// the incoming VSM order is preserved. content is called exactly once per
// document id encountered in ranking.
func Rerank(ranking []types.DocID, phrases []string, content func(types.DocID) string) []types.DocID {
	if len(ranking) == 0 || len(phrases) == 0 {
		return ranking
	}

	contains := make(map[types.DocID]bool, len(ranking))
	for _, id := range ranking {
		doc := content(id)
		all := true
		for _, phrase := range phrases {
			if !strings.Contains(doc, phrase) {
				all = false
				break
			}
		}
		contains[id] = all
	}

	out := make([]types.DocID, len(ranking))
	copy(out, ranking)
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := contains[out[i]], contains[out[j]]
		return ci && !cj
	})
	return out
}
