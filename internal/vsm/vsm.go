// Package vsm implements the ltc.lnc vector-space query evaluator: spec.md
// 4.5. Scoring uses log-tf x idf x cosine on the query side and log-tf x
// cosine (no idf) on the document side, normalized by document length and
// query length, with top-k selection via a bounded min-heap (an explicit
// inverted-comparator heap, not the sign-flip trick spec.md section 9
// calls "not an invariant, only a convenience").
package vsm

import (
	"container/heap"
	"math"
	"sort"

	"github.com/standardbeagle/retrix/internal/dictionary"
	"github.com/standardbeagle/retrix/internal/postings"
	"github.com/standardbeagle/retrix/internal/types"
)

// Context is the explicit per-invocation state the searcher threads
// through every query operation (spec.md section 9's "SearchContext"
// note, replacing the source's process-global dictionaries/norms/file
// handle).
type Context struct {
	Dict     dictionary.Table
	Postings *postings.Reader
	Norms    map[types.DocID]float64
}

// NumDocs is |D|: the number of documents counted for idf, taken from the
// size of the norms table (spec.md 4.5's contract).
func (c *Context) NumDocs() int { return len(c.Norms) }

// Evaluate scores documents against query by ltc.lnc cosine and returns up
// to k results, highest score first, ties broken by ascending DocID. k<=0
// means unbounded (full sort).
func Evaluate(ctx *Context, query types.TermFreqs, k int) []types.ScoreDoc {
	scores := make(map[types.DocID]float64)
	numDocs := ctx.NumDocs()
	queryNormSq := 0.0
	matched := false

	for term, qf := range query {
		offset, ok := ctx.Dict[term]
		if !ok {
			continue
		}
		list, err := ctx.Postings.ReadAt(term, offset)
		if err != nil || len(list) == 0 {
			continue
		}
		matched = true
		idf := math.Log10(float64(numDocs) / float64(len(list)))
		qWeight := (1 + math.Log10(float64(qf))) * idf
		for _, p := range list {
			docWeight := 1 + math.Log10(float64(p.Freq))
			scores[p.DocID] += docWeight * idf * qWeight
		}
		queryNormSq += qWeight * qWeight
	}

	if !matched || len(scores) == 0 {
		return nil
	}

	queryNorm := math.Sqrt(queryNormSq)
	for id, s := range scores {
		norm := ctx.Norms[id]
		if norm == 0 || queryNorm == 0 {
			scores[id] = 0
			continue
		}
		scores[id] = s / (norm * queryNorm)
	}

	return topK(scores, k)
}

// topK selects the k best score-doc pairs via a bounded min-heap (heap top
// is the current worst of the retained set, evicted when a better
// candidate arrives), then returns them sorted best-first. k<=0 returns
// every scored document, fully sorted.
func topK(scores map[types.DocID]float64, k int) []types.ScoreDoc {
	if k <= 0 {
		all := make([]types.ScoreDoc, 0, len(scores))
		for id, s := range scores {
			all = append(all, types.ScoreDoc{Score: s, DocID: id})
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Less(all[j]) })
		return all
	}

	h := &worstFirstHeap{}
	for id, s := range scores {
		sd := types.ScoreDoc{Score: s, DocID: id}
		if h.Len() < k {
			heap.Push(h, sd)
			continue
		}
		if sd.Less((*h)[0]) {
			(*h)[0] = sd
			heap.Fix(h, 0)
		}
	}

	result := make([]types.ScoreDoc, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(h).(types.ScoreDoc)
	}
	return result
}

// worstFirstHeap is a min-heap under the score-doc total order inverted:
// its root is the worst-ranked element of the retained top-k set.
type worstFirstHeap []types.ScoreDoc

func (h worstFirstHeap) Len() int { return len(h) }
func (h worstFirstHeap) Less(i, j int) bool {
	return h[j].Less(h[i])
}
func (h worstFirstHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *worstFirstHeap) Push(x any)   { *h = append(*h, x.(types.ScoreDoc)) }
func (h *worstFirstHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
