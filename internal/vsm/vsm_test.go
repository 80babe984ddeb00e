package vsm

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/retrix/internal/dictionary"
	"github.com/standardbeagle/retrix/internal/postings"
	"github.com/standardbeagle/retrix/internal/types"
)

// buildContext writes a tiny postings file directly and returns a Context
// wired to it, without going through the block-build/merge pipeline —
// vsm.Evaluate only depends on the Context interface.
func buildContext(t *testing.T, termLists map[string]types.PostingsList, norms map[types.DocID]float64) *Context {
	t.Helper()
	path := filepath.Join(t.TempDir(), "retrix.postings")
	w, err := postings.Create(path)
	require.NoError(t, err)

	dict := make(dictionary.Table)
	for term, list := range termLists {
		offset, err := w.Append(list)
		require.NoError(t, err)
		dict[term] = offset
	}
	require.NoError(t, w.Close())

	pr, err := postings.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { pr.Close() })

	return &Context{Dict: dict, Postings: pr, Norms: norms}
}

func TestEvaluate_RanksHigherTermFrequencyFirst(t *testing.T) {
	// Three docs so df(fox)=2 < |D|=3 gives a nonzero idf; equal norms
	// isolate the ranking to each doc's raw log-tf weight.
	ctx := buildContext(t, map[string]types.PostingsList{
		"fox": {{DocID: 1, Freq: 3}, {DocID: 2, Freq: 1}},
	}, map[types.DocID]float64{1: 1.0, 2: 1.0, 3: 1.0})

	results := Evaluate(ctx, types.TermFreqs{"fox": 1}, 0)
	require.Len(t, results, 2)
	assert.Equal(t, types.DocID(1), results[0].DocID)
	assert.Equal(t, types.DocID(2), results[1].DocID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestEvaluate_UnknownTermYieldsNoResults(t *testing.T) {
	ctx := buildContext(t, map[string]types.PostingsList{
		"known": {{DocID: 1, Freq: 1}},
	}, map[types.DocID]float64{1: 1.0})

	results := Evaluate(ctx, types.TermFreqs{"unknown": 1}, 0)
	assert.Nil(t, results)
}

func TestEvaluate_TopKBoundsResultCount(t *testing.T) {
	ctx := buildContext(t, map[string]types.PostingsList{
		"term": {
			{DocID: 1, Freq: 5},
			{DocID: 2, Freq: 4},
			{DocID: 3, Freq: 3},
			{DocID: 4, Freq: 2},
		},
	}, map[types.DocID]float64{1: 1.0, 2: 1.0, 3: 1.0, 4: 1.0, 5: 1.0})

	results := Evaluate(ctx, types.TermFreqs{"term": 1}, 2)
	require.Len(t, results, 2)
	assert.Equal(t, types.DocID(1), results[0].DocID)
	assert.Equal(t, types.DocID(2), results[1].DocID)
}

func TestEvaluate_DeterministicAcrossRepeatedCalls(t *testing.T) {
	ctx := buildContext(t, map[string]types.PostingsList{
		"a": {{DocID: 1, Freq: 2}, {DocID: 2, Freq: 2}},
		"b": {{DocID: 1, Freq: 1}, {DocID: 3, Freq: 5}},
	}, map[types.DocID]float64{1: 1.5, 2: 1.0, 3: 2.2})

	query := types.TermFreqs{"a": 1, "b": 1}
	first := Evaluate(ctx, query, 0)
	second := Evaluate(ctx, query, 0)
	assert.Equal(t, first, second)
}

func TestNumDocs_ReflectsNormsTableSize(t *testing.T) {
	ctx := buildContext(t, nil, map[types.DocID]float64{1: 1.0, 2: 1.0, 3: 1.0})
	assert.Equal(t, 3, ctx.NumDocs())
}
