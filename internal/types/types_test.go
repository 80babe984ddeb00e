package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreDocLess_HigherScoreFirst(t *testing.T) {
	a := ScoreDoc{Score: 0.9, DocID: 5}
	b := ScoreDoc{Score: 0.5, DocID: 1}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestScoreDocLess_TieBreaksByAscendingDocID(t *testing.T) {
	a := ScoreDoc{Score: 0.5, DocID: 1}
	b := ScoreDoc{Score: 0.5, DocID: 2}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestPostingsListDocFreq(t *testing.T) {
	list := PostingsList{{DocID: 1, Freq: 3}, {DocID: 2, Freq: 1}}
	assert.Equal(t, 2, list.DocFreq())
}

func TestModelString(t *testing.T) {
	assert.Equal(t, "unigram", ModelUnigram.String())
	assert.Equal(t, "bigram", ModelBigram.String())
	assert.Equal(t, "unknown", Model(99).String())
}

func TestModelsOrder(t *testing.T) {
	assert.Equal(t, []Model{ModelUnigram, ModelBigram}, Models)
}
