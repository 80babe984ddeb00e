package dictionary

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/retrix/internal/types"
)

func TestWriterReader_RoundTripsSingleModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retrix.dict")
	w, err := Create(path)
	require.NoError(t, err)

	require.NoError(t, w.WriteEntry("apple", 0))
	require.NoError(t, w.WriteEntry("banana", 17))
	require.NoError(t, w.WriteEntry("cherry", 42))
	require.NoError(t, w.WriteModelBoundary())
	require.NoError(t, w.Close())

	tables, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, map[string]int64{"apple": 0, "banana": 17, "cherry": 42}, map[string]int64(tables[0]))
}

// TestWriterReader_OffsetsResetAtModelBoundary guards the delta-encoding
// symmetry between Writer and ReadAll: each model's offsets are encoded
// and decoded relative to that model's own running total, not carried
// over from the previous model (spec.md 4.4). Without the reset in
// WriteModelBoundary this test's second model would decode with offsets
// shifted by the first model's final running total.
func TestWriterReader_OffsetsResetAtModelBoundary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retrix.dict")
	w, err := Create(path)
	require.NoError(t, err)

	// Unigram model: offsets climb to a large running total.
	require.NoError(t, w.WriteEntry("alpha", 100))
	require.NoError(t, w.WriteEntry("beta", 500))
	require.NoError(t, w.WriteModelBoundary())

	// Bigram model: offsets start small again, independent of the
	// unigram model's final running offset (500).
	require.NoError(t, w.WriteEntry("gamma delta", 10))
	require.NoError(t, w.WriteEntry("epsilon zeta", 20))
	require.NoError(t, w.WriteModelBoundary())
	require.NoError(t, w.Close())

	tables, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, tables, 2)

	assert.Equal(t, int64(100), tables[0]["alpha"])
	assert.Equal(t, int64(500), tables[0]["beta"])
	assert.Equal(t, int64(10), tables[1]["gamma delta"])
	assert.Equal(t, int64(20), tables[1]["epsilon zeta"])
}

func TestReadModel_ReturnsOnlyThatModelsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retrix.dict")
	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteEntry("uni", 1))
	require.NoError(t, w.WriteModelBoundary())
	require.NoError(t, w.WriteEntry("bi gram", 2))
	require.NoError(t, w.WriteModelBoundary())
	require.NoError(t, w.Close())

	uni, err := ReadModel(path, types.ModelUnigram)
	require.NoError(t, err)
	assert.Equal(t, Table{"uni": 1}, uni)

	bi, err := ReadModel(path, types.ModelBigram)
	require.NoError(t, err)
	assert.Equal(t, Table{"bi gram": 2}, bi)
}

func TestReadAll_EmptyFileYieldsNoTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retrix.dict")
	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	tables, err := ReadAll(path)
	require.NoError(t, err)
	assert.Empty(t, tables)
}
