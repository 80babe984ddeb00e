package normsfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/retrix/internal/types"
)

func TestWriteAllReadAll_RoundTripsPerModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultName)
	unigram := map[types.DocID]float64{1: 1.5, 2: 2.25}
	bigram := map[types.DocID]float64{1: 0.75}

	require.NoError(t, WriteAll(path, []map[types.DocID]float64{unigram, bigram}))

	got, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, unigram, got[0])
	assert.Equal(t, bigram, got[1])
}

func TestWriteAllReadAll_HandlesEmptyModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultName)
	require.NoError(t, WriteAll(path, []map[types.DocID]float64{{}, {1: 3.0}}))

	got, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Empty(t, got[0])
	assert.Equal(t, map[types.DocID]float64{1: 3.0}, got[1])
}
