package blockio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/retrix/internal/types"
)

func TestWriterReader_RoundTripsRecordsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "block-0.postings")
	w, err := Create(0, path)
	require.NoError(t, err)

	records := []struct {
		term     string
		postings types.PostingsList
	}{
		{"apple", types.PostingsList{{DocID: 1, Freq: 2}}},
		{"banana", types.PostingsList{{DocID: 1, Freq: 1}, {DocID: 3, Freq: 4}}},
	}
	for _, r := range records {
		require.NoError(t, w.WriteRecord(r.term, r.postings))
	}
	require.NoError(t, w.Close())

	r, err := Open(0, path)
	require.NoError(t, err)
	defer r.Close()

	for _, want := range records {
		term, postings, ok, err := r.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want.term, term)
		assert.Equal(t, want.postings, postings)
	}

	_, _, ok, err := r.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpen_ZeroByteFileIsEmptyBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "block-0.postings")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	r, err := Open(0, path)
	require.NoError(t, err)
	defer r.Close()

	_, _, ok, err := r.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReader_DetectsCorruptTrailer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "block-0.postings")
	w, err := Create(0, path)
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord("term", types.PostingsList{{DocID: 1, Freq: 1}}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o644))

	r, err := Open(0, path)
	require.NoError(t, err)
	defer r.Close()

	_, _, _, err = r.Next()
	require.NoError(t, err)
	_, _, _, err = r.Next()
	assert.Error(t, err)
}

func TestWritePostingsListReadPostingsList_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postings.bin")
	f, err := os.Create(path)
	require.NoError(t, err)

	list := types.PostingsList{{DocID: 5, Freq: 2}, {DocID: 9, Freq: 7}}
	n, err := WritePostingsList(f, list)
	require.NoError(t, err)
	assert.Positive(t, n)
	require.NoError(t, f.Close())

	f, err = os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := ReadPostingsList(f)
	require.NoError(t, err)
	assert.Equal(t, list, got)
}
