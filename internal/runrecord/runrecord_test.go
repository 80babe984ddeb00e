package runrecord

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retrix.run.json")
	want := Record{
		DirDoc:       "/corpus",
		DictPath:     "/out/retrix.dict",
		PostingsPath: "/out/retrix.postings",
		LengthsPath:  "/out/lengths.txt",
	}

	require.NoError(t, Write(path, want))
	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRead_MissingFileErrors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
