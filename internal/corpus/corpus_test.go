package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDiscover_NumbersByIntegerBaseNameAscending(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "2.txt", "second")
	writeDoc(t, dir, "1.txt", "first")
	writeDoc(t, dir, "10.txt", "tenth")

	files, err := Discover(dir, Options{})
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, []int{1, 2, 10}, []int{int(files[0].ID), int(files[1].ID), int(files[2].ID)})
}

func TestDiscover_SkipsNonIntegerBaseNames(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "1.txt", "ok")
	writeDoc(t, dir, "readme.txt", "not a doc id")

	files, err := Discover(dir, Options{})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, 1, int(files[0].ID))
}

func TestDiscover_IncludeExcludeGlobs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	writeDoc(t, dir, "1.txt", "root")
	writeDoc(t, dir, filepath.Join("sub", "2.txt"), "nested")

	files, err := Discover(dir, Options{Include: []string{"sub/**"}})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, 2, int(files[0].ID))

	files, err = Discover(dir, Options{Exclude: []string{"sub/**"}})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, 1, int(files[0].ID))
}

func TestLoad_SkipsUnreadableFilesAndReportsErrors(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "1.txt", "hello")
	files := []File{
		{ID: 1, Path: filepath.Join(dir, "1.txt")},
		{ID: 2, Path: filepath.Join(dir, "missing.txt")},
	}

	docs, errs := Load(files, PlainTextSource{})
	require.Len(t, docs, 1)
	assert.Equal(t, "hello", docs[0].Content)
	require.Len(t, errs, 1)
	assert.True(t, errs[0].Recoverable())
}

func TestPlainTextSource_ExtractReadsVerbatim(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	writeDoc(t, dir, "doc.txt", "verbatim content")

	content, err := PlainTextSource{}.Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "verbatim content", content)
}
