package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorpusError_RecoverableAndUnwraps(t *testing.T) {
	underlying := errors.New("permission denied")
	err := NewCorpusError("/docs/1.txt", underlying)

	assert.Equal(t, KindCorpusIO, err.Kind())
	assert.True(t, err.Recoverable())
	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "/docs/1.txt")
}

func TestBlockError_FatalAndUnwraps(t *testing.T) {
	underlying := errors.New("disk full")
	err := NewBlockError(3, "/tmp/block-3.postings", "write", underlying)

	assert.Equal(t, KindTempIO, err.Kind())
	assert.False(t, err.Recoverable())
	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "block 3")
}

func TestMergeError_ReportsOutOfOrderTerms(t *testing.T) {
	err := NewMergeError(2, "zebra", "apple")

	assert.Equal(t, KindMergeDrift, err.Kind())
	assert.False(t, err.Recoverable())
	assert.Contains(t, err.Error(), "zebra")
	assert.Contains(t, err.Error(), "apple")
}

func TestSeekError_RecoverableAndUnwraps(t *testing.T) {
	underlying := errors.New("EOF")
	err := NewSeekError("term", 1024, underlying)

	assert.Equal(t, KindSeekRange, err.Kind())
	assert.True(t, err.Recoverable())
	assert.ErrorIs(t, err, underlying)
}
