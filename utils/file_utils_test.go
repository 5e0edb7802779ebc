package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	fpath := filepath.Join(dir, "nested", "chain.json")

	assert.Nil(t, WriteFileAtomic(fpath, []byte("first"), 0600))
	assert.Nil(t, WriteFileAtomic(fpath, []byte("second"), 0600))

	content, err := ReadFileIfExists(fpath)
	assert.Nil(t, err)
	assert.Equal(t, "second", string(content))

	entries, err := os.ReadDir(filepath.Dir(fpath))
	assert.Nil(t, err)
	assert.Len(t, entries, 1)
}

func TestReadFileIfExistsMissing(t *testing.T) {
	content, err := ReadFileIfExists(filepath.Join(t.TempDir(), "missing"))
	assert.Nil(t, err)
	assert.Nil(t, content)
}
