package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashBytes(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", HashBytes(nil))
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", HashBytes([]byte("hello")))
}

func TestCalculateFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	got, err := CalculateFileHash(path)
	require.NoError(t, err)
	assert.Equal(t, HashBytes([]byte("hello")), got)

	_, err = CalculateFileHash(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
