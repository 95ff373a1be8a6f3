package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gloss.log")

	log, err := New(Options{File: path, JSON: true})
	require.NoError(t, err)
	log.Info("hello", "key", "value")
	assert.NoError(t, log.Close())
	assert.FileExists(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello", "Close flushes buffered records")
	assert.Nil(t, log.(*StdLogger).file, "Close releases the log file")
}

func TestNewRejectsUnwritableFile(t *testing.T) {
	_, err := New(Options{File: filepath.Join(t.TempDir(), "missing", "gloss.log")})
	assert.Error(t, err)
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	log.Error("e", "error", "x")
	assert.NoError(t, log.Close())
}
