package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRotatingWriter(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "nested", "dir", "zshup.log")

		w, err := NewRotatingWriter(path, RotationConfig{})
		require.NoError(t, err)
		defer func() { _ = w.Close() }()

		_, err = os.Stat(filepath.Dir(path))
		assert.NoError(t, err)
	})

	t.Run("applies default max size", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "zshup.log")

		w, err := NewRotatingWriter(path, RotationConfig{})
		require.NoError(t, err)
		defer func() { _ = w.Close() }()

		assert.Equal(t, DefaultRotationConfig().MaxSize, w.cfg.MaxSize)
	})
}

func TestRotatingWriter_Write(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "zshup.log")
	w, err := NewRotatingWriter(path, RotationConfig{MaxSize: 1024})
	require.NoError(t, err)

	n, err := w.Write([]byte("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	require.NoError(t, w.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(content))
}

func TestRotatingWriter_SizeRotation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "zshup.log")

	w, err := NewRotatingWriter(path, RotationConfig{MaxSize: 32})
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	line := strings.Repeat("x", 20) + "\n"
	_, err = w.Write([]byte(line))
	require.NoError(t, err)
	_, err = w.Write([]byte(line))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	// Main file plus at least one rotated file.
	assert.GreaterOrEqual(t, len(entries), 2)

	var rotatedFound bool
	for _, entry := range entries {
		if entry.Name() != "zshup.log" && strings.HasPrefix(entry.Name(), "zshup.") {
			rotatedFound = true
		}
	}
	assert.True(t, rotatedFound, "expected a rotated log file")
}

func TestRotatingWriter_MaxBackups(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "zshup.log")

	w, err := NewRotatingWriter(path, RotationConfig{MaxSize: 16, MaxBackups: 1})
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	// Force several rotations.
	for range 5 {
		_, err := w.Write([]byte(strings.Repeat("y", 20)))
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	rotated := 0
	for _, entry := range entries {
		if entry.Name() != "zshup.log" {
			rotated++
		}
	}
	assert.LessOrEqual(t, rotated, 2, "cleanup should bound rotated files near MaxBackups")
}

func TestRotatingWriter_CloseIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "zshup.log")
	w, err := NewRotatingWriter(path, RotationConfig{})
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
