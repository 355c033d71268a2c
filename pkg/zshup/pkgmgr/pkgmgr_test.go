package pkgmgr

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFakeBinary drops an executable stub named name into dir.
func writeFakeBinary(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755))
}

func TestDetect(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH probing test is unix-only")
	}

	t.Run("no manager on PATH", func(t *testing.T) {
		t.Setenv("PATH", t.TempDir())

		_, err := Detect()
		assert.ErrorIs(t, err, ErrNoManager)
	})

	t.Run("first manager in probe order wins", func(t *testing.T) {
		dir := t.TempDir()
		writeFakeBinary(t, dir, "pacman")
		writeFakeBinary(t, dir, "brew")
		t.Setenv("PATH", dir)

		m, err := Detect()
		require.NoError(t, err)
		assert.Equal(t, "pacman", m.Name())
	})

	t.Run("brew detected when alone", func(t *testing.T) {
		dir := t.TempDir()
		writeFakeBinary(t, dir, "brew")
		t.Setenv("PATH", dir)

		m, err := Detect()
		require.NoError(t, err)
		assert.Equal(t, "brew", m.Name())
	})
}

func TestSystem_IsInstalled(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("exec test is unix-only")
	}

	dir := t.TempDir()

	// A query stub that succeeds only for the package "present".
	script := "#!/bin/sh\n[ \"$1\" = present ] && exit 0\nexit 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "querytool"), []byte(script), 0o755))
	t.Setenv("PATH", dir)

	m := &system{spec: spec{name: "stub", query: []string{"querytool"}}}

	installed, err := m.IsInstalled(context.Background(), "present")
	require.NoError(t, err)
	assert.True(t, installed)

	installed, err = m.IsInstalled(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, installed)
}

func TestFake(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := NewFake("zsh")

	installed, err := f.IsInstalled(ctx, "zsh")
	require.NoError(t, err)
	assert.True(t, installed)

	require.NoError(t, f.Install(ctx, "git"))
	installed, err = f.IsInstalled(ctx, "git")
	require.NoError(t, err)
	assert.True(t, installed)

	f.FailRemove["git"] = true
	assert.Error(t, f.Remove(ctx, "git"))

	delete(f.FailRemove, "git")
	require.NoError(t, f.Remove(ctx, "git"))
	installed, err = f.IsInstalled(ctx, "git")
	require.NoError(t, err)
	assert.False(t, installed)

	assert.Equal(t, []string{"git"}, f.InstallCalls)
	assert.Equal(t, []string{"git", "git"}, f.RemoveCalls)
}
