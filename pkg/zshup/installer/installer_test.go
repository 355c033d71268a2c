package installer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zshup/zshup/pkg/zshup/config"
	"github.com/zshup/zshup/pkg/zshup/manifest"
	"github.com/zshup/zshup/pkg/zshup/pkgmgr"
	"github.com/zshup/zshup/pkg/zshup/prompt"
	"github.com/zshup/zshup/pkg/zshup/rcblock"
)

// fixture wires an installer against temp directories and stubbed
// external commands.
type fixture struct {
	cfg   *config.Config
	fake  *pkgmgr.Fake
	store *manifest.Store
	base  string
}

func newFixture(t *testing.T, preinstalled ...string) *fixture {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("install flow test is unix-only")
	}

	dir := t.TempDir()

	// Stub git so plugin clones work without a network.
	binDir := filepath.Join(dir, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	gitStub := "#!/bin/sh\n/bin/mkdir -p \"$5\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "git"), []byte(gitStub), 0o755))
	t.Setenv("PATH", binDir)

	cfg := &config.Config{
		RCFile:      filepath.Join(dir, ".zshrc"),
		Packages:    []string{"zsh", "git", "curl"},
		ChangeShell: false,
		Plugins:     config.PluginsConfig{Autosuggestions: true},
		Features:    config.FeaturesConfig{Aliases: true},
	}

	return &fixture{
		cfg:   cfg,
		fake:  pkgmgr.NewFake(preinstalled...),
		store: manifest.NewStore(filepath.Join(dir, "state", "manifest")),
		base:  filepath.Join(dir, "plugins"),
	}
}

func (f *fixture) run(t *testing.T, confirm prompt.Confirmer, opts Options) (*Result, error) {
	t.Helper()
	opts.PluginsBase = f.base
	in := New(f.cfg, f.fake, confirm, f.store, opts)
	return in.Run(context.Background())
}

func TestInstaller_Run(t *testing.T) {
	f := newFixture(t, "git")
	require.NoError(t, os.WriteFile(f.cfg.RCFile, []byte("# user config\n"), 0o644))

	res, err := f.run(t, prompt.AssumeYes{}, Options{})
	require.NoError(t, err)

	assert.False(t, res.Cancelled)
	assert.Equal(t, []string{"zsh", "curl"}, res.Installed)
	assert.Equal(t, []string{"git"}, res.AlreadyPresent)
	assert.Equal(t, []string{"zsh", "curl"}, f.fake.InstallCalls)

	// The manifest records exactly what this run did.
	rec, meta, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"zsh", "curl"}, rec.Packages)
	assert.NotContains(t, rec.Packages, "git", "pre-installed package must not be recorded")
	assert.Equal(t, []string{filepath.Join(f.base, "zsh-autosuggestions")}, rec.Plugins)
	assert.Equal(t, []string{f.cfg.RCFile}, rec.Modified)
	require.Len(t, rec.Backups, 1)
	assert.Equal(t, f.cfg.RCFile, rec.Backups[0].Original)
	assert.Equal(t, "fake", meta.PkgManager)
	assert.NotEmpty(t, meta.RunID)

	// The rc file got exactly one managed block after the user content.
	content, err := os.ReadFile(f.cfg.RCFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# user config")
	assert.Contains(t, string(content), rcblock.StartMarker)
	assert.Contains(t, string(content), "zsh-autosuggestions.zsh")
	assert.NotContains(t, string(content), "zsh-syntax-highlighting")
}

func TestInstaller_NoBackupWhenRCFileAbsent(t *testing.T) {
	f := newFixture(t)

	res, err := f.run(t, prompt.AssumeYes{}, Options{})
	require.NoError(t, err)
	assert.False(t, res.Cancelled)

	rec, _, err := f.store.Load()
	require.NoError(t, err)
	assert.Empty(t, rec.Backups)
	assert.Equal(t, []string{f.cfg.RCFile}, rec.Modified)
}

func TestInstaller_Cancelled(t *testing.T) {
	f := newFixture(t)

	res, err := f.run(t, &prompt.Scripted{Answers: []bool{false}}, Options{})
	require.NoError(t, err)

	assert.True(t, res.Cancelled)
	assert.Empty(t, f.fake.InstallCalls)
	assert.False(t, f.store.Exists())
	_, err = os.Stat(f.cfg.RCFile)
	assert.True(t, os.IsNotExist(err))
}

func TestInstaller_DryRun(t *testing.T) {
	f := newFixture(t)

	res, err := f.run(t, prompt.AssumeYes{}, Options{DryRun: true})
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.Empty(t, f.fake.InstallCalls)
	assert.False(t, f.store.Exists())
}

func TestInstaller_RefusesWhenManifestExists(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, prompt.AssumeYes{}, Options{})
	require.NoError(t, err)
	require.True(t, f.store.Exists())

	_, err = f.run(t, prompt.AssumeYes{}, Options{})
	assert.ErrorIs(t, err, ErrManifestExists)
}

func TestInstaller_PersistsPartialLedgerOnFailure(t *testing.T) {
	f := newFixture(t)
	f.fake.FailInstall["curl"] = true

	_, err := f.run(t, prompt.AssumeYes{}, Options{})
	require.Error(t, err)

	// Everything done before the failure is still revertable.
	rec, _, loadErr := f.store.Load()
	require.NoError(t, loadErr)
	assert.Equal(t, []string{"zsh", "git"}, rec.Packages)
}
