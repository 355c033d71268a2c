// Package revert undoes exactly the changes recorded in the manifest, in
// a fixed safe order: strip the managed block, restore the rc file from
// its backup, delete cloned plugin directories, optionally remove
// oh-my-zsh and installed packages, restore the previous default shell,
// and finally delete the manifest.
//
// Only loading the manifest is fatal. Every other step is best-effort:
// failures become warnings and the remaining steps still run, so a
// revert always finishes and deletes the manifest rather than leaving a
// half-applied state behind forever.
package revert

import (
	"context"
	"fmt"
	"os"

	"github.com/zshup/zshup/pkg/zshup/config"
	"github.com/zshup/zshup/pkg/zshup/ledger"
	"github.com/zshup/zshup/pkg/zshup/logging"
	"github.com/zshup/zshup/pkg/zshup/manifest"
	"github.com/zshup/zshup/pkg/zshup/pkgmgr"
	"github.com/zshup/zshup/pkg/zshup/plugins"
	"github.com/zshup/zshup/pkg/zshup/prompt"
	"github.com/zshup/zshup/pkg/zshup/rcblock"
	"github.com/zshup/zshup/pkg/zshup/shellenv"
)

var logger = logging.Get("revert")

// Options tunes a revert run.
type Options struct {
	// DryRun loads the manifest and reports what would be undone
	// without mutating anything.
	DryRun bool
}

// Result summarizes a revert run.
type Result struct {
	// Cancelled is true when the user declined the confirmation gate;
	// nothing was changed.
	Cancelled bool

	// DryRun is true when nothing was mutated.
	DryRun bool

	// RCRestored is true when the rc file was restored from its backup.
	RCRestored bool

	// PluginsRemoved lists plugin directories deleted by this revert.
	PluginsRemoved []string

	// OhMyZshRemoved is true when oh-my-zsh was removed.
	OhMyZshRemoved bool

	// ShellRestored is true when the previous default shell was
	// restored.
	ShellRestored bool

	// PackagesRemoved lists packages removed by this revert.
	PackagesRemoved []string

	// PackagesSkipped lists recorded packages that were no longer
	// installed and were silently skipped.
	PackagesSkipped []string

	// Warnings collects non-fatal problems; they never change the exit
	// code.
	Warnings []string
}

// Engine drives a revert run. The package manager may be nil when
// detection failed; optional package removal then degrades to a warning.
type Engine struct {
	cfg     *config.Config
	mgr     pkgmgr.Manager
	confirm prompt.Confirmer
	store   *manifest.Store
	opts    Options
}

// New returns an engine wired to its collaborators.
func New(cfg *config.Config, mgr pkgmgr.Manager, confirm prompt.Confirmer, store *manifest.Store, opts Options) *Engine {
	return &Engine{cfg: cfg, mgr: mgr, confirm: confirm, store: store, opts: opts}
}

// Run executes the revert state machine. It returns an error only for
// the fatal load step; everything afterwards accumulates warnings.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	// Step 1: load. Fatal when missing or corrupt; zero mutations
	// have happened at this point.
	rec, meta, err := e.store.Load()
	if err != nil {
		return nil, err
	}
	logger.Info("manifest loaded", "path", e.store.Path(), "created_at", meta.CreatedAt, "run_id", meta.RunID)

	res := &Result{}

	// Step 2: confirm. Declining performs zero mutations and exits
	// successfully.
	if !e.confirm.Confirm(fmt.Sprintf("Revert all changes recorded on %s?", meta.CreatedAt.Format("2006-01-02 15:04")), false) {
		res.Cancelled = true
		return res, nil
	}

	if e.opts.DryRun {
		res.DryRun = true
		res.PluginsRemoved = rec.Plugins
		res.PackagesRemoved = rec.Packages
		return res, nil
	}

	// Step 3: strip the managed block, unconditionally.
	if err := rcblock.Remove(e.cfg.RCFile); err != nil {
		e.warn(res, "removing managed block: %v", err)
	}

	// Step 4: restore the rc file from its most recent backup.
	e.restoreRC(rec, res)

	// Step 5: delete cloned plugin directories.
	e.removePlugins(rec, res)

	// Step 6: optionally remove oh-my-zsh, only when this run
	// installed it.
	e.removeOhMyZsh(rec, res)

	// Step 7: restore the previous default shell.
	e.restoreShell(ctx, rec, res)

	// Step 8: optional package removal.
	e.removePackages(ctx, rec, res)

	// Step 9: delete the manifest. This is the commit point: once it
	// is gone the run counts as fully reverted, warnings included.
	if err := e.store.Delete(); err != nil {
		e.warn(res, "deleting manifest: %v", err)
	}

	return res, nil
}

func (e *Engine) restoreRC(rec *ledger.Record, res *Result) {
	pair, found := rec.LatestBackupFor(e.cfg.RCFile)
	if !found {
		e.warn(res, "no backup recorded for %s; leaving the stripped file in place", e.cfg.RCFile)
		return
	}
	if _, err := os.Stat(pair.Backup); err != nil {
		e.warn(res, "backup %s no longer exists; leaving the stripped file in place", pair.Backup)
		return
	}
	if err := shellenv.RestoreFile(pair.Backup, pair.Original); err != nil {
		e.warn(res, "restoring %s: %v", pair.Original, err)
		return
	}
	res.RCRestored = true
}

func (e *Engine) removePlugins(rec *ledger.Record, res *Result) {
	for _, dir := range rec.Plugins {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			// Already removed is not a failure.
			logger.Debug("plugin directory already gone", "dir", dir)
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			e.warn(res, "removing plugin %s: %v", dir, err)
			continue
		}
		logger.Info("removed plugin directory", "dir", dir)
		res.PluginsRemoved = append(res.PluginsRemoved, dir)
	}
}

func (e *Engine) removeOhMyZsh(rec *ledger.Record, res *Result) {
	if !rec.OhMyZshInstalled {
		return
	}
	dir := plugins.OhMyZshDir()
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return
	}
	if !e.confirm.Confirm(fmt.Sprintf("Remove oh-my-zsh (%s)?", dir), false) {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		e.warn(res, "removing oh-my-zsh: %v", err)
		return
	}
	res.OhMyZshRemoved = true
}

func (e *Engine) restoreShell(ctx context.Context, rec *ledger.Record, res *Result) {
	if !rec.ShellChanged {
		return
	}
	if rec.OldShell == "" {
		e.warn(res, "no previous shell recorded; default shell left as-is")
		return
	}
	if !shellenv.IsExecutable(rec.OldShell) {
		e.warn(res, "previous shell %s is not executable; default shell left as-is", rec.OldShell)
		return
	}
	if err := shellenv.ChangeShell(ctx, rec.OldShell); err != nil {
		// chsh can require privileges we do not have.
		e.warn(res, "restoring default shell: %v", err)
		return
	}
	res.ShellRestored = true
}

func (e *Engine) removePackages(ctx context.Context, rec *ledger.Record, res *Result) {
	if len(rec.Packages) == 0 {
		return
	}
	if !e.confirm.Confirm(fmt.Sprintf("Also remove the %d packages installed by zshup?", len(rec.Packages)), false) {
		return
	}
	if e.mgr == nil {
		e.warn(res, "no package manager available; packages left installed")
		return
	}

	for _, pkg := range rec.Packages {
		installed, err := e.mgr.IsInstalled(ctx, pkg)
		if err != nil {
			e.warn(res, "querying %s: %v", pkg, err)
			continue
		}
		if !installed {
			// Manually removed between install and revert; skip
			// silently.
			res.PackagesSkipped = append(res.PackagesSkipped, pkg)
			continue
		}
		if err := e.mgr.Remove(ctx, pkg); err != nil {
			e.warn(res, "removing %s: %v", pkg, err)
			continue
		}
		res.PackagesRemoved = append(res.PackagesRemoved, pkg)
	}
}

func (e *Engine) warn(res *Result, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Warn(msg)
	res.Warnings = append(res.Warnings, msg)
}
