// Package installer orchestrates a full zshup install run: package
// installation, plugin cloning, the optional oh-my-zsh bootstrap, the
// managed rc block, and the optional default-shell change. Every side
// effect is appended to the change ledger only after it has completed,
// and the ledger is persisted as the manifest at the end of the run.
package installer

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/google/uuid"
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

var logger = logging.Get("installer")

// ErrManifestExists is returned when a manifest from a previous run is
// still present. The previous run must be reverted before installing
// again.
var ErrManifestExists = errors.New("a manifest from a previous run exists; run 'zshup revert' first")

// Options tunes an install run.
type Options struct {
	// DryRun prints the plan without mutating anything and without
	// writing a manifest.
	DryRun bool

	// PluginsBase overrides the directory plugins are cloned into.
	// Empty uses the default under $XDG_DATA_HOME.
	PluginsBase string
}

// Result summarizes an install run.
type Result struct {
	// Cancelled is true when the user declined the confirmation gate;
	// nothing was changed.
	Cancelled bool

	// DryRun is true when the run only printed the plan.
	DryRun bool

	// Installed lists packages installed by this run.
	Installed []string

	// AlreadyPresent lists packages that were installed before the run
	// and were therefore left untouched (and unrecorded).
	AlreadyPresent []string

	// Plugins lists plugin directories cloned by this run.
	Plugins []string

	// OhMyZshInstalled is true when this run installed oh-my-zsh.
	OhMyZshInstalled bool

	// ShellChanged is true when this run changed the default shell.
	ShellChanged bool

	// Warnings collects non-fatal problems.
	Warnings []string

	// ManifestPath is where the manifest was written.
	ManifestPath string
}

// Installer runs the install flow.
type Installer struct {
	cfg     *config.Config
	mgr     pkgmgr.Manager
	confirm prompt.Confirmer
	store   *manifest.Store
	opts    Options
}

// New returns an installer wired to its collaborators.
func New(cfg *config.Config, mgr pkgmgr.Manager, confirm prompt.Confirmer, store *manifest.Store, opts Options) *Installer {
	return &Installer{cfg: cfg, mgr: mgr, confirm: confirm, store: store, opts: opts}
}

// Run executes the install flow. On a fatal mid-run error the ledger
// accumulated so far is still persisted, so everything already done can
// be reverted.
func (in *Installer) Run(ctx context.Context) (*Result, error) {
	if in.store.Exists() {
		return nil, ErrManifestExists
	}

	res := &Result{ManifestPath: in.store.Path()}

	question := fmt.Sprintf(
		"Install %d packages and %d plugins, and edit %s?",
		len(in.cfg.Packages), len(plugins.Enabled(in.cfg.Plugins)), in.cfg.RCFile)
	if !in.confirm.Confirm(question, true) {
		logger.Info("install cancelled by user")
		res.Cancelled = true
		return res, nil
	}

	if in.opts.DryRun {
		res.DryRun = true
		return res, nil
	}

	rec := ledger.New()

	runErr := in.apply(ctx, rec, res)

	// Persist whatever was done, even when the run failed part-way:
	// the manifest must never miss a recorded effect.
	if !rec.Empty() {
		if err := in.persist(rec); err != nil {
			if runErr != nil {
				return res, errors.Join(runErr, err)
			}
			return res, err
		}
	}

	return res, runErr
}

// apply performs the mutations in order, recording each in the ledger
// once it has succeeded.
func (in *Installer) apply(ctx context.Context, rec *ledger.Record, res *Result) error {
	if err := in.installPackages(ctx, rec, res); err != nil {
		return err
	}

	if in.cfg.OhMyZsh {
		installed, err := plugins.InstallOhMyZsh(ctx)
		if err != nil {
			return fmt.Errorf("installing oh-my-zsh: %w", err)
		}
		if installed {
			rec.MarkOhMyZshInstalled()
			res.OhMyZshInstalled = true
		}
	}

	if err := in.clonePlugins(ctx, rec, res); err != nil {
		return err
	}

	if err := in.writeRCBlock(rec); err != nil {
		return err
	}

	in.changeShell(ctx, rec, res)

	return nil
}

func (in *Installer) installPackages(ctx context.Context, rec *ledger.Record, res *Result) error {
	for _, pkg := range in.cfg.Packages {
		installed, err := in.mgr.IsInstalled(ctx, pkg)
		if err != nil {
			return fmt.Errorf("querying package %s: %w", pkg, err)
		}
		if installed {
			// Pre-existing packages are never recorded; revert must
			// only undo what this run did.
			logger.Debug("package already installed", "package", pkg)
			res.AlreadyPresent = append(res.AlreadyPresent, pkg)
			continue
		}

		if err := in.mgr.Install(ctx, pkg); err != nil {
			return fmt.Errorf("installing %s: %w", pkg, err)
		}
		rec.AddPackage(pkg)
		res.Installed = append(res.Installed, pkg)
	}
	return nil
}

func (in *Installer) pluginsBase() string {
	if in.opts.PluginsBase != "" {
		return in.opts.PluginsBase
	}
	return config.PluginsDir()
}

func (in *Installer) clonePlugins(ctx context.Context, rec *ledger.Record, res *Result) error {
	base := in.pluginsBase()
	for _, p := range plugins.Enabled(in.cfg.Plugins) {
		dest := plugins.Dir(base, p)
		cloned, err := plugins.Clone(ctx, p.URL, dest)
		if err != nil {
			return fmt.Errorf("cloning %s: %w", p.Name, err)
		}
		if cloned {
			rec.AddPlugin(dest)
			res.Plugins = append(res.Plugins, dest)
		}
	}
	return nil
}

func (in *Installer) writeRCBlock(rec *ledger.Record) error {
	rcPath := in.cfg.RCFile

	backup, err := shellenv.BackupFile(rcPath)
	if err != nil {
		return fmt.Errorf("backing up %s: %w", rcPath, err)
	}
	if backup != "" {
		rec.AddBackup(rcPath, backup)
	}

	if err := rcblock.Write(rcPath, in.section()); err != nil {
		return fmt.Errorf("writing managed block: %w", err)
	}
	rec.AddModified(rcPath)

	return nil
}

// section builds the managed block content from the configuration.
func (in *Installer) section() rcblock.Section {
	base := in.pluginsBase()
	return rcblock.Section{
		OhMyZsh:               in.cfg.OhMyZsh,
		OhMyZshDir:            plugins.OhMyZshDir(),
		Completions:           in.cfg.Plugins.Completions,
		CompletionsDir:        base + "/zsh-completions",
		Autosuggestions:       in.cfg.Plugins.Autosuggestions,
		AutosuggestionsDir:    base + "/zsh-autosuggestions",
		Aliases:               in.cfg.Features.Aliases,
		History:               in.cfg.Features.History,
		SyntaxHighlighting:    in.cfg.Plugins.SyntaxHighlighting,
		SyntaxHighlightingDir: base + "/zsh-syntax-highlighting",
	}
}

// changeShell optionally switches the default shell to zsh. Failures are
// warnings: chsh can require privileges we do not have.
func (in *Installer) changeShell(ctx context.Context, rec *ledger.Record, res *Result) {
	if !in.cfg.ChangeShell {
		return
	}

	zshPath, err := exec.LookPath("zsh")
	if err != nil {
		res.Warnings = append(res.Warnings, "zsh not found on PATH; default shell unchanged")
		return
	}

	current := shellenv.CurrentShell()
	if current == zshPath {
		return
	}

	if !in.confirm.Confirm(fmt.Sprintf("Change default shell to %s?", zshPath), true) {
		return
	}

	rec.SetOldShell(current)
	if err := shellenv.ChangeShell(ctx, zshPath); err != nil {
		logger.Warn("could not change default shell", "error", err)
		res.Warnings = append(res.Warnings, fmt.Sprintf("could not change default shell: %v", err))
		return
	}
	rec.MarkShellChanged()
	res.ShellChanged = true
}

// persist writes the ledger as the manifest, the single point of
// persistence for a run.
func (in *Installer) persist(rec *ledger.Record) error {
	meta := manifest.Metadata{
		Version:    manifest.Version,
		RunID:      uuid.NewString(),
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
		OSName:     runtime.GOOS,
		PkgManager: in.mgr.Name(),
	}
	if err := in.store.Save(rec, meta); err != nil {
		return fmt.Errorf("persisting manifest: %w", err)
	}
	logger.Info("manifest written", "path", in.store.Path(), "run_id", meta.RunID)
	return nil
}
