// Package status inspects the machine and the manifest without mutating
// anything, producing a report the output formatters render.
package status

import (
	"errors"
	"os/exec"
	"time"

	"github.com/zshup/zshup/pkg/zshup/config"
	"github.com/zshup/zshup/pkg/zshup/logging"
	"github.com/zshup/zshup/pkg/zshup/manifest"
	"github.com/zshup/zshup/pkg/zshup/pkgmgr"
	"github.com/zshup/zshup/pkg/zshup/plugins"
	"github.com/zshup/zshup/pkg/zshup/rcblock"
	"github.com/zshup/zshup/pkg/zshup/shellenv"
)

var logger = logging.Get("status")

// tools is the fixed set of commands the report checks for.
var tools = []string{"zsh", "git", "curl", "fzf"}

// ToolInfo describes one command looked up on PATH.
type ToolInfo struct {
	// Name is the command name.
	Name string `json:"name" yaml:"name"`

	// Found is true when the command is on PATH.
	Found bool `json:"found" yaml:"found"`

	// Path is the resolved path when found.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// ManifestInfo summarizes the manifest for display.
type ManifestInfo struct {
	// Present is true when a manifest file exists.
	Present bool `json:"present" yaml:"present"`

	// Path is where the manifest lives (or would live).
	Path string `json:"path" yaml:"path"`

	// Corrupt is true when a manifest file exists but cannot be decoded.
	Corrupt bool `json:"corrupt,omitempty" yaml:"corrupt,omitempty"`

	// RunID identifies the install run; may be empty.
	RunID string `json:"run_id,omitempty" yaml:"run_id,omitempty"`

	// CreatedAt is when the install ran.
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`

	// Age is the time elapsed since CreatedAt.
	Age time.Duration `json:"age,omitempty" yaml:"age,omitempty"`

	// OSName and PkgManager are the environment recorded at install time.
	OSName     string `json:"os_name,omitempty" yaml:"os_name,omitempty"`
	PkgManager string `json:"pkg_manager,omitempty" yaml:"pkg_manager,omitempty"`

	// Packages, Plugins, and Modified mirror the recorded changes.
	Packages []string `json:"packages,omitempty" yaml:"packages,omitempty"`
	Plugins  []string `json:"plugins,omitempty" yaml:"plugins,omitempty"`
	Modified []string `json:"modified,omitempty" yaml:"modified,omitempty"`

	// Backups is the number of recorded backup pairs.
	Backups int `json:"backups,omitempty" yaml:"backups,omitempty"`

	// OldShell is the shell recorded before a shell change.
	OldShell string `json:"old_shell,omitempty" yaml:"old_shell,omitempty"`

	// ShellChanged and OhMyZshInstalled mirror the recorded flags.
	ShellChanged     bool `json:"shell_changed,omitempty" yaml:"shell_changed,omitempty"`
	OhMyZshInstalled bool `json:"oh_my_zsh_installed,omitempty" yaml:"oh_my_zsh_installed,omitempty"`
}

// Report is the full read-only view of the current state.
type Report struct {
	// Manifest summarizes the recorded install run, if any.
	Manifest ManifestInfo `json:"manifest" yaml:"manifest"`

	// RCFile is the configured rc file path.
	RCFile string `json:"rc_file" yaml:"rc_file"`

	// BlockPresent is true when the rc file carries the managed block.
	BlockPresent bool `json:"block_present" yaml:"block_present"`

	// PackageManager is the detected package manager; empty when none.
	PackageManager string `json:"package_manager,omitempty" yaml:"package_manager,omitempty"`

	// Tools reports availability of the commands zshup cares about.
	Tools []ToolInfo `json:"tools" yaml:"tools"`

	// OhMyZshPresent is true when an oh-my-zsh installation exists,
	// regardless of who installed it.
	OhMyZshPresent bool `json:"oh_my_zsh_present" yaml:"oh_my_zsh_present"`

	// CurrentShell is the login shell as currently observed.
	CurrentShell string `json:"current_shell,omitempty" yaml:"current_shell,omitempty"`
}

// Collect builds a report. It never mutates anything and only fails on
// unexpected I/O errors; a missing or corrupt manifest is reported, not
// returned as an error.
func Collect(cfg *config.Config, store *manifest.Store) (*Report, error) {
	rep := &Report{
		RCFile:       cfg.RCFile,
		CurrentShell: shellenv.CurrentShell(),
	}

	rep.Manifest = collectManifest(store)
	rep.BlockPresent = rcblock.Present(cfg.RCFile)
	rep.OhMyZshPresent = plugins.OhMyZshInstalled()

	if mgr, err := pkgmgr.Detect(); err == nil {
		rep.PackageManager = mgr.Name()
	}

	for _, name := range tools {
		info := ToolInfo{Name: name}
		if path, err := exec.LookPath(name); err == nil {
			info.Found = true
			info.Path = path
		}
		rep.Tools = append(rep.Tools, info)
	}

	return rep, nil
}

func collectManifest(store *manifest.Store) ManifestInfo {
	info := ManifestInfo{Path: store.Path()}

	rec, meta, err := store.Load()
	switch {
	case errors.Is(err, manifest.ErrNotFound):
		return info
	case errors.Is(err, manifest.ErrCorrupt):
		logger.Warn("manifest exists but cannot be decoded", "path", store.Path(), "error", err)
		info.Present = true
		info.Corrupt = true
		return info
	case err != nil:
		logger.Warn("reading manifest", "path", store.Path(), "error", err)
		info.Present = store.Exists()
		info.Corrupt = info.Present
		return info
	}

	info.Present = true
	info.RunID = meta.RunID
	info.CreatedAt = meta.CreatedAt
	info.Age = time.Since(meta.CreatedAt)
	info.OSName = meta.OSName
	info.PkgManager = meta.PkgManager
	info.Packages = rec.Packages
	info.Plugins = rec.Plugins
	info.Modified = rec.Modified
	info.Backups = len(rec.Backups)
	info.OldShell = rec.OldShell
	info.ShellChanged = rec.ShellChanged
	info.OhMyZshInstalled = rec.OhMyZshInstalled
	return info
}
