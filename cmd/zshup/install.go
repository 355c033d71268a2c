package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zshup/zshup/pkg/zshup/config"
	"github.com/zshup/zshup/pkg/zshup/installer"
	"github.com/zshup/zshup/pkg/zshup/logging"
	"github.com/zshup/zshup/pkg/zshup/pkgmgr"
	"github.com/zshup/zshup/pkg/zshup/plugins"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install zsh, plugins, and the managed .zshrc block",
	Long: `Install zsh and the configured tooling: packages through the system
package manager, zsh plugins cloned from GitHub, optionally oh-my-zsh,
a managed block in your rc file, and optionally the default shell.

Every change is recorded in a manifest so 'zshup revert' can undo the
whole run. Install refuses to run while a manifest from a previous run
exists.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		printError("%v", err)
		return err
	}
	defer logging.Close()

	mgr, err := pkgmgr.Detect()
	if err != nil {
		if errors.Is(err, pkgmgr.ErrNoManager) {
			printError("no supported package manager found (apt, dnf, pacman, zypper, apk, brew)")
		} else {
			printError("detecting package manager: %v", err)
		}
		return err
	}
	printVerbose("using package manager: %s", mgr.Name())

	in := installer.New(cfg, mgr, confirmer(), manifestStore(cfg), installer.Options{
		DryRun: getDryRun(),
	})

	res, err := in.Run(cmd.Context())
	if err != nil {
		if errors.Is(err, installer.ErrManifestExists) {
			printError("%v", err)
			return err
		}
		printError("install failed: %v", err)
		if res != nil && len(res.Warnings) > 0 {
			printWarnings(res.Warnings)
		}
		return err
	}

	switch {
	case res.Cancelled:
		printInfo("Install cancelled; nothing was changed.")
	case res.DryRun:
		printDryRunPlan(cfg, mgr)
	default:
		printInstallSummary(res)
	}

	return nil
}

// printDryRunPlan shows what an install run would do.
func printDryRunPlan(cfg *config.Config, mgr pkgmgr.Manager) {
	printInfo("Dry run; nothing was changed. An install would:")
	printInfo("  - install packages via %s: %s", mgr.Name(), strings.Join(cfg.Packages, ", "))
	if cfg.OhMyZsh {
		printInfo("  - install oh-my-zsh")
	}
	var names []string
	for _, p := range plugins.Enabled(cfg.Plugins) {
		names = append(names, p.Name)
	}
	if len(names) > 0 {
		printInfo("  - clone plugins: %s", strings.Join(names, ", "))
	}
	printInfo("  - write the managed block to %s", cfg.RCFile)
	if cfg.ChangeShell {
		printInfo("  - change the default shell to zsh")
	}
}

func printInstallSummary(res *installer.Result) {
	if len(res.Installed) > 0 {
		printInfo("Installed packages: %s", strings.Join(res.Installed, ", "))
	}
	if len(res.AlreadyPresent) > 0 {
		printInfo("Already present:    %s", strings.Join(res.AlreadyPresent, ", "))
	}
	if len(res.Plugins) > 0 {
		printInfo("Cloned plugins:     %s", strings.Join(res.Plugins, ", "))
	}
	if res.OhMyZshInstalled {
		printInfo("Installed oh-my-zsh")
	}
	if res.ShellChanged {
		printInfo("Changed the default shell to zsh (takes effect on next login)")
	}
	printInfo("Manifest written to %s", res.ManifestPath)
	printInfo("Run 'zshup revert' to undo these changes.")
	printWarnings(res.Warnings)
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Printf("Warning: %s\n", w)
	}
}
