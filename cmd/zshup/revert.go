package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zshup/zshup/pkg/zshup/logging"
	"github.com/zshup/zshup/pkg/zshup/manifest"
	"github.com/zshup/zshup/pkg/zshup/pkgmgr"
	"github.com/zshup/zshup/pkg/zshup/revert"
)

var revertCmd = &cobra.Command{
	Use:   "revert",
	Short: "Undo everything recorded in the manifest",
	Long: `Revert undoes the changes recorded by a previous 'zshup install':
it strips the managed block from your rc file, restores the rc file from
its backup, deletes cloned plugin directories, optionally removes
oh-my-zsh and the installed packages, and restores the previous default
shell. The manifest is deleted once the revert completes.

Only the recorded changes are touched; anything you installed or edited
yourself is left alone.`,
	Args: cobra.NoArgs,
	RunE: runRevert,
}

func init() {
	rootCmd.AddCommand(revertCmd)
}

func runRevert(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		printError("%v", err)
		return err
	}
	defer logging.Close()

	// A missing package manager is not fatal for revert; only the
	// optional package-removal step needs one.
	mgr, err := pkgmgr.Detect()
	if err != nil {
		printVerbose("no package manager detected: %v", err)
		mgr = nil
	}

	eng := revert.New(cfg, mgr, confirmer(), manifestStore(cfg), revert.Options{
		DryRun: getDryRun(),
	})

	res, err := eng.Run(cmd.Context())
	if err != nil {
		switch {
		case errors.Is(err, manifest.ErrNotFound):
			printError("no manifest found; nothing to revert")
		case errors.Is(err, manifest.ErrCorrupt):
			printError("the manifest is unreadable; refusing to guess what to undo: %v", err)
		default:
			printError("revert failed: %v", err)
		}
		return err
	}

	switch {
	case res.Cancelled:
		printInfo("Revert cancelled; nothing was changed.")
	case res.DryRun:
		printInfo("Dry run; nothing was changed. A revert would:")
		printInfo("  - strip the managed block from %s", cfg.RCFile)
		if len(res.PluginsRemoved) > 0 {
			printInfo("  - delete plugins: %s", strings.Join(res.PluginsRemoved, ", "))
		}
		if len(res.PackagesRemoved) > 0 {
			printInfo("  - offer to remove packages: %s", strings.Join(res.PackagesRemoved, ", "))
		}
		printInfo("  - delete the manifest")
	default:
		printRevertSummary(res)
	}

	return nil
}

func printRevertSummary(res *revert.Result) {
	if res.RCRestored {
		printInfo("Restored the rc file from its backup")
	}
	if len(res.PluginsRemoved) > 0 {
		printInfo("Removed plugins:  %s", strings.Join(res.PluginsRemoved, ", "))
	}
	if res.OhMyZshRemoved {
		printInfo("Removed oh-my-zsh")
	}
	if len(res.PackagesRemoved) > 0 {
		printInfo("Removed packages: %s", strings.Join(res.PackagesRemoved, ", "))
	}
	if len(res.PackagesSkipped) > 0 {
		printVerbose("packages already gone: %s", strings.Join(res.PackagesSkipped, ", "))
	}
	if res.ShellRestored {
		printInfo("Restored the previous default shell")
	}
	printInfo("Revert complete; the manifest has been deleted.")
	printWarnings(res.Warnings)
}
