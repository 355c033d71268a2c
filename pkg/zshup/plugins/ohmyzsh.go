package plugins

import (
	"context"
	"os"
	"path/filepath"
)

// ohMyZshURL is the upstream oh-my-zsh repository. Installation is an
// unattended clone, never a piped install script.
const ohMyZshURL = "https://github.com/ohmyzsh/ohmyzsh.git"

// OhMyZshDir returns the oh-my-zsh installation directory, honoring $ZSH
// when set.
func OhMyZshDir() string {
	if dir := os.Getenv("ZSH"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".oh-my-zsh")
}

// OhMyZshInstalled reports whether oh-my-zsh is already present.
func OhMyZshInstalled() bool {
	dir := OhMyZshDir()
	if dir == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(dir, "oh-my-zsh.sh"))
	return err == nil
}

// InstallOhMyZsh clones oh-my-zsh into its directory. The returned bool
// reports whether this call performed the install; a pre-existing
// installation is a no-op success and must not be recorded.
func InstallOhMyZsh(ctx context.Context) (bool, error) {
	if OhMyZshInstalled() {
		return false, nil
	}
	return Clone(ctx, ohMyZshURL, OhMyZshDir())
}
