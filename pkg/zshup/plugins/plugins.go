// Package plugins manages the zsh plugins zshup can install: a fixed
// registry of clonable plugin repositories plus the optional oh-my-zsh
// bootstrap.
package plugins

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/zshup/zshup/pkg/zshup/config"
	"github.com/zshup/zshup/pkg/zshup/logging"
)

var logger = logging.Get("plugins")

// Plugin describes one clonable zsh plugin.
type Plugin struct {
	// Name is the plugin directory name.
	Name string

	// URL is the git repository to clone.
	URL string
}

// The fixed plugin registry. Order here is install order.
var registry = []Plugin{
	{Name: "zsh-autosuggestions", URL: "https://github.com/zsh-users/zsh-autosuggestions.git"},
	{Name: "zsh-syntax-highlighting", URL: "https://github.com/zsh-users/zsh-syntax-highlighting.git"},
	{Name: "zsh-completions", URL: "https://github.com/zsh-users/zsh-completions.git"},
}

// Enabled returns the registry plugins selected by the configuration, in
// registry order.
func Enabled(cfg config.PluginsConfig) []Plugin {
	var selected []Plugin
	for _, p := range registry {
		switch p.Name {
		case "zsh-autosuggestions":
			if cfg.Autosuggestions {
				selected = append(selected, p)
			}
		case "zsh-syntax-highlighting":
			if cfg.SyntaxHighlighting {
				selected = append(selected, p)
			}
		case "zsh-completions":
			if cfg.Completions {
				selected = append(selected, p)
			}
		}
	}
	return selected
}

// Dir returns the directory a plugin is cloned into under base.
func Dir(base string, p Plugin) string {
	return filepath.Join(base, p.Name)
}

// Clone clones a repository into dest with --depth 1. An existing
// destination directory is a no-op success; the returned bool reports
// whether this call performed the clone, so callers only record
// directories this run created.
func Clone(ctx context.Context, url, dest string) (bool, error) {
	if _, err := os.Stat(dest); err == nil {
		logger.Debug("plugin directory already present", "dest", dest)
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat %s: %w", dest, err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return false, fmt.Errorf("creating plugin parent directory: %w", err)
	}

	logger.Info("cloning plugin", "url", url, "dest", dest)
	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", url, dest)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return false, fmt.Errorf("git clone %s: %w: %s", url, err, strings.TrimSpace(string(out)))
	}
	return true, nil
}
