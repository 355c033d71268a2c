// Package config provides configuration management for zshup.
package config

// Default configuration values for zshup.
const (
	// DefaultRCFile is the rc file that carries the managed block.
	DefaultRCFile = "~/.zshrc"

	// DefaultLogLevel is the default logging level.
	DefaultLogLevel = "info"
)

// DefaultPackages are the CLI tools zshup installs by default.
var DefaultPackages = []string{"zsh", "git", "curl", "fzf"}
