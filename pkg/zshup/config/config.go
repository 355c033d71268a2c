package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// PluginsConfig selects which zsh plugins are installed and enabled in the
// managed block.
type PluginsConfig struct {
	Autosuggestions    bool `mapstructure:"autosuggestions"`
	SyntaxHighlighting bool `mapstructure:"syntax_highlighting"`
	Completions        bool `mapstructure:"completions"`
}

// FeaturesConfig selects optional managed-block fragments that need no
// plugin installation.
type FeaturesConfig struct {
	Aliases bool `mapstructure:"aliases"`
	History bool `mapstructure:"history"`
}

// Config represents the application configuration.
type Config struct {
	RCFile      string         `mapstructure:"rc_file"`
	Packages    []string       `mapstructure:"packages"`
	OhMyZsh     bool           `mapstructure:"ohmyzsh"`
	ChangeShell bool           `mapstructure:"change_shell"`
	Plugins     PluginsConfig  `mapstructure:"plugins"`
	Features    FeaturesConfig `mapstructure:"features"`
	Manifest    struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"manifest"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/zshup/config.yaml
//   - $HOME/.config/zshup/config.yaml
//
// Environment variables are prefixed with ZSHUP_ (e.g. ZSHUP_RC_FILE).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "zshup"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "zshup"))

	v.SetEnvPrefix("ZSHUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.RCFile, err = ExpandPath(cfg.RCFile); err != nil {
		return nil, err
	}
	if cfg.Manifest.Path, err = ExpandPath(cfg.Manifest.Path); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers every configuration default on the given viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("rc_file", DefaultRCFile)
	v.SetDefault("packages", DefaultPackages)
	v.SetDefault("ohmyzsh", false)
	v.SetDefault("change_shell", true)

	v.SetDefault("plugins.autosuggestions", true)
	v.SetDefault("plugins.syntax_highlighting", true)
	v.SetDefault("plugins.completions", false)

	v.SetDefault("features.aliases", true)
	v.SetDefault("features.history", true)

	v.SetDefault("manifest.path", DefaultManifestPath())

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.path", "") // empty means use the default log path
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "zshup"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "zshup"), nil
}

// DataDir returns $XDG_DATA_HOME/zshup/ for cloned plugins.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "zshup")
}

// StateDir returns $XDG_STATE_HOME/zshup/ for the manifest and log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "zshup")
}

// PluginsDir returns the directory plugins are cloned into.
func PluginsDir() string {
	return filepath.Join(DataDir(), "plugins")
}

// DefaultManifestPath returns the default manifest file location.
func DefaultManifestPath() string {
	return filepath.Join(StateDir(), "manifest")
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	if err := os.MkdirAll(DataDir(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# zshup configuration

# The rc file that carries the zshup-managed block
rc_file: %s

# CLI tools installed through the detected package manager
packages:
  - zsh
  - git
  - curl
  - fzf

# Install oh-my-zsh and source it from the managed block
ohmyzsh: false

# Change the default login shell to zsh
change_shell: true

# zsh plugins cloned and enabled in the managed block
plugins:
  autosuggestions: true
  syntax_highlighting: true
  completions: false

# Plain managed-block fragments
features:
  aliases: true
  history: true

# Where the change manifest is persisted
manifest:
  path: %s

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: %s
  # Log file path (empty means use default: $XDG_STATE_HOME/zshup/zshup.log)
  path: ""
  rotation:
    max_size: 10MB
    max_age: 30       # days
    max_backups: 5
    daily: true
`, DefaultRCFile, DefaultManifestPath(), DefaultLogLevel)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}
