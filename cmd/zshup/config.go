package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zshup/zshup/pkg/zshup/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage zshup configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/zshup/config.yaml (if set)
  2. ~/.config/zshup/config.yaml

Environment variables can override config file settings using the ZSHUP_ prefix:
  ZSHUP_RC_FILE=~/.zshrc
  ZSHUP_OHMYZSH=true
  ZSHUP_CHANGE_SHELL=false`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		printError("Failed to load configuration: %v", err)
		return err
	}

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Printf("Config file: %s\n\n", configFile)
	} else {
		fmt.Println("Config file: (using defaults, no file found)")
		fmt.Println()
	}

	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("rc_file:                      %s\n", cfg.RCFile)
	fmt.Printf("packages:                     %v\n", cfg.Packages)
	fmt.Printf("ohmyzsh:                      %t\n", cfg.OhMyZsh)
	fmt.Printf("change_shell:                 %t\n", cfg.ChangeShell)
	fmt.Printf("plugins.autosuggestions:      %t\n", cfg.Plugins.Autosuggestions)
	fmt.Printf("plugins.syntax_highlighting:  %t\n", cfg.Plugins.SyntaxHighlighting)
	fmt.Printf("plugins.completions:          %t\n", cfg.Plugins.Completions)
	fmt.Printf("features.aliases:             %t\n", cfg.Features.Aliases)
	fmt.Printf("features.history:             %t\n", cfg.Features.History)
	fmt.Printf("manifest.path:                %s\n", cfg.Manifest.Path)
	fmt.Printf("logging.level:                %s\n", cfg.Logging.Level)

	// Show any environment overrides
	fmt.Println("\nEnvironment Overrides:")
	fmt.Println("----------------------")
	envVars := []string{
		"ZSHUP_RC_FILE",
		"ZSHUP_PACKAGES",
		"ZSHUP_OHMYZSH",
		"ZSHUP_CHANGE_SHELL",
		"ZSHUP_MANIFEST_PATH",
		"ZSHUP_LOGGING_LEVEL",
	}

	anyOverrides := false
	for _, name := range envVars {
		if val := os.Getenv(name); val != "" {
			fmt.Printf("%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Println("(none)")
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		printInfo("Config file already exists: %s", configPath)
		return nil
	}

	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	fmt.Println(configPath)

	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}

	return nil
}
