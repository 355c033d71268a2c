package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/zshup/zshup/pkg/zshup/config"
	"github.com/zshup/zshup/pkg/zshup/logging"
	"github.com/zshup/zshup/pkg/zshup/manifest"
	"github.com/zshup/zshup/pkg/zshup/prompt"
)

// bootstrap loads the configuration and initializes logging. Every
// command that does real work starts here.
func bootstrap() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logCfg := logging.Config{
		Level:    cfg.Logging.Level,
		Path:     cfg.Logging.Path,
		Rotation: rotationFromConfig(cfg.Logging.Rotation),
	}
	if getVerbose() {
		logCfg.ConsoleLevel = "debug"
	}
	if err := logging.Init(logCfg); err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}

	return cfg, nil
}

// rotationFromConfig converts the string-based config rotation settings
// into the logging package's representation.
func rotationFromConfig(rc config.RotationConfig) logging.RotationConfig {
	out := logging.RotationConfig{
		MaxAge:     rc.MaxAge,
		MaxBackups: rc.MaxBackups,
		Daily:      rc.Daily,
	}
	if rc.MaxSize != "" {
		if size, err := humanize.ParseBytes(rc.MaxSize); err == nil {
			out.MaxSize = int64(size)
		}
	}
	return out
}

// manifestStore returns the store for the configured manifest path.
func manifestStore(cfg *config.Config) *manifest.Store {
	path := cfg.Manifest.Path
	if path == "" {
		path = config.DefaultManifestPath()
	}
	return manifest.NewStore(path)
}

// confirmer returns the prompt implementation selected by --yes.
func confirmer() prompt.Confirmer {
	if getAssumeYes() {
		return prompt.AssumeYes{}
	}
	return prompt.Interactive{}
}
