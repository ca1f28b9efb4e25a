// Package cmdutil holds state shared by the callguard subcommands.
package cmdutil

import (
	"fmt"

	"go.uber.org/zap"

	"callguard/internal/app/logging"
	"callguard/internal/config"
)

var (
	// Verbose switches to the development logger.
	Verbose bool
	// ConfigPath is the --config flag value.
	ConfigPath string
)

// LoadConfig reads the configuration selected by --config.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Logger builds the logger for cfg, or a development logger with --verbose.
func Logger(cfg *config.Config) (*zap.Logger, error) {
	if Verbose {
		return logging.NewLogger(true)
	}
	env := ""
	if cfg != nil {
		env = cfg.Server.Environment
	}
	return logging.ForEnvironment(env)
}
