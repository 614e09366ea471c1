package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ternuav/dronescape/pkg/config"
	"github.com/ternuav/dronescape/pkg/layout"
	"github.com/ternuav/dronescape/pkg/logging"
	"github.com/ternuav/dronescape/pkg/output"
	"github.com/ternuav/dronescape/pkg/registry"
)

// loadConfig loads the configuration from --config or the default location
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// loadRegistry builds the plot registry, honoring a configured overlay file
func loadRegistry(cfg *config.Config) (*registry.Registry, error) {
	return registry.Load(cfg.Registry.SitesFile)
}

// createLogger creates a logger based on configuration
func createLogger(logFile, logFormat, logLevel string) (logging.Logger, error) {
	if logFile == "" {
		return logging.NewNullLogger(), nil
	}

	var format logging.Format
	switch logFormat {
	case "json":
		format = logging.FormatJSON
	default:
		format = logging.FormatText
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:   logFile,
		Format: format,
		Level:  logLevelFromFlags(logLevel),
	})
}

// logLevelFromFlags resolves the effective log level; --verbose forces debug
func logLevelFromFlags(logLevel string) logging.Level {
	if globalFlags.Verbose {
		return logging.DebugLevel
	}
	return logging.ParseLevel(logLevel)
}

// createFormatter builds the output formatter from flags and config
func createFormatter(format string, cfg *config.Config) (output.Formatter, error) {
	if format == "" {
		format = cfg.Output.Format
	}
	var w io.Writer = os.Stdout
	if globalFlags.Quiet {
		w = io.Discard
	}
	return output.New(format, w)
}

// requireDir validates that a flag names an existing directory
func requireDir(name, path string) error {
	if path == "" {
		return fmt.Errorf("--%s is required (or set it in the config file)", name)
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s path does not exist: %s", name, path)
	}
	if err != nil {
		return fmt.Errorf("failed to access %s path: %w", name, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s path is not a directory: %s", name, path)
	}
	return nil
}

// ensureDir creates the directory if it does not exist
func ensureDir(name, path string) error {
	if path == "" {
		return fmt.Errorf("--%s is required (or set it in the config file)", name)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", name, err)
	}
	return nil
}

// parseDate parses an acquisition date flag in the layout's directory
// format, defaulting to today when empty
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	date, err := time.Parse(layout.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYYMMDD)", s)
	}
	return date, nil
}
