package config

import (
	"github.com/ternuav/dronescape/pkg/models"
)

// Config represents the application configuration. It replaces the ad-hoc
// key/value store of earlier tooling: every component receives the values it
// needs at construction and nothing reads ambient state.
type Config struct {
	Directories DirectoriesConfig `yaml:"directories"`
	Packing     PackingConfig     `yaml:"packing"`
	Registry    RegistryConfig    `yaml:"registry"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// DirectoriesConfig holds the remembered directory choices
type DirectoriesConfig struct {
	// Parent is the destination root for organized plot data
	Parent string `yaml:"parent"`

	// Backup is the backup mirror root
	Backup string `yaml:"backup"`

	// Log is the directory where run logs are written
	Log string `yaml:"log"`

	// Sources remembers per-source directories keyed by source name,
	// e.g. "l2_sd_card", "p1_sd_card", "micasense_red", "micasense_blue"
	Sources map[string]string `yaml:"sources"`
}

// PackingConfig holds multi-spectral reorganization settings
type PackingConfig struct {
	// MaxFilesPerFolder is the soft capacity of an output bin
	MaxFilesPerFolder int `yaml:"max_files_per_folder"`
}

// RegistryConfig holds site registry settings
type RegistryConfig struct {
	// SitesFile optionally overlays extra plot IDs onto the built-in
	// registry (YAML file with a top-level "sites" list)
	SitesFile string `yaml:"sites_file"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show progress bars during copies
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Directories: DirectoriesConfig{
			Sources: map[string]string{},
		},
		Packing: PackingConfig{
			MaxFilesPerFolder: 2200,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Format:  "text",
			Level:   "info",
		},
	}
}

// Source returns the remembered directory for a named source
func (c *Config) Source(name string) string {
	if c.Directories.Sources == nil {
		return ""
	}
	return c.Directories.Sources[name]
}

// SetSource remembers the directory for a named source
func (c *Config) SetSource(name, dir string) {
	if c.Directories.Sources == nil {
		c.Directories.Sources = map[string]string{}
	}
	c.Directories.Sources[name] = dir
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Packing.MaxFilesPerFolder < 1 {
		return &models.ValidationError{
			Field:   "packing.max_files_per_folder",
			Message: "must be at least 1",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
