package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefault tests that the default configuration is valid
func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
	if cfg.Packing.MaxFilesPerFolder != 2200 {
		t.Errorf("default max files per folder = %d, want 2200", cfg.Packing.MaxFilesPerFolder)
	}
	if cfg.Output.Format != "human" {
		t.Errorf("default output format = %q, want human", cfg.Output.Format)
	}
}

// TestValidate tests rejection of invalid settings
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "ZeroCapacity", mutate: func(c *Config) { c.Packing.MaxFilesPerFolder = 0 }},
		{name: "BadOutputFormat", mutate: func(c *Config) { c.Output.Format = "xml" }},
		{name: "BadLogFormat", mutate: func(c *Config) { c.Logging.Format = "binary" }},
		{name: "BadLogLevel", mutate: func(c *Config) { c.Logging.Level = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

// TestSources tests remembered source directories
func TestSources(t *testing.T) {
	cfg := Default()
	if got := cfg.Source("l2_sd_card"); got != "" {
		t.Errorf("Source() on fresh config = %q, want empty", got)
	}
	cfg.SetSource("l2_sd_card", "/mnt/sd1")
	if got := cfg.Source("l2_sd_card"); got != "/mnt/sd1" {
		t.Errorf("Source() = %q, want /mnt/sd1", got)
	}
}

// TestSaveLoadRoundTrip tests YAML persistence
func TestSaveLoadRoundTrip(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "dronescape-config-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Directories.Parent = "/data/uav"
	cfg.Directories.Backup = "/mnt/backup"
	cfg.SetSource("micasense_red", "/mnt/red")
	cfg.Packing.MaxFilesPerFolder = 1800

	if err := SaveToFile(cfg, path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if loaded.Directories.Parent != "/data/uav" ||
		loaded.Directories.Backup != "/mnt/backup" ||
		loaded.Source("micasense_red") != "/mnt/red" ||
		loaded.Packing.MaxFilesPerFolder != 1800 {
		t.Errorf("round trip mismatch: %+v", loaded)
	}

	t.Run("InvalidConfigRejectedOnSave", func(t *testing.T) {
		bad := Default()
		bad.Output.Format = "xml"
		if err := SaveToFile(bad, filepath.Join(tempDir, "bad.yaml")); err == nil {
			t.Error("SaveToFile() should reject an invalid config")
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := LoadFromFile(filepath.Join(tempDir, "nope.yaml")); err == nil {
			t.Error("LoadFromFile() should fail for a missing file")
		}
	})
}
