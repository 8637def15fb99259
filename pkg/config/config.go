// Package config provides configuration loading and management for morphviewer.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"morphviewer/internal/logger"
	"morphviewer/pkg/cluster"
	"morphviewer/pkg/export"
	"morphviewer/pkg/morphology"
)

// DefaultConfigFilename is looked up when no --config flag is given.
const DefaultConfigFilename = "morphviewer.yaml"

// Config represents the application configuration loaded from YAML
type Config struct {
	// Cluster thresholding parameters
	Cluster struct {
		// Connectivity is 1 (face), 2 (edge) or 3 (full)
		Connectivity int `yaml:"connectivity"`

		// MinSize is the smallest cluster in voxels that survives thresholding
		MinSize int `yaml:"minSize"`
	} `yaml:"cluster"`

	// Export parameters
	Export struct {
		// Dir is the directory exported volumes are written to
		Dir string `yaml:"dir"`

		// Basename prefixes every exported file name
		Basename string `yaml:"basename"`

		// Extension selects the output format, ".nii" or ".nii.gz"
		Extension string `yaml:"extension"`

		// CompressionLevel is the gzip level used for ".nii.gz"
		CompressionLevel int `yaml:"compressionLevel"`
	} `yaml:"export"`

	// Viewer parameters
	Viewer struct {
		// SnapshotDir receives a rendering of the current slice after each operation.
		// Empty disables snapshots.
		SnapshotDir string `yaml:"snapshotDir"`

		// Format is "png" or "jpeg"
		Format string `yaml:"format"`
	} `yaml:"viewer"`

	// Logging parameters
	Logging struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"maxSizeMB"`
		MaxAgeDays int    `yaml:"maxAgeDays"`
	} `yaml:"logging"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	defaults := cluster.DefaultParams()
	cfg.Cluster.Connectivity = int(defaults.Connectivity)
	cfg.Cluster.MinSize = defaults.MinSize

	cfg.Export.Dir = "."
	cfg.Export.Basename = "morphIma"
	cfg.Export.Extension = export.DefaultExtension

	cfg.Viewer.Format = "png"

	cfg.Logging.Level = "info"
	cfg.Logging.MaxSizeMB = 100
	cfg.Logging.MaxAgeDays = 28

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Clean(configPath))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if err := c.ClusterParams().Validate(); err != nil {
		return fmt.Errorf("cluster settings: %w", err)
	}
	if c.Export.Basename == "" {
		return errors.New("export basename must not be empty")
	}
	switch c.Viewer.Format {
	case "", "png", "jpeg", "jpg":
	default:
		return fmt.Errorf("unsupported snapshot format %q", c.Viewer.Format)
	}
	if c.Logging.Level != "" {
		if _, ok := logger.ParseLogLevel(c.Logging.Level); !ok {
			return fmt.Errorf("unknown log level %q", c.Logging.Level)
		}
	}
	return nil
}

// ExportDir returns the export directory, "." when unset.
func (c *Config) ExportDir() string {
	if c.Export.Dir == "" {
		return "."
	}
	return c.Export.Dir
}

// ClusterParams converts the cluster section into filter parameters
func (c *Config) ClusterParams() cluster.Params {
	return cluster.Params{
		Connectivity: morphology.Connectivity(c.Cluster.Connectivity),
		MinSize:      c.Cluster.MinSize,
	}
}

// LogFileOptions converts the logging section into logger file options
func (c *Config) LogFileOptions() logger.FileOptions {
	return logger.FileOptions{
		Filename:   c.Logging.File,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxAgeDays: c.Logging.MaxAgeDays,
	}
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
