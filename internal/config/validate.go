package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/leapstack-labs/xoniq/pkg/fields"
)

// OutputModes lists the accepted values of the output option.
var OutputModes = []string{"auto", "text", "markdown", "json"}

// ManifestFormats lists the accepted values of manifest_format; empty means
// infer from the manifest file extension.
var ManifestFormats = []string{"", "json", "yaml"}

// Validate checks if the configuration is valid. A malformed input marker
// is reported here, so it never reaches extraction.
func (c *Config) Validate() error {
	if c.SQLDir == "" {
		return fmt.Errorf("sql_dir is required")
	}
	if _, err := fields.CompileMarker(c.InputMarker); err != nil {
		return err
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("at least one extension is required")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce must not be negative, got %s", c.WatchDebounce)
	}
	if !slices.Contains(OutputModes, c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (expected one of %v)", c.OutputFormat, OutputModes)
	}
	if !slices.Contains(ManifestFormats, c.ManifestFormat) {
		return fmt.Errorf("unknown manifest_format %q (expected json or yaml)", c.ManifestFormat)
	}
	return nil
}

// ValidateDirectories checks if required directories exist.
func (c *Config) ValidateDirectories() error {
	info, err := os.Stat(c.SQLDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("sql directory does not exist: %s\nHint: Create the directory or use --sql-dir to specify a different path", c.SQLDir)
	}
	if err != nil {
		return fmt.Errorf("failed to stat sql directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("sql_dir is not a directory: %s", c.SQLDir)
	}
	return nil
}
