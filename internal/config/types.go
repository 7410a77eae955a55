// Package config loads xoniq configuration from defaults, a project file,
// XONIQ_ environment variables and command-line flags.
package config

import (
	"path/filepath"
	"strings"
	"time"
)

// Config holds all xoniq configuration options.
type Config struct {
	SQLDir         string        `koanf:"sql_dir"`
	InputMarker    string        `koanf:"input_marker"`
	Extensions     []string      `koanf:"extensions"`
	StatePath      string        `koanf:"state_path"`
	ManifestPath   string        `koanf:"manifest_path"`
	ManifestFormat string        `koanf:"manifest_format"`
	Concurrency    int           `koanf:"concurrency"`
	WatchDebounce  time.Duration `koanf:"watch_debounce"`
	OutputFormat   string        `koanf:"output"`
	Verbose        bool          `koanf:"verbose"`

	// ProjectRoot anchors relative paths and record paths. It is the
	// directory of the config file, or the working directory.
	ProjectRoot string `koanf:"-"`
	// ConfigFile is the file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// SQLRoot returns SQLDir relative to ProjectRoot in slash form, which is
// the root that path metadata is resolved against. A SQLDir outside
// ProjectRoot is returned absolute, matching the record paths found there.
func (c *Config) SQLRoot() string {
	if c.ProjectRoot == "" || !filepath.IsAbs(c.SQLDir) {
		return filepath.ToSlash(c.SQLDir)
	}
	rel, err := filepath.Rel(c.ProjectRoot, c.SQLDir)
	if err != nil {
		return filepath.ToSlash(c.SQLDir)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return filepath.ToSlash(c.SQLDir)
	}
	return rel
}
