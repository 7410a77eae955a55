package config

import "time"

// Default configuration values.
const (
	DefaultSQLDir        = "sqls"
	DefaultInputMarker   = ":"
	DefaultStateFile     = ".xoniq/state.db"
	DefaultConcurrency   = 4
	DefaultWatchDebounce = 150 * time.Millisecond
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "xoniq.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "xoniq.yml"

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "XONIQ_"

// DefaultExtensions returns the file extensions discovered by default.
func DefaultExtensions() []string {
	return []string{".sql"}
}

func defaultsMap() map[string]interface{} {
	return map[string]interface{}{
		"sql_dir":         DefaultSQLDir,
		"input_marker":    DefaultInputMarker,
		"extensions":      DefaultExtensions(),
		"state_path":      DefaultStateFile,
		"manifest_path":   "",
		"manifest_format": "",
		"concurrency":     DefaultConcurrency,
		"watch_debounce":  DefaultWatchDebounce.String(),
		"output":          DefaultOutput,
		"verbose":         false,
	}
}
