// Package config provides configuration management for GNdesc.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation functions may write user-facing warnings via
// gn.Warn().
//
// Precedence (highest to lowest): CLI flags > env vars > gndesc.yaml >
// defaults.
//
// Persistent fields (in ToOptions, gndesc.yaml, and env vars):
//   - Data: descriptions_path, tags_path, cache
//   - Server: host, port
//   - Log: level, format, destination
//
// Runtime-only fields (CLI flags only):
//   - Server.NoIndexWait
//   - HomeDir (set once at startup)
//
// Environment variables use the GNDESC_ prefix with underscores for
// nesting:
//
//	GNDESC_SERVER_HOST=127.0.0.1
//	GNDESC_SERVER_PORT=5000
//	GNDESC_DATA_DESCRIPTIONS_PATH=/corpus/descriptions.jsonl
//	GNDESC_LOG_LEVEL=info
package config

// Config represents the complete GNdesc configuration.
type Config struct {
	// Data contains locations of the corpus files.
	Data DataConfig `mapstructure:"data" yaml:"data"`

	// Server contains HTTP listener settings.
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DataConfig contains locations of the corpus files and cache settings.
type DataConfig struct {
	// DescriptionsPath is the line-delimited JSON file with description
	// records. Files with a '.gz' suffix are decompressed on the fly.
	DescriptionsPath string `mapstructure:"descriptions_path" yaml:"descriptions_path"`

	// TagsPath is the line-delimited JSON file with tag assignments.
	// Files with a '.gz' suffix are decompressed on the fly.
	TagsPath string `mapstructure:"tags_path" yaml:"tags_path"`

	// Cache enables the on-disk cache of parsed scientific names used
	// for genus backfill. The cache lives under CacheDir and survives
	// restarts; disable it with --no-cache.
	Cache bool `mapstructure:"cache" yaml:"cache"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	// Host is the address the HTTP server binds to.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the TCP port the HTTP server listens on.
	Port int `mapstructure:"port" yaml:"port"`

	// NoIndexWait starts the server before the filter index is built.
	// The index builds in the background and /api/status reports
	// progress. Runtime-only, set by the --no-index-wait flag.
	NoIndexWait bool
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Data: DataConfig{
			DescriptionsPath: "data/processed/descriptions_text_by_source.jsonl",
			TagsPath:         "data/processed/tags.jsonl",
			Cache:            true,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 5000,
		},
		Log: LogConfig{
			Format:      "text",
			Level:       "info",
			Destination: "stderr",
		},
	}

	return res
}
