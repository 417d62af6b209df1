package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "gndesc"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/gndesc by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/gndesc by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/gndesc/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the gndesc.yaml file.
// Returns ~/.config/gndesc/gndesc.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "gndesc.yaml")
}
