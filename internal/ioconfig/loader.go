// Package ioconfig provides I/O operations for loading configuration
// from files, environment variables and flags. This is an impure
// package that handles file system and flag operations.
package ioconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/gndesc/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Load reads configuration from a YAML file and returns a Config with
// environment variable overrides applied. If configPath is empty, it
// searches default locations:
//   - ./gndesc.yaml
//   - ~/.config/gndesc/gndesc.yaml
//
// The returned path is the config file that was used, or empty when
// the config came from defaults. Returns error if the file is
// malformed.
func Load(configPath string) (*config.Config, string, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("GNDESC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("gndesc")
		v.AddConfigPath(".")

		homeDir, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(config.ConfigDir(homeDir))
		}
	}

	cfg := config.New()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, "", nil
		}
		// For explicit config path that doesn't exist, return error.
		if configPath != "" {
			return nil, "", fmt.Errorf("failed to read config file: %w", err)
		}
		return cfg, "", nil
	}

	// Unmarshal on top of defaults: keys absent from the file keep
	// their default values.
	if err := v.Unmarshal(cfg); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, v.ConfigFileUsed(), nil
}

// BindFlags applies cobra command flags on top of a loaded config.
// CLI flags take precedence over config file and env values.
func BindFlags(cmd *cobra.Command, cfg *config.Config) error {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	var opts []config.Option
	if cmd.Flags().Changed("host") {
		opts = append(opts, config.OptServerHost(v.GetString("host")))
	}
	if cmd.Flags().Changed("port") {
		opts = append(opts, config.OptServerPort(v.GetInt("port")))
	}
	if cmd.Flags().Changed("descriptions") {
		opts = append(opts,
			config.OptDataDescriptionsPath(v.GetString("descriptions")))
	}
	if cmd.Flags().Changed("tags") {
		opts = append(opts, config.OptDataTagsPath(v.GetString("tags")))
	}
	if cmd.Flags().Changed("no-cache") {
		opts = append(opts, config.OptDataCache(!v.GetBool("no-cache")))
	}
	if cmd.Flags().Changed("no-index-wait") {
		opts = append(opts,
			config.OptServerNoIndexWait(v.GetBool("no-index-wait")))
	}

	cfg.Update(opts)
	return nil
}

// ConfigFileExists checks if a config file exists at the default
// location.
func ConfigFileExists() (bool, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return false, fmt.Errorf("failed to get user home directory: %w", err)
	}

	_, err = os.Stat(config.ConfigFilePath(homeDir))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// GenerateDefaultConfig creates a documented default config file at
// ~/.config/gndesc/gndesc.yaml. Returns the path where the config was
// created. Does NOT overwrite existing config files.
func GenerateDefaultConfig() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists at %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaults := config.New()
	yamlContent := `# GNdesc Configuration File
# This file was auto-generated. Edit as needed.
#
# Configuration precedence (highest to lowest):
#   1. CLI flags (--host, --port, etc.)
#   2. Environment variables (GNDESC_*)
#   3. This config file
#   4. Built-in defaults
#
# For all environment variables, see:
# go doc github.com/gnames/gndesc/pkg/config

data:
  descriptions_path: ` + defaults.Data.DescriptionsPath + `
  tags_path: ` + defaults.Data.TagsPath + `
  cache: ` + fmt.Sprintf("%t", defaults.Data.Cache) + `

server:
  host: ` + defaults.Server.Host + `
  port: ` + fmt.Sprintf("%d", defaults.Server.Port) + `

log:
  level: ` + defaults.Log.Level + `
  format: ` + defaults.Log.Format + `
  destination: ` + defaults.Log.Destination + `
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}
