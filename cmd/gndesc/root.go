package main

import (
	"fmt"
	"os"

	"github.com/gnames/gndesc/internal/ioconfig"
	"github.com/gnames/gndesc/internal/iologger"
	pkgconfig "github.com/gnames/gndesc/pkg/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *pkgconfig.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gndesc",
		Short: "GNdesc browses plant seed-dispersal descriptions",
		Long: `GNdesc is a local web application for browsing a corpus of plant
seed-dispersal descriptions. It loads two line-delimited JSON files
(descriptions and tag assignments), builds an in-memory filter index
over tags, taxonomic order, family, genus and source, and serves
filtered, paginated views through a small HTTP API and a browser page.

Commands:
  - serve: start the HTTP server and the browser page
  - check: load the corpus and report index statistics

Configuration precedence (highest to lowest):
  1. CLI flags (--host, --port, etc.)
  2. Environment variables (GNDESC_*)
  3. Config file (gndesc.yaml)
  4. Built-in defaults

Environment Variables:
  All configuration can be set via GNDESC_* environment variables.
  Nested fields use underscores (server.host → GNDESC_SERVER_HOST).

  Examples:
    GNDESC_SERVER_HOST                 HTTP listener address
    GNDESC_SERVER_PORT                 HTTP listener port
    GNDESC_DATA_DESCRIPTIONS_PATH      Descriptions JSONL file
    GNDESC_DATA_TAGS_PATH              Tags JSONL file
    GNDESC_LOG_LEVEL                   Log level (debug/info/warn/error)

  See 'go doc github.com/gnames/gndesc/pkg/config' for complete list.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Auto-generate config file on first run if it doesn't exist
			if cfgFile == "" {
				exists, err := ioconfig.ConfigFileExists()
				if err != nil {
					return fmt.Errorf("failed to check config file: %w", err)
				}

				if !exists {
					generatedPath, err := ioconfig.GenerateDefaultConfig()
					if err != nil {
						// Only warn, don't fail - can use defaults
						fmt.Printf("Warning: could not generate config file: %v\n", err)
					} else {
						fmt.Printf("Generated default config at: %s\n", generatedPath)
					}
				}
			}

			// Load configuration
			result, sourcePath, err := ioconfig.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg = result

			if sourcePath != "" {
				fmt.Printf("Using config from: %s\n", sourcePath)
			} else {
				fmt.Println("Using built-in defaults with environment variable overrides")
			}

			homeDir, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get user home directory: %w", err)
			}
			cfg.Update([]pkgconfig.Option{pkgconfig.OptHomeDir(homeDir)})

			return initLogger()
		},
	}

	// Persistent flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./gndesc.yaml or ~/.config/gndesc/gndesc.yaml)")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for gndesc")

	// Add subcommands
	rootCmd.AddCommand(getServeCmd())
	rootCmd.AddCommand(getCheckCmd())

	return rootCmd
}

// getConfig returns the loaded configuration (for use in subcommands)
func getConfig() *pkgconfig.Config {
	return cfg
}

func initLogger() error {
	logDir := pkgconfig.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log, false)
}
