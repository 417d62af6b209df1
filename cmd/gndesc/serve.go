package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gnames/gn"
	"github.com/gnames/gndesc/internal/iocache"
	"github.com/gnames/gndesc/internal/ioconfig"
	"github.com/gnames/gndesc/internal/iocorpus"
	"github.com/gnames/gndesc/internal/ioweb"
	"github.com/gnames/gndesc/pkg/config"
	"github.com/gnames/gndesc/pkg/parserpool"
	"github.com/spf13/cobra"
)

func getServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the description browser",
		Long: `Start the HTTP server and the browser page.

This command:
  1. Loads the descriptions and tags JSONL files into memory
  2. Builds the filter index (tags, order, family, genus, source)
  3. Serves the JSON API and the browser page

With --no-index-wait the server starts listening immediately and the
index builds in the background; poll /api/status until it reports
"ready". Without the flag the index is built before the listener
starts and a load failure aborts startup.

Examples:
  gndesc serve
  gndesc serve --port 8080 --no-index-wait
  gndesc serve --descriptions corpus.jsonl.gz --tags tags.jsonl`,
		RunE: runServe,
	}

	cmd.Flags().String("host", "",
		"address to bind the HTTP server to (default 127.0.0.1)")
	cmd.Flags().Int("port", 0,
		"port for the HTTP server (default 5000)")
	cmd.Flags().Bool("no-index-wait", false,
		"serve immediately and build the index in the background")
	cmd.Flags().String("descriptions", "",
		"path of the descriptions JSONL file")
	cmd.Flags().String("tags", "",
		"path of the tags JSONL file")
	cmd.Flags().Bool("no-cache", false,
		"disable the on-disk cache of parsed scientific names")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfig()
	if err := ioconfig.BindFlags(cmd, cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := parserpool.NewPool(0)
	defer pool.Close()

	var cache iocorpus.GenusCache
	if cm := openCache(cfg); cm != nil {
		defer cm.Close()
		cache = cm
	}

	ldr := iocorpus.New(cfg, pool, cache)
	srv := ioweb.New(cfg, ldr)

	if cfg.Server.NoIndexWait {
		gn.Info("Server starting; the index builds in the background. " +
			"Poll <em>/api/status</em> until ready.")
	} else {
		gn.Info("Building index (this may take a minute)...")
	}
	gn.Info("Browse descriptions at <em>http://%s:%d/</em>",
		cfg.Server.Host, cfg.Server.Port)

	if err := srv.Run(ctx); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return nil
}

// openCache opens the parsed-name cache. A cache failure costs speed,
// not correctness, so it degrades to no cache with a warning.
func openCache(cfg *config.Config) *iocache.CacheManager {
	if !cfg.Data.Cache {
		return nil
	}
	dir := filepath.Join(config.CacheDir(cfg.HomeDir), "parsed")
	cm, err := iocache.NewCacheManager(dir)
	if err != nil {
		gn.PrintErrorMessage(err)
		gn.Warn("Continuing without the parse cache")
		return nil
	}
	return cm
}
