package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gndesc/internal/ioconfig"
	"github.com/gnames/gndesc/internal/iocorpus"
	"github.com/gnames/gndesc/pkg/index"
	"github.com/gnames/gndesc/pkg/parserpool"
	"github.com/spf13/cobra"
)

func getCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load the corpus and report index statistics",
		Long: `Load the corpus files, build the filter index and print record
counts and per-axis cardinalities without starting a server.

Useful to verify new corpus files before serving them.

Examples:
  gndesc check
  gndesc check --descriptions corpus.jsonl.gz --tags tags.jsonl`,
		RunE: runCheck,
	}

	cmd.Flags().String("descriptions", "",
		"path of the descriptions JSONL file")
	cmd.Flags().String("tags", "",
		"path of the tags JSONL file")
	cmd.Flags().Bool("no-cache", false,
		"disable the on-disk cache of parsed scientific names")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := getConfig()
	if err := ioconfig.BindFlags(cmd, cfg); err != nil {
		return err
	}

	pool := parserpool.NewPool(0)
	defer pool.Close()

	var cache iocorpus.GenusCache
	if cm := openCache(cfg); cm != nil {
		defer cm.Close()
		cache = cm
	}

	ldr := iocorpus.New(cfg, pool, cache)
	records, err := ldr.Load(context.Background())
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	fi := index.Build(records)

	fmt.Printf("Records:  %s\n", humanize.Comma(int64(fi.Len())))
	fmt.Printf("Tags:     %s\n",
		humanize.Comma(int64(fi.Cardinality(index.AxisTag))))
	fmt.Printf("Orders:   %s\n",
		humanize.Comma(int64(fi.Cardinality(index.AxisOrder))))
	fmt.Printf("Families: %s\n",
		humanize.Comma(int64(fi.Cardinality(index.AxisFamily))))
	fmt.Printf("Genera:   %s\n",
		humanize.Comma(int64(fi.Cardinality(index.AxisGenus))))
	fmt.Printf("Sources:  %s\n",
		humanize.Comma(int64(fi.Cardinality(index.AxisSource))))

	gn.Info(`The corpus loads cleanly and the filter index builds.

Run <em>gndesc serve</em> to browse it.`)

	return nil
}
