// Package iocorpus implements the desc.Loader interface for the JSONL
// corpus files. This is an impure I/O package that reads the
// descriptions and tags files and merges them into in-memory records.
package iocorpus

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gndesc/pkg/config"
	"github.com/gnames/gndesc/pkg/desc"
	"github.com/gnames/gndesc/pkg/parserpool"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"
)

// Lines in the descriptions file hold whole description texts; the
// default bufio.Scanner limit of 64KB is not enough for them.
const maxLineSize = 16 * 1024 * 1024

// GenusCache persists parsed genus lookups between runs, so a restart
// skips reparsing tens of thousands of scientific names.
type GenusCache interface {
	// Genus returns a cached genus for a scientific name. The second
	// value is false on a cache miss.
	Genus(name string) (string, bool, error)

	// SetGenus stores the genus parsed from a scientific name.
	SetGenus(name, genus string) error
}

// descriptionLine mirrors one line of the descriptions file.
type descriptionLine struct {
	Identifier string `json:"identifier"`
	Order      string `json:"order_name"`
	Family     string `json:"family_name"`
	Genus      string `json:"genus_name"`
	Species    string `json:"species_name"`
	Subspecies string `json:"subspecies"`
	Source     string `json:"source_name"`
	Text       string `json:"descriptions_text"`
}

// tagLine mirrors one line of the tags file.
type tagLine struct {
	Identifier string   `json:"identifier"`
	Tags       []string `json:"tags"`
}

type loader struct {
	cfg   *config.Config
	pool  parserpool.Pool
	cache GenusCache
}

// New creates a corpus loader. The parser pool backfills missing
// genera from species names; cache may be nil to disable caching of
// the parse results.
func New(
	cfg *config.Config,
	pool parserpool.Pool,
	cache GenusCache,
) desc.Loader {
	return &loader{cfg: cfg, pool: pool, cache: cache}
}

// Load reads both corpus files and returns merged records keyed by
// RowID. The two files are read concurrently. Any failure aborts the
// whole load; there is no partial result.
func (l *loader) Load(
	ctx context.Context,
) (map[string]*desc.Record, error) {
	start := time.Now()

	var descLines []descriptionLine
	var tagsByID map[string][]string

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		descLines, err = l.loadDescriptions(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		tagsByID, err = l.loadTags(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := l.merge(descLines, tagsByID)

	slog.Info("Corpus loaded",
		"records", humanize.Comma(int64(len(records))),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return records, nil
}

func (l *loader) loadDescriptions(
	ctx context.Context,
) ([]descriptionLine, error) {
	path := l.cfg.Data.DescriptionsPath
	r, err := openFile(path)
	if err != nil {
		return nil, descriptionsMissingError(path, err)
	}
	defer r.Close()

	var res []descriptionLine
	sc := newLineScanner(r)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var dl descriptionLine
		if err := json.Unmarshal([]byte(line), &dl); err != nil {
			return nil, descriptionsLineError(path, lineNum, err)
		}
		res = append(res, dl)
	}
	if err := sc.Err(); err != nil {
		return nil, descriptionsReadError(path, err)
	}

	slog.Info("Read descriptions file",
		"lines", humanize.Comma(int64(len(res))), "path", path)
	return res, nil
}

func (l *loader) loadTags(
	ctx context.Context,
) (map[string][]string, error) {
	path := l.cfg.Data.TagsPath
	r, err := openFile(path)
	if err != nil {
		return nil, tagsMissingError(path, err)
	}
	defer r.Close()

	res := make(map[string][]string)
	skipped := 0
	sc := newLineScanner(r)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var tl tagLine
		if err := json.Unmarshal([]byte(line), &tl); err != nil {
			// The tags file is machine-generated; a bad line loses one
			// tag set, not the whole corpus.
			skipped++
			continue
		}
		if tl.Identifier == "" {
			skipped++
			continue
		}
		res[tl.Identifier] = dedup(tl.Tags)
	}
	if err := sc.Err(); err != nil {
		return nil, tagsReadError(path, err)
	}

	if skipped > 0 {
		slog.Warn("Skipped malformed tag lines", "count", skipped)
	}
	slog.Info("Read tags file",
		"identifiers", humanize.Comma(int64(len(res))), "path", path)
	return res, nil
}

// merge combines description lines with tag assignments. Identifiers
// present in only one of the two files still produce records with
// zero values for the missing side.
func (l *loader) merge(
	descLines []descriptionLine,
	tagsByID map[string][]string,
) map[string]*desc.Record {
	records := make(map[string]*desc.Record, len(descLines))
	matched := make(map[string]bool, len(tagsByID))
	backfilled := 0

	bar := pb.Full.Start(len(descLines))
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	for _, dl := range descLines {
		bar.Increment()
		rec := l.newRecord(dl)
		if tags, ok := tagsByID[rec.Identifier]; ok {
			rec.Tags = tags
			matched[rec.Identifier] = true
		}
		if rec.Genus == "" && rec.Species != "" {
			rec.Genus = l.genusOf(rec.Species)
			if rec.Genus != "" {
				backfilled++
			}
		}
		records[rec.RowID] = rec
	}

	// Tag assignments without a description line.
	for id, tags := range tagsByID {
		if matched[id] {
			continue
		}
		rowID := desc.RowID(id, "")
		records[rowID] = &desc.Record{
			RowID:      rowID,
			UUID:       gnuuid.New(rowID).String(),
			Identifier: id,
			Tags:       tags,
		}
	}

	if backfilled > 0 {
		slog.Info("Backfilled genera from species names",
			"count", humanize.Comma(int64(backfilled)))
	}
	return records
}

func (l *loader) newRecord(dl descriptionLine) *desc.Record {
	text := strings.TrimSpace(dl.Text)
	rowID := desc.RowID(
		strings.TrimSpace(dl.Identifier),
		strings.TrimSpace(dl.Source),
	)
	return &desc.Record{
		RowID:       rowID,
		UUID:        gnuuid.New(rowID).String(),
		Identifier:  strings.TrimSpace(dl.Identifier),
		Order:       strings.TrimSpace(dl.Order),
		Family:      strings.TrimSpace(dl.Family),
		Genus:       strings.TrimSpace(dl.Genus),
		Species:     strings.TrimSpace(dl.Species),
		Subspecies:  strings.TrimSpace(dl.Subspecies),
		Source:      strings.TrimSpace(dl.Source),
		Description: text,
		WordCount:   len(strings.Fields(text)),
	}
}

// genusOf parses a species name into its genus, consulting the cache
// first when one is configured.
func (l *loader) genusOf(species string) string {
	if l.cache != nil {
		genus, ok, err := l.cache.Genus(species)
		if err == nil && ok {
			return genus
		}
		if err != nil {
			slog.Warn("Genus cache read failed",
				"error", err, "name", species)
		}
	}

	genus := l.pool.Genus(species)

	if l.cache != nil {
		if err := l.cache.SetGenus(species, genus); err != nil {
			slog.Warn("Genus cache write failed",
				"error", err, "name", species)
		}
	}
	return genus
}

// openFile opens a corpus file, transparently decompressing names with
// a '.gz' suffix.
func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &gzipFile{zr: zr, f: f}, nil
}

type gzipFile struct {
	zr *gzip.Reader
	f  *os.File
}

func (g *gzipFile) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzipFile) Close() error {
	if err := g.zr.Close(); err != nil {
		g.f.Close()
		return err
	}
	return g.f.Close()
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return sc
}

func dedup(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	res := make([]string, 0, len(ss))
	for _, s := range ss {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		res = append(res, s)
	}
	return res
}
