package iocorpus_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gndesc/internal/iocorpus"
	"github.com/gnames/gndesc/pkg/config"
	"github.com/gnames/gndesc/pkg/errcode"
	"github.com/gnames/gnparser/ent/parsed"
	"github.com/gnames/gnuuid"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePool avoids spinning up gnparser in loader tests; the real pool
// is covered in pkg/parserpool.
type fakePool struct {
	calls int
}

func (p *fakePool) Parse(string) parsed.Parsed { return parsed.Parsed{} }

func (p *fakePool) Genus(name string) string {
	p.calls++
	if name == "Betula pendula" {
		return "Betula"
	}
	return ""
}

func (p *fakePool) Close() {}

// memCache is an in-memory GenusCache.
type memCache struct {
	data map[string]string
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]string)}
}

func (c *memCache) Genus(name string) (string, bool, error) {
	genus, ok := c.data[name]
	return genus, ok, nil
}

func (c *memCache) SetGenus(name, genus string) error {
	c.sets++
	c.data[name] = genus
	return nil
}

func testConfig(descPath, tagsPath string) *config.Config {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDataDescriptionsPath(descPath),
		config.OptDataTagsPath(tagsPath),
	})
	return cfg
}

func TestLoad(t *testing.T) {
	cfg := testConfig(
		filepath.Join("testdata", "descriptions.jsonl"),
		filepath.Join("testdata", "tags.jsonl"),
	)
	ldr := iocorpus.New(cfg, &fakePool{}, nil)

	records, err := ldr.Load(context.Background())
	require.NoError(t, err)

	// 4 description lines plus 1 tag assignment without a description.
	assert.Len(t, records, 5)

	t.Run("merges tags into records", func(t *testing.T) {
		rec := records["wfo-0000944200_wfo"]
		require.NotNil(t, rec)
		assert.Equal(t, []string{"has_seed", "lang_en"}, rec.Tags)
		assert.Equal(t, "Fagales", rec.Order)
		assert.Equal(t, "Quercus", rec.Genus)
		assert.Equal(t, 7, rec.WordCount)
	})

	t.Run("record without tag assignment has empty tag set", func(t *testing.T) {
		rec := records["foc-199122_foc"]
		require.NotNil(t, rec)
		assert.Empty(t, rec.Tags)
		assert.Equal(t, "canina", rec.Subspecies)
	})

	t.Run("missing identifier falls back to source", func(t *testing.T) {
		rec := records["foc"]
		require.NotNil(t, rec)
		assert.Equal(t, "", rec.Identifier)
		assert.Equal(t, "foc", rec.Source)
	})

	t.Run("tag-only identifier produces default record", func(t *testing.T) {
		rec := records["foc-000000_unknown"]
		require.NotNil(t, rec)
		assert.Equal(t, []string{"lang_en"}, rec.Tags)
		assert.Empty(t, rec.Description)
		assert.Empty(t, rec.Order)
	})

	t.Run("backfills genus from species name", func(t *testing.T) {
		rec := records["wfo-0000944201_wfo"]
		require.NotNil(t, rec)
		assert.Equal(t, "Betula", rec.Genus)
	})

	t.Run("attaches deterministic UUIDs", func(t *testing.T) {
		for _, rec := range records {
			assert.Equal(t, gnuuid.New(rec.RowID).String(), rec.UUID)
		}
	})
}

func TestLoadMissingFile(t *testing.T) {
	cfg := testConfig(
		filepath.Join("testdata", "no_such_file.jsonl"),
		filepath.Join("testdata", "tags.jsonl"),
	)
	ldr := iocorpus.New(cfg, &fakePool{}, nil)

	_, err := ldr.Load(context.Background())
	require.Error(t, err)

	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.DescriptionsFileMissingError, gnErr.Code)
}

func TestLoadMalformedDescriptions(t *testing.T) {
	cfg := testConfig(
		filepath.Join("testdata", "bad_descriptions.jsonl"),
		filepath.Join("testdata", "tags.jsonl"),
	)
	ldr := iocorpus.New(cfg, &fakePool{}, nil)

	_, err := ldr.Load(context.Background())
	require.Error(t, err)

	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.DescriptionsLineError, gnErr.Code)
}

func TestLoadGzip(t *testing.T) {
	dir := t.TempDir()
	gzPath := filepath.Join(dir, "descriptions.jsonl.gz")

	src, err := os.ReadFile(filepath.Join("testdata", "descriptions.jsonl"))
	require.NoError(t, err)
	f, err := os.Create(gzPath)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write(src)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	cfg := testConfig(gzPath, filepath.Join("testdata", "tags.jsonl"))
	ldr := iocorpus.New(cfg, &fakePool{}, nil)

	records, err := ldr.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestLoadGenusCache(t *testing.T) {
	cfg := testConfig(
		filepath.Join("testdata", "descriptions.jsonl"),
		filepath.Join("testdata", "tags.jsonl"),
	)
	cache := newMemCache()
	pool := &fakePool{}
	ldr := iocorpus.New(cfg, pool, cache)

	_, err := ldr.Load(context.Background())
	require.NoError(t, err)
	firstCalls := pool.calls
	require.Positive(t, firstCalls)
	assert.Equal(t, "Betula", cache.data["Betula pendula"])

	// A second load resolves genera from the cache.
	_, err = ldr.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, firstCalls, pool.calls)
}
