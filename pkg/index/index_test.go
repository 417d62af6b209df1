package index_test

import (
	"fmt"
	"testing"

	"github.com/gnames/gndesc/pkg/desc"
	"github.com/gnames/gndesc/pkg/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() map[string]*desc.Record {
	recs := []*desc.Record{
		{
			Identifier: "wfo-001", Source: "wfo",
			Order: "Fagales", Family: "Fagaceae", Genus: "Quercus",
			Species: "Quercus robur", Description: "Acorns dispersed by jays.",
			WordCount: 4, Tags: []string{"has_seed", "lang_en"},
		},
		{
			Identifier: "wfo-002", Source: "wfo",
			Order: "Fagales", Family: "Betulaceae", Genus: "Betula",
			Species: "Betula pendula", Description: "Winged nutlets carried by wind.",
			WordCount: 5, Tags: []string{"has_seed"},
		},
		{
			Identifier: "foc-001", Source: "foc",
			Order: "Rosales", Family: "Rosaceae", Genus: "Rosa",
			Species: "Rosa canina", Description: "Hips eaten by birds.",
			WordCount: 4, Tags: []string{"lang_en"},
		},
		{
			Identifier: "foc-002", Source: "foc",
			Order: "Rosales", Family: "Rosaceae",
			Description: "Description without taxonomy below family.",
			WordCount:   5,
		},
	}
	res := make(map[string]*desc.Record)
	for _, rec := range recs {
		rec.RowID = desc.RowID(rec.Identifier, rec.Source)
		res[rec.RowID] = rec
	}
	return res
}

func TestBuild(t *testing.T) {
	fi := index.Build(testRecords())

	assert.Equal(t, 4, fi.Len())
	assert.Equal(t, 2, fi.Cardinality(index.AxisTag))
	assert.Equal(t, 2, fi.Cardinality(index.AxisOrder))
	assert.Equal(t, 3, fi.Cardinality(index.AxisFamily))
	assert.Equal(t, 3, fi.Cardinality(index.AxisGenus))
	assert.Equal(t, 2, fi.Cardinality(index.AxisSource))
}

func TestOptions(t *testing.T) {
	fi := index.Build(testRecords())
	opts := fi.Options()

	assert.Equal(t, []string{"has_seed", "lang_en"}, opts.Tags)
	assert.Equal(t, []string{"Fagales", "Rosales"}, opts.Orders)
	assert.Equal(t,
		[]string{"Betulaceae", "Fagaceae", "Rosaceae"}, opts.Families)
	assert.Equal(t, []string{"Betula", "Quercus", "Rosa"}, opts.Genera)
	assert.Equal(t, []string{"foc", "wfo"}, opts.Sources)
}

func TestOptionsEmptyCorpus(t *testing.T) {
	fi := index.Build(map[string]*desc.Record{})
	opts := fi.Options()

	// JSON clients expect arrays, not nulls.
	assert.NotNil(t, opts.Tags)
	assert.Empty(t, opts.Tags)
	assert.NotNil(t, opts.Genera)
}

// Every posting on an axis points at a record that carries the value;
// every record with a value appears in the posting of that value.
func TestAxisCoverage(t *testing.T) {
	records := testRecords()
	fi := index.Build(records)

	withGenus := 0
	for _, rec := range records {
		if rec.Genus != "" {
			withGenus++
		}
	}

	covered := 0
	for _, genus := range fi.Options().Genera {
		page := fi.Search(desc.Filters{Genera: []string{genus}}, 1)
		for _, rec := range page.Records {
			require.Equal(t, genus, rec.Genus)
		}
		covered += page.Total
	}
	assert.Equal(t, withGenus, covered)
}

func TestSearchAxes(t *testing.T) {
	fi := index.Build(testRecords())

	tests := []struct {
		msg     string
		filters desc.Filters
		rowIDs  []string
	}{
		{
			msg:     "empty filters return everything",
			filters: desc.Filters{},
			rowIDs: []string{
				"foc-001_foc", "foc-002_foc", "wfo-001_wfo", "wfo-002_wfo",
			},
		},
		{
			msg:     "single order",
			filters: desc.Filters{Orders: []string{"Fagales"}},
			rowIDs:  []string{"wfo-001_wfo", "wfo-002_wfo"},
		},
		{
			msg: "two families OR within axis",
			filters: desc.Filters{
				Families: []string{"Fagaceae", "Betulaceae"},
			},
			rowIDs: []string{"wfo-001_wfo", "wfo-002_wfo"},
		},
		{
			msg: "axes combine with AND",
			filters: desc.Filters{
				Orders:  []string{"Rosales"},
				Genera:  []string{"Rosa"},
				Sources: []string{"foc"},
			},
			rowIDs: []string{"foc-001_foc"},
		},
		{
			msg:     "unknown value matches nothing",
			filters: desc.Filters{Genera: []string{"Pinus"}},
			rowIDs:  []string{},
		},
		{
			msg:     "min words threshold",
			filters: desc.Filters{MinWords: 5},
			rowIDs:  []string{"foc-002_foc", "wfo-002_wfo"},
		},
	}

	for _, v := range tests {
		page := fi.Search(v.filters, 1)
		assert.Equal(t, len(v.rowIDs), page.Total, v.msg)
		var got []string
		for _, rec := range page.Records {
			got = append(got, rec.RowID)
		}
		if len(v.rowIDs) == 0 {
			assert.Empty(t, got, v.msg)
		} else {
			assert.Equal(t, v.rowIDs, got, v.msg)
		}
	}
}

// The no-filter query bypasses the bitmaps; its answer must stay
// interchangeable with an equivalent bitmap-backed selection.
func TestSearchNoFilters(t *testing.T) {
	fi := index.Build(testRecords())

	assert.True(t, desc.Filters{}.Empty())
	assert.False(t, desc.Filters{MinWords: 1}.Empty())

	bare := fi.Search(desc.Filters{}, 1)
	viaBitmaps := fi.Search(
		desc.Filters{Sources: []string{"foc", "wfo"}}, 1)
	assert.Equal(t, viaBitmaps, bare)

	// A minimum word count alone is not an empty selection.
	page := fi.Search(desc.Filters{MinWords: 5}, 1)
	assert.Equal(t, 2, page.Total)
}

// Pins the multi-tag semantics: selected tags are all required, so
// two selected tags read as an intersection, not a union.
func TestSearchMultiTag(t *testing.T) {
	fi := index.Build(testRecords())

	page := fi.Search(desc.Filters{Tags: []string{"has_seed"}}, 1)
	assert.Equal(t, 2, page.Total)

	page = fi.Search(desc.Filters{Tags: []string{"has_seed", "lang_en"}}, 1)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "wfo-001_wfo", page.Records[0].RowID)
}

func TestSearchIdempotent(t *testing.T) {
	fi := index.Build(testRecords())
	filters := desc.Filters{Orders: []string{"Fagales"}}

	first := fi.Search(filters, 1)
	second := fi.Search(filters, 1)
	assert.Equal(t, first, second)
}

func TestPagination(t *testing.T) {
	records := make(map[string]*desc.Record)
	for i := range 45 {
		rec := &desc.Record{
			Identifier: fmt.Sprintf("wfo-%03d", i),
			Source:     "wfo",
			Tags:       []string{"has_seed"},
			WordCount:  3,
		}
		rec.RowID = desc.RowID(rec.Identifier, rec.Source)
		records[rec.RowID] = rec
	}
	fi := index.Build(records)

	t.Run("pages concatenate to the full match set", func(t *testing.T) {
		seen := make(map[string]bool)
		var pages int
		for p := 1; ; p++ {
			page := fi.Search(desc.Filters{Tags: []string{"has_seed"}}, p)
			assert.Equal(t, 45, page.Total)
			assert.Equal(t, 3, page.TotalPages)
			if len(page.Records) == 0 {
				break
			}
			pages++
			if p < 3 {
				assert.Len(t, page.Records, desc.PageSize)
			} else {
				assert.Len(t, page.Records, 5)
			}
			for _, rec := range page.Records {
				require.False(t, seen[rec.RowID], "duplicate across pages")
				seen[rec.RowID] = true
			}
		}
		assert.Equal(t, 3, pages)
		assert.Len(t, seen, 45)
	})

	t.Run("rows are sorted by row identifier", func(t *testing.T) {
		page := fi.Search(desc.Filters{}, 1)
		require.NotEmpty(t, page.Records)
		prev := page.Records[0].RowID
		for _, rec := range page.Records[1:] {
			assert.Less(t, prev, rec.RowID)
			prev = rec.RowID
		}
	})

	t.Run("out of range pages are empty, not errors", func(t *testing.T) {
		for _, p := range []int{-1, 0, 4, 1000} {
			page := fi.Search(desc.Filters{}, p)
			assert.Empty(t, page.Records, "page %d", p)
			assert.Equal(t, 45, page.Total)
			assert.Equal(t, p, page.PageNum)
		}
	})
}
