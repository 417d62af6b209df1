// Package desc provides the domain types of GNdesc: description
// records of plant seed-dispersal texts, filter selections, and
// paginated query results. The package is pure and holds no I/O.
package desc

import (
	"context"
)

// PageSize is the fixed number of records per result page.
const PageSize = 20

// Record is one seed-dispersal description merged with its tag
// assignments. Records are immutable after the corpus load.
type Record struct {
	// RowID uniquely identifies the record. It combines the corpus
	// identifier with the source name because the same identifier can
	// appear in several sources.
	RowID string `json:"row_id"`

	// UUID is a v5 UUID deterministically derived from RowID.
	UUID string `json:"uuid"`

	// Identifier is the key shared between the descriptions file and
	// the tags file.
	Identifier string `json:"identifier"`

	Order      string `json:"order_name,omitempty"`
	Family     string `json:"family_name,omitempty"`
	Genus      string `json:"genus_name,omitempty"`
	Species    string `json:"species_name,omitempty"`
	Subspecies string `json:"subspecies,omitempty"`
	Source     string `json:"source_name,omitempty"`

	// Description is the free-text seed-dispersal description.
	Description string `json:"descriptions_text"`

	// WordCount is the number of words in Description, computed at
	// load time for the min-words filter.
	WordCount int `json:"word_count"`

	// Tags assigned to the record; empty if the tags file has no entry
	// for the identifier.
	Tags []string `json:"tags"`
}

// Filters is a selection of values per filter axis. Within the tag
// axis selected tags combine with AND (a record must carry all of
// them); within every other axis values combine with OR; axes combine
// with AND.
type Filters struct {
	Tags     []string
	Orders   []string
	Families []string
	Genera   []string
	Sources  []string

	// MinWords drops records whose description has fewer words.
	// Zero means no minimum.
	MinWords int
}

// Empty reports whether no filter value is selected at all.
func (f Filters) Empty() bool {
	return len(f.Tags) == 0 && len(f.Orders) == 0 &&
		len(f.Families) == 0 && len(f.Genera) == 0 &&
		len(f.Sources) == 0 && f.MinWords == 0
}

// Page is one page of query results in stable RowID order.
type Page struct {
	// Total is the number of records matching the filters across all
	// pages.
	Total int `json:"total"`

	// PageNum is the 1-based number of this page.
	PageNum int `json:"page"`

	// PerPage is the fixed page size.
	PerPage int `json:"per_page"`

	// TotalPages is the number of pages needed for Total records.
	TotalPages int `json:"total_pages"`

	Records []*Record `json:"results"`
}

// Options lists the distinct values available per filter axis, sorted
// alphabetically. It populates the filter controls of the browser
// page.
type Options struct {
	Tags     []string `json:"tags"`
	Orders   []string `json:"orders"`
	Families []string `json:"families"`
	Genera   []string `json:"genera"`
	Sources  []string `json:"sources"`
}

// Loader reads the corpus files and returns records keyed by RowID.
// A failed load is fatal at startup; there is no partial load.
type Loader interface {
	Load(ctx context.Context) (map[string]*Record, error)
}

// RowID derives the record key from the corpus identifier and the
// source name. Records without an identifier fall back to the source
// name alone, and an empty source reads as "unknown".
func RowID(identifier, source string) string {
	if source == "" {
		source = "unknown"
	}
	if identifier == "" {
		return source
	}
	return identifier + "_" + source
}
