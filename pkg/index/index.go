// Package index builds and queries the inverted filter index of the
// description corpus. Each filter axis maps observed values to roaring
// bitmaps of row positions, so a query is a handful of bitmap AND/OR
// operations instead of a corpus scan.
//
// The index is built once from the fully loaded corpus and is
// immutable afterwards; concurrent queries need no locking.
package index

import (
	"maps"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/gnames/gndesc/pkg/desc"
)

// Axis is one filterable dimension of the corpus.
type Axis string

const (
	AxisTag    Axis = "tag"
	AxisOrder  Axis = "order"
	AxisFamily Axis = "family"
	AxisGenus  Axis = "genus"
	AxisSource Axis = "source"
)

// FilterIndex holds the corpus rows in ascending RowID order together
// with per-axis posting bitmaps over dense row positions.
type FilterIndex struct {
	rows []*desc.Record
	all  *roaring.Bitmap
	axes map[Axis]map[string]*roaring.Bitmap
}

// Build creates a FilterIndex from loaded records in a single pass.
// Rows get positions in ascending RowID order, which makes bitmap
// order the presentation order. A record contributes a posting for
// every tag in its tag set and one posting per non-absent taxonomy
// and source value.
func Build(records map[string]*desc.Record) *FilterIndex {
	fi := &FilterIndex{
		rows: make([]*desc.Record, 0, len(records)),
		all:  roaring.New(),
		axes: map[Axis]map[string]*roaring.Bitmap{
			AxisTag:    {},
			AxisOrder:  {},
			AxisFamily: {},
			AxisGenus:  {},
			AxisSource: {},
		},
	}

	for _, id := range slices.Sorted(maps.Keys(records)) {
		fi.rows = append(fi.rows, records[id])
	}

	for i, rec := range fi.rows {
		pos := uint32(i)
		fi.all.Add(pos)
		for _, tag := range rec.Tags {
			fi.add(AxisTag, tag, pos)
		}
		fi.add(AxisOrder, rec.Order, pos)
		fi.add(AxisFamily, rec.Family, pos)
		fi.add(AxisGenus, rec.Genus, pos)
		fi.add(AxisSource, rec.Source, pos)
	}
	return fi
}

func (fi *FilterIndex) add(axis Axis, value string, pos uint32) {
	if value == "" {
		return
	}
	bm, ok := fi.axes[axis][value]
	if !ok {
		bm = roaring.New()
		fi.axes[axis][value] = bm
	}
	bm.Add(pos)
}

// Len returns the number of indexed records.
func (fi *FilterIndex) Len() int {
	return len(fi.rows)
}

// Cardinality returns the number of distinct values on an axis.
func (fi *FilterIndex) Cardinality(axis Axis) int {
	return len(fi.axes[axis])
}

// Options returns the distinct values per axis, sorted alphabetically.
func (fi *FilterIndex) Options() desc.Options {
	return desc.Options{
		Tags:     fi.values(AxisTag),
		Orders:   fi.values(AxisOrder),
		Families: fi.values(AxisFamily),
		Genera:   fi.values(AxisGenus),
		Sources:  fi.values(AxisSource),
	}
}

func (fi *FilterIndex) values(axis Axis) []string {
	res := slices.Sorted(maps.Keys(fi.axes[axis]))
	if res == nil {
		res = []string{}
	}
	return res
}
