package index

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/gnames/gndesc/pkg/desc"
)

// Search returns one page of records matching the filter selection.
//
// Selected tags combine with AND: a record must carry every one of
// them. Within the order, family, genus and source axes multiple
// values combine with OR; axes combine with AND. An empty selection
// matches the whole corpus. Pages are 1-based and fixed at
// desc.PageSize records; a page number outside the result range
// yields an empty page, never an error.
func (fi *FilterIndex) Search(f desc.Filters, page int) desc.Page {
	// The no-filter query is the page's initial state; serve it
	// straight from the row slice without touching the bitmaps.
	if f.Empty() {
		return paginate(fi.rows, page)
	}

	sel := fi.all.Clone()

	for _, tag := range f.Tags {
		sel.And(fi.posting(AxisTag, tag))
	}
	for axis, values := range map[Axis][]string{
		AxisOrder:  f.Orders,
		AxisFamily: f.Families,
		AxisGenus:  f.Genera,
		AxisSource: f.Sources,
	} {
		if len(values) == 0 {
			continue
		}
		sel.And(fi.anyOf(axis, values))
	}

	matched := make([]*desc.Record, 0, sel.GetCardinality())
	it := sel.Iterator()
	for it.HasNext() {
		rec := fi.rows[it.Next()]
		if f.MinWords > 0 && rec.WordCount < f.MinWords {
			continue
		}
		matched = append(matched, rec)
	}

	return paginate(matched, page)
}

// posting returns the bitmap of one axis value, or an empty bitmap if
// the value was never observed.
func (fi *FilterIndex) posting(axis Axis, value string) *roaring.Bitmap {
	if bm, ok := fi.axes[axis][value]; ok {
		return bm
	}
	return roaring.New()
}

// anyOf returns the union of the postings of the selected values on
// one axis.
func (fi *FilterIndex) anyOf(axis Axis, values []string) *roaring.Bitmap {
	bms := make([]*roaring.Bitmap, len(values))
	for i, v := range values {
		bms[i] = fi.posting(axis, v)
	}
	return roaring.FastOr(bms...)
}

func paginate(matched []*desc.Record, page int) desc.Page {
	total := len(matched)
	totalPages := (total + desc.PageSize - 1) / desc.PageSize

	res := desc.Page{
		Total:      total,
		PageNum:    page,
		PerPage:    desc.PageSize,
		TotalPages: totalPages,
		Records:    []*desc.Record{},
	}
	if page < 1 || page > totalPages {
		return res
	}

	from := (page - 1) * desc.PageSize
	to := min(from+desc.PageSize, total)
	res.Records = matched[from:to]
	return res
}
