package store

import (
	"cmp"
	"slices"

	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/entity"
)

// NoLimit asks Page for every record from the offset onwards.
const NoLimit = -1

// Table is the immutable in-memory dataset. It is safe for concurrent reads.
type Table struct {
	records []entity.Record
	info    entity.DatasetInfo
}

// NewTable copies records, orders them by (region, brand, year) and keeps the
// original row order for ties.
func NewTable(records []entity.Record, info entity.DatasetInfo) *Table {
	rows := slices.Clone(records)
	Sort(rows)
	info.Records = len(rows)

	return &Table{records: rows, info: info}
}

// Sort orders records in place by region, brand, then year. It is stable.
func Sort(records []entity.Record) {
	slices.SortStableFunc(records, func(a, b entity.Record) int {
		return cmp.Or(
			cmp.Compare(a.Region, b.Region),
			cmp.Compare(a.Brand, b.Brand),
			cmp.Compare(a.Year, b.Year),
		)
	})
}

func (t *Table) Info() entity.DatasetInfo {
	return t.info
}

func (t *Table) Len() int {
	return len(t.records)
}

// Filter returns a new slice with every record matching f, in table order.
func (t *Table) Filter(f entity.Filter) []entity.Record {
	out := make([]entity.Record, 0, len(t.records))
	for _, r := range t.records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Facets returns the sorted distinct regions, brands and years.
func (t *Table) Facets() entity.Facets {
	regions := make(map[string]struct{})
	brands := make(map[string]struct{})
	years := make(map[int]struct{})
	for _, r := range t.records {
		regions[r.Region] = struct{}{}
		brands[r.Brand] = struct{}{}
		years[r.Year] = struct{}{}
	}

	return entity.Facets{
		Regions: sortedKeys(regions),
		Brands:  sortedKeys(brands),
		Years:   sortedKeys(years),
	}
}

func sortedKeys[K cmp.Ordered](m map[K]struct{}) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Page slices view to [offset, offset+limit). It returns the page and the
// length of the whole view. An offset past the end yields an empty page.
func Page(view []entity.Record, offset, limit int) ([]entity.Record, int) {
	total := len(view)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []entity.Record{}, total
	}

	end := total
	if limit >= 0 && offset+limit < total {
		end = offset + limit
	}

	return view[offset:end], total
}
