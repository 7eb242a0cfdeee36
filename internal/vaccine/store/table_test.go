package store

import (
	"fmt"
	"testing"

	"github.com/sankalp250/health-insight-dashboard/internal/vaccine/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// grid builds regions x brands x years records in deliberately shuffled order.
func grid(regions, brands []string, years []int) []entity.Record {
	var out []entity.Record
	for i := len(years) - 1; i >= 0; i-- {
		for j := len(brands) - 1; j >= 0; j-- {
			for _, region := range regions {
				out = append(out, entity.Record{
					Region:        region,
					Brand:         brands[j],
					Year:          years[i],
					MarketSizeUSD: entity.Some(float64(years[i])),
				})
			}
		}
	}
	return out
}

func keys(rs []entity.Record) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, fmt.Sprintf("%s/%s/%d", r.Region, r.Brand, r.Year))
	}
	return out
}

func TestTableFilterRegionSubset(t *testing.T) {
	tbl := NewTable(grid([]string{"Africa", "Asia", "Europe"}, []string{"Moderna", "Pfizer"}, []int{2020, 2021}), entity.DatasetInfo{})
	require.Equal(t, 12, tbl.Len())

	got := tbl.Filter(entity.Filter{Region: ptr("asia")})
	assert.Equal(t, []string{
		"Asia/Moderna/2020",
		"Asia/Moderna/2021",
		"Asia/Pfizer/2020",
		"Asia/Pfizer/2021",
	}, keys(got))
}

func TestTableFilterPredicatesHold(t *testing.T) {
	tbl := NewTable(grid([]string{"Africa", "Asia"}, []string{"Moderna", "Pfizer", "Sinovac"}, []int{2019, 2020, 2021}), entity.DatasetInfo{})

	filters := []entity.Filter{
		{},
		{Brand: ptr("PFIZER")},
		{Year: ptr(2020)},
		{Region: ptr("Africa"), Brand: ptr("sinovac"), Year: ptr(2021)},
		{Region: ptr("Antarctica")},
	}
	for _, f := range filters {
		got := tbl.Filter(f)
		for _, r := range got {
			assert.True(t, f.Matches(r))
		}
	}

	assert.Len(t, tbl.Filter(entity.Filter{}), 18)
	assert.Len(t, tbl.Filter(entity.Filter{Brand: ptr("pfizer")}), 6)
	assert.Empty(t, tbl.Filter(entity.Filter{Region: ptr("Antarctica")}))
}

func TestNewTableSortIsStable(t *testing.T) {
	rows := []entity.Record{
		{Region: "Asia", Brand: "Pfizer", Year: 2021, Insight: "first"},
		{Region: "Africa", Brand: "Pfizer", Year: 2021},
		{Region: "Asia", Brand: "Pfizer", Year: 2021, Insight: "second"},
	}
	tbl := NewTable(rows, entity.DatasetInfo{Source: "x.csv"})

	got := tbl.Filter(entity.Filter{Region: ptr("Asia")})
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Insight)
	assert.Equal(t, "second", got[1].Insight)

	assert.Equal(t, "Asia", rows[0].Region, "input slice is not reordered")
	assert.Equal(t, 3, tbl.Info().Records)
	assert.Equal(t, "x.csv", tbl.Info().Source)
}

func TestPage(t *testing.T) {
	view := grid([]string{"A"}, []string{"B"}, []int{2000, 2001, 2002, 2003, 2004})

	tests := []struct {
		name          string
		offset, limit int
		wantLen       int
	}{
		{name: "first page", offset: 0, limit: 2, wantLen: 2},
		{name: "last partial page", offset: 4, limit: 2, wantLen: 1},
		{name: "offset past end", offset: 9, limit: 2, wantLen: 0},
		{name: "no limit", offset: 1, limit: NoLimit, wantLen: 4},
		{name: "zero limit", offset: 0, limit: 0, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, total := Page(view, tt.offset, tt.limit)
			assert.Equal(t, 5, total)
			assert.Len(t, page, tt.wantLen)
			assert.NotNil(t, page)
		})
	}
}

func TestPagesReproduceView(t *testing.T) {
	var years []int
	for y := 1900; y < 1900+250; y++ {
		years = append(years, y)
	}
	tbl := NewTable(grid([]string{"Asia"}, []string{"Pfizer"}, years), entity.DatasetInfo{})
	view := tbl.Filter(entity.Filter{})

	var joined []entity.Record
	for offset := 0; ; offset += 100 {
		page, total := Page(view, offset, 100)
		require.Equal(t, 250, total)
		if len(page) == 0 {
			break
		}
		joined = append(joined, page...)
	}

	assert.Equal(t, view, joined)
}

func TestTableFacets(t *testing.T) {
	tbl := NewTable(grid([]string{"Europe", "Africa"}, []string{"Pfizer", "Moderna"}, []int{2021, 2019}), entity.DatasetInfo{})

	f := tbl.Facets()
	assert.Equal(t, []string{"Africa", "Europe"}, f.Regions)
	assert.Equal(t, []string{"Moderna", "Pfizer"}, f.Brands)
	assert.Equal(t, []int{2019, 2021}, f.Years)
}
