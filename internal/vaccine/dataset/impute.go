package dataset

import "github.com/sankalp250/health-insight-dashboard/internal/vaccine/entity"

var measureFields = []func(*entity.Record) *entity.Measure{
	func(r *entity.Record) *entity.Measure { return &r.MarketSizeUSD },
	func(r *entity.Record) *entity.Measure { return &r.AvgPriceUSD },
	func(r *entity.Record) *entity.Measure { return &r.DosesSoldMillion },
	func(r *entity.Record) *entity.Measure { return &r.GrowthRatePercent },
}

// forwardFill fills missing measures from the previous record of the same
// (region, brand) series, then zero-fills the rest. records must already be
// sorted by region, brand and year.
func forwardFill(records []entity.Record) {
	for i := range records {
		cur := &records[i]

		var prev *entity.Record
		if i > 0 && records[i-1].Region == cur.Region && records[i-1].Brand == cur.Brand {
			prev = &records[i-1]
		}

		for _, field := range measureFields {
			m := field(cur)
			switch {
			case m.Valid:
			case prev != nil:
				*m = *field(prev)
			default:
				*m = entity.Some(0)
			}
		}
	}
}
