package entity

import "strings"

// Filter narrows records. A nil field means no constraint.
type Filter struct {
	Region *string
	Brand  *string
	Year   *int
}

// Matches reports whether r satisfies every set field. Region and brand
// compare case-insensitively, year exactly.
func (f Filter) Matches(r Record) bool {
	if f.Region != nil && !strings.EqualFold(r.Region, *f.Region) {
		return false
	}
	if f.Brand != nil && !strings.EqualFold(r.Brand, *f.Brand) {
		return false
	}
	if f.Year != nil && r.Year != *f.Year {
		return false
	}
	return true
}

// WithoutYear drops the year constraint; trend analysis always spans every year.
func (f Filter) WithoutYear() Filter {
	f.Year = nil
	return f
}
