package entity

// Measure is a numeric cell that may be missing in the source data.
type Measure struct {
	Value float64
	Valid bool
}

func Some(v float64) Measure {
	return Measure{Value: v, Valid: true}
}

// Or returns the value, or def when the measure is missing.
func (m Measure) Or(def float64) float64 {
	if !m.Valid {
		return def
	}
	return m.Value
}

// Ptr returns nil for a missing measure.
func (m Measure) Ptr() *float64 {
	if !m.Valid {
		return nil
	}
	v := m.Value
	return &v
}
