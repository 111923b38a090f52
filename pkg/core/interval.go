package core

// Interval is a closed range [Min, Max] along a ray's parameter.
//
// During intersection the interval doubles as the nearest-hit bound: a shape
// only accepts a hit strictly inside it and then shrinks Max to that hit, so
// a scan over many shapes converges on the nearest one without separate
// bookkeeping.
type Interval struct {
	Min, Max float64
}

// NewInterval creates a new interval
func NewInterval(min, max float64) Interval {
	return Interval{Min: min, Max: max}
}

// Size returns Max - Min
func (i Interval) Size() float64 {
	return i.Max - i.Min
}

// Contains reports whether x is inside the interval, endpoints included
func (i Interval) Contains(x float64) bool {
	return i.Min <= x && x <= i.Max
}

// Surrounds reports whether x is strictly inside the interval
func (i Interval) Surrounds(x float64) bool {
	return i.Min < x && x < i.Max
}

// Clamp returns x limited to the interval
func (i Interval) Clamp(x float64) float64 {
	if x < i.Min {
		return i.Min
	}
	if x > i.Max {
		return i.Max
	}
	return x
}

// IsEmpty reports whether Min > Max
func (i Interval) IsEmpty() bool {
	return !(i.Min <= i.Max)
}

// Overlaps reports whether a non-empty slab interval reaches into other.
// Used to test a box's entry/exit distances against the current search range.
func (i Interval) Overlaps(other Interval) bool {
	return i.Min <= i.Max && i.Max > other.Min && i.Min < other.Max
}

// Shrink lowers Max to t. It never widens the interval.
func (i *Interval) Shrink(t float64) {
	if t < i.Max {
		i.Max = t
	}
}
