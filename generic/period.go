package generic

// =============================================================================
// PERIOD - Inclusive day range
// =============================================================================

// Period is an inclusive range of calendar days [Start, End].
//
// Examples:
//   - A fortnight: Mon 2026-01-19 .. Sun 2026-02-01
//   - A pay period: 2026-01-26 .. 2026-02-22
//   - A clipped sub-range: the part of a fortnight inside a pay period
type Period struct {
	Start TimePoint `json:"start" yaml:"start"`
	End   TimePoint `json:"end" yaml:"end"`
}

// NewPeriodOfDays returns the period of n days starting at start.
func NewPeriodOfDays(start TimePoint, n int) Period {
	return Period{Start: start, End: start.AddDays(n - 1)}
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Valid reports whether End is not before Start.
func (p Period) Valid() bool { return !p.End.Before(p.Start) }

// Len returns the number of days in the period (0 for an invalid period).
func (p Period) Len() int {
	if !p.Valid() {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// Overlaps reports whether p and other share at least one day.
func (p Period) Overlaps(other Period) bool {
	return !p.End.Before(other.Start) && !other.End.Before(p.Start)
}

// Intersect returns the common sub-range of p and other. The boolean is false
// when the two periods do not overlap.
func (p Period) Intersect(other Period) (Period, bool) {
	if !p.Overlaps(other) {
		return Period{}, false
	}
	start, end := p.Start, p.End
	if other.Start.After(start) {
		start = other.Start
	}
	if other.End.Before(end) {
		end = other.End
	}
	return Period{Start: start, End: end}, true
}

// Equal reports whether both bounds match.
func (p Period) Equal(other Period) bool {
	return p.Start.Equal(other.Start) && p.End.Equal(other.End)
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// NextPeriod returns the period of the same length following this one.
func (p Period) NextPeriod() Period {
	return NewPeriodOfDays(p.End.AddDays(1), p.Len())
}

// PreviousPeriod returns the period of the same length before this one.
func (p Period) PreviousPeriod() Period {
	n := p.Len()
	return NewPeriodOfDays(p.Start.AddDays(-n), n)
}
