package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// TIME POINT - Calendar day abstraction (shift records are keyed per day)
// =============================================================================

// DateLayout is the ISO layout used for every day key in the system.
const DateLayout = "2006-01-02"

// TimePoint is a calendar day. The time-of-day part is always midnight UTC so
// that two TimePoints for the same day compare equal.
type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func Today() TimePoint {
	now := time.Now()
	return NewTimePoint(now.Year(), now.Month(), now.Day())
}

// FromTime truncates t to its calendar day in t's own location.
func FromTime(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// ParseDate parses an ISO "YYYY-MM-DD" day key.
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return TimePoint{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return TimePoint{Time: t}, nil
}

// MustParseDate is ParseDate for compile-time constants and tests.
func MustParseDate(s string) TimePoint {
	tp, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return tp
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return tp.Before(other) || tp.Equal(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return tp.After(other) || tp.Equal(other) }

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint { return FromTime(tp.normalize().AddDate(0, 0, n)) }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsSunday() bool        { return tp.Weekday() == time.Sunday }
func (tp TimePoint) IsWeekend() bool       { wd := tp.Weekday(); return wd == time.Saturday || wd == time.Sunday }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

// Key returns the ISO day key ("2006-01-02") used by shift maps and storage.
func (tp TimePoint) Key() string { return tp.normalize().Format(DateLayout) }

func (tp TimePoint) String() string { return tp.Key() }

// MarshalText renders the ISO day key, so TimePoints appear as "2026-01-19"
// in JSON and YAML.
func (tp TimePoint) MarshalText() ([]byte, error) { return []byte(tp.Key()), nil }

func (tp *TimePoint) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*tp = parsed
	return nil
}

// Monday returns the Monday of the ISO week containing tp.
func (tp TimePoint) Monday() TimePoint {
	wd := int(tp.Weekday())
	if wd == 0 {
		wd = 7
	}
	return tp.AddDays(-(wd - 1))
}

// =============================================================================
// LABELS - French short labels used on sheets and discrepancy groups
// =============================================================================

var shortDayNames = [...]string{"Dim", "Lun", "Mar", "Mer", "Jeu", "Ven", "Sam"}

// ShortDayName returns "Lun", "Mar", ... for tp.
func (tp TimePoint) ShortDayName() string { return shortDayNames[tp.Weekday()] }

// Label returns a compact day label such as "Lun 20/01".
func (tp TimePoint) Label() string {
	return fmt.Sprintf("%s %02d/%02d", tp.ShortDayName(), tp.Day(), int(tp.Month()))
}

// FrenchDate formats tp as "20/01/2026".
func (tp TimePoint) FrenchDate() string {
	return fmt.Sprintf("%02d/%02d/%d", tp.Day(), int(tp.Month()), tp.Year())
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

// DaysBetween returns the signed number of whole days from -> to.
func DaysBetween(from, to TimePoint) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}
