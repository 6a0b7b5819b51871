/*
Package payroll maps fortnight results onto monthly pay periods and prices
them.

PURPOSE:
  Pay periods do not follow calendar months: each period is a run of whole
  weeks and a week is paid in the month holding its Monday. The employer
  publishes the table every year; Calendar holds it verbatim rather than
  recomputing it.

KEY CONCEPTS:
  - PayPeriod: "2026-03" -> [2026-02-23, 2026-03-29]
  - Rates: hourly rate per level, flat allowance amounts, overtime multipliers
  - Summary: worked time, overtime and estimated pay for one pay period

SEE ALSO:
  - summary.go: Summarize and the fortnight clipping
  - shift/fortnight.go: Window aggregation
*/
package payroll

import (
	"fmt"
	"sort"

	"github.com/warp/shiftlock/generic"
)

type PayPeriod struct {
	ID     string         `json:"id"`
	Label  string         `json:"label"`
	Period generic.Period `json:"period"`
}

// Calendar is an ordered, non-overlapping list of pay periods.
type Calendar struct {
	periods []PayPeriod
	byID    map[string]int
}

// NewCalendar validates and indexes periods.
func NewCalendar(periods []PayPeriod) (Calendar, error) {
	sorted := append([]PayPeriod(nil), periods...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Period.Start.Before(sorted[j].Period.Start) })

	c := Calendar{periods: sorted, byID: make(map[string]int, len(sorted))}
	for i, p := range sorted {
		if !p.Period.Valid() {
			return Calendar{}, fmt.Errorf("pay period %s: %w", p.ID, generic.ErrInvalidPeriod)
		}
		if _, dup := c.byID[p.ID]; dup {
			return Calendar{}, fmt.Errorf("pay period %s listed twice: %w", p.ID, generic.ErrInvalidRules)
		}
		if i > 0 && sorted[i-1].Period.Overlaps(p.Period) {
			return Calendar{}, fmt.Errorf("pay periods %s and %s overlap: %w", sorted[i-1].ID, p.ID, generic.ErrInvalidRules)
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

// Lookup returns the pay period with the given identifier.
func (c Calendar) Lookup(id string) (PayPeriod, bool) {
	i, ok := c.byID[id]
	if !ok {
		return PayPeriod{}, false
	}
	return c.periods[i], true
}

// ForDate returns the pay period containing day.
func (c Calendar) ForDate(day generic.TimePoint) (PayPeriod, bool) {
	i := sort.Search(len(c.periods), func(i int) bool { return !c.periods[i].Period.End.Before(day) })
	if i < len(c.periods) && c.periods[i].Period.Contains(day) {
		return c.periods[i], true
	}
	return PayPeriod{}, false
}

// Periods returns a copy of the table in date order.
func (c Calendar) Periods() []PayPeriod {
	return append([]PayPeriod(nil), c.periods...)
}

// =============================================================================
// 2026 TABLE
// =============================================================================

func payPeriod(id, label, start, end string) PayPeriod {
	return PayPeriod{
		ID:     id,
		Label:  label,
		Period: generic.Period{Start: generic.MustParseDate(start), End: generic.MustParseDate(end)},
	}
}

// Periods2026 is the published 2026 table.
func Periods2026() []PayPeriod {
	return []PayPeriod{
		payPeriod("2026-01", "Janvier", "2025-12-29", "2026-01-25"),
		payPeriod("2026-02", "Février", "2026-01-26", "2026-02-22"),
		payPeriod("2026-03", "Mars", "2026-02-23", "2026-03-29"),
		payPeriod("2026-04", "Avril", "2026-03-30", "2026-04-26"),
		payPeriod("2026-05", "Mai", "2026-04-27", "2026-05-31"),
		payPeriod("2026-06", "Juin", "2026-06-01", "2026-06-28"),
		payPeriod("2026-07", "Juillet", "2026-06-29", "2026-07-26"),
		payPeriod("2026-08", "Août", "2026-07-27", "2026-08-30"),
		payPeriod("2026-09", "Septembre", "2026-08-31", "2026-09-27"),
		payPeriod("2026-10", "Octobre", "2026-09-28", "2026-10-25"),
		payPeriod("2026-11", "Novembre", "2026-10-26", "2026-11-29"),
		payPeriod("2026-12", "Décembre", "2026-11-30", "2026-12-27"),
	}
}

// DefaultCalendar returns the 2026 calendar.
func DefaultCalendar() Calendar {
	c, err := NewCalendar(Periods2026())
	if err != nil {
		panic(err)
	}
	return c
}
