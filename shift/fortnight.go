/*
fortnight.go - 14-day windows and overtime aggregation

PURPOSE:
  The agreement counts overtime per fortnight (quatorzaine). Windows are laid
  end to end from the profile's root date: window k covers
  [root + 14k, root + 14k + 13]. Windows never overlap, and every fortnight is
  sovereign: thresholds reset at each window boundary with no carry-over.

KEY CONCEPTS:
  - FortnightWindow: a numbered 14-day window (Index may be negative for
    windows before the root date)
  - Clipping: a window straddling a pay-period boundary is aggregated only on
    the days inside the pay period (see payroll.Summarize)

SEE ALSO:
  - daily.go: Per-day TTE and allowance
  - rules.go: Rules.OvertimeBands
*/
package shift

import "github.com/warp/shiftlock/generic"

// =============================================================================
// WINDOWS
// =============================================================================

type FortnightWindow struct {
	Index  int            `json:"index"`
	Period generic.Period `json:"period"`
}

func windowAt(root generic.TimePoint, index int) FortnightWindow {
	return FortnightWindow{
		Index:  index,
		Period: generic.NewPeriodOfDays(root.AddDays(index*FortnightDays), FortnightDays),
	}
}

// WindowFor returns the window containing day.
func WindowFor(root, day generic.TimePoint) FortnightWindow {
	return windowAt(root, floorDiv(generic.DaysBetween(root, day), FortnightDays))
}

// Windows returns every window intersecting span, in order.
func Windows(root generic.TimePoint, span generic.Period) []FortnightWindow {
	if !span.Valid() {
		return nil
	}
	var out []FortnightWindow
	for w := WindowFor(root, span.Start); !w.Period.Start.After(span.End); w = windowAt(root, w.Index+1) {
		out = append(out, w)
	}
	return out
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// =============================================================================
// AGGREGATION
// =============================================================================

type FortnightResult struct {
	Window     FortnightWindow `json:"window"`
	Period     generic.Period  `json:"period"`
	Clipped    bool            `json:"clipped"`
	TotalTTE   int             `json:"total_tte"`
	Band1      int             `json:"band1"`
	Band2      int             `json:"band2"`
	WorkedDays int             `json:"worked_days"`
	Allowances AllowanceCounts `json:"allowances"`
	Days       []DayResult     `json:"days"`
}

// Aggregate sums every day of period. Absent days contribute zero. Break
// alerts and the daily-rest alert against the previous day are attached to
// each day result.
func Aggregate(shifts Shifts, period generic.Period, rules Rules) FortnightResult {
	res := FortnightResult{Period: period}
	for _, day := range period.Days() {
		rec, ok := shifts.Get(day)
		if !ok {
			res.Days = append(res.Days, Calculate(EmptyDay(day.Key()), rules))
			continue
		}
		rec.Date = day.Key()

		dr := CalculateWithAlerts(shifts, rec, rules)

		res.TotalTTE += dr.TTE
		if dr.TTE > 0 {
			res.WorkedDays++
		}
		res.Allowances.Add(dr.Allowance)
		res.Days = append(res.Days, dr)
	}
	res.Band1, res.Band2 = rules.OvertimeBands(res.TotalTTE)
	return res
}

// AggregateWindow aggregates w restricted to bounds. It reports false when
// the window does not intersect bounds.
func AggregateWindow(shifts Shifts, w FortnightWindow, bounds generic.Period, rules Rules) (FortnightResult, bool) {
	clipped, ok := w.Period.Intersect(bounds)
	if !ok {
		return FortnightResult{}, false
	}
	res := Aggregate(shifts, clipped, rules)
	res.Window = w
	res.Clipped = !clipped.Equal(w.Period)
	return res, true
}

// AggregateFortnight aggregates the full window containing day.
func AggregateFortnight(shifts Shifts, root, day generic.TimePoint, rules Rules) FortnightResult {
	w := WindowFor(root, day)
	res := Aggregate(shifts, w.Period, rules)
	res.Window = w
	return res
}
