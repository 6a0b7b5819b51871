package reconcile

import (
	"fmt"

	"github.com/warp/shiftlock/generic"
	"github.com/warp/shiftlock/shift"
)

const (
	notEntered = "NOT_ENTERED"
	none       = "-"
)

// Match compares every actionable employer day with the self-reported record
// of the same date. Days tagged OTHER are skipped and not counted.
func Match(shifts shift.Shifts, employer []EmployerDay, tol Tolerance) Result {
	res := Result{Days: []DayDiscrepancies{}}

	for _, emp := range employer {
		if emp.Status == EmployerOther {
			continue
		}
		res.Total++

		self, ok := shifts[emp.Date]
		var items []Discrepancy
		if emp.Status == EmployerRest {
			items = matchRest(self, ok)
		} else {
			items = matchWorked(self, ok, emp, tol)
		}

		if len(items) == 0 {
			res.Concordant++
			continue
		}
		res.Days = append(res.Days, DayDiscrepancies{Date: emp.Date, Label: dayLabel(emp.Date), Items: items})
	}
	return res
}

func matchRest(self shift.DayRecord, ok bool) []Discrepancy {
	if !ok || self.Status != shift.StatusWorked {
		return nil
	}
	return []Discrepancy{{
		Kind:     KindStatus,
		Message:  "rest day on the statement, worked day self-reported",
		Self:     string(shift.StatusWorked),
		Employer: string(EmployerRest),
		Severity: generic.SeverityError,
	}}
}

// matchWorked reports a status mismatch and stops when the worker has no
// record, a rest day or an empty day. Any other status is compared field by
// field: a leave day has no times, so only the statement's pauses show up.
func matchWorked(self shift.DayRecord, ok bool, emp EmployerDay, tol Tolerance) []Discrepancy {
	if !ok || self.Status == shift.StatusRest || self.Status == shift.StatusEmpty {
		got := notEntered
		if ok {
			got = string(self.Status)
		}
		return []Discrepancy{{
			Kind:     KindStatus,
			Message:  "worked day on the statement, not self-reported as worked",
			Self:     got,
			Employer: string(EmployerWorked),
			Severity: generic.SeverityError,
		}}
	}

	w, worked := self.Worked()
	if !worked {
		w = &shift.WorkDetail{}
	}

	var items []Discrepancy
	if d, ok := compareBoundary(KindStart, "start", w.Start, emp.Start, tol); ok {
		items = append(items, d)
	}
	if d, ok := compareBoundary(KindEnd, "end", w.End, emp.End, tol); ok {
		items = append(items, d)
	}

	selfPauses := make([]Interval, 0, len(w.Pauses))
	for _, p := range w.Pauses {
		selfPauses = append(selfPauses, Interval{Start: p.Start, End: p.End})
	}
	empPauses := make([]Interval, 0, len(emp.Pauses))
	for _, p := range emp.Pauses {
		empPauses = append(empPauses, Interval{Start: p.Start, End: p.End})
	}

	missing, extra := MatchPauses(selfPauses, empPauses, tol)
	for _, p := range missing {
		items = append(items, Discrepancy{
			Kind:     KindMissingPause,
			Message:  "pause on the statement not self-reported",
			Self:     none,
			Employer: p.String(),
			Severity: generic.SeverityWarning,
		})
	}
	for _, p := range extra {
		items = append(items, Discrepancy{
			Kind:     KindExtraPause,
			Message:  "self-reported pause missing from the statement",
			Self:     p.String(),
			Employer: none,
			Severity: generic.SeverityWarning,
		})
	}
	return items
}

// compareBoundary skips the comparison when either side has no time.
func compareBoundary(kind Kind, name, self, employer string, tol Tolerance) (Discrepancy, bool) {
	if !generic.IsClock(self) || !generic.IsClock(employer) {
		return Discrepancy{}, false
	}
	delta := clockDelta(self, employer)
	if delta <= tol.Minutes {
		return Discrepancy{}, false
	}
	sev := generic.SeverityWarning
	if delta > tol.ErrorMinutes {
		sev = generic.SeverityError
	}
	return Discrepancy{
		Kind:         kind,
		Message:      fmt.Sprintf("%s time differs by %d min", name, delta),
		Self:         self,
		Employer:     employer,
		Severity:     sev,
		DeltaMinutes: delta,
	}, true
}

// clockDelta is the distance between two clock times on a 24h dial, so that
// 23:58 and 00:02 are 4 minutes apart.
func clockDelta(a, b string) int {
	d := generic.TimeToMinutes(a) - generic.TimeToMinutes(b)
	if d < 0 {
		d = -d
	}
	return min(d, generic.MinutesPerDay-d)
}

// =============================================================================
// PAUSE MATCHING
// =============================================================================

// Interval is a pause reduced to its two clock times.
type Interval struct {
	Start string
	End   string
}

func (i Interval) String() string { return i.Start + "-" + i.End }

func (i Interval) timed() bool { return generic.IsClock(i.Start) && generic.IsClock(i.End) }

func (i Interval) within(o Interval, tol Tolerance) bool {
	return clockDelta(i.Start, o.Start) <= tol.Minutes && clockDelta(i.End, o.End) <= tol.Minutes
}

// MatchPauses returns the employer pauses with no self-reported counterpart
// (missing) and the self-reported pauses with no employer counterpart
// (extra). Two pauses match when both boundaries are within tolerance.
// Pauses lacking either time are ignored on both sides, so swapping the
// arguments swaps the two results.
func MatchPauses(self, employer []Interval, tol Tolerance) (missing, extra []Interval) {
	return unmatched(employer, self, tol), unmatched(self, employer, tol)
}

func unmatched(from, against []Interval, tol Tolerance) []Interval {
	var out []Interval
	for _, p := range from {
		if !p.timed() {
			continue
		}
		found := false
		for _, q := range against {
			if q.timed() && p.within(q, tol) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, p)
		}
	}
	return out
}

func dayLabel(date string) string {
	tp, err := generic.ParseDate(date)
	if err != nil {
		return date
	}
	return tp.Label()
}
