package shift

import (
	"fmt"
	"slices"

	"github.com/warp/shiftlock/generic"
)

// BreakAlerts checks the break minimums owed on a long day: once TTE exceeds
// BreakAlertAfter, the longest pause must cover the meal break and the
// remaining pauses together must cover the security break.
func BreakAlerts(rec DayRecord, res DayResult, rules Rules) []Alert {
	if !rec.HasTimes() || res.TTE <= rules.BreakAlertAfter {
		return nil
	}

	start := generic.TimeToMinutes(rec.Work.Start)
	pauses := placePauses(rec.Work.Pauses, span{start: start, end: start + res.Amplitude})
	lengths := make([]int, 0, len(pauses))
	for _, p := range pauses {
		lengths = append(lengths, p.length())
	}
	slices.Sort(lengths)

	longest, others := 0, 0
	if n := len(lengths); n > 0 {
		longest = lengths[n-1]
		for _, l := range lengths[:n-1] {
			others += l
		}
	}

	var alerts []Alert
	if longest < rules.MealBreakMin {
		alerts = append(alerts, Alert{
			Code:     AlertMealBreak,
			Severity: generic.SeverityWarning,
			Message:  fmt.Sprintf("meal break under %d min after %s of work", rules.MealBreakMin, generic.MinutesToDuration(rules.BreakAlertAfter)),
		})
	}
	if others < rules.SecurityBreakMin {
		alerts = append(alerts, Alert{
			Code:     AlertSecurityBreak,
			Severity: generic.SeverityWarning,
			Message:  fmt.Sprintf("security break under %d min", rules.SecurityBreakMin),
		})
	}
	return alerts
}

// RestAlert checks the daily rest between prev and the following day cur.
// It reports false when either day lacks times or the days are not
// consecutive.
func RestAlert(prev, cur DayRecord, rules Rules) (Alert, bool) {
	if !prev.HasTimes() || !cur.HasTimes() {
		return Alert{}, false
	}
	pd, err1 := generic.ParseDate(prev.Date)
	cd, err2 := generic.ParseDate(cur.Date)
	if err1 != nil || err2 != nil || !pd.AddDays(1).Equal(cd) {
		return Alert{}, false
	}

	prevStart := generic.TimeToMinutes(prev.Work.Start)
	prevEnd := prevStart + generic.SpanMinutes(prevStart, generic.TimeToMinutes(prev.Work.End))
	curStart := generic.MinutesPerDay + generic.TimeToMinutes(cur.Work.Start)

	rest := curStart - prevEnd
	if rest >= rules.DailyRestMin {
		return Alert{}, false
	}
	return Alert{
		Code:     AlertDailyRest,
		Severity: generic.SeverityError,
		Message: fmt.Sprintf("daily rest %s below %s",
			generic.MinutesToDuration(rest), generic.MinutesToDuration(rules.DailyRestMin)),
	}, true
}

// CalculateWithAlerts is Calculate plus the break alerts and the daily-rest
// alert against the previous day found in shifts.
func CalculateWithAlerts(shifts Shifts, rec DayRecord, rules Rules) DayResult {
	res := Calculate(rec, rules)
	res.Alerts = append(res.Alerts, BreakAlerts(rec, res, rules)...)

	day, err := generic.ParseDate(rec.Date)
	if err != nil {
		return res
	}
	if prev, ok := shifts.Get(day.AddDays(-1)); ok {
		prev.Date = day.AddDays(-1).Key()
		if alert, ok := RestAlert(prev, rec, rules); ok {
			res.Alerts = append(res.Alerts, alert)
		}
	}
	return res
}
