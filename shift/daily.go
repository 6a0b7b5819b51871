/*
daily.go - Per-day worked time, allowance and amplitude alert

PURPOSE:
  Turns one DayRecord into a DayResult. Everything here is a pure function of
  the record and the Rules: results are recomputed on every read and never
  stored.

KEY CONCEPTS:
  - Amplitude: wall-clock span from start to end (midnight-safe)
  - TTE (temps de travail effectif): amplitude minus every pause, floored at 0
  - Shift frame: minute offsets relative to the start day's midnight, so an
    overnight shift 22:00-06:00 is [1320, 1800]

SEE ALSO:
  - allowance.go: The ordered allowance decision list
  - alerts.go: Break and daily-rest alerts computed by callers
  - fortnight.go: Sums DayResults over 14-day windows
*/
package shift

import (
	"fmt"

	"github.com/warp/shiftlock/generic"
)

// Alert is a rule violation attached to a day.
type Alert struct {
	Code     string           `json:"code"`
	Severity generic.Severity `json:"severity"`
	Message  string           `json:"message"`
}

const (
	AlertAmplitude     = "amplitude"
	AlertMealBreak     = "meal_break"
	AlertSecurityBreak = "security_break"
	AlertDailyRest     = "daily_rest"
)

// DayResult is the derived view of a DayRecord. Durations are minutes.
type DayResult struct {
	Date            string    `json:"date"`
	Amplitude       int       `json:"amplitude"`
	PauseMinutes    int       `json:"pause_minutes"`
	TTE             int       `json:"tte"`
	Allowance       Allowance `json:"allowance"`
	AllowanceReason string    `json:"allowance_reason,omitempty"`
	NightOverlap    int       `json:"night_overlap"`
	IsNightWork     bool      `json:"is_night_work"`
	IsSunday        bool      `json:"is_sunday"`
	IsHoliday       bool      `json:"is_holiday"`
	Alerts          []Alert   `json:"alerts"`
}

// span is a range in the shift frame.
type span struct {
	start, end int
}

func (s span) length() int { return s.end - s.start }

type placedPause struct {
	span
	location PauseLocation
}

// Calculate derives worked time, allowance and the amplitude alert for a day.
// Non-worked days and worked days without both times yield a zero result.
func Calculate(rec DayRecord, rules Rules) DayResult {
	res := DayResult{
		Date:      rec.Date,
		Allowance: AllowanceNone,
		IsHoliday: rec.Status == StatusHoliday,
		Alerts:    []Alert{},
	}
	if day, err := generic.ParseDate(rec.Date); err == nil {
		res.IsSunday = day.IsSunday()
	}

	if !rec.HasTimes() {
		return res
	}
	w := rec.Work

	start := generic.TimeToMinutes(w.Start)
	res.Amplitude = generic.SpanMinutes(start, generic.TimeToMinutes(w.End))
	shift := span{start: start, end: start + res.Amplitude}

	pauses := placePauses(w.Pauses, shift)
	for _, p := range pauses {
		res.PauseMinutes += p.length()
	}
	res.TTE = max(0, res.Amplitude-res.PauseMinutes)

	res.NightOverlap = nightOverlap(shift, rules)
	res.IsNightWork = res.NightOverlap >= rules.NightMinOverlap

	res.Allowance, res.AllowanceReason = decideAllowance(allowanceInput{
		shift:        shift,
		isNight:      w.IsNight,
		nightOverlap: res.NightOverlap,
		pauses:       pauses,
		rules:        rules,
	})

	if res.Amplitude > rules.MaxAmplitude {
		res.Alerts = append(res.Alerts, Alert{
			Code:     AlertAmplitude,
			Severity: generic.SeverityWarning,
			Message: fmt.Sprintf("amplitude %s exceeds %s",
				generic.MinutesToDuration(res.Amplitude), generic.MinutesToDuration(rules.MaxAmplitude)),
		})
	}
	return res
}

// placePauses converts timed pauses to the shift frame. On a shift that
// crosses midnight, a pause whose clock start is earlier than the shift start
// belongs to the next day. Each pause is itself midnight-safe.
func placePauses(pauses []Pause, shift span) []placedPause {
	crosses := shift.end > generic.MinutesPerDay
	out := make([]placedPause, 0, len(pauses))
	for _, p := range pauses {
		if !p.Timed() {
			continue
		}
		ps := generic.TimeToMinutes(p.Start)
		pe := generic.TimeToMinutes(p.End)
		length := generic.SpanMinutes(ps, pe)
		if crosses && ps < shift.start {
			ps += generic.MinutesPerDay
		}
		out = append(out, placedPause{span: span{start: ps, end: ps + length}, location: p.Location})
	}
	return out
}

// nightOverlap measures the shift against the night window of the previous
// evening and of the start day's evening.
func nightOverlap(shift span, rules Rules) int {
	nightLen := generic.SpanMinutes(rules.NightStart, rules.NightEnd)
	total := 0
	for _, from := range []int{rules.NightStart - generic.MinutesPerDay, rules.NightStart} {
		total += generic.Overlap(shift.start, shift.end, from, from+nightLen)
	}
	return total
}
