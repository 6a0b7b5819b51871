package shift_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shiftlock/generic"
	"github.com/warp/shiftlock/shift"
)

func onSite(start, end string) shift.Pause {
	return shift.Pause{Start: start, End: end, Location: shift.PauseOnSite}
}

func offSite(start, end string) shift.Pause {
	return shift.Pause{Start: start, End: end, Location: shift.PauseOffSite}
}

func TestCalculate_TwelveHourDayWithoutPauses(t *testing.T) {
	rules := shift.DefaultRules()

	// GIVEN: 07:00-19:00, no pauses
	rec := shift.NewWorkedDay("2026-01-20", "07:00", "19:00")

	// WHEN: calculating
	res := shift.Calculate(rec, rules)

	// THEN: 12h amplitude and TTE; exactly 12h is not above the ceiling
	assert.Equal(t, 720, res.Amplitude)
	assert.Equal(t, 720, res.TTE)
	assert.Empty(t, res.Alerts)
	assert.Equal(t, shift.AllowanceFullMeal, res.Allowance)
	assert.Equal(t, shift.ReasonNoOnSiteBreak, res.AllowanceReason)

	// One more minute crosses the ceiling
	res = shift.Calculate(shift.NewWorkedDay("2026-01-20", "07:00", "19:01"), rules)
	require.Len(t, res.Alerts, 1)
	assert.Equal(t, shift.AlertAmplitude, res.Alerts[0].Code)
	assert.Equal(t, generic.SeverityWarning, res.Alerts[0].Severity)
}

func TestCalculate_NightShiftAcrossMidnight(t *testing.T) {
	rules := shift.DefaultRules()

	// GIVEN: 22:00-06:00 flagged as night, one on-site pause after midnight
	rec := shift.NewNightShift("2026-01-21", "22:00", "06:00", onSite("02:00", "02:30"))

	res := shift.Calculate(rec, rules)

	assert.Equal(t, 480, res.Amplitude)
	assert.Equal(t, 30, res.PauseMinutes)
	assert.Equal(t, 450, res.TTE)
	assert.Equal(t, 480, res.NightOverlap)
	assert.True(t, res.IsNightWork)
	assert.Equal(t, shift.AllowanceReduced, res.Allowance)
	assert.Equal(t, shift.ReasonNight, res.AllowanceReason)
}

func TestCalculate_NightRuleNeedsFlag(t *testing.T) {
	// GIVEN: the same overnight hours without the night flag
	rec := shift.NewWorkedDay("2026-01-21", "22:00", "06:00", onSite("02:00", "02:30"))

	res := shift.Calculate(rec, shift.DefaultRules())

	// THEN: falls through to the on-site break rules (30 min < 60)
	assert.Equal(t, shift.AllowanceReduced, res.Allowance)
	assert.Equal(t, shift.ReasonShortBreak, res.AllowanceReason)
}

func TestCalculate_AllowanceDecisionList(t *testing.T) {
	rules := shift.DefaultRules()

	tests := []struct {
		name   string
		rec    shift.DayRecord
		want   shift.Allowance
		reason string
	}{
		{
			name:   "worked through the dinner cutoff",
			rec:    shift.NewWorkedDay("2026-01-20", "14:00", "22:00", onSite("18:30", "19:30")),
			want:   shift.AllowanceFullMeal,
			reason: shift.ReasonDinner,
		},
		{
			name:   "ended exactly at the cutoff",
			rec:    shift.NewWorkedDay("2026-01-20", "13:30", "21:30", onSite("18:30", "19:30")),
			want:   shift.AllowanceFullMeal,
			reason: shift.ReasonDinner,
		},
		{
			name:   "started exactly at the cutoff",
			rec:    shift.NewWorkedDay("2026-01-20", "21:30", "23:30", onSite("12:00", "13:00")),
			want:   shift.AllowanceFullMeal,
			reason: shift.ReasonDinner,
		},
		{
			name:   "overnight shift through the cutoff",
			rec:    shift.NewWorkedDay("2026-01-20", "20:00", "02:00", onSite("23:00", "23:30")),
			want:   shift.AllowanceFullMeal,
			reason: shift.ReasonDinner,
		},
		{
			name:   "night shift starting after the cutoff",
			rec:    shift.NewNightShift("2026-01-20", "22:00", "06:00", onSite("02:00", "02:30")),
			want:   shift.AllowanceReduced,
			reason: shift.ReasonNight,
		},
		{
			name:   "evening shift starting after the cutoff",
			rec:    shift.NewWorkedDay("2026-01-20", "22:30", "23:30"),
			want:   shift.AllowanceFullMeal,
			reason: shift.ReasonNoOnSiteBreak,
		},
		{
			name:   "off-site lunch",
			rec:    shift.NewWorkedDay("2026-01-20", "08:00", "17:00", offSite("12:00", "13:00")),
			want:   shift.AllowanceFullMeal,
			reason: shift.ReasonOffSiteMeal,
		},
		{
			name:   "home break only",
			rec:    shift.NewWorkedDay("2026-01-20", "08:00", "17:00", shift.Pause{Start: "12:00", End: "13:00", Location: shift.PauseHome}),
			want:   shift.AllowanceFullMeal,
			reason: shift.ReasonNoOnSiteBreak,
		},
		{
			name:   "short on-site break",
			rec:    shift.NewWorkedDay("2026-01-20", "08:00", "17:00", onSite("12:00", "12:45")),
			want:   shift.AllowanceReduced,
			reason: shift.ReasonShortBreak,
		},
		{
			name:   "long break outside meal hours",
			rec:    shift.NewWorkedDay("2026-01-20", "06:00", "15:00", onSite("09:00", "10:00"), onSite("14:40", "14:50")),
			want:   shift.AllowanceReduced,
			reason: shift.ReasonLowMealOverlap,
		},
		{
			name:   "break half inside lunch window",
			rec:    shift.NewWorkedDay("2026-01-20", "06:00", "15:00", onSite("10:15", "11:45")),
			want:   shift.AllowanceSpecial,
			reason: shift.ReasonPartialOverlap,
		},
		{
			name:   "full hour on site at lunch",
			rec:    shift.NewWorkedDay("2026-01-20", "08:00", "17:00", onSite("12:00", "13:00")),
			want:   shift.AllowanceNone,
			reason: shift.ReasonAdequateBreak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := shift.Calculate(tt.rec, rules)
			assert.Equal(t, tt.want, res.Allowance)
			assert.Equal(t, tt.reason, res.AllowanceReason)
		})
	}
}

func TestCalculate_NonWorkedDaysAreZero(t *testing.T) {
	rules := shift.DefaultRules()

	for _, st := range []shift.Status{shift.StatusRest, shift.StatusPaidLeave, shift.StatusSick, shift.StatusEmpty} {
		res := shift.Calculate(shift.NewDay("2026-01-20", st), rules)
		assert.Zero(t, res.TTE, st)
		assert.Equal(t, shift.AllowanceNone, res.Allowance, st)
		assert.Empty(t, res.Alerts, st)
	}

	// Worked but incomplete
	res := shift.Calculate(shift.NewWorkedDay("2026-01-20", "08:00", ""), rules)
	assert.Zero(t, res.Amplitude)
	assert.Equal(t, shift.AllowanceNone, res.Allowance)

	// Holiday and Sunday flags survive a zero result
	res = shift.Calculate(shift.NewDay("2026-01-25", shift.StatusHoliday), rules)
	assert.True(t, res.IsHoliday)
	assert.True(t, res.IsSunday)
}

func TestCalculate_TTENeverNegative(t *testing.T) {
	// GIVEN: pauses that add up to more than the amplitude
	rec := shift.NewWorkedDay("2026-01-20", "08:00", "10:00",
		onSite("08:00", "09:30"), onSite("08:30", "10:00"), onSite("09:00", "09:00"))

	res := shift.Calculate(rec, shift.DefaultRules())

	assert.Equal(t, 120, res.Amplitude)
	assert.Zero(t, res.TTE)
}

func TestCalculate_PauseAcrossMidnight(t *testing.T) {
	rec := shift.NewWorkedDay("2026-01-20", "20:00", "04:00", onSite("23:45", "00:15"))

	res := shift.Calculate(rec, shift.DefaultRules())

	assert.Equal(t, 480, res.Amplitude)
	assert.Equal(t, 30, res.PauseMinutes)
	assert.Equal(t, 450, res.TTE)
}

func TestCalculate_AllowanceExclusivity(t *testing.T) {
	rules := shift.DefaultRules()
	starts := []string{"00:00", "05:30", "08:00", "11:00", "14:00", "18:00", "21:00", "22:00", "23:30"}
	ends := []string{"02:00", "06:00", "13:00", "17:00", "21:29", "21:30", "23:00"}
	pauses := [][]shift.Pause{
		nil,
		{onSite("12:00", "13:00")},
		{offSite("19:00", "19:30")},
		{onSite("01:00", "02:00"), offSite("03:00", "03:30")},
	}

	for _, s := range starts {
		for _, e := range ends {
			for _, p := range pauses {
				for _, night := range []bool{false, true} {
					rec := shift.NewWorkedDay("2026-01-20", s, e, p...)
					rec.Work.IsNight = night
					res := shift.Calculate(rec, rules)

					var counts shift.AllowanceCounts
					counts.Add(res.Allowance)
					assert.LessOrEqual(t, counts.FullMeal+counts.Reduced+counts.Special, 1)
					assert.NotEmpty(t, res.AllowanceReason, "%s-%s", s, e)
				}
			}
		}
	}
}

func TestBreakAlerts(t *testing.T) {
	rules := shift.DefaultRules()

	// GIVEN: 9h on site with a single 25-minute break
	rec := shift.NewWorkedDay("2026-01-20", "08:00", "17:00", onSite("12:00", "12:25"))
	res := shift.Calculate(rec, rules)

	alerts := shift.BreakAlerts(rec, res, rules)
	require.Len(t, alerts, 2)
	assert.Equal(t, shift.AlertMealBreak, alerts[0].Code)
	assert.Equal(t, shift.AlertSecurityBreak, alerts[1].Code)

	// GIVEN: a 45-minute meal and a 20-minute security break
	rec = shift.NewWorkedDay("2026-01-20", "08:00", "17:00", onSite("12:00", "12:45"), onSite("15:00", "15:20"))
	res = shift.Calculate(rec, rules)
	assert.Empty(t, shift.BreakAlerts(rec, res, rules))

	// GIVEN: a short day, no break owed
	rec = shift.NewWorkedDay("2026-01-20", "08:00", "13:00")
	res = shift.Calculate(rec, rules)
	assert.Empty(t, shift.BreakAlerts(rec, res, rules))
}

func TestRestAlert(t *testing.T) {
	rules := shift.DefaultRules()

	late := shift.NewWorkedDay("2026-01-20", "14:00", "23:00")
	early := shift.NewWorkedDay("2026-01-21", "07:00", "15:00")

	alert, ok := shift.RestAlert(late, early, rules)
	require.True(t, ok)
	assert.Equal(t, shift.AlertDailyRest, alert.Code)
	assert.Equal(t, generic.SeverityError, alert.Severity)

	// 23:00 -> 10:00 is exactly 11h
	_, ok = shift.RestAlert(late, shift.NewWorkedDay("2026-01-21", "10:00", "18:00"), rules)
	assert.False(t, ok)

	// Overnight shift ending the next morning
	night := shift.NewWorkedDay("2026-01-20", "22:00", "06:00")
	_, ok = shift.RestAlert(night, shift.NewWorkedDay("2026-01-21", "14:00", "20:00"), rules)
	assert.True(t, ok, "06:00 -> 14:00 leaves 8h")

	// Not consecutive
	_, ok = shift.RestAlert(late, shift.NewWorkedDay("2026-01-23", "07:00", "15:00"), rules)
	assert.False(t, ok)
}
