package reconcile_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shiftlock/generic"
	"github.com/warp/shiftlock/reconcile"
	"github.com/warp/shiftlock/shift"
)

func worked(date, start, end string) reconcile.EmployerDay {
	return reconcile.EmployerDay{Date: date, Status: reconcile.EmployerWorked, Start: start, End: end}
}

func TestMatch_StartWithinWarningBand(t *testing.T) {
	// GIVEN: a 7-minute late start (tolerance 5, error above 15)
	shifts := shift.Shifts{"2026-01-20": shift.NewWorkedDay("2026-01-20", "08:07", "16:00")}

	// WHEN
	res := reconcile.Match(shifts, []reconcile.EmployerDay{worked("2026-01-20", "08:00", "16:00")}, reconcile.DefaultTolerance())

	// THEN: one start discrepancy, warning
	require.Len(t, res.Days, 1)
	day := res.Days[0]
	assert.Equal(t, "Mar 20/01", day.Label)
	require.Len(t, day.Items, 1)
	assert.Equal(t, reconcile.KindStart, day.Items[0].Kind)
	assert.Equal(t, generic.SeverityWarning, day.Items[0].Severity)
	assert.Equal(t, 7, day.Items[0].DeltaMinutes)
	assert.Equal(t, 0, res.Concordant)
	assert.Equal(t, 1, res.Total)
}

func TestMatch_StartBeyondErrorThreshold(t *testing.T) {
	shifts := shift.Shifts{"2026-01-20": shift.NewWorkedDay("2026-01-20", "08:20", "16:00")}

	res := reconcile.Match(shifts, []reconcile.EmployerDay{worked("2026-01-20", "08:00", "16:00")}, reconcile.DefaultTolerance())

	require.Len(t, res.Days, 1)
	require.Len(t, res.Days[0].Items, 1)
	assert.Equal(t, generic.SeverityError, res.Days[0].Items[0].Severity)
	assert.Equal(t, generic.SeverityError, res.Days[0].Severity())
	assert.Equal(t, 1, res.Errors())
}

func TestMatch_ThresholdsAreExclusive(t *testing.T) {
	tol := reconcile.DefaultTolerance()
	shifts := shift.Shifts{
		"2026-01-20": shift.NewWorkedDay("2026-01-20", "08:05", "16:15"),
	}

	res := reconcile.Match(shifts, []reconcile.EmployerDay{worked("2026-01-20", "08:00", "16:00")}, tol)

	// 5 min equals the tolerance: no finding. 15 min equals the error
	// threshold: warning, not error.
	require.Len(t, res.Days, 1)
	require.Len(t, res.Days[0].Items, 1)
	assert.Equal(t, reconcile.KindEnd, res.Days[0].Items[0].Kind)
	assert.Equal(t, generic.SeverityWarning, res.Days[0].Items[0].Severity)
}

func TestMatch_MissingSelfDay(t *testing.T) {
	// GIVEN: the employer reports a worked day with pauses the worker never entered
	emp := worked("2026-01-22", "08:00", "16:00")
	emp.Pauses = []reconcile.EmployerPause{{Start: "12:00", End: "13:00"}}

	res := reconcile.Match(shift.Shifts{}, []reconcile.EmployerDay{emp}, reconcile.DefaultTolerance())

	// THEN: a single status error, no field checks
	require.Len(t, res.Days, 1)
	require.Len(t, res.Days[0].Items, 1)
	item := res.Days[0].Items[0]
	assert.Equal(t, reconcile.KindStatus, item.Kind)
	assert.Equal(t, generic.SeverityError, item.Severity)
	assert.Equal(t, "NOT_ENTERED", item.Self)
}

func TestMatch_StatusRules(t *testing.T) {
	shifts := shift.Shifts{
		"2026-01-19": shift.NewWorkedDay("2026-01-19", "08:00", "16:00"),
		"2026-01-20": shift.NewDay("2026-01-20", shift.StatusRest),
		"2026-01-21": shift.NewDay("2026-01-21", shift.StatusRest),
		"2026-01-22": shift.NewDay("2026-01-22", shift.StatusEmpty),
	}
	employer := []reconcile.EmployerDay{
		{Date: "2026-01-19", Status: reconcile.EmployerRest},
		{Date: "2026-01-20", Status: reconcile.EmployerRest},
		worked("2026-01-21", "08:00", "16:00"),
		worked("2026-01-22", "08:00", "16:00"),
		{Date: "2026-01-24", Status: reconcile.EmployerOther},
	}

	res := reconcile.Match(shifts, employer, reconcile.DefaultTolerance())

	assert.Equal(t, 4, res.Total, "OTHER days are not counted")
	assert.Equal(t, 1, res.Concordant)
	require.Len(t, res.Days, 3)
	for _, d := range res.Days {
		require.Len(t, d.Items, 1)
		assert.Equal(t, reconcile.KindStatus, d.Items[0].Kind)
	}
	assert.Equal(t, "REST", res.Days[1].Items[0].Self)
	assert.Equal(t, "EMPTY", res.Days[2].Items[0].Self)
}

func TestMatch_LeaveDayAgainstWorkedStatement(t *testing.T) {
	for _, status := range []shift.Status{shift.StatusSick, shift.StatusPaidLeave, shift.StatusTraining, shift.StatusHoliday} {
		t.Run(string(status), func(t *testing.T) {
			// GIVEN: a leave day the statement reports as worked
			shifts := shift.Shifts{"2026-01-20": shift.NewDay("2026-01-20", status)}

			// WHEN: the statement has no pauses
			res := reconcile.Match(shifts, []reconcile.EmployerDay{worked("2026-01-20", "08:00", "16:00")}, reconcile.DefaultTolerance())

			// THEN: no status error, the day has no times to compare
			assert.Equal(t, 1, res.Total)
			assert.Equal(t, 1, res.Concordant)
			assert.Empty(t, res.Days)

			// WHEN: the statement carries a pause
			emp := worked("2026-01-20", "08:00", "16:00")
			emp.Pauses = []reconcile.EmployerPause{{Start: "12:00", End: "12:30"}}
			res = reconcile.Match(shifts, []reconcile.EmployerDay{emp}, reconcile.DefaultTolerance())

			// THEN: only a missing-pause warning
			require.Len(t, res.Days, 1)
			require.Len(t, res.Days[0].Items, 1)
			assert.Equal(t, reconcile.KindMissingPause, res.Days[0].Items[0].Kind)
			assert.Equal(t, generic.SeverityWarning, res.Days[0].Items[0].Severity)
			assert.Equal(t, "12:00-12:30", res.Days[0].Items[0].Employer)
		})
	}
}

func TestMatch_Pauses(t *testing.T) {
	shifts := shift.Shifts{
		"2026-01-20": shift.NewWorkedDay("2026-01-20", "07:15", "18:00",
			shift.Pause{Start: "11:28", End: "12:23", Location: shift.PauseOnSite},
			shift.Pause{Start: "15:00", End: "15:15", Location: shift.PauseOnSite},
			shift.Pause{Start: "16:00", End: "", Location: shift.PauseOnSite},
		),
	}
	emp := worked("2026-01-20", "07:15", "18:00")
	emp.Pauses = []reconcile.EmployerPause{{Start: "11:25", End: "12:25"}, {Start: "09:55", End: "10:15"}}

	res := reconcile.Match(shifts, []reconcile.EmployerDay{emp}, reconcile.DefaultTolerance())

	require.Len(t, res.Days, 1)
	kinds := map[reconcile.Kind]int{}
	for _, it := range res.Days[0].Items {
		kinds[it.Kind]++
		assert.Equal(t, generic.SeverityWarning, it.Severity)
	}
	assert.Equal(t, map[reconcile.Kind]int{reconcile.KindMissingPause: 1, reconcile.KindExtraPause: 1}, kinds)
}

func TestMatchPauses_Symmetry(t *testing.T) {
	tol := reconcile.DefaultTolerance()
	a := []reconcile.Interval{iv("11:25", "12:25"), iv("09:55", "10:15"), iv("16:00", ""), iv("23:58", "00:20")}
	b := []reconcile.Interval{iv("11:30", "12:20"), iv("15:00", "15:10"), iv("00:02", "00:18"), iv("18:00", "18:30")}

	missing, extra := reconcile.MatchPauses(a, b, tol)
	swappedMissing, swappedExtra := reconcile.MatchPauses(b, a, tol)

	assert.Len(t, missing, len(swappedExtra))
	assert.Len(t, extra, len(swappedMissing))
	assert.Len(t, missing, 2)
	assert.Len(t, extra, 1)
}

func iv(start, end string) reconcile.Interval {
	return reconcile.Interval{Start: start, End: end}
}

func TestFilter(t *testing.T) {
	days := []reconcile.EmployerDay{
		worked("2026-01-25", "08:00", "16:00"),
		worked("2026-01-26", "08:00", "16:00"),
		worked("bad", "08:00", "16:00"),
	}
	p := generic.NewPeriodOfDays(generic.NewTimePoint(2026, time.January, 26), 28)

	got := reconcile.Filter(days, p)
	require.Len(t, got, 1)
	assert.Equal(t, "2026-01-26", got[0].Date)
}

func TestParseStatement(t *testing.T) {
	text := strings.Join([]string{
		"DECOMPTE MENSUEL 01/2026",
		"Semaine du 19/01/2026",
		"19/01/2026 lun RH",
		"20/01/2026 mar AR T3 7:15 11:25 12:25 18:00 10:45 100 09:45 11:25 - 12:25 / 09:55 - 10:15",
		"21/01/2026 mer AR T3 08:00 16:00",
		"22/01/2026 jeu AR T3 08:00",
		"Total AR : 2",
	}, "\n")

	days, err := reconcile.ParseStatement(strings.NewReader(text))
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.Equal(t, reconcile.EmployerRest, days[0].Status)
	assert.Equal(t, "2026-01-19", days[0].Date)

	d := days[1]
	assert.Equal(t, "2026-01-20", d.Date)
	assert.Equal(t, "07:15", d.Start)
	assert.Equal(t, "18:00", d.End)
	assert.Equal(t, "09:45", d.TTE)
	assert.Equal(t, []reconcile.EmployerPause{{Start: "11:25", End: "12:25"}, {Start: "09:55", End: "10:15"}}, d.Pauses)

	assert.Equal(t, "16:00", days[2].End)
}

func TestMatch_EndAcrossMidnight(t *testing.T) {
	// GIVEN: self ends at 00:02, the statement says 23:58
	shifts := shift.Shifts{"2026-01-20": shift.NewWorkedDay("2026-01-20", "16:00", "00:02")}
	emp := worked("2026-01-20", "16:00", "23:58")

	res := reconcile.Match(shifts, []reconcile.EmployerDay{emp}, reconcile.DefaultTolerance())

	// THEN: 4 minutes apart on the dial, within tolerance
	assert.Equal(t, 1, res.Concordant)
	assert.Empty(t, res.Days)

	// WHEN: the statement says 23:50 instead
	emp.End = "23:50"
	res = reconcile.Match(shifts, []reconcile.EmployerDay{emp}, reconcile.DefaultTolerance())

	// THEN: a 12-minute warning, not a 1432-minute error
	require.Len(t, res.Days, 1)
	assert.Equal(t, 12, res.Days[0].Items[0].DeltaMinutes)
	assert.Equal(t, generic.SeverityWarning, res.Days[0].Items[0].Severity)
}
