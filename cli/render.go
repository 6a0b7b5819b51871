package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/warp/shiftlock/generic"
	"github.com/warp/shiftlock/shift"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	cellStyle  = lipgloss.NewStyle().Padding(0, 1)
	headStyle  = cellStyle.Bold(true)
)

func severityStyle(s generic.Severity) lipgloss.Style {
	if s == generic.SeverityError {
		return errStyle
	}
	return warnStyle
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headStyle
			}
			return cellStyle
		})
}

// keyValues prints aligned "label  value" lines.
func keyValues(w io.Writer, pairs [][2]string) {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p[0]))
	}
	for _, p := range pairs {
		fmt.Fprintf(w, "%s%s  %s\n", p[0], strings.Repeat(" ", width-lipgloss.Width(p[0])), p[1])
	}
}

func duration(minutes int) string {
	if minutes == 0 {
		return dimStyle.Render("-")
	}
	return generic.MinutesToDuration(minutes)
}

func alertsText(alerts []shift.Alert) string {
	parts := make([]string, 0, len(alerts))
	for _, a := range alerts {
		parts = append(parts, severityStyle(a.Severity).Render(a.Code))
	}
	return strings.Join(parts, " ")
}

func pausesText(rec shift.DayRecord) string {
	w, ok := rec.Worked()
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(w.Pauses))
	for _, p := range w.Pauses {
		parts = append(parts, fmt.Sprintf("%s-%s %s", p.Start, p.End, strings.ToLower(string(p.Location))))
	}
	return strings.Join(parts, ", ")
}

func renderDay(w io.Writer, rec shift.DayRecord, res shift.DayResult) {
	day, _ := generic.ParseDate(rec.Date)
	fmt.Fprintln(w, titleStyle.Render(day.ShortDayName()+" "+day.FrenchDate()))

	pairs := [][2]string{{"Statut", string(rec.Status)}}
	if wd, ok := rec.Worked(); ok {
		hours := wd.Start + " - " + wd.End
		if wd.IsNight {
			hours += " (nuit)"
		}
		pairs = append(pairs,
			[2]string{"Horaires", hours},
			[2]string{"Pauses", pausesText(rec)},
			[2]string{"Amplitude", duration(res.Amplitude)},
			[2]string{"TTE", duration(res.TTE)},
		)
		if a := res.Allowance.Short(); a != "" {
			pairs = append(pairs, [2]string{"Indemnité", a + dimStyle.Render(" ("+res.AllowanceReason+")")})
		}
	}
	if rec.Note != "" {
		pairs = append(pairs, [2]string{"Note", rec.Note})
	}
	keyValues(w, pairs)

	for _, a := range res.Alerts {
		fmt.Fprintln(w, severityStyle(a.Severity).Render("! "+a.Message))
	}
}

func renderFortnight(w io.Writer, st shift.State, fr shift.FortnightResult) {
	title := fmt.Sprintf("Quinzaine %d  %s - %s", fr.Window.Index, fr.Period.Start.Label(), fr.Period.End.Label())
	fmt.Fprintln(w, titleStyle.Render(title))

	t := newTable("Date", "Statut", "Horaires", "TTE", "Ind.", "Alertes")
	for _, dr := range fr.Days {
		rec := st.Day(dr.Date)
		day, _ := generic.ParseDate(dr.Date)

		hours := ""
		if wd, ok := rec.Worked(); ok && rec.HasTimes() {
			hours = wd.Start + "-" + wd.End
		}
		status := string(rec.Status)
		if rec.Status == shift.StatusEmpty {
			status = dimStyle.Render("-")
		}
		t.Row(day.Label(), status, hours, duration(dr.TTE), dr.Allowance.Short(), alertsText(dr.Alerts))
	}
	fmt.Fprintln(w, t.Render())

	keyValues(w, [][2]string{
		{"Total TTE", generic.MinutesToDuration(fr.TotalTTE)},
		{"Jours travaillés", fmt.Sprint(fr.WorkedDays)},
		{"Heures sup. 25%", duration(fr.Band1)},
		{"Heures sup. 50%", duration(fr.Band2)},
		{"IR / IRU / IS", fmt.Sprintf("%d / %d / %d", fr.Allowances.FullMeal, fr.Allowances.Reduced, fr.Allowances.Special)},
	})
}
