/*
Package export renders a pay period as a time sheet.

PURPOSE:
  Builds one row per calendar day of a pay period (recorded or not) with the
  daily TTE and allowance, and writes the result as semicolon-separated CSV
  or as an A4 PDF with TTE and allowance totals.

USAGE:
  sheet := export.BuildSheet(pp, state, rates, rules)
  err := export.WriteCSV(w, sheet)
  err = export.WritePDF(w, sheet)

SEE ALSO:
  - payroll/summary.go: The money side of the same period
  - api/handlers.go: GET /api/pay-periods/{id}/export
*/
package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/warp/shiftlock/generic"
	"github.com/warp/shiftlock/payroll"
	"github.com/warp/shiftlock/shift"
)

// Row is one calendar day of the sheet.
type Row struct {
	Date      generic.TimePoint
	Status    shift.Status
	Start     string
	End       string
	Pauses    string
	TTE       int
	Allowance shift.Allowance
	Amount    generic.Amount
	Note      string
	Empty     bool
}

// Weekend reports whether the row falls on a Saturday or Sunday.
func (r Row) Weekend() bool { return r.Date.IsWeekend() }

// AllowanceText is "IR 15.54€", "IRU 9.59€", "IS 4.34€" or "".
func (r Row) AllowanceText() string {
	if r.Allowance == shift.AllowanceNone || r.Allowance == "" {
		return ""
	}
	return r.Allowance.Short() + " " + r.Amount.Value.StringFixed(2) + "€"
}

// TTEText is the duration as "8h00", or "" on days with no worked time.
func (r Row) TTEText() string {
	if r.TTE == 0 {
		return ""
	}
	return generic.MinutesToDuration(r.TTE)
}

// Sheet is a rendered pay period.
type Sheet struct {
	PayPeriod payroll.PayPeriod
	Worker    string
	Rows      []Row

	TotalTTE     int
	FullMealPaid generic.Amount
	ReducedPaid  generic.Amount
	SpecialPaid  generic.Amount
	GeneratedAt  time.Time
}

// BuildSheet lays out every day of pp. Only worked days count toward the
// totals.
func BuildSheet(pp payroll.PayPeriod, st shift.State, rates payroll.Rates, rules shift.Rules) Sheet {
	sheet := Sheet{
		PayPeriod:    pp,
		Worker:       st.Profile.DisplayName(),
		FullMealPaid: generic.ZeroEuros(),
		ReducedPaid:  generic.ZeroEuros(),
		SpecialPaid:  generic.ZeroEuros(),
		GeneratedAt:  time.Now(),
	}

	for _, day := range pp.Period.Days() {
		rec, ok := st.Shifts.Get(day)
		if !ok || rec.Status == shift.StatusEmpty {
			sheet.Rows = append(sheet.Rows, Row{Date: day, Status: shift.StatusEmpty, Empty: true})
			continue
		}

		res := shift.Calculate(rec, rules)
		row := Row{
			Date:      day,
			Status:    rec.Status,
			TTE:       res.TTE,
			Allowance: res.Allowance,
			Amount:    rates.AllowanceAmount(res.Allowance),
			Note:      rec.Note,
		}
		if w, worked := rec.Worked(); worked {
			row.Start, row.End = w.Start, w.End
			row.Pauses = pauseList(w.Pauses)
		}
		sheet.Rows = append(sheet.Rows, row)

		sheet.TotalTTE += res.TTE
		switch res.Allowance {
		case shift.AllowanceFullMeal:
			sheet.FullMealPaid = sheet.FullMealPaid.Add(row.Amount)
		case shift.AllowanceReduced:
			sheet.ReducedPaid = sheet.ReducedPaid.Add(row.Amount)
		case shift.AllowanceSpecial:
			sheet.SpecialPaid = sheet.SpecialPaid.Add(row.Amount)
		}
	}
	return sheet
}

func pauseList(pauses []shift.Pause) string {
	parts := make([]string, 0, len(pauses))
	for _, p := range pauses {
		if p.Timed() {
			parts = append(parts, p.Start+"-"+p.End)
		}
	}
	return strings.Join(parts, " | ")
}

// FileName is the download name for the sheet, e.g.
// "ShiftLock_Fevrier_2026.pdf".
func FileName(s Sheet, ext string) string {
	label := s.PayPeriod.Label
	if label == "" {
		label = s.PayPeriod.ID
	}
	year := s.PayPeriod.Period.End.Year()
	return "ShiftLock_" + asciiFold(label) + "_" + strconv.Itoa(year) + "." + ext
}

var folds = strings.NewReplacer("é", "e", "è", "e", "ê", "e", "û", "u", "ô", "o", "à", "a", " ", "_")

func asciiFold(s string) string { return folds.Replace(s) }
