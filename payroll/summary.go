package payroll

import (
	"github.com/warp/shiftlock/generic"
	"github.com/warp/shiftlock/shift"
)

// Summary is the worked time and estimated pay of one pay period.
//
// Found is false when the identifier is not in the calendar. HasData is false
// when no day is recorded inside the period. Either way every total is zero.
type Summary struct {
	Found      bool                    `json:"found"`
	HasData    bool                    `json:"has_data"`
	PayPeriod  PayPeriod               `json:"pay_period"`
	Level      shift.Level             `json:"level"`
	HourlyRate generic.Amount          `json:"hourly_rate"`
	Fortnights []shift.FortnightResult `json:"fortnights"`

	TotalTTE   int                   `json:"total_tte"`
	Band1      int                   `json:"band1"`
	Band2      int                   `json:"band2"`
	WorkedDays int                   `json:"worked_days"`
	Allowances shift.AllowanceCounts `json:"allowances"`

	AllowanceTotal generic.Amount `json:"allowance_total"`
	Base           generic.Amount `json:"base"`
	Band1Pay       generic.Amount `json:"band1_pay"`
	Band2Pay       generic.Amount `json:"band2_pay"`
	OvertimePay    generic.Amount `json:"overtime_pay"`
	Gross          generic.Amount `json:"gross"`
	Net            generic.Amount `json:"net"`
}

func zeroSummary() Summary {
	z := generic.ZeroEuros()
	return Summary{
		Fortnights:     []shift.FortnightResult{},
		HourlyRate:     z,
		AllowanceTotal: z,
		Base:           z,
		Band1Pay:       z,
		Band2Pay:       z,
		OvertimePay:    z,
		Gross:          z,
		Net:            z,
	}
}

// Summarize computes the summary of pay period id.
func Summarize(id string, st shift.State, cal Calendar, rates Rates, rules shift.Rules) Summary {
	s := zeroSummary()
	pp, ok := cal.Lookup(id)
	if !ok {
		return s
	}
	s.Found = true
	s.PayPeriod = pp
	s.Level = st.Profile.Level
	s.HourlyRate = rates.HourlyRate(s.Level)

	if !st.Shifts.InPeriod(pp.Period) {
		return s
	}
	s.HasData = true

	s.Fortnights = clipWindows(st.Shifts, pp.Period, st.Profile.Root(), rules)
	for _, fr := range s.Fortnights {
		s.TotalTTE += fr.TotalTTE
		s.Band1 += fr.Band1
		s.Band2 += fr.Band2
		s.WorkedDays += fr.WorkedDays
		s.Allowances = s.Allowances.Plus(fr.Allowances)
	}

	rate := s.HourlyRate
	s.Base = rate.Mul(rates.MonthlyBaseHours).Round(2)
	s.Band1Pay = rate.Mul(generic.MinutesToHours(s.Band1)).Mul(rates.Band1Multiplier).Round(2)
	s.Band2Pay = rate.Mul(generic.MinutesToHours(s.Band2)).Mul(rates.Band2Multiplier).Round(2)
	s.OvertimePay = s.Band1Pay.Add(s.Band2Pay)
	s.AllowanceTotal = rates.AllowanceTotal(s.Allowances).Round(2)
	s.Gross = s.Base.Add(s.OvertimePay).Add(s.AllowanceTotal)
	s.Net = s.Gross.Mul(rates.NetRatio).Round(2)
	return s
}

// SummarizeDate summarizes the pay period containing day.
func SummarizeDate(day generic.TimePoint, st shift.State, cal Calendar, rates Rates, rules shift.Rules) Summary {
	pp, ok := cal.ForDate(day)
	if !ok {
		return zeroSummary()
	}
	return Summarize(pp.ID, st, cal, rates, rules)
}

// clipWindows aggregates every fortnight window intersecting period on the
// days inside period. Days of a straddling window that fall outside period
// count toward the neighbouring pay period instead.
//
// With OvertimeAtFortnightEnd the worked time stays clipped but the overtime
// bands come from the whole window, booked only in the period holding the
// window's last day.
func clipWindows(shifts shift.Shifts, period generic.Period, root generic.TimePoint, rules shift.Rules) []shift.FortnightResult {
	var out []shift.FortnightResult
	for _, w := range shift.Windows(root, period) {
		fr, ok := shift.AggregateWindow(shifts, w, period, rules)
		if !ok {
			continue
		}
		if rules.OvertimeMode == shift.OvertimeAtFortnightEnd {
			fr.Band1, fr.Band2 = 0, 0
			if period.Contains(w.Period.End) {
				full := shift.Aggregate(shifts, w.Period, rules)
				fr.Band1, fr.Band2 = full.Band1, full.Band2
			}
		}
		out = append(out, fr)
	}
	return out
}
