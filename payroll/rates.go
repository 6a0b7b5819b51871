package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/warp/shiftlock/generic"
	"github.com/warp/shiftlock/shift"
)

// Rates prices worked time and allowances. All amounts are euros.
type Rates struct {
	Hourly           map[shift.Level]decimal.Decimal
	FullMeal         decimal.Decimal
	ReducedMeal      decimal.Decimal
	Special          decimal.Decimal
	MonthlyBaseHours decimal.Decimal
	Band1Multiplier  decimal.Decimal
	Band2Multiplier  decimal.Decimal
	NetRatio         decimal.Decimal
}

// DefaultRates are the 2026 rates.
func DefaultRates() Rates {
	return Rates{
		Hourly: map[shift.Level]decimal.Decimal{
			shift.LevelN1: generic.MustParseDecimal("12.04"),
			shift.LevelN2: generic.MustParseDecimal("12.16"),
			shift.LevelN3: generic.MustParseDecimal("12.79"),
		},
		FullMeal:         generic.MustParseDecimal("15.54"),
		ReducedMeal:      generic.MustParseDecimal("9.59"),
		Special:          generic.MustParseDecimal("4.34"),
		MonthlyBaseHours: generic.MustParseDecimal("151.67"),
		Band1Multiplier:  generic.MustParseDecimal("1.25"),
		Band2Multiplier:  generic.MustParseDecimal("1.5"),
		NetRatio:         generic.MustParseDecimal("0.78"),
	}
}

// HourlyRate returns the rate for level, falling back to N1 for a level
// missing from the table.
func (r Rates) HourlyRate(level shift.Level) generic.Amount {
	if v, ok := r.Hourly[level]; ok {
		return generic.NewAmountFromDecimal(v, generic.UnitEuro)
	}
	return generic.NewAmountFromDecimal(r.Hourly[shift.LevelN1], generic.UnitEuro)
}

// AllowanceAmount is the flat amount paid for one day of allowance a.
func (r Rates) AllowanceAmount(a shift.Allowance) generic.Amount {
	switch a {
	case shift.AllowanceFullMeal:
		return generic.NewAmountFromDecimal(r.FullMeal, generic.UnitEuro)
	case shift.AllowanceReduced:
		return generic.NewAmountFromDecimal(r.ReducedMeal, generic.UnitEuro)
	case shift.AllowanceSpecial:
		return generic.NewAmountFromDecimal(r.Special, generic.UnitEuro)
	default:
		return generic.ZeroEuros()
	}
}

// AllowanceTotal prices a set of allowance counts.
func (r Rates) AllowanceTotal(c shift.AllowanceCounts) generic.Amount {
	return r.AllowanceAmount(shift.AllowanceFullMeal).MulInt(c.FullMeal).
		Add(r.AllowanceAmount(shift.AllowanceReduced).MulInt(c.Reduced)).
		Add(r.AllowanceAmount(shift.AllowanceSpecial).MulInt(c.Special))
}
