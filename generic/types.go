/*
Package generic provides the domain-agnostic building blocks of the engine.

PURPOSE:
  Everything in here is independent of the labor agreement being modelled:
  calendar days, inclusive day ranges, clock-time arithmetic and precise
  quantities. The shift, payroll and reconcile packages encode the rules; this
  package only gives them safe arithmetic to encode them with.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (e.g., 15.54 EUR, 151.67 hours)

DESIGN PRINCIPLES:
  1. Precision: Money uses decimal.Decimal to avoid floating-point drift
  2. Purity: No global state; every function takes all inputs as parameters
  3. Degrade, don't fail: malformed clock input yields zero values

USAGE:
  rate := generic.NewAmount(12.79, generic.UnitEuro)
  pay := rate.Mul(generic.MinutesToHours(450))

SEE ALSO:
  - clock.go: "HH:MM" parsing and midnight-safe spans
  - time.go: TimePoint calendar days
  - period.go: Inclusive day ranges and intersection
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal `json:"value"`
	Unit  Unit            `json:"unit"`
}

type Unit string

const (
	UnitEuro    Unit = "EUR"
	UnitHours   Unit = "hours"
	UnitMinutes Unit = "minutes"
)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromInt(value int, unit Unit) Amount {
	return Amount{Value: decimal.NewFromInt(int64(value)), Unit: unit}
}

func NewAmountFromDecimal(value decimal.Decimal, unit Unit) Amount {
	return Amount{Value: value, Unit: unit}
}

// Euros is shorthand for a currency amount.
func Euros(value float64) Amount { return NewAmount(value, UnitEuro) }

// ZeroEuros is the additive identity for currency sums.
func ZeroEuros() Amount { return Amount{Value: decimal.Zero, Unit: UnitEuro} }

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// MinutesToHours converts whole minutes to a decimal number of hours.
func MinutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(MinutesPerHour))
}

func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Unit: a.Unit} }
func (a Amount) MulInt(n int) Amount          { return a.Mul(decimal.NewFromInt(int64(n))) }
func (a Amount) Round(places int32) Amount    { return Amount{Value: a.Value.Round(places), Unit: a.Unit} }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) Equal(b Amount) bool          { return a.Unit == b.Unit && a.Value.Equal(b.Value) }

// String renders currency with two decimals ("15.54 EUR").
func (a Amount) String() string { return a.Value.StringFixed(2) + " " + string(a.Unit) }

// =============================================================================
// SEVERITY - Shared by day alerts and reconciliation discrepancies
// =============================================================================

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Worse returns the more severe of s and other.
func (s Severity) Worse(other Severity) Severity {
	if s == SeverityError || other == SeverityError {
		return SeverityError
	}
	if s == "" {
		return other
	}
	return s
}
