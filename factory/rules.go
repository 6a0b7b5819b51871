/*
Package factory provides JSON to Go rule-set conversion.

PURPOSE:
  Converts a JSON rules document into the shift.Rules, payroll.Rates,
  payroll.Calendar and reconcile.Tolerance the engine runs on. The agreement
  changes every year (rates, thresholds, the pay-period table); a new rules
  file is all a new year needs.

JSON SCHEMA:
  {
    "id": "agreement-2026",
    "name": "Accord 2026",
    "thresholds": {
      "overtime_25_hours": 70,
      "overtime_50_hours": 86,
      "max_amplitude_hours": 12,
      "daily_rest_hours": 11
    },
    "meal": {
      "dinner_cutoff": "21:30",
      "windows": [{"start": "11:00", "end": "14:30"}, {"start": "18:30", "end": "22:00"}],
      "on_site_break_minutes": 60,
      "reduced_overlap_minutes": 30,
      "special_overlap_minutes": 60
    },
    "night": {"start": "22:00", "end": "07:00", "min_overlap_minutes": 240},
    "breaks": {"alert_after_hours": 6, "meal_minutes": 30, "security_minutes": 20},
    "overtime_mode": "clipped",
    "rates": {
      "hourly": {"N1": 12.04, "N2": 12.16, "N3": 12.79},
      "full_meal": 15.54, "reduced_meal": 9.59, "special": 4.34,
      "monthly_base_hours": 151.67, "band1_multiplier": 1.25,
      "band2_multiplier": 1.5, "net_ratio": 0.78
    },
    "tolerance": {"minutes": 5, "error_minutes": 15},
    "pay_periods": [
      {"id": "2026-01", "label": "Janvier", "start": "2025-12-29", "end": "2026-01-25"}
    ]
  }

DEFAULTS:
  Every section is optional. Anything left out keeps the 2026 value, so a
  document only needs to list what changed.

USAGE:
  f := NewRulesFactory()
  rs, err := f.Parse(jsonString)
  summary := payroll.Summarize("2026-03", state, rs.Calendar, rs.Rates, rs.Rules)

SEE ALSO:
  - shift/rules.go: Rules and the 2026 constants
  - payroll/rates.go, payroll/calendar.go: Pricing and the pay-period table
*/
package factory

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/shopspring/decimal"

	"github.com/warp/shiftlock/generic"
	"github.com/warp/shiftlock/payroll"
	"github.com/warp/shiftlock/reconcile"
	"github.com/warp/shiftlock/shift"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RulesJSON is the JSON representation of a rule set.
type RulesJSON struct {
	ID           string          `json:"id,omitempty"`
	Name         string          `json:"name,omitempty"`
	Thresholds   *ThresholdsJSON `json:"thresholds,omitempty"`
	Meal         *MealJSON       `json:"meal,omitempty"`
	Night        *NightJSON      `json:"night,omitempty"`
	Breaks       *BreaksJSON     `json:"breaks,omitempty"`
	OvertimeMode string          `json:"overtime_mode,omitempty"` // clipped, fortnight_end
	Rates        *RatesJSON      `json:"rates,omitempty"`
	Tolerance    *ToleranceJSON  `json:"tolerance,omitempty"`
	PayPeriods   []PayPeriodJSON `json:"pay_periods,omitempty"`
}

type ThresholdsJSON struct {
	Overtime25Hours   *float64 `json:"overtime_25_hours,omitempty"`
	Overtime50Hours   *float64 `json:"overtime_50_hours,omitempty"`
	MaxAmplitudeHours *float64 `json:"max_amplitude_hours,omitempty"`
	DailyRestHours    *float64 `json:"daily_rest_hours,omitempty"`
}

type WindowJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type MealJSON struct {
	DinnerCutoff          string       `json:"dinner_cutoff,omitempty"`
	Windows               []WindowJSON `json:"windows,omitempty"`
	OnSiteBreakMinutes    *int         `json:"on_site_break_minutes,omitempty"`
	ReducedOverlapMinutes *int         `json:"reduced_overlap_minutes,omitempty"`
	SpecialOverlapMinutes *int         `json:"special_overlap_minutes,omitempty"`
}

type NightJSON struct {
	Start             string `json:"start,omitempty"`
	End               string `json:"end,omitempty"`
	MinOverlapMinutes *int   `json:"min_overlap_minutes,omitempty"`
}

type BreaksJSON struct {
	AlertAfterHours *float64 `json:"alert_after_hours,omitempty"`
	MealMinutes     *int     `json:"meal_minutes,omitempty"`
	SecurityMinutes *int     `json:"security_minutes,omitempty"`
}

// RatesJSON accepts numbers or strings for every amount.
type RatesJSON struct {
	Hourly           map[string]decimal.Decimal `json:"hourly,omitempty"`
	FullMeal         *decimal.Decimal           `json:"full_meal,omitempty"`
	ReducedMeal      *decimal.Decimal           `json:"reduced_meal,omitempty"`
	Special          *decimal.Decimal           `json:"special,omitempty"`
	MonthlyBaseHours *decimal.Decimal           `json:"monthly_base_hours,omitempty"`
	Band1Multiplier  *decimal.Decimal           `json:"band1_multiplier,omitempty"`
	Band2Multiplier  *decimal.Decimal           `json:"band2_multiplier,omitempty"`
	NetRatio         *decimal.Decimal           `json:"net_ratio,omitempty"`
}

type ToleranceJSON struct {
	Minutes      *int `json:"minutes,omitempty"`
	ErrorMinutes *int `json:"error_minutes,omitempty"`
}

type PayPeriodJSON struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// =============================================================================
// RULESET
// =============================================================================

// Ruleset is everything the engine needs besides the worker's own data.
type Ruleset struct {
	ID        string
	Name      string
	Rules     shift.Rules
	Rates     payroll.Rates
	Calendar  payroll.Calendar
	Tolerance reconcile.Tolerance
}

// DefaultRuleset is the 2026 agreement.
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		ID:        "agreement-2026",
		Name:      "Accord 2026",
		Rules:     shift.DefaultRules(),
		Rates:     payroll.DefaultRates(),
		Calendar:  payroll.DefaultCalendar(),
		Tolerance: reconcile.DefaultTolerance(),
	}
}

// =============================================================================
// RULES FACTORY
// =============================================================================

// RulesFactory converts JSON rule documents to Go structs.
type RulesFactory struct{}

func NewRulesFactory() *RulesFactory {
	return &RulesFactory{}
}

// Parse parses a JSON document into a Ruleset.
func (f *RulesFactory) Parse(jsonStr string) (*Ruleset, error) {
	var rj RulesJSON
	if err := json.Unmarshal([]byte(jsonStr), &rj); err != nil {
		return nil, fmt.Errorf("failed to parse rules JSON: %w: %v", generic.ErrInvalidRules, err)
	}
	return f.FromJSON(rj)
}

// ParseFile reads and parses a rules document.
func (f *RulesFactory) ParseFile(path string) (*Ruleset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	return f.Parse(string(b))
}

// FromJSON overlays rj onto the 2026 defaults and validates the result.
func (f *RulesFactory) FromJSON(rj RulesJSON) (*Ruleset, error) {
	rs := DefaultRuleset()
	if rj.ID != "" {
		rs.ID = rj.ID
	}
	if rj.Name != "" {
		rs.Name = rj.Name
	}

	if err := applyThresholds(&rs.Rules, rj.Thresholds); err != nil {
		return nil, err
	}
	if err := applyMeal(&rs.Rules, rj.Meal); err != nil {
		return nil, err
	}
	if err := applyNight(&rs.Rules, rj.Night); err != nil {
		return nil, err
	}
	applyBreaks(&rs.Rules, rj.Breaks)

	switch rj.OvertimeMode {
	case "":
	case string(shift.OvertimeClipped), string(shift.OvertimeAtFortnightEnd):
		rs.Rules.OvertimeMode = shift.OvertimeMode(rj.OvertimeMode)
	default:
		return nil, invalid("unknown overtime_mode %q", rj.OvertimeMode)
	}
	if err := rs.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("rules %s: %w", rs.ID, err)
	}

	applyRates(&rs.Rates, rj.Rates)
	if rj.Tolerance != nil {
		setInt(&rs.Tolerance.Minutes, rj.Tolerance.Minutes)
		setInt(&rs.Tolerance.ErrorMinutes, rj.Tolerance.ErrorMinutes)
	}
	if rs.Tolerance.Minutes < 0 || rs.Tolerance.ErrorMinutes < rs.Tolerance.Minutes {
		return nil, invalid("tolerance error_minutes must be at least minutes")
	}

	if len(rj.PayPeriods) > 0 {
		cal, err := parseCalendar(rj.PayPeriods)
		if err != nil {
			return nil, err
		}
		rs.Calendar = cal
	}
	return rs, nil
}

// ToJSON converts a Ruleset back to its document form.
func (f *RulesFactory) ToJSON(rs *Ruleset) RulesJSON {
	r := rs.Rules
	hours := func(minutes int) *float64 {
		v := float64(minutes) / generic.MinutesPerHour
		return &v
	}
	intp := func(v int) *int { return &v }
	decp := func(d decimal.Decimal) *decimal.Decimal { return &d }

	rj := RulesJSON{
		ID:   rs.ID,
		Name: rs.Name,
		Thresholds: &ThresholdsJSON{
			Overtime25Hours:   hours(r.Threshold25),
			Overtime50Hours:   hours(r.Threshold50),
			MaxAmplitudeHours: hours(r.MaxAmplitude),
			DailyRestHours:    hours(r.DailyRestMin),
		},
		Meal: &MealJSON{
			DinnerCutoff:          generic.FormatClock(r.DinnerCutoff),
			OnSiteBreakMinutes:    intp(r.OnSiteBreakMin),
			ReducedOverlapMinutes: intp(r.ReducedOverlapMin),
			SpecialOverlapMinutes: intp(r.SpecialOverlapMin),
		},
		Night: &NightJSON{
			Start:             generic.FormatClock(r.NightStart),
			End:               generic.FormatClock(r.NightEnd),
			MinOverlapMinutes: intp(r.NightMinOverlap),
		},
		Breaks: &BreaksJSON{
			AlertAfterHours: hours(r.BreakAlertAfter),
			MealMinutes:     intp(r.MealBreakMin),
			SecurityMinutes: intp(r.SecurityBreakMin),
		},
		OvertimeMode: string(r.OvertimeMode),
		Rates: &RatesJSON{
			Hourly:           map[string]decimal.Decimal{},
			FullMeal:         decp(rs.Rates.FullMeal),
			ReducedMeal:      decp(rs.Rates.ReducedMeal),
			Special:          decp(rs.Rates.Special),
			MonthlyBaseHours: decp(rs.Rates.MonthlyBaseHours),
			Band1Multiplier:  decp(rs.Rates.Band1Multiplier),
			Band2Multiplier:  decp(rs.Rates.Band2Multiplier),
			NetRatio:         decp(rs.Rates.NetRatio),
		},
		Tolerance: &ToleranceJSON{
			Minutes:      intp(rs.Tolerance.Minutes),
			ErrorMinutes: intp(rs.Tolerance.ErrorMinutes),
		},
	}
	for _, w := range r.MealWindows {
		rj.Meal.Windows = append(rj.Meal.Windows, WindowJSON{Start: generic.FormatClock(w.Start), End: generic.FormatClock(w.End)})
	}
	for level, v := range rs.Rates.Hourly {
		rj.Rates.Hourly[string(level)] = v
	}
	for _, p := range rs.Calendar.Periods() {
		rj.PayPeriods = append(rj.PayPeriods, PayPeriodJSON{
			ID:    p.ID,
			Label: p.Label,
			Start: p.Period.Start.Key(),
			End:   p.Period.End.Key(),
		})
	}
	return rj
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", generic.ErrInvalidRules, fmt.Sprintf(format, args...))
}

func hoursToMinutes(h float64) int {
	return int(math.Round(h * generic.MinutesPerHour))
}

func setHours(dst *int, h *float64) {
	if h != nil {
		*dst = hoursToMinutes(*h)
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setDecimal(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = *v
	}
}

func clock(field, s string) (int, error) {
	if !generic.IsClock(s) {
		return 0, invalid("%s: %q is not HH:MM", field, s)
	}
	return generic.TimeToMinutes(s), nil
}

func applyThresholds(r *shift.Rules, tj *ThresholdsJSON) error {
	if tj == nil {
		return nil
	}
	setHours(&r.Threshold25, tj.Overtime25Hours)
	setHours(&r.Threshold50, tj.Overtime50Hours)
	setHours(&r.MaxAmplitude, tj.MaxAmplitudeHours)
	setHours(&r.DailyRestMin, tj.DailyRestHours)
	if r.Threshold50 < r.Threshold25 {
		return invalid("overtime_50_hours must not be below overtime_25_hours")
	}
	return nil
}

func applyMeal(r *shift.Rules, mj *MealJSON) error {
	if mj == nil {
		return nil
	}
	if mj.DinnerCutoff != "" {
		v, err := clock("meal.dinner_cutoff", mj.DinnerCutoff)
		if err != nil {
			return err
		}
		r.DinnerCutoff = v
	}
	if len(mj.Windows) > 0 {
		windows := make([]shift.Window, 0, len(mj.Windows))
		for i, wj := range mj.Windows {
			start, err := clock(fmt.Sprintf("meal.windows[%d].start", i), wj.Start)
			if err != nil {
				return err
			}
			end, err := clock(fmt.Sprintf("meal.windows[%d].end", i), wj.End)
			if err != nil {
				return err
			}
			windows = append(windows, shift.Window{Start: start, End: end})
		}
		r.MealWindows = windows
	}
	setInt(&r.OnSiteBreakMin, mj.OnSiteBreakMinutes)
	setInt(&r.ReducedOverlapMin, mj.ReducedOverlapMinutes)
	setInt(&r.SpecialOverlapMin, mj.SpecialOverlapMinutes)
	return nil
}

func applyNight(r *shift.Rules, nj *NightJSON) error {
	if nj == nil {
		return nil
	}
	if nj.Start != "" {
		v, err := clock("night.start", nj.Start)
		if err != nil {
			return err
		}
		r.NightStart = v
	}
	if nj.End != "" {
		v, err := clock("night.end", nj.End)
		if err != nil {
			return err
		}
		r.NightEnd = v
	}
	setInt(&r.NightMinOverlap, nj.MinOverlapMinutes)
	return nil
}

func applyBreaks(r *shift.Rules, bj *BreaksJSON) {
	if bj == nil {
		return
	}
	setHours(&r.BreakAlertAfter, bj.AlertAfterHours)
	setInt(&r.MealBreakMin, bj.MealMinutes)
	setInt(&r.SecurityBreakMin, bj.SecurityMinutes)
}

func applyRates(r *payroll.Rates, rj *RatesJSON) {
	if rj == nil {
		return
	}
	for level, v := range rj.Hourly {
		r.Hourly[shift.ParseLevel(level)] = v
	}
	setDecimal(&r.FullMeal, rj.FullMeal)
	setDecimal(&r.ReducedMeal, rj.ReducedMeal)
	setDecimal(&r.Special, rj.Special)
	setDecimal(&r.MonthlyBaseHours, rj.MonthlyBaseHours)
	setDecimal(&r.Band1Multiplier, rj.Band1Multiplier)
	setDecimal(&r.Band2Multiplier, rj.Band2Multiplier)
	setDecimal(&r.NetRatio, rj.NetRatio)
}

func parseCalendar(pjs []PayPeriodJSON) (payroll.Calendar, error) {
	periods := make([]payroll.PayPeriod, 0, len(pjs))
	for _, pj := range pjs {
		start, err := generic.ParseDate(pj.Start)
		if err != nil {
			return payroll.Calendar{}, fmt.Errorf("pay period %s start: %w", pj.ID, err)
		}
		end, err := generic.ParseDate(pj.End)
		if err != nil {
			return payroll.Calendar{}, fmt.Errorf("pay period %s end: %w", pj.ID, err)
		}
		periods = append(periods, payroll.PayPeriod{ID: pj.ID, Label: pj.Label, Period: generic.Period{Start: start, End: end}})
	}
	return payroll.NewCalendar(periods)
}

// =============================================================================
// PRESET
// =============================================================================

// DefaultRulesJSON renders the 2026 agreement as a rules document, the usual
// starting point for next year's file.
func DefaultRulesJSON() string {
	f := NewRulesFactory()
	b, err := json.MarshalIndent(f.ToJSON(DefaultRuleset()), "", "  ")
	if err != nil {
		panic(err)
	}
	return string(b)
}
