package shift

import "github.com/warp/shiftlock/generic"

// =============================================================================
// AGREEMENT CONSTANTS - All durations in minutes
// =============================================================================

const (
	FortnightDays = 14

	DefaultThreshold25  = 70 * generic.MinutesPerHour // first overtime tier starts after 70h
	DefaultThreshold50  = 86 * generic.MinutesPerHour // second tier after 86h
	DefaultMaxAmplitude = 12 * generic.MinutesPerHour

	DefaultDinnerCutoff    = 21*generic.MinutesPerHour + 30
	DefaultNightStart      = 22 * generic.MinutesPerHour
	DefaultNightEnd        = 7 * generic.MinutesPerHour
	DefaultNightMinOverlap = 4 * generic.MinutesPerHour

	DefaultOnSiteBreakMin    = 60
	DefaultReducedOverlapMin = 30
	DefaultSpecialOverlapMin = 60
	DefaultBreakAlertAfter   = 6 * generic.MinutesPerHour
	DefaultMealBreakMin      = 30
	DefaultSecurityBreakMin  = 20
	DefaultDailyRestMin      = 11 * generic.MinutesPerHour
)

// Window is a clock range [Start, End) in minutes of the day.
type Window struct {
	Start int
	End   int
}

// DefaultMealWindows are the lunch and dinner windows.
func DefaultMealWindows() []Window {
	return []Window{
		{Start: 11 * generic.MinutesPerHour, End: 14*generic.MinutesPerHour + 30},
		{Start: 18*generic.MinutesPerHour + 30, End: 22 * generic.MinutesPerHour},
	}
}

// OvertimeMode selects how a fortnight that straddles a pay-period boundary
// is attributed.
type OvertimeMode string

const (
	// OvertimeClipped computes bands on the sub-range inside the pay period.
	OvertimeClipped OvertimeMode = "clipped"
	// OvertimeAtFortnightEnd computes bands on the whole window and books them
	// in the pay period containing the window's last day.
	OvertimeAtFortnightEnd OvertimeMode = "fortnight_end"
)

// Rules holds every tunable of the agreement. DefaultRules returns the
// values of the 2026 agreement; factory.Parse builds one from a rules file.
type Rules struct {
	Threshold25  int
	Threshold50  int
	MaxAmplitude int

	DinnerCutoff    int
	NightStart      int
	NightEnd        int
	NightMinOverlap int

	MealWindows       []Window
	OnSiteBreakMin    int
	ReducedOverlapMin int
	SpecialOverlapMin int

	BreakAlertAfter  int
	MealBreakMin     int
	SecurityBreakMin int
	DailyRestMin     int

	OvertimeMode OvertimeMode
}

func DefaultRules() Rules {
	return Rules{
		Threshold25:       DefaultThreshold25,
		Threshold50:       DefaultThreshold50,
		MaxAmplitude:      DefaultMaxAmplitude,
		DinnerCutoff:      DefaultDinnerCutoff,
		NightStart:        DefaultNightStart,
		NightEnd:          DefaultNightEnd,
		NightMinOverlap:   DefaultNightMinOverlap,
		MealWindows:       DefaultMealWindows(),
		OnSiteBreakMin:    DefaultOnSiteBreakMin,
		ReducedOverlapMin: DefaultReducedOverlapMin,
		SpecialOverlapMin: DefaultSpecialOverlapMin,
		BreakAlertAfter:   DefaultBreakAlertAfter,
		MealBreakMin:      DefaultMealBreakMin,
		SecurityBreakMin:  DefaultSecurityBreakMin,
		DailyRestMin:      DefaultDailyRestMin,
		OvertimeMode:      OvertimeClipped,
	}
}

// Validate rejects rule sets the calculators cannot work with.
func (r Rules) Validate() error {
	switch {
	case r.Threshold25 <= 0 || r.Threshold50 < r.Threshold25:
		return generic.ErrInvalidRules
	case r.MaxAmplitude <= 0 || r.DailyRestMin < 0:
		return generic.ErrInvalidRules
	case r.OvertimeMode != OvertimeClipped && r.OvertimeMode != OvertimeAtFortnightEnd:
		return generic.ErrInvalidRules
	}
	for _, w := range r.MealWindows {
		if w.End <= w.Start {
			return generic.ErrInvalidRules
		}
	}
	return nil
}

// OvertimeBands splits a fortnight total into the 25% and 50% tiers.
func (r Rules) OvertimeBands(total int) (band1, band2 int) {
	band1 = max(0, min(total, r.Threshold50)-r.Threshold25)
	band2 = max(0, total-r.Threshold50)
	return band1, band2
}
