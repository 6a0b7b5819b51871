package shift

import "github.com/warp/shiftlock/generic"

// Allowance is the single meal/night allowance category earned by a day.
// A day earns exactly one category, so exclusivity holds by construction.
type Allowance string

const (
	AllowanceNone     Allowance = "NONE"
	AllowanceFullMeal Allowance = "FULL_MEAL" // IR
	AllowanceReduced  Allowance = "REDUCED"   // IR réduite
	AllowanceSpecial  Allowance = "SPECIAL"   // IS
)

// Short returns the payslip abbreviation used on exported sheets.
func (a Allowance) Short() string {
	switch a {
	case AllowanceFullMeal:
		return "IR"
	case AllowanceReduced:
		return "IRU"
	case AllowanceSpecial:
		return "IS"
	default:
		return ""
	}
}

// Reasons reported alongside the allowance, one per decision rule.
const (
	ReasonDinner         = "dinner"
	ReasonNight          = "night"
	ReasonOffSiteMeal    = "off_site_meal"
	ReasonNoOnSiteBreak  = "no_on_site_break"
	ReasonShortBreak     = "short_on_site_break"
	ReasonLowMealOverlap = "low_meal_overlap"
	ReasonPartialOverlap = "partial_meal_overlap"
	ReasonAdequateBreak  = "adequate_meal_break"
)

type allowanceInput struct {
	shift        span
	isNight      bool
	nightOverlap int
	pauses       []placedPause
	rules        Rules
}

// mealOverlap is the overlap of p with every meal window, on the start day
// and on the following day.
func (in allowanceInput) mealOverlap(p placedPause) int {
	total := 0
	for _, offset := range []int{0, generic.MinutesPerDay} {
		for _, w := range in.rules.MealWindows {
			total += generic.Overlap(p.start, p.end, w.Start+offset, w.End+offset)
		}
	}
	return total
}

func (in allowanceInput) onSite() []placedPause {
	var out []placedPause
	for _, p := range in.pauses {
		if p.location == PauseOnSite {
			out = append(out, p)
		}
	}
	return out
}

type allowanceRule struct {
	reason    string
	allowance Allowance
	applies   func(allowanceInput) bool
}

// allowanceRules is evaluated in order; the first rule that applies wins.
var allowanceRules = []allowanceRule{
	{
		// On duty at the dinner cutoff: started at or before it and ended at
		// or after it. A shift starting later, such as 22:00-06:00, falls
		// through to the night rule.
		reason:    ReasonDinner,
		allowance: AllowanceFullMeal,
		applies: func(in allowanceInput) bool {
			return in.shift.start <= in.rules.DinnerCutoff && in.shift.end >= in.rules.DinnerCutoff
		},
	},
	{
		reason:    ReasonNight,
		allowance: AllowanceReduced,
		applies: func(in allowanceInput) bool {
			return in.isNight && in.nightOverlap >= in.rules.NightMinOverlap
		},
	},
	{
		reason:    ReasonOffSiteMeal,
		allowance: AllowanceFullMeal,
		applies: func(in allowanceInput) bool {
			for _, p := range in.pauses {
				if p.location == PauseOffSite && in.mealOverlap(p) > 0 {
					return true
				}
			}
			return false
		},
	},
	{
		reason:    ReasonNoOnSiteBreak,
		allowance: AllowanceFullMeal,
		applies:   func(in allowanceInput) bool { return len(in.onSite()) == 0 },
	},
	{
		reason:    ReasonShortBreak,
		allowance: AllowanceReduced,
		applies: func(in allowanceInput) bool {
			total := 0
			for _, p := range in.onSite() {
				total += p.length()
			}
			return total < in.rules.OnSiteBreakMin
		},
	},
	{
		reason:    ReasonLowMealOverlap,
		allowance: AllowanceReduced,
		applies:   func(in allowanceInput) bool { return in.onSiteMealOverlap() < in.rules.ReducedOverlapMin },
	},
	{
		reason:    ReasonPartialOverlap,
		allowance: AllowanceSpecial,
		applies:   func(in allowanceInput) bool { return in.onSiteMealOverlap() < in.rules.SpecialOverlapMin },
	},
}

func (in allowanceInput) onSiteMealOverlap() int {
	total := 0
	for _, p := range in.onSite() {
		total += in.mealOverlap(p)
	}
	return total
}

func decideAllowance(in allowanceInput) (Allowance, string) {
	for _, rule := range allowanceRules {
		if rule.applies(in) {
			return rule.allowance, rule.reason
		}
	}
	return AllowanceNone, ReasonAdequateBreak
}

// AllowanceCounts tallies allowance categories over several days.
type AllowanceCounts struct {
	FullMeal int `json:"full_meal"`
	Reduced  int `json:"reduced"`
	Special  int `json:"special"`
}

func (c *AllowanceCounts) Add(a Allowance) {
	switch a {
	case AllowanceFullMeal:
		c.FullMeal++
	case AllowanceReduced:
		c.Reduced++
	case AllowanceSpecial:
		c.Special++
	}
}

func (c AllowanceCounts) Plus(o AllowanceCounts) AllowanceCounts {
	return AllowanceCounts{
		FullMeal: c.FullMeal + o.FullMeal,
		Reduced:  c.Reduced + o.Reduced,
		Special:  c.Special + o.Special,
	}
}
