/*
Package reconcile compares self-reported days with the employer's statement
(décompte) and lists the discrepancies worth contesting.

KEY CONCEPTS:
  - EmployerDay: one line of the employer statement (AR worked, RH rest)
  - Tolerance: clock noise absorbed before a difference counts
  - Discrepancy: one finding on one day, warning or error

BOUNDARY CONVENTION:
  A difference strictly greater than a threshold triggers; a difference equal
  to it does not. The same convention applies to start, end and pause
  boundaries.

SEE ALSO:
  - matcher.go: Match
  - statement.go: Parsing the text of an employer statement
*/
package reconcile

import (
	"strings"

	"github.com/warp/shiftlock/generic"
)

// EmployerStatus is the activity code printed on the statement.
type EmployerStatus string

const (
	EmployerWorked EmployerStatus = "WORKED" // AR, activité réelle
	EmployerRest   EmployerStatus = "REST"   // RH, repos hebdomadaire
	EmployerOther  EmployerStatus = "OTHER"
)

// ParseEmployerStatus accepts the statement codes and the enum names.
func ParseEmployerStatus(s string) EmployerStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AR", "WORKED":
		return EmployerWorked
	case "RH", "REST":
		return EmployerRest
	default:
		return EmployerOther
	}
}

func (s *EmployerStatus) UnmarshalText(b []byte) error {
	*s = ParseEmployerStatus(string(b))
	return nil
}

type EmployerPause struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type EmployerDay struct {
	Date   string          `json:"date"`
	Status EmployerStatus  `json:"status"`
	Start  string          `json:"start,omitempty"`
	End    string          `json:"end,omitempty"`
	Pauses []EmployerPause `json:"pauses"`
	TTE    string          `json:"tte,omitempty"`
}

// Kind names what a discrepancy is about.
type Kind string

const (
	KindStart        Kind = "start"
	KindEnd          Kind = "end"
	KindMissingPause Kind = "missing_pause" // on the statement, not self-reported
	KindExtraPause   Kind = "extra_pause"   // self-reported, not on the statement
	KindStatus       Kind = "status"
)

type Discrepancy struct {
	Kind         Kind             `json:"kind"`
	Message      string           `json:"message"`
	Self         string           `json:"self"`
	Employer     string           `json:"employer"`
	Severity     generic.Severity `json:"severity"`
	DeltaMinutes int              `json:"delta_minutes,omitempty"`
}

// DayDiscrepancies groups the findings of one date.
type DayDiscrepancies struct {
	Date  string        `json:"date"`
	Label string        `json:"label"`
	Items []Discrepancy `json:"items"`
}

// Severity is the worst severity among the items.
func (d DayDiscrepancies) Severity() generic.Severity {
	var s generic.Severity
	for _, it := range d.Items {
		s = s.Worse(it.Severity)
	}
	return s
}

type Result struct {
	Days       []DayDiscrepancies `json:"days"`
	Concordant int                `json:"concordant"`
	Total      int                `json:"total"`
}

// Errors counts error-severity items across all days.
func (r Result) Errors() int {
	n := 0
	for _, d := range r.Days {
		for _, it := range d.Items {
			if it.Severity == generic.SeverityError {
				n++
			}
		}
	}
	return n
}

// Tolerance holds the matching thresholds in minutes.
type Tolerance struct {
	// Minutes is the noise absorbed on every boundary comparison.
	Minutes int `json:"minutes"`
	// ErrorMinutes escalates a start/end difference from warning to error.
	ErrorMinutes int `json:"error_minutes"`
}

func DefaultTolerance() Tolerance {
	return Tolerance{Minutes: 5, ErrorMinutes: 15}
}

// Filter keeps the employer days whose date falls in p.
func Filter(days []EmployerDay, p generic.Period) []EmployerDay {
	var out []EmployerDay
	for _, d := range days {
		tp, err := generic.ParseDate(d.Date)
		if err == nil && p.Contains(tp) {
			out = append(out, d)
		}
	}
	return out
}
