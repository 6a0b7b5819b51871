// Package shift implements the day-level and fortnight-level rules of the
// fortnight (quatorzaine) working-time agreement: worked time, meal/night
// allowances, alerts and two-tier overtime.
package shift

import (
	"encoding/json"
	"strings"

	"github.com/warp/shiftlock/generic"
)

// =============================================================================
// DAY STATUS
// =============================================================================

type Status string

const (
	StatusWorked    Status = "WORKED"
	StatusRest      Status = "REST"
	StatusPaidLeave Status = "PAID_LEAVE"
	StatusSick      Status = "SICK"
	StatusTraining  Status = "TRAINING"
	StatusHoliday   Status = "HOLIDAY"
	StatusEmpty     Status = "EMPTY"
)

// legacyStatuses maps the status spellings found in older stored blobs and
// imports onto the current enum.
var legacyStatuses = map[string]Status{
	"TRAVAIL":   StatusWorked,
	"AR":        StatusWorked,
	"REPOS":     StatusRest,
	"RH":        StatusRest,
	"CP":        StatusPaidLeave,
	"MALADIE":   StatusSick,
	"FORMATION": StatusTraining,
	"FERIE":     StatusHoliday,
	"FÉRIÉ":     StatusHoliday,
	"VIDE":      StatusEmpty,
}

// ParseStatus normalizes current and legacy spellings. Unknown values are EMPTY.
func ParseStatus(s string) Status {
	v := strings.ToUpper(strings.TrimSpace(s))
	switch st := Status(v); st {
	case StatusWorked, StatusRest, StatusPaidLeave, StatusSick, StatusTraining, StatusHoliday, StatusEmpty:
		return st
	}
	if st, ok := legacyStatuses[v]; ok {
		return st
	}
	return StatusEmpty
}

func (s *Status) UnmarshalText(b []byte) error {
	*s = ParseStatus(string(b))
	return nil
}

// =============================================================================
// PAUSES
// =============================================================================

// PauseLocation says where a break was taken; it drives the meal allowance.
type PauseLocation string

const (
	PauseOnSite  PauseLocation = "ON_SITE"
	PauseOffSite PauseLocation = "OFF_SITE"
	PauseHome    PauseLocation = "HOME"
)

// ParsePauseLocation normalizes current and legacy spellings. Unknown values
// are treated as OFF_SITE.
func ParsePauseLocation(s string) PauseLocation {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ON_SITE", "ENTREPRISE":
		return PauseOnSite
	case "HOME", "DOMICILE":
		return PauseHome
	default:
		return PauseOffSite
	}
}

func (l *PauseLocation) UnmarshalText(b []byte) error {
	*l = ParsePauseLocation(string(b))
	return nil
}

type Pause struct {
	ID       string        `json:"id,omitempty"`
	Start    string        `json:"start"`
	End      string        `json:"end"`
	Location PauseLocation `json:"type"`
}

// Timed reports whether both bounds are well-formed clock times.
func (p Pause) Timed() bool { return generic.IsClock(p.Start) && generic.IsClock(p.End) }

// =============================================================================
// DAY RECORD - Tagged by Status; only worked days carry times
// =============================================================================

// WorkDetail is the payload of a worked day.
type WorkDetail struct {
	Start   string
	End     string
	Pauses  []Pause
	IsNight bool
}

// DayRecord is one calendar day as reported by the worker.
//
// Work is non-nil only when Status is StatusWorked. Constructors and JSON
// decoding enforce this, so callers never need to ask "is start defined" of a
// rest day.
type DayRecord struct {
	Date   string
	Status Status
	Work   *WorkDetail
	Note   string
}

// NewWorkedDay builds a worked day.
func NewWorkedDay(date, start, end string, pauses ...Pause) DayRecord {
	return DayRecord{
		Date:   date,
		Status: StatusWorked,
		Work:   &WorkDetail{Start: start, End: end, Pauses: pauses},
	}
}

// NewNightShift builds a worked day flagged as a night shift.
func NewNightShift(date, start, end string, pauses ...Pause) DayRecord {
	rec := NewWorkedDay(date, start, end, pauses...)
	rec.Work.IsNight = true
	return rec
}

// NewDay builds a non-worked day. A WORKED status yields a worked day with
// empty times.
func NewDay(date string, status Status) DayRecord {
	if status == StatusWorked {
		return DayRecord{Date: date, Status: status, Work: &WorkDetail{}}
	}
	return DayRecord{Date: date, Status: status}
}

// EmptyDay is the record created when a date is first displayed.
func EmptyDay(date string) DayRecord { return NewDay(date, StatusEmpty) }

// Worked returns the work payload when the day is a worked day.
func (r DayRecord) Worked() (*WorkDetail, bool) {
	if r.Status != StatusWorked || r.Work == nil {
		return nil, false
	}
	return r.Work, true
}

// HasTimes reports whether the day is worked with both bounds filled in.
func (r DayRecord) HasTimes() bool {
	w, ok := r.Worked()
	return ok && generic.IsClock(w.Start) && generic.IsClock(w.End)
}

// Validate checks the structural invariants that storage relies on.
func (r DayRecord) Validate() error {
	if _, err := generic.ParseDate(r.Date); err != nil {
		return &generic.InvalidDayError{Date: r.Date, Reason: "date must be YYYY-MM-DD"}
	}
	if r.Status != StatusWorked && r.Work != nil {
		return &generic.InvalidDayError{Date: r.Date, Reason: "only worked days carry times"}
	}
	return nil
}

// Clone returns a deep copy.
func (r DayRecord) Clone() DayRecord {
	out := r
	if r.Work != nil {
		w := *r.Work
		w.Pauses = append([]Pause(nil), r.Work.Pauses...)
		out.Work = &w
	}
	return out
}

// dayRecordJSON is the flat wire shape used by stored blobs and importers.
type dayRecordJSON struct {
	Date    string  `json:"date"`
	Status  string  `json:"status"`
	Start   string  `json:"start,omitempty"`
	End     string  `json:"end,omitempty"`
	Pauses  []Pause `json:"pauses"`
	IsNight bool    `json:"isNight"`
	Note    string  `json:"note,omitempty"`
}

func (r DayRecord) MarshalJSON() ([]byte, error) {
	out := dayRecordJSON{Date: r.Date, Status: string(r.Status), Note: r.Note, Pauses: []Pause{}}
	if w, ok := r.Worked(); ok {
		out.Start, out.End, out.IsNight = w.Start, w.End, w.IsNight
		if w.Pauses != nil {
			out.Pauses = w.Pauses
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts partially populated records. A record without a status
// but with times is taken as worked; payloads on non-worked days are dropped.
func (r *DayRecord) UnmarshalJSON(b []byte) error {
	var in dayRecordJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	status := ParseStatus(in.Status)
	if strings.TrimSpace(in.Status) == "" && (in.Start != "" || in.End != "") {
		status = StatusWorked
	}

	*r = DayRecord{Date: in.Date, Status: status, Note: in.Note}
	if status == StatusWorked {
		r.Work = &WorkDetail{Start: in.Start, End: in.End, Pauses: in.Pauses, IsNight: in.IsNight}
	}
	return nil
}

// =============================================================================
// SHIFTS - Day records keyed by ISO date
// =============================================================================

type Shifts map[string]DayRecord

// Get returns the record for a day.
func (s Shifts) Get(day generic.TimePoint) (DayRecord, bool) {
	rec, ok := s[day.Key()]
	return rec, ok
}

// Clone returns a deep copy of the map.
func (s Shifts) Clone() Shifts {
	out := make(Shifts, len(s))
	for k, v := range s {
		out[k] = v.Clone()
	}
	return out
}

// InPeriod reports whether any record falls within p.
func (s Shifts) InPeriod(p generic.Period) bool {
	for _, day := range p.Days() {
		if _, ok := s.Get(day); ok {
			return true
		}
	}
	return false
}
