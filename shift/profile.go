package shift

import (
	"strings"

	"github.com/warp/shiftlock/generic"
)

// Level is the salary tier that selects the hourly rate.
type Level string

const (
	LevelN1 Level = "N1"
	LevelN2 Level = "N2"
	LevelN3 Level = "N3"
)

// ParseLevel accepts "N1".."N3" and the older "LEVEL_1".."LEVEL_3".
// Unknown values fall back to N1.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "N2", "LEVEL_2":
		return LevelN2
	case "N3", "LEVEL_3":
		return LevelN3
	default:
		return LevelN1
	}
}

func (l *Level) UnmarshalText(b []byte) error {
	*l = ParseLevel(string(b))
	return nil
}

// DefaultRootDate anchors the fortnight grid when the profile has none.
const DefaultRootDate = "2026-01-19"

type Profile struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Company    string `json:"company"`
	Level      Level  `json:"role"`
	RootDate   string `json:"rootDate"`
	WeeklyBase int    `json:"weeklyBase"`
	MoneyMode  bool   `json:"moneyModeEnabled"`
}

func DefaultProfile() Profile {
	return Profile{Level: LevelN3, RootDate: DefaultRootDate, WeeklyBase: 35}
}

// Root returns the first day of fortnight 0. A missing or malformed root
// date falls back to DefaultRootDate.
func (p Profile) Root() generic.TimePoint {
	if tp, err := generic.ParseDate(p.RootDate); err == nil {
		return tp
	}
	return generic.MustParseDate(DefaultRootDate)
}

// DisplayName is "First Last", or "" when both are empty.
func (p Profile) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// =============================================================================
// STATE - Everything a worker has entered
// =============================================================================

// State is the full persisted state. It is passed explicitly to every
// operation; nothing in the engine keeps a global copy.
type State struct {
	Profile Profile `json:"profile"`
	Shifts  Shifts  `json:"shifts"`
}

func NewState() State {
	return State{Profile: DefaultProfile(), Shifts: Shifts{}}
}

// Put stores rec under its date key.
func (s *State) Put(rec DayRecord) {
	if s.Shifts == nil {
		s.Shifts = Shifts{}
	}
	s.Shifts[rec.Date] = rec
}

// Day returns the record for date, or an EMPTY day when none exists.
func (s State) Day(date string) DayRecord {
	if rec, ok := s.Shifts[date]; ok {
		return rec
	}
	return EmptyDay(date)
}
