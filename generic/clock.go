package generic

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// CLOCK TIME - "HH:MM" strings and minute offsets
// =============================================================================
//
// Clock times travel through the system as "HH:MM" strings because that is how
// they are typed, imported and stored. All arithmetic happens on minute offsets
// from midnight. Malformed input never errors: it degrades to 0 minutes or to an
// empty string, and callers that need to tell "00:00" from "absent" use IsClock.

const (
	MinutesPerHour = 60
	MinutesPerDay  = 24 * MinutesPerHour
)

// TimeToMinutes converts "HH:MM" (or "H:MM") to minutes since midnight.
// Returns 0 for empty or malformed input.
func TimeToMinutes(s string) int {
	m, ok := parseClock(s)
	if !ok {
		return 0
	}
	return m
}

// IsClock reports whether s is a well-formed "HH:MM" clock time.
func IsClock(s string) bool {
	_, ok := parseClock(s)
	return ok
}

func parseClock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	hs, ms, found := strings.Cut(s, ":")
	if !found || len(hs) == 0 || len(hs) > 2 || len(ms) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*MinutesPerHour + m, true
}

// FormatClock renders a minute offset as "HH:MM", wrapping past midnight.
func FormatClock(minutes int) string {
	minutes %= MinutesPerDay
	if minutes < 0 {
		minutes += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/MinutesPerHour, minutes%MinutesPerHour)
}

// MinutesToDuration formats a duration as "7h30". Zero or negative is "0h00".
func MinutesToDuration(minutes int) string {
	if minutes <= 0 {
		return "0h00"
	}
	return fmt.Sprintf("%dh%02d", minutes/MinutesPerHour, minutes%MinutesPerHour)
}

// SpanMinutes returns the length of [start, end] in minutes. When end <= start
// the span crosses midnight and a full day is added to end.
func SpanMinutes(start, end int) int {
	if end <= start {
		end += MinutesPerDay
	}
	return end - start
}

// Overlap returns the length of the intersection of [a0, a1] and [b0, b1].
func Overlap(a0, a1, b0, b1 int) int {
	lo, hi := max(a0, b0), min(a1, b1)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// =============================================================================
// QUICK ENTRY - "730" -> "07:30"
// =============================================================================

// ParseQuickTime normalizes compact user input to "HH:MM".
//
//	"8"    -> "08:00"     "14"  -> "14:00"
//	"730"  -> "07:30"     "1545" -> "15:45"
//	"7:30" -> "07:30"     "7h30" -> "07:30"   "7h" -> "07:00"
//	"8.5"  -> "08:30"
//
// Anything else, including out-of-range hours or minutes, yields "".
func ParseQuickTime(input string) string {
	v := strings.ToLower(strings.TrimSpace(input))
	if v == "" {
		return ""
	}
	v = strings.Replace(v, "h", ":", 1)

	if strings.Contains(v, ":") {
		hs, ms, _ := strings.Cut(v, ":")
		if ms == "" {
			ms = "00"
		}
		if !allDigits(hs) || !allDigits(ms) || len(hs) > 2 || len(ms) > 2 {
			return ""
		}
		return clockOrEmpty(atoi(hs), atoi(ms))
	}

	if strings.Contains(v, ".") {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return ""
		}
		total := int(f*MinutesPerHour + 0.5)
		return clockOrEmpty(total/MinutesPerHour, total%MinutesPerHour)
	}

	if !allDigits(v) {
		return ""
	}
	switch len(v) {
	case 1, 2:
		return clockOrEmpty(atoi(v), 0)
	case 3:
		return clockOrEmpty(atoi(v[:1]), atoi(v[1:]))
	case 4:
		return clockOrEmpty(atoi(v[:2]), atoi(v[2:]))
	default:
		return ""
	}
}

func clockOrEmpty(h, m int) string {
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
