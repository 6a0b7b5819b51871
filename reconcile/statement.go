package reconcile

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Statement lines look like
//
//	20/01/2026 mar AR T3 07:15 11:25 12:25 18:00 10:45 100 09:45 11:25 - 12:25 / 09:55 - 10:15
//
// with start, the first rest bounds and end before the amplitude, the "100"
// rate column, the TTE, and finally the pauses.
var (
	statementDate  = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
	statementClock = regexp.MustCompile(`\d{1,2}:\d{2}`)
	statementTTE   = regexp.MustCompile(`100\s+(\d{1,2}:\d{2})`)
	statementPause = regexp.MustCompile(`(\d{1,2}:\d{2})\s*[-–]\s*(\d{1,2}:\d{2})`)

	statementRest   = regexp.MustCompile(`\sRH\s`)
	statementWorked = regexp.MustCompile(`\sAR\s`)
)

// headers and footers that can carry a date without being a day line.
var statementSkip = []string{
	"DECOMPTE", "Salarié", "Semaine", "Prévu", "Total", "AR :", "RH :",
	"Signatures", "Employeur", "permis", "atteste", "Edité",
}

// ParseStatement extracts employer days from the text of a statement, one
// day per line. Lines that are not day lines are ignored.
func ParseStatement(r io.Reader) ([]EmployerDay, error) {
	var days []EmployerDay
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if day, ok := parseStatementLine(sc.Text()); ok {
			days = append(days, day)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}
	return days, nil
}

func parseStatementLine(line string) (EmployerDay, bool) {
	for _, s := range statementSkip {
		if strings.Contains(line, s) {
			return EmployerDay{}, false
		}
	}
	m := statementDate.FindStringSubmatch(line)
	if m == nil {
		return EmployerDay{}, false
	}
	date := fmt.Sprintf("%s-%02d-%02d", m[3], atoi(m[2]), atoi(m[1]))
	padded := " " + line + " "

	if statementRest.MatchString(padded) {
		return EmployerDay{Date: date, Status: EmployerRest, Pauses: []EmployerPause{}}, true
	}
	if !statementWorked.MatchString(padded) {
		return EmployerDay{}, false
	}

	var times []string
	for _, t := range statementClock.FindAllString(line, -1) {
		times = append(times, padClock(t))
	}
	if len(times) < 2 {
		return EmployerDay{}, false
	}

	day := EmployerDay{Date: date, Status: EmployerWorked, Start: times[0], Pauses: []EmployerPause{}}
	switch {
	case len(times) >= 4:
		day.End = times[3]
	case len(times) == 3:
		day.End = times[2]
	default:
		day.End = times[1]
	}
	if tm := statementTTE.FindStringSubmatch(line); tm != nil {
		day.TTE = padClock(tm[1])
	}

	if _, tail, found := strings.Cut(line, " 100 "); found {
		for _, pm := range statementPause.FindAllStringSubmatch(tail, -1) {
			day.Pauses = append(day.Pauses, EmployerPause{Start: padClock(pm[1]), End: padClock(pm[2])})
		}
	}
	return day, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func padClock(t string) string {
	if len(t) == 4 {
		return "0" + t
	}
	return t
}
