/*
errors.go - Centralized error types for the engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The calculation core never returns errors (bad input degrades to zero
  values); these errors belong to the outer layers: parsing of day keys and
  rule files, storage, and the HTTP API.

ERROR CATEGORIES:
  1. Input errors - Malformed dates, day records, rule files
  2. Lookup errors - Unknown days or pay periods
  3. Store errors - Database-level failures

USAGE:
    if errors.Is(err, generic.ErrInvalidDate) {
        // 400 Bad Request
    }

SEE ALSO:
  - shift/store.go: Store contract using these errors
  - factory/rules.go: Wraps ErrInvalidRules
  - api/handlers.go: Maps errors to HTTP statuses
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned when a day key is not an ISO "YYYY-MM-DD" date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidDay is returned when a day record is structurally unusable,
	// e.g. its key does not match its date.
	ErrInvalidDay = errors.New("invalid day record")

	// ErrInvalidRules is returned when a rules document cannot be parsed.
	ErrInvalidRules = errors.New("invalid rules")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrDayNotFound is returned when a day has never been recorded.
	ErrDayNotFound = errors.New("day not found")

	// ErrUnknownPayPeriod is returned by lookups that must not silently
	// degrade (the summarizer itself returns a zero summary instead).
	ErrUnknownPayPeriod = errors.New("unknown pay period")

	// ErrStoreClosed is returned when a store is used after Close.
	ErrStoreClosed = errors.New("store closed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidDayError provides details about a rejected day record.
type InvalidDayError struct {
	Date   string
	Reason string
}

func (e *InvalidDayError) Error() string {
	return fmt.Sprintf("invalid day %s: %s", e.Date, e.Reason)
}

func (e *InvalidDayError) Unwrap() error {
	return ErrInvalidDay
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidDay) ||
		errors.Is(err, ErrInvalidRules) ||
		errors.Is(err, ErrInvalidPeriod)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDayNotFound) ||
		errors.Is(err, ErrUnknownPayPeriod)
}
