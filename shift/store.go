/*
store.go - Persistence interface for a worker's state

PURPOSE:
  Defines the boundary between the calculation core and storage. The core
  never reads or writes storage itself: callers load a State, compute, and
  save the records the worker edited.

KEY INTERFACES:
  Store: profile and day-record persistence

WRITE CONTRACT:
  - SaveDay(): upsert of one day, keyed by ISO date
  - ImportDays(): atomic multi-day upsert; either every record is written or
    none is, so a rejected import never leaves half a fortnight behind
  - Reset(): wipes profile and days (the "clear all data" action)

VALIDATION:
  Writes reject records failing DayRecord.Validate with an error wrapping
  generic.ErrInvalidDay.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - shift/store/memory.go: In-memory for tests and the CLI

SEE ALSO:
  - merge.go: Decides which imported records are safe to write
*/
package shift

import (
	"context"

	"github.com/warp/shiftlock/generic"
)

type Store interface {
	// LoadState returns the profile and every stored day. A store that has
	// never been written returns NewState().
	LoadState(ctx context.Context) (State, error)

	SaveProfile(ctx context.Context, p Profile) error

	// SaveDay upserts one record.
	SaveDay(ctx context.Context, rec DayRecord) error

	// ImportDays upserts several records atomically.
	ImportDays(ctx context.Context, recs []DayRecord) error

	// GetDay returns generic.ErrDayNotFound when nothing is stored for date.
	GetDay(ctx context.Context, date string) (DayRecord, error)

	// LoadRange returns the records whose date falls in [from, to].
	LoadRange(ctx context.Context, from, to generic.TimePoint) (Shifts, error)

	Reset(ctx context.Context) error
}

// ValidateAll checks every record, returning the first failure.
func ValidateAll(recs []DayRecord) error {
	for _, rec := range recs {
		if err := rec.Validate(); err != nil {
			return err
		}
	}
	return nil
}
