/*
Package sqlite provides a SQLite-backed implementation of shift.Store.

PURPOSE:
  Persists the worker's profile and day records, plus the employer days and
  reconciliation runs the API keeps for history. The calculation core never
  touches this package; it only sees the State loaded from here.

INTERFACES IMPLEMENTED:
  shift.Store: Profile and day-record persistence

KEY TABLES:
  profile:             Single row (id = 1) with the worker's profile
  shifts:              One row per ISO date; pauses stored as JSON
  employer_days:       Last imported employer statement, one row per date
  reconciliation_runs: Results of past reconciliations (JSON blob)
  rulesets:            Active rules document, versioned on every save

UPSERTS:
  Day records are keyed by date and written with ON CONFLICT(date) DO UPDATE,
  so saving a day twice keeps the last version. ImportDays runs every upsert
  inside one SQL transaction.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/shiftlock.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  st, err := store.LoadState(ctx)

MIGRATION:
  Schema is auto-migrated on New() with CREATE TABLE IF NOT EXISTS.

SEE ALSO:
  - shift/store.go: Interface definition
  - shift/store/memory.go: In-memory implementation for tests and the CLI
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/shiftlock/generic"
	"github.com/warp/shiftlock/reconcile"
	"github.com/warp/shiftlock/shift"
)

// Store implements shift.Store using SQLite.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database lives in a single connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profile (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		company TEXT NOT NULL DEFAULT '',
		level TEXT NOT NULL DEFAULT 'N3',
		root_date TEXT NOT NULL DEFAULT '',
		weekly_base INTEGER NOT NULL DEFAULT 35,
		money_mode BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at TEXT NOT NULL
	);

	-- Day records (one per date)
	CREATE TABLE IF NOT EXISTS shifts (
		date TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		is_night BOOLEAN NOT NULL DEFAULT FALSE,
		pauses_json TEXT NOT NULL DEFAULT '[]',
		note TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_status
		ON shifts(status);

	-- Employer statement days
	CREATE TABLE IF NOT EXISTS employer_days (
		date TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		tte TEXT NOT NULL DEFAULT '',
		pauses_json TEXT NOT NULL DEFAULT '[]',
		imported_at TEXT NOT NULL
	);

	-- Reconciliation history
	CREATE TABLE IF NOT EXISTS reconciliation_runs (
		id TEXT PRIMARY KEY,
		pay_period TEXT NOT NULL DEFAULT '',
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		concordant INTEGER NOT NULL,
		total INTEGER NOT NULL,
		errors INTEGER NOT NULL,
		result_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reconciliation_runs_period
		ON reconciliation_runs(pay_period);

	-- Rules documents (factory JSON)
	CREATE TABLE IF NOT EXISTS rulesets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		config_json TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// STATE STORE (shift.Store interface)
// =============================================================================

var _ shift.Store = (*Store)(nil)

// LoadState returns the profile and every stored day.
func (s *Store) LoadState(ctx context.Context) (shift.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return shift.State{}, generic.ErrStoreClosed
	}

	st := shift.NewState()
	p, ok, err := s.loadProfile(ctx)
	if err != nil {
		return shift.State{}, err
	}
	if ok {
		st.Profile = p
	}

	days, err := s.queryShifts(ctx, "SELECT "+shiftColumns+" FROM shifts ORDER BY date")
	if err != nil {
		return shift.State{}, err
	}
	st.Shifts = days
	return st, nil
}

func (s *Store) loadProfile(ctx context.Context) (shift.Profile, bool, error) {
	var p shift.Profile
	var level string
	err := s.db.QueryRowContext(ctx, `
		SELECT first_name, last_name, company, level, root_date, weekly_base, money_mode
		FROM profile WHERE id = 1`,
	).Scan(&p.FirstName, &p.LastName, &p.Company, &level, &p.RootDate, &p.WeeklyBase, &p.MoneyMode)

	if errors.Is(err, sql.ErrNoRows) {
		return shift.Profile{}, false, nil
	}
	if err != nil {
		return shift.Profile{}, false, fmt.Errorf("failed to load profile: %w", err)
	}
	p.Level = shift.ParseLevel(level)
	return p, true, nil
}

// SaveProfile upserts the single profile row.
func (s *Store) SaveProfile(ctx context.Context, p shift.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return generic.ErrStoreClosed
	}

	query := `
		INSERT INTO profile (id, first_name, last_name, company, level, root_date, weekly_base, money_mode, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			company = excluded.company,
			level = excluded.level,
			root_date = excluded.root_date,
			weekly_base = excluded.weekly_base,
			money_mode = excluded.money_mode,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		p.FirstName, p.LastName, p.Company, string(p.Level), p.RootDate,
		p.WeeklyBase, p.MoneyMode, now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// SaveDay upserts one record.
func (s *Store) SaveDay(ctx context.Context, rec shift.DayRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return generic.ErrStoreClosed
	}
	return s.upsertDay(ctx, s.db, rec)
}

// ImportDays validates every record, then writes them in one transaction.
func (s *Store) ImportDays(ctx context.Context, recs []shift.DayRecord) error {
	if err := shift.ValidateAll(recs); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return generic.ErrStoreClosed
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, rec := range recs {
		if err := s.upsertDay(ctx, sqlTx, rec); err != nil {
			return err
		}
	}
	return sqlTx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) upsertDay(ctx context.Context, db execer, rec shift.DayRecord) error {
	var start, end string
	var night bool
	pauses := []shift.Pause{}
	if w, ok := rec.Worked(); ok {
		start, end, night = w.Start, w.End, w.IsNight
		if w.Pauses != nil {
			pauses = w.Pauses
		}
	}
	pausesJSON, err := json.Marshal(pauses)
	if err != nil {
		return fmt.Errorf("failed to encode pauses for %s: %w", rec.Date, err)
	}

	query := `
		INSERT INTO shifts (date, status, start_time, end_time, is_night, pauses_json, note, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			status = excluded.status,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			is_night = excluded.is_night,
			pauses_json = excluded.pauses_json,
			note = excluded.note,
			updated_at = excluded.updated_at
	`
	_, err = db.ExecContext(ctx, query,
		rec.Date, string(rec.Status), start, end, night, string(pausesJSON), rec.Note, now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save day %s: %w", rec.Date, err)
	}
	return nil
}

// GetDay returns generic.ErrDayNotFound when nothing is stored for date.
func (s *Store) GetDay(ctx context.Context, date string) (shift.DayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return shift.DayRecord{}, generic.ErrStoreClosed
	}

	days, err := s.queryShifts(ctx, "SELECT "+shiftColumns+" FROM shifts WHERE date = ?", date)
	if err != nil {
		return shift.DayRecord{}, err
	}
	rec, ok := days[date]
	if !ok {
		return shift.DayRecord{}, generic.ErrDayNotFound
	}
	return rec, nil
}

// LoadRange returns the records whose date falls in [from, to]. ISO keys sort
// lexically, so the range is a plain string comparison.
func (s *Store) LoadRange(ctx context.Context, from, to generic.TimePoint) (shift.Shifts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, generic.ErrStoreClosed
	}

	return s.queryShifts(ctx,
		"SELECT "+shiftColumns+" FROM shifts WHERE date >= ? AND date <= ? ORDER BY date",
		from.Key(), to.Key(),
	)
}

const shiftColumns = "date, status, start_time, end_time, is_night, pauses_json, note"

func (s *Store) queryShifts(ctx context.Context, query string, args ...any) (shift.Shifts, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	out := shift.Shifts{}
	for rows.Next() {
		rec, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		out[rec.Date] = rec
	}
	return out, rows.Err()
}

func scanShift(rows *sql.Rows) (shift.DayRecord, error) {
	var (
		date, status, start, end, pausesJSON, note string
		night                                      bool
	)
	if err := rows.Scan(&date, &status, &start, &end, &night, &pausesJSON, &note); err != nil {
		return shift.DayRecord{}, fmt.Errorf("failed to scan shift: %w", err)
	}

	rec := shift.NewDay(date, shift.ParseStatus(status))
	rec.Note = note
	if w, ok := rec.Worked(); ok {
		w.Start, w.End, w.IsNight = start, end, night
		if err := json.Unmarshal([]byte(pausesJSON), &w.Pauses); err != nil {
			return shift.DayRecord{}, fmt.Errorf("failed to decode pauses for %s: %w", date, err)
		}
	}
	return rec, nil
}

// =============================================================================
// EMPLOYER DAYS
// =============================================================================

// SaveEmployerDays upserts the days of an employer statement.
func (s *Store) SaveEmployerDays(ctx context.Context, days []reconcile.EmployerDay) error {
	for _, d := range days {
		if _, err := generic.ParseDate(d.Date); err != nil {
			return &generic.InvalidDayError{Date: d.Date, Reason: "date must be YYYY-MM-DD"}
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return generic.ErrStoreClosed
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	query := `
		INSERT INTO employer_days (date, status, start_time, end_time, tte, pauses_json, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			status = excluded.status,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			tte = excluded.tte,
			pauses_json = excluded.pauses_json,
			imported_at = excluded.imported_at
	`
	ts := now()
	for _, d := range days {
		pauses := d.Pauses
		if pauses == nil {
			pauses = []reconcile.EmployerPause{}
		}
		pausesJSON, err := json.Marshal(pauses)
		if err != nil {
			return err
		}
		if _, err := sqlTx.ExecContext(ctx, query,
			d.Date, string(d.Status), d.Start, d.End, d.TTE, string(pausesJSON), ts,
		); err != nil {
			return fmt.Errorf("failed to save employer day %s: %w", d.Date, err)
		}
	}
	return sqlTx.Commit()
}

// ListEmployerDays returns the stored employer days within p, by date.
func (s *Store) ListEmployerDays(ctx context.Context, p generic.Period) ([]reconcile.EmployerDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, generic.ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, status, start_time, end_time, tte, pauses_json
		FROM employer_days
		WHERE date >= ? AND date <= ?
		ORDER BY date`,
		p.Start.Key(), p.End.Key(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query employer days: %w", err)
	}
	defer rows.Close()

	days := []reconcile.EmployerDay{}
	for rows.Next() {
		var d reconcile.EmployerDay
		var status, pausesJSON string
		if err := rows.Scan(&d.Date, &status, &d.Start, &d.End, &d.TTE, &pausesJSON); err != nil {
			return nil, err
		}
		d.Status = reconcile.ParseEmployerStatus(status)
		if err := json.Unmarshal([]byte(pausesJSON), &d.Pauses); err != nil {
			return nil, fmt.Errorf("failed to decode employer pauses for %s: %w", d.Date, err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// =============================================================================
// RECONCILIATION RUNS
// =============================================================================

// ReconciliationRun is a stored reconciliation result.
type ReconciliationRun struct {
	ID        string
	PayPeriod string
	Period    generic.Period
	Result    reconcile.Result
	CreatedAt time.Time
}

// SaveReconciliationRun stores a run, assigning an ID and creation time when
// missing. The stored run is returned.
func (s *Store) SaveReconciliationRun(ctx context.Context, r ReconciliationRun) (ReconciliationRun, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	resultJSON, err := json.Marshal(r.Result)
	if err != nil {
		return ReconciliationRun{}, fmt.Errorf("failed to encode result: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ReconciliationRun{}, generic.ErrStoreClosed
	}

	query := `
		INSERT INTO reconciliation_runs (id, pay_period, period_start, period_end,
			concordant, total, errors, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		r.ID, r.PayPeriod, r.Period.Start.Key(), r.Period.End.Key(),
		r.Result.Concordant, r.Result.Total, r.Result.Errors(),
		string(resultJSON), r.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return ReconciliationRun{}, fmt.Errorf("failed to save reconciliation run: %w", err)
	}
	return r, nil
}

// ListReconciliationRuns returns runs newest first, optionally restricted to
// one pay period.
func (s *Store) ListReconciliationRuns(ctx context.Context, payPeriod string) ([]ReconciliationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, generic.ErrStoreClosed
	}

	query := `
		SELECT id, pay_period, period_start, period_end, result_json, created_at
		FROM reconciliation_runs
	`
	var args []any
	if payPeriod != "" {
		query += " WHERE pay_period = ?"
		args = append(args, payPeriod)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []ReconciliationRun{}
	for rows.Next() {
		var r ReconciliationRun
		var start, end, resultJSON, createdAt string
		if err := rows.Scan(&r.ID, &r.PayPeriod, &start, &end, &resultJSON, &createdAt); err != nil {
			return nil, err
		}
		r.Period.Start, _ = generic.ParseDate(start)
		r.Period.End, _ = generic.ParseDate(end)
		r.CreatedAt, _ = time.Parse(timestampLayout, createdAt)
		if err := json.Unmarshal([]byte(resultJSON), &r.Result); err != nil {
			return nil, fmt.Errorf("failed to decode run %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// =============================================================================
// RULESETS
// =============================================================================

// ActiveRulesetID is the key of the rules document in force.
const ActiveRulesetID = "active"

// RulesetRecord is a stored rules document.
type RulesetRecord struct {
	ID         string
	Name       string
	ConfigJSON string
	Version    int
	UpdatedAt  time.Time
}

// SaveRuleset upserts a rules document, bumping its version on update.
func (s *Store) SaveRuleset(ctx context.Context, r RulesetRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return generic.ErrStoreClosed
	}

	query := `
		INSERT INTO rulesets (id, name, config_json, version, updated_at)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			version = rulesets.version + 1,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, r.ID, r.Name, r.ConfigJSON, now())
	return err
}

// GetRuleset returns (nil, nil) when no document is stored under id.
func (s *Store) GetRuleset(ctx context.Context, id string) (*RulesetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, generic.ErrStoreClosed
	}

	var r RulesetRecord
	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, config_json, version, updated_at FROM rulesets WHERE id = ?",
		id,
	).Scan(&r.ID, &r.Name, &r.ConfigJSON, &r.Version, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, _ = time.Parse(timestampLayout, updatedAt)
	return &r, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears the worker's data: profile, days, employer days and runs.
// Stored rulesets survive a reset.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return generic.ErrStoreClosed
	}

	tables := []string{"shifts", "profile", "employer_days", "reconciliation_runs"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// timestampLayout is fixed-width so that ORDER BY on the text sorts by time.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func now() string {
	return time.Now().UTC().Format(timestampLayout)
}
