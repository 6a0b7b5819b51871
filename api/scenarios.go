/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	days for testing and demos. Each scenario writes a profile and a run of
	day records that exercise one part of the engine.

AVAILABLE SCENARIOS:

	standard-fortnight:  Regular day shifts, lunch off site
	overtime-fortnight:  Long days and a Saturday, both overtime bands
	night-shifts:        Night work across midnight, short daily rest
	reconciliation-demo: February shifts next to a disagreeing statement

HOW SCENARIOS WORK:
 1. Reset database (clear all data, keep rules)
 2. Save the worker profile
 3. Import day records in one transaction
 4. Optionally store employer days and a reconciliation run

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "overtime-fortnight"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: ResetDatabase
  - shift/types.go: Day record constructors
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/shiftlock/generic"
	"github.com/warp/shiftlock/reconcile"
	"github.com/warp/shiftlock/shift"
	"github.com/warp/shiftlock/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "standard-fortnight",
		Name:        "Standard Fortnight",
		Description: "Ten 08:00-16:00 days with a 30 min lunch off site",
		Category:    "days",
	},
	{
		ID:          "overtime-fortnight",
		Name:        "Overtime Fortnight",
		Description: "Long days with on-site lunch and a Saturday, reaching the second overtime band",
		Category:    "days",
	},
	{
		ID:          "night-shifts",
		Name:        "Night Shifts",
		Description: "Shifts crossing midnight with a short daily rest",
		Category:    "days",
	},
	{
		ID:          "reconciliation-demo",
		Name:        "Reconciliation",
		Description: "February shifts and an employer statement with a few disagreements",
		Category:    "reconciliation",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.currentScenario
	h.mu.RUnlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var load func(context.Context) error
	switch req.ScenarioID {
	case "standard-fortnight":
		load = h.loadStandardFortnight
	case "overtime-fortnight":
		load = h.loadOvertimeFortnight
	case "night-shifts":
		load = h.loadNightShifts
	case "reconciliation-demo":
		load = h.loadReconciliationDemo
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err := h.LoadScenarioByID(r.Context(), req.ScenarioID, load); err != nil {
		h.writeStoreError(w, r, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.logger(r).Info("scenario loaded", "scenario", req.ScenarioID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// LoadScenarioByID resets the store, runs load and records id as the
// current scenario.
func (h *Handler) LoadScenarioByID(ctx context.Context, id string, load func(context.Context) error) error {
	if err := h.Store.Reset(ctx); err != nil {
		return err
	}
	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	if err := load(ctx); err != nil {
		return err
	}

	h.mu.Lock()
	h.currentScenario = id
	h.mu.Unlock()
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func demoProfile(level shift.Level) shift.Profile {
	p := shift.DefaultProfile()
	p.FirstName = "Camille"
	p.LastName = "Martin"
	p.Company = "Transports Demo"
	p.Level = level
	p.MoneyMode = true
	return p
}

// fillDays builds one record per day of [from, to]. Weekends are rest days
// unless worked returns a record for them.
func fillDays(from, to string, worked func(day generic.TimePoint) (shift.DayRecord, bool)) []shift.DayRecord {
	p := generic.Period{Start: generic.MustParseDate(from), End: generic.MustParseDate(to)}
	var out []shift.DayRecord
	for _, day := range p.Days() {
		if rec, ok := worked(day); ok {
			out = append(out, rec)
			continue
		}
		out = append(out, shift.NewDay(day.Key(), shift.StatusRest))
	}
	return out
}

func pause(start, end string, loc shift.PauseLocation) shift.Pause {
	return shift.Pause{Start: start, End: end, Location: loc}
}

func (h *Handler) seed(ctx context.Context, p shift.Profile, days []shift.DayRecord) error {
	if err := h.Store.SaveProfile(ctx, p); err != nil {
		return err
	}
	// Merge gives every pause an ID.
	merged := shift.Merge(shift.Shifts{}, days)
	return h.Store.ImportDays(ctx, merged.Changed())
}

func (h *Handler) loadStandardFortnight(ctx context.Context) error {
	days := fillDays("2026-01-19", "2026-02-01", func(day generic.TimePoint) (shift.DayRecord, bool) {
		if day.IsWeekend() {
			return shift.DayRecord{}, false
		}
		return shift.NewWorkedDay(day.Key(), "08:00", "16:00",
			pause("12:00", "12:30", shift.PauseOffSite),
			pause("10:00", "10:20", shift.PauseOnSite),
		), true
	})
	return h.seed(ctx, demoProfile(shift.LevelN2), days)
}

func (h *Handler) loadOvertimeFortnight(ctx context.Context) error {
	days := fillDays("2026-02-02", "2026-02-15", func(day generic.TimePoint) (shift.DayRecord, bool) {
		if day.Key() == "2026-02-13" {
			return shift.NewDay(day.Key(), shift.StatusPaidLeave), true
		}
		switch day.Weekday() {
		case time.Sunday:
			return shift.DayRecord{}, false
		case time.Saturday:
			if day.Key() != "2026-02-07" {
				return shift.DayRecord{}, false
			}
			return shift.NewWorkedDay(day.Key(), "06:00", "12:30",
				pause("09:00", "09:20", shift.PauseOnSite),
			), true
		}
		return shift.NewWorkedDay(day.Key(), "06:30", "18:00",
			pause("11:45", "12:30", shift.PauseOnSite),
			pause("15:30", "15:50", shift.PauseOnSite),
		), true
	})
	return h.seed(ctx, demoProfile(shift.LevelN3), days)
}

func (h *Handler) loadNightShifts(ctx context.Context) error {
	days := fillDays("2026-01-19", "2026-02-01", func(day generic.TimePoint) (shift.DayRecord, bool) {
		if day.IsWeekend() {
			return shift.DayRecord{}, false
		}
		if day.Key() == "2026-01-23" {
			// Nine hours after a night ending at 05:00.
			return shift.NewWorkedDay(day.Key(), "14:00", "20:00",
				pause("17:00", "17:20", shift.PauseOnSite),
			), true
		}
		return shift.NewNightShift(day.Key(), "21:00", "05:00",
			pause("01:00", "01:30", shift.PauseOnSite),
		), true
	})
	return h.seed(ctx, demoProfile(shift.LevelN1), days)
}

func (h *Handler) loadReconciliationDemo(ctx context.Context) error {
	days := fillDays("2026-01-26", "2026-02-08", func(day generic.TimePoint) (shift.DayRecord, bool) {
		if day.IsWeekend() {
			return shift.DayRecord{}, false
		}
		return shift.NewWorkedDay(day.Key(), "07:00", "15:00",
			pause("11:30", "12:00", shift.PauseOffSite),
		), true
	})
	if err := h.seed(ctx, demoProfile(shift.LevelN2), days); err != nil {
		return err
	}

	var employer []reconcile.EmployerDay
	for _, rec := range days {
		if rec.Status != shift.StatusWorked {
			employer = append(employer, reconcile.EmployerDay{Date: rec.Date, Status: reconcile.EmployerRest})
			continue
		}
		ed := reconcile.EmployerDay{
			Date:   rec.Date,
			Status: reconcile.EmployerWorked,
			Start:  "07:00",
			End:    "15:00",
			Pauses: []reconcile.EmployerPause{{Start: "11:30", End: "12:00"}},
		}
		switch rec.Date {
		case "2026-01-28":
			ed.End = "14:30" // half an hour short
		case "2026-02-03":
			ed.Pauses = nil // lunch break not recorded
		case "2026-02-05":
			ed.Status = reconcile.EmployerRest
			ed.Start, ed.End, ed.Pauses = "", "", nil
		}
		employer = append(employer, ed)
	}
	if err := h.Store.SaveEmployerDays(ctx, employer); err != nil {
		return err
	}

	st, err := h.Store.LoadState(ctx)
	if err != nil {
		return err
	}
	rs := h.Ruleset()
	pp, ok := rs.Calendar.Lookup("2026-02")
	if !ok {
		return nil
	}
	result := reconcile.Match(st.Shifts, reconcile.Filter(employer, pp.Period), rs.Tolerance)
	_, err = h.Store.SaveReconciliationRun(ctx, sqlite.ReconciliationRun{
		PayPeriod: pp.ID,
		Period:    pp.Period,
		Result:    result,
	})
	return err
}
