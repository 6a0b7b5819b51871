/*
handlers.go - HTTP API handlers for the shift time engine

PURPOSE:
  Exposes the calculation engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the shift, payroll and reconcile
  packages. Every read loads the worker's State from the store and computes
  results on the fly; derived values are never stored.

ENDPOINTS:
  State:
    GET    /api/state                       Profile and every stored day
    GET    /api/profile                     Worker profile
    PUT    /api/profile                     Replace profile

  Days:
    GET    /api/days?from=&to=              Records with daily results
    GET    /api/days/{date}                 One record with its result
    PUT    /api/days/{date}                 Upsert one record
    POST   /api/import?on_conflict=         Merge imported records

  Fortnights:
    GET    /api/fortnights?from=&to=        Windows intersecting a range
    GET    /api/fortnights/{date}           Window containing a date

  Pay periods:
    GET    /api/pay-periods                 Published table
    GET    /api/pay-periods/{id}/summary    Worked time and estimated pay
    GET    /api/pay-periods/{id}/export     Time sheet (format=csv|pdf)
    GET    /api/summary?date=               Summary of the period holding date

  Reconciliation:
    POST   /api/reconciliation              Match an employer statement
    GET    /api/reconciliation/runs         Run history

  Rules:
    GET    /api/rules                       Active rules document
    PUT    /api/rules                       Replace and persist rules

  Scenarios:
    GET    /api/scenarios                   List demo scenarios
    POST   /api/scenarios/load              Load a demo scenario
    POST   /api/reset                       Clear the worker's data

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - Rules: JSON rules factory
  - The active Ruleset, swapped atomically by PUT /api/rules

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed dates, day records, rules documents
  - 404: Unknown day or pay period
  - 500: Store failures

SECURITY NOTE:
  No authentication. The server is meant to run locally for one worker.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/shiftlock/export"
	"github.com/warp/shiftlock/factory"
	"github.com/warp/shiftlock/generic"
	"github.com/warp/shiftlock/logging"
	"github.com/warp/shiftlock/payroll"
	"github.com/warp/shiftlock/reconcile"
	"github.com/warp/shiftlock/shift"
	"github.com/warp/shiftlock/store/sqlite"
)

// maxBodyBytes bounds request bodies (imports of a few years of days fit).
const maxBodyBytes = 10 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Rules  *factory.RulesFactory
	Logger *slog.Logger

	mu      sync.RWMutex
	ruleset *factory.Ruleset

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a handler using the default rules until LoadRuleset
// or SetRuleset replaces them.
func NewHandler(store *sqlite.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Store:   store,
		Rules:   factory.NewRulesFactory(),
		Logger:  logger,
		ruleset: factory.DefaultRuleset(),
	}
}

// LoadRuleset activates the rules document persisted by PUT /api/rules.
// It is a no-op when none was stored.
func (h *Handler) LoadRuleset(ctx context.Context) error {
	rec, err := h.Store.GetRuleset(ctx, sqlite.ActiveRulesetID)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	rs, err := h.Rules.Parse(rec.ConfigJSON)
	if err != nil {
		return fmt.Errorf("stored ruleset v%d: %w", rec.Version, err)
	}
	h.SetRuleset(rs)
	return nil
}

func (h *Handler) SetRuleset(rs *factory.Ruleset) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ruleset = rs
}

// Ruleset returns the rules in force.
func (h *Handler) Ruleset() *factory.Ruleset {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ruleset
}

func (h *Handler) logger(r *http.Request) *slog.Logger {
	return logging.FromContext(r.Context(), h.Logger)
}

// =============================================================================
// STATE & PROFILE
// =============================================================================

// GetState returns the profile and every stored day.
// GET /api/state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	st, err := h.Store.LoadState(r.Context())
	if err != nil {
		h.writeStoreError(w, r, "Failed to load state", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// GetProfile returns the worker profile.
// GET /api/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	st, err := h.Store.LoadState(r.Context())
	if err != nil {
		h.writeStoreError(w, r, "Failed to load profile", err)
		return
	}
	writeJSON(w, http.StatusOK, st.Profile)
}

// UpdateProfile replaces the worker profile.
// PUT /api/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	p := shift.DefaultProfile()
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if p.RootDate != "" {
		if _, err := generic.ParseDate(p.RootDate); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid root date", err)
			return
		}
	}
	if p.WeeklyBase < 0 {
		writeError(w, http.StatusBadRequest, "Weekly base must not be negative", nil)
		return
	}

	if err := h.Store.SaveProfile(r.Context(), p); err != nil {
		h.writeStoreError(w, r, "Failed to save profile", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// =============================================================================
// DAY ENDPOINTS
// =============================================================================

// ListDays returns the stored days with their results, by date.
// GET /api/days?from=2026-01-19&to=2026-02-01 (both optional)
func (h *Handler) ListDays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rules := h.Ruleset().Rules

	from, to, err := rangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid range", err)
		return
	}

	var shifts shift.Shifts
	if from.IsZero() && to.IsZero() {
		st, err := h.Store.LoadState(ctx)
		if err != nil {
			h.writeStoreError(w, r, "Failed to load days", err)
			return
		}
		shifts = st.Shifts
	} else {
		// One extra day before the range feeds the daily-rest alert.
		shifts, err = h.Store.LoadRange(ctx, from.AddDays(-1), to)
		if err != nil {
			h.writeStoreError(w, r, "Failed to load days", err)
			return
		}
	}

	dates := make([]string, 0, len(shifts))
	for d := range shifts {
		if !from.IsZero() && d < from.Key() {
			continue
		}
		dates = append(dates, d)
	}
	sort.Strings(dates)

	dtos := make([]DayDTO, 0, len(dates))
	for _, d := range dates {
		dtos = append(dtos, dayView(shifts, shifts[d], rules))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetDay returns one record with its result.
// GET /api/days/{date}
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	day, err := generic.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	rec, err := h.Store.GetDay(ctx, day.Key())
	if err != nil {
		h.writeStoreError(w, r, "Day not found", err)
		return
	}
	shifts, err := h.Store.LoadRange(ctx, day.AddDays(-1), day)
	if err != nil {
		h.writeStoreError(w, r, "Failed to load days", err)
		return
	}
	writeJSON(w, http.StatusOK, dayView(shifts, rec, h.Ruleset().Rules))
}

// PutDay upserts one record. The body uses the flat day shape; its date may
// be omitted but must match the URL when present.
// PUT /api/days/{date}
func (h *Handler) PutDay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	day, err := generic.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	var rec shift.DayRecord
	if err := decodeJSON(w, r, &rec); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if rec.Date == "" {
		rec.Date = day.Key()
	}
	if rec.Date != day.Key() {
		writeError(w, http.StatusBadRequest, "Invalid day record",
			&generic.InvalidDayError{Date: rec.Date, Reason: "date does not match URL " + day.Key()})
		return
	}
	if wd, ok := rec.Worked(); ok {
		for i := range wd.Pauses {
			if wd.Pauses[i].ID == "" {
				wd.Pauses[i].ID = uuid.NewString()
			}
		}
	}

	if err := h.Store.SaveDay(ctx, rec); err != nil {
		h.writeStoreError(w, r, "Failed to save day", err)
		return
	}
	h.logger(r).Debug("day saved", "date", rec.Date, "status", rec.Status)

	shifts, err := h.Store.LoadRange(ctx, day.AddDays(-1), day)
	if err != nil {
		h.writeStoreError(w, r, "Failed to load days", err)
		return
	}
	writeJSON(w, http.StatusOK, dayView(shifts, rec, h.Ruleset().Rules))
}

func dayView(shifts shift.Shifts, rec shift.DayRecord, rules shift.Rules) DayDTO {
	return DayDTO{Record: rec, Result: shift.CalculateWithAlerts(shifts, rec, rules)}
}

// ImportDays merges imported records into the stored ones.
//
// on_conflict=report (default) applies safe updates and lists conflicts;
// keep and overwrite resolve every conflict first. The write is atomic.
// POST /api/import?on_conflict=report|keep|overwrite
func (h *Handler) ImportDays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mode := r.URL.Query().Get("on_conflict")
	if mode == "" {
		mode = "report"
	}
	if mode != "report" && mode != string(shift.ChoiceKeep) && mode != string(shift.ChoiceOverwrite) {
		writeError(w, http.StatusBadRequest, "on_conflict must be report, keep or overwrite", nil)
		return
	}

	var req ImportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	incoming := append([]shift.DayRecord(nil), req.Days...)
	keys := make([]string, 0, len(req.Shifts))
	for k := range req.Shifts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rec := req.Shifts[k]
		if rec.Date == "" {
			rec.Date = k
		}
		incoming = append(incoming, rec)
	}

	st, err := h.Store.LoadState(ctx)
	if err != nil {
		h.writeStoreError(w, r, "Failed to load state", err)
		return
	}

	merged := shift.Merge(st.Shifts, incoming)
	if mode != "report" {
		merged.Resolve(shift.Choice(mode))
	}
	if err := h.Store.ImportDays(ctx, merged.Changed()); err != nil {
		h.writeStoreError(w, r, "Failed to import days", err)
		return
	}

	h.logger(r).Info("import merged",
		"applied", len(merged.Applied),
		"unchanged", len(merged.Unchanged),
		"conflicts", len(merged.Conflicts),
		"on_conflict", mode,
	)
	writeJSON(w, http.StatusOK, ImportResponse{
		OnConflict: mode,
		Applied:    merged.Applied,
		Unchanged:  merged.Unchanged,
		Conflicts:  merged.Conflicts,
	})
}

// =============================================================================
// FORTNIGHT ENDPOINTS
// =============================================================================

// GetFortnight aggregates the full window containing a date.
// GET /api/fortnights/{date}
func (h *Handler) GetFortnight(w http.ResponseWriter, r *http.Request) {
	day, err := generic.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	st, err := h.Store.LoadState(r.Context())
	if err != nil {
		h.writeStoreError(w, r, "Failed to load state", err)
		return
	}
	writeJSON(w, http.StatusOK, shift.AggregateFortnight(st.Shifts, st.Profile.Root(), day, h.Ruleset().Rules))
}

// ListFortnights aggregates every full window intersecting [from, to]. The
// range defaults to the current window.
// GET /api/fortnights?from=&to=
func (h *Handler) ListFortnights(w http.ResponseWriter, r *http.Request) {
	from, to, err := rangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid range", err)
		return
	}
	st, err := h.Store.LoadState(r.Context())
	if err != nil {
		h.writeStoreError(w, r, "Failed to load state", err)
		return
	}

	root := st.Profile.Root()
	rules := h.Ruleset().Rules
	if from.IsZero() && to.IsZero() {
		from = generic.Today()
		to = from
	}

	windows := shift.Windows(root, generic.Period{Start: from, End: to})
	out := make([]shift.FortnightResult, 0, len(windows))
	for _, win := range windows {
		out = append(out, shift.AggregateFortnight(st.Shifts, root, win.Period.Start, rules))
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// PAY PERIOD ENDPOINTS
// =============================================================================

// ListPayPeriods returns the published pay-period table.
// GET /api/pay-periods
func (h *Handler) ListPayPeriods(w http.ResponseWriter, r *http.Request) {
	periods := h.Ruleset().Calendar.Periods()
	dtos := make([]PayPeriodDTO, len(periods))
	for i, pp := range periods {
		dtos[i] = toPayPeriodDTO(pp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSummary returns the summary of one pay period.
// GET /api/pay-periods/{id}/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rs := h.Ruleset()
	if _, ok := rs.Calendar.Lookup(id); !ok {
		writeError(w, http.StatusNotFound, "Pay period not found", fmt.Errorf("%w: %s", generic.ErrUnknownPayPeriod, id))
		return
	}

	st, err := h.Store.LoadState(r.Context())
	if err != nil {
		h.writeStoreError(w, r, "Failed to load state", err)
		return
	}
	writeJSON(w, http.StatusOK, payroll.Summarize(id, st, rs.Calendar, rs.Rates, rs.Rules))
}

// GetSummaryForDate returns the summary of the pay period holding a date
// (today by default).
// GET /api/summary?date=
func (h *Handler) GetSummaryForDate(w http.ResponseWriter, r *http.Request) {
	day := generic.Today()
	if v := r.URL.Query().Get("date"); v != "" {
		var err error
		if day, err = generic.ParseDate(v); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
	}

	rs := h.Ruleset()
	if _, ok := rs.Calendar.ForDate(day); !ok {
		writeError(w, http.StatusNotFound, "No pay period for date", fmt.Errorf("%w: %s", generic.ErrUnknownPayPeriod, day.Key()))
		return
	}
	st, err := h.Store.LoadState(r.Context())
	if err != nil {
		h.writeStoreError(w, r, "Failed to load state", err)
		return
	}
	writeJSON(w, http.StatusOK, payroll.SummarizeDate(day, st, rs.Calendar, rs.Rates, rs.Rules))
}

// ExportPayPeriod renders the time sheet of a pay period.
// GET /api/pay-periods/{id}/export?format=csv|pdf
func (h *Handler) ExportPayPeriod(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rs := h.Ruleset()
	pp, ok := rs.Calendar.Lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Pay period not found", fmt.Errorf("%w: %s", generic.ErrUnknownPayPeriod, id))
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "pdf"
	}
	if format != "pdf" && format != "csv" {
		writeError(w, http.StatusBadRequest, "format must be csv or pdf", nil)
		return
	}

	st, err := h.Store.LoadState(r.Context())
	if err != nil {
		h.writeStoreError(w, r, "Failed to load state", err)
		return
	}
	sheet := export.BuildSheet(pp, st, rs.Rates, rs.Rules)

	// Render into a buffer so a rendering error can still become a JSON 500.
	var buf bytes.Buffer
	contentType := "application/pdf"
	if format == "csv" {
		contentType = "text/csv; charset=utf-8"
		err = export.WriteCSV(&buf, sheet)
	} else {
		err = export.WritePDF(&buf, sheet)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render export", err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(sheet, format)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// =============================================================================
// RECONCILIATION ENDPOINTS
// =============================================================================

// Reconcile matches employer days against the stored records and saves the
// run. Employer days given inline are stored for later runs.
// POST /api/reconciliation
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rs := h.Ruleset()

	var req ReconcileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	period, hasPeriod, err := reconcilePeriod(req, rs.Calendar)
	if err != nil {
		if generic.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Pay period not found", err)
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	var days []reconcile.EmployerDay
	switch {
	case req.Stored:
		if !hasPeriod {
			writeError(w, http.StatusBadRequest, "stored requires pay_period or from/to", nil)
			return
		}
		days, err = h.Store.ListEmployerDays(ctx, period)
		if err != nil {
			h.writeStoreError(w, r, "Failed to load employer days", err)
			return
		}
	case len(req.Days) > 0:
		days = req.Days
	case strings.TrimSpace(req.Statement) != "":
		days, err = reconcile.ParseStatement(strings.NewReader(req.Statement))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid statement", err)
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "days, statement or stored is required", nil)
		return
	}

	if !req.Stored {
		if err := h.Store.SaveEmployerDays(ctx, days); err != nil {
			h.writeStoreError(w, r, "Failed to save employer days", err)
			return
		}
	}
	if hasPeriod {
		days = reconcile.Filter(days, period)
	} else {
		period = spanOf(days)
	}

	st, err := h.Store.LoadState(ctx)
	if err != nil {
		h.writeStoreError(w, r, "Failed to load state", err)
		return
	}
	result := reconcile.Match(st.Shifts, days, rs.Tolerance)

	run, err := h.Store.SaveReconciliationRun(ctx, sqlite.ReconciliationRun{
		PayPeriod: req.PayPeriod,
		Period:    period,
		Result:    result,
	})
	if err != nil {
		h.writeStoreError(w, r, "Failed to save reconciliation run", err)
		return
	}

	h.logger(r).Info("reconciliation run",
		"run_id", run.ID,
		"pay_period", run.PayPeriod,
		"total", result.Total,
		"concordant", result.Concordant,
		"errors", result.Errors(),
	)
	writeJSON(w, http.StatusCreated, toRunDTO(run))
}

func reconcilePeriod(req ReconcileRequest, cal payroll.Calendar) (generic.Period, bool, error) {
	if req.PayPeriod != "" {
		pp, ok := cal.Lookup(req.PayPeriod)
		if !ok {
			return generic.Period{}, false, fmt.Errorf("%w: %s", generic.ErrUnknownPayPeriod, req.PayPeriod)
		}
		return pp.Period, true, nil
	}
	if req.From == "" && req.To == "" {
		return generic.Period{}, false, nil
	}
	from, err := generic.ParseDate(req.From)
	if err != nil {
		return generic.Period{}, false, err
	}
	to, err := generic.ParseDate(req.To)
	if err != nil {
		return generic.Period{}, false, err
	}
	p := generic.Period{Start: from, End: to}
	if !p.Valid() {
		return generic.Period{}, false, generic.ErrInvalidPeriod
	}
	return p, true, nil
}

// spanOf is the smallest period covering every parseable date of days.
func spanOf(days []reconcile.EmployerDay) generic.Period {
	var p generic.Period
	for _, d := range days {
		tp, err := generic.ParseDate(d.Date)
		if err != nil {
			continue
		}
		if p.Start.IsZero() || tp.Before(p.Start) {
			p.Start = tp
		}
		if p.End.IsZero() || tp.After(p.End) {
			p.End = tp
		}
	}
	return p
}

// ListReconciliationRuns returns reconciliation run history, newest first.
// GET /api/reconciliation/runs?pay_period=
func (h *Handler) ListReconciliationRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListReconciliationRuns(r.Context(), r.URL.Query().Get("pay_period"))
	if err != nil {
		h.writeStoreError(w, r, "Failed to get reconciliation runs", err)
		return
	}

	dtos := make([]RunDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, toRunDTO(run))
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": dtos})
}

func toRunDTO(run sqlite.ReconciliationRun) RunDTO {
	return RunDTO{
		ID:          run.ID,
		PayPeriod:   run.PayPeriod,
		PeriodStart: run.Period.Start.Key(),
		PeriodEnd:   run.Period.End.Key(),
		Errors:      run.Result.Errors(),
		Result:      run.Result,
		CreatedAt:   run.CreatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// RULES ENDPOINTS
// =============================================================================

// GetRules returns the rules in force as a complete JSON document.
// GET /api/rules
func (h *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Rules.ToJSON(h.Ruleset()))
}

// PutRules validates, persists and activates a rules document. Omitted
// fields take their default values.
// PUT /api/rules
func (h *Handler) PutRules(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body", err)
		return
	}

	rs, err := h.Rules.Parse(string(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rules", err)
		return
	}

	if err := h.Store.SaveRuleset(r.Context(), sqlite.RulesetRecord{
		ID:         sqlite.ActiveRulesetID,
		Name:       rs.Name,
		ConfigJSON: string(body),
	}); err != nil {
		h.writeStoreError(w, r, "Failed to save rules", err)
		return
	}
	h.SetRuleset(rs)

	h.logger(r).Info("rules replaced", "ruleset", rs.ID)
	writeJSON(w, http.StatusOK, h.Rules.ToJSON(rs))
}

// ResetDatabase clears the worker's data. Stored rules are kept.
// POST /api/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		h.writeStoreError(w, r, "Failed to reset database", err)
		return
	}
	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError picks the status from the error category. Server-side
// failures are logged; client errors are not.
func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, message string, err error) {
	switch {
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, generic.ErrStoreClosed):
		writeError(w, http.StatusServiceUnavailable, message, err)
	default:
		h.logger(r).Error(message, "error", err)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// rangeParams reads the optional from/to query parameters. A single bound
// makes a one-day range.
func rangeParams(r *http.Request) (from, to generic.TimePoint, err error) {
	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		if from, err = generic.ParseDate(v); err != nil {
			return
		}
	}
	if v := q.Get("to"); v != "" {
		if to, err = generic.ParseDate(v); err != nil {
			return
		}
	}
	switch {
	case from.IsZero() && !to.IsZero():
		from = to
	case to.IsZero() && !from.IsZero():
		to = from
	}
	if to.Before(from) {
		err = generic.ErrInvalidPeriod
	}
	return
}
