/*
handlers_test.go - HTTP tests for API handlers

Tests for:
- Day upsert and lookup (PutDay, GetDay, ListDays)
- Import merge modes (ImportDays)
- Fortnight and pay-period views
- Exports, reconciliation, rules
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shiftlock/logging"
	"github.com/warp/shiftlock/payroll"
	"github.com/warp/shiftlock/shift"
	"github.com/warp/shiftlock/store/sqlite"
)

type testServer struct {
	h      *Handler
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store, logging.Discard())
	return &testServer{h: h, router: NewRouter(h, []string{"http://localhost:5173"})}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const workedDay = `{"status":"WORKED","start":"08:00","end":"16:00",
	"pauses":[{"start":"12:00","end":"12:30","type":"OFF_SITE"}]}`

// =============================================================================
// DAYS
// =============================================================================

func TestPutDay_ComputesResult(t *testing.T) {
	s := newTestServer(t)

	// WHEN: Recording a worked day without a date in the body
	rec := s.do(t, http.MethodPut, "/api/days/2026-01-20", workedDay)

	// THEN: The date comes from the URL and the result is derived
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dto := decode[DayDTO](t, rec)
	assert.Equal(t, "2026-01-20", dto.Record.Date)
	assert.Equal(t, 480, dto.Result.Amplitude)
	assert.Equal(t, 450, dto.Result.TTE)

	wd, ok := dto.Record.Worked()
	require.True(t, ok)
	require.Len(t, wd.Pauses, 1)
	assert.NotEmpty(t, wd.Pauses[0].ID, "pauses get an ID on save")

	// AND: GetDay returns the stored record
	rec = s.do(t, http.MethodGet, "/api/days/2026-01-20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[DayDTO](t, rec)
	assert.Equal(t, dto.Record, got.Record)
}

func TestPutDay_Errors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/api/days/2026-01-20", `{"date":"2026-01-21","status":"REST"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/days/20-01-2026", `{"status":"REST"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/days/2026-01-20", `{"status":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/days/2026-01-22", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Day not found", decode[ErrorResponse](t, rec).Error)
}

func TestListDays_RangeAndRestAlert(t *testing.T) {
	s := newTestServer(t)

	// GIVEN: A night ending at 05:00 followed by a day starting at 09:00
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/days/2026-01-20",
		`{"status":"WORKED","start":"21:00","end":"05:00","isNight":true}`).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/days/2026-01-21",
		`{"status":"WORKED","start":"09:00","end":"12:00"}`).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/days/2026-01-25",
		`{"status":"REST"}`).Code)

	// WHEN: Listing only the second day
	rec := s.do(t, http.MethodGet, "/api/days?from=2026-01-21&to=2026-01-24", "")

	// THEN: Only that day is returned, with the short rest flagged
	require.Equal(t, http.StatusOK, rec.Code)
	days := decode[[]DayDTO](t, rec)
	require.Len(t, days, 1)
	assert.Equal(t, "2026-01-21", days[0].Record.Date)

	var codes []string
	for _, a := range days[0].Result.Alerts {
		codes = append(codes, a.Code)
	}
	assert.Contains(t, codes, shift.AlertDailyRest)

	// AND: Without a range every day comes back in date order
	all := decode[[]DayDTO](t, s.do(t, http.MethodGet, "/api/days", ""))
	require.Len(t, all, 3)
	assert.Equal(t, "2026-01-25", all[2].Record.Date)

	rec = s.do(t, http.MethodGet, "/api/days?from=2026-01-24&to=2026-01-21", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// IMPORT
// =============================================================================

func TestImportDays_ConflictModes(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/days/2026-01-20", workedDay).Code)

	body := `{"days":[
		{"date":"2026-01-20","status":"TRAVAIL","start":"09:00","end":"17:00"},
		{"date":"2026-01-21","status":"TRAVAIL","start":"08:00","end":"16:00"},
		{"date":"2026-01-24","status":"REPOS"}
	]}`

	// WHEN: Importing with the default report mode
	rec := s.do(t, http.MethodPost, "/api/import", body)

	// THEN: Safe updates are applied and the conflict is reported
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[ImportResponse](t, rec)
	assert.Equal(t, "report", resp.OnConflict)
	assert.Equal(t, []string{"2026-01-21", "2026-01-24"}, resp.Applied)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, "2026-01-20", resp.Conflicts[0].Date)

	kept := decode[DayDTO](t, s.do(t, http.MethodGet, "/api/days/2026-01-20", ""))
	assert.Equal(t, "08:00", kept.Record.Work.Start)
	rest := decode[DayDTO](t, s.do(t, http.MethodGet, "/api/days/2026-01-24", ""))
	assert.Equal(t, shift.StatusRest, rest.Record.Status, "legacy status normalized")

	// WHEN: Importing again with overwrite
	rec = s.do(t, http.MethodPost, "/api/import?on_conflict=overwrite", body)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[ImportResponse](t, rec)
	assert.Empty(t, resp.Conflicts)
	assert.Contains(t, resp.Applied, "2026-01-20")

	// THEN: The stored day takes the imported times
	over := decode[DayDTO](t, s.do(t, http.MethodGet, "/api/days/2026-01-20", ""))
	assert.Equal(t, "09:00", over.Record.Work.Start)
	assert.Equal(t, "17:00", over.Record.Work.End)
}

func TestImportDays_RejectsBadInput(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/import?on_conflict=maybe", `{"days":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// One bad date rejects the whole import.
	rec = s.do(t, http.MethodPost, "/api/import", `{"days":[
		{"date":"2026-01-21","status":"REST"},
		{"date":"21/01/2026","status":"REST"}
	]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	st, err := s.h.Store.LoadState(context.Background())
	require.NoError(t, err)
	assert.Empty(t, st.Shifts)
}

func TestImportDays_ShiftsMap(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/import", `{"shifts":{
		"2026-01-22":{"status":"WORKED","start":"0700","end":"1500"}
	}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	day := decode[DayDTO](t, s.do(t, http.MethodGet, "/api/days/2026-01-22", ""))
	assert.Equal(t, "07:00", day.Record.Work.Start)
	assert.Equal(t, 480, day.Result.Amplitude)
}

// =============================================================================
// FORTNIGHTS & PAY PERIODS
// =============================================================================

func TestGetFortnight(t *testing.T) {
	s := newTestServer(t)
	for _, d := range []string{"2026-01-19", "2026-01-20", "2026-01-26"} {
		require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/days/"+d, workedDay).Code)
	}

	rec := s.do(t, http.MethodGet, "/api/fortnights/2026-01-27", "")
	require.Equal(t, http.StatusOK, rec.Code)
	fr := decode[shift.FortnightResult](t, rec)
	assert.Equal(t, "2026-01-19", fr.Period.Start.Key())
	assert.Equal(t, "2026-02-01", fr.Period.End.Key())
	assert.Equal(t, 3*450, fr.TotalTTE)
	assert.Equal(t, 3, fr.WorkedDays)
	assert.Len(t, fr.Days, 14)

	list := decode[[]shift.FortnightResult](t, s.do(t, http.MethodGet, "/api/fortnights?from=2026-01-19&to=2026-02-02", ""))
	require.Len(t, list, 2)
	assert.Equal(t, "2026-02-02", list[1].Period.Start.Key())
}

func TestPayPeriods(t *testing.T) {
	s := newTestServer(t)

	periods := decode[[]PayPeriodDTO](t, s.do(t, http.MethodGet, "/api/pay-periods", ""))
	require.Len(t, periods, 12)
	assert.Equal(t, PayPeriodDTO{ID: "2026-02", Label: "Février", Start: "2026-01-26", End: "2026-02-22"}, periods[1])

	rec := s.do(t, http.MethodGet, "/api/pay-periods/2027-01/summary", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/days/2026-01-27", workedDay).Code)
	rec = s.do(t, http.MethodGet, "/api/pay-periods/2026-02/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decode[payroll.Summary](t, rec)
	assert.True(t, sum.Found)
	assert.True(t, sum.HasData)
	assert.Equal(t, 450, sum.TotalTTE)

	byDate := decode[payroll.Summary](t, s.do(t, http.MethodGet, "/api/summary?date=2026-02-10", ""))
	assert.Equal(t, "2026-02", byDate.PayPeriod.ID)

	rec = s.do(t, http.MethodGet, "/api/summary?date=2030-01-01", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportPayPeriod(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/days/2026-01-27", workedDay).Code)

	rec := s.do(t, http.MethodGet, "/api/pay-periods/2026-02/export?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, rec.Body.String(), "08:00")

	rec = s.do(t, http.MethodGet, "/api/pay-periods/2026-02/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/pay-periods/2026-02/export?format=xlsx", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/pay-periods/nope/export", "").Code)
}

// =============================================================================
// RECONCILIATION
// =============================================================================

func TestReconcile_InlineDays(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/days/2026-01-27", workedDay).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/days/2026-01-28", workedDay).Code)

	// WHEN: The employer shows a late start on the 28th and a day outside the period
	rec := s.do(t, http.MethodPost, "/api/reconciliation", `{
		"pay_period": "2026-02",
		"days": [
			{"date":"2026-01-27","status":"AR","start":"08:00","end":"16:00","pauses":[{"start":"12:00","end":"12:30"}]},
			{"date":"2026-01-28","status":"AR","start":"08:30","end":"16:00","pauses":[{"start":"12:00","end":"12:30"}]},
			{"date":"2026-03-02","status":"RH"}
		]
	}`)

	// THEN: A run is stored with one error day
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	run := decode[RunDTO](t, rec)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "2026-01-26", run.PeriodStart)
	assert.Equal(t, 2, run.Result.Total)
	assert.Equal(t, 1, run.Result.Concordant)
	assert.Equal(t, 1, run.Errors)

	// AND: The employer days were kept for a later run
	rec = s.do(t, http.MethodPost, "/api/reconciliation", `{"pay_period":"2026-02","stored":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decode[RunDTO](t, rec).Result.Total)

	runs := decode[map[string][]RunDTO](t, s.do(t, http.MethodGet, "/api/reconciliation/runs?pay_period=2026-02", ""))
	assert.Len(t, runs["runs"], 2)
}

func TestReconcile_Statement(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/days/2026-01-27", `{"status":"REST"}`).Code)

	body, err := json.Marshal(ReconcileRequest{Statement: "27/01/2026 RH\n"})
	require.NoError(t, err)
	rec := s.do(t, http.MethodPost, "/api/reconciliation", string(body))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	run := decode[RunDTO](t, rec)
	assert.Equal(t, "2026-01-27", run.PeriodStart)
	assert.Equal(t, "2026-01-27", run.PeriodEnd)
	assert.Equal(t, 1, run.Result.Concordant)
}

func TestReconcile_Errors(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/reconciliation", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/reconciliation", `{"stored":true}`).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/reconciliation", `{"pay_period":"1999-01","stored":true}`).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/reconciliation",
		`{"days":[{"date":"bad","status":"RH"}]}`).Code)
}

// =============================================================================
// RULES & RESET
// =============================================================================

func TestRules_PutPersistsAndActivates(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	rec := s.do(t, http.MethodPut, "/api/rules", `{"overtime_mode":"weekly"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/rules", `{"name":"Custom","tolerance":{"minutes":10,"error_minutes":30}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 10, s.h.Ruleset().Tolerance.Minutes)

	stored, err := s.h.Store.GetRuleset(ctx, sqlite.ActiveRulesetID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 1, stored.Version)

	// A fresh handler on the same store picks the rules up.
	h2 := NewHandler(s.h.Store, logging.Discard())
	require.NoError(t, h2.LoadRuleset(ctx))
	assert.Equal(t, 30, h2.Ruleset().Tolerance.ErrorMinutes)

	rules := decode[map[string]any](t, s.do(t, http.MethodGet, "/api/rules", ""))
	assert.Equal(t, "Custom", rules["name"])
}

func TestResetDatabase(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/days/2026-01-27", workedDay).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/profile", `{"firstName":"Lou","role":"LEVEL_2","rootDate":"2026-01-19"}`).Code)

	profile := decode[shift.Profile](t, s.do(t, http.MethodGet, "/api/profile", ""))
	assert.Equal(t, shift.LevelN2, profile.Level)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/reset", "").Code)

	st := decode[shift.State](t, s.do(t, http.MethodGet, "/api/state", ""))
	assert.Empty(t, st.Shifts)
	assert.Equal(t, shift.DefaultProfile(), st.Profile)
}

func TestUpdateProfile_Invalid(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, "/api/profile", `{"rootDate":"soon"}`).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, "/api/profile", `{"weeklyBase":-1}`).Code)
}
