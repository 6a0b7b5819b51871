package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shiftlock/generic"
	"github.com/warp/shiftlock/payroll"
	"github.com/warp/shiftlock/reconcile"
	"github.com/warp/shiftlock/shift"
)

// =============================================================================
// HELPERS
// =============================================================================

// run executes the root command against the state file and returns stdout.
func run(t *testing.T, state string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--state", state}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, state string, args ...string) string {
	t.Helper()
	out, err := run(t, state, args...)
	require.NoError(t, err, out)
	return out
}

func decodeOut[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

type dayOutput struct {
	Record shift.DayRecord `json:"record"`
	Result shift.DayResult `json:"result"`
}

// =============================================================================
// DAY
// =============================================================================

func TestDay_RecordThenShow(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.json")

	// WHEN a worked day is recorded with quick times
	out := mustRun(t, state, "-o", "json", "day", "2026-01-20",
		"--start", "8", "--end", "16", "--pause", "12-12h30@OFF_SITE", "--note", "dépôt")

	// THEN the result is computed and the state file created
	got := decodeOut[dayOutput](t, out)
	assert.Equal(t, shift.StatusWorked, got.Record.Status)
	assert.Equal(t, 450, got.Result.TTE)
	assert.FileExists(t, state)

	// WHEN the day is read back in a new invocation
	out = mustRun(t, state, "-o", "json", "day", "2026-01-20")

	// THEN the record survived the state file round trip
	got = decodeOut[dayOutput](t, out)
	require.NotNil(t, got.Record.Work)
	assert.Equal(t, "08:00", got.Record.Work.Start)
	assert.Equal(t, "16:00", got.Record.Work.End)
	require.Len(t, got.Record.Work.Pauses, 1)
	assert.NotEmpty(t, got.Record.Work.Pauses[0].ID)
	assert.Equal(t, "dépôt", got.Record.Note)
	assert.Equal(t, 450, got.Result.TTE)
}

func TestDay_TextOutput(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.json")

	out := mustRun(t, state, "day", "2026-01-20", "--start", "0800", "--end", "1600")

	assert.Contains(t, out, "08:00 - 16:00")
	assert.Contains(t, out, "8h00")
}

func TestDay_Errors(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.json")

	t.Run("missing day", func(t *testing.T) {
		_, err := run(t, state, "day", "2026-01-20")
		assert.ErrorIs(t, err, generic.ErrDayNotFound)
	})

	t.Run("times on a rest day", func(t *testing.T) {
		_, err := run(t, state, "day", "2026-01-20", "--status", "REST", "--start", "8")
		var dayErr *generic.InvalidDayError
		assert.ErrorAs(t, err, &dayErr)
	})

	t.Run("bad pause", func(t *testing.T) {
		_, err := run(t, state, "day", "2026-01-20", "--start", "8", "--end", "16", "--pause", "12h")
		assert.Error(t, err)
	})

	t.Run("bad output format", func(t *testing.T) {
		_, err := run(t, state, "-o", "yaml", "day", "2026-01-20")
		assert.Error(t, err)
	})
}

// =============================================================================
// IMPORT
// =============================================================================

func TestImport_ConflictModes(t *testing.T) {
	// GIVEN a stored day with times
	state := filepath.Join(t.TempDir(), "state.json")
	mustRun(t, state, "day", "2026-01-20", "--start", "8", "--end", "16")

	file := writeFile(t, "legacy.json", `[
		{"date": "2026-01-20", "status": "TRAVAIL", "start": "0900", "end": "1700", "pauses": []},
		{"date": "2026-01-21", "status": "REPOS"}
	]`)

	// WHEN importing in report mode
	out := mustRun(t, state, "-o", "json", "import", file)

	// THEN the safe day is applied and the conflict reported
	merged := decodeOut[shift.MergeResult](t, out)
	assert.Equal(t, []string{"2026-01-21"}, merged.Applied)
	require.Len(t, merged.Conflicts, 1)
	assert.Equal(t, "2026-01-20", merged.Conflicts[0].Date)

	rest := decodeOut[dayOutput](t, mustRun(t, state, "-o", "json", "day", "2026-01-21"))
	assert.Equal(t, shift.StatusRest, rest.Record.Status)

	kept := decodeOut[dayOutput](t, mustRun(t, state, "-o", "json", "day", "2026-01-20"))
	assert.Equal(t, "08:00", kept.Record.Work.Start)

	// WHEN importing again with overwrite
	mustRun(t, state, "import", "--on-conflict", "overwrite", file)

	// THEN the imported times win
	replaced := decodeOut[dayOutput](t, mustRun(t, state, "-o", "json", "day", "2026-01-20"))
	assert.Equal(t, "09:00", replaced.Record.Work.Start)
	assert.Equal(t, "17:00", replaced.Record.Work.End)
}

func TestImport_StateExportWithProfile(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.json")
	file := writeFile(t, "export.json", `{
		"profile": {"firstName": "Camille", "role": "N1", "rootDate": "2026-01-05", "weeklyBase": 35},
		"shifts": {"2026-01-06": {"status": "WORKED", "start": "07:00", "end": "14:00", "pauses": []}}
	}`)

	out := mustRun(t, state, "import", "--with-profile", file)
	assert.Contains(t, out, "1 appliqué")

	b, err := os.ReadFile(state)
	require.NoError(t, err)
	var st shift.State
	require.NoError(t, json.Unmarshal(b, &st))
	assert.Equal(t, "Camille", st.Profile.FirstName)
	assert.Equal(t, "2026-01-05", st.Profile.RootDate)
	assert.Contains(t, st.Shifts, "2026-01-06")
}

func TestImport_BadInput(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.json")

	_, err := run(t, state, "import", writeFile(t, "bad.json", "{not json"))
	assert.Error(t, err)

	_, err = run(t, state, "import", "--on-conflict", "merge", writeFile(t, "ok.json", "[]"))
	assert.Error(t, err)
}

// =============================================================================
// FORTNIGHT / SUMMARY
// =============================================================================

func TestFortnight(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.json")
	mustRun(t, state, "day", "2026-01-20", "--start", "8", "--end", "16", "--pause", "12-12:30@OFF_SITE")
	mustRun(t, state, "day", "2026-01-21", "--start", "8", "--end", "16", "--pause", "12-12:30@OFF_SITE")

	// WHEN aggregating the window of the default root date
	out := mustRun(t, state, "-o", "json", "fortnight", "2026-01-22")

	// THEN both days count in window 0
	fr := decodeOut[shift.FortnightResult](t, out)
	assert.Equal(t, 0, fr.Window.Index)
	assert.Equal(t, "2026-01-19", fr.Period.Start.Key())
	assert.Equal(t, "2026-02-01", fr.Period.End.Key())
	assert.Equal(t, 900, fr.TotalTTE)
	assert.Equal(t, 2, fr.WorkedDays)
	assert.Len(t, fr.Days, 14)

	text := mustRun(t, state, "fortnight", "2026-01-22")
	assert.Contains(t, text, "Quinzaine 0")
	assert.Contains(t, text, "15h00")
}

func TestSummary(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.json")
	mustRun(t, state, "day", "2026-01-27", "--start", "8", "--end", "16", "--pause", "12-12:30@OFF_SITE")

	t.Run("by id", func(t *testing.T) {
		sum := decodeOut[payroll.Summary](t, mustRun(t, state, "-o", "json", "summary", "2026-02"))
		assert.True(t, sum.Found)
		assert.True(t, sum.HasData)
		assert.Equal(t, 450, sum.TotalTTE)
		assert.Equal(t, 1, sum.WorkedDays)
	})

	t.Run("by date", func(t *testing.T) {
		sum := decodeOut[payroll.Summary](t, mustRun(t, state, "-o", "json", "summary", "--date", "2026-02-10"))
		assert.Equal(t, "2026-02", sum.PayPeriod.ID)
	})

	t.Run("text", func(t *testing.T) {
		out := mustRun(t, state, "summary", "2026-02")
		assert.Contains(t, out, "Février")
		assert.Contains(t, out, "7h30")
	})

	t.Run("unknown period", func(t *testing.T) {
		_, err := run(t, state, "summary", "1999-01")
		assert.ErrorIs(t, err, generic.ErrUnknownPayPeriod)
	})
}

// =============================================================================
// MATCH
// =============================================================================

func TestMatch(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.json")
	mustRun(t, state, "day", "2026-01-27", "--start", "8", "--end", "14")
	mustRun(t, state, "day", "2026-01-28", "--status", "REST")

	t.Run("concordant", func(t *testing.T) {
		file := writeFile(t, "employer.json", `[
			{"date": "2026-01-27", "status": "AR", "start": "08:00", "end": "14:00", "pauses": []},
			{"date": "2026-01-28", "status": "RH", "pauses": []}
		]`)

		res := decodeOut[reconcile.Result](t, mustRun(t, state, "-o", "json", "match", file))
		assert.Equal(t, 2, res.Total)
		assert.Equal(t, 2, res.Concordant)
		assert.Empty(t, res.Days)
	})

	t.Run("late start on the statement", func(t *testing.T) {
		file := writeFile(t, "employer.json", `[
			{"date": "2026-01-27", "status": "AR", "start": "09:00", "end": "14:00", "pauses": []}
		]`)

		out, err := run(t, state, "-o", "json", "match", "--fail-on-error", file)
		require.Error(t, err)

		res := decodeOut[reconcile.Result](t, out)
		require.Len(t, res.Days, 1)
		assert.Equal(t, "2026-01-27", res.Days[0].Date)
		assert.Equal(t, reconcile.KindStart, res.Days[0].Items[0].Kind)
		assert.Equal(t, generic.SeverityError, res.Days[0].Items[0].Severity)

		text, err := run(t, state, "match", file)
		require.NoError(t, err)
		assert.Contains(t, text, "0/1 concordants")
	})

	t.Run("pay period filter", func(t *testing.T) {
		file := writeFile(t, "employer.json", `[
			{"date": "2026-01-20", "status": "AR", "start": "09:00", "end": "14:00", "pauses": []},
			{"date": "2026-01-27", "status": "AR", "start": "08:00", "end": "14:00", "pauses": []}
		]`)

		res := decodeOut[reconcile.Result](t, mustRun(t, state, "-o", "json", "match", "--pay-period", "2026-02", file))
		assert.Equal(t, 1, res.Total)
		assert.Equal(t, 1, res.Concordant)
	})

	t.Run("save needs a database", func(t *testing.T) {
		_, err := run(t, state, "match", "--save", writeFile(t, "e.json", "[]"))
		assert.Error(t, err)
	})
}

// =============================================================================
// EXPORT
// =============================================================================

func TestExport(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.json")
	mustRun(t, state, "day", "2026-01-27", "--start", "8", "--end", "16")

	t.Run("csv to stdout", func(t *testing.T) {
		out := mustRun(t, state, "export", "2026-02", "--format", "csv", "--out", "-")
		lines := strings.Split(strings.TrimSpace(out), "\n")
		assert.Equal(t, "Date;Jour;Statut;Debut;Fin;Pauses;TTE;Indemnites;Note", lines[0])
		assert.Contains(t, out, "2026-01-27;")
	})

	t.Run("pdf to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sheet.pdf")
		out := mustRun(t, state, "export", "2026-02", "--out", path)
		assert.Contains(t, out, path)

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := run(t, state, "export", "2026-02", "--format", "xlsx")
		assert.Error(t, err)
	})
}
