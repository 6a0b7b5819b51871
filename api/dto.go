/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures that are specific to the HTTP contract. Core
  results (shift.DayResult, shift.FortnightResult, payroll.Summary,
  reconcile.Result) are already JSON-tagged and are returned as they are;
  the types here wrap them or describe request bodies.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/rules.go: RulesJSON, the body of GET/PUT /api/rules
*/
package api

import (
	"github.com/warp/shiftlock/payroll"
	"github.com/warp/shiftlock/reconcile"
	"github.com/warp/shiftlock/shift"
)

// =============================================================================
// DAYS
// =============================================================================

// DayDTO is a stored record next to its derived result.
type DayDTO struct {
	Record shift.DayRecord `json:"record"`
	Result shift.DayResult `json:"result"`
}

// =============================================================================
// IMPORT
// =============================================================================

// ImportRequest carries day records in the flat legacy shape. Either field
// may be used; "shifts" accepts the map form of an exported state.
type ImportRequest struct {
	Days   []shift.DayRecord `json:"days"`
	Shifts shift.Shifts      `json:"shifts"`
}

// ImportResponse reports what an import did. Conflicts are only listed when
// on_conflict=report left them unresolved.
type ImportResponse struct {
	OnConflict string           `json:"on_conflict"`
	Applied    []string         `json:"applied"`
	Unchanged  []string         `json:"unchanged"`
	Conflicts  []shift.Conflict `json:"conflicts"`
}

// =============================================================================
// PAY PERIODS
// =============================================================================

// PayPeriodDTO is one row of the pay-period table.
type PayPeriodDTO struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func toPayPeriodDTO(pp payroll.PayPeriod) PayPeriodDTO {
	return PayPeriodDTO{
		ID:    pp.ID,
		Label: pp.Label,
		Start: pp.Period.Start.Key(),
		End:   pp.Period.End.Key(),
	}
}

// =============================================================================
// RECONCILIATION
// =============================================================================

// ReconcileRequest selects the employer days to match. Days take precedence
// over Statement (raw statement text). PayPeriod restricts both to the
// period; when it is empty, From/To do, and when those are empty too, the
// whole statement is used.
type ReconcileRequest struct {
	PayPeriod string                  `json:"pay_period"`
	From      string                  `json:"from"`
	To        string                  `json:"to"`
	Days      []reconcile.EmployerDay `json:"days"`
	Statement string                  `json:"statement"`
	// Stored makes the handler reuse the employer days saved by an earlier
	// request instead of reading Days or Statement.
	Stored bool `json:"stored"`
}

// RunDTO is a stored reconciliation run.
type RunDTO struct {
	ID          string           `json:"id"`
	PayPeriod   string           `json:"pay_period,omitempty"`
	PeriodStart string           `json:"period_start"`
	PeriodEnd   string           `json:"period_end"`
	Errors      int              `json:"errors"`
	Result      reconcile.Result `json:"result"`
	CreatedAt   string           `json:"created_at"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// LoadScenarioRequest is the body of POST /api/scenarios/load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
