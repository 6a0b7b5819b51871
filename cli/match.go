package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/warp/shiftlock/generic"
	"github.com/warp/shiftlock/reconcile"
	"github.com/warp/shiftlock/store/sqlite"
)

func newMatchCmd(opts *options) *cobra.Command {
	var payPeriod string
	var save, failOnError bool

	cmd := &cobra.Command{
		Use:   "match STATEMENT",
		Short: "Compare an employer statement with the recorded days",
		Long: `match reads the employer statement STATEMENT ("-" for stdin), either the
text copied from the statement PDF or a JSON array of employer days, and
lists every day where it disagrees with the recorded days.

With --db and --save, the employer days and the run are stored as the
server would store them.`,
		Args: cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			ctx := cmd.Context()
			if save && s.db == nil {
				return fmt.Errorf("--save needs --db")
			}

			days, err := readStatement(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			var period generic.Period
			if payPeriod != "" {
				pp, ok := s.rules.Calendar.Lookup(payPeriod)
				if !ok {
					return fmt.Errorf("%w: %s", generic.ErrUnknownPayPeriod, payPeriod)
				}
				period = pp.Period
				days = reconcile.Filter(days, period)
			}

			st, err := s.store.LoadState(ctx)
			if err != nil {
				return err
			}
			result := reconcile.Match(st.Shifts, days, s.rules.Tolerance)

			if save {
				if err := s.db.SaveEmployerDays(ctx, days); err != nil {
					return err
				}
				run, err := s.db.SaveReconciliationRun(ctx, sqlite.ReconciliationRun{
					PayPeriod: payPeriod,
					Period:    period,
					Result:    result,
				})
				if err != nil {
					return err
				}
				s.logger.Info("reconciliation run saved", "run_id", run.ID)
			}

			if s.json {
				err = s.writeJSON(result)
			} else {
				renderMatch(s, result)
			}
			if err == nil && failOnError && result.Errors() > 0 {
				err = fmt.Errorf("%d discrepancies of error severity", result.Errors())
			}
			return err
		}),
	}

	cmd.Flags().StringVar(&payPeriod, "pay-period", "", "only compare days of this pay period")
	cmd.Flags().BoolVar(&save, "save", false, "store employer days and the run (needs --db)")
	cmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "exit non-zero when an error-severity discrepancy is found")
	return cmd
}

func readStatement(stdin io.Reader, path string) ([]reconcile.EmployerDay, error) {
	var b []byte
	var err error
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if trimmed := bytes.TrimSpace(b); len(trimmed) > 0 && trimmed[0] == '[' {
		var days []reconcile.EmployerDay
		if err := json.Unmarshal(trimmed, &days); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return days, nil
	}
	return reconcile.ParseStatement(bytes.NewReader(b))
}

func renderMatch(s *session, r reconcile.Result) {
	status := okStyle.Render("concordant")
	if len(r.Days) > 0 {
		status = severityStyle(worst(r)).Render(fmt.Sprintf("%d jour(s) à vérifier", len(r.Days)))
	}
	fmt.Fprintf(s.out, "%s  %d/%d concordants, %s\n", titleStyle.Render("Rapprochement"), r.Concordant, r.Total, status)

	for _, d := range r.Days {
		fmt.Fprintln(s.out, severityStyle(d.Severity()).Render(d.Label))
		for _, it := range d.Items {
			line := fmt.Sprintf("  %-14s moi %-11s employeur %-11s", it.Kind, it.Self, it.Employer)
			fmt.Fprintln(s.out, strings.TrimRight(line, " ")+"  "+dimStyle.Render(it.Message))
		}
	}
}

func worst(r reconcile.Result) generic.Severity {
	var sev generic.Severity
	for _, d := range r.Days {
		sev = sev.Worse(d.Severity())
	}
	return sev
}
