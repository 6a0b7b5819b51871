/*
Package cli is the shiftlock command line: the same engine as the server,
run over a JSON state file or the server's SQLite database.

COMMANDS:
  day        Show or record one day
  import     Merge a legacy JSON export into the state
  fortnight  Aggregate the 14-day window containing a date
  summary    Worked time and estimated pay of a pay period
  match      Compare an employer statement with the recorded days
  export     Write the time sheet of a pay period (CSV or PDF)

STORAGE:
  --db PATH      SQLite database shared with the server
  --state PATH   JSON state file ({"profile":..., "shifts":{...}})
  neither        In-memory state, nothing persisted

SEE ALSO:
  - cmd/shiftlock/main.go: Entry point
  - api/handlers.go: HTTP equivalents of these commands
*/
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// options holds the persistent flags.
type options struct {
	statePath string
	dbPath    string
	rulesPath string
	output    string
	logLevel  string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "shiftlock",
		Short: "ShiftLock - worked time, meal allowances and pay for shift workers",
		Long: `shiftlock computes effective working time, meal allowances, overtime
and estimated pay from the days a worker records, and checks them against
the employer's statement.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case "text", "json":
				return nil
			default:
				return fmt.Errorf("--output must be text or json, got %q", opts.output)
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.statePath, "state", "", "JSON state file")
	pf.StringVar(&opts.dbPath, "db", "", "SQLite database (takes precedence over --state)")
	pf.StringVar(&opts.rulesPath, "rules", "", "rules JSON document (defaults to stored or built-in rules)")
	pf.StringVarP(&opts.output, "output", "o", "text", "output format: text, json")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newDayCmd(opts),
		newImportCmd(opts),
		newFortnightCmd(opts),
		newSummaryCmd(opts),
		newMatchCmd(opts),
		newExportCmd(opts),
	)
	return root
}

// Execute is the entry point called from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
