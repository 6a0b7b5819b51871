package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/shiftlock/export"
	"github.com/warp/shiftlock/generic"
)

func newExportCmd(opts *options) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export PAY_PERIOD",
		Short: "Write the time sheet of a pay period (CSV or PDF)",
		Long: `export renders one line per day of PAY_PERIOD with times, pauses, worked
time and allowances. The file is named after the period unless --out is
given; --out - writes to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			if format != "csv" && format != "pdf" {
				return fmt.Errorf("--format must be csv or pdf, got %q", format)
			}
			pp, ok := s.rules.Calendar.Lookup(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", generic.ErrUnknownPayPeriod, args[0])
			}

			st, err := s.store.LoadState(cmd.Context())
			if err != nil {
				return err
			}
			sheet := export.BuildSheet(pp, st, s.rules.Rates, s.rules.Rules)

			var buf bytes.Buffer
			if format == "csv" {
				err = export.WriteCSV(&buf, sheet)
			} else {
				err = export.WritePDF(&buf, sheet)
			}
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}

			if out == "-" {
				_, err = s.out.Write(buf.Bytes())
				return err
			}
			if out == "" {
				out = export.FileName(sheet, format)
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			s.logger.Info("export written", "path", out, "bytes", buf.Len())
			fmt.Fprintln(s.out, out)
			return nil
		}),
	}

	cmd.Flags().StringVar(&format, "format", "pdf", "csv or pdf")
	cmd.Flags().StringVar(&out, "out", "", "output path, - for stdout")
	return cmd
}
