package cli

import (
	"github.com/spf13/cobra"
	"github.com/warp/shiftlock/generic"
	"github.com/warp/shiftlock/shift"
)

func newFortnightCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fortnight [DATE]",
		Short: "Aggregate the 14-day window containing DATE (default today)",
		Long: `fortnight prints every day of the window containing DATE with its worked
time, allowance and alerts, then the window totals and overtime bands.
Windows are anchored on the profile's root date.`,
		Args: cobra.MaximumNArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			day := generic.Today()
			if len(args) == 1 {
				var err error
				if day, err = generic.ParseDate(args[0]); err != nil {
					return err
				}
			}

			st, err := s.store.LoadState(cmd.Context())
			if err != nil {
				return err
			}
			fr := shift.AggregateFortnight(st.Shifts, st.Profile.Root(), day, s.rules.Rules)

			if s.json {
				return s.writeJSON(fr)
			}
			renderFortnight(s.out, st, fr)
			return nil
		}),
	}
}
