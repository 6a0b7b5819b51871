package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warp/shiftlock/generic"
	"github.com/warp/shiftlock/payroll"
)

func newSummaryCmd(opts *options) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "summary [PAY_PERIOD]",
		Short: "Worked time and estimated pay of a pay period",
		Long: `summary totals the days of a pay period (e.g. 2026-02), splits overtime
per fortnight and estimates gross and net pay at the profile's level.
Without PAY_PERIOD, the period containing --date (default today) is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			cal := s.rules.Calendar

			var id string
			switch {
			case len(args) == 1:
				id = args[0]
			default:
				day := generic.Today()
				if date != "" {
					var err error
					if day, err = generic.ParseDate(date); err != nil {
						return err
					}
				}
				pp, ok := cal.ForDate(day)
				if !ok {
					return fmt.Errorf("%w: no period contains %s", generic.ErrUnknownPayPeriod, day.Key())
				}
				id = pp.ID
			}
			if _, ok := cal.Lookup(id); !ok {
				return fmt.Errorf("%w: %s", generic.ErrUnknownPayPeriod, id)
			}

			st, err := s.store.LoadState(cmd.Context())
			if err != nil {
				return err
			}
			sum := payroll.Summarize(id, st, cal, s.rules.Rates, s.rules.Rules)

			if s.json {
				return s.writeJSON(sum)
			}
			renderSummary(s, sum, st.Profile.MoneyMode)
			return nil
		}),
	}

	cmd.Flags().StringVar(&date, "date", "", "pick the pay period containing this date")
	return cmd
}

func renderSummary(s *session, sum payroll.Summary, money bool) {
	pp := sum.PayPeriod
	fmt.Fprintln(s.out, titleStyle.Render(fmt.Sprintf("%s (%s - %s)",
		pp.Label, pp.Period.Start.FrenchDate(), pp.Period.End.FrenchDate())))
	if !sum.HasData {
		fmt.Fprintln(s.out, dimStyle.Render("Aucun jour saisi sur la période."))
		return
	}

	t := newTable("Quinzaine", "Du", "Au", "TTE", "HS 25%", "HS 50%")
	for _, fr := range sum.Fortnights {
		label := fmt.Sprint(fr.Window.Index)
		if fr.Clipped {
			label += "*"
		}
		t.Row(label, fr.Period.Start.Label(), fr.Period.End.Label(), duration(fr.TotalTTE), duration(fr.Band1), duration(fr.Band2))
	}
	fmt.Fprintln(s.out, t.Render())

	pairs := [][2]string{
		{"Total TTE", generic.MinutesToDuration(sum.TotalTTE)},
		{"Jours travaillés", fmt.Sprint(sum.WorkedDays)},
		{"IR / IRU / IS", fmt.Sprintf("%d / %d / %d", sum.Allowances.FullMeal, sum.Allowances.Reduced, sum.Allowances.Special)},
	}
	if money {
		pairs = append(pairs,
			[2]string{"Taux horaire " + string(sum.Level), sum.HourlyRate.String()},
			[2]string{"Base", sum.Base.String()},
			[2]string{"Heures sup.", sum.OvertimePay.String()},
			[2]string{"Indemnités", sum.AllowanceTotal.String()},
			[2]string{"Brut estimé", okStyle.Render(sum.Gross.String())},
			[2]string{"Net estimé", okStyle.Render(sum.Net.String())},
		)
	}
	keyValues(s.out, pairs)
}
