package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/warp/shiftlock/generic"
	"github.com/warp/shiftlock/shift"
)

type dayFlags struct {
	status string
	start  string
	end    string
	pauses []string
	night  bool
	note   string
}

func newDayCmd(opts *options) *cobra.Command {
	f := &dayFlags{}

	cmd := &cobra.Command{
		Use:   "day DATE",
		Short: "Show or record one day",
		Long: `Without flags, day prints the stored record of DATE with its result.
With any of --status, --start, --end, --pause, --night or --note it replaces
the record first. Times accept the quick forms 8, 730, 7h30 and 07:30.

Pauses are START-END, optionally followed by @ON_SITE, @OFF_SITE or @HOME:
  shiftlock day 2026-01-20 --start 7h --end 15h --pause 11:30-12:00@ON_SITE`,
		Example: "  shiftlock --state me.json day 2026-01-20 --status REST",
		Args:    cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			ctx := cmd.Context()
			day, err := generic.ParseDate(args[0])
			if err != nil {
				return err
			}

			var rec shift.DayRecord
			if f.editing(cmd) {
				if rec, err = f.record(day.Key()); err != nil {
					return err
				}
				if err := s.store.SaveDay(ctx, rec); err != nil {
					return err
				}
				if err := s.Save(ctx); err != nil {
					return err
				}
				s.logger.Info("day recorded", "date", rec.Date, "status", rec.Status)
			} else if rec, err = s.store.GetDay(ctx, day.Key()); err != nil {
				return fmt.Errorf("%s: %w", day.Key(), err)
			}

			shifts, err := s.store.LoadRange(ctx, day.AddDays(-1), day)
			if err != nil {
				return err
			}
			res := shift.CalculateWithAlerts(shifts, rec, s.rules.Rules)

			if s.json {
				return s.writeJSON(struct {
					Record shift.DayRecord `json:"record"`
					Result shift.DayResult `json:"result"`
				}{rec, res})
			}
			renderDay(s.out, rec, res)
			return nil
		}),
	}

	fl := cmd.Flags()
	fl.StringVar(&f.status, "status", "", "WORKED, REST, PAID_LEAVE, SICK, TRAINING, HOLIDAY or EMPTY (legacy names accepted)")
	fl.StringVar(&f.start, "start", "", "shift start")
	fl.StringVar(&f.end, "end", "", "shift end (may be past midnight)")
	fl.StringArrayVar(&f.pauses, "pause", nil, "pause START-END[@LOCATION], repeatable")
	fl.BoolVar(&f.night, "night", false, "flag the shift as night work")
	fl.StringVar(&f.note, "note", "", "free-text note")
	return cmd
}

func (f *dayFlags) editing(cmd *cobra.Command) bool {
	for _, name := range []string{"status", "start", "end", "pause", "night", "note"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// record builds the day from the flags. Times imply a worked day.
func (f *dayFlags) record(date string) (shift.DayRecord, error) {
	status := shift.ParseStatus(f.status)
	if f.status == "" {
		status = shift.StatusEmpty
		if f.start != "" || f.end != "" {
			status = shift.StatusWorked
		}
	}

	rec := shift.NewDay(date, status)
	rec.Note = f.note
	w, ok := rec.Worked()
	if !ok {
		if f.start != "" || f.end != "" || len(f.pauses) > 0 {
			return rec, &generic.InvalidDayError{Date: date, Reason: "only worked days carry times"}
		}
		return rec, nil
	}

	var err error
	if w.Start, err = quickTime("start", f.start); err != nil {
		return rec, err
	}
	if w.End, err = quickTime("end", f.end); err != nil {
		return rec, err
	}
	w.IsNight = f.night
	for _, raw := range f.pauses {
		p, err := parsePause(raw)
		if err != nil {
			return rec, err
		}
		w.Pauses = append(w.Pauses, p)
	}
	return rec, nil
}

// quickTime normalizes a time flag; an empty flag stays empty.
func quickTime(name, v string) (string, error) {
	if strings.TrimSpace(v) == "" {
		return "", nil
	}
	t := generic.ParseQuickTime(v)
	if t == "" {
		return "", fmt.Errorf("--%s: %q is not a time", name, v)
	}
	return t, nil
}

func parsePause(raw string) (shift.Pause, error) {
	bounds, loc, _ := strings.Cut(raw, "@")
	from, to, ok := strings.Cut(bounds, "-")
	if !ok {
		return shift.Pause{}, fmt.Errorf("--pause %q: want START-END", raw)
	}
	start, err := quickTime("pause", from)
	if err != nil {
		return shift.Pause{}, err
	}
	end, err := quickTime("pause", to)
	if err != nil {
		return shift.Pause{}, err
	}
	return shift.Pause{
		ID:       uuid.NewString(),
		Start:    start,
		End:      end,
		Location: shift.ParsePauseLocation(loc),
	}, nil
}
