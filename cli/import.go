package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/warp/shiftlock/shift"
)

// importFile is any of the accepted import shapes: a state export, a
// {"days": [...]} document or a bare array of days.
type importFile struct {
	Profile *shift.Profile    `json:"profile"`
	Shifts  shift.Shifts      `json:"shifts"`
	Days    []shift.DayRecord `json:"days"`
}

func newImportCmd(opts *options) *cobra.Command {
	var onConflict string
	var withProfile bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Merge a legacy JSON export into the state",
		Long: `import merges the days of FILE ("-" for stdin) into the stored days.
Legacy status and pause names are normalized and quick times expanded.

A stored day with times conflicts with an imported day whose times differ.
--on-conflict=report (default) lists conflicts and leaves those days alone;
keep and overwrite resolve them all. Every other day is applied, in one
atomic write.`,
		Args: cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, s *session, args []string) error {
			ctx := cmd.Context()
			choice, err := parseOnConflict(onConflict)
			if err != nil {
				return err
			}

			in, err := readImport(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			st, err := s.store.LoadState(ctx)
			if err != nil {
				return err
			}
			merged := shift.Merge(st.Shifts, in.records())
			if choice != "" {
				merged.Resolve(choice)
			}

			if err := s.store.ImportDays(ctx, merged.Changed()); err != nil {
				return err
			}
			if withProfile && in.Profile != nil {
				if err := s.store.SaveProfile(ctx, *in.Profile); err != nil {
					return err
				}
			}
			if err := s.Save(ctx); err != nil {
				return err
			}
			s.logger.Info("import merged", "applied", len(merged.Applied), "conflicts", len(merged.Conflicts))

			if s.json {
				return s.writeJSON(merged)
			}
			renderMerge(s, merged)
			return nil
		}),
	}

	cmd.Flags().StringVar(&onConflict, "on-conflict", "report", "report, keep or overwrite")
	cmd.Flags().BoolVar(&withProfile, "with-profile", false, "also replace the profile when FILE carries one")
	return cmd
}

func parseOnConflict(v string) (shift.Choice, error) {
	switch v {
	case "report":
		return "", nil
	case string(shift.ChoiceKeep), string(shift.ChoiceOverwrite):
		return shift.Choice(v), nil
	default:
		return "", fmt.Errorf("--on-conflict must be report, keep or overwrite, got %q", v)
	}
}

func readImport(stdin io.Reader, path string) (importFile, error) {
	var b []byte
	var err error
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return importFile{}, fmt.Errorf("read %s: %w", path, err)
	}

	var in importFile
	if trimmed := bytes.TrimSpace(b); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &in.Days)
	} else {
		err = json.Unmarshal(b, &in)
	}
	if err != nil {
		return importFile{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return in, nil
}

// records flattens the file into day records; map keys fill missing dates.
func (in importFile) records() []shift.DayRecord {
	out := append([]shift.DayRecord(nil), in.Days...)
	keys := make([]string, 0, len(in.Shifts))
	for k := range in.Shifts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rec := in.Shifts[k]
		if rec.Date == "" {
			rec.Date = k
		}
		out = append(out, rec)
	}
	return out
}

func renderMerge(s *session, m shift.MergeResult) {
	fmt.Fprintf(s.out, "%s  %d appliqué(s), %d inchangé(s), %d conflit(s)\n",
		titleStyle.Render("Import"), len(m.Applied), len(m.Unchanged), len(m.Conflicts))
	if len(m.Conflicts) == 0 {
		return
	}

	t := newTable("Date", "Existant", "Importé")
	for _, c := range m.Conflicts {
		t.Row(c.Date, timesText(c.Existing), warnStyle.Render(timesText(c.Imported)))
	}
	fmt.Fprintln(s.out, t.Render())
	fmt.Fprintln(s.out, dimStyle.Render("Relancer avec --on-conflict=keep ou --on-conflict=overwrite."))
}

func timesText(rec shift.DayRecord) string {
	w, ok := rec.Worked()
	if !ok {
		return string(rec.Status)
	}
	return w.Start + "-" + w.End
}
