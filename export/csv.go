package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

var csvHeader = []string{"Date", "Jour", "Statut", "Debut", "Fin", "Pauses", "TTE", "Indemnites", "Note"}

// WriteCSV writes one line per day, separated by ';' as spreadsheet
// software expects in the French locale.
func WriteCSV(w io.Writer, s Sheet) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range s.Rows {
		record := []string{r.Date.Key(), r.Date.ShortDayName(), string(r.Status)}
		if r.Empty {
			record = append(record, "", "", "", "", "", "")
		} else {
			record = append(record, r.Start, r.End, r.Pauses, r.TTEText(), r.AllowanceText(), r.Note)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.Date.Key(), err)
		}
	}
	cw.Flush()
	return cw.Error()
}
