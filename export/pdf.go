package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/warp/shiftlock/generic"
)

const (
	pageWidth = 210.0
	margin    = 12.0
	rowHeight = 7.0
	pageLimit = 275.0
)

type pdfColumn struct {
	title string
	x, w  float64
}

var pdfColumns = []pdfColumn{
	{"Jour", 0, 10},
	{"Date", 10, 18},
	{"Statut", 28, 20},
	{"Début", 48, 13},
	{"Fin", 61, 13},
	{"Pauses", 74, 42},
	{"TTE", 116, 16},
	{"Indemnité", 132, 24},
	{"Note", 156, pageWidth - 2*margin - 156},
}

// WritePDF renders the sheet on A4 portrait pages followed by a totals box.
func WritePDF(w io.Writer, s Sheet) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 8, "SHIFTLOCK")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	title := fmt.Sprintf("Relevé de temps - %s (%s au %s)", s.PayPeriod.Label,
		s.PayPeriod.Period.Start.FrenchDate(), s.PayPeriod.Period.End.FrenchDate())
	pdf.Cell(0, 5, tr(title))
	pdf.Ln(5)
	if s.Worker != "" {
		pdf.Cell(0, 5, tr(s.Worker))
		pdf.Ln(5)
	}
	pdf.Ln(3)

	header := func() {
		pdf.SetFont("Helvetica", "B", 7)
		pdf.SetFillColor(15, 23, 42)
		pdf.SetTextColor(34, 211, 238)
		y := pdf.GetY()
		for _, c := range pdfColumns {
			pdf.SetXY(margin+c.x, y)
			pdf.CellFormat(c.w, rowHeight, tr(c.title), "", 0, "L", true, 0, "")
		}
		pdf.Ln(rowHeight)
		pdf.SetTextColor(0, 0, 0)
	}
	header()

	for _, r := range s.Rows {
		if pdf.GetY() > pageLimit {
			pdf.AddPage()
			header()
		}
		fill := r.Weekend()
		if fill {
			pdf.SetFillColor(235, 238, 243)
		}
		cells := []string{r.Date.ShortDayName(), r.Date.FrenchDate(), "", "", "", "", "", "", ""}
		if !r.Empty {
			cells[2] = string(r.Status)
			cells[3], cells[4], cells[5] = r.Start, r.End, r.Pauses
			cells[6], cells[7], cells[8] = r.TTEText(), r.AllowanceText(), r.Note
		}

		y := pdf.GetY()
		pdf.SetFont("Helvetica", "", 7)
		for i, c := range pdfColumns {
			pdf.SetXY(margin+c.x, y)
			pdf.CellFormat(c.w, rowHeight, clip(pdf, tr(cells[i]), c.w-1), "B", 0, "L", fill, 0, "")
		}
		pdf.Ln(rowHeight)
	}

	pdf.Ln(6)
	if pdf.GetY() > 260 {
		pdf.AddPage()
	}
	totals := []struct{ label, value string }{
		{"TTE total", generic.MinutesToDuration(s.TotalTTE)},
		{"IR perçus", s.FullMealPaid.Value.StringFixed(2) + "€"},
		{"IRU perçus", s.ReducedPaid.Value.StringFixed(2) + "€"},
		{"IS perçus", s.SpecialPaid.Value.StringFixed(2) + "€"},
	}
	colW := (pageWidth - 2*margin) / float64(len(totals))
	y := pdf.GetY()
	for i, t := range totals {
		pdf.SetXY(margin+colW*float64(i), y)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(colW, 6, tr(t.label), "T", 0, "C", false, 0, "")
		pdf.SetXY(margin+colW*float64(i), y+6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(colW, 8, tr(t.value), "", 0, "C", false, 0, "")
	}

	pdf.SetXY(margin, 285)
	pdf.SetFont("Helvetica", "", 6)
	footer := fmt.Sprintf("Généré le %s par ShiftLock - Document non contractuel", s.GeneratedAt.Format("02/01/2006"))
	pdf.CellFormat(pageWidth-2*margin, 4, tr(footer), "", 0, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// clip shortens text to fit width, the way a spreadsheet cell would.
func clip(pdf *fpdf.Fpdf, text string, width float64) string {
	for len(text) > 0 && pdf.GetStringWidth(text) > width {
		text = text[:len(text)-1]
	}
	return text
}
