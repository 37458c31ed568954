package document

import (
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const ContentTypePDF = "application/pdf"

// WritePDF renders the sheet as a landscape table report. Column widths are
// scaled to the page width.
func WritePDF(w io.Writer, title string, sheet Sheet) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	widths := scaledWidths(sheet.Columns, 277)
	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(221, 235, 247)
		for i, c := range sheet.Columns {
			pdf.CellFormat(widths[i], 7, tr(c.Name), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(12)
	header()
	_, pageHeight := pdf.GetPageSize()
	for _, row := range sheet.Rows {
		if pdf.GetY()+6 > pageHeight-12 {
			pdf.AddPage()
			header()
		}
		for i := range sheet.Columns {
			value := ""
			if i < len(row) {
				value = pdfSafe(row[i])
			}
			pdf.CellFormat(widths[i], 6, tr(value), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf.Output(w)
}

func scaledWidths(columns []Column, total float64) []float64 {
	sum := 0.0
	for _, c := range columns {
		sum += max(c.Width, 1)
	}
	out := make([]float64, len(columns))
	for i, c := range columns {
		out[i] = max(c.Width, 1) / sum * total
	}
	return out
}

// pdfSafe replaces glyphs the core fonts cannot draw.
func pdfSafe(v string) string {
	return strings.ReplaceAll(v, "✓", "*")
}
