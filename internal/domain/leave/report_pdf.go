package leave

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF turns a report model into PDF bytes. Layout decisions live in
// BuildReport; this only draws.
func RenderPDF(report Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, report.Title)
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 12)
	for _, row := range report.Rows {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(50, 8, row.Label)
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(0, 8, row.Value)
		pdf.Ln(8)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, report.ReasonHeading)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 6, report.Reason, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
