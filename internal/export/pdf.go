// Package export renders the reconciled monthly sheet as a PDF.
package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pbmartins/estoque/internal/inventory"
)

const (
	colCode     = 22.0
	colName     = 88.0
	colQuantity = 20.0
)

// RenderSheet produces the printable month sheet: one table with category
// section rows, quantity columns and a totals footer.
func RenderSheet(title, month string, sheet []inventory.LineItem) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(title), false)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Mês: %s", month)), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	writeHeader(pdf, tr)

	var totalPrevious, totalReceived, totalCurrent, totalOutgoing int
	for _, li := range sheet {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			writeHeader(pdf, tr)
		}
		if li.IsCategory {
			pdf.SetFont("Helvetica", "B", 9)
			pdf.SetFillColor(230, 230, 230)
			pdf.CellFormat(colCode+colName+4*colQuantity, 6, tr(li.Name), "1", 1, "L", true, 0, "")
			continue
		}

		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(colCode, 6, tr(li.Code), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colName, 6, tr(li.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colQuantity, 6, inventory.FormatQuantity(li.Previous), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colQuantity, 6, inventory.FormatQuantity(li.Received), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colQuantity, 6, inventory.FormatQuantity(li.Current), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colQuantity, 6, inventory.FormatQuantity(li.Outgoing), "1", 1, "R", false, 0, "")

		totalPrevious += li.Previous
		totalReceived += li.Received
		totalCurrent += li.Current
		totalOutgoing += li.Outgoing
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colCode+colName, 6, tr("Total"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(colQuantity, 6, inventory.FormatQuantity(totalPrevious), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colQuantity, 6, inventory.FormatQuantity(totalReceived), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colQuantity, 6, inventory.FormatQuantity(totalCurrent), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colQuantity, 6, inventory.FormatQuantity(totalOutgoing), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(pdf *fpdf.Fpdf, tr func(string) string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(colCode, 6, tr("Código"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(colName, 6, tr("Publicação"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(colQuantity, 6, tr("Anterior"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(colQuantity, 6, tr("Recebido"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(colQuantity, 6, tr("Atual"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(colQuantity, 6, tr("Saída"), "1", 1, "C", true, 0, "")
}
