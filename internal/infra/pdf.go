package infra

// pdf.go — payment booklet generation using go-pdf/fpdf.
// Generates an A5 "carnê" style document for a sale: header with customer and
// totals, then one row per installment (number, amount, due date, status,
// payment date). The output file is saved to storagePath/booklet_{saleID}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/josecarlos19/top-vendas-sub000/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateBookletPDF renders the installment schedule of a sale to a PDF file
// and returns the absolute path of the generated file. The sale must have its
// Customer and Installments loaded.
func GenerateBookletPDF(sale *model.Sale, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("booklet_%s.pdf", sale.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Payment Booklet", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	customer := ""
	if sale.Customer != nil {
		customer = sale.Customer.Name
	}
	pdf.CellFormat(contentW, 5, "Customer: "+customer, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Sale date: "+sale.SaleDate.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Total: $%s in %d installment(s)", sale.Total.StringFixed(2), sale.InstallmentCount), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Schedule table ────────────────────────────────────────────────────────
	col1 := contentW * 0.10 // number
	col2 := contentW * 0.25 // amount
	col3 := contentW * 0.25 // due date
	col4 := contentW * 0.20 // status
	col5 := contentW * 0.20 // payment date

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 6, "#", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Amount", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col3, 6, "Due date", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col4, 6, "Status", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col5, 6, "Paid on", "B", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, inst := range sale.Installments {
		paidOn := "-"
		if inst.PaymentDate != nil {
			paidOn = inst.PaymentDate.Format("02/01/2006")
		}
		pdf.CellFormat(col1, 6, fmt.Sprintf("%d", inst.Number), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, "$"+inst.Amount.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col3, 6, inst.DueDate.Format("02/01/2006"), "", 0, "C", false, 0, "")
		pdf.CellFormat(col4, 6, string(inst.Status), "", 0, "C", false, 0, "")
		pdf.CellFormat(col5, 6, paidOn, "", 1, "C", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Keep this booklet until the last installment is settled.", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write booklet: %w", err)
	}
	return filePath, nil
}
