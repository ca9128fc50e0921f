package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/dmartell/clientia-api/internal/models"
	"github.com/dmartell/clientia-api/internal/repository"
)

// ExportService produces downloadable snapshots of the reconciliation ledger
type ExportService struct {
	bankTxRepo repository.BankTransactionRepository
}

func NewExportService(bankTxRepo repository.BankTransactionRepository) *ExportService {
	return &ExportService{bankTxRepo: bankTxRepo}
}

func (s *ExportService) load(ctx context.Context, companyID uint) ([]models.BankTransaction, *repository.BankTransactionStats, error) {
	query := &repository.BankTransactionQuery{ListQuery: repository.NewListQuery()}
	query.PerPage = 0 // full dump, no pagination

	transactions, _, err := s.bankTxRepo.List(ctx, companyID, query)
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.bankTxRepo.GetStats(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}
	return transactions, stats, nil
}

// ExportReconciliationCSV dumps the ledger as CSV
func (s *ExportService) ExportReconciliationCSV(ctx context.Context, companyID uint) ([]byte, string, error) {
	transactions, stats, err := s.load(ctx, companyID)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Conciliación bancaria", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Resumen"})
	_ = writer.Write([]string{"Movimientos", fmt.Sprintf("%d", stats.Total)})
	_ = writer.Write([]string{"Conciliados", fmt.Sprintf("%d", stats.Reconciled)})
	_ = writer.Write([]string{"Pendientes", fmt.Sprintf("%d", stats.Pending)})
	_ = writer.Write([]string{"Importe sin asignar", fmt.Sprintf("%.2f", stats.UnallocatedTotal)})
	_ = writer.Write([]string{""})

	_ = writer.Write([]string{"Fecha", "Concepto", "Importe", "Conciliado", "Restante", "Estado"})
	for _, t := range transactions {
		status := "pendiente"
		if t.IsReconciled {
			status = "conciliado"
		}
		_ = writer.Write([]string{
			t.TransactionDate.Format("2006-01-02"),
			t.Label,
			fmt.Sprintf("%.2f", t.Amount),
			fmt.Sprintf("%.2f", t.ReconciledAmount),
			fmt.Sprintf("%.2f", t.RemainingAmount()),
			status,
		})
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("conciliacion_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportReconciliationXLSX dumps the ledger as a spreadsheet
func (s *ExportService) ExportReconciliationXLSX(ctx context.Context, companyID uint) ([]byte, string, error) {
	transactions, stats, err := s.load(ctx, companyID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Conciliación"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Conciliación bancaria")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	_ = f.SetCellValue(sheet, "A3", "Movimientos")
	_ = f.SetCellValue(sheet, "B3", stats.Total)
	_ = f.SetCellValue(sheet, "A4", "Conciliados")
	_ = f.SetCellValue(sheet, "B4", stats.Reconciled)
	_ = f.SetCellValue(sheet, "A5", "Pendientes")
	_ = f.SetCellValue(sheet, "B5", stats.Pending)
	_ = f.SetCellValue(sheet, "A6", "Importe sin asignar")
	_ = f.SetCellValue(sheet, "B6", stats.UnallocatedTotal)

	row := 8
	for col, title := range []string{"Fecha", "Concepto", "Importe", "Conciliado", "Restante", "Estado"} {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		_ = f.SetCellValue(sheet, cell, title)
	}
	for _, t := range transactions {
		row++
		status := "pendiente"
		if t.IsReconciled {
			status = "conciliado"
		}
		values := []interface{}{
			t.TransactionDate.Format("2006-01-02"),
			t.Label,
			t.Amount,
			t.ReconciledAmount,
			t.RemainingAmount(),
			status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("conciliacion_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportReconciliationPDF dumps the ledger summary as PDF
func (s *ExportService) ExportReconciliationPDF(ctx context.Context, companyID uint) ([]byte, string, error) {
	transactions, stats, err := s.load(ctx, companyID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Conciliacion bancaria")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 8, "Movimientos:")
	pdf.Cell(40, 8, fmt.Sprintf("%d", stats.Total))
	pdf.Ln(6)
	pdf.Cell(60, 8, "Conciliados:")
	pdf.Cell(40, 8, fmt.Sprintf("%d", stats.Reconciled))
	pdf.Ln(6)
	pdf.Cell(60, 8, "Pendientes:")
	pdf.Cell(40, 8, fmt.Sprintf("%d", stats.Pending))
	pdf.Ln(6)
	pdf.Cell(60, 8, "Importe sin asignar:")
	pdf.Cell(40, 8, fmt.Sprintf("%.2f EUR", stats.UnallocatedTotal))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(25, 8, "Fecha")
	pdf.Cell(70, 8, "Concepto")
	pdf.Cell(30, 8, "Importe")
	pdf.Cell(30, 8, "Conciliado")
	pdf.Cell(25, 8, "Estado")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 9)
	for _, t := range transactions {
		status := "pendiente"
		if t.IsReconciled {
			status = "conciliado"
		}
		pdf.Cell(25, 6, t.TransactionDate.Format("02/01/2006"))
		label := t.Label
		if len(label) > 40 {
			label = label[:40]
		}
		pdf.Cell(70, 6, label)
		pdf.Cell(30, 6, fmt.Sprintf("%.2f", t.Amount))
		pdf.Cell(30, 6, fmt.Sprintf("%.2f", t.ReconciledAmount))
		pdf.Cell(25, 6, status)
		pdf.Ln(6)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("conciliacion_%s.pdf", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
