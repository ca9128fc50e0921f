package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/jung-kurt/gofpdf"

	"github.com/dmartell/clientia-api/internal/models"
	"github.com/dmartell/clientia-api/internal/repository"
)

type ReportService struct {
	quoteRepo   repository.QuoteRepository
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
}

func NewReportService(
	quoteRepo repository.QuoteRepository,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
) *ReportService {
	return &ReportService{
		quoteRepo:   quoteRepo,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
	}
}

// quotePDFData feeds the quote HTML template
type quotePDFData struct {
	Quote       *models.Quote
	Client      *models.Client
	Items       []quotePDFItem
	GeneratedAt string
	TotalWords  string
}

type quotePDFItem struct {
	Description string
	Quantity    float64
	UnitPrice   float64
	VATRate     float64
	LineTotal   float64
}

// GenerateQuotePDF renders the quote as a printable PDF through the HTML
// template. Requires wkhtmltopdf on the host.
func (s *ReportService) GenerateQuotePDF(ctx context.Context, companyID, quoteID uint) (*bytes.Buffer, error) {
	quote, err := s.quoteRepo.FindByIDWithDetails(ctx, companyID, quoteID)
	if err != nil {
		return nil, ErrNotFound
	}
	client, err := s.clientRepo.FindByID(ctx, companyID, quote.ClientID)
	if err != nil {
		return nil, ErrNotFound
	}

	items := make([]quotePDFItem, 0, len(quote.Items))
	for _, item := range quote.Items {
		items = append(items, quotePDFItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			VATRate:     item.VATRate,
			LineTotal:   item.Quantity * item.UnitPrice,
		})
	}

	data := quotePDFData{
		Quote:       quote,
		Client:      client,
		Items:       items,
		GeneratedAt: time.Now().Format("02/01/2006"),
		TotalWords:  NumberToWords(quote.TotalTTC),
	}

	return s.generatePDF("quote.html", data)
}

func (s *ReportService) generatePDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	// Path relative to project root (prod), falling back to the package
	// relative path (tests)
	tmplPath := fmt.Sprintf("internal/services/templates/reports/%s", templateName)
	if _, err := os.Stat(tmplPath); os.IsNotExist(err) {
		tmplPath = fmt.Sprintf("templates/reports/%s", templateName)
	}

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}

// GenerateInvoicePDF renders the invoice with gofpdf. Unlike quotes,
// invoices have no line items so the fixed layout is enough and we avoid the
// wkhtmltopdf host dependency.
func (s *ReportService) GenerateInvoicePDF(ctx context.Context, companyID, invoiceID uint) (*bytes.Buffer, error) {
	invoice, err := s.invoiceRepo.FindByIDWithDetails(ctx, companyID, invoiceID)
	if err != nil {
		return nil, ErrNotFound
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(40, 10, "FACTURA")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(40, 8, fmt.Sprintf("Numero: %s", invoice.Number))
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(40, 8, fmt.Sprintf("Fecha: %s", invoice.CreatedAt.Format("02/01/2006")))
	pdf.Ln(6)
	if invoice.DueDate != nil {
		pdf.Cell(40, 8, fmt.Sprintf("Vencimiento: %s", invoice.DueDate.Format("02/01/2006")))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(40, 8, "Cliente")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(40, 8, invoice.Client.Name)
	pdf.Ln(6)
	if invoice.Client.TaxID != nil {
		pdf.Cell(40, 8, fmt.Sprintf("NIF: %s", *invoice.Client.TaxID))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 8, "Base imponible:")
	pdf.Cell(40, 8, fmt.Sprintf("%.2f EUR", invoice.TotalHT))
	pdf.Ln(6)
	pdf.Cell(60, 8, "IVA:")
	pdf.Cell(40, 8, fmt.Sprintf("%.2f EUR", invoice.TotalTVA))
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(60, 8, "Total:")
	pdf.Cell(40, 8, fmt.Sprintf("%.2f EUR", invoice.TotalTTC))
	pdf.Ln(10)

	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(40, 8, NumberToWords(invoice.TotalTTC))
	pdf.Ln(8)

	if invoice.Status == models.InvoiceStatusPaid && invoice.PaidAt != nil {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(40, 8, fmt.Sprintf("PAGADA el %s", invoice.PaidAt.Format("02/01/2006")))
		pdf.Ln(6)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// RevenueSummary aggregates paid invoices over a period
type RevenueSummary struct {
	From         time.Time `json:"from"`
	To           time.Time `json:"to"`
	InvoiceCount int       `json:"invoice_count"`
	TotalHT      float64   `json:"total_ht"`
	TotalTVA     float64   `json:"total_tva"`
	TotalTTC     float64   `json:"total_ttc"`
}

// GetRevenueSummary computes the revenue of paid invoices in [from, to]
func (s *ReportService) GetRevenueSummary(ctx context.Context, companyID uint, from, to time.Time) (*RevenueSummary, error) {
	invoices, err := s.invoiceRepo.FindPaidBetween(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &RevenueSummary{From: from, To: to, InvoiceCount: len(invoices)}
	for _, inv := range invoices {
		summary.TotalHT += inv.TotalHT
		summary.TotalTVA += inv.TotalTVA
		summary.TotalTTC += inv.TotalTTC
	}
	return summary, nil
}

// GenerateRevenueCSV exports the paid invoices of a period as CSV
func (s *ReportService) GenerateRevenueCSV(ctx context.Context, companyID uint, from, to time.Time) (*bytes.Buffer, error) {
	invoices, err := s.invoiceRepo.FindPaidBetween(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"Factura", "Cliente", "Fecha de pago", "Método", "Base", "IVA", "Total"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, inv := range invoices {
		paidAt := ""
		if inv.PaidAt != nil {
			paidAt = inv.PaidAt.Format("2006-01-02")
		}
		method := ""
		if inv.PaymentMethod != nil {
			method = *inv.PaymentMethod
		}
		record := []string{
			inv.Number,
			inv.Client.Name,
			paidAt,
			method,
			fmt.Sprintf("%.2f", inv.TotalHT),
			fmt.Sprintf("%.2f", inv.TotalTVA),
			fmt.Sprintf("%.2f", inv.TotalTTC),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b, nil
}
