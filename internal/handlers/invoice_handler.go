package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmartell/clientia-api/internal/middleware"
	"github.com/dmartell/clientia-api/internal/models"
	"github.com/dmartell/clientia-api/internal/repository"
	"github.com/dmartell/clientia-api/internal/services"
	"github.com/dmartell/clientia-api/internal/storage"
)

type InvoiceHandler struct {
	invoiceService *services.InvoiceService
	reportService  *services.ReportService
}

func NewInvoiceHandler(invoiceService *services.InvoiceService, reportService *services.ReportService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		reportService:  reportService,
	}
}

// @Summary List Invoices
// @Description Get a paginated list of invoices
// @Tags Invoices
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param client_id query int false "Filter by client"
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) Index(c *gin.Context) {
	query := &repository.InvoiceQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Status = c.Query("status")
	clientID, _ := strconv.ParseUint(c.Query("client_id"), 10, 32)
	query.ClientID = uint(clientID)

	invoices, total, err := h.invoiceService.List(c.Request.Context(), middleware.GetCompanyID(c), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.InvoiceResponse
	for _, inv := range invoices {
		responses = append(responses, inv.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Invoice
// @Description Get an invoice with its reconciliations
// @Tags Invoices
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {object} models.InvoiceResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/{invoice_id} [get]
func (h *InvoiceHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("invoice_id"), 10, 32)
	invoice, err := h.invoiceService.FindByIDWithDetails(c.Request.Context(), middleware.GetCompanyID(c), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Factura no encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToResponse()})
}

type CreateInvoiceRequest struct {
	ClientID uint       `json:"client_id" binding:"required"`
	Title    *string    `json:"title"`
	TotalHT  float64    `json:"total_ht"`
	TotalTVA float64    `json:"total_tva"`
	TotalTTC float64    `json:"total_ttc" binding:"required"`
	DueDate  *time.Time `json:"due_date"`
}

// @Summary Create Invoice
// @Description Create a new draft invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body CreateInvoiceRequest true "Invoice Data"
// @Success 201 {object} models.InvoiceResponse
// @Security BearerAuth
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := middleware.GetUserID(c)
	invoice := &models.Invoice{
		CompanyID: middleware.GetCompanyID(c),
		ClientID:  req.ClientID,
		Title:     req.Title,
		TotalHT:   req.TotalHT,
		TotalTVA:  req.TotalTVA,
		TotalTTC:  req.TotalTTC,
		DueDate:   req.DueDate,
		CreatedBy: &actorID,
	}

	if err := h.invoiceService.Create(c.Request.Context(), invoice, actorID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invoice": invoice.ToResponse()})
}

// @Summary Create Invoice From Quote
// @Description Create a draft invoice from an accepted quote
// @Tags Invoices
// @Produce json
// @Param quote_id path int true "Quote ID"
// @Success 201 {object} models.InvoiceResponse
// @Security BearerAuth
// @Router /quotes/{quote_id}/invoice [post]
func (h *InvoiceHandler) CreateFromQuote(c *gin.Context) {
	quoteID, _ := strconv.ParseUint(c.Param("quote_id"), 10, 32)
	invoice, err := h.invoiceService.CreateFromQuote(c.Request.Context(), middleware.GetCompanyID(c), uint(quoteID), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"invoice": invoice.ToResponse()})
}

// @Summary Delete Invoice
// @Description Delete a draft invoice
// @Tags Invoices
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/{invoice_id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("invoice_id"), 10, 32)
	err := h.invoiceService.Delete(c.Request.Context(), middleware.GetCompanyID(c), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Factura eliminada exitosamente"})
}

// @Summary Send Invoice
// @Description Send the invoice to the client; assigns the public token
// @Tags Invoices
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {object} models.InvoiceResponse
// @Security BearerAuth
// @Router /invoices/{invoice_id}/send [post]
func (h *InvoiceHandler) Send(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("invoice_id"), 10, 32)
	invoice, err := h.invoiceService.Send(c.Request.Context(), middleware.GetCompanyID(c), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToResponse(), "public_token": invoice.PublicToken})
}

type MarkPaidRequest struct {
	PaymentMethod     string  `json:"payment_method"`
	PaymentNote       *string `json:"payment_note"`
	BankTransactionID *uint   `json:"bank_transaction_id"`
}

// @Summary Mark Invoice Paid
// @Description Settle the invoice, optionally allocating it against a bank transaction
// @Tags Invoices
// @Accept json
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Param request body MarkPaidRequest true "Payment Data"
// @Success 200 {object} models.InvoiceResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/{invoice_id}/mark_paid [post]
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("invoice_id"), 10, 32)

	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), middleware.GetCompanyID(c), uint(id), services.MarkPaidInput{
		PaymentMethod:     req.PaymentMethod,
		PaymentNote:       req.PaymentNote,
		BankTransactionID: req.BankTransactionID,
	}, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToResponse()})
}

type UpdateDueDateRequest struct {
	DueDate time.Time `json:"due_date" binding:"required"`
}

// @Summary Update Due Date
// @Description Change the due date of an open invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Param request body UpdateDueDateRequest true "New Due Date"
// @Success 200 {object} models.InvoiceResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/{invoice_id}/due_date [put]
func (h *InvoiceHandler) UpdateDueDate(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("invoice_id"), 10, 32)

	var req UpdateDueDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha de vencimiento inválida"})
		return
	}

	invoice, err := h.invoiceService.UpdateDueDate(c.Request.Context(), middleware.GetCompanyID(c), uint(id), req.DueDate, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToResponse()})
}

// @Summary Cancel Invoice
// @Description Void an open invoice
// @Tags Invoices
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {object} models.InvoiceResponse
// @Security BearerAuth
// @Router /invoices/{invoice_id}/cancel [post]
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("invoice_id"), 10, 32)
	invoice, err := h.invoiceService.Cancel(c.Request.Context(), middleware.GetCompanyID(c), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToResponse()})
}

// @Summary Attach Document
// @Description Upload a document for the invoice
// @Tags Invoices
// @Accept multipart/form-data
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Param file formData file true "Document"
// @Success 200 {object} models.InvoiceResponse
// @Security BearerAuth
// @Router /invoices/{invoice_id}/document [post]
func (h *InvoiceHandler) AttachDocument(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("invoice_id"), 10, 32)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Archivo requerido"})
		return
	}
	defer file.Close()

	if !storage.IsValidContentType(header.Header.Get("Content-Type")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de archivo no permitido"})
		return
	}
	if header.Size > storage.MaxFileSize() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El archivo excede el tamaño máximo permitido"})
		return
	}

	invoice, err := h.invoiceService.AttachDocument(c.Request.Context(), middleware.GetCompanyID(c), uint(id), file, header, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToResponse()})
}

// @Summary Download Document
// @Description Download the invoice's stored document
// @Tags Invoices
// @Produce application/octet-stream
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /invoices/{invoice_id}/document [get]
func (h *InvoiceHandler) DownloadDocument(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("invoice_id"), 10, 32)
	path, err := h.invoiceService.DocumentPath(c.Request.Context(), middleware.GetCompanyID(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, fmt.Sprintf("factura_%d_documento", id))
}

// @Summary Invoice PDF
// @Description Download the invoice as PDF
// @Tags Invoices
// @Produce application/pdf
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {file} file "invoice.pdf"
// @Security BearerAuth
// @Router /invoices/{invoice_id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("invoice_id"), 10, 32)
	buf, err := h.reportService.GenerateInvoicePDF(c.Request.Context(), middleware.GetCompanyID(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=factura_%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// @Summary Revenue Summary
// @Description Aggregate paid invoices over a period
// @Tags Reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} services.RevenueSummary
// @Security BearerAuth
// @Router /reports/revenue [get]
func (h *InvoiceHandler) RevenueSummary(c *gin.Context) {
	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now
	if v := c.Query("from"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			from = parsed
		}
	}
	if v := c.Query("to"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			to = parsed.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		}
	}

	summary, err := h.reportService.GetRevenueSummary(c.Request.Context(), middleware.GetCompanyID(c), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Revenue CSV
// @Description Download paid invoices of a period as CSV
// @Tags Reports
// @Produce text/csv
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} file "revenue.csv"
// @Security BearerAuth
// @Router /reports/revenue_csv [get]
func (h *InvoiceHandler) RevenueCSV(c *gin.Context) {
	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now
	if v := c.Query("from"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			from = parsed
		}
	}
	if v := c.Query("to"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			to = parsed.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		}
	}

	buf, err := h.reportService.GenerateRevenueCSV(c.Request.Context(), middleware.GetCompanyID(c), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=ingresos.csv")
	c.String(http.StatusOK, buf.String())
}
