package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmartell/clientia-api/internal/middleware"
	"github.com/dmartell/clientia-api/internal/models"
	"github.com/dmartell/clientia-api/internal/repository"
	"github.com/dmartell/clientia-api/internal/services"
)

type BankTransactionHandler struct {
	bankTxService *services.BankTransactionService
	exportService *services.ExportService
}

func NewBankTransactionHandler(bankTxService *services.BankTransactionService, exportService *services.ExportService) *BankTransactionHandler {
	return &BankTransactionHandler{
		bankTxService: bankTxService,
		exportService: exportService,
	}
}

// @Summary List Bank Transactions
// @Description Get a paginated list of bank transactions
// @Tags BankTransactions
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param reconciled query bool false "Filter by reconciliation status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /bank_transactions [get]
func (h *BankTransactionHandler) Index(c *gin.Context) {
	query := &repository.BankTransactionQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")

	if v := c.Query("reconciled"); v != "" {
		reconciled := v == "true" || v == "1"
		query.Reconciled = &reconciled
	}

	transactions, total, err := h.bankTxService.List(c.Request.Context(), middleware.GetCompanyID(c), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.BankTransactionResponse
	for _, t := range transactions {
		responses = append(responses, t.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"bank_transactions": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Bank Transaction
// @Description Get a bank transaction with its reconciliation entries
// @Tags BankTransactions
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Success 200 {object} models.BankTransactionResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /bank_transactions/{transaction_id} [get]
func (h *BankTransactionHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaction_id"), 10, 32)
	transaction, err := h.bankTxService.FindByIDWithDetails(c.Request.Context(), middleware.GetCompanyID(c), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movimiento bancario no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bank_transaction": transaction.ToResponse()})
}

type CreateBankTransactionRequest struct {
	Label           string    `json:"label" binding:"required"`
	Amount          float64   `json:"amount" binding:"required"`
	TransactionDate time.Time `json:"transaction_date" binding:"required"`
	Reference       *string   `json:"reference"`
}

// @Summary Create Bank Transaction
// @Description Register a bank statement line
// @Tags BankTransactions
// @Accept json
// @Produce json
// @Param request body CreateBankTransactionRequest true "Transaction Data"
// @Success 201 {object} models.BankTransactionResponse
// @Security BearerAuth
// @Router /bank_transactions [post]
func (h *BankTransactionHandler) Create(c *gin.Context) {
	var req CreateBankTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction := &models.BankTransaction{
		CompanyID:       middleware.GetCompanyID(c),
		Label:           req.Label,
		Amount:          req.Amount,
		TransactionDate: req.TransactionDate,
		Reference:       req.Reference,
	}

	if err := h.bankTxService.Create(c.Request.Context(), transaction, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bank_transaction": transaction.ToResponse()})
}

// @Summary Update Bank Transaction
// @Description Update an unreconciled bank transaction
// @Tags BankTransactions
// @Accept json
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Param request body CreateBankTransactionRequest true "Transaction Data"
// @Success 200 {object} models.BankTransactionResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /bank_transactions/{transaction_id} [put]
func (h *BankTransactionHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaction_id"), 10, 32)
	companyID := middleware.GetCompanyID(c)

	transaction, err := h.bankTxService.FindByID(c.Request.Context(), companyID, uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	var req CreateBankTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction.Label = req.Label
	transaction.Amount = req.Amount
	transaction.TransactionDate = req.TransactionDate
	transaction.Reference = req.Reference

	if err := h.bankTxService.Update(c.Request.Context(), transaction, middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bank_transaction": transaction.ToResponse()})
}

type ImportBankTransactionsRequest struct {
	Transactions []CreateBankTransactionRequest `json:"transactions" binding:"required,min=1"`
}

// @Summary Import Bank Transactions
// @Description Register a batch of bank statement lines
// @Tags BankTransactions
// @Accept json
// @Produce json
// @Param request body ImportBankTransactionsRequest true "Transactions"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /bank_transactions/import [post]
func (h *BankTransactionHandler) Import(c *gin.Context) {
	var req ImportBankTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transactions := make([]models.BankTransaction, 0, len(req.Transactions))
	for _, t := range req.Transactions {
		transactions = append(transactions, models.BankTransaction{
			Label:           t.Label,
			Amount:          t.Amount,
			TransactionDate: t.TransactionDate,
			Reference:       t.Reference,
		})
	}

	created, err := h.bankTxService.Import(c.Request.Context(), middleware.GetCompanyID(c), transactions, middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "created": created})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"created": created})
}

// @Summary Delete Bank Transaction
// @Description Delete an unreconciled bank transaction
// @Tags BankTransactions
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /bank_transactions/{transaction_id} [delete]
func (h *BankTransactionHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaction_id"), 10, 32)
	err := h.bankTxService.Delete(c.Request.Context(), middleware.GetCompanyID(c), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Movimiento bancario eliminado exitosamente"})
}

// @Summary Reconciliation Entries
// @Description Get the allocation history of a bank transaction
// @Tags BankTransactions
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /bank_transactions/{transaction_id}/reconciliations [get]
func (h *BankTransactionHandler) Reconciliations(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("transaction_id"), 10, 32)
	entries, err := h.bankTxService.Reconciliations(c.Request.Context(), middleware.GetCompanyID(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []models.InvoiceBankReconciliationResponse
	for _, e := range entries {
		responses = append(responses, e.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"reconciliations": responses})
}

// @Summary Reconciliation Stats
// @Description Get reconciliation counters and the unallocated total
// @Tags BankTransactions
// @Produce json
// @Success 200 {object} repository.BankTransactionStats
// @Security BearerAuth
// @Router /bank_transactions/stats [get]
func (h *BankTransactionHandler) Stats(c *gin.Context) {
	stats, err := h.bankTxService.Stats(c.Request.Context(), middleware.GetCompanyID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Export Reconciliation
// @Description Download the reconciliation ledger (csv, xlsx or pdf)
// @Tags BankTransactions
// @Produce application/octet-stream
// @Param format query string false "Export format" default(csv)
// @Success 200 {file} file
// @Security BearerAuth
// @Router /bank_transactions/export [get]
func (h *BankTransactionHandler) Export(c *gin.Context) {
	companyID := middleware.GetCompanyID(c)

	var (
		data        []byte
		filename    string
		contentType string
		err         error
	)

	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		data, filename, err = h.exportService.ExportReconciliationXLSX(c.Request.Context(), companyID)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		data, filename, err = h.exportService.ExportReconciliationPDF(c.Request.Context(), companyID)
		contentType = "application/pdf"
	default:
		data, filename, err = h.exportService.ExportReconciliationCSV(c.Request.Context(), companyID)
		contentType = "text/csv"
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}
