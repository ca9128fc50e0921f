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
)

type QuoteHandler struct {
	quoteService  *services.QuoteService
	reportService *services.ReportService
}

func NewQuoteHandler(quoteService *services.QuoteService, reportService *services.ReportService) *QuoteHandler {
	return &QuoteHandler{
		quoteService:  quoteService,
		reportService: reportService,
	}
}

// @Summary List Quotes
// @Description Get a paginated list of quotes
// @Tags Quotes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param client_id query int false "Filter by client"
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /quotes [get]
func (h *QuoteHandler) Index(c *gin.Context) {
	query := &repository.QuoteQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Status = c.Query("status")
	clientID, _ := strconv.ParseUint(c.Query("client_id"), 10, 32)
	query.ClientID = uint(clientID)

	quotes, total, err := h.quoteService.List(c.Request.Context(), middleware.GetCompanyID(c), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []models.QuoteResponse
	for _, q := range quotes {
		responses = append(responses, q.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"quotes": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Quote
// @Description Get a quote with its items
// @Tags Quotes
// @Produce json
// @Param quote_id path int true "Quote ID"
// @Success 200 {object} models.QuoteResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /quotes/{quote_id} [get]
func (h *QuoteHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("quote_id"), 10, 32)
	quote, err := h.quoteService.FindByIDWithDetails(c.Request.Context(), middleware.GetCompanyID(c), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cotización no encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote.ToResponse()})
}

type QuoteItemRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	VATRate     float64 `json:"vat_rate"`
}

type CreateQuoteRequest struct {
	ClientID     uint               `json:"client_id" binding:"required"`
	Title        *string            `json:"title"`
	Note         *string            `json:"note"`
	ValidityDate *time.Time         `json:"validity_date"`
	Items        []QuoteItemRequest `json:"items" binding:"required,min=1"`
}

func (r *CreateQuoteRequest) toModel(companyID, actorID uint) *models.Quote {
	quote := &models.Quote{
		CompanyID:    companyID,
		ClientID:     r.ClientID,
		Title:        r.Title,
		Note:         r.Note,
		ValidityDate: r.ValidityDate,
		CreatedBy:    &actorID,
	}
	for _, item := range r.Items {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		quote.Items = append(quote.Items, models.QuoteItem{
			Description: item.Description,
			Quantity:    quantity,
			UnitPrice:   item.UnitPrice,
			VATRate:     item.VATRate,
		})
	}
	return quote
}

// @Summary Create Quote
// @Description Create a new draft quote
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body CreateQuoteRequest true "Quote Data"
// @Success 201 {object} models.QuoteResponse
// @Security BearerAuth
// @Router /quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	var req CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote := req.toModel(middleware.GetCompanyID(c), middleware.GetUserID(c))
	if err := h.quoteService.Create(c.Request.Context(), quote, middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"quote": quote.ToResponse()})
}

// @Summary Update Quote
// @Description Update a draft quote
// @Tags Quotes
// @Accept json
// @Produce json
// @Param quote_id path int true "Quote ID"
// @Param request body CreateQuoteRequest true "Quote Data"
// @Success 200 {object} models.QuoteResponse
// @Security BearerAuth
// @Router /quotes/{quote_id} [put]
func (h *QuoteHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("quote_id"), 10, 32)
	companyID := middleware.GetCompanyID(c)

	existing, err := h.quoteService.FindByID(c.Request.Context(), companyID, uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cotización no encontrada"})
		return
	}

	var req CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote := req.toModel(companyID, middleware.GetUserID(c))
	quote.ID = existing.ID
	quote.Number = existing.Number
	quote.Status = existing.Status
	quote.CreatedBy = existing.CreatedBy
	quote.CreatedAt = existing.CreatedAt
	for i := range quote.Items {
		quote.Items[i].QuoteID = quote.ID
	}

	if err := h.quoteService.Update(c.Request.Context(), quote, middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quote": quote.ToResponse()})
}

// @Summary Delete Quote
// @Description Delete a draft quote
// @Tags Quotes
// @Produce json
// @Param quote_id path int true "Quote ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /quotes/{quote_id} [delete]
func (h *QuoteHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("quote_id"), 10, 32)
	err := h.quoteService.Delete(c.Request.Context(), middleware.GetCompanyID(c), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cotización eliminada exitosamente"})
}

// @Summary Send Quote
// @Description Send the quote to the client; assigns the public token
// @Tags Quotes
// @Produce json
// @Param quote_id path int true "Quote ID"
// @Success 200 {object} models.QuoteResponse
// @Security BearerAuth
// @Router /quotes/{quote_id}/send [post]
func (h *QuoteHandler) Send(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("quote_id"), 10, 32)
	quote, err := h.quoteService.Send(c.Request.Context(), middleware.GetCompanyID(c), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote.ToResponse(), "public_token": quote.PublicToken})
}

// @Summary Quote PDF
// @Description Download the quote as PDF
// @Tags Quotes
// @Produce application/pdf
// @Param quote_id path int true "Quote ID"
// @Success 200 {file} file "quote.pdf"
// @Security BearerAuth
// @Router /quotes/{quote_id}/pdf [get]
func (h *QuoteHandler) PDF(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("quote_id"), 10, 32)
	buf, err := h.reportService.GenerateQuotePDF(c.Request.Context(), middleware.GetCompanyID(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=cotizacion_%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
