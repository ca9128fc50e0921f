package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmartell/clientia-api/internal/models"
	"github.com/dmartell/clientia-api/internal/services"
)

// PublicHandler serves the unauthenticated token routes. The token in the
// URL is the only credential, so nothing here reads the auth context.
type PublicHandler struct {
	publicService *services.PublicService
}

func NewPublicHandler(publicService *services.PublicService) *PublicHandler {
	return &PublicHandler{publicService: publicService}
}

// @Summary Public Quote
// @Description Get a quote by its public token
// @Tags Public
// @Produce json
// @Param token path string true "Public token"
// @Success 200 {object} models.PublicQuoteResponse
// @Failure 404 {object} map[string]string
// @Router /public/quotes/{token} [get]
func (h *PublicHandler) GetQuote(c *gin.Context) {
	quote, err := h.publicService.GetQuote(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote.ToPublicResponse()})
}

type RespondToQuoteRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// @Summary Respond To Quote
// @Description Accept or reject a quote through its public token
// @Tags Public
// @Accept json
// @Produce json
// @Param token path string true "Public token"
// @Param request body RespondToQuoteRequest true "Response"
// @Success 200 {object} models.PublicQuoteResponse
// @Failure 400 {object} map[string]string
// @Router /public/quotes/{token}/respond [post]
func (h *PublicHandler) RespondToQuote(c *gin.Context) {
	var req RespondToQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.publicService.RespondToQuote(c.Request.Context(), c.Param("token"), *req.Accept)
	if err != nil {
		if err == services.ErrQuoteExpired {
			c.JSON(http.StatusBadRequest, gin.H{"error": "La cotización ha expirado"})
			return
		}
		respondError(c, err)
		return
	}

	message := "Cotización rechazada"
	if quote.Status == models.QuoteStatusAccepted {
		message = "Cotización aceptada"
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote.ToPublicResponse(), "message": message})
}

// @Summary Public Invoice
// @Description Get an invoice by its public token
// @Tags Public
// @Produce json
// @Param token path string true "Public token"
// @Success 200 {object} models.PublicInvoiceResponse
// @Failure 404 {object} map[string]string
// @Router /public/invoices/{token} [get]
func (h *PublicHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.publicService.GetInvoice(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToPublicResponse()})
}

// @Summary Public Board
// @Description Get a shared board by its share token
// @Tags Public
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} models.PublicBoardResponse
// @Failure 404 {object} map[string]string
// @Router /public/boards/{token} [get]
func (h *PublicHandler) GetBoard(c *gin.Context) {
	project, err := h.publicService.GetBoard(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"board": project.ToPublicResponse()})
}
