package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmartell/clientia-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health          *HealthHandler
	Auth            *AuthHandler
	User            *UserHandler
	Client          *ClientHandler
	Quote           *QuoteHandler
	Invoice         *InvoiceHandler
	BankTransaction *BankTransactionHandler
	Project         *ProjectHandler
	Public          *PublicHandler
	Notification    *NotificationHandler
	Audit           *AuditHandler
	Job             *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:          NewHealthHandler(),
		Auth:            NewAuthHandler(svcs.Auth, svcs.User),
		User:            NewUserHandler(svcs.User),
		Client:          NewClientHandler(svcs.Client),
		Quote:           NewQuoteHandler(svcs.Quote, svcs.Report),
		Invoice:         NewInvoiceHandler(svcs.Invoice, svcs.Report),
		BankTransaction: NewBankTransactionHandler(svcs.BankTransaction, svcs.Export),
		Project:         NewProjectHandler(svcs.Project),
		Public:          NewPublicHandler(svcs.Public),
		Notification:    NewNotificationHandler(svcs.Notification),
		Audit:           NewAuditHandler(svcs.Audit),
		Job:             NewJobHandler(svcs.Job),
	}
}

// respondError maps service errors onto HTTP status codes with a Spanish
// message body
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Recurso no encontrado"})
	case errors.Is(err, services.ErrQuoteExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvoiceLocked):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ha ocurrido un error inesperado"})
	}
}
