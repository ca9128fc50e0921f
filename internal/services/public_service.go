package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmartell/clientia-api/internal/models"
	"github.com/dmartell/clientia-api/internal/repository"
	"github.com/dmartell/clientia-api/internal/statemachine"
	"github.com/dmartell/clientia-api/pkg/logger"
)

// PublicService serves unauthenticated access to quotes, invoices and boards
// through their opaque tokens. The token is the whole credential: lookups
// never take a tenant parameter, and a miss is always a plain not-found.
type PublicService struct {
	quoteRepo       repository.QuoteRepository
	invoiceRepo     repository.InvoiceRepository
	projectRepo     repository.ProjectRepository
	clientSvc       *ClientService
	notificationSvc *NotificationService
	auditSvc        *AuditService
}

func NewPublicService(
	quoteRepo repository.QuoteRepository,
	invoiceRepo repository.InvoiceRepository,
	projectRepo repository.ProjectRepository,
	clientSvc *ClientService,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
) *PublicService {
	return &PublicService{
		quoteRepo:       quoteRepo,
		invoiceRepo:     invoiceRepo,
		projectRepo:     projectRepo,
		clientSvc:       clientSvc,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
	}
}

// GetQuote resolves a quote by token and records the view. The counter
// update is a separate command after the read, so a failed bump never blocks
// the client from seeing the document.
func (s *PublicService) GetQuote(ctx context.Context, token string) (*models.Quote, error) {
	quote, err := s.quoteRepo.FindByPublicToken(ctx, token)
	if err != nil {
		return nil, ErrNotFound
	}

	firstView := quote.FirstViewedAt == nil
	if err := s.quoteRepo.RecordView(ctx, quote.ID); err != nil {
		logger.Error("failed to record quote view", "quote_id", quote.ID, "error", err)
	}

	if firstView {
		s.notificationSvc.NotifyAdmins(ctx, quote.CompanyID, "Cotización vista",
			fmt.Sprintf("La cotización %s fue abierta por primera vez", quote.Number),
			models.NotificationTypeQuoteViewed)
	}

	return quote, nil
}

// GetInvoice resolves an invoice by token and records the view
func (s *PublicService) GetInvoice(ctx context.Context, token string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByPublicToken(ctx, token)
	if err != nil {
		return nil, ErrNotFound
	}

	if err := s.invoiceRepo.RecordView(ctx, invoice.ID); err != nil {
		logger.Error("failed to record invoice view", "invoice_id", invoice.ID, "error", err)
	}

	return invoice, nil
}

// GetBoard resolves a shared project board by token and records the view
func (s *PublicService) GetBoard(ctx context.Context, token string) (*models.Project, error) {
	project, err := s.projectRepo.FindByShareToken(ctx, token)
	if err != nil {
		return nil, ErrNotFound
	}

	if err := s.projectRepo.RecordView(ctx, project.ID); err != nil {
		logger.Error("failed to record board view", "project_id", project.ID, "error", err)
	}

	return project, nil
}

// RespondToQuote accepts or rejects a quote on behalf of the client holding
// the link. A quote past its validity date expires on access: the expired
// status is persisted before the error goes back, so later calls see the
// terminal state directly.
func (s *PublicService) RespondToQuote(ctx context.Context, token string, accept bool) (*models.Quote, error) {
	quote, err := s.quoteRepo.FindByPublicToken(ctx, token)
	if err != nil {
		return nil, ErrNotFound
	}

	if !quote.MayRespond() {
		return nil, ErrInvalidState
	}

	now := time.Now()
	machine := statemachine.NewQuoteFSM(quote)

	if quote.IsPastValidity(now) {
		if err := machine.Expire(ctx); err != nil {
			return nil, ErrInvalidState
		}
		if err := s.quoteRepo.Update(ctx, quote); err != nil {
			return nil, err
		}
		s.notificationSvc.NotifyAdmins(ctx, quote.CompanyID, "Cotización expirada",
			fmt.Sprintf("La cotización %s expiró sin respuesta", quote.Number),
			models.NotificationTypeQuoteExpired)
		return nil, ErrQuoteExpired
	}

	if accept {
		if err := machine.Accept(ctx); err != nil {
			return nil, ErrInvalidState
		}
		quote.SignedAt = &now
	} else {
		if err := machine.Reject(ctx); err != nil {
			return nil, ErrInvalidState
		}
		quote.RejectedAt = &now
	}

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, err
	}

	if accept {
		// An accepted quote is proof enough; the prospect converts without
		// re-checking qualification.
		if _, err := s.clientSvc.ConvertProspectToClient(ctx, quote.CompanyID, quote.ClientID); err != nil {
			logger.Error("prospect conversion after quote accept failed", "client_id", quote.ClientID, "error", err)
		}
		s.notificationSvc.NotifyAdmins(ctx, quote.CompanyID, "Cotización aceptada",
			fmt.Sprintf("La cotización %s fue aceptada por el cliente", quote.Number),
			models.NotificationTypeQuoteAccepted)
	} else {
		s.notificationSvc.NotifyAdmins(ctx, quote.CompanyID, "Cotización rechazada",
			fmt.Sprintf("La cotización %s fue rechazada por el cliente", quote.Number),
			models.NotificationTypeQuoteRejected)
	}

	action := "REJECT"
	if accept {
		action = "ACCEPT"
	}
	s.auditSvc.Log(ctx, quote.CompanyID, 0, action, "Quote", quote.ID,
		fmt.Sprintf("Respuesta pública a la cotización %s", quote.Number), "", "")

	return quote, nil
}
