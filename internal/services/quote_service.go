package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dmartell/clientia-api/internal/jobs"
	"github.com/dmartell/clientia-api/internal/models"
	"github.com/dmartell/clientia-api/internal/repository"
	"github.com/dmartell/clientia-api/internal/statemachine"
)

// DefaultQuoteValidityDays is applied when a quote is sent without an
// explicit validity date.
const DefaultQuoteValidityDays = 30

// QuoteService handles quote business logic
type QuoteService struct {
	repo         repository.QuoteRepository
	clientRepo   repository.ClientRepository
	worker       *jobs.Worker
	emailService *EmailService
	auditSvc     *AuditService
}

func NewQuoteService(repo repository.QuoteRepository, clientRepo repository.ClientRepository, worker *jobs.Worker, emailService *EmailService, auditSvc *AuditService) *QuoteService {
	return &QuoteService{
		repo:         repo,
		clientRepo:   clientRepo,
		worker:       worker,
		emailService: emailService,
		auditSvc:     auditSvc,
	}
}

func (s *QuoteService) FindByID(ctx context.Context, companyID, id uint) (*models.Quote, error) {
	return s.repo.FindByID(ctx, companyID, id)
}

func (s *QuoteService) FindByIDWithDetails(ctx context.Context, companyID, id uint) (*models.Quote, error) {
	return s.repo.FindByIDWithDetails(ctx, companyID, id)
}

func (s *QuoteService) List(ctx context.Context, companyID uint, query *repository.QuoteQuery) ([]models.Quote, int64, error) {
	return s.repo.List(ctx, companyID, query)
}

// Create builds a new draft quote. Totals are always recomputed from the
// items server-side.
func (s *QuoteService) Create(ctx context.Context, quote *models.Quote, actorID uint) error {
	if _, err := s.clientRepo.FindByID(ctx, quote.CompanyID, quote.ClientID); err != nil {
		return ErrNotFound
	}

	seq, err := s.repo.NextNumber(ctx, quote.CompanyID)
	if err != nil {
		return err
	}
	quote.Number = fmt.Sprintf("COT-%d-%04d", time.Now().Year(), seq)
	quote.Status = models.QuoteStatusDraft
	ComputeTotals(quote.Items, &quote.TotalHT, &quote.TotalTVA, &quote.TotalTTC)

	if err := s.repo.Create(ctx, quote); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, quote.CompanyID, actorID, "CREATE", "Quote", quote.ID,
		fmt.Sprintf("Cotización creada: %s", quote.Number), "", "")
}

// Update modifies a draft quote. Quotes that already left draft are
// read-only; issue a new one instead.
func (s *QuoteService) Update(ctx context.Context, quote *models.Quote, actorID uint) error {
	if quote.Status != models.QuoteStatusDraft {
		return ErrInvalidState
	}
	ComputeTotals(quote.Items, &quote.TotalHT, &quote.TotalTVA, &quote.TotalTTC)
	if err := s.repo.Update(ctx, quote); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, quote.CompanyID, actorID, "UPDATE", "Quote", quote.ID,
		fmt.Sprintf("Cotización actualizada: %s", quote.Number), "", "")
}

func (s *QuoteService) Delete(ctx context.Context, companyID, id uint, actorID uint) error {
	quote, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return ErrNotFound
	}
	if quote.Status != models.QuoteStatusDraft {
		return ErrInvalidState
	}
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, companyID, actorID, "DELETE", "Quote", id,
		fmt.Sprintf("Cotización eliminada: %s", quote.Number), "", "")
}

// Send transitions a draft quote to sent, mints its public token and emails
// the client a link to the public page. The token never changes once
// assigned, so a re-send after a failed email keeps old links valid.
func (s *QuoteService) Send(ctx context.Context, companyID, id uint, actorID uint) (*models.Quote, error) {
	quote, err := s.repo.FindByIDWithDetails(ctx, companyID, id)
	if err != nil {
		return nil, ErrNotFound
	}

	machine := statemachine.NewQuoteFSM(quote)
	if err := machine.Send(ctx); err != nil {
		return nil, ErrInvalidState
	}

	now := time.Now()
	quote.SentAt = &now

	if quote.PublicToken == nil {
		token, err := GeneratePublicToken()
		if err != nil {
			return nil, err
		}
		quote.PublicToken = &token
	}

	if quote.ValidityDate == nil {
		validity := now.AddDate(0, 0, DefaultQuoteValidityDays)
		quote.ValidityDate = &validity
	}

	if err := s.repo.Update(ctx, quote); err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.emailService.SendQuoteToClient(ctx, quote)
	})

	s.auditSvc.Log(ctx, companyID, actorID, "SEND", "Quote", quote.ID,
		fmt.Sprintf("Cotización enviada: %s", quote.Number), "", "")
	return quote, nil
}

// ComputeTotals recalculates HT, TVA and TTC totals from line items,
// rounding each aggregate to cents.
func ComputeTotals(items []models.QuoteItem, totalHT, totalTVA, totalTTC *float64) {
	var ht, tva float64
	for _, item := range items {
		line := item.Quantity * item.UnitPrice
		ht += line
		tva += line * item.VATRate / 100
	}
	*totalHT = roundCents(ht)
	*totalTVA = roundCents(tva)
	*totalTTC = roundCents(ht + tva)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
