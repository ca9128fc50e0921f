package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/dmartell/clientia-api/internal/jobs"
	"github.com/dmartell/clientia-api/internal/models"
	"github.com/dmartell/clientia-api/internal/repository"
	"github.com/dmartell/clientia-api/internal/statemachine"
	"github.com/dmartell/clientia-api/internal/storage"
	"github.com/dmartell/clientia-api/pkg/logger"
)

// DefaultInvoiceDueDays is applied when an invoice is sent without an
// explicit due date.
const DefaultInvoiceDueDays = 30

// InvoiceService handles invoice business logic, including the reconciliation
// flow against bank transactions.
type InvoiceService struct {
	repo            repository.InvoiceRepository
	clientRepo      repository.ClientRepository
	quoteRepo       repository.QuoteRepository
	clientSvc       *ClientService
	worker          *jobs.Worker
	emailService    *EmailService
	notificationSvc *NotificationService
	auditSvc        *AuditService
	storage         *storage.LocalStorage
}

func NewInvoiceService(
	repo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	quoteRepo repository.QuoteRepository,
	clientSvc *ClientService,
	worker *jobs.Worker,
	emailService *EmailService,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
	store *storage.LocalStorage,
) *InvoiceService {
	return &InvoiceService{
		repo:            repo,
		clientRepo:      clientRepo,
		quoteRepo:       quoteRepo,
		clientSvc:       clientSvc,
		worker:          worker,
		emailService:    emailService,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		storage:         store,
	}
}

func (s *InvoiceService) FindByID(ctx context.Context, companyID, id uint) (*models.Invoice, error) {
	return s.repo.FindByID(ctx, companyID, id)
}

func (s *InvoiceService) FindByIDWithDetails(ctx context.Context, companyID, id uint) (*models.Invoice, error) {
	return s.repo.FindByIDWithDetails(ctx, companyID, id)
}

func (s *InvoiceService) List(ctx context.Context, companyID uint, query *repository.InvoiceQuery) ([]models.Invoice, int64, error) {
	return s.repo.List(ctx, companyID, query)
}

// Create builds a new draft invoice. Creating an invoice for a prospect
// promotes it to active client.
func (s *InvoiceService) Create(ctx context.Context, invoice *models.Invoice, actorID uint) error {
	if _, err := s.clientRepo.FindByID(ctx, invoice.CompanyID, invoice.ClientID); err != nil {
		return ErrNotFound
	}

	seq, err := s.repo.NextNumber(ctx, invoice.CompanyID)
	if err != nil {
		return err
	}
	invoice.Number = fmt.Sprintf("FAC-%d-%04d", time.Now().Year(), seq)
	invoice.Status = models.InvoiceStatusDraft

	if err := s.repo.Create(ctx, invoice); err != nil {
		return err
	}

	if _, err := s.clientSvc.ConvertProspectToClient(ctx, invoice.CompanyID, invoice.ClientID); err != nil {
		logger.Error("prospect conversion after invoice create failed", "client_id", invoice.ClientID, "error", err)
	}

	return s.auditSvc.Log(ctx, invoice.CompanyID, actorID, "CREATE", "Invoice", invoice.ID,
		fmt.Sprintf("Factura creada: %s", invoice.Number), "", "")
}

// CreateFromQuote builds a draft invoice carrying over the totals of an
// accepted quote.
func (s *InvoiceService) CreateFromQuote(ctx context.Context, companyID, quoteID uint, actorID uint) (*models.Invoice, error) {
	quote, err := s.quoteRepo.FindByID(ctx, companyID, quoteID)
	if err != nil {
		return nil, ErrNotFound
	}
	if quote.Status != models.QuoteStatusAccepted {
		return nil, ErrInvalidState
	}

	invoice := &models.Invoice{
		CompanyID: companyID,
		ClientID:  quote.ClientID,
		QuoteID:   &quote.ID,
		Title:     quote.Title,
		TotalHT:   quote.TotalHT,
		TotalTVA:  quote.TotalTVA,
		TotalTTC:  quote.TotalTTC,
		CreatedBy: &actorID,
	}
	if err := s.Create(ctx, invoice, actorID); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Update modifies a draft invoice
func (s *InvoiceService) Update(ctx context.Context, invoice *models.Invoice, actorID uint) error {
	if invoice.Status != models.InvoiceStatusDraft {
		return ErrInvalidState
	}
	if err := s.repo.Update(ctx, invoice); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, invoice.CompanyID, actorID, "UPDATE", "Invoice", invoice.ID,
		fmt.Sprintf("Factura actualizada: %s", invoice.Number), "", "")
}

func (s *InvoiceService) Delete(ctx context.Context, companyID, id uint, actorID uint) error {
	invoice, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return ErrNotFound
	}
	if invoice.Status != models.InvoiceStatusDraft {
		return ErrInvalidState
	}
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, companyID, actorID, "DELETE", "Invoice", id,
		fmt.Sprintf("Factura eliminada: %s", invoice.Number), "", "")
}

// Send transitions a draft invoice to sent, mints its public token and emails
// the client a link to the public page.
func (s *InvoiceService) Send(ctx context.Context, companyID, id uint, actorID uint) (*models.Invoice, error) {
	invoice, err := s.repo.FindByIDWithDetails(ctx, companyID, id)
	if err != nil {
		return nil, ErrNotFound
	}

	machine := statemachine.NewInvoiceFSM(invoice)
	if err := machine.Send(ctx); err != nil {
		return nil, ErrInvalidState
	}

	now := time.Now()
	invoice.SentAt = &now

	if invoice.PublicToken == nil {
		token, err := GeneratePublicToken()
		if err != nil {
			return nil, err
		}
		invoice.PublicToken = &token
	}

	if invoice.DueDate == nil {
		due := now.AddDate(0, 0, DefaultInvoiceDueDays)
		invoice.DueDate = &due
	}

	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.emailService.SendInvoiceToClient(ctx, invoice)
	})

	s.auditSvc.Log(ctx, companyID, actorID, "SEND", "Invoice", invoice.ID,
		fmt.Sprintf("Factura enviada: %s", invoice.Number), "", "")
	return invoice, nil
}

// MarkPaidInput carries the payment details for MarkPaid
type MarkPaidInput struct {
	PaymentMethod     string
	PaymentNote       *string
	BankTransactionID *uint
}

// MarkPaid settles an invoice. The status flip and the optional allocation
// against a bank transaction commit in one database transaction, so a crash
// can never leave a paid invoice without its reconciliation row or the other
// way around.
func (s *InvoiceService) MarkPaid(ctx context.Context, companyID, id uint, input MarkPaidInput, actorID uint) (*models.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, ErrNotFound
	}

	machine := statemachine.NewInvoiceFSM(invoice)
	if err := machine.MarkPaid(ctx); err != nil {
		return nil, ErrInvalidState
	}

	now := time.Now()
	invoice.PaidAt = &now
	if input.PaymentMethod != "" {
		invoice.PaymentMethod = &input.PaymentMethod
	}
	invoice.PaymentNote = input.PaymentNote

	bankTx, err := s.repo.SavePaidWithReconciliation(ctx, invoice, input.BankTransactionID)
	if err != nil {
		return nil, err
	}

	if bankTx != nil && !bankTx.IsReconciled {
		logger.Info("bank transaction partially reconciled",
			"bank_transaction_id", bankTx.ID, "remaining", bankTx.RemainingAmount())
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.emailService.SendInvoicePaid(ctx, invoice)
	})

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		_, err := s.clientSvc.CheckAndConvertProspect(ctx, invoice.CompanyID, invoice.ClientID)
		return err
	})

	s.notificationSvc.NotifyAdmins(ctx, companyID, "Factura pagada",
		fmt.Sprintf("La factura %s fue marcada como pagada (%.2f EUR)", invoice.Number, invoice.TotalTTC),
		models.NotificationTypeInvoicePaid)

	s.auditSvc.Log(ctx, companyID, actorID, "MARK_PAID", "Invoice", invoice.ID,
		fmt.Sprintf("Factura pagada: %s (%.2f EUR)", invoice.Number, invoice.TotalTTC), "", "")
	return invoice, nil
}

// UpdateDueDate changes the due date of an open invoice. Paid and cancelled
// invoices are immutable.
func (s *InvoiceService) UpdateDueDate(ctx context.Context, companyID, id uint, dueDate time.Time, actorID uint) (*models.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if invoice.IsLocked() {
		return nil, ErrInvoiceLocked
	}

	invoice.DueDate = &dueDate

	// An overdue invoice given breathing room goes back to sent
	if invoice.Status == models.InvoiceStatusOverdue && dueDate.After(time.Now()) {
		invoice.Status = models.InvoiceStatusSent
	}

	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, companyID, actorID, "UPDATE_DUE_DATE", "Invoice", invoice.ID,
		fmt.Sprintf("Fecha de vencimiento actualizada: %s → %s", invoice.Number, dueDate.Format("2006-01-02")), "", "")
	return invoice, nil
}

// Cancel voids an open invoice
func (s *InvoiceService) Cancel(ctx context.Context, companyID, id uint, actorID uint) (*models.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, ErrNotFound
	}

	machine := statemachine.NewInvoiceFSM(invoice)
	if err := machine.Cancel(ctx); err != nil {
		return nil, ErrInvalidState
	}

	now := time.Now()
	invoice.CancelledAt = &now

	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, companyID, actorID, "CANCEL", "Invoice", invoice.ID,
		fmt.Sprintf("Factura anulada: %s", invoice.Number), "", "")
	return invoice, nil
}

// MarkOverdueInvoices sweeps sent invoices past their due date across all
// companies and flips them to overdue. Runs on a schedule.
func (s *InvoiceService) MarkOverdueInvoices(ctx context.Context) (int, error) {
	candidates, err := s.repo.FindOverdueCandidatesAll(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	marked := 0
	for i := range candidates {
		invoice := &candidates[i]
		machine := statemachine.NewInvoiceFSM(invoice)
		if err := machine.MarkOverdue(ctx); err != nil {
			continue
		}
		if err := s.repo.Update(ctx, invoice); err != nil {
			logger.Error("failed to mark invoice overdue", "invoice_id", invoice.ID, "error", err)
			continue
		}
		marked++

		s.notificationSvc.NotifyAdmins(ctx, invoice.CompanyID, "Factura vencida",
			fmt.Sprintf("La factura %s venció el %s", invoice.Number, invoice.DueDate.Format("2006-01-02")),
			models.NotificationTypeInvoiceOverdue)
	}

	if marked > 0 {
		logger.Info("overdue sweep finished", "marked", marked)
	}
	return marked, nil
}

// AttachDocument stores an uploaded file (a signed copy, a delivery note)
// against the invoice
func (s *InvoiceService) AttachDocument(ctx context.Context, companyID, id uint, file multipart.File, header *multipart.FileHeader, actorID uint) (*models.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, ErrNotFound
	}

	path, err := s.storage.Upload(file, header, "invoices")
	if err != nil {
		return nil, err
	}

	if invoice.DocumentPath != nil {
		s.storage.Delete(*invoice.DocumentPath)
	}
	invoice.DocumentPath = &path

	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, companyID, actorID, "ATTACH_DOCUMENT", "Invoice", invoice.ID,
		fmt.Sprintf("Documento adjuntado a la factura %s", invoice.Number), "", "")
	return invoice, nil
}

// DocumentPath returns the stored document path of the invoice
func (s *InvoiceService) DocumentPath(ctx context.Context, companyID, id uint) (string, error) {
	invoice, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return "", ErrNotFound
	}
	if invoice.DocumentPath == nil || !s.storage.Exists(*invoice.DocumentPath) {
		return "", ErrNotFound
	}
	return s.storage.GetFullPath(*invoice.DocumentPath), nil
}
