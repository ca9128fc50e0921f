package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmartell/clientia-api/internal/config"
	"github.com/dmartell/clientia-api/internal/jobs"
	"github.com/dmartell/clientia-api/internal/models"
	"github.com/dmartell/clientia-api/internal/repository"
)

// Mock InvoiceRepository
type mockInvoiceRepo struct {
	repository.InvoiceRepository
	mockFindByID                   func(ctx context.Context, companyID, id uint) (*models.Invoice, error)
	mockUpdate                     func(ctx context.Context, invoice *models.Invoice) error
	mockSavePaidWithReconciliation func(ctx context.Context, invoice *models.Invoice, bankTransactionID *uint) (*models.BankTransaction, error)
	mockFindOverdueCandidatesAll   func(ctx context.Context, asOf time.Time) ([]models.Invoice, error)
}

func (m *mockInvoiceRepo) FindByID(ctx context.Context, companyID, id uint) (*models.Invoice, error) {
	return m.mockFindByID(ctx, companyID, id)
}

func (m *mockInvoiceRepo) Update(ctx context.Context, invoice *models.Invoice) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, invoice)
	}
	return nil
}

func (m *mockInvoiceRepo) SavePaidWithReconciliation(ctx context.Context, invoice *models.Invoice, bankTransactionID *uint) (*models.BankTransaction, error) {
	return m.mockSavePaidWithReconciliation(ctx, invoice, bankTransactionID)
}

func (m *mockInvoiceRepo) FindOverdueCandidatesAll(ctx context.Context, asOf time.Time) ([]models.Invoice, error) {
	return m.mockFindOverdueCandidatesAll(ctx, asOf)
}

func newTestInvoiceService(t *testing.T, repo repository.InvoiceRepository) *InvoiceService {
	t.Helper()

	clientRepo := &mockClientRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Client, error) {
			return &models.Client{ID: id, CompanyID: companyID, Status: models.ClientStatusActive}, nil
		},
	}
	clientSvc := NewClientService(clientRepo, nil, nil)

	worker := jobs.NewWorker(1)
	t.Cleanup(worker.Shutdown)

	emailSvc := NewEmailService(&config.Config{})

	return NewInvoiceService(repo, clientRepo, nil, clientSvc, worker, emailSvc, nil, nil, nil)
}

func TestMarkPaid_InvalidState(t *testing.T) {
	saved := false
	repo := &mockInvoiceRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Invoice, error) {
			return &models.Invoice{ID: id, CompanyID: companyID, Status: models.InvoiceStatusDraft}, nil
		},
		mockSavePaidWithReconciliation: func(ctx context.Context, invoice *models.Invoice, bankTransactionID *uint) (*models.BankTransaction, error) {
			saved = true
			return nil, nil
		},
	}
	service := newTestInvoiceService(t, repo)

	invoice, err := service.MarkPaid(context.Background(), 1, 5, MarkPaidInput{}, 9)
	assert.Nil(t, invoice)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.False(t, saved)
}

func TestMarkPaid_WithoutBankTransaction(t *testing.T) {
	var passedID *uint
	repo := &mockInvoiceRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Invoice, error) {
			return &models.Invoice{ID: id, CompanyID: companyID, Number: "FAC-2026-0001", Status: models.InvoiceStatusSent, TotalTTC: 121}, nil
		},
		mockSavePaidWithReconciliation: func(ctx context.Context, invoice *models.Invoice, bankTransactionID *uint) (*models.BankTransaction, error) {
			passedID = bankTransactionID
			return nil, nil
		},
	}
	service := newTestInvoiceService(t, repo)

	invoice, err := service.MarkPaid(context.Background(), 1, 5, MarkPaidInput{PaymentMethod: "transferencia"}, 9)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
	assert.NotNil(t, invoice.PaidAt)
	assert.Equal(t, "transferencia", *invoice.PaymentMethod)
	assert.Nil(t, passedID)
}

func TestMarkPaid_AllocatesAgainstBankTransaction(t *testing.T) {
	txID := uint(33)
	var passedID *uint
	repo := &mockInvoiceRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Invoice, error) {
			return &models.Invoice{ID: id, CompanyID: companyID, Number: "FAC-2026-0002", Status: models.InvoiceStatusOverdue, TotalTTC: 60}, nil
		},
		mockSavePaidWithReconciliation: func(ctx context.Context, invoice *models.Invoice, bankTransactionID *uint) (*models.BankTransaction, error) {
			passedID = bankTransactionID
			return &models.BankTransaction{ID: txID, Amount: 100, ReconciledAmount: 60}, nil
		},
	}
	service := newTestInvoiceService(t, repo)

	invoice, err := service.MarkPaid(context.Background(), 1, 5, MarkPaidInput{BankTransactionID: &txID}, 9)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
	assert.NotNil(t, passedID)
	assert.Equal(t, txID, *passedID)
}

func TestMarkPaid_ReconciliationFailureRollsBack(t *testing.T) {
	repo := &mockInvoiceRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Invoice, error) {
			return &models.Invoice{ID: id, CompanyID: companyID, Status: models.InvoiceStatusSent}, nil
		},
		mockSavePaidWithReconciliation: func(ctx context.Context, invoice *models.Invoice, bankTransactionID *uint) (*models.BankTransaction, error) {
			return nil, errors.New("bank transaction not found")
		},
	}
	service := newTestInvoiceService(t, repo)

	invoice, err := service.MarkPaid(context.Background(), 1, 5, MarkPaidInput{}, 9)
	assert.Nil(t, invoice)
	assert.Error(t, err)
}

func TestUpdateDueDate_LockedInvoice(t *testing.T) {
	for _, status := range []string{models.InvoiceStatusPaid, models.InvoiceStatusCancelled} {
		repo := &mockInvoiceRepo{
			mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Invoice, error) {
				return &models.Invoice{ID: id, CompanyID: companyID, Status: status}, nil
			},
		}
		service := newTestInvoiceService(t, repo)

		invoice, err := service.UpdateDueDate(context.Background(), 1, 5, time.Now().AddDate(0, 1, 0), 9)
		assert.Nil(t, invoice, status)
		assert.ErrorIs(t, err, ErrInvoiceLocked, status)
	}
}

func TestUpdateDueDate_OverdueWithFutureDateReturnsToSent(t *testing.T) {
	repo := &mockInvoiceRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Invoice, error) {
			return &models.Invoice{ID: id, CompanyID: companyID, Status: models.InvoiceStatusOverdue}, nil
		},
	}
	service := newTestInvoiceService(t, repo)

	due := time.Now().AddDate(0, 0, 15)
	invoice, err := service.UpdateDueDate(context.Background(), 1, 5, due, 9)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusSent, invoice.Status)
	assert.Equal(t, due, *invoice.DueDate)
}

func TestUpdateDueDate_OverdueWithPastDateStaysOverdue(t *testing.T) {
	repo := &mockInvoiceRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Invoice, error) {
			return &models.Invoice{ID: id, CompanyID: companyID, Status: models.InvoiceStatusOverdue}, nil
		},
	}
	service := newTestInvoiceService(t, repo)

	invoice, err := service.UpdateDueDate(context.Background(), 1, 5, time.Now().AddDate(0, 0, -3), 9)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusOverdue, invoice.Status)
}

func TestCancel_PaidInvoice(t *testing.T) {
	repo := &mockInvoiceRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Invoice, error) {
			return &models.Invoice{ID: id, CompanyID: companyID, Status: models.InvoiceStatusPaid}, nil
		},
	}
	service := newTestInvoiceService(t, repo)

	invoice, err := service.Cancel(context.Background(), 1, 5, 9)
	assert.Nil(t, invoice)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCancel_SentInvoice(t *testing.T) {
	repo := &mockInvoiceRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Invoice, error) {
			return &models.Invoice{ID: id, CompanyID: companyID, Status: models.InvoiceStatusSent}, nil
		},
	}
	service := newTestInvoiceService(t, repo)

	invoice, err := service.Cancel(context.Background(), 1, 5, 9)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusCancelled, invoice.Status)
	assert.NotNil(t, invoice.CancelledAt)
}

func TestMarkOverdueInvoices_SweepsSentPastDue(t *testing.T) {
	due := time.Now().AddDate(0, 0, -2)
	updated := 0
	repo := &mockInvoiceRepo{
		mockFindOverdueCandidatesAll: func(ctx context.Context, asOf time.Time) ([]models.Invoice, error) {
			return []models.Invoice{
				{ID: 1, CompanyID: 1, Number: "FAC-2026-0001", Status: models.InvoiceStatusSent, DueDate: &due},
				{ID: 2, CompanyID: 2, Number: "FAC-2026-0002", Status: models.InvoiceStatusSent, DueDate: &due},
			}, nil
		},
		mockUpdate: func(ctx context.Context, invoice *models.Invoice) error {
			updated++
			return nil
		},
	}
	service := newTestInvoiceService(t, repo)

	marked, err := service.MarkOverdueInvoices(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, marked)
	assert.Equal(t, 2, updated)
}
