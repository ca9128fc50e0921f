package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dmartell/clientia-api/internal/models"
)

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	FindByID(ctx context.Context, companyID, id uint) (*models.Invoice, error)
	FindByIDWithDetails(ctx context.Context, companyID, id uint) (*models.Invoice, error)
	FindByPublicToken(ctx context.Context, token string) (*models.Invoice, error)
	RecordView(ctx context.Context, id uint) error
	Create(ctx context.Context, invoice *models.Invoice) error
	Update(ctx context.Context, invoice *models.Invoice) error
	Delete(ctx context.Context, companyID, id uint) error
	List(ctx context.Context, companyID uint, query *InvoiceQuery) ([]models.Invoice, int64, error)
	FindOverdueCandidates(ctx context.Context, companyID uint, asOf time.Time) ([]models.Invoice, error)
	FindOverdueCandidatesAll(ctx context.Context, asOf time.Time) ([]models.Invoice, error)
	NextNumber(ctx context.Context, companyID uint) (int64, error)
	// SavePaidWithReconciliation persists a paid invoice and, when a bank
	// transaction id is given, allocates the invoice amount against that
	// transaction in the same database transaction. The transaction row is
	// locked for the read-modify-write so concurrent mark-paid calls cannot
	// double-allocate, and a failure at any step rolls back the whole
	// operation including the invoice status change.
	SavePaidWithReconciliation(ctx context.Context, invoice *models.Invoice, bankTransactionID *uint) (*models.BankTransaction, error)
	FindPaidBetween(ctx context.Context, companyID uint, from, to time.Time) ([]models.Invoice, error)
}

// InvoiceQuery extends ListQuery with invoice-specific filters
type InvoiceQuery struct {
	*ListQuery
	ClientID uint
	Status   string
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) FindByID(ctx context.Context, companyID, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByIDWithDetails(ctx context.Context, companyID, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Where("invoices.company_id = ?", companyID).
		Joins("Client").
		Joins("Creator").
		Preload("Reconciliations", func(db *gorm.DB) *gorm.DB {
			return db.Order("reconciled_at ASC")
		}).
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByPublicToken(ctx context.Context, token string) (*models.Invoice, error) {
	if token == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Where("public_token = ?", token).
		Joins("Client").
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// RecordView increments the view counter and stamps the first view once
func (r *invoiceRepository) RecordView(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"view_count":      gorm.Expr("view_count + 1"),
			"first_viewed_at": gorm.Expr("COALESCE(first_viewed_at, NOW())"),
		}).Error
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *invoiceRepository) Delete(ctx context.Context, companyID, id uint) error {
	return r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&models.Invoice{}, id).Error
}

func (r *invoiceRepository) List(ctx context.Context, companyID uint, query *InvoiceQuery) ([]models.Invoice, int64, error) {
	var invoices []models.Invoice
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("invoices.company_id = ?", companyID)

	if query.ClientID > 0 {
		db = db.Where("client_id = ?", query.ClientID)
	}
	if query.Status != "" {
		db = db.Where("invoices.status = ?", query.Status)
	}
	if query.Filters["start_date"] != "" {
		db = db.Where("invoices.created_at >= ?", query.Filters["start_date"])
	}
	if query.Filters["end_date"] != "" {
		db = db.Where("invoices.created_at <= ?", query.Filters["end_date"])
	}
	if query.Search != "" {
		term := "%" + query.Search + "%"
		db = db.Joins("JOIN clients ON clients.id = invoices.client_id").
			Where("invoices.number ILIKE ? OR clients.name ILIKE ?", term, term)
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := "invoices." + query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("invoices.created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Client").Find(&invoices).Error
	return invoices, total, err
}

func (r *invoiceRepository) FindOverdueCandidates(ctx context.Context, companyID uint, asOf time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND status = ? AND due_date IS NOT NULL AND due_date < ?",
			companyID, models.InvoiceStatusSent, asOf).
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) FindOverdueCandidatesAll(ctx context.Context, asOf time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?",
			models.InvoiceStatusSent, asOf).
		Preload("Creator").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) NextNumber(ctx context.Context, companyID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count + 1, err
}

func (r *invoiceRepository) SavePaidWithReconciliation(ctx context.Context, invoice *models.Invoice, bankTransactionID *uint) (*models.BankTransaction, error) {
	var bankTx *models.BankTransaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(invoice).Error; err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}

		if bankTransactionID == nil {
			return nil
		}

		// Row lock: concurrent allocations against the same transaction
		// serialize here instead of racing on ReconciledAmount.
		var bt models.BankTransaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("company_id = ?", invoice.CompanyID).
			First(&bt, *bankTransactionID).Error; err != nil {
			return err
		}

		rec := bt.ApplyAllocation(invoice.ID, invoice.TotalTTC, time.Now())
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("failed to create reconciliation record: %w", err)
		}

		if err := tx.Model(&models.BankTransaction{}).
			Where("id = ?", bt.ID).
			Updates(map[string]interface{}{
				"reconciled_amount": bt.ReconciledAmount,
				"is_reconciled":     bt.IsReconciled,
				"invoice_id":        bt.InvoiceID,
			}).Error; err != nil {
			return fmt.Errorf("failed to update bank transaction: %w", err)
		}

		bankTx = &bt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bankTx, nil
}

func (r *invoiceRepository) FindPaidBetween(ctx context.Context, companyID uint, from, to time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND status = ? AND paid_at BETWEEN ? AND ?",
			companyID, models.InvoiceStatusPaid, from, to).
		Preload("Client").
		Order("paid_at ASC").
		Find(&invoices).Error
	return invoices, err
}
