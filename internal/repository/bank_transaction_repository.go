package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dmartell/clientia-api/internal/models"
)

// BankTransactionRepository defines the interface for bank transaction data
// access. Allocation against a transaction happens through
// InvoiceRepository.SavePaidWithReconciliation so the invoice update shares
// the same database transaction.
type BankTransactionRepository interface {
	FindByID(ctx context.Context, companyID, id uint) (*models.BankTransaction, error)
	FindByIDWithDetails(ctx context.Context, companyID, id uint) (*models.BankTransaction, error)
	Create(ctx context.Context, transaction *models.BankTransaction) error
	Update(ctx context.Context, transaction *models.BankTransaction) error
	Delete(ctx context.Context, companyID, id uint) error
	List(ctx context.Context, companyID uint, query *BankTransactionQuery) ([]models.BankTransaction, int64, error)
	FindReconciliations(ctx context.Context, companyID, transactionID uint) ([]models.InvoiceBankReconciliation, error)
	GetStats(ctx context.Context, companyID uint) (*BankTransactionStats, error)
}

// BankTransactionQuery extends ListQuery with transaction-specific filters
type BankTransactionQuery struct {
	*ListQuery
	Reconciled *bool
}

// BankTransactionStats summarizes the reconciliation state of a company's
// statement lines
type BankTransactionStats struct {
	Total            int64   `json:"total"`
	Reconciled       int64   `json:"reconciled"`
	Pending          int64   `json:"pending"`
	UnallocatedTotal float64 `json:"unallocated_total"`
}

type bankTransactionRepository struct {
	db *gorm.DB
}

// NewBankTransactionRepository creates a new bank transaction repository
func NewBankTransactionRepository(db *gorm.DB) BankTransactionRepository {
	return &bankTransactionRepository{db: db}
}

func (r *bankTransactionRepository) FindByID(ctx context.Context, companyID, id uint) (*models.BankTransaction, error) {
	var transaction models.BankTransaction
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&transaction, id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *bankTransactionRepository) FindByIDWithDetails(ctx context.Context, companyID, id uint) (*models.BankTransaction, error) {
	var transaction models.BankTransaction
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Preload("Reconciliations", func(db *gorm.DB) *gorm.DB {
			return db.Order("reconciled_at ASC")
		}).
		Preload("Reconciliations.Invoice").
		First(&transaction, id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *bankTransactionRepository) Create(ctx context.Context, transaction *models.BankTransaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *bankTransactionRepository) Update(ctx context.Context, transaction *models.BankTransaction) error {
	return r.db.WithContext(ctx).Save(transaction).Error
}

func (r *bankTransactionRepository) Delete(ctx context.Context, companyID, id uint) error {
	return r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&models.BankTransaction{}, id).Error
}

func (r *bankTransactionRepository) List(ctx context.Context, companyID uint, query *BankTransactionQuery) ([]models.BankTransaction, int64, error) {
	var transactions []models.BankTransaction
	var total int64

	db := r.db.WithContext(ctx).Model(&models.BankTransaction{}).
		Where("company_id = ?", companyID)

	if query.Reconciled != nil {
		db = db.Where("is_reconciled = ?", *query.Reconciled)
	}
	if query.Search != "" {
		term := "%" + query.Search + "%"
		db = db.Where("label ILIKE ? OR reference ILIKE ?", term, term)
	}
	if query.Filters["start_date"] != "" {
		db = db.Where("transaction_date >= ?", query.Filters["start_date"])
	}
	if query.Filters["end_date"] != "" {
		db = db.Where("transaction_date <= ?", query.Filters["end_date"])
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("transaction_date DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&transactions).Error
	return transactions, total, err
}

func (r *bankTransactionRepository) FindReconciliations(ctx context.Context, companyID, transactionID uint) ([]models.InvoiceBankReconciliation, error) {
	var recs []models.InvoiceBankReconciliation
	err := r.db.WithContext(ctx).
		Joins("JOIN bank_transactions bt ON bt.id = invoice_bank_reconciliations.bank_transaction_id").
		Where("bt.company_id = ? AND bt.id = ?", companyID, transactionID).
		Preload("Invoice").
		Order("invoice_bank_reconciliations.reconciled_at ASC").
		Find(&recs).Error
	return recs, err
}

func (r *bankTransactionRepository) GetStats(ctx context.Context, companyID uint) (*BankTransactionStats, error) {
	stats := &BankTransactionStats{}

	base := r.db.WithContext(ctx).Model(&models.BankTransaction{}).
		Where("company_id = ?", companyID)

	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("is_reconciled = ?", true).Count(&stats.Reconciled).Error; err != nil {
		return nil, err
	}
	stats.Pending = stats.Total - stats.Reconciled

	row := r.db.WithContext(ctx).Model(&models.BankTransaction{}).
		Where("company_id = ? AND is_reconciled = ?", companyID, false).
		Select("COALESCE(SUM(amount - reconciled_amount), 0)").
		Row()
	if err := row.Scan(&stats.UnallocatedTotal); err != nil {
		return nil, err
	}

	return stats, nil
}
