package services

import (
	"context"
	"fmt"

	"github.com/dmartell/clientia-api/internal/models"
	"github.com/dmartell/clientia-api/internal/repository"
)

// BankTransactionService handles bank transaction business logic
type BankTransactionService struct {
	repo     repository.BankTransactionRepository
	auditSvc *AuditService
}

func NewBankTransactionService(repo repository.BankTransactionRepository, auditSvc *AuditService) *BankTransactionService {
	return &BankTransactionService{
		repo:     repo,
		auditSvc: auditSvc,
	}
}

func (s *BankTransactionService) FindByID(ctx context.Context, companyID, id uint) (*models.BankTransaction, error) {
	return s.repo.FindByID(ctx, companyID, id)
}

func (s *BankTransactionService) FindByIDWithDetails(ctx context.Context, companyID, id uint) (*models.BankTransaction, error) {
	return s.repo.FindByIDWithDetails(ctx, companyID, id)
}

func (s *BankTransactionService) List(ctx context.Context, companyID uint, query *repository.BankTransactionQuery) ([]models.BankTransaction, int64, error) {
	return s.repo.List(ctx, companyID, query)
}

func (s *BankTransactionService) Create(ctx context.Context, transaction *models.BankTransaction, actorID uint) error {
	if err := s.repo.Create(ctx, transaction); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, transaction.CompanyID, actorID, "CREATE", "BankTransaction", transaction.ID,
		fmt.Sprintf("Movimiento bancario registrado: %s (%.2f EUR)", transaction.Label, transaction.Amount), "", "")
}

// Import registers a batch of transactions, typically parsed from a bank
// statement. Returns how many were created.
func (s *BankTransactionService) Import(ctx context.Context, companyID uint, transactions []models.BankTransaction, actorID uint) (int, error) {
	created := 0
	for i := range transactions {
		transactions[i].CompanyID = companyID
		if err := s.repo.Create(ctx, &transactions[i]); err != nil {
			return created, err
		}
		created++
	}
	s.auditSvc.Log(ctx, companyID, actorID, "IMPORT", "BankTransaction", 0,
		fmt.Sprintf("Importación de movimientos bancarios: %d registros", created), "", "")
	return created, nil
}

// Update edits an unreconciled transaction. Once money has been allocated
// against it the row is frozen.
func (s *BankTransactionService) Update(ctx context.Context, transaction *models.BankTransaction, actorID uint) error {
	if transaction.ReconciledAmount != 0 {
		return ErrInvalidState
	}
	if err := s.repo.Update(ctx, transaction); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, transaction.CompanyID, actorID, "UPDATE", "BankTransaction", transaction.ID,
		fmt.Sprintf("Movimiento bancario actualizado: %s", transaction.Label), "", "")
}

func (s *BankTransactionService) Delete(ctx context.Context, companyID, id uint, actorID uint) error {
	transaction, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return ErrNotFound
	}
	if transaction.ReconciledAmount != 0 {
		return ErrInvalidState
	}
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, companyID, actorID, "DELETE", "BankTransaction", id,
		fmt.Sprintf("Movimiento bancario eliminado: %s", transaction.Label), "", "")
}

// Reconciliations returns the allocation history of a transaction
func (s *BankTransactionService) Reconciliations(ctx context.Context, companyID, id uint) ([]models.InvoiceBankReconciliation, error) {
	if _, err := s.repo.FindByID(ctx, companyID, id); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.FindReconciliations(ctx, companyID, id)
}

// Stats returns counts and the unallocated total for the company
func (s *BankTransactionService) Stats(ctx context.Context, companyID uint) (*repository.BankTransactionStats, error) {
	return s.repo.GetStats(ctx, companyID)
}
