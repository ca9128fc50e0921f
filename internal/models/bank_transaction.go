package models

import (
	"math"
	"time"
)

// ReconciliationTolerance is the absolute margin used to treat near-equal
// currency amounts as equal when deciding whether a transaction is fully
// reconciled.
const ReconciliationTolerance = 0.01

// BankTransaction represents an imported bank statement line. Payments are
// allocated against it through InvoiceBankReconciliation rows; the running
// total lives in ReconciledAmount.
type BankTransaction struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CompanyID        uint      `gorm:"not null;index" json:"company_id"`
	Label            string    `gorm:"not null" json:"label"`
	Amount           float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	TransactionDate  time.Time `gorm:"type:date;not null;index" json:"transaction_date"`
	Reference        *string   `json:"reference"`
	ReconciledAmount float64   `gorm:"type:decimal(15,2);default:0" json:"reconciled_amount"`
	IsReconciled     bool      `gorm:"default:false;index" json:"is_reconciled"`
	// Legacy single-invoice link kept for old statement views. Set on the
	// first reconciliation only, never overwritten afterwards.
	InvoiceID *uint     `gorm:"index" json:"invoice_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Company         Company                     `gorm:"foreignKey:CompanyID" json:"-"`
	Invoice         *Invoice                    `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	Reconciliations []InvoiceBankReconciliation `gorm:"foreignKey:BankTransactionID" json:"reconciliations,omitempty"`
}

// TableName specifies the table name for BankTransaction
func (BankTransaction) TableName() string {
	return "bank_transactions"
}

// RemainingAmount returns the unallocated part of the transaction. Negative
// when the transaction has been over-allocated.
func (t *BankTransaction) RemainingAmount() float64 {
	return t.Amount - t.ReconciledAmount
}

// FullyReconciledAt returns true when the given running total covers the
// transaction amount within the tolerance
func (t *BankTransaction) FullyReconciledAt(reconciled float64) bool {
	return reconciled >= t.Amount || AmountsEqual(reconciled, t.Amount)
}

// AmountsEqual compares two currency amounts within the tolerance. The
// comparison runs on rounded cents: a bare math.Abs(a-b) <= 0.01 rejects
// pairs like 100 and 100.01 whose float64 difference lands a hair above
// the tolerance.
func AmountsEqual(a, b float64) bool {
	return math.Round(math.Abs(a-b)*100) <= ReconciliationTolerance*100
}

// ApplyAllocation records an invoice payment against the transaction: it adds
// the amount to the running reconciled total, refreshes the reconciled flag
// and sets the legacy invoice link if still unset. Over-allocation is allowed
// by policy, the total is never capped at Amount. Returns the append-only
// junction row to persist.
func (t *BankTransaction) ApplyAllocation(invoiceID uint, amount float64, at time.Time) InvoiceBankReconciliation {
	t.ReconciledAmount += amount
	t.IsReconciled = t.FullyReconciledAt(t.ReconciledAmount)
	if t.InvoiceID == nil {
		t.InvoiceID = &invoiceID
	}
	return InvoiceBankReconciliation{
		InvoiceID:         invoiceID,
		BankTransactionID: t.ID,
		Amount:            amount,
		ReconciledAt:      at,
	}
}

// InvoiceBankReconciliation links one invoice payment to one bank transaction
// with the specific amount allocated. Rows are append-only: a reconciliation
// is created once per mark-paid action and never mutated.
type InvoiceBankReconciliation struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	InvoiceID         uint      `gorm:"not null;index" json:"invoice_id"`
	BankTransactionID uint      `gorm:"not null;index" json:"bank_transaction_id"`
	Amount            float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	ReconciledAt      time.Time `gorm:"not null;default:current_timestamp" json:"reconciled_at"`
	CreatedAt         time.Time `json:"created_at"`

	// Associations
	Invoice         *Invoice         `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	BankTransaction *BankTransaction `gorm:"foreignKey:BankTransactionID" json:"bank_transaction,omitempty"`
}

// TableName specifies the table name for InvoiceBankReconciliation
func (InvoiceBankReconciliation) TableName() string {
	return "invoice_bank_reconciliations"
}

// InvoiceBankReconciliationResponse is the JSON response format for
// reconciliation entries
type InvoiceBankReconciliationResponse struct {
	ID                uint      `json:"id"`
	InvoiceID         uint      `json:"invoice_id"`
	InvoiceNumber     string    `json:"invoice_number,omitempty"`
	BankTransactionID uint      `json:"bank_transaction_id"`
	Amount            float64   `json:"amount"`
	ReconciledAt      time.Time `json:"reconciled_at"`
}

// ToResponse converts InvoiceBankReconciliation to its response shape
func (r *InvoiceBankReconciliation) ToResponse() InvoiceBankReconciliationResponse {
	resp := InvoiceBankReconciliationResponse{
		ID:                r.ID,
		InvoiceID:         r.InvoiceID,
		BankTransactionID: r.BankTransactionID,
		Amount:            r.Amount,
		ReconciledAt:      r.ReconciledAt,
	}
	if r.Invoice != nil {
		resp.InvoiceNumber = r.Invoice.Number
	}
	return resp
}

// BankTransactionResponse is the JSON response format for bank transactions
type BankTransactionResponse struct {
	ID               uint      `json:"id"`
	Label            string    `json:"label"`
	Amount           float64   `json:"amount"`
	TransactionDate  time.Time `json:"transaction_date"`
	Reference        *string   `json:"reference"`
	ReconciledAmount float64   `json:"reconciled_amount"`
	RemainingAmount  float64   `json:"remaining_amount"`
	IsReconciled     bool      `json:"is_reconciled"`
	InvoiceID        *uint     `json:"invoice_id"`
	Reconciliations  []InvoiceBankReconciliationResponse `json:"reconciliations,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ToResponse converts BankTransaction to BankTransactionResponse
func (t *BankTransaction) ToResponse() BankTransactionResponse {
	resp := BankTransactionResponse{
		ID:               t.ID,
		Label:            t.Label,
		Amount:           t.Amount,
		TransactionDate:  t.TransactionDate,
		Reference:        t.Reference,
		ReconciledAmount: t.ReconciledAmount,
		RemainingAmount:  t.RemainingAmount(),
		IsReconciled:     t.IsReconciled,
		InvoiceID:        t.InvoiceID,
		CreatedAt:        t.CreatedAt,
	}
	for _, rec := range t.Reconciliations {
		resp.Reconciliations = append(resp.Reconciliations, rec.ToResponse())
	}
	return resp
}
