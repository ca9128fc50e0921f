package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyAllocation_PartialThenFull(t *testing.T) {
	tx := &BankTransaction{ID: 7, Amount: 100}
	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	rec := tx.ApplyAllocation(11, 60, at)
	assert.Equal(t, 60.0, tx.ReconciledAmount)
	assert.False(t, tx.IsReconciled)
	assert.Equal(t, 40.0, tx.RemainingAmount())
	assert.Equal(t, uint(11), rec.InvoiceID)
	assert.Equal(t, uint(7), rec.BankTransactionID)
	assert.Equal(t, 60.0, rec.Amount)
	assert.Equal(t, at, rec.ReconciledAt)

	tx.ApplyAllocation(12, 40, at)
	assert.Equal(t, 100.0, tx.ReconciledAmount)
	assert.True(t, tx.IsReconciled)
}

func TestApplyAllocation_WithinTolerance(t *testing.T) {
	tx := &BankTransaction{ID: 1, Amount: 100}

	// A cent of float drift still counts as fully reconciled
	tx.ApplyAllocation(5, 99.995, time.Now())
	assert.True(t, tx.IsReconciled)
}

func TestApplyAllocation_ExactToleranceBoundary(t *testing.T) {
	tx := &BankTransaction{ID: 1, Amount: 100}

	// One cent short is exactly the tolerance, not beyond it
	tx.ApplyAllocation(5, 99.99, time.Now())
	assert.True(t, tx.IsReconciled)

	short := &BankTransaction{ID: 2, Amount: 100}
	short.ApplyAllocation(5, 99.98, time.Now())
	assert.False(t, short.IsReconciled)
}

func TestApplyAllocation_OverAllocationAllowed(t *testing.T) {
	tx := &BankTransaction{ID: 1, Amount: 100}

	tx.ApplyAllocation(5, 150, time.Now())
	assert.Equal(t, 150.0, tx.ReconciledAmount)
	assert.True(t, tx.IsReconciled)
	assert.Equal(t, -50.0, tx.RemainingAmount())
}

func TestApplyAllocation_LegacyInvoiceLinkSetOnce(t *testing.T) {
	tx := &BankTransaction{ID: 1, Amount: 200}

	tx.ApplyAllocation(11, 50, time.Now())
	tx.ApplyAllocation(22, 50, time.Now())

	assert.NotNil(t, tx.InvoiceID)
	assert.Equal(t, uint(11), *tx.InvoiceID)
}

func TestAmountsEqual(t *testing.T) {
	assert.True(t, AmountsEqual(100, 100))
	// 100.01-100 lands slightly above 0.01 in float64; the cent rounding
	// must absorb that
	assert.True(t, AmountsEqual(100, 100.01))
	assert.True(t, AmountsEqual(100.01, 100))
	assert.True(t, AmountsEqual(0.01, 0.02))
	assert.False(t, AmountsEqual(100, 100.02))
	assert.False(t, AmountsEqual(0, 0.02))
	assert.True(t, AmountsEqual(250000.00, 250000.01))
}
