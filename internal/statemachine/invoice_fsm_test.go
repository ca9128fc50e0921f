package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmartell/clientia-api/internal/models"
)

func TestInvoiceFSM_SendFromDraft(t *testing.T) {
	invoice := &models.Invoice{Status: models.InvoiceStatusDraft}
	machine := NewInvoiceFSM(invoice)

	assert.NoError(t, machine.Send(context.Background()))
	assert.Equal(t, models.InvoiceStatusSent, invoice.Status)
}

func TestInvoiceFSM_MarkPaidFromSentAndOverdue(t *testing.T) {
	for _, status := range []string{models.InvoiceStatusSent, models.InvoiceStatusOverdue} {
		invoice := &models.Invoice{Status: status}
		machine := NewInvoiceFSM(invoice)

		assert.NoError(t, machine.MarkPaid(context.Background()), status)
		assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
	}
}

func TestInvoiceFSM_MarkPaidFromDraftFails(t *testing.T) {
	invoice := &models.Invoice{Status: models.InvoiceStatusDraft}
	machine := NewInvoiceFSM(invoice)

	assert.Error(t, machine.MarkPaid(context.Background()))
	assert.Equal(t, models.InvoiceStatusDraft, invoice.Status)
}

func TestInvoiceFSM_MarkOverdueOnlyFromSent(t *testing.T) {
	invoice := &models.Invoice{Status: models.InvoiceStatusSent}
	machine := NewInvoiceFSM(invoice)
	assert.NoError(t, machine.MarkOverdue(context.Background()))
	assert.Equal(t, models.InvoiceStatusOverdue, invoice.Status)

	for _, status := range []string{models.InvoiceStatusDraft, models.InvoiceStatusPaid, models.InvoiceStatusCancelled} {
		invoice := &models.Invoice{Status: status}
		machine := NewInvoiceFSM(invoice)
		assert.Error(t, machine.MarkOverdue(context.Background()), status)
	}
}

func TestInvoiceFSM_CancelFromOpenStates(t *testing.T) {
	for _, status := range []string{models.InvoiceStatusDraft, models.InvoiceStatusSent, models.InvoiceStatusOverdue} {
		invoice := &models.Invoice{Status: status}
		machine := NewInvoiceFSM(invoice)

		assert.NoError(t, machine.Cancel(context.Background()), status)
		assert.Equal(t, models.InvoiceStatusCancelled, invoice.Status)
	}
}

func TestInvoiceFSM_TerminalStatesAreFinal(t *testing.T) {
	for _, status := range []string{models.InvoiceStatusPaid, models.InvoiceStatusCancelled} {
		invoice := &models.Invoice{Status: status}
		machine := NewInvoiceFSM(invoice)

		assert.Error(t, machine.Send(context.Background()), status)
		assert.Error(t, machine.MarkPaid(context.Background()), status)
		assert.Error(t, machine.Cancel(context.Background()), status)
		assert.Equal(t, status, invoice.Status)
	}
}
