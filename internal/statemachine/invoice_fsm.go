package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/dmartell/clientia-api/internal/models"
)

// InvoiceFSM wraps an invoice with its state machine.
//
// draft → sent → {paid, overdue, cancelled}; overdue can still be paid or
// cancelled, paid and cancelled are terminal.
type InvoiceFSM struct {
	invoice *models.Invoice
	fsm     *fsm.FSM
}

// NewInvoiceFSM creates a new invoice state machine
func NewInvoiceFSM(invoice *models.Invoice) *InvoiceFSM {
	i := &InvoiceFSM{
		invoice: invoice,
	}

	i.fsm = fsm.NewFSM(
		invoice.Status,
		fsm.Events{
			// draft → sent
			{Name: "send", Src: []string{models.InvoiceStatusDraft}, Dst: models.InvoiceStatusSent},

			// sent → overdue (scheduled sweep)
			{Name: "mark_overdue", Src: []string{models.InvoiceStatusSent}, Dst: models.InvoiceStatusOverdue},

			// sent/overdue → paid
			{Name: "mark_paid", Src: []string{models.InvoiceStatusSent, models.InvoiceStatusOverdue}, Dst: models.InvoiceStatusPaid},

			// draft/sent/overdue → cancelled
			{Name: "cancel", Src: []string{models.InvoiceStatusDraft, models.InvoiceStatusSent, models.InvoiceStatusOverdue}, Dst: models.InvoiceStatusCancelled},
		},
		fsm.Callbacks{},
	)

	return i
}

// Send transitions the invoice to sent
func (i *InvoiceFSM) Send(ctx context.Context) error {
	if !i.invoice.MaySend() {
		return fmt.Errorf("invoice cannot be sent in current state: %s", i.invoice.Status)
	}

	if err := i.fsm.Event(ctx, "send"); err != nil {
		return fmt.Errorf("failed to send invoice: %w", err)
	}

	i.invoice.Status = i.fsm.Current()
	return nil
}

// MarkPaid transitions the invoice to paid
func (i *InvoiceFSM) MarkPaid(ctx context.Context) error {
	if !i.invoice.MayMarkPaid() {
		return fmt.Errorf("invoice cannot be marked paid in current state: %s", i.invoice.Status)
	}

	if err := i.fsm.Event(ctx, "mark_paid"); err != nil {
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}

	i.invoice.Status = i.fsm.Current()
	return nil
}

// MarkOverdue transitions the invoice to overdue
func (i *InvoiceFSM) MarkOverdue(ctx context.Context) error {
	if err := i.fsm.Event(ctx, "mark_overdue"); err != nil {
		return fmt.Errorf("failed to mark invoice overdue: %w", err)
	}

	i.invoice.Status = i.fsm.Current()
	return nil
}

// Cancel transitions the invoice to cancelled
func (i *InvoiceFSM) Cancel(ctx context.Context) error {
	if !i.invoice.MayCancel() {
		return fmt.Errorf("invoice cannot be cancelled in current state: %s", i.invoice.Status)
	}

	if err := i.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel invoice: %w", err)
	}

	i.invoice.Status = i.fsm.Current()
	return nil
}

// Current returns the current state
func (i *InvoiceFSM) Current() string {
	return i.fsm.Current()
}

// Can checks if a transition is possible
func (i *InvoiceFSM) Can(event string) bool {
	return i.fsm.Can(event)
}
