package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/dmartell/clientia-api/internal/models"
)

// QuoteFSM wraps a quote with its state machine.
//
// draft → sent → {accepted, rejected, expired}; the three bracketed states are
// terminal for the public-response path.
type QuoteFSM struct {
	quote *models.Quote
	fsm   *fsm.FSM
}

// NewQuoteFSM creates a new quote state machine
func NewQuoteFSM(quote *models.Quote) *QuoteFSM {
	q := &QuoteFSM{
		quote: quote,
	}

	q.fsm = fsm.NewFSM(
		quote.Status,
		fsm.Events{
			// draft → sent
			{Name: "send", Src: []string{models.QuoteStatusDraft}, Dst: models.QuoteStatusSent},

			// sent → accepted
			{Name: "accept", Src: []string{models.QuoteStatusSent}, Dst: models.QuoteStatusAccepted},

			// sent → rejected
			{Name: "reject", Src: []string{models.QuoteStatusSent}, Dst: models.QuoteStatusRejected},

			// sent → expired (lazy, on public response past validity date)
			{Name: "expire", Src: []string{models.QuoteStatusSent}, Dst: models.QuoteStatusExpired},
		},
		fsm.Callbacks{},
	)

	return q
}

// Send transitions the quote to sent
func (q *QuoteFSM) Send(ctx context.Context) error {
	if !q.quote.MaySend() {
		return fmt.Errorf("quote cannot be sent in current state: %s", q.quote.Status)
	}

	if err := q.fsm.Event(ctx, "send"); err != nil {
		return fmt.Errorf("failed to send quote: %w", err)
	}

	q.quote.Status = q.fsm.Current()
	return nil
}

// Accept transitions the quote to accepted
func (q *QuoteFSM) Accept(ctx context.Context) error {
	if !q.quote.MayRespond() {
		return fmt.Errorf("quote cannot be accepted in current state: %s", q.quote.Status)
	}

	if err := q.fsm.Event(ctx, "accept"); err != nil {
		return fmt.Errorf("failed to accept quote: %w", err)
	}

	q.quote.Status = q.fsm.Current()
	return nil
}

// Reject transitions the quote to rejected
func (q *QuoteFSM) Reject(ctx context.Context) error {
	if !q.quote.MayRespond() {
		return fmt.Errorf("quote cannot be rejected in current state: %s", q.quote.Status)
	}

	if err := q.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject quote: %w", err)
	}

	q.quote.Status = q.fsm.Current()
	return nil
}

// Expire transitions the quote to expired
func (q *QuoteFSM) Expire(ctx context.Context) error {
	if !q.quote.MayRespond() {
		return fmt.Errorf("quote cannot expire in current state: %s", q.quote.Status)
	}

	if err := q.fsm.Event(ctx, "expire"); err != nil {
		return fmt.Errorf("failed to expire quote: %w", err)
	}

	q.quote.Status = q.fsm.Current()
	return nil
}

// Current returns the current state
func (q *QuoteFSM) Current() string {
	return q.fsm.Current()
}

// Can checks if a transition is possible
func (q *QuoteFSM) Can(event string) bool {
	return q.fsm.Can(event)
}
