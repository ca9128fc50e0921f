package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmartell/clientia-api/internal/models"
)

func TestQuoteFSM_SendFromDraft(t *testing.T) {
	quote := &models.Quote{Status: models.QuoteStatusDraft}
	machine := NewQuoteFSM(quote)

	assert.NoError(t, machine.Send(context.Background()))
	assert.Equal(t, models.QuoteStatusSent, quote.Status)
}

func TestQuoteFSM_SendTwiceFails(t *testing.T) {
	quote := &models.Quote{Status: models.QuoteStatusSent}
	machine := NewQuoteFSM(quote)

	assert.Error(t, machine.Send(context.Background()))
	assert.Equal(t, models.QuoteStatusSent, quote.Status)
}

func TestQuoteFSM_AcceptFromSent(t *testing.T) {
	quote := &models.Quote{Status: models.QuoteStatusSent}
	machine := NewQuoteFSM(quote)

	assert.NoError(t, machine.Accept(context.Background()))
	assert.Equal(t, models.QuoteStatusAccepted, quote.Status)
}

func TestQuoteFSM_RejectFromSent(t *testing.T) {
	quote := &models.Quote{Status: models.QuoteStatusSent}
	machine := NewQuoteFSM(quote)

	assert.NoError(t, machine.Reject(context.Background()))
	assert.Equal(t, models.QuoteStatusRejected, quote.Status)
}

func TestQuoteFSM_ExpireFromSent(t *testing.T) {
	quote := &models.Quote{Status: models.QuoteStatusSent}
	machine := NewQuoteFSM(quote)

	assert.NoError(t, machine.Expire(context.Background()))
	assert.Equal(t, models.QuoteStatusExpired, quote.Status)
}

func TestQuoteFSM_TerminalStatesRejectResponses(t *testing.T) {
	for _, status := range []string{
		models.QuoteStatusAccepted,
		models.QuoteStatusRejected,
		models.QuoteStatusExpired,
	} {
		quote := &models.Quote{Status: status}
		machine := NewQuoteFSM(quote)

		assert.Error(t, machine.Accept(context.Background()), status)
		assert.Error(t, machine.Reject(context.Background()), status)
		assert.Error(t, machine.Expire(context.Background()), status)
		assert.Equal(t, status, quote.Status)
	}
}

func TestQuoteFSM_CannotRespondToDraft(t *testing.T) {
	quote := &models.Quote{Status: models.QuoteStatusDraft}
	machine := NewQuoteFSM(quote)

	assert.Error(t, machine.Accept(context.Background()))
	assert.Error(t, machine.Reject(context.Background()))
	assert.Equal(t, models.QuoteStatusDraft, quote.Status)
}
