package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmartell/clientia-api/internal/models"
	"github.com/dmartell/clientia-api/internal/repository"
)

// Mock QuoteRepository
type mockQuoteRepo struct {
	repository.QuoteRepository
	mockFindByID          func(ctx context.Context, companyID, id uint) (*models.Quote, error)
	mockFindByPublicToken func(ctx context.Context, token string) (*models.Quote, error)
	mockRecordView        func(ctx context.Context, id uint) error
	mockUpdate            func(ctx context.Context, quote *models.Quote) error
}

func (m *mockQuoteRepo) FindByID(ctx context.Context, companyID, id uint) (*models.Quote, error) {
	return m.mockFindByID(ctx, companyID, id)
}

func (m *mockQuoteRepo) FindByPublicToken(ctx context.Context, token string) (*models.Quote, error) {
	return m.mockFindByPublicToken(ctx, token)
}

func (m *mockQuoteRepo) RecordView(ctx context.Context, id uint) error {
	if m.mockRecordView != nil {
		return m.mockRecordView(ctx, id)
	}
	return nil
}

func (m *mockQuoteRepo) Update(ctx context.Context, quote *models.Quote) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, quote)
	}
	return nil
}

func sentQuote(validity *time.Time) *models.Quote {
	return &models.Quote{
		ID:           5,
		CompanyID:    1,
		ClientID:     10,
		Number:       "COT-2026-0001",
		Status:       models.QuoteStatusSent,
		ValidityDate: validity,
	}
}

func TestPublicGetQuote_UnknownToken(t *testing.T) {
	quoteRepo := &mockQuoteRepo{
		mockFindByPublicToken: func(ctx context.Context, token string) (*models.Quote, error) {
			return nil, errors.New("record not found")
		},
	}
	service := NewPublicService(quoteRepo, nil, nil, nil, nil, nil)

	quote, err := service.GetQuote(context.Background(), "nope")
	assert.Nil(t, quote)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublicGetQuote_RecordsView(t *testing.T) {
	var viewed uint
	quoteRepo := &mockQuoteRepo{
		mockFindByPublicToken: func(ctx context.Context, token string) (*models.Quote, error) {
			return sentQuote(nil), nil
		},
		mockRecordView: func(ctx context.Context, id uint) error {
			viewed = id
			return nil
		},
	}
	service := NewPublicService(quoteRepo, nil, nil, nil, nil, nil)

	quote, err := service.GetQuote(context.Background(), "tok")
	assert.NoError(t, err)
	assert.NotNil(t, quote)
	assert.Equal(t, uint(5), viewed)
}

func TestPublicGetQuote_ViewBumpFailureDoesNotBlock(t *testing.T) {
	quoteRepo := &mockQuoteRepo{
		mockFindByPublicToken: func(ctx context.Context, token string) (*models.Quote, error) {
			return sentQuote(nil), nil
		},
		mockRecordView: func(ctx context.Context, id uint) error {
			return errors.New("db timeout")
		},
	}
	service := NewPublicService(quoteRepo, nil, nil, nil, nil, nil)

	quote, err := service.GetQuote(context.Background(), "tok")
	assert.NoError(t, err)
	assert.NotNil(t, quote)
}

func TestRespondToQuote_ExpiresLazily(t *testing.T) {
	past := time.Now().AddDate(0, 0, -1)
	var persisted string
	quoteRepo := &mockQuoteRepo{
		mockFindByPublicToken: func(ctx context.Context, token string) (*models.Quote, error) {
			return sentQuote(&past), nil
		},
		mockUpdate: func(ctx context.Context, quote *models.Quote) error {
			persisted = quote.Status
			return nil
		},
	}
	service := NewPublicService(quoteRepo, nil, nil, nil, nil, nil)

	quote, err := service.RespondToQuote(context.Background(), "tok", true)
	assert.Nil(t, quote)
	assert.ErrorIs(t, err, ErrQuoteExpired)
	assert.Equal(t, models.QuoteStatusExpired, persisted, "the expired status must be persisted before the error returns")
}

func TestRespondToQuote_TerminalStateRejectsRepeat(t *testing.T) {
	updated := false
	for _, status := range []string{
		models.QuoteStatusAccepted,
		models.QuoteStatusRejected,
		models.QuoteStatusExpired,
		models.QuoteStatusDraft,
	} {
		quoteRepo := &mockQuoteRepo{
			mockFindByPublicToken: func(ctx context.Context, token string) (*models.Quote, error) {
				q := sentQuote(nil)
				q.Status = status
				return q, nil
			},
			mockUpdate: func(ctx context.Context, quote *models.Quote) error {
				updated = true
				return nil
			},
		}
		service := NewPublicService(quoteRepo, nil, nil, nil, nil, nil)

		quote, err := service.RespondToQuote(context.Background(), "tok", true)
		assert.Nil(t, quote, status)
		assert.ErrorIs(t, err, ErrInvalidState, status)
	}
	assert.False(t, updated)
}

func TestRespondToQuote_AcceptConvertsProspect(t *testing.T) {
	converted := false
	clientRepo := &mockClientRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Client, error) {
			return &models.Client{ID: id, CompanyID: companyID, Status: models.ClientStatusProspect}, nil
		},
		mockConvertIfProspect: func(ctx context.Context, companyID, clientID uint) (bool, error) {
			converted = true
			return true, nil
		},
	}
	clientSvc := NewClientService(clientRepo, nil, nil)

	quoteRepo := &mockQuoteRepo{
		mockFindByPublicToken: func(ctx context.Context, token string) (*models.Quote, error) {
			return sentQuote(nil), nil
		},
	}
	service := NewPublicService(quoteRepo, nil, nil, clientSvc, nil, nil)

	quote, err := service.RespondToQuote(context.Background(), "tok", true)
	assert.NoError(t, err)
	assert.Equal(t, models.QuoteStatusAccepted, quote.Status)
	assert.NotNil(t, quote.SignedAt)
	assert.True(t, converted, "accepting a quote must promote the prospect")
}

func TestRespondToQuote_Reject(t *testing.T) {
	converted := false
	clientRepo := &mockClientRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Client, error) {
			return &models.Client{ID: id, CompanyID: companyID, Status: models.ClientStatusProspect}, nil
		},
		mockConvertIfProspect: func(ctx context.Context, companyID, clientID uint) (bool, error) {
			converted = true
			return true, nil
		},
	}
	clientSvc := NewClientService(clientRepo, nil, nil)

	quoteRepo := &mockQuoteRepo{
		mockFindByPublicToken: func(ctx context.Context, token string) (*models.Quote, error) {
			return sentQuote(nil), nil
		},
	}
	service := NewPublicService(quoteRepo, nil, nil, clientSvc, nil, nil)

	quote, err := service.RespondToQuote(context.Background(), "tok", false)
	assert.NoError(t, err)
	assert.Equal(t, models.QuoteStatusRejected, quote.Status)
	assert.NotNil(t, quote.RejectedAt)
	assert.Nil(t, quote.SignedAt)
	assert.False(t, converted, "a rejection must not promote the prospect")
}

func TestRespondToQuote_FutureValidityStillOpen(t *testing.T) {
	future := time.Now().AddDate(0, 0, 10)
	quoteRepo := &mockQuoteRepo{
		mockFindByPublicToken: func(ctx context.Context, token string) (*models.Quote, error) {
			return sentQuote(&future), nil
		},
	}
	clientRepo := &mockClientRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Client, error) {
			return &models.Client{ID: id, CompanyID: companyID, Status: models.ClientStatusActive}, nil
		},
	}
	service := NewPublicService(quoteRepo, nil, nil, NewClientService(clientRepo, nil, nil), nil, nil)

	quote, err := service.RespondToQuote(context.Background(), "tok", true)
	assert.NoError(t, err)
	assert.Equal(t, models.QuoteStatusAccepted, quote.Status)
}
