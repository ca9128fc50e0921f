package services

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmartell/clientia-api/internal/models"
	"github.com/dmartell/clientia-api/internal/repository"
	"github.com/dmartell/clientia-api/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Setup("test")
	os.Exit(m.Run())
}

// Mock ClientRepository (embedding to avoid implementing all methods)
type mockClientRepo struct {
	repository.ClientRepository
	mockFindByID               func(ctx context.Context, companyID, id uint) (*models.Client, error)
	mockCountAcceptedQuotes    func(ctx context.Context, companyID, clientID uint) (int64, error)
	mockCountInvoices          func(ctx context.Context, companyID, clientID uint) (int64, error)
	mockConvertIfProspect      func(ctx context.Context, companyID, clientID uint) (bool, error)
	mockFindQualifiedProspects func(ctx context.Context, companyID uint) ([]models.Client, error)
}

func (m *mockClientRepo) FindByID(ctx context.Context, companyID, id uint) (*models.Client, error) {
	return m.mockFindByID(ctx, companyID, id)
}

func (m *mockClientRepo) CountAcceptedQuotes(ctx context.Context, companyID, clientID uint) (int64, error) {
	if m.mockCountAcceptedQuotes != nil {
		return m.mockCountAcceptedQuotes(ctx, companyID, clientID)
	}
	return 0, nil
}

func (m *mockClientRepo) CountInvoices(ctx context.Context, companyID, clientID uint) (int64, error) {
	if m.mockCountInvoices != nil {
		return m.mockCountInvoices(ctx, companyID, clientID)
	}
	return 0, nil
}

func (m *mockClientRepo) ConvertIfProspect(ctx context.Context, companyID, clientID uint) (bool, error) {
	if m.mockConvertIfProspect != nil {
		return m.mockConvertIfProspect(ctx, companyID, clientID)
	}
	return true, nil
}

func (m *mockClientRepo) FindQualifiedProspects(ctx context.Context, companyID uint) ([]models.Client, error) {
	return m.mockFindQualifiedProspects(ctx, companyID)
}

func TestCheckAndConvertProspect_AlreadyActive(t *testing.T) {
	repo := &mockClientRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Client, error) {
			return &models.Client{ID: id, CompanyID: companyID, Status: models.ClientStatusActive}, nil
		},
	}
	service := NewClientService(repo, nil, nil)

	conv, err := service.CheckAndConvertProspect(context.Background(), 1, 10)
	assert.NoError(t, err)
	assert.Nil(t, conv)
}

func TestCheckAndConvertProspect_UnqualifiedProspect(t *testing.T) {
	converted := false
	repo := &mockClientRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Client, error) {
			return &models.Client{ID: id, CompanyID: companyID, Status: models.ClientStatusProspect}, nil
		},
		mockConvertIfProspect: func(ctx context.Context, companyID, clientID uint) (bool, error) {
			converted = true
			return true, nil
		},
	}
	service := NewClientService(repo, nil, nil)

	conv, err := service.CheckAndConvertProspect(context.Background(), 1, 10)
	assert.NoError(t, err)
	assert.Nil(t, conv)
	assert.False(t, converted, "prospect without accepted quotes or invoices must stay a prospect")
}

func TestCheckAndConvertProspect_QualifiedByAcceptedQuote(t *testing.T) {
	repo := &mockClientRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Client, error) {
			return &models.Client{ID: id, CompanyID: companyID, Name: "Acme SL", Status: models.ClientStatusProspect}, nil
		},
		mockCountAcceptedQuotes: func(ctx context.Context, companyID, clientID uint) (int64, error) {
			return 2, nil
		},
	}
	service := NewClientService(repo, nil, nil)

	conv, err := service.CheckAndConvertProspect(context.Background(), 1, 10)
	assert.NoError(t, err)
	assert.NotNil(t, conv)
	assert.Equal(t, uint(10), conv.ClientID)
	assert.Equal(t, 2, conv.AcceptedQuotes)
	assert.Equal(t, 0, conv.Invoices)
	assert.Contains(t, conv.Summary, "Acme SL")
}

func TestCheckAndConvertProspect_QualifiedByInvoice(t *testing.T) {
	repo := &mockClientRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Client, error) {
			return &models.Client{ID: id, CompanyID: companyID, Status: models.ClientStatusProspect}, nil
		},
		mockCountInvoices: func(ctx context.Context, companyID, clientID uint) (int64, error) {
			return 1, nil
		},
	}
	service := NewClientService(repo, nil, nil)

	conv, err := service.CheckAndConvertProspect(context.Background(), 1, 10)
	assert.NoError(t, err)
	assert.NotNil(t, conv)
	assert.Equal(t, 1, conv.Invoices)
}

func TestCheckAndConvertProspect_LostRace(t *testing.T) {
	repo := &mockClientRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Client, error) {
			return &models.Client{ID: id, CompanyID: companyID, Status: models.ClientStatusProspect}, nil
		},
		mockCountInvoices: func(ctx context.Context, companyID, clientID uint) (int64, error) {
			return 1, nil
		},
		mockConvertIfProspect: func(ctx context.Context, companyID, clientID uint) (bool, error) {
			// Another request already flipped the client
			return false, nil
		},
	}
	service := NewClientService(repo, nil, nil)

	conv, err := service.CheckAndConvertProspect(context.Background(), 1, 10)
	assert.NoError(t, err)
	assert.Nil(t, conv, "losing the conditional update must not produce a conversion record")
}

func TestConvertProspectToClient_SkipsActiveClient(t *testing.T) {
	repo := &mockClientRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Client, error) {
			return &models.Client{ID: id, CompanyID: companyID, Status: models.ClientStatusActive}, nil
		},
	}
	service := NewClientService(repo, nil, nil)

	conv, err := service.ConvertProspectToClient(context.Background(), 1, 10)
	assert.NoError(t, err)
	assert.Nil(t, conv)
}

func TestConvertProspectToClient_ConvertsWithoutQualification(t *testing.T) {
	repo := &mockClientRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Client, error) {
			return &models.Client{ID: id, CompanyID: companyID, Name: "Norte SA", Status: models.ClientStatusProspect}, nil
		},
	}
	service := NewClientService(repo, nil, nil)

	// Zero accepted quotes and zero invoices: the caller vouches for the event
	conv, err := service.ConvertProspectToClient(context.Background(), 1, 10)
	assert.NoError(t, err)
	assert.NotNil(t, conv)
	assert.Equal(t, 0, conv.AcceptedQuotes)
	assert.Equal(t, 0, conv.Invoices)
}

func TestConvertQualifiedProspects_ContinuesOnError(t *testing.T) {
	calls := 0
	repo := &mockClientRepo{
		mockFindQualifiedProspects: func(ctx context.Context, companyID uint) ([]models.Client, error) {
			return []models.Client{
				{ID: 1, CompanyID: companyID, Name: "Uno", Status: models.ClientStatusProspect},
				{ID: 2, CompanyID: companyID, Name: "Dos", Status: models.ClientStatusProspect},
				{ID: 3, CompanyID: companyID, Name: "Tres", Status: models.ClientStatusProspect},
			}, nil
		},
		mockConvertIfProspect: func(ctx context.Context, companyID, clientID uint) (bool, error) {
			calls++
			if clientID == 2 {
				return false, errors.New("deadlock detected")
			}
			return true, nil
		},
	}
	service := NewClientService(repo, nil, nil)

	conversions, err := service.ConvertQualifiedProspects(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, conversions, 2)
	assert.Equal(t, 3, calls, "a failing prospect must not stop the sweep")
}

func TestCheckAndConvertProspect_NotFound(t *testing.T) {
	repo := &mockClientRepo{
		mockFindByID: func(ctx context.Context, companyID, id uint) (*models.Client, error) {
			return nil, errors.New("record not found")
		},
	}
	service := NewClientService(repo, nil, nil)

	conv, err := service.CheckAndConvertProspect(context.Background(), 1, 10)
	assert.Nil(t, conv)
	assert.ErrorIs(t, err, ErrNotFound)
}
