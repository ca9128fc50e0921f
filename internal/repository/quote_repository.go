package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dmartell/clientia-api/internal/models"
)

// QuoteRepository defines the interface for quote data access
type QuoteRepository interface {
	FindByID(ctx context.Context, companyID, id uint) (*models.Quote, error)
	FindByIDWithDetails(ctx context.Context, companyID, id uint) (*models.Quote, error)
	// FindByPublicToken resolves a quote by its opaque token alone; the token
	// carries the authorization, no tenant parameter applies.
	FindByPublicToken(ctx context.Context, token string) (*models.Quote, error)
	RecordView(ctx context.Context, id uint) error
	Create(ctx context.Context, quote *models.Quote) error
	Update(ctx context.Context, quote *models.Quote) error
	Delete(ctx context.Context, companyID, id uint) error
	List(ctx context.Context, companyID uint, query *QuoteQuery) ([]models.Quote, int64, error)
	NextNumber(ctx context.Context, companyID uint) (int64, error)
}

// QuoteQuery extends ListQuery with quote-specific filters
type QuoteQuery struct {
	*ListQuery
	ClientID uint
	Status   string
}

type quoteRepository struct {
	db *gorm.DB
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) FindByID(ctx context.Context, companyID, id uint) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&quote, id).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepository) FindByIDWithDetails(ctx context.Context, companyID, id uint) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.WithContext(ctx).
		Where("quotes.company_id = ?", companyID).
		Joins("Client").
		Joins("Creator").
		Preload("Items").
		First(&quote, id).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepository) FindByPublicToken(ctx context.Context, token string) (*models.Quote, error) {
	if token == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var quote models.Quote
	err := r.db.WithContext(ctx).
		Where("public_token = ?", token).
		Joins("Client").
		Preload("Items").
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// RecordView increments the view counter and stamps the first view once. Runs
// as a separate command after the read, not inside it.
func (r *quoteRepository) RecordView(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Quote{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"view_count":      gorm.Expr("view_count + 1"),
			"first_viewed_at": gorm.Expr("COALESCE(first_viewed_at, NOW())"),
		}).Error
}

func (r *quoteRepository) Create(ctx context.Context, quote *models.Quote) error {
	if err := r.db.WithContext(ctx).Create(quote).Error; err != nil {
		if isDuplicateKeyError(err, "idx_quotes_public_token") {
			return errors.New("token de acceso duplicado")
		}
		return err
	}
	return nil
}

func (r *quoteRepository) Update(ctx context.Context, quote *models.Quote) error {
	return r.db.WithContext(ctx).Save(quote).Error
}

func (r *quoteRepository) Delete(ctx context.Context, companyID, id uint) error {
	return r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&models.Quote{}, id).Error
}

func (r *quoteRepository) List(ctx context.Context, companyID uint, query *QuoteQuery) ([]models.Quote, int64, error) {
	var quotes []models.Quote
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Quote{}).
		Where("quotes.company_id = ?", companyID)

	if query.ClientID > 0 {
		db = db.Where("client_id = ?", query.ClientID)
	}
	if query.Status != "" {
		db = db.Where("quotes.status = ?", query.Status)
	}
	if query.Search != "" {
		term := "%" + query.Search + "%"
		db = db.Joins("JOIN clients ON clients.id = quotes.client_id").
			Where("quotes.number ILIKE ? OR clients.name ILIKE ?", term, term)
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := "quotes." + query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("quotes.created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Client").Find(&quotes).Error
	return quotes, total, err
}

func (r *quoteRepository) NextNumber(ctx context.Context, companyID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Quote{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count + 1, err
}
