package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dmartell/clientia-api/internal/models"
)

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	FindByID(ctx context.Context, companyID, id uint) (*models.Client, error)
	FindByIDWithDetails(ctx context.Context, companyID, id uint) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, companyID, id uint) error
	List(ctx context.Context, companyID uint, query *ListQuery) ([]models.Client, int64, error)
	CountAcceptedQuotes(ctx context.Context, companyID, clientID uint) (int64, error)
	CountInvoices(ctx context.Context, companyID, clientID uint) (int64, error)
	// ConvertIfProspect flips the client to active only when it is still a
	// prospect. The conditional UPDATE makes repeated calls no-ops, so the
	// transition is monotonic even under concurrent conversions.
	ConvertIfProspect(ctx context.Context, companyID, clientID uint) (bool, error)
	FindQualifiedProspects(ctx context.Context, companyID uint) ([]models.Client, error)
}

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) FindByID(ctx context.Context, companyID, id uint) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&client, id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) FindByIDWithDetails(ctx context.Context, companyID, id uint) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Joins("Creator").
		Preload("Quotes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Invoices", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&client, id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *clientRepository) Delete(ctx context.Context, companyID, id uint) error {
	return r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&models.Client{}, id).Error
}

func (r *clientRepository) List(ctx context.Context, companyID uint, query *ListQuery) ([]models.Client, int64, error) {
	var clients []models.Client
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Client{}).
		Where("company_id = ?", companyID)

	if query.Search != "" {
		term := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR contact_name ILIKE ? OR email ILIKE ?", term, term, term)
	}
	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&clients).Error
	return clients, total, err
}

func (r *clientRepository) CountAcceptedQuotes(ctx context.Context, companyID, clientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Quote{}).
		Where("company_id = ? AND client_id = ? AND status = ?",
			companyID, clientID, models.QuoteStatusAccepted).
		Count(&count).Error
	return count, err
}

func (r *clientRepository) CountInvoices(ctx context.Context, companyID, clientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("company_id = ? AND client_id = ?", companyID, clientID).
		Count(&count).Error
	return count, err
}

func (r *clientRepository) ConvertIfProspect(ctx context.Context, companyID, clientID uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Client{}).
		Where("id = ? AND company_id = ? AND status = ?",
			clientID, companyID, models.ClientStatusProspect).
		Update("status", models.ClientStatusActive)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *clientRepository) FindQualifiedProspects(ctx context.Context, companyID uint) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND status = ?", companyID, models.ClientStatusProspect).
		Where(`EXISTS (SELECT 1 FROM quotes q WHERE q.client_id = clients.id AND q.status = ?)
			OR EXISTS (SELECT 1 FROM invoices i WHERE i.client_id = clients.id)`,
			models.QuoteStatusAccepted).
		Find(&clients).Error
	return clients, err
}
