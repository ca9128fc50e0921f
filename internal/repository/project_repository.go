package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dmartell/clientia-api/internal/models"
)

// ProjectRepository defines the interface for project board data access
type ProjectRepository interface {
	FindByID(ctx context.Context, companyID, id uint) (*models.Project, error)
	FindByIDWithBoard(ctx context.Context, companyID, id uint) (*models.Project, error)
	FindByShareToken(ctx context.Context, token string) (*models.Project, error)
	RecordView(ctx context.Context, id uint) error
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, companyID, id uint) error
	List(ctx context.Context, companyID uint, query *ListQuery) ([]models.Project, int64, error)
	CreateColumn(ctx context.Context, column *models.BoardColumn) error
	UpdateColumn(ctx context.Context, column *models.BoardColumn) error
	DeleteColumn(ctx context.Context, id uint) error
	FindColumn(ctx context.Context, companyID, columnID uint) (*models.BoardColumn, error)
	CreateCard(ctx context.Context, card *models.BoardCard) error
	UpdateCard(ctx context.Context, card *models.BoardCard) error
	DeleteCard(ctx context.Context, id uint) error
	FindCard(ctx context.Context, companyID, cardID uint) (*models.BoardCard, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) FindByID(ctx context.Context, companyID, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindByIDWithBoard(ctx context.Context, companyID, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Preload("Client").
		Preload("Columns", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Columns.Cards", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Columns.Cards.Assignee").
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindByShareToken(ctx context.Context, token string) (*models.Project, error) {
	if token == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var project models.Project
	err := r.db.WithContext(ctx).
		Where("share_token = ? AND archived = ?", token, false).
		Preload("Columns", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Columns.Cards", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// RecordView increments the view counter and stamps the first view once
func (r *projectRepository) RecordView(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"view_count":      gorm.Expr("view_count + 1"),
			"first_viewed_at": gorm.Expr("COALESCE(first_viewed_at, NOW())"),
		}).Error
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepository) Delete(ctx context.Context, companyID, id uint) error {
	return r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&models.Project{}, id).Error
}

func (r *projectRepository) List(ctx context.Context, companyID uint, query *ListQuery) ([]models.Project, int64, error) {
	var projects []models.Project
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("company_id = ?", companyID)

	if query.Search != "" {
		db = db.Where("name ILIKE ?", "%"+query.Search+"%")
	}
	if query.Filters["archived"] == "true" {
		db = db.Where("archived = ?", true)
	} else {
		db = db.Where("archived = ?", false)
	}

	db.Count(&total)

	db = db.Order("created_at DESC")
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Client").Find(&projects).Error
	return projects, total, err
}

func (r *projectRepository) CreateColumn(ctx context.Context, column *models.BoardColumn) error {
	return r.db.WithContext(ctx).Create(column).Error
}

func (r *projectRepository) UpdateColumn(ctx context.Context, column *models.BoardColumn) error {
	return r.db.WithContext(ctx).Save(column).Error
}

func (r *projectRepository) DeleteColumn(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.BoardColumn{}, id).Error
}

// FindColumn resolves a column through its project to keep tenant scoping
func (r *projectRepository) FindColumn(ctx context.Context, companyID, columnID uint) (*models.BoardColumn, error) {
	var column models.BoardColumn
	err := r.db.WithContext(ctx).
		Joins("JOIN projects ON projects.id = board_columns.project_id").
		Where("projects.company_id = ?", companyID).
		First(&column, columnID).Error
	if err != nil {
		return nil, err
	}
	return &column, nil
}

func (r *projectRepository) CreateCard(ctx context.Context, card *models.BoardCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *projectRepository) UpdateCard(ctx context.Context, card *models.BoardCard) error {
	return r.db.WithContext(ctx).Save(card).Error
}

func (r *projectRepository) DeleteCard(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.BoardCard{}, id).Error
}

func (r *projectRepository) FindCard(ctx context.Context, companyID, cardID uint) (*models.BoardCard, error) {
	var card models.BoardCard
	err := r.db.WithContext(ctx).
		Joins("JOIN board_columns ON board_columns.id = board_cards.column_id").
		Joins("JOIN projects ON projects.id = board_columns.project_id").
		Where("projects.company_id = ?", companyID).
		First(&card, cardID).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}
