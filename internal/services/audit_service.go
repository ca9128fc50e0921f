package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/dmartell/clientia-api/internal/models"
)

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Log records an audit entry. A zero userID means the action came
// through a public token and is stored without an actor.
func (s *AuditService) Log(ctx context.Context, companyID, userID uint, action, entity string, entityID uint, details, ip, userAgent string) error {
	if s == nil {
		return nil
	}
	var actor *uint
	if userID != 0 {
		actor = &userID
	}
	logEntry := &models.AuditLog{
		CompanyID: companyID,
		UserID:    actor,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	return s.db.WithContext(ctx).Create(logEntry).Error
}

// List retrieves audit logs for a company, newest first
func (s *AuditService) List(ctx context.Context, companyID uint, limit, offset int) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	base := s.db.WithContext(ctx).Model(&models.AuditLog{}).Where("company_id = ?", companyID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := base.Preload("User").Order("created_at desc").Limit(limit).Offset(offset).Find(&logs)
	return logs, total, result.Error
}
