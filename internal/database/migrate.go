package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/dmartell/clientia-api/internal/models"
)

// Migrate creates or updates the schema for every model. Order matters
// for the foreign keys: companies and users first, then the documents
// that reference them.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.RefreshToken{},
		&models.Client{},
		&models.Quote{},
		&models.QuoteItem{},
		&models.Invoice{},
		&models.BankTransaction{},
		&models.InvoiceBankReconciliation{},
		&models.Project{},
		&models.BoardColumn{},
		&models.BoardCard{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
