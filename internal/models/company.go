package models

import (
	"time"
)

// Company represents a tenant. Every domain row is scoped to one company and
// every repository query takes the company id as an explicit parameter.
type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	LegalName *string   `json:"legal_name"`
	TaxID     *string   `gorm:"column:tax_id" json:"tax_id"`
	Address   *string   `json:"address"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Currency  string    `gorm:"default:EUR;not null" json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Company
func (Company) TableName() string {
	return "companies"
}
