package models

import (
	"time"
)

// Client represents a CRM client (prospect or active customer)
type Client struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CompanyID   uint      `gorm:"not null;index" json:"company_id"`
	Name        string    `gorm:"not null" json:"name"`
	ContactName *string   `json:"contact_name"`
	Email       *string   `gorm:"index" json:"email"`
	Phone       *string   `json:"phone"`
	Address     *string   `gorm:"type:text" json:"address"`
	TaxID       *string   `gorm:"column:tax_id" json:"tax_id"`
	Status      string    `gorm:"default:prospect;index" json:"status"`
	Note        *string   `gorm:"type:text" json:"note"`
	CreatedBy   *uint     `gorm:"index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Company  Company   `gorm:"foreignKey:CompanyID" json:"-"`
	Creator  *User     `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Quotes   []Quote   `gorm:"foreignKey:ClientID" json:"quotes,omitempty"`
	Invoices []Invoice `gorm:"foreignKey:ClientID" json:"invoices,omitempty"`
}

// TableName specifies the table name for Client
func (Client) TableName() string {
	return "clients"
}

// Client status constants. The prospect → active transition is one-way:
// nothing in the service layer moves an active client back to prospect.
const (
	ClientStatusProspect = "prospect"
	ClientStatusActive   = "active"
	ClientStatusArchived = "archived"
)

// IsProspect returns true if the client has not been converted yet
func (c *Client) IsProspect() bool {
	return c.Status == ClientStatusProspect
}

// ClientResponse is the JSON response format for clients
type ClientResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	ContactName *string   `json:"contact_name"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"phone"`
	Address     *string   `json:"address"`
	TaxID       *string   `json:"tax_id"`
	Status      string    `json:"status"`
	Note        *string   `json:"note"`
	CreatedBy   string    `json:"created_by,omitempty"`
	QuoteCount  int       `json:"quote_count"`
	InvoiceCount int      `json:"invoice_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToResponse converts Client to ClientResponse
func (c *Client) ToResponse() ClientResponse {
	resp := ClientResponse{
		ID:           c.ID,
		Name:         c.Name,
		ContactName:  c.ContactName,
		Email:        c.Email,
		Phone:        c.Phone,
		Address:      c.Address,
		TaxID:        c.TaxID,
		Status:       c.Status,
		Note:         c.Note,
		QuoteCount:   len(c.Quotes),
		InvoiceCount: len(c.Invoices),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if c.Creator != nil {
		resp.CreatedBy = c.Creator.FullName
	}
	return resp
}

// ProspectConversion describes one client converted by the batch sweep
type ProspectConversion struct {
	ClientID      uint   `json:"client_id"`
	Name          string `json:"name"`
	AcceptedQuotes int   `json:"accepted_quotes"`
	Invoices      int    `json:"invoices"`
	Summary       string `json:"summary"`
}
