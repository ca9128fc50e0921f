package models

import (
	"time"
)

// Invoice represents an invoice issued to a client
type Invoice struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	CompanyID     uint       `gorm:"not null;index" json:"company_id"`
	ClientID      uint       `gorm:"not null;index" json:"client_id"`
	QuoteID       *uint      `gorm:"index" json:"quote_id"`
	Number        string     `gorm:"not null;index" json:"number"`
	Status        string     `gorm:"default:draft;index" json:"status"`
	Title         *string    `json:"title"`
	TotalHT       float64    `gorm:"type:decimal(15,2);default:0" json:"total_ht"`
	TotalTVA      float64    `gorm:"type:decimal(15,2);default:0" json:"total_tva"`
	TotalTTC      float64    `gorm:"type:decimal(15,2);default:0" json:"total_ttc"`
	DueDate       *time.Time `gorm:"type:date;index" json:"due_date"`
	PublicToken   *string    `gorm:"uniqueIndex" json:"-"`
	SentAt        *time.Time `json:"sent_at"`
	PaidAt        *time.Time `json:"paid_at"`
	PaymentMethod *string    `json:"payment_method"`
	PaymentNote   *string    `gorm:"type:text" json:"payment_note"`
	CancelledAt   *time.Time `json:"cancelled_at"`
	FirstViewedAt *time.Time `json:"first_viewed_at"`
	ViewCount     int        `gorm:"default:0" json:"view_count"`
	DocumentPath  *string    `json:"-"`
	CreatedBy     *uint      `gorm:"index" json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	Client          Client                      `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Quote           *Quote                      `gorm:"foreignKey:QuoteID" json:"quote,omitempty"`
	Creator         *User                       `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Reconciliations []InvoiceBankReconciliation `gorm:"foreignKey:InvoiceID" json:"reconciliations,omitempty"`
}

// TableName specifies the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// Invoice status constants
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Payment method constants
const (
	PaymentMethodTransfer = "transfer"
	PaymentMethodCard     = "card"
	PaymentMethodCheck    = "check"
	PaymentMethodCash     = "cash"
	PaymentMethodDebit    = "direct_debit"
)

// MaySend returns true if the invoice can be sent
func (i *Invoice) MaySend() bool {
	return i.Status == InvoiceStatusDraft
}

// MayMarkPaid returns true if the invoice can be marked as paid
func (i *Invoice) MayMarkPaid() bool {
	return i.Status == InvoiceStatusSent || i.Status == InvoiceStatusOverdue
}

// MayCancel returns true if the invoice can be cancelled
func (i *Invoice) MayCancel() bool {
	return i.Status == InvoiceStatusDraft || i.Status == InvoiceStatusSent || i.Status == InvoiceStatusOverdue
}

// IsLocked returns true once the invoice is terminal. Locked invoices reject
// due-date edits.
func (i *Invoice) IsLocked() bool {
	return i.Status == InvoiceStatusPaid || i.Status == InvoiceStatusCancelled
}

// IsOverdue returns true if the invoice is sent and past its due date
func (i *Invoice) IsOverdue() bool {
	return i.Status == InvoiceStatusSent && i.DueDate != nil && time.Now().After(*i.DueDate)
}

// InvoiceResponse is the JSON response format for invoices
type InvoiceResponse struct {
	ID            uint       `json:"id"`
	ClientID      uint       `json:"client_id"`
	ClientName    string     `json:"client_name,omitempty"`
	QuoteID       *uint      `json:"quote_id"`
	Number        string     `json:"number"`
	Status        string     `json:"status"`
	Title         *string    `json:"title"`
	TotalHT       float64    `json:"total_ht"`
	TotalTVA      float64    `json:"total_tva"`
	TotalTTC      float64    `json:"total_ttc"`
	DueDate       *time.Time `json:"due_date"`
	SentAt        *time.Time `json:"sent_at"`
	PaidAt        *time.Time `json:"paid_at"`
	PaymentMethod *string    `json:"payment_method"`
	PaymentNote   *string    `json:"payment_note"`
	ViewCount     int        `json:"view_count"`
	FirstViewedAt *time.Time `json:"first_viewed_at"`
	HasDocument   bool       `json:"has_document"`
	CreatedBy     string     `json:"created_by,omitempty"`
	Reconciliations []InvoiceBankReconciliationResponse `json:"reconciliations,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToResponse converts Invoice to InvoiceResponse
func (i *Invoice) ToResponse() InvoiceResponse {
	resp := InvoiceResponse{
		ID:            i.ID,
		ClientID:      i.ClientID,
		QuoteID:       i.QuoteID,
		Number:        i.Number,
		Status:        i.Status,
		Title:         i.Title,
		TotalHT:       i.TotalHT,
		TotalTVA:      i.TotalTVA,
		TotalTTC:      i.TotalTTC,
		DueDate:       i.DueDate,
		SentAt:        i.SentAt,
		PaidAt:        i.PaidAt,
		PaymentMethod: i.PaymentMethod,
		PaymentNote:   i.PaymentNote,
		ViewCount:     i.ViewCount,
		FirstViewedAt: i.FirstViewedAt,
		HasDocument:   i.DocumentPath != nil && *i.DocumentPath != "",
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
	if i.Client.ID != 0 {
		resp.ClientName = i.Client.Name
	}
	if i.Creator != nil {
		resp.CreatedBy = i.Creator.FullName
	}
	for _, rec := range i.Reconciliations {
		resp.Reconciliations = append(resp.Reconciliations, rec.ToResponse())
	}
	return resp
}

// PublicInvoiceResponse is the reduced JSON shape served on the public token
// endpoint
type PublicInvoiceResponse struct {
	Number     string     `json:"number"`
	Status     string     `json:"status"`
	Title      *string    `json:"title"`
	ClientName string     `json:"client_name"`
	TotalHT    float64    `json:"total_ht"`
	TotalTVA   float64    `json:"total_tva"`
	TotalTTC   float64    `json:"total_ttc"`
	DueDate    *time.Time `json:"due_date"`
	PaidAt     *time.Time `json:"paid_at"`
}

// ToPublicResponse converts Invoice to PublicInvoiceResponse
func (i *Invoice) ToPublicResponse() PublicInvoiceResponse {
	return PublicInvoiceResponse{
		Number:     i.Number,
		Status:     i.Status,
		Title:      i.Title,
		ClientName: i.Client.Name,
		TotalHT:    i.TotalHT,
		TotalTVA:   i.TotalTVA,
		TotalTTC:   i.TotalTTC,
		DueDate:    i.DueDate,
		PaidAt:     i.PaidAt,
	}
}
