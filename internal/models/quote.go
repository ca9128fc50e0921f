package models

import (
	"time"
)

// Quote represents a commercial quote (devis) sent to a client for signature.
// Once sent it carries a public token so the client can read and respond to it
// without an account.
type Quote struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	CompanyID     uint       `gorm:"not null;index" json:"company_id"`
	ClientID      uint       `gorm:"not null;index" json:"client_id"`
	Number        string     `gorm:"not null;index" json:"number"`
	Status        string     `gorm:"default:draft;index" json:"status"`
	Title         *string    `json:"title"`
	TotalHT       float64    `gorm:"type:decimal(15,2);default:0" json:"total_ht"`
	TotalTVA      float64    `gorm:"type:decimal(15,2);default:0" json:"total_tva"`
	TotalTTC      float64    `gorm:"type:decimal(15,2);default:0" json:"total_ttc"`
	PublicToken   *string    `gorm:"uniqueIndex" json:"-"`
	ValidityDate  *time.Time `gorm:"index" json:"validity_date"`
	SentAt        *time.Time `json:"sent_at"`
	SignedAt      *time.Time `json:"signed_at"`
	RejectedAt    *time.Time `json:"rejected_at"`
	FirstViewedAt *time.Time `json:"first_viewed_at"`
	ViewCount     int        `gorm:"default:0" json:"view_count"`
	Note          *string    `gorm:"type:text" json:"note"`
	CreatedBy     *uint      `gorm:"index" json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	Client  Client      `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Creator *User       `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Items   []QuoteItem `gorm:"foreignKey:QuoteID" json:"items,omitempty"`
}

// TableName specifies the table name for Quote
func (Quote) TableName() string {
	return "quotes"
}

// QuoteItem is a billable line on a quote
type QuoteItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	QuoteID     uint    `gorm:"not null;index" json:"quote_id"`
	Description string  `gorm:"not null" json:"description"`
	Quantity    float64 `gorm:"type:decimal(10,2);default:1" json:"quantity"`
	UnitPrice   float64 `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	VATRate     float64 `gorm:"column:vat_rate;type:decimal(5,2);default:21" json:"vat_rate"`
}

// TableName specifies the table name for QuoteItem
func (QuoteItem) TableName() string {
	return "quote_items"
}

// Quote status constants. accepted, rejected and expired are terminal for the
// public-response path.
const (
	QuoteStatusDraft    = "draft"
	QuoteStatusSent     = "sent"
	QuoteStatusAccepted = "accepted"
	QuoteStatusRejected = "rejected"
	QuoteStatusExpired  = "expired"
)

// MaySend returns true if the quote can be sent to the client
func (q *Quote) MaySend() bool {
	return q.Status == QuoteStatusDraft
}

// MayRespond returns true if the quote can still be accepted or declined
func (q *Quote) MayRespond() bool {
	return q.Status == QuoteStatusSent
}

// IsPastValidity returns true if the quote validity date has passed at the
// given instant. Quotes without a validity date never expire.
func (q *Quote) IsPastValidity(now time.Time) bool {
	return q.ValidityDate != nil && now.After(*q.ValidityDate)
}

// QuoteResponse is the JSON response format for quotes
type QuoteResponse struct {
	ID            uint       `json:"id"`
	ClientID      uint       `json:"client_id"`
	ClientName    string     `json:"client_name,omitempty"`
	Number        string     `json:"number"`
	Status        string     `json:"status"`
	Title         *string    `json:"title"`
	TotalHT       float64    `json:"total_ht"`
	TotalTVA      float64    `json:"total_tva"`
	TotalTTC      float64    `json:"total_ttc"`
	ValidityDate  *time.Time `json:"validity_date"`
	SentAt        *time.Time `json:"sent_at"`
	SignedAt      *time.Time `json:"signed_at"`
	RejectedAt    *time.Time `json:"rejected_at"`
	FirstViewedAt *time.Time `json:"first_viewed_at"`
	ViewCount     int        `json:"view_count"`
	Note          *string    `json:"note"`
	CreatedBy     string     `json:"created_by,omitempty"`
	Items         []QuoteItem `json:"items,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToResponse converts Quote to QuoteResponse
func (q *Quote) ToResponse() QuoteResponse {
	resp := QuoteResponse{
		ID:            q.ID,
		ClientID:      q.ClientID,
		Number:        q.Number,
		Status:        q.Status,
		Title:         q.Title,
		TotalHT:       q.TotalHT,
		TotalTVA:      q.TotalTVA,
		TotalTTC:      q.TotalTTC,
		ValidityDate:  q.ValidityDate,
		SentAt:        q.SentAt,
		SignedAt:      q.SignedAt,
		RejectedAt:    q.RejectedAt,
		FirstViewedAt: q.FirstViewedAt,
		ViewCount:     q.ViewCount,
		Note:          q.Note,
		Items:         q.Items,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
	if q.Client.ID != 0 {
		resp.ClientName = q.Client.Name
	}
	if q.Creator != nil {
		resp.CreatedBy = q.Creator.FullName
	}
	return resp
}

// PublicQuoteResponse is the reduced JSON shape served on the public token
// endpoint. Internal fields (creator, counters, client contact data beyond the
// name) are not exposed to the token holder.
type PublicQuoteResponse struct {
	Number       string      `json:"number"`
	Status       string      `json:"status"`
	Title        *string     `json:"title"`
	ClientName   string      `json:"client_name"`
	TotalHT      float64     `json:"total_ht"`
	TotalTVA     float64     `json:"total_tva"`
	TotalTTC     float64     `json:"total_ttc"`
	ValidityDate *time.Time  `json:"validity_date"`
	SignedAt     *time.Time  `json:"signed_at"`
	Items        []QuoteItem `json:"items"`
}

// ToPublicResponse converts Quote to PublicQuoteResponse
func (q *Quote) ToPublicResponse() PublicQuoteResponse {
	return PublicQuoteResponse{
		Number:       q.Number,
		Status:       q.Status,
		Title:        q.Title,
		ClientName:   q.Client.Name,
		TotalHT:      q.TotalHT,
		TotalTVA:     q.TotalTVA,
		TotalTTC:     q.TotalTTC,
		ValidityDate: q.ValidityDate,
		SignedAt:     q.SignedAt,
		Items:        q.Items,
	}
}
