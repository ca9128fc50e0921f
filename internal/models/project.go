package models

import (
	"time"
)

// Project represents a kanban board tracking work for a client. A board can be
// shared read-only with outside collaborators through an opaque share token.
type Project struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	CompanyID     uint       `gorm:"not null;index" json:"company_id"`
	ClientID      *uint      `gorm:"index" json:"client_id"`
	Name          string     `gorm:"not null" json:"name"`
	Description   *string    `gorm:"type:text" json:"description"`
	Archived      bool       `gorm:"default:false;index" json:"archived"`
	ShareToken    *string    `gorm:"uniqueIndex" json:"-"`
	SharedAt      *time.Time `json:"shared_at"`
	FirstViewedAt *time.Time `json:"first_viewed_at"`
	ViewCount     int        `gorm:"default:0" json:"view_count"`
	CreatedBy     *uint      `gorm:"index" json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	Client  *Client       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Creator *User         `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Columns []BoardColumn `gorm:"foreignKey:ProjectID" json:"columns,omitempty"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// IsShared returns true if the board has an active share token
func (p *Project) IsShared() bool {
	return p.ShareToken != nil && *p.ShareToken != ""
}

// BoardColumn is a kanban column
type BoardColumn struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;index" json:"project_id"`
	Name      string    `gorm:"not null" json:"name"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Cards []BoardCard `gorm:"foreignKey:ColumnID" json:"cards,omitempty"`
}

// TableName specifies the table name for BoardColumn
func (BoardColumn) TableName() string {
	return "board_columns"
}

// BoardCard is a kanban card
type BoardCard struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ColumnID    uint       `gorm:"not null;index" json:"column_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	Position    int        `gorm:"not null;default:0" json:"position"`
	DueDate     *time.Time `gorm:"type:date" json:"due_date"`
	AssigneeID  *uint      `gorm:"index" json:"assignee_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Associations
	Assignee *User `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}

// TableName specifies the table name for BoardCard
func (BoardCard) TableName() string {
	return "board_cards"
}

// ProjectResponse is the JSON response format for projects
type ProjectResponse struct {
	ID          uint          `json:"id"`
	ClientID    *uint         `json:"client_id"`
	ClientName  string        `json:"client_name,omitempty"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Archived    bool          `json:"archived"`
	Shared      bool          `json:"shared"`
	SharedAt    *time.Time    `json:"shared_at"`
	ViewCount   int           `json:"view_count"`
	Columns     []BoardColumn `json:"columns,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ToResponse converts Project to ProjectResponse
func (p *Project) ToResponse() ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID,
		ClientID:    p.ClientID,
		Name:        p.Name,
		Description: p.Description,
		Archived:    p.Archived,
		Shared:      p.IsShared(),
		SharedAt:    p.SharedAt,
		ViewCount:   p.ViewCount,
		Columns:     p.Columns,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Client != nil {
		resp.ClientName = p.Client.Name
	}
	return resp
}

// PublicBoardResponse is the reduced JSON shape served on the public share
// token endpoint
type PublicBoardResponse struct {
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Columns     []BoardColumn `json:"columns"`
}

// ToPublicResponse converts Project to PublicBoardResponse
func (p *Project) ToPublicResponse() PublicBoardResponse {
	return PublicBoardResponse{
		Name:        p.Name,
		Description: p.Description,
		Columns:     p.Columns,
	}
}
