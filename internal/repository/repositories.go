package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User            UserRepository
	Client          ClientRepository
	Quote           QuoteRepository
	Invoice         InvoiceRepository
	BankTransaction BankTransactionRepository
	Project         ProjectRepository
	Notification    NotificationRepository
	RefreshToken    RefreshTokenRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:            NewUserRepository(db),
		Client:          NewClientRepository(db),
		Quote:           NewQuoteRepository(db),
		Invoice:         NewInvoiceRepository(db),
		BankTransaction: NewBankTransactionRepository(db),
		Project:         NewProjectRepository(db),
		Notification:    NewNotificationRepository(db),
		RefreshToken:    NewRefreshTokenRepository(db),
	}
}
