package services

import (
	"github.com/dmartell/clientia-api/internal/config"
	"github.com/dmartell/clientia-api/internal/jobs"
	"github.com/dmartell/clientia-api/internal/repository"
	"github.com/dmartell/clientia-api/internal/storage"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Auth            *AuthService
	User            *UserService
	Client          *ClientService
	Quote           *QuoteService
	Invoice         *InvoiceService
	BankTransaction *BankTransactionService
	Project         *ProjectService
	Public          *PublicService
	Notification    *NotificationService
	Report          *ReportService
	Export          *ExportService
	Audit           *AuditService
	Email           *EmailService
	Job             *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, store *storage.LocalStorage, cfg *config.Config, db *gorm.DB) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	emailSvc := NewEmailService(cfg)
	auditSvc := NewAuditService(db)
	jobSvc := NewJobService(worker)

	clientSvc := NewClientService(repos.Client, notificationSvc, auditSvc)
	invoiceSvc := NewInvoiceService(repos.Invoice, repos.Client, repos.Quote, clientSvc,
		worker, emailSvc, notificationSvc, auditSvc, store)

	return &Services{
		Auth:            NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:            NewUserService(repos.User, worker, emailSvc, auditSvc),
		Client:          clientSvc,
		Quote:           NewQuoteService(repos.Quote, repos.Client, worker, emailSvc, auditSvc),
		Invoice:         invoiceSvc,
		BankTransaction: NewBankTransactionService(repos.BankTransaction, auditSvc),
		Project:         NewProjectService(repos.Project, auditSvc),
		Public:          NewPublicService(repos.Quote, repos.Invoice, repos.Project, clientSvc, notificationSvc, auditSvc),
		Notification:    notificationSvc,
		Report:          NewReportService(repos.Quote, repos.Invoice, repos.Client),
		Export:          NewExportService(repos.BankTransaction),
		Audit:           auditSvc,
		Email:           emailSvc,
		Job:             jobSvc,
	}
}
