package services

import (
	"context"
	"fmt"

	"github.com/dmartell/clientia-api/internal/models"
	"github.com/dmartell/clientia-api/internal/repository"
	"github.com/dmartell/clientia-api/pkg/logger"
)

// ClientService handles client and prospect business logic
type ClientService struct {
	repo            repository.ClientRepository
	notificationSvc *NotificationService
	auditSvc        *AuditService
}

func NewClientService(repo repository.ClientRepository, notificationSvc *NotificationService, auditSvc *AuditService) *ClientService {
	return &ClientService{
		repo:            repo,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
	}
}

func (s *ClientService) FindByID(ctx context.Context, companyID, id uint) (*models.Client, error) {
	return s.repo.FindByID(ctx, companyID, id)
}

func (s *ClientService) FindByIDWithDetails(ctx context.Context, companyID, id uint) (*models.Client, error) {
	return s.repo.FindByIDWithDetails(ctx, companyID, id)
}

func (s *ClientService) List(ctx context.Context, companyID uint, query *repository.ListQuery) ([]models.Client, int64, error) {
	return s.repo.List(ctx, companyID, query)
}

func (s *ClientService) Create(ctx context.Context, client *models.Client, actorID uint) error {
	if client.Status == "" {
		client.Status = models.ClientStatusProspect
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, client.CompanyID, actorID, "CREATE", "Client", client.ID,
		fmt.Sprintf("Cliente creado: %s (estado: %s)", client.Name, client.Status), "", "")
}

func (s *ClientService) Update(ctx context.Context, client *models.Client, actorID uint) error {
	if err := s.repo.Update(ctx, client); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, client.CompanyID, actorID, "UPDATE", "Client", client.ID,
		fmt.Sprintf("Cliente actualizado: %s", client.Name), "", "")
}

func (s *ClientService) Archive(ctx context.Context, companyID, id uint, actorID uint) error {
	client, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return ErrNotFound
	}
	client.Status = models.ClientStatusArchived
	if err := s.repo.Update(ctx, client); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, companyID, actorID, "ARCHIVE", "Client", id,
		fmt.Sprintf("Cliente archivado: %s", client.Name), "", "")
}

func (s *ClientService) Delete(ctx context.Context, companyID, id uint, actorID uint) error {
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, companyID, actorID, "DELETE", "Client", id, "Cliente eliminado", "", "")
}

// CheckAndConvertProspect promotes a prospect to active when it has at least
// one accepted quote or one invoice. Calling it on an already-active client
// is a no-op, and the prospect state is never restored once left.
func (s *ClientService) CheckAndConvertProspect(ctx context.Context, companyID, clientID uint) (*models.ProspectConversion, error) {
	client, err := s.repo.FindByID(ctx, companyID, clientID)
	if err != nil {
		return nil, ErrNotFound
	}
	if !client.IsProspect() {
		return nil, nil
	}

	acceptedQuotes, err := s.repo.CountAcceptedQuotes(ctx, companyID, clientID)
	if err != nil {
		return nil, err
	}
	invoices, err := s.repo.CountInvoices(ctx, companyID, clientID)
	if err != nil {
		return nil, err
	}
	if acceptedQuotes == 0 && invoices == 0 {
		return nil, nil
	}

	return s.convert(ctx, client, acceptedQuotes, invoices)
}

// ConvertProspectToClient promotes a prospect unconditionally. Used when a
// business event (an accepted quote, a created invoice) already proves the
// relationship is real.
func (s *ClientService) ConvertProspectToClient(ctx context.Context, companyID, clientID uint) (*models.ProspectConversion, error) {
	client, err := s.repo.FindByID(ctx, companyID, clientID)
	if err != nil {
		return nil, ErrNotFound
	}
	if !client.IsProspect() {
		return nil, nil
	}

	acceptedQuotes, _ := s.repo.CountAcceptedQuotes(ctx, companyID, clientID)
	invoices, _ := s.repo.CountInvoices(ctx, companyID, clientID)

	return s.convert(ctx, client, acceptedQuotes, invoices)
}

// ConvertQualifiedProspects sweeps every prospect of the company that
// qualifies and converts it. Returns one conversion record per promoted
// prospect.
func (s *ClientService) ConvertQualifiedProspects(ctx context.Context, companyID uint) ([]models.ProspectConversion, error) {
	prospects, err := s.repo.FindQualifiedProspects(ctx, companyID)
	if err != nil {
		return nil, err
	}

	conversions := make([]models.ProspectConversion, 0, len(prospects))
	for i := range prospects {
		client := &prospects[i]
		acceptedQuotes, _ := s.repo.CountAcceptedQuotes(ctx, companyID, client.ID)
		invoices, _ := s.repo.CountInvoices(ctx, companyID, client.ID)
		conv, err := s.convert(ctx, client, acceptedQuotes, invoices)
		if err != nil {
			logger.Error("failed to convert prospect", "client_id", client.ID, "error", err)
			continue
		}
		if conv != nil {
			conversions = append(conversions, *conv)
		}
	}
	return conversions, nil
}

// convert performs the actual state transition. The conditional update makes
// the promotion race-safe: two concurrent callers cannot both win, so the
// notification fires exactly once.
func (s *ClientService) convert(ctx context.Context, client *models.Client, acceptedQuotes, invoices int64) (*models.ProspectConversion, error) {
	converted, err := s.repo.ConvertIfProspect(ctx, client.CompanyID, client.ID)
	if err != nil {
		return nil, err
	}
	if !converted {
		// Another request got there first
		return nil, nil
	}

	summary := fmt.Sprintf("%s (cotizaciones aceptadas: %d, facturas: %d)", client.Name, acceptedQuotes, invoices)

	if err := s.notificationSvc.NotifyAdmins(ctx, client.CompanyID,
		"Prospecto convertido en cliente", summary, models.NotificationTypeProspectConverted); err != nil {
		logger.Error("failed to notify prospect conversion", "client_id", client.ID, "error", err)
	}

	s.auditSvc.Log(ctx, client.CompanyID, 0, "CONVERT", "Client", client.ID,
		fmt.Sprintf("Prospecto convertido: %s", summary), "", "")

	return &models.ProspectConversion{
		ClientID:       client.ID,
		Name:           client.Name,
		AcceptedQuotes: int(acceptedQuotes),
		Invoices:       int(invoices),
		Summary:        summary,
	}, nil
}
