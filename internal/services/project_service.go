package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmartell/clientia-api/internal/models"
	"github.com/dmartell/clientia-api/internal/repository"
)

// ProjectService handles kanban board business logic
type ProjectService struct {
	repo     repository.ProjectRepository
	auditSvc *AuditService
}

func NewProjectService(repo repository.ProjectRepository, auditSvc *AuditService) *ProjectService {
	return &ProjectService{
		repo:     repo,
		auditSvc: auditSvc,
	}
}

func (s *ProjectService) FindByID(ctx context.Context, companyID, id uint) (*models.Project, error) {
	return s.repo.FindByID(ctx, companyID, id)
}

func (s *ProjectService) FindByIDWithBoard(ctx context.Context, companyID, id uint) (*models.Project, error) {
	return s.repo.FindByIDWithBoard(ctx, companyID, id)
}

func (s *ProjectService) List(ctx context.Context, companyID uint, query *repository.ListQuery) ([]models.Project, int64, error) {
	return s.repo.List(ctx, companyID, query)
}

// Create builds a new board seeded with the default columns
func (s *ProjectService) Create(ctx context.Context, project *models.Project, actorID uint) error {
	if err := s.repo.Create(ctx, project); err != nil {
		return err
	}

	for i, name := range []string{"Pendiente", "En curso", "Hecho"} {
		col := &models.BoardColumn{ProjectID: project.ID, Name: name, Position: i}
		if err := s.repo.CreateColumn(ctx, col); err != nil {
			return err
		}
		project.Columns = append(project.Columns, *col)
	}

	return s.auditSvc.Log(ctx, project.CompanyID, actorID, "CREATE", "Project", project.ID,
		fmt.Sprintf("Tablero creado: %s", project.Name), "", "")
}

func (s *ProjectService) Update(ctx context.Context, project *models.Project, actorID uint) error {
	if err := s.repo.Update(ctx, project); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, project.CompanyID, actorID, "UPDATE", "Project", project.ID,
		fmt.Sprintf("Tablero actualizado: %s", project.Name), "", "")
}

func (s *ProjectService) Delete(ctx context.Context, companyID, id uint, actorID uint) error {
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, companyID, actorID, "DELETE", "Project", id, "Tablero eliminado", "", "")
}

// Share mints the board's share token. The token is stable: sharing an
// already-shared board returns the existing link.
func (s *ProjectService) Share(ctx context.Context, companyID, id uint, actorID uint) (*models.Project, error) {
	project, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if project.Archived {
		return nil, ErrInvalidState
	}

	if !project.IsShared() {
		token, err := GeneratePublicToken()
		if err != nil {
			return nil, err
		}
		now := time.Now()
		project.ShareToken = &token
		project.SharedAt = &now
		if err := s.repo.Update(ctx, project); err != nil {
			return nil, err
		}
		s.auditSvc.Log(ctx, companyID, actorID, "SHARE", "Project", id,
			fmt.Sprintf("Tablero compartido: %s", project.Name), "", "")
	}

	return project, nil
}

// Unshare revokes the share token, invalidating every link in circulation
func (s *ProjectService) Unshare(ctx context.Context, companyID, id uint, actorID uint) error {
	project, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return ErrNotFound
	}
	project.ShareToken = nil
	project.SharedAt = nil
	if err := s.repo.Update(ctx, project); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, companyID, actorID, "UNSHARE", "Project", id,
		fmt.Sprintf("Tablero ya no compartido: %s", project.Name), "", "")
}

// Column operations

func (s *ProjectService) AddColumn(ctx context.Context, companyID, projectID uint, name string, position int) (*models.BoardColumn, error) {
	if _, err := s.repo.FindByID(ctx, companyID, projectID); err != nil {
		return nil, ErrNotFound
	}
	col := &models.BoardColumn{ProjectID: projectID, Name: name, Position: position}
	if err := s.repo.CreateColumn(ctx, col); err != nil {
		return nil, err
	}
	return col, nil
}

func (s *ProjectService) RenameColumn(ctx context.Context, companyID, columnID uint, name string) (*models.BoardColumn, error) {
	col, err := s.repo.FindColumn(ctx, companyID, columnID)
	if err != nil {
		return nil, ErrNotFound
	}
	col.Name = name
	if err := s.repo.UpdateColumn(ctx, col); err != nil {
		return nil, err
	}
	return col, nil
}

func (s *ProjectService) DeleteColumn(ctx context.Context, companyID, columnID uint) error {
	if _, err := s.repo.FindColumn(ctx, companyID, columnID); err != nil {
		return ErrNotFound
	}
	return s.repo.DeleteColumn(ctx, columnID)
}

// Card operations

func (s *ProjectService) AddCard(ctx context.Context, companyID uint, card *models.BoardCard) error {
	if _, err := s.repo.FindColumn(ctx, companyID, card.ColumnID); err != nil {
		return ErrNotFound
	}
	return s.repo.CreateCard(ctx, card)
}

func (s *ProjectService) UpdateCard(ctx context.Context, companyID uint, card *models.BoardCard) error {
	if _, err := s.repo.FindCard(ctx, companyID, card.ID); err != nil {
		return ErrNotFound
	}
	return s.repo.UpdateCard(ctx, card)
}

// MoveCard relocates a card to another column and position. The target
// column must belong to the same company.
func (s *ProjectService) MoveCard(ctx context.Context, companyID, cardID, targetColumnID uint, position int) (*models.BoardCard, error) {
	card, err := s.repo.FindCard(ctx, companyID, cardID)
	if err != nil {
		return nil, ErrNotFound
	}
	if _, err := s.repo.FindColumn(ctx, companyID, targetColumnID); err != nil {
		return nil, ErrNotFound
	}
	card.ColumnID = targetColumnID
	card.Position = position
	if err := s.repo.UpdateCard(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *ProjectService) DeleteCard(ctx context.Context, companyID, cardID uint) error {
	if _, err := s.repo.FindCard(ctx, companyID, cardID); err != nil {
		return ErrNotFound
	}
	return s.repo.DeleteCard(ctx, cardID)
}
