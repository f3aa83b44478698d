package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/krodas7/constructora-backend/internal/domain/partner"
	"github.com/krodas7/constructora-backend/internal/domain/project"
	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// Service handles project CRUD and lifecycle transitions
type Service struct {
	projectRepo project.Repository
	clientRepo  partner.ClientRepository
}

// NewService creates a new project Service
func NewService(projectRepo project.Repository, clientRepo partner.ClientRepository) *Service {
	return &Service{projectRepo: projectRepo, clientRepo: clientRepo}
}

// CreateRequest carries the input for project creation
type CreateRequest struct {
	Name        string
	ClientID    uuid.UUID
	Description string
	Location    string
	Budget      decimal.Decimal
	StartAt     *time.Time
	EndAt       *time.Time
}

// Create registers a new project in planning for an existing client
func (s *Service) Create(ctx context.Context, req CreateRequest) (*project.Project, error) {
	if _, err := s.clientRepo.FindByID(ctx, req.ClientID); err != nil {
		return nil, err
	}

	proj, err := project.NewProject(req.Name, req.ClientID, req.Budget)
	if err != nil {
		return nil, err
	}
	proj.Description = req.Description
	proj.Location = req.Location
	proj.StartAt = req.StartAt
	proj.EndAt = req.EndAt

	if err := s.projectRepo.Save(ctx, proj); err != nil {
		return nil, err
	}
	return proj, nil
}

// Get returns a project by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	return s.projectRepo.FindByID(ctx, id)
}

// List returns projects matching the filter
func (s *Service) List(ctx context.Context, filter shared.Filter) (shared.Paginated[project.Project], error) {
	projects, total, err := s.projectRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[project.Project]{}, err
	}
	return shared.NewPaginated(projects, total, filter.Page, filter.Limit()), nil
}

// ListActive returns all active projects without pagination, for pickers
func (s *Service) ListActive(ctx context.Context) ([]project.Project, error) {
	return s.projectRepo.FindActive(ctx)
}

// UpdateRequest carries the mutable project fields
type UpdateRequest struct {
	Name        string
	Description string
	Location    string
	Budget      decimal.Decimal
	Status      string
	StartAt     *time.Time
	EndAt       *time.Time
}

// Update replaces a project's editable fields. The spent running total is
// never writable here; only the expense approval flow adjusts it.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*project.Project, error) {
	proj, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, shared.NewDomainError("INVALID_PROJECT_NAME", "Project name cannot be empty")
	}
	if req.Budget.IsNegative() {
		return nil, shared.NewDomainError("INVALID_BUDGET", "Budget cannot be negative")
	}
	if req.Status != "" {
		if err := proj.ChangeStatus(project.Status(req.Status)); err != nil {
			return nil, err
		}
	}
	proj.Name = req.Name
	proj.Description = req.Description
	proj.Location = req.Location
	proj.Budget = req.Budget
	proj.StartAt = req.StartAt
	proj.EndAt = req.EndAt

	if err := s.projectRepo.Save(ctx, proj); err != nil {
		return nil, err
	}
	return proj, nil
}

// ChangeStatus moves the project to a new lifecycle state
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*project.Project, error) {
	proj, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := proj.ChangeStatus(project.Status(status)); err != nil {
		return nil, err
	}
	if err := s.projectRepo.Save(ctx, proj); err != nil {
		return nil, err
	}
	return proj, nil
}

// Delete deactivates a project
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.projectRepo.Delete(ctx, id)
}
