package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/krodas7/constructora-backend/internal/domain/partner"
	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// Service handles client CRUD. Deletion is a soft deactivate so historical
// invoices keep their client reference.
type Service struct {
	clientRepo partner.ClientRepository
}

// NewService creates a new client Service
func NewService(clientRepo partner.ClientRepository) *Service {
	return &Service{clientRepo: clientRepo}
}

// CreateRequest carries the input for client creation
type CreateRequest struct {
	Name        string
	TaxID       string
	ContactName string
	Email       string
	Phone       string
	Address     string
	Notes       string
}

// Create registers a new active client
func (s *Service) Create(ctx context.Context, req CreateRequest) (*partner.Client, error) {
	client, err := partner.NewClient(req.Name, req.TaxID)
	if err != nil {
		return nil, err
	}
	client.ContactName = req.ContactName
	client.Email = req.Email
	client.Phone = req.Phone
	client.Address = req.Address
	client.Notes = req.Notes

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Get returns a client by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	return s.clientRepo.FindByID(ctx, id)
}

// List returns active clients matching the filter
func (s *Service) List(ctx context.Context, filter shared.Filter) (shared.Paginated[partner.Client], error) {
	clients, total, err := s.clientRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[partner.Client]{}, err
	}
	return shared.NewPaginated(clients, total, filter.Page, filter.Limit()), nil
}

// UpdateRequest carries the mutable client fields. Empty strings clear the
// corresponding field except Name, which must stay non-empty.
type UpdateRequest struct {
	Name        string
	TaxID       string
	ContactName string
	Email       string
	Phone       string
	Address     string
	Notes       string
}

// Update replaces a client's editable fields
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*partner.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	client.Name = req.Name
	client.TaxID = req.TaxID
	client.ContactName = req.ContactName
	client.Email = req.Email
	client.Phone = req.Phone
	client.Address = req.Address
	client.Notes = req.Notes

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Delete deactivates a client
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.clientRepo.Delete(ctx, id)
}
