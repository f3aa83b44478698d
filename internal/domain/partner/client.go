package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// Client represents a construction client (company or individual)
type Client struct {
	shared.AuditedEntity
	Name        string `gorm:"size:200;not null;index" json:"name"`
	TaxID       string `gorm:"size:20;uniqueIndex" json:"tax_id"`
	ContactName string `gorm:"size:200" json:"contact_name,omitempty"`
	Email       string `gorm:"size:254" json:"email,omitempty"`
	Phone       string `gorm:"size:20" json:"phone,omitempty"`
	Address     string `gorm:"type:text" json:"address,omitempty"`
	Notes       string `gorm:"type:text" json:"notes,omitempty"`
	Active      bool   `gorm:"not null;default:true;index" json:"active"`
}

// TableName returns the database table name
func (Client) TableName() string { return "clients" }

// NewClient creates an active client
func NewClient(name, taxID string) (*Client, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot exceed 200 characters")
	}
	return &Client{
		AuditedEntity: shared.AuditedEntity{BaseEntity: shared.NewBaseEntity()},
		Name:          name,
		TaxID:         taxID,
		Active:        true,
	}, nil
}

// Deactivate soft-deletes the client
func (c *Client) Deactivate() { c.Active = false }

// ClientRepository persists clients
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Client, int64, error)
	CountActive(ctx context.Context) (int64, error)
	Save(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}
