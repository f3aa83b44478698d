package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBaseEntity creates a new base entity with a generated ID
func NewBaseEntity() BaseEntity {
	return BaseEntity{ID: uuid.New()}
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// AuditedEntity extends BaseEntity with creator/modifier tracking
type AuditedEntity struct {
	BaseEntity
	CreatedBy  *uuid.UUID `gorm:"type:uuid;index" json:"created_by,omitempty"`
	ModifiedBy *uuid.UUID `gorm:"type:uuid" json:"modified_by,omitempty"`
}

// SetCreatedBy records the user who created the record
func (e *AuditedEntity) SetCreatedBy(userID uuid.UUID) {
	e.CreatedBy = &userID
}

// SetModifiedBy records the user who last modified the record
func (e *AuditedEntity) SetModifiedBy(userID uuid.UUID) {
	e.ModifiedBy = &userID
}
