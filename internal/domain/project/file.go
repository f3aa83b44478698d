package project

import (
	"context"

	"github.com/google/uuid"

	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// FileKind classifies uploaded project files
type FileKind string

const (
	FileKindDocument FileKind = "DOCUMENT"
	FileKindImage    FileKind = "IMAGE"
	FileKindPlan     FileKind = "PLAN"
	FileKindContract FileKind = "CONTRACT"
	FileKindOther    FileKind = "OTHER"
)

// IsValid checks if the kind is a valid FileKind
func (k FileKind) IsValid() bool {
	switch k {
	case FileKindDocument, FileKindImage, FileKindPlan, FileKindContract, FileKindOther:
		return true
	}
	return false
}

// Folder groups project files into a tree
type Folder struct {
	shared.AuditedEntity
	ProjectID uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	Active    bool       `gorm:"not null;default:true" json:"active"`
}

// TableName returns the database table name
func (Folder) TableName() string { return "project_folders" }

// File represents an uploaded file's metadata; the bytes live in the
// storage backend under StoragePath.
type File struct {
	shared.AuditedEntity
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	FolderID    *uuid.UUID `gorm:"type:uuid;index" json:"folder_id,omitempty"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Kind        FileKind   `gorm:"size:20;not null;default:DOCUMENT" json:"kind"`
	StoragePath string     `gorm:"size:500;not null" json:"storage_path"`
	ContentType string     `gorm:"size:100" json:"content_type,omitempty"`
	SizeBytes   int64      `gorm:"not null;default:0" json:"size_bytes"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Active      bool       `gorm:"not null;default:true" json:"active"`
}

// TableName returns the database table name
func (File) TableName() string { return "project_files" }

// NewFile creates file metadata for an uploaded object
func NewFile(projectID uuid.UUID, name string, kind FileKind, storagePath string, sizeBytes int64) (*File, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if storagePath == "" {
		return nil, shared.NewDomainError("INVALID_STORAGE_PATH", "Storage path cannot be empty")
	}
	if !kind.IsValid() {
		kind = FileKindOther
	}
	return &File{
		AuditedEntity: shared.AuditedEntity{BaseEntity: shared.NewBaseEntity()},
		ProjectID:     projectID,
		Name:          name,
		Kind:          kind,
		StoragePath:   storagePath,
		SizeBytes:     sizeBytes,
		Active:        true,
	}, nil
}

// FileRepository persists project files and folders
type FileRepository interface {
	FindFileByID(ctx context.Context, id uuid.UUID) (*File, error)
	FindFilesByProject(ctx context.Context, projectID uuid.UUID, folderID *uuid.UUID) ([]File, error)
	FindFoldersByProject(ctx context.Context, projectID uuid.UUID) ([]Folder, error)
	SaveFile(ctx context.Context, file *File) error
	SaveFolder(ctx context.Context, folder *Folder) error
	DeleteFile(ctx context.Context, id uuid.UUID) error
}
