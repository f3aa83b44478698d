package project

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/krodas7/constructora-backend/internal/domain/project"
	"github.com/krodas7/constructora-backend/internal/domain/shared"
	"github.com/krodas7/constructora-backend/internal/infrastructure/storage"
)

// FileService handles project file uploads, downloads and folders. File bytes
// go to the object storage backend; only metadata lives in the database.
type FileService struct {
	fileRepo    project.FileRepository
	projectRepo project.Repository
	objects     storage.ObjectStorage
}

// NewFileService creates a new FileService
func NewFileService(fileRepo project.FileRepository, projectRepo project.Repository, objects storage.ObjectStorage) *FileService {
	return &FileService{fileRepo: fileRepo, projectRepo: projectRepo, objects: objects}
}

// UploadRequest carries the input for a file upload
type UploadRequest struct {
	ProjectID   uuid.UUID
	FolderID    *uuid.UUID
	Name        string
	Kind        string
	ContentType string
	SizeBytes   int64
	Description string
	Body        io.Reader
}

// Upload stores the file bytes under a project-scoped key and records the
// metadata. Storage keys embed a fresh UUID so renames never collide.
func (s *FileService) Upload(ctx context.Context, req UploadRequest) (*project.File, error) {
	proj, err := s.projectRepo.FindByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	name := sanitizeFileName(req.Name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}

	key := fmt.Sprintf("projects/%s/%s-%s", proj.ID, uuid.New(), name)
	if err := s.objects.Put(ctx, key, req.ContentType, req.Body); err != nil {
		return nil, fmt.Errorf("storing file: %w", err)
	}

	file, err := project.NewFile(proj.ID, name, project.FileKind(req.Kind), key, req.SizeBytes)
	if err != nil {
		return nil, err
	}
	file.FolderID = req.FolderID
	file.ContentType = req.ContentType
	file.Description = req.Description

	if err := s.fileRepo.SaveFile(ctx, file); err != nil {
		// Metadata failed; remove the orphaned object on a best-effort basis.
		_ = s.objects.Delete(ctx, key)
		return nil, err
	}
	return file, nil
}

// Download returns a file's metadata and a reader over its bytes. The caller
// must close the reader.
func (s *FileService) Download(ctx context.Context, id uuid.UUID) (*project.File, io.ReadCloser, error) {
	file, err := s.fileRepo.FindFileByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	body, err := s.objects.Get(ctx, file.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading file: %w", err)
	}
	return file, body, nil
}

// ListFiles returns a project's files, optionally scoped to one folder
func (s *FileService) ListFiles(ctx context.Context, projectID uuid.UUID, folderID *uuid.UUID) ([]project.File, error) {
	return s.fileRepo.FindFilesByProject(ctx, projectID, folderID)
}

// ListFolders returns a project's folder tree as a flat list
func (s *FileService) ListFolders(ctx context.Context, projectID uuid.UUID) ([]project.Folder, error) {
	return s.fileRepo.FindFoldersByProject(ctx, projectID)
}

// CreateFolder adds a folder under an optional parent
func (s *FileService) CreateFolder(ctx context.Context, projectID uuid.UUID, parentID *uuid.UUID, name string) (*project.Folder, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_FOLDER_NAME", "Folder name cannot be empty")
	}
	folder := &project.Folder{
		AuditedEntity: shared.AuditedEntity{BaseEntity: shared.NewBaseEntity()},
		ProjectID:     projectID,
		ParentID:      parentID,
		Name:          name,
		Active:        true,
	}
	if err := s.fileRepo.SaveFolder(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// Delete removes the file metadata and the stored object
func (s *FileService) Delete(ctx context.Context, id uuid.UUID) error {
	file, err := s.fileRepo.FindFileByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.fileRepo.DeleteFile(ctx, id); err != nil {
		return err
	}
	// Object removal after the metadata delete; a leftover object is
	// harmless, dangling metadata is not.
	return s.objects.Delete(ctx, file.StoragePath)
}

// sanitizeFileName strips any path components and control characters from an
// uploaded name.
func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 {
			return -1
		}
		return r
	}, name)
}
