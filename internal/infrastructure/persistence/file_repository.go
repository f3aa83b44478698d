package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/krodas7/constructora-backend/internal/domain/project"
	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// GormFileRepository implements project.FileRepository using GORM
type GormFileRepository struct {
	db *gorm.DB
}

// NewGormFileRepository creates a new GormFileRepository
func NewGormFileRepository(db *gorm.DB) *GormFileRepository {
	return &GormFileRepository{db: db}
}

// FindFileByID finds a project file by its ID
func (r *GormFileRepository) FindFileByID(ctx context.Context, id uuid.UUID) (*project.File, error) {
	var file project.File
	if err := r.db.WithContext(ctx).First(&file, "id = ? AND active = ?", id, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}

// FindFilesByProject lists a project's files, optionally within one folder
func (r *GormFileRepository) FindFilesByProject(ctx context.Context, projectID uuid.UUID, folderID *uuid.UUID) ([]project.File, error) {
	query := r.db.WithContext(ctx).
		Where("project_id = ? AND active = ?", projectID, true)
	if folderID != nil {
		query = query.Where("folder_id = ?", *folderID)
	}

	var files []project.File
	err := query.Order("name ASC").Find(&files).Error
	return files, err
}

// FindFoldersByProject lists a project's folders
func (r *GormFileRepository) FindFoldersByProject(ctx context.Context, projectID uuid.UUID) ([]project.Folder, error) {
	var folders []project.Folder
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND active = ?", projectID, true).
		Order("name ASC").
		Find(&folders).Error
	return folders, err
}

// SaveFile creates or updates file metadata
func (r *GormFileRepository) SaveFile(ctx context.Context, file *project.File) error {
	return r.db.WithContext(ctx).Save(file).Error
}

// SaveFolder creates or updates a folder
func (r *GormFileRepository) SaveFolder(ctx context.Context, folder *project.Folder) error {
	return r.db.WithContext(ctx).Save(folder).Error
}

// DeleteFile soft-deletes file metadata; the stored object is removed by the
// file service after this succeeds.
func (r *GormFileRepository) DeleteFile(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&project.File{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
