// Package storage provides object storage implementations for project files.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/krodas7/constructora-backend/internal/infrastructure/config"
)

// ObjectStorage stores and retrieves file bytes under string keys.
// Metadata lives in the database; the key is recorded there as the
// file's storage path.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// New creates the storage backend selected by configuration
func New(cfg *config.StorageConfig) (ObjectStorage, error) {
	switch cfg.Backend {
	case "s3":
		return NewS3Storage(cfg)
	case "local", "":
		return NewLocalStorage(cfg.LocalPath)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
