package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// ArchiveRepository defines the interface for raw upload document storage.
// Archiving is best-effort; callers treat failures as non-fatal.
type ArchiveRepository interface {
	Store(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
}

// UploadObjectPath builds the archive key for one accepted document.
func UploadObjectPath(userID, uploadID uuid.UUID) string {
	return fmt.Sprintf("uploads/%s/%s.json", userID, uploadID)
}
