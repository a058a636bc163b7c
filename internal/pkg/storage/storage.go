package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidPath  = errors.New("invalid file path")
)

// FileStorage keeps uploaded payment proofs.
type FileStorage interface {
	// Upload stores file under path and returns the stored key.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download returns ErrFileNotFound when nothing is stored under path.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete is a no-op when nothing is stored under path.
	Delete(ctx context.Context, path string) error

	// GetURL returns a link to the file that is valid for at least expiry.
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	Exists(ctx context.Context, path string) (bool, error)
}
