package file

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payment"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/storage"
	"github.com/google/uuid"
)

type FileService interface {
	// UploadPaymentProof stores a transfer receipt and returns its storage key.
	UploadPaymentProof(ctx context.Context, paymentID string, file io.Reader, filename string) (string, error)

	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

var proofContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

type fileServiceImpl struct {
	storage storage.FileStorage
	maxSize int64
}

// NewFileService limits uploads to maxSize bytes; 0 disables the limit.
func NewFileService(storage storage.FileStorage, maxSize int64) FileService {
	return &fileServiceImpl{
		storage: storage,
		maxSize: maxSize,
	}
}

// UploadPaymentProof implements FileService.
func (s *fileServiceImpl) UploadPaymentProof(ctx context.Context, paymentID string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := proofContentTypes[ext]
	if !ok {
		return "", payment.ErrInvalidProofFile
	}

	body := file
	if s.maxSize > 0 {
		body = &limitedReader{r: file, remaining: s.maxSize}
	}

	newFilename := fmt.Sprintf("%s-%s%s", time.Now().UTC().Format("20060102T150405"), uuid.New().String(), ext)
	key := path.Join("payment-proofs", paymentID, newFilename)

	uploaded, err := s.storage.Upload(ctx, body, key, contentType)
	if err != nil {
		if lr, ok := body.(*limitedReader); ok && lr.exceeded {
			return "", payment.ErrProofTooLarge
		}
		return "", fmt.Errorf("failed to upload payment proof: %w", err)
	}

	return uploaded, nil
}

// DeleteFile implements FileService.
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL implements FileService.
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}

// limitedReader fails the read that would go past remaining bytes.
type limitedReader struct {
	r         io.Reader
	remaining int64
	exceeded  bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		l.exceeded = true
		return 0, payment.ErrProofTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		l.exceeded = true
		return n, payment.ErrProofTooLarge
	}
	return n, err
}
