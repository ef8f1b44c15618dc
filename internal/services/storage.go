package services

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-predictor/internal/models"
)

var ErrInvalidFileType = errors.New("invalid file type")

// StorageService holds selected résumés on disk until they are analyzed or removed.
type StorageService interface {
	SaveFile(file *multipart.FileHeader) (*models.UploadedFile, error)
	ReadFile(upload *models.UploadedFile) ([]byte, error)
	DeleteFile(upload *models.UploadedFile) error
	EnsureUploadDir() error
	// SweepOlderThan removes stored files last modified before maxAge ago and reports how many.
	SweepOlderThan(maxAge time.Duration) (int, error)
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// DeclaredType returns the media type the browser declared for a multipart part.
func DeclaredType(file *multipart.FileHeader) string {
	raw := file.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return mediaType
}

// SaveFile implements StorageService. Only parts declared as application/pdf are kept;
// the content itself is not inspected.
func (s *storageService) SaveFile(file *multipart.FileHeader) (*models.UploadedFile, error) {
	contentType := DeclaredType(file)
	if contentType != models.ContentTypePDF {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFileType, contentType)
	}

	id := uuid.New().String()
	filePath := filepath.Join(s.uploadPath, id+".pdf")

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		_ = os.Remove(filePath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &models.UploadedFile{
		ID:           id,
		OriginalName: filepath.Base(file.Filename),
		ContentType:  contentType,
		Size:         size,
		Path:         filePath,
	}, nil
}

func (s *storageService) ReadFile(upload *models.UploadedFile) ([]byte, error) {
	data, err := os.ReadFile(s.resolve(upload))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (s *storageService) DeleteFile(upload *models.UploadedFile) error {
	if err := os.Remove(s.resolve(upload)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolve keeps lookups inside the upload directory whatever the session carried.
func (s *storageService) resolve(upload *models.UploadedFile) string {
	return filepath.Join(s.uploadPath, filepath.Base(upload.ID)+".pdf")
}

// SweepOlderThan implements StorageService. Selections abandoned with their session are
// only ever removed here.
func (s *storageService) SweepOlderThan(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.uploadPath)
	if err != nil {
		return 0, fmt.Errorf("failed to list upload directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".pdf" {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.uploadPath, entry.Name())); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("failed to remove stale upload: %w", err)
		}
		removed++
	}
	return removed, nil
}
