package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	DefaultMaxFileSize = 10 * 1024 * 1024 // 10 MB
	DefaultBaseDir     = "./uploads"
	DownloadURLBase    = "/api/resumes"
)

// AllowedMimeTypes defines which resume formats are accepted
var AllowedMimeTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.oasis.opendocument.text",
	"text/rtf",
	"text/plain",
}

// Service stores resumes on local disk and records metadata.
type Service struct {
	repo    Repository
	baseDir string
	maxSize int64
	now     func() time.Time
}

func NewService(repo Repository, baseDir string, maxSize int64) *Service {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &Service{repo: repo, baseDir: baseDir, maxSize: maxSize, now: time.Now}
}

// URL is the admin download location of an upload.
func URL(id string) string {
	return DownloadURLBase + "/" + id
}

// Save writes the file to disk and records it. The record is the only
// handle the lead keeps, so a failed insert removes the file again.
func (s *Service) Save(ctx context.Context, fileHeader *multipart.FileHeader) (*Upload, error) {
	if fileHeader == nil || fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fileHeader.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	mt, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to detect file type: %w", err)
	}
	if !allowed(mt) {
		return nil, ErrInvalidMimeType
	}
	mimeType := strings.TrimSpace(strings.Split(mt.String(), ";")[0])

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind file: %w", err)
	}

	// uploads/YYYY/MM/DD/
	now := s.now()
	relDir := fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day())
	absDir := filepath.Join(s.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	id := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext == "" {
		ext = mt.Extension()
	}
	filename := fmt.Sprintf("%s_%s%s", id, sanitizeName(fileHeader.Filename), ext)

	absPath := filepath.Join(absDir, filename)
	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	upload := &Upload{
		ID:           id,
		OriginalName: filepath.Base(fileHeader.Filename),
		FilePath:     filepath.ToSlash(filepath.Join(relDir, filename)),
		MimeType:     mimeType,
		Size:         fileHeader.Size,
		CreatedAt:    now,
	}

	if err := s.repo.Create(ctx, upload); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to save upload record: %w", err)
	}

	return upload, nil
}

// Open returns upload metadata and the absolute path of the stored file.
func (s *Service) Open(ctx context.Context, id string) (*Upload, string, error) {
	upload, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	absPath := filepath.Join(s.baseDir, filepath.FromSlash(upload.FilePath))
	if _, err := os.Stat(absPath); err != nil {
		return nil, "", ErrUploadNotFound
	}
	return upload, absPath, nil
}

// Delete removes the physical file and the record.
func (s *Service) Delete(ctx context.Context, id string) error {
	upload, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_ = os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(upload.FilePath))) // may already be gone

	return s.repo.Delete(ctx, id)
}

func allowed(mt *mimetype.MIME) bool {
	for _, a := range AllowedMimeTypes {
		if mt.Is(a) {
			return true
		}
	}
	return false
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" {
		return "resume"
	}
	return name
}
