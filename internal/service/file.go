package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"semantiapi/internal/apperr"
	"semantiapi/internal/model"
	"semantiapi/internal/parser"
	"semantiapi/internal/repository"
	"semantiapi/internal/storage"
)

var (
	ErrReaderNil       = errors.New("reader is nil")
	ErrFileNotFound    = apperr.NotFound("File not found")
	ErrUserIDRequired  = apperr.BadRequest("User ID is required")
	ErrInvalidUserID   = apperr.BadRequest("User ID may only contain letters, digits, '-' and '_'")
	ErrUnsupportedFile = apperr.BadRequest("Invalid file type. Only PDF and DOCX files are allowed")
	ErrNotPDF          = apperr.BadRequest("Only PDF files can be parsed")
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// userIDPattern keeps user IDs usable as a single storage key segment.
var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

func checkUserID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrUserIDRequired
	}
	if !userIDPattern.MatchString(id) {
		return ErrInvalidUserID
	}
	return nil
}

var allowedExt = map[string]string{
	".pdf":  contentTypePDF,
	".docx": contentTypeDOCX,
}

// UploadInput describes an incoming file.
type UploadInput struct {
	Reader       io.Reader
	OriginalName string
	Size         int64
	UserID       string
}

// Download is either a presigned URL or an open stream of the file bytes.
type Download struct {
	File   *model.File
	URL    string
	Body   io.ReadCloser
	Length int64
}

// FileService defines the use cases for uploaded documents.
type FileService interface {
	// Upload stores the bytes, saves metadata to the DB and rolls back storage if the DB save fails.
	// The stored key is <userId>/<uuid><ext>.
	Upload(ctx context.Context, in UploadInput) (*model.File, error)

	// Get returns file metadata by ID.
	Get(ctx context.Context, id string) (*model.File, error)

	// Download returns a presigned URL when the backend supports it, otherwise a stream.
	Download(ctx context.Context, id string) (*Download, error)

	// ListByUser returns the files uploaded by userID.
	ListByUser(ctx context.Context, userID string) ([]model.File, error)

	// Delete removes a file from storage, then deletes its record.
	Delete(ctx context.Context, id string) error

	// Parse extracts the text of a stored PDF and saves it on the record.
	Parse(ctx context.Context, id string) (*model.File, error)
}

// fileService is a concrete implementation of FileService.
type fileService struct {
	store      storage.Storage
	repo       repository.FileRepository
	maxBytes   int64
	presignTTL time.Duration
}

// NewFileService constructs a new FileService.
func NewFileService(store storage.Storage, repo repository.FileRepository, maxBytes int64) FileService {
	return &fileService{store: store, repo: repo, maxBytes: maxBytes, presignTTL: 15 * time.Minute}
}

func (s *fileService) Upload(ctx context.Context, in UploadInput) (*model.File, error) {
	if in.Reader == nil {
		return nil, ErrReaderNil
	}
	if err := checkUserID(in.UserID); err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(in.OriginalName))
	contentType, ok := allowedExt[ext]
	if !ok {
		return nil, ErrUnsupportedFile
	}
	if s.maxBytes > 0 && in.Size > s.maxBytes {
		return nil, apperr.PayloadTooLarge(fmt.Sprintf("File exceeds the %d byte limit", s.maxBytes))
	}

	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join(in.UserID, genName))

	objInfo, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": in.OriginalName,
			"user-id":           in.UserID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	f := &model.File{
		ID:           uuid.New().String(),
		Filename:     genName,
		OriginalName: in.OriginalName,
		StoragePath:  objInfo.Key,
		Size:         objInfo.Size,
		ContentType:  contentType,
		UserID:       in.UserID,
		Status:       model.FileStatusUploaded,
		CreatedAt:    time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, f)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *fileService) Get(ctx context.Context, id string) (*model.File, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, &apperr.CastError{Path: "id", Value: id}
	}
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *fileService) Download(ctx context.Context, id string) (*Download, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.store.PresignGet(ctx, f.StoragePath, s.presignTTL)
	if err == nil {
		return &Download{File: f, URL: url}, nil
	}
	if !errors.Is(err, storage.ErrPresignUnsupported) {
		return nil, fmt.Errorf("presign: %w", err)
	}
	body, info, err := s.store.Get(ctx, f.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("read storage: %w", err)
	}
	return &Download{File: f, Body: body, Length: info.Size}, nil
}

func (s *fileService) ListByUser(ctx context.Context, userID string) ([]model.File, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *fileService) Delete(ctx context.Context, id string) error {
	f, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	// Delete from storage first; if this fails, keep DB row to avoid orphaned storage reference loss
	if err := s.store.Delete(ctx, f.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *fileService) Parse(ctx context.Context, id string) (*model.File, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.ContentType != contentTypePDF {
		return nil, ErrNotPDF
	}

	body, _, err := s.store.Get(ctx, f.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("read storage: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read storage: %w", err)
	}
	content, err := parser.ParsePDF(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkParsed(ctx, id, content); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	f.Parsed = true
	f.Status = model.FileStatusParsed
	f.ParsedContent = content
	return f, nil
}
