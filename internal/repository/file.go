package repository

import (
	"context"

	"semantiapi/internal/model"
)

// FileRepository defines data access for uploaded file metadata using SQL queries only.
type FileRepository interface {
	// Create inserts a new file record and returns the stored row.
	Create(ctx context.Context, f *model.File) (*model.File, error)

	// FindByID returns a file by its ID or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.File, error)

	// ListByUser returns every file owned by userID, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.File, error)

	// MarkParsed stores the extracted content and flips the status to parsed.
	MarkParsed(ctx context.Context, id string, content *model.ParsedContent) error

	// Delete removes a file by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
