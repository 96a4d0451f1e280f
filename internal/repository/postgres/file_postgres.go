package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"semantiapi/internal/model"
	"semantiapi/internal/repository"
)

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type FilePostgres struct {
	db *sql.DB
}

// NewFilePostgres creates a new FilePostgres repository.
func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

const fileColumns = `id, filename, original_name, storage_path, size, content_type, user_id, status, parsed, parsed_content, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*model.File, error) {
	var (
		f      model.File
		parsed []byte
	)
	if err := row.Scan(
		&f.ID,
		&f.Filename,
		&f.OriginalName,
		&f.StoragePath,
		&f.Size,
		&f.ContentType,
		&f.UserID,
		&f.Status,
		&f.Parsed,
		&parsed,
		&f.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(parsed) > 0 {
		var pc model.ParsedContent
		if err := json.Unmarshal(parsed, &pc); err != nil {
			return nil, fmt.Errorf("decode parsed_content: %w", err)
		}
		f.ParsedContent = &pc
	}
	return &f, nil
}

// Create inserts a new file row and returns the stored record.
func (r *FilePostgres) Create(ctx context.Context, f *model.File) (*model.File, error) {
	q := `
		INSERT INTO files (id, filename, original_name, storage_path, size, content_type, user_id, status, parsed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + fileColumns
	row := r.db.QueryRowContext(ctx, q,
		f.ID,
		f.Filename,
		f.OriginalName,
		f.StoragePath,
		f.Size,
		f.ContentType,
		f.UserID,
		f.Status,
		f.Parsed,
		f.CreatedAt,
	)
	return scanFile(row)
}

// FindByID fetches a single file by its ID.
func (r *FilePostgres) FindByID(ctx context.Context, id string) (*model.File, error) {
	q := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`
	f, err := scanFile(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// ListByUser returns a user's files, newest first.
func (r *FilePostgres) ListByUser(ctx context.Context, userID string) ([]model.File, error) {
	q := `SELECT ` + fileColumns + ` FROM files WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.File, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// MarkParsed stores parsed content as jsonb.
func (r *FilePostgres) MarkParsed(ctx context.Context, id string, content *model.ParsedContent) error {
	b, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("encode parsed_content: %w", err)
	}
	const q = `UPDATE files SET parsed = TRUE, status = $2, parsed_content = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, model.FileStatusParsed, b)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a file by ID. It does not return an error if the row does not exist.
func (r *FilePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM files WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
