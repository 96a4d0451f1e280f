package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"semantiapi/internal/model"
	"semantiapi/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fileCols = []string{"id", "filename", "original_name", "storage_path", "size", "content_type", "user_id", "status", "parsed", "parsed_content", "created_at"}

func TestFilePostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFilePostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	f := &model.File{
		ID:           "test-uuid",
		Filename:     "test-uuid.pdf",
		OriginalName: "cv.pdf",
		StoragePath:  "anonymous/test-uuid.pdf",
		Size:         123,
		ContentType:  "application/pdf",
		UserID:       "anonymous",
		Status:       model.FileStatusUploaded,
		CreatedAt:    now,
	}

	rows := sqlmock.NewRows(fileCols).
		AddRow(f.ID, f.Filename, f.OriginalName, f.StoragePath, f.Size, f.ContentType, f.UserID, f.Status, false, nil, f.CreatedAt)

	mock.ExpectQuery("INSERT INTO files").
		WithArgs(f.ID, f.Filename, f.OriginalName, f.StoragePath, f.Size, f.ContentType, f.UserID, f.Status, false, f.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, f)

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, f.ID, result.ID)
	assert.Nil(t, result.ParsedContent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilePostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFilePostgres(db)
	ctx := context.Background()

	t.Run("found with parsed content", func(t *testing.T) {
		rows := sqlmock.NewRows(fileCols).
			AddRow("test-id", "f.pdf", "cv.pdf", "u1/f.pdf", 100, "application/pdf", "u1", "parsed", true,
				[]byte(`{"sections":[{"page":1,"text":"hello"}],"metadata":{"pages":1}}`), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM files WHERE id = ?").
			WithArgs("test-id").
			WillReturnRows(rows)

		f, err := repo.FindByID(ctx, "test-id")

		require.NoError(t, err)
		assert.Equal(t, "test-id", f.ID)
		require.NotNil(t, f.ParsedContent)
		assert.Equal(t, "hello", f.ParsedContent.Sections[0].Text)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM files WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		f, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, f)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilePostgres_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFilePostgres(db)

	rows := sqlmock.NewRows(fileCols).
		AddRow("a", "a.pdf", "a.pdf", "u1/a.pdf", 1, "application/pdf", "u1", "uploaded", false, nil, time.Now()).
		AddRow("b", "b.docx", "b.docx", "u1/b.docx", 2, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "u1", "uploaded", false, nil, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM files WHERE user_id = (.+) ORDER BY").
		WithArgs("u1").
		WillReturnRows(rows)

	items, err := repo.ListByUser(context.Background(), "u1")

	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "b", items[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilePostgres_MarkParsed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFilePostgres(db)
	ctx := context.Background()
	content := &model.ParsedContent{Sections: []model.ParsedSection{{Page: 1, Text: "x"}}}

	mock.ExpectExec("UPDATE files SET parsed = TRUE").
		WithArgs("id-1", model.FileStatusParsed, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.MarkParsed(ctx, "id-1", content))

	mock.ExpectExec("UPDATE files SET parsed = TRUE").
		WithArgs("id-2", model.FileStatusParsed, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.MarkParsed(ctx, "id-2", content), repository.ErrNotFound)

	mock.ExpectExec("UPDATE files SET parsed = TRUE").
		WithArgs("id-3", model.FileStatusParsed, sqlmock.AnyArg()).
		WillReturnError(errors.New("conn reset"))
	assert.EqualError(t, repo.MarkParsed(ctx, "id-3", content), "conn reset")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilePostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFilePostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM files WHERE id = ?").
		WithArgs("test-id").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(ctx, "test-id")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
