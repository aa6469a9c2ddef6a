package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/Kneilands/Papertrail/internal/model"
	"github.com/Kneilands/Papertrail/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, name, category, issuer, expiration_date, status, file_path, ai_summary, created_at`

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, name, category, issuer, expiration_date, status, file_path, ai_summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Name,
		doc.Category,
		nullString(doc.Issuer),
		nullTime(doc.ExpirationDate),
		string(doc.Status),
		nullString(doc.FilePath),
		nullString(doc.AISummary),
		doc.CreatedAt,
	)
	return scanDocument(row)
}

// List returns every document ordered by expiration date ascending.
// Undated documents sort after all dated ones; ties break on creation time.
func (r *DocumentPostgres) List(ctx context.Context) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		ORDER BY expiration_date ASC NULLS LAST, created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// ListRecent returns the limit most recently created documents, newest first.
func (r *DocumentPostgres) ListRecent(ctx context.Context, limit int) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1
	`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// Delete removes a document by ID. Returns sql.ErrNoRows when no row matched.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d         model.Document
		issuer    sql.NullString
		expiry    sql.NullTime
		status    string
		filePath  sql.NullString
		aiSummary sql.NullString
	)
	if err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Category,
		&issuer,
		&expiry,
		&status,
		&filePath,
		&aiSummary,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	d.Issuer = issuer.String
	if expiry.Valid {
		t := expiry.Time
		d.ExpirationDate = &t
	}
	d.Status = model.Status(status)
	d.FilePath = filePath.String
	d.AISummary = aiSummary.String
	return &d, nil
}

func scanDocuments(rows *sql.Rows) ([]model.Document, error) {
	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
