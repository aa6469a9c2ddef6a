package repository

import (
	"context"

	"github.com/Kneilands/Papertrail/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here, strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record.
	// The caller provides ID, CreatedAt and the computed status snapshot.
	// Returns the stored document (may include values set by the DB).
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// List returns all documents ordered by expiration date ascending, with
	// undated documents sorted after every dated one.
	List(ctx context.Context) ([]model.Document, error)

	// ListRecent returns the limit most recently created documents,
	// newest first.
	ListRecent(ctx context.Context, limit int) ([]model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// Delete removes a document by ID. It returns sql.ErrNoRows if no row
	// matched the given ID.
	Delete(ctx context.Context, id string) error
}
