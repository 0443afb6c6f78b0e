package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// ProcessDocRepository handles generated process documents
type ProcessDocRepository struct {
	BaseRepository
	logger *slog.Logger
}

// NewProcessDocRepository creates a new process document repository
func NewProcessDocRepository(db *sqlx.DB, logger *slog.Logger) *ProcessDocRepository {
	return &ProcessDocRepository{
		BaseRepository: BaseRepository{db: db},
		logger:         logger,
	}
}

// Upsert stores a document, replacing any previous version for the
// same department and type
func (r *ProcessDocRepository) Upsert(ctx context.Context, doc *ProcessDoc) error {
	query := `
		INSERT INTO process_docs (
			id, department, doc_type, title, content, created_at, updated_at
		) VALUES (
			:id, :department, :doc_type, :title, :content, :created_at, :updated_at
		)
		ON CONFLICT (department, doc_type) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, query, doc)
	if err != nil {
		r.logger.Error("Failed to store process doc", "department", doc.Department, "doc_type", doc.DocType, "error", err)
		return fmt.Errorf("failed to store process doc: %w", err)
	}
	return nil
}

// ListByDepartment retrieves all documents for one department
func (r *ProcessDocRepository) ListByDepartment(ctx context.Context, department string) ([]ProcessDoc, error) {
	var docs []ProcessDoc
	err := r.db.SelectContext(ctx, &docs,
		`SELECT * FROM process_docs WHERE department = $1 ORDER BY doc_type`, department)
	if err != nil {
		return nil, fmt.Errorf("failed to list process docs: %w", err)
	}
	return docs, nil
}

// List retrieves every stored document
func (r *ProcessDocRepository) List(ctx context.Context) ([]ProcessDoc, error) {
	var docs []ProcessDoc
	err := r.db.SelectContext(ctx, &docs,
		`SELECT * FROM process_docs ORDER BY department, doc_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to list process docs: %w", err)
	}
	return docs, nil
}
