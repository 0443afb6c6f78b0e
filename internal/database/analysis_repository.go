package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// AnalysisRepository handles stored analysis runs
type AnalysisRepository struct {
	BaseRepository
	logger *slog.Logger
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *sqlx.DB, logger *slog.Logger) *AnalysisRepository {
	return &AnalysisRepository{
		BaseRepository: BaseRepository{db: db},
		logger:         logger,
	}
}

// Create stores a completed analysis run
func (r *AnalysisRepository) Create(ctx context.Context, record *AnalysisRecord) error {
	query := `
		INSERT INTO analyses (
			id, site_url, site_name, business_type, overall_score,
			alignment, critical_issues, departments, top_recommendations,
			signals, created_at
		) VALUES (
			:id, :site_url, :site_name, :business_type, :overall_score,
			:alignment, :critical_issues, :departments, :top_recommendations,
			:signals, :created_at
		)`

	record.CreatedAt = time.Now().UTC()

	_, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		r.logger.Error("Failed to store analysis", "analysis_id", record.ID, "error", err)
		return fmt.Errorf("failed to store analysis: %w", err)
	}

	r.logger.Info("Analysis stored", "analysis_id", record.ID, "score", record.OverallScore)
	return nil
}

// GetByID retrieves an analysis by ID
func (r *AnalysisRepository) GetByID(ctx context.Context, id string) (*AnalysisRecord, error) {
	var record AnalysisRecord
	err := r.db.GetContext(ctx, &record, `SELECT * FROM analyses WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return &record, nil
}

// Latest retrieves the most recent analysis, or ErrNotFound when none
// has run yet
func (r *AnalysisRepository) Latest(ctx context.Context) (*AnalysisRecord, error) {
	var record AnalysisRecord
	err := r.db.GetContext(ctx, &record,
		`SELECT * FROM analyses ORDER BY created_at DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest analysis: %w", err)
	}
	return &record, nil
}

// List retrieves the most recent analyses, newest first
func (r *AnalysisRepository) List(ctx context.Context, limit int) ([]AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []AnalysisRecord
	err := r.db.SelectContext(ctx, &records,
		`SELECT * FROM analyses ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return records, nil
}

// DeleteOlderThan removes runs past the retention window
func (r *AnalysisRepository) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age)
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM analyses WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune analyses: %w", err)
	}
	deleted, _ := result.RowsAffected()
	if deleted > 0 {
		r.logger.Info("Pruned old analyses", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}
