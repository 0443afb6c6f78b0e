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

// WebhookRepository handles the webhook registry
type WebhookRepository struct {
	BaseRepository
	logger *slog.Logger
}

// NewWebhookRepository creates a new webhook repository
func NewWebhookRepository(db *sqlx.DB, logger *slog.Logger) *WebhookRepository {
	return &WebhookRepository{
		BaseRepository: BaseRepository{db: db},
		logger:         logger,
	}
}

// Create registers a new webhook
func (r *WebhookRepository) Create(ctx context.Context, webhook *Webhook) error {
	query := `
		INSERT INTO webhooks (
			id, name, url, "trigger", secret, method, headers, active,
			created_at, updated_at
		) VALUES (
			:id, :name, :url, :trigger, :secret, :method, :headers, :active,
			:created_at, :updated_at
		)`

	now := time.Now().UTC()
	webhook.CreatedAt = now
	webhook.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, query, webhook)
	if err != nil {
		r.logger.Error("Failed to create webhook", "webhook_id", webhook.ID, "error", err)
		return fmt.Errorf("failed to create webhook: %w", err)
	}

	r.logger.Info("Webhook created", "webhook_id", webhook.ID, "name", webhook.Name, "trigger", webhook.Trigger)
	return nil
}

// Update modifies an existing webhook
func (r *WebhookRepository) Update(ctx context.Context, webhook *Webhook) error {
	query := `
		UPDATE webhooks SET
			name = :name,
			url = :url,
			"trigger" = :trigger,
			secret = :secret,
			method = :method,
			headers = :headers,
			active = :active,
			updated_at = :updated_at
		WHERE id = :id`

	webhook.UpdatedAt = time.Now().UTC()

	result, err := r.db.NamedExecContext(ctx, query, webhook)
	if err != nil {
		return fmt.Errorf("failed to update webhook: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves a webhook by ID
func (r *WebhookRepository) GetByID(ctx context.Context, id string) (*Webhook, error) {
	var webhook Webhook
	err := r.db.GetContext(ctx, &webhook, `SELECT * FROM webhooks WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook: %w", err)
	}
	return &webhook, nil
}

// List retrieves all registered webhooks
func (r *WebhookRepository) List(ctx context.Context) ([]Webhook, error) {
	var webhooks []Webhook
	err := r.db.SelectContext(ctx, &webhooks,
		`SELECT * FROM webhooks ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	return webhooks, nil
}

// ListActiveByTrigger retrieves active webhooks registered for an event
func (r *WebhookRepository) ListActiveByTrigger(ctx context.Context, trigger string) ([]Webhook, error) {
	var webhooks []Webhook
	err := r.db.SelectContext(ctx, &webhooks,
		`SELECT * FROM webhooks WHERE "trigger" = $1 AND active = true ORDER BY created_at`, trigger)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks for trigger: %w", err)
	}
	return webhooks, nil
}

// SetActive toggles a webhook on or off
func (r *WebhookRepository) SetActive(ctx context.Context, id string, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE webhooks SET active = $2, updated_at = $3 WHERE id = $1`,
		id, active, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to toggle webhook: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a webhook
func (r *WebhookRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM webhooks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	r.logger.Info("Webhook deleted", "webhook_id", id)
	return nil
}

// TouchLastTriggered records a delivery attempt. Called for failures
// too: the timestamp tracks attempts, not successes.
func (r *WebhookRepository) TouchLastTriggered(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE webhooks SET last_triggered_at = $2 WHERE id = $1`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update last triggered: %w", err)
	}
	return nil
}
