package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/commercecopilot/atomic-analyzer/internal/config"
	"github.com/commercecopilot/atomic-analyzer/internal/database"
	"github.com/commercecopilot/atomic-analyzer/internal/metrics"
)

const (
	maxResponseBytes = 500
	userAgent        = "atomic-analyzer/1.0"
)

// DeliveryResult records one delivery attempt. A failed destination
// never fails the triggering operation.
type DeliveryResult struct {
	WebhookID  string        `json:"webhook_id"`
	Name       string        `json:"name"`
	URL        string        `json:"url"`
	Event      string        `json:"event"`
	StatusCode int           `json:"status_code"`
	Success    bool          `json:"success"`
	Response   string        `json:"response,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration_ms"`
}

// Input carries the fields a caller may set when saving a webhook
type Input struct {
	Name    string            `json:"name" validate:"required"`
	URL     string            `json:"url" validate:"required,url"`
	Trigger string            `json:"trigger" validate:"required"`
	Secret  string            `json:"secret"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Active  *bool             `json:"active"`
}

// Registry is the persistence surface the dispatcher needs.
// *database.WebhookRepository implements it.
type Registry interface {
	Create(ctx context.Context, wh *database.Webhook) error
	Update(ctx context.Context, wh *database.Webhook) error
	GetByID(ctx context.Context, id string) (*database.Webhook, error)
	List(ctx context.Context) ([]database.Webhook, error)
	ListActiveByTrigger(ctx context.Context, trigger string) ([]database.Webhook, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	TouchLastTriggered(ctx context.Context, id string) error
}

// Dispatcher fans analysis events out to registered webhooks
type Dispatcher struct {
	cfg      config.WebhooksConfig
	site     SiteMeta
	repo     Registry
	client   *resty.Client
	validate *validator.Validate
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	filters  []namedFilter

	now func() time.Time
}

// NewDispatcher creates a webhook dispatcher
func NewDispatcher(cfg config.WebhooksConfig, site SiteMeta, repo Registry, m *metrics.Metrics, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:      cfg,
		site:     site,
		repo:     repo,
		client:   resty.New().SetTimeout(cfg.Timeout).SetHeader("User-Agent", userAgent),
		validate: validator.New(),
		metrics:  m,
		logger:   logger,
		limiters: make(map[string]*rate.Limiter),
		now:      time.Now,
	}
}

// RegisterFilter adds a named payload filter. Filters run in
// registration order before signing.
func (d *Dispatcher) RegisterFilter(name string, filter PayloadFilter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.filters = append(d.filters, namedFilter{name: name, filter: filter})
}

// Trigger delivers an event to every active webhook registered for it.
// Delivery is at-least-once per destination with no retries; failures
// are recorded in the results and logged, never raised.
func (d *Dispatcher) Trigger(ctx context.Context, event string, data map[string]interface{}) []DeliveryResult {
	if !IsKnownEvent(event) {
		d.logger.Warn("Unknown webhook event ignored", "event", event)
		return nil
	}

	webhooks, err := d.repo.ListActiveByTrigger(ctx, event)
	if err != nil {
		d.logger.Error("Failed to load webhooks", "event", event, "error", err)
		return nil
	}
	if len(webhooks) == 0 {
		return nil
	}

	payload := BuildPayload(event, d.site, data, d.now())

	d.mu.Lock()
	filters := append([]namedFilter(nil), d.filters...)
	d.mu.Unlock()
	payload = applyFilters(filters, event, payload)

	canonical, err := json.Marshal(payload)
	if err != nil {
		d.logger.Error("Failed to encode payload", "event", event, "error", err)
		return nil
	}

	results := make([]DeliveryResult, len(webhooks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.MaxConcurrent)

	for i, wh := range webhooks {
		i, wh := i, wh
		g.Go(func() error {
			results[i] = d.deliver(gctx, &wh, event, payload, canonical)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// deliver sends one payload to one destination
func (d *Dispatcher) deliver(ctx context.Context, wh *database.Webhook, event string, payload map[string]interface{}, canonical []byte) DeliveryResult {
	result := DeliveryResult{
		WebhookID: wh.ID,
		Name:      wh.Name,
		URL:       wh.URL,
		Event:     event,
	}

	if err := d.waitForSlot(ctx, wh.URL); err != nil {
		result.Error = fmt.Sprintf("rate limit wait aborted: %v", err)
		d.finish(ctx, wh, &result)
		return result
	}

	family := DetectFamily(wh.URL)
	body, err := FormatBody(family, event, payload, canonical)
	if err != nil {
		result.Error = fmt.Sprintf("failed to format body: %v", err)
		d.finish(ctx, wh, &result)
		return result
	}

	req := d.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(HeaderEvent, event).
		SetHeader(HeaderWebhookID, wh.ID).
		SetBody(body)

	if wh.Secret != "" {
		req.SetHeader(HeaderSignature, Sign(wh.Secret, canonical))
	}

	// Custom headers never override the canonical ones
	var custom map[string]string
	if err := wh.Headers.Unmarshal(&custom); err == nil {
		for name, value := range custom {
			if isReservedHeader(name) {
				continue
			}
			req.SetHeader(name, value)
		}
	}

	method := strings.ToUpper(wh.Method)
	if method == "" {
		method = "POST"
	}

	start := d.now()
	resp, err := req.Execute(method, wh.URL)
	result.Duration = time.Since(start)

	if err != nil {
		result.Error = err.Error()
		d.logger.Warn("Webhook delivery failed",
			"webhook_id", wh.ID, "event", event, "error", err)
	} else {
		result.StatusCode = resp.StatusCode()
		result.Success = resp.StatusCode() >= 200 && resp.StatusCode() < 300
		result.Response = truncate(string(resp.Body()), maxResponseBytes)
		if !result.Success {
			d.logger.Warn("Webhook delivery rejected",
				"webhook_id", wh.ID, "event", event, "status", resp.StatusCode())
		}
	}

	d.finish(ctx, wh, &result)
	return result
}

// finish records metrics and the attempt timestamp for every outcome
func (d *Dispatcher) finish(ctx context.Context, wh *database.Webhook, result *DeliveryResult) {
	outcome := "failure"
	if result.Success {
		outcome = "success"
	}
	if d.metrics != nil {
		d.metrics.WebhookDeliveries.WithLabelValues(result.Event, outcome).Inc()
		d.metrics.WebhookDuration.Observe(result.Duration.Seconds())
	}
	if err := d.repo.TouchLastTriggered(ctx, wh.ID); err != nil {
		d.logger.Error("Failed to record delivery attempt", "webhook_id", wh.ID, "error", err)
	}
}

// waitForSlot applies the per-host rate limit
func (d *Dispatcher) waitForSlot(ctx context.Context, rawURL string) error {
	if d.cfg.RateLimitPerMin <= 0 {
		return nil
	}
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Hostname()
	}

	d.mu.Lock()
	limiter, ok := d.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(d.cfg.RateLimitPerMin)/60.0), d.cfg.RateLimitPerMin)
		d.limiters[host] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

func isReservedHeader(name string) bool {
	switch strings.ToLower(name) {
	case strings.ToLower(HeaderSignature), strings.ToLower(HeaderEvent),
		strings.ToLower(HeaderWebhookID), "content-type", "user-agent":
		return true
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// Save validates and registers a new webhook
func (d *Dispatcher) Save(ctx context.Context, input Input) (*database.Webhook, error) {
	if err := d.validateInput(input); err != nil {
		return nil, err
	}

	wh := &database.Webhook{
		ID:      uuid.NewString(),
		Name:    input.Name,
		URL:     input.URL,
		Trigger: input.Trigger,
		Secret:  input.Secret,
		Method:  defaultMethod(input.Method),
		Active:  true,
	}
	if input.Active != nil {
		wh.Active = *input.Active
	}
	if len(input.Headers) > 0 {
		headers, err := database.MarshalJSONB(input.Headers)
		if err != nil {
			return nil, err
		}
		wh.Headers = headers
	}

	if err := d.repo.Create(ctx, wh); err != nil {
		return nil, err
	}
	return wh, nil
}

// UpdateWebhook validates and applies changes to an existing webhook
func (d *Dispatcher) UpdateWebhook(ctx context.Context, id string, input Input) (*database.Webhook, error) {
	if err := d.validateInput(input); err != nil {
		return nil, err
	}

	wh, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wh.Name = input.Name
	wh.URL = input.URL
	wh.Trigger = input.Trigger
	wh.Secret = input.Secret
	wh.Method = defaultMethod(input.Method)
	if input.Active != nil {
		wh.Active = *input.Active
	}
	if input.Headers != nil {
		headers, err := database.MarshalJSONB(input.Headers)
		if err != nil {
			return nil, err
		}
		wh.Headers = headers
	}

	if err := d.repo.Update(ctx, wh); err != nil {
		return nil, err
	}
	return wh, nil
}

func (d *Dispatcher) validateInput(input Input) error {
	if err := d.validate.Struct(input); err != nil {
		return fmt.Errorf("invalid webhook: %w", err)
	}
	if !IsKnownEvent(input.Trigger) {
		return fmt.Errorf("invalid webhook: unknown trigger %q", input.Trigger)
	}
	return nil
}

func defaultMethod(method string) string {
	if method == "" {
		return "POST"
	}
	return strings.ToUpper(method)
}

// Test sends representative event data to one webhook regardless of
// its active flag
func (d *Dispatcher) Test(ctx context.Context, id string) (*DeliveryResult, error) {
	wh, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payload := BuildPayload(wh.Trigger, d.site, TestData(wh.Trigger), d.now())

	d.mu.Lock()
	filters := append([]namedFilter(nil), d.filters...)
	d.mu.Unlock()
	payload = applyFilters(filters, wh.Trigger, payload)

	canonical, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode test payload: %w", err)
	}

	result := d.deliver(ctx, wh, wh.Trigger, payload, canonical)
	return &result, nil
}
