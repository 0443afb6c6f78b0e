package insights

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/commercecopilot/atomic-analyzer/internal/config"
	"github.com/commercecopilot/atomic-analyzer/internal/scoring"
)

const anthropicVersion = "2023-06-01"

// ErrNoAPIKey is returned when insight generation is attempted without
// a configured API key. No request is made in that case.
var ErrNoAPIKey = errors.New("insights: no API key configured")

// ErrInvalidResponse is returned when the upstream answer carries no
// usable text content.
var ErrInvalidResponse = errors.New("insights: invalid response from API")

// UpstreamError carries a non-2xx answer from the API
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("insights: API returned status %d: %s", e.StatusCode, e.Message)
}

// Client generates business insights through the Anthropic messages API
type Client struct {
	cfg    config.InsightsConfig
	client *resty.Client
	logger *slog.Logger
}

// NewClient creates an insights client
func NewClient(cfg config.InsightsConfig, logger *slog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		client: resty.New().SetTimeout(cfg.Timeout),
		logger: logger,
	}
}

type messageRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generate sends a single-turn prompt and returns the text completion
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNoAPIKey
	}

	req := messageRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages:    []message{{Role: "user", Content: prompt}},
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-api-key", c.cfg.APIKey).
		SetHeader("anthropic-version", anthropicVersion).
		SetBody(req).
		Post(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("insights: request failed: %w", err)
	}

	body := string(resp.Body())
	if resp.IsError() {
		msg := gjson.Get(body, "error.message").String()
		if msg == "" {
			msg = "unknown error"
		}
		c.logger.Error("Insight generation failed", "status", resp.StatusCode(), "message", msg)
		return "", &UpstreamError{StatusCode: resp.StatusCode(), Message: msg}
	}

	text := gjson.Get(body, "content.0.text")
	if !text.Exists() || text.String() == "" {
		return "", ErrInvalidResponse
	}
	return text.String(), nil
}

// GenerateInsights produces the full structured insight report for an
// analysis
func (c *Client) GenerateInsights(ctx context.Context, result *scoring.AnalysisResult) (*Insights, error) {
	raw, err := c.Generate(ctx, buildAnalysisPrompt(result))
	if err != nil {
		return nil, err
	}

	insights := ParseInsights(raw)
	c.logger.Info("Insights generated",
		"priorities", len(insights.CriticalPriorities),
		"quick_wins", len(insights.QuickWins))
	return insights, nil
}

// DepartmentInsights produces focused advice for one department
func (c *Client) DepartmentInsights(ctx context.Context, dept scoring.Department, result scoring.DepartmentResult) (string, error) {
	return c.Generate(ctx, buildDepartmentPrompt(dept, result))
}

// QuickWins produces a short list of immediately actionable items
func (c *Client) QuickWins(ctx context.Context, result *scoring.AnalysisResult) ([]string, error) {
	raw, err := c.Generate(ctx, buildQuickWinsPrompt(result))
	if err != nil {
		return nil, err
	}
	return extractListItems(raw), nil
}

// ProcessDocumentation suggests improvements to a department's
// operating procedure
func (c *Client) ProcessDocumentation(ctx context.Context, dept scoring.Department, content string) (string, error) {
	return c.Generate(ctx, buildProcessDocPrompt(dept, content))
}

// TestConnection verifies that the API key and endpoint work
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.Generate(ctx, "Reply with the single word OK.")
	return err
}
