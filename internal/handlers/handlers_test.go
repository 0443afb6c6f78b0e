package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercecopilot/atomic-analyzer/internal/analyzer"
	"github.com/commercecopilot/atomic-analyzer/internal/config"
	"github.com/commercecopilot/atomic-analyzer/internal/database"
	"github.com/commercecopilot/atomic-analyzer/internal/insights"
	"github.com/commercecopilot/atomic-analyzer/internal/processdocs"
	"github.com/commercecopilot/atomic-analyzer/internal/scoring"
	"github.com/commercecopilot/atomic-analyzer/internal/signals"
	"github.com/commercecopilot/atomic-analyzer/internal/webhook"
)

// In-memory stand-ins for the repositories

type memAnalyses struct {
	mu      sync.Mutex
	records []database.AnalysisRecord
}

func (s *memAnalyses) Create(_ context.Context, record *database.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.CreatedAt = time.Now().UTC()
	s.records = append(s.records, *record)
	return nil
}

func (s *memAnalyses) GetByID(_ context.Context, id string) (*database.AnalysisRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			return &s.records[i], nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *memAnalyses) Latest(_ context.Context) (*database.AnalysisRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == 0 {
		return nil, database.ErrNotFound
	}
	return &s.records[len(s.records)-1], nil
}

func (s *memAnalyses) List(_ context.Context, limit int) ([]database.AnalysisRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]database.AnalysisRecord(nil), s.records...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memAnalyses) DeleteOlderThan(_ context.Context, _ time.Duration) (int64, error) {
	return 0, nil
}

type memWebhooks struct {
	mu       sync.Mutex
	webhooks map[string]*database.Webhook
}

func newMemWebhooks() *memWebhooks {
	return &memWebhooks{webhooks: make(map[string]*database.Webhook)}
}

func (r *memWebhooks) Create(_ context.Context, wh *database.Webhook) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.webhooks[wh.ID] = wh
	return nil
}

func (r *memWebhooks) Update(_ context.Context, wh *database.Webhook) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.webhooks[wh.ID]; !ok {
		return database.ErrNotFound
	}
	r.webhooks[wh.ID] = wh
	return nil
}

func (r *memWebhooks) GetByID(_ context.Context, id string) (*database.Webhook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wh, ok := r.webhooks[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *wh
	return &copied, nil
}

func (r *memWebhooks) List(_ context.Context) ([]database.Webhook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]database.Webhook, 0, len(r.webhooks))
	for _, wh := range r.webhooks {
		out = append(out, *wh)
	}
	return out, nil
}

func (r *memWebhooks) ListActiveByTrigger(_ context.Context, trigger string) ([]database.Webhook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []database.Webhook
	for _, wh := range r.webhooks {
		if wh.Active && wh.Trigger == trigger {
			out = append(out, *wh)
		}
	}
	return out, nil
}

func (r *memWebhooks) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	wh, ok := r.webhooks[id]
	if !ok {
		return database.ErrNotFound
	}
	wh.Active = active
	return nil
}

func (r *memWebhooks) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.webhooks[id]; !ok {
		return database.ErrNotFound
	}
	delete(r.webhooks, id)
	return nil
}

func (r *memWebhooks) TouchLastTriggered(_ context.Context, id string) error { return nil }

type memDocs struct {
	mu   sync.Mutex
	docs map[string]database.ProcessDoc
}

func newMemDocs() *memDocs { return &memDocs{docs: make(map[string]database.ProcessDoc)} }

func (s *memDocs) Upsert(_ context.Context, doc *database.ProcessDoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Department+"/"+doc.DocType] = *doc
	return nil
}

func (s *memDocs) ListByDepartment(_ context.Context, department string) ([]database.ProcessDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []database.ProcessDoc
	for _, doc := range s.docs {
		if doc.Department == department {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *memDocs) List(_ context.Context) ([]database.ProcessDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]database.ProcessDoc, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, doc)
	}
	return out, nil
}

type fixture struct {
	handler  *Handler
	server   *httptest.Server
	registry *memWebhooks
}

func newFixture(t *testing.T, insightsCfg config.InsightsConfig) *fixture {
	t.Helper()
	logger := slog.Default()
	site := webhook.SiteMeta{URL: "https://example.com", Name: "Example Shop", BusinessType: "ecommerce"}

	registry := newMemWebhooks()
	dispatcher := webhook.NewDispatcher(
		config.WebhooksConfig{Timeout: 5 * time.Second, MaxConcurrent: 4},
		site, registry, nil, logger)

	source := &signals.StaticSource{
		Signals: signals.Signals{
			ValueCreationClear: true, EconomicValueCount: 10, HasPrototype: true,
			SEOScore: 100, ContentFrequency: 4, HasEmailCapture: true, SocialProofScore: 100,
			TrustScore: 100, PricingTransparent: true, CallToActionScore: 100, HasRiskReversal: true, BarriersScore: 100,
			HasDocumentedSystems: true, ExpectationScore: 100, ScalabilityScore: 100, ValueStreamScore: 100,
			ValueCaptureScore: 100, RevenueStreamCount: 4, ProfitMarginScore: 100, LeverageScore: 100,
		},
		BusinessType: "ecommerce",
	}

	service := analyzer.NewService(
		config.AnalysisConfig{ScoreChangeThreshold: 5},
		site, source, scoring.NewEngine(logger, false),
		&memAnalyses{}, dispatcher, nil, nil, logger)

	insightsClient := insights.NewClient(insightsCfg, logger)
	docStore := newMemDocs()
	docs := processdocs.NewBuilder(docStore, nil, dispatcher, logger)

	h := New(service, insightsClient, dispatcher, registry, docs, docStore, nil, logger)
	server := httptest.NewServer(h.Router())
	t.Cleanup(server.Close)

	return &fixture{handler: h, server: server, registry: registry}
}

func (f *fixture) do(t *testing.T, method, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestHealthEndpoint(t *testing.T) {
	f := newFixture(t, config.InsightsConfig{})
	resp, body := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestAnalysisEndpoints(t *testing.T) {
	f := newFixture(t, config.InsightsConfig{})

	t.Run("latest before any run is 404", func(t *testing.T) {
		resp, _ := f.do(t, http.MethodGet, "/api/v1/analysis/latest", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("run analysis returns the result", func(t *testing.T) {
		resp, body := f.do(t, http.MethodPost, "/api/v1/analysis", "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, float64(100), body["overall_score"])
		assert.Equal(t, "ecommerce", body["business_type"])
	})

	t.Run("latest after a run is 200", func(t *testing.T) {
		resp, body := f.do(t, http.MethodGet, "/api/v1/analysis/latest", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(100), body["overall_score"])
	})

	t.Run("history lists runs", func(t *testing.T) {
		resp, body := f.do(t, http.MethodGet, "/api/v1/analysis?limit=10", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("department analysis", func(t *testing.T) {
		resp, body := f.do(t, http.MethodGet, "/api/v1/analysis/department/marketing", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(100), body["score"])
	})

	t.Run("unknown department is 400", func(t *testing.T) {
		resp, _ := f.do(t, http.MethodGet, "/api/v1/analysis/department/logistics", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown analysis id is 404", func(t *testing.T) {
		resp, _ := f.do(t, http.MethodGet, "/api/v1/analysis/no-such-id", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestWebhookEndpoints(t *testing.T) {
	f := newFixture(t, config.InsightsConfig{})

	var webhookID string

	t.Run("create", func(t *testing.T) {
		resp, body := f.do(t, http.MethodPost, "/api/v1/webhooks",
			`{"name":"crm","url":"https://crm.example.com/hook","trigger":"analysis_complete","secret":"s"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		webhookID = body["id"].(string)
		assert.True(t, body["active"].(bool))
	})

	t.Run("invalid create is 400", func(t *testing.T) {
		resp, _ := f.do(t, http.MethodPost, "/api/v1/webhooks",
			`{"name":"bad","url":"not-a-url","trigger":"analysis_complete"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("list", func(t *testing.T) {
		resp, body := f.do(t, http.MethodGet, "/api/v1/webhooks", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("toggle flips active", func(t *testing.T) {
		resp, body := f.do(t, http.MethodPost, "/api/v1/webhooks/"+webhookID+"/toggle", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.False(t, body["active"].(bool))
	})

	t.Run("update", func(t *testing.T) {
		resp, body := f.do(t, http.MethodPut, "/api/v1/webhooks/"+webhookID,
			`{"name":"crm2","url":"https://crm.example.com/hook2","trigger":"score_improved"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "crm2", body["name"])
	})

	t.Run("events catalog", func(t *testing.T) {
		resp, body := f.do(t, http.MethodGet, "/api/v1/webhooks/events", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body["events"], 6)
	})

	t.Run("integration docs are markdown", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, f.server.URL+"/api/v1/webhooks/docs", nil)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "markdown")
	})

	t.Run("delete", func(t *testing.T) {
		resp, _ := f.do(t, http.MethodDelete, "/api/v1/webhooks/"+webhookID, "")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		resp, _ = f.do(t, http.MethodGet, "/api/v1/webhooks/"+webhookID, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("test delivery on missing webhook is 404", func(t *testing.T) {
		resp, _ := f.do(t, http.MethodPost, "/api/v1/webhooks/nope/test", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestInsightEndpoints(t *testing.T) {
	t.Run("no API key is 412", func(t *testing.T) {
		f := newFixture(t, config.InsightsConfig{})
		f.do(t, http.MethodPost, "/api/v1/analysis", "")

		resp, _ := f.do(t, http.MethodPost, "/api/v1/insights", "")
		assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)
	})

	t.Run("generates insights from the latest analysis", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"content": []map[string]any{{"type": "text", "text": "EXECUTIVE SUMMARY\nLooking great.\n"}},
			})
		}))
		defer upstream.Close()

		f := newFixture(t, config.InsightsConfig{
			APIKey: "k", BaseURL: upstream.URL, Model: "m", MaxTokens: 100, Timeout: 5 * time.Second,
		})
		f.do(t, http.MethodPost, "/api/v1/analysis", "")

		resp, body := f.do(t, http.MethodPost, "/api/v1/insights", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Looking great.", body["executive_summary"])
	})

	t.Run("insights without an analysis is 404", func(t *testing.T) {
		f := newFixture(t, config.InsightsConfig{APIKey: "k", BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
		resp, _ := f.do(t, http.MethodPost, "/api/v1/insights", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestProcessDocEndpoints(t *testing.T) {
	f := newFixture(t, config.InsightsConfig{})

	t.Run("building before any analysis is 409", func(t *testing.T) {
		resp, _ := f.do(t, http.MethodPost, "/api/v1/process-docs", "")
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("builds all documents after an analysis", func(t *testing.T) {
		f.do(t, http.MethodPost, "/api/v1/analysis", "")
		resp, body := f.do(t, http.MethodPost, "/api/v1/process-docs", "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, float64(20), body["count"])
	})

	t.Run("lists documents for one department", func(t *testing.T) {
		resp, body := f.do(t, http.MethodGet, "/api/v1/process-docs/sales", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(4), body["count"])
	})
}
