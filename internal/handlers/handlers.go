package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/commercecopilot/atomic-analyzer/internal/analyzer"
	"github.com/commercecopilot/atomic-analyzer/internal/database"
	"github.com/commercecopilot/atomic-analyzer/internal/insights"
	"github.com/commercecopilot/atomic-analyzer/internal/metrics"
	"github.com/commercecopilot/atomic-analyzer/internal/processdocs"
	"github.com/commercecopilot/atomic-analyzer/internal/scoring"
	"github.com/commercecopilot/atomic-analyzer/internal/webhook"
)

// Handler exposes the admin HTTP API
type Handler struct {
	service    *analyzer.Service
	insights   *insights.Client
	dispatcher *webhook.Dispatcher
	registry   webhook.Registry
	docs       *processdocs.Builder
	docStore   processdocs.DocStore
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// New creates the HTTP handler set
func New(
	service *analyzer.Service,
	insightsClient *insights.Client,
	dispatcher *webhook.Dispatcher,
	registry webhook.Registry,
	docs *processdocs.Builder,
	docStore processdocs.DocStore,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		service:    service,
		insights:   insightsClient,
		dispatcher: dispatcher,
		registry:   registry,
		docs:       docs,
		docStore:   docStore,
		metrics:    m,
		logger:     logger,
	}
}

// Router builds the service router
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.instrument)

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/analysis", h.runAnalysis).Methods(http.MethodPost)
	api.HandleFunc("/analysis", h.listAnalyses).Methods(http.MethodGet)
	api.HandleFunc("/analysis/latest", h.latestAnalysis).Methods(http.MethodGet)
	api.HandleFunc("/analysis/department/{department}", h.runDepartment).Methods(http.MethodGet)
	api.HandleFunc("/analysis/{id}", h.getAnalysis).Methods(http.MethodGet)

	api.HandleFunc("/insights", h.generateInsights).Methods(http.MethodPost)
	api.HandleFunc("/insights/quick-wins", h.quickWins).Methods(http.MethodPost)
	api.HandleFunc("/insights/test", h.testInsights).Methods(http.MethodPost)

	api.HandleFunc("/webhooks", h.listWebhooks).Methods(http.MethodGet)
	api.HandleFunc("/webhooks", h.createWebhook).Methods(http.MethodPost)
	api.HandleFunc("/webhooks/events", h.webhookEvents).Methods(http.MethodGet)
	api.HandleFunc("/webhooks/docs", h.webhookDocs).Methods(http.MethodGet)
	api.HandleFunc("/webhooks/{id}", h.getWebhook).Methods(http.MethodGet)
	api.HandleFunc("/webhooks/{id}", h.updateWebhook).Methods(http.MethodPut)
	api.HandleFunc("/webhooks/{id}", h.deleteWebhook).Methods(http.MethodDelete)
	api.HandleFunc("/webhooks/{id}/test", h.testWebhook).Methods(http.MethodPost)
	api.HandleFunc("/webhooks/{id}/toggle", h.toggleWebhook).Methods(http.MethodPost)

	api.HandleFunc("/process-docs", h.buildProcessDocs).Methods(http.MethodPost)
	api.HandleFunc("/process-docs", h.listProcessDocs).Methods(http.MethodGet)
	api.HandleFunc("/process-docs/{department}", h.listDepartmentDocs).Methods(http.MethodGet)

	return r
}

// instrument records request metrics using the matched route template
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if template, err := route.GetPathTemplate(); err == nil {
				path = template
			}
		}
		if h.metrics != nil {
			h.metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(recorder.status)).Inc()
			h.metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) runAnalysis(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.RunFull(r.Context())
	if err != nil {
		h.fail(w, http.StatusBadGateway, "analysis failed", err)
		return
	}
	h.respond(w, http.StatusCreated, result)
}

func (h *Handler) latestAnalysis(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.Latest(r.Context())
	if errors.Is(err, database.ErrNotFound) {
		h.fail(w, http.StatusNotFound, "no analysis has run yet", err)
		return
	}
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "failed to load analysis", err)
		return
	}
	h.respond(w, http.StatusOK, record)
}

func (h *Handler) getAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, database.ErrNotFound) {
		h.fail(w, http.StatusNotFound, "analysis not found", err)
		return
	}
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "failed to load analysis", err)
		return
	}
	h.respond(w, http.StatusOK, analysis)
}

func (h *Handler) listAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	records, err := h.service.History(r.Context(), limit)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "failed to list analyses", err)
		return
	}
	h.respond(w, http.StatusOK, map[string]interface{}{"analyses": records, "count": len(records)})
}

func (h *Handler) runDepartment(w http.ResponseWriter, r *http.Request) {
	dept := scoring.Department(mux.Vars(r)["department"])
	if !dept.Valid() {
		h.fail(w, http.StatusBadRequest, "unknown department", nil)
		return
	}
	result, err := h.service.RunDepartment(r.Context(), dept)
	if err != nil {
		h.fail(w, http.StatusBadGateway, "department analysis failed", err)
		return
	}
	h.respond(w, http.StatusOK, result)
}

func (h *Handler) generateInsights(w http.ResponseWriter, r *http.Request) {
	result, err := h.latestResult(r)
	if err != nil {
		h.failForInsights(w, err)
		return
	}
	report, err := h.insights.GenerateInsights(r.Context(), result)
	if err != nil {
		h.failForInsights(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.InsightRequests.WithLabelValues("success").Inc()
	}
	h.respond(w, http.StatusOK, report)
}

func (h *Handler) quickWins(w http.ResponseWriter, r *http.Request) {
	result, err := h.latestResult(r)
	if err != nil {
		h.failForInsights(w, err)
		return
	}
	wins, err := h.insights.QuickWins(r.Context(), result)
	if err != nil {
		h.failForInsights(w, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]interface{}{"quick_wins": wins})
}

func (h *Handler) testInsights(w http.ResponseWriter, r *http.Request) {
	if err := h.insights.TestConnection(r.Context()); err != nil {
		h.failForInsights(w, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]string{"status": "connected"})
}

// failForInsights maps the insight error taxonomy onto HTTP statuses
func (h *Handler) failForInsights(w http.ResponseWriter, err error) {
	if h.metrics != nil {
		h.metrics.InsightRequests.WithLabelValues("failure").Inc()
	}
	var upstream *insights.UpstreamError
	switch {
	case errors.Is(err, insights.ErrNoAPIKey):
		h.fail(w, http.StatusPreconditionFailed, "no API key configured", err)
	case errors.Is(err, insights.ErrInvalidResponse):
		h.fail(w, http.StatusBadGateway, "invalid response from insight provider", err)
	case errors.As(err, &upstream):
		h.fail(w, http.StatusBadGateway, upstream.Message, err)
	case errors.Is(err, database.ErrNotFound):
		h.fail(w, http.StatusNotFound, "no analysis has run yet", err)
	default:
		h.fail(w, http.StatusInternalServerError, "insight generation failed", err)
	}
}

func (h *Handler) listWebhooks(w http.ResponseWriter, r *http.Request) {
	webhooks, err := h.registry.List(r.Context())
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "failed to list webhooks", err)
		return
	}
	h.respond(w, http.StatusOK, map[string]interface{}{"webhooks": webhooks, "count": len(webhooks)})
}

func (h *Handler) createWebhook(w http.ResponseWriter, r *http.Request) {
	var input webhook.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	created, err := h.dispatcher.Save(r.Context(), input)
	if err != nil {
		h.fail(w, http.StatusBadRequest, err.Error(), err)
		return
	}
	h.respond(w, http.StatusCreated, created)
}

func (h *Handler) getWebhook(w http.ResponseWriter, r *http.Request) {
	wh, err := h.registry.GetByID(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, database.ErrNotFound) {
		h.fail(w, http.StatusNotFound, "webhook not found", err)
		return
	}
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "failed to load webhook", err)
		return
	}
	h.respond(w, http.StatusOK, wh)
}

func (h *Handler) updateWebhook(w http.ResponseWriter, r *http.Request) {
	var input webhook.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	updated, err := h.dispatcher.UpdateWebhook(r.Context(), mux.Vars(r)["id"], input)
	if errors.Is(err, database.ErrNotFound) {
		h.fail(w, http.StatusNotFound, "webhook not found", err)
		return
	}
	if err != nil {
		h.fail(w, http.StatusBadRequest, err.Error(), err)
		return
	}
	h.respond(w, http.StatusOK, updated)
}

func (h *Handler) deleteWebhook(w http.ResponseWriter, r *http.Request) {
	err := h.registry.Delete(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, database.ErrNotFound) {
		h.fail(w, http.StatusNotFound, "webhook not found", err)
		return
	}
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "failed to delete webhook", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) toggleWebhook(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	wh, err := h.registry.GetByID(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		h.fail(w, http.StatusNotFound, "webhook not found", err)
		return
	}
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "failed to load webhook", err)
		return
	}
	if err := h.registry.SetActive(r.Context(), id, !wh.Active); err != nil {
		h.fail(w, http.StatusInternalServerError, "failed to toggle webhook", err)
		return
	}
	wh.Active = !wh.Active
	h.respond(w, http.StatusOK, wh)
}

func (h *Handler) testWebhook(w http.ResponseWriter, r *http.Request) {
	result, err := h.dispatcher.Test(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, database.ErrNotFound) {
		h.fail(w, http.StatusNotFound, "webhook not found", err)
		return
	}
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "test delivery failed", err)
		return
	}
	h.respond(w, http.StatusOK, result)
}

func (h *Handler) webhookEvents(w http.ResponseWriter, r *http.Request) {
	events := make([]map[string]string, 0, len(webhook.Events))
	for _, name := range webhook.Events {
		events = append(events, map[string]string{
			"event":       name,
			"description": webhook.EventDescriptions[name],
		})
	}
	h.respond(w, http.StatusOK, map[string]interface{}{"events": events})
}

func (h *Handler) webhookDocs(w http.ResponseWriter, r *http.Request) {
	docs, err := h.dispatcher.IntegrationDocs()
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "failed to render docs", err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(docs))
}

func (h *Handler) buildProcessDocs(w http.ResponseWriter, r *http.Request) {
	result, err := h.latestResult(r)
	if errors.Is(err, database.ErrNotFound) {
		h.fail(w, http.StatusConflict, "run an analysis before building process docs", err)
		return
	}
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "failed to load analysis", err)
		return
	}
	if err := h.docs.BuildAll(r.Context(), result.Departments); err != nil {
		h.fail(w, http.StatusInternalServerError, "failed to build process docs", err)
		return
	}
	docs, err := h.docStore.List(r.Context())
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "failed to list process docs", err)
		return
	}
	h.respond(w, http.StatusCreated, map[string]interface{}{"docs": docs, "count": len(docs)})
}

func (h *Handler) listProcessDocs(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docStore.List(r.Context())
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "failed to list process docs", err)
		return
	}
	h.respond(w, http.StatusOK, map[string]interface{}{"docs": docs, "count": len(docs)})
}

func (h *Handler) listDepartmentDocs(w http.ResponseWriter, r *http.Request) {
	dept := scoring.Department(mux.Vars(r)["department"])
	if !dept.Valid() {
		h.fail(w, http.StatusBadRequest, "unknown department", nil)
		return
	}
	docs, err := h.docStore.ListByDepartment(r.Context(), string(dept))
	if err != nil {
		h.fail(w, http.StatusInternalServerError, "failed to list process docs", err)
		return
	}
	h.respond(w, http.StatusOK, map[string]interface{}{"docs": docs, "count": len(docs)})
}

// latestResult rebuilds a scoring result from the latest stored record
func (h *Handler) latestResult(r *http.Request) (*scoring.AnalysisResult, error) {
	record, err := h.service.Latest(r.Context())
	if err != nil {
		return nil, err
	}
	return recordToResult(record)
}

func recordToResult(record *database.AnalysisRecord) (*scoring.AnalysisResult, error) {
	result := &scoring.AnalysisResult{
		ID:           record.ID,
		SiteURL:      record.SiteURL,
		SiteName:     record.SiteName,
		BusinessType: record.BusinessType,
		OverallScore: record.OverallScore,
		Alignment:    record.Alignment,
		CreatedAt:    record.CreatedAt,
	}
	if err := record.Departments.Unmarshal(&result.Departments); err != nil {
		return nil, err
	}
	if err := record.TopRecommendations.Unmarshal(&result.TopRecommendations); err != nil {
		return nil, err
	}
	return result, nil
}

func (h *Handler) respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, status int, message string, err error) {
	if err != nil && status >= 500 {
		h.logger.Error("Request failed", "status", status, "message", message, "error", err)
	}
	h.respond(w, status, map[string]string{"error": message})
}
