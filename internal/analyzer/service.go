package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/commercecopilot/atomic-analyzer/internal/config"
	"github.com/commercecopilot/atomic-analyzer/internal/database"
	"github.com/commercecopilot/atomic-analyzer/internal/metrics"
	"github.com/commercecopilot/atomic-analyzer/internal/notify"
	"github.com/commercecopilot/atomic-analyzer/internal/scoring"
	"github.com/commercecopilot/atomic-analyzer/internal/signals"
	"github.com/commercecopilot/atomic-analyzer/internal/webhook"
)

// AnalysisStore is the persistence surface the service needs.
// *database.AnalysisRepository implements it.
type AnalysisStore interface {
	Create(ctx context.Context, record *database.AnalysisRecord) error
	GetByID(ctx context.Context, id string) (*database.AnalysisRecord, error)
	Latest(ctx context.Context) (*database.AnalysisRecord, error)
	List(ctx context.Context, limit int) ([]database.AnalysisRecord, error)
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// EventSink receives analysis events for webhook fan-out
type EventSink interface {
	Trigger(ctx context.Context, event string, data map[string]interface{}) []webhook.DeliveryResult
}

// Service runs analyses end to end: collect signals, score, persist,
// and notify.
type Service struct {
	cfg     config.AnalysisConfig
	site    webhook.SiteMeta
	source  signals.Source
	engine  *scoring.Engine
	store   AnalysisStore
	events  EventSink
	mailer  notify.Mailer
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewService creates the analysis service. The mailer and metrics are
// optional.
func NewService(
	cfg config.AnalysisConfig,
	site webhook.SiteMeta,
	source signals.Source,
	engine *scoring.Engine,
	store AnalysisStore,
	events EventSink,
	mailer notify.Mailer,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		cfg:     cfg,
		site:    site,
		source:  source,
		engine:  engine,
		store:   store,
		events:  events,
		mailer:  mailer,
		metrics: m,
		logger:  logger,
	}
}

// RunFull performs a complete analysis: detect the business type,
// collect signals, score all departments, persist the run, and fire
// the resulting events.
func (s *Service) RunFull(ctx context.Context) (*scoring.AnalysisResult, error) {
	start := time.Now()

	businessType, err := s.source.DetectBusinessType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to detect business type: %w", err)
	}

	sig, err := s.source.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect signals: %w", err)
	}

	// Load the previous run before persisting the new one
	previous, err := s.store.Latest(ctx)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		s.logger.Warn("Could not load previous analysis for comparison", "error", err)
		previous = nil
	}

	results := s.engine.EvaluateAll(ctx, sig, businessType)
	overall, alignment, recs := scoring.Aggregate(results)

	result := &scoring.AnalysisResult{
		ID:                 uuid.NewString(),
		SiteURL:            s.site.URL,
		SiteName:           s.site.Name,
		BusinessType:       businessType,
		OverallScore:       overall,
		Alignment:          alignment,
		Departments:        results,
		TopRecommendations: recs,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.persist(ctx, result, sig); err != nil {
		return nil, err
	}

	s.observe(result, time.Since(start))
	s.fireEvents(ctx, result, previous)

	if s.mailer != nil {
		if err := s.mailer.SendCriticalIssues(ctx, result); err != nil {
			s.logger.Error("Failed to send critical issue email", "error", err)
		}
	}

	s.logger.Info("Analysis complete",
		"analysis_id", result.ID,
		"score", result.OverallScore,
		"alignment", result.Alignment,
		"critical_issues", result.CriticalIssueCount(),
		"duration", time.Since(start))
	return result, nil
}

// RunDepartment analyzes a single department without persisting or
// firing events
func (s *Service) RunDepartment(ctx context.Context, dept scoring.Department) (*scoring.DepartmentResult, error) {
	businessType, err := s.source.DetectBusinessType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to detect business type: %w", err)
	}

	sig, err := s.source.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect signals: %w", err)
	}

	result := s.engine.EvaluateDepartment(dept, sig, businessType)
	return &result, nil
}

// Latest returns the most recent stored analysis
func (s *Service) Latest(ctx context.Context) (*database.AnalysisRecord, error) {
	return s.store.Latest(ctx)
}

// Get returns one stored analysis by ID
func (s *Service) Get(ctx context.Context, id string) (*database.AnalysisRecord, error) {
	return s.store.GetByID(ctx, id)
}

// History returns recent stored analyses, newest first
func (s *Service) History(ctx context.Context, limit int) ([]database.AnalysisRecord, error) {
	return s.store.List(ctx, limit)
}

// Prune removes analyses past the configured retention window
func (s *Service) Prune(ctx context.Context) (int64, error) {
	if s.cfg.RetentionDays <= 0 {
		return 0, nil
	}
	return s.store.DeleteOlderThan(ctx, time.Duration(s.cfg.RetentionDays)*24*time.Hour)
}

func (s *Service) persist(ctx context.Context, result *scoring.AnalysisResult, sig *signals.Signals) error {
	departments, err := database.MarshalJSONB(result.Departments)
	if err != nil {
		return err
	}
	recommendations, err := database.MarshalJSONB(result.TopRecommendations)
	if err != nil {
		return err
	}
	rawSignals, err := database.MarshalJSONB(sig)
	if err != nil {
		return err
	}

	record := &database.AnalysisRecord{
		ID:                 result.ID,
		SiteURL:            result.SiteURL,
		SiteName:           result.SiteName,
		BusinessType:       result.BusinessType,
		OverallScore:       result.OverallScore,
		Alignment:          result.Alignment,
		CriticalIssues:     result.CriticalIssueCount(),
		Departments:        departments,
		TopRecommendations: recommendations,
		Signals:            rawSignals,
	}
	return s.store.Create(ctx, record)
}

func (s *Service) observe(result *scoring.AnalysisResult, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.AnalysesTotal.Inc()
	s.metrics.AnalysisDuration.Observe(elapsed.Seconds())
	s.metrics.OverallScore.Set(float64(result.OverallScore))
	s.metrics.CriticalIssues.Set(float64(result.CriticalIssueCount()))
	for dept, deptResult := range result.Departments {
		s.metrics.DepartmentScore.WithLabelValues(string(dept)).Set(float64(deptResult.Score))
	}
}

// fireEvents emits analysis_complete, one critical_issue_found per
// critical issue, and a score change event when the overall score
// moved by the configured threshold.
func (s *Service) fireEvents(ctx context.Context, result *scoring.AnalysisResult, previous *database.AnalysisRecord) {
	if s.events == nil {
		return
	}

	s.events.Trigger(ctx, webhook.EventAnalysisComplete, map[string]interface{}{
		"analysis_id":         result.ID,
		"score":               result.OverallScore,
		"pmba_alignment":      result.Alignment,
		"critical_issues":     result.CriticalIssueCount(),
		"departments_summary": departmentsSummary(result),
	})

	for _, dept := range scoring.DepartmentOrder {
		for _, issue := range result.Departments[dept].CriticalIssues() {
			s.events.Trigger(ctx, webhook.EventCriticalIssueFound, map[string]interface{}{
				"severity":          string(issue.Severity),
				"department":        string(dept),
				"issue_title":       issue.Title,
				"issue_description": issue.Description,
			})
		}
	}

	if previous == nil {
		return
	}
	change := result.OverallScore - previous.OverallScore
	threshold := s.cfg.ScoreChangeThreshold
	if threshold <= 0 {
		threshold = 5
	}

	data := map[string]interface{}{
		"old_score": previous.OverallScore,
		"new_score": result.OverallScore,
		"change":    change,
	}
	switch {
	case change >= threshold:
		s.events.Trigger(ctx, webhook.EventScoreImproved, data)
	case change <= -threshold:
		s.events.Trigger(ctx, webhook.EventScoreDeclined, data)
	}
}

func departmentsSummary(result *scoring.AnalysisResult) map[string]interface{} {
	summary := make(map[string]interface{}, len(result.Departments))
	for dept, deptResult := range result.Departments {
		summary[string(dept)] = map[string]interface{}{
			"score":           deptResult.Score,
			"issues_count":    len(deptResult.Issues),
			"critical_issues": len(deptResult.CriticalIssues()),
		}
	}
	return summary
}
