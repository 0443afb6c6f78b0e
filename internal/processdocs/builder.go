package processdocs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/commercecopilot/atomic-analyzer/internal/database"
	"github.com/commercecopilot/atomic-analyzer/internal/insights"
	"github.com/commercecopilot/atomic-analyzer/internal/scoring"
	"github.com/commercecopilot/atomic-analyzer/internal/webhook"
)

// Document types produced per department
const (
	DocTypeSOP        = "sop"
	DocTypeProcessMap = "process_map"
	DocTypeChecklists = "checklists"
	DocTypeKPIs       = "kpis"
)

// DocTypes lists every generated document type
var DocTypes = []string{DocTypeSOP, DocTypeProcessMap, DocTypeChecklists, DocTypeKPIs}

// DocStore is the persistence surface the builder needs.
// *database.ProcessDocRepository implements it.
type DocStore interface {
	Upsert(ctx context.Context, doc *database.ProcessDoc) error
	ListByDepartment(ctx context.Context, department string) ([]database.ProcessDoc, error)
	List(ctx context.Context) ([]database.ProcessDoc, error)
}

// EventSink receives the process_docs_created event
type EventSink interface {
	Trigger(ctx context.Context, event string, data map[string]interface{}) []webhook.DeliveryResult
}

// Builder generates process documentation for departments. Documents
// come from templates; when an insights client is available, the SOP
// gets an AI-written improvement section appended.
type Builder struct {
	store    DocStore
	insights *insights.Client
	events   EventSink
	logger   *slog.Logger
}

// NewBuilder creates a process documentation builder. The insights
// client and event sink are optional.
func NewBuilder(store DocStore, insightsClient *insights.Client, events EventSink, logger *slog.Logger) *Builder {
	return &Builder{
		store:    store,
		insights: insightsClient,
		events:   events,
		logger:   logger,
	}
}

// BuildDepartment generates and stores all document types for one
// department, using the latest department result for context.
func (b *Builder) BuildDepartment(ctx context.Context, dept scoring.Department, result scoring.DepartmentResult) ([]database.ProcessDoc, error) {
	if !dept.Valid() {
		return nil, fmt.Errorf("processdocs: unknown department %q", dept)
	}

	docs := make([]database.ProcessDoc, 0, len(DocTypes))
	for _, docType := range DocTypes {
		content, err := renderDoc(docType, dept, result)
		if err != nil {
			return nil, err
		}

		if docType == DocTypeSOP {
			content = b.enrich(ctx, dept, content)
		}

		doc := database.ProcessDoc{
			ID:         uuid.NewString(),
			Department: string(dept),
			DocType:    docType,
			Title:      docTitle(docType, dept),
			Content:    content,
		}
		if err := b.store.Upsert(ctx, &doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	b.logger.Info("Process docs built", "department", string(dept), "docs", len(docs))
	return docs, nil
}

// BuildAll generates documents for every department and fires the
// process_docs_created event once at the end.
func (b *Builder) BuildAll(ctx context.Context, results map[scoring.Department]scoring.DepartmentResult) error {
	departments := make([]string, 0, len(scoring.DepartmentOrder))
	for _, dept := range scoring.DepartmentOrder {
		if _, err := b.BuildDepartment(ctx, dept, results[dept]); err != nil {
			return fmt.Errorf("failed to build docs for %s: %w", dept, err)
		}
		departments = append(departments, string(dept))
	}

	if b.events != nil {
		b.events.Trigger(ctx, webhook.EventProcessDocsCreated, map[string]interface{}{
			"departments": departments,
			"doc_types":   DocTypes,
		})
	}
	return nil
}

// enrich appends an AI-written improvement section when possible.
// Generation failures never block document creation.
func (b *Builder) enrich(ctx context.Context, dept scoring.Department, content string) string {
	if b.insights == nil {
		return content
	}

	suggestions, err := b.insights.ProcessDocumentation(ctx, dept, content)
	if err != nil {
		if !errors.Is(err, insights.ErrNoAPIKey) {
			b.logger.Warn("SOP enrichment skipped", "department", string(dept), "error", err)
		}
		return content
	}

	return content + "\n## Suggested Improvements\n\n" + suggestions + "\n"
}

func docTitle(docType string, dept scoring.Department) string {
	switch docType {
	case DocTypeSOP:
		return fmt.Sprintf("%s Standard Operating Procedure", dept.Label())
	case DocTypeProcessMap:
		return fmt.Sprintf("%s Process Map", dept.Label())
	case DocTypeChecklists:
		return fmt.Sprintf("%s Checklists", dept.Label())
	case DocTypeKPIs:
		return fmt.Sprintf("%s Key Performance Indicators", dept.Label())
	default:
		return fmt.Sprintf("%s %s", dept.Label(), docType)
	}
}
