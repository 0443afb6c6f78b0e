package webhook

import (
	"time"
)

// SiteMeta identifies the analyzed site in every payload
type SiteMeta struct {
	URL          string
	Name         string
	BusinessType string
}

// promotedKeys lists the data fields each event surfaces at the top
// level of the envelope, next to the standard fields.
var promotedKeys = map[string][]string{
	EventAnalysisComplete:   {"score", "pmba_alignment", "critical_issues", "departments_summary"},
	EventScoreImproved:      {"old_score", "new_score", "change"},
	EventScoreDeclined:      {"old_score", "new_score", "change"},
	EventCriticalIssueFound: {"severity", "department", "issue_title", "issue_description"},
	EventPDFGenerated:       {"pdf_url", "report_type"},
	EventProcessDocsCreated: {"departments", "doc_types"},
}

// BuildPayload assembles the canonical envelope for an event. The
// envelope always carries the standard fields plus the full data map;
// event-specific fields are additionally promoted to the top level.
func BuildPayload(event string, site SiteMeta, data map[string]interface{}, now time.Time) map[string]interface{} {
	payload := map[string]interface{}{
		"event":          event,
		"timestamp":      now.Format(time.RFC3339),
		"timestamp_unix": now.Unix(),
		"site_url":       site.URL,
		"site_name":      site.Name,
		"business_type":  site.BusinessType,
		"data":           data,
	}

	for _, key := range promotedKeys[event] {
		if value, ok := data[key]; ok {
			payload[key] = value
		}
	}

	return payload
}

// PayloadFilter can inspect and rewrite a payload before it is signed
// and sent. Returning nil keeps the payload unchanged.
type PayloadFilter func(event string, payload map[string]interface{}) map[string]interface{}

type namedFilter struct {
	name   string
	filter PayloadFilter
}

// applyFilters runs filters in registration order
func applyFilters(filters []namedFilter, event string, payload map[string]interface{}) map[string]interface{} {
	for _, nf := range filters {
		if out := nf.filter(event, payload); out != nil {
			payload = out
		}
	}
	return payload
}
