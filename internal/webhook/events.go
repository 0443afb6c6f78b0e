package webhook

// Outbound event identifiers
const (
	EventAnalysisComplete   = "analysis_complete"
	EventCriticalIssueFound = "critical_issue_found"
	EventScoreImproved      = "score_improved"
	EventScoreDeclined      = "score_declined"
	EventPDFGenerated       = "pdf_generated"
	EventProcessDocsCreated = "process_docs_created"
)

// Events lists every event a webhook may subscribe to
var Events = []string{
	EventAnalysisComplete,
	EventCriticalIssueFound,
	EventScoreImproved,
	EventScoreDeclined,
	EventPDFGenerated,
	EventProcessDocsCreated,
}

// EventDescriptions explains each event for integrators
var EventDescriptions = map[string]string{
	EventAnalysisComplete:   "Fires when a full business analysis finishes",
	EventCriticalIssueFound: "Fires once per critical issue discovered during an analysis",
	EventScoreImproved:      "Fires when the overall score rises by 5 or more points",
	EventScoreDeclined:      "Fires when the overall score drops by 5 or more points",
	EventPDFGenerated:       "Fires when a PDF report is generated",
	EventProcessDocsCreated: "Fires when process documentation is generated",
}

// IsKnownEvent reports whether event is a valid trigger
func IsKnownEvent(event string) bool {
	_, ok := EventDescriptions[event]
	return ok
}

// TestData returns representative data for a manual test delivery
func TestData(event string) map[string]interface{} {
	switch event {
	case EventAnalysisComplete:
		return map[string]interface{}{
			"score":           85,
			"pmba_alignment":  78,
			"critical_issues": 2,
			"departments_summary": map[string]interface{}{
				"development": map[string]interface{}{"score": 80, "issues_count": 2, "critical_issues": 0},
				"marketing":   map[string]interface{}{"score": 85, "issues_count": 1, "critical_issues": 1},
				"sales":       map[string]interface{}{"score": 90, "issues_count": 1, "critical_issues": 0},
				"delivery":    map[string]interface{}{"score": 82, "issues_count": 2, "critical_issues": 1},
				"accounting":  map[string]interface{}{"score": 88, "issues_count": 1, "critical_issues": 0},
			},
		}
	case EventCriticalIssueFound:
		return map[string]interface{}{
			"severity":          "critical",
			"department":        "marketing",
			"issue_title":       "No permission asset",
			"issue_description": "There is no email capture, so every visitor who leaves is lost forever.",
		}
	case EventScoreImproved:
		return map[string]interface{}{"old_score": 72, "new_score": 85, "change": 13}
	case EventScoreDeclined:
		return map[string]interface{}{"old_score": 85, "new_score": 72, "change": -13}
	case EventPDFGenerated:
		return map[string]interface{}{"pdf_url": "https://example.com/reports/analysis.pdf", "report_type": "full_analysis"}
	case EventProcessDocsCreated:
		return map[string]interface{}{
			"departments": []string{"development", "marketing", "sales", "delivery", "accounting"},
			"doc_types":   []string{"sop", "process_map", "checklists", "kpis"},
		}
	default:
		return map[string]interface{}{}
	}
}
