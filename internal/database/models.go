package database

import "time"

// AnalysisRecord is one stored analysis run. Department results and
// recommendations are kept as JSON documents; the scalar columns exist
// for querying and trend comparison.
type AnalysisRecord struct {
	ID                 string    `db:"id" json:"id"`
	SiteURL            string    `db:"site_url" json:"site_url"`
	SiteName           string    `db:"site_name" json:"site_name"`
	BusinessType       string    `db:"business_type" json:"business_type"`
	OverallScore       int       `db:"overall_score" json:"overall_score"`
	Alignment          int       `db:"alignment" json:"pmba_alignment"`
	CriticalIssues     int       `db:"critical_issues" json:"critical_issues"`
	Departments        JSONB     `db:"departments" json:"departments"`
	TopRecommendations JSONB     `db:"top_recommendations" json:"top_recommendations"`
	Signals            JSONB     `db:"signals" json:"signals"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// Webhook is a registered outbound destination
type Webhook struct {
	ID              string     `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	URL             string     `db:"url" json:"url"`
	Trigger         string     `db:"trigger" json:"trigger"`
	Secret          string     `db:"secret" json:"secret,omitempty"`
	Method          string     `db:"method" json:"method"`
	Headers         JSONB      `db:"headers" json:"headers,omitempty"`
	Active          bool       `db:"active" json:"active"`
	LastTriggeredAt *time.Time `db:"last_triggered_at" json:"last_triggered_at,omitempty"`
	AuditFields
}

// ProcessDoc is one generated process document for a department
type ProcessDoc struct {
	ID         string `db:"id" json:"id"`
	Department string `db:"department" json:"department"`
	DocType    string `db:"doc_type" json:"doc_type"`
	Title      string `db:"title" json:"title"`
	Content    string `db:"content" json:"content"`
	AuditFields
}
