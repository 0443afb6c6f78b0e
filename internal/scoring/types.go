package scoring

import "time"

// Severity levels for issues, ordered by urgency
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Priority maps a severity to its recommendation priority. Lower is
// more urgent.
func (s Severity) Priority() int {
	switch s {
	case SeverityCritical:
		return 1
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 3
	default:
		return 4
	}
}

// Department identifies one of the five business functions
type Department string

const (
	DepartmentDevelopment Department = "development"
	DepartmentMarketing   Department = "marketing"
	DepartmentSales       Department = "sales"
	DepartmentDelivery    Department = "delivery"
	DepartmentAccounting  Department = "accounting"
)

// DepartmentOrder is the canonical ordering used for aggregation and
// recommendation tie-breaking
var DepartmentOrder = []Department{
	DepartmentDevelopment,
	DepartmentMarketing,
	DepartmentSales,
	DepartmentDelivery,
	DepartmentAccounting,
}

// Label returns the human-readable department name
func (d Department) Label() string {
	switch d {
	case DepartmentDevelopment:
		return "Value Creation & Development"
	case DepartmentMarketing:
		return "Marketing"
	case DepartmentSales:
		return "Sales"
	case DepartmentDelivery:
		return "Value Delivery"
	case DepartmentAccounting:
		return "Finance & Accounting"
	default:
		return string(d)
	}
}

// Valid reports whether d is one of the five known departments
func (d Department) Valid() bool {
	_, ok := ruleSets[d]
	return ok
}

// Issue describes a failed check within a department
type Issue struct {
	Severity    Severity `json:"severity"`
	Principle   string   `json:"principle"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Guidance    string   `json:"pmba_guidance"`
	Action      string   `json:"action"`
}

// Opportunity describes an improvement a business could pursue
type Opportunity struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// PrincipleScore is the 0-100 score for a single principle check
type PrincipleScore struct {
	Principle string `json:"principle"`
	Score     int    `json:"score"`
}

// DepartmentResult is the outcome of evaluating one department
type DepartmentResult struct {
	Department      Department       `json:"department"`
	Score           int              `json:"score"`
	PrincipleScores []PrincipleScore `json:"principle_scores"`
	Issues          []Issue          `json:"issues"`
	Opportunities   []Opportunity    `json:"opportunities"`
}

// CriticalIssues returns the critical-severity subset
func (r DepartmentResult) CriticalIssues() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityCritical {
			out = append(out, issue)
		}
	}
	return out
}

// Recommendation is a prioritized action surfaced from an issue
type Recommendation struct {
	Department Department `json:"department"`
	Severity   Severity   `json:"severity"`
	Priority   int        `json:"priority"`
	Title      string     `json:"title"`
	Action     string     `json:"action"`
}

// AnalysisResult is the complete outcome of a full analysis run
type AnalysisResult struct {
	ID                 string                          `json:"id"`
	SiteURL            string                          `json:"site_url"`
	SiteName           string                          `json:"site_name"`
	BusinessType       string                          `json:"business_type"`
	OverallScore       int                             `json:"overall_score"`
	Alignment          int                             `json:"pmba_alignment"`
	Departments        map[Department]DepartmentResult `json:"departments"`
	TopRecommendations []Recommendation                `json:"top_recommendations"`
	CreatedAt          time.Time                       `json:"created_at"`
}

// CriticalIssueCount counts critical issues across all departments
func (a AnalysisResult) CriticalIssueCount() int {
	count := 0
	for _, dept := range a.Departments {
		count += len(dept.CriticalIssues())
	}
	return count
}
