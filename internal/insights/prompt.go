package insights

import (
	"fmt"
	"strings"

	"github.com/commercecopilot/atomic-analyzer/internal/scoring"
)

// buildAnalysisPrompt renders the full analysis into the prompt that
// asks for the six fixed report sections.
func buildAnalysisPrompt(result *scoring.AnalysisResult) string {
	var b strings.Builder

	b.WriteString("You are a business advisor analyzing a small business.\n\n")
	b.WriteString("BUSINESS CONTEXT:\n")
	fmt.Fprintf(&b, "- Site: %s (%s)\n", result.SiteName, result.SiteURL)
	fmt.Fprintf(&b, "- Business type: %s\n", result.BusinessType)
	fmt.Fprintf(&b, "- Overall score: %d/100\n", result.OverallScore)
	fmt.Fprintf(&b, "- Principle alignment: %d/100\n\n", result.Alignment)

	for _, dept := range scoring.DepartmentOrder {
		deptResult, ok := result.Departments[dept]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s (score %d/100):\n", strings.ToUpper(string(dept)), deptResult.Score)
		if len(deptResult.Issues) == 0 {
			b.WriteString("- No issues found\n")
		}
		for _, issue := range deptResult.Issues {
			fmt.Fprintf(&b, "- [%s] %s\n", issue.Severity, issue.Title)
			fmt.Fprintf(&b, "  Principle: %s\n", issue.Principle)
			fmt.Fprintf(&b, "  %s\n", issue.Description)
		}
		b.WriteString("\n")
	}

	b.WriteString(`Based on this analysis, provide exactly these 6 sections:

1. EXECUTIVE SUMMARY
A short paragraph on the overall state of the business.

2. CRITICAL PRIORITIES
Numbered list of the most urgent fixes, most urgent first.

3. QUICK WINS
Numbered list of improvements achievable within one week.

4. STRATEGIC MOVES
Numbered list of larger initiatives for the next quarter.

5. PMBA WISDOM
A short paragraph connecting the findings to fundamental business principles.

6. 90-DAY ROADMAP
A week-by-week outline for the next 90 days.

Use the section headings exactly as written above.`)

	return b.String()
}

// buildDepartmentPrompt asks for focused advice on one department
func buildDepartmentPrompt(dept scoring.Department, result scoring.DepartmentResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a business advisor. Focus only on the %s function of a small business.\n\n", dept.Label())
	fmt.Fprintf(&b, "Current score: %d/100\n\nFindings:\n", result.Score)
	if len(result.Issues) == 0 {
		b.WriteString("- No issues found\n")
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", issue.Severity, issue.Title, issue.Description)
	}
	b.WriteString("\nGive specific, practical advice for improving this score. Keep it under 400 words.")

	return b.String()
}

// buildProcessDocPrompt asks for improvements to an operating procedure
func buildProcessDocPrompt(dept scoring.Department, content string) string {
	return fmt.Sprintf(
		"Here is a standard operating procedure for the %s function of a small business:\n\n%s\n\nSuggest 3 concrete improvements to this procedure. Reply with a numbered list only.",
		dept.Label(), content)
}

// buildQuickWinsPrompt asks for a plain numbered list of quick wins
func buildQuickWinsPrompt(result *scoring.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "A %s business scored %d/100 on a business health analysis.\n", result.BusinessType, result.OverallScore)
	b.WriteString("Top problems:\n")
	for _, rec := range result.TopRecommendations {
		fmt.Fprintf(&b, "- %s: %s\n", rec.Department, rec.Title)
	}
	b.WriteString("\nList 5 quick wins the owner can finish this week. Reply with a numbered list only.")

	return b.String()
}
