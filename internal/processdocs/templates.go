package processdocs

import (
	"fmt"

	"github.com/flosch/pongo2/v6"

	"github.com/commercecopilot/atomic-analyzer/internal/scoring"
)

// departmentContent carries the fixed, department-specific material the
// templates render
type departmentContent struct {
	Purpose    string
	Steps      []string
	Daily      []string
	Weekly     []string
	Monthly    []string
	KPIs       []string
	KPITargets []string
}

var departmentContents = map[scoring.Department]departmentContent{
	scoring.DepartmentDevelopment: {
		Purpose: "Continuously discover what customers need and turn it into offers worth paying for.",
		Steps: []string{
			"Collect customer feedback from support, reviews, and interviews",
			"Rank requested improvements by expected value and effort",
			"Prototype the top improvement cheaply",
			"Test the prototype with real prospects",
			"Ship, measure, and feed results back into the backlog",
		},
		Daily:   []string{"Read new customer feedback", "Note one observed customer problem"},
		Weekly:  []string{"Review the improvement backlog", "Ship one visible improvement"},
		Monthly: []string{"Run three customer interviews", "Retire offers nobody buys"},
		KPIs: []string{
			"Days since last shipped improvement",
			"Customer interviews per month",
			"Prototype-to-launch conversion rate",
		},
		KPITargets: []string{"< 7", ">= 3", "> 30%"},
	},
	scoring.DepartmentMarketing: {
		Purpose: "Earn the attention and permission of the people the business can genuinely help.",
		Steps: []string{
			"Identify where target customers already spend attention",
			"Publish remarkable content where they are",
			"Capture permission with a genuinely valuable opt-in",
			"Nurture the list with consistent, useful messages",
			"Measure which channels produce subscribers and double down",
		},
		Daily:   []string{"Engage in one channel where customers gather"},
		Weekly:  []string{"Publish at least one piece of content", "Send one email to the list"},
		Monthly: []string{"Review channel performance", "Refresh the lead magnet if conversion drops"},
		KPIs: []string{
			"New email subscribers per week",
			"Content pieces published per month",
			"Search visibility score",
		},
		KPITargets: []string{"growing", ">= 2", ">= 70"},
	},
	scoring.DepartmentSales: {
		Purpose: "Turn permission into transactions by building trust and removing every unnecessary barrier.",
		Steps: []string{
			"Present a clear offer with transparent pricing",
			"Answer the top objections next to the call to action",
			"Reverse the buyer's risk with a guarantee",
			"Ask for exactly one next step per page",
			"Follow up with everyone who almost bought",
		},
		Daily:   []string{"Respond to every sales inquiry within one business day"},
		Weekly:  []string{"Review where prospects abandon the purchase path"},
		Monthly: []string{"Test one pricing or offer change", "Refresh testimonials"},
		KPIs: []string{
			"Visitor-to-customer conversion rate",
			"Average days from inquiry to close",
			"Refund rate",
		},
		KPITargets: []string{"> 2%", "< 7", "< 5%"},
	},
	scoring.DepartmentDelivery: {
		Purpose: "Deliver the promised value consistently, quickly, and in a way that scales beyond the founder.",
		Steps: []string{
			"Set expectations at purchase: steps, timeline, responsibilities",
			"Run delivery from the documented checklist, not memory",
			"Measure time to first value for every new customer",
			"Collect a satisfaction signal after delivery",
			"Fix the step that generated the most support requests",
		},
		Daily:   []string{"Clear the delivery queue", "Flag any delivery past its promised date"},
		Weekly:  []string{"Review support requests for recurring delivery problems"},
		Monthly: []string{"Update the delivery documentation", "Automate one manual step"},
		KPIs: []string{
			"Time to first value",
			"On-time delivery rate",
			"Support tickets per delivery",
		},
		KPITargets: []string{"shrinking", "> 95%", "< 0.5"},
	},
	scoring.DepartmentAccounting: {
		Purpose: "Capture enough of the created value to keep the business running indefinitely.",
		Steps: []string{
			"Record every revenue and expense weekly",
			"Review margin by offer, not just in total",
			"Price against value delivered, not cost incurred",
			"Maintain a cash buffer covering fixed costs",
			"Evaluate one new revenue stream per quarter",
		},
		Daily:   []string{"Check cash position"},
		Weekly:  []string{"Reconcile revenue and expenses"},
		Monthly: []string{"Review margin by offer", "Compare revenue streams against last month"},
		KPIs: []string{
			"Gross margin",
			"Months of runway",
			"Revenue share of the largest stream",
		},
		KPITargets: []string{"> 60%", "> 6", "< 70%"},
	},
}

var docTemplates = map[string]*pongo2.Template{
	DocTypeSOP: pongo2.Must(pongo2.FromString(`# {{ label }} Standard Operating Procedure

## Purpose

{{ purpose }}

## Current Score

{{ score }}/100{% if issues %} with {{ issues|length }} open issue(s){% endif %}

## Procedure
{% for step in steps %}
{{ forloop.Counter }}. {{ step }}{% endfor %}
{% if issues %}
## Known Gaps
{% for issue in issues %}
- **{{ issue.title }}**: {{ issue.action }}{% endfor %}
{% endif %}`)),

	DocTypeProcessMap: pongo2.Must(pongo2.FromString(`# {{ label }} Process Map

{{ purpose }}

{% for step in steps %}[{{ forloop.Counter }}] {{ step }}
{% if not forloop.Last %}    |
    v
{% endif %}{% endfor %}`)),

	DocTypeChecklists: pongo2.Must(pongo2.FromString(`# {{ label }} Checklists

## Daily
{% for item in daily %}
- [ ] {{ item }}{% endfor %}

## Weekly
{% for item in weekly %}
- [ ] {{ item }}{% endfor %}

## Monthly
{% for item in monthly %}
- [ ] {{ item }}{% endfor %}`)),

	DocTypeKPIs: pongo2.Must(pongo2.FromString(`# {{ label }} Key Performance Indicators

| KPI | Target |
|-----|--------|{% for kpi in kpis %}
| {{ kpi.name }} | {{ kpi.target }} |{% endfor %}

Review these numbers monthly. A KPI that is never off target is
probably measuring the wrong thing.`)),
}

// renderDoc renders one document type for a department
func renderDoc(docType string, dept scoring.Department, result scoring.DepartmentResult) (string, error) {
	tpl, ok := docTemplates[docType]
	if !ok {
		return "", fmt.Errorf("processdocs: unknown doc type %q", docType)
	}

	content := departmentContents[dept]

	issues := make([]map[string]string, 0, len(result.Issues))
	for _, issue := range result.Issues {
		issues = append(issues, map[string]string{
			"title":  issue.Title,
			"action": issue.Action,
		})
	}

	kpis := make([]map[string]string, 0, len(content.KPIs))
	for i, name := range content.KPIs {
		target := ""
		if i < len(content.KPITargets) {
			target = content.KPITargets[i]
		}
		kpis = append(kpis, map[string]string{"name": name, "target": target})
	}

	out, err := tpl.Execute(pongo2.Context{
		"label":   dept.Label(),
		"purpose": content.Purpose,
		"score":   result.Score,
		"steps":   content.Steps,
		"daily":   content.Daily,
		"weekly":  content.Weekly,
		"monthly": content.Monthly,
		"kpis":    kpis,
		"issues":  issues,
	})
	if err != nil {
		return "", fmt.Errorf("processdocs: failed to render %s: %w", docType, err)
	}
	return out, nil
}
