package scoring

import "github.com/commercecopilot/atomic-analyzer/internal/signals"

// marketingRules covers attention, remarkability, permission assets and
// social proof.
type marketingRules struct{}

func (marketingRules) Department() Department { return DepartmentMarketing }

func (marketingRules) Evaluate(sig *signals.Signals) DepartmentResult {
	b := newResultBuilder(DepartmentMarketing)

	b.score("Attention", sig.SEOScore)
	if sig.SEOScore < 70 {
		b.fail(Issue{
			Severity:    SeverityHigh,
			Principle:   "Attention",
			Title:       "Weak search visibility",
			Description: "Basic on-page SEO elements are missing, so the business is hard to find.",
			Guidance:    "Marketing starts with attention. A business nobody can find cannot earn permission or trust.",
			Action:      "Fix titles, meta descriptions, headings, and image alt text on key pages.",
		}, 25)
	}

	b.score("Remarkability", capAt(sig.ContentFrequency*25, 100))
	if sig.ContentFrequency < 2 {
		b.fail(Issue{
			Severity:    SeverityHigh,
			Principle:   "Remarkability",
			Title:       "Not enough remarkable content",
			Description: "Fewer than two pieces of fresh content per month gives people nothing to talk about.",
			Guidance:    "Remarkable means worth making a remark about. Consistent publishing is the cheapest way to stay remarkable.",
			Action:      "Commit to publishing at least two substantial pieces of content per month.",
		}, 20)
	}

	b.score("Permission Asset", boolScore(sig.HasEmailCapture, 80, 20))
	if !sig.HasEmailCapture {
		b.fail(Issue{
			Severity:    SeverityCritical,
			Principle:   "Permission Asset",
			Title:       "No permission asset",
			Description: "There is no email capture, so every visitor who leaves is lost forever.",
			Guidance:    "A permission asset is the ability to reach interested people on demand. It is the most valuable marketing asset a business owns.",
			Action:      "Add an email opt-in with a genuine incentive and start building the list today.",
		}, 30)
	}

	b.score("Social Proof", sig.SocialProofScore)
	if sig.SocialProofScore < 50 {
		b.fail(Issue{
			Severity:    SeverityMedium,
			Principle:   "Social Proof",
			Title:       "Thin social proof",
			Description: "Few testimonials, reviews, or customer signals are visible.",
			Guidance:    "People decide by watching what others like them decided. Absent proof, prospects assume the worst.",
			Action:      "Collect and display testimonials, reviews, and customer counts near every call to action.",
		}, 15)
	}

	return b.result()
}
