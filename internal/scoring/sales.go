package scoring

import "github.com/commercecopilot/atomic-analyzer/internal/signals"

// salesRules covers trust, pricing clarity, calls to action, risk
// reversal and purchase barriers.
type salesRules struct{}

func (salesRules) Department() Department { return DepartmentSales }

func (salesRules) Evaluate(sig *signals.Signals) DepartmentResult {
	b := newResultBuilder(DepartmentSales)

	b.score("Trust", sig.TrustScore)
	if sig.TrustScore < 70 {
		b.fail(Issue{
			Severity:    SeverityCritical,
			Principle:   "Trust",
			Title:       "Insufficient trust signals",
			Description: "The site lacks the contact, policy, and credibility markers buyers look for before paying.",
			Guidance:    "A sale is an exchange of trust for money. No trust, no transaction, regardless of how good the offer is.",
			Action:      "Add clear contact details, an about page, a privacy policy, and visible credentials.",
		}, 30)
	}

	b.score("Pricing Uncertainty", boolScore(sig.PricingTransparent, 90, 30))
	if !sig.PricingTransparent {
		b.fail(Issue{
			Severity:    SeverityHigh,
			Principle:   "Pricing Uncertainty",
			Title:       "Hidden pricing",
			Description: "Prospects cannot find what anything costs without contacting the business.",
			Guidance:    "Uncertain prices feel like high prices. Hiding the number hands the sale to whoever publishes theirs.",
			Action:      "Publish prices, or at minimum transparent starting-at ranges, for the core offers.",
		}, 20)
	}

	b.score("Call to Action", sig.CallToActionScore)
	if sig.CallToActionScore < 60 {
		b.fail(Issue{
			Severity:    SeverityHigh,
			Principle:   "Call to Action",
			Title:       "Weak calls to action",
			Description: "Pages do not clearly tell visitors what to do next.",
			Guidance:    "Every page should ask for exactly one next step. A confused prospect does nothing.",
			Action:      "Give each key page a single, prominent, specific call to action.",
		}, 20)
	}

	b.score("Risk Reversal", boolScore(sig.HasRiskReversal, 85, 25))
	if !sig.HasRiskReversal {
		b.fail(Issue{
			Severity:    SeverityMedium,
			Principle:   "Risk Reversal",
			Title:       "No risk reversal",
			Description: "Nothing on the site removes the buyer's downside if the purchase disappoints.",
			Guidance:    "The seller is best positioned to absorb transaction risk. A guarantee converts fence-sitters at almost no real cost.",
			Action:      "Offer a money-back guarantee or equivalent and state it next to the buy button.",
		}, 15)
	}

	b.score("Barriers to Purchase", sig.BarriersScore)
	if sig.BarriersScore < 70 {
		b.fail(Issue{
			Severity:    SeverityMedium,
			Principle:   "Barriers to Purchase",
			Title:       "Too much friction in the path to purchase",
			Description: "Required accounts, quote requests, or gated pricing stand between the prospect and the sale.",
			Guidance:    "Every extra step loses buyers. Remove every barrier that is not legally or operationally required.",
			Action:      "Walk the purchase path as a stranger and delete every unnecessary step.",
		}, 15)
	}

	return b.result()
}
