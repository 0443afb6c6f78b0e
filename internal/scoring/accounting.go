package scoring

import "github.com/commercecopilot/atomic-analyzer/internal/signals"

// accountingRules covers value capture, revenue sufficiency, margins
// and leverage.
type accountingRules struct{}

func (accountingRules) Department() Department { return DepartmentAccounting }

func (accountingRules) Evaluate(sig *signals.Signals) DepartmentResult {
	b := newResultBuilder(DepartmentAccounting)

	b.score("Value Capture", sig.ValueCaptureScore)
	if sig.ValueCaptureScore < 70 {
		b.fail(Issue{
			Severity:    SeverityHigh,
			Principle:   "Value Capture",
			Title:       "Weak value capture",
			Description: "The business creates value but gives visitors few clear ways to pay for it.",
			Guidance:    "Capture enough of the value you create to keep operating, but not so much that the deal stops being worth taking.",
			Action:      "Make paid offers and the path to paying obvious on every relevant page.",
		}, 20)
	}

	b.score("Sufficiency", capAt(sig.RevenueStreamCount*33, 100))
	if sig.RevenueStreamCount < 2 {
		b.fail(Issue{
			Severity:    SeverityCritical,
			Principle:   "Sufficiency",
			Title:       "Single point of revenue failure",
			Description: "Revenue depends on one stream; one bad quarter there threatens the whole business.",
			Guidance:    "Sufficiency is earning enough to keep going indefinitely. A second stream is the cheapest insurance a business can buy.",
			Action:      "Add a second revenue stream adjacent to the current one.",
		}, 30)
	}

	b.score("Profit Margin", sig.ProfitMarginScore)
	if sig.ProfitMarginScore < 60 {
		b.fail(Issue{
			Severity:    SeverityMedium,
			Principle:   "Profit Margin",
			Title:       "Thin profit margins",
			Description: "The delivery model suggests margins too thin to absorb mistakes or fund growth.",
			Guidance:    "Margin is the buffer that lets a business survive being wrong. Thin margins make every error existential.",
			Action:      "Raise prices, cut delivery cost, or shift mix toward higher-margin offers.",
		}, 15)
	}

	b.score("Leverage", sig.LeverageScore)
	if sig.LeverageScore < 50 {
		b.fail(Issue{
			Severity:    SeverityMedium,
			Principle:   "Leverage",
			Title:       "Low leverage",
			Description: "Revenue scales linearly with effort; nothing compounds.",
			Guidance:    "Leverage is doing the work once and selling it many times. Without it, growth always costs proportional effort.",
			Action:      "Turn one recurring manual deliverable into a template, product, or automation.",
		}, 15)
	}

	return b.result()
}
