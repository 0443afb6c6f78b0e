package scoring

import "github.com/commercecopilot/atomic-analyzer/internal/signals"

// developmentRules covers value creation: is the offer clear, does it
// touch enough economic values, and does the business ship and test
// fast enough.
type developmentRules struct{}

func (developmentRules) Department() Department { return DepartmentDevelopment }

func (developmentRules) Evaluate(sig *signals.Signals) DepartmentResult {
	b := newResultBuilder(DepartmentDevelopment)

	b.score("Value Creation", boolScore(sig.ValueCreationClear, 85, 45))
	if !sig.ValueCreationClear {
		b.fail(Issue{
			Severity:    SeverityCritical,
			Principle:   "Value Creation",
			Title:       "Unclear value proposition",
			Description: "Visitors cannot quickly tell what problem this business solves or for whom.",
			Guidance:    "Every business must create value for someone. If the value created is not obvious, nothing downstream works.",
			Action:      "Rewrite the headline and first screen to name the customer, the problem, and the outcome.",
		}, 30)
	}

	b.score("Economic Values", capAt(sig.EconomicValueCount*11, 100))
	if sig.EconomicValueCount < 3 {
		b.fail(Issue{
			Severity:    SeverityHigh,
			Principle:   "Economic Values",
			Title:       "Too few economic values addressed",
			Description: "The offer speaks to fewer than three of the nine economic values customers buy on.",
			Guidance:    "Customers weigh efficiency, reliability, ease, flexibility, status, aesthetics, emotion, and cost. Competing on one dimension is fragile.",
			Action:      "Audit the offer against the nine economic values and make at least three of them explicit on the page.",
		}, 20)
	}

	velocity := 100 - sig.DaysSinceLastUpdate*2
	if velocity < 0 {
		velocity = 0
	}
	b.score("Iteration Velocity", velocity)
	if sig.DaysSinceLastUpdate > 30 {
		b.fail(Issue{
			Severity:    SeverityMedium,
			Principle:   "Iteration Velocity",
			Title:       "Slow iteration velocity",
			Description: "No visible updates in over a month suggests the feedback loop has stalled.",
			Guidance:    "Iteration velocity compounds. The faster you cycle through build, measure, learn, the faster value creation improves.",
			Action:      "Ship one visible improvement per week, even a small one.",
		}, 15)
	}

	b.score("Prototype", boolScore(sig.HasPrototype, 75, 25))
	if !sig.HasPrototype {
		b.fail(Issue{
			Severity:    SeverityMedium,
			Principle:   "Prototype",
			Title:       "No way to try before buying",
			Description: "There is no demo, trial, or sample that lets prospects experience the offer cheaply.",
			Guidance:    "A prototype lets the market correct your assumptions before you over-invest in the wrong thing.",
			Action:      "Add a free trial, demo, sample, or low-cost starter version of the offer.",
		}, 10)
	}

	return b.result()
}
