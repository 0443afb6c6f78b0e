package scoring

import "github.com/commercecopilot/atomic-analyzer/internal/signals"

// deliveryRules covers documented systems, expectation setting,
// scalability and the value stream.
type deliveryRules struct{}

func (deliveryRules) Department() Department { return DepartmentDelivery }

func (deliveryRules) Evaluate(sig *signals.Signals) DepartmentResult {
	b := newResultBuilder(DepartmentDelivery)

	b.score("Systems", boolScore(sig.HasDocumentedSystems, 75, 25))
	if !sig.HasDocumentedSystems {
		b.fail(Issue{
			Severity:    SeverityHigh,
			Principle:   "Systems",
			Title:       "No documented delivery systems",
			Description: "There is no FAQ, documentation, or help content describing how delivery works.",
			Guidance:    "A business that depends on heroics instead of systems cannot deliver consistently or grow past its founder.",
			Action:      "Document the delivery process as an FAQ or help section, then keep it current.",
		}, 25)
	}

	b.score("Expectation Effect", sig.ExpectationScore)
	if sig.ExpectationScore < 70 {
		b.fail(Issue{
			Severity:    SeverityMedium,
			Principle:   "Expectation Effect",
			Title:       "Customer expectations left unset",
			Description: "Buyers are not told what happens after purchase or how long things take.",
			Guidance:    "Satisfaction is performance minus expectation. Unset expectations default to unrealistic ones.",
			Action:      "Publish what happens after purchase: steps, timelines, and what the customer must do.",
		}, 15)
	}

	b.score("Scalability", sig.ScalabilityScore)
	if sig.ScalabilityScore < 60 {
		b.fail(Issue{
			Severity:    SeverityMedium,
			Principle:   "Scalability",
			Title:       "Delivery does not scale",
			Description: "Delivery appears fully manual, with no automation or self-service component.",
			Guidance:    "Duplication and multiplication are what let value delivery grow faster than headcount.",
			Action:      "Automate or productize at least one manual step of delivery.",
		}, 20)
	}

	b.score("Value Stream", sig.ValueStreamScore)
	if sig.ValueStreamScore < 70 {
		b.fail(Issue{
			Severity:    SeverityMedium,
			Principle:   "Value Stream",
			Title:       "Opaque value stream",
			Description: "The path from order to delivered value is not visible or measured.",
			Guidance:    "You cannot shorten a value stream you have never mapped. Every step is a place value can leak.",
			Action:      "Map every step from order to delivery and cut the ones that add no value.",
		}, 15)
	}

	return b.result()
}
