package scoring

import "github.com/commercecopilot/atomic-analyzer/internal/signals"

// RuleSet evaluates one department against collected signals
type RuleSet interface {
	Department() Department
	Evaluate(sig *signals.Signals) DepartmentResult
}

// ruleSets is the closed lookup table over the five departments
var ruleSets = map[Department]RuleSet{
	DepartmentDevelopment: developmentRules{},
	DepartmentMarketing:   marketingRules{},
	DepartmentSales:       salesRules{},
	DepartmentDelivery:    deliveryRules{},
	DepartmentAccounting:  accountingRules{},
}

// resultBuilder accumulates principle scores, issues and penalties for
// a department evaluation. The department score is 100 minus the total
// penalty, floored at zero.
type resultBuilder struct {
	dept    Department
	penalty int
	scores  []PrincipleScore
	issues  []Issue
}

func newResultBuilder(dept Department) *resultBuilder {
	return &resultBuilder{dept: dept}
}

func (b *resultBuilder) score(principle string, score int) {
	b.scores = append(b.scores, PrincipleScore{Principle: principle, Score: score})
}

func (b *resultBuilder) fail(issue Issue, penalty int) {
	b.issues = append(b.issues, issue)
	b.penalty += penalty
}

func (b *resultBuilder) result() DepartmentResult {
	score := 100 - b.penalty
	if score < 0 {
		score = 0
	}
	return DepartmentResult{
		Department:      b.dept,
		Score:           score,
		PrincipleScores: b.scores,
		Issues:          b.issues,
	}
}

func boolScore(ok bool, pass, fail int) int {
	if ok {
		return pass
	}
	return fail
}

func capAt(v, max int) int {
	if v > max {
		return max
	}
	return v
}
