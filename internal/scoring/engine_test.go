package scoring

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercecopilot/atomic-analyzer/internal/signals"
)

func healthySignals() *signals.Signals {
	return &signals.Signals{
		ValueCreationClear:  true,
		EconomicValueCount:  10,
		DaysSinceLastUpdate: 0,
		HasPrototype:        true,

		SEOScore:         100,
		ContentFrequency: 4,
		HasEmailCapture:  true,
		SocialProofScore: 100,

		TrustScore:         100,
		PricingTransparent: true,
		CallToActionScore:  100,
		HasRiskReversal:    true,
		BarriersScore:      100,

		HasDocumentedSystems: true,
		ExpectationScore:     100,
		ScalabilityScore:     100,
		ValueStreamScore:     100,

		ValueCaptureScore:  100,
		RevenueStreamCount: 4,
		ProfitMarginScore:  100,
		LeverageScore:      100,
	}
}

func failingSignals() *signals.Signals {
	return &signals.Signals{DaysSinceLastUpdate: 60}
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(slog.Default(), false)
}

func TestEvaluateDepartment(t *testing.T) {
	engine := testEngine(t)

	t.Run("healthy signals produce no issues", func(t *testing.T) {
		for _, dept := range DepartmentOrder {
			result := engine.EvaluateDepartment(dept, healthySignals(), "other")
			assert.Equal(t, 100, result.Score, "department %s", dept)
			assert.Empty(t, result.Issues, "department %s", dept)
			assert.NotEmpty(t, result.PrincipleScores, "department %s", dept)
		}
	})

	t.Run("failing signals apply the fixed penalties", func(t *testing.T) {
		expected := map[Department]int{
			DepartmentDevelopment: 25, // 100 - 30 - 20 - 15 - 10
			DepartmentMarketing:   10, // 100 - 25 - 20 - 30 - 15
			DepartmentSales:       0,  // 100 - 30 - 20 - 20 - 15 - 15
			DepartmentDelivery:    25, // 100 - 25 - 15 - 20 - 15
			DepartmentAccounting:  20, // 100 - 20 - 30 - 15 - 15
		}
		for dept, want := range expected {
			result := engine.EvaluateDepartment(dept, failingSignals(), "other")
			assert.Equal(t, want, result.Score, "department %s", dept)
		}
	})

	t.Run("score never goes below zero", func(t *testing.T) {
		result := engine.EvaluateDepartment(DepartmentSales, failingSignals(), "other")
		assert.Equal(t, 0, result.Score)
		assert.Len(t, result.Issues, 5)
	})

	t.Run("unknown department yields empty result", func(t *testing.T) {
		result := engine.EvaluateDepartment(Department("logistics"), healthySignals(), "other")
		assert.Equal(t, 0, result.Score)
		assert.Empty(t, result.Issues)
		assert.Empty(t, result.PrincipleScores)
	})

	t.Run("evaluation is deterministic", func(t *testing.T) {
		first := engine.EvaluateDepartment(DepartmentMarketing, failingSignals(), "saas")
		second := engine.EvaluateDepartment(DepartmentMarketing, failingSignals(), "saas")
		assert.Equal(t, first, second)
	})

	t.Run("business type adds opportunities", func(t *testing.T) {
		base := engine.EvaluateDepartment(DepartmentSales, healthySignals(), "other")
		saas := engine.EvaluateDepartment(DepartmentSales, healthySignals(), "saas")
		assert.Len(t, saas.Opportunities, len(base.Opportunities)+1)
	})
}

func TestEvaluateAll(t *testing.T) {
	t.Run("covers all five departments", func(t *testing.T) {
		engine := testEngine(t)
		results := engine.EvaluateAll(context.Background(), healthySignals(), "other")
		require.Len(t, results, 5)
		for _, dept := range DepartmentOrder {
			assert.Contains(t, results, dept)
		}
	})

	t.Run("parallel and serial agree", func(t *testing.T) {
		serial := NewEngine(slog.Default(), false).EvaluateAll(context.Background(), failingSignals(), "ecommerce")
		parallel := NewEngine(slog.Default(), true).EvaluateAll(context.Background(), failingSignals(), "ecommerce")
		assert.Equal(t, serial, parallel)
	})
}

func TestAggregate(t *testing.T) {
	engine := testEngine(t)

	t.Run("overall is the rounded mean of department scores", func(t *testing.T) {
		results := engine.EvaluateAll(context.Background(), failingSignals(), "other")
		overall, _, _ := Aggregate(results)
		// (25 + 10 + 0 + 25 + 20) / 5 = 16
		assert.Equal(t, 16, overall)
	})

	t.Run("healthy business scores 100 overall", func(t *testing.T) {
		results := engine.EvaluateAll(context.Background(), healthySignals(), "other")
		overall, alignment, recs := Aggregate(results)
		assert.Equal(t, 100, overall)
		assert.Equal(t, 95, alignment) // 1990 principle points over 21 checks
		assert.Empty(t, recs)
	})

	t.Run("alignment is zero without principle scores", func(t *testing.T) {
		_, alignment, _ := Aggregate(map[Department]DepartmentResult{})
		assert.Equal(t, 0, alignment)
	})

	t.Run("criticals come before highs in department order", func(t *testing.T) {
		results := engine.EvaluateAll(context.Background(), failingSignals(), "other")
		_, _, recs := Aggregate(results)
		require.Len(t, recs, 5)

		// Criticals: development, marketing, sales, accounting
		assert.Equal(t, SeverityCritical, recs[0].Severity)
		assert.Equal(t, DepartmentDevelopment, recs[0].Department)
		assert.Equal(t, DepartmentMarketing, recs[1].Department)
		assert.Equal(t, DepartmentSales, recs[2].Department)
		assert.Equal(t, DepartmentAccounting, recs[3].Department)

		// Fifth slot falls to the first high issue
		assert.Equal(t, SeverityHigh, recs[4].Severity)
		assert.Equal(t, DepartmentDevelopment, recs[4].Department)
	})

	t.Run("recommendations cap at five", func(t *testing.T) {
		results := engine.EvaluateAll(context.Background(), failingSignals(), "other")
		_, _, recs := Aggregate(results)
		assert.LessOrEqual(t, len(recs), 5)
	})

	t.Run("priorities follow severity", func(t *testing.T) {
		assert.Equal(t, 1, SeverityCritical.Priority())
		assert.Equal(t, 2, SeverityHigh.Priority())
		assert.Equal(t, 3, SeverityMedium.Priority())
	})
}
