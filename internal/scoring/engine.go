package scoring

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/commercecopilot/atomic-analyzer/internal/signals"
)

// Engine evaluates departments against signals. Evaluation is pure and
// deterministic; the engine only adds orchestration and logging.
type Engine struct {
	logger   *slog.Logger
	parallel bool
}

// NewEngine creates a scoring engine
func NewEngine(logger *slog.Logger, parallel bool) *Engine {
	return &Engine{logger: logger, parallel: parallel}
}

// EvaluateDepartment scores a single department. An unknown department
// yields an empty result, not an error.
func (e *Engine) EvaluateDepartment(dept Department, sig *signals.Signals, businessType string) DepartmentResult {
	rules, ok := ruleSets[dept]
	if !ok {
		e.logger.Warn("Unknown department requested", "department", string(dept))
		return DepartmentResult{Department: dept}
	}

	result := rules.Evaluate(sig)
	result.Opportunities = OpportunitiesFor(dept, businessType)

	e.logger.Debug("Department evaluated",
		"department", string(dept),
		"score", result.Score,
		"issues", len(result.Issues))
	return result
}

// EvaluateAll scores every department. Departments are independent, so
// parallel evaluation cannot change results.
func (e *Engine) EvaluateAll(ctx context.Context, sig *signals.Signals, businessType string) map[Department]DepartmentResult {
	results := make(map[Department]DepartmentResult, len(DepartmentOrder))

	if !e.parallel {
		for _, dept := range DepartmentOrder {
			results[dept] = e.EvaluateDepartment(dept, sig, businessType)
		}
		return results
	}

	var mu sync.Mutex
	g, _ := errgroup.WithContext(ctx)
	for _, dept := range DepartmentOrder {
		dept := dept
		g.Go(func() error {
			result := e.EvaluateDepartment(dept, sig, businessType)
			mu.Lock()
			results[dept] = result
			mu.Unlock()
			return nil
		})
	}
	// Evaluators never return errors
	_ = g.Wait()

	return results
}
