package budget

import (
	"context"

	"github.com/procurement/budget/internal/domain/shared"
)

// Metrics receives workflow outcomes. telemetry.BudgetMetrics implements it.
type Metrics interface {
	FSOperation(ctx context.Context, operation, outcome string)
	EIRecomputed(ctx context.Context, operation string, changed bool)
	RuleLookup(ctx context.Context, cacheHit bool)
}

type nopMetrics struct{}

func (nopMetrics) FSOperation(context.Context, string, string) {}

func (nopMetrics) EIRecomputed(context.Context, string, bool) {}

func (nopMetrics) RuleLookup(context.Context, bool) {}

// outcomeOf labels err by its error kind; store failures are "error"
func outcomeOf(err error) string {
	if err == nil {
		return "success"
	}
	if domainErr, ok := shared.AsDomainError(err); ok {
		return domainErr.Code
	}
	return "error"
}
