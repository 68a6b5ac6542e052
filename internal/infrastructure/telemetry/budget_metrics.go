package telemetry

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/metric"
)

// Outcome values recorded on budget_fs_operations_total
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// BudgetMetrics counts financial source writes, aggregate recomputations and
// rule lookups.
type BudgetMetrics struct {
	fsOperations *Counter
	eiRecomputed *Counter
	ruleLookups  *Counter
}

// NewBudgetMetrics registers the budget instruments on meter.
func NewBudgetMetrics(meter metric.Meter) (*BudgetMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	fsOperations, err := NewCounter(meter,
		"budget_fs_operations_total",
		"Financial source create and update requests by outcome",
		"{operation}",
	)
	if err != nil {
		return nil, err
	}

	eiRecomputed, err := NewCounter(meter,
		"budget_ei_recomputed_total",
		"Expenditure item aggregate recomputations",
		"{recompute}",
	)
	if err != nil {
		return nil, err
	}

	ruleLookups, err := NewCounter(meter,
		"budget_rule_lookups_total",
		"Budget rule lookups by cache result",
		"{lookup}",
	)
	if err != nil {
		return nil, err
	}

	return &BudgetMetrics{
		fsOperations: fsOperations,
		eiRecomputed: eiRecomputed,
		ruleLookups:  ruleLookups,
	}, nil
}

// FSOperation records one create or update; outcome is OutcomeSuccess, an
// error kind, or OutcomeError.
func (m *BudgetMetrics) FSOperation(ctx context.Context, operation, outcome string) {
	m.fsOperations.Inc(ctx, AttrOperation.String(operation), AttrOutcome.String(outcome))
}

// EIRecomputed records a recomputation of the aggregate and whether the stored
// amount changed.
func (m *BudgetMetrics) EIRecomputed(ctx context.Context, operation string, changed bool) {
	m.eiRecomputed.Inc(ctx, AttrOperation.String(operation), AttrChanged.String(strconv.FormatBool(changed)))
}

// RuleLookup records whether a rule lookup was served from the cache.
func (m *BudgetMetrics) RuleLookup(ctx context.Context, cacheHit bool) {
	result := "miss"
	if cacheHit {
		result = "hit"
	}
	m.ruleLookups.Inc(ctx, AttrCache.String(result))
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBudgetMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
