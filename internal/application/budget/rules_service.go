package budget

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/procurement/budget/internal/domain/budget"
	"github.com/procurement/budget/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// RulesService reads budget rules through a cache
type RulesService struct {
	repo    budget.RulesRepository
	cache   budget.RuleCache
	ttl     time.Duration
	metrics Metrics
	logger  *zap.Logger
}

// NewRulesService creates a new RulesService. A nil cache disables caching.
func NewRulesService(repo budget.RulesRepository, cache budget.RuleCache, ttl time.Duration, logger *zap.Logger) *RulesService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RulesService{
		repo:    repo,
		cache:   cache,
		ttl:     ttl,
		metrics: nopMetrics{},
		logger:  logger,
	}
}

// WithMetrics makes the service report cache hits and misses to m
func (s *RulesService) WithMetrics(m Metrics) *RulesService {
	if m != nil {
		s.metrics = m
	}
	return s
}

// GetRule returns the value configured for country and parameter
func (s *RulesService) GetRule(ctx context.Context, country, parameter string) (resp *RuleResponse, err error) {
	country = strings.TrimSpace(country)
	parameter = strings.TrimSpace(parameter)

	ctx, span := telemetry.StartServiceSpan(ctx, "rules", "get", telemetry.SpanAttrCountry, country)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	if country == "" || parameter == "" {
		return nil, budget.ErrRuleNotFound
	}

	if s.cache != nil {
		value, ok, err := s.cache.Get(ctx, country, parameter)
		if err != nil {
			// A failing cache must not fail the lookup
			s.logger.Warn("Rule cache read failed", zap.String("country", country), zap.String("parameter", parameter), zap.Error(err))
		} else if ok {
			telemetry.SetAttributes(span, telemetry.SpanAttrCacheHit, true)
			s.metrics.RuleLookup(ctx, true)
			return &RuleResponse{Country: country, Parameter: parameter, Value: value}, nil
		}
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrCacheHit, false)
	s.metrics.RuleLookup(ctx, false)
	value, err := s.repo.GetValue(ctx, country, parameter)
	if err != nil {
		if !errors.Is(err, budget.ErrRuleNotFound) {
			s.logger.Error("Failed to read budget rule", zap.String("country", country), zap.String("parameter", parameter), zap.Error(err))
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, country, parameter, value, s.ttl); err != nil {
			s.logger.Warn("Rule cache write failed", zap.String("country", country), zap.String("parameter", parameter), zap.Error(err))
		}
	}

	return &RuleResponse{Country: country, Parameter: parameter, Value: value}, nil
}
