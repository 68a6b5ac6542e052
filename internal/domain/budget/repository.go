package budget

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EIRepository defines the interface for expenditure item persistence
type EIRepository interface {
	// FindByCpID returns nil, nil when no item exists for cpID
	FindByCpID(ctx context.Context, cpID string) (*EIRecord, error)

	// Save creates or replaces the item row
	Save(ctx context.Context, record *EIRecord) error
}

// ErrDuplicateOcID is returned by FSRepository.Create when the ocid is taken
var ErrDuplicateOcID = errors.New("financial source ocid already exists")

// FSRepository defines the interface for financial source persistence
type FSRepository interface {
	// FindByCpIDAndToken returns nil, nil when no source matches
	FindByCpIDAndToken(ctx context.Context, cpID string, token uuid.UUID) (*FSRecord, error)

	// Create inserts a new source row. It never overwrites an existing
	// source and returns ErrDuplicateOcID when (cpID, ocID) is taken.
	Create(ctx context.Context, record *FSRecord) error

	// Update rewrites the stored source and amount columns of an existing
	// row. Returns ErrFSNotFound when no row matches (cpID, ocID).
	Update(ctx context.Context, record *FSRecord) error

	// TotalAmountByCpID sums amounts of every source under cpID.
	// A nil result means there are no rows and counts as zero.
	TotalAmountByCpID(ctx context.Context, cpID string) (*decimal.Decimal, error)
}

// RulesRepository reads country specific budget parameters
type RulesRepository interface {
	// GetValue returns ErrRuleNotFound when no rule is configured
	GetValue(ctx context.Context, country, parameter string) (string, error)
}

// RuleCache caches rule values between lookups
type RuleCache interface {
	Get(ctx context.Context, country, parameter string) (string, bool, error)
	Set(ctx context.Context, country, parameter, value string, ttl time.Duration) error
}

// Generator issues update tokens and ocid ordinals
type Generator interface {
	NewToken() uuid.UUID
	// NowOrdinal returns the current time in epoch milliseconds, strictly
	// increasing across calls
	NowOrdinal() int64
}
