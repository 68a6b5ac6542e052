package budget

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/procurement/budget/internal/domain/budget"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockEIRepository is a mock implementation of budget.EIRepository
type MockEIRepository struct {
	mock.Mock
}

func (m *MockEIRepository) FindByCpID(ctx context.Context, cpID string) (*budget.EIRecord, error) {
	args := m.Called(ctx, cpID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.EIRecord), args.Error(1)
}

func (m *MockEIRepository) Save(ctx context.Context, record *budget.EIRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockFSRepository is a mock implementation of budget.FSRepository
type MockFSRepository struct {
	mock.Mock
}

func (m *MockFSRepository) FindByCpIDAndToken(ctx context.Context, cpID string, token uuid.UUID) (*budget.FSRecord, error) {
	args := m.Called(ctx, cpID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.FSRecord), args.Error(1)
}

func (m *MockFSRepository) Create(ctx context.Context, record *budget.FSRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockFSRepository) Update(ctx context.Context, record *budget.FSRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockFSRepository) TotalAmountByCpID(ctx context.Context, cpID string) (*decimal.Decimal, error) {
	args := m.Called(ctx, cpID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*decimal.Decimal), args.Error(1)
}

// MockRulesRepository is a mock implementation of budget.RulesRepository
type MockRulesRepository struct {
	mock.Mock
}

func (m *MockRulesRepository) GetValue(ctx context.Context, country, parameter string) (string, error) {
	args := m.Called(ctx, country, parameter)
	return args.String(0), args.Error(1)
}

// MockRuleCache is a mock implementation of budget.RuleCache
type MockRuleCache struct {
	mock.Mock
}

func (m *MockRuleCache) Get(ctx context.Context, country, parameter string) (string, bool, error) {
	args := m.Called(ctx, country, parameter)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockRuleCache) Set(ctx context.Context, country, parameter, value string, ttl time.Duration) error {
	args := m.Called(ctx, country, parameter, value, ttl)
	return args.Error(0)
}

// =============================================================================
// In-memory stores
// =============================================================================

type memoryEIRepository struct {
	items map[string]budget.EIRecord
	saves int
}

func newMemoryEIRepository(records ...budget.EIRecord) *memoryEIRepository {
	r := &memoryEIRepository{items: make(map[string]budget.EIRecord)}
	for _, rec := range records {
		r.items[rec.CpID] = rec
	}
	return r
}

func (r *memoryEIRepository) FindByCpID(_ context.Context, cpID string) (*budget.EIRecord, error) {
	rec, ok := r.items[cpID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *memoryEIRepository) Save(_ context.Context, record *budget.EIRecord) error {
	r.items[record.CpID] = *record
	r.saves++
	return nil
}

type memoryFSRepository struct {
	sources map[string]budget.FSRecord
	// beforeUpdate runs once, ahead of the next Update, to interleave another writer
	beforeUpdate func()
}

func newMemoryFSRepository() *memoryFSRepository {
	return &memoryFSRepository{sources: make(map[string]budget.FSRecord)}
}

func (r *memoryFSRepository) FindByCpIDAndToken(_ context.Context, cpID string, token uuid.UUID) (*budget.FSRecord, error) {
	for _, rec := range r.sources {
		if rec.CpID == cpID && rec.Token == token {
			found := rec
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memoryFSRepository) Create(_ context.Context, record *budget.FSRecord) error {
	if _, ok := r.sources[record.OcID]; ok {
		return budget.ErrDuplicateOcID
	}
	r.sources[record.OcID] = *record
	return nil
}

func (r *memoryFSRepository) Update(_ context.Context, record *budget.FSRecord) error {
	if hook := r.beforeUpdate; hook != nil {
		r.beforeUpdate = nil
		hook()
	}
	if _, ok := r.sources[record.OcID]; !ok {
		return budget.ErrFSNotFound
	}
	r.sources[record.OcID] = *record
	return nil
}

func (r *memoryFSRepository) TotalAmountByCpID(_ context.Context, cpID string) (*decimal.Decimal, error) {
	var (
		total decimal.Decimal
		found bool
	)
	for _, rec := range r.sources {
		if rec.CpID == cpID {
			total = total.Add(rec.Amount)
			found = true
		}
	}
	if !found {
		return nil, nil
	}
	return &total, nil
}

func (r *memoryFSRepository) ocIDs() []string {
	ids := make([]string, 0, len(r.sources))
	for id := range r.sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// sequenceGenerator hands out predictable tokens and ordinals
type sequenceGenerator struct {
	ordinal int64
	tokens  []uuid.UUID
	next    int
}

func newSequenceGenerator(tokens ...string) *sequenceGenerator {
	g := &sequenceGenerator{ordinal: 1526570698032}
	for _, t := range tokens {
		g.tokens = append(g.tokens, uuid.MustParse(t))
	}
	return g
}

func (g *sequenceGenerator) NewToken() uuid.UUID {
	if g.next < len(g.tokens) {
		t := g.tokens[g.next]
		g.next++
		return t
	}
	return uuid.New()
}

func (g *sequenceGenerator) NowOrdinal() int64 {
	g.ordinal++
	return g.ordinal
}
