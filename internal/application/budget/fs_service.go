package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/procurement/budget/internal/domain/budget"
	"github.com/procurement/budget/internal/domain/shared/valueobject"
	"github.com/procurement/budget/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxOcIDAttempts bounds how many ordinals CreateFS draws for one source
const maxOcIDAttempts = 3

// FSService runs the financial source create and update workflow and keeps
// the expenditure item aggregate equal to the sum of its sources.
//
// Requests are sequential store calls without locking. Two concurrent writes
// under one cpId may leave a stale aggregate; the last writer wins.
type FSService struct {
	eiRepo    budget.EIRepository
	fsRepo    budget.FSRepository
	generator budget.Generator
	metrics   Metrics
	logger    *zap.Logger
}

// NewFSService creates a new FSService
func NewFSService(
	eiRepo budget.EIRepository,
	fsRepo budget.FSRepository,
	generator budget.Generator,
	logger *zap.Logger,
) *FSService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FSService{
		eiRepo:    eiRepo,
		fsRepo:    fsRepo,
		generator: generator,
		metrics:   nopMetrics{},
		logger:    logger,
	}
}

// WithMetrics makes the service report workflow outcomes to m
func (s *FSService) WithMetrics(m Metrics) *FSService {
	if m != nil {
		s.metrics = m
	}
	return s
}

// CreateFS creates a financial source under the expenditure item cpID
func (s *FSService) CreateFS(ctx context.Context, cpID, owner string, date time.Time, req CreateFSRequest) (resp *FSResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "fs", "create", telemetry.SpanAttrCpID, cpID)
	defer func() {
		s.metrics.FSOperation(ctx, "create", outcomeOf(err))
		telemetry.RecordError(span, err)
		span.End()
	}()

	budgetReq := req.Planning.Budget
	period := budgetReq.Period.toDomain()
	if err := validateBudget(period, *budgetReq); err != nil {
		return nil, err
	}

	amount, err := budgetReq.Amount.toDomain()
	if err != nil {
		return nil, budget.ErrInvalidCurrency
	}

	eiRecord, err := s.findItem(ctx, cpID)
	if err != nil {
		return nil, err
	}
	if err := checkAgainstItem(eiRecord.Item, period, amount.Currency()); err != nil {
		return nil, err
	}

	var (
		funder       *budget.OrganizationReference
		sourceEntity budget.SourceEntity
		verified     bool
		status       budget.TenderStatus
	)
	if req.Buyer != nil {
		f := req.Buyer.toDomain().WithSchemeID()
		funder = &f
		sourceEntity = f.SourceEntity()
		verified = true
		status = budget.TenderStatusActive
	} else {
		sourceEntity = eiRecord.Item.Buyer.SourceEntity()
		status = budget.TenderStatusPlanning
	}

	var funding *budget.EuropeanUnionFunding
	if budgetReq.euFunded() {
		funding = budgetReq.EuropeanUnionFunding.toDomain()
	}

	fs := budget.FinancialSource{
		Tender: budget.FSTender{
			Status:        status,
			StatusDetails: budget.TenderStatusDetailsEmpty,
		},
		Planning: budget.FSPlanning{
			Rationale: req.Planning.Rationale,
			Budget: budget.FSBudget{
				ID:                    budgetReq.ID,
				Description:           budgetReq.Description,
				Period:                period,
				Amount:                amount,
				IsEuropeanUnionFunded: budgetReq.euFunded(),
				EuropeanUnionFunding:  funding,
				SourceEntity:          sourceEntity,
				Verified:              verified,
				Project:               budgetReq.Project,
				ProjectID:             budgetReq.ProjectID,
				URI:                   budgetReq.URI,
			},
		},
		Funder: funder,
		Payer:  req.Tender.ProcuringEntity.toDomain().WithSchemeID(),
	}

	record := &budget.FSRecord{
		CpID:           cpID,
		Token:          s.generator.NewToken(),
		Owner:          owner,
		CreatedDate:    date,
		Source:         fs,
		Amount:         amount.Amount(),
		AmountReserved: decimal.Zero,
	}
	if err := s.insertSource(ctx, record); err != nil {
		s.logger.Error("Failed to save financial source", zap.String("ocid", record.OcID), zap.Error(err))
		return nil, fmt.Errorf("save financial source: %w", err)
	}
	fs, ocID := record.Source, record.OcID

	total, err := s.totalAmount(ctx, cpID)
	if err != nil {
		return nil, err
	}
	item, err := s.storeTotal(ctx, eiRecord, total, fs.Currency())
	if err != nil {
		return nil, err
	}
	s.metrics.EIRecomputed(ctx, "create", true)

	telemetry.SetAttributes(span, telemetry.SpanAttrOcID, ocID, telemetry.SpanAttrAmount, total.String())
	s.logger.Info("Financial source created",
		zap.String("cp_id", cpID),
		zap.String("ocid", ocID),
		zap.String("status", status.String()),
		zap.String("total", total.String()),
	)

	return &FSResponse{
		EI: item.Projection(),
		FS: fs.WithToken(record.Token),
	}, nil
}

// UpdateFS merges an update into the financial source ocID of cpID.
// The EI projection in the response is nil when the aggregate did not change.
func (s *FSService) UpdateFS(ctx context.Context, cpID, ocID, token, owner string, req UpdateFSRequest) (resp *FSResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "fs", "update",
		telemetry.SpanAttrCpID, cpID,
		telemetry.SpanAttrOcID, ocID,
	)
	defer func() {
		s.metrics.FSOperation(ctx, "update", outcomeOf(err))
		telemetry.RecordError(span, err)
		span.End()
	}()

	budgetReq := req.Planning.Budget
	period := budgetReq.Period.toDomain()
	if err := validateBudget(period, budgetReq.BudgetRequest); err != nil {
		return nil, err
	}

	tokenID, err := uuid.Parse(token)
	if err != nil {
		return nil, budget.ErrFSNotFound
	}
	fsRecord, err := s.fsRepo.FindByCpIDAndToken(ctx, cpID, tokenID)
	if err != nil {
		return nil, fmt.Errorf("find financial source: %w", err)
	}
	if fsRecord == nil {
		return nil, budget.ErrFSNotFound
	}
	if fsRecord.OcID != ocID {
		return nil, budget.ErrInvalidOcID
	}
	if fsRecord.Owner != owner {
		return nil, budget.ErrInvalidOwner
	}

	eiRecord, err := s.findItem(ctx, cpID)
	if err != nil {
		return nil, err
	}
	currency := valueobject.Currency(budgetReq.Amount.Currency).Normalize()
	if err := checkAgainstItem(eiRecord.Item, period, currency); err != nil {
		return nil, err
	}

	updated, err := fsRecord.Source.ApplyUpdate(req.changes())
	if err != nil {
		return nil, err
	}

	next := fsRecord.WithSource(updated)
	if err := s.fsRepo.Update(ctx, &next); err != nil {
		s.logger.Error("Failed to save financial source", zap.String("ocid", ocID), zap.Error(err))
		return nil, fmt.Errorf("save financial source: %w", err)
	}

	total, err := s.totalAmount(ctx, cpID)
	if err != nil {
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrAmount, updated.Planning.Budget.Amount.String())

	resp = &FSResponse{FS: updated}
	if eiRecord.Item.HasTotal(total) {
		s.metrics.EIRecomputed(ctx, "update", false)
		s.logger.Debug("Expenditure item total unchanged", zap.String("cp_id", cpID))
		return resp, nil
	}

	aggregateCurrency := eiRecord.Item.Currency()
	if aggregateCurrency == "" {
		aggregateCurrency = updated.Currency()
	}
	item, err := s.storeTotal(ctx, eiRecord, total, aggregateCurrency)
	if err != nil {
		return nil, err
	}
	resp.EI = item.Projection()
	s.metrics.EIRecomputed(ctx, "update", true)

	s.logger.Info("Financial source updated",
		zap.String("cp_id", cpID),
		zap.String("ocid", ocID),
		zap.String("total", total.String()),
	)
	return resp, nil
}

// insertSource stores record under a freshly drawn ocid. A taken ocid is
// never overwritten; the next ordinal is tried instead.
func (s *FSService) insertSource(ctx context.Context, record *budget.FSRecord) error {
	var err error
	for attempt := 0; attempt < maxOcIDAttempts; attempt++ {
		ocID := budget.NewOcID(record.CpID, s.generator.NowOrdinal())
		record.OcID = ocID
		record.Source = record.Source.WithOcID(ocID)
		if err = s.fsRepo.Create(ctx, record); !errors.Is(err, budget.ErrDuplicateOcID) {
			return err
		}
		s.logger.Warn("Financial source ocid taken, drawing a new one", zap.String("ocid", ocID))
	}
	return err
}

func (s *FSService) findItem(ctx context.Context, cpID string) (*budget.EIRecord, error) {
	record, err := s.eiRepo.FindByCpID(ctx, cpID)
	if err != nil {
		return nil, fmt.Errorf("find expenditure item: %w", err)
	}
	if record == nil {
		return nil, budget.ErrEINotFound
	}
	return record, nil
}

// totalAmount re-derives the aggregate from the store; no rows count as zero
func (s *FSService) totalAmount(ctx context.Context, cpID string) (decimal.Decimal, error) {
	total, err := s.fsRepo.TotalAmountByCpID(ctx, cpID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum financial sources: %w", err)
	}
	if total == nil {
		return decimal.Zero, nil
	}
	return *total, nil
}

func (s *FSService) storeTotal(ctx context.Context, record *budget.EIRecord, total decimal.Decimal, currency valueobject.Currency) (budget.ExpenditureItem, error) {
	amount, err := valueobject.NewMoney(total, currency)
	if err != nil {
		return budget.ExpenditureItem{}, fmt.Errorf("expenditure item amount: %w", err)
	}
	item := record.Item.WithAmount(amount)
	next := record.WithItem(item)
	if err := s.eiRepo.Save(ctx, &next); err != nil {
		s.logger.Error("Failed to save expenditure item", zap.String("cp_id", record.CpID), zap.Error(err))
		return budget.ExpenditureItem{}, fmt.Errorf("save expenditure item: %w", err)
	}
	return item, nil
}

// validateBudget runs the checks that need no stored state
func validateBudget(period valueobject.Period, req BudgetRequest) error {
	if !period.IsValid() {
		return budget.ErrInvalidPeriod
	}
	if req.euFunded() && req.EuropeanUnionFunding == nil {
		return budget.ErrInvalidEuropeanFunding
	}
	return nil
}

// checkAgainstItem validates the source period and currency against the item
func checkAgainstItem(item budget.ExpenditureItem, period valueobject.Period, currency valueobject.Currency) error {
	if !item.Planning.Budget.Period.Contains(period) {
		return budget.ErrInvalidPeriod
	}
	if !item.AcceptsCurrency(currency) {
		return budget.ErrInvalidCurrency
	}
	return nil
}
