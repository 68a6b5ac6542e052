package persistence_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	appbudget "github.com/procurement/budget/internal/application/budget"
	"github.com/procurement/budget/internal/domain/budget"
	"github.com/procurement/budget/internal/domain/shared/valueobject"
	"github.com/procurement/budget/internal/infrastructure/config"
	"github.com/procurement/budget/internal/infrastructure/generation"
	"github.com/procurement/budget/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const workflowCpID = "ocds-t1s2t3-MD-1565251033096"

func newSQLiteDatabase(t *testing.T) *persistence.Database {
	t.Helper()
	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedItem(t *testing.T, repo *persistence.GormEIRepository) {
	t.Helper()
	err := repo.Save(context.Background(), &budget.EIRecord{
		CpID:        workflowCpID,
		Owner:       "owner-1",
		CreatedDate: time.Date(2019, 8, 8, 8, 0, 0, 0, time.UTC),
		Item: budget.ExpenditureItem{
			OcID:   workflowCpID,
			Tender: budget.EITender{ID: "tender-1", Status: budget.TenderStatusPlanning, StatusDetails: budget.TenderStatusDetailsEmpty},
			Planning: budget.EIPlanning{
				Budget: budget.EIBudget{
					ID: "budget-1",
					Period: valueobject.NewPeriod(
						valueobject.MustDateTime("2020-01-01T00:00:00Z"),
						valueobject.MustDateTime("2020-12-31T00:00:00Z"),
					),
				},
			},
			Buyer: budget.OrganizationReference{
				ID:         "MD-IDNO-1007600023016",
				Name:       "City Hall",
				Identifier: budget.Identifier{Scheme: "MD-IDNO", ID: "1007600023016"},
			},
		},
	})
	require.NoError(t, err)
}

func budgetJSON(amount string) string {
	return fmt.Sprintf(`{
		"id": "budget-id",
		"period": {"startDate": "2020-02-01T00:00:00Z", "endDate": "2020-06-30T00:00:00Z"},
		"amount": {"amount": %s, "currency": "USD"},
		"isEuropeanUnionFunded": false`, amount)
}

func createPayload(t *testing.T, amount int) appbudget.CreateFSRequest {
	t.Helper()
	return createPayloadAmount(t, strconv.Itoa(amount))
}

func createPayloadAmount(t *testing.T, amount string) appbudget.CreateFSRequest {
	t.Helper()
	body := `{
		"planning": {"rationale": "road", "budget": ` + budgetJSON(amount) + `}},
		"tender": {"procuringEntity": {
			"name": "Procuring Entity",
			"identifier": {"scheme": "MD-IDNO", "id": "555"},
			"address": {"streetAddress": "Main 1"},
			"contactPoint": {"name": "Clerk"}
		}}
	}`
	var req appbudget.CreateFSRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func updatePayload(t *testing.T, amount int) appbudget.UpdateFSRequest {
	t.Helper()
	body := `{"planning": {"rationale": "road", "budget": ` + budgetJSON(strconv.Itoa(amount)) + `,
		"sourceEntity": {"id": "x", "name": "y"},
		"verified": true
	}}}`
	var req appbudget.UpdateFSRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func mustToken(t *testing.T, s string) uuid.UUID {
	t.Helper()
	token, err := uuid.Parse(s)
	require.NoError(t, err)
	return token
}

func itemAmount(t *testing.T, repo *persistence.GormEIRepository) *valueobject.Money {
	t.Helper()
	record, err := repo.FindByCpID(context.Background(), workflowCpID)
	require.NoError(t, err)
	require.NotNil(t, record)
	return record.Item.Planning.Budget.Amount
}

func TestWorkflow_SQLite(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDatabase(t)
	eiRepo := persistence.NewGormEIRepository(db.DB)
	fsRepo := persistence.NewGormFSRepository(db.DB)
	seedItem(t, eiRepo)

	service := appbudget.NewFSService(eiRepo, fsRepo, generation.NewService(), nil)
	now := time.Date(2020, 1, 15, 10, 0, 0, 0, time.UTC)

	first, err := service.CreateFS(ctx, workflowCpID, "owner-1", now, createPayload(t, 1000))
	require.NoError(t, err)
	amount := itemAmount(t, eiRepo)
	require.NotNil(t, amount)
	assert.True(t, amount.Amount().Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, valueobject.USD, amount.Currency())

	second, err := service.CreateFS(ctx, workflowCpID, "owner-1", now, createPayload(t, 500))
	require.NoError(t, err)
	assert.NotEqual(t, first.FS.OcID, second.FS.OcID)
	assert.True(t, itemAmount(t, eiRepo).Amount().Equal(decimal.NewFromInt(1500)))

	updated, err := service.UpdateFS(ctx, workflowCpID, first.FS.OcID, first.FS.Token, "owner-1", updatePayload(t, 1200))
	require.NoError(t, err)
	require.NotNil(t, updated.EI)
	assert.True(t, itemAmount(t, eiRepo).Amount().Equal(decimal.NewFromInt(1700)))

	again, err := service.UpdateFS(ctx, workflowCpID, first.FS.OcID, first.FS.Token, "owner-1", updatePayload(t, 1200))
	require.NoError(t, err)
	assert.Nil(t, again.EI)

	stored, err := fsRepo.FindByCpIDAndToken(ctx, workflowCpID, mustToken(t, first.FS.Token))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(1200)))
	assert.Empty(t, stored.Source.Token)

	total, err := fsRepo.TotalAmountByCpID(ctx, workflowCpID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(1700)))
}

func TestWorkflow_SQLite_BackToBackCreates(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDatabase(t)
	eiRepo := persistence.NewGormEIRepository(db.DB)
	fsRepo := persistence.NewGormFSRepository(db.DB)
	seedItem(t, eiRepo)
	service := appbudget.NewFSService(eiRepo, fsRepo, generation.NewService(), nil)

	const n = 50
	ocIDs := make(map[string]struct{}, n)
	want := decimal.Zero
	for i := 1; i <= n; i++ {
		resp, err := service.CreateFS(ctx, workflowCpID, "owner-1", time.Now(), createPayload(t, i))
		require.NoError(t, err)
		ocIDs[resp.FS.OcID] = struct{}{}
		want = want.Add(decimal.NewFromInt(int64(i)))
	}

	assert.Len(t, ocIDs, n)
	total, err := fsRepo.TotalAmountByCpID(ctx, workflowCpID)
	require.NoError(t, err)
	assert.True(t, total.Equal(want), "got %s", total)
	assert.True(t, itemAmount(t, eiRepo).Amount().Equal(want))
}

func TestGormFSRepository_SQLite_CreateKeepsExistingRow(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDatabase(t)
	fsRepo := persistence.NewGormFSRepository(db.DB)

	ocID := budget.NewOcID(workflowCpID, 1526570698032)
	original := sourceRecord(ocID, "1000")
	require.NoError(t, fsRepo.Create(ctx, &original))

	clash := sourceRecord(ocID, "5")
	err := fsRepo.Create(ctx, &clash)
	assert.ErrorIs(t, err, budget.ErrDuplicateOcID)

	stored, err := fsRepo.FindByCpIDAndToken(ctx, workflowCpID, original.Token)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(1000)))

	gone, err := fsRepo.FindByCpIDAndToken(ctx, workflowCpID, clash.Token)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestGormFSRepository_SQLite_UpdateMissingRow(t *testing.T) {
	db := newSQLiteDatabase(t)
	fsRepo := persistence.NewGormFSRepository(db.DB)

	record := sourceRecord(budget.NewOcID(workflowCpID, 1526570698032), "1000")
	err := fsRepo.Update(context.Background(), &record)

	assert.ErrorIs(t, err, budget.ErrFSNotFound)
}

func TestWorkflow_SQLite_KeepsSubCentAmounts(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDatabase(t)
	eiRepo := persistence.NewGormEIRepository(db.DB)
	fsRepo := persistence.NewGormFSRepository(db.DB)
	seedItem(t, eiRepo)
	service := appbudget.NewFSService(eiRepo, fsRepo, generation.NewService(), nil)

	_, err := service.CreateFS(ctx, workflowCpID, "owner-1", time.Now(), createPayloadAmount(t, "100.005"))
	require.NoError(t, err)

	want := decimal.RequireFromString("100.005")
	total, err := fsRepo.TotalAmountByCpID(ctx, workflowCpID)
	require.NoError(t, err)
	assert.True(t, total.Equal(want), "got %s", total)
	assert.True(t, itemAmount(t, eiRepo).Amount().Equal(want))
}

func sourceRecord(ocID, amount string) budget.FSRecord {
	record := budget.FSRecord{CpID: workflowCpID, OcID: ocID, Token: uuid.New(), Owner: "owner-1", CreatedDate: time.Now()}
	return record.WithSource(budget.FinancialSource{
		OcID:   ocID,
		Tender: budget.FSTender{ID: ocID, Status: budget.TenderStatusPlanning, StatusDetails: budget.TenderStatusDetailsEmpty},
		Planning: budget.FSPlanning{
			Budget: budget.FSBudget{ID: "budget-1", Amount: valueobject.MustMoney(amount, valueobject.USD)},
		},
	})
}

func TestWorkflow_SQLite_Rejections(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDatabase(t)
	eiRepo := persistence.NewGormEIRepository(db.DB)
	fsRepo := persistence.NewGormFSRepository(db.DB)
	seedItem(t, eiRepo)
	service := appbudget.NewFSService(eiRepo, fsRepo, generation.NewService(), nil)

	created, err := service.CreateFS(ctx, workflowCpID, "owner-1", time.Now(), createPayload(t, 1000))
	require.NoError(t, err)

	_, err = service.UpdateFS(ctx, workflowCpID, created.FS.OcID, created.FS.Token, "someone-else", updatePayload(t, 10))
	assert.ErrorIs(t, err, budget.ErrInvalidOwner)

	_, err = service.UpdateFS(ctx, workflowCpID, created.FS.OcID, "3f0c2a52-8d6b-4d4e-9d1e-1a2b3c4d5e6f", "owner-1", updatePayload(t, 10))
	assert.ErrorIs(t, err, budget.ErrFSNotFound)

	_, err = service.CreateFS(ctx, "ocds-unknown", "owner-1", time.Now(), createPayload(t, 1000))
	assert.ErrorIs(t, err, budget.ErrEINotFound)

	total, err := fsRepo.TotalAmountByCpID(ctx, "ocds-unknown")
	require.NoError(t, err)
	assert.Nil(t, total)
}

func TestRulesRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDatabase(t)
	repo := persistence.NewGormRulesRepository(db.DB)

	require.NoError(t, repo.Save(ctx, budget.Rule{Country: "MD", Parameter: "currency", Value: "MDL"}))
	require.NoError(t, repo.Save(ctx, budget.Rule{Country: "MD", Parameter: "currency", Value: "EUR"}))

	value, err := repo.GetValue(ctx, "MD", "currency")
	require.NoError(t, err)
	assert.Equal(t, "EUR", value)

	_, err = repo.GetValue(ctx, "RO", "currency")
	assert.ErrorIs(t, err, budget.ErrRuleNotFound)
}

func TestDatabase_PingAndTransaction(t *testing.T) {
	db := newSQLiteDatabase(t)
	ctx := context.Background()

	require.NoError(t, db.Ping(ctx))

	err := db.Transaction(ctx, func(tx *gorm.DB) error {
		return persistence.NewGormRulesRepository(tx).Save(ctx, budget.Rule{Country: "MD", Parameter: "p", Value: "v"})
	})
	require.NoError(t, err)

	value, err := persistence.NewGormRulesRepository(db.DB).GetValue(ctx, "MD", "p")
	require.NoError(t, err)
	assert.Equal(t, "v", value)
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	_, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "oracle"}, nil)
	assert.Error(t, err)
}
