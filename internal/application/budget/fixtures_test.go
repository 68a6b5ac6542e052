package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/procurement/budget/internal/domain/budget"
	"github.com/procurement/budget/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

const (
	testCpID   = "ocds-t1s2t3-MD-1526570694407"
	testOwner  = "owner-1"
	testToken1 = "90d6581a-c710-4f08-936d-e13fecd8c560"
	testToken2 = "3f0c2a52-8d6b-4d4e-9d1e-1a2b3c4d5e6f"
)

var testDate = time.Date(2020, 1, 15, 10, 0, 0, 0, time.UTC)

func boolPtr(b bool) *bool { return &b }

func dateTimePtr(s string) *valueobject.DateTime {
	d := valueobject.MustDateTime(s)
	return &d
}

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func testItemRecord(amount *valueobject.Money) budget.EIRecord {
	item := budget.ExpenditureItem{
		OcID: testCpID,
		Tender: budget.EITender{
			ID:            "tender-1",
			Title:         "Road repair",
			Status:        budget.TenderStatusPlanning,
			StatusDetails: budget.TenderStatusDetailsEmpty,
		},
		Planning: budget.EIPlanning{
			Rationale: "repairs",
			Budget: budget.EIBudget{
				ID: "budget-1",
				Period: valueobject.NewPeriod(
					valueobject.MustDateTime("2020-01-01T00:00:00Z"),
					valueobject.MustDateTime("2020-12-31T00:00:00Z"),
				),
				Amount: amount,
			},
		},
		Buyer: budget.OrganizationReference{
			ID:         "MD-IDNO-1007600023016",
			Name:       "City Hall",
			Identifier: budget.Identifier{Scheme: "MD-IDNO", ID: "1007600023016"},
		},
	}
	return budget.EIRecord{CpID: testCpID, Owner: testOwner, CreatedDate: testDate, Item: item}
}

func moneyPtr(amount string, currency valueobject.Currency) *valueobject.Money {
	m := valueobject.MustMoney(amount, currency)
	return &m
}

func organizationRequest(scheme, id, name string) *OrganizationRequest {
	return &OrganizationRequest{
		ID:           "ignored",
		Name:         name,
		Identifier:   &IdentifierRequest{Scheme: scheme, ID: id},
		Address:      &budget.Address{StreetAddress: "Main 1", CountryName: "Moldova"},
		ContactPoint: &budget.ContactPoint{Name: "Clerk", Email: "clerk@example.com"},
	}
}

func budgetRequest(start, end string, amount int64, currency string) *BudgetRequest {
	return &BudgetRequest{
		ID:                    "request-budget-id",
		Description:           "description",
		Period:                &PeriodRequest{StartDate: dateTimePtr(start), EndDate: dateTimePtr(end)},
		Amount:                &AmountRequest{Amount: decimalPtr(amount), Currency: currency},
		IsEuropeanUnionFunded: boolPtr(false),
		Project:               "project",
		ProjectID:             "project-id",
		URI:                   "http://project",
	}
}

func defaultBudgetRequest(amount int64) *BudgetRequest {
	return budgetRequest("2020-02-01T00:00:00Z", "2020-06-30T00:00:00Z", amount, "USD")
}

func createRequest(b *BudgetRequest, buyer *OrganizationRequest) CreateFSRequest {
	return CreateFSRequest{
		Planning: &CreatePlanningRequest{Rationale: "rationale", Budget: b},
		Tender:   &CreateTenderRequest{ProcuringEntity: organizationRequest("MD-IDNO", "555", "Procuring Entity")},
		Buyer:    buyer,
	}
}

func updateRequest(b *BudgetRequest) UpdateFSRequest {
	return UpdateFSRequest{
		Planning: &UpdatePlanningRequest{
			Rationale: "rationale",
			Budget: &UpdateBudgetRequest{
				BudgetRequest: *b,
				SourceEntity:  &SourceEntityRequest{ID: "client-source", Name: "client"},
				Verified:      boolPtr(true),
			},
		},
	}
}

// storedSource builds an existing financial source record for update tests
func storedSource(status budget.TenderStatus, details budget.TenderStatusDetails, amount int64) *budget.FSRecord {
	ocID := budget.NewOcID(testCpID, 1526570698032)
	money := valueobject.MustMoney(decimal.NewFromInt(amount).String(), valueobject.USD)
	source := budget.FinancialSource{
		OcID:   ocID,
		Tender: budget.FSTender{ID: ocID, Status: status, StatusDetails: details},
		Planning: budget.FSPlanning{
			Rationale: "rationale",
			Budget: budget.FSBudget{
				ID:          "stored-budget-id",
				Description: "description",
				Period: valueobject.NewPeriod(
					valueobject.MustDateTime("2020-02-01T00:00:00Z"),
					valueobject.MustDateTime("2020-06-30T00:00:00Z"),
				),
				Amount:       money,
				SourceEntity: budget.SourceEntity{ID: "MD-IDNO-1007600023016", Name: "City Hall"},
				Project:      "project",
				ProjectID:    "project-id",
				URI:          "http://project",
			},
		},
		Payer: budget.OrganizationReference{ID: "MD-IDNO-555", Name: "Procuring Entity"},
	}
	return &budget.FSRecord{
		CpID:        testCpID,
		OcID:        ocID,
		Token:       uuidMust(testToken1),
		Owner:       testOwner,
		CreatedDate: testDate,
		Source:      source,
		Amount:      money.Amount(),
	}
}

func uuidMust(s string) uuid.UUID {
	return uuid.MustParse(s)
}
