package budget

import (
	"github.com/procurement/budget/internal/domain/budget"
	"github.com/procurement/budget/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// IdentifierRequest is an organization identifier in a request body
type IdentifierRequest struct {
	Scheme    string `json:"scheme" binding:"required"`
	ID        string `json:"id" binding:"required"`
	LegalName string `json:"legalName"`
	URI       string `json:"uri"`
}

func (r IdentifierRequest) toDomain() budget.Identifier {
	return budget.Identifier{Scheme: r.Scheme, ID: r.ID, LegalName: r.LegalName, URI: r.URI}
}

// DetailsRequest classifies a buyer organization
type DetailsRequest struct {
	TypeOfBuyer          string `json:"typeOfBuyer" binding:"required"`
	MainGeneralActivity  string `json:"mainGeneralActivity" binding:"required"`
	MainSectoralActivity string `json:"mainSectoralActivity" binding:"required"`
}

// OrganizationRequest is a buyer or procuring entity in a create request
type OrganizationRequest struct {
	ID                    string               `json:"id"`
	Name                  string               `json:"name" binding:"required"`
	Identifier            *IdentifierRequest   `json:"identifier" binding:"required"`
	Address               *budget.Address      `json:"address" binding:"required"`
	AdditionalIdentifiers []IdentifierRequest  `json:"additionalIdentifiers" binding:"omitempty,dive"`
	ContactPoint          *budget.ContactPoint `json:"contactPoint" binding:"required"`
	Details               *DetailsRequest      `json:"details"`
}

func (r OrganizationRequest) toDomain() budget.OrganizationReference {
	org := budget.OrganizationReference{
		ID:           r.ID,
		Name:         r.Name,
		Identifier:   r.Identifier.toDomain(),
		Address:      *r.Address,
		ContactPoint: *r.ContactPoint,
	}
	for _, id := range r.AdditionalIdentifiers {
		org.AdditionalIdentifiers = append(org.AdditionalIdentifiers, id.toDomain())
	}
	if r.Details != nil {
		org.Details = &budget.Details{
			TypeOfBuyer:          r.Details.TypeOfBuyer,
			MainGeneralActivity:  r.Details.MainGeneralActivity,
			MainSectoralActivity: r.Details.MainSectoralActivity,
		}
	}
	return org
}

// PeriodRequest is a budget period; both dates use yyyy-MM-ddTHH:mm:ssZ
type PeriodRequest struct {
	StartDate *valueobject.DateTime `json:"startDate" binding:"required"`
	EndDate   *valueobject.DateTime `json:"endDate" binding:"required"`
}

func (r PeriodRequest) toDomain() valueobject.Period {
	return valueobject.NewPeriod(*r.StartDate, *r.EndDate)
}

// AmountRequest is a monetary value in a request body
type AmountRequest struct {
	Amount   *decimal.Decimal `json:"amount" binding:"required"`
	Currency string           `json:"currency" binding:"required,iso4217"`
}

func (r AmountRequest) toDomain() (valueobject.Money, error) {
	return valueobject.NewMoney(*r.Amount, valueobject.Currency(r.Currency).Normalize())
}

// EuropeanUnionFundingRequest describes an EU funded project
type EuropeanUnionFundingRequest struct {
	ProjectName       string `json:"projectName" binding:"required"`
	ProjectIdentifier string `json:"projectIdentifier" binding:"required"`
	URI               string `json:"uri"`
}

func (r *EuropeanUnionFundingRequest) toDomain() *budget.EuropeanUnionFunding {
	if r == nil {
		return nil
	}
	return &budget.EuropeanUnionFunding{
		ProjectName:       r.ProjectName,
		ProjectIdentifier: r.ProjectIdentifier,
		URI:               r.URI,
	}
}

// BudgetRequest holds the budget fields shared by create and update
type BudgetRequest struct {
	ID                    string                       `json:"id"`
	Description           string                       `json:"description"`
	Period                *PeriodRequest               `json:"period" binding:"required"`
	Amount                *AmountRequest               `json:"amount" binding:"required"`
	IsEuropeanUnionFunded *bool                        `json:"isEuropeanUnionFunded" binding:"required"`
	EuropeanUnionFunding  *EuropeanUnionFundingRequest `json:"europeanUnionFunding"`
	Project               string                       `json:"project"`
	ProjectID             string                       `json:"projectID"`
	URI                   string                       `json:"uri"`
}

func (r BudgetRequest) euFunded() bool {
	return r.IsEuropeanUnionFunded != nil && *r.IsEuropeanUnionFunded
}

// CreatePlanningRequest is the planning section of a create request
type CreatePlanningRequest struct {
	Rationale string         `json:"rationale"`
	Budget    *BudgetRequest `json:"budget" binding:"required"`
}

// CreateTenderRequest is the tender section of a create request
type CreateTenderRequest struct {
	ProcuringEntity *OrganizationRequest `json:"procuringEntity" binding:"required"`
}

// CreateFSRequest represents a request to create a financial source
type CreateFSRequest struct {
	Planning *CreatePlanningRequest `json:"planning" binding:"required"`
	Tender   *CreateTenderRequest   `json:"tender" binding:"required"`
	Buyer    *OrganizationRequest   `json:"buyer"`
}

// SourceEntityRequest names the budget source on update
type SourceEntityRequest struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// UpdateBudgetRequest carries the budget fields of an update request.
// SourceEntity, Verified and VerificationDetails are accepted but never applied.
type UpdateBudgetRequest struct {
	BudgetRequest
	SourceEntity        *SourceEntityRequest `json:"sourceEntity" binding:"required"`
	Verified            *bool                `json:"verified" binding:"required"`
	VerificationDetails string               `json:"verificationDetails"`
}

// UpdatePlanningRequest is the planning section of an update request
type UpdatePlanningRequest struct {
	Rationale string               `json:"rationale"`
	Budget    *UpdateBudgetRequest `json:"budget" binding:"required"`
}

// UpdateFSRequest represents a request to update a financial source
type UpdateFSRequest struct {
	Planning *UpdatePlanningRequest `json:"planning" binding:"required"`
}

func (r UpdateFSRequest) changes() budget.BudgetChanges {
	b := r.Planning.Budget
	return budget.BudgetChanges{
		Rationale:            r.Planning.Rationale,
		ID:                   b.ID,
		Description:          b.Description,
		Period:               b.Period.toDomain(),
		Amount:               *b.Amount.Amount,
		Project:              b.Project,
		ProjectID:            b.ProjectID,
		URI:                  b.URI,
		EuropeanUnionFunding: b.EuropeanUnionFunding.toDomain(),
	}
}

// FSResponse is the data payload of both create and update.
// EI is nil when the update left the aggregate untouched.
type FSResponse struct {
	EI *budget.EIProjection   `json:"ei"`
	FS budget.FinancialSource `json:"fs"`
}

// RuleResponse represents a budget rule in API responses
type RuleResponse struct {
	Country   string `json:"country"`
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
}
