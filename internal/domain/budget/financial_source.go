package budget

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/procurement/budget/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ocidSeparator joins cpId and the generation ordinal into an FS ocid
const ocidSeparator = "-FS-"

// NewOcID derives a financial source ocid from the procurement id
func NewOcID(cpID string, ordinal int64) string {
	return cpID + ocidSeparator + strconv.FormatInt(ordinal, 10)
}

// EuropeanUnionFunding describes an EU funded project
type EuropeanUnionFunding struct {
	ProjectName       string `json:"projectName"`
	ProjectIdentifier string `json:"projectIdentifier"`
	URI               string `json:"uri,omitempty"`
}

// FSBudget is the budget section of a financial source
type FSBudget struct {
	ID                    string                `json:"id,omitempty"`
	Description           string                `json:"description,omitempty"`
	Period                valueobject.Period    `json:"period"`
	Amount                valueobject.Money     `json:"amount"`
	IsEuropeanUnionFunded bool                  `json:"isEuropeanUnionFunded"`
	EuropeanUnionFunding  *EuropeanUnionFunding `json:"europeanUnionFunding,omitempty"`
	SourceEntity          SourceEntity          `json:"sourceEntity"`
	Verified              bool                  `json:"verified"`
	VerificationDetails   string                `json:"verificationDetails,omitempty"`
	Project               string                `json:"project,omitempty"`
	ProjectID             string                `json:"projectID,omitempty"`
	URI                   string                `json:"uri,omitempty"`
}

// FSPlanning is the planning section of a financial source
type FSPlanning struct {
	Budget    FSBudget `json:"budget"`
	Rationale string   `json:"rationale,omitempty"`
}

// FSTender is the tender section of a financial source
type FSTender struct {
	ID              string                 `json:"id"`
	Status          TenderStatus           `json:"status"`
	StatusDetails   TenderStatusDetails    `json:"statusDetails"`
	ProcuringEntity *OrganizationReference `json:"procuringEntity"`
}

// FinancialSource is one funding tranche of an expenditure item.
// Token is only filled in on the create response; the stored body never carries it.
type FinancialSource struct {
	OcID     string                 `json:"ocid"`
	Token    string                 `json:"token,omitempty"`
	Tender   FSTender               `json:"tender"`
	Planning FSPlanning             `json:"planning"`
	Funder   *OrganizationReference `json:"funder,omitempty"`
	Payer    OrganizationReference  `json:"payer"`
}

// Currency returns the financial source currency
func (fs FinancialSource) Currency() valueobject.Currency {
	return fs.Planning.Budget.Amount.Currency()
}

// WithToken returns a copy exposing the update token
func (fs FinancialSource) WithToken(token uuid.UUID) FinancialSource {
	out := fs
	out.Token = token.String()
	return out
}

// WithOcID returns a copy identified by ocID; the tender id follows the ocid
func (fs FinancialSource) WithOcID(ocID string) FinancialSource {
	out := fs
	out.OcID = ocID
	out.Tender.ID = ocID
	return out
}

// BudgetChanges are the fields an update may bring in
type BudgetChanges struct {
	Rationale            string
	ID                   string
	Description          string
	Period               valueobject.Period
	Amount               decimal.Decimal
	Project              string
	ProjectID            string
	URI                  string
	EuropeanUnionFunding *EuropeanUnionFunding
}

// ApplyUpdate derives the updated financial source from fs and changes.
// Currency, EU-funded flag, verification, source entity, tender, funder and payer never change.
// EU funding details are refreshed only for a source that is already EU funded.
func (fs FinancialSource) ApplyUpdate(changes BudgetChanges) (FinancialSource, error) {
	if !fs.Tender.StatusDetails.AllowsUpdate() {
		return FinancialSource{}, ErrInvalidStatus
	}

	policy := fs.Tender.Status.UpdatePolicy()
	if policy == UpdateRejected {
		return FinancialSource{}, ErrInvalidStatus
	}

	out := fs
	out.Token = ""
	out.Planning.Rationale = changes.Rationale

	b := fs.Planning.Budget
	b.Period = changes.Period
	b.Description = changes.Description
	b.Amount = b.Amount.WithAmount(changes.Amount)
	b.Project = changes.Project
	b.ProjectID = changes.ProjectID
	b.URI = changes.URI
	if fs.Planning.Budget.IsEuropeanUnionFunded {
		b.EuropeanUnionFunding = copyFunding(changes.EuropeanUnionFunding)
	}
	if policy == UpdateOverwriteBudgetID {
		b.ID = changes.ID
	}
	out.Planning.Budget = b

	return out, nil
}

func copyFunding(f *EuropeanUnionFunding) *EuropeanUnionFunding {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

// FSRecord is a stored financial source row
type FSRecord struct {
	CpID           string
	OcID           string
	Token          uuid.UUID
	Owner          string
	CreatedDate    time.Time
	Source         FinancialSource
	Amount         decimal.Decimal
	AmountReserved decimal.Decimal
}

// WithSource returns a copy carrying source and its amount column
func (r FSRecord) WithSource(source FinancialSource) FSRecord {
	out := r
	out.Source = source
	out.Amount = source.Planning.Budget.Amount.Amount()
	return out
}
