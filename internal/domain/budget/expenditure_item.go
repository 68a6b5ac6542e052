package budget

import (
	"time"

	"github.com/procurement/budget/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Classification describes what an expenditure item buys
type Classification struct {
	Scheme      string `json:"scheme"`
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
}

// EITender is the tender section of an expenditure item
type EITender struct {
	ID             string              `json:"id"`
	Title          string              `json:"title,omitempty"`
	Description    string              `json:"description,omitempty"`
	Status         TenderStatus        `json:"status"`
	StatusDetails  TenderStatusDetails `json:"statusDetails"`
	Classification *Classification     `json:"classification,omitempty"`
}

// EIBudget holds the expenditure item period and aggregate amount.
// Amount stays nil until the first financial source is created.
type EIBudget struct {
	ID     string             `json:"id,omitempty"`
	Period valueobject.Period `json:"period"`
	Amount *valueobject.Money `json:"amount,omitempty"`
}

// EIPlanning is the planning section of an expenditure item
type EIPlanning struct {
	Rationale string   `json:"rationale,omitempty"`
	Budget    EIBudget `json:"budget"`
}

// ExpenditureItem is the budget aggregate for a procurement
type ExpenditureItem struct {
	OcID     string                `json:"ocid"`
	Tender   EITender              `json:"tender"`
	Planning EIPlanning            `json:"planning"`
	Buyer    OrganizationReference `json:"buyer"`
}

// Currency returns the aggregate currency, empty while no amount is set
func (ei ExpenditureItem) Currency() valueobject.Currency {
	if ei.Planning.Budget.Amount == nil {
		return ""
	}
	return ei.Planning.Budget.Amount.Currency()
}

// AcceptsCurrency reports whether a financial source in currency c may join this item
func (ei ExpenditureItem) AcceptsCurrency(c valueobject.Currency) bool {
	current := ei.Currency()
	return current == "" || current == c
}

// HasTotal reports whether the stored aggregate equals total
func (ei ExpenditureItem) HasTotal(total decimal.Decimal) bool {
	amount := ei.Planning.Budget.Amount
	return amount != nil && amount.Amount().Equal(total)
}

// WithAmount returns a copy whose aggregate amount is replaced
func (ei ExpenditureItem) WithAmount(amount valueobject.Money) ExpenditureItem {
	out := ei
	out.Planning.Budget.Amount = &amount
	return out
}

// Projection is the narrow read model exposed with financial source responses
func (ei ExpenditureItem) Projection() *EIProjection {
	p := &EIProjection{}
	if ei.Planning.Budget.Amount != nil {
		amount := *ei.Planning.Budget.Amount
		p.Planning.Budget.Amount = &amount
	}
	return p
}

// EIProjection is {planning: {budget: {amount}}}
type EIProjection struct {
	Planning struct {
		Budget struct {
			Amount *valueobject.Money `json:"amount"`
		} `json:"budget"`
	} `json:"planning"`
}

// EIRecord is a stored expenditure item row
type EIRecord struct {
	CpID        string
	Owner       string
	CreatedDate time.Time
	Item        ExpenditureItem
}

// WithItem returns a copy of the record carrying item
func (r EIRecord) WithItem(item ExpenditureItem) EIRecord {
	out := r
	out.Item = item
	return out
}
