package budget

import "github.com/procurement/budget/internal/domain/shared"

// Budget workflow errors. Every one of them is terminal for the request.
var (
	ErrEINotFound             = shared.NewDomainError("EI_NOT_FOUND", "Expenditure item not found.")
	ErrFSNotFound             = shared.NewDomainError("FS_NOT_FOUND", "Financial source not found.")
	ErrInvalidOcID            = shared.NewDomainError("INVALID_OCID", "Invalid ocid.")
	ErrInvalidOwner           = shared.NewDomainError("INVALID_OWNER", "Invalid owner.")
	ErrInvalidPeriod          = shared.NewDomainError("INVALID_PERIOD", "Invalid period.")
	ErrInvalidCurrency        = shared.NewDomainError("INVALID_CURRENCY", "Invalid currency.")
	ErrInvalidEuropeanFunding = shared.NewDomainError("INVALID_EUROPEAN_FUNDING", "Invalid european union funding.")
	ErrInvalidStatus          = shared.NewDomainError("INVALID_STATUS", "Financial source status does not allow update.")
	ErrRuleNotFound           = shared.NewDomainError("RULE_NOT_FOUND", "Budget rule not found.")
)
