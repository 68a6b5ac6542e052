package budget

// TenderStatus is the lifecycle status of a financial source tender
type TenderStatus string

const (
	TenderStatusPlanning     TenderStatus = "planning"
	TenderStatusPlanned      TenderStatus = "planned"
	TenderStatusActive       TenderStatus = "active"
	TenderStatusCancelled    TenderStatus = "cancelled"
	TenderStatusUnsuccessful TenderStatus = "unsuccessful"
	TenderStatusComplete     TenderStatus = "complete"
	TenderStatusWithdrawn    TenderStatus = "withdrawn"
)

// IsValid checks if the status is a known value
func (s TenderStatus) IsValid() bool {
	switch s {
	case TenderStatusPlanning, TenderStatusPlanned, TenderStatusActive, TenderStatusCancelled,
		TenderStatusUnsuccessful, TenderStatusComplete, TenderStatusWithdrawn:
		return true
	}
	return false
}

func (s TenderStatus) String() string {
	return string(s)
}

// TenderStatusDetails qualifies the status; only empty permits updates
type TenderStatusDetails string

const (
	TenderStatusDetailsEmpty        TenderStatusDetails = "empty"
	TenderStatusDetailsPlanning     TenderStatusDetails = "planning"
	TenderStatusDetailsTendering    TenderStatusDetails = "tendering"
	TenderStatusDetailsEvaluation   TenderStatusDetails = "evaluation"
	TenderStatusDetailsAwarded      TenderStatusDetails = "awarded"
	TenderStatusDetailsSuspended    TenderStatusDetails = "suspended"
	TenderStatusDetailsCancelled    TenderStatusDetails = "cancelled"
	TenderStatusDetailsComplete     TenderStatusDetails = "complete"
	TenderStatusDetailsUnsuccessful TenderStatusDetails = "unsuccessful"
)

// AllowsUpdate reports whether no workflow step is holding the record
func (d TenderStatusDetails) AllowsUpdate() bool {
	return d == TenderStatusDetailsEmpty
}

// UpdatePolicy is what an update may change for a given tender status
type UpdatePolicy int

const (
	// UpdateRejected forbids any update
	UpdateRejected UpdatePolicy = iota
	// UpdateKeepBudgetID merges budget fields but keeps planning.budget.id
	UpdateKeepBudgetID
	// UpdateOverwriteBudgetID merges budget fields including planning.budget.id
	UpdateOverwriteBudgetID
)

// UpdatePolicy maps every status to its update policy.
// A new status must be added here explicitly; unknown values are rejected.
func (s TenderStatus) UpdatePolicy() UpdatePolicy {
	switch s {
	case TenderStatusPlanning:
		return UpdateOverwriteBudgetID
	case TenderStatusActive:
		return UpdateKeepBudgetID
	case TenderStatusPlanned, TenderStatusCancelled, TenderStatusUnsuccessful,
		TenderStatusComplete, TenderStatusWithdrawn:
		return UpdateRejected
	default:
		return UpdateRejected
	}
}
