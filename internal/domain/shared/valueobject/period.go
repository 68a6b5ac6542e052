package valueobject

// Period is a closed time interval
type Period struct {
	StartDate DateTime `json:"startDate"`
	EndDate   DateTime `json:"endDate"`
}

// NewPeriod creates a period; it does not validate ordering
func NewPeriod(start, end DateTime) Period {
	return Period{StartDate: start, EndDate: end}
}

// IsValid reports whether the start is strictly before the end
func (p Period) IsValid() bool {
	return p.StartDate.Before(p.EndDate)
}

// Contains reports whether other lies within p, bounds included
func (p Period) Contains(other Period) bool {
	return !other.StartDate.Before(p.StartDate) && !other.EndDate.After(p.EndDate)
}
