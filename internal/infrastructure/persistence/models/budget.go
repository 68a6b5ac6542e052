package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/procurement/budget/internal/domain/budget"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// EIModel is the row of an expenditure item; the item itself lives in json_data
type EIModel struct {
	CpID        string         `gorm:"column:cp_id;type:varchar(255);primaryKey"`
	Owner       string         `gorm:"column:owner;type:varchar(255);not null"`
	CreatedDate time.Time      `gorm:"column:created_date;not null"`
	JSONData    datatypes.JSON `gorm:"column:json_data;not null"`
}

// TableName returns the table name for GORM
func (EIModel) TableName() string {
	return "ei"
}

// EIModelFromDomain converts a domain record to its row
func EIModelFromDomain(r *budget.EIRecord) (*EIModel, error) {
	data, err := json.Marshal(r.Item)
	if err != nil {
		return nil, fmt.Errorf("marshal ei %s: %w", r.CpID, err)
	}
	return &EIModel{
		CpID:        r.CpID,
		Owner:       r.Owner,
		CreatedDate: r.CreatedDate.UTC(),
		JSONData:    datatypes.JSON(data),
	}, nil
}

// ToDomain converts the row back to a domain record
func (m *EIModel) ToDomain() (*budget.EIRecord, error) {
	var item budget.ExpenditureItem
	if err := json.Unmarshal(m.JSONData, &item); err != nil {
		return nil, fmt.Errorf("unmarshal ei %s: %w", m.CpID, err)
	}
	return &budget.EIRecord{
		CpID:        m.CpID,
		Owner:       m.Owner,
		CreatedDate: m.CreatedDate.UTC(),
		Item:        item,
	}, nil
}

// FSModel is the row of a financial source. Amount mirrors the budget amount
// held in json_data so totals can be summed in SQL.
type FSModel struct {
	CpID           string          `gorm:"column:cp_id;type:varchar(255);primaryKey;uniqueIndex:idx_fs_cp_id_token,priority:1"`
	OcID           string          `gorm:"column:oc_id;type:varchar(255);primaryKey"`
	Token          uuid.UUID       `gorm:"column:token;type:uuid;not null;uniqueIndex:idx_fs_cp_id_token,priority:2"`
	Owner          string          `gorm:"column:owner;type:varchar(255);not null"`
	CreatedDate    time.Time       `gorm:"column:created_date;not null"`
	JSONData       datatypes.JSON  `gorm:"column:json_data;not null"`
	Amount         decimal.Decimal `gorm:"column:amount;type:numeric;not null"`
	AmountReserved decimal.Decimal `gorm:"column:amount_reserved;type:numeric;not null"`
}

// TableName returns the table name for GORM
func (FSModel) TableName() string {
	return "fs"
}

// FSModelFromDomain converts a domain record to its row
func FSModelFromDomain(r *budget.FSRecord) (*FSModel, error) {
	data, err := json.Marshal(r.Source)
	if err != nil {
		return nil, fmt.Errorf("marshal fs %s: %w", r.OcID, err)
	}
	return &FSModel{
		CpID:           r.CpID,
		OcID:           r.OcID,
		Token:          r.Token,
		Owner:          r.Owner,
		CreatedDate:    r.CreatedDate.UTC(),
		JSONData:       datatypes.JSON(data),
		Amount:         r.Amount,
		AmountReserved: r.AmountReserved,
	}, nil
}

// ToDomain converts the row back to a domain record
func (m *FSModel) ToDomain() (*budget.FSRecord, error) {
	var source budget.FinancialSource
	if err := json.Unmarshal(m.JSONData, &source); err != nil {
		return nil, fmt.Errorf("unmarshal fs %s: %w", m.OcID, err)
	}
	return &budget.FSRecord{
		CpID:           m.CpID,
		OcID:           m.OcID,
		Token:          m.Token,
		Owner:          m.Owner,
		CreatedDate:    m.CreatedDate.UTC(),
		Source:         source,
		Amount:         m.Amount,
		AmountReserved: m.AmountReserved,
	}, nil
}

// RuleModel is a country specific budget parameter
type RuleModel struct {
	Country   string `gorm:"column:country;type:varchar(10);primaryKey"`
	Parameter string `gorm:"column:parameter;type:varchar(255);primaryKey"`
	Value     string `gorm:"column:value;type:text;not null"`
}

// TableName returns the table name for GORM
func (RuleModel) TableName() string {
	return "budget_rules"
}

// ToDomain converts the row to a domain rule
func (m *RuleModel) ToDomain() budget.Rule {
	return budget.Rule{Country: m.Country, Parameter: m.Parameter, Value: m.Value}
}

// RuleModelFromDomain converts a domain rule to its row
func RuleModelFromDomain(r budget.Rule) *RuleModel {
	return &RuleModel{Country: r.Country, Parameter: r.Parameter, Value: r.Value}
}
