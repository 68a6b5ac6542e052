package persistence

import (
	"context"
	"errors"

	"github.com/procurement/budget/internal/domain/budget"
	"github.com/procurement/budget/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRulesRepository implements budget.RulesRepository using GORM
type GormRulesRepository struct {
	db *gorm.DB
}

// NewGormRulesRepository creates a new GormRulesRepository
func NewGormRulesRepository(db *gorm.DB) *GormRulesRepository {
	return &GormRulesRepository{db: db}
}

// GetValue returns the value of a country parameter
func (r *GormRulesRepository) GetValue(ctx context.Context, country, parameter string) (string, error) {
	var model models.RuleModel
	if err := r.db.WithContext(ctx).
		Where("country = ? AND parameter = ?", country, parameter).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", budget.ErrRuleNotFound
		}
		return "", err
	}
	return model.Value, nil
}

// Save inserts or replaces a rule
func (r *GormRulesRepository) Save(ctx context.Context, rule budget.Rule) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "country"}, {Name: "parameter"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(models.RuleModelFromDomain(rule)).Error
}
