package persistence

import (
	"context"
	"errors"

	"github.com/procurement/budget/internal/domain/budget"
	"github.com/procurement/budget/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEIRepository implements budget.EIRepository using GORM
type GormEIRepository struct {
	db *gorm.DB
}

// NewGormEIRepository creates a new GormEIRepository
func NewGormEIRepository(db *gorm.DB) *GormEIRepository {
	return &GormEIRepository{db: db}
}

// FindByCpID finds the expenditure item of a procurement, nil when absent
func (r *GormEIRepository) FindByCpID(ctx context.Context, cpID string) (*budget.EIRecord, error) {
	var model models.EIModel
	if err := r.db.WithContext(ctx).Where("cp_id = ?", cpID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain()
}

// Save inserts the item or replaces the existing row
func (r *GormEIRepository) Save(ctx context.Context, record *budget.EIRecord) error {
	model, err := models.EIModelFromDomain(record)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cp_id"}},
			UpdateAll: true,
		}).
		Create(model).Error
}
