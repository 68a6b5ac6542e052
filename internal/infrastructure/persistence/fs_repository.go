package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/procurement/budget/internal/domain/budget"
	"github.com/procurement/budget/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFSRepository implements budget.FSRepository using GORM
type GormFSRepository struct {
	db *gorm.DB
}

// NewGormFSRepository creates a new GormFSRepository
func NewGormFSRepository(db *gorm.DB) *GormFSRepository {
	return &GormFSRepository{db: db}
}

// FindByCpIDAndToken finds the source a token was issued for, nil when absent
func (r *GormFSRepository) FindByCpIDAndToken(ctx context.Context, cpID string, token uuid.UUID) (*budget.FSRecord, error) {
	var model models.FSModel
	if err := r.db.WithContext(ctx).
		Where("cp_id = ? AND token = ?", cpID, token).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain()
}

// Create inserts a new source. A taken (cp_id, oc_id) yields
// budget.ErrDuplicateOcID and leaves the stored row untouched.
func (r *GormFSRepository) Create(ctx context.Context, record *budget.FSRecord) error {
	model, err := models.FSModelFromDomain(record)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cp_id"}, {Name: "oc_id"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return budget.ErrDuplicateOcID
	}
	return nil
}

// Update rewrites the document and amount columns of an existing source
func (r *GormFSRepository) Update(ctx context.Context, record *budget.FSRecord) error {
	model, err := models.FSModelFromDomain(record)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&models.FSModel{}).
		Where("cp_id = ? AND oc_id = ?", model.CpID, model.OcID).
		Updates(map[string]any{
			"json_data":       model.JSONData,
			"amount":          model.Amount,
			"amount_reserved": model.AmountReserved,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return budget.ErrFSNotFound
	}
	return nil
}

// TotalAmountByCpID sums the amount column of every source of a procurement.
// Returns nil when the procurement has no sources.
func (r *GormFSRepository) TotalAmountByCpID(ctx context.Context, cpID string) (*decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.FSModel{}).
		Select("SUM(amount)").
		Where("cp_id = ?", cpID).
		Row().
		Scan(&total); err != nil {
		return nil, err
	}
	if !total.Valid {
		return nil, nil
	}
	return &total.Decimal, nil
}
