package persistence

import (
	"context"

	"github.com/rently/backend/internal/domain/rental"
	"gorm.io/gorm"
)

// GormRentalHistoryRepository implements RentalHistoryRepository using GORM
type GormRentalHistoryRepository struct {
	db *gorm.DB
}

// NewGormRentalHistoryRepository creates a new GormRentalHistoryRepository
func NewGormRentalHistoryRepository(db *gorm.DB) *GormRentalHistoryRepository {
	return &GormRentalHistoryRepository{db: db}
}

// Append inserts a new audit record. Records are never updated.
func (r *GormRentalHistoryRepository) Append(ctx context.Context, record *rental.RentalHistory) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByRental returns the audit trail for a rental in chronological order.
func (r *GormRentalHistoryRepository) FindByRental(ctx context.Context, rentalID uint) ([]rental.RentalHistory, error) {
	var records []rental.RentalHistory
	if err := r.db.WithContext(ctx).
		Where("rental_id = ?", rentalID).
		Order("changed_at ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Ensure GormRentalHistoryRepository implements RentalHistoryRepository
var _ rental.RentalHistoryRepository = (*GormRentalHistoryRepository)(nil)
