package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/rently/backend/internal/domain/rental"
	"github.com/rently/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormRentalRepository implements RentalRepository using GORM
type GormRentalRepository struct {
	db *gorm.DB
}

// NewGormRentalRepository creates a new GormRentalRepository
func NewGormRentalRepository(db *gorm.DB) *GormRentalRepository {
	return &GormRentalRepository{db: db}
}

// FindByID finds a rental by its ID
func (r *GormRentalRepository) FindByID(ctx context.Context, id uint) (*rental.Rental, error) {
	var rent rental.Rental
	if err := r.db.WithContext(ctx).First(&rent, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rent, nil
}

// FindAll finds all rentals matching the filter
func (r *GormRentalRepository) FindAll(ctx context.Context, filter shared.Filter) ([]rental.Rental, error) {
	var rentals []rental.Rental
	query := r.applyFilter(r.db.WithContext(ctx).Model(&rental.Rental{}), filter)
	if err := query.Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

// FindByUser finds all rentals belonging to a user
func (r *GormRentalRepository) FindByUser(ctx context.Context, userID uint, filter shared.Filter) ([]rental.Rental, error) {
	var rentals []rental.Rental
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&rental.Rental{}).Where("user_id = ?", userID),
		filter,
	)
	if err := query.Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

// FindByUserAndPeriod returns the user's rentals starting within the period
func (r *GormRentalRepository) FindByUserAndPeriod(ctx context.Context, userID uint, periodStart, periodEnd time.Time) ([]rental.Rental, error) {
	var rentals []rental.Rental
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND start_date >= ? AND start_date <= ?", userID, periodStart, periodEnd).
		Order("start_date ASC").
		Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

// Save persists a rental
func (r *GormRentalRepository) Save(ctx context.Context, rent *rental.Rental) error {
	return r.db.WithContext(ctx).Save(rent).Error
}

// Delete removes a rental by ID
func (r *GormRentalRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&rental.Rental{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts rentals matching the filter
func (r *GormRentalRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&rental.Rental{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountActiveByAsset counts active rentals for an asset
func (r *GormRentalRepository) CountActiveByAsset(ctx context.Context, assetID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&rental.Rental{}).
		Where("asset_id = ? AND status = ?", assetID, rental.RentalStatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts rentals in the given status
func (r *GormRentalRepository) CountByStatus(ctx context.Context, status rental.RentalStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&rental.Rental{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies all filter options including pagination
func (r *GormRentalRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, RentalSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormRentalRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "asset_id":
			query = query.Where("asset_id = ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		}
	}

	return query
}

// Ensure GormRentalRepository implements RentalRepository
var _ rental.RentalRepository = (*GormRentalRepository)(nil)
