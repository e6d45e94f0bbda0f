package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/rently/backend/internal/domain/finance"
	"github.com/rently/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormFinancialSummaryRepository implements FinancialSummaryRepository using GORM
type GormFinancialSummaryRepository struct {
	db *gorm.DB
}

// NewGormFinancialSummaryRepository creates a new GormFinancialSummaryRepository
func NewGormFinancialSummaryRepository(db *gorm.DB) *GormFinancialSummaryRepository {
	return &GormFinancialSummaryRepository{db: db}
}

// FindByID finds a summary bucket by its ID
func (r *GormFinancialSummaryRepository) FindByID(ctx context.Context, id uint) (*finance.FinancialSummary, error) {
	var summary finance.FinancialSummary
	if err := r.db.WithContext(ctx).First(&summary, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &summary, nil
}

// FindAll finds all summary buckets matching the filter
func (r *GormFinancialSummaryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.FinancialSummary, error) {
	var summaries []finance.FinancialSummary
	query := r.db.WithContext(ctx).Model(&finance.FinancialSummary{}).Order("period_start DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

// FindByUser returns all of a user's buckets, newest period first
func (r *GormFinancialSummaryRepository) FindByUser(ctx context.Context, userID uint) ([]finance.FinancialSummary, error) {
	var summaries []finance.FinancialSummary
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("period_start DESC").
		Find(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

// FindByUserAndPeriod returns the single bucket for a user and month
func (r *GormFinancialSummaryRepository) FindByUserAndPeriod(ctx context.Context, userID uint, periodStart time.Time) (*finance.FinancialSummary, error) {
	var summary finance.FinancialSummary
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND period_start = ?", userID, periodStart).
		First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &summary, nil
}

// SumCostForPeriod sums every user's spend for one month
func (r *GormFinancialSummaryRepository) SumCostForPeriod(ctx context.Context, periodStart time.Time) (decimal.Decimal, error) {
	var raw decimal.NullDecimal
	if err := r.db.WithContext(ctx).Model(&finance.FinancialSummary{}).
		Where("period_start = ?", periodStart).
		Select("SUM(total_cost)").
		Scan(&raw).Error; err != nil {
		return decimal.Zero, err
	}
	if !raw.Valid {
		return decimal.Zero, nil
	}
	return raw.Decimal, nil
}

// Save persists a summary bucket
func (r *GormFinancialSummaryRepository) Save(ctx context.Context, summary *finance.FinancialSummary) error {
	return r.db.WithContext(ctx).Save(summary).Error
}

// Delete removes a summary bucket by ID
func (r *GormFinancialSummaryRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&finance.FinancialSummary{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts summary buckets
func (r *GormFinancialSummaryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&finance.FinancialSummary{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormFinancialSummaryRepository implements FinancialSummaryRepository
var _ finance.FinancialSummaryRepository = (*GormFinancialSummaryRepository)(nil)
