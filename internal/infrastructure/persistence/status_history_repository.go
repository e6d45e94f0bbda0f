package persistence

import (
	"context"

	"github.com/rently/backend/internal/domain/catalog"
	"github.com/rently/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStatusHistoryRepository implements StatusHistoryRepository using GORM
type GormStatusHistoryRepository struct {
	db *gorm.DB
}

// NewGormStatusHistoryRepository creates a new GormStatusHistoryRepository
func NewGormStatusHistoryRepository(db *gorm.DB) *GormStatusHistoryRepository {
	return &GormStatusHistoryRepository{db: db}
}

// Append inserts a new audit record. Records are never updated.
func (r *GormStatusHistoryRepository) Append(ctx context.Context, record *catalog.StatusHistory) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByAsset returns the audit trail for an asset, newest first.
func (r *GormStatusHistoryRepository) FindByAsset(ctx context.Context, assetID uint, filter shared.Filter) ([]catalog.StatusHistory, error) {
	var records []catalog.StatusHistory
	query := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("changed_at DESC, id DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CountByAsset counts audit records for an asset
func (r *GormStatusHistoryRepository) CountByAsset(ctx context.Context, assetID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.StatusHistory{}).
		Where("asset_id = ?", assetID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormStatusHistoryRepository implements StatusHistoryRepository
var _ catalog.StatusHistoryRepository = (*GormStatusHistoryRepository)(nil)
