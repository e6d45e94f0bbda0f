package persistence

import (
	"context"
	"errors"

	"github.com/rently/backend/internal/domain/catalog"
	"github.com/rently/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAssetRepository implements AssetRepository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// FindByID finds an asset by its ID
func (r *GormAssetRepository) FindByID(ctx context.Context, id uint) (*catalog.Asset, error) {
	var asset catalog.Asset
	if err := r.db.WithContext(ctx).First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// FindAll finds all assets matching the filter
func (r *GormAssetRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Asset, error) {
	var assets []catalog.Asset
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Asset{}), filter)
	if err := query.Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// Save persists an asset
func (r *GormAssetRepository) Save(ctx context.Context, asset *catalog.Asset) error {
	return r.db.WithContext(ctx).Save(asset).Error
}

// SaveWithVersion persists the asset only if the stored row still carries
// the expected version. A zero-row update means another transaction got
// there first and the caller must retry or fail.
func (r *GormAssetRepository) SaveWithVersion(ctx context.Context, asset *catalog.Asset, expectedVersion int) error {
	result := r.db.WithContext(ctx).Model(&catalog.Asset{}).
		Where("id = ? AND version = ?", asset.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":          asset.Name,
			"category":      asset.Category,
			"description":   asset.Description,
			"price_per_day": asset.PricePerDay,
			"status":        asset.Status,
			"owner_id":      asset.OwnerID,
			"version":       asset.Version,
			"updated_at":    asset.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes an asset by ID
func (r *GormAssetRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Asset{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts assets matching the filter
func (r *GormAssetRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Asset{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts assets in the given status
func (r *GormAssetRepository) CountByStatus(ctx context.Context, status catalog.AssetStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Asset{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies all filter options including pagination
func (r *GormAssetRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, AssetSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormAssetRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR category ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "owner_id":
			query = query.Where("owner_id = ?", value)
		case "max_price":
			query = query.Where("price_per_day <= ?", value)
		}
	}

	return query
}

// Ensure GormAssetRepository implements AssetRepository
var _ catalog.AssetRepository = (*GormAssetRepository)(nil)
