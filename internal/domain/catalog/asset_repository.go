package catalog

import (
	"context"

	"github.com/rently/backend/internal/domain/shared"
)

// AssetRepository defines the persistence interface for assets
type AssetRepository interface {
	shared.Repository[Asset]

	// SaveWithVersion persists the asset only if the stored row still has
	// the given version. Returns shared.ErrConcurrencyConflict when the
	// row was modified by another transaction in the meantime.
	SaveWithVersion(ctx context.Context, asset *Asset, expectedVersion int) error

	CountByStatus(ctx context.Context, status AssetStatus) (int64, error)
}

// StatusHistoryRepository defines the persistence interface for the
// append-only asset status audit log.
type StatusHistoryRepository interface {
	Append(ctx context.Context, record *StatusHistory) error
	FindByAsset(ctx context.Context, assetID uint, filter shared.Filter) ([]StatusHistory, error)
	CountByAsset(ctx context.Context, assetID uint) (int64, error)
}
