package rental

import (
	"context"
	"time"

	"github.com/rently/backend/internal/domain/shared"
)

// RentalRepository defines the persistence interface for rentals
type RentalRepository interface {
	shared.Repository[Rental]
	FindByUser(ctx context.Context, userID uint, filter shared.Filter) ([]Rental, error)
	CountActiveByAsset(ctx context.Context, assetID uint) (int64, error)
	CountByStatus(ctx context.Context, status RentalStatus) (int64, error)

	// FindByUserAndPeriod returns the user's rentals whose start date falls
	// within [periodStart, periodEnd], used to rebuild summary buckets.
	FindByUserAndPeriod(ctx context.Context, userID uint, periodStart, periodEnd time.Time) ([]Rental, error)
}

// RentalHistoryRepository defines the persistence interface for the
// append-only rental status audit log.
type RentalHistoryRepository interface {
	Append(ctx context.Context, record *RentalHistory) error
	FindByRental(ctx context.Context, rentalID uint) ([]RentalHistory, error)
}
