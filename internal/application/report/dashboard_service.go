package report

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rently/backend/internal/domain/catalog"
	"github.com/rently/backend/internal/domain/finance"
	"github.com/rently/backend/internal/domain/identity"
	"github.com/rently/backend/internal/domain/rental"
	"github.com/rently/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const dashboardCacheKey = "dashboard:snapshot"

// Cache is the small read-through cache the dashboard sits behind. A miss
// is reported as shared.ErrNotFound.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// DashboardResponse is an operational snapshot of the whole system
type DashboardResponse struct {
	TotalAssets            int64  `json:"total_assets"`
	AvailableAssets        int64  `json:"available_assets"`
	RentedAssets           int64  `json:"rented_assets"`
	AssetsUnderMaintenance int64  `json:"assets_under_maintenance"`
	ActiveRentals          int64  `json:"active_rentals"`
	TotalUsers             int64  `json:"total_users"`
	CurrentMonthRevenue    string `json:"current_month_revenue"`
	GeneratedAt            string `json:"generated_at"`
}

// DashboardService aggregates operational counters across the catalog,
// rentals, users, and finance. Snapshots are cached with a short TTL; the
// cache is best effort and every cache failure falls back to a live
// computation.
type DashboardService struct {
	assetRepo   catalog.AssetRepository
	rentalRepo  rental.RentalRepository
	userRepo    identity.UserRepository
	summaryRepo finance.FinancialSummaryRepository
	cache       Cache
	cacheTTL    time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewDashboardService creates a new dashboard service. The cache may be
// nil, in which case every request computes a fresh snapshot.
func NewDashboardService(
	assetRepo catalog.AssetRepository,
	rentalRepo rental.RentalRepository,
	userRepo identity.UserRepository,
	summaryRepo finance.FinancialSummaryRepository,
	cache Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		assetRepo:   assetRepo,
		rentalRepo:  rentalRepo,
		userRepo:    userRepo,
		summaryRepo: summaryRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// Snapshot returns the dashboard, from cache when a fresh snapshot is
// available.
func (s *DashboardService) Snapshot(ctx context.Context) (*DashboardResponse, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, dashboardCacheKey); err == nil {
			var cached DashboardResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
			s.logger.Warn("discarding malformed dashboard cache entry", zap.Error(err))
		}
	}

	snapshot, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		raw, err := json.Marshal(snapshot)
		if err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, raw, s.cacheTTL); err != nil {
				s.logger.Warn("dashboard cache write failed", zap.Error(err))
			}
		}
	}
	return snapshot, nil
}

func (s *DashboardService) compute(ctx context.Context) (*DashboardResponse, error) {
	available, err := s.assetRepo.CountByStatus(ctx, catalog.AssetStatusAvailable)
	if err != nil {
		return nil, err
	}
	rented, err := s.assetRepo.CountByStatus(ctx, catalog.AssetStatusRented)
	if err != nil {
		return nil, err
	}
	maintenance, err := s.assetRepo.CountByStatus(ctx, catalog.AssetStatusUnderMaintenance)
	if err != nil {
		return nil, err
	}
	activeRentals, err := s.rentalRepo.CountByStatus(ctx, rental.RentalStatusActive)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.userRepo.Count(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}

	periodStart, _ := finance.PeriodBounds(s.now().UTC())
	revenue, err := s.summaryRepo.SumCostForPeriod(ctx, periodStart)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		TotalAssets:            available + rented + maintenance,
		AvailableAssets:        available,
		RentedAssets:           rented,
		AssetsUnderMaintenance: maintenance,
		ActiveRentals:          activeRentals,
		TotalUsers:             totalUsers,
		CurrentMonthRevenue:    revenue.StringFixed(2),
		GeneratedAt:            s.now().UTC().Format(time.RFC3339),
	}, nil
}
