//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	apprental "github.com/rently/backend/internal/application/rental"
	"github.com/rently/backend/internal/domain/catalog"
	domfinance "github.com/rently/backend/internal/domain/finance"
	"github.com/rently/backend/internal/domain/identity"
	"github.com/rently/backend/internal/domain/rental"
	"github.com/rently/backend/internal/domain/shared"
	"github.com/rently/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type rentalStack struct {
	lifecycle   *apprental.LifecycleService
	userRepo    *persistence.GormUserRepository
	assetRepo   *persistence.GormAssetRepository
	rentalRepo  *persistence.GormRentalRepository
	summaryRepo *persistence.GormFinancialSummaryRepository
	historyRepo *persistence.GormRentalHistoryRepository
}

func newRentalStack(tdb *TestDB) *rentalStack {
	userRepo := persistence.NewGormUserRepository(tdb.DB)
	assetRepo := persistence.NewGormAssetRepository(tdb.DB)
	rentalRepo := persistence.NewGormRentalRepository(tdb.DB)
	summaryRepo := persistence.NewGormFinancialSummaryRepository(tdb.DB)
	historyRepo := persistence.NewGormRentalHistoryRepository(tdb.DB)
	txScope := persistence.NewGormTransactionScope(tdb.DB)

	return &rentalStack{
		lifecycle:   apprental.NewLifecycleService(txScope, rentalRepo, assetRepo, userRepo, zap.NewNop()),
		userRepo:    userRepo,
		assetRepo:   assetRepo,
		rentalRepo:  rentalRepo,
		summaryRepo: summaryRepo,
		historyRepo: historyRepo,
	}
}

func seedUser(t *testing.T, stack *rentalStack, username string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(username, username+"@example.com", "integration-test-hash")
	require.NoError(t, err)
	require.NoError(t, stack.userRepo.Save(context.Background(), user))
	return user
}

func seedAsset(t *testing.T, stack *rentalStack, name string, pricePerDay int64, ownerID uint) *catalog.Asset {
	t.Helper()
	asset, err := catalog.NewAsset(name, "equipment", "", decimal.NewFromInt(pricePerDay), ownerID)
	require.NoError(t, err)
	require.NoError(t, stack.assetRepo.Save(context.Background(), asset))
	return asset
}

func TestRentalLifecycle(t *testing.T) {
	tdb := NewTestDB(t)
	stack := newRentalStack(tdb)
	ctx := context.Background()

	owner := seedUser(t, stack, "owner")
	renter := seedUser(t, stack, "renter")
	principal := identity.Principal{UserID: renter.ID, Username: renter.Username, Role: identity.RoleUser}

	t.Run("create computes day count excluding the end date", func(t *testing.T) {
		asset := seedAsset(t, stack, "Camera kit", 100, owner.ID)

		resp, err := stack.lifecycle.CreateRental(ctx, principal, apprental.CreateRentalRequest{
			AssetID:   asset.ID,
			StartDate: "2024-01-01",
			EndDate:   "2024-01-04",
		})
		require.NoError(t, err)
		assert.Equal(t, "300.00", resp.TotalCost)
		assert.Equal(t, "active", resp.Status)

		stored, err := stack.assetRepo.FindByID(ctx, asset.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.AssetStatusRented, stored.Status)

		january := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		bucket, err := stack.summaryRepo.FindByUserAndPeriod(ctx, renter.ID, january)
		require.NoError(t, err)
		assert.Equal(t, "300.00", bucket.TotalCost.StringFixed(2))
		assert.Equal(t, 1, bucket.TotalRentals)

		entries, err := stack.historyRepo.FindByRental(ctx, resp.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, rental.RentalStatusActive, entries[0].NewStatus)
	})

	t.Run("cancel reverses all derived state once", func(t *testing.T) {
		asset := seedAsset(t, stack, "Drone", 50, owner.ID)

		created, err := stack.lifecycle.CreateRental(ctx, principal, apprental.CreateRentalRequest{
			AssetID:   asset.ID,
			StartDate: "2024-03-01",
			EndDate:   "2024-03-05",
		})
		require.NoError(t, err)
		assert.Equal(t, "200.00", created.TotalCost)

		march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		bucket, err := stack.summaryRepo.FindByUserAndPeriod(ctx, renter.ID, march)
		require.NoError(t, err)
		assert.Equal(t, "200.00", bucket.TotalCost.StringFixed(2))

		cancelled, err := stack.lifecycle.CancelRental(ctx, principal, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", cancelled.Status)

		stored, err := stack.assetRepo.FindByID(ctx, asset.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.AssetStatusAvailable, stored.Status)

		bucket, err = stack.summaryRepo.FindByUserAndPeriod(ctx, renter.ID, march)
		require.NoError(t, err)
		assert.Equal(t, "0.00", bucket.TotalCost.StringFixed(2))
		assert.Equal(t, 0, bucket.TotalRentals)

		// A second cancel must fail and must not subtract again
		_, err = stack.lifecycle.CancelRental(ctx, principal, created.ID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrInvalidState.Code, domainErr.Code)

		bucket, err = stack.summaryRepo.FindByUserAndPeriod(ctx, renter.ID, march)
		require.NoError(t, err)
		assert.Equal(t, "0.00", bucket.TotalCost.StringFixed(2))
	})

	t.Run("rented asset cannot be booked again", func(t *testing.T) {
		asset := seedAsset(t, stack, "Projector", 25, owner.ID)

		_, err := stack.lifecycle.CreateRental(ctx, principal, apprental.CreateRentalRequest{
			AssetID:   asset.ID,
			StartDate: "2024-05-01",
			EndDate:   "2024-05-03",
		})
		require.NoError(t, err)

		_, err = stack.lifecycle.CreateRental(ctx, principal, apprental.CreateRentalRequest{
			AssetID:   asset.ID,
			StartDate: "2024-05-04",
			EndDate:   "2024-05-06",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrInvalidState.Code, domainErr.Code)
	})

	t.Run("failed create leaves no partial writes", func(t *testing.T) {
		asset := seedAsset(t, stack, "Speaker", 10, owner.ID)
		ghost := identity.Principal{UserID: 99999, Username: "ghost", Role: identity.RoleUser}

		before, err := stack.rentalRepo.Count(ctx, shared.Filter{})
		require.NoError(t, err)

		_, err = stack.lifecycle.CreateRental(ctx, ghost, apprental.CreateRentalRequest{
			AssetID:   asset.ID,
			StartDate: "2024-06-01",
			EndDate:   "2024-06-02",
		})
		require.Error(t, err)

		after, err := stack.rentalRepo.Count(ctx, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, before, after)

		stored, err := stack.assetRepo.FindByID(ctx, asset.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.AssetStatusAvailable, stored.Status)
	})
}

func TestSummaryBucketUniqueness(t *testing.T) {
	tdb := NewTestDB(t)
	stack := newRentalStack(tdb)
	ctx := context.Background()

	user := seedUser(t, stack, "bucketuser")
	period := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	first := domfinance.NewFinancialSummary(user.ID, period)
	require.NoError(t, stack.summaryRepo.Save(ctx, first))

	// The unique index forbids a second bucket for the same user and month
	second := domfinance.NewFinancialSummary(user.ID, period)
	err := stack.summaryRepo.Save(ctx, second)
	require.Error(t, err)
}
