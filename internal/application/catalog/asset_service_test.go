package catalog

import (
	"context"
	"testing"

	"github.com/rently/backend/internal/domain/catalog"
	"github.com/rently/backend/internal/domain/identity"
	"github.com/rently/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type serviceFixture struct {
	assets   *mockAssetRepo
	history  *mockStatusHistoryRepo
	rentals  *mockRentalRepo
	svc      *AssetService
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		assets:  new(mockAssetRepo),
		history: new(mockStatusHistoryRepo),
		rentals: new(mockRentalRepo),
	}
	f.svc = NewAssetService(f.assets, f.history, f.rentals, zap.NewNop())
	return f
}

func testAsset(t *testing.T, id uint, status catalog.AssetStatus) *catalog.Asset {
	t.Helper()
	asset, err := catalog.NewAsset("Excavator", "machinery", "", decimal.NewFromInt(100), 1)
	require.NoError(t, err)
	asset.ID = id
	asset.Status = status
	return asset
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

func TestAssetCreate(t *testing.T) {
	ctx := context.Background()
	admin := identity.Principal{UserID: 1, Role: identity.RoleAdmin}

	t.Run("creates an available asset", func(t *testing.T) {
		f := newFixture()
		f.assets.On("Save", ctx, mock.AnythingOfType("*catalog.Asset")).Run(func(args mock.Arguments) {
			args.Get(1).(*catalog.Asset).ID = 7
		}).Return(nil)

		resp, err := f.svc.Create(ctx, admin, CreateAssetRequest{Name: "Excavator", Category: "machinery", PricePerDay: "100"})
		require.NoError(t, err)
		assert.Equal(t, uint(7), resp.ID)
		assert.Equal(t, "available", resp.Status)
		assert.Equal(t, "100.00", resp.PricePerDay)
		assert.Equal(t, uint(1), resp.OwnerID)
	})

	t.Run("rejects a non-admin actor", func(t *testing.T) {
		f := newFixture()
		renter := identity.Principal{UserID: 2, Role: identity.RoleUser}

		_, err := f.svc.Create(ctx, renter, CreateAssetRequest{Name: "Excavator", Category: "machinery", PricePerDay: "100"})
		require.Error(t, err)
		assert.Equal(t, shared.ErrForbidden.Code, domainCode(t, err))
		f.assets.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects an unparseable price", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Create(ctx, admin, CreateAssetRequest{Name: "Excavator", PricePerDay: "a lot"})
		require.Error(t, err)
		assert.Equal(t, shared.ErrInvalidInput.Code, domainCode(t, err))
		f.assets.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects a non-positive price", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Create(ctx, admin, CreateAssetRequest{Name: "Excavator", PricePerDay: "0"})
		require.Error(t, err)
		f.assets.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAssetUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("updates details and price", func(t *testing.T) {
		f := newFixture()
		asset := testAsset(t, 7, catalog.AssetStatusAvailable)

		f.assets.On("FindByID", ctx, uint(7)).Return(asset, nil)
		f.assets.On("Save", ctx, asset).Return(nil)

		name := "Mini excavator"
		price := "80.50"
		resp, err := f.svc.Update(ctx, 7, UpdateAssetRequest{Name: &name, PricePerDay: &price})
		require.NoError(t, err)
		assert.Equal(t, "Mini excavator", resp.Name)
		assert.Equal(t, "80.50", resp.PricePerDay)
	})

	t.Run("refuses price change while rented", func(t *testing.T) {
		f := newFixture()
		asset := testAsset(t, 7, catalog.AssetStatusRented)

		f.assets.On("FindByID", ctx, uint(7)).Return(asset, nil)

		price := "200"
		_, err := f.svc.Update(ctx, 7, UpdateAssetRequest{PricePerDay: &price})
		require.Error(t, err)
		assert.Equal(t, shared.ErrInvalidState.Code, domainCode(t, err))
		f.assets.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("name change while rented is fine", func(t *testing.T) {
		f := newFixture()
		asset := testAsset(t, 7, catalog.AssetStatusRented)

		f.assets.On("FindByID", ctx, uint(7)).Return(asset, nil)
		f.assets.On("Save", ctx, asset).Return(nil)

		name := "Renamed"
		_, err := f.svc.Update(ctx, 7, UpdateAssetRequest{Name: &name})
		require.NoError(t, err)
	})
}

func TestAssetDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an asset without active rentals", func(t *testing.T) {
		f := newFixture()

		f.assets.On("FindByID", ctx, uint(7)).Return(testAsset(t, 7, catalog.AssetStatusAvailable), nil)
		f.rentals.On("CountActiveByAsset", ctx, uint(7)).Return(int64(0), nil)
		f.assets.On("Delete", ctx, uint(7)).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, 7))
		f.assets.AssertExpectations(t)
	})

	t.Run("refuses while a rental is active", func(t *testing.T) {
		f := newFixture()

		f.assets.On("FindByID", ctx, uint(7)).Return(testAsset(t, 7, catalog.AssetStatusRented), nil)
		f.rentals.On("CountActiveByAsset", ctx, uint(7)).Return(int64(1), nil)

		err := f.svc.Delete(ctx, 7)
		require.Error(t, err)
		assert.Equal(t, shared.ErrInvalidState.Code, domainCode(t, err))
		f.assets.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing asset", func(t *testing.T) {
		f := newFixture()

		f.assets.On("FindByID", ctx, uint(9)).Return(nil, shared.ErrNotFound)

		assert.ErrorIs(t, f.svc.Delete(ctx, 9), shared.ErrNotFound)
	})
}

func TestMaintenanceTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("start and complete record the audit trail", func(t *testing.T) {
		f := newFixture()
		asset := testAsset(t, 7, catalog.AssetStatusAvailable)

		f.assets.On("FindByID", ctx, uint(7)).Return(asset, nil)
		f.assets.On("SaveWithVersion", ctx, asset, 1).Return(nil)
		f.history.On("Append", ctx, mock.MatchedBy(func(h *catalog.StatusHistory) bool {
			return h.AssetID == 7 &&
				h.PreviousStatus == catalog.AssetStatusAvailable &&
				h.NewStatus == catalog.AssetStatusUnderMaintenance
		})).Return(nil)

		resp, err := f.svc.StartMaintenance(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "under_maintenance", resp.Status)

		f.assets.On("SaveWithVersion", ctx, asset, 2).Return(nil)
		f.history.On("Append", ctx, mock.MatchedBy(func(h *catalog.StatusHistory) bool {
			return h.PreviousStatus == catalog.AssetStatusUnderMaintenance &&
				h.NewStatus == catalog.AssetStatusAvailable
		})).Return(nil)

		resp, err = f.svc.CompleteMaintenance(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "available", resp.Status)
		f.history.AssertExpectations(t)
	})

	t.Run("cannot start maintenance on a rented asset", func(t *testing.T) {
		f := newFixture()
		asset := testAsset(t, 7, catalog.AssetStatusRented)

		f.assets.On("FindByID", ctx, uint(7)).Return(asset, nil)

		_, err := f.svc.StartMaintenance(ctx, 7)
		require.Error(t, err)
		assert.Equal(t, shared.ErrInvalidState.Code, domainCode(t, err))
		f.assets.AssertNotCalled(t, "SaveWithVersion", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("losing the version race surfaces the conflict", func(t *testing.T) {
		f := newFixture()
		asset := testAsset(t, 7, catalog.AssetStatusAvailable)

		f.assets.On("FindByID", ctx, uint(7)).Return(asset, nil)
		f.assets.On("SaveWithVersion", ctx, asset, 1).Return(shared.ErrConcurrencyConflict)

		_, err := f.svc.StartMaintenance(ctx, 7)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		f.history.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}

func TestListStatusHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	asset := testAsset(t, 7, catalog.AssetStatusAvailable)
	filter := shared.DefaultFilter()

	records := []catalog.StatusHistory{
		*catalog.NewStatusHistory(7, catalog.AssetStatusRented, catalog.AssetStatusAvailable),
		*catalog.NewStatusHistory(7, catalog.AssetStatusAvailable, catalog.AssetStatusRented),
	}
	f.assets.On("FindByID", ctx, uint(7)).Return(asset, nil)
	f.history.On("FindByAsset", ctx, uint(7), filter).Return(records, nil)
	f.history.On("CountByAsset", ctx, uint(7)).Return(int64(2), nil)

	page, err := f.svc.ListStatusHistory(ctx, 7, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "available", page.Items[0].NewStatus)
}
