package rental

import (
	"context"
	"time"

	"github.com/rently/backend/internal/domain/catalog"
	"github.com/rently/backend/internal/domain/finance"
	"github.com/rently/backend/internal/domain/identity"
	"github.com/rently/backend/internal/domain/rental"
	"github.com/rently/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockRentalRepo struct {
	mock.Mock
}

func (m *mockRentalRepo) FindByID(ctx context.Context, id uint) (*rental.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Rental), args.Error(1)
}

func (m *mockRentalRepo) FindAll(ctx context.Context, filter shared.Filter) ([]rental.Rental, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.Rental), args.Error(1)
}

func (m *mockRentalRepo) Save(ctx context.Context, entity *rental.Rental) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *mockRentalRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRentalRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRentalRepo) FindByUser(ctx context.Context, userID uint, filter shared.Filter) ([]rental.Rental, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.Rental), args.Error(1)
}

func (m *mockRentalRepo) CountActiveByAsset(ctx context.Context, assetID uint) (int64, error) {
	args := m.Called(ctx, assetID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRentalRepo) CountByStatus(ctx context.Context, status rental.RentalStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRentalRepo) FindByUserAndPeriod(ctx context.Context, userID uint, periodStart, periodEnd time.Time) ([]rental.Rental, error) {
	args := m.Called(ctx, userID, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.Rental), args.Error(1)
}

type mockRentalHistoryRepo struct {
	mock.Mock
}

func (m *mockRentalHistoryRepo) Append(ctx context.Context, record *rental.RentalHistory) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockRentalHistoryRepo) FindByRental(ctx context.Context, rentalID uint) ([]rental.RentalHistory, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.RentalHistory), args.Error(1)
}

type mockAssetRepo struct {
	mock.Mock
}

func (m *mockAssetRepo) FindByID(ctx context.Context, id uint) (*catalog.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Asset), args.Error(1)
}

func (m *mockAssetRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Asset, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Asset), args.Error(1)
}

func (m *mockAssetRepo) Save(ctx context.Context, entity *catalog.Asset) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *mockAssetRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAssetRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAssetRepo) SaveWithVersion(ctx context.Context, asset *catalog.Asset, expectedVersion int) error {
	args := m.Called(ctx, asset, expectedVersion)
	return args.Error(0)
}

func (m *mockAssetRepo) CountByStatus(ctx context.Context, status catalog.AssetStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

type mockStatusHistoryRepo struct {
	mock.Mock
}

func (m *mockStatusHistoryRepo) Append(ctx context.Context, record *catalog.StatusHistory) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockStatusHistoryRepo) FindByAsset(ctx context.Context, assetID uint, filter shared.Filter) ([]catalog.StatusHistory, error) {
	args := m.Called(ctx, assetID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.StatusHistory), args.Error(1)
}

func (m *mockStatusHistoryRepo) CountByAsset(ctx context.Context, assetID uint) (int64, error) {
	args := m.Called(ctx, assetID)
	return args.Get(0).(int64), args.Error(1)
}

type mockSummaryRepo struct {
	mock.Mock
}

func (m *mockSummaryRepo) FindByID(ctx context.Context, id uint) (*finance.FinancialSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.FinancialSummary), args.Error(1)
}

func (m *mockSummaryRepo) FindAll(ctx context.Context, filter shared.Filter) ([]finance.FinancialSummary, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.FinancialSummary), args.Error(1)
}

func (m *mockSummaryRepo) Save(ctx context.Context, entity *finance.FinancialSummary) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *mockSummaryRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSummaryRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSummaryRepo) FindByUser(ctx context.Context, userID uint) ([]finance.FinancialSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.FinancialSummary), args.Error(1)
}

func (m *mockSummaryRepo) FindByUserAndPeriod(ctx context.Context, userID uint, periodStart time.Time) (*finance.FinancialSummary, error) {
	args := m.Called(ctx, userID, periodStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.FinancialSummary), args.Error(1)
}

func (m *mockSummaryRepo) SumCostForPeriod(ctx context.Context, periodStart time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, periodStart)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepo) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *mockUserRepo) Save(ctx context.Context, entity *identity.User) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepo) CountByRole(ctx context.Context, role identity.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}
