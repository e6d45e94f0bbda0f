package rental

import (
	"context"
	"testing"
	"time"

	"github.com/rently/backend/internal/domain/catalog"
	"github.com/rently/backend/internal/domain/finance"
	"github.com/rently/backend/internal/domain/identity"
	"github.com/rently/backend/internal/domain/rental"
	"github.com/rently/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Stateful in-memory repositories used to exercise whole lifecycle
// sequences where mock call scripting would obscure the behaviour under
// test. Not safe for concurrent use; tests are sequential.

type memStore struct {
	rentals         map[uint]*rental.Rental
	rentalHistories []rental.RentalHistory
	assets          map[uint]*catalog.Asset
	statusHistories []catalog.StatusHistory
	summaries       map[uint]*finance.FinancialSummary
	users           map[uint]*identity.User
	nextID          uint
}

func newMemStore() *memStore {
	return &memStore{
		rentals:   make(map[uint]*rental.Rental),
		assets:    make(map[uint]*catalog.Asset),
		summaries: make(map[uint]*finance.FinancialSummary),
		users:     make(map[uint]*identity.User),
		nextID:    1,
	}
}

func (s *memStore) id() uint {
	id := s.nextID
	s.nextID++
	return id
}

type memRentalRepo struct{ s *memStore }

func (r memRentalRepo) FindByID(_ context.Context, id uint) (*rental.Rental, error) {
	if rent, ok := r.s.rentals[id]; ok {
		copied := *rent
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r memRentalRepo) FindAll(_ context.Context, _ shared.Filter) ([]rental.Rental, error) {
	out := make([]rental.Rental, 0, len(r.s.rentals))
	for _, rent := range r.s.rentals {
		out = append(out, *rent)
	}
	return out, nil
}

func (r memRentalRepo) Save(_ context.Context, entity *rental.Rental) error {
	if entity.ID == 0 {
		entity.ID = r.s.id()
	}
	copied := *entity
	r.s.rentals[entity.ID] = &copied
	return nil
}

func (r memRentalRepo) Delete(_ context.Context, id uint) error {
	delete(r.s.rentals, id)
	return nil
}

func (r memRentalRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.s.rentals)), nil
}

func (r memRentalRepo) FindByUser(_ context.Context, userID uint, _ shared.Filter) ([]rental.Rental, error) {
	var out []rental.Rental
	for _, rent := range r.s.rentals {
		if rent.UserID == userID {
			out = append(out, *rent)
		}
	}
	return out, nil
}

func (r memRentalRepo) CountActiveByAsset(_ context.Context, assetID uint) (int64, error) {
	var n int64
	for _, rent := range r.s.rentals {
		if rent.AssetID == assetID && rent.IsActive() {
			n++
		}
	}
	return n, nil
}

func (r memRentalRepo) CountByStatus(_ context.Context, status rental.RentalStatus) (int64, error) {
	var n int64
	for _, rent := range r.s.rentals {
		if rent.Status == status {
			n++
		}
	}
	return n, nil
}

func (r memRentalRepo) FindByUserAndPeriod(_ context.Context, userID uint, periodStart, periodEnd time.Time) ([]rental.Rental, error) {
	var out []rental.Rental
	for _, rent := range r.s.rentals {
		if rent.UserID == userID && !rent.StartDate.Before(periodStart) && !rent.StartDate.After(periodEnd) {
			out = append(out, *rent)
		}
	}
	return out, nil
}

type memRentalHistoryRepo struct{ s *memStore }

func (r memRentalHistoryRepo) Append(_ context.Context, record *rental.RentalHistory) error {
	record.ID = r.s.id()
	r.s.rentalHistories = append(r.s.rentalHistories, *record)
	return nil
}

func (r memRentalHistoryRepo) FindByRental(_ context.Context, rentalID uint) ([]rental.RentalHistory, error) {
	var out []rental.RentalHistory
	for _, h := range r.s.rentalHistories {
		if h.RentalID == rentalID {
			out = append(out, h)
		}
	}
	return out, nil
}

type memAssetRepo struct{ s *memStore }

func (r memAssetRepo) FindByID(_ context.Context, id uint) (*catalog.Asset, error) {
	if asset, ok := r.s.assets[id]; ok {
		copied := *asset
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r memAssetRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Asset, error) {
	out := make([]catalog.Asset, 0, len(r.s.assets))
	for _, asset := range r.s.assets {
		out = append(out, *asset)
	}
	return out, nil
}

func (r memAssetRepo) Save(_ context.Context, entity *catalog.Asset) error {
	if entity.ID == 0 {
		entity.ID = r.s.id()
	}
	copied := *entity
	r.s.assets[entity.ID] = &copied
	return nil
}

func (r memAssetRepo) Delete(_ context.Context, id uint) error {
	delete(r.s.assets, id)
	return nil
}

func (r memAssetRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.s.assets)), nil
}

func (r memAssetRepo) SaveWithVersion(_ context.Context, asset *catalog.Asset, expectedVersion int) error {
	stored, ok := r.s.assets[asset.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	copied := *asset
	r.s.assets[asset.ID] = &copied
	return nil
}

func (r memAssetRepo) CountByStatus(_ context.Context, status catalog.AssetStatus) (int64, error) {
	var n int64
	for _, asset := range r.s.assets {
		if asset.Status == status {
			n++
		}
	}
	return n, nil
}

type memStatusHistoryRepo struct{ s *memStore }

func (r memStatusHistoryRepo) Append(_ context.Context, record *catalog.StatusHistory) error {
	record.ID = r.s.id()
	r.s.statusHistories = append(r.s.statusHistories, *record)
	return nil
}

func (r memStatusHistoryRepo) FindByAsset(_ context.Context, assetID uint, _ shared.Filter) ([]catalog.StatusHistory, error) {
	var out []catalog.StatusHistory
	for _, h := range r.s.statusHistories {
		if h.AssetID == assetID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r memStatusHistoryRepo) CountByAsset(_ context.Context, assetID uint) (int64, error) {
	records, _ := r.FindByAsset(context.Background(), assetID, shared.Filter{})
	return int64(len(records)), nil
}

type memSummaryRepo struct{ s *memStore }

func (r memSummaryRepo) FindByID(_ context.Context, id uint) (*finance.FinancialSummary, error) {
	if summary, ok := r.s.summaries[id]; ok {
		copied := *summary
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r memSummaryRepo) FindAll(_ context.Context, _ shared.Filter) ([]finance.FinancialSummary, error) {
	out := make([]finance.FinancialSummary, 0, len(r.s.summaries))
	for _, summary := range r.s.summaries {
		out = append(out, *summary)
	}
	return out, nil
}

func (r memSummaryRepo) Save(_ context.Context, entity *finance.FinancialSummary) error {
	if entity.ID == 0 {
		entity.ID = r.s.id()
	}
	copied := *entity
	r.s.summaries[entity.ID] = &copied
	return nil
}

func (r memSummaryRepo) Delete(_ context.Context, id uint) error {
	delete(r.s.summaries, id)
	return nil
}

func (r memSummaryRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.s.summaries)), nil
}

func (r memSummaryRepo) FindByUser(_ context.Context, userID uint) ([]finance.FinancialSummary, error) {
	var out []finance.FinancialSummary
	for _, summary := range r.s.summaries {
		if summary.UserID == userID {
			out = append(out, *summary)
		}
	}
	return out, nil
}

func (r memSummaryRepo) FindByUserAndPeriod(_ context.Context, userID uint, periodStart time.Time) (*finance.FinancialSummary, error) {
	for _, summary := range r.s.summaries {
		if summary.UserID == userID && summary.PeriodStart.Equal(periodStart) {
			copied := *summary
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memSummaryRepo) SumCostForPeriod(_ context.Context, periodStart time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, summary := range r.s.summaries {
		if summary.PeriodStart.Equal(periodStart) {
			total = total.Add(summary.TotalCost)
		}
	}
	return total, nil
}

type memUserRepo struct{ s *memStore }

func (r memUserRepo) FindByID(_ context.Context, id uint) (*identity.User, error) {
	if user, ok := r.s.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r memUserRepo) FindAll(_ context.Context, _ shared.Filter) ([]identity.User, error) {
	out := make([]identity.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		out = append(out, *user)
	}
	return out, nil
}

func (r memUserRepo) Save(_ context.Context, entity *identity.User) error {
	if entity.ID == 0 {
		entity.ID = r.s.id()
	}
	copied := *entity
	r.s.users[entity.ID] = &copied
	return nil
}

func (r memUserRepo) Delete(_ context.Context, id uint) error {
	delete(r.s.users, id)
	return nil
}

func (r memUserRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.s.users)), nil
}

func (r memUserRepo) FindByUsername(_ context.Context, username string) (*identity.User, error) {
	for _, user := range r.s.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memUserRepo) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	for _, user := range r.s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memUserRepo) CountByRole(_ context.Context, role identity.Role) (int64, error) {
	var n int64
	for _, user := range r.s.users {
		if user.Role == role {
			n++
		}
	}
	return n, nil
}

func newScenarioService(t *testing.T) (*LifecycleService, *memStore) {
	t.Helper()
	store := newMemStore()
	scope := NewNoOpTransactionScope(
		memRentalRepo{store}, memRentalHistoryRepo{store}, memAssetRepo{store},
		memStatusHistoryRepo{store}, memSummaryRepo{store}, memUserRepo{store})
	svc := NewLifecycleService(scope, memRentalRepo{store}, memAssetRepo{store}, memUserRepo{store}, zap.NewNop())
	return svc, store
}

func seedScenario(t *testing.T, store *memStore, price int64) (identity.Principal, uint) {
	t.Helper()
	ctx := context.Background()

	user, err := identity.NewUser("alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, memUserRepo{store}.Save(ctx, user))

	asset, err := catalog.NewAsset("Camera", "electronics", "", decimal.NewFromInt(price), user.ID)
	require.NoError(t, err)
	require.NoError(t, memAssetRepo{store}.Save(ctx, asset))

	return identity.Principal{UserID: user.ID, Username: user.Username, Role: identity.RoleUser}, asset.ID
}

func TestRentalLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	svc, store := newScenarioService(t)
	principal, assetID := seedScenario(t, store, 50)
	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// Create: 4 days at 50/day.
	resp, err := svc.CreateRental(ctx, principal, CreateRentalRequest{
		AssetID:   assetID,
		StartDate: "2024-03-01",
		EndDate:   "2024-03-05",
	})
	require.NoError(t, err)
	assert.Equal(t, "200.00", resp.TotalCost)

	asset := store.assets[assetID]
	assert.Equal(t, catalog.AssetStatusRented, asset.Status)

	summary, err := memSummaryRepo{store}.FindByUserAndPeriod(ctx, principal.UserID, march)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalRentals)
	assert.True(t, summary.TotalCost.Equal(decimal.NewFromInt(200)))

	// A second create against the same asset must fail and write nothing.
	historyCount := len(store.statusHistories)
	_, err = svc.CreateRental(ctx, principal, CreateRentalRequest{
		AssetID:   assetID,
		StartDate: "2024-03-10",
		EndDate:   "2024-03-12",
	})
	require.Error(t, err)
	assert.Len(t, store.statusHistories, historyCount)
	assert.Len(t, store.rentals, 1)

	// Cancel: everything reverses, clamped at zero.
	_, err = svc.CancelRental(ctx, principal, resp.ID)
	require.NoError(t, err)

	asset = store.assets[assetID]
	assert.Equal(t, catalog.AssetStatusAvailable, asset.Status)

	summary, err = memSummaryRepo{store}.FindByUserAndPeriod(ctx, principal.UserID, march)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalRentals)
	assert.True(t, summary.TotalCost.IsZero())

	// Cancel again: conflict, no double subtract.
	_, err = svc.CancelRental(ctx, principal, resp.ID)
	require.Error(t, err)
	summary, err = memSummaryRepo{store}.FindByUserAndPeriod(ctx, principal.UserID, march)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalRentals)
	assert.True(t, summary.TotalCost.IsZero())

	// The asset can be rented again after cancellation.
	resp2, err := svc.CreateRental(ctx, principal, CreateRentalRequest{
		AssetID:   assetID,
		StartDate: "2024-03-10",
		EndDate:   "2024-03-12",
	})
	require.NoError(t, err)
	assert.Equal(t, "100.00", resp2.TotalCost)
	assert.Equal(t, catalog.AssetStatusRented, store.assets[assetID].Status)

	// One bucket per (user, month): totals accumulate in place.
	summaries, err := memSummaryRepo{store}.FindByUser(ctx, principal.UserID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].TotalRentals)
	assert.True(t, summaries[0].TotalCost.Equal(decimal.NewFromInt(100)))
}

func TestRentalAuditTrail(t *testing.T) {
	ctx := context.Background()
	svc, store := newScenarioService(t)
	principal, assetID := seedScenario(t, store, 100)

	resp, err := svc.CreateRental(ctx, principal, CreateRentalRequest{
		AssetID:   assetID,
		StartDate: "2024-01-01",
		EndDate:   "2024-01-04",
	})
	require.NoError(t, err)
	_, err = svc.CancelRental(ctx, principal, resp.ID)
	require.NoError(t, err)

	history, err := svc.ListRentalHistory(ctx, principal, resp.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "", history[0].PreviousStatus)
	assert.Equal(t, string(rental.RentalStatusActive), history[0].NewStatus)
	assert.Equal(t, string(rental.RentalStatusActive), history[1].PreviousStatus)
	assert.Equal(t, string(rental.RentalStatusCancelled), history[1].NewStatus)

	statuses, err := memStatusHistoryRepo{store}.FindByAsset(ctx, assetID, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, catalog.AssetStatusAvailable, statuses[0].PreviousStatus)
	assert.Equal(t, catalog.AssetStatusRented, statuses[0].NewStatus)
	assert.Equal(t, catalog.AssetStatusRented, statuses[1].PreviousStatus)
	assert.Equal(t, catalog.AssetStatusAvailable, statuses[1].NewStatus)
}
