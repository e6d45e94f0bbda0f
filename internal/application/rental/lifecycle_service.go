package rental

import (
	"context"
	"errors"
	"time"

	"github.com/rently/backend/internal/domain/catalog"
	"github.com/rently/backend/internal/domain/finance"
	"github.com/rently/backend/internal/domain/identity"
	"github.com/rently/backend/internal/domain/rental"
	"github.com/rently/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LifecycleService owns the state transitions of rentals and the derived
// state that must stay consistent with them: the asset status, both audit
// logs, and the monthly financial summary buckets. Every mutation runs
// inside a single transaction scope; a failure anywhere discards all
// pending writes.
type LifecycleService struct {
	txScope    TransactionScope
	rentalRepo rental.RentalRepository
	assetRepo  catalog.AssetRepository
	userRepo   identity.UserRepository
	logger     *zap.Logger
}

// NewLifecycleService creates a new LifecycleService. The standalone
// repositories serve reads outside any transaction.
func NewLifecycleService(
	txScope TransactionScope,
	rentalRepo rental.RentalRepository,
	assetRepo catalog.AssetRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *LifecycleService {
	return &LifecycleService{
		txScope:    txScope,
		rentalRepo: rentalRepo,
		assetRepo:  assetRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// CreateRental creates an active rental for the principal, flips the asset
// to rented, appends both audit records, and folds the cost into the
// month's summary bucket, all atomically.
//
// Precondition failures map to distinct errors: unparseable or inverted
// dates are invalid input, a missing asset or user is not found, and a
// non-available asset is an invalid state.
func (s *LifecycleService) CreateRental(ctx context.Context, principal identity.Principal, req CreateRentalRequest) (*RentalResponse, error) {
	start, err := time.ParseInLocation(DateLayout, req.StartDate, time.UTC)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("Start date must be formatted as YYYY-MM-DD")
	}
	end, err := time.ParseInLocation(DateLayout, req.EndDate, time.UTC)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("End date must be formatted as YYYY-MM-DD")
	}
	if !end.After(start) {
		return nil, shared.ErrInvalidInput.WithMessage("End date must be after start date")
	}

	var created *rental.Rental
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		asset, err := repos.AssetRepo().FindByID(ctx, req.AssetID)
		if err != nil {
			return err
		}
		if !asset.IsAvailable() {
			return shared.ErrInvalidState.WithMessage("Asset is not available for rent")
		}

		user, err := repos.UserRepo().FindByID(ctx, principal.UserID)
		if err != nil {
			return err
		}

		newRental, err := rental.NewRental(user.ID, asset.ID, start, end, asset.PricePerDay)
		if err != nil {
			return err
		}
		if err := repos.RentalRepo().Save(ctx, newRental); err != nil {
			return err
		}

		// The version check serializes concurrent transitions: of two
		// racing creates, one commits and the other sees a concurrency
		// conflict instead of double-booking the asset.
		expectedVersion := asset.Version
		previous, err := asset.Apply(catalog.AssetEventRent)
		if err != nil {
			return err
		}
		if err := repos.AssetRepo().SaveWithVersion(ctx, asset, expectedVersion); err != nil {
			return err
		}
		if err := repos.StatusHistoryRepo().Append(ctx, catalog.NewStatusHistory(asset.ID, previous, asset.Status)); err != nil {
			return err
		}
		if err := repos.RentalHistoryRepo().Append(ctx, rental.NewRentalHistory(newRental.ID, "", rental.RentalStatusActive)); err != nil {
			return err
		}

		if err := s.addToSummary(ctx, repos, newRental); err != nil {
			return err
		}

		created = newRental
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("rental created",
		zap.Uint("rental_id", created.ID),
		zap.Uint("asset_id", created.AssetID),
		zap.Uint("user_id", created.UserID),
		zap.String("total_cost", created.TotalCost.String()))

	response := ToRentalResponse(created)
	return &response, nil
}

// CancelRental cancels an active rental owned by the principal (admins may
// cancel any). The asset returns to available and the month's summary
// bucket gives back the rental's cost, clamped at zero, all atomically.
func (s *LifecycleService) CancelRental(ctx context.Context, principal identity.Principal, rentalID uint) (*RentalResponse, error) {
	var cancelled *rental.Rental
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		rent, err := repos.RentalRepo().FindByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if !principal.CanActFor(rent.UserID) {
			return shared.ErrForbidden.WithMessage("Only the renting user or an administrator can cancel a rental")
		}
		if err := rent.Cancel(); err != nil {
			return err
		}
		if err := repos.RentalRepo().Save(ctx, rent); err != nil {
			return err
		}
		if err := repos.RentalHistoryRepo().Append(ctx, rental.NewRentalHistory(rent.ID, rental.RentalStatusActive, rental.RentalStatusCancelled)); err != nil {
			return err
		}

		if err := s.releaseAsset(ctx, repos, rent.AssetID); err != nil {
			return err
		}
		if err := s.removeFromSummary(ctx, repos, rent); err != nil {
			return err
		}

		cancelled = rent
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("rental cancelled",
		zap.Uint("rental_id", cancelled.ID),
		zap.Uint("asset_id", cancelled.AssetID),
		zap.Uint("actor_user_id", principal.UserID))

	response := ToRentalResponse(cancelled)
	return &response, nil
}

// GetRental returns one rental. Non-admins can only read their own.
func (s *LifecycleService) GetRental(ctx context.Context, principal identity.Principal, rentalID uint) (*RentalResponse, error) {
	rent, err := s.rentalRepo.FindByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !principal.CanActFor(rent.UserID) {
		return nil, shared.ErrForbidden.WithMessage("Cannot view another user's rental")
	}
	response := ToRentalResponse(rent)
	return &response, nil
}

// ListRentals returns all rentals for admins, or the principal's own
// otherwise, with asset names and usernames denormalized for display.
func (s *LifecycleService) ListRentals(ctx context.Context, principal identity.Principal, filter shared.Filter) ([]RentalListItemResponse, error) {
	var (
		rentals []rental.Rental
		err     error
	)
	if principal.IsAdmin() {
		rentals, err = s.rentalRepo.FindAll(ctx, filter)
	} else {
		rentals, err = s.rentalRepo.FindByUser(ctx, principal.UserID, filter)
	}
	if err != nil {
		return nil, err
	}

	assetNames := make(map[uint]string)
	usernames := make(map[uint]string)
	items := make([]RentalListItemResponse, 0, len(rentals))
	for _, r := range rentals {
		if _, ok := assetNames[r.AssetID]; !ok {
			asset, err := s.assetRepo.FindByID(ctx, r.AssetID)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			if asset != nil {
				assetNames[r.AssetID] = asset.Name
			} else {
				assetNames[r.AssetID] = ""
			}
		}
		if _, ok := usernames[r.UserID]; !ok {
			user, err := s.userRepo.FindByID(ctx, r.UserID)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			if user != nil {
				usernames[r.UserID] = user.Username
			} else {
				usernames[r.UserID] = ""
			}
		}

		items = append(items, RentalListItemResponse{
			ID:        r.ID,
			UserID:    r.UserID,
			Username:  usernames[r.UserID],
			AssetID:   r.AssetID,
			AssetName: assetNames[r.AssetID],
			StartDate: r.StartDate.Format(DateLayout),
			EndDate:   r.EndDate.Format(DateLayout),
			TotalCost: r.TotalCost.StringFixed(2),
			Status:    string(r.Status),
		})
	}
	return items, nil
}

// ListRentalHistory returns the audit trail of one rental.
func (s *LifecycleService) ListRentalHistory(ctx context.Context, principal identity.Principal, rentalID uint) ([]RentalHistoryResponse, error) {
	rent, err := s.rentalRepo.FindByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !principal.CanActFor(rent.UserID) {
		return nil, shared.ErrForbidden.WithMessage("Cannot view another user's rental")
	}

	var records []rental.RentalHistory
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		records, err = repos.RentalHistoryRepo().FindByRental(ctx, rentalID)
		return err
	})
	if err != nil {
		return nil, err
	}

	items := make([]RentalHistoryResponse, 0, len(records))
	for _, record := range records {
		items = append(items, ToRentalHistoryResponse(record))
	}
	return items, nil
}

// addToSummary folds a new rental into the bucket for the calendar month
// of its start date, creating the bucket if the month has none yet. The
// unique (user, period_start) index backs up the find-or-create.
func (s *LifecycleService) addToSummary(ctx context.Context, repos TransactionalRepositories, r *rental.Rental) error {
	periodStart, _ := finance.PeriodBounds(r.StartDate)
	summary, err := repos.SummaryRepo().FindByUserAndPeriod(ctx, r.UserID, periodStart)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		summary = finance.NewFinancialSummary(r.UserID, r.StartDate)
	}
	summary.AddRental(r.TotalCost)
	return repos.SummaryRepo().Save(ctx, summary)
}

// removeFromSummary reverses a cancelled rental's contribution. A missing
// bucket is tolerated as a recoverable inconsistency, not an error.
func (s *LifecycleService) removeFromSummary(ctx context.Context, repos TransactionalRepositories, r *rental.Rental) error {
	periodStart, _ := finance.PeriodBounds(r.StartDate)
	summary, err := repos.SummaryRepo().FindByUserAndPeriod(ctx, r.UserID, periodStart)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("no summary bucket to reverse for cancelled rental",
				zap.Uint("rental_id", r.ID),
				zap.Uint("user_id", r.UserID),
				zap.Time("period_start", periodStart))
			return nil
		}
		return err
	}
	summary.RemoveRental(r.TotalCost)
	return repos.SummaryRepo().Save(ctx, summary)
}

// releaseAsset returns the asset to available when its rental is
// cancelled. An asset found in any state other than rented is tolerated:
// the cancellation proceeds and the mismatch is logged for repair.
func (s *LifecycleService) releaseAsset(ctx context.Context, repos TransactionalRepositories, assetID uint) error {
	asset, err := repos.AssetRepo().FindByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("asset missing while cancelling rental", zap.Uint("asset_id", assetID))
			return nil
		}
		return err
	}
	if asset.Status != catalog.AssetStatusRented {
		s.logger.Warn("asset not in rented state while cancelling rental",
			zap.Uint("asset_id", assetID),
			zap.String("status", string(asset.Status)))
		return nil
	}

	expectedVersion := asset.Version
	previous, err := asset.Apply(catalog.AssetEventReturn)
	if err != nil {
		return err
	}
	if err := repos.AssetRepo().SaveWithVersion(ctx, asset, expectedVersion); err != nil {
		return err
	}
	return repos.StatusHistoryRepo().Append(ctx, catalog.NewStatusHistory(asset.ID, previous, asset.Status))
}
