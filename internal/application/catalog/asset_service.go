package catalog

import (
	"context"
	"errors"

	"github.com/rently/backend/internal/domain/catalog"
	"github.com/rently/backend/internal/domain/identity"
	"github.com/rently/backend/internal/domain/rental"
	"github.com/rently/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AssetService manages the rentable catalog: CRUD plus the maintenance
// transitions that are not driven by the rental lifecycle.
type AssetService struct {
	assetRepo   catalog.AssetRepository
	historyRepo catalog.StatusHistoryRepository
	rentalRepo  rental.RentalRepository
	logger      *zap.Logger
}

// NewAssetService creates a new catalog service
func NewAssetService(
	assetRepo catalog.AssetRepository,
	historyRepo catalog.StatusHistoryRepository,
	rentalRepo rental.RentalRepository,
	logger *zap.Logger,
) *AssetService {
	return &AssetService{
		assetRepo:   assetRepo,
		historyRepo: historyRepo,
		rentalRepo:  rentalRepo,
		logger:      logger,
	}
}

// Create adds a new asset owned by the acting administrator.
func (s *AssetService) Create(ctx context.Context, actor identity.Principal, req CreateAssetRequest) (*AssetResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden.WithMessage("Only administrators can create assets")
	}

	price, err := parsePrice(req.PricePerDay)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("Invalid price: " + req.PricePerDay)
	}

	asset, err := catalog.NewAsset(req.Name, req.Category, req.Description, price, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.assetRepo.Save(ctx, asset); err != nil {
		return nil, err
	}

	s.logger.Info("asset created",
		zap.Uint("asset_id", asset.ID),
		zap.String("name", asset.Name),
		zap.Uint("owner_id", asset.OwnerID))

	response := ToAssetResponse(asset)
	return &response, nil
}

// Get returns one asset by ID.
func (s *AssetService) Get(ctx context.Context, id uint) (*AssetResponse, error) {
	asset, err := s.assetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToAssetResponse(asset)
	return &response, nil
}

// List returns a page of assets.
func (s *AssetService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[AssetResponse], error) {
	assets, err := s.assetRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.assetRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]AssetResponse, 0, len(assets))
	for i := range assets {
		items = append(items, ToAssetResponse(&assets[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update edits asset details. Price changes are refused while the asset
// is rented so the renter's agreed rate is never disturbed mid-rental;
// rentals keep the cost computed at creation time either way.
func (s *AssetService) Update(ctx context.Context, id uint, req UpdateAssetRequest) (*AssetResponse, error) {
	asset, err := s.assetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := asset.SetName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		asset.SetCategory(*req.Category)
	}
	if req.Description != nil {
		asset.SetDescription(*req.Description)
	}
	if req.PricePerDay != nil {
		if asset.Status == catalog.AssetStatusRented {
			return nil, shared.ErrInvalidState.WithMessage("Cannot change the price of a rented asset")
		}
		price, err := parsePrice(*req.PricePerDay)
		if err != nil {
			return nil, shared.ErrInvalidInput.WithMessage("Invalid price: " + *req.PricePerDay)
		}
		if err := asset.SetPricePerDay(price); err != nil {
			return nil, err
		}
	}

	if err := s.assetRepo.Save(ctx, asset); err != nil {
		return nil, err
	}
	response := ToAssetResponse(asset)
	return &response, nil
}

// Delete removes an asset from the catalog. Assets with an active rental
// cannot be deleted; the rental must be cancelled or completed first.
func (s *AssetService) Delete(ctx context.Context, id uint) error {
	if _, err := s.assetRepo.FindByID(ctx, id); err != nil {
		return err
	}

	active, err := s.rentalRepo.CountActiveByAsset(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return shared.ErrInvalidState.WithMessage("Cannot delete an asset with an active rental")
	}

	if err := s.assetRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("asset deleted", zap.Uint("asset_id", id))
	return nil
}

// StartMaintenance takes an available asset out of service.
func (s *AssetService) StartMaintenance(ctx context.Context, id uint) (*AssetResponse, error) {
	return s.transition(ctx, id, catalog.AssetEventStartMaintenance)
}

// CompleteMaintenance returns an asset from maintenance to the pool.
func (s *AssetService) CompleteMaintenance(ctx context.Context, id uint) (*AssetResponse, error) {
	return s.transition(ctx, id, catalog.AssetEventCompleteMaintenance)
}

// transition applies an asset status event with an optimistic concurrency
// check and records the change in the status audit trail.
func (s *AssetService) transition(ctx context.Context, id uint, event catalog.AssetEvent) (*AssetResponse, error) {
	asset, err := s.assetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	expectedVersion := asset.Version
	previous, err := asset.Apply(event)
	if err != nil {
		return nil, err
	}
	if err := s.assetRepo.SaveWithVersion(ctx, asset, expectedVersion); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			s.logger.Warn("concurrent asset transition lost",
				zap.Uint("asset_id", id),
				zap.String("event", string(event)))
		}
		return nil, err
	}
	if err := s.historyRepo.Append(ctx, catalog.NewStatusHistory(asset.ID, previous, asset.Status)); err != nil {
		return nil, err
	}

	s.logger.Info("asset status changed",
		zap.Uint("asset_id", asset.ID),
		zap.String("previous", string(previous)),
		zap.String("new", string(asset.Status)))

	response := ToAssetResponse(asset)
	return &response, nil
}

// ListStatusHistory returns the status audit trail for an asset, newest
// first.
func (s *AssetService) ListStatusHistory(ctx context.Context, assetID uint, filter shared.Filter) (*shared.Paginated[StatusHistoryResponse], error) {
	if _, err := s.assetRepo.FindByID(ctx, assetID); err != nil {
		return nil, err
	}

	records, err := s.historyRepo.FindByAsset(ctx, assetID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.historyRepo.CountByAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	items := make([]StatusHistoryResponse, 0, len(records))
	for i := range records {
		items = append(items, ToStatusHistoryResponse(&records[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}
