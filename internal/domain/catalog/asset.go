package catalog

import (
	"strings"

	"github.com/rently/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AssetStatus represents the availability state of an asset
type AssetStatus string

const (
	AssetStatusAvailable        AssetStatus = "available"
	AssetStatusRented           AssetStatus = "rented"
	AssetStatusUnderMaintenance AssetStatus = "under_maintenance"
)

// Valid reports whether the status is one of the known values.
func (s AssetStatus) Valid() bool {
	switch s {
	case AssetStatusAvailable, AssetStatusRented, AssetStatusUnderMaintenance:
		return true
	}
	return false
}

// AssetEvent is an event that may drive an asset status transition
type AssetEvent string

const (
	AssetEventRent                AssetEvent = "rent"
	AssetEventReturn              AssetEvent = "return"
	AssetEventStartMaintenance    AssetEvent = "start_maintenance"
	AssetEventCompleteMaintenance AssetEvent = "complete_maintenance"
)

// assetTransitions is the full transition table keyed by (current status,
// event). Anything not listed is an invalid transition. Keeping "rented"
// and "under maintenance" as distinct states means a maintenance action
// can never silently collide with an active rental.
var assetTransitions = map[AssetStatus]map[AssetEvent]AssetStatus{
	AssetStatusAvailable: {
		AssetEventRent:             AssetStatusRented,
		AssetEventStartMaintenance: AssetStatusUnderMaintenance,
	},
	AssetStatusRented: {
		AssetEventReturn: AssetStatusAvailable,
	},
	AssetStatusUnderMaintenance: {
		AssetEventCompleteMaintenance: AssetStatusAvailable,
	},
}

// Asset is a rentable item in the catalog. Its status transitions are
// constrained by the transition table above, and concurrent transitions
// are serialized through the Version column.
type Asset struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"size:200;not null"`
	Category    string          `gorm:"size:100;index"`
	Description string          `gorm:"type:text"`
	PricePerDay decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status      AssetStatus     `gorm:"size:30;not null;index"`
	OwnerID     uint            `gorm:"index;not null"`
}

// TableName returns the database table name
func (Asset) TableName() string {
	return "assets"
}

// NewAsset creates a new asset in the available state.
func NewAsset(name, category, description string, pricePerDay decimal.Decimal, ownerID uint) (*Asset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Asset name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Asset name cannot exceed 200 characters")
	}
	if !pricePerDay.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price per day must be positive")
	}
	if ownerID == 0 {
		return nil, shared.NewDomainError("INVALID_OWNER", "Asset owner is required")
	}

	return &Asset{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Category:          strings.TrimSpace(category),
		Description:       description,
		PricePerDay:       pricePerDay,
		Status:            AssetStatusAvailable,
		OwnerID:           ownerID,
	}, nil
}

// Apply drives the status transition table for the given event. The
// previous status is returned so callers can append a history record.
func (a *Asset) Apply(event AssetEvent) (previous AssetStatus, err error) {
	next, ok := assetTransitions[a.Status][event]
	if !ok {
		return a.Status, shared.ErrInvalidState.WithMessage(
			"Asset cannot " + string(event) + " while " + string(a.Status))
	}

	previous = a.Status
	a.Status = next
	a.Touch()
	a.IncrementVersion()
	return previous, nil
}

// IsAvailable returns true if the asset can currently be rented.
func (a *Asset) IsAvailable() bool {
	return a.Status == AssetStatusAvailable
}

// SetName updates the asset name after validation.
func (a *Asset) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Asset name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Asset name cannot exceed 200 characters")
	}
	a.Name = name
	a.Touch()
	return nil
}

// SetCategory updates the asset category.
func (a *Asset) SetCategory(category string) {
	a.Category = strings.TrimSpace(category)
	a.Touch()
}

// SetDescription updates the asset description.
func (a *Asset) SetDescription(description string) {
	a.Description = description
	a.Touch()
}

// SetPricePerDay updates the daily price. Existing rentals keep the cost
// computed at creation time.
func (a *Asset) SetPricePerDay(price decimal.Decimal) error {
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price per day must be positive")
	}
	a.PricePerDay = price
	a.Touch()
	return nil
}
