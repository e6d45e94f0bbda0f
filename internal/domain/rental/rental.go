package rental

import (
	"time"

	"github.com/rently/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RentalStatus represents the lifecycle state of a rental
type RentalStatus string

const (
	RentalStatusActive    RentalStatus = "active"
	RentalStatusCompleted RentalStatus = "completed"
	RentalStatusCancelled RentalStatus = "cancelled"
)

// Valid reports whether the status is one of the known values.
func (s RentalStatus) Valid() bool {
	switch s {
	case RentalStatusActive, RentalStatusCompleted, RentalStatusCancelled:
		return true
	}
	return false
}

// Rental is a time-bounded lease of one asset by one user. TotalCost is
// computed once at creation and never recomputed; cancellation only
// reverses its effect on the monthly aggregates.
type Rental struct {
	shared.BaseEntity
	UserID    uint            `gorm:"index;not null"`
	AssetID   uint            `gorm:"index;not null"`
	StartDate time.Time       `gorm:"type:date;not null"`
	EndDate   time.Time       `gorm:"type:date;not null"`
	TotalCost decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status    RentalStatus    `gorm:"size:20;not null;index"`
}

// TableName returns the database table name
func (Rental) TableName() string {
	return "rentals"
}

// DurationDays returns the whole-day duration between two dates.
func DurationDays(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// NewRental creates an active rental, computing its immutable total cost
// as whole days multiplied by the asset's daily price.
func NewRental(userID, assetID uint, start, end time.Time, pricePerDay decimal.Decimal) (*Rental, error) {
	if userID == 0 || assetID == 0 {
		return nil, shared.ErrInvalidInput.WithMessage("User and asset are required")
	}
	if !end.After(start) {
		return nil, shared.ErrInvalidInput.WithMessage("End date must be after start date")
	}

	days := DurationDays(start, end)
	totalCost := pricePerDay.Mul(decimal.NewFromInt(int64(days)))

	return &Rental{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		AssetID:    assetID,
		StartDate:  start,
		EndDate:    end,
		TotalCost:  totalCost,
		Status:     RentalStatusActive,
	}, nil
}

// Cancel transitions the rental to the cancelled terminal state. Only
// active rentals can be cancelled; a second cancel must fail rather than
// reverse the aggregates twice.
func (r *Rental) Cancel() error {
	if r.Status != RentalStatusActive {
		return shared.ErrInvalidState.WithMessage("Rental is not active")
	}
	r.Status = RentalStatusCancelled
	r.Touch()
	return nil
}

// Complete transitions the rental to the completed terminal state.
// Nothing triggers this automatically yet; it exists so the state machine
// is whole and a future expiry job has a single entry point.
func (r *Rental) Complete() error {
	if r.Status != RentalStatusActive {
		return shared.ErrInvalidState.WithMessage("Rental is not active")
	}
	r.Status = RentalStatusCompleted
	r.Touch()
	return nil
}

// IsActive returns true if the rental is in the active state.
func (r *Rental) IsActive() bool {
	return r.Status == RentalStatusActive
}
