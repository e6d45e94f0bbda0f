package rental

import (
	"time"
)

// RentalHistory is an append-only audit record of a rental status
// transition. The previous status is empty for the creation record.
type RentalHistory struct {
	ID             uint         `gorm:"primaryKey"`
	RentalID       uint         `gorm:"index;not null"`
	PreviousStatus RentalStatus `gorm:"size:20"`
	NewStatus      RentalStatus `gorm:"size:20;not null"`
	ChangedAt      time.Time    `gorm:"not null"`
}

// TableName returns the database table name
func (RentalHistory) TableName() string {
	return "rental_histories"
}

// NewRentalHistory creates an audit record for a completed transition.
func NewRentalHistory(rentalID uint, previous, next RentalStatus) *RentalHistory {
	return &RentalHistory{
		RentalID:       rentalID,
		PreviousStatus: previous,
		NewStatus:      next,
		ChangedAt:      time.Now(),
	}
}
