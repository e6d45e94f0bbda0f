package catalog

import (
	"time"
)

// StatusHistory is an append-only audit record of an asset status
// transition. Records are only ever created, never updated.
type StatusHistory struct {
	ID             uint        `gorm:"primaryKey"`
	AssetID        uint        `gorm:"index;not null"`
	PreviousStatus AssetStatus `gorm:"size:30;not null"`
	NewStatus      AssetStatus `gorm:"size:30;not null"`
	ChangedAt      time.Time   `gorm:"not null"`
}

// TableName returns the database table name
func (StatusHistory) TableName() string {
	return "status_histories"
}

// NewStatusHistory creates an audit record for a completed transition.
func NewStatusHistory(assetID uint, previous, next AssetStatus) *StatusHistory {
	return &StatusHistory{
		AssetID:        assetID,
		PreviousStatus: previous,
		NewStatus:      next,
		ChangedAt:      time.Now(),
	}
}
