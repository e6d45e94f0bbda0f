package rental

import (
	"time"

	"github.com/rently/backend/internal/domain/rental"
)

// DateLayout is the wire format for rental dates.
const DateLayout = "2006-01-02"

// CreateRentalRequest carries the input for creating a rental. The renting
// user is taken from the authenticated principal, not from the body.
type CreateRentalRequest struct {
	AssetID   uint   `json:"asset_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// RentalResponse is the full representation of a rental
type RentalResponse struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	AssetID   uint   `json:"asset_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	TotalCost string `json:"total_cost"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// RentalListItemResponse is a rental list entry with display fields
// denormalized from the asset and the renting user.
type RentalListItemResponse struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	AssetID   uint   `json:"asset_id"`
	AssetName string `json:"asset_name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	TotalCost string `json:"total_cost"`
	Status    string `json:"status"`
}

// RentalHistoryResponse is one audit entry of a rental status transition
type RentalHistoryResponse struct {
	ID             uint   `json:"id"`
	RentalID       uint   `json:"rental_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	ChangedAt      string `json:"changed_at"`
}

// ToRentalResponse converts a rental entity to its response representation
func ToRentalResponse(r *rental.Rental) RentalResponse {
	return RentalResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		AssetID:   r.AssetID,
		StartDate: r.StartDate.Format(DateLayout),
		EndDate:   r.EndDate.Format(DateLayout),
		TotalCost: r.TotalCost.StringFixed(2),
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
		UpdatedAt: r.UpdatedAt.Format(time.RFC3339),
	}
}

// ToRentalHistoryResponse converts an audit record to its response representation
func ToRentalHistoryResponse(h rental.RentalHistory) RentalHistoryResponse {
	return RentalHistoryResponse{
		ID:             h.ID,
		RentalID:       h.RentalID,
		PreviousStatus: string(h.PreviousStatus),
		NewStatus:      string(h.NewStatus),
		ChangedAt:      h.ChangedAt.Format(time.RFC3339),
	}
}
