package catalog

import (
	"time"

	"github.com/rently/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateAssetRequest contains the data for adding an asset to the catalog
type CreateAssetRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Category    string `json:"category" binding:"max=100"`
	Description string `json:"description"`
	PricePerDay string `json:"price_per_day" binding:"required"`
}

// UpdateAssetRequest contains the editable asset fields
type UpdateAssetRequest struct {
	Name        *string `json:"name,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	PricePerDay *string `json:"price_per_day,omitempty"`
}

// AssetResponse is the public representation of an asset
type AssetResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	PricePerDay string `json:"price_per_day"`
	Status      string `json:"status"`
	OwnerID     uint   `json:"owner_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// StatusHistoryResponse is one entry in an asset's status audit trail
type StatusHistoryResponse struct {
	ID             uint   `json:"id"`
	AssetID        uint   `json:"asset_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	ChangedAt      string `json:"changed_at"`
}

// ToAssetResponse converts an asset entity to its public representation
func ToAssetResponse(a *catalog.Asset) AssetResponse {
	return AssetResponse{
		ID:          a.ID,
		Name:        a.Name,
		Category:    a.Category,
		Description: a.Description,
		PricePerDay: a.PricePerDay.StringFixed(2),
		Status:      string(a.Status),
		OwnerID:     a.OwnerID,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
}

// ToStatusHistoryResponse converts a status history record
func ToStatusHistoryResponse(h *catalog.StatusHistory) StatusHistoryResponse {
	return StatusHistoryResponse{
		ID:             h.ID,
		AssetID:        h.AssetID,
		PreviousStatus: string(h.PreviousStatus),
		NewStatus:      string(h.NewStatus),
		ChangedAt:      h.ChangedAt.Format(time.RFC3339),
	}
}

func parsePrice(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(raw)
}
