package finance

import (
	"time"

	"github.com/rently/backend/internal/domain/finance"
)

// PeriodLayout is the wire format for a monthly period, e.g. "2024-01".
const PeriodLayout = "2006-01"

// SummaryResponse is the public representation of a monthly bucket
type SummaryResponse struct {
	ID           uint   `json:"id"`
	UserID       uint   `json:"user_id"`
	PeriodStart  string `json:"period_start"`
	PeriodEnd    string `json:"period_end"`
	TotalRentals int    `json:"total_rentals"`
	TotalCost    string `json:"total_cost"`
}

// ToSummaryResponse converts a summary entity to its public representation
func ToSummaryResponse(s *finance.FinancialSummary) SummaryResponse {
	return SummaryResponse{
		ID:           s.ID,
		UserID:       s.UserID,
		PeriodStart:  s.PeriodStart.Format("2006-01-02"),
		PeriodEnd:    s.PeriodEnd.Format("2006-01-02"),
		TotalRentals: s.TotalRentals,
		TotalCost:    s.TotalCost.StringFixed(2),
	}
}

// ParsePeriod parses a "YYYY-MM" period string into the first day of that
// month in UTC.
func ParsePeriod(raw string) (time.Time, error) {
	return time.ParseInLocation(PeriodLayout, raw, time.UTC)
}
