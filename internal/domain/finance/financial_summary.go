package finance

import (
	"time"

	"github.com/rently/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FinancialSummary is a per-user, per-calendar-month aggregate of rental
// spend and count. It is a materialized cache maintained inside the rental
// engine's transactions; RebuildFrom recomputes it from ground truth.
// At most one bucket exists per (user, period start).
type FinancialSummary struct {
	shared.BaseEntity
	UserID       uint            `gorm:"uniqueIndex:idx_summary_user_period;not null"`
	PeriodStart  time.Time       `gorm:"type:date;uniqueIndex:idx_summary_user_period;not null"`
	PeriodEnd    time.Time       `gorm:"type:date;not null"`
	TotalRentals int             `gorm:"not null;default:0"`
	TotalCost    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
}

// TableName returns the database table name
func (FinancialSummary) TableName() string {
	return "financial_summaries"
}

// PeriodBounds returns the first and last day of the calendar month the
// given date falls in.
func PeriodBounds(date time.Time) (start, end time.Time) {
	start = time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, -1)
	return start, end
}

// NewFinancialSummary creates an empty bucket for the month containing
// the given date.
func NewFinancialSummary(userID uint, date time.Time) *FinancialSummary {
	start, end := PeriodBounds(date)
	return &FinancialSummary{
		BaseEntity:   shared.NewBaseEntity(),
		UserID:       userID,
		PeriodStart:  start,
		PeriodEnd:    end,
		TotalRentals: 0,
		TotalCost:    decimal.Zero,
	}
}

// AddRental records one rental's cost into the bucket.
func (s *FinancialSummary) AddRental(cost decimal.Decimal) {
	s.TotalRentals++
	s.TotalCost = s.TotalCost.Add(cost)
	s.Touch()
}

// RemoveRental reverses one rental's contribution. Both the count and the
// total are clamped at zero: a negative aggregate is never exposed, even
// when that understates true historical totals.
func (s *FinancialSummary) RemoveRental(cost decimal.Decimal) {
	s.TotalRentals--
	if s.TotalRentals < 0 {
		s.TotalRentals = 0
	}
	s.TotalCost = s.TotalCost.Sub(cost)
	if s.TotalCost.IsNegative() {
		s.TotalCost = decimal.Zero
	}
	s.Touch()
}

// RebuildFrom overwrites the bucket with totals recomputed from ground
// truth, used for repair and audit of the materialized aggregate.
func (s *FinancialSummary) RebuildFrom(totalRentals int, totalCost decimal.Decimal) {
	if totalRentals < 0 {
		totalRentals = 0
	}
	if totalCost.IsNegative() {
		totalCost = decimal.Zero
	}
	s.TotalRentals = totalRentals
	s.TotalCost = totalCost
	s.Touch()
}
