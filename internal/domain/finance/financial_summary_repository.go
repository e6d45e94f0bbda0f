package finance

import (
	"context"
	"time"

	"github.com/rently/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FinancialSummaryRepository defines the persistence interface for
// monthly summary buckets.
type FinancialSummaryRepository interface {
	shared.Repository[FinancialSummary]
	FindByUser(ctx context.Context, userID uint) ([]FinancialSummary, error)
	FindByUserAndPeriod(ctx context.Context, userID uint, periodStart time.Time) (*FinancialSummary, error)
	SumCostForPeriod(ctx context.Context, periodStart time.Time) (decimal.Decimal, error)
}
