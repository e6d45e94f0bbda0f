package finance

import (
	"context"
	"errors"

	"github.com/rently/backend/internal/domain/finance"
	"github.com/rently/backend/internal/domain/identity"
	"github.com/rently/backend/internal/domain/rental"
	"github.com/rently/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SummaryService exposes the per-user monthly spend aggregates and the
// repair path that recomputes a bucket from the rentals themselves.
type SummaryService struct {
	summaryRepo finance.FinancialSummaryRepository
	rentalRepo  rental.RentalRepository
	userRepo    identity.UserRepository
	logger      *zap.Logger
}

// NewSummaryService creates a new financial summary service
func NewSummaryService(
	summaryRepo finance.FinancialSummaryRepository,
	rentalRepo rental.RentalRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *SummaryService {
	return &SummaryService{
		summaryRepo: summaryRepo,
		rentalRepo:  rentalRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// ListSummaries returns all monthly buckets for a user. Users may only
// read their own; administrators may read anyone's.
func (s *SummaryService) ListSummaries(ctx context.Context, actor identity.Principal, userID uint) ([]SummaryResponse, error) {
	if !actor.CanActFor(userID) {
		return nil, shared.ErrForbidden.WithMessage("Cannot read another user's financial summaries")
	}

	summaries, err := s.summaryRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]SummaryResponse, 0, len(summaries))
	for i := range summaries {
		items = append(items, ToSummaryResponse(&summaries[i]))
	}
	return items, nil
}

// GetMonthlySummary returns the bucket for one calendar month. A month
// with no recorded rentals reads as an all-zero bucket rather than an
// error.
func (s *SummaryService) GetMonthlySummary(ctx context.Context, actor identity.Principal, userID uint, period string) (*SummaryResponse, error) {
	if !actor.CanActFor(userID) {
		return nil, shared.ErrForbidden.WithMessage("Cannot read another user's financial summaries")
	}
	periodStart, err := ParsePeriod(period)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("Invalid period, expected YYYY-MM: " + period)
	}

	summary, err := s.summaryRepo.FindByUserAndPeriod(ctx, userID, periodStart)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			empty := ToSummaryResponse(finance.NewFinancialSummary(userID, periodStart))
			return &empty, nil
		}
		return nil, err
	}

	response := ToSummaryResponse(summary)
	return &response, nil
}

// Recompute rebuilds one monthly bucket from the rentals that start in
// that month. Cancelled rentals contribute nothing. The result overwrites
// whatever the incrementally maintained bucket holds.
func (s *SummaryService) Recompute(ctx context.Context, userID uint, period string) (*SummaryResponse, error) {
	periodStart, err := ParsePeriod(period)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("Invalid period, expected YYYY-MM: " + period)
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	start, end := finance.PeriodBounds(periodStart)
	rentals, err := s.rentalRepo.FindByUserAndPeriod(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	totalRentals := 0
	totalCost := decimal.Zero
	for i := range rentals {
		if rentals[i].Status == rental.RentalStatusCancelled {
			continue
		}
		totalRentals++
		totalCost = totalCost.Add(rentals[i].TotalCost)
	}

	summary, err := s.summaryRepo.FindByUserAndPeriod(ctx, userID, start)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		summary = finance.NewFinancialSummary(userID, start)
	}
	summary.RebuildFrom(totalRentals, totalCost)
	if err := s.summaryRepo.Save(ctx, summary); err != nil {
		return nil, err
	}

	s.logger.Info("financial summary recomputed",
		zap.Uint("user_id", userID),
		zap.String("period", period),
		zap.Int("total_rentals", totalRentals),
		zap.String("total_cost", totalCost.StringFixed(2)))

	response := ToSummaryResponse(summary)
	return &response, nil
}
