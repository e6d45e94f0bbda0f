package rental

import (
	"context"

	"github.com/rently/backend/internal/domain/catalog"
	"github.com/rently/backend/internal/domain/finance"
	"github.com/rently/backend/internal/domain/identity"
	"github.com/rently/backend/internal/domain/rental"
)

// TransactionScope provides transactional access to the repositories the
// rental lifecycle touches. All repository operations performed inside
// Execute share one database transaction and commit or roll back as a unit.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories the rental
// engine mutates inside one transaction: the rental itself, the asset whose
// status flips, both append-only audit logs, and the monthly summary bucket.
type TransactionalRepositories interface {
	RentalRepo() rental.RentalRepository
	RentalHistoryRepo() rental.RentalHistoryRepository
	AssetRepo() catalog.AssetRepository
	StatusHistoryRepo() catalog.StatusHistoryRepository
	SummaryRepo() finance.FinancialSummaryRepository
	UserRepo() identity.UserRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	rentalRepo        rental.RentalRepository
	rentalHistoryRepo rental.RentalHistoryRepository
	assetRepo         catalog.AssetRepository
	statusHistoryRepo catalog.StatusHistoryRepository
	summaryRepo       finance.FinancialSummaryRepository
	userRepo          identity.UserRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(
	rentalRepo rental.RentalRepository,
	rentalHistoryRepo rental.RentalHistoryRepository,
	assetRepo catalog.AssetRepository,
	statusHistoryRepo catalog.StatusHistoryRepository,
	summaryRepo finance.FinancialSummaryRepository,
	userRepo identity.UserRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		rentalRepo:        rentalRepo,
		rentalHistoryRepo: rentalHistoryRepo,
		assetRepo:         assetRepo,
		statusHistoryRepo: statusHistoryRepo,
		summaryRepo:       summaryRepo,
		userRepo:          userRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) RentalRepo() rental.RentalRepository { return s.rentalRepo }

func (s *NoOpTransactionScope) RentalHistoryRepo() rental.RentalHistoryRepository {
	return s.rentalHistoryRepo
}

func (s *NoOpTransactionScope) AssetRepo() catalog.AssetRepository { return s.assetRepo }

func (s *NoOpTransactionScope) StatusHistoryRepo() catalog.StatusHistoryRepository {
	return s.statusHistoryRepo
}

func (s *NoOpTransactionScope) SummaryRepo() finance.FinancialSummaryRepository {
	return s.summaryRepo
}

func (s *NoOpTransactionScope) UserRepo() identity.UserRepository { return s.userRepo }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
