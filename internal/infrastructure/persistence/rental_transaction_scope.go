package persistence

import (
	"context"

	apprental "github.com/rently/backend/internal/application/rental"
	"github.com/rently/backend/internal/domain/catalog"
	"github.com/rently/backend/internal/domain/finance"
	"github.com/rently/backend/internal/domain/identity"
	"github.com/rently/backend/internal/domain/rental"
	"gorm.io/gorm"
)

// GormTransactionScope implements the rental engine's TransactionScope
// using GORM transactions. Every repository handed to the callback is
// bound to the same *gorm.DB transaction, so all writes commit or roll
// back as one unit.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside one database transaction.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apprental.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) RentalRepo() rental.RentalRepository {
	return NewGormRentalRepository(r.tx)
}

func (r *gormTransactionalRepositories) RentalHistoryRepo() rental.RentalHistoryRepository {
	return NewGormRentalHistoryRepository(r.tx)
}

func (r *gormTransactionalRepositories) AssetRepo() catalog.AssetRepository {
	return NewGormAssetRepository(r.tx)
}

func (r *gormTransactionalRepositories) StatusHistoryRepo() catalog.StatusHistoryRepository {
	return NewGormStatusHistoryRepository(r.tx)
}

func (r *gormTransactionalRepositories) SummaryRepo() finance.FinancialSummaryRepository {
	return NewGormFinancialSummaryRepository(r.tx)
}

func (r *gormTransactionalRepositories) UserRepo() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

// Ensure interface compliance
var _ apprental.TransactionScope = (*GormTransactionScope)(nil)
var _ apprental.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
