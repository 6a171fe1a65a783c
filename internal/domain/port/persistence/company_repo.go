package persistence

import (
	"context"

	"github.com/bookkeeper-app/bookkeeper/internal/domain/entity"
)

// CompanyRepository defines data access operations for companies.
// Implementations resolve an in-flight transaction from the context when one
// is present, so the same instance works inside and outside a unit of work.
type CompanyRepository interface {
	// Create persists a new company
	Create(ctx context.Context, company *entity.Company) error

	// GetByID retrieves a company by its ID
	GetByID(ctx context.Context, id uint64) (*entity.Company, error)

	// Exists checks whether a company with the given ID exists
	Exists(ctx context.Context, id uint64) (bool, error)

	// UpdateBalance writes the company's balance and entry count
	UpdateBalance(ctx context.Context, id uint64, balanceInCents int64, entryCount uint64) error
}
