package persistence

import (
	"context"

	"github.com/bookkeeper-app/bookkeeper/internal/domain/entity"
)

// LedgerEntryRepository defines data access operations for ledger entries
type LedgerEntryRepository interface {
	// Create persists a new ledger entry
	Create(ctx context.Context, entry *entity.LedgerEntry) error

	// GetByReference retrieves an entry by its external reference within a company
	GetByReference(ctx context.Context, companyID uint64, reference string) (*entity.LedgerEntry, error)

	// ReferenceExists checks whether an entry with the given reference already
	// exists for the company
	ReferenceExists(ctx context.Context, companyID uint64, reference string) (bool, error)

	// ListByCompany returns the most recent entries for a company
	ListByCompany(ctx context.Context, companyID uint64, limit int) ([]*entity.LedgerEntry, error)
}
