package ledger

import (
	"context"

	"github.com/bookkeeper-app/bookkeeper/internal/domain/entity"
)

// GetBalance returns the current balance snapshot for a company
func (s *Service) GetBalance(ctx context.Context, companyID uint64) (*BalanceResult, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return &BalanceResult{
		CompanyID:  company.ID,
		Name:       company.Name,
		Balance:    company.FormattedBalance(),
		EntryCount: company.EntryCount,
	}, nil
}

// GetEntry returns a previously recorded entry by its reference
func (s *Service) GetEntry(ctx context.Context, companyID uint64, reference string) (*entity.LedgerEntry, error) {
	return s.entries.GetByReference(ctx, companyID, reference)
}

// ListEntries returns the most recent entries for a company, newest first
func (s *Service) ListEntries(ctx context.Context, companyID uint64, limit int) ([]*entity.LedgerEntry, error) {
	return s.entries.ListByCompany(ctx, companyID, limit)
}
