package ledger

import (
	"context"

	"github.com/bookkeeper-app/bookkeeper/internal/domain/entity"
)

// CreateCompany registers a new company with an opening balance
func (s *Service) CreateCompany(ctx context.Context, id uint64, name, openingBalance string) (*BalanceResult, error) {
	company, err := entity.NewCompany(id, name, openingBalance, s.timeProvider)
	if err != nil {
		return nil, err
	}

	err = s.runner.Run(ctx, s.txOptions, func(txCtx context.Context) error {
		return s.companies.Create(txCtx, company)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("company created", map[string]any{
		"company_id": company.ID,
		"name":       company.Name,
	})
	return &BalanceResult{
		CompanyID:  company.ID,
		Name:       company.Name,
		Balance:    company.FormattedBalance(),
		EntryCount: company.EntryCount,
	}, nil
}
