package ledger

import (
	"context"

	"github.com/bookkeeper-app/bookkeeper/internal/domain/entity"
	errs "github.com/bookkeeper-app/bookkeeper/internal/domain/error"
)

// RecordEntry posts one ledger entry for a company and updates its running
// balance. The reference acts as an idempotency key: replaying a request with
// a reference that was already recorded returns ErrDuplicateEntry without
// touching the balance.
func (s *Service) RecordEntry(ctx context.Context, companyID uint64, req EntryRequest) (*EntryResult, error) {
	entry, err := entity.NewLedgerEntry(
		companyID,
		req.Reference,
		entity.EntryDirection(req.Direction),
		req.Amount,
		req.Memo,
		s.timeProvider,
	)
	if err != nil {
		return nil, err
	}

	var result *EntryResult
	err = s.runner.Run(ctx, s.txOptions, func(txCtx context.Context) error {
		taken, err := s.entries.ReferenceExists(txCtx, companyID, entry.Reference)
		if err != nil {
			return err
		}
		if taken {
			return errs.ErrDuplicateEntry
		}

		company, err := s.companies.GetByID(txCtx, companyID)
		if err != nil {
			return err
		}

		switch entry.Direction {
		case entity.DirectionDebit:
			if err := company.ApplyDebit(entry.AmountInCents, s.timeProvider); err != nil {
				return err
			}
		case entity.DirectionCredit:
			company.ApplyCredit(entry.AmountInCents, s.timeProvider)
		}
		entry.ResultBalance = company.FormattedBalance()

		if err := s.entries.Create(txCtx, entry); err != nil {
			return err
		}
		if err := s.companies.UpdateBalance(txCtx, company.ID, company.Balance(), company.EntryCount); err != nil {
			return err
		}

		result = &EntryResult{
			EntryID:       entry.ID,
			Reference:     entry.Reference,
			Direction:     string(entry.Direction),
			Amount:        entry.Amount,
			ResultBalance: entry.ResultBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ledger entry recorded", map[string]any{
		"company_id": companyID,
		"entry_id":   result.EntryID,
		"reference":  result.Reference,
		"direction":  result.Direction,
	})
	return result, nil
}
