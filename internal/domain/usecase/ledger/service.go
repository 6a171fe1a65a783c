package ledger

import (
	coreport "github.com/bookkeeper-app/bookkeeper/internal/domain/port/core"
	"github.com/bookkeeper-app/bookkeeper/internal/domain/port/persistence"
)

// Service exposes the bookkeeping operations. Every mutating operation is a
// single unit of work executed through the transaction runner, so a retried
// attempt re-runs the whole read-modify-write from scratch.
type Service struct {
	runner       persistence.TxRunner
	companies    persistence.CompanyRepository
	entries      persistence.LedgerEntryRepository
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	txOptions    persistence.TxOptions
}

// NewService creates a ledger service
func NewService(
	runner persistence.TxRunner,
	companies persistence.CompanyRepository,
	entries persistence.LedgerEntryRepository,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
) *Service {
	if runner == nil {
		panic("transaction runner cannot be nil")
	}
	return &Service{
		runner:       runner,
		companies:    companies,
		entries:      entries,
		logger:       logger,
		timeProvider: timeProvider,
		txOptions:    persistence.DefaultTxOptions(),
	}
}

// WithTxOptions returns a new Service using the given per-call transaction
// settings. The receiver is not modified.
func (s *Service) WithTxOptions(opts persistence.TxOptions) *Service {
	clone := *s
	clone.txOptions = opts.WithDefaults()
	return &clone
}

// EntryRequest is the input for recording one bookkeeping line
type EntryRequest struct {
	Reference string
	Direction string
	Amount    string
	Memo      string
}

// EntryResult is the outcome of a recorded entry
type EntryResult struct {
	EntryID       string
	Reference     string
	Direction     string
	Amount        string
	ResultBalance string
}

// BalanceResult is the outcome of a balance query
type BalanceResult struct {
	CompanyID  uint64
	Name       string
	Balance    string
	EntryCount uint64
}
