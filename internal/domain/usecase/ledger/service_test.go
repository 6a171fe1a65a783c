package ledger

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bookkeeper-app/bookkeeper/internal/domain/entity"
	errs "github.com/bookkeeper-app/bookkeeper/internal/domain/error"
	"github.com/bookkeeper-app/bookkeeper/internal/domain/port/persistence"
	mockcore "github.com/bookkeeper-app/bookkeeper/mocks/port/core"
)

// passthroughRunner executes the unit of work once without any transaction
// machinery, so tests exercise the service logic in isolation.
type passthroughRunner struct {
	runs int
}

func (r *passthroughRunner) Run(ctx context.Context, _ persistence.TxOptions, fn persistence.UnitOfWork) error {
	r.runs++
	return fn(ctx)
}

type memCompanyRepo struct {
	companies      map[uint64]*entity.Company
	updateBalances int
	failUpdateWith error
}

func newMemCompanyRepo() *memCompanyRepo {
	return &memCompanyRepo{companies: make(map[uint64]*entity.Company)}
}

func (r *memCompanyRepo) Create(_ context.Context, company *entity.Company) error {
	if _, ok := r.companies[company.ID]; ok {
		return errs.ErrDuplicateCompany
	}
	clone := *company
	r.companies[company.ID] = &clone
	return nil
}

func (r *memCompanyRepo) GetByID(_ context.Context, id uint64) (*entity.Company, error) {
	company, ok := r.companies[id]
	if !ok {
		return nil, errs.ErrCompanyNotFound
	}
	clone := *company
	return &clone, nil
}

func (r *memCompanyRepo) Exists(_ context.Context, id uint64) (bool, error) {
	_, ok := r.companies[id]
	return ok, nil
}

func (r *memCompanyRepo) UpdateBalance(_ context.Context, id uint64, balanceInCents int64, entryCount uint64) error {
	r.updateBalances++
	if r.failUpdateWith != nil {
		return r.failUpdateWith
	}
	company, ok := r.companies[id]
	if !ok {
		return errs.ErrCompanyNotFound
	}
	company.SetBalance(balanceInCents)
	company.EntryCount = entryCount
	return nil
}

type memEntryRepo struct {
	entries map[string]*entity.LedgerEntry
}

func newMemEntryRepo() *memEntryRepo {
	return &memEntryRepo{entries: make(map[string]*entity.LedgerEntry)}
}

func entryKey(companyID uint64, reference string) string {
	return fmt.Sprintf("%d/%s", companyID, reference)
}

func (r *memEntryRepo) Create(_ context.Context, entry *entity.LedgerEntry) error {
	key := entryKey(entry.CompanyID, entry.Reference)
	if _, ok := r.entries[key]; ok {
		return errs.ErrDuplicateEntry
	}
	clone := *entry
	r.entries[key] = &clone
	return nil
}

func (r *memEntryRepo) GetByReference(_ context.Context, companyID uint64, reference string) (*entity.LedgerEntry, error) {
	entry, ok := r.entries[entryKey(companyID, reference)]
	if !ok {
		return nil, errs.ErrEntryNotFound
	}
	clone := *entry
	return &clone, nil
}

func (r *memEntryRepo) ReferenceExists(_ context.Context, companyID uint64, reference string) (bool, error) {
	_, ok := r.entries[entryKey(companyID, reference)]
	return ok, nil
}

func (r *memEntryRepo) ListByCompany(_ context.Context, companyID uint64, limit int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, entry := range r.entries {
		if entry.CompanyID == companyID {
			clone := *entry
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type serviceFixture struct {
	service   *Service
	runner    *passthroughRunner
	companies *memCompanyRepo
	entries   *memEntryRepo
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	logger := mockcore.NewMockLogger(t)
	logger.EXPECT().Info(mock.Anything, mock.Anything).Maybe()
	logger.EXPECT().Warn(mock.Anything, mock.Anything).Maybe()

	timeProvider := mockcore.NewMockTimeProvider(t)
	timeProvider.EXPECT().Now().Return(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)).Maybe()

	runner := &passthroughRunner{}
	companies := newMemCompanyRepo()
	entries := newMemEntryRepo()

	return &serviceFixture{
		service:   NewService(runner, companies, entries, logger, timeProvider),
		runner:    runner,
		companies: companies,
		entries:   entries,
	}
}

func (f *serviceFixture) seedCompany(t *testing.T, id uint64, balance string) {
	t.Helper()
	_, err := f.service.CreateCompany(context.Background(), id, fmt.Sprintf("Company %d", id), balance)
	require.NoError(t, err)
}

func TestNewService_PanicsOnNilRunner(t *testing.T) {
	assert.Panics(t, func() {
		NewService(nil, newMemCompanyRepo(), newMemEntryRepo(), nil, nil)
	})
}

func TestCreateCompany(t *testing.T) {
	t.Run("creates company with opening balance", func(t *testing.T) {
		f := newServiceFixture(t)

		result, err := f.service.CreateCompany(context.Background(), 7, "Acme Ltd", "150.00")

		require.NoError(t, err)
		assert.Equal(t, uint64(7), result.CompanyID)
		assert.Equal(t, "Acme Ltd", result.Name)
		assert.Equal(t, "150.00", result.Balance)
		assert.Equal(t, uint64(0), result.EntryCount)
		assert.Equal(t, 1, f.runner.runs)
	})

	t.Run("rejects duplicate company id", func(t *testing.T) {
		f := newServiceFixture(t)
		f.seedCompany(t, 7, "0.00")

		_, err := f.service.CreateCompany(context.Background(), 7, "Other", "10.00")

		assert.ErrorIs(t, err, errs.ErrDuplicateCompany)
	})

	t.Run("rejects invalid opening balance without running a transaction", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.CreateCompany(context.Background(), 7, "Acme Ltd", "12.345")

		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		assert.Equal(t, 0, f.runner.runs)
	})
}

func TestRecordEntry(t *testing.T) {
	t.Run("credit increases balance", func(t *testing.T) {
		f := newServiceFixture(t)
		f.seedCompany(t, 1, "100.00")

		result, err := f.service.RecordEntry(context.Background(), 1, EntryRequest{
			Reference: "inv-001",
			Direction: "credit",
			Amount:    "25.50",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, result.EntryID)
		assert.Equal(t, "inv-001", result.Reference)
		assert.Equal(t, "25.50", result.Amount)
		assert.Equal(t, "125.50", result.ResultBalance)

		balance, err := f.service.GetBalance(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "125.50", balance.Balance)
		assert.Equal(t, uint64(1), balance.EntryCount)
	})

	t.Run("debit decreases balance", func(t *testing.T) {
		f := newServiceFixture(t)
		f.seedCompany(t, 1, "100.00")

		result, err := f.service.RecordEntry(context.Background(), 1, EntryRequest{
			Reference: "pay-001",
			Direction: "debit",
			Amount:    "40.00",
		})

		require.NoError(t, err)
		assert.Equal(t, "60.00", result.ResultBalance)
	})

	t.Run("debit beyond balance fails and leaves state untouched", func(t *testing.T) {
		f := newServiceFixture(t)
		f.seedCompany(t, 1, "10.00")

		_, err := f.service.RecordEntry(context.Background(), 1, EntryRequest{
			Reference: "pay-002",
			Direction: "debit",
			Amount:    "10.01",
		})

		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)

		balance, getErr := f.service.GetBalance(context.Background(), 1)
		require.NoError(t, getErr)
		assert.Equal(t, "10.00", balance.Balance)
		assert.Equal(t, uint64(0), balance.EntryCount)
	})

	t.Run("replayed reference is rejected without changing the balance", func(t *testing.T) {
		f := newServiceFixture(t)
		f.seedCompany(t, 1, "100.00")

		req := EntryRequest{Reference: "inv-001", Direction: "credit", Amount: "5.00"}
		_, err := f.service.RecordEntry(context.Background(), 1, req)
		require.NoError(t, err)

		_, err = f.service.RecordEntry(context.Background(), 1, req)
		assert.ErrorIs(t, err, errs.ErrDuplicateEntry)

		balance, getErr := f.service.GetBalance(context.Background(), 1)
		require.NoError(t, getErr)
		assert.Equal(t, "105.00", balance.Balance)
	})

	t.Run("unknown company", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.RecordEntry(context.Background(), 42, EntryRequest{
			Reference: "inv-001",
			Direction: "credit",
			Amount:    "5.00",
		})

		assert.ErrorIs(t, err, errs.ErrCompanyNotFound)
	})

	t.Run("invalid direction fails before the transaction starts", func(t *testing.T) {
		f := newServiceFixture(t)
		f.seedCompany(t, 1, "100.00")

		_, err := f.service.RecordEntry(context.Background(), 1, EntryRequest{
			Reference: "inv-001",
			Direction: "sideways",
			Amount:    "5.00",
		})

		assert.ErrorIs(t, err, errs.ErrInvalidDirection)
		assert.Equal(t, 1, f.runner.runs) // only the seed ran
	})

	t.Run("balance write failure surfaces to the caller", func(t *testing.T) {
		f := newServiceFixture(t)
		f.seedCompany(t, 1, "100.00")
		f.companies.failUpdateWith = errs.ErrStoreConnection

		_, err := f.service.RecordEntry(context.Background(), 1, EntryRequest{
			Reference: "inv-001",
			Direction: "credit",
			Amount:    "5.00",
		})

		assert.ErrorIs(t, err, errs.ErrStoreConnection)
	})
}

func TestQueries(t *testing.T) {
	t.Run("get entry by reference", func(t *testing.T) {
		f := newServiceFixture(t)
		f.seedCompany(t, 1, "100.00")

		recorded, err := f.service.RecordEntry(context.Background(), 1, EntryRequest{
			Reference: "inv-001",
			Direction: "credit",
			Amount:    "5.00",
			Memo:      "June invoice",
		})
		require.NoError(t, err)

		entry, err := f.service.GetEntry(context.Background(), 1, "inv-001")
		require.NoError(t, err)
		assert.Equal(t, recorded.EntryID, entry.ID)
		assert.Equal(t, "June invoice", entry.Memo)
	})

	t.Run("get entry unknown reference", func(t *testing.T) {
		f := newServiceFixture(t)
		f.seedCompany(t, 1, "100.00")

		_, err := f.service.GetEntry(context.Background(), 1, "missing")

		assert.ErrorIs(t, err, errs.ErrEntryNotFound)
	})

	t.Run("list entries respects limit", func(t *testing.T) {
		f := newServiceFixture(t)
		f.seedCompany(t, 1, "100.00")

		for i := 0; i < 5; i++ {
			_, err := f.service.RecordEntry(context.Background(), 1, EntryRequest{
				Reference: fmt.Sprintf("inv-%03d", i),
				Direction: "credit",
				Amount:    "1.00",
			})
			require.NoError(t, err)
		}

		entries, err := f.service.ListEntries(context.Background(), 1, 3)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})

	t.Run("get balance unknown company", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.GetBalance(context.Background(), 99)

		assert.ErrorIs(t, err, errs.ErrCompanyNotFound)
	})
}

func TestWithTxOptions(t *testing.T) {
	f := newServiceFixture(t)

	tuned := f.service.WithTxOptions(persistence.TxOptions{MaxRetries: 1, Timeout: time.Second})

	assert.NotSame(t, f.service, tuned)
	assert.Equal(t, 1, tuned.txOptions.MaxRetries)
	assert.Equal(t, time.Second, tuned.txOptions.Timeout)
	assert.Equal(t, persistence.DefaultMaxRetries, f.service.txOptions.MaxRetries)
}
