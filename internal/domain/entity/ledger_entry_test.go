package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/bookkeeper-app/bookkeeper/internal/domain/error"
	mockcore "github.com/bookkeeper-app/bookkeeper/mocks/port/core"
)

func TestEntryDirectionIsValid(t *testing.T) {
	assert.True(t, DirectionDebit.IsValid())
	assert.True(t, DirectionCredit.IsValid())
	assert.False(t, EntryDirection("").IsValid())
	assert.False(t, EntryDirection("transfer").IsValid())
	assert.False(t, EntryDirection("DEBIT").IsValid())
}

func TestNewLedgerEntry(t *testing.T) {
	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mockTime := mockcore.NewMockTimeProvider(t)
	mockTime.EXPECT().Now().Return(fixedTime).Maybe()

	t.Run("valid entry creation", func(t *testing.T) {
		entry, err := NewLedgerEntry(1, "inv-001", DirectionCredit, "25.50", "June invoice", mockTime)

		require.NoError(t, err)
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, uint64(1), entry.CompanyID)
		assert.Equal(t, "inv-001", entry.Reference)
		assert.Equal(t, DirectionCredit, entry.Direction)
		assert.Equal(t, "25.50", entry.Amount)
		assert.Equal(t, int64(2550), entry.AmountInCents)
		assert.Equal(t, "June invoice", entry.Memo)
		assert.Equal(t, fixedTime, entry.CreatedAt)
		assert.Empty(t, entry.ResultBalance)
	})

	t.Run("amount is normalized to two decimals", func(t *testing.T) {
		entry, err := NewLedgerEntry(1, "inv-001", DirectionDebit, "5", "", mockTime)

		require.NoError(t, err)
		assert.Equal(t, "5.00", entry.Amount)
		assert.Equal(t, int64(500), entry.AmountInCents)
	})

	t.Run("reference is trimmed", func(t *testing.T) {
		entry, err := NewLedgerEntry(1, "  inv-001  ", DirectionDebit, "5.00", "", mockTime)

		require.NoError(t, err)
		assert.Equal(t, "inv-001", entry.Reference)
	})

	t.Run("generated IDs are unique", func(t *testing.T) {
		first, err := NewLedgerEntry(1, "inv-001", DirectionCredit, "1.00", "", mockTime)
		require.NoError(t, err)
		second, err := NewLedgerEntry(1, "inv-002", DirectionCredit, "1.00", "", mockTime)
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("zero company ID", func(t *testing.T) {
		entry, err := NewLedgerEntry(0, "inv-001", DirectionCredit, "1.00", "", mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidCompanyID)
		assert.Nil(t, entry)
	})

	t.Run("blank reference", func(t *testing.T) {
		entry, err := NewLedgerEntry(1, "   ", DirectionCredit, "1.00", "", mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidReference)
		assert.Nil(t, entry)
	})

	t.Run("invalid direction", func(t *testing.T) {
		entry, err := NewLedgerEntry(1, "inv-001", EntryDirection("sideways"), "1.00", "", mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidDirection)
		assert.Nil(t, entry)
	})

	t.Run("invalid amount", func(t *testing.T) {
		entry, err := NewLedgerEntry(1, "inv-001", DirectionCredit, "1.234", "", mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		assert.Nil(t, entry)
	})

	t.Run("negative amount", func(t *testing.T) {
		entry, err := NewLedgerEntry(1, "inv-001", DirectionDebit, "-1.00", "", mockTime)

		assert.ErrorIs(t, err, errs.ErrNegativeAmount)
		assert.Nil(t, entry)
	})
}
