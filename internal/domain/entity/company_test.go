package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/bookkeeper-app/bookkeeper/internal/domain/error"
	mockcore "github.com/bookkeeper-app/bookkeeper/mocks/port/core"
)

func TestNewCompany(t *testing.T) {
	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mockTime := mockcore.NewMockTimeProvider(t)
	mockTime.EXPECT().Now().Return(fixedTime).Maybe()

	t.Run("valid company creation", func(t *testing.T) {
		company, err := NewCompany(1, "Acme Ltd", "100.00", mockTime)

		require.NoError(t, err)
		assert.Equal(t, uint64(1), company.ID)
		assert.Equal(t, "Acme Ltd", company.Name)
		assert.Equal(t, int64(10000), company.Balance())
		assert.Equal(t, "100.00", company.FormattedBalance())
		assert.Equal(t, fixedTime, company.CreatedAt)
		assert.Equal(t, fixedTime, company.UpdatedAt)
		assert.Equal(t, uint64(0), company.EntryCount)
	})

	t.Run("name is trimmed", func(t *testing.T) {
		company, err := NewCompany(1, "  Acme Ltd  ", "0", mockTime)

		require.NoError(t, err)
		assert.Equal(t, "Acme Ltd", company.Name)
	})

	t.Run("zero ID should return error", func(t *testing.T) {
		company, err := NewCompany(0, "Acme Ltd", "100.00", mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidCompanyID)
		assert.Nil(t, company)
	})

	t.Run("blank name should return error", func(t *testing.T) {
		company, err := NewCompany(1, "   ", "100.00", mockTime)

		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
		assert.Nil(t, company)
	})

	t.Run("invalid opening balance", func(t *testing.T) {
		testCases := []string{
			"invalid",
			"",
			"100.123",
			"$100.00",
		}

		for _, tc := range testCases {
			t.Run(tc, func(t *testing.T) {
				company, err := NewCompany(1, "Acme Ltd", tc, mockTime)
				assert.Error(t, err)
				assert.Nil(t, company)
			})
		}
	})
}

func TestCompanyApplyCredit(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	updatedAt := createdAt.Add(time.Hour)

	mockTime := mockcore.NewMockTimeProvider(t)
	mockTime.EXPECT().Now().Return(createdAt).Once()

	company, err := NewCompany(1, "Acme Ltd", "100.00", mockTime)
	require.NoError(t, err)

	mockTime.EXPECT().Now().Return(updatedAt).Once()
	company.ApplyCredit(2550, mockTime)

	assert.Equal(t, int64(12550), company.Balance())
	assert.Equal(t, "125.50", company.FormattedBalance())
	assert.Equal(t, uint64(1), company.EntryCount)
	assert.Equal(t, updatedAt, company.UpdatedAt)
	assert.Equal(t, createdAt, company.CreatedAt)
}

func TestCompanyApplyDebit(t *testing.T) {
	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mockTime := mockcore.NewMockTimeProvider(t)
	mockTime.EXPECT().Now().Return(fixedTime).Maybe()

	t.Run("sufficient funds", func(t *testing.T) {
		company, err := NewCompany(1, "Acme Ltd", "100.00", mockTime)
		require.NoError(t, err)

		err = company.ApplyDebit(4000, mockTime)

		require.NoError(t, err)
		assert.Equal(t, int64(6000), company.Balance())
		assert.Equal(t, uint64(1), company.EntryCount)
	})

	t.Run("exact balance goes to zero", func(t *testing.T) {
		company, err := NewCompany(1, "Acme Ltd", "100.00", mockTime)
		require.NoError(t, err)

		err = company.ApplyDebit(10000, mockTime)

		require.NoError(t, err)
		assert.Equal(t, int64(0), company.Balance())
		assert.Equal(t, "0.00", company.FormattedBalance())
	})

	t.Run("insufficient funds leaves state untouched", func(t *testing.T) {
		company, err := NewCompany(1, "Acme Ltd", "100.00", mockTime)
		require.NoError(t, err)

		err = company.ApplyDebit(10001, mockTime)

		assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
		assert.Equal(t, int64(10000), company.Balance())
		assert.Equal(t, uint64(0), company.EntryCount)
	})
}

func TestCompanySetBalance(t *testing.T) {
	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mockTime := mockcore.NewMockTimeProvider(t)
	mockTime.EXPECT().Now().Return(fixedTime).Maybe()

	company, err := NewCompany(1, "Acme Ltd", "0", mockTime)
	require.NoError(t, err)

	company.SetBalance(777)

	assert.Equal(t, int64(777), company.Balance())
	assert.Equal(t, "7.77", company.FormattedBalance())
}
