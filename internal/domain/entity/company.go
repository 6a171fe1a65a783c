package entity

import (
	"strings"
	"time"

	errs "github.com/bookkeeper-app/bookkeeper/internal/domain/error"
	coreport "github.com/bookkeeper-app/bookkeeper/internal/domain/port/core"
)

// Company represents a tenant with a running ledger balance
type Company struct {
	ID         uint64    // Unique identifier for the company
	Name       string    // Display name
	balance    int64     // Balance stored in cents to avoid floating point drift (private)
	EntryCount uint64    // Count of ledger entries recorded for this company
	CreatedAt  time.Time // When the company was created
	UpdatedAt  time.Time // When the company was last updated
}

// NewCompany creates a new company with the given ID, name and opening balance
func NewCompany(id uint64, name, openingBalance string, timeProvider coreport.TimeProvider) (*Company, error) {
	if id == 0 {
		return nil, errs.ErrInvalidCompanyID
	}
	if strings.TrimSpace(name) == "" {
		return nil, errs.ErrInvalidRequest
	}

	balanceInCents, err := ParseAmountToCents(openingBalance)
	if err != nil {
		return nil, err
	}

	now := timeProvider.Now()
	return &Company{
		ID:        id,
		Name:      strings.TrimSpace(name),
		balance:   balanceInCents,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Balance returns the current balance in cents
func (c *Company) Balance() int64 {
	return c.balance
}

// FormattedBalance returns the balance as a string with two decimal places
func (c *Company) FormattedBalance() string {
	return CentsToAmount(c.balance)
}

// SetBalance updates the balance directly (for repository hydration)
func (c *Company) SetBalance(balanceInCents int64) {
	c.balance = balanceInCents
}

// ApplyCredit adds the amount to the balance
func (c *Company) ApplyCredit(amountInCents int64, timeProvider coreport.TimeProvider) {
	c.balance += amountInCents
	c.EntryCount++
	c.UpdatedAt = timeProvider.Now()
}

// ApplyDebit subtracts the amount from the balance.
// Returns ErrInsufficientFunds if the balance would go negative.
func (c *Company) ApplyDebit(amountInCents int64, timeProvider coreport.TimeProvider) error {
	if c.balance < amountInCents {
		return errs.ErrInsufficientFunds
	}
	c.balance -= amountInCents
	c.EntryCount++
	c.UpdatedAt = timeProvider.Now()
	return nil
}
