package entity

import (
	"strings"
	"time"

	errs "github.com/bookkeeper-app/bookkeeper/internal/domain/error"
	coreport "github.com/bookkeeper-app/bookkeeper/internal/domain/port/core"
	"github.com/google/uuid"
)

// EntryDirection is the side of the ledger an entry posts to
type EntryDirection string

const (
	// DirectionDebit decreases the company balance
	DirectionDebit EntryDirection = "debit"
	// DirectionCredit increases the company balance
	DirectionCredit EntryDirection = "credit"
)

// IsValid reports whether the direction is debit or credit
func (d EntryDirection) IsValid() bool {
	return d == DirectionDebit || d == DirectionCredit
}

// LedgerEntry represents one immutable bookkeeping line.
// Reference is a caller-supplied idempotency key, unique per company.
type LedgerEntry struct {
	ID            string
	CompanyID     uint64
	Reference     string
	Direction     EntryDirection
	Amount        string
	AmountInCents int64
	Memo          string
	ResultBalance string
	CreatedAt     time.Time
}

// NewLedgerEntry validates the inputs and builds a new entry with a generated ID
func NewLedgerEntry(
	companyID uint64,
	reference string,
	direction EntryDirection,
	amount string,
	memo string,
	timeProvider coreport.TimeProvider,
) (*LedgerEntry, error) {
	if companyID == 0 {
		return nil, errs.ErrInvalidCompanyID
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, errs.ErrInvalidReference
	}
	if !direction.IsValid() {
		return nil, errs.ErrInvalidDirection
	}

	amountInCents, err := ParseAmountToCents(amount)
	if err != nil {
		return nil, err
	}

	return &LedgerEntry{
		ID:            uuid.NewString(),
		CompanyID:     companyID,
		Reference:     reference,
		Direction:     direction,
		Amount:        CentsToAmount(amountInCents),
		AmountInCents: amountInCents,
		Memo:          memo,
		CreatedAt:     timeProvider.Now(),
	}, nil
}
