package model

import "time"

// LedgerEntry is the relational model for one bookkeeping line.
// The company/reference pair is unique so replayed requests cannot post twice.
type LedgerEntry struct {
	ID            string `gorm:"primaryKey;size:36"`
	CompanyID     uint64 `gorm:"not null;uniqueIndex:idx_company_reference,priority:1"`
	Reference     string `gorm:"size:255;not null;uniqueIndex:idx_company_reference,priority:2"`
	Direction     string `gorm:"size:6;not null"`
	Amount        string `gorm:"size:32;not null"`
	AmountInCents int64  `gorm:"not null"`
	Memo          string `gorm:"size:1024"`
	ResultBalance string `gorm:"size:32"`
	CreatedAt     time.Time `gorm:"index"`
}

// TableName returns the table name for the LedgerEntry model
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
