package model

import "time"

// Company is the relational model for a tenant
type Company struct {
	ID             uint64 `gorm:"primaryKey"`
	Name           string `gorm:"size:255;not null"`
	BalanceInCents int64  `gorm:"not null;default:0"`
	EntryCount     uint64 `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for the Company model
func (Company) TableName() string {
	return "companies"
}
