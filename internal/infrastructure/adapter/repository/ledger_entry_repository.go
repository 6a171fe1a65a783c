package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookkeeper-app/bookkeeper/internal/domain/entity"
	errs "github.com/bookkeeper-app/bookkeeper/internal/domain/error"
	coreport "github.com/bookkeeper-app/bookkeeper/internal/domain/port/core"
	"github.com/bookkeeper-app/bookkeeper/internal/domain/port/persistence"
	"github.com/bookkeeper-app/bookkeeper/internal/infrastructure/adapter/database"
	"github.com/bookkeeper-app/bookkeeper/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// LedgerEntryRepository implements persistence.LedgerEntryRepository using GORM
type LedgerEntryRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

var _ persistence.LedgerEntryRepository = (*LedgerEntryRepository)(nil)

// NewLedgerEntryRepository creates a new LedgerEntryRepository instance
func NewLedgerEntryRepository(db *gorm.DB, logger coreport.Logger) *LedgerEntryRepository {
	return &LedgerEntryRepository{db: db, logger: logger}
}

// Create persists a new ledger entry
func (r *LedgerEntryRepository) Create(ctx context.Context, entry *entity.LedgerEntry) error {
	m := r.entityToModel(entry)

	db := database.DBFromContext(ctx, r.db)
	if err := db.Create(&m).Error; err != nil {
		if database.IsDuplicateKey(err) {
			r.logger.Warn("duplicate ledger entry rejected", map[string]any{
				"company_id": entry.CompanyID,
				"reference":  entry.Reference,
			})
			return errs.ErrDuplicateEntry
		}
		return fmt.Errorf("create entry %q: %w", entry.Reference, err)
	}

	return nil
}

// GetByReference retrieves an entry by its external reference within a company
func (r *LedgerEntryRepository) GetByReference(ctx context.Context, companyID uint64, reference string) (*entity.LedgerEntry, error) {
	var m model.LedgerEntry

	db := database.DBFromContext(ctx, r.db)
	err := db.First(&m, "company_id = ? AND reference = ?", companyID, reference).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrEntryNotFound
		}
		return nil, fmt.Errorf("get entry %q: %w", reference, err)
	}

	return r.modelToEntity(&m), nil
}

// ReferenceExists checks whether an entry with the given reference already
// exists for the company
func (r *LedgerEntryRepository) ReferenceExists(ctx context.Context, companyID uint64, reference string) (bool, error) {
	var count int64

	db := database.DBFromContext(ctx, r.db)
	err := db.Model(&model.LedgerEntry{}).
		Where("company_id = ? AND reference = ?", companyID, reference).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check entry %q: %w", reference, err)
	}
	return count > 0, nil
}

// ListByCompany returns the most recent entries for a company
func (r *LedgerEntryRepository) ListByCompany(ctx context.Context, companyID uint64, limit int) ([]*entity.LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	var models []model.LedgerEntry
	db := database.DBFromContext(ctx, r.db)
	err := db.Where("company_id = ?", companyID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list entries for company %d: %w", companyID, err)
	}

	entries := make([]*entity.LedgerEntry, 0, len(models))
	for i := range models {
		entries = append(entries, r.modelToEntity(&models[i]))
	}
	return entries, nil
}

func (r *LedgerEntryRepository) entityToModel(entry *entity.LedgerEntry) model.LedgerEntry {
	return model.LedgerEntry{
		ID:            entry.ID,
		CompanyID:     entry.CompanyID,
		Reference:     entry.Reference,
		Direction:     string(entry.Direction),
		Amount:        entry.Amount,
		AmountInCents: entry.AmountInCents,
		Memo:          entry.Memo,
		ResultBalance: entry.ResultBalance,
		CreatedAt:     entry.CreatedAt,
	}
}

func (r *LedgerEntryRepository) modelToEntity(m *model.LedgerEntry) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		ID:            m.ID,
		CompanyID:     m.CompanyID,
		Reference:     m.Reference,
		Direction:     entity.EntryDirection(m.Direction),
		Amount:        m.Amount,
		AmountInCents: m.AmountInCents,
		Memo:          m.Memo,
		ResultBalance: m.ResultBalance,
		CreatedAt:     m.CreatedAt,
	}
}
