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

// CompanyRepository implements persistence.CompanyRepository using GORM.
// Store errors other than not-found and duplicates are wrapped, not
// replaced, so the transaction classifier can still see the driver error.
type CompanyRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ persistence.CompanyRepository = (*CompanyRepository)(nil)

// NewCompanyRepository creates a new CompanyRepository instance
func NewCompanyRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *CompanyRepository {
	return &CompanyRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Create persists a new company
func (r *CompanyRepository) Create(ctx context.Context, company *entity.Company) error {
	m := model.Company{
		ID:             company.ID,
		Name:           company.Name,
		BalanceInCents: company.Balance(),
		EntryCount:     company.EntryCount,
		CreatedAt:      company.CreatedAt,
		UpdatedAt:      company.UpdatedAt,
	}

	db := database.DBFromContext(ctx, r.db)
	if err := db.Create(&m).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return errs.ErrDuplicateCompany
		}
		return fmt.Errorf("create company %d: %w", company.ID, err)
	}

	r.logger.Info("company created", map[string]any{"company_id": company.ID})
	return nil
}

// GetByID retrieves a company by its ID
func (r *CompanyRepository) GetByID(ctx context.Context, id uint64) (*entity.Company, error) {
	var m model.Company

	db := database.DBFromContext(ctx, r.db)
	if err := db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("get company %d: %w", id, err)
	}

	return r.modelToEntity(&m), nil
}

// Exists checks whether a company with the given ID exists
func (r *CompanyRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64

	db := database.DBFromContext(ctx, r.db)
	if err := db.Model(&model.Company{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check company %d: %w", id, err)
	}
	return count > 0, nil
}

// UpdateBalance writes the company's balance and entry count
func (r *CompanyRepository) UpdateBalance(ctx context.Context, id uint64, balanceInCents int64, entryCount uint64) error {
	db := database.DBFromContext(ctx, r.db)
	result := db.Model(&model.Company{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"balance_in_cents": balanceInCents,
			"entry_count":      entryCount,
			"updated_at":       r.timeProvider.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("update balance for company %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrCompanyNotFound
	}
	return nil
}

func (r *CompanyRepository) modelToEntity(m *model.Company) *entity.Company {
	company := &entity.Company{
		ID:         m.ID,
		Name:       m.Name,
		EntryCount: m.EntryCount,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	company.SetBalance(m.BalanceInCents)
	return company
}
