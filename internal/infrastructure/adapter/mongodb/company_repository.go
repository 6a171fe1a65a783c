package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookkeeper-app/bookkeeper/internal/domain/entity"
	errs "github.com/bookkeeper-app/bookkeeper/internal/domain/error"
	coreport "github.com/bookkeeper-app/bookkeeper/internal/domain/port/core"
	"github.com/bookkeeper-app/bookkeeper/internal/domain/port/persistence"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const companiesCollection = "companies"

// companyDocument is the document model for a tenant
type companyDocument struct {
	ID             uint64 `bson:"_id"`
	Name           string `bson:"name"`
	BalanceInCents int64  `bson:"balanceInCents"`
	EntryCount     uint64 `bson:"entryCount"`
	CreatedAt      int64  `bson:"createdAt"`
	UpdatedAt      int64  `bson:"updatedAt"`
}

// CompanyRepository implements persistence.CompanyRepository on the document
// store. The session context produced by the transaction store is passed
// straight through; no transaction state is held here.
type CompanyRepository struct {
	collection   *mongo.Collection
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

var _ persistence.CompanyRepository = (*CompanyRepository)(nil)

// NewCompanyRepository creates a new document-store company repository
func NewCompanyRepository(client *mongo.Client, database string, timeProvider coreport.TimeProvider, logger coreport.Logger) *CompanyRepository {
	return &CompanyRepository{
		collection:   client.Database(database).Collection(companiesCollection),
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Create persists a new company
func (r *CompanyRepository) Create(ctx context.Context, company *entity.Company) error {
	doc := companyDocument{
		ID:             company.ID,
		Name:           company.Name,
		BalanceInCents: company.Balance(),
		EntryCount:     company.EntryCount,
		CreatedAt:      company.CreatedAt.UnixMilli(),
		UpdatedAt:      company.UpdatedAt.UnixMilli(),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.ErrDuplicateCompany
		}
		return fmt.Errorf("create company %d: %w", company.ID, err)
	}

	r.logger.Info("company created", map[string]any{"company_id": company.ID})
	return nil
}

// GetByID retrieves a company by its ID
func (r *CompanyRepository) GetByID(ctx context.Context, id uint64) (*entity.Company, error) {
	var doc companyDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("get company %d: %w", id, err)
	}

	return documentToCompany(&doc), nil
}

// Exists checks whether a company with the given ID exists
func (r *CompanyRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("check company %d: %w", id, err)
	}
	return count > 0, nil
}

// UpdateBalance writes the company's balance and entry count
func (r *CompanyRepository) UpdateBalance(ctx context.Context, id uint64, balanceInCents int64, entryCount uint64) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"balanceInCents": balanceInCents,
			"entryCount":     entryCount,
			"updatedAt":      r.timeProvider.Now().UnixMilli(),
		},
	})
	if err != nil {
		return fmt.Errorf("update balance for company %d: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return errs.ErrCompanyNotFound
	}
	return nil
}

func documentToCompany(doc *companyDocument) *entity.Company {
	company := &entity.Company{
		ID:         doc.ID,
		Name:       doc.Name,
		EntryCount: doc.EntryCount,
		CreatedAt:  millisToTime(doc.CreatedAt),
		UpdatedAt:  millisToTime(doc.UpdatedAt),
	}
	company.SetBalance(doc.BalanceInCents)
	return company
}
