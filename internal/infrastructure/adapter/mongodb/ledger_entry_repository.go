package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookkeeper-app/bookkeeper/internal/domain/entity"
	errs "github.com/bookkeeper-app/bookkeeper/internal/domain/error"
	coreport "github.com/bookkeeper-app/bookkeeper/internal/domain/port/core"
	"github.com/bookkeeper-app/bookkeeper/internal/domain/port/persistence"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const entriesCollection = "ledger_entries"

// entryDocument is the document model for one bookkeeping line
type entryDocument struct {
	ID            string `bson:"_id"`
	CompanyID     uint64 `bson:"companyId"`
	Reference     string `bson:"reference"`
	Direction     string `bson:"direction"`
	Amount        string `bson:"amount"`
	AmountInCents int64  `bson:"amountInCents"`
	Memo          string `bson:"memo,omitempty"`
	ResultBalance string `bson:"resultBalance,omitempty"`
	CreatedAt     int64  `bson:"createdAt"`
}

// LedgerEntryRepository implements persistence.LedgerEntryRepository on the
// document store
type LedgerEntryRepository struct {
	collection *mongo.Collection
	logger     coreport.Logger
}

var _ persistence.LedgerEntryRepository = (*LedgerEntryRepository)(nil)

// NewLedgerEntryRepository creates a new document-store entry repository
func NewLedgerEntryRepository(client *mongo.Client, database string, logger coreport.Logger) *LedgerEntryRepository {
	return &LedgerEntryRepository{
		collection: client.Database(database).Collection(entriesCollection),
		logger:     logger,
	}
}

// EnsureIndexes creates the unique company/reference index so replayed
// requests cannot post twice. Called once at startup, outside any session.
func (r *LedgerEntryRepository) EnsureIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "companyId", Value: 1}, {Key: "reference", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("create entry index: %w", err)
	}
	return nil
}

// Create persists a new ledger entry
func (r *LedgerEntryRepository) Create(ctx context.Context, entry *entity.LedgerEntry) error {
	doc := entryDocument{
		ID:            entry.ID,
		CompanyID:     entry.CompanyID,
		Reference:     entry.Reference,
		Direction:     string(entry.Direction),
		Amount:        entry.Amount,
		AmountInCents: entry.AmountInCents,
		Memo:          entry.Memo,
		ResultBalance: entry.ResultBalance,
		CreatedAt:     entry.CreatedAt.UnixMilli(),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
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
	var doc entryDocument
	err := r.collection.FindOne(ctx, bson.M{"companyId": companyID, "reference": reference}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrEntryNotFound
		}
		return nil, fmt.Errorf("get entry %q: %w", reference, err)
	}

	return documentToEntry(&doc), nil
}

// ReferenceExists checks whether an entry with the given reference already
// exists for the company
func (r *LedgerEntryRepository) ReferenceExists(ctx context.Context, companyID uint64, reference string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"companyId": companyID, "reference": reference})
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

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"companyId": companyID}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("list entries for company %d: %w", companyID, err)
	}
	defer cursor.Close(ctx)

	var docs []entryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode entries for company %d: %w", companyID, err)
	}

	entries := make([]*entity.LedgerEntry, 0, len(docs))
	for i := range docs {
		entries = append(entries, documentToEntry(&docs[i]))
	}
	return entries, nil
}

func documentToEntry(doc *entryDocument) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		ID:            doc.ID,
		CompanyID:     doc.CompanyID,
		Reference:     doc.Reference,
		Direction:     entity.EntryDirection(doc.Direction),
		Amount:        doc.Amount,
		AmountInCents: doc.AmountInCents,
		Memo:          doc.Memo,
		ResultBalance: doc.ResultBalance,
		CreatedAt:     millisToTime(doc.CreatedAt),
	}
}

func millisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
