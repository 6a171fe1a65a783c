package database

import (
	"context"
	"fmt"
	"strings"

	coreport "github.com/bookkeeper-app/bookkeeper/internal/domain/port/core"
	"github.com/bookkeeper-app/bookkeeper/internal/domain/port/persistence"
	"gorm.io/gorm"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const txKey contextKey = "bookkeeper.pg.tx"

// isolationStatements maps the portable isolation levels to postgres SQL.
// Applied with an explicit SET so the level is visible in the transaction,
// not buried in driver options.
var isolationStatements = map[persistence.IsolationLevel]string{
	persistence.IsolationReadCommitted:  "SET TRANSACTION ISOLATION LEVEL READ COMMITTED",
	persistence.IsolationRepeatableRead: "SET TRANSACTION ISOLATION LEVEL REPEATABLE READ",
	persistence.IsolationSerializable:   "SET TRANSACTION ISOLATION LEVEL SERIALIZABLE",
}

// Store implements persistence.TxStore on top of a gorm/postgres connection.
// Each Acquire begins a row-locking transaction with the requested isolation
// level; release returns the connection to the pool via commit or rollback.
type Store struct {
	db     *gorm.DB
	logger coreport.Logger
}

var _ persistence.TxStore = (*Store)(nil)

// NewStore creates a relational transaction store
func NewStore(db *gorm.DB, logger coreport.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Ready reports whether the store has a live database handle
func (s *Store) Ready() bool {
	return s != nil && s.db != nil
}

// Acquire begins a transaction for one attempt and binds it to the context
func (s *Store) Acquire(ctx context.Context, opts persistence.TxOptions) (persistence.TxSession, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}

	stmt, ok := isolationStatements[opts.Isolation]
	if !ok {
		tx.Rollback()
		return nil, fmt.Errorf("unsupported isolation level: %q", opts.Isolation)
	}
	if err := tx.Exec(stmt).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("set isolation level: %w", err)
	}

	return &session{
		tx:     tx,
		ctx:    context.WithValue(ctx, txKey, tx),
		logger: s.logger,
	}, nil
}

// Classify labels a failure as transient or fatal (see classifier.go)
func (s *Store) Classify(err error) persistence.ErrorClass {
	return classify(err)
}

// session is one live postgres transaction
type session struct {
	tx     *gorm.DB
	ctx    context.Context
	logger coreport.Logger
}

func (s *session) Context() context.Context {
	return s.ctx
}

func (s *session) Commit(context.Context) error {
	if err := s.tx.Commit().Error; err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Rollback aborts the transaction. A transaction that has already finished
// is not an error here: the commit path may have closed it first.
func (s *session) Rollback(context.Context) error {
	err := s.tx.Rollback().Error
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "already been committed or rolled back") {
		s.logger.Debug("rollback skipped, transaction already finished", nil)
		return nil
	}
	return fmt.Errorf("rollback: %w", err)
}

// Release is a no-op: commit and rollback both hand the connection back to
// the pool
func (s *session) Release(context.Context) {}

// DBFromContext returns the transaction bound to the context when inside a
// unit of work, or the fallback handle otherwise. Repositories use this so
// the same instance works inside and outside a transaction.
func DBFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return fallback.WithContext(ctx)
}
