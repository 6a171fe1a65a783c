package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	coreport "github.com/bookkeeper-app/bookkeeper/internal/domain/port/core"
	"github.com/bookkeeper-app/bookkeeper/internal/domain/port/persistence"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	driversession "go.mongodb.org/mongo-driver/x/mongo/driver/session"
)

// Store implements persistence.TxStore on top of a mongo client. Each
// Acquire starts a logical session with a multi-document transaction using
// majority write concern and snapshot read concern; release ends the session
// after commit or abort.
type Store struct {
	client *mongo.Client
	logger coreport.Logger
}

var _ persistence.TxStore = (*Store)(nil)

// NewStore creates a document-store transaction store
func NewStore(client *mongo.Client, logger coreport.Logger) *Store {
	return &Store{client: client, logger: logger}
}

// Ready reports whether the store has a live client
func (s *Store) Ready() bool {
	return s != nil && s.client != nil
}

// Acquire starts a session and a transaction on it for one attempt.
// The isolation level in opts is ignored: the document store always reads
// from a snapshot.
func (s *Store) Acquire(ctx context.Context, _ persistence.TxOptions) (persistence.TxSession, error) {
	sess, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	txnOpts := options.Transaction().
		SetWriteConcern(writeconcern.Majority()).
		SetReadConcern(readconcern.Snapshot())

	if err := sess.StartTransaction(txnOpts); err != nil {
		sess.EndSession(ctx)
		return nil, fmt.Errorf("start transaction: %w", err)
	}

	return &session{
		sess: sess,
		ctx:  mongo.NewSessionContext(ctx, sess),
	}, nil
}

// Classify labels a failure as transient or fatal (see classifier.go)
func (s *Store) Classify(err error) persistence.ErrorClass {
	return classify(err)
}

// session is one live logical session with an open transaction
type session struct {
	sess  mongo.Session
	ctx   mongo.SessionContext
	ended bool
}

func (s *session) Context() context.Context {
	return s.ctx
}

func (s *session) Commit(ctx context.Context) error {
	if err := s.sess.CommitTransaction(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Rollback aborts the transaction. Aborting a transaction that already
// finished is tolerated so the commit-failure path can always roll back.
func (s *session) Rollback(ctx context.Context) error {
	err := s.sess.AbortTransaction(ctx)
	if err == nil || errors.Is(err, driversession.ErrSessionEnded) {
		return nil
	}
	if strings.Contains(err.Error(), "cannot call abortTransaction") {
		return nil
	}
	return fmt.Errorf("abort: %w", err)
}

// Release ends the logical session. Idempotent.
func (s *session) Release(ctx context.Context) {
	if s.ended {
		return
	}
	s.sess.EndSession(ctx)
	s.ended = true
}
