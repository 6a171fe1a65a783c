package persistence

import (
	"context"
	"time"
)

// UnitOfWork is a caller-supplied sequence of store operations intended to
// execute atomically. The context it receives carries the live store
// transaction; repositories resolve it transparently. The coordinator never
// inspects the closure's contents, only its outcome.
type UnitOfWork func(ctx context.Context) error

// ErrorClass labels a store failure for retry decisions
type ErrorClass int

const (
	// ErrorClassFatal marks failures that will not be resolved by retrying.
	// Unknown errors default to fatal: the classification is a whitelist.
	ErrorClassFatal ErrorClass = iota
	// ErrorClassTransient marks failures caused by concurrent contention that
	// are expected to succeed if the whole unit of work is re-run
	ErrorClassTransient
)

// IsolationLevel controls visibility of concurrent transactions' writes.
// Only honored by the relational store; the document store always uses
// snapshot semantics.
type IsolationLevel string

const (
	IsolationReadCommitted  IsolationLevel = "read-committed"
	IsolationRepeatableRead IsolationLevel = "repeatable-read"
	IsolationSerializable   IsolationLevel = "serializable"
)

// IsValid reports whether the isolation level is one of the supported values
func (l IsolationLevel) IsValid() bool {
	switch l {
	case IsolationReadCommitted, IsolationRepeatableRead, IsolationSerializable:
		return true
	}
	return false
}

// TxOptions are per-call transaction settings. The struct is an immutable
// value; callers share nothing between invocations.
type TxOptions struct {
	// MaxRetries is the number of additional attempts after the first one.
	// Zero means exactly one attempt.
	MaxRetries int
	// Timeout bounds the whole call, including backoff waits between attempts
	Timeout time.Duration
	// Isolation applies to the relational store only
	Isolation IsolationLevel
}

const (
	DefaultMaxRetries = 3
	DefaultTimeout    = 30 * time.Second
)

// DefaultTxOptions returns the standard per-call transaction settings
func DefaultTxOptions() TxOptions {
	return TxOptions{
		MaxRetries: DefaultMaxRetries,
		Timeout:    DefaultTimeout,
		Isolation:  IsolationReadCommitted,
	}
}

// WithDefaults fills unset fields with their default values and clamps
// negative retry counts to zero
func (o TxOptions) WithDefaults() TxOptions {
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Isolation == "" {
		o.Isolation = IsolationReadCommitted
	}
	return o
}

// TxSession is a live handle to one store-side transaction. It is created at
// the start of one attempt and must be released (committed, rolled back, or
// discarded) before that attempt ends. A session never outlives its attempt
// and is never shared between attempts.
type TxSession interface {
	// Context returns the attempt context with the store transaction bound to it
	Context() context.Context
	// Commit makes the attempt's writes durable
	Commit(ctx context.Context) error
	// Rollback discards the attempt's writes. Safe to call after a failed
	// commit; the implementation tolerates an already-finished transaction.
	Rollback(ctx context.Context) error
	// Release frees any store-side resources that outlive commit/rollback
	// (for the document store, the logical session). Idempotent.
	Release(ctx context.Context)
}

// TxStore is the store-specific capability behind the transaction
// coordinator. Both backing-store variants implement it so the retry loop is
// written exactly once.
type TxStore interface {
	// Ready reports whether the underlying store has been initialized
	Ready() bool
	// Acquire begins a new store transaction for one attempt
	Acquire(ctx context.Context, opts TxOptions) (TxSession, error)
	// Classify labels a failure as transient or fatal
	Classify(err error) ErrorClass
}

// TxRunner executes a unit of work atomically with bounded retry on
// transient failures. Implemented by the transaction coordinator; callers
// depend on this interface, never on the concrete coordinator.
type TxRunner interface {
	Run(ctx context.Context, opts TxOptions, fn UnitOfWork) error
}
