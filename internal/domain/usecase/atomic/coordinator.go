package atomic

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "github.com/bookkeeper-app/bookkeeper/internal/domain/error"
	coreport "github.com/bookkeeper-app/bookkeeper/internal/domain/port/core"
	"github.com/bookkeeper-app/bookkeeper/internal/domain/port/persistence"
)

// Coordinator runs units of work atomically against a TxStore with bounded
// retry on transient failures. It holds no mutable state across calls, so a
// single instance is safe for any number of concurrent callers; isolation
// between calls is delegated entirely to the backing store.
type Coordinator struct {
	store   persistence.TxStore
	backoff BackoffPolicy
	logger  coreport.Logger
}

// compile-time check that Coordinator satisfies the runner port
var _ persistence.TxRunner = (*Coordinator)(nil)

// NewCoordinator creates a coordinator with the default linear backoff policy
func NewCoordinator(store persistence.TxStore, logger coreport.Logger) *Coordinator {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Coordinator{
		store:   store,
		backoff: NewLinearBackoff(DefaultBackoffStep),
		logger:  logger,
	}
}

// WithBackoff returns a new Coordinator using the given backoff policy.
// The receiver is not modified.
func (c *Coordinator) WithBackoff(policy BackoffPolicy) *Coordinator {
	if policy == nil {
		panic("backoff policy cannot be nil")
	}
	clone := *c
	clone.backoff = policy
	return &clone
}

// Run executes fn inside a store transaction. On success the transaction is
// committed and Run returns nil; exactly one commit happens per call, or
// none. On failure the transaction is rolled back and the error classified:
// fatal errors return immediately, transient errors are retried with a fresh
// session up to opts.MaxRetries times. When retries are exhausted the error
// from the last attempt is returned, wrapped with ErrRetriesExhausted. The
// whole call, backoff waits included, is bounded by opts.Timeout.
func (c *Coordinator) Run(ctx context.Context, opts persistence.TxOptions, fn persistence.UnitOfWork) error {
	if c.store == nil || !c.store.Ready() {
		return errs.ErrStoreNotInitialized
	}
	if fn == nil {
		return fmt.Errorf("%w: nil unit of work", errs.ErrInvalidRequest)
	}

	opts = opts.WithDefaults()

	runCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	attempts := opts.MaxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := runCtx.Err(); err != nil {
			return boundingContextError(err)
		}

		err := c.runAttempt(runCtx, opts, fn)
		if err == nil {
			return nil
		}
		lastErr = err

		// A failure caused by the expiring bound is a timeout, whatever the
		// store reported.
		if ctxErr := runCtx.Err(); ctxErr != nil {
			return boundingContextError(ctxErr)
		}

		if c.store.Classify(err) == persistence.ErrorClassFatal {
			return err
		}

		if attempt == attempts {
			break
		}

		wait := c.backoff.WaitDuration(attempt)
		c.logger.Warn("transient store error, retrying unit of work", map[string]any{
			"attempt":      attempt,
			"max_attempts": attempts,
			"retry_after":  wait.String(),
			"error":        err.Error(),
		})

		timer := time.NewTimer(wait)
		select {
		case <-runCtx.Done():
			timer.Stop()
			return boundingContextError(runCtx.Err())
		case <-timer.C:
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", errs.ErrRetriesExhausted, attempts, lastErr)
}

// runAttempt executes one attempt against a fresh session. The session is
// always released before returning, including when fn panics: the open
// transaction is rolled back and the panic re-raised.
func (c *Coordinator) runAttempt(ctx context.Context, opts persistence.TxOptions, fn persistence.UnitOfWork) error {
	sess, err := c.store.Acquire(ctx, opts)
	if err != nil {
		return fmt.Errorf("acquire transaction: %w", err)
	}

	completed := false
	defer func() {
		if !completed {
			// fn panicked; the session must not leak
			if rbErr := sess.Rollback(ctx); rbErr != nil {
				c.logger.Error("rollback after panic failed", map[string]any{
					"error": rbErr.Error(),
				})
			}
		}
		sess.Release(ctx)
	}()

	if err := fn(sess.Context()); err != nil {
		completed = true
		if rbErr := sess.Rollback(ctx); rbErr != nil {
			c.logger.Error("failed to roll back transaction", map[string]any{
				"error":          rbErr.Error(),
				"original_error": err.Error(),
			})
		}
		return err
	}

	if err := sess.Commit(ctx); err != nil {
		completed = true
		// Commit failures still need the rollback path so the store-side
		// transaction is not left open. Rollback after a finished commit is
		// tolerated by both session implementations.
		if rbErr := sess.Rollback(ctx); rbErr != nil {
			c.logger.Error("failed to roll back after commit error", map[string]any{
				"error": rbErr.Error(),
			})
		}
		return fmt.Errorf("commit transaction: %w", err)
	}

	completed = true
	return nil
}

// boundingContextError maps expiry of the per-call context to the
// transactional error taxonomy
func boundingContextError(ctxErr error) error {
	if errors.Is(ctxErr, context.Canceled) {
		return fmt.Errorf("%w: %v", errs.ErrTxCanceled, ctxErr)
	}
	return fmt.Errorf("%w: %v", errs.ErrTxTimeout, ctxErr)
}
