package atomic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	errs "github.com/bookkeeper-app/bookkeeper/internal/domain/error"
	"github.com/bookkeeper-app/bookkeeper/internal/domain/port/persistence"
	mockcore "github.com/bookkeeper-app/bookkeeper/mocks/port/core"
)

// fakeSession records lifecycle calls for one attempt
type fakeSession struct {
	id        int
	ctx       context.Context
	commits   int
	rollbacks int
	released  int
	commitErr error
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) Commit(context.Context) error {
	s.commits++
	return s.commitErr
}

func (s *fakeSession) Rollback(context.Context) error {
	s.rollbacks++
	return nil
}

func (s *fakeSession) Release(context.Context) { s.released++ }

// fakeStore hands out a fresh counted session per acquire and classifies
// errors by sentinel
type fakeStore struct {
	ready      bool
	acquires   int
	sessions   []*fakeSession
	acquireErr error
	commitErrs []error // commit error per attempt, nil-padded
	transient  []error // errors classified transient; everything else fatal
}

func newFakeStore() *fakeStore {
	return &fakeStore{ready: true}
}

func (s *fakeStore) Ready() bool { return s.ready }

func (s *fakeStore) Acquire(ctx context.Context, _ persistence.TxOptions) (persistence.TxSession, error) {
	s.acquires++
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}
	sess := &fakeSession{id: s.acquires, ctx: ctx}
	if s.acquires <= len(s.commitErrs) {
		sess.commitErr = s.commitErrs[s.acquires-1]
	}
	s.sessions = append(s.sessions, sess)
	return sess, nil
}

func (s *fakeStore) Classify(err error) persistence.ErrorClass {
	for _, t := range s.transient {
		if errors.Is(err, t) {
			return persistence.ErrorClassTransient
		}
	}
	return persistence.ErrorClassFatal
}

func (s *fakeStore) totalCommits() int {
	n := 0
	for _, sess := range s.sessions {
		n += sess.commits
	}
	return n
}

func quietLogger(t *testing.T) *mockcore.MockLogger {
	t.Helper()
	logger := mockcore.NewMockLogger(t)
	logger.EXPECT().Warn(mock.Anything, mock.Anything).Maybe()
	logger.EXPECT().Error(mock.Anything, mock.Anything).Maybe()
	return logger
}

func fastCoordinator(store persistence.TxStore, logger *mockcore.MockLogger) *Coordinator {
	return NewCoordinator(store, logger).WithBackoff(NewLinearBackoff(time.Millisecond))
}

func TestNewCoordinator(t *testing.T) {
	t.Run("nil logger panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewCoordinator(newFakeStore(), nil)
		})
	})

	t.Run("nil backoff policy panics", func(t *testing.T) {
		c := NewCoordinator(newFakeStore(), quietLogger(t))
		assert.Panics(t, func() {
			c.WithBackoff(nil)
		})
	})

	t.Run("WithBackoff does not modify the receiver", func(t *testing.T) {
		c := NewCoordinator(newFakeStore(), quietLogger(t))
		clone := c.WithBackoff(NewLinearBackoff(time.Millisecond))
		assert.NotSame(t, c, clone)
		assert.NotEqual(t, c.backoff, clone.backoff)
	})
}

func TestCoordinator_Run_Success(t *testing.T) {
	store := newFakeStore()
	coord := fastCoordinator(store, quietLogger(t))

	calls := 0
	err := coord.Run(context.Background(), persistence.DefaultTxOptions(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, store.acquires)
	assert.Equal(t, 1, store.totalCommits())
	assert.Equal(t, 0, store.sessions[0].rollbacks)
	assert.Equal(t, 1, store.sessions[0].released)
}

func TestCoordinator_Run_StoreNotInitialized(t *testing.T) {
	logger := quietLogger(t)

	t.Run("nil store", func(t *testing.T) {
		coord := NewCoordinator(nil, logger)
		err := coord.Run(context.Background(), persistence.DefaultTxOptions(), func(ctx context.Context) error {
			t.Fatal("unit of work must not run")
			return nil
		})
		assert.ErrorIs(t, err, errs.ErrStoreNotInitialized)
	})

	t.Run("store not ready", func(t *testing.T) {
		store := newFakeStore()
		store.ready = false
		coord := fastCoordinator(store, logger)
		err := coord.Run(context.Background(), persistence.DefaultTxOptions(), func(ctx context.Context) error {
			return nil
		})
		assert.ErrorIs(t, err, errs.ErrStoreNotInitialized)
		assert.Equal(t, 0, store.acquires)
	})
}

func TestCoordinator_Run_FatalErrorNoRetry(t *testing.T) {
	store := newFakeStore()
	coord := fastCoordinator(store, quietLogger(t))

	fatal := errors.New("unique constraint violated")
	attempts := 0
	opts := persistence.TxOptions{MaxRetries: 5, Timeout: 5 * time.Second}

	err := coord.Run(context.Background(), opts, func(ctx context.Context) error {
		attempts++
		return fatal
	})

	require.ErrorIs(t, err, fatal)
	assert.NotErrorIs(t, err, errs.ErrRetriesExhausted)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 0, store.totalCommits())
	assert.Equal(t, 1, store.sessions[0].rollbacks)
	assert.Equal(t, 1, store.sessions[0].released)
}

func TestCoordinator_Run_TransientThenSuccess(t *testing.T) {
	store := newFakeStore()
	contention := errors.New("could not serialize access")
	store.transient = []error{contention}

	logger := mockcore.NewMockLogger(t)
	// one warning per retry, carrying the attempt index
	logger.EXPECT().Warn(mock.Anything, mock.Anything).Twice()

	coord := fastCoordinator(store, logger)

	attempts := 0
	opts := persistence.TxOptions{MaxRetries: 2, Timeout: 5 * time.Second}
	err := coord.Run(context.Background(), opts, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return contention
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, store.acquires)
	assert.Equal(t, 1, store.totalCommits())
}

func TestCoordinator_Run_RetriesExhausted(t *testing.T) {
	store := newFakeStore()
	first := errors.New("deadlock detected on relation a")
	last := errors.New("deadlock detected on relation b")
	store.transient = []error{first, last}

	coord := fastCoordinator(store, quietLogger(t))

	attempts := 0
	opts := persistence.TxOptions{MaxRetries: 3, Timeout: 5 * time.Second}
	err := coord.Run(context.Background(), opts, func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return first
		}
		return last
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrRetriesExhausted)
	// the last attempt's error surfaces, not the first
	assert.ErrorIs(t, err, last)
	assert.NotErrorIs(t, err, first)
	assert.Equal(t, 4, attempts)
	assert.Equal(t, 0, store.totalCommits())
}

func TestCoordinator_Run_ZeroRetriesMeansOneAttempt(t *testing.T) {
	store := newFakeStore()
	contention := errors.New("write conflict")
	store.transient = []error{contention}

	coord := fastCoordinator(store, quietLogger(t))

	attempts := 0
	opts := persistence.TxOptions{MaxRetries: 0, Timeout: 5 * time.Second}
	err := coord.Run(context.Background(), opts, func(ctx context.Context) error {
		attempts++
		return contention
	})

	assert.ErrorIs(t, err, errs.ErrRetriesExhausted)
	assert.Equal(t, 1, attempts)
}

func TestCoordinator_Run_TimeoutPreemptsRetry(t *testing.T) {
	store := newFakeStore()
	contention := errors.New("write conflict")
	store.transient = []error{contention}

	// backoff far longer than the call budget, so the deadline fires mid-wait
	coord := NewCoordinator(store, quietLogger(t)).WithBackoff(NewLinearBackoff(time.Second))

	attempts := 0
	opts := persistence.TxOptions{MaxRetries: 5, Timeout: 50 * time.Millisecond}
	err := coord.Run(context.Background(), opts, func(ctx context.Context) error {
		attempts++
		return contention
	})

	assert.ErrorIs(t, err, errs.ErrTxTimeout)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 0, store.totalCommits())
}

func TestCoordinator_Run_CallerCancellation(t *testing.T) {
	store := newFakeStore()
	coord := fastCoordinator(store, quietLogger(t))

	ctx, cancel := context.WithCancel(context.Background())

	err := coord.Run(ctx, persistence.DefaultTxOptions(), func(c context.Context) error {
		cancel()
		return context.Canceled
	})

	assert.ErrorIs(t, err, errs.ErrTxCanceled)
	assert.Equal(t, 0, store.totalCommits())
	assert.Equal(t, 1, store.sessions[0].released)
}

func TestCoordinator_Run_SessionIsolationAcrossAttempts(t *testing.T) {
	store := newFakeStore()
	contention := errors.New("write conflict")
	store.transient = []error{contention}

	coord := fastCoordinator(store, quietLogger(t))

	attempts := 0
	opts := persistence.TxOptions{MaxRetries: 2, Timeout: 5 * time.Second}
	err := coord.Run(context.Background(), opts, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return contention
		}
		return nil
	})
	require.NoError(t, err)

	// one acquire per attempt, and every session fully released before the next
	assert.Equal(t, attempts, store.acquires)
	require.Len(t, store.sessions, 3)
	for i, sess := range store.sessions {
		assert.Equal(t, i+1, sess.id)
		assert.Equal(t, 1, sess.released, "session %d must be released exactly once", i+1)
	}
}

func TestCoordinator_Run_TransientCommitErrorIsRetried(t *testing.T) {
	store := newFakeStore()
	ambiguous := errors.New("unknown transaction commit result")
	store.transient = []error{ambiguous}
	store.commitErrs = []error{ambiguous, nil}

	coord := fastCoordinator(store, quietLogger(t))

	opts := persistence.TxOptions{MaxRetries: 2, Timeout: 5 * time.Second}
	err := coord.Run(context.Background(), opts, func(ctx context.Context) error {
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, store.acquires)
	// first commit failed, second succeeded
	assert.Equal(t, 1, store.sessions[0].commits)
	assert.Equal(t, 1, store.sessions[0].rollbacks)
	assert.Equal(t, 1, store.sessions[1].commits)
}

func TestCoordinator_Run_AcquireErrorIsClassified(t *testing.T) {
	store := newFakeStore()
	store.acquireErr = errors.New("connection refused")

	coord := fastCoordinator(store, quietLogger(t))

	err := coord.Run(context.Background(), persistence.DefaultTxOptions(), func(ctx context.Context) error {
		t.Fatal("unit of work must not run without a session")
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, store.acquireErr)
	assert.Equal(t, 1, store.acquires)
}

func TestCoordinator_Run_PanicRollsBackAndPropagates(t *testing.T) {
	store := newFakeStore()
	coord := fastCoordinator(store, quietLogger(t))

	assert.Panics(t, func() {
		_ = coord.Run(context.Background(), persistence.DefaultTxOptions(), func(ctx context.Context) error {
			panic("unexpected fault in unit of work")
		})
	})

	require.Len(t, store.sessions, 1)
	assert.Equal(t, 0, store.sessions[0].commits)
	assert.Equal(t, 1, store.sessions[0].rollbacks)
	assert.Equal(t, 1, store.sessions[0].released)
}

func TestCoordinator_Run_NilUnitOfWork(t *testing.T) {
	coord := fastCoordinator(newFakeStore(), quietLogger(t))
	err := coord.Run(context.Background(), persistence.DefaultTxOptions(), nil)
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)
}

func TestCoordinator_Run_NegativeRetriesClamped(t *testing.T) {
	store := newFakeStore()
	contention := errors.New("write conflict")
	store.transient = []error{contention}

	coord := fastCoordinator(store, quietLogger(t))

	attempts := 0
	opts := persistence.TxOptions{MaxRetries: -4, Timeout: time.Second}
	err := coord.Run(context.Background(), opts, func(ctx context.Context) error {
		attempts++
		return contention
	})

	assert.ErrorIs(t, err, errs.ErrRetriesExhausted)
	assert.Equal(t, 1, attempts)
}
