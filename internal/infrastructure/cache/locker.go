package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/zreport/backend/internal/domain/shared"
)

// CodeLockBusy is returned when a key stays held past the caller's deadline
const CodeLockBusy = "LOCK_BUSY"

// ErrLockBusy reports that another writer holds the key
var ErrLockBusy = shared.NewDomainError(CodeLockBusy, "Another save for this report is in progress")

// ReleaseFunc releases a held lock. It is safe to call more than once.
type ReleaseFunc func()

// Locker serializes work per key across writers
type Locker interface {
	// Acquire blocks until key is held, ctx is done or the locker gives up.
	// ttl bounds how long a crashed holder can keep the key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error)
}

// RedisLocker implements Locker with bsm/redislock so several server
// instances share one lock space
type RedisLocker struct {
	client  *redislock.Client
	prefix  string
	backoff time.Duration
}

// NewRedisLocker creates a locker on an existing Redis client
func NewRedisLocker(rdb redis.UniversalClient) *RedisLocker {
	return &RedisLocker{
		client:  redislock.New(rdb),
		prefix:  "zreport:lock:",
		backoff: 50 * time.Millisecond,
	}
}

// Acquire obtains key, retrying with linear backoff until ctx is done.
// Without a ctx deadline only one attempt is made.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error) {
	opts := &redislock.Options{}
	if _, ok := ctx.Deadline(); ok {
		opts.RetryStrategy = redislock.LinearBackoff(l.backoff)
	}

	lock, err := l.client.Obtain(ctx, l.prefix+key, ttl, opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLockBusy
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// the lock expires on its own if release fails
			_ = lock.Release(context.WithoutCancel(ctx))
		})
	}, nil
}

// Ensure RedisLocker implements Locker
var _ Locker = (*RedisLocker)(nil)

// InProcessLocker implements Locker with one channel per key.
// It only serializes writers inside a single process.
type InProcessLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

// NewInProcessLocker creates an empty in-process locker
func NewInProcessLocker() *InProcessLocker {
	return &InProcessLocker{slots: make(map[string]*slot)}
}

// Acquire waits for key until ctx is done. ttl is ignored: a holder in the
// same process cannot outlive it.
func (l *InProcessLocker) Acquire(ctx context.Context, key string, _ time.Duration) (ReleaseFunc, error) {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, s)
		return nil, ErrLockBusy
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.unref(key, s)
		})
	}, nil
}

func (l *InProcessLocker) unref(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// Ensure InProcessLocker implements Locker
var _ Locker = (*InProcessLocker)(nil)
