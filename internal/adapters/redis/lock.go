package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"

	"github.com/scenesmith/scenesmith/pkg/ports"
)

var (
	// ErrLockAcquire wraps failures to take a lock, including context
	// expiry while waiting for another holder to release it.
	ErrLockAcquire = errors.New("acquire distributed lock")

	// ErrLockLost is returned by an UnlockFunc when the lock was no
	// longer held at release time, usually because its TTL elapsed.
	ErrLockLost = errors.New("distributed lock already lost")
)

// releaseScript deletes the lock key only when it still carries our
// token, so a holder whose TTL lapsed cannot free a successor's lock.
var releaseScript = backend.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

const lockRetryInterval = 100 * time.Millisecond

// Locker implements ports.DistributedLocker with the SET NX PX pattern.
// Each acquisition stores a random token and release is token-checked.
type Locker struct {
	client *backend.Client
	prefix string
}

var _ ports.DistributedLocker = (*Locker)(nil)

// NewLocker creates a Locker sharing the given client. An empty prefix
// defaults to "scenesmith:".
func NewLocker(client *backend.Client, prefix string) *Locker {
	if prefix == "" {
		prefix = "scenesmith:"
	}
	return &Locker{client: client, prefix: prefix}
}

// Lock blocks until the key is acquired or ctx ends. The returned
// UnlockFunc must be called to release; it reports ErrLockLost when the
// TTL expired before release.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	token := uuid.NewString()

	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrLockAcquire, key, err)
		}
		if ok {
			return l.unlockFunc(lockKey, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w %q: %w", ErrLockAcquire, key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *Locker) unlockFunc(lockKey, token string) ports.UnlockFunc {
	return func(ctx context.Context) error {
		released, err := releaseScript.Run(ctx, l.client, []string{lockKey}, token).Int()
		if err != nil {
			return fmt.Errorf("release lock %q: %w", lockKey, err)
		}
		if released == 0 {
			return fmt.Errorf("release lock %q: %w", lockKey, ErrLockLost)
		}
		return nil
	}
}
