package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Single-writer-per-attempt is an assumption, not a guarantee, so answer
// submission takes a best-effort lock around its read-grade-write cycle.
// Redis backs it when configured; otherwise an in-process mutex map covers
// the single-instance deployment.

const lockTTL = 30 * time.Second

type RedisLockRepository struct {
	client *redis.Client
}

func NewRedisLockRepository(client *redis.Client) *RedisLockRepository {
	return &RedisLockRepository{client: client}
}

// Acquire spins briefly on SETNX and returns the release func. The TTL keeps
// a crashed holder from wedging the attempt forever.
func (r *RedisLockRepository) Acquire(ctx context.Context, key string) (func(), error) {
	lockKey := "attempt_lock:" + key
	for {
		ok, err := r.client.SetNX(ctx, lockKey, 1, lockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
	return func() {
		r.client.Del(context.Background(), lockKey)
	}, nil
}

type MemoryLockRepository struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewMemoryLockRepository() *MemoryLockRepository {
	return &MemoryLockRepository{locks: make(map[string]*sync.Mutex)}
}

func (r *MemoryLockRepository) Acquire(ctx context.Context, key string) (func(), error) {
	r.mu.Lock()
	lock, ok := r.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[key] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	return lock.Unlock, nil
}
