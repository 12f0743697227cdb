package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultNoticeTTL bounds how long an unread notice survives.
const DefaultNoticeTTL = time.Hour

// Notices queues messages for a user until the next Drain. It satisfies
// watchlist.Notifier.
type Notices interface {
	Notify(ctx context.Context, owner, message string) error
	Drain(ctx context.Context, owner string) ([]string, error)
}

// RedisNotices keeps a list per owner under "notices:<owner>".
type RedisNotices struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisNotices(client *redis.Client, ttl time.Duration) *RedisNotices {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return &RedisNotices{client: client, ttl: ttl}
}

func noticeKey(owner string) string { return "notices:" + owner }

func (n *RedisNotices) Notify(ctx context.Context, owner, message string) error {
	key := noticeKey(owner)
	pipe := n.client.TxPipeline()
	pipe.RPush(ctx, key, message)
	pipe.Expire(ctx, key, n.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push notice to redis: %w", err)
	}
	return nil
}

// Drain returns pending notices oldest first and clears them.
func (n *RedisNotices) Drain(ctx context.Context, owner string) ([]string, error) {
	key := noticeKey(owner)
	var lr *redis.StringSliceCmd
	_, err := n.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lr = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to drain notices from redis: %w", err)
	}
	out := lr.Val()
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (n *RedisNotices) Ping(ctx context.Context) error {
	return n.client.Ping(ctx).Err()
}

// MemoryNotices is the single-process Notices used with header identities.
type MemoryNotices struct {
	mu    sync.Mutex
	items map[string][]string
}

func NewMemoryNotices() *MemoryNotices {
	return &MemoryNotices{items: make(map[string][]string)}
}

func (m *MemoryNotices) Notify(_ context.Context, owner, message string) error {
	m.mu.Lock()
	m.items[owner] = append(m.items[owner], message)
	m.mu.Unlock()
	return nil
}

func (m *MemoryNotices) Drain(_ context.Context, owner string) ([]string, error) {
	m.mu.Lock()
	out := m.items[owner]
	delete(m.items, owner)
	m.mu.Unlock()
	if out == nil {
		out = []string{}
	}
	return out, nil
}
