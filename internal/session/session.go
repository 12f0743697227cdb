// Package session resolves the calling user from a request and carries
// one-shot notices between requests.
//
// Authentication itself happens elsewhere: an auth proxy sets a trusted header,
// or a login service writes session tokens into Redis.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultHeader = "X-User-ID"
	DefaultCookie = "sessionid"
	sessionPrefix = "session:"
)

// ErrNoIdentity means the request carries no usable identity.
var ErrNoIdentity = errors.New("no identity")

// Resolver extracts the owner id from a request.
type Resolver interface {
	Identity(r *http.Request) (string, error)
}

// HeaderResolver trusts a header set by an upstream auth proxy.
type HeaderResolver struct {
	Header string
}

func (h HeaderResolver) Identity(r *http.Request) (string, error) {
	name := h.Header
	if name == "" {
		name = DefaultHeader
	}
	id := strings.TrimSpace(r.Header.Get(name))
	if id == "" {
		return "", ErrNoIdentity
	}
	return id, nil
}

// RedisResolver looks the session cookie up under "session:<token>".
type RedisResolver struct {
	client *redis.Client
	cookie string
}

func NewRedisResolver(client *redis.Client, cookie string) *RedisResolver {
	if cookie == "" {
		cookie = DefaultCookie
	}
	return &RedisResolver{client: client, cookie: cookie}
}

func (s *RedisResolver) Identity(r *http.Request) (string, error) {
	c, err := r.Cookie(s.cookie)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return "", ErrNoIdentity
	}
	id, err := s.client.Get(r.Context(), sessionPrefix+c.Value).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoIdentity
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session from redis: %w", err)
	}
	if id = strings.TrimSpace(id); id == "" {
		return "", ErrNoIdentity
	}
	return id, nil
}

func (s *RedisResolver) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Dial opens a client and checks it answers.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
