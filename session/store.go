// Package session is the Redis-backed session store behind the identity
// provider: an opaque uuid token maps to a user id with a TTL.
package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNoSession means the token is unknown or expired.
var ErrNoSession = errors.New("session not found")

type Store struct {
	cli *redis.Client
	ttl time.Duration
}

func New(addr string, db int, ttl time.Duration) *Store {
	return &Store{
		cli: redis.NewClient(&redis.Options{Addr: addr, DB: db}),
		ttl: ttl,
	}
}

func key(token string) string { return "session:" + token }

// Create opens a session for the user and returns its token.
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := s.cli.Set(ctx, key(token), strconv.FormatInt(userID, 10), s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve maps a token back to its user id and refreshes the TTL, so an
// active session does not expire mid-use.
func (s *Store) Resolve(ctx context.Context, token string) (int64, error) {
	val, err := s.cli.GetEx(ctx, key(token), s.ttl).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNoSession
		}
		return 0, err
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrNoSession
	}
	return id, nil
}

// Destroy ends the session. Destroying an unknown token is a no-op.
func (s *Store) Destroy(ctx context.Context, token string) error {
	return s.cli.Del(ctx, key(token)).Err()
}

// Ping verifies the Redis connection at startup.
func (s *Store) Ping(ctx context.Context) error {
	return s.cli.Ping(ctx).Err()
}
