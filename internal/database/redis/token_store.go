package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore keeps revoked JWT ids until the tokens would have expired
// anyway. Entries are keyed by jti and carry a TTL, so the set cleans
// itself up.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{
		client: client,
	}
}

func (s *TokenStore) key(jti string) string {
	return "revoked:" + jti
}

// Revoke marks a token id as revoked for the remaining token lifetime.
func (s *TokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	const op = "database.redis.TokenStore.Revoke"

	if ttl <= 0 {
		// Token already expired, nothing to track.
		return nil
	}

	if err := s.client.Set(ctx, s.key(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("%s: failed to revoke token: %w", op, err)
	}

	return nil
}

// IsRevoked reports whether a token id has been revoked.
func (s *TokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	const op = "database.redis.TokenStore.IsRevoked"

	err := s.client.Get(ctx, s.key(jti)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}

		return false, fmt.Errorf("%s: failed to check token revocation: %w", op, err)
	}

	return true, nil
}
