package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/redmonkez12/go-auth-api/internal/logging"
)

// CachedStore keeps the public identity of registered users in Redis.
// Password hashes never leave the underlying store, so FindByEmail always
// reads through. The cache answers IsRegistered, which lets registration
// skip hashing for an email that is known to be taken.
//
// Users are immutable once created, so an entry never goes stale. Misses are
// not recorded and Redis failures only cost the shortcut.
type CachedStore struct {
	next   Store
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

func NewCachedStore(next Store, client *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedStore {
	return &CachedStore{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// identityEntry is everything the cache holds about a user.
type identityEntry struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// getIdentityKey generates the Redis key for a user's identity by email
func getIdentityKey(email string) string {
	return fmt.Sprintf("user:identity:%s", NormalizeEmail(email))
}

func (s *CachedStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.next.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	s.remember(ctx, u)
	return u, nil
}

func (s *CachedStore) Insert(ctx context.Context, email, passwordHash string) (*User, error) {
	u, err := s.next.Insert(ctx, email, passwordHash)
	if err != nil {
		return nil, err
	}

	s.remember(ctx, u)
	return u, nil
}

func (s *CachedStore) IsRegistered(ctx context.Context, email string) bool {
	_, ok := s.Identity(ctx, email)
	return ok
}

// Identity returns the cached public projection of a user, if any.
func (s *CachedStore) Identity(ctx context.Context, email string) (*User, bool) {
	data, err := s.client.Get(ctx, getIdentityKey(email)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("user cache read failed", "error", err)
		}
		return nil, false
	}

	var entry identityEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		s.logger.Warn("user cache entry corrupt", "error", err)
		return nil, false
	}

	return &User{ID: entry.ID, Email: entry.Email, CreatedAt: entry.CreatedAt}, true
}

func (s *CachedStore) remember(ctx context.Context, u *User) {
	data, err := json.Marshal(identityEntry{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	})
	if err != nil {
		s.logger.Warn("failed to encode user cache entry", "error", err)
		return
	}

	if err := s.client.Set(ctx, getIdentityKey(u.Email), data, s.ttl).Err(); err != nil {
		s.logger.Warn("user cache write failed", "error", err)
	}
}
