package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookshelf/secureapp/internal/core/domain"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps session records in Redis. Each key expires together with
// its session, so an abandoned session disappears without a sweeper.
// Key format: session:<session_id>
type SessionStore struct {
	client redis.Cmdable
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client redis.Cmdable) *SessionStore {
	return &SessionStore{client: client}
}

// Save writes the record with the given TTL. A non-positive TTL removes it.
func (s *SessionStore) Save(ctx context.Context, session domain.Session, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Delete(ctx, session.ID)
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Refresh overwrites the record only while its key exists (SET XX), so a
// session deleted by a concurrent logout stays deleted.
func (s *SessionStore) Refresh(ctx context.Context, session domain.Session, ttl time.Duration) error {
	if ttl <= 0 {
		if err := s.Delete(ctx, session.ID); err != nil {
			return err
		}
		return domain.ErrSessionNotFound
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ok, err := s.client.SetXX(ctx, s.key(session.ID), payload, ttl).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ErrSessionNotFound
		}
		return fmt.Errorf("refresh session: %w", err)
	}
	if !ok {
		return domain.ErrSessionNotFound
	}
	return nil
}

// Find returns domain.ErrSessionNotFound when the key is missing or evicted.
func (s *SessionStore) Find(ctx context.Context, id string) (*domain.Session, error) {
	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(id string) string {
	return sessionKeyPrefix + id
}
