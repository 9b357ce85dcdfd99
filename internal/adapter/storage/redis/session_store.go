package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"momo-bridge/internal/core/domain"
	"momo-bridge/internal/core/ports"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// SessionStore implements ports.SessionStore. Sessions carry the wallet
// auth token, so the JSON is sealed before it reaches Redis.
type SessionStore struct {
	client *goredis.Client
	encSvc ports.EncryptionService
	prefix string
}

// NewSessionStore creates a Redis-backed wallet session store.
func NewSessionStore(client *goredis.Client, encSvc ports.EncryptionService) *SessionStore {
	return &SessionStore{
		client: client,
		encSvc: encSvc,
		prefix: sessionPrefix,
	}
}

func (s *SessionStore) key(userID uuid.UUID) string {
	return s.prefix + userID.String()
}

// Get returns the cached session, or nil, nil when there is none.
func (s *SessionStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Session, error) {
	sealed, err := s.client.Get(ctx, s.key(userID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis session get: %w", err)
	}

	plain, err := s.encSvc.Decrypt(sealed)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(plain), &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

// Set seals and stores the session with a TTL.
func (s *SessionStore) Set(ctx context.Context, userID uuid.UUID, session domain.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	sealed, err := s.encSvc.Encrypt(string(data))
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(userID), sealed, ttl).Err(); err != nil {
		return fmt.Errorf("redis session set: %w", err)
	}
	return nil
}

// Delete drops the cached session. Deleting a missing session is not an error.
func (s *SessionStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis session delete: %w", err)
	}
	return nil
}
