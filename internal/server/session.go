package server

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionCookieName is the cookie that carries the opaque session token.
const SessionCookieName = "gridcode_session"

// SessionStore issues and resolves opaque session tokens. Tokens carry no
// claims; the user ID lives server-side only.
type SessionStore interface {
	Issue(ctx context.Context, userID uint) (string, error)
	Lookup(ctx context.Context, token string) (uint, bool, error)
	Destroy(ctx context.Context, token string) error
}

type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore backs sessions with Redis so they survive restarts
// and are shared across replicas.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func (s *redisSessionStore) Issue(ctx context.Context, userID uint) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, sessionKey(token), strconv.FormatUint(uint64(userID), 10), s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *redisSessionStore) Lookup(ctx context.Context, token string) (uint, bool, error) {
	raw, err := s.client.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	userID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false, nil
	}
	return uint(userID), true, nil
}

func (s *redisSessionStore) Destroy(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}

type memorySession struct {
	userID    uint
	expiresAt time.Time
}

type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
	ttl      time.Duration
}

// NewMemorySessionStore keeps sessions in process memory. Used when Redis is
// unavailable, notably with the in-memory storage driver.
func NewMemorySessionStore(ttl time.Duration) SessionStore {
	return &memorySessionStore{
		sessions: make(map[string]memorySession),
		ttl:      ttl,
	}
}

func (s *memorySessionStore) Issue(_ context.Context, userID uint) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = memorySession{
		userID:    userID,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()
	return token, nil
}

func (s *memorySessionStore) Lookup(_ context.Context, token string) (uint, bool, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return 0, false, nil
	}
	if time.Now().After(session.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return 0, false, nil
	}
	return session.userID, true, nil
}

func (s *memorySessionStore) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}
