package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/grocery/admin/internal/domain/identity"
	"github.com/grocery/admin/internal/infrastructure/config"
)

// RedisSessionStore keeps sessions in Redis with a TTL matching their expiry
type RedisSessionStore struct {
	client    *redis.Client
	keyPrefix string
	now       func() time.Time
}

// NewRedisSessionStore connects to Redis and verifies the connection
func NewRedisSessionStore(cfg config.RedisConfig) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for sessions: %w", err)
	}

	return NewRedisSessionStoreWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisSessionStoreWithClient creates a session store with an existing Redis client
func NewRedisSessionStoreWithClient(client *redis.Client, keyPrefix string) *RedisSessionStore {
	return &RedisSessionStore{client: client, keyPrefix: keyPrefix, now: time.Now}
}

func (s *RedisSessionStore) key(id string) string {
	return s.keyPrefix + id
}

// Save stores the session until it expires
func (s *RedisSessionStore) Save(ctx context.Context, sess *identity.Session) error {
	ttl := time.Duration(0)
	if !sess.ExpiresAt.IsZero() {
		ttl = sess.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return identity.ErrSessionNotFound
		}
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get loads a session
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*identity.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, identity.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	var sess identity.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if sess.Expired(s.now()) {
		return nil, identity.ErrSessionNotFound
	}
	return &sess, nil
}

// Delete removes a session; unknown ids are not an error
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Ping checks the Redis connection
func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

var _ identity.SessionStore = (*RedisSessionStore)(nil)

// InMemorySessionStore keeps sessions in process memory.
// WARNING: sessions are lost on restart and not shared between instances.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]identity.Session
	now      func() time.Time
}

// NewInMemorySessionStore creates an empty in-memory store
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[string]identity.Session),
		now:      time.Now,
	}
}

// Save stores a copy of the session
func (s *InMemorySessionStore) Save(_ context.Context, sess *identity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = *sess
	return nil
}

// Get returns a copy of the session, dropping it when expired
func (s *InMemorySessionStore) Get(_ context.Context, id string) (*identity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, identity.ErrSessionNotFound
	}
	if sess.Expired(s.now()) {
		delete(s.sessions, id)
		return nil, identity.ErrSessionNotFound
	}
	return &sess, nil
}

// Delete removes a session
func (s *InMemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len returns the number of stored sessions, expired ones included
func (s *InMemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

var _ identity.SessionStore = (*InMemorySessionStore)(nil)
