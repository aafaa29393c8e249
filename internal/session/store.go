// Package session holds server-side login sessions in redis. A session is
// ephemeral state keyed by a random id carried in a cookie: the user's
// identity plus the access/refresh token pair the session guard validates.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
)

type Session struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// HasTokens reports whether both tokens of the pair are present.
func (s *Session) HasTokens() bool {
	return s.AccessToken != "" && s.RefreshToken != ""
}

type Store struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewStore(client *redisv9.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{client: client, ttl: ttl}
}

// Create stores the session under a fresh random id and returns the id.
func (s *Store) Create(ctx context.Context, sess Session) (string, error) {
	id := uuid.NewString()
	if err := s.write(ctx, id, sess); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Session, bool, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get session failed: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, false, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return &sess, true, nil
}

// Update rewrites an existing session in place, refreshing its TTL.
func (s *Store) Update(ctx context.Context, id string, sess Session) error {
	return s.write(ctx, id, sess)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session failed: %w", err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, id string, sess Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if err := s.client.Set(ctx, s.key(id), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session failed: %w", err)
	}
	return nil
}

func (s *Store) key(id string) string {
	return "session:" + id
}
