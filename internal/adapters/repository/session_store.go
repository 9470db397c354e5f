package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/timesheet/core/internal/ports"
)

const revokedTokenPrefix = "timesheet:revoked:"

// RedisSessionStore keeps revoked access token ids in Redis until they expire
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a Redis backed session store
func NewRedisSessionStore(client *redis.Client) ports.SessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	err := s.client.Set(ctx, revokedTokenPrefix+tokenID, 1, ttl).Err()
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

func (s *RedisSessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	count, err := s.client.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked session: %w", err)
	}

	return count > 0, nil
}

// PostgresSessionStore keeps revoked access token ids in PostgreSQL. It is
// used when Redis is disabled.
type PostgresSessionStore struct {
	db *sqlx.DB
}

// NewPostgresSessionStore creates a PostgreSQL backed session store
func NewPostgresSessionStore(db *sqlx.DB) ports.SessionStore {
	return &PostgresSessionStore{db: db}
}

func (s *PostgresSessionStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	query := `
		INSERT INTO revoked_sessions (token_id, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token_id) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query, tokenID, time.Now().Add(ttl))
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

func (s *PostgresSessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM revoked_sessions WHERE token_id = $1 AND expires_at > now())`

	var revoked bool
	err := s.db.GetContext(ctx, &revoked, query, tokenID)
	if err != nil {
		return false, fmt.Errorf("check revoked session: %w", err)
	}

	return revoked, nil
}
