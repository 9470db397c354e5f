package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/timesheet/core/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}

// ProjectRepository reads the project reference list
type ProjectRepository interface {
	List(ctx context.Context) ([]entities.Project, error)
}

// TaskRepository reads the task reference list
type TaskRepository interface {
	List(ctx context.Context) ([]entities.Task, error)
}

// TimeRecordRepository defines the document-store operations on time records
type TimeRecordRepository interface {
	// Create inserts a record; the store assigns id, created_at and updated_at.
	Create(ctx context.Context, record *entities.TimeRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.TimeRecord, error)
	// Update overwrites every field except id, owner and created_at.
	Update(ctx context.Context, record *entities.TimeRecord) error
	// SoftDelete sets deleted=true and a deletion timestamp on an owned record.
	SoftDelete(ctx context.Context, id, ownerID uuid.UUID) error
	List(ctx context.Context, filter TimeRecordFilter) ([]*entities.TimeRecord, error)
}

// AuthRepository stores hashed refresh tokens
type AuthRepository interface {
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// SessionStore tracks revoked access tokens until they expire
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TimeRecordFilter is an equality filter over the time record collection
type TimeRecordFilter struct {
	UserID  *uuid.UUID
	Deleted *bool
}

// RefreshToken is a stored refresh token row
type RefreshToken struct {
	ID        int        `db:"id"`
	UserID    uuid.UUID  `db:"user_id"`
	TokenHash string     `db:"token_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	CreatedAt time.Time  `db:"created_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

// IsExpired reports whether the token is past its expiry
func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// IsRevoked reports whether the token was revoked
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}
