package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/timesheet/core/internal/domain/entities"
)

// AuthService is the identity service contract
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Logout(ctx context.Context, claims *Claims) error
	ValidateToken(tokenString string) (*Claims, error)
	SessionSource(tokenString string) SessionSource
}

// SessionSource publishes session changes. fn receives nil for an anonymous
// session. The returned func stops delivery.
type SessionSource interface {
	Watch(ctx context.Context, fn func(user *entities.User)) (stop func())
}

// RecordWriter is what the record editors need from the store
type RecordWriter interface {
	CreateRecord(ctx context.Context, user *entities.User, record *entities.TimeRecord) (*entities.TimeRecord, error)
	UpdateRecord(ctx context.Context, user *entities.User, id uuid.UUID, record *entities.TimeRecord) (*entities.TimeRecord, error)
}

// RecordLoader is what the list view needs from the store
type RecordLoader interface {
	ListRecords(ctx context.Context, user *entities.User) ([]*entities.TimeRecord, error)
}

// RecordService interface for time record operations
type RecordService interface {
	RecordWriter
	RecordLoader
	GetRecord(ctx context.Context, user *entities.User, id uuid.UUID) (*entities.TimeRecord, error)
	DeleteRecord(ctx context.Context, user *entities.User, id uuid.UUID) error
	Summary(ctx context.Context, user *entities.User, dateRange *entities.DateRange) (*RecordSummary, error)
}

// ReferenceLoader loads the full project and task lists
type ReferenceLoader interface {
	LoadReferenceData(ctx context.Context) (*entities.ReferenceData, error)
}

// ReferenceService interface for reference data lookups
type ReferenceService interface {
	ReferenceLoader
	ListProjects(ctx context.Context) ([]entities.Project, error)
	ListTasks(ctx context.Context) ([]entities.Task, error)
}

// Auth related types
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateUserRequest provisions an account
type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password" validate:"required,min=8"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	User         *entities.User `json:"user"`
}

// Claims is the validated content of an access token
type Claims struct {
	TokenID   string
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// RecordSummary totals owned records
type RecordSummary struct {
	Range           *entities.DateRange `json:"range,omitempty"`
	TotalRecords    int                 `json:"total_records"`
	TotalMinutes    int                 `json:"total_minutes"`
	BillableMinutes int                 `json:"billable_minutes"`
	ByProject       []SummaryLine       `json:"by_project"`
	ByDate          []SummaryLine       `json:"by_date"`
}

// SummaryLine is one grouped total
type SummaryLine struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Minutes    int     `json:"minutes"`
	Display    string  `json:"display"`
	Percentage float64 `json:"percentage"`
}
