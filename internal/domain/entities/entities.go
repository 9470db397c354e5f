package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrRecordNotFound      = errors.New("time record not found")
	ErrProjectNotFound     = errors.New("project not found")
	ErrTaskNotFound        = errors.New("task not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrNotAuthenticated    = errors.New("please login first")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidDuration     = errors.New("invalid duration")
	ErrDurationTooLong     = errors.New("duration exceeds 12 hours")
	ErrDurationStep        = errors.New("duration is not aligned to the minute step")
	ErrInvalidDateRange    = errors.New("invalid date range")
	ErrSessionRevoked      = errors.New("session revoked")
	ErrRefreshTokenInvalid = errors.New("invalid refresh token")
)

// DateLayout is the calendar date format used for time records.
const DateLayout = "2006-01-02"

// User represents an account known to the identity service
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Project is a read-only reference entity.
type Project struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Task is a read-only reference entity.
type Task struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// ReferenceData holds the project and task lists loaded for one view.
type ReferenceData struct {
	Projects []Project `json:"projects"`
	Tasks    []Task    `json:"tasks"`
}

// ProjectName resolves a project id to its display name. Unknown ids resolve to "".
func (r *ReferenceData) ProjectName(id string) string {
	if r == nil {
		return ""
	}
	for _, p := range r.Projects {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}

// TaskName resolves a task id to its display name. Unknown ids resolve to "".
func (r *ReferenceData) TaskName(id string) string {
	if r == nil {
		return ""
	}
	for _, t := range r.Tasks {
		if t.ID == id {
			return t.Name
		}
	}
	return ""
}

// ParseDate validates a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
