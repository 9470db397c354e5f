package entities

import (
	"time"

	"github.com/google/uuid"
)

// RecordStatus is the review status of a time record.
type RecordStatus string

// Records are only ever written as pending; no transitions exist.
const (
	RecordStatusPending RecordStatus = "Pending"
)

// TimeRecord represents one logged unit of work
type TimeRecord struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	UserID       uuid.UUID    `json:"user_id" db:"user_id"`
	ProjectID    string       `json:"project_id" db:"project_id"`
	TaskID       string       `json:"task_id" db:"task_id"`
	Type         string       `json:"type" db:"type"`
	Ticket       string       `json:"ticket" db:"ticket"`
	Date         string       `json:"date" db:"entry_date"`
	Hours        int          `json:"hours" db:"hours"`
	Minutes      int          `json:"minutes" db:"minutes"`
	TotalMinutes int          `json:"total_minutes" db:"total_minutes"`
	Description  string       `json:"description" db:"description"`
	Billable     bool         `json:"billable" db:"billable"`
	Status       RecordStatus `json:"status" db:"status"`
	Deleted      bool         `json:"deleted" db:"deleted"`
	DeletedAt    *time.Time   `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// SetDuration writes all three duration fields from d.
func (r *TimeRecord) SetDuration(d Duration) {
	r.Hours = d.Hours()
	r.Minutes = d.Minutes()
	r.TotalMinutes = d.TotalMinutes()
}

// Duration reconstructs the picked duration from TotalMinutes.
func (r *TimeRecord) Duration() Duration {
	return DurationFromMinutes(r.TotalMinutes)
}

// IsOwnedBy reports whether the record belongs to userID.
func (r *TimeRecord) IsOwnedBy(userID uuid.UUID) bool {
	return r.UserID == userID
}

// MarkDeleted applies the soft-delete marker. The first deletion time is kept.
func (r *TimeRecord) MarkDeleted(at time.Time) {
	r.Deleted = true
	if r.DeletedAt == nil {
		r.DeletedAt = &at
	}
}

// DateRange is an inclusive calendar date range.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewDateRange validates both bounds and their order.
func NewDateRange(start, end string) (*DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	e, err := ParseDate(end)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	if e.Before(s) {
		return nil, ErrInvalidDateRange
	}
	return &DateRange{Start: start, End: end}, nil
}

// Contains reports whether date lies within the range, bounds included.
// Dates are YYYY-MM-DD so lexical order is chronological order.
func (r DateRange) Contains(date string) bool {
	return date >= r.Start && date <= r.End
}
