package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/timesheet/core/internal/domain/entities"
	"github.com/timesheet/core/internal/ports"
)

const timeRecordColumns = `id, user_id, project_id, task_id, type, ticket,
	to_char(entry_date, 'YYYY-MM-DD') AS entry_date, hours, minutes, total_minutes,
	description, billable, status, deleted, deleted_at, created_at, updated_at`

// TimeRecordRepositoryImpl implements the TimeRecordRepository interface
type TimeRecordRepositoryImpl struct {
	db *sqlx.DB
}

// NewTimeRecordRepository creates a new time record repository
func NewTimeRecordRepository(db *sqlx.DB) ports.TimeRecordRepository {
	return &TimeRecordRepositoryImpl{db: db}
}

func (r *TimeRecordRepositoryImpl) Create(ctx context.Context, record *entities.TimeRecord) error {
	query := `
		INSERT INTO time_records (user_id, project_id, task_id, type, ticket, entry_date,
			hours, minutes, total_minutes, description, billable, status, deleted)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		record.UserID, record.ProjectID, record.TaskID, record.Type, record.Ticket, record.Date,
		record.Hours, record.Minutes, record.TotalMinutes, record.Description, record.Billable,
		record.Status, record.Deleted,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create time record: %w", err)
	}

	return nil
}

func (r *TimeRecordRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.TimeRecord, error) {
	query := `SELECT ` + timeRecordColumns + `
		FROM time_records
		WHERE id = $1`

	var record entities.TimeRecord
	err := r.db.GetContext(ctx, &record, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrRecordNotFound
		}
		return nil, fmt.Errorf("get time record by id: %w", err)
	}

	return &record, nil
}

func (r *TimeRecordRepositoryImpl) Update(ctx context.Context, record *entities.TimeRecord) error {
	query := `
		UPDATE time_records
		SET project_id = $3, task_id = $4, type = $5, ticket = $6, entry_date = $7::date,
			hours = $8, minutes = $9, total_minutes = $10, description = $11, billable = $12,
			status = $13, updated_at = now()
		WHERE id = $1 AND user_id = $2 AND deleted = FALSE
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		record.ID, record.UserID, record.ProjectID, record.TaskID, record.Type, record.Ticket,
		record.Date, record.Hours, record.Minutes, record.TotalMinutes, record.Description,
		record.Billable, record.Status,
	).Scan(&record.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.ErrRecordNotFound
		}
		return fmt.Errorf("update time record: %w", err)
	}

	return nil
}

func (r *TimeRecordRepositoryImpl) SoftDelete(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `
		UPDATE time_records
		SET deleted = TRUE, deleted_at = COALESCE(deleted_at, now())
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete time record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrRecordNotFound
	}

	return nil
}

func (r *TimeRecordRepositoryImpl) List(ctx context.Context, filter ports.TimeRecordFilter) ([]*entities.TimeRecord, error) {
	conditions := []string{}
	args := []interface{}{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}

	if filter.Deleted != nil {
		args = append(args, *filter.Deleted)
		conditions = append(conditions, fmt.Sprintf("deleted = $%d", len(args)))
	}

	query := `SELECT ` + timeRecordColumns + ` FROM time_records`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY entry_date DESC, created_at DESC"

	records := []*entities.TimeRecord{}
	err := r.db.SelectContext(ctx, &records, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list time records: %w", err)
	}

	return records, nil
}
