package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/timesheet/core/internal/domain/entities"
	"github.com/timesheet/core/internal/infrastructure/logger"
	"github.com/timesheet/core/internal/ports"
)

// RecordService handles time record operations for the signed-in user
type RecordService struct {
	recordRepo ports.TimeRecordRepository
	references ports.ReferenceLoader
	metrics    *RecordMetrics
	logger     *logger.Logger
}

// NewRecordService creates a new record service. metrics may be nil.
func NewRecordService(recordRepo ports.TimeRecordRepository, references ports.ReferenceLoader, metrics *RecordMetrics, logger *logger.Logger) *RecordService {
	return &RecordService{
		recordRepo: recordRepo,
		references: references,
		metrics:    metrics,
		logger:     logger,
	}
}

// CreateRecord stores a new pending record owned by user
func (s *RecordService) CreateRecord(ctx context.Context, user *entities.User, record *entities.TimeRecord) (*entities.TimeRecord, error) {
	if user == nil {
		return nil, entities.ErrNotAuthenticated
	}

	if err := normalizeRecord(record); err != nil {
		return nil, err
	}

	record.UserID = user.ID
	record.Status = entities.RecordStatusPending
	record.Deleted = false
	record.DeletedAt = nil

	err := s.recordRepo.Create(ctx, record)
	s.metrics.observe("create", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create time record: %w", err)
	}

	s.logger.Info("Time record created successfully", "record_id", record.ID, "user_id", user.ID, "date", record.Date)

	return record, nil
}

// UpdateRecord overwrites an owned, non-deleted record. The record goes back to pending.
func (s *RecordService) UpdateRecord(ctx context.Context, user *entities.User, id uuid.UUID, record *entities.TimeRecord) (*entities.TimeRecord, error) {
	if user == nil {
		return nil, entities.ErrNotAuthenticated
	}

	if err := normalizeRecord(record); err != nil {
		return nil, err
	}

	record.ID = id
	record.UserID = user.ID
	record.Status = entities.RecordStatusPending

	err := s.recordRepo.Update(ctx, record)
	s.metrics.observe("update", err)
	if err != nil {
		return nil, fmt.Errorf("failed to update time record: %w", err)
	}

	s.logger.Info("Time record updated successfully", "record_id", id, "user_id", user.ID)

	return s.recordRepo.GetByID(ctx, id)
}

// GetRecord returns an owned record. Records of other users are reported as missing.
func (s *RecordService) GetRecord(ctx context.Context, user *entities.User, id uuid.UUID) (*entities.TimeRecord, error) {
	if user == nil {
		return nil, entities.ErrNotAuthenticated
	}

	record, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get time record: %w", err)
	}

	if !record.IsOwnedBy(user.ID) || record.Deleted {
		return nil, entities.ErrRecordNotFound
	}

	return record, nil
}

// DeleteRecord soft-deletes an owned record
func (s *RecordService) DeleteRecord(ctx context.Context, user *entities.User, id uuid.UUID) error {
	if user == nil {
		return entities.ErrNotAuthenticated
	}

	err := s.recordRepo.SoftDelete(ctx, id, user.ID)
	s.metrics.observe("delete", err)
	if err != nil {
		return fmt.Errorf("failed to delete time record: %w", err)
	}

	s.logger.Info("Time record deleted successfully", "record_id", id, "user_id", user.ID)

	return nil
}

// ListRecords returns the user's non-deleted records, newest date first
func (s *RecordService) ListRecords(ctx context.Context, user *entities.User) ([]*entities.TimeRecord, error) {
	if user == nil {
		return nil, entities.ErrNotAuthenticated
	}

	notDeleted := false
	records, err := s.recordRepo.List(ctx, ports.TimeRecordFilter{UserID: &user.ID, Deleted: &notDeleted})
	s.metrics.observe("list", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list time records: %w", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})

	return records, nil
}

// Summary totals the user's records, optionally limited to dateRange
func (s *RecordService) Summary(ctx context.Context, user *entities.User, dateRange *entities.DateRange) (*ports.RecordSummary, error) {
	records, err := s.ListRecords(ctx, user)
	if err != nil {
		return nil, err
	}

	refs, err := s.references.LoadReferenceData(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}

	summary := &ports.RecordSummary{
		Range:     dateRange,
		ByProject: []ports.SummaryLine{},
		ByDate:    []ports.SummaryLine{},
	}

	projectMinutes := make(map[string]int)
	dateMinutes := make(map[string]int)
	for _, record := range records {
		if dateRange != nil && !dateRange.Contains(record.Date) {
			continue
		}
		summary.TotalRecords++
		summary.TotalMinutes += record.TotalMinutes
		if record.Billable {
			summary.BillableMinutes += record.TotalMinutes
		}
		projectMinutes[record.ProjectID] += record.TotalMinutes
		dateMinutes[record.Date] += record.TotalMinutes
	}

	for projectID, minutes := range projectMinutes {
		summary.ByProject = append(summary.ByProject, summaryLine(projectID, refs.ProjectName(projectID), minutes, summary.TotalMinutes))
	}
	sort.Slice(summary.ByProject, func(i, j int) bool {
		if summary.ByProject[i].Minutes != summary.ByProject[j].Minutes {
			return summary.ByProject[i].Minutes > summary.ByProject[j].Minutes
		}
		return summary.ByProject[i].Key < summary.ByProject[j].Key
	})

	for date, minutes := range dateMinutes {
		summary.ByDate = append(summary.ByDate, summaryLine(date, date, minutes, summary.TotalMinutes))
	}
	sort.Slice(summary.ByDate, func(i, j int) bool {
		return summary.ByDate[i].Key < summary.ByDate[j].Key
	})

	return summary, nil
}

func summaryLine(key, label string, minutes, total int) ports.SummaryLine {
	line := ports.SummaryLine{
		Key:     key,
		Label:   label,
		Minutes: minutes,
		Display: entities.FormatMinutes(minutes),
	}
	if total > 0 {
		line.Percentage = float64(minutes) / float64(total) * 100
	}
	return line
}

// normalizeRecord checks the date and the duration fields. TotalMinutes
// wins when set; an hour/minute pair sent alongside it must agree with it.
// With no total, the pair is used and must have minutes in 0-59.
func normalizeRecord(record *entities.TimeRecord) error {
	if record == nil {
		return fmt.Errorf("time record is required")
	}

	if _, err := entities.ParseDate(record.Date); err != nil {
		return err
	}

	hasPair := record.Hours != 0 || record.Minutes != 0
	if hasPair && (record.Hours < 0 || record.Minutes < 0 || record.Minutes > 59) {
		return fmt.Errorf("%w: %dh %dm", entities.ErrInvalidDuration, record.Hours, record.Minutes)
	}

	d := record.Duration()
	switch {
	case record.TotalMinutes != 0 && hasPair:
		if entities.NewDuration(record.Hours, record.Minutes) != d {
			return fmt.Errorf("%w: %dh %dm does not match %d minutes",
				entities.ErrInvalidDuration, record.Hours, record.Minutes, record.TotalMinutes)
		}
	case hasPair:
		d = entities.NewDuration(record.Hours, record.Minutes)
	}

	if err := d.Validate(0); err != nil {
		return err
	}
	record.SetDuration(d)

	return nil
}
