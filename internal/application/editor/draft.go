package editor

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/timesheet/core/internal/domain/entities"
)

// Draft holds the form fields of one record
type Draft struct {
	ProjectID   string             `json:"project_id" yaml:"project_id" validate:"required"`
	TaskID      string             `json:"task_id" yaml:"task_id" validate:"required"`
	Date        string             `json:"date" yaml:"date" validate:"required,datetime=2006-01-02"`
	Duration    *entities.Duration `json:"-" yaml:"-" validate:"required"`
	Description string             `json:"description" yaml:"description" validate:"required"`
	Type        string             `json:"type" yaml:"type"`
	Ticket      string             `json:"ticket" yaml:"ticket"`
	Billable    bool               `json:"billable" yaml:"billable"`
}

// Field names used in validation errors
const (
	FieldProject     = "project"
	FieldTask        = "task"
	FieldDate        = "date"
	FieldDuration    = "duration"
	FieldDescription = "description"
)

var fieldMessages = map[string]string{
	FieldProject:     "Please select project",
	FieldTask:        "Please select task",
	FieldDate:        "Please select date",
	FieldDuration:    "Please select duration",
	FieldDescription: "Please enter description",
}

var fieldNames = map[string]string{
	"ProjectID":   FieldProject,
	"TaskID":      FieldTask,
	"Date":        FieldDate,
	"Duration":    FieldDuration,
	"Description": FieldDescription,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name, ok := fieldNames[fld.Name]; ok {
			return name
		}
		return fld.Name
	})
	return v
}

// ValidationError maps field names to user-facing messages
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks required fields and the duration against step. A nil
// error means the draft can be written.
func (d Draft) Validate(step int) error {
	fields := map[string]string{}

	err := validate.Struct(d)
	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessages[fe.Field()]
		}
	}

	if d.Duration != nil {
		switch err := d.Duration.Validate(step); {
		case errors.Is(err, entities.ErrDurationTooLong):
			fields[FieldDuration] = "Duration cannot exceed 12 hours"
		case errors.Is(err, entities.ErrDurationStep):
			fields[FieldDuration] = fmt.Sprintf("Duration must be in %d minute steps", step)
		case err != nil:
			fields[FieldDuration] = fieldMessages[FieldDuration]
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Record builds the write payload. Hours, minutes and total minutes all
// come from the one picked duration.
func (d Draft) Record() *entities.TimeRecord {
	record := &entities.TimeRecord{
		ProjectID:   d.ProjectID,
		TaskID:      d.TaskID,
		Type:        d.Type,
		Ticket:      d.Ticket,
		Date:        d.Date,
		Description: d.Description,
		Billable:    d.Billable,
		Status:      entities.RecordStatusPending,
	}
	if d.Duration != nil {
		record.SetDuration(*d.Duration)
	}
	return record
}

// DraftFromRecord prefills a draft, rebuilding the duration from total minutes
func DraftFromRecord(record *entities.TimeRecord) Draft {
	duration := record.Duration()
	return Draft{
		ProjectID:   record.ProjectID,
		TaskID:      record.TaskID,
		Date:        record.Date,
		Duration:    &duration,
		Description: record.Description,
		Type:        record.Type,
		Ticket:      record.Ticket,
		Billable:    record.Billable,
	}
}
