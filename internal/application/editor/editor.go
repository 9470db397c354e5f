// Package editor implements the single-record and bulk record forms: their
// open/closed states, field validation and the writes they issue on submit.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/timesheet/core/internal/domain/entities"
	"github.com/timesheet/core/internal/infrastructure/config"
	"github.com/timesheet/core/internal/infrastructure/logger"
	"github.com/timesheet/core/internal/ports"
)

// Mode is the editor state
type Mode int

const (
	ModeClosed Mode = iota
	ModeCreate
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	default:
		return "closed"
	}
}

var (
	ErrEditorClosed     = errors.New("editor is not open")
	ErrSubmitInProgress = errors.New("a save is already in progress")
)

// Editor is the single-record form
type Editor struct {
	writer    ports.RecordWriter
	step      int
	minSave   time.Duration
	logger    *logger.Logger
	onSuccess func()

	mu      sync.Mutex
	mode    Mode
	source  *entities.TimeRecord
	draft   Draft
	touched map[string]bool
	busy    bool
}

// NewEditor creates a closed editor. onSuccess runs after every successful
// save and may be nil.
func NewEditor(writer ports.RecordWriter, cfg config.EditorConfig, logger *logger.Logger, onSuccess func()) *Editor {
	return &Editor{
		writer:    writer,
		step:      cfg.MinuteStep,
		minSave:   cfg.MinSaveDuration,
		logger:    logger,
		onSuccess: onSuccess,
		touched:   map[string]bool{},
	}
}

// OpenCreate opens a blank form
func (e *Editor) OpenCreate() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.mode = ModeCreate
	e.source = nil
	e.draft = Draft{}
	e.touched = map[string]bool{}
}

// OpenEdit opens the form prefilled from record
func (e *Editor) OpenEdit(record *entities.TimeRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.mode = ModeEdit
	e.source = record
	e.draft = DraftFromRecord(record)
	e.touched = map[string]bool{}
}

// Mode returns the current state
func (e *Editor) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Draft returns a copy of the current field values
func (e *Editor) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Touched reports whether any field was set since the form opened
func (e *Editor) Touched() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.touched) > 0
}

func (e *Editor) set(field string, apply func(d *Draft)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == ModeClosed {
		return
	}
	apply(&e.draft)
	e.touched[field] = true
}

// SetProject sets the project. Picking a different project clears the task.
func (e *Editor) SetProject(id string) {
	e.set(FieldProject, func(d *Draft) {
		if d.ProjectID != id {
			d.TaskID = ""
		}
		d.ProjectID = id
	})
}

func (e *Editor) SetTask(id string) {
	e.set(FieldTask, func(d *Draft) { d.TaskID = id })
}

func (e *Editor) SetDate(date string) {
	e.set(FieldDate, func(d *Draft) { d.Date = date })
}

func (e *Editor) SetDuration(duration entities.Duration) {
	e.set(FieldDuration, func(d *Draft) { d.Duration = &duration })
}

func (e *Editor) SetDescription(description string) {
	e.set(FieldDescription, func(d *Draft) { d.Description = description })
}

func (e *Editor) SetType(value string) {
	e.set("type", func(d *Draft) { d.Type = value })
}

func (e *Editor) SetTicket(value string) {
	e.set("ticket", func(d *Draft) { d.Ticket = value })
}

func (e *Editor) SetBillable(billable bool) {
	e.set("billable", func(d *Draft) { d.Billable = billable })
}

// Validate checks the current draft
func (e *Editor) Validate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Validate(e.step)
}

// Submit writes the draft: a create when opened blank, an update of the
// source record when opened for edit. On success the form resets, closes
// and onSuccess runs. On failure the form stays open with its values.
func (e *Editor) Submit(ctx context.Context, user *entities.User) (*entities.TimeRecord, error) {
	e.mu.Lock()
	if e.mode == ModeClosed {
		e.mu.Unlock()
		return nil, ErrEditorClosed
	}
	if e.busy {
		e.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	if user == nil {
		e.mu.Unlock()
		return nil, entities.ErrNotAuthenticated
	}
	if err := e.draft.Validate(e.step); err != nil {
		e.mu.Unlock()
		return nil, err
	}

	mode := e.mode
	payload := e.draft.Record()
	var sourceID uuid.UUID
	if mode == ModeEdit {
		sourceID = e.source.ID
	} else {
		payload.Deleted = false
	}
	e.busy = true
	e.mu.Unlock()

	saved, err := e.write(ctx, user, mode, sourceID, payload)

	e.mu.Lock()
	e.busy = false
	if err != nil {
		e.mu.Unlock()
		e.logger.WithUserID(user.ID.String()).WithError(err).Warn("Failed to save time record", "mode", mode.String())
		return nil, err
	}
	e.mode = ModeClosed
	e.source = nil
	e.draft = Draft{}
	e.touched = map[string]bool{}
	e.mu.Unlock()

	if e.onSuccess != nil {
		e.onSuccess()
	}

	return saved, nil
}

func (e *Editor) write(ctx context.Context, user *entities.User, mode Mode, id uuid.UUID, payload *entities.TimeRecord) (*entities.TimeRecord, error) {
	started := time.Now()

	var (
		saved *entities.TimeRecord
		err   error
	)
	if mode == ModeEdit {
		saved, err = e.writer.UpdateRecord(ctx, user, id, payload)
	} else {
		saved, err = e.writer.CreateRecord(ctx, user, payload)
	}

	if wait := e.minSave - time.Since(started); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to save time record: %w", err)
	}
	return saved, nil
}

// Cancel closes the form. An untouched form closes at once. A touched form
// closes only if confirm returns true, discarding the edits; otherwise it
// stays open with the edits intact. Cancel is refused while a save is in
// flight. The return value reports whether the form is now closed.
func (e *Editor) Cancel(confirm func() bool) bool {
	e.mu.Lock()
	if e.mode == ModeClosed {
		e.mu.Unlock()
		return true
	}
	if e.busy {
		e.mu.Unlock()
		return false
	}
	touched := len(e.touched) > 0
	e.mu.Unlock()

	if touched && (confirm == nil || !confirm()) {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy {
		return false
	}
	e.mode = ModeClosed
	e.source = nil
	e.draft = Draft{}
	e.touched = map[string]bool{}

	return true
}
