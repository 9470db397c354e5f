package editor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/timesheet/core/internal/domain/entities"
	"github.com/timesheet/core/internal/infrastructure/config"
	"github.com/timesheet/core/internal/infrastructure/logger"
	"github.com/timesheet/core/internal/ports"
)

// ErrBulkSaveFailed is reported when any create in a batch fails. It does
// not say which rows were written.
var ErrBulkSaveFailed = errors.New("Failed to save bulk entries")

// ErrRowOutOfRange is returned for a row index that does not exist
var ErrRowOutOfRange = errors.New("row index out of range")

// BulkValidationError holds the field errors of every invalid row, keyed by
// row index
type BulkValidationError struct {
	Rows map[int]map[string]string
}

func (e *BulkValidationError) Error() string {
	indexes := make([]int, 0, len(e.Rows))
	for i := range e.Rows {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	parts := make([]string, 0, len(indexes))
	for _, i := range indexes {
		parts = append(parts, fmt.Sprintf("row %d: %s", i+1, (&ValidationError{Fields: e.Rows[i]}).Error()))
	}
	return strings.Join(parts, "; ")
}

// BulkEditor is the multi-row create form
type BulkEditor struct {
	writer      ports.RecordWriter
	step        int
	concurrency int
	logger      *logger.Logger
	onSuccess   func()

	mu   sync.Mutex
	open bool
	rows []Draft
	busy bool
}

// NewBulkEditor creates a closed bulk editor. onSuccess may be nil.
func NewBulkEditor(writer ports.RecordWriter, cfg config.EditorConfig, logger *logger.Logger, onSuccess func()) *BulkEditor {
	return &BulkEditor{
		writer:      writer,
		step:        cfg.BulkMinuteStep,
		concurrency: cfg.BulkConcurrency,
		logger:      logger,
		onSuccess:   onSuccess,
	}
}

// Open opens the form with no rows
func (b *BulkEditor) Open() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = true
	b.rows = nil
}

// IsOpen reports whether the form is open
func (b *BulkEditor) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

// Close discards all rows
func (b *BulkEditor) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.busy {
		return
	}
	b.open = false
	b.rows = nil
}

// AddRow appends a blank row and returns its index
func (b *BulkEditor) AddRow() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows = append(b.rows, Draft{})
	return len(b.rows) - 1
}

// SetRow replaces the row at index i
func (b *BulkEditor) SetRow(i int, draft Draft) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.rows) {
		return ErrRowOutOfRange
	}
	b.rows[i] = draft
	return nil
}

// RemoveRow deletes the row at index i; later rows shift down
func (b *BulkEditor) RemoveRow(i int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.rows) {
		return ErrRowOutOfRange
	}
	b.rows = append(b.rows[:i], b.rows[i+1:]...)
	return nil
}

// Rows returns a copy of the rows
func (b *BulkEditor) Rows() []Draft {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Draft, len(b.rows))
	copy(out, b.rows)
	return out
}

// Validate checks every row and reports all invalid ones together
func (b *BulkEditor) Validate() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return validateRows(b.rows, b.step)
}

func validateRows(rows []Draft, step int) error {
	invalid := map[int]map[string]string{}
	for i, row := range rows {
		err := row.Validate(step)
		if err == nil {
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		invalid[i] = verr.Fields
	}
	if len(invalid) > 0 {
		return &BulkValidationError{Rows: invalid}
	}
	return nil
}

// Submit validates every row, then creates one record per row concurrently.
// Nothing is written when any row is invalid. When any create fails the
// batch reports ErrBulkSaveFailed and keeps its rows; some rows may already
// be stored. On success the rows clear, the form closes and onSuccess runs.
func (b *BulkEditor) Submit(ctx context.Context, user *entities.User) ([]*entities.TimeRecord, error) {
	b.mu.Lock()
	if !b.open {
		b.mu.Unlock()
		return nil, ErrEditorClosed
	}
	if b.busy {
		b.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	if user == nil {
		b.mu.Unlock()
		return nil, entities.ErrNotAuthenticated
	}
	if err := validateRows(b.rows, b.step); err != nil {
		b.mu.Unlock()
		return nil, err
	}

	payloads := make([]*entities.TimeRecord, len(b.rows))
	for i, row := range b.rows {
		payload := row.Record()
		payload.Billable = false
		payload.Deleted = false
		payloads[i] = payload
	}
	b.busy = true
	b.mu.Unlock()

	saved, err := b.createAll(ctx, user, payloads)

	b.mu.Lock()
	b.busy = false
	if err != nil {
		b.mu.Unlock()
		return nil, err
	}
	b.open = false
	b.rows = nil
	b.mu.Unlock()

	b.logger.WithUserID(user.ID.String()).Info("Bulk time records created", "count", len(saved))

	if b.onSuccess != nil {
		b.onSuccess()
	}

	return saved, nil
}

func (b *BulkEditor) createAll(ctx context.Context, user *entities.User, payloads []*entities.TimeRecord) ([]*entities.TimeRecord, error) {
	saved := make([]*entities.TimeRecord, len(payloads))

	var g errgroup.Group
	if b.concurrency > 0 {
		g.SetLimit(b.concurrency)
	}

	for i, payload := range payloads {
		i, payload := i, payload
		g.Go(func() error {
			record, err := b.writer.CreateRecord(ctx, user, payload)
			if err != nil {
				b.logger.WithUserID(user.ID.String()).WithError(err).Warn("Bulk row create failed", "row", i+1)
				return err
			}
			saved[i] = record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, ErrBulkSaveFailed
	}

	return saved, nil
}
