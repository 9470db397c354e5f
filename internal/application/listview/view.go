// Package listview holds the signed-in user's loaded records and turns
// them into filtered, ordered and paginated table pages.
package listview

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/timesheet/core/internal/domain/entities"
	"github.com/timesheet/core/internal/infrastructure/logger"
	"github.com/timesheet/core/internal/ports"
)

// Store is what the list view reads and deletes through
type Store interface {
	ports.RecordLoader
	DeleteRecord(ctx context.Context, user *entities.User, id uuid.UUID) error
}

// Query selects what a page shows. The zero value shows the first page of
// everything loaded, newest first.
type Query struct {
	Range    *entities.DateRange
	Group    *GroupMode
	Sort     SortField
	Order    SortOrder
	Tasks    []string
	Billable *bool
	Page     int
	PageSize int
}

// ListView keeps the last successfully loaded records and reference lists
type ListView struct {
	store      Store
	references ports.ReferenceLoader
	logger     *logger.Logger

	mu      sync.RWMutex
	refs    *entities.ReferenceData
	records []*entities.TimeRecord
}

// New creates an empty list view
func New(store Store, references ports.ReferenceLoader, logger *logger.Logger) *ListView {
	return &ListView{
		store:      store,
		references: references,
		logger:     logger,
		refs:       &entities.ReferenceData{},
		records:    []*entities.TimeRecord{},
	}
}

// Load fetches the reference lists, then the user's records. On failure the
// previously loaded state is kept and the error is returned for display.
func (v *ListView) Load(ctx context.Context, user *entities.User) error {
	if user == nil {
		return entities.ErrNotAuthenticated
	}

	refs, err := v.references.LoadReferenceData(ctx)
	if err != nil {
		v.logger.WithUserID(user.ID.String()).WithError(err).Warn("Failed to load reference data")
		return fmt.Errorf("failed to load data: %w", err)
	}

	records, err := v.store.ListRecords(ctx, user)
	if err != nil {
		v.logger.WithUserID(user.ID.String()).WithError(err).Warn("Failed to load time records")
		return fmt.Errorf("failed to load data: %w", err)
	}

	records = SortBy(records, SortDate, SortDesc, refs)

	v.mu.Lock()
	v.refs = refs
	v.records = records
	v.mu.Unlock()

	return nil
}

// Delete soft-deletes one record and reloads
func (v *ListView) Delete(ctx context.Context, user *entities.User, id uuid.UUID) error {
	if user == nil {
		return entities.ErrNotAuthenticated
	}

	if err := v.store.DeleteRecord(ctx, user, id); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	return v.Load(ctx, user)
}

// Records returns the loaded records, newest first
func (v *ListView) Records() []*entities.TimeRecord {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]*entities.TimeRecord, len(v.records))
	copy(out, v.records)
	return out
}

// References returns the loaded reference lists
func (v *ListView) References() *entities.ReferenceData {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.refs
}

// Query runs the loaded records through the date filter, grouping, column
// sort, column filters and pagination, in that order. Task filter values
// come from the grouped set before column filters apply.
func (v *ListView) Query(q Query) (*Page, error) {
	v.mu.RLock()
	records := v.records
	refs := v.refs
	v.mu.RUnlock()

	filtered := ApplyDateRange(records, q.Range)
	ordered := ApplyGrouping(filtered, q.Group, refs)
	if q.Sort != SortNone {
		ordered = SortBy(ordered, q.Sort, q.Order, refs)
	}

	taskFilters := TaskFilterValues(ordered, refs)

	visible := FilterByTask(ordered, q.Tasks, refs)
	visible = FilterByBillable(visible, q.Billable)

	page, err := Paginate(visible, q.Page, q.PageSize, refs)
	if err != nil {
		return nil, err
	}
	page.TaskFilters = taskFilters

	return page, nil
}
