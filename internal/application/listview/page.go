package listview

import (
	"fmt"

	"github.com/timesheet/core/internal/domain/entities"
)

// DefaultPageSize is used when no page size is given
const DefaultPageSize = 10

// PageSizeOptions are the page sizes a caller may pick
var PageSizeOptions = []int{5, 10, 20, 50}

// ValidPageSize reports whether size is one of PageSizeOptions
func ValidPageSize(size int) bool {
	for _, option := range PageSizeOptions {
		if option == size {
			return true
		}
	}
	return false
}

// Row is one table row with names resolved for display
type Row struct {
	*entities.TimeRecord
	ProjectName     string `json:"project_name"`
	TaskName        string `json:"task_name"`
	DurationDisplay string `json:"duration_display"`
}

// NewRow resolves display names for record. Unknown ids resolve to "".
func NewRow(record *entities.TimeRecord, refs *entities.ReferenceData) Row {
	return Row{
		TimeRecord:      record,
		ProjectName:     refs.ProjectName(record.ProjectID),
		TaskName:        refs.TaskName(record.TaskID),
		DurationDisplay: entities.FormatMinutes(record.TotalMinutes),
	}
}

// Page is one page of rows plus the values the table filters offer
type Page struct {
	Rows        []Row    `json:"rows"`
	Page        int      `json:"page"`
	PageSize    int      `json:"page_size"`
	Total       int      `json:"total"`
	TotalPages  int      `json:"total_pages"`
	TaskFilters []string `json:"task_filters"`
}

// Paginate cuts one page out of records. page is 1-based; a page past the
// end yields no rows.
func Paginate(records []*entities.TimeRecord, page, size int, refs *entities.ReferenceData) (*Page, error) {
	if size == 0 {
		size = DefaultPageSize
	}
	if !ValidPageSize(size) {
		return nil, fmt.Errorf("page size must be one of %v", PageSizeOptions)
	}
	if page < 1 {
		page = 1
	}

	total := len(records)
	result := &Page{
		Rows:       []Row{},
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: (total + size - 1) / size,
	}

	if page-1 >= (total+size-1)/size {
		return result, nil
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	for _, record := range records[start:end] {
		result.Rows = append(result.Rows, NewRow(record, refs))
	}

	return result, nil
}
