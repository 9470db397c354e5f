package listview

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/timesheet/core/internal/domain/entities"
)

// GroupMode reorders the list. Grouping never partitions.
type GroupMode string

const (
	GroupByProject GroupMode = "project"
	GroupByDate    GroupMode = "date"
)

// ParseGroupMode parses a group mode. An empty string means no grouping.
func ParseGroupMode(s string) (*GroupMode, error) {
	switch GroupMode(strings.ToLower(s)) {
	case "":
		return nil, nil
	case GroupByProject:
		mode := GroupByProject
		return &mode, nil
	case GroupByDate:
		mode := GroupByDate
		return &mode, nil
	default:
		return nil, fmt.Errorf("unknown group mode %q", s)
	}
}

// SortField is a sortable table column
type SortField string

const (
	SortNone    SortField = ""
	SortDate    SortField = "date"
	SortProject SortField = "project"
)

// SortOrder is the direction of a column sort
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSort parses a column and direction. The direction defaults to ascending.
func ParseSort(field, order string) (SortField, SortOrder, error) {
	f := SortField(strings.ToLower(field))
	switch f {
	case SortNone, SortDate, SortProject:
	default:
		return SortNone, SortAsc, fmt.Errorf("unknown sort column %q", field)
	}

	o := SortOrder(strings.ToLower(order))
	switch o {
	case "":
		o = SortAsc
	case SortAsc, SortDesc:
	default:
		return SortNone, SortAsc, fmt.Errorf("unknown sort order %q", order)
	}

	return f, o, nil
}

// newCollator builds the comparator for display names. Collators are not
// safe for concurrent use so each call site builds its own.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

// ApplyDateRange keeps records whose date lies in r, bounds included, in
// their original order. A nil range keeps everything.
func ApplyDateRange(records []*entities.TimeRecord, r *entities.DateRange) []*entities.TimeRecord {
	out := make([]*entities.TimeRecord, 0, len(records))
	for _, record := range records {
		if r == nil || r.Contains(record.Date) {
			out = append(out, record)
		}
	}
	return out
}

// ApplyGrouping returns a copy of records reordered by mode. Project
// grouping sorts by resolved display name, date grouping sorts oldest first.
// A nil mode keeps the input order. Ties keep their input order.
func ApplyGrouping(records []*entities.TimeRecord, mode *GroupMode, refs *entities.ReferenceData) []*entities.TimeRecord {
	out := make([]*entities.TimeRecord, len(records))
	copy(out, records)

	if mode == nil {
		return out
	}

	switch *mode {
	case GroupByProject:
		sortByProject(out, refs, SortAsc)
	case GroupByDate:
		sortByDate(out, SortAsc)
	}

	return out
}

// SortBy returns a copy of records sorted on one column
func SortBy(records []*entities.TimeRecord, field SortField, order SortOrder, refs *entities.ReferenceData) []*entities.TimeRecord {
	out := make([]*entities.TimeRecord, len(records))
	copy(out, records)

	switch field {
	case SortDate:
		sortByDate(out, order)
	case SortProject:
		sortByProject(out, refs, order)
	}

	return out
}

func sortByDate(records []*entities.TimeRecord, order SortOrder) {
	sort.SliceStable(records, func(i, j int) bool {
		if order == SortDesc {
			return records[i].Date > records[j].Date
		}
		return records[i].Date < records[j].Date
	})
}

func sortByProject(records []*entities.TimeRecord, refs *entities.ReferenceData, order SortOrder) {
	c := newCollator()
	sort.SliceStable(records, func(i, j int) bool {
		cmp := c.CompareString(refs.ProjectName(records[i].ProjectID), refs.ProjectName(records[j].ProjectID))
		if order == SortDesc {
			return cmp > 0
		}
		return cmp < 0
	})
}

// FilterByTask keeps records whose resolved task name is one of names.
// An empty names list keeps everything.
func FilterByTask(records []*entities.TimeRecord, names []string, refs *entities.ReferenceData) []*entities.TimeRecord {
	if len(names) == 0 {
		return records
	}

	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}

	out := make([]*entities.TimeRecord, 0, len(records))
	for _, record := range records {
		if _, ok := wanted[refs.TaskName(record.TaskID)]; ok {
			out = append(out, record)
		}
	}
	return out
}

// FilterByBillable keeps records with the given billable flag. nil keeps everything.
func FilterByBillable(records []*entities.TimeRecord, billable *bool) []*entities.TimeRecord {
	if billable == nil {
		return records
	}

	out := make([]*entities.TimeRecord, 0, len(records))
	for _, record := range records {
		if record.Billable == *billable {
			out = append(out, record)
		}
	}
	return out
}

// TaskFilterValues lists the distinct resolved task names in first-seen order
func TaskFilterValues(records []*entities.TimeRecord, refs *entities.ReferenceData) []string {
	seen := make(map[string]struct{})
	values := []string{}
	for _, record := range records {
		name := refs.TaskName(record.TaskID)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		values = append(values, name)
	}
	return values
}
