package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timesheet/core/internal/application/editor"
	"github.com/timesheet/core/internal/application/listview"
	"github.com/timesheet/core/internal/domain/entities"
)

func TestPrompterConfirm(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("y\nno\nYES\n"), &out)

	assert.True(t, p.Confirm("Save changes?"))
	assert.False(t, p.Confirm("Save changes?"))
	assert.True(t, p.Confirm("Save changes?"))
	assert.False(t, p.Confirm("Save changes?"))
	assert.Contains(t, out.String(), "Save changes? [y/N]: ")
}

func TestBuildListQuery(t *testing.T) {
	q, err := buildListQuery("2024-03-01", "2024-03-31", "project", "date", "asc", "true", []string{"Review"}, 2, 20)
	require.NoError(t, err)

	require.NotNil(t, q.Range)
	assert.Equal(t, "2024-03-01", q.Range.Start)
	require.NotNil(t, q.Group)
	assert.Equal(t, listview.GroupByProject, *q.Group)
	assert.Equal(t, listview.SortDate, q.Sort)
	assert.Equal(t, listview.SortAsc, q.Order)
	require.NotNil(t, q.Billable)
	assert.True(t, *q.Billable)
	assert.Equal(t, []string{"Review"}, q.Tasks)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 20, q.PageSize)
}

func TestBuildListQueryRejects(t *testing.T) {
	cases := map[string]func() error{
		"half range": func() error {
			_, err := buildListQuery("2024-03-01", "", "", "", "", "", nil, 1, 10)
			return err
		},
		"group": func() error {
			_, err := buildListQuery("", "", "week", "", "", "", nil, 1, 10)
			return err
		},
		"billable": func() error {
			_, err := buildListQuery("", "", "", "", "", "maybe", nil, 1, 10)
			return err
		},
		"page size": func() error {
			_, err := buildListQuery("", "", "", "", "", "", nil, 1, 15)
			return err
		},
		"page": func() error {
			_, err := buildListQuery("", "", "", "", "", "", nil, 0, 10)
			return err
		},
	}

	for name, run := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, run())
		})
	}
}

func TestRequestFromFlagsKeepsUnsetFieldsNil(t *testing.T) {
	cmd := newRecordAddCommand(&credentials{})
	require.NoError(t, cmd.ParseFlags([]string{"--duration", "01:30", "--billable"}))

	req := requestFromFlags(cmd.Flags())
	require.NotNil(t, req.Duration)
	assert.Equal(t, "01:30", *req.Duration)
	require.NotNil(t, req.Billable)
	assert.True(t, *req.Billable)
	assert.Nil(t, req.ProjectID)
	assert.Nil(t, req.Description)
}

func TestReadBulkFile(t *testing.T) {
	doc := `
rows:
  - project_id: p1
    task_id: t1
    date: "2024-03-01"
    duration: "01:30"
    description: Sprint planning
  - project_id: p2
    task_id: t2
    date: "2024-03-02"
    duration: "00:30"
    description: Review
`
	req, err := readBulkFile(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, req.Rows, 2)

	draft := req.Rows[0].Draft()
	assert.Equal(t, "p1", draft.ProjectID)
	require.NotNil(t, draft.Duration)
	assert.Equal(t, 90, draft.Duration.TotalMinutes())

	empty, err := readBulkFile(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty.Rows)

	_, err = readBulkFile(strings.NewReader("rows: [unclosed"))
	assert.Error(t, err)
}

func TestBulkErrorNumbersRowsFromOne(t *testing.T) {
	err := bulkError(&editor.BulkValidationError{Rows: map[int]map[string]string{
		2: {editor.FieldDuration: "Duration must be in 30 minute steps"},
		0: {editor.FieldProject: "Please select project"},
	}})

	assert.Equal(t, "invalid rows:\n  row 1 project: Please select project\n  row 3 duration: Duration must be in 30 minute steps", err.Error())
}

func TestPrintPageTable(t *testing.T) {
	record := &entities.TimeRecord{Date: "2024-03-01", Description: "Sprint planning", Status: entities.RecordStatusPending}
	record.SetDuration(entities.NewDuration(1, 30))

	page := &listview.Page{
		Rows:       []listview.Row{{TimeRecord: record, ProjectName: "Alpha", TaskName: "Development", DurationDisplay: "1h 30m"}},
		Page:       1,
		PageSize:   10,
		Total:      1,
		TotalPages: 1,
	}

	var out bytes.Buffer
	require.NoError(t, printPage(&out, "table", page))
	assert.Contains(t, out.String(), "Alpha")
	assert.Contains(t, out.String(), "Page 1 of 1 (1 records)")

	out.Reset()
	require.NoError(t, printPage(&out, "json", page))
	assert.Contains(t, out.String(), `"project_name": "Alpha"`)

	assert.Error(t, printPage(&out, "xml", page))
}

func TestVersionCommand(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Timesheet dev")
}
