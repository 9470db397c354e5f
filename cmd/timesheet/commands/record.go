package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	httpHandlers "github.com/timesheet/core/internal/adapters/http"
	"github.com/timesheet/core/internal/application/editor"
	"github.com/timesheet/core/internal/application/listview"
	"github.com/timesheet/core/internal/domain/entities"
)

type credentials struct {
	email    string
	password string
}

// NewRecordCommand creates the time record commands. Every subcommand signs
// in first and only sees that user's records.
func NewRecordCommand() *cobra.Command {
	creds := &credentials{}

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Manage your time records",
	}
	recordCmd.PersistentFlags().StringVar(&creds.email, "email", os.Getenv("TIMESHEET_EMAIL"), "Account email (or TIMESHEET_EMAIL)")
	recordCmd.PersistentFlags().StringVar(&creds.password, "password", os.Getenv("TIMESHEET_PASSWORD"), "Account password (or TIMESHEET_PASSWORD)")

	recordCmd.AddCommand(
		newRecordListCommand(creds),
		newRecordSummaryCommand(creds),
		newRecordAddCommand(creds),
		newRecordEditCommand(creds),
		newRecordDeleteCommand(creds),
		newRecordBulkCommand(creds),
	)

	return recordCmd
}

// withUser opens the application, signs in and runs fn
func withUser(cmd *cobra.Command, creds *credentials, fn func(ctx context.Context, a *app, user *entities.User) error) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := a.signIn(ctx, creds.email, creds.password)
	if err != nil {
		return fmt.Errorf("please login first: %w", err)
	}

	return fn(ctx, a, user)
}

func newRecordListCommand(creds *credentials) *cobra.Command {
	var (
		from, to, groupBy, sortField, order, output, billable string
		tasks                                                 []string
		page, pageSize                                        int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your time records",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := buildListQuery(from, to, groupBy, sortField, order, billable, tasks, page, pageSize)
			if err != nil {
				return err
			}

			return withUser(cmd, creds, func(ctx context.Context, a *app, user *entities.User) error {
				view := listview.New(a.records, a.references, a.logger)
				if err := view.Load(ctx, user); err != nil {
					return err
				}

				result, err := view.Query(query)
				if err != nil {
					return err
				}

				return printPage(cmd.OutOrStdout(), output, result)
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Range end (YYYY-MM-DD)")
	cmd.Flags().StringVar(&groupBy, "group-by", "", "Group by project or date")
	cmd.Flags().StringVar(&sortField, "sort", "", "Sort by date or project")
	cmd.Flags().StringVar(&order, "order", "", "Sort order, asc or desc")
	cmd.Flags().StringSliceVar(&tasks, "task", nil, "Only show these task names")
	cmd.Flags().StringVar(&billable, "billable", "", "Only show billable (true) or non-billable (false) records")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", listview.DefaultPageSize, "Rows per page (5, 10, 20 or 50)")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")

	return cmd
}

func buildListQuery(from, to, groupBy, sortField, order, billable string, tasks []string, page, pageSize int) (listview.Query, error) {
	var q listview.Query

	if from != "" || to != "" {
		if from == "" || to == "" {
			return q, fmt.Errorf("--from and --to must be given together")
		}
		dateRange, err := entities.NewDateRange(from, to)
		if err != nil {
			return q, err
		}
		q.Range = dateRange
	}

	var err error
	if q.Group, err = listview.ParseGroupMode(groupBy); err != nil {
		return q, err
	}
	if q.Sort, q.Order, err = listview.ParseSort(sortField, order); err != nil {
		return q, err
	}

	q.Tasks = tasks

	switch strings.ToLower(billable) {
	case "":
	case "true", "yes":
		v := true
		q.Billable = &v
	case "false", "no":
		v := false
		q.Billable = &v
	default:
		return q, fmt.Errorf("invalid --billable value %q", billable)
	}

	if page < 1 {
		return q, fmt.Errorf("--page must be at least 1")
	}
	if !listview.ValidPageSize(pageSize) {
		return q, fmt.Errorf("--page-size must be one of %v", listview.PageSizeOptions)
	}
	q.Page = page
	q.PageSize = pageSize

	return q, nil
}

func printPage(w io.Writer, format string, page *listview.Page) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(page)
	case "table", "":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tPROJECT\tTASK\tDURATION\tBILLABLE\tSTATUS\tDESCRIPTION")
	for _, row := range page.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\t%s\t%s\n",
			row.ID, row.Date, row.ProjectName, row.TaskName, row.DurationDisplay,
			row.Billable, row.Status, row.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nPage %d of %d (%d records)\n", page.Page, page.TotalPages, page.Total)
	return nil
}

func newRecordSummaryCommand(creds *credentials) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals by project and date",
		RunE: func(cmd *cobra.Command, args []string) error {
			var dateRange *entities.DateRange
			if from != "" || to != "" {
				var err error
				if dateRange, err = entities.NewDateRange(from, to); err != nil {
					return err
				}
			}

			return withUser(cmd, creds, func(ctx context.Context, a *app, user *entities.User) error {
				summary, err := a.records.Summary(ctx, user, dateRange)
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Records: %d\n", summary.TotalRecords)
				fmt.Fprintf(w, "Total: %s\n", entities.FormatMinutes(summary.TotalMinutes))
				fmt.Fprintf(w, "Billable: %s\n\n", entities.FormatMinutes(summary.BillableMinutes))

				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "PROJECT\tTIME\tSHARE")
				for _, line := range summary.ByProject {
					fmt.Fprintf(tw, "%s\t%s\t%.1f%%\n", line.Label, line.Display, line.Percentage)
				}
				fmt.Fprintln(tw, "\t\t")
				fmt.Fprintln(tw, "DATE\tTIME\tSHARE")
				for _, line := range summary.ByDate {
					fmt.Fprintf(tw, "%s\t%s\t%.1f%%\n", line.Label, line.Display, line.Percentage)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Range end (YYYY-MM-DD)")

	return cmd
}

// addRecordFlags registers the editor fields on cmd
func addRecordFlags(flags *pflag.FlagSet) {
	flags.String("project", "", "Project ID")
	flags.String("task", "", "Task ID")
	flags.String("date", "", "Date (YYYY-MM-DD)")
	flags.String("duration", "", "Duration as HH:mm")
	flags.String("description", "", "What the time was spent on")
	flags.String("type", "", "Entry type")
	flags.String("ticket", "", "Ticket reference")
	flags.Bool("billable", false, "Mark the record billable")
}

// requestFromFlags returns the editor fields the user actually set
func requestFromFlags(flags *pflag.FlagSet) httpHandlers.RecordRequest {
	var req httpHandlers.RecordRequest

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}

	req.ProjectID = str("project")
	req.TaskID = str("task")
	req.Date = str("date")
	req.Duration = str("duration")
	req.Description = str("description")
	req.Type = str("type")
	req.Ticket = str("ticket")
	if flags.Changed("billable") {
		v, _ := flags.GetBool("billable")
		req.Billable = &v
	}

	return req
}

func newRecordAddCommand(creds *credentials) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a time record",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := requestFromFlags(cmd.Flags())

			return withUser(cmd, creds, func(ctx context.Context, a *app, user *entities.User) error {
				e := editor.NewEditor(a.records, a.cfg.Editor, a.logger, nil)
				e.OpenCreate()
				if err := req.ApplyTo(e); err != nil {
					return err
				}

				record, err := e.Submit(ctx, user)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Time entry created successfully (%s)\n", record.ID)
				return nil
			})
		},
	}

	addRecordFlags(cmd.Flags())
	return cmd
}

func newRecordEditCommand(creds *credentials) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a time record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid record ID %q", args[0])
			}
			req := requestFromFlags(cmd.Flags())

			return withUser(cmd, creds, func(ctx context.Context, a *app, user *entities.User) error {
				existing, err := a.records.GetRecord(ctx, user, id)
				if err != nil {
					return err
				}

				e := editor.NewEditor(a.records, a.cfg.Editor, a.logger, nil)
				e.OpenEdit(existing)
				if err := req.ApplyTo(e); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if !yes {
					printDraft(out, e.Draft())
					p := newPrompter(cmd.InOrStdin(), out)
					if !p.Confirm("Save changes?") {
						if e.Cancel(func() bool { return p.Confirm("Are you sure you want to close?") }) {
							fmt.Fprintln(out, "Changes discarded")
							return nil
						}
					}
				}

				if _, err := e.Submit(ctx, user); err != nil {
					return err
				}

				fmt.Fprintln(out, "Time entry updated successfully")
				return nil
			})
		},
	}

	addRecordFlags(cmd.Flags())
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Save without asking")
	return cmd
}

func printDraft(w io.Writer, d editor.Draft) {
	duration := ""
	if d.Duration != nil {
		duration = d.Duration.Clock()
	}
	fmt.Fprintf(w, "Project:     %s\n", d.ProjectID)
	fmt.Fprintf(w, "Task:        %s\n", d.TaskID)
	fmt.Fprintf(w, "Date:        %s\n", d.Date)
	fmt.Fprintf(w, "Duration:    %s\n", duration)
	fmt.Fprintf(w, "Description: %s\n", d.Description)
	fmt.Fprintf(w, "Billable:    %t\n", d.Billable)
}

func newRecordDeleteCommand(creds *credentials) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a time record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid record ID %q", args[0])
			}

			out := cmd.OutOrStdout()
			if !yes && !newPrompter(cmd.InOrStdin(), out).Confirm("Delete this time record?") {
				return nil
			}

			return withUser(cmd, creds, func(ctx context.Context, a *app, user *entities.User) error {
				view := listview.New(a.records, a.references, a.logger)
				if err := view.Delete(ctx, user, id); err != nil {
					return fmt.Errorf("delete failed: %w", err)
				}

				fmt.Fprintln(out, "Deleted successfully")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}

// readBulkFile decodes bulk rows from a YAML (or JSON) document
func readBulkFile(r io.Reader) (httpHandlers.BulkRequest, error) {
	var req httpHandlers.BulkRequest
	if err := yaml.NewDecoder(r).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, nil
		}
		return req, fmt.Errorf("failed to read bulk rows: %w", err)
	}
	return req, nil
}

func newRecordBulkCommand(creds *credentials) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Create several time records from a file",
		Long: `Create several time records at once. The file lists rows:

  rows:
    - project_id: p1
      task_id: t1
      date: "2024-03-01"
      duration: "01:30"
      description: Sprint planning

Every row must be valid before anything is saved. Bulk records are never billable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			req, err := readBulkFile(in)
			if err != nil {
				return err
			}

			return withUser(cmd, creds, func(ctx context.Context, a *app, user *entities.User) error {
				b := editor.NewBulkEditor(a.records, a.cfg.Editor, a.logger, nil)
				b.Open()
				for _, row := range req.Rows {
					if err := b.SetRow(b.AddRow(), row.Draft()); err != nil {
						return err
					}
				}

				records, err := b.Submit(ctx, user)
				if err != nil {
					return bulkError(err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Bulk time entries created (%d)\n", len(records))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Rows file, - for stdin")
	return cmd
}

// bulkError numbers invalid rows from 1 the way they are listed in the file
func bulkError(err error) error {
	var verr *editor.BulkValidationError
	if !errors.As(err, &verr) {
		return err
	}

	indexes := make([]int, 0, len(verr.Rows))
	for i := range verr.Rows {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	var b strings.Builder
	b.WriteString("invalid rows:")
	for _, i := range indexes {
		fields := verr.Rows[i]
		for _, field := range []string{editor.FieldProject, editor.FieldTask, editor.FieldDate, editor.FieldDuration, editor.FieldDescription} {
			if msg, ok := fields[field]; ok {
				fmt.Fprintf(&b, "\n  row %d %s: %s", i+1, field, msg)
			}
		}
	}
	return errors.New(b.String())
}
