package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/timesheet/core/internal/application/editor"
	"github.com/timesheet/core/internal/application/listview"
	"github.com/timesheet/core/internal/domain/entities"
	"github.com/timesheet/core/internal/infrastructure/config"
	"github.com/timesheet/core/internal/infrastructure/logger"
	"github.com/timesheet/core/internal/ports"
)

// RecordHandler handles time record requests. Writes go through the record
// editors so HTTP clients get the same validation as the forms.
type RecordHandler struct {
	recordService ports.RecordService
	references    ports.ReferenceLoader
	editorConfig  config.EditorConfig
	logger        *logger.Logger
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(recordService ports.RecordService, references ports.ReferenceLoader, editorConfig config.EditorConfig, logger *logger.Logger) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
		references:    references,
		editorConfig:  editorConfig,
		logger:        logger,
	}
}

// RecordRequest is the editor input. Absent fields keep their current value
// on update; duration is "HH:mm".
type RecordRequest struct {
	ProjectID   *string `json:"project_id" yaml:"project_id"`
	TaskID      *string `json:"task_id" yaml:"task_id"`
	Date        *string `json:"date" yaml:"date"`
	Duration    *string `json:"duration" yaml:"duration"`
	Description *string `json:"description" yaml:"description"`
	Type        *string `json:"type" yaml:"type"`
	Ticket      *string `json:"ticket" yaml:"ticket"`
	Billable    *bool   `json:"billable" yaml:"billable"`
}

// BulkRequest holds the bulk editor rows
type BulkRequest struct {
	Rows []RecordRequest `json:"rows" yaml:"rows"`
}

// BulkResponse lists the created records
type BulkResponse struct {
	Message string                 `json:"message"`
	Records []*entities.TimeRecord `json:"records"`
}

// ApplyTo copies the present fields onto an open editor. A project is set
// before the task so a project change does not clear a task sent with it.
func (r RecordRequest) ApplyTo(e *editor.Editor) error {
	if r.ProjectID != nil {
		e.SetProject(*r.ProjectID)
	}
	if r.TaskID != nil {
		e.SetTask(*r.TaskID)
	}
	if r.Date != nil {
		e.SetDate(*r.Date)
	}
	if r.Duration != nil {
		d, err := entities.ParseClock(*r.Duration)
		if err != nil {
			return &editor.ValidationError{Fields: map[string]string{editor.FieldDuration: "Please select duration"}}
		}
		e.SetDuration(d)
	}
	if r.Description != nil {
		e.SetDescription(*r.Description)
	}
	if r.Type != nil {
		e.SetType(*r.Type)
	}
	if r.Ticket != nil {
		e.SetTicket(*r.Ticket)
	}
	if r.Billable != nil {
		e.SetBillable(*r.Billable)
	}
	return nil
}

// Draft converts the request into a bulk editor row. An unparsable duration
// leaves the duration empty so row validation reports it.
func (r RecordRequest) Draft() editor.Draft {
	var draft editor.Draft
	if r.ProjectID != nil {
		draft.ProjectID = *r.ProjectID
	}
	if r.TaskID != nil {
		draft.TaskID = *r.TaskID
	}
	if r.Date != nil {
		draft.Date = *r.Date
	}
	if r.Duration != nil {
		if d, err := entities.ParseClock(*r.Duration); err == nil {
			draft.Duration = &d
		}
	}
	if r.Description != nil {
		draft.Description = *r.Description
	}
	if r.Type != nil {
		draft.Type = *r.Type
	}
	if r.Ticket != nil {
		draft.Ticket = *r.Ticket
	}
	if r.Billable != nil {
		draft.Billable = *r.Billable
	}
	return draft
}

// ListRecords handles the list view
// @Summary List own time records
// @Tags records
// @Security BearerAuth
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Param group_by query string false "project or date"
// @Param sort query string false "date or project"
// @Param order query string false "asc or desc"
// @Param task query []string false "Task display names" collectionFormat(multi)
// @Param billable query bool false "Billable filter"
// @Param page query int false "Page number"
// @Param page_size query int false "5, 10, 20 or 50"
// @Success 200 {object} listview.Page
// @Router /records [get]
func (h *RecordHandler) ListRecords(c echo.Context) error {
	user := UserFromContext(c)

	query, err := parseListQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view := listview.New(h.recordService, h.references, h.logger)
	if err := view.Load(c.Request().Context(), user); err != nil {
		return recordError(err)
	}

	page, err := view.Query(query)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, page)
}

// Summary handles the totals report
// @Summary Totals for own time records
// @Tags records
// @Security BearerAuth
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} ports.RecordSummary
// @Router /records/summary [get]
func (h *RecordHandler) Summary(c echo.Context) error {
	dateRange, err := parseDateRange(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	summary, err := h.recordService.Summary(c.Request().Context(), UserFromContext(c), dateRange)
	if err != nil {
		return recordError(err)
	}

	return c.JSON(http.StatusOK, summary)
}

// GetRecord handles fetching one record
// @Summary Get an own time record
// @Tags records
// @Security BearerAuth
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} entities.TimeRecord
// @Failure 404 {object} MessageResponse
// @Router /records/{id} [get]
func (h *RecordHandler) GetRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid record ID")
	}

	record, err := h.recordService.GetRecord(c.Request().Context(), UserFromContext(c), id)
	if err != nil {
		return recordError(err)
	}

	return c.JSON(http.StatusOK, record)
}

// CreateRecord handles the single editor in create mode
// @Summary Create a time record
// @Tags records
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body RecordRequest true "Record fields"
// @Success 201 {object} entities.TimeRecord
// @Failure 422 {object} ValidationErrorResponse
// @Router /records [post]
func (h *RecordHandler) CreateRecord(c echo.Context) error {
	var req RecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	user := UserFromContext(c)
	e := editor.NewEditor(h.recordService, h.editorConfig, h.logger, nil)
	e.OpenCreate()
	if err := req.ApplyTo(e); err != nil {
		return recordError(err)
	}

	record, err := e.Submit(c.Request().Context(), user)
	if err != nil {
		return recordError(err)
	}

	h.logger.LogUserAction(user.ID.String(), "record.create", map[string]interface{}{"record_id": record.ID})

	return c.JSON(http.StatusCreated, record)
}

// UpdateRecord handles the single editor in edit mode
// @Summary Update a time record
// @Tags records
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param request body RecordRequest true "Changed fields"
// @Success 200 {object} entities.TimeRecord
// @Failure 404 {object} MessageResponse
// @Failure 422 {object} ValidationErrorResponse
// @Router /records/{id} [put]
func (h *RecordHandler) UpdateRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid record ID")
	}

	var req RecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	ctx := c.Request().Context()
	user := UserFromContext(c)

	existing, err := h.recordService.GetRecord(ctx, user, id)
	if err != nil {
		return recordError(err)
	}

	e := editor.NewEditor(h.recordService, h.editorConfig, h.logger, nil)
	e.OpenEdit(existing)
	if err := req.ApplyTo(e); err != nil {
		return recordError(err)
	}

	record, err := e.Submit(ctx, user)
	if err != nil {
		return recordError(err)
	}

	h.logger.LogUserAction(user.ID.String(), "record.update", map[string]interface{}{"record_id": id})

	return c.JSON(http.StatusOK, record)
}

// DeleteRecord handles soft deletion
// @Summary Delete a time record
// @Tags records
// @Security BearerAuth
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /records/{id} [delete]
func (h *RecordHandler) DeleteRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid record ID")
	}

	user := UserFromContext(c)
	if err := h.recordService.DeleteRecord(c.Request().Context(), user, id); err != nil {
		if errors.Is(err, entities.ErrRecordNotFound) || errors.Is(err, entities.ErrNotAuthenticated) {
			return recordError(err)
		}
		h.logger.Error("Delete record failed", "error", err, "record_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Delete failed")
	}

	h.logger.LogUserAction(user.ID.String(), "record.delete", map[string]interface{}{"record_id": id})

	return c.JSON(http.StatusOK, MessageResponse{Message: "Deleted successfully"})
}

// BulkCreate handles the bulk editor
// @Summary Create several time records
// @Tags records
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body BulkRequest true "Rows"
// @Success 201 {object} BulkResponse
// @Failure 422 {object} BulkValidationErrorResponse
// @Router /records/bulk [post]
func (h *RecordHandler) BulkCreate(c echo.Context) error {
	var req BulkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	user := UserFromContext(c)
	b := editor.NewBulkEditor(h.recordService, h.editorConfig, h.logger, nil)
	b.Open()
	for _, row := range req.Rows {
		if err := b.SetRow(b.AddRow(), row.Draft()); err != nil {
			return err
		}
	}

	records, err := b.Submit(c.Request().Context(), user)
	if err != nil {
		return recordError(err)
	}

	h.logger.LogUserAction(user.ID.String(), "record.bulk_create", map[string]interface{}{"count": len(records)})

	return c.JSON(http.StatusCreated, BulkResponse{Message: "Bulk time entries created", Records: records})
}

// recordError maps record and editor errors onto HTTP errors
func recordError(err error) error {
	var (
		verr     *editor.ValidationError
		bulkVerr *editor.BulkValidationError
	)

	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, ValidationErrorResponse{
			Message: "validation failed",
			Fields:  verr.Fields,
		})
	case errors.As(err, &bulkVerr):
		rows := make(map[int]map[string]string, len(bulkVerr.Rows))
		for i, fields := range bulkVerr.Rows {
			rows[i+1] = fields
		}
		return echo.NewHTTPError(http.StatusUnprocessableEntity, BulkValidationErrorResponse{
			Message: "validation failed",
			Rows:    rows,
		})
	case errors.Is(err, entities.ErrNotAuthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, "Please login first")
	case errors.Is(err, entities.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Time record not found")
	case errors.Is(err, entities.ErrInvalidDate), errors.Is(err, entities.ErrInvalidDuration),
		errors.Is(err, entities.ErrDurationTooLong), errors.Is(err, entities.ErrDurationStep):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, editor.ErrBulkSaveFailed):
		return echo.NewHTTPError(http.StatusInternalServerError, editor.ErrBulkSaveFailed.Error()).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
}

func parseDateRange(c echo.Context) (*entities.DateRange, error) {
	from, to := c.QueryParam("from"), c.QueryParam("to")
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, errors.New("from and to must be given together")
	}
	return entities.NewDateRange(from, to)
}

func parseListQuery(c echo.Context) (listview.Query, error) {
	var q listview.Query

	dateRange, err := parseDateRange(c)
	if err != nil {
		return q, err
	}
	q.Range = dateRange

	q.Group, err = listview.ParseGroupMode(c.QueryParam("group_by"))
	if err != nil {
		return q, err
	}

	q.Sort, q.Order, err = listview.ParseSort(c.QueryParam("sort"), c.QueryParam("order"))
	if err != nil {
		return q, err
	}

	q.Tasks = c.QueryParams()["task"]

	if raw := c.QueryParam("billable"); raw != "" {
		billable, err := strconv.ParseBool(raw)
		if err != nil {
			return q, errors.New("invalid billable parameter")
		}
		q.Billable = &billable
	}

	if raw := c.QueryParam("page"); raw != "" {
		q.Page, err = strconv.Atoi(raw)
		if err != nil || q.Page < 1 {
			return q, errors.New("invalid page parameter")
		}
	}

	if raw := c.QueryParam("page_size"); raw != "" {
		q.PageSize, err = strconv.Atoi(raw)
		if err != nil || !listview.ValidPageSize(q.PageSize) {
			return q, errors.New("invalid page_size parameter")
		}
	}

	return q, nil
}
