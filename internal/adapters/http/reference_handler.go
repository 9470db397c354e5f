package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/timesheet/core/internal/infrastructure/logger"
	"github.com/timesheet/core/internal/ports"
)

// ReferenceHandler serves the project and task lists
type ReferenceHandler struct {
	referenceService ports.ReferenceService
	logger           *logger.Logger
}

// NewReferenceHandler creates a new reference handler
func NewReferenceHandler(referenceService ports.ReferenceService, logger *logger.Logger) *ReferenceHandler {
	return &ReferenceHandler{
		referenceService: referenceService,
		logger:           logger,
	}
}

// ListProjects handles listing projects
// @Summary List projects
// @Tags reference
// @Security BearerAuth
// @Produce json
// @Success 200 {array} entities.Project
// @Router /projects [get]
func (h *ReferenceHandler) ListProjects(c echo.Context) error {
	projects, err := h.referenceService.ListProjects(c.Request().Context())
	if err != nil {
		h.logger.Error("List projects failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve projects")
	}

	return c.JSON(http.StatusOK, projects)
}

// ListTasks handles listing tasks
// @Summary List tasks
// @Tags reference
// @Security BearerAuth
// @Produce json
// @Success 200 {array} entities.Task
// @Router /tasks [get]
func (h *ReferenceHandler) ListTasks(c echo.Context) error {
	tasks, err := h.referenceService.ListTasks(c.Request().Context())
	if err != nil {
		h.logger.Error("List tasks failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve tasks")
	}

	return c.JSON(http.StatusOK, tasks)
}
