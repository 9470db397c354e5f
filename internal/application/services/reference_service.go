package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/timesheet/core/internal/domain/entities"
	"github.com/timesheet/core/internal/ports"
)

// ReferenceService serves the project and task lists
type ReferenceService struct {
	projectRepo ports.ProjectRepository
	taskRepo    ports.TaskRepository
}

// NewReferenceService creates a new reference service
func NewReferenceService(projectRepo ports.ProjectRepository, taskRepo ports.TaskRepository) *ReferenceService {
	return &ReferenceService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

func (s *ReferenceService) ListProjects(ctx context.Context) ([]entities.Project, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (s *ReferenceService) ListTasks(ctx context.Context) ([]entities.Task, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// LoadReferenceData fetches both lists concurrently
func (s *ReferenceService) LoadReferenceData(ctx context.Context) (*entities.ReferenceData, error) {
	data := &entities.ReferenceData{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		projects, err := s.ListProjects(ctx)
		data.Projects = projects
		return err
	})
	g.Go(func() error {
		tasks, err := s.ListTasks(ctx)
		data.Tasks = tasks
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return data, nil
}
