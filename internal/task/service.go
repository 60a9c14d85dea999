// ABOUTME: Task service implementing owner-scoped CRUD on top of the task store
// ABOUTME: The owner always comes from the authenticated identity, never from client input

package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taskyhq/tasky-server/internal/store"
)

// ErrInvalidInput is returned for missing or malformed task fields
var ErrInvalidInput = errors.New("invalid input")

// CreateInput holds the client-supplied fields for a new task.
// The owner is intentionally absent; it is taken from the resolved identity.
type CreateInput struct {
	Name        string
	Description string
	Deadline    *time.Time
	Tags        []string
}

// UpdateInput holds a partial update. Nil fields keep their prior values.
type UpdateInput struct {
	Name          *string
	Description   *string
	Deadline      *time.Time
	ClearDeadline bool
	Tags          []string
	Completed     *bool
}

// ListFilter narrows List results
type ListFilter struct {
	Completed *bool
	Tag       string
}

// Service provides task operations scoped to a single owner.
// Every method takes the owner ID resolved by the auth middleware; tasks
// belonging to other users are indistinguishable from missing ones.
type Service struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewService creates a task service
func NewService(tasks store.TaskStore, logger *slog.Logger) *Service {
	return &Service{
		tasks:  tasks,
		logger: logger.With("component", "tasks"),
	}
}

// Create stores a new task owned by ownerID
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (*store.Task, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	t := &store.Task{
		OwnerID:     ownerID,
		Name:        name,
		Description: in.Description,
		Deadline:    in.Deadline,
		Tags:        in.Tags,
	}
	if err := s.tasks.CreateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.logger.Info("task created", "task_id", t.ID, "owner_id", ownerID)
	return t, nil
}

// Get fetches a single task owned by ownerID
func (s *Service) Get(ctx context.Context, ownerID, id string) (*store.Task, error) {
	return s.tasks.GetTask(ctx, ownerID, id)
}

// List returns all tasks owned by ownerID matching the filter
func (s *Service) List(ctx context.Context, ownerID string, filter ListFilter) ([]*store.Task, error) {
	tasks, err := s.tasks.ListTasks(ctx, ownerID, store.TaskFilter{
		Completed: filter.Completed,
		Tag:       filter.Tag,
	})
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*store.Task{}
	}
	return tasks, nil
}

// Update applies a partial update to a task owned by ownerID.
// Fields absent from the input keep their current values.
func (s *Service) Update(ctx context.Context, ownerID, id string, in UpdateInput) (*store.Task, error) {
	t, err := s.tasks.GetTask(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		t.Name = name
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.ClearDeadline {
		t.Deadline = nil
	} else if in.Deadline != nil {
		t.Deadline = in.Deadline
	}
	if in.Tags != nil {
		t.Tags = in.Tags
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}

	if err := s.tasks.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a task owned by ownerID
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.tasks.DeleteTask(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info("task deleted", "task_id", id, "owner_id", ownerID)
	return nil
}
