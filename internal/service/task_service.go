package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// TaskService handles task CRUD. The user id always comes from the request
// gate, never from the request itself.
type TaskService interface {
	List(ctx context.Context, userID uint) ([]model.Task, error)
	Create(ctx context.Context, userID uint, title, description string) (*model.Task, error)
	Update(ctx context.Context, userID, taskID uint, title, description string) (*model.Task, error)
	Delete(ctx context.Context, userID, taskID uint) error
}

type taskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new task service.
func NewTaskService(taskRepo repository.TaskRepository) TaskService {
	return &taskService{taskRepo: taskRepo}
}

// List returns all tasks owned by the user, in store order.
func (s *taskService) List(ctx context.Context, userID uint) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		// An empty list serializes as [], not null.
		tasks = []model.Task{}
	}
	return tasks, nil
}

// Create inserts a task for the user and re-reads it so the caller gets the
// store-assigned id and timestamp in one round trip.
func (s *taskService) Create(ctx context.Context, userID uint, title, description string) (*model.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.ErrTitleRequired
	}

	task := &model.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	created, err := s.taskRepo.FindOwned(ctx, task.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("read created task: %w", err)
	}
	return created, nil
}

// Update mutates title and description in a single ownership-scoped
// statement; zero affected rows means absent or not owned, and the caller
// cannot tell which.
func (s *taskService) Update(ctx context.Context, userID, taskID uint, title, description string) (*model.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.ErrTitleRequired
	}

	affected, err := s.taskRepo.UpdateOwned(ctx, taskID, userID, title, description)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if affected == 0 {
		return nil, apperrors.ErrTaskNotFound
	}

	updated, err := s.taskRepo.FindOwned(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("read updated task: %w", err)
	}
	return updated, nil
}

// Delete removes the task in a single ownership-scoped statement.
func (s *taskService) Delete(ctx context.Context, userID, taskID uint) error {
	affected, err := s.taskRepo.DeleteOwned(ctx, taskID, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}
