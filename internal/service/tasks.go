package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rryowa/taskmanager/internal/models"
	"github.com/rryowa/taskmanager/internal/storage"
)

// TaskService scopes every operation to a list owned by the caller. Ownership is checked
// before acting, not atomically with it.
type TaskService struct {
	lists storage.ListRepository
	tasks storage.TaskRepository
	log   *zap.SugaredLogger
}

func NewTaskService(lists storage.ListRepository, tasks storage.TaskRepository, log *zap.SugaredLogger) *TaskService {
	return &TaskService{lists: lists, tasks: tasks, log: log}
}

func (s *TaskService) Tasks(ctx context.Context, userID, listID string) ([]models.Task, error) {
	if err := s.ownedList(ctx, userID, listID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.TasksByList(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("tasks by list: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) CreateTask(ctx context.Context, userID, listID, title string) (*models.Task, error) {
	if err := s.ownedList(ctx, userID, listID); err != nil {
		return nil, err
	}

	title, err := requireTitle(title)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.CreateTask(ctx, models.Task{Title: title, ListID: listID})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, userID, listID, taskID string, patch models.TaskPatch) error {
	if err := s.ownedList(ctx, userID, listID); err != nil {
		return err
	}

	if patch.Title != nil {
		title, err := requireTitle(*patch.Title)
		if err != nil {
			return err
		}
		patch.Title = &title
	}

	if err := s.tasks.UpdateTask(ctx, taskID, listID, patch); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, listID, taskID string) (*models.Task, error) {
	if err := s.ownedList(ctx, userID, listID); err != nil {
		return nil, err
	}

	removed, err := s.tasks.DeleteTask(ctx, taskID, listID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete task: %w", err)
	}
	return removed, nil
}

func (s *TaskService) ownedList(ctx context.Context, userID, listID string) error {
	if _, err := s.lists.ListByIDAndUser(ctx, listID, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Debugw("list not owned", "listID", listID, "userID", userID)
			return ErrNotFound
		}
		return fmt.Errorf("list by id and user: %w", err)
	}
	return nil
}
