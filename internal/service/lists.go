package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rryowa/taskmanager/internal/models"
	"github.com/rryowa/taskmanager/internal/storage"
)

type ListService struct {
	lists   storage.ListRepository
	cascade *CascadeService
	log     *zap.SugaredLogger
}

func NewListService(lists storage.ListRepository, cascade *CascadeService, log *zap.SugaredLogger) *ListService {
	return &ListService{lists: lists, cascade: cascade, log: log}
}

func (s *ListService) Lists(ctx context.Context, userID string) ([]models.List, error) {
	lists, err := s.lists.ListsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lists by user: %w", err)
	}
	return lists, nil
}

func (s *ListService) CreateList(ctx context.Context, userID, title string) (*models.List, error) {
	title, err := requireTitle(title)
	if err != nil {
		return nil, err
	}

	list, err := s.lists.CreateList(ctx, models.List{Title: title, UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	return list, nil
}

// UpdateList succeeds even when no owned list matched id.
func (s *ListService) UpdateList(ctx context.Context, userID, id string, patch models.ListPatch) error {
	if patch.Title != nil {
		title, err := requireTitle(*patch.Title)
		if err != nil {
			return err
		}
		patch.Title = &title
	}
	if patch.Empty() {
		return nil
	}

	if err := s.lists.UpdateList(ctx, id, userID, patch); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Debugw("list update matched nothing", "listID", id, "userID", userID)
			return nil
		}
		return fmt.Errorf("update list: %w", err)
	}
	return nil
}

// DeleteList removes an owned list and schedules removal of its tasks.
// The cascade is not awaited.
func (s *ListService) DeleteList(ctx context.Context, userID, id string) (*models.List, error) {
	removed, err := s.lists.DeleteList(ctx, id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete list: %w", err)
	}

	s.cascade.DeleteListTasks(removed.ID)
	return removed, nil
}

func requireTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	return title, nil
}
