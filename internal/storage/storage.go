package storage

import (
	"context"
	"errors"
	"time"

	"github.com/rryowa/taskmanager/internal/models"
)

var (
	// ErrNotFound is returned when a record is absent, not owned by the caller, or its id is malformed.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on a uniqueness violation (duplicate email).
	ErrConflict = errors.New("conflict")
)

type Storage interface {
	UserRepository
	ListRepository
	TaskRepository
	Close(ctx context.Context) error
}

type UserRepository interface {
	// CreateUser inserts a user with its initial sessions. Duplicate email yields ErrConflict.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// AppendSession adds a session to the user's ledger. Sessions are never deduplicated.
	AppendSession(ctx context.Context, userID string, session models.Session) error
	// RemoveSession drops every session of the user holding token.
	RemoveSession(ctx context.Context, userID, token string) error
}

type ListRepository interface {
	ListsByUser(ctx context.Context, userID string) ([]models.List, error)
	ListByIDAndUser(ctx context.Context, id, userID string) (*models.List, error)
	CreateList(ctx context.Context, list models.List) (*models.List, error)
	// UpdateList applies patch to the list when it is owned by userID, ErrNotFound otherwise.
	UpdateList(ctx context.Context, id, userID string, patch models.ListPatch) error
	// DeleteList removes and returns the list when it is owned by userID.
	DeleteList(ctx context.Context, id, userID string) (*models.List, error)
}

type TaskRepository interface {
	TasksByList(ctx context.Context, listID string) ([]models.Task, error)
	CreateTask(ctx context.Context, task models.Task) (*models.Task, error)
	UpdateTask(ctx context.Context, id, listID string, patch models.TaskPatch) error
	DeleteTask(ctx context.Context, id, listID string) (*models.Task, error)
	// DeleteTasksByList removes every task of the list and returns how many were removed.
	DeleteTasksByList(ctx context.Context, listID string) (int64, error)
}

// TokenStorage is a revocation list for access tokens.
type TokenStorage interface {
	InvalidateToken(ctx context.Context, token string, expiration time.Duration) error
	IsTokenInvalidated(ctx context.Context, token string) (bool, error)
}
