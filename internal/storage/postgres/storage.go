package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rryowa/taskmanager/internal/models"
	"github.com/rryowa/taskmanager/internal/storage"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Storage struct {
	db *sql.DB
	*UserRepository
	*SessionRepository
	*ListRepository
	*TaskRepository
}

var _ storage.Storage = (*Storage)(nil)

func NewStorage(db *sql.DB) *Storage {
	return &Storage{
		db:                db,
		UserRepository:    NewUserRepository(db),
		SessionRepository: NewSessionRepository(db),
		ListRepository:    NewListRepository(db),
		TaskRepository:    NewTaskRepository(db),
	}
}

func (s *Storage) Close(_ context.Context) error {
	return s.db.Close()
}

// CreateUser inserts the user and its initial sessions in one transaction.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	created, err := NewUserRepository(tx).insertUser(ctx, user)
	if err != nil {
		return nil, err
	}

	sessionRepoTx := NewSessionRepository(tx)
	for _, sess := range user.Sessions {
		if err := sessionRepoTx.insertSession(ctx, created.ID, sess); err != nil {
			return nil, fmt.Errorf("failed to create session in tx: %w", err)
		}
	}
	created.Sessions = append(created.Sessions, user.Sessions...)

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return created, nil
}

// UserByID loads the user together with its sessions in insertion order.
func (s *Storage) UserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.UserRepository.userByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Sessions, err = s.SessionRepository.sessionsByUser(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Storage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.UserRepository.userByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.Sessions, err = s.SessionRepository.sessionsByUser(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// parseID validates a uuid key before it reaches postgres; a malformed id means no such row.
func parseID(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, storage.ErrNotFound
	}
	return u, nil
}
