package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rryowa/taskmanager/internal/models"
	"github.com/rryowa/taskmanager/internal/storage"
)

// Storage keeps users, lists and tasks in process memory. Lists and tasks are
// returned in insertion order.
type Storage struct {
	mu     sync.RWMutex
	users  map[string]models.User
	emails map[string]string
	lists  []models.List
	tasks  []models.Task
	log    *zap.SugaredLogger
}

var _ storage.Storage = (*Storage)(nil)

func NewStorage(log *zap.SugaredLogger) *Storage {
	return &Storage{
		users:  make(map[string]models.User),
		emails: make(map[string]string),
		log:    log,
	}
}

func (m *Storage) Close(_ context.Context) error {
	return nil
}

func newID() string {
	return uuid.NewString()
}
