package memory

import (
	"context"

	"github.com/rryowa/taskmanager/internal/models"
	"github.com/rryowa/taskmanager/internal/storage"
)

func (m *Storage) ListsByUser(_ context.Context, userID string) ([]models.List, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.List, 0)
	for _, l := range m.lists {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *Storage) ListByIDAndUser(_ context.Context, id, userID string) (*models.List, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.listIndex(id, userID)
	if i < 0 {
		return nil, storage.ErrNotFound
	}
	l := m.lists[i]
	return &l, nil
}

func (m *Storage) CreateList(_ context.Context, list models.List) (*models.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list.ID = newID()
	m.lists = append(m.lists, list)
	return &list, nil
}

func (m *Storage) UpdateList(_ context.Context, id, userID string, patch models.ListPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.listIndex(id, userID)
	if i < 0 {
		return storage.ErrNotFound
	}
	if patch.Title != nil {
		m.lists[i].Title = *patch.Title
	}
	return nil
}

func (m *Storage) DeleteList(_ context.Context, id, userID string) (*models.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.listIndex(id, userID)
	if i < 0 {
		return nil, storage.ErrNotFound
	}
	removed := m.lists[i]
	m.lists = append(m.lists[:i:i], m.lists[i+1:]...)
	return &removed, nil
}

func (m *Storage) listIndex(id, userID string) int {
	for i, l := range m.lists {
		if l.ID == id && l.UserID == userID {
			return i
		}
	}
	return -1
}
