package memory

import (
	"context"

	"github.com/rryowa/taskmanager/internal/models"
	"github.com/rryowa/taskmanager/internal/storage"
)

func (m *Storage) TasksByList(_ context.Context, listID string) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Task, 0)
	for _, t := range m.tasks {
		if t.ListID == listID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *Storage) CreateTask(_ context.Context, task models.Task) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task.ID = newID()
	m.tasks = append(m.tasks, task)
	return &task, nil
}

func (m *Storage) UpdateTask(_ context.Context, id, listID string, patch models.TaskPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.taskIndex(id, listID)
	if i < 0 {
		return storage.ErrNotFound
	}
	if patch.Title != nil {
		m.tasks[i].Title = *patch.Title
	}
	if patch.Completed != nil {
		m.tasks[i].Completed = *patch.Completed
	}
	return nil
}

func (m *Storage) DeleteTask(_ context.Context, id, listID string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.taskIndex(id, listID)
	if i < 0 {
		return nil, storage.ErrNotFound
	}
	removed := m.tasks[i]
	m.tasks = append(m.tasks[:i:i], m.tasks[i+1:]...)
	return &removed, nil
}

func (m *Storage) DeleteTasksByList(_ context.Context, listID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.tasks[:0:0]
	var removed int64
	for _, t := range m.tasks {
		if t.ListID == listID {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	m.tasks = kept
	return removed, nil
}

func (m *Storage) taskIndex(id, listID string) int {
	for i, t := range m.tasks {
		if t.ID == id && t.ListID == listID {
			return i
		}
	}
	return -1
}
