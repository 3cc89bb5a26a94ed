package memory

import (
	"context"
	"fmt"

	"github.com/rryowa/taskmanager/internal/models"
	"github.com/rryowa/taskmanager/internal/storage"
)

func (m *Storage) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.emails[user.Email]; ok {
		return nil, fmt.Errorf("email %s already exists: %w", user.Email, storage.ErrConflict)
	}

	user.ID = newID()
	user.Sessions = cloneSessions(user.Sessions)
	m.users[user.ID] = user
	m.emails[user.Email] = user.ID
	m.log.Debugw("User created", "userID", user.ID)

	return cloneUser(user), nil
}

func (m *Storage) UserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneUser(user), nil
}

func (m *Storage) UserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emails[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneUser(m.users[id]), nil
}

func (m *Storage) AppendSession(_ context.Context, userID string, session models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return storage.ErrNotFound
	}
	user.Sessions = append(user.Sessions, session)
	m.users[userID] = user
	m.log.Debugw("Session appended", "userID", userID, "sessions", len(user.Sessions))

	return nil
}

func (m *Storage) RemoveSession(_ context.Context, userID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return storage.ErrNotFound
	}

	kept := user.Sessions[:0:0]
	for _, s := range user.Sessions {
		if s.Token != token {
			kept = append(kept, s)
		}
	}
	user.Sessions = kept
	m.users[userID] = user

	return nil
}

func cloneUser(u models.User) *models.User {
	u.Sessions = cloneSessions(u.Sessions)
	return &u
}

func cloneSessions(in []models.Session) []models.Session {
	if in == nil {
		return nil
	}
	out := make([]models.Session, len(in))
	copy(out, in)
	return out
}
