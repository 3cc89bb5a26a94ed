package postgres

import (
	"context"
	"fmt"

	"github.com/rryowa/taskmanager/internal/models"
	"github.com/rryowa/taskmanager/internal/storage"
)

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) insertSession(ctx context.Context, userID string, session models.Session) error {
	query := `INSERT INTO sessions (user_id, token, expires_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, userID, session.Token, session.ExpiresAt); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) sessionsByUser(ctx context.Context, userID string) ([]models.Session, error) {
	query := `SELECT token, expires_at FROM sessions WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.Token, &s.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// AppendSession adds a session row; the user must exist.
func (r *SessionRepository) AppendSession(ctx context.Context, userID string, session models.Session) error {
	uid, err := parseID(userID)
	if err != nil {
		return err
	}

	query := `INSERT INTO sessions (user_id, token, expires_at)
		SELECT id, $2::text, $3::bigint FROM users WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, uid, session.Token, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to append session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *SessionRepository) RemoveSession(ctx context.Context, userID, token string) error {
	uid, err := parseID(userID)
	if err != nil {
		return err
	}

	query := `DELETE FROM sessions WHERE user_id = $1 AND token = $2`
	if _, err := r.db.ExecContext(ctx, query, uid, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
