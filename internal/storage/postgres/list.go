package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rryowa/taskmanager/internal/models"
	"github.com/rryowa/taskmanager/internal/storage"
)

type ListRepository struct {
	db DBTX
}

func NewListRepository(db DBTX) *ListRepository {
	return &ListRepository{db: db}
}

func (r *ListRepository) ListsByUser(ctx context.Context, userID string) ([]models.List, error) {
	lists := make([]models.List, 0)
	uid, err := parseID(userID)
	if err != nil {
		return lists, nil
	}

	query := `SELECT id, title, user_id FROM lists WHERE user_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("get lists: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l models.List
		if err := rows.Scan(&l.ID, &l.Title, &l.UserID); err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lists: %w", err)
	}
	return lists, nil
}

func (r *ListRepository) ListByIDAndUser(ctx context.Context, id, userID string) (*models.List, error) {
	lid, uid, err := parseOwned(id, userID)
	if err != nil {
		return nil, err
	}

	var l models.List
	query := `SELECT id, title, user_id FROM lists WHERE id = $1 AND user_id = $2`
	if err := r.db.QueryRowContext(ctx, query, lid, uid).Scan(&l.ID, &l.Title, &l.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get list: %w", err)
	}
	return &l, nil
}

func (r *ListRepository) CreateList(ctx context.Context, list models.List) (*models.List, error) {
	uid, err := parseID(list.UserID)
	if err != nil {
		return nil, fmt.Errorf("list owner: %w", err)
	}

	list.ID = uuid.NewString()
	query := `INSERT INTO lists (id, title, user_id) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, list.ID, list.Title, uid); err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}
	return &list, nil
}

func (r *ListRepository) UpdateList(ctx context.Context, id, userID string, patch models.ListPatch) error {
	lid, uid, err := parseOwned(id, userID)
	if err != nil {
		return err
	}

	query := `UPDATE lists SET title = COALESCE($3, title) WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, lid, uid, patch.Title)
	if err != nil {
		return fmt.Errorf("failed to update list: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *ListRepository) DeleteList(ctx context.Context, id, userID string) (*models.List, error) {
	lid, uid, err := parseOwned(id, userID)
	if err != nil {
		return nil, err
	}

	var l models.List
	query := `DELETE FROM lists WHERE id = $1 AND user_id = $2 RETURNING id, title, user_id`
	if err := r.db.QueryRowContext(ctx, query, lid, uid).Scan(&l.ID, &l.Title, &l.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete list: %w", err)
	}
	return &l, nil
}

func parseOwned(id, ownerID string) (uuid.UUID, uuid.UUID, error) {
	a, err := parseID(id)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	b, err := parseID(ownerID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return a, b, nil
}
