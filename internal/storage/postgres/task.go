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

type TaskRepository struct {
	db DBTX
}

func NewTaskRepository(db DBTX) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) TasksByList(ctx context.Context, listID string) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	lid, err := parseID(listID)
	if err != nil {
		return tasks, nil
	}

	query := `SELECT id, title, list_id, completed FROM tasks WHERE list_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, lid)
	if err != nil {
		return nil, fmt.Errorf("get tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.ListID, &t.Completed); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) CreateTask(ctx context.Context, task models.Task) (*models.Task, error) {
	lid, err := parseID(task.ListID)
	if err != nil {
		return nil, fmt.Errorf("task list: %w", err)
	}

	task.ID = uuid.NewString()
	query := `INSERT INTO tasks (id, title, list_id, completed) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, task.ID, task.Title, lid, task.Completed); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &task, nil
}

func (r *TaskRepository) UpdateTask(ctx context.Context, id, listID string, patch models.TaskPatch) error {
	tid, lid, err := parseOwned(id, listID)
	if err != nil {
		return err
	}

	query := `UPDATE tasks SET title = COALESCE($3, title), completed = COALESCE($4, completed)
		WHERE id = $1 AND list_id = $2`
	res, err := r.db.ExecContext(ctx, query, tid, lid, patch.Title, patch.Completed)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, id, listID string) (*models.Task, error) {
	tid, lid, err := parseOwned(id, listID)
	if err != nil {
		return nil, err
	}

	var t models.Task
	query := `DELETE FROM tasks WHERE id = $1 AND list_id = $2 RETURNING id, title, list_id, completed`
	if err := r.db.QueryRowContext(ctx, query, tid, lid).Scan(&t.ID, &t.Title, &t.ListID, &t.Completed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}
	return &t, nil
}

func (r *TaskRepository) DeleteTasksByList(ctx context.Context, listID string) (int64, error) {
	lid, err := parseID(listID)
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE list_id = $1`, lid)
	if err != nil {
		return 0, fmt.Errorf("failed to delete list tasks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
