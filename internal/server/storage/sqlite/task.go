package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/tasklist/internal/models"
	"github.com/iudanet/tasklist/internal/server/storage"
)

var _ storage.TaskStorage = (*Storage)(nil)

// CreateTask inserts a new task owned by ownerID
func (s *Storage) CreateTask(ctx context.Context, ownerID int64, title string) (*models.Task, error) {
	query := `
		INSERT INTO tasks (owner_id, title, completed)
		VALUES (?, ?, 0)
		RETURNING id, owner_id, title, completed
	`

	task := &models.Task{}
	err := s.db.QueryRowContext(ctx, query, ownerID, title).Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Completed,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, storage.ErrOwnerNotFound
		}
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	return task, nil
}

// ListTasks retrieves all tasks of the owner
func (s *Storage) ListTasks(ctx context.Context, ownerID int64) ([]*models.Task, error) {
	query := `
		SELECT id, owner_id, title, completed
		FROM tasks
		WHERE owner_id = ?
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	tasks := make([]*models.Task, 0)

	for rows.Next() {
		task := &models.Task{}
		if err := rows.Scan(
			&task.ID,
			&task.OwnerID,
			&task.Title,
			&task.Completed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return tasks, nil
}

// UpdateTask applies patch to the owner's task in a single statement
func (s *Storage) UpdateTask(ctx context.Context, ownerID, taskID int64, patch models.TaskPatch) (*models.Task, error) {
	// COALESCE оставляет старое значение для nil полей патча
	query := `
		UPDATE tasks
		SET title = COALESCE(?, title), completed = COALESCE(?, completed)
		WHERE id = ? AND owner_id = ?
		RETURNING id, owner_id, title, completed
	`

	task := &models.Task{}
	err := s.db.QueryRowContext(ctx, query, nullString(patch.Title), nullBool(patch.Completed), taskID, ownerID).Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Completed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes the owner's task
func (s *Storage) DeleteTask(ctx context.Context, ownerID, taskID int64) error {
	query := `DELETE FROM tasks WHERE id = ? AND owner_id = ?`

	result, err := s.db.ExecContext(ctx, query, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrTaskNotFound
	}

	return nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}
