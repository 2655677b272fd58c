package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskgame_service/internal/domain"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks
			(id, event_id, title, description, due_date, priority, created_by_user_id, created_at, max_daily_assignments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate UUID: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, query,
		id,
		task.EventID,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.CreatedByUserID,
		now,
		task.MaxDailyAssignments,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	task.ID = id
	task.CreatedAt = now
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `
		SELECT id, event_id, title, description, due_date, priority,
		       created_by_user_id, created_at, max_daily_assignments
		FROM tasks
		WHERE id = $1
	`

	var task domain.Task
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.EventID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Priority,
		&task.CreatedByUserID,
		&task.CreatedAt,
		&task.MaxDailyAssignments,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return &task, nil
}

func (r *TaskRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*domain.Task, error) {
	query := `
		SELECT id, event_id, title, description, due_date, priority,
		       created_by_user_id, created_at, max_daily_assignments
		FROM tasks
		WHERE created_by_user_id = $1
		ORDER BY created_at DESC
	`

	return r.list(ctx, query, creatorID)
}

func (r *TaskRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Task, error) {
	query := `
		SELECT id, event_id, title, description, due_date, priority,
		       created_by_user_id, created_at, max_daily_assignments
		FROM tasks
		WHERE event_id = $1
	`

	return r.list(ctx, query, eventID)
}

// CountAssignedToday reports how many assignments were already created
// for the task since local midnight, for the daily cap check.
func (r *TaskRepository) CountAssignedToday(ctx context.Context, taskID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM task_assignments
		WHERE task_id = $1
		  AND assigned_at >= date_trunc('day', NOW())
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, taskID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}
	return count, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tasks WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *TaskRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.EventID,
			&task.Title,
			&task.Description,
			&task.DueDate,
			&task.Priority,
			&task.CreatedByUserID,
			&task.CreatedAt,
			&task.MaxDailyAssignments,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, &task)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return tasks, nil
}
