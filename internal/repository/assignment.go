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

type AssignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	query := `
		INSERT INTO task_assignments
			(id, task_id, assigned_to_user_id, assigned_at, status)
		VALUES ($1, $2, $3, $4, $5)
	`

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate UUID: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, query,
		id,
		assignment.TaskID,
		assignment.AssignedToUserID,
		now,
		assignment.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	assignment.ID = id
	assignment.AssignedAt = now
	return nil
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	query := `
		SELECT id, task_id, assigned_to_user_id, assigned_at, status, completed_at
		FROM task_assignments
		WHERE id = $1
	`

	var a domain.Assignment
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.TaskID,
		&a.AssignedToUserID,
		&a.AssignedAt,
		&a.Status,
		&a.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return &a, nil
}

func (r *AssignmentRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Assignment, error) {
	query := `
		SELECT id, task_id, assigned_to_user_id, assigned_at, status, completed_at
		FROM task_assignments
		WHERE task_id = $1
		ORDER BY assigned_at
	`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(
			&a.ID,
			&a.TaskID,
			&a.AssignedToUserID,
			&a.AssignedAt,
			&a.Status,
			&a.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, &a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return assignments, nil
}

func (r *AssignmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.AssignmentDetail, error) {
	query := `
		SELECT a.id, a.task_id, a.assigned_to_user_id, a.assigned_at, a.status, a.completed_at,
		       t.title, t.description, t.due_date, t.priority, t.event_id,
		       COALESCE(e.name, '') AS event_name
		FROM task_assignments a
		JOIN tasks t ON t.id = a.task_id
		LEFT JOIN events e ON e.id = t.event_id
		WHERE a.assigned_to_user_id = $1
		ORDER BY a.assigned_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var details []*domain.AssignmentDetail
	for rows.Next() {
		var d domain.AssignmentDetail
		if err := rows.Scan(
			&d.ID,
			&d.TaskID,
			&d.AssignedToUserID,
			&d.AssignedAt,
			&d.Status,
			&d.CompletedAt,
			&d.TaskTitle,
			&d.TaskDescription,
			&d.DueDate,
			&d.Priority,
			&d.EventID,
			&d.EventName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		details = append(details, &d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return details, nil
}

func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AssignmentStatus, completedAt *time.Time) error {
	query := `UPDATE task_assignments SET status = $1, completed_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update assignment status: %w", err)
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

func (r *AssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM task_assignments WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
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
