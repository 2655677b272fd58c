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

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events
			(id, name, description, start_date, end_date, created_by_user_id, created_at, is_active, max_tasks_per_user)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate UUID: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, query,
		id,
		event.Name,
		event.Description,
		event.StartDate,
		event.EndDate,
		event.CreatedByUserID,
		now,
		event.IsActive,
		event.MaxTasksPerUser,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	event.ID = id
	event.CreatedAt = now
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	query := `
		SELECT id, name, description, start_date, end_date, created_by_user_id,
		       created_at, is_active, max_tasks_per_user
		FROM events
		WHERE id = $1
	`

	var event domain.Event
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		&event.StartDate,
		&event.EndDate,
		&event.CreatedByUserID,
		&event.CreatedAt,
		&event.IsActive,
		&event.MaxTasksPerUser,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return &event, nil
}

func (r *EventRepository) List(ctx context.Context) ([]*domain.EventSummary, error) {
	query := `
		SELECT e.id, e.name, e.description, e.start_date, e.end_date, e.created_by_user_id,
		       e.created_at, e.is_active, e.max_tasks_per_user,
		       COUNT(i.id) AS invited_count,
		       COUNT(i.id) FILTER (WHERE i.status = 'ACCEPTED') AS accepted_count
		FROM events e
		LEFT JOIN event_invitations i ON i.event_id = e.id
		GROUP BY e.id
		ORDER BY e.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*domain.EventSummary
	for rows.Next() {
		var e domain.EventSummary
		if err := rows.Scan(
			&e.ID,
			&e.Name,
			&e.Description,
			&e.StartDate,
			&e.EndDate,
			&e.CreatedByUserID,
			&e.CreatedAt,
			&e.IsActive,
			&e.MaxTasksPerUser,
			&e.InvitedCount,
			&e.AcceptedCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return events, nil
}

func (r *EventRepository) ListEndingSoon(ctx context.Context, within time.Duration) ([]*domain.Event, error) {
	query := `
		SELECT id, name, description, start_date, end_date, created_by_user_id,
		       created_at, is_active, max_tasks_per_user
		FROM events
		WHERE is_active = TRUE
		  AND end_date BETWEEN NOW() AND $1
	`

	deadline := time.Now().Add(within)
	rows, err := r.db.QueryContext(ctx, query, deadline)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(
			&e.ID,
			&e.Name,
			&e.Description,
			&e.StartDate,
			&e.EndDate,
			&e.CreatedByUserID,
			&e.CreatedAt,
			&e.IsActive,
			&e.MaxTasksPerUser,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return events, nil
}

func (r *EventRepository) Update(ctx context.Context, event *domain.Event) error {
	query := `
		UPDATE events
		SET name = $1, description = $2, start_date = $3, end_date = $4,
		    is_active = $5, max_tasks_per_user = $6
		WHERE id = $7
	`

	result, err := r.db.ExecContext(ctx, query,
		event.Name,
		event.Description,
		event.StartDate,
		event.EndDate,
		event.IsActive,
		event.MaxTasksPerUser,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
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

func (r *EventRepository) TaskCount(ctx context.Context, eventID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM tasks WHERE event_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM events WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
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
