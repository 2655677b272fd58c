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

type SubmissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	query := `
		INSERT INTO task_submissions
			(id, assignment_id, submitted_by_user_id, notes, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate UUID: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, query,
		id,
		submission.AssignmentID,
		submission.SubmittedByUserID,
		submission.Notes,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	submission.ID = id
	submission.SubmittedAt = now
	return nil
}

func (r *SubmissionRepository) CreateFile(ctx context.Context, file *domain.SubmissionFile) error {
	query := `
		INSERT INTO submission_files
			(id, submission_id, file_name, storage_key, content_type, file_size, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate UUID: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, query,
		id,
		file.SubmissionID,
		file.FileName,
		file.StorageKey,
		file.ContentType,
		file.FileSize,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create submission file: %w", err)
	}

	file.ID = id
	file.UploadedAt = now
	return nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := `
		SELECT id, assignment_id, submitted_by_user_id, notes, submitted_at
		FROM task_submissions
		WHERE id = $1
	`

	submission, err := r.scanOne(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	files, err := r.listFiles(ctx, submission.ID)
	if err != nil {
		return nil, err
	}
	submission.Files = files

	return submission, nil
}

func (r *SubmissionRepository) GetByAssignment(ctx context.Context, assignmentID uuid.UUID) (*domain.Submission, error) {
	query := `
		SELECT id, assignment_id, submitted_by_user_id, notes, submitted_at
		FROM task_submissions
		WHERE assignment_id = $1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, assignmentID))
}

func (r *SubmissionRepository) GetByAssignmentWithFiles(ctx context.Context, assignmentID uuid.UUID) (*domain.Submission, error) {
	submission, err := r.GetByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	files, err := r.listFiles(ctx, submission.ID)
	if err != nil {
		return nil, err
	}
	submission.Files = files

	return submission, nil
}

func (r *SubmissionRepository) GetFileByID(ctx context.Context, id uuid.UUID) (*domain.SubmissionFile, error) {
	query := `
		SELECT id, submission_id, file_name, storage_key, content_type, file_size, uploaded_at
		FROM submission_files
		WHERE id = $1
	`

	var f domain.SubmissionFile
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID,
		&f.SubmissionID,
		&f.FileName,
		&f.StorageKey,
		&f.ContentType,
		&f.FileSize,
		&f.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission file: %w", err)
	}

	return &f, nil
}

func (r *SubmissionRepository) ListCompleted(ctx context.Context) ([]*domain.CompletedTask, error) {
	query := `
		SELECT s.id, t.title, t.description, s.submitted_at, s.notes,
		       e.name, e.end_date,
		       su.username AS submitted_by, cu.username AS created_by
		FROM task_submissions s
		JOIN task_assignments a ON a.id = s.assignment_id
		JOIN tasks t ON t.id = a.task_id
		LEFT JOIN events e ON e.id = t.event_id
		JOIN users su ON su.id = s.submitted_by_user_id
		JOIN users cu ON cu.id = t.created_by_user_id
		WHERE a.status IN ('COMPLETED', 'REVIEWED')
		ORDER BY s.submitted_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed tasks: %w", err)
	}
	defer rows.Close()

	var results []*domain.CompletedTask
	for rows.Next() {
		var ct domain.CompletedTask
		if err := rows.Scan(
			&ct.SubmissionID,
			&ct.TaskTitle,
			&ct.TaskDescription,
			&ct.SubmittedAt,
			&ct.Notes,
			&ct.EventName,
			&ct.EventEndDate,
			&ct.SubmittedByUsername,
			&ct.CreatedByUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan completed task: %w", err)
		}
		results = append(results, &ct)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for _, ct := range results {
		files, err := r.listFiles(ctx, ct.SubmissionID)
		if err != nil {
			return nil, err
		}
		ct.Files = files
	}

	return results, nil
}

func (r *SubmissionRepository) DeleteFilesBySubmission(ctx context.Context, submissionID uuid.UUID) error {
	query := `DELETE FROM submission_files WHERE submission_id = $1`

	if _, err := r.db.ExecContext(ctx, query, submissionID); err != nil {
		return fmt.Errorf("failed to delete submission files: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM task_submissions WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
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

func (r *SubmissionRepository) scanOne(row *sql.Row) (*domain.Submission, error) {
	var s domain.Submission
	err := row.Scan(
		&s.ID,
		&s.AssignmentID,
		&s.SubmittedByUserID,
		&s.Notes,
		&s.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &s, nil
}

func (r *SubmissionRepository) listFiles(ctx context.Context, submissionID uuid.UUID) ([]*domain.SubmissionFile, error) {
	query := `
		SELECT id, submission_id, file_name, storage_key, content_type, file_size, uploaded_at
		FROM submission_files
		WHERE submission_id = $1
		ORDER BY uploaded_at
	`

	rows, err := r.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submission files: %w", err)
	}
	defer rows.Close()

	var files []*domain.SubmissionFile
	for rows.Next() {
		var f domain.SubmissionFile
		if err := rows.Scan(
			&f.ID,
			&f.SubmissionID,
			&f.FileName,
			&f.StorageKey,
			&f.ContentType,
			&f.FileSize,
			&f.UploadedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan submission file: %w", err)
		}
		files = append(files, &f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return files, nil
}
