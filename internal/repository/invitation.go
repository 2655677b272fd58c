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

const invitationColumns = `
	id, event_id, user_id, benefactor_user_id, beneficiary_user_id,
	invited_at, status, response_at
`

type InvitationRepository struct {
	db *sql.DB
}

func NewInvitationRepository(db *sql.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(ctx context.Context, invitation *domain.Invitation) error {
	query := `
		INSERT INTO event_invitations
			(id, event_id, user_id, benefactor_user_id, beneficiary_user_id, invited_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate UUID: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, query,
		id,
		invitation.EventID,
		invitation.UserID,
		invitation.BenefactorUserID,
		invitation.BeneficiaryUserID,
		now,
		invitation.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}

	invitation.ID = id
	invitation.InvitedAt = now
	return nil
}

func (r *InvitationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM event_invitations WHERE id = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *InvitationRepository) GetByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM event_invitations WHERE event_id = $1 AND user_id = $2`

	return r.scanOne(r.db.QueryRowContext(ctx, query, eventID, userID))
}

func (r *InvitationRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM event_invitations WHERE event_id = $1 ORDER BY invited_at`

	return r.list(ctx, query, eventID)
}

func (r *InvitationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM event_invitations WHERE user_id = $1 ORDER BY invited_at DESC`

	return r.list(ctx, query, userID)
}

func (r *InvitationRepository) ListPendingByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM event_invitations WHERE user_id = $1 AND status = 'PENDING' ORDER BY invited_at DESC`

	return r.list(ctx, query, userID)
}

func (r *InvitationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InvitationStatus, respondedAt time.Time) error {
	query := `UPDATE event_invitations SET status = $1, response_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, respondedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update invitation status: %w", err)
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

func (r *InvitationRepository) DeleteByEvent(ctx context.Context, eventID uuid.UUID) error {
	query := `DELETE FROM event_invitations WHERE event_id = $1`

	if _, err := r.db.ExecContext(ctx, query, eventID); err != nil {
		return fmt.Errorf("failed to delete invitations: %w", err)
	}
	return nil
}

func (r *InvitationRepository) scanOne(row *sql.Row) (*domain.Invitation, error) {
	var inv domain.Invitation
	err := row.Scan(
		&inv.ID,
		&inv.EventID,
		&inv.UserID,
		&inv.BenefactorUserID,
		&inv.BeneficiaryUserID,
		&inv.InvitedAt,
		&inv.Status,
		&inv.ResponseAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return &inv, nil
}

func (r *InvitationRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*domain.Invitation
	for rows.Next() {
		var inv domain.Invitation
		if err := rows.Scan(
			&inv.ID,
			&inv.EventID,
			&inv.UserID,
			&inv.BenefactorUserID,
			&inv.BeneficiaryUserID,
			&inv.InvitedAt,
			&inv.Status,
			&inv.ResponseAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, &inv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return invitations, nil
}
