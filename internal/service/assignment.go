package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"taskgame_service/internal/domain"
	"taskgame_service/internal/repository"
)

// AssignmentService resolves task assignees from the event's role
// graph and drives the assignment status lifecycle.
type AssignmentService struct {
	taskRepo       TaskRepository
	eventRepo      EventRepository
	invitationRepo InvitationRepository
	assignmentRepo AssignmentRepository
}

func NewAssignmentService(
	taskRepo TaskRepository,
	eventRepo EventRepository,
	invitationRepo InvitationRepository,
	assignmentRepo AssignmentRepository,
) *AssignmentService {
	return &AssignmentService{
		taskRepo:       taskRepo,
		eventRepo:      eventRepo,
		invitationRepo: invitationRepo,
		assignmentRepo: assignmentRepo,
	}
}

// Propagate resolves the assignee for a task created by creatorID and
// records a new pending assignment. The assignee is the beneficiary
// fixed in the creator's invitation, so repeated propagation for the
// same creator and event always lands on the same user. A nil, nil
// return means "no assignment created": the creator has no invitation
// in the event, the task is detached from any event, or the task's
// daily assignment cap is reached.
func (s *AssignmentService) Propagate(ctx context.Context, taskID, creatorID uuid.UUID) (*domain.Assignment, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if task.EventID == nil {
		return nil, nil
	}
	if _, err := s.eventRepo.GetByID(ctx, *task.EventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	todayCount, err := s.taskRepo.CountAssignedToday(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if todayCount >= task.MaxDailyAssignments {
		return nil, nil
	}

	invitation, err := s.invitationRepo.GetByEventAndUser(ctx, *task.EventID, creatorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	assignment := &domain.Assignment{
		TaskID:           taskID,
		AssignedToUserID: invitation.BeneficiaryUserID,
		Status:           domain.AssignmentStatusPending,
	}

	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	return assignment, nil
}

// Reassign re-runs propagation on demand. Only the task's creator may
// trigger it; the prior assignment rows are kept, the newest one is
// authoritative.
func (s *AssignmentService) Reassign(ctx context.Context, taskID uuid.UUID) (*domain.Assignment, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if task.CreatedByUserID != userID {
		return nil, ErrPermissionDenied
	}

	assignment, err := s.Propagate(ctx, taskID, task.CreatedByUserID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, ErrNotEligible
	}

	return assignment, nil
}

// UpdateStatus applies an assignee-driven status change. Completed is
// reachable only through work submission, never through this path.
func (s *AssignmentService) UpdateStatus(ctx context.Context, assignmentID uuid.UUID, statusName string) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if assignment.AssignedToUserID != userID {
		return ErrPermissionDenied
	}

	status := domain.ToAssignmentStatus(statusName)
	if !status.IsValid() || status == domain.AssignmentStatusCompleted {
		return fmt.Errorf("status %q: %w", statusName, ErrInvalidStatus)
	}

	return s.assignmentRepo.UpdateStatus(ctx, assignmentID, status, assignment.CompletedAt)
}

func (s *AssignmentService) ListMine(ctx context.Context) ([]*domain.AssignmentDetail, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	return s.assignmentRepo.ListByUser(ctx, userID)
}
