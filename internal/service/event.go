package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskgame_service/internal/domain"
	"taskgame_service/internal/repository"
	"taskgame_service/pkg/logging"
)

type CreateEventInput struct {
	Name            string
	Description     *string
	StartDate       time.Time
	EndDate         time.Time
	MaxTasksPerUser int
	UserIDs         []uuid.UUID
}

type UpdateEventInput struct {
	Name            string
	Description     *string
	StartDate       time.Time
	EndDate         time.Time
	MaxTasksPerUser int
	IsActive        bool
}

type EventDetail struct {
	domain.Event
	Invitations []*domain.Invitation
	TaskCount   int
}

// EventService owns the event lifecycle: creation with role-graph
// construction, administration, and the cascade teardown that removes
// everything an event transitively owns.
type EventService struct {
	eventRepo      EventRepository
	invitationRepo InvitationRepository
	taskRepo       TaskRepository
	assignmentRepo AssignmentRepository
	submissionRepo SubmissionRepository
	fileStore      FileStore
	roleGraph      *RoleGraphService
}

func NewEventService(
	eventRepo EventRepository,
	invitationRepo InvitationRepository,
	taskRepo TaskRepository,
	assignmentRepo AssignmentRepository,
	submissionRepo SubmissionRepository,
	fileStore FileStore,
	roleGraph *RoleGraphService,
) *EventService {
	return &EventService{
		eventRepo:      eventRepo,
		invitationRepo: invitationRepo,
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
		fileStore:      fileStore,
		roleGraph:      roleGraph,
	}
}

func (s *EventService) Create(ctx context.Context, input *CreateEventInput) (*domain.Event, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	if len(input.UserIDs) < 2 {
		return nil, fmt.Errorf("at least 2 users are required for an event: %w", ErrInvalidArgument)
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, fmt.Errorf("end date must be after start date: %w", ErrInvalidArgument)
	}
	if input.MaxTasksPerUser < 1 {
		return nil, fmt.Errorf("max tasks per user must be at least 1: %w", ErrInvalidArgument)
	}

	event := &domain.Event{
		Name:            input.Name,
		Description:     input.Description,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		CreatedByUserID: userID,
		IsActive:        true,
		MaxTasksPerUser: input.MaxTasksPerUser,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	if err := s.roleGraph.BuildGraph(ctx, event.ID, input.UserIDs); err != nil {
		return nil, err
	}

	return event, nil
}

func (s *EventService) List(ctx context.Context) ([]*domain.EventSummary, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx)
}

func (s *EventService) Get(ctx context.Context, eventID uuid.UUID) (*EventDetail, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	invitations, err := s.invitationRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	taskCount, err := s.eventRepo.TaskCount(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return &EventDetail{
		Event:       *event,
		Invitations: invitations,
		TaskCount:   taskCount,
	}, nil
}

func (s *EventService) Update(ctx context.Context, eventID uuid.UUID, input *UpdateEventInput) (*domain.Event, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.Name == "" {
		return nil, fmt.Errorf("event name is required: %w", ErrInvalidArgument)
	}
	if input.MaxTasksPerUser < 1 {
		return nil, fmt.Errorf("max tasks per user must be at least 1: %w", ErrInvalidArgument)
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, fmt.Errorf("end date must be after start date: %w", ErrInvalidArgument)
	}

	event.Name = input.Name
	event.Description = input.Description
	event.StartDate = input.StartDate
	event.EndDate = input.EndDate
	event.MaxTasksPerUser = input.MaxTasksPerUser
	event.IsActive = input.IsActive

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

func (s *EventService) SetActive(ctx context.Context, eventID uuid.UUID, isActive bool) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	event.IsActive = isActive
	return s.eventRepo.Update(ctx, event)
}

// Delete tears down an event and everything it transitively owns:
// submissions with their stored files, assignments, tasks, then the
// invitations and the event row itself. Stored-object removal is best
// effort; a missing or undeletable object never blocks record cleanup.
// Each deletion commits on its own, so a failure partway leaves a
// partially deleted event; re-running completes the remainder.
func (s *EventService) Delete(ctx context.Context, eventID uuid.UUID) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	tasks, err := s.taskRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return err
	}

	for _, task := range tasks {
		assignments, err := s.assignmentRepo.ListByTask(ctx, task.ID)
		if err != nil {
			return err
		}

		for _, assignment := range assignments {
			submission, err := s.submissionRepo.GetByAssignmentWithFiles(ctx, assignment.ID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}

			if submission != nil {
				if err := s.deleteSubmissionWithFiles(ctx, submission); err != nil {
					return err
				}
			}

			if err := s.assignmentRepo.Delete(ctx, assignment.ID); err != nil {
				return err
			}
		}

		if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
			return err
		}
	}

	if err := s.invitationRepo.DeleteByEvent(ctx, eventID); err != nil {
		return err
	}

	return s.eventRepo.Delete(ctx, eventID)
}

func (s *EventService) deleteSubmissionWithFiles(ctx context.Context, submission *domain.Submission) error {
	for _, file := range submission.Files {
		s.tryDeleteStoredFile(ctx, file.StorageKey)
	}

	if err := s.submissionRepo.DeleteFilesBySubmission(ctx, submission.ID); err != nil {
		return err
	}
	return s.submissionRepo.Delete(ctx, submission.ID)
}

// tryDeleteStoredFile swallows storage errors: database cleanup must
// not be blocked by storage inconsistencies.
func (s *EventService) tryDeleteStoredFile(ctx context.Context, key string) {
	if key == "" {
		return
	}

	if err := s.fileStore.Delete(ctx, key); err != nil {
		if log, ok := logging.GetFromContext(ctx); ok {
			log.Warn(ctx, "failed to delete stored file",
				zap.String("storage_key", key),
				zap.Error(err),
			)
		}
	}
}
