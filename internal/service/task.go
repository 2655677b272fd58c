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
	"taskgame_service/pkg/kafka"
	"taskgame_service/pkg/logging"
)

const defaultMaxDailyAssignments = 5

type CreateTaskInput struct {
	EventID             uuid.UUID
	Title               string
	Description         string
	DueDate             *time.Time
	Priority            domain.TaskPriority
	MaxDailyAssignments int
}

type TaskService struct {
	taskRepo       TaskRepository
	invitationRepo InvitationRepository
	assignments    *AssignmentService
	producer       Producer
}

func NewTaskService(
	taskRepo TaskRepository,
	invitationRepo InvitationRepository,
	assignments *AssignmentService,
	producer Producer,
) *TaskService {
	return &TaskService{
		taskRepo:       taskRepo,
		invitationRepo: invitationRepo,
		assignments:    assignments,
		producer:       producer,
	}
}

// Create persists a new task and immediately propagates its
// assignment. A failed propagation does not undo the task; the caller
// receives the task with a nil assignment.
func (s *TaskService) Create(ctx context.Context, input *CreateTaskInput) (*domain.Task, *domain.Assignment, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, nil, err
	}

	if input.Title == "" {
		return nil, nil, fmt.Errorf("title is required: %w", ErrInvalidArgument)
	}
	if !input.Priority.IsValid() {
		return nil, nil, fmt.Errorf("priority %d: %w", input.Priority, ErrInvalidArgument)
	}

	// Only participants who have not declined their invitation may
	// create tasks in the event.
	invitation, err := s.invitationRepo.GetByEventAndUser(ctx, input.EventID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrPermissionDenied
		}
		return nil, nil, err
	}
	if invitation.Status == domain.InvitationStatusDeclined {
		return nil, nil, ErrPermissionDenied
	}

	maxDaily := input.MaxDailyAssignments
	if maxDaily <= 0 {
		maxDaily = defaultMaxDailyAssignments
	}

	eventID := input.EventID
	task := &domain.Task{
		EventID:             &eventID,
		Title:               input.Title,
		Description:         input.Description,
		DueDate:             input.DueDate,
		Priority:            input.Priority,
		CreatedByUserID:     userID,
		MaxDailyAssignments: maxDaily,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, nil, err
	}

	assignment, err := s.assignments.Propagate(ctx, task.ID, userID)
	if err != nil {
		return nil, nil, err
	}

	if assignment != nil {
		s.notifyAssigned(ctx, task, assignment)
	}

	return task, assignment, nil
}

func (s *TaskService) ListCreated(ctx context.Context) ([]*domain.Task, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	return s.taskRepo.ListByCreator(ctx, userID)
}

func (s *TaskService) notifyAssigned(ctx context.Context, task *domain.Task, assignment *domain.Assignment) {
	message := map[string]interface{}{
		"task_id":       task.ID,
		"task_title":    task.Title,
		"assignment_id": assignment.ID,
		"assigned_to":   assignment.AssignedToUserID,
		"due_date":      task.DueDate,
	}

	if err := s.producer.Send(ctx, kafka.TopicTaskAssignments, message); err != nil {
		if log, ok := logging.GetFromContext(ctx); ok {
			log.Warn(ctx, "failed to publish assignment notification",
				zap.String("task_id", task.ID.String()),
				zap.Error(err),
			)
		}
	}
}
