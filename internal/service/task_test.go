package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"taskgame_service/internal/domain"
	"taskgame_service/internal/repository"
	"taskgame_service/pkg/kafka"
)

type taskFixture struct {
	taskRepo       *MockTaskRepository
	eventRepo      *MockEventRepository
	invitationRepo *MockInvitationRepository
	assignmentRepo *MockAssignmentRepository
	producer       *MockProducer
	svc            *TaskService
}

func newTaskFixture() *taskFixture {
	f := &taskFixture{
		taskRepo:       new(MockTaskRepository),
		eventRepo:      new(MockEventRepository),
		invitationRepo: new(MockInvitationRepository),
		assignmentRepo: new(MockAssignmentRepository),
		producer:       new(MockProducer),
	}
	assignments := NewAssignmentService(f.taskRepo, f.eventRepo, f.invitationRepo, f.assignmentRepo)
	f.svc = NewTaskService(f.taskRepo, f.invitationRepo, assignments, f.producer)
	return f
}

func TestCreateTask_PropagatesAndNotifies(t *testing.T) {
	f := newTaskFixture()

	eventID := uuid.New()
	creatorID := uuid.New()
	beneficiaryID := uuid.New()

	invitation := &domain.Invitation{
		EventID:           eventID,
		UserID:            creatorID,
		BeneficiaryUserID: beneficiaryID,
		Status:            domain.InvitationStatusAccepted,
	}

	f.invitationRepo.On("GetByEventAndUser", mock.Anything, eventID, creatorID).Return(invitation, nil)
	f.taskRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Task).ID = uuid.New()
	}).Return(nil)
	f.taskRepo.On("GetByID", mock.Anything, mock.Anything).Return(&domain.Task{
		ID:                  uuid.New(),
		EventID:             &eventID,
		CreatedByUserID:     creatorID,
		MaxDailyAssignments: 5,
	}, nil)
	f.eventRepo.On("GetByID", mock.Anything, eventID).Return(&domain.Event{ID: eventID}, nil)
	f.taskRepo.On("CountAssignedToday", mock.Anything, mock.Anything).Return(0, nil)
	f.assignmentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.producer.On("Send", mock.Anything, kafka.TopicTaskAssignments, mock.Anything).Return(nil)

	task, assignment, err := f.svc.Create(authedCtx(creatorID), &CreateTaskInput{
		EventID:  eventID,
		Title:    "Bake a cake",
		Priority: domain.TaskPriorityMedium,
	})

	assert.NoError(t, err)
	assert.NotNil(t, task)
	assert.NotNil(t, assignment)
	assert.Equal(t, beneficiaryID, assignment.AssignedToUserID)
	assert.Equal(t, defaultMaxDailyAssignments, task.MaxDailyAssignments)
	f.producer.AssertExpectations(t)
}

func TestCreateTask_DeclinedInvitation(t *testing.T) {
	f := newTaskFixture()

	eventID := uuid.New()
	creatorID := uuid.New()

	f.invitationRepo.On("GetByEventAndUser", mock.Anything, eventID, creatorID).Return(&domain.Invitation{
		Status: domain.InvitationStatusDeclined,
	}, nil)

	_, _, err := f.svc.Create(authedCtx(creatorID), &CreateTaskInput{
		EventID:  eventID,
		Title:    "Bake a cake",
		Priority: domain.TaskPriorityLow,
	})

	assert.True(t, errors.Is(err, ErrPermissionDenied))
	f.taskRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateTask_NotParticipant(t *testing.T) {
	f := newTaskFixture()

	eventID := uuid.New()
	creatorID := uuid.New()

	f.invitationRepo.On("GetByEventAndUser", mock.Anything, eventID, creatorID).Return(nil, repository.ErrNotFound)

	_, _, err := f.svc.Create(authedCtx(creatorID), &CreateTaskInput{
		EventID:  eventID,
		Title:    "Bake a cake",
		Priority: domain.TaskPriorityLow,
	})

	assert.True(t, errors.Is(err, ErrPermissionDenied))
}

func TestCreateTask_Validation(t *testing.T) {
	f := newTaskFixture()
	ctx := authedCtx(uuid.New())

	_, _, err := f.svc.Create(ctx, &CreateTaskInput{EventID: uuid.New(), Priority: domain.TaskPriorityLow})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, _, err = f.svc.Create(ctx, &CreateTaskInput{EventID: uuid.New(), Title: "x", Priority: 9})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestCreateTask_NotifyFailureIsNotFatal(t *testing.T) {
	f := newTaskFixture()

	eventID := uuid.New()
	creatorID := uuid.New()

	f.invitationRepo.On("GetByEventAndUser", mock.Anything, eventID, creatorID).Return(&domain.Invitation{
		EventID:           eventID,
		UserID:            creatorID,
		BeneficiaryUserID: uuid.New(),
		Status:            domain.InvitationStatusAccepted,
	}, nil)
	f.taskRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.taskRepo.On("GetByID", mock.Anything, mock.Anything).Return(&domain.Task{
		EventID:             &eventID,
		CreatedByUserID:     creatorID,
		MaxDailyAssignments: 5,
	}, nil)
	f.eventRepo.On("GetByID", mock.Anything, eventID).Return(&domain.Event{ID: eventID}, nil)
	f.taskRepo.On("CountAssignedToday", mock.Anything, mock.Anything).Return(0, nil)
	f.assignmentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.producer.On("Send", mock.Anything, kafka.TopicTaskAssignments, mock.Anything).Return(errors.New("broker down"))

	_, assignment, err := f.svc.Create(authedCtx(creatorID), &CreateTaskInput{
		EventID:  eventID,
		Title:    "Bake a cake",
		Priority: domain.TaskPriorityHigh,
	})

	assert.NoError(t, err)
	assert.NotNil(t, assignment)
}
