package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"taskgame_service/internal/domain"
	"taskgame_service/internal/repository"
)

func seededRoleGraph(repo InvitationRepository) *RoleGraphService {
	return NewRoleGraphService(repo, rand.New(rand.NewSource(42)))
}

func TestBuildGraph_TooFewUsers(t *testing.T) {
	mockRepo := new(MockInvitationRepository)
	svc := seededRoleGraph(mockRepo)

	err := svc.BuildGraph(context.Background(), uuid.New(), []uuid.UUID{uuid.New()})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBuildGraph_AssignsRolesToEveryUser(t *testing.T) {
	mockRepo := new(MockInvitationRepository)
	svc := seededRoleGraph(mockRepo)

	userIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	eventID := uuid.New()

	var created []*domain.Invitation
	mockRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = append(created, args.Get(1).(*domain.Invitation))
	}).Return(nil)

	err := svc.BuildGraph(context.Background(), eventID, userIDs)

	assert.NoError(t, err)
	assert.Len(t, created, len(userIDs))

	members := make(map[uuid.UUID]bool, len(userIDs))
	for _, id := range userIDs {
		members[id] = true
	}

	for i, invitation := range created {
		assert.Equal(t, eventID, invitation.EventID)
		assert.Equal(t, userIDs[i], invitation.UserID)
		assert.Equal(t, domain.InvitationStatusPending, invitation.Status)

		assert.NotEqual(t, invitation.UserID, invitation.BenefactorUserID)
		assert.NotEqual(t, invitation.UserID, invitation.BeneficiaryUserID)
		// With 4 participants the benefactor and beneficiary never
		// coincide.
		assert.NotEqual(t, invitation.BenefactorUserID, invitation.BeneficiaryUserID)
		assert.True(t, members[invitation.BenefactorUserID])
		assert.True(t, members[invitation.BeneficiaryUserID])
	}
}

func TestBuildGraph_TwoUsersRolesMayCoincide(t *testing.T) {
	mockRepo := new(MockInvitationRepository)
	svc := seededRoleGraph(mockRepo)

	userA := uuid.New()
	userB := uuid.New()

	var created []*domain.Invitation
	mockRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = append(created, args.Get(1).(*domain.Invitation))
	}).Return(nil)

	err := svc.BuildGraph(context.Background(), uuid.New(), []uuid.UUID{userA, userB})

	assert.NoError(t, err)
	assert.Len(t, created, 2)

	// The only possible counterpart for each user is the other one, so
	// benefactor and beneficiary both point at them.
	assert.Equal(t, userB, created[0].BenefactorUserID)
	assert.Equal(t, userB, created[0].BeneficiaryUserID)
	assert.Equal(t, userA, created[1].BenefactorUserID)
	assert.Equal(t, userA, created[1].BeneficiaryUserID)
}

func TestBuildGraph_CreateFailureStops(t *testing.T) {
	mockRepo := new(MockInvitationRepository)
	svc := seededRoleGraph(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	err := svc.BuildGraph(context.Background(), uuid.New(), []uuid.UUID{uuid.New(), uuid.New(), uuid.New()})

	assert.Error(t, err)
	mockRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestRespond_Accept(t *testing.T) {
	mockRepo := new(MockInvitationRepository)
	svc := seededRoleGraph(mockRepo)

	userID := uuid.New()
	invitation := &domain.Invitation{
		ID:     uuid.New(),
		UserID: userID,
		Status: domain.InvitationStatusPending,
	}

	mockRepo.On("GetByID", mock.Anything, invitation.ID).Return(invitation, nil)
	mockRepo.On("UpdateStatus", mock.Anything, invitation.ID, domain.InvitationStatusAccepted, mock.Anything).Return(nil)

	updated, err := svc.Respond(authedCtx(userID), invitation.ID, true)

	assert.NoError(t, err)
	assert.Equal(t, domain.InvitationStatusAccepted, updated.Status)
	assert.NotNil(t, updated.ResponseAt)
	mockRepo.AssertExpectations(t)
}

func TestRespond_AlreadyResponded(t *testing.T) {
	mockRepo := new(MockInvitationRepository)
	svc := seededRoleGraph(mockRepo)

	userID := uuid.New()
	respondedAt := time.Now()
	invitation := &domain.Invitation{
		ID:         uuid.New(),
		UserID:     userID,
		Status:     domain.InvitationStatusAccepted,
		ResponseAt: &respondedAt,
	}

	mockRepo.On("GetByID", mock.Anything, invitation.ID).Return(invitation, nil)

	_, err := svc.Respond(authedCtx(userID), invitation.ID, false)

	assert.True(t, errors.Is(err, ErrAlreadyResponded))
	mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRespond_NotOwner(t *testing.T) {
	mockRepo := new(MockInvitationRepository)
	svc := seededRoleGraph(mockRepo)

	invitation := &domain.Invitation{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Status: domain.InvitationStatusPending,
	}

	mockRepo.On("GetByID", mock.Anything, invitation.ID).Return(invitation, nil)

	_, err := svc.Respond(authedCtx(uuid.New()), invitation.ID, true)

	assert.True(t, errors.Is(err, ErrPermissionDenied))
}

func TestGet_NotFound(t *testing.T) {
	mockRepo := new(MockInvitationRepository)
	svc := seededRoleGraph(mockRepo)

	invitationID := uuid.New()
	mockRepo.On("GetByID", mock.Anything, invitationID).Return(nil, repository.ErrNotFound)

	_, err := svc.Get(authedCtx(uuid.New()), invitationID)

	assert.True(t, errors.Is(err, ErrNotFound))
}
