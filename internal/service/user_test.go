package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"taskgame_service/internal/auth"
	"taskgame_service/internal/domain"
	"taskgame_service/internal/repository"
)

func newUserService(repo UserRepository) *UserService {
	return NewUserService(repo, auth.NewManager("test-secret", time.Hour))
}

func TestRegister_HashesPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo)

	var created *domain.User
	mockRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*domain.User)
	}).Return(nil)

	user, err := svc.Register(context.Background(), &RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})

	assert.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "correct horse battery", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(created.PasswordHash), []byte("correct horse battery"),
	))
}

func TestRegister_Validation(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo)

	cases := []RegisterInput{
		{Username: "", Email: "a@b.c", Password: "longenough"},
		{Username: "alice", Email: "not-an-email", Password: "longenough"},
		{Username: "alice", Email: "a@b.c", Password: "short"},
	}

	for _, input := range cases {
		_, err := svc.Register(context.Background(), &input)
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	}
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Register(context.Background(), &RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "longenough",
	})

	assert.True(t, errors.Is(err, ErrAlreadyExists))
}

func TestLogin_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo)

	hash, err := bcrypt.GenerateFromPassword([]byte("longenough"), bcrypt.MinCost)
	assert.NoError(t, err)

	user := &domain.User{
		ID:           uuid.New(),
		Username:     "alice",
		PasswordHash: string(hash),
		IsActive:     true,
	}

	mockRepo.On("GetByUsername", mock.Anything, "alice").Return(user, nil)
	mockRepo.On("UpdateLastLogin", mock.Anything, user.ID, mock.Anything).Return(nil)

	token, loggedIn, err := svc.Login(context.Background(), "alice", "longenough")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)
	mockRepo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte("rightpassword"), bcrypt.MinCost)
	mockRepo.On("GetByUsername", mock.Anything, "alice").Return(&domain.User{
		ID:           uuid.New(),
		PasswordHash: string(hash),
		IsActive:     true,
	}, nil)

	_, _, err := svc.Login(context.Background(), "alice", "wrongpassword")

	assert.True(t, errors.Is(err, ErrPermissionDenied))
	mockRepo.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_UnknownUserSameError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo)

	mockRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

	_, _, err := svc.Login(context.Background(), "ghost", "whatever")

	assert.True(t, errors.Is(err, ErrPermissionDenied))
}

func TestLogin_InactiveUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte("longenough"), bcrypt.MinCost)
	mockRepo.On("GetByUsername", mock.Anything, "alice").Return(&domain.User{
		PasswordHash: string(hash),
		IsActive:     false,
	}, nil)

	_, _, err := svc.Login(context.Background(), "alice", "longenough")

	assert.True(t, errors.Is(err, ErrPermissionDenied))
}

func TestUpdateFlags_AdminOnly(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo)

	_, err := svc.UpdateFlags(authedCtx(uuid.New()), uuid.New(), &UpdateUserInput{})

	assert.True(t, errors.Is(err, ErrPermissionDenied))
}

func TestUpdateFlags_PartialUpdate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newUserService(mockRepo)

	userID := uuid.New()
	mockRepo.On("GetByID", mock.Anything, userID).Return(&domain.User{
		ID:       userID,
		IsActive: true,
		IsAdmin:  false,
	}, nil)
	mockRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	isAdmin := true
	user, err := svc.UpdateFlags(adminCtx(uuid.New()), userID, &UpdateUserInput{IsAdmin: &isAdmin})

	assert.NoError(t, err)
	assert.True(t, user.IsAdmin)
	assert.True(t, user.IsActive)
}
