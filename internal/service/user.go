package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskgame_service/internal/auth"
	"taskgame_service/internal/domain"
	"taskgame_service/internal/repository"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type UpdateUserInput struct {
	IsActive *bool
	IsAdmin  *bool
}

type UserService struct {
	userRepo UserRepository
	tokens   *auth.Manager
}

func NewUserService(userRepo UserRepository, tokens *auth.Manager) *UserService {
	return &UserService{userRepo: userRepo, tokens: tokens}
}

func (s *UserService) Register(ctx context.Context, input *RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("username is required: %w", ErrInvalidArgument)
	}
	if !strings.Contains(input.Email, "@") {
		return nil, fmt.Errorf("invalid email: %w", ErrInvalidArgument)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        input.Email,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and returns a signed bearer token. The
// same error is reported for an unknown user and a bad password.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrPermissionDenied
		}
		return "", nil, err
	}

	if !user.IsActive {
		return "", nil, ErrPermissionDenied
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrPermissionDenied
	}

	token, err := s.tokens.Issue(user.ID, user.Role())
	if err != nil {
		return "", nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.userRepo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateFlags(ctx context.Context, userID uuid.UUID, input *UpdateUserInput) (*domain.User, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.IsAdmin != nil {
		user.IsAdmin = *input.IsAdmin
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
