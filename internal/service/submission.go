package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskgame_service/internal/domain"
	"taskgame_service/internal/repository"
	"taskgame_service/pkg/logging"
)

const (
	completedTasksCacheKey = "completed_tasks"
	completedTasksCacheTTL = time.Minute
)

type UploadedFile struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

type SubmitWorkInput struct {
	AssignmentID uuid.UUID
	Notes        *string
	Files        []UploadedFile
}

// SubmissionService handles the completion side of the lifecycle: an
// assignee submits work exactly once per assignment, which also moves
// the assignment to Completed.
type SubmissionService struct {
	submissionRepo SubmissionRepository
	assignmentRepo AssignmentRepository
	fileStore      FileStore
	cache          Cache
}

func NewSubmissionService(
	submissionRepo SubmissionRepository,
	assignmentRepo AssignmentRepository,
	fileStore FileStore,
	cache Cache,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		assignmentRepo: assignmentRepo,
		fileStore:      fileStore,
		cache:          cache,
	}
}

// SubmitWork stores the submission with its files and completes the
// assignment. Submission persistence and the status transition form
// one logical operation; each step still commits independently.
func (s *SubmissionService) SubmitWork(ctx context.Context, input *SubmitWorkInput) (*domain.Submission, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, input.AssignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if assignment.AssignedToUserID != userID {
		return nil, ErrPermissionDenied
	}

	existing, err := s.submissionRepo.GetByAssignment(ctx, input.AssignmentID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadySubmitted
	}

	submission := &domain.Submission{
		AssignmentID:      input.AssignmentID,
		SubmittedByUserID: userID,
		Notes:             input.Notes,
	}

	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, err
	}

	var storedKeys []string
	for _, upload := range input.Files {
		if upload.Size <= 0 {
			continue
		}

		key := fmt.Sprintf("%s_%s", uuid.New(), upload.Name)
		if err := s.fileStore.Upload(ctx, key, upload.ContentType, upload.Content, upload.Size); err != nil {
			s.discardStoredFiles(ctx, storedKeys)
			return nil, fmt.Errorf("failed to store file %s: %w", upload.Name, err)
		}
		storedKeys = append(storedKeys, key)

		contentType := upload.ContentType
		file := &domain.SubmissionFile{
			SubmissionID: submission.ID,
			FileName:     upload.Name,
			StorageKey:   key,
			ContentType:  &contentType,
			FileSize:     upload.Size,
		}
		if err := s.submissionRepo.CreateFile(ctx, file); err != nil {
			s.discardStoredFiles(ctx, storedKeys)
			return nil, err
		}
		submission.Files = append(submission.Files, file)
	}

	now := time.Now()
	if err := s.assignmentRepo.UpdateStatus(ctx, input.AssignmentID, domain.AssignmentStatusCompleted, &now); err != nil {
		return nil, fmt.Errorf("failed to complete assignment: %w", err)
	}

	s.cache.Delete(ctx, completedTasksCacheKey)

	return submission, nil
}

// discardStoredFiles removes objects uploaded before a failed submit.
// Deletes are best effort; orphaned objects only waste space.
func (s *SubmissionService) discardStoredFiles(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.fileStore.Delete(ctx, key); err != nil {
			if log, ok := logging.GetFromContext(ctx); ok {
				log.Warn(ctx, "failed to discard stored file",
					zap.String("storage_key", key),
					zap.Error(err),
				)
			}
		}
	}
}

func (s *SubmissionService) Get(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error) {
	submission, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return submission, nil
}

// ListCompleted returns the anonymous feed of finished tasks, cached
// briefly since it is the one list every participant polls.
func (s *SubmissionService) ListCompleted(ctx context.Context) ([]*domain.CompletedTask, error) {
	if data, ok := s.cache.Get(ctx, completedTasksCacheKey); ok {
		var cached []*domain.CompletedTask
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	results, err := s.submissionRepo.ListCompleted(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(results); err == nil {
		s.cache.Set(ctx, completedTasksCacheKey, data, completedTasksCacheTTL)
	} else if log, ok := logging.GetFromContext(ctx); ok {
		log.Warn(ctx, "failed to cache completed tasks", zap.Error(err))
	}

	return results, nil
}

func (s *SubmissionService) FileDownloadURL(ctx context.Context, fileID uuid.UUID) (string, error) {
	file, err := s.submissionRepo.GetFileByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	return s.fileStore.DownloadURL(ctx, file.StorageKey)
}
