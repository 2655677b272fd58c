package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"taskgame_service/internal/domain"
)

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	List(ctx context.Context) ([]*domain.EventSummary, error)
	ListEndingSoon(ctx context.Context, within time.Duration) ([]*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	TaskCount(ctx context.Context, eventID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type InvitationRepository interface {
	Create(ctx context.Context, invitation *domain.Invitation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error)
	GetByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*domain.Invitation, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Invitation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Invitation, error)
	ListPendingByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Invitation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InvitationStatus, respondedAt time.Time) error
	DeleteByEvent(ctx context.Context, eventID uuid.UUID) error
}

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*domain.Task, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Task, error)
	CountAssignedToday(ctx context.Context, taskID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Assignment, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Assignment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.AssignmentDetail, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AssignmentStatus, completedAt *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.Submission) error
	CreateFile(ctx context.Context, file *domain.SubmissionFile) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	GetByAssignment(ctx context.Context, assignmentID uuid.UUID) (*domain.Submission, error)
	GetByAssignmentWithFiles(ctx context.Context, assignmentID uuid.UUID) (*domain.Submission, error)
	GetFileByID(ctx context.Context, id uuid.UUID) (*domain.SubmissionFile, error)
	ListCompleted(ctx context.Context) ([]*domain.CompletedTask, error)
	DeleteFilesBySubmission(ctx context.Context, submissionID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// FileStore is the object storage collaborator. Delete failures are
// treated as best-effort by the cascade teardown, never by the store
// itself.
type FileStore interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader, size int64) error
	DownloadURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type Producer interface {
	Send(ctx context.Context, topic string, message interface{}) error
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}
