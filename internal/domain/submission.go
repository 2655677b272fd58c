package domain

import (
	"time"

	"github.com/google/uuid"
)

type Submission struct {
	ID                uuid.UUID
	AssignmentID      uuid.UUID
	SubmittedByUserID uuid.UUID
	Notes             *string
	SubmittedAt       time.Time
	Files             []*SubmissionFile
}

type SubmissionFile struct {
	ID           uuid.UUID
	SubmissionID uuid.UUID
	FileName     string
	StorageKey   string
	ContentType  *string
	FileSize     int64
	UploadedAt   time.Time
}

// CompletedTask is the anonymous public view of a finished task,
// flattened across submission, task and event.
type CompletedTask struct {
	SubmissionID        uuid.UUID
	TaskTitle           string
	TaskDescription     string
	SubmittedAt         time.Time
	Notes               *string
	EventName           *string
	EventEndDate        *time.Time
	SubmittedByUsername string
	CreatedByUsername   string
	Files               []*SubmissionFile
}
