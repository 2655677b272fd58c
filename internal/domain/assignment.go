package domain

import (
	"time"

	"github.com/google/uuid"
)

type Assignment struct {
	ID               uuid.UUID
	TaskID           uuid.UUID
	AssignedToUserID uuid.UUID
	AssignedAt       time.Time
	Status           AssignmentStatus
	CompletedAt      *time.Time
}

// AssignmentDetail joins an assignment with its task and event for the
// assignee's listing.
type AssignmentDetail struct {
	Assignment
	TaskTitle       string
	TaskDescription string
	DueDate         *time.Time
	Priority        TaskPriority
	EventID         *uuid.UUID
	EventName       string
}
