package domain

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID                  uuid.UUID
	EventID             *uuid.UUID
	Title               string
	Description         string
	DueDate             *time.Time
	Priority            TaskPriority
	CreatedByUserID     uuid.UUID
	CreatedAt           time.Time
	MaxDailyAssignments int
}
