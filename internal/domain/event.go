package domain

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID              uuid.UUID
	Name            string
	Description     *string
	StartDate       time.Time
	EndDate         time.Time
	CreatedByUserID uuid.UUID
	CreatedAt       time.Time
	IsActive        bool
	MaxTasksPerUser int
}

// EventSummary is an Event with participation counters, used by the
// admin listing.
type EventSummary struct {
	Event
	InvitedCount  int
	AcceptedCount int
}
