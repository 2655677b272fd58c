package domain

import (
	"time"

	"github.com/google/uuid"
)

// Invitation is one participant's entry in an event's role graph.
// BenefactorUserID and BeneficiaryUserID are fixed at event creation
// and never change afterwards; every task the invitee creates is
// assigned to the beneficiary.
type Invitation struct {
	ID                uuid.UUID
	EventID           uuid.UUID
	UserID            uuid.UUID
	BenefactorUserID  uuid.UUID
	BeneficiaryUserID uuid.UUID
	InvitedAt         time.Time
	Status            InvitationStatus
	ResponseAt        *time.Time
}
