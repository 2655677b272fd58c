package domain

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "PENDING"
	InvitationStatusAccepted InvitationStatus = "ACCEPTED"
	InvitationStatusDeclined InvitationStatus = "DECLINED"
)

type AssignmentStatus string

const (
	AssignmentStatusUnspecified AssignmentStatus = "UNSPECIFIED"
	AssignmentStatusPending     AssignmentStatus = "PENDING"
	AssignmentStatusInProgress  AssignmentStatus = "IN_PROGRESS"
	AssignmentStatusCompleted   AssignmentStatus = "COMPLETED"
	AssignmentStatusReviewed    AssignmentStatus = "REVIEWED"
)

func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentStatusPending, AssignmentStatusInProgress,
		AssignmentStatusCompleted, AssignmentStatusReviewed:
		return true
	default:
		return false
	}
}

// ToAssignmentStatus parses a free-form status name. Unknown values map
// to Unspecified, which never passes IsValid.
func ToAssignmentStatus(status string) AssignmentStatus {
	switch status {
	case "PENDING":
		return AssignmentStatusPending
	case "IN_PROGRESS":
		return AssignmentStatusInProgress
	case "COMPLETED":
		return AssignmentStatusCompleted
	case "REVIEWED":
		return AssignmentStatusReviewed
	default:
		return AssignmentStatusUnspecified
	}
}

type TaskPriority int

const (
	TaskPriorityLow      TaskPriority = 1
	TaskPriorityMedium   TaskPriority = 2
	TaskPriorityHigh     TaskPriority = 3
	TaskPriorityCritical TaskPriority = 4
)

func (p TaskPriority) IsValid() bool {
	return p >= TaskPriorityLow && p <= TaskPriorityCritical
}
