package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskgame_service/internal/domain"
	"taskgame_service/internal/repository"
)

// RoleGraphService builds and serves the per-event role graph: every
// invited participant gets a randomly drawn benefactor and beneficiary
// among the other participants. The draws are independent per invitee,
// so the graph is not a matching: a participant can end up targeted
// twice or not at all. That is the intended game behavior.
type RoleGraphService struct {
	invitationRepo InvitationRepository

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRoleGraphService(invitationRepo InvitationRepository, rng *rand.Rand) *RoleGraphService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RoleGraphService{
		invitationRepo: invitationRepo,
		rng:            rng,
	}
}

// BuildGraph creates one pending invitation per invited user. Each
// persisted invitation commits independently; there is no surrounding
// transaction.
func (s *RoleGraphService) BuildGraph(ctx context.Context, eventID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) < 2 {
		return fmt.Errorf("at least 2 users are required: %w", ErrInvalidArgument)
	}

	for _, invitedUserID := range userIDs {
		others := make([]uuid.UUID, 0, len(userIDs)-1)
		for _, id := range userIDs {
			if id != invitedUserID {
				others = append(others, id)
			}
		}
		if len(others) == 0 {
			continue
		}

		benefactorID := s.pick(others)

		// Prefer a beneficiary different from the benefactor; with only
		// two participants they may coincide.
		childCandidates := make([]uuid.UUID, 0, len(others)-1)
		for _, id := range others {
			if id != benefactorID {
				childCandidates = append(childCandidates, id)
			}
		}
		var beneficiaryID uuid.UUID
		if len(childCandidates) > 0 {
			beneficiaryID = s.pick(childCandidates)
		} else {
			beneficiaryID = s.pick(others)
		}

		invitation := &domain.Invitation{
			EventID:           eventID,
			UserID:            invitedUserID,
			BenefactorUserID:  benefactorID,
			BeneficiaryUserID: beneficiaryID,
			Status:            domain.InvitationStatusPending,
		}

		if err := s.invitationRepo.Create(ctx, invitation); err != nil {
			return fmt.Errorf("failed to create invitation for user %s: %w", invitedUserID, err)
		}
	}

	return nil
}

func (s *RoleGraphService) ListMine(ctx context.Context, pendingOnly bool) ([]*domain.Invitation, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	if pendingOnly {
		return s.invitationRepo.ListPendingByUser(ctx, userID)
	}
	return s.invitationRepo.ListByUser(ctx, userID)
}

func (s *RoleGraphService) Get(ctx context.Context, invitationID uuid.UUID) (*domain.Invitation, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	invitation, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if invitation.UserID != userID {
		return nil, ErrPermissionDenied
	}

	return invitation, nil
}

// Respond accepts or declines a pending invitation. The transition
// happens at most once.
func (s *RoleGraphService) Respond(ctx context.Context, invitationID uuid.UUID, accept bool) (*domain.Invitation, error) {
	invitation, err := s.Get(ctx, invitationID)
	if err != nil {
		return nil, err
	}

	if invitation.Status != domain.InvitationStatusPending {
		return nil, ErrAlreadyResponded
	}

	newStatus := domain.InvitationStatusDeclined
	if accept {
		newStatus = domain.InvitationStatusAccepted
	}

	now := time.Now()
	if err := s.invitationRepo.UpdateStatus(ctx, invitationID, newStatus, now); err != nil {
		return nil, err
	}

	invitation.Status = newStatus
	invitation.ResponseAt = &now
	return invitation, nil
}

func (s *RoleGraphService) pick(ids []uuid.UUID) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ids[s.rng.Intn(len(ids))]
}
