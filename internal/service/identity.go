package service

import (
	"context"

	"github.com/google/uuid"

	"taskgame_service/internal/domain"
	"taskgame_service/pkg/ctxdata"
)

func currentUserID(ctx context.Context) (uuid.UUID, error) {
	raw, ok := ctxdata.GetUserID(ctx)
	if !ok {
		return uuid.Nil, ErrPermissionDenied
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrPermissionDenied
	}
	return id, nil
}

func requireAdmin(ctx context.Context) error {
	role, ok := ctxdata.GetUserRole(ctx)
	if !ok || role != domain.UserRoleAdmin {
		return ErrPermissionDenied
	}
	return nil
}
