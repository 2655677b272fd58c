package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	IsActive     bool
	IsAdmin      bool
}

func (u *User) Role() string {
	if u.IsAdmin {
		return UserRoleAdmin
	}
	return UserRolePlayer
}

const (
	UserRolePlayer = "player"
	UserRoleAdmin  = "admin"
)
