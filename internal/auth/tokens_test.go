package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIssueAndParse(t *testing.T) {
	manager := NewManager("secret", time.Hour)

	userID := uuid.New()
	token, err := manager.Issue(userID, "admin")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := manager.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Issue(uuid.New(), "player")
	assert.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Expired(t *testing.T) {
	manager := NewManager("secret", -time.Minute)

	token, err := manager.Issue(uuid.New(), "player")
	assert.NoError(t, err)

	_, err = manager.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Garbage(t *testing.T) {
	manager := NewManager("secret", time.Hour)

	_, err := manager.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
