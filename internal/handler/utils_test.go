package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"taskgame_service/internal/service"
)

func TestMapErr(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{service.ErrInvalidArgument, http.StatusBadRequest},
		{service.ErrNotEligible, http.StatusBadRequest},
		{service.ErrInvalidStatus, http.StatusBadRequest},
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrPermissionDenied, http.StatusForbidden},
		{service.ErrAlreadySubmitted, http.StatusConflict},
		{service.ErrAlreadyResponded, http.StatusConflict},
		{service.ErrAlreadyExists, http.StatusConflict},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, mapErr(tc.err), "error: %v", tc.err)
	}
}

func TestMapErr_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("title is required: %w", service.ErrInvalidArgument)
	assert.Equal(t, http.StatusBadRequest, mapErr(wrapped))
}

func TestParseUUIDField(t *testing.T) {
	_, err := parseUUIDField("not-a-uuid", "event_id")
	assert.True(t, errors.Is(err, service.ErrInvalidArgument))

	id, err := parseUUIDField("0190a3a4-9df0-7c60-b1a1-6f2c8e1a2b3c", "event_id")
	assert.NoError(t, err)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", id.String())
}
