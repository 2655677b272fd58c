package service

import "errors"

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("not found")
	ErrNotEligible      = errors.New("no eligible assignee")
	ErrAlreadySubmitted = errors.New("task already submitted")
	ErrAlreadyResponded = errors.New("invitation has already been responded to")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrPermissionDenied = errors.New("permission denied")
	ErrAlreadyExists    = errors.New("already exists")
)
