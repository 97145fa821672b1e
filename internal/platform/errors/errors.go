package apperrors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUnknownMount = errors.New("unknown mount")
	ErrEmptyIssue   = errors.New("issue has no sections")
)
