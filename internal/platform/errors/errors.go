package apperrors

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrPersistence      = errors.New("persistence failed")
	ErrAudioUnavailable = errors.New("audio not available")
)
