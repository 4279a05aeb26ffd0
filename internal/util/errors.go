package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrQuizNotReplayable  = errors.New("quiz already completed and not replayable")
	ErrResultNotFound     = errors.New("quiz result not found")
	ErrBadgeNotFound      = errors.New("badge not found")
	ErrBadgeAlreadyOwned  = errors.New("badge already earned by user")
	ErrInvalidGoogleToken = errors.New("invalid google token")
)
