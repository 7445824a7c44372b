package pool

import "errors"

var (
	ErrInvalidScore         = errors.New("score must be a whole number between 0 and 20")
	ErrMatchNotFound        = errors.New("match not found")
	ErrMatchNotLockable     = errors.New("match must be locked before a result is published")
	ErrMatchAlreadyFinished = errors.New("match already finished")
	ErrBettingClosed        = errors.New("betting is closed for this match")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrNoSession            = errors.New("no active session")
	ErrResetNotConfirmed    = errors.New("reset was not requested or the confirmation token does not match")
)
