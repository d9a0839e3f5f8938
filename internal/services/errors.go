package services

import "errors"

// Expected outcomes the handlers translate into specific HTTP responses.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrTherapyNotFound     = errors.New("therapy not found")
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrChallengeNotFound   = errors.New("challenge not found")
	ErrActivityNotFound    = errors.New("activity not found")
	ErrNameTaken           = errors.New("an entry with this name already exists")
	ErrNotActive           = errors.New("this entry is not active")
	ErrInvalidInput        = errors.New("invalid input")
	ErrConcurrentUpdate    = errors.New("progression was updated concurrently, please retry")
)
