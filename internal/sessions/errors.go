package sessions

import "errors"

var (
	// ErrSessionNotFound covers both a missing session and an admin password
	// mismatch; callers cannot tell the two apart, so password guessing does
	// not reveal whether a session exists.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionClosed is returned when a question is added to a session that
	// is not accepting questions.
	ErrSessionClosed = errors.New("session is not accepting questions")

	// ErrSessionExists is returned when creating a session with an id that is
	// already taken.
	ErrSessionExists = errors.New("session already exists")
)
