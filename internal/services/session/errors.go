package session

import "errors"

// Define errors
var (
	// ErrSessionNotFound is returned for unknown session IDs, typically a
	// stale button press after the session expired
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidTimeExpression is returned when the time text is not a
	// recognized form
	ErrInvalidTimeExpression = errors.New("unrecognized time expression")

	// ErrHorizonExceeded is returned when the parsed time is more than 24
	// hours ahead
	ErrHorizonExceeded = errors.New("session cannot be scheduled more than 24 hours ahead")

	// ErrNotHost is returned when someone other than the current host tries
	// to end a session
	ErrNotHost = errors.New("only the host can end the session")
)
