package stream

import "errors"

var (
	// ErrSessionNotFound indicates no stream session matches the lookup.
	ErrSessionNotFound = errors.New("stream session not found")
	// ErrActiveSessionExists indicates the user already streams this video.
	ErrActiveSessionExists = errors.New("an active session already exists for this video")
	// ErrSessionEnded indicates an update against a finished session.
	ErrSessionEnded = errors.New("stream session has ended")
	// ErrNotSessionOwner indicates the caller does not own the session.
	ErrNotSessionOwner = errors.New("not the session owner")
	// ErrNegativePosition indicates a negative playback position or delta.
	ErrNegativePosition = errors.New("position and watch time must not be negative")
	// ErrInvalidQuality indicates an unknown stream quality.
	ErrInvalidQuality = errors.New("invalid stream quality")
)
