package progress

import "errors"

var (
	// ErrProgressNotFound indicates no progress record exists.
	ErrProgressNotFound = errors.New("lesson progress not found")
	// ErrNegativeWatchTime indicates a negative watch time increment.
	ErrNegativeWatchTime = errors.New("watch time increment must not be negative")
)
