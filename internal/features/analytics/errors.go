package analytics

import "errors"

var (
	// ErrInvalidRange indicates from is after to in a range query.
	ErrInvalidRange = errors.New("invalid date range")
)
