package rating

import "errors"

var (
	// ErrRatingNotFound indicates the student has not rated the course.
	ErrRatingNotFound = errors.New("rating not found")
	// ErrRatingRange indicates a rating value outside 1..5.
	ErrRatingRange = errors.New("rating must be between 1 and 5")
	// ErrRatingConflict indicates a concurrent write to the same rating row.
	ErrRatingConflict = errors.New("rating was modified concurrently")
)
