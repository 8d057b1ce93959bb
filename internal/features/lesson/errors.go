package lesson

import "errors"

var (
	// ErrLessonNotFound indicates the lesson does not exist.
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrTitleRequired indicates a missing lesson title.
	ErrTitleRequired = errors.New("lesson title is required")
	// ErrOrderTaken indicates the requested order is already used in the course.
	ErrOrderTaken = errors.New("lesson order already exists for this course")
	// ErrInvalidOrder indicates a non-positive explicit order.
	ErrInvalidOrder = errors.New("lesson order must be positive")
)
