package course

import "errors"

var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrTitleRequired     = errors.New("course title is required")
	ErrCategoryNameTaken = errors.New("category name already exists")
	ErrInvalidLevel      = errors.New("invalid course level")
	ErrInvalidPrice      = errors.New("course price cannot be negative")
	ErrNotOwner          = errors.New("course belongs to another instructor")
	ErrActiveEnrollments = errors.New("course still has active enrollments")
	ErrAlreadyPublished  = errors.New("course is already published")
)
