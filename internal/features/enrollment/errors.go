package enrollment

import "errors"

var (
	// ErrEnrollmentNotFound indicates no enrollment exists for the lookup.
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	// ErrAlreadyEnrolled indicates the student already has an active enrollment.
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	// ErrNotEnrolled indicates no active enrollment to act on.
	ErrNotEnrolled = errors.New("not enrolled in this course")
	// ErrCourseNotPublished indicates the course is not open for enrollment.
	ErrCourseNotPublished = errors.New("course is not published")
)
