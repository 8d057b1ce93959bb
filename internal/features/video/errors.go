package video

import "errors"

var (
	// ErrVideoNotFound indicates the video does not exist.
	ErrVideoNotFound = errors.New("video not found")
	// ErrLessonHasVideo indicates the lesson already has a video attached.
	ErrLessonHasVideo = errors.New("lesson already has a video")
	// ErrInvalidStatus indicates an unknown processing status.
	ErrInvalidStatus = errors.New("invalid processing status")
)
