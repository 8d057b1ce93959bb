package bookmark

import "errors"

var (
	// ErrBookmarkNotFound indicates the bookmark does not exist.
	ErrBookmarkNotFound = errors.New("bookmark not found")
	// ErrAlreadyBookmarked indicates the user already bookmarked the video.
	ErrAlreadyBookmarked = errors.New("video is already bookmarked")
	// ErrNotBookmarkOwner indicates the bookmark belongs to another user.
	ErrNotBookmarkOwner = errors.New("bookmark belongs to another user")
	// ErrNegativeTimestamp indicates a bookmark position before the video start.
	ErrNegativeTimestamp = errors.New("bookmark timestamp cannot be negative")
)
