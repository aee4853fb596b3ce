package course

import "errors"

var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseNotAvailable = errors.New("course is not available for enrollment")
	ErrTitleRequired      = errors.New("course title is required")
	ErrInvalidSlug        = errors.New("invalid course slug")
	ErrSlugTaken          = errors.New("course slug is already in use")
)
