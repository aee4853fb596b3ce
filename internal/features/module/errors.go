package module

import "errors"

var (
	ErrModuleNotFound = errors.New("module not found")
	ErrTitleRequired  = errors.New("module title is required")
	ErrCourseRequired = errors.New("module must belong to a course")
)
