package progress

import "errors"

var (
	ErrInvalidStatus     = errors.New("invalid progress status")
	ErrModuleNotInCourse = errors.New("module does not belong to this course")
)
