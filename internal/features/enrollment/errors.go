package enrollment

import "errors"

var (
	ErrAlreadyEnrolled = errors.New("user is already enrolled in this course")
	ErrNotEnrolled     = errors.New("user is not enrolled in this course")
)
