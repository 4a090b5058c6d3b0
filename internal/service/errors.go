package service

import "errors"

// Recoverable error kinds surfaced to the request layer. State-machine
// rejections (attempt limit, already completed, question not in quiz) come
// from the attempt package; these cover the lookup and enrollment paths.
var (
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrAttemptNotFound    = errors.New("attempt not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this course")
	ErrNotEnrolled        = errors.New("not enrolled in this course")
	ErrLessonNotInCourse  = errors.New("lesson does not belong to this course")
)
