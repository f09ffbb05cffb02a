package domain

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrUpstreamUnavailable = errors.New("upstream rate source unavailable")
	ErrPersistence         = errors.New("persistence failure")
	ErrArithmetic          = errors.New("arithmetic error")
)
