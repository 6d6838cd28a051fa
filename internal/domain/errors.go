package domain

import "errors"

var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrTabNotFound        = errors.New("tab not found")
	ErrInvalidKind        = errors.New("unsupported assessment kind")
	ErrInvalidTab         = errors.New("invalid tab")
)
