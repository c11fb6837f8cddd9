package creator

import "errors"

var (
	// ErrCreatorNotFound indicates the creator doesn't exist.
	ErrCreatorNotFound = errors.New("creator not found")
	// ErrCreditNotFound indicates the credit doesn't exist.
	ErrCreditNotFound = errors.New("credit not found")
	// ErrSubjectNotFound indicates the credited subject doesn't exist.
	ErrSubjectNotFound = errors.New("credited subject not found")
	// ErrInvalidInput indicates invalid input for creator operations.
	ErrInvalidInput = errors.New("invalid creator input")
)
