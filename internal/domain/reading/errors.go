package reading

import "errors"

var (
	// ErrSeriesNotFound indicates the series doesn't exist.
	ErrSeriesNotFound = errors.New("series not found")
	// ErrPublicationNotFound indicates the publication doesn't exist.
	ErrPublicationNotFound = errors.New("publication not found")
	// ErrReadingNotFound indicates the reading doesn't exist.
	ErrReadingNotFound = errors.New("reading not found")
	// ErrInvalidInput indicates invalid input for reading operations.
	ErrInvalidInput = errors.New("invalid reading input")
)
