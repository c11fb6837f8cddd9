package search

import "errors"

// ErrInvalidQuery indicates a blank search query.
var ErrInvalidQuery = errors.New("invalid search query")
