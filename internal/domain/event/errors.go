package event

import "errors"

var (
	// ErrEventNotFound indicates the event doesn't exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrVenueNotFound indicates the venue doesn't exist.
	ErrVenueNotFound = errors.New("venue not found")
	// ErrWorkNotFound indicates the work doesn't exist.
	ErrWorkNotFound = errors.New("work not found")
	// ErrInvalidKind indicates an unknown event or work kind slug.
	ErrInvalidKind = errors.New("invalid kind")
	// ErrNoEventsForYear indicates a year before the earliest event.
	ErrNoEventsForYear = errors.New("no events available")
	// ErrInvalidInput indicates invalid input for event operations.
	ErrInvalidInput = errors.New("invalid event input")
)
