package activity

import "context"

// Sink accepts activity entries. Other domain services log through it.
type Sink interface {
	Log(ctx context.Context, entry *ActivityEntry) error
}

// Repository provides persistence operations for activity entries.
type Repository interface {
	Sink
	List(ctx context.Context, opts ListActivityOptions) ([]ActivityEntry, error)
}
