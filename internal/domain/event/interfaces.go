package event

import (
	"context"

	"github.com/rpggio/spectator/internal/domain/activity"
	"github.com/rpggio/spectator/internal/domain/creator"
)

// VenueRepository provides persistence for venues, listed by NameSort. A
// limit <= 0 returns every venue.
type VenueRepository interface {
	Create(ctx context.Context, v *Venue) error
	Get(ctx context.Context, id string) (*Venue, error)
	Update(ctx context.Context, v *Venue) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, offset, limit int) ([]Venue, error)
	UpdateSortKey(ctx context.Context, id, key string) error
}

// WorkRepository provides persistence for works, listed by TitleSort.
type WorkRepository interface {
	Create(ctx context.Context, w *Work) error
	Get(ctx context.Context, id string) (*Work, error)
	Update(ctx context.Context, w *Work) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, opts ListWorksOptions) (int, error)
	List(ctx context.Context, opts ListWorksOptions, offset, limit int) ([]Work, error)
	ForEvent(ctx context.Context, eventID string) ([]Work, error)
	UpdateSortKey(ctx context.Context, id, key string) error
}

// EventRepository provides persistence for events. Create and Update also
// store the event's work links. List orders by date, newest first.
type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	Get(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, opts ListEventsOptions) (int, error)
	List(ctx context.Context, opts ListEventsOptions, offset, limit int) ([]Event, error)
	CountByKind(ctx context.Context) (map[Kind]int, error)
	InYear(ctx context.Context, year int) ([]Event, error)
	MinYear(ctx context.Context) (year int, ok bool, err error)
	UpdateSortKey(ctx context.Context, id, key string) error
}

// CreditRepository lists the credits on events and works.
type CreditRepository interface {
	ForSubject(ctx context.Context, subjectType creator.SubjectType, subjectID string) ([]creator.Credit, error)
}

// ActivityRepository logs event activity.
type ActivityRepository = activity.Sink
