package transport

import (
	"context"

	"github.com/rpggio/spectator/internal/domain/activity"
	"github.com/rpggio/spectator/internal/domain/creator"
	"github.com/rpggio/spectator/internal/domain/event"
	"github.com/rpggio/spectator/internal/domain/reading"
	"github.com/rpggio/spectator/internal/domain/search"
	"github.com/rpggio/spectator/internal/paginate"
)

// CreatorService defines creator operations needed by the web server.
type CreatorService interface {
	Create(ctx context.Context, req creator.CreateRequest) (*creator.Creator, error)
	GetDetail(ctx context.Context, id string) (*creator.Detail, error)
	Update(ctx context.Context, id string, req creator.UpdateRequest) (*creator.Creator, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts creator.ListOptions, req paginate.Request) (*paginate.Result[creator.Creator], error)
	AddCredit(ctx context.Context, req creator.CreditRequest) (*creator.Credit, error)
	RemoveCredit(ctx context.Context, id string) error
}

// ReadingService defines series, publication and reading operations.
type ReadingService interface {
	CreateSeries(ctx context.Context, req reading.SeriesRequest) (*reading.Series, error)
	UpdateSeries(ctx context.Context, id string, req reading.SeriesRequest) (*reading.Series, error)
	DeleteSeries(ctx context.Context, id string) error
	ListSeries(ctx context.Context, req paginate.Request) (*paginate.Result[reading.Series], error)
	ListSeriesPublications(ctx context.Context, seriesID string, req paginate.Request) (*reading.Series, *paginate.Result[reading.Publication], error)
	CreatePublication(ctx context.Context, req reading.PublicationRequest) (*reading.Publication, error)
	UpdatePublication(ctx context.Context, id string, req reading.PublicationRequest) (*reading.Publication, error)
	GetPublicationDetail(ctx context.Context, id string) (*reading.PublicationDetail, error)
	DeletePublication(ctx context.Context, id string) error
	ListPublications(ctx context.Context, opts reading.ListPublicationsOptions, req paginate.Request) (*paginate.Result[reading.Publication], error)
	Overview(ctx context.Context) (*reading.Overview, error)
	InProgress(ctx context.Context) ([]reading.Publication, error)
	LogReading(ctx context.Context, req reading.ReadingRequest) (*reading.Reading, error)
	UpdateReading(ctx context.Context, id string, req reading.ReadingRequest) (*reading.Reading, error)
	DeleteReading(ctx context.Context, id string) error
	YearArchive(ctx context.Context, year int) (*reading.YearArchive, error)
}

// EventService defines venue, work and event operations.
type EventService interface {
	CreateVenue(ctx context.Context, req event.VenueRequest) (*event.Venue, error)
	UpdateVenue(ctx context.Context, id string, req event.VenueRequest) (*event.Venue, error)
	GetVenueDetail(ctx context.Context, id string, req paginate.Request) (*event.VenueDetail, error)
	DeleteVenue(ctx context.Context, id string) error
	ListVenues(ctx context.Context, req paginate.Request) (*paginate.Result[event.Venue], error)
	CreateWork(ctx context.Context, req event.WorkRequest) (*event.Work, error)
	UpdateWork(ctx context.Context, id string, req event.WorkRequest) (*event.Work, error)
	GetWorkDetail(ctx context.Context, id string) (*event.WorkDetail, error)
	DeleteWork(ctx context.Context, id string) error
	ListWorks(ctx context.Context, opts event.ListWorksOptions, req paginate.Request) (*paginate.Result[event.Work], error)
	CreateEvent(ctx context.Context, req event.EventRequest) (*event.Event, error)
	UpdateEvent(ctx context.Context, id string, req event.EventRequest) (*event.Event, error)
	GetEventDetail(ctx context.Context, id string) (*event.EventDetail, error)
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context, opts event.ListEventsOptions, req paginate.Request) (*paginate.Result[event.Event], error)
	ListEventsBySlug(ctx context.Context, slug string, req paginate.Request) (*paginate.Result[event.Event], error)
	KindCounts(ctx context.Context) ([]event.KindCount, error)
	YearArchive(ctx context.Context, year int) (*event.YearArchive, error)
}

// SearchService defines catalogue search.
type SearchService interface {
	Search(ctx context.Context, query string, opts search.Options, req paginate.Request) (*paginate.Result[search.Result], error)
}

// ActivityService defines activity operations.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by the web server.
type Services struct {
	Creators CreatorService
	Reading  ReadingService
	Events   EventService
	Search   SearchService
	Activity ActivityService
}
