package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/spectator/internal/domain/activity"
	"github.com/rpggio/spectator/internal/domain/creator"
	"github.com/rpggio/spectator/internal/naturalsort"
	"github.com/rpggio/spectator/internal/paginate"
	"github.com/rpggio/spectator/internal/repository"
	"github.com/rpggio/spectator/internal/validation"
)

// Repositories bundles the stores the event service depends on.
type Repositories struct {
	Venues     VenueRepository
	Works      WorkRepository
	Events     EventRepository
	Credits    CreditRepository
	Activities ActivityRepository
}

// Options configures the event service.
type Options struct {
	Policy paginate.Policy
	// MapsAPIKey is shown on venue pages that have coordinates.
	MapsAPIKey string
	// Now is the clock used for year archives. Defaults to time.Now.
	Now func() time.Time
}

// Service handles venue, work and event operations.
type Service struct {
	venues     VenueRepository
	works      WorkRepository
	events     EventRepository
	credits    CreditRepository
	activities ActivityRepository
	opts       Options
	logger     *slog.Logger
}

// NewService creates a new event service.
func NewService(repos Repositories, opts Options, logger *slog.Logger) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		venues:     repos.Venues,
		works:      repos.Works,
		events:     repos.Events,
		credits:    repos.Credits,
		activities: repos.Activities,
		opts:       opts,
		logger:     logger,
	}
}

// VenueRequest defines venue inputs.
type VenueRequest struct {
	Name      string   `json:"name" validate:"notblank,max=255"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// WorkRequest defines work inputs.
type WorkRequest struct {
	Kind  WorkKind `json:"kind" validate:"oneof=movie play classicalwork dancepiece"`
	Title string   `json:"title" validate:"notblank,max=255"`
	Year  int      `json:"year,omitempty" validate:"gte=0,lte=9999"`
}

// EventRequest defines event inputs. A blank title is taken from the first
// work.
type EventRequest struct {
	Kind    Kind     `json:"kind" validate:"oneof=comedy concert dance exhibition gig misc movie play"`
	Title   string   `json:"title,omitempty" validate:"max=255"`
	Date    string   `json:"date" validate:"required,datetime=2006-01-02"`
	VenueID string   `json:"venue_id,omitempty"`
	WorkIDs []string `json:"work_ids,omitempty"`
}

// VenueDetail is a venue with one page of its events, newest first.
// MapsAPIKey is set only when a key is configured and the venue has
// coordinates.
type VenueDetail struct {
	Venue      *Venue                  `json:"venue"`
	Events     *paginate.Result[Event] `json:"events"`
	MapsAPIKey string                  `json:"maps_api_key,omitempty"`
}

// CreateVenue creates a venue.
func (s *Service) CreateVenue(ctx context.Context, req VenueRequest) (*Venue, error) {
	if err := validation.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	now := time.Now()
	v := &Venue{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		Latitude:   roundCoord(req.Latitude),
		Longitude:  roundCoord(req.Longitude),
		CreatedAt:  now,
		ModifiedAt: now,
	}
	v.NameSort = naturalsort.Key(v)

	if err := s.venues.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("creating venue: %w", err)
	}
	s.record(ctx, "venue", v.ID, activity.TypeCreated, "created venue "+v.Name)
	return v, nil
}

// UpdateVenue replaces a venue's fields.
func (s *Service) UpdateVenue(ctx context.Context, id string, req VenueRequest) (*Venue, error) {
	if err := validation.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	v, err := s.GetVenue(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Name = strings.TrimSpace(req.Name)
	v.Latitude = roundCoord(req.Latitude)
	v.Longitude = roundCoord(req.Longitude)
	v.NameSort = naturalsort.Key(v)
	v.ModifiedAt = time.Now()

	if err := s.venues.Update(ctx, v); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("updating venue: %w", err)
	}
	s.record(ctx, "venue", v.ID, activity.TypeUpdated, "updated venue "+v.Name)
	return v, nil
}

// roundCoord keeps six decimal places.
func roundCoord(c *float64) *float64 {
	if c == nil {
		return nil
	}
	r := math.Round(*c*1e6) / 1e6
	return &r
}

// GetVenue fetches a venue by ID.
func (s *Service) GetVenue(ctx context.Context, id string) (*Venue, error) {
	v, err := s.venues.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("getting venue: %w", err)
	}
	return v, nil
}

// GetVenueDetail fetches a venue with one page of its events.
func (s *Service) GetVenueDetail(ctx context.Context, id string, req paginate.Request) (*VenueDetail, error) {
	v, err := s.GetVenue(ctx, id)
	if err != nil {
		return nil, err
	}
	events, err := s.ListEvents(ctx, ListEventsOptions{VenueID: id}, req)
	if err != nil {
		return nil, err
	}
	detail := &VenueDetail{Venue: v, Events: events}
	if s.opts.MapsAPIKey != "" && v.HasLocation() {
		detail.MapsAPIKey = s.opts.MapsAPIKey
	}
	return detail, nil
}

// DeleteVenue removes a venue; its events are kept without a venue.
func (s *Service) DeleteVenue(ctx context.Context, id string) error {
	if err := s.venues.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrVenueNotFound
		}
		return fmt.Errorf("deleting venue: %w", err)
	}
	s.record(ctx, "venue", id, activity.TypeDeleted, "deleted venue "+id)
	return nil
}

// ListVenues returns one page of venues ordered by sort key.
func (s *Service) ListVenues(ctx context.Context, req paginate.Request) (*paginate.Result[Venue], error) {
	count, err := s.venues.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting venues: %w", err)
	}
	return paginate.Fetch(s.opts.Policy, req, count, func(offset, limit int) ([]Venue, error) {
		return s.venues.List(ctx, offset, limit)
	})
}

// CreateWork creates a work.
func (s *Service) CreateWork(ctx context.Context, req WorkRequest) (*Work, error) {
	if err := validation.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	now := time.Now()
	w := &Work{
		ID:         uuid.NewString(),
		Kind:       req.Kind,
		Title:      strings.TrimSpace(req.Title),
		Year:       req.Year,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	w.TitleSort = naturalsort.Key(w)

	if err := s.works.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("creating work: %w", err)
	}
	s.record(ctx, "work", w.ID, activity.TypeCreated, "created "+string(w.Kind)+" "+w.Title)
	return w, nil
}

// UpdateWork replaces a work's fields.
func (s *Service) UpdateWork(ctx context.Context, id string, req WorkRequest) (*Work, error) {
	if err := validation.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	w, err := s.GetWork(ctx, id)
	if err != nil {
		return nil, err
	}
	w.Kind = req.Kind
	w.Title = strings.TrimSpace(req.Title)
	w.Year = req.Year
	w.TitleSort = naturalsort.Key(w)
	w.ModifiedAt = time.Now()

	if err := s.works.Update(ctx, w); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkNotFound
		}
		return nil, fmt.Errorf("updating work: %w", err)
	}
	s.record(ctx, "work", w.ID, activity.TypeUpdated, "updated "+string(w.Kind)+" "+w.Title)
	return w, nil
}

// GetWork fetches a work by ID.
func (s *Service) GetWork(ctx context.Context, id string) (*Work, error) {
	w, err := s.works.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkNotFound
		}
		return nil, fmt.Errorf("getting work: %w", err)
	}
	return w, nil
}

// GetWorkDetail fetches a work with its credits and events.
func (s *Service) GetWorkDetail(ctx context.Context, id string) (*WorkDetail, error) {
	w, err := s.GetWork(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &WorkDetail{Work: w}
	if detail.Credits, err = s.credits.ForSubject(ctx, creator.SubjectWork, id); err != nil {
		return nil, fmt.Errorf("listing credits: %w", err)
	}
	if detail.Events, err = s.events.List(ctx, ListEventsOptions{WorkID: id}, 0, 0); err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	if detail.Credits == nil {
		detail.Credits = []creator.Credit{}
	}
	if detail.Events == nil {
		detail.Events = []Event{}
	}
	return detail, nil
}

// DeleteWork removes a work and its event links.
func (s *Service) DeleteWork(ctx context.Context, id string) error {
	if err := s.works.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkNotFound
		}
		return fmt.Errorf("deleting work: %w", err)
	}
	s.record(ctx, "work", id, activity.TypeDeleted, "deleted work "+id)
	return nil
}

// ListWorks returns one page of works ordered by sort key.
func (s *Service) ListWorks(ctx context.Context, opts ListWorksOptions, req paginate.Request) (*paginate.Result[Work], error) {
	count, err := s.works.Count(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("counting works: %w", err)
	}
	return paginate.Fetch(s.opts.Policy, req, count, func(offset, limit int) ([]Work, error) {
		return s.works.List(ctx, opts, offset, limit)
	})
}

// CreateEvent creates an event.
func (s *Service) CreateEvent(ctx context.Context, req EventRequest) (*Event, error) {
	if err := validation.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	now := time.Now()
	e := &Event{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if err := s.applyEvent(ctx, e, req); err != nil {
		return nil, err
	}

	if err := s.events.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}
	s.record(ctx, "event", e.ID, activity.TypeCreated, "created "+string(e.Kind)+" "+e.Title)
	return e, nil
}

// UpdateEvent replaces an event's fields and work links.
func (s *Service) UpdateEvent(ctx context.Context, id string, req EventRequest) (*Event, error) {
	if err := validation.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	e, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyEvent(ctx, e, req); err != nil {
		return nil, err
	}
	e.ModifiedAt = time.Now()

	if err := s.events.Update(ctx, e); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("updating event: %w", err)
	}
	s.record(ctx, "event", e.ID, activity.TypeUpdated, "updated "+string(e.Kind)+" "+e.Title)
	return e, nil
}

func (s *Service) applyEvent(ctx context.Context, e *Event, req EventRequest) error {
	date, err := time.Parse(DateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return fmt.Errorf("%w: %q is not a date", ErrInvalidInput, req.Date)
	}

	venueID := strings.TrimSpace(req.VenueID)
	venueName := ""
	if venueID != "" {
		v, err := s.GetVenue(ctx, venueID)
		if err != nil {
			return err
		}
		venueName = v.Name
	}

	title := strings.TrimSpace(req.Title)
	workIDs := make([]string, 0, len(req.WorkIDs))
	for _, id := range req.WorkIDs {
		w, err := s.GetWork(ctx, id)
		if err != nil {
			return err
		}
		if title == "" {
			title = w.Title
		}
		workIDs = append(workIDs, w.ID)
	}
	if title == "" {
		return fmt.Errorf("%w: an event needs a title or a work", ErrInvalidInput)
	}

	e.Kind = req.Kind
	e.Title = title
	e.Date = date
	e.VenueID = venueID
	e.VenueName = venueName
	e.WorkIDs = workIDs
	e.TitleSort = naturalsort.Key(e)
	return nil
}

// GetEvent fetches an event by ID.
func (s *Service) GetEvent(ctx context.Context, id string) (*Event, error) {
	e, err := s.events.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("getting event: %w", err)
	}
	return e, nil
}

// GetEventDetail fetches an event with its venue, works and credits.
func (s *Service) GetEventDetail(ctx context.Context, id string) (*EventDetail, error) {
	e, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &EventDetail{Event: e}
	if e.VenueID != "" {
		v, err := s.GetVenue(ctx, e.VenueID)
		if err != nil && !errors.Is(err, ErrVenueNotFound) {
			return nil, err
		}
		detail.Venue = v
	}
	if detail.Works, err = s.works.ForEvent(ctx, id); err != nil {
		return nil, fmt.Errorf("listing works: %w", err)
	}
	if detail.Credits, err = s.credits.ForSubject(ctx, creator.SubjectEvent, id); err != nil {
		return nil, fmt.Errorf("listing credits: %w", err)
	}
	if detail.Works == nil {
		detail.Works = []Work{}
	}
	if detail.Credits == nil {
		detail.Credits = []creator.Credit{}
	}
	return detail, nil
}

// DeleteEvent removes an event, its work links and credits.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("deleting event: %w", err)
	}
	s.record(ctx, "event", id, activity.TypeDeleted, "deleted event "+id)
	return nil
}

// ListEvents returns one page of events, newest first.
func (s *Service) ListEvents(ctx context.Context, opts ListEventsOptions, req paginate.Request) (*paginate.Result[Event], error) {
	count, err := s.events.Count(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("counting events: %w", err)
	}
	return paginate.Fetch(s.opts.Policy, req, count, func(offset, limit int) ([]Event, error) {
		return s.events.List(ctx, opts, offset, limit)
	})
}

// ListEventsBySlug lists one kind of event by its URL slug. An empty slug
// lists every kind.
func (s *Service) ListEventsBySlug(ctx context.Context, slug string, req paginate.Request) (*paginate.Result[Event], error) {
	var opts ListEventsOptions
	if slug != "" {
		kind, ok := KindFromSlug(slug)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKind, slug)
		}
		opts.Kind = &kind
	}
	return s.ListEvents(ctx, opts, req)
}

// KindCounts returns the number of events of every kind, in Kinds order.
func (s *Service) KindCounts(ctx context.Context) ([]KindCount, error) {
	byKind, err := s.events.CountByKind(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting events by kind: %w", err)
	}
	counts := make([]KindCount, 0, len(Kinds))
	for _, k := range Kinds {
		counts = append(counts, KindCount{Kind: k, Slug: k.Slug(), Count: byKind[k]})
	}
	return counts, nil
}

// YearArchive lists the events of year by date. Years before the earliest
// event are ErrNoEventsForYear and the earliest year has no previous year.
// There is no next year past the current one.
func (s *Service) YearArchive(ctx context.Context, year int) (*YearArchive, error) {
	minYear, ok, err := s.events.MinYear(ctx)
	if err != nil {
		return nil, fmt.Errorf("finding earliest event: %w", err)
	}
	if !ok || year < minYear {
		return nil, fmt.Errorf("%w: %d", ErrNoEventsForYear, year)
	}

	events, err := s.events.InYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("listing events for %d: %w", year, err)
	}
	if events == nil {
		events = []Event{}
	}
	archive := &YearArchive{Year: year, Events: events}
	if year > minYear {
		prev := year - 1
		archive.PreviousYear = &prev
	}
	if next := year + 1; next <= s.opts.Now().Year() {
		archive.NextYear = &next
	}
	return archive, nil
}

// Resort recomputes venue, work and event sort keys and returns how many
// changed.
func (s *Service) Resort(ctx context.Context) (int, error) {
	changed := 0

	venues, err := s.venues.List(ctx, 0, 0)
	if err != nil {
		return 0, fmt.Errorf("listing venues: %w", err)
	}
	for i := range venues {
		v := &venues[i]
		if key := naturalsort.Truncate(naturalsort.Key(v)); key != v.NameSort {
			if err := s.venues.UpdateSortKey(ctx, v.ID, key); err != nil {
				return changed, fmt.Errorf("updating sort key for venue %s: %w", v.ID, err)
			}
			changed++
		}
	}

	works, err := s.works.List(ctx, ListWorksOptions{}, 0, 0)
	if err != nil {
		return changed, fmt.Errorf("listing works: %w", err)
	}
	for i := range works {
		w := &works[i]
		if key := naturalsort.Truncate(naturalsort.Key(w)); key != w.TitleSort {
			if err := s.works.UpdateSortKey(ctx, w.ID, key); err != nil {
				return changed, fmt.Errorf("updating sort key for work %s: %w", w.ID, err)
			}
			changed++
		}
	}

	events, err := s.events.List(ctx, ListEventsOptions{}, 0, 0)
	if err != nil {
		return changed, fmt.Errorf("listing events: %w", err)
	}
	for i := range events {
		e := &events[i]
		if key := naturalsort.Truncate(naturalsort.Key(e)); key != e.TitleSort {
			if err := s.events.UpdateSortKey(ctx, e.ID, key); err != nil {
				return changed, fmt.Errorf("updating sort key for event %s: %w", e.ID, err)
			}
			changed++
		}
	}

	if changed > 0 {
		s.record(ctx, "event", "", activity.TypeResorted, fmt.Sprintf("resorted %d venues, works and events", changed))
	}
	return changed, nil
}

func (s *Service) record(ctx context.Context, subjectType, id string, typ activity.ActivityType, summary string) {
	activity.Record(ctx, s.activities, s.logger, &activity.ActivityEntry{
		SubjectType:  subjectType,
		SubjectID:    id,
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    time.Now(),
	})
}
