package event_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/spectator/internal/domain/creator"
	"github.com/rpggio/spectator/internal/domain/event"
	"github.com/rpggio/spectator/internal/paginate"
	"github.com/rpggio/spectator/internal/repository"
	"github.com/rpggio/spectator/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	venues  *mocks.VenueRepository
	works   *mocks.WorkRepository
	events  *mocks.EventRepository
	credits *mocks.CreditRepository
	svc     *event.Service
}

func newFixture(opts event.Options) *fixture {
	f := &fixture{
		venues:  &mocks.VenueRepository{},
		works:   &mocks.WorkRepository{},
		events:  &mocks.EventRepository{},
		credits: &mocks.CreditRepository{},
	}
	if opts.Policy.PerPage == 0 {
		opts.Policy = paginate.DefaultPolicy()
	}
	f.svc = event.NewService(event.Repositories{
		Venues:  f.venues,
		Works:   f.works,
		Events:  f.events,
		Credits: f.credits,
	}, opts, nil)
	return f
}

func ptr[T any](v T) *T { return &v }

func TestKindSlugs(t *testing.T) {
	for _, k := range event.Kinds {
		got, ok := event.KindFromSlug(k.Slug())
		require.True(t, ok, k)
		require.Equal(t, k, got)
	}
	require.Equal(t, "others", event.KindMisc.Slug())
	require.Equal(t, "concerts", event.KindConcert.Slug())

	_, ok := event.KindFromSlug("misc")
	require.False(t, ok)

	wk, ok := event.WorkKindFromSlug("classicalworks")
	require.True(t, ok)
	require.Equal(t, event.WorkClassicalWork, wk)
}

func TestEventService_CreateVenue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(event.Options{})
	f.venues.On("Create", ctx, mock.Anything).Return(nil)

	v, err := f.svc.CreateVenue(ctx, event.VenueRequest{
		Name:      "The Barbican",
		Latitude:  ptr(51.5200521234),
		Longitude: ptr(-0.0937119876),
	})
	require.NoError(t, err)
	require.Equal(t, "barbican, the", v.NameSort)
	require.InDelta(t, 51.520052, *v.Latitude, 1e-9)
	require.InDelta(t, -0.093712, *v.Longitude, 1e-9)

	_, err = f.svc.CreateVenue(ctx, event.VenueRequest{Name: "Nowhere", Latitude: ptr(95.0)})
	require.ErrorIs(t, err, event.ErrInvalidInput)
}

func TestEventService_VenueDetail_MapsKey(t *testing.T) {
	ctx := context.Background()
	opts := event.ListEventsOptions{VenueID: "v1"}

	tests := []struct {
		name  string
		key   string
		venue *event.Venue
		want  string
	}{
		{"key and location", "abc", &event.Venue{ID: "v1", Latitude: ptr(1.0), Longitude: ptr(2.0)}, "abc"},
		{"no key", "", &event.Venue{ID: "v1", Latitude: ptr(1.0), Longitude: ptr(2.0)}, ""},
		{"missing longitude", "abc", &event.Venue{ID: "v1", Latitude: ptr(1.0)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(event.Options{MapsAPIKey: tt.key})
			f.venues.On("Get", ctx, "v1").Return(tt.venue, nil)
			f.events.On("Count", ctx, opts).Return(0, nil)

			detail, err := f.svc.GetVenueDetail(ctx, "v1", paginate.Request{})
			require.NoError(t, err)
			require.Equal(t, tt.want, detail.MapsAPIKey)
			require.Empty(t, detail.Events.Items)
		})
	}
}

func TestEventService_CreateEvent_TitleFromWork(t *testing.T) {
	ctx := context.Background()
	f := newFixture(event.Options{})
	f.venues.On("Get", ctx, "v1").Return(&event.Venue{ID: "v1", Name: "BFI Southbank"}, nil)
	f.works.On("Get", ctx, "w1").Return(&event.Work{ID: "w1", Kind: event.WorkMovie, Title: "The 39 Steps"}, nil)
	f.events.On("Create", ctx, mock.Anything).Return(nil)

	e, err := f.svc.CreateEvent(ctx, event.EventRequest{
		Kind:    event.KindMovie,
		Date:    "2017-04-13",
		VenueID: "v1",
		WorkIDs: []string{"w1"},
	})
	require.NoError(t, err)
	require.Equal(t, "The 39 Steps", e.Title)
	require.Equal(t, "00000039 steps, the", e.TitleSort)
	require.Equal(t, "BFI Southbank", e.VenueName)
	require.Equal(t, []string{"w1"}, e.WorkIDs)
}

func TestEventService_CreateEvent_Invalid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(event.Options{})

	_, err := f.svc.CreateEvent(ctx, event.EventRequest{Kind: "opera", Title: "x", Date: "2017-01-01"})
	require.ErrorIs(t, err, event.ErrInvalidInput)

	_, err = f.svc.CreateEvent(ctx, event.EventRequest{Kind: event.KindGig, Date: "2017-01-01"})
	require.ErrorIs(t, err, event.ErrInvalidInput)

	f.venues.On("Get", ctx, "gone").Return(nil, repository.ErrNotFound)
	_, err = f.svc.CreateEvent(ctx, event.EventRequest{Kind: event.KindGig, Title: "x", Date: "2017-01-01", VenueID: "gone"})
	require.ErrorIs(t, err, event.ErrVenueNotFound)
}

func TestEventService_ListEventsBySlug(t *testing.T) {
	ctx := context.Background()
	f := newFixture(event.Options{})
	gig := event.KindGig
	f.events.On("Count", ctx, event.ListEventsOptions{Kind: &gig}).Return(2, nil)
	f.events.On("List", ctx, event.ListEventsOptions{Kind: &gig}, 0, 2).Return([]event.Event{{ID: "e1"}, {ID: "e2"}}, nil)

	res, err := f.svc.ListEventsBySlug(ctx, "gigs", paginate.Request{})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)

	_, err = f.svc.ListEventsBySlug(ctx, "gig", paginate.Request{})
	require.ErrorIs(t, err, event.ErrInvalidKind)
}

func TestEventService_KindCounts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(event.Options{})
	f.events.On("CountByKind", ctx).Return(map[event.Kind]int{event.KindGig: 3, event.KindPlay: 1}, nil)

	counts, err := f.svc.KindCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, len(event.Kinds))
	byKind := map[event.Kind]int{}
	for _, c := range counts {
		byKind[c.Kind] = c.Count
	}
	require.Equal(t, 3, byKind[event.KindGig])
	require.Equal(t, 0, byKind[event.KindComedy])
}

func TestEventService_YearArchive(t *testing.T) {
	ctx := context.Background()
	now := func() time.Time { return time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC) }
	f := newFixture(event.Options{Now: now})
	f.events.On("MinYear", ctx).Return(2015, true, nil)
	f.events.On("InYear", ctx, mock.Anything).Return([]event.Event{{ID: "e1"}}, nil)

	_, err := f.svc.YearArchive(ctx, 2014)
	require.ErrorIs(t, err, event.ErrNoEventsForYear)

	first, err := f.svc.YearArchive(ctx, 2015)
	require.NoError(t, err)
	require.Nil(t, first.PreviousYear)
	require.Equal(t, 2016, *first.NextYear)

	current, err := f.svc.YearArchive(ctx, 2020)
	require.NoError(t, err)
	require.Equal(t, 2019, *current.PreviousYear)
	require.Nil(t, current.NextYear)
}

func TestEventService_YearArchive_NoEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(event.Options{})
	f.events.On("MinYear", ctx).Return(0, false, nil)

	_, err := f.svc.YearArchive(ctx, 2017)
	require.ErrorIs(t, err, event.ErrNoEventsForYear)
}

func TestEventService_GetEventDetail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(event.Options{})
	f.events.On("Get", ctx, "e1").Return(&event.Event{ID: "e1", VenueID: "v1"}, nil)
	f.venues.On("Get", ctx, "v1").Return(&event.Venue{ID: "v1"}, nil)
	f.works.On("ForEvent", ctx, "e1").Return([]event.Work{{ID: "w1"}}, nil)
	f.credits.On("ForSubject", ctx, creator.SubjectEvent, "e1").Return(nil, nil)

	detail, err := f.svc.GetEventDetail(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, detail.Venue)
	require.Len(t, detail.Works, 1)
	require.NotNil(t, detail.Credits)
}
