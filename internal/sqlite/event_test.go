package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/spectator/internal/domain/event"
	"github.com/rpggio/spectator/internal/repository"
	"github.com/stretchr/testify/require"
)

func insertVenue(t *testing.T, db *DB, id, name string, lat, long *float64) {
	t.Helper()
	require.NoError(t, NewVenueRepository(db).Create(context.Background(), &event.Venue{
		ID: id, Name: name, NameSort: name, Latitude: lat, Longitude: long, CreatedAt: testTime(), ModifiedAt: testTime(),
	}))
}

func insertWork(t *testing.T, db *DB, id, title string, kind event.WorkKind) {
	t.Helper()
	require.NoError(t, NewWorkRepository(db).Create(context.Background(), &event.Work{
		ID: id, Kind: kind, Title: title, TitleSort: title, CreatedAt: testTime(), ModifiedAt: testTime(),
	}))
}

func insertEvent(t *testing.T, db *DB, id, title, day string, kind event.Kind, venueID string, workIDs ...string) {
	t.Helper()
	require.NoError(t, NewEventRepository(db).Create(context.Background(), &event.Event{
		ID: id, Kind: kind, Title: title, TitleSort: title, Date: *date(t, day), VenueID: venueID,
		WorkIDs: workIDs, CreatedAt: testTime(), ModifiedAt: testTime(),
	}))
}

func TestVenueRepository(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewVenueRepository(db)

	lat, long := 51.520052, -0.093712
	insertVenue(t, db, "v1", "barbican", &lat, &long)
	insertVenue(t, db, "v2", "academy", nil, nil)

	got, err := repo.Get(ctx, "v1")
	require.NoError(t, err)
	require.True(t, got.HasLocation())
	require.InDelta(t, lat, *got.Latitude, 1e-9)

	noLoc, err := repo.Get(ctx, "v2")
	require.NoError(t, err)
	require.False(t, noLoc.HasLocation())

	list, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Equal(t, "v2", list[0].ID)

	// Deleting a venue keeps its events.
	insertEvent(t, db, "e1", "gig", "2017-01-01", event.KindGig, "v2")
	require.NoError(t, repo.Delete(ctx, "v2"))
	e, err := NewEventRepository(db).Get(ctx, "e1")
	require.NoError(t, err)
	require.Empty(t, e.VenueID)
}

func TestEventRepository_CRUDAndWorks(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewEventRepository(db)

	insertVenue(t, db, "v1", "bfi", nil, nil)
	insertWork(t, db, "w1", "vertigo", event.WorkMovie)
	insertWork(t, db, "w2", "rear window", event.WorkMovie)
	insertEvent(t, db, "e1", "double bill", "2017-04-13", event.KindMovie, "v1", "w2", "w1")

	got, err := repo.Get(ctx, "e1")
	require.NoError(t, err)
	require.Equal(t, []string{"w2", "w1"}, got.WorkIDs)
	require.Equal(t, "bfi", got.VenueName)
	require.Equal(t, "2017-04-13", got.Date.Format(dateLayout))

	works, err := NewWorkRepository(db).ForEvent(ctx, "e1")
	require.NoError(t, err)
	require.Equal(t, "w2", works[0].ID)

	got.WorkIDs = []string{"w1"}
	got.Title = "vertigo"
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.Get(ctx, "e1")
	require.NoError(t, err)
	require.Equal(t, []string{"w1"}, got.WorkIDs)

	withWork, err := repo.List(ctx, event.ListEventsOptions{WorkID: "w1"}, 0, 0)
	require.NoError(t, err)
	require.Len(t, withWork, 1)

	err = repo.Update(ctx, &event.Event{ID: "missing", Kind: event.KindGig, Date: *date(t, "2017-01-01")})
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = repo.Create(ctx, &event.Event{ID: "e2", Kind: event.KindGig, Title: "x", Date: *date(t, "2017-01-01"), WorkIDs: []string{"ghost"}})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
	_, err = repo.Get(ctx, "e2")
	require.ErrorIs(t, err, repository.ErrNotFound, "failed create rolls back")
}

func TestEventRepository_ListingsAndYears(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewEventRepository(db)

	_, ok, err := repo.MinYear(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	insertVenue(t, db, "v1", "venue", nil, nil)
	insertEvent(t, db, "e1", "a", "2015-06-01", event.KindGig, "v1")
	insertEvent(t, db, "e2", "b", "2017-02-01", event.KindGig, "v1")
	insertEvent(t, db, "e3", "c", "2017-01-01", event.KindPlay, "")

	minYear, ok, err := repo.MinYear(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2015, minYear)

	all, err := repo.List(ctx, event.ListEventsOptions{}, 0, 0)
	require.NoError(t, err)
	require.Equal(t, "e2", all[0].ID, "newest first")

	atVenue, err := repo.Count(ctx, event.ListEventsOptions{VenueID: "v1"})
	require.NoError(t, err)
	require.Equal(t, 2, atVenue)

	counts, err := repo.CountByKind(ctx)
	require.NoError(t, err)
	require.Equal(t, map[event.Kind]int{event.KindGig: 2, event.KindPlay: 1}, counts)

	in2017, err := repo.InYear(ctx, 2017)
	require.NoError(t, err)
	require.Len(t, in2017, 2)
	require.Equal(t, "e3", in2017[0].ID, "archive is oldest first")
}

func TestWorkRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewWorkRepository(db)

	insertWork(t, db, "w1", "swan lake", event.WorkDancePiece)
	insertEvent(t, db, "e1", "ballet", "2017-01-01", event.KindDance, "", "w1")

	dance := event.WorkDancePiece
	n, err := repo.Count(ctx, event.ListWorksOptions{Kind: &dance})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, repo.Delete(ctx, "w1"))
	e, err := NewEventRepository(db).Get(ctx, "e1")
	require.NoError(t, err)
	require.Empty(t, e.WorkIDs)
}
