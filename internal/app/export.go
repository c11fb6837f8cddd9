package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rpggio/spectator/internal/domain/creator"
	"github.com/rpggio/spectator/internal/domain/event"
	"github.com/rpggio/spectator/internal/domain/reading"
	"github.com/rpggio/spectator/internal/paginate"
)

// Snapshot is the whole catalogue in sort order.
type Snapshot struct {
	ExportedAt   time.Time             `json:"exported_at"`
	Creators     []creator.Creator     `json:"creators"`
	Credits      []creator.Credit      `json:"credits"`
	Series       []reading.Series      `json:"series"`
	Publications []reading.Publication `json:"publications"`
	Readings     []reading.Reading     `json:"readings"`
	Venues       []event.Venue         `json:"venues"`
	Works        []event.Work          `json:"works"`
	Events       []event.Event         `json:"events"`
}

// collectPages loads every page of a listing.
func collectPages[T any](fetch func(paginate.Request) (*paginate.Result[T], error)) ([]T, error) {
	strict := false
	out := []T{}
	for n := 1; ; n++ {
		res, err := fetch(paginate.Request{Token: strconv.Itoa(n), SoftLimit: &strict})
		if err != nil {
			return nil, err
		}
		out = append(out, res.Items...)
		if !res.Page.HasNext {
			return out, nil
		}
	}
}

// Export reads the whole catalogue.
func (a *App) Export(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{ExportedAt: time.Now().UTC()}
	var err error

	if snap.Creators, err = collectPages(func(req paginate.Request) (*paginate.Result[creator.Creator], error) {
		return a.Creators.List(ctx, creator.ListOptions{}, req)
	}); err != nil {
		return nil, fmt.Errorf("exporting creators: %w", err)
	}
	snap.Credits = []creator.Credit{}
	for _, c := range snap.Creators {
		detail, err := a.Creators.GetDetail(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("exporting credits of %s: %w", c.ID, err)
		}
		snap.Credits = append(snap.Credits, detail.Publications...)
		snap.Credits = append(snap.Credits, detail.Events...)
		snap.Credits = append(snap.Credits, detail.Works...)
	}

	if snap.Series, err = collectPages(func(req paginate.Request) (*paginate.Result[reading.Series], error) {
		return a.Reading.ListSeries(ctx, req)
	}); err != nil {
		return nil, fmt.Errorf("exporting series: %w", err)
	}
	if snap.Publications, err = collectPages(func(req paginate.Request) (*paginate.Result[reading.Publication], error) {
		return a.Reading.ListPublications(ctx, reading.ListPublicationsOptions{}, req)
	}); err != nil {
		return nil, fmt.Errorf("exporting publications: %w", err)
	}
	snap.Readings = []reading.Reading{}
	for _, p := range snap.Publications {
		detail, err := a.Reading.GetPublicationDetail(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("exporting readings of %s: %w", p.ID, err)
		}
		snap.Readings = append(snap.Readings, detail.Readings...)
	}

	if snap.Venues, err = collectPages(func(req paginate.Request) (*paginate.Result[event.Venue], error) {
		return a.Events.ListVenues(ctx, req)
	}); err != nil {
		return nil, fmt.Errorf("exporting venues: %w", err)
	}
	if snap.Works, err = collectPages(func(req paginate.Request) (*paginate.Result[event.Work], error) {
		return a.Events.ListWorks(ctx, event.ListWorksOptions{}, req)
	}); err != nil {
		return nil, fmt.Errorf("exporting works: %w", err)
	}
	if snap.Events, err = collectPages(func(req paginate.Request) (*paginate.Result[event.Event], error) {
		return a.Events.ListEvents(ctx, event.ListEventsOptions{}, req)
	}); err != nil {
		return nil, fmt.Errorf("exporting events: %w", err)
	}

	return snap, nil
}
