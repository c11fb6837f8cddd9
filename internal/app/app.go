// Package app wires the SQLite repositories into the catalogue services.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/spectator/internal/domain/activity"
	"github.com/rpggio/spectator/internal/domain/creator"
	"github.com/rpggio/spectator/internal/domain/event"
	"github.com/rpggio/spectator/internal/domain/reading"
	"github.com/rpggio/spectator/internal/domain/search"
	"github.com/rpggio/spectator/internal/metrics"
	"github.com/rpggio/spectator/internal/paginate"
	"github.com/rpggio/spectator/internal/sqlite"
)

// Options configures the services.
type Options struct {
	Policy     paginate.Policy
	MapsAPIKey string
	// Now overrides the clock of the event year archive.
	Now func() time.Time
}

// App holds every service backed by one database.
type App struct {
	DB       *sqlite.DB
	Creators *creator.Service
	Reading  *reading.Service
	Events   *event.Service
	Search   *search.Service
	Activity *activity.Service
	APIKeys  *sqlite.APIKeyRepository
}

// New builds the services over db.
func New(db *sqlite.DB, opts Options, logger *slog.Logger) *App {
	activities := sqlite.NewActivityRepository(db)
	credits := sqlite.NewCreditRepository(db)

	return &App{
		DB: db,
		Creators: creator.NewService(
			sqlite.NewCreatorRepository(db), credits, activities, opts.Policy, logger,
		),
		Reading: reading.NewService(reading.Repositories{
			Series:       sqlite.NewSeriesRepository(db),
			Publications: sqlite.NewPublicationRepository(db),
			Readings:     sqlite.NewReadingRepository(db),
			Credits:      credits,
			Activities:   activities,
		}, opts.Policy, logger),
		Events: event.NewService(event.Repositories{
			Venues:     sqlite.NewVenueRepository(db),
			Works:      sqlite.NewWorkRepository(db),
			Events:     sqlite.NewEventRepository(db),
			Credits:    credits,
			Activities: activities,
		}, event.Options{Policy: opts.Policy, MapsAPIKey: opts.MapsAPIKey, Now: opts.Now}, logger),
		Search:   search.NewService(sqlite.NewSearchRepository(db), opts.Policy, logger),
		Activity: activity.NewService(activities, logger),
		APIKeys:  sqlite.NewAPIKeyRepository(db),
	}
}

// ResortResult is the number of sort keys rewritten per catalogue area.
type ResortResult struct {
	Creators int `json:"creators"`
	Reading  int `json:"reading"`
	Events   int `json:"events"`
}

// Total is the number of keys rewritten overall.
func (r ResortResult) Total() int {
	return r.Creators + r.Reading + r.Events
}

// Resort recomputes every generated sort key in the catalogue.
func (a *App) Resort(ctx context.Context) (ResortResult, error) {
	var res ResortResult
	var err error
	if res.Creators, err = a.Creators.Resort(ctx); err != nil {
		return res, fmt.Errorf("resorting creators: %w", err)
	}
	metrics.RecordResort("creators", res.Creators)
	if res.Reading, err = a.Reading.Resort(ctx); err != nil {
		return res, fmt.Errorf("resorting reading: %w", err)
	}
	metrics.RecordResort("reading", res.Reading)
	if res.Events, err = a.Events.Resort(ctx); err != nil {
		return res, fmt.Errorf("resorting events: %w", err)
	}
	metrics.RecordResort("events", res.Events)
	return res, nil
}
