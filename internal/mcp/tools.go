package mcp

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/spectator/internal/domain/activity"
	"github.com/rpggio/spectator/internal/domain/creator"
	"github.com/rpggio/spectator/internal/domain/event"
	"github.com/rpggio/spectator/internal/domain/reading"
	"github.com/rpggio/spectator/internal/domain/search"
	"github.com/rpggio/spectator/internal/metrics"
	"github.com/rpggio/spectator/internal/naturalsort"
	"github.com/rpggio/spectator/internal/paginate"
)

// addTool registers a tool whose output is returned as JSON text. Domain
// errors become tool errors carrying an APIError.
func addTool[In any](server *sdkmcp.Server, name, description string, fn func(context.Context, In) (any, error)) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
			out, err := fn(ctx, in)
			metrics.RecordToolCall(name, err)
			if err != nil {
				return errorResult(err), nil, nil
			}
			res, err := jsonResult(out)
			if err != nil {
				return nil, nil, err
			}
			return res, nil, nil
		})
}

func jsonResult(v any) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}

func errorResult(err error) *sdkmcp.CallToolResult {
	apiErr := MapError(err)
	if apiErr == nil {
		apiErr = &APIError{Code: "INTERNAL", Message: "internal error"}
	}
	data, _ := json.Marshal(apiErr)
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}

func pageRequest(page string, soft *bool) paginate.Request {
	return paginate.Request{Token: page, SoftLimit: soft}
}

func registerTools(server *sdkmcp.Server, svc Services) {
	registerCreatorTools(server, svc.Creators)
	registerReadingTools(server, svc.Reading, svc.Creators)
	registerEventTools(server, svc.Events, svc.Creators)

	addTool(server, "search_catalog",
		"Search creators, series, publications, venues, works and events by name or title. Every word is matched as a prefix.",
		func(ctx context.Context, in SearchCatalogParams) (any, error) {
			opts := search.Options{}
			for _, t := range in.SubjectTypes {
				opts.SubjectTypes = append(opts.SubjectTypes, search.SubjectType(t))
			}
			return svc.Search.Search(ctx, in.Query, opts, pageRequest(in.Page, in.SoftLimit))
		})

	addTool(server, "sort_key",
		"Preview the sort key generated for a name or title.",
		func(_ context.Context, in SortKeyParams) (any, error) {
			kind := naturalsort.Thing
			if in.Person {
				kind = naturalsort.Person
			}
			return SortKeyResult{Name: in.Name, Kind: kind.String(), Key: naturalsort.Naturalize(in.Name, kind)}, nil
		})

	addTool(server, "recent_activity",
		"List recent catalogue changes, newest first.",
		func(ctx context.Context, in RecentActivityParams) (any, error) {
			opts := activity.ListActivityOptions{SubjectType: in.SubjectType, SubjectID: in.SubjectID, Limit: in.Limit}
			if in.ActivityType != "" {
				typ := activity.ActivityType(in.ActivityType)
				opts.ActivityType = &typ
			}
			entries, err := svc.Activity.GetRecentActivity(ctx, opts)
			if err != nil {
				return nil, err
			}
			return map[string]any{"entries": entries}, nil
		})
}

func registerCreatorTools(server *sdkmcp.Server, creators CreatorService) {
	addTool(server, "list_creators",
		"List creators in sort order, one page at a time.",
		func(ctx context.Context, in ListCreatorsParams) (any, error) {
			var opts creator.ListOptions
			if in.Kind != "" {
				kind := creator.Kind(in.Kind)
				if !kind.Valid() {
					return nil, fmt.Errorf("%w: unknown kind %q", creator.ErrInvalidInput, in.Kind)
				}
				opts.Kind = &kind
			}
			return creators.List(ctx, opts, pageRequest(in.Page, in.SoftLimit))
		})

	addTool(server, "get_creator",
		"Get a creator with everything they are credited on.",
		func(ctx context.Context, in GetByIDParams) (any, error) {
			return creators.GetDetail(ctx, in.ID)
		})

	addTool(server, "create_creator",
		"Create a person or group. The sort key is generated from the name.",
		func(ctx context.Context, in CreateCreatorParams) (any, error) {
			return creators.Create(ctx, creator.CreateRequest{ID: in.ID, Kind: creator.Kind(in.Kind), Name: in.Name})
		})
}

// addCredits credits creators on a subject created by the same tool call.
func addCredits(ctx context.Context, creators CreatorService, subject creator.SubjectType, id string, credits []CreditParams) ([]creator.Credit, error) {
	out := make([]creator.Credit, 0, len(credits))
	for _, c := range credits {
		credit, err := creators.AddCredit(ctx, creator.CreditRequest{
			CreatorID:   c.CreatorID,
			SubjectType: subject,
			SubjectID:   id,
			RoleName:    c.RoleName,
			RoleOrder:   c.RoleOrder,
		})
		if err != nil {
			return out, fmt.Errorf("crediting %s: %w", c.CreatorID, err)
		}
		out = append(out, *credit)
	}
	return out, nil
}

func registerReadingTools(server *sdkmcp.Server, readings ReadingService, creators CreatorService) {
	addTool(server, "list_publications",
		"List books and periodicals in sort order, one page at a time.",
		func(ctx context.Context, in ListPublicationsParams) (any, error) {
			opts := reading.ListPublicationsOptions{SeriesID: in.SeriesID}
			if in.Kind != "" {
				kind := reading.PublicationKind(in.Kind)
				if !kind.Valid() {
					return nil, fmt.Errorf("%w: unknown kind %q", reading.ErrInvalidInput, in.Kind)
				}
				opts.Kind = &kind
			}
			return readings.ListPublications(ctx, opts, pageRequest(in.Page, in.SoftLimit))
		})

	addTool(server, "get_publication",
		"Get a publication with its series, credits and readings.",
		func(ctx context.Context, in GetByIDParams) (any, error) {
			return readings.GetPublicationDetail(ctx, in.ID)
		})

	addTool(server, "list_series",
		"List publication series, one page at a time.",
		func(ctx context.Context, in ListSeriesParams) (any, error) {
			return readings.ListSeries(ctx, pageRequest(in.Page, in.SoftLimit))
		})

	addTool(server, "list_readings_for_year",
		"List the readings that ended in a year, with the neighbouring years.",
		func(ctx context.Context, in ListReadingsForYearParams) (any, error) {
			if in.Year < 1 {
				return nil, fmt.Errorf("%w: year must be positive", reading.ErrInvalidInput)
			}
			return readings.YearArchive(ctx, in.Year)
		})

	addTool(server, "create_publication",
		"Create a book or periodical, optionally crediting creators on it.",
		func(ctx context.Context, in CreatePublicationParams) (any, error) {
			kind := reading.PublicationKind(in.Kind)
			if kind == "" {
				kind = reading.KindBook
			}
			pub, err := readings.CreatePublication(ctx, reading.PublicationRequest{
				Title:    in.Title,
				Kind:     kind,
				SeriesID: in.SeriesID,
				Notes:    in.Notes,
			})
			if err != nil {
				return nil, err
			}
			credits, err := addCredits(ctx, creators, creator.SubjectPublication, pub.ID, in.Credits)
			if err != nil {
				return nil, fmt.Errorf("publication %s created, %w", pub.ID, err)
			}
			return map[string]any{"publication": pub, "credits": credits}, nil
		})

	addTool(server, "log_reading",
		"Record starting, finishing or abandoning a publication.",
		func(ctx context.Context, in LogReadingParams) (any, error) {
			return readings.LogReading(ctx, reading.ReadingRequest{
				PublicationID: in.PublicationID,
				StartDate:     in.StartDate,
				EndDate:       in.EndDate,
				IsFinished:    in.IsFinished,
			})
		})
}

func registerEventTools(server *sdkmcp.Server, events EventService, creators CreatorService) {
	addTool(server, "list_events",
		"List events, newest first, one page at a time.",
		func(ctx context.Context, in ListEventsParams) (any, error) {
			opts := event.ListEventsOptions{VenueID: in.VenueID, WorkID: in.WorkID}
			if in.Kind != "" {
				kind := event.Kind(in.Kind)
				if !kind.Valid() {
					var ok bool
					if kind, ok = event.KindFromSlug(in.Kind); !ok {
						return nil, fmt.Errorf("%w: %q", event.ErrInvalidKind, in.Kind)
					}
				}
				opts.Kind = &kind
			}
			return events.ListEvents(ctx, opts, pageRequest(in.Page, in.SoftLimit))
		})

	addTool(server, "get_event",
		"Get an event with its venue, works and credits.",
		func(ctx context.Context, in GetByIDParams) (any, error) {
			return events.GetEventDetail(ctx, in.ID)
		})

	addTool(server, "list_venues",
		"List venues in sort order, one page at a time.",
		func(ctx context.Context, in ListVenuesParams) (any, error) {
			return events.ListVenues(ctx, pageRequest(in.Page, in.SoftLimit))
		})

	addTool(server, "get_venue",
		"Get a venue with one page of its events, newest first.",
		func(ctx context.Context, in GetVenueParams) (any, error) {
			return events.GetVenueDetail(ctx, in.ID, pageRequest(in.Page, in.SoftLimit))
		})

	addTool(server, "list_works",
		"List movies, plays, classical works and dance pieces, one page at a time.",
		func(ctx context.Context, in ListWorksParams) (any, error) {
			var opts event.ListWorksOptions
			if in.Kind != "" {
				kind := event.WorkKind(in.Kind)
				if !kind.Valid() {
					var ok bool
					if kind, ok = event.WorkKindFromSlug(in.Kind); !ok {
						return nil, fmt.Errorf("%w: %q", event.ErrInvalidKind, in.Kind)
					}
				}
				opts.Kind = &kind
			}
			return events.ListWorks(ctx, opts, pageRequest(in.Page, in.SoftLimit))
		})

	addTool(server, "create_venue",
		"Create a venue. Coordinates are optional and must come as a pair.",
		func(ctx context.Context, in CreateVenueParams) (any, error) {
			if (in.Latitude == nil) != (in.Longitude == nil) {
				return nil, fmt.Errorf("%w: latitude and longitude go together", event.ErrInvalidInput)
			}
			return events.CreateVenue(ctx, event.VenueRequest{Name: in.Name, Latitude: in.Latitude, Longitude: in.Longitude})
		})

	addTool(server, "create_event",
		"Create an event, optionally at a venue, featuring works and crediting creators.",
		func(ctx context.Context, in CreateEventParams) (any, error) {
			ev, err := events.CreateEvent(ctx, event.EventRequest{
				Kind:    event.Kind(in.Kind),
				Title:   in.Title,
				Date:    in.Date,
				VenueID: in.VenueID,
				WorkIDs: in.WorkIDs,
			})
			if err != nil {
				return nil, err
			}
			credits, err := addCredits(ctx, creators, creator.SubjectEvent, ev.ID, in.Credits)
			if err != nil {
				return nil, fmt.Errorf("event %s created, %w", ev.ID, err)
			}
			return map[string]any{"event": ev, "credits": credits}, nil
		})
}
