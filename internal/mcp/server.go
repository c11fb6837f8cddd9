package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/spectator/internal/domain/activity"
	"github.com/rpggio/spectator/internal/domain/creator"
	"github.com/rpggio/spectator/internal/domain/event"
	"github.com/rpggio/spectator/internal/domain/reading"
	"github.com/rpggio/spectator/internal/domain/search"
	"github.com/rpggio/spectator/internal/paginate"
)

// CreatorService defines creator operations needed by MCP.
type CreatorService interface {
	Create(ctx context.Context, req creator.CreateRequest) (*creator.Creator, error)
	GetDetail(ctx context.Context, id string) (*creator.Detail, error)
	List(ctx context.Context, opts creator.ListOptions, req paginate.Request) (*paginate.Result[creator.Creator], error)
	AddCredit(ctx context.Context, req creator.CreditRequest) (*creator.Credit, error)
}

// ReadingService defines reading operations needed by MCP.
type ReadingService interface {
	ListSeries(ctx context.Context, req paginate.Request) (*paginate.Result[reading.Series], error)
	CreatePublication(ctx context.Context, req reading.PublicationRequest) (*reading.Publication, error)
	GetPublicationDetail(ctx context.Context, id string) (*reading.PublicationDetail, error)
	ListPublications(ctx context.Context, opts reading.ListPublicationsOptions, req paginate.Request) (*paginate.Result[reading.Publication], error)
	LogReading(ctx context.Context, req reading.ReadingRequest) (*reading.Reading, error)
	YearArchive(ctx context.Context, year int) (*reading.YearArchive, error)
}

// EventService defines event operations needed by MCP.
type EventService interface {
	CreateVenue(ctx context.Context, req event.VenueRequest) (*event.Venue, error)
	GetVenueDetail(ctx context.Context, id string, req paginate.Request) (*event.VenueDetail, error)
	ListVenues(ctx context.Context, req paginate.Request) (*paginate.Result[event.Venue], error)
	ListWorks(ctx context.Context, opts event.ListWorksOptions, req paginate.Request) (*paginate.Result[event.Work], error)
	CreateEvent(ctx context.Context, req event.EventRequest) (*event.Event, error)
	GetEventDetail(ctx context.Context, id string) (*event.EventDetail, error)
	ListEvents(ctx context.Context, opts event.ListEventsOptions, req paginate.Request) (*paginate.Result[event.Event], error)
}

// SearchService defines catalogue search.
type SearchService interface {
	Search(ctx context.Context, query string, opts search.Options, req paginate.Request) (*paginate.Result[search.Result], error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Creators CreatorService
	Reading  ReadingService
	Events   EventService
	Search   SearchService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      KeyResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "spectator",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio serves a single local client and never authenticates.
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled && cfg.Resolver != nil {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(localMiddleware("local"))
	}
	server.AddReceivingMiddleware(sessionMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}

// NewHTTPHandler serves server over streamable HTTP.
func NewHTTPHandler(server *sdkmcp.Server, sessionTimeout time.Duration) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: sessionTimeout},
	)
}
