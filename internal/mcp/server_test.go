package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/spectator/internal/app"
	"github.com/rpggio/spectator/internal/paginate"
	"github.com/rpggio/spectator/internal/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, perPage int) *app.App {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	policy := paginate.DefaultPolicy()
	if perPage > 0 {
		policy.PerPage = perPage
	}
	return app.New(db, app.Options{Policy: policy}, nil)
}

func servicesOf(a *app.App) Services {
	return Services{
		Creators: a.Creators,
		Reading:  a.Reading,
		Events:   a.Events,
		Search:   a.Search,
		Activity: a.Activity,
	}
}

// connect runs the server over in-memory transports and returns a client
// session.
func connect(t *testing.T, server *sdkmcp.Server) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()

	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func newLocalSession(t *testing.T, perPage int) *sdkmcp.ClientSession {
	t.Helper()
	a := newTestApp(t, perPage)
	return connect(t, NewServer(Config{Services: servicesOf(a), TransportMode: "stdio"}))
}

// call invokes a tool and decodes its JSON text into out. It returns
// whether the tool reported an error.
func call(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any, out any) bool {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	if out != nil {
		require.NoError(t, json.Unmarshal([]byte(text.Text), out))
	}
	return res.IsError
}

func TestServer_ListsEveryTool(t *testing.T) {
	cs := newLocalSession(t, 0)

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"list_creators", "get_creator", "list_publications", "get_publication",
		"list_series", "list_readings_for_year", "list_events", "get_event",
		"list_venues", "get_venue", "list_works", "search_catalog", "sort_key",
		"recent_activity", "create_creator", "create_publication", "create_event",
		"create_venue", "log_reading",
	} {
		require.True(t, names[want], "missing tool %s", want)
	}
}

func TestServer_DocResources(t *testing.T) {
	cs := newLocalSession(t, 0)

	res, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "spectator://docs/sorting"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Equal(t, "text/markdown", res.Contents[0].MIMEType)
	require.Contains(t, res.Contents[0].Text, "long blondes, the")
}

func TestTools_CreateAndRead(t *testing.T) {
	cs := newLocalSession(t, 0)

	var author struct {
		ID       string `json:"id"`
		NameSort string `json:"name_sort"`
	}
	require.False(t, call(t, cs, "create_creator", map[string]any{"name": "Donna Tartt"}, &author))
	require.Equal(t, "tartt, donna", author.NameSort)

	var created struct {
		Publication struct {
			ID        string `json:"id"`
			TitleSort string `json:"title_sort"`
		} `json:"publication"`
		Credits []struct {
			CreatorID string `json:"creator_id"`
		} `json:"credits"`
	}
	require.False(t, call(t, cs, "create_publication", map[string]any{
		"title":   "The Secret History",
		"credits": []map[string]any{{"creator_id": author.ID, "role_name": "author"}},
	}, &created))
	require.Equal(t, "secret history, the", created.Publication.TitleSort)
	require.Len(t, created.Credits, 1)

	require.False(t, call(t, cs, "log_reading", map[string]any{
		"publication_id": created.Publication.ID,
		"start_date":     "2016-12-20",
		"end_date":       "2017-01-14",
		"is_finished":    true,
	}, nil))

	var archive struct {
		Year     int `json:"year"`
		Readings []struct {
			PublicationID string `json:"publication_id"`
		} `json:"readings"`
	}
	require.False(t, call(t, cs, "list_readings_for_year", map[string]any{"year": 2017}, &archive))
	require.Len(t, archive.Readings, 1)
	require.Equal(t, created.Publication.ID, archive.Readings[0].PublicationID)

	var detail struct {
		Publications []struct {
			SubjectTitle string `json:"subject_title"`
		} `json:"publications"`
	}
	require.False(t, call(t, cs, "get_creator", map[string]any{"id": author.ID}, &detail))
	require.Len(t, detail.Publications, 1)
	require.Equal(t, "The Secret History", detail.Publications[0].SubjectTitle)

	var activity struct {
		Entries []map[string]any `json:"entries"`
	}
	require.False(t, call(t, cs, "recent_activity", map[string]any{"limit": 10}, &activity))
	require.NotEmpty(t, activity.Entries)
}

func TestTools_EventsAndVenues(t *testing.T) {
	cs := newLocalSession(t, 0)

	var venue struct {
		ID string `json:"id"`
	}
	require.False(t, call(t, cs, "create_venue", map[string]any{"name": "Barbican", "latitude": 51.52, "longitude": -0.0937}, &venue))

	var apiErr APIError
	require.True(t, call(t, cs, "create_venue", map[string]any{"name": "Half", "latitude": 51.0}, &apiErr))
	require.Equal(t, "VALIDATION_ERROR", apiErr.Code)

	var created struct {
		Event struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"event"`
	}
	require.False(t, call(t, cs, "create_event", map[string]any{
		"kind":     "concert",
		"title":    "Steve Reich at 80",
		"date":     "2016-10-01",
		"venue_id": venue.ID,
	}, &created))

	var page struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		Page paginate.Meta `json:"page"`
	}
	require.False(t, call(t, cs, "list_events", map[string]any{"kind": "concerts"}, &page))
	require.Len(t, page.Items, 1)
	require.Equal(t, created.Event.ID, page.Items[0].ID)

	require.True(t, call(t, cs, "list_events", map[string]any{"kind": "raves"}, &apiErr))
	require.Equal(t, "INVALID_KIND", apiErr.Code)

	var detail struct {
		Venue struct {
			Name string `json:"name"`
		} `json:"venue"`
	}
	require.False(t, call(t, cs, "get_event", map[string]any{"id": created.Event.ID}, &detail))
	require.Equal(t, "Barbican", detail.Venue.Name)

	require.True(t, call(t, cs, "get_event", map[string]any{"id": "missing"}, &apiErr))
	require.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestTools_Paging(t *testing.T) {
	cs := newLocalSession(t, 1)
	for _, name := range []string{"Blondie", "Le Tigre"} {
		require.False(t, call(t, cs, "create_creator", map[string]any{"name": name, "kind": "group"}, nil))
	}

	var page struct {
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
		Page paginate.Meta `json:"page"`
	}
	require.False(t, call(t, cs, "list_creators", map[string]any{"page": "7"}, &page))
	require.Equal(t, 2, page.Page.Number)
	require.Equal(t, "Le Tigre", page.Items[0].Name)

	var apiErr APIError
	require.True(t, call(t, cs, "list_creators", map[string]any{"page": "7", "soft_limit": false}, &apiErr))
	require.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestTools_SortKeyAndSearch(t *testing.T) {
	cs := newLocalSession(t, 0)

	var key SortKeyResult
	require.False(t, call(t, cs, "sort_key", map[string]any{"name": "Dick Van Dyke III", "person": true}, &key))
	require.Equal(t, SortKeyResult{Name: "Dick Van Dyke III", Kind: "person", Key: "van dyke, dick iii"}, key)

	require.False(t, call(t, cs, "create_creator", map[string]any{"name": "Le Tigre", "kind": "group"}, nil))

	var results struct {
		Items []struct {
			Title string `json:"title"`
		} `json:"items"`
	}
	require.False(t, call(t, cs, "search_catalog", map[string]any{"query": "tig"}, &results))
	require.Len(t, results.Items, 1)
	require.Equal(t, "Le Tigre", results.Items[0].Title)

	var apiErr APIError
	require.True(t, call(t, cs, "search_catalog", map[string]any{"query": "   "}, &apiErr))
	require.Equal(t, "VALIDATION_ERROR", apiErr.Code)
}

func TestServer_HTTPAuth(t *testing.T) {
	a := newTestApp(t, 0)
	token, err := a.APIKeys.Create(context.Background(), "agent")
	require.NoError(t, err)

	server := NewServer(Config{
		Services:      servicesOf(a),
		Resolver:      a.APIKeys,
		AuthEnabled:   true,
		TransportMode: "http",
	})
	ts := httptest.NewServer(NewHTTPHandler(server, time.Minute))
	t.Cleanup(ts.Close)

	connectHTTP := func(token string) *sdkmcp.ClientSession {
		httpClient := &http.Client{Transport: bearerTransport{token: token}}
		client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test", Version: "v0"}, nil)
		cs, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{Endpoint: ts.URL, HTTPClient: httpClient}, nil)
		require.NoError(t, err)
		t.Cleanup(func() { cs.Close() })
		return cs
	}

	anonymous := connectHTTP("")
	_, err = anonymous.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: "sort_key", Arguments: map[string]any{"name": "x"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unauthorized")

	authed := connectHTTP(token)
	var key SortKeyResult
	require.False(t, call(t, authed, "sort_key", map[string]any{"name": "The Fall"}, &key))
	require.Equal(t, "fall, the", key.Key)
}

type bearerTransport struct {
	token string
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if b.token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
	return http.DefaultTransport.RoundTrip(req)
}
