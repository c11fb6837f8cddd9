// Package testserver runs the whole HTTP stack over an in-memory database
// for end-to-end tests.
package testserver

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/spectator/internal/app"
	"github.com/rpggio/spectator/internal/mcp"
	"github.com/rpggio/spectator/internal/paginate"
	"github.com/rpggio/spectator/internal/sqlite"
	"github.com/rpggio/spectator/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	App    *app.App
	Token  string
}

// Options tunes the server under test.
type Options struct {
	PerPage    int
	MapsAPIKey string
}

func New(t *testing.T, opts Options) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	policy := paginate.DefaultPolicy()
	if opts.PerPage > 0 {
		policy.PerPage = opts.PerPage
	}
	a := app.New(db, app.Options{
		Policy:     policy,
		MapsAPIKey: opts.MapsAPIKey,
		Now:        func() time.Time { return time.Date(2018, 6, 1, 0, 0, 0, 0, time.UTC) },
	}, nil)

	token, err := a.APIKeys.Create(context.Background(), "test")
	require.NoError(t, err)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Creators: a.Creators,
			Reading:  a.Reading,
			Events:   a.Events,
			Search:   a.Search,
			Activity: a.Activity,
		},
		Resolver:      a.APIKeys,
		AuthEnabled:   true,
		TransportMode: "http",
		Version:       "test",
	})

	server := httptest.NewServer(transport.NewServer(transport.Config{
		Services: transport.Services{
			Creators: a.Creators,
			Reading:  a.Reading,
			Events:   a.Events,
			Search:   a.Search,
			Activity: a.Activity,
		},
		Resolver:    a.APIKeys,
		MCP:         mcp.NewHTTPHandler(mcpServer, time.Minute),
		CORSOrigins: []string{"*"},
	}))

	ts := &TestServer{Server: server, App: a, Token: token}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// URL joins path onto the server address.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
