package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rpggio/spectator/internal/app"
	"github.com/rpggio/spectator/internal/paginate"
	"github.com/rpggio/spectator/internal/sqlite"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server *httptest.Server
	app    *app.App
	token  string
}

type envConfig struct {
	noAuth bool
	server Config
	app    app.Options
}

type envOption func(*envConfig)

func withoutAuth() envOption {
	return func(c *envConfig) { c.noAuth = true }
}

func withPerPage(n int) envOption {
	return func(c *envConfig) { c.app.Policy.PerPage = n }
}

func withMapsKey(key string) envOption {
	return func(c *envConfig) { c.app.MapsAPIKey = key }
}

func withRateLimit(n int) envOption {
	return func(c *envConfig) {
		c.server.RateLimit = n
		c.server.RateLimitWindow = time.Minute
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	ec := envConfig{
		server: Config{CORSOrigins: []string{"*"}},
		app: app.Options{
			Policy: paginate.DefaultPolicy(),
			Now:    func() time.Time { return time.Date(2018, 6, 1, 0, 0, 0, 0, time.UTC) },
		},
	}
	for _, opt := range opts {
		opt(&ec)
	}

	a := app.New(db, ec.app, nil)
	token, err := a.APIKeys.Create(context.Background(), "test")
	require.NoError(t, err)

	cfg := ec.server
	if !ec.noAuth {
		cfg.Resolver = a.APIKeys
	}
	cfg.Services = Services{
		Creators: a.Creators,
		Reading:  a.Reading,
		Events:   a.Events,
		Search:   a.Search,
		Activity: a.Activity,
	}

	server := httptest.NewServer(NewServer(cfg))
	t.Cleanup(server.Close)
	return &testEnv{server: server, app: a, token: token}
}

func (e *testEnv) do(t *testing.T, method, path, body string, auth bool) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) post(t *testing.T, path, body string) map[string]any {
	t.Helper()
	resp := e.do(t, http.MethodPost, path, body, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody(t, resp)
}

func (e *testEnv) getHTML(t *testing.T, path string) (int, string) {
	t.Helper()
	resp := e.do(t, http.MethodGet, path, "", false)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	body := decodeBody(t, resp)
	apiErr, ok := body["error"].(map[string]any)
	require.True(t, ok, "missing error body: %v", body)
	return apiErr["code"].(string)
}

func TestHTTPServer_Health(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.getHTML(t, "/health")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", body)
}

func TestHTTPServer_Metrics(t *testing.T) {
	env := newTestEnv(t)
	env.getHTML(t, "/api/creators")

	status, body := env.getHTML(t, "/metrics")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "spectator_http_requests_total")
	require.Contains(t, body, `route="/api/creators"`)
}

func TestAPI_WritesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/creators", `{"kind":"group","name":"The Long Blondes"}`, false)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "UNAUTHORIZED", errorCode(t, resp))

	created := env.post(t, "/api/creators", `{"kind":"group","name":"The Long Blondes"}`)
	require.Equal(t, "long blondes, the", created["name_sort"])

	resp = env.do(t, http.MethodGet, "/api/creators/"+created["id"].(string), "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decodeBody(t, resp)
	require.Equal(t, "The Long Blondes", detail["creator"].(map[string]any)["name"])
}

func TestAPI_WritesOpenWithoutResolver(t *testing.T) {
	env := newTestEnv(t, withoutAuth())

	resp := env.do(t, http.MethodPost, "/api/creators", `{"kind":"individual","name":"Kate Bush"}`, false)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "bush, kate", decodeBody(t, resp)["name_sort"])
}

func TestAPI_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/creators", `{"kind":"robot","name":"  "}`, true)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	apiErr := body["error"].(map[string]any)
	require.Equal(t, "VALIDATION_ERROR", apiErr["code"])

	details, ok := apiErr["details"].([]any)
	require.True(t, ok, "details should list the failed fields")
	fields := map[string]bool{}
	for _, d := range details {
		fields[d.(map[string]any)["field"].(string)] = true
	}
	require.True(t, fields["kind"])
	require.True(t, fields["name"])

	resp = env.do(t, http.MethodPost, "/api/creators", `{"kind":"group","name":"X","colour":"red"}`, true)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "INVALID_REQUEST", errorCode(t, resp))
}

func TestAPI_NotFoundAndConflict(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/creators/missing", "", false)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "NOT_FOUND", errorCode(t, resp))

	resp = env.do(t, http.MethodGet, "/api/nothing-here", "", false)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	env.post(t, "/api/creators", `{"id":"c1","kind":"group","name":"Blondie"}`)
	resp = env.do(t, http.MethodPost, "/api/creators", `{"id":"c1","kind":"group","name":"Blondie"}`, true)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/credits",
		`{"creator_id":"c1","subject_type":"publication","subject_id":"missing"}`, true)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Equal(t, "SUBJECT_NOT_FOUND", errorCode(t, resp))
}

func TestAPI_Pagination(t *testing.T) {
	env := newTestEnv(t, withPerPage(2))
	for _, name := range []string{"Blondie", "Le Tigre", "The Fall"} {
		env.post(t, "/api/creators", `{"kind":"group","name":"`+name+`"}`)
	}

	resp := env.do(t, http.MethodGet, "/api/creators?p=9", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	meta := body["page"].(map[string]any)
	require.EqualValues(t, 2, meta["number"])
	require.EqualValues(t, 2, meta["num_pages"])
	items := body["items"].([]any)
	require.Len(t, items, 1)
	require.Equal(t, "Le Tigre", items[0].(map[string]any)["name"])

	resp = env.do(t, http.MethodGet, "/api/creators?p=last", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 2, decodeBody(t, resp)["page"].(map[string]any)["number"])

	resp = env.do(t, http.MethodGet, "/api/creators?p=9&soft_limit=false", "", false)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/creators?p=two", "", false)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_SortKey(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/sortkey?name=The+39+Steps", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Equal(t, "thing", body["kind"])
	require.Equal(t, "00000039 steps, the", body["key"])

	resp = env.do(t, http.MethodGet, "/api/sortkey?name=Daphne+du+Maurier&kind=person", "", false)
	body = decodeBody(t, resp)
	require.Equal(t, "person", body["kind"])
	require.Equal(t, "maurier, daphne du", body["key"])
}

func TestAPI_RateLimit(t *testing.T) {
	env := newTestEnv(t, withRateLimit(1))

	env.post(t, "/api/creators", `{"kind":"group","name":"Blondie"}`)
	resp := env.do(t, http.MethodPost, "/api/creators", `{"kind":"group","name":"Le Tigre"}`, true)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Equal(t, "RATE_LIMITED", errorCode(t, resp))

	// Reads are not limited.
	resp = env.do(t, http.MethodGet, "/api/creators", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTML_Pages(t *testing.T) {
	env := newTestEnv(t)
	creator := env.post(t, "/api/creators", `{"kind":"individual","name":"Kate Bush"}`)
	pub := env.post(t, "/api/publications", `{"title":"The Secret History","kind":"book"}`)
	env.post(t, "/api/readings", `{"publication_id":"`+pub["id"].(string)+`","start_date":"2017-01-02"}`)
	venue := env.post(t, "/api/venues", `{"name":"Hammersmith Apollo"}`)
	ev := env.post(t, "/api/events", `{"kind":"gig","title":"Before the Dawn","date":"2014-08-26","venue_id":"`+venue["id"].(string)+`"}`)
	env.post(t, "/api/credits", `{"creator_id":"`+creator["id"].(string)+`","subject_type":"event","subject_id":"`+ev["id"].(string)+`"}`)

	status, body := env.getHTML(t, "/")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "The Secret History")
	require.Contains(t, body, "Before the Dawn")

	status, body = env.getHTML(t, "/creators/")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "Kate Bush")

	status, body = env.getHTML(t, "/creators/"+creator["id"].(string)+"/")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, `href="/events/gigs/`+ev["id"].(string)+`/"`)

	status, body = env.getHTML(t, "/events/gigs/"+ev["id"].(string)+"/")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "Hammersmith Apollo")

	status, body = env.getHTML(t, "/events/2014/")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "Before the Dawn")

	status, body = env.getHTML(t, "/reading/")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "The Secret History")

	status, _ = env.getHTML(t, "/reading/2017/")
	require.Equal(t, http.StatusOK, status)

	status, body = env.getHTML(t, "/search/?q=secret")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "The Secret History")
}

func TestHTML_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ev := env.post(t, "/api/events", `{"kind":"gig","title":"Before the Dawn","date":"2014-08-26"}`)

	paths := []string{
		"/creators/missing/",
		"/events/nonsense/",
		"/events/plays/" + ev["id"].(string) + "/",
		"/events/2013/",
		"/events/works/sculptures/",
		"/reading/0000/",
		"/no/such/page/",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			status, body := env.getHTML(t, path)
			require.Equal(t, http.StatusNotFound, status)
			require.Contains(t, body, "Not Found")
		})
	}
}

func TestHTML_PaginationLinks(t *testing.T) {
	env := newTestEnv(t, withPerPage(1))
	env.post(t, "/api/creators", `{"kind":"individual","name":"Kate Bush"}`)
	env.post(t, "/api/creators", `{"kind":"individual","name":"David Bowie"}`)

	status, body := env.getHTML(t, "/creators/?p=5")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "Kate Bush", "the soft limit serves the last page")
	require.Contains(t, body, `rel="prev"`)
	require.NotContains(t, body, `rel="next"`)

	status, _ = env.getHTML(t, "/creators/?p=5&soft_limit=false")
	require.Equal(t, http.StatusNotFound, status)
}

func TestHTML_VenueMap(t *testing.T) {
	env := newTestEnv(t, withMapsKey("maps-key"))
	located := env.post(t, "/api/venues", `{"name":"Barbican","latitude":51.52,"longitude":-0.0937}`)
	unlocated := env.post(t, "/api/venues", `{"name":"Somewhere"}`)

	status, body := env.getHTML(t, "/events/venues/"+located["id"].(string)+"/")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, `data-api-key="maps-key"`)
	require.Contains(t, body, `data-latitude="51.520000"`)

	status, body = env.getHTML(t, "/events/venues/"+unlocated["id"].(string)+"/")
	require.Equal(t, http.StatusOK, status)
	require.False(t, strings.Contains(body, "data-api-key"))
}
