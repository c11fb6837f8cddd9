package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `spectator is a personal catalogue of culture: creators, reading and events.

Core concepts:
- Creator: a person (individual) or group, credited on publications, events and works.
- Publication: a book or periodical, optionally in a series. Readings record when it was started and ended.
- Event: a dated gig, play, screening and so on, at a venue, featuring works.
- Sort keys: every name and title gets a generated key ("The Fall" sorts as "fall, the"; "Kate Bush" as "bush, kate"). Preview with sort_key.

Default workflow:
1) Find before you create: search_catalog matches every word as a prefix.
2) Browse with the list_* tools. Lists are paged; pass page="last" for the final page. Past the end you get the last page unless soft_limit=false.
3) Create with create_creator / create_publication / create_venue / create_event, then log_reading for books.

Docs:
- spectator://docs/index
- spectator://docs/kinds
- spectator://docs/sorting
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "spectator://docs/index",
		Name:        "docs_index",
		Title:       "spectator docs index",
		Description: "What the catalogue holds and which tools read and write it.",
		Content: `# spectator: Agent Docs Index

## Reading tools

- ` + "`search_catalog`" + ` finds anything by name or title.
- ` + "`list_creators`" + `, ` + "`list_publications`" + `, ` + "`list_series`" + `, ` + "`list_events`" + `, ` + "`list_venues`" + `, ` + "`list_works`" + ` page through sorted lists.
- ` + "`get_creator`" + `, ` + "`get_publication`" + `, ` + "`get_event`" + `, ` + "`get_venue`" + ` return one record with its relations.
- ` + "`list_readings_for_year`" + ` lists what was finished or abandoned in a year.
- ` + "`recent_activity`" + ` shows the latest changes.

## Writing tools

- ` + "`create_creator`" + `, ` + "`create_publication`" + `, ` + "`create_venue`" + `, ` + "`create_event`" + `, ` + "`log_reading`" + `.
- Publications and events accept ` + "`credits`" + ` to credit existing creators in the same call.

## Paging

Every list returns ` + "`items`" + ` and ` + "`page`" + ` (number, num_pages, count, links).
Pages past the end are served as the last page unless ` + "`soft_limit`" + ` is false,
in which case the call fails with NOT_FOUND.

## Errors

Tool errors carry a JSON body: ` + "`code`" + `, ` + "`message`" + ` and usually a ` + "`recovery_hint`" + `.
Codes: NOT_FOUND, INVALID_KIND, SUBJECT_NOT_FOUND, CONFLICT, VALIDATION_ERROR, UNAUTHORIZED, INTERNAL.
`,
	},
	{
		URI:         "spectator://docs/kinds",
		Name:        "docs_kinds",
		Title:       "Kinds of creator, publication, event and work",
		Description: "Allowed values for every kind field and the URL slugs they map to.",
		Content: `# Kinds

| Field | Values |
|---|---|
| creator kind | individual, group |
| publication kind | book, periodical |
| event kind | comedy, concert, dance, exhibition, gig, misc, movie, play |
| work kind | movie, play, classicalwork, dancepiece |

Event kinds are shown in URLs as plural slugs: comedy, concerts, dance,
exhibitions, gigs, others, movies, plays. list_events accepts either form.

Work kinds use the slugs movies, plays, classicalworks, dancepieces.
`,
	},
	{
		URI:         "spectator://docs/sorting",
		Name:        "docs_sorting",
		Title:       "How sort keys are generated",
		Description: "Rules behind the generated sort keys of names and titles.",
		Content: `# Sort keys

Keys are lowercase and stored with every record, so lists sort in SQL.

## Titles and group names

- A leading article moves to the end: "The Long Blondes" becomes "long blondes, the".
  English, French, German, Spanish and other common articles are recognised.
- A title made only of an article and a repeat ("The The") is left alone.
- Numbers are zero-padded to eight digits: "The 39 Steps" becomes "00000039 steps, the".

## Personal names

- The surname comes first: "David Foster Wallace" becomes "wallace, david foster".
- Capitalised particles stay with the surname: "John Le Carre" becomes "le carre, john".
- Lowercase particles stay with the given names: "Daphne du Maurier" becomes "maurier, daphne du".
- Suffixes (Jr, Sr, II, III) follow the given names: "Dick Van Dyke III" becomes "van dyke, dick iii".

Keys are truncated to 255 characters.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
