package mcp

type ListCreatorsParams struct {
	Page      string `json:"page,omitempty" jsonschema:"page number or 'last'; defaults to 1"`
	SoftLimit *bool  `json:"soft_limit,omitempty" jsonschema:"serve the last page instead of failing past the end"`
	Kind      string `json:"kind,omitempty" jsonschema:"individual or group"`
}

type GetByIDParams struct {
	ID string `json:"id" jsonschema:"record id"`
}

type ListPublicationsParams struct {
	Page      string `json:"page,omitempty" jsonschema:"page number or 'last'; defaults to 1"`
	SoftLimit *bool  `json:"soft_limit,omitempty" jsonschema:"serve the last page instead of failing past the end"`
	Kind      string `json:"kind,omitempty" jsonschema:"book or periodical"`
	SeriesID  string `json:"series_id,omitempty" jsonschema:"only publications in this series"`
}

type ListSeriesParams struct {
	Page      string `json:"page,omitempty" jsonschema:"page number or 'last'; defaults to 1"`
	SoftLimit *bool  `json:"soft_limit,omitempty" jsonschema:"serve the last page instead of failing past the end"`
}

type ListReadingsForYearParams struct {
	Year int `json:"year" jsonschema:"four digit year"`
}

type ListEventsParams struct {
	Page      string `json:"page,omitempty" jsonschema:"page number or 'last'; defaults to 1"`
	SoftLimit *bool  `json:"soft_limit,omitempty" jsonschema:"serve the last page instead of failing past the end"`
	Kind      string `json:"kind,omitempty" jsonschema:"event kind, e.g. gig or play"`
	VenueID   string `json:"venue_id,omitempty" jsonschema:"only events at this venue"`
	WorkID    string `json:"work_id,omitempty" jsonschema:"only events featuring this work"`
}

type GetVenueParams struct {
	Page      string `json:"page,omitempty" jsonschema:"page number or 'last'; defaults to 1"`
	SoftLimit *bool  `json:"soft_limit,omitempty" jsonschema:"serve the last page instead of failing past the end"`
	ID        string `json:"id" jsonschema:"venue id"`
}

type ListVenuesParams struct {
	Page      string `json:"page,omitempty" jsonschema:"page number or 'last'; defaults to 1"`
	SoftLimit *bool  `json:"soft_limit,omitempty" jsonschema:"serve the last page instead of failing past the end"`
}

type ListWorksParams struct {
	Page      string `json:"page,omitempty" jsonschema:"page number or 'last'; defaults to 1"`
	SoftLimit *bool  `json:"soft_limit,omitempty" jsonschema:"serve the last page instead of failing past the end"`
	Kind      string `json:"kind,omitempty" jsonschema:"movie, play, classicalwork or dancepiece"`
}

type SearchCatalogParams struct {
	Page         string   `json:"page,omitempty" jsonschema:"page number or 'last'; defaults to 1"`
	SoftLimit    *bool    `json:"soft_limit,omitempty" jsonschema:"serve the last page instead of failing past the end"`
	Query        string   `json:"query" jsonschema:"words to match; each is a prefix"`
	SubjectTypes []string `json:"subject_types,omitempty" jsonschema:"restrict to creator, series, publication, venue, work or event"`
}

type SortKeyParams struct {
	Name   string `json:"name" jsonschema:"name or title to turn into a sort key"`
	Person bool   `json:"person,omitempty" jsonschema:"treat the name as a person's name"`
}

type SortKeyResult struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Key  string `json:"key"`
}

type RecentActivityParams struct {
	SubjectType  string `json:"subject_type,omitempty" jsonschema:"only changes to this subject type"`
	SubjectID    string `json:"subject_id,omitempty" jsonschema:"only changes to this subject"`
	ActivityType string `json:"activity_type,omitempty" jsonschema:"created, updated, deleted, credited, uncredited or reading_logged"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum entries, newest first"`
}

type CreateCreatorParams struct {
	ID   string `json:"id,omitempty" jsonschema:"optional id; generated when omitted"`
	Kind string `json:"kind,omitempty" jsonschema:"individual (default) or group"`
	Name string `json:"name" jsonschema:"display name"`
}

type CreatePublicationParams struct {
	Title    string         `json:"title"`
	Kind     string         `json:"kind,omitempty" jsonschema:"book (default) or periodical"`
	SeriesID string         `json:"series_id,omitempty"`
	Notes    string         `json:"notes,omitempty"`
	Credits  []CreditParams `json:"credits,omitempty" jsonschema:"creators to credit on the new publication"`
}

type CreateEventParams struct {
	Kind    string         `json:"kind" jsonschema:"comedy, concert, dance, exhibition, gig, misc, movie or play"`
	Title   string         `json:"title,omitempty" jsonschema:"defaults to the first work's title"`
	Date    string         `json:"date" jsonschema:"YYYY-MM-DD"`
	VenueID string         `json:"venue_id,omitempty"`
	WorkIDs []string       `json:"work_ids,omitempty"`
	Credits []CreditParams `json:"credits,omitempty" jsonschema:"creators to credit on the new event"`
}

// CreditParams credits a creator on a newly created subject.
type CreditParams struct {
	CreatorID string `json:"creator_id"`
	RoleName  string `json:"role_name,omitempty"`
	RoleOrder int    `json:"role_order,omitempty"`
}

type CreateVenueParams struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type LogReadingParams struct {
	PublicationID string `json:"publication_id"`
	StartDate     string `json:"start_date,omitempty" jsonschema:"YYYY-MM-DD"`
	EndDate       string `json:"end_date,omitempty" jsonschema:"YYYY-MM-DD"`
	IsFinished    bool   `json:"is_finished,omitempty" jsonschema:"false when the reading was abandoned"`
}
