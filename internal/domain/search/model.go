package search

// SubjectType is the kind of record a search hit points at.
type SubjectType string

const (
	SubjectCreator     SubjectType = "creator"
	SubjectSeries      SubjectType = "series"
	SubjectPublication SubjectType = "publication"
	SubjectVenue       SubjectType = "venue"
	SubjectWork        SubjectType = "work"
	SubjectEvent       SubjectType = "event"
)

// Result is one catalogue search hit.
type Result struct {
	SubjectType SubjectType `json:"subject_type"`
	SubjectID   string      `json:"subject_id"`
	Title       string      `json:"title"`
	Snippet     string      `json:"snippet,omitempty"`
	Rank        float64     `json:"rank"`
}
