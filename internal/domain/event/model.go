package event

import (
	"time"

	"github.com/rpggio/spectator/internal/domain/creator"
	"github.com/rpggio/spectator/internal/naturalsort"
)

// DateLayout is the wire and storage format of event dates.
const DateLayout = "2006-01-02"

// Kind is the kind of an event.
type Kind string

const (
	KindComedy     Kind = "comedy"
	KindConcert    Kind = "concert"
	KindDance      Kind = "dance"
	KindExhibition Kind = "exhibition"
	KindGig        Kind = "gig"
	KindMisc       Kind = "misc"
	KindMovie      Kind = "movie"
	KindPlay       Kind = "play"
)

// Kinds lists every event kind in display order.
var Kinds = []Kind{
	KindComedy, KindConcert, KindDance, KindExhibition,
	KindGig, KindMisc, KindMovie, KindPlay,
}

var kindSlugs = map[Kind]string{
	KindComedy:     "comedy",
	KindConcert:    "concerts",
	KindDance:      "dance",
	KindExhibition: "exhibitions",
	KindGig:        "gigs",
	KindMisc:       "others",
	KindMovie:      "movies",
	KindPlay:       "plays",
}

// Slug is the URL segment for the kind, e.g. "gigs".
func (k Kind) Slug() string {
	return kindSlugs[k]
}

// Valid reports whether k is a known event kind.
func (k Kind) Valid() bool {
	_, ok := kindSlugs[k]
	return ok
}

// KindFromSlug maps a URL slug back to its kind.
func KindFromSlug(slug string) (Kind, bool) {
	for k, s := range kindSlugs {
		if s == slug {
			return k, true
		}
	}
	return "", false
}

// WorkKind is the kind of a work that events can feature.
type WorkKind string

const (
	WorkMovie         WorkKind = "movie"
	WorkPlay          WorkKind = "play"
	WorkClassicalWork WorkKind = "classicalwork"
	WorkDancePiece    WorkKind = "dancepiece"
)

// WorkKinds lists every work kind in display order.
var WorkKinds = []WorkKind{WorkMovie, WorkPlay, WorkClassicalWork, WorkDancePiece}

var workKindSlugs = map[WorkKind]string{
	WorkMovie:         "movies",
	WorkPlay:          "plays",
	WorkClassicalWork: "classicalworks",
	WorkDancePiece:    "dancepieces",
}

var workKindTitles = map[WorkKind]string{
	WorkMovie:         "Movies",
	WorkPlay:          "Plays",
	WorkClassicalWork: "Classical works",
	WorkDancePiece:    "Dance pieces",
}

// Slug is the URL segment for the work kind, e.g. "classicalworks".
func (k WorkKind) Slug() string {
	return workKindSlugs[k]
}

// Title is the plural display name of the work kind.
func (k WorkKind) Title() string {
	return workKindTitles[k]
}

// Valid reports whether k is a known work kind.
func (k WorkKind) Valid() bool {
	_, ok := workKindSlugs[k]
	return ok
}

// WorkKindFromSlug maps a URL slug back to its work kind.
func WorkKindFromSlug(slug string) (WorkKind, bool) {
	for k, s := range workKindSlugs {
		if s == slug {
			return k, true
		}
	}
	return "", false
}

// Venue is where events happen.
type Venue struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	NameSort   string    `json:"name_sort"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

func (v *Venue) SortSource() string         { return v.Name }
func (v *Venue) SortKind() naturalsort.Kind { return naturalsort.Thing }

// HasLocation reports whether both coordinates are known.
func (v *Venue) HasLocation() bool {
	return v.Latitude != nil && v.Longitude != nil
}

// Work is a movie, play, classical work or dance piece.
type Work struct {
	ID         string    `json:"id"`
	Kind       WorkKind  `json:"kind"`
	Title      string    `json:"title"`
	TitleSort  string    `json:"title_sort"`
	Year       int       `json:"year,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

func (w *Work) SortSource() string         { return w.Title }
func (w *Work) SortKind() naturalsort.Kind { return naturalsort.Thing }

// Event is one visit to a gig, play, screening and so on.
type Event struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	Title      string    `json:"title"`
	TitleSort  string    `json:"title_sort"`
	Date       time.Time `json:"date"`
	VenueID    string    `json:"venue_id,omitempty"`
	WorkIDs    []string  `json:"work_ids,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`

	VenueName string `json:"venue_name,omitempty"`
}

func (e *Event) SortSource() string         { return e.Title }
func (e *Event) SortKind() naturalsort.Kind { return naturalsort.Thing }

// EventDetail is an event with its venue, works and credits.
type EventDetail struct {
	Event   *Event           `json:"event"`
	Venue   *Venue           `json:"venue,omitempty"`
	Works   []Work           `json:"works"`
	Credits []creator.Credit `json:"credits"`
}

// WorkDetail is a work with its credits and the events featuring it.
type WorkDetail struct {
	Work    *Work            `json:"work"`
	Credits []creator.Credit `json:"credits"`
	Events  []Event          `json:"events"`
}

// KindCount is the number of events of one kind.
type KindCount struct {
	Kind  Kind   `json:"kind"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// YearArchive lists the events of one year by date.
type YearArchive struct {
	Year         int     `json:"year"`
	Events       []Event `json:"events"`
	PreviousYear *int    `json:"previous_year,omitempty"`
	NextYear     *int    `json:"next_year,omitempty"`
}
