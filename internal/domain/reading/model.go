package reading

import (
	"time"

	"github.com/rpggio/spectator/internal/domain/creator"
	"github.com/rpggio/spectator/internal/naturalsort"
)

// DateLayout is the wire and storage format of reading dates.
const DateLayout = "2006-01-02"

// Series groups publications, e.g. a magazine or a book series. A
// caller-supplied TitleSort is kept as is and marked CustomSort.
type Series struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	TitleSort  string    `json:"title_sort"`
	CustomSort bool      `json:"custom_sort,omitempty"`
	URL        string    `json:"url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

func (s *Series) SortSource() string         { return s.Title }
func (s *Series) SortKind() naturalsort.Kind { return naturalsort.Thing }

// PublicationKind distinguishes books from periodicals.
type PublicationKind string

const (
	KindBook       PublicationKind = "book"
	KindPeriodical PublicationKind = "periodical"
)

// Valid reports whether k is a known publication kind.
func (k PublicationKind) Valid() bool {
	return k == KindBook || k == KindPeriodical
}

// Publication is a book or an issue of a periodical.
type Publication struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	TitleSort  string          `json:"title_sort"`
	Kind       PublicationKind `json:"kind"`
	SeriesID   string          `json:"series_id,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	ModifiedAt time.Time       `json:"modified_at"`

	SeriesTitle string `json:"series_title,omitempty"`
}

func (p *Publication) SortSource() string         { return p.Title }
func (p *Publication) SortKind() naturalsort.Kind { return naturalsort.Thing }

// Reading is one read-through of a publication. A reading without an end
// date is in progress.
type Reading struct {
	ID            string     `json:"id"`
	PublicationID string     `json:"publication_id"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	IsFinished    bool       `json:"is_finished"`
	CreatedAt     time.Time  `json:"created_at"`
	ModifiedAt    time.Time  `json:"modified_at"`

	PublicationTitle string `json:"publication_title,omitempty"`
}

// PublicationDetail is a publication with its series, credits and readings.
type PublicationDetail struct {
	Publication *Publication     `json:"publication"`
	Series      *Series          `json:"series,omitempty"`
	Credits     []creator.Credit `json:"credits"`
	Readings    []Reading        `json:"readings"`
}

// Overview is the reading home page.
type Overview struct {
	InProgress []Publication `json:"in_progress"`
	Unread     []Publication `json:"unread"`
}

// YearArchive lists the readings that ended in one year.
type YearArchive struct {
	Year         int       `json:"year"`
	Readings     []Reading `json:"readings"`
	PreviousYear *int      `json:"previous_year,omitempty"`
	NextYear     *int      `json:"next_year,omitempty"`
}
