package reading

import (
	"context"

	"github.com/rpggio/spectator/internal/domain/activity"
	"github.com/rpggio/spectator/internal/domain/creator"
)

// SeriesRepository provides persistence for publication series, listed
// by TitleSort. A limit <= 0 returns every series.
type SeriesRepository interface {
	Create(ctx context.Context, s *Series) error
	Get(ctx context.Context, id string) (*Series, error)
	Update(ctx context.Context, s *Series) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, offset, limit int) ([]Series, error)
	UpdateSortKey(ctx context.Context, id, key string) error
}

// PublicationRepository provides persistence for publications. List
// returns publications ordered by TitleSort; a limit <= 0 returns every
// match. ListByState orders by creation time.
type PublicationRepository interface {
	Create(ctx context.Context, p *Publication) error
	Get(ctx context.Context, id string) (*Publication, error)
	Update(ctx context.Context, p *Publication) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, opts ListPublicationsOptions) (int, error)
	List(ctx context.Context, opts ListPublicationsOptions, offset, limit int) ([]Publication, error)
	ListByState(ctx context.Context, state PublicationState) ([]Publication, error)
	UpdateSortKey(ctx context.Context, id, key string) error
}

// ReadingRepository provides persistence for readings.
type ReadingRepository interface {
	Create(ctx context.Context, r *Reading) error
	Get(ctx context.Context, id string) (*Reading, error)
	Update(ctx context.Context, r *Reading) error
	Delete(ctx context.Context, id string) error
	ForPublication(ctx context.Context, publicationID string) ([]Reading, error)
	EndedInYear(ctx context.Context, year int) ([]Reading, error)
}

// CreditRepository lists the credits on a publication.
type CreditRepository interface {
	ForSubject(ctx context.Context, subjectType creator.SubjectType, subjectID string) ([]creator.Credit, error)
}

// ActivityRepository logs reading activity.
type ActivityRepository = activity.Sink
