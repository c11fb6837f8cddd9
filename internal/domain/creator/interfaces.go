package creator

import (
	"context"

	"github.com/rpggio/spectator/internal/domain/activity"
)

// Repository provides persistence for creators. List returns creators
// ordered by NameSort; a limit <= 0 returns every match.
type Repository interface {
	Create(ctx context.Context, c *Creator) error
	Get(ctx context.Context, id string) (*Creator, error)
	Update(ctx context.Context, c *Creator) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, opts ListOptions) (int, error)
	List(ctx context.Context, opts ListOptions, offset, limit int) ([]Creator, error)
	UpdateSortKey(ctx context.Context, id, key string) error
}

// CreditRepository provides persistence for credits.
type CreditRepository interface {
	Add(ctx context.Context, credit *Credit) error
	Get(ctx context.Context, id string) (*Credit, error)
	Remove(ctx context.Context, id string) error
	ForCreator(ctx context.Context, creatorID string) ([]Credit, error)
	ForSubject(ctx context.Context, subjectType SubjectType, subjectID string) ([]Credit, error)
}

// ActivityRepository logs creator activity.
type ActivityRepository = activity.Sink
