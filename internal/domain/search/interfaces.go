package search

import "context"

// Repository performs full-text search over the catalogue. Results are
// ordered by relevance.
type Repository interface {
	Count(ctx context.Context, query string, opts Options) (int, error)
	Search(ctx context.Context, query string, opts Options, offset, limit int) ([]Result, error)
}
