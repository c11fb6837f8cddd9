package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/spectator/internal/paginate"
)

// Service searches the catalogue.
type Service struct {
	repo   Repository
	policy paginate.Policy
	logger *slog.Logger
}

// NewService creates a new search service.
func NewService(repo Repository, policy paginate.Policy, logger *slog.Logger) *Service {
	return &Service{repo: repo, policy: policy, logger: logger}
}

// Search returns one page of hits for query.
func (s *Service) Search(ctx context.Context, query string, opts Options, req paginate.Request) (*paginate.Result[Result], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidQuery
	}
	count, err := s.repo.Count(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("counting search results: %w", err)
	}
	return paginate.Fetch(s.policy, req, count, func(offset, limit int) ([]Result, error) {
		return s.repo.Search(ctx, query, opts, offset, limit)
	})
}
