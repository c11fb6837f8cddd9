package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpggio/spectator/internal/domain/search"
)

// SearchRepository implements search.Repository over the catalog_fts index
type SearchRepository struct {
	db *DB
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db *DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// matchExpression turns free text into an FTS5 query: every word must
// match as a prefix. Quotes keep FTS5 operators in user input literal.
func matchExpression(query string) string {
	words := strings.Fields(query)
	terms := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ReplaceAll(w, `"`, `""`)
		terms = append(terms, `"`+w+`"*`)
	}
	return strings.Join(terms, " ")
}

func searchFilter(query string, opts search.Options) (string, []any) {
	where := " WHERE catalog_fts MATCH ?"
	args := []any{matchExpression(query)}

	if len(opts.SubjectTypes) > 0 {
		placeholders := make([]string, len(opts.SubjectTypes))
		for i, typ := range opts.SubjectTypes {
			placeholders[i] = "?"
			args = append(args, typ)
		}
		where += fmt.Sprintf(" AND subject_type IN (%s)", strings.Join(placeholders, ","))
	}
	return where, args
}

// Count returns the number of hits for query
func (r *SearchRepository) Count(ctx context.Context, query string, opts search.Options) (int, error) {
	if strings.TrimSpace(query) == "" {
		return 0, nil
	}
	where, args := searchFilter(query, opts)
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_fts`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count search results: %w", err)
	}
	return n, nil
}

// Search performs a full-text search over the catalogue
func (r *SearchRepository) Search(ctx context.Context, query string, opts search.Options, offset, limit int) ([]search.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	where, args := searchFilter(query, opts)
	baseQuery := `
		SELECT
			subject_type,
			subject_id,
			title,
			snippet(catalog_fts, 2, '[', ']', '...', 10) as snippet,
			bm25(catalog_fts) as rank
		FROM catalog_fts` + where + `
		ORDER BY rank, title
	`
	baseQuery, args = pageClause(baseQuery, args, offset, limit)

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalogue: %w", err)
	}
	defer rows.Close()

	var results []search.Result
	for rows.Next() {
		var result search.Result
		if err := rows.Scan(
			&result.SubjectType,
			&result.SubjectID,
			&result.Title,
			&result.Snippet,
			&result.Rank,
		); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}

	return results, nil
}
