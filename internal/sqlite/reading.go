package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/spectator/internal/domain/reading"
	"github.com/rpggio/spectator/internal/naturalsort"
	"github.com/rpggio/spectator/internal/repository"
)

// SeriesRepository implements reading.SeriesRepository for SQLite
type SeriesRepository struct {
	db *DB
}

// NewSeriesRepository creates a new SeriesRepository
func NewSeriesRepository(db *DB) *SeriesRepository {
	return &SeriesRepository{db: db}
}

const seriesColumns = `id, title, title_sort, custom_sort, url, created_at, modified_at`

// Create inserts a series
func (r *SeriesRepository) Create(ctx context.Context, s *reading.Series) error {
	query := `
		INSERT INTO publication_series (` + seriesColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Title, naturalsort.Truncate(s.TitleSort), boolToInt(s.CustomSort), s.URL, s.CreatedAt, s.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create series: %w", mapWriteError(err))
	}
	return nil
}

// Get retrieves a series by ID
func (r *SeriesRepository) Get(ctx context.Context, id string) (*reading.Series, error) {
	s, err := scanSeries(r.db.QueryRowContext(ctx, `SELECT `+seriesColumns+` FROM publication_series WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get series: %w", err)
	}
	return s, nil
}

// Update saves a series' fields
func (r *SeriesRepository) Update(ctx context.Context, s *reading.Series) error {
	query := `
		UPDATE publication_series
		SET title = ?, title_sort = ?, custom_sort = ?, url = ?, modified_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		s.Title, naturalsort.Truncate(s.TitleSort), boolToInt(s.CustomSort), s.URL, s.ModifiedAt, s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update series: %w", mapWriteError(err))
	}
	return requireAffected(res)
}

// Delete removes a series, detaching its publications
func (r *SeriesRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM publication_series WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete series: %w", err)
	}
	return requireAffected(res)
}

// Count returns the number of series
func (r *SeriesRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM publication_series`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count series: %w", err)
	}
	return n, nil
}

// List returns series ordered by sort key
func (r *SeriesRepository) List(ctx context.Context, offset, limit int) ([]reading.Series, error) {
	query, args := pageClause(`SELECT `+seriesColumns+` FROM publication_series ORDER BY title_sort, id`, nil, offset, limit)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list series: %w", err)
	}
	defer rows.Close()

	var out []reading.Series
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan series: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating series rows: %w", err)
	}
	return out, nil
}

// UpdateSortKey replaces a series' stored sort key
func (r *SeriesRepository) UpdateSortKey(ctx context.Context, id, key string) error {
	return updateSortKey(ctx, r.db, "publication_series", "title_sort", id, key)
}

func scanSeries(s rowScanner) (*reading.Series, error) {
	var series reading.Series
	var custom int
	if err := s.Scan(
		&series.ID, &series.Title, &series.TitleSort, &custom, &series.URL, &series.CreatedAt, &series.ModifiedAt,
	); err != nil {
		return nil, err
	}
	series.CustomSort = custom != 0
	return &series, nil
}

// PublicationRepository implements reading.PublicationRepository for SQLite
type PublicationRepository struct {
	db *DB
}

// NewPublicationRepository creates a new PublicationRepository
func NewPublicationRepository(db *DB) *PublicationRepository {
	return &PublicationRepository{db: db}
}

const publicationSelect = `
	SELECT p.id, p.title, p.title_sort, p.kind, COALESCE(p.series_id, ''), p.notes,
		p.created_at, p.modified_at, COALESCE(s.title, '')
	FROM publications p
	LEFT JOIN publication_series s ON s.id = p.series_id
`

// Create inserts a publication
func (r *PublicationRepository) Create(ctx context.Context, p *reading.Publication) error {
	query := `
		INSERT INTO publications (id, title, title_sort, kind, series_id, notes, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Title, naturalsort.Truncate(p.TitleSort), p.Kind, nullString(p.SeriesID), p.Notes, p.CreatedAt, p.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create publication: %w", mapWriteError(err))
	}
	return nil
}

// Get retrieves a publication by ID
func (r *PublicationRepository) Get(ctx context.Context, id string) (*reading.Publication, error) {
	p, err := scanPublication(r.db.QueryRowContext(ctx, publicationSelect+` WHERE p.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get publication: %w", err)
	}
	return p, nil
}

// Update saves a publication's fields
func (r *PublicationRepository) Update(ctx context.Context, p *reading.Publication) error {
	query := `
		UPDATE publications
		SET title = ?, title_sort = ?, kind = ?, series_id = ?, notes = ?, modified_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		p.Title, naturalsort.Truncate(p.TitleSort), p.Kind, nullString(p.SeriesID), p.Notes, p.ModifiedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update publication: %w", mapWriteError(err))
	}
	return requireAffected(res)
}

// Delete removes a publication with its readings and credits
func (r *PublicationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM publications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete publication: %w", err)
	}
	return requireAffected(res)
}

func publicationFilter(opts reading.ListPublicationsOptions) (string, []any) {
	where := " WHERE 1 = 1"
	var args []any
	if opts.Kind != nil {
		where += " AND p.kind = ?"
		args = append(args, *opts.Kind)
	}
	if opts.SeriesID != "" {
		where += " AND p.series_id = ?"
		args = append(args, opts.SeriesID)
	}
	return where, args
}

// Count returns the number of matching publications
func (r *PublicationRepository) Count(ctx context.Context, opts reading.ListPublicationsOptions) (int, error) {
	where, args := publicationFilter(opts)
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM publications p`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count publications: %w", err)
	}
	return n, nil
}

// List returns matching publications ordered by sort key
func (r *PublicationRepository) List(ctx context.Context, opts reading.ListPublicationsOptions, offset, limit int) ([]reading.Publication, error) {
	where, args := publicationFilter(opts)
	query, args := pageClause(publicationSelect+where+` ORDER BY p.title_sort, p.id`, args, offset, limit)
	return r.query(ctx, query, args...)
}

// ListByState returns unread or in-progress publications, oldest first
func (r *PublicationRepository) ListByState(ctx context.Context, state reading.PublicationState) ([]reading.Publication, error) {
	var where string
	switch state {
	case reading.StateUnread:
		where = ` WHERE NOT EXISTS (SELECT 1 FROM readings rd WHERE rd.publication_id = p.id)`
	case reading.StateInProgress:
		where = ` WHERE EXISTS (SELECT 1 FROM readings rd WHERE rd.publication_id = p.id AND rd.end_date IS NULL)`
	default:
		return nil, fmt.Errorf("unknown publication state %d: %w", state, repository.ErrInvalidInput)
	}
	return r.query(ctx, publicationSelect+where+` ORDER BY p.created_at, p.id`)
}

// UpdateSortKey replaces a publication's stored sort key
func (r *PublicationRepository) UpdateSortKey(ctx context.Context, id, key string) error {
	return updateSortKey(ctx, r.db, "publications", "title_sort", id, key)
}

func (r *PublicationRepository) query(ctx context.Context, query string, args ...any) ([]reading.Publication, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list publications: %w", err)
	}
	defer rows.Close()

	var out []reading.Publication
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan publication: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating publication rows: %w", err)
	}
	return out, nil
}

func scanPublication(s rowScanner) (*reading.Publication, error) {
	var p reading.Publication
	if err := s.Scan(
		&p.ID, &p.Title, &p.TitleSort, &p.Kind, &p.SeriesID, &p.Notes,
		&p.CreatedAt, &p.ModifiedAt, &p.SeriesTitle,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// ReadingRepository implements reading.ReadingRepository for SQLite
type ReadingRepository struct {
	db *DB
}

// NewReadingRepository creates a new ReadingRepository
func NewReadingRepository(db *DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

const readingSelect = `
	SELECT rd.id, rd.publication_id, rd.start_date, rd.end_date, rd.is_finished,
		rd.created_at, rd.modified_at, p.title
	FROM readings rd
	JOIN publications p ON p.id = rd.publication_id
`

// Create inserts a reading
func (r *ReadingRepository) Create(ctx context.Context, rd *reading.Reading) error {
	query := `
		INSERT INTO readings (id, publication_id, start_date, end_date, is_finished, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		rd.ID, rd.PublicationID, formatDate(rd.StartDate), formatDate(rd.EndDate),
		boolToInt(rd.IsFinished), rd.CreatedAt, rd.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reading: %w", mapWriteError(err))
	}
	return nil
}

// Get retrieves a reading by ID
func (r *ReadingRepository) Get(ctx context.Context, id string) (*reading.Reading, error) {
	rd, err := scanReading(r.db.QueryRowContext(ctx, readingSelect+` WHERE rd.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reading: %w", err)
	}
	return rd, nil
}

// Update saves a reading's dates and finished flag
func (r *ReadingRepository) Update(ctx context.Context, rd *reading.Reading) error {
	query := `
		UPDATE readings SET start_date = ?, end_date = ?, is_finished = ?, modified_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		formatDate(rd.StartDate), formatDate(rd.EndDate), boolToInt(rd.IsFinished), rd.ModifiedAt, rd.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reading: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a reading
func (r *ReadingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM readings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reading: %w", err)
	}
	return requireAffected(res)
}

// ForPublication lists a publication's readings, earliest first
func (r *ReadingRepository) ForPublication(ctx context.Context, publicationID string) ([]reading.Reading, error) {
	return r.query(ctx, readingSelect+`
		WHERE rd.publication_id = ?
		ORDER BY rd.start_date IS NULL, rd.start_date, rd.created_at`, publicationID)
}

// EndedInYear lists readings whose end date falls in year, by end date
func (r *ReadingRepository) EndedInYear(ctx context.Context, year int) ([]reading.Reading, error) {
	return r.query(ctx, readingSelect+`
		WHERE substr(rd.end_date, 1, 4) = ?
		ORDER BY rd.end_date, rd.created_at`, fmt.Sprintf("%04d", year))
}

func (r *ReadingRepository) query(ctx context.Context, query string, args ...any) ([]reading.Reading, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	defer rows.Close()

	var out []reading.Reading
	for rows.Next() {
		rd, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		out = append(out, *rd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reading rows: %w", err)
	}
	return out, nil
}

func scanReading(s rowScanner) (*reading.Reading, error) {
	var rd reading.Reading
	var start, end sql.NullString
	var finished int
	if err := s.Scan(
		&rd.ID, &rd.PublicationID, &start, &end, &finished,
		&rd.CreatedAt, &rd.ModifiedAt, &rd.PublicationTitle,
	); err != nil {
		return nil, err
	}
	var err error
	if rd.StartDate, err = parseDate(start); err != nil {
		return nil, err
	}
	if rd.EndDate, err = parseDate(end); err != nil {
		return nil, err
	}
	rd.IsFinished = finished != 0
	return &rd, nil
}

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func parseDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil, fmt.Errorf("invalid stored date %q: %w", s.String, err)
	}
	return &t, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
