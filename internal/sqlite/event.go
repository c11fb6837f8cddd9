package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rpggio/spectator/internal/domain/event"
	"github.com/rpggio/spectator/internal/naturalsort"
	"github.com/rpggio/spectator/internal/repository"
)

// VenueRepository implements event.VenueRepository for SQLite
type VenueRepository struct {
	db *DB
}

// NewVenueRepository creates a new VenueRepository
func NewVenueRepository(db *DB) *VenueRepository {
	return &VenueRepository{db: db}
}

const venueColumns = `id, name, name_sort, latitude, longitude, created_at, modified_at`

// Create inserts a venue
func (r *VenueRepository) Create(ctx context.Context, v *event.Venue) error {
	query := `INSERT INTO venues (` + venueColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.Name, naturalsort.Truncate(v.NameSort), nullFloat(v.Latitude), nullFloat(v.Longitude), v.CreatedAt, v.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create venue: %w", mapWriteError(err))
	}
	return nil
}

// Get retrieves a venue by ID
func (r *VenueRepository) Get(ctx context.Context, id string) (*event.Venue, error) {
	v, err := scanVenue(r.db.QueryRowContext(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	return v, nil
}

// Update saves a venue's fields
func (r *VenueRepository) Update(ctx context.Context, v *event.Venue) error {
	query := `
		UPDATE venues SET name = ?, name_sort = ?, latitude = ?, longitude = ?, modified_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		v.Name, naturalsort.Truncate(v.NameSort), nullFloat(v.Latitude), nullFloat(v.Longitude), v.ModifiedAt, v.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update venue: %w", mapWriteError(err))
	}
	return requireAffected(res)
}

// Delete removes a venue, detaching its events
func (r *VenueRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete venue: %w", err)
	}
	return requireAffected(res)
}

// Count returns the number of venues
func (r *VenueRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM venues`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count venues: %w", err)
	}
	return n, nil
}

// List returns venues ordered by sort key
func (r *VenueRepository) List(ctx context.Context, offset, limit int) ([]event.Venue, error) {
	query, args := pageClause(`SELECT `+venueColumns+` FROM venues ORDER BY name_sort, id`, nil, offset, limit)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	defer rows.Close()

	var out []event.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan venue: %w", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating venue rows: %w", err)
	}
	return out, nil
}

// UpdateSortKey replaces a venue's stored sort key
func (r *VenueRepository) UpdateSortKey(ctx context.Context, id, key string) error {
	return updateSortKey(ctx, r.db, "venues", "name_sort", id, key)
}

func scanVenue(s rowScanner) (*event.Venue, error) {
	var v event.Venue
	var lat, long sql.NullFloat64
	if err := s.Scan(&v.ID, &v.Name, &v.NameSort, &lat, &long, &v.CreatedAt, &v.ModifiedAt); err != nil {
		return nil, err
	}
	if lat.Valid {
		v.Latitude = &lat.Float64
	}
	if long.Valid {
		v.Longitude = &long.Float64
	}
	return &v, nil
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// WorkRepository implements event.WorkRepository for SQLite
type WorkRepository struct {
	db *DB
}

// NewWorkRepository creates a new WorkRepository
func NewWorkRepository(db *DB) *WorkRepository {
	return &WorkRepository{db: db}
}

const workColumns = `w.id, w.kind, w.title, w.title_sort, w.year, w.created_at, w.modified_at`

// Create inserts a work
func (r *WorkRepository) Create(ctx context.Context, w *event.Work) error {
	query := `
		INSERT INTO works (id, kind, title, title_sort, year, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		w.ID, w.Kind, w.Title, naturalsort.Truncate(w.TitleSort), w.Year, w.CreatedAt, w.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create work: %w", mapWriteError(err))
	}
	return nil
}

// Get retrieves a work by ID
func (r *WorkRepository) Get(ctx context.Context, id string) (*event.Work, error) {
	w, err := scanWork(r.db.QueryRowContext(ctx, `SELECT `+workColumns+` FROM works w WHERE w.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get work: %w", err)
	}
	return w, nil
}

// Update saves a work's fields
func (r *WorkRepository) Update(ctx context.Context, w *event.Work) error {
	query := `
		UPDATE works SET kind = ?, title = ?, title_sort = ?, year = ?, modified_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		w.Kind, w.Title, naturalsort.Truncate(w.TitleSort), w.Year, w.ModifiedAt, w.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update work: %w", mapWriteError(err))
	}
	return requireAffected(res)
}

// Delete removes a work with its event links and credits
func (r *WorkRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM works WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete work: %w", err)
	}
	return requireAffected(res)
}

func workFilter(opts event.ListWorksOptions) (string, []any) {
	if opts.Kind != nil {
		return " WHERE w.kind = ?", []any{*opts.Kind}
	}
	return "", nil
}

// Count returns the number of matching works
func (r *WorkRepository) Count(ctx context.Context, opts event.ListWorksOptions) (int, error) {
	where, args := workFilter(opts)
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM works w`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count works: %w", err)
	}
	return n, nil
}

// List returns matching works ordered by sort key
func (r *WorkRepository) List(ctx context.Context, opts event.ListWorksOptions, offset, limit int) ([]event.Work, error) {
	where, args := workFilter(opts)
	query, args := pageClause(`SELECT `+workColumns+` FROM works w`+where+` ORDER BY w.title_sort, w.id`, args, offset, limit)
	return r.query(ctx, query, args...)
}

// ForEvent lists the works featured at an event in billing order
func (r *WorkRepository) ForEvent(ctx context.Context, eventID string) ([]event.Work, error) {
	return r.query(ctx, `
		SELECT `+workColumns+`
		FROM works w
		JOIN event_works ew ON ew.work_id = w.id
		WHERE ew.event_id = ?
		ORDER BY ew.position, w.title_sort`, eventID)
}

// UpdateSortKey replaces a work's stored sort key
func (r *WorkRepository) UpdateSortKey(ctx context.Context, id, key string) error {
	return updateSortKey(ctx, r.db, "works", "title_sort", id, key)
}

func (r *WorkRepository) query(ctx context.Context, query string, args ...any) ([]event.Work, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list works: %w", err)
	}
	defer rows.Close()

	var out []event.Work
	for rows.Next() {
		w, err := scanWork(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work: %w", err)
		}
		out = append(out, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating work rows: %w", err)
	}
	return out, nil
}

func scanWork(s rowScanner) (*event.Work, error) {
	var w event.Work
	if err := s.Scan(&w.ID, &w.Kind, &w.Title, &w.TitleSort, &w.Year, &w.CreatedAt, &w.ModifiedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

// EventRepository implements event.EventRepository for SQLite
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventSelect = `
	SELECT e.id, e.kind, e.title, e.title_sort, e.date, COALESCE(e.venue_id, ''),
		e.created_at, e.modified_at, COALESCE(v.name, '')
	FROM events e
	LEFT JOIN venues v ON v.id = e.venue_id
`

// Create inserts an event and its work links
func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (id, kind, title, title_sort, date, venue_id, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		e.ID, e.Kind, e.Title, naturalsort.Truncate(e.TitleSort), e.Date.Format(dateLayout),
		nullString(e.VenueID), e.CreatedAt, e.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", mapWriteError(err))
	}
	if err := replaceEventWorks(ctx, tx, e.ID, e.WorkIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// Get retrieves an event by ID with its work IDs
func (r *EventRepository) Get(ctx context.Context, id string) (*event.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, eventSelect+` WHERE e.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if e.WorkIDs, err = r.workIDs(ctx, id); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *EventRepository) workIDs(ctx context.Context, eventID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT work_id FROM event_works WHERE event_id = ? ORDER BY position`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list event works: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan event work: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Update saves an event's fields and replaces its work links
func (r *EventRepository) Update(ctx context.Context, e *event.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE events SET kind = ?, title = ?, title_sort = ?, date = ?, venue_id = ?, modified_at = ?
		WHERE id = ?
	`
	res, err := tx.ExecContext(ctx, query,
		e.Kind, e.Title, naturalsort.Truncate(e.TitleSort), e.Date.Format(dateLayout),
		nullString(e.VenueID), e.ModifiedAt, e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", mapWriteError(err))
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	if err := replaceEventWorks(ctx, tx, e.ID, e.WorkIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceEventWorks(ctx context.Context, tx *sql.Tx, eventID string, workIDs []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM event_works WHERE event_id = ?`, eventID); err != nil {
		return fmt.Errorf("failed to clear event works: %w", err)
	}
	for i, workID := range workIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO event_works (event_id, work_id, position) VALUES (?, ?, ?)`,
			eventID, workID, i,
		); err != nil {
			return fmt.Errorf("failed to link work %s: %w", workID, mapWriteError(err))
		}
	}
	return nil
}

// Delete removes an event with its work links and credits
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return requireAffected(res)
}

func eventFilter(opts event.ListEventsOptions) (string, []any) {
	where := " WHERE 1 = 1"
	var args []any
	if opts.Kind != nil {
		where += " AND e.kind = ?"
		args = append(args, *opts.Kind)
	}
	if opts.VenueID != "" {
		where += " AND e.venue_id = ?"
		args = append(args, opts.VenueID)
	}
	if opts.WorkID != "" {
		where += " AND EXISTS (SELECT 1 FROM event_works ew WHERE ew.event_id = e.id AND ew.work_id = ?)"
		args = append(args, opts.WorkID)
	}
	return where, args
}

// Count returns the number of matching events
func (r *EventRepository) Count(ctx context.Context, opts event.ListEventsOptions) (int, error) {
	where, args := eventFilter(opts)
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events e`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}

// List returns matching events, newest first
func (r *EventRepository) List(ctx context.Context, opts event.ListEventsOptions, offset, limit int) ([]event.Event, error) {
	where, args := eventFilter(opts)
	query, args := pageClause(eventSelect+where+` ORDER BY e.date DESC, e.title_sort, e.id`, args, offset, limit)
	return r.query(ctx, query, args...)
}

// CountByKind returns the number of events of each kind present
func (r *EventRepository) CountByKind(ctx context.Context) (map[event.Kind]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM events GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("failed to count events by kind: %w", err)
	}
	defer rows.Close()

	counts := map[event.Kind]int{}
	for rows.Next() {
		var kind event.Kind
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// InYear lists the events of a year by date
func (r *EventRepository) InYear(ctx context.Context, year int) ([]event.Event, error) {
	return r.query(ctx, eventSelect+`
		WHERE substr(e.date, 1, 4) = ?
		ORDER BY e.date, e.title_sort, e.id`, fmt.Sprintf("%04d", year))
}

// MinYear returns the year of the earliest event
func (r *EventRepository) MinYear(ctx context.Context) (int, bool, error) {
	var date sql.NullString
	if err := r.db.QueryRowContext(ctx, `SELECT MIN(date) FROM events`).Scan(&date); err != nil {
		return 0, false, fmt.Errorf("failed to find earliest event: %w", err)
	}
	if !date.Valid || len(date.String) < 4 {
		return 0, false, nil
	}
	year, err := strconv.Atoi(date.String[:4])
	if err != nil {
		return 0, false, fmt.Errorf("invalid stored date %q: %w", date.String, err)
	}
	return year, true, nil
}

// UpdateSortKey replaces an event's stored sort key
func (r *EventRepository) UpdateSortKey(ctx context.Context, id, key string) error {
	return updateSortKey(ctx, r.db, "events", "title_sort", id, key)
}

func (r *EventRepository) query(ctx context.Context, query string, args ...any) ([]event.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var out []event.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return out, nil
}

func scanEvent(s rowScanner) (*event.Event, error) {
	var e event.Event
	var date string
	if err := s.Scan(
		&e.ID, &e.Kind, &e.Title, &e.TitleSort, &date, &e.VenueID,
		&e.CreatedAt, &e.ModifiedAt, &e.VenueName,
	); err != nil {
		return nil, err
	}
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("invalid stored date %q: %w", date, err)
	}
	e.Date = t
	return &e, nil
}
