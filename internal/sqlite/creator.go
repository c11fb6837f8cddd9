package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/spectator/internal/domain/creator"
	"github.com/rpggio/spectator/internal/naturalsort"
	"github.com/rpggio/spectator/internal/repository"
)

// CreatorRepository implements creator.Repository for SQLite
type CreatorRepository struct {
	db *DB
}

// NewCreatorRepository creates a new CreatorRepository
func NewCreatorRepository(db *DB) *CreatorRepository {
	return &CreatorRepository{db: db}
}

const creatorColumns = `id, kind, name, name_sort, created_at, modified_at`

// Create inserts a creator
func (r *CreatorRepository) Create(ctx context.Context, c *creator.Creator) error {
	query := `
		INSERT INTO creators (id, kind, name, name_sort, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Kind, c.Name, naturalsort.Truncate(c.NameSort), c.CreatedAt, c.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create creator: %w", mapWriteError(err))
	}
	return nil
}

// Get retrieves a creator by ID
func (r *CreatorRepository) Get(ctx context.Context, id string) (*creator.Creator, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+creatorColumns+` FROM creators WHERE id = ?`, id)
	c, err := scanCreator(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	return c, nil
}

// Update saves a creator's fields
func (r *CreatorRepository) Update(ctx context.Context, c *creator.Creator) error {
	query := `
		UPDATE creators SET kind = ?, name = ?, name_sort = ?, modified_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		c.Kind, c.Name, naturalsort.Truncate(c.NameSort), c.ModifiedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update creator: %w", mapWriteError(err))
	}
	return requireAffected(res)
}

// Delete removes a creator and, by cascade, their credits
func (r *CreatorRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM creators WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete creator: %w", err)
	}
	return requireAffected(res)
}

func creatorFilter(opts creator.ListOptions) (string, []any) {
	if opts.Kind != nil {
		return " WHERE kind = ?", []any{*opts.Kind}
	}
	return "", nil
}

// Count returns the number of matching creators
func (r *CreatorRepository) Count(ctx context.Context, opts creator.ListOptions) (int, error) {
	where, args := creatorFilter(opts)
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM creators`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count creators: %w", err)
	}
	return n, nil
}

// List returns matching creators ordered by sort key
func (r *CreatorRepository) List(ctx context.Context, opts creator.ListOptions, offset, limit int) ([]creator.Creator, error) {
	where, args := creatorFilter(opts)
	query, args := pageClause(`SELECT `+creatorColumns+` FROM creators`+where+` ORDER BY name_sort, id`, args, offset, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list creators: %w", err)
	}
	defer rows.Close()

	var out []creator.Creator
	for rows.Next() {
		c, err := scanCreator(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan creator: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating creator rows: %w", err)
	}
	return out, nil
}

// UpdateSortKey replaces a creator's stored sort key
func (r *CreatorRepository) UpdateSortKey(ctx context.Context, id, key string) error {
	return updateSortKey(ctx, r.db, "creators", "name_sort", id, key)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCreator(s rowScanner) (*creator.Creator, error) {
	var c creator.Creator
	if err := s.Scan(&c.ID, &c.Kind, &c.Name, &c.NameSort, &c.CreatedAt, &c.ModifiedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// updateSortKey writes a truncated sort key; table and column are fixed
// identifiers from this package.
func updateSortKey(ctx context.Context, db *DB, table, column, id, key string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = ? WHERE id = ?`, table, column)
	res, err := db.ExecContext(ctx, query, naturalsort.Truncate(key), id)
	if err != nil {
		return fmt.Errorf("failed to update %s sort key: %w", table, err)
	}
	return requireAffected(res)
}

// CreditRepository implements creator.CreditRepository for SQLite
type CreditRepository struct {
	db *DB
}

// NewCreditRepository creates a new CreditRepository
func NewCreditRepository(db *DB) *CreditRepository {
	return &CreditRepository{db: db}
}

var subjectTables = map[creator.SubjectType]string{
	creator.SubjectPublication: "publications",
	creator.SubjectEvent:       "events",
	creator.SubjectWork:        "works",
}

// Add inserts a credit. A missing subject is a foreign key violation.
func (r *CreditRepository) Add(ctx context.Context, credit *creator.Credit) error {
	table, ok := subjectTables[credit.SubjectType]
	if !ok {
		return fmt.Errorf("unknown subject type %q: %w", credit.SubjectType, repository.ErrInvalidInput)
	}
	var exists int
	if err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE id = ?`, table), credit.SubjectID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check credit subject: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("%s %s: %w", credit.SubjectType, credit.SubjectID, repository.ErrForeignKeyViolation)
	}

	query := `
		INSERT INTO credits (id, creator_id, subject_type, subject_id, role_name, role_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		credit.ID, credit.CreatorID, credit.SubjectType, credit.SubjectID,
		credit.RoleName, credit.RoleOrder, credit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add credit: %w", mapWriteError(err))
	}
	return nil
}

const creditSelect = `
	SELECT c.id, c.creator_id, c.subject_type, c.subject_id, c.role_name, c.role_order, c.created_at,
		cr.name, cr.kind, COALESCE(p.title, e.title, w.title, ''), COALESCE(p.kind, e.kind, w.kind, '')
	FROM credits c
	JOIN creators cr ON cr.id = c.creator_id
	LEFT JOIN publications p ON c.subject_type = 'publication' AND p.id = c.subject_id
	LEFT JOIN events e ON c.subject_type = 'event' AND e.id = c.subject_id
	LEFT JOIN works w ON c.subject_type = 'work' AND w.id = c.subject_id
`

// Get retrieves a credit by ID
func (r *CreditRepository) Get(ctx context.Context, id string) (*creator.Credit, error) {
	credit, err := scanCredit(r.db.QueryRowContext(ctx, creditSelect+` WHERE c.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credit: %w", err)
	}
	return credit, nil
}

// Remove deletes a credit
func (r *CreditRepository) Remove(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM credits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove credit: %w", err)
	}
	return requireAffected(res)
}

// ForCreator lists a creator's credits grouped by subject type and ordered
// by subject sort key
func (r *CreditRepository) ForCreator(ctx context.Context, creatorID string) ([]creator.Credit, error) {
	return r.query(ctx, creditSelect+`
		WHERE c.creator_id = ?
		ORDER BY c.subject_type, COALESCE(p.title_sort, e.title_sort, w.title_sort, ''), c.role_order, c.role_name`,
		creatorID)
}

// ForSubject lists a subject's credits in role order
func (r *CreditRepository) ForSubject(ctx context.Context, subjectType creator.SubjectType, subjectID string) ([]creator.Credit, error) {
	return r.query(ctx, creditSelect+`
		WHERE c.subject_type = ? AND c.subject_id = ?
		ORDER BY c.role_order, c.role_name, cr.name_sort`,
		subjectType, subjectID)
}

func (r *CreditRepository) query(ctx context.Context, query string, args ...any) ([]creator.Credit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list credits: %w", err)
	}
	defer rows.Close()

	var out []creator.Credit
	for rows.Next() {
		credit, err := scanCredit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit: %w", err)
		}
		out = append(out, *credit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credit rows: %w", err)
	}
	return out, nil
}

func scanCredit(s rowScanner) (*creator.Credit, error) {
	var c creator.Credit
	err := s.Scan(
		&c.ID, &c.CreatorID, &c.SubjectType, &c.SubjectID, &c.RoleName, &c.RoleOrder, &c.CreatedAt,
		&c.CreatorName, &c.CreatorKind, &c.SubjectTitle, &c.SubjectKind,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
