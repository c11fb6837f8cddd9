package sqlite

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rpggio/spectator/internal/domain/creator"
	"github.com/rpggio/spectator/internal/domain/reading"
	"github.com/rpggio/spectator/internal/naturalsort"
	"github.com/rpggio/spectator/internal/repository"
	"github.com/stretchr/testify/require"
)

func insertCreator(t *testing.T, db *DB, id, name string, kind creator.Kind) *creator.Creator {
	t.Helper()
	c := &creator.Creator{ID: id, Kind: kind, Name: name, CreatedAt: testTime(), ModifiedAt: testTime()}
	c.NameSort = naturalsort.Key(c)
	require.NoError(t, NewCreatorRepository(db).Create(context.Background(), c))
	return c
}

func insertPublication(t *testing.T, db *DB, id, title string) *reading.Publication {
	t.Helper()
	p := &reading.Publication{ID: id, Title: title, Kind: reading.KindBook, CreatedAt: testTime(), ModifiedAt: testTime()}
	p.TitleSort = naturalsort.Key(p)
	require.NoError(t, NewPublicationRepository(db).Create(context.Background(), p))
	return p
}

func TestCreatorRepository_CRUD(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCreatorRepository(db)

	c := insertCreator(t, db, "c1", "David Foster Wallace", creator.KindIndividual)

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "wallace, david foster", got.NameSort)
	require.Equal(t, creator.KindIndividual, got.Kind)

	c.Name = "D. F. Wallace"
	c.NameSort = naturalsort.Key(c)
	require.NoError(t, repo.Update(ctx, c))
	got, err = repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "wallace, d. f.", got.NameSort)

	require.NoError(t, repo.Delete(ctx, "c1"))
	_, err = repo.Get(ctx, "c1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, "c1"), repository.ErrNotFound)
}

func TestCreatorRepository_ListOrderAndPaging(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCreatorRepository(db)

	insertCreator(t, db, "1", "Zadie Smith", creator.KindIndividual)
	insertCreator(t, db, "2", "John Le Carre", creator.KindIndividual)
	insertCreator(t, db, "3", "Daphne du Maurier", creator.KindIndividual)
	insertCreator(t, db, "4", "The Long Blondes", creator.KindGroup)

	individual := creator.KindIndividual
	opts := creator.ListOptions{Kind: &individual}

	n, err := repo.Count(ctx, opts)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	all, err := repo.List(ctx, opts, 0, 0)
	require.NoError(t, err)
	names := make([]string, 0, len(all))
	for _, c := range all {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"John Le Carre", "Daphne du Maurier", "Zadie Smith"}, names)

	page, err := repo.List(ctx, opts, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "3", page[0].ID)
}

func TestCreatorRepository_SortKeyTruncated(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCreatorRepository(db)

	long := strings.Repeat("é", 300)
	insertCreator(t, db, "c1", long, creator.KindGroup)

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, naturalsort.MaxKeyLength, utf8.RuneCountInString(got.NameSort))

	require.NoError(t, repo.UpdateSortKey(ctx, "c1", "short"))
	got, err = repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "short", got.NameSort)

	require.ErrorIs(t, repo.UpdateSortKey(ctx, "missing", "x"), repository.ErrNotFound)
}

func TestCreditRepository(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCreditRepository(db)

	insertCreator(t, db, "c1", "Terry Pratchett", creator.KindIndividual)
	insertCreator(t, db, "c2", "Neil Gaiman", creator.KindIndividual)
	insertPublication(t, db, "p1", "Good Omens")

	credits := []*creator.Credit{
		{ID: "cr1", CreatorID: "c1", SubjectType: creator.SubjectPublication, SubjectID: "p1", RoleName: "Author", RoleOrder: 2, CreatedAt: testTime()},
		{ID: "cr2", CreatorID: "c2", SubjectType: creator.SubjectPublication, SubjectID: "p1", RoleName: "Author", RoleOrder: 1, CreatedAt: testTime()},
	}
	for _, c := range credits {
		require.NoError(t, repo.Add(ctx, c))
	}

	got, err := repo.ForSubject(ctx, creator.SubjectPublication, "p1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Neil Gaiman", got[0].CreatorName)
	require.Equal(t, "Good Omens", got[0].SubjectTitle)
	require.Equal(t, "book", got[0].SubjectKind)

	forCreator, err := repo.ForCreator(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, forCreator, 1)

	err = repo.Add(ctx, &creator.Credit{ID: "cr3", CreatorID: "c1", SubjectType: creator.SubjectEvent, SubjectID: "nope", RoleOrder: 1, CreatedAt: testTime()})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)

	err = repo.Add(ctx, &creator.Credit{ID: "cr4", CreatorID: "ghost", SubjectType: creator.SubjectPublication, SubjectID: "p1", RoleOrder: 1, CreatedAt: testTime()})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)

	// Deleting the subject removes its credits.
	require.NoError(t, NewPublicationRepository(db).Delete(ctx, "p1"))
	got, err = repo.ForSubject(ctx, creator.SubjectPublication, "p1")
	require.NoError(t, err)
	require.Empty(t, got)

	require.ErrorIs(t, repo.Remove(ctx, "cr1"), repository.ErrNotFound)
}
