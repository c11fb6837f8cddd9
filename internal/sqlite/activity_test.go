package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/spectator/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogAndList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	base := testTime()
	entries := []*activity.ActivityEntry{
		{SubjectType: "creator", SubjectID: "c1", ActivityType: activity.TypeCreated, Summary: "one", CreatedAt: base},
		{SubjectType: "venue", SubjectID: "v1", ActivityType: activity.TypeCreated, Summary: "two", CreatedAt: base.Add(time.Minute)},
		{SubjectType: "creator", SubjectID: "c1", ActivityType: activity.TypeUpdated, Summary: "three", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		require.NoError(t, repo.Log(ctx, e))
		require.NotZero(t, e.ID)
	}

	all, err := repo.List(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "three", all[0].Summary)

	creators, err := repo.List(ctx, activity.ListActivityOptions{SubjectType: "creator", SubjectID: "c1"})
	require.NoError(t, err)
	require.Len(t, creators, 2)

	updated := activity.TypeUpdated
	filtered, err := repo.List(ctx, activity.ListActivityOptions{ActivityType: &updated})
	require.NoError(t, err)
	require.Len(t, filtered, 1)

	paged, err := repo.List(ctx, activity.ListActivityOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	require.Equal(t, "two", paged[0].Summary)
}
