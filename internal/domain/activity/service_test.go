package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/spectator/internal/domain/activity"
	"github.com/rpggio/spectator/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	entry := &activity.ActivityEntry{
		SubjectType:  "creator",
		SubjectID:    "c1",
		ActivityType: activity.TypeCreated,
		Summary:      "created creator Douglas Adams",
	}

	repo.On("Log", ctx, entry).Return(nil)
	repo.On("List", ctx, activity.ListActivityOptions{SubjectType: "creator", Limit: activity.DefaultLimit}).
		Return([]activity.ActivityEntry{*entry}, nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogActivity(ctx, entry))
	require.False(t, entry.CreatedAt.IsZero())

	entries, err := svc.GetRecentActivity(ctx, activity.ListActivityOptions{SubjectType: "creator"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	repo.AssertExpectations(t)
}

func TestActivityService_LogValidation(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	require.ErrorIs(t, svc.LogActivity(context.Background(), nil), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.LogActivity(context.Background(), &activity.ActivityEntry{}), activity.ErrInvalidInput)
}

func TestRecord_IgnoresFailures(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, mock.Anything).Return(errors.New("disk full"))

	activity.Record(ctx, repo, nil, &activity.ActivityEntry{SubjectType: "venue", ActivityType: activity.TypeDeleted})
	activity.Record(ctx, nil, nil, &activity.ActivityEntry{SubjectType: "venue", ActivityType: activity.TypeDeleted})
	repo.AssertNumberOfCalls(t, "Log", 1)
}
