package search_test

import (
	"context"
	"testing"

	"github.com/rpggio/spectator/internal/domain/search"
	"github.com/rpggio/spectator/internal/paginate"
	"github.com/rpggio/spectator/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

func TestSearchService_Search(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SearchRepository{}
	hits := []search.Result{{SubjectType: search.SubjectCreator, SubjectID: "c1", Title: "Le Tigre"}}

	repo.On("Count", ctx, "tigre", search.Options{}).Return(1, nil)
	repo.On("Search", ctx, "tigre", search.Options{}, 0, 1).Return(hits, nil)

	svc := search.NewService(repo, paginate.DefaultPolicy(), nil)
	res, err := svc.Search(ctx, "  tigre ", search.Options{}, paginate.Request{})
	require.NoError(t, err)
	require.Equal(t, hits, res.Items)
	require.Equal(t, 1, res.Page.Count)
	repo.AssertExpectations(t)
}

func TestSearchService_BlankQuery(t *testing.T) {
	svc := search.NewService(&mocks.SearchRepository{}, paginate.DefaultPolicy(), nil)
	_, err := svc.Search(context.Background(), "   ", search.Options{}, paginate.Request{})
	require.ErrorIs(t, err, search.ErrInvalidQuery)
}

func TestSearchService_PageOutOfRange(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SearchRepository{}
	repo.On("Count", ctx, "x", search.Options{}).Return(3, nil)

	strict := false
	svc := search.NewService(repo, paginate.DefaultPolicy(), nil)
	_, err := svc.Search(ctx, "x", search.Options{}, paginate.Request{Token: "2", SoftLimit: &strict})
	require.ErrorIs(t, err, paginate.ErrPageOutOfRange)
	repo.AssertNumberOfCalls(t, "Search", 0)
}
