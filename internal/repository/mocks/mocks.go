package mocks

import (
	"context"

	"github.com/rpggio/spectator/internal/domain/activity"
	"github.com/rpggio/spectator/internal/domain/creator"
	"github.com/rpggio/spectator/internal/domain/event"
	"github.com/rpggio/spectator/internal/domain/reading"
	"github.com/rpggio/spectator/internal/domain/search"
	"github.com/stretchr/testify/mock"
)

func getAs[T any](args mock.Arguments, i int) T {
	var zero T
	if v, ok := args.Get(i).(T); ok {
		return v
	}
	return zero
}

// CreatorRepository is a mock for creator.Repository.
type CreatorRepository struct {
	mock.Mock
}

func (m *CreatorRepository) Create(ctx context.Context, c *creator.Creator) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CreatorRepository) Get(ctx context.Context, id string) (*creator.Creator, error) {
	args := m.Called(ctx, id)
	return getAs[*creator.Creator](args, 0), args.Error(1)
}

func (m *CreatorRepository) Update(ctx context.Context, c *creator.Creator) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CreatorRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CreatorRepository) Count(ctx context.Context, opts creator.ListOptions) (int, error) {
	args := m.Called(ctx, opts)
	return args.Int(0), args.Error(1)
}

func (m *CreatorRepository) List(ctx context.Context, opts creator.ListOptions, offset, limit int) ([]creator.Creator, error) {
	args := m.Called(ctx, opts, offset, limit)
	return getAs[[]creator.Creator](args, 0), args.Error(1)
}

func (m *CreatorRepository) UpdateSortKey(ctx context.Context, id, key string) error {
	return m.Called(ctx, id, key).Error(0)
}

// CreditRepository is a mock for creator.CreditRepository.
type CreditRepository struct {
	mock.Mock
}

func (m *CreditRepository) Add(ctx context.Context, credit *creator.Credit) error {
	return m.Called(ctx, credit).Error(0)
}

func (m *CreditRepository) Get(ctx context.Context, id string) (*creator.Credit, error) {
	args := m.Called(ctx, id)
	return getAs[*creator.Credit](args, 0), args.Error(1)
}

func (m *CreditRepository) Remove(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CreditRepository) ForCreator(ctx context.Context, creatorID string) ([]creator.Credit, error) {
	args := m.Called(ctx, creatorID)
	return getAs[[]creator.Credit](args, 0), args.Error(1)
}

func (m *CreditRepository) ForSubject(ctx context.Context, subjectType creator.SubjectType, subjectID string) ([]creator.Credit, error) {
	args := m.Called(ctx, subjectType, subjectID)
	return getAs[[]creator.Credit](args, 0), args.Error(1)
}

// SeriesRepository is a mock for reading.SeriesRepository.
type SeriesRepository struct {
	mock.Mock
}

func (m *SeriesRepository) Create(ctx context.Context, s *reading.Series) error {
	return m.Called(ctx, s).Error(0)
}

func (m *SeriesRepository) Get(ctx context.Context, id string) (*reading.Series, error) {
	args := m.Called(ctx, id)
	return getAs[*reading.Series](args, 0), args.Error(1)
}

func (m *SeriesRepository) Update(ctx context.Context, s *reading.Series) error {
	return m.Called(ctx, s).Error(0)
}

func (m *SeriesRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *SeriesRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *SeriesRepository) List(ctx context.Context, offset, limit int) ([]reading.Series, error) {
	args := m.Called(ctx, offset, limit)
	return getAs[[]reading.Series](args, 0), args.Error(1)
}

func (m *SeriesRepository) UpdateSortKey(ctx context.Context, id, key string) error {
	return m.Called(ctx, id, key).Error(0)
}

// PublicationRepository is a mock for reading.PublicationRepository.
type PublicationRepository struct {
	mock.Mock
}

func (m *PublicationRepository) Create(ctx context.Context, p *reading.Publication) error {
	return m.Called(ctx, p).Error(0)
}

func (m *PublicationRepository) Get(ctx context.Context, id string) (*reading.Publication, error) {
	args := m.Called(ctx, id)
	return getAs[*reading.Publication](args, 0), args.Error(1)
}

func (m *PublicationRepository) Update(ctx context.Context, p *reading.Publication) error {
	return m.Called(ctx, p).Error(0)
}

func (m *PublicationRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *PublicationRepository) Count(ctx context.Context, opts reading.ListPublicationsOptions) (int, error) {
	args := m.Called(ctx, opts)
	return args.Int(0), args.Error(1)
}

func (m *PublicationRepository) List(ctx context.Context, opts reading.ListPublicationsOptions, offset, limit int) ([]reading.Publication, error) {
	args := m.Called(ctx, opts, offset, limit)
	return getAs[[]reading.Publication](args, 0), args.Error(1)
}

func (m *PublicationRepository) ListByState(ctx context.Context, state reading.PublicationState) ([]reading.Publication, error) {
	args := m.Called(ctx, state)
	return getAs[[]reading.Publication](args, 0), args.Error(1)
}

func (m *PublicationRepository) UpdateSortKey(ctx context.Context, id, key string) error {
	return m.Called(ctx, id, key).Error(0)
}

// ReadingRepository is a mock for reading.ReadingRepository.
type ReadingRepository struct {
	mock.Mock
}

func (m *ReadingRepository) Create(ctx context.Context, r *reading.Reading) error {
	return m.Called(ctx, r).Error(0)
}

func (m *ReadingRepository) Get(ctx context.Context, id string) (*reading.Reading, error) {
	args := m.Called(ctx, id)
	return getAs[*reading.Reading](args, 0), args.Error(1)
}

func (m *ReadingRepository) Update(ctx context.Context, r *reading.Reading) error {
	return m.Called(ctx, r).Error(0)
}

func (m *ReadingRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ReadingRepository) ForPublication(ctx context.Context, publicationID string) ([]reading.Reading, error) {
	args := m.Called(ctx, publicationID)
	return getAs[[]reading.Reading](args, 0), args.Error(1)
}

func (m *ReadingRepository) EndedInYear(ctx context.Context, year int) ([]reading.Reading, error) {
	args := m.Called(ctx, year)
	return getAs[[]reading.Reading](args, 0), args.Error(1)
}

// VenueRepository is a mock for event.VenueRepository.
type VenueRepository struct {
	mock.Mock
}

func (m *VenueRepository) Create(ctx context.Context, v *event.Venue) error {
	return m.Called(ctx, v).Error(0)
}

func (m *VenueRepository) Get(ctx context.Context, id string) (*event.Venue, error) {
	args := m.Called(ctx, id)
	return getAs[*event.Venue](args, 0), args.Error(1)
}

func (m *VenueRepository) Update(ctx context.Context, v *event.Venue) error {
	return m.Called(ctx, v).Error(0)
}

func (m *VenueRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *VenueRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *VenueRepository) List(ctx context.Context, offset, limit int) ([]event.Venue, error) {
	args := m.Called(ctx, offset, limit)
	return getAs[[]event.Venue](args, 0), args.Error(1)
}

func (m *VenueRepository) UpdateSortKey(ctx context.Context, id, key string) error {
	return m.Called(ctx, id, key).Error(0)
}

// WorkRepository is a mock for event.WorkRepository.
type WorkRepository struct {
	mock.Mock
}

func (m *WorkRepository) Create(ctx context.Context, w *event.Work) error {
	return m.Called(ctx, w).Error(0)
}

func (m *WorkRepository) Get(ctx context.Context, id string) (*event.Work, error) {
	args := m.Called(ctx, id)
	return getAs[*event.Work](args, 0), args.Error(1)
}

func (m *WorkRepository) Update(ctx context.Context, w *event.Work) error {
	return m.Called(ctx, w).Error(0)
}

func (m *WorkRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *WorkRepository) Count(ctx context.Context, opts event.ListWorksOptions) (int, error) {
	args := m.Called(ctx, opts)
	return args.Int(0), args.Error(1)
}

func (m *WorkRepository) List(ctx context.Context, opts event.ListWorksOptions, offset, limit int) ([]event.Work, error) {
	args := m.Called(ctx, opts, offset, limit)
	return getAs[[]event.Work](args, 0), args.Error(1)
}

func (m *WorkRepository) ForEvent(ctx context.Context, eventID string) ([]event.Work, error) {
	args := m.Called(ctx, eventID)
	return getAs[[]event.Work](args, 0), args.Error(1)
}

func (m *WorkRepository) UpdateSortKey(ctx context.Context, id, key string) error {
	return m.Called(ctx, id, key).Error(0)
}

// EventRepository is a mock for event.EventRepository.
type EventRepository struct {
	mock.Mock
}

func (m *EventRepository) Create(ctx context.Context, e *event.Event) error {
	return m.Called(ctx, e).Error(0)
}

func (m *EventRepository) Get(ctx context.Context, id string) (*event.Event, error) {
	args := m.Called(ctx, id)
	return getAs[*event.Event](args, 0), args.Error(1)
}

func (m *EventRepository) Update(ctx context.Context, e *event.Event) error {
	return m.Called(ctx, e).Error(0)
}

func (m *EventRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *EventRepository) Count(ctx context.Context, opts event.ListEventsOptions) (int, error) {
	args := m.Called(ctx, opts)
	return args.Int(0), args.Error(1)
}

func (m *EventRepository) List(ctx context.Context, opts event.ListEventsOptions, offset, limit int) ([]event.Event, error) {
	args := m.Called(ctx, opts, offset, limit)
	return getAs[[]event.Event](args, 0), args.Error(1)
}

func (m *EventRepository) CountByKind(ctx context.Context) (map[event.Kind]int, error) {
	args := m.Called(ctx)
	return getAs[map[event.Kind]int](args, 0), args.Error(1)
}

func (m *EventRepository) InYear(ctx context.Context, year int) ([]event.Event, error) {
	args := m.Called(ctx, year)
	return getAs[[]event.Event](args, 0), args.Error(1)
}

func (m *EventRepository) MinYear(ctx context.Context) (int, bool, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *EventRepository) UpdateSortKey(ctx context.Context, id, key string) error {
	return m.Called(ctx, id, key).Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	return getAs[[]activity.ActivityEntry](args, 0), args.Error(1)
}

// SearchRepository is a mock for search.Repository.
type SearchRepository struct {
	mock.Mock
}

func (m *SearchRepository) Count(ctx context.Context, query string, opts search.Options) (int, error) {
	args := m.Called(ctx, query, opts)
	return args.Int(0), args.Error(1)
}

func (m *SearchRepository) Search(ctx context.Context, query string, opts search.Options, offset, limit int) ([]search.Result, error) {
	args := m.Called(ctx, query, opts, offset, limit)
	return getAs[[]search.Result](args, 0), args.Error(1)
}
