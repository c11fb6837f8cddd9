package reading

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/spectator/internal/domain/activity"
	"github.com/rpggio/spectator/internal/domain/creator"
	"github.com/rpggio/spectator/internal/naturalsort"
	"github.com/rpggio/spectator/internal/paginate"
	"github.com/rpggio/spectator/internal/repository"
	"github.com/rpggio/spectator/internal/validation"
)

// Service handles series, publication and reading operations.
type Service struct {
	series       SeriesRepository
	publications PublicationRepository
	readings     ReadingRepository
	credits      CreditRepository
	activities   ActivityRepository
	policy       paginate.Policy
	logger       *slog.Logger
}

// Repositories bundles the stores the reading service depends on.
type Repositories struct {
	Series       SeriesRepository
	Publications PublicationRepository
	Readings     ReadingRepository
	Credits      CreditRepository
	Activities   ActivityRepository
}

// NewService creates a new reading service.
func NewService(repos Repositories, policy paginate.Policy, logger *slog.Logger) *Service {
	return &Service{
		series:       repos.Series,
		publications: repos.Publications,
		readings:     repos.Readings,
		credits:      repos.Credits,
		activities:   repos.Activities,
		policy:       policy,
		logger:       logger,
	}
}

// SeriesRequest defines series inputs. A blank TitleSort is generated
// from the title.
type SeriesRequest struct {
	Title     string `json:"title" validate:"notblank,max=255"`
	TitleSort string `json:"title_sort,omitempty" validate:"max=255"`
	URL       string `json:"url,omitempty" validate:"omitempty,url"`
}

// PublicationRequest defines publication inputs.
type PublicationRequest struct {
	Title    string          `json:"title" validate:"notblank,max=255"`
	Kind     PublicationKind `json:"kind" validate:"oneof=book periodical"`
	SeriesID string          `json:"series_id,omitempty"`
	Notes    string          `json:"notes,omitempty"`
}

// ReadingRequest defines reading inputs. Dates use DateLayout.
type ReadingRequest struct {
	PublicationID string `json:"publication_id" validate:"notblank"`
	StartDate     string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate       string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsFinished    bool   `json:"is_finished"`
}

// CreateSeries creates a publication series.
func (s *Service) CreateSeries(ctx context.Context, req SeriesRequest) (*Series, error) {
	if err := validation.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	now := time.Now()
	series := &Series{
		ID:         uuid.NewString(),
		URL:        strings.TrimSpace(req.URL),
		CreatedAt:  now,
		ModifiedAt: now,
	}
	applySeries(series, req)

	if err := s.series.Create(ctx, series); err != nil {
		return nil, fmt.Errorf("creating series: %w", err)
	}
	s.record(ctx, "series", series.ID, activity.TypeCreated, "created series "+series.Title)
	return series, nil
}

// UpdateSeries replaces a series' fields.
func (s *Service) UpdateSeries(ctx context.Context, id string, req SeriesRequest) (*Series, error) {
	if err := validation.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	series, err := s.GetSeries(ctx, id)
	if err != nil {
		return nil, err
	}
	applySeries(series, req)
	series.URL = strings.TrimSpace(req.URL)
	series.ModifiedAt = time.Now()

	if err := s.series.Update(ctx, series); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSeriesNotFound
		}
		return nil, fmt.Errorf("updating series: %w", err)
	}
	s.record(ctx, "series", series.ID, activity.TypeUpdated, "updated series "+series.Title)
	return series, nil
}

func applySeries(series *Series, req SeriesRequest) {
	series.Title = strings.TrimSpace(req.Title)
	if custom := strings.TrimSpace(req.TitleSort); custom != "" {
		series.TitleSort = naturalsort.Truncate(custom)
		series.CustomSort = true
		return
	}
	series.TitleSort = naturalsort.Key(series)
	series.CustomSort = false
}

// GetSeries fetches a series by ID.
func (s *Service) GetSeries(ctx context.Context, id string) (*Series, error) {
	series, err := s.series.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSeriesNotFound
		}
		return nil, fmt.Errorf("getting series: %w", err)
	}
	return series, nil
}

// DeleteSeries removes a series; its publications are kept unattached.
func (s *Service) DeleteSeries(ctx context.Context, id string) error {
	if err := s.series.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSeriesNotFound
		}
		return fmt.Errorf("deleting series: %w", err)
	}
	s.record(ctx, "series", id, activity.TypeDeleted, "deleted series "+id)
	return nil
}

// ListSeries returns one page of series ordered by sort key.
func (s *Service) ListSeries(ctx context.Context, req paginate.Request) (*paginate.Result[Series], error) {
	count, err := s.series.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting series: %w", err)
	}
	return paginate.Fetch(s.policy, req, count, func(offset, limit int) ([]Series, error) {
		return s.series.List(ctx, offset, limit)
	})
}

// CreatePublication creates a publication.
func (s *Service) CreatePublication(ctx context.Context, req PublicationRequest) (*Publication, error) {
	if req.Kind == "" {
		req.Kind = KindBook
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.checkSeries(ctx, req.SeriesID); err != nil {
		return nil, err
	}

	now := time.Now()
	pub := &Publication{
		ID:         uuid.NewString(),
		Title:      strings.TrimSpace(req.Title),
		Kind:       req.Kind,
		SeriesID:   strings.TrimSpace(req.SeriesID),
		Notes:      req.Notes,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	pub.TitleSort = naturalsort.Key(pub)

	if err := s.publications.Create(ctx, pub); err != nil {
		return nil, fmt.Errorf("creating publication: %w", err)
	}
	s.record(ctx, "publication", pub.ID, activity.TypeCreated, "created publication "+pub.Title)
	return pub, nil
}

// UpdatePublication replaces a publication's fields.
func (s *Service) UpdatePublication(ctx context.Context, id string, req PublicationRequest) (*Publication, error) {
	if req.Kind == "" {
		req.Kind = KindBook
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	pub, err := s.GetPublication(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkSeries(ctx, req.SeriesID); err != nil {
		return nil, err
	}
	pub.Title = strings.TrimSpace(req.Title)
	pub.Kind = req.Kind
	pub.SeriesID = strings.TrimSpace(req.SeriesID)
	pub.Notes = req.Notes
	pub.TitleSort = naturalsort.Key(pub)
	pub.ModifiedAt = time.Now()

	if err := s.publications.Update(ctx, pub); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPublicationNotFound
		}
		return nil, fmt.Errorf("updating publication: %w", err)
	}
	s.record(ctx, "publication", pub.ID, activity.TypeUpdated, "updated publication "+pub.Title)
	return pub, nil
}

func (s *Service) checkSeries(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	if _, err := s.GetSeries(ctx, id); err != nil {
		return err
	}
	return nil
}

// GetPublication fetches a publication by ID.
func (s *Service) GetPublication(ctx context.Context, id string) (*Publication, error) {
	pub, err := s.publications.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPublicationNotFound
		}
		return nil, fmt.Errorf("getting publication: %w", err)
	}
	return pub, nil
}

// GetPublicationDetail fetches a publication with its series, credits and
// readings.
func (s *Service) GetPublicationDetail(ctx context.Context, id string) (*PublicationDetail, error) {
	pub, err := s.GetPublication(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &PublicationDetail{Publication: pub}

	if pub.SeriesID != "" {
		series, err := s.GetSeries(ctx, pub.SeriesID)
		if err != nil && !errors.Is(err, ErrSeriesNotFound) {
			return nil, err
		}
		detail.Series = series
	}
	if detail.Credits, err = s.credits.ForSubject(ctx, creator.SubjectPublication, id); err != nil {
		return nil, fmt.Errorf("listing credits: %w", err)
	}
	if detail.Readings, err = s.readings.ForPublication(ctx, id); err != nil {
		return nil, fmt.Errorf("listing readings: %w", err)
	}
	if detail.Credits == nil {
		detail.Credits = []creator.Credit{}
	}
	if detail.Readings == nil {
		detail.Readings = []Reading{}
	}
	return detail, nil
}

// DeletePublication removes a publication with its readings and credits.
func (s *Service) DeletePublication(ctx context.Context, id string) error {
	if err := s.publications.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPublicationNotFound
		}
		return fmt.Errorf("deleting publication: %w", err)
	}
	s.record(ctx, "publication", id, activity.TypeDeleted, "deleted publication "+id)
	return nil
}

// ListPublications returns one page of publications ordered by sort key.
func (s *Service) ListPublications(ctx context.Context, opts ListPublicationsOptions, req paginate.Request) (*paginate.Result[Publication], error) {
	count, err := s.publications.Count(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("counting publications: %w", err)
	}
	return paginate.Fetch(s.policy, req, count, func(offset, limit int) ([]Publication, error) {
		return s.publications.List(ctx, opts, offset, limit)
	})
}

// ListSeriesPublications returns one page of the publications in a series.
func (s *Service) ListSeriesPublications(ctx context.Context, seriesID string, req paginate.Request) (*Series, *paginate.Result[Publication], error) {
	series, err := s.GetSeries(ctx, seriesID)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.ListPublications(ctx, ListPublicationsOptions{SeriesID: seriesID}, req)
	if err != nil {
		return nil, nil, err
	}
	return series, res, nil
}

// Overview returns in-progress and unread publications, oldest first.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	inProgress, err := s.InProgress(ctx)
	if err != nil {
		return nil, err
	}
	unread, err := s.publications.ListByState(ctx, StateUnread)
	if err != nil {
		return nil, fmt.Errorf("listing unread publications: %w", err)
	}
	if unread == nil {
		unread = []Publication{}
	}
	return &Overview{InProgress: inProgress, Unread: unread}, nil
}

// InProgress lists publications with an unfinished reading.
func (s *Service) InProgress(ctx context.Context) ([]Publication, error) {
	pubs, err := s.publications.ListByState(ctx, StateInProgress)
	if err != nil {
		return nil, fmt.Errorf("listing in-progress publications: %w", err)
	}
	if pubs == nil {
		pubs = []Publication{}
	}
	return pubs, nil
}

// LogReading records a reading of a publication.
func (s *Service) LogReading(ctx context.Context, req ReadingRequest) (*Reading, error) {
	if err := validation.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	pub, err := s.GetPublication(ctx, req.PublicationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	r := &Reading{
		ID:               uuid.NewString(),
		PublicationID:    pub.ID,
		CreatedAt:        now,
		ModifiedAt:       now,
		PublicationTitle: pub.Title,
	}
	if err := applyReading(r, req); err != nil {
		return nil, err
	}

	if err := s.readings.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("creating reading: %w", err)
	}
	s.record(ctx, "publication", pub.ID, activity.TypeReadingLogged, "logged reading of "+pub.Title)
	return r, nil
}

// UpdateReading replaces a reading's dates and finished flag.
func (s *Service) UpdateReading(ctx context.Context, id string, req ReadingRequest) (*Reading, error) {
	if err := validation.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	r, err := s.readings.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReadingNotFound
		}
		return nil, fmt.Errorf("getting reading: %w", err)
	}
	if req.PublicationID != r.PublicationID {
		return nil, fmt.Errorf("%w: reading belongs to publication %s", ErrInvalidInput, r.PublicationID)
	}
	if err := applyReading(r, req); err != nil {
		return nil, err
	}
	r.ModifiedAt = time.Now()

	if err := s.readings.Update(ctx, r); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReadingNotFound
		}
		return nil, fmt.Errorf("updating reading: %w", err)
	}
	s.record(ctx, "reading", r.ID, activity.TypeUpdated, "updated reading "+r.ID)
	return r, nil
}

// DeleteReading removes a reading.
func (s *Service) DeleteReading(ctx context.Context, id string) error {
	if err := s.readings.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReadingNotFound
		}
		return fmt.Errorf("deleting reading: %w", err)
	}
	s.record(ctx, "reading", id, activity.TypeDeleted, "deleted reading "+id)
	return nil
}

func applyReading(r *Reading, req ReadingRequest) error {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return err
	}
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("%w: end_date is before start_date", ErrInvalidInput)
	}
	r.StartDate, r.EndDate, r.IsFinished = start, end, req.IsFinished
	return nil
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a date", ErrInvalidInput, raw)
	}
	return &t, nil
}

// YearArchive lists the readings that ended in year, by end date. Years
// without readings are allowed; there is no next year past the current one.
func (s *Service) YearArchive(ctx context.Context, year int) (*YearArchive, error) {
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d", ErrInvalidInput, year)
	}
	readings, err := s.readings.EndedInYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("listing readings for %d: %w", year, err)
	}
	if readings == nil {
		readings = []Reading{}
	}
	archive := &YearArchive{Year: year, Readings: readings}
	if year > 1 {
		prev := year - 1
		archive.PreviousYear = &prev
	}
	if next := year + 1; next <= time.Now().Year() {
		archive.NextYear = &next
	}
	return archive, nil
}

// Resort recomputes generated series and publication sort keys and
// returns how many changed. Custom series sort keys are left alone.
func (s *Service) Resort(ctx context.Context) (int, error) {
	changed := 0

	allSeries, err := s.series.List(ctx, 0, 0)
	if err != nil {
		return 0, fmt.Errorf("listing series: %w", err)
	}
	for i := range allSeries {
		series := &allSeries[i]
		if series.CustomSort {
			continue
		}
		if key := naturalsort.Truncate(naturalsort.Key(series)); key != series.TitleSort {
			if err := s.series.UpdateSortKey(ctx, series.ID, key); err != nil {
				return changed, fmt.Errorf("updating sort key for series %s: %w", series.ID, err)
			}
			changed++
		}
	}

	pubs, err := s.publications.List(ctx, ListPublicationsOptions{}, 0, 0)
	if err != nil {
		return changed, fmt.Errorf("listing publications: %w", err)
	}
	for i := range pubs {
		pub := &pubs[i]
		if key := naturalsort.Truncate(naturalsort.Key(pub)); key != pub.TitleSort {
			if err := s.publications.UpdateSortKey(ctx, pub.ID, key); err != nil {
				return changed, fmt.Errorf("updating sort key for publication %s: %w", pub.ID, err)
			}
			changed++
		}
	}

	if changed > 0 {
		s.record(ctx, "publication", "", activity.TypeResorted, fmt.Sprintf("resorted %d series and publications", changed))
	}
	return changed, nil
}

func (s *Service) record(ctx context.Context, subjectType, id string, typ activity.ActivityType, summary string) {
	activity.Record(ctx, s.activities, s.logger, &activity.ActivityEntry{
		SubjectType:  subjectType,
		SubjectID:    id,
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    time.Now(),
	})
}
