package transport

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/spectator/internal/domain/activity"
	"github.com/rpggio/spectator/internal/domain/creator"
	"github.com/rpggio/spectator/internal/domain/event"
	"github.com/rpggio/spectator/internal/domain/reading"
	"github.com/rpggio/spectator/internal/domain/search"
	"github.com/rpggio/spectator/internal/naturalsort"
	"github.com/rpggio/spectator/internal/paginate"
)

func (s *Server) apiReads(r chi.Router) {
	r.Get("/creators", s.apiListCreators)
	r.Get("/creators/{id}", s.apiGetCreator)

	r.Get("/series", s.apiListSeries)
	r.Get("/series/{id}", s.apiGetSeries)
	r.Get("/publications", s.apiListPublications)
	r.Get("/publications/{id}", s.apiGetPublication)
	r.Get("/reading", s.apiReadingOverview)
	r.Get("/readings/{year}", s.apiReadingYear)

	r.Get("/venues", s.apiListVenues)
	r.Get("/venues/{id}", s.apiGetVenue)
	r.Get("/works", s.apiListWorks)
	r.Get("/works/{id}", s.apiGetWork)
	r.Get("/events", s.apiListEvents)
	r.Get("/events/kinds", s.apiEventKinds)
	r.Get("/events/years/{year}", s.apiEventYear)
	r.Get("/events/{id}", s.apiGetEvent)

	r.Get("/search", s.apiSearch)
	r.Get("/sortkey", s.apiSortKey)
	r.Get("/activity", s.apiActivity)
}

func (s *Server) apiWrites(r chi.Router) {
	r.Post("/creators", s.apiCreateCreator)
	r.Put("/creators/{id}", s.apiUpdateCreator)
	r.Delete("/creators/{id}", s.apiDeleteCreator)
	r.Post("/credits", s.apiAddCredit)
	r.Delete("/credits/{id}", s.apiRemoveCredit)

	r.Post("/series", s.apiCreateSeries)
	r.Put("/series/{id}", s.apiUpdateSeries)
	r.Delete("/series/{id}", s.apiDeleteSeries)
	r.Post("/publications", s.apiCreatePublication)
	r.Put("/publications/{id}", s.apiUpdatePublication)
	r.Delete("/publications/{id}", s.apiDeletePublication)
	r.Post("/readings", s.apiLogReading)
	r.Put("/readings/{id}", s.apiUpdateReading)
	r.Delete("/readings/{id}", s.apiDeleteReading)

	r.Post("/venues", s.apiCreateVenue)
	r.Put("/venues/{id}", s.apiUpdateVenue)
	r.Delete("/venues/{id}", s.apiDeleteVenue)
	r.Post("/works", s.apiCreateWork)
	r.Put("/works/{id}", s.apiUpdateWork)
	r.Delete("/works/{id}", s.apiDeleteWork)
	r.Post("/events", s.apiCreateEvent)
	r.Put("/events/{id}", s.apiUpdateEvent)
	r.Delete("/events/{id}", s.apiDeleteEvent)
}

func (s *Server) apiFail(w http.ResponseWriter, r *http.Request, err error) {
	status, apiErr := MapError(err)
	if status == http.StatusInternalServerError && s.logger != nil {
		s.logger.Error("api request failed", "path", r.URL.Path, "error", err)
	}
	WriteError(w, status, apiErr)
}

func (s *Server) apiBadBody(w http.ResponseWriter, err error) {
	WriteError(w, http.StatusBadRequest, &APIError{Code: "INVALID_REQUEST", Message: err.Error()})
}

// respond writes result, or the mapped error.
func respond[T any](s *Server, w http.ResponseWriter, r *http.Request, status int, result T, err error) {
	if err != nil {
		s.apiFail(w, r, err)
		return
	}
	WriteJSON(w, status, result)
}

// respondPage writes a paginated result and records its resolution.
func respondPage[T any](s *Server, w http.ResponseWriter, r *http.Request, req paginate.Request, res *paginate.Result[T], err error) {
	observePage(req, pageMeta(res), err)
	respond(s, w, r, http.StatusOK, res, err)
}

// decode reads the request body into a new T.
func decode[T any](s *Server, w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	if err := DecodeJSON(r.Body, &req); err != nil {
		s.apiBadBody(w, err)
		return req, false
	}
	return req, true
}

func (s *Server) noContent(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		s.apiFail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Creators

func (s *Server) apiListCreators(w http.ResponseWriter, r *http.Request) {
	var opts creator.ListOptions
	if raw := r.URL.Query().Get("kind"); raw != "" {
		kind := creator.Kind(raw)
		if !kind.Valid() {
			s.apiFail(w, r, creator.ErrInvalidInput)
			return
		}
		opts.Kind = &kind
	}
	req := pageRequest(r)
	res, err := s.svc.Creators.List(r.Context(), opts, req)
	respondPage(s, w, r, req, res, err)
}

func (s *Server) apiGetCreator(w http.ResponseWriter, r *http.Request) {
	detail, err := s.svc.Creators.GetDetail(r.Context(), chi.URLParam(r, "id"))
	respond(s, w, r, http.StatusOK, detail, err)
}

func (s *Server) apiCreateCreator(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[creator.CreateRequest](s, w, r)
	if !ok {
		return
	}
	c, err := s.svc.Creators.Create(r.Context(), req)
	respond(s, w, r, http.StatusCreated, c, err)
}

func (s *Server) apiUpdateCreator(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[creator.UpdateRequest](s, w, r)
	if !ok {
		return
	}
	c, err := s.svc.Creators.Update(r.Context(), chi.URLParam(r, "id"), req)
	respond(s, w, r, http.StatusOK, c, err)
}

func (s *Server) apiDeleteCreator(w http.ResponseWriter, r *http.Request) {
	s.noContent(w, r, s.svc.Creators.Delete(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) apiAddCredit(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[creator.CreditRequest](s, w, r)
	if !ok {
		return
	}
	credit, err := s.svc.Creators.AddCredit(r.Context(), req)
	respond(s, w, r, http.StatusCreated, credit, err)
}

func (s *Server) apiRemoveCredit(w http.ResponseWriter, r *http.Request) {
	s.noContent(w, r, s.svc.Creators.RemoveCredit(r.Context(), chi.URLParam(r, "id")))
}

// Reading

type seriesResponse struct {
	Series       *reading.Series                       `json:"series"`
	Publications *paginate.Result[reading.Publication] `json:"publications"`
}

func (s *Server) apiListSeries(w http.ResponseWriter, r *http.Request) {
	req := pageRequest(r)
	res, err := s.svc.Reading.ListSeries(r.Context(), req)
	respondPage(s, w, r, req, res, err)
}

func (s *Server) apiGetSeries(w http.ResponseWriter, r *http.Request) {
	req := pageRequest(r)
	series, pubs, err := s.svc.Reading.ListSeriesPublications(r.Context(), chi.URLParam(r, "id"), req)
	if series != nil {
		observePage(req, pageMeta(pubs), err)
	}
	respond(s, w, r, http.StatusOK, seriesResponse{Series: series, Publications: pubs}, err)
}

func (s *Server) apiCreateSeries(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[reading.SeriesRequest](s, w, r)
	if !ok {
		return
	}
	series, err := s.svc.Reading.CreateSeries(r.Context(), req)
	respond(s, w, r, http.StatusCreated, series, err)
}

func (s *Server) apiUpdateSeries(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[reading.SeriesRequest](s, w, r)
	if !ok {
		return
	}
	series, err := s.svc.Reading.UpdateSeries(r.Context(), chi.URLParam(r, "id"), req)
	respond(s, w, r, http.StatusOK, series, err)
}

func (s *Server) apiDeleteSeries(w http.ResponseWriter, r *http.Request) {
	s.noContent(w, r, s.svc.Reading.DeleteSeries(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) apiListPublications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := reading.ListPublicationsOptions{SeriesID: q.Get("series")}
	if raw := q.Get("kind"); raw != "" {
		kind := reading.PublicationKind(raw)
		if kind != reading.KindBook && kind != reading.KindPeriodical {
			s.apiFail(w, r, reading.ErrInvalidInput)
			return
		}
		opts.Kind = &kind
	}
	req := pageRequest(r)
	res, err := s.svc.Reading.ListPublications(r.Context(), opts, req)
	respondPage(s, w, r, req, res, err)
}

func (s *Server) apiGetPublication(w http.ResponseWriter, r *http.Request) {
	detail, err := s.svc.Reading.GetPublicationDetail(r.Context(), chi.URLParam(r, "id"))
	respond(s, w, r, http.StatusOK, detail, err)
}

func (s *Server) apiCreatePublication(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[reading.PublicationRequest](s, w, r)
	if !ok {
		return
	}
	pub, err := s.svc.Reading.CreatePublication(r.Context(), req)
	respond(s, w, r, http.StatusCreated, pub, err)
}

func (s *Server) apiUpdatePublication(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[reading.PublicationRequest](s, w, r)
	if !ok {
		return
	}
	pub, err := s.svc.Reading.UpdatePublication(r.Context(), chi.URLParam(r, "id"), req)
	respond(s, w, r, http.StatusOK, pub, err)
}

func (s *Server) apiDeletePublication(w http.ResponseWriter, r *http.Request) {
	s.noContent(w, r, s.svc.Reading.DeletePublication(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) apiReadingOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.svc.Reading.Overview(r.Context())
	respond(s, w, r, http.StatusOK, overview, err)
}

func (s *Server) apiReadingYear(w http.ResponseWriter, r *http.Request) {
	year, ok := intParam(chi.URLParam(r, "year"))
	if !ok {
		s.apiFail(w, r, reading.ErrInvalidInput)
		return
	}
	archive, err := s.svc.Reading.YearArchive(r.Context(), year)
	respond(s, w, r, http.StatusOK, archive, err)
}

func (s *Server) apiLogReading(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[reading.ReadingRequest](s, w, r)
	if !ok {
		return
	}
	rd, err := s.svc.Reading.LogReading(r.Context(), req)
	respond(s, w, r, http.StatusCreated, rd, err)
}

func (s *Server) apiUpdateReading(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[reading.ReadingRequest](s, w, r)
	if !ok {
		return
	}
	rd, err := s.svc.Reading.UpdateReading(r.Context(), chi.URLParam(r, "id"), req)
	respond(s, w, r, http.StatusOK, rd, err)
}

func (s *Server) apiDeleteReading(w http.ResponseWriter, r *http.Request) {
	s.noContent(w, r, s.svc.Reading.DeleteReading(r.Context(), chi.URLParam(r, "id")))
}

// Events

func (s *Server) apiListVenues(w http.ResponseWriter, r *http.Request) {
	req := pageRequest(r)
	res, err := s.svc.Events.ListVenues(r.Context(), req)
	respondPage(s, w, r, req, res, err)
}

func (s *Server) apiGetVenue(w http.ResponseWriter, r *http.Request) {
	req := pageRequest(r)
	detail, err := s.svc.Events.GetVenueDetail(r.Context(), chi.URLParam(r, "id"), req)
	if detail != nil {
		observePage(req, pageMeta(detail.Events), nil)
	}
	respond(s, w, r, http.StatusOK, detail, err)
}

func (s *Server) apiCreateVenue(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[event.VenueRequest](s, w, r)
	if !ok {
		return
	}
	v, err := s.svc.Events.CreateVenue(r.Context(), req)
	respond(s, w, r, http.StatusCreated, v, err)
}

func (s *Server) apiUpdateVenue(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[event.VenueRequest](s, w, r)
	if !ok {
		return
	}
	v, err := s.svc.Events.UpdateVenue(r.Context(), chi.URLParam(r, "id"), req)
	respond(s, w, r, http.StatusOK, v, err)
}

func (s *Server) apiDeleteVenue(w http.ResponseWriter, r *http.Request) {
	s.noContent(w, r, s.svc.Events.DeleteVenue(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) apiListWorks(w http.ResponseWriter, r *http.Request) {
	var opts event.ListWorksOptions
	if raw := r.URL.Query().Get("kind"); raw != "" {
		kind := event.WorkKind(raw)
		if !kind.Valid() {
			var ok bool
			if kind, ok = event.WorkKindFromSlug(raw); !ok {
				s.apiFail(w, r, event.ErrInvalidKind)
				return
			}
		}
		opts.Kind = &kind
	}
	req := pageRequest(r)
	res, err := s.svc.Events.ListWorks(r.Context(), opts, req)
	respondPage(s, w, r, req, res, err)
}

func (s *Server) apiGetWork(w http.ResponseWriter, r *http.Request) {
	detail, err := s.svc.Events.GetWorkDetail(r.Context(), chi.URLParam(r, "id"))
	respond(s, w, r, http.StatusOK, detail, err)
}

func (s *Server) apiCreateWork(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[event.WorkRequest](s, w, r)
	if !ok {
		return
	}
	work, err := s.svc.Events.CreateWork(r.Context(), req)
	respond(s, w, r, http.StatusCreated, work, err)
}

func (s *Server) apiUpdateWork(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[event.WorkRequest](s, w, r)
	if !ok {
		return
	}
	work, err := s.svc.Events.UpdateWork(r.Context(), chi.URLParam(r, "id"), req)
	respond(s, w, r, http.StatusOK, work, err)
}

func (s *Server) apiDeleteWork(w http.ResponseWriter, r *http.Request) {
	s.noContent(w, r, s.svc.Events.DeleteWork(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) apiListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := event.ListEventsOptions{VenueID: q.Get("venue"), WorkID: q.Get("work")}
	if raw := q.Get("kind"); raw != "" {
		kind, ok := event.KindFromSlug(raw)
		if !ok {
			kind = event.Kind(raw)
		}
		if !kind.Valid() {
			s.apiFail(w, r, event.ErrInvalidKind)
			return
		}
		opts.Kind = &kind
	}
	req := pageRequest(r)
	res, err := s.svc.Events.ListEvents(r.Context(), opts, req)
	respondPage(s, w, r, req, res, err)
}

func (s *Server) apiEventKinds(w http.ResponseWriter, r *http.Request) {
	counts, err := s.svc.Events.KindCounts(r.Context())
	respond(s, w, r, http.StatusOK, counts, err)
}

func (s *Server) apiEventYear(w http.ResponseWriter, r *http.Request) {
	year, ok := intParam(chi.URLParam(r, "year"))
	if !ok {
		s.apiFail(w, r, event.ErrNoEventsForYear)
		return
	}
	archive, err := s.svc.Events.YearArchive(r.Context(), year)
	respond(s, w, r, http.StatusOK, archive, err)
}

func (s *Server) apiGetEvent(w http.ResponseWriter, r *http.Request) {
	detail, err := s.svc.Events.GetEventDetail(r.Context(), chi.URLParam(r, "id"))
	respond(s, w, r, http.StatusOK, detail, err)
}

func (s *Server) apiCreateEvent(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[event.EventRequest](s, w, r)
	if !ok {
		return
	}
	e, err := s.svc.Events.CreateEvent(r.Context(), req)
	respond(s, w, r, http.StatusCreated, e, err)
}

func (s *Server) apiUpdateEvent(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[event.EventRequest](s, w, r)
	if !ok {
		return
	}
	e, err := s.svc.Events.UpdateEvent(r.Context(), chi.URLParam(r, "id"), req)
	respond(s, w, r, http.StatusOK, e, err)
}

func (s *Server) apiDeleteEvent(w http.ResponseWriter, r *http.Request) {
	s.noContent(w, r, s.svc.Events.DeleteEvent(r.Context(), chi.URLParam(r, "id")))
}

// Misc

func searchOptions(r *http.Request) search.Options {
	var opts search.Options
	for _, t := range r.URL.Query()["type"] {
		opts.SubjectTypes = append(opts.SubjectTypes, search.SubjectType(t))
	}
	return opts
}

func (s *Server) apiSearch(w http.ResponseWriter, r *http.Request) {
	req := pageRequest(r)
	res, err := s.svc.Search.Search(r.Context(), r.URL.Query().Get("q"), searchOptions(r), req)
	respondPage(s, w, r, req, res, err)
}

type sortKeyResponse struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Key  string `json:"key"`
}

func (s *Server) apiSortKey(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := naturalsort.ParseKind(q.Get("kind"))
	name := q.Get("name")
	WriteJSON(w, http.StatusOK, sortKeyResponse{Name: name, Kind: kind.String(), Key: naturalsort.Naturalize(name, kind)})
}

type activityResponse struct {
	Entries []activity.ActivityEntry `json:"entries"`
}

func (s *Server) apiActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := activity.ListActivityOptions{SubjectType: q.Get("subject_type"), SubjectID: q.Get("subject_id")}
	if raw := q.Get("activity_type"); raw != "" {
		typ := activity.ActivityType(raw)
		opts.ActivityType = &typ
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.apiFail(w, r, errors.Join(activity.ErrInvalidInput, errors.New("limit must be a non-negative integer")))
			return
		}
		opts.Limit = limit
	}
	entries, err := s.svc.Activity.GetRecentActivity(r.Context(), opts)
	if entries == nil {
		entries = []activity.ActivityEntry{}
	}
	respond(s, w, r, http.StatusOK, activityResponse{Entries: entries}, err)
}
