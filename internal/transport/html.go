package transport

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/spectator/internal/domain/creator"
	"github.com/rpggio/spectator/internal/domain/event"
	"github.com/rpggio/spectator/internal/domain/reading"
	"github.com/rpggio/spectator/internal/paginate"
)

const homeEventCount = 10

func (s *Server) htmlRoutes(r chi.Router) {
	r.Get("/", s.home)

	r.Get("/creators/", s.creatorList(creator.KindIndividual))
	r.Get("/creators/groups/", s.creatorList(creator.KindGroup))
	r.Get("/creators/{id}/", s.creatorDetail)

	r.Get("/reading/", s.readingHome)
	r.Get("/reading/series/", s.seriesList)
	r.Get("/reading/series/{id}/", s.seriesDetail)
	r.Get("/reading/publications/", s.publicationList(reading.KindBook))
	r.Get("/reading/publications/periodicals/", s.publicationList(reading.KindPeriodical))
	r.Get("/reading/publications/{id}/", s.publicationDetail)
	r.Get("/reading/{year:[0-9]{4}}/", s.readingYear)

	r.Get("/events/", s.eventHome)
	r.Get("/events/venues/", s.venueList)
	r.Get("/events/venues/{id}/", s.venueDetail)
	r.Get("/events/works/{kind}/", s.workList)
	r.Get("/events/works/{kind}/{id}/", s.workDetail)
	r.Get("/events/{year:[0-9]{4}}/", s.eventYear)
	r.Get("/events/{slug}/", s.eventKind)
	r.Get("/events/{slug}/{id}/", s.eventDetail)

	r.Get("/search/", s.searchPage)
}

func (s *Server) show(w http.ResponseWriter, r *http.Request, name string, data page) {
	data.Query = r.URL.Query()
	if err := s.views.render(w, http.StatusOK, name, data); err != nil {
		s.htmlFail(w, r, err)
	}
}

func (s *Server) htmlFail(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := MapError(err)
	title := http.StatusText(status)
	if status == http.StatusInternalServerError && s.logger != nil {
		s.logger.Error("page failed", "path", r.URL.Path, "error", err)
	}
	if renderErr := s.views.render(w, status, "error.html", page{Title: title}); renderErr != nil {
		http.Error(w, title, status)
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		WriteError(w, http.StatusNotFound, &APIError{Code: "NOT_FOUND", Message: "no such endpoint"})
		return
	}
	s.htmlFail(w, r, ErrPageNotFound)
}

type homeData struct {
	InProgress []reading.Publication
	Events     []event.Event
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	inProgress, err := s.svc.Reading.InProgress(r.Context())
	if err != nil {
		s.htmlFail(w, r, err)
		return
	}
	events, err := s.svc.Events.ListEvents(r.Context(), event.ListEventsOptions{}, paginate.Request{})
	if err != nil {
		s.htmlFail(w, r, err)
		return
	}
	recent := events.Items
	if len(recent) > homeEventCount {
		recent = recent[:homeEventCount]
	}
	s.show(w, r, "home.html", page{Section: "home", Data: homeData{InProgress: inProgress, Events: recent}})
}

// Creators

type creatorListData struct {
	Kind     creator.Kind
	Creators []creator.Creator
}

func (s *Server) creatorList(kind creator.Kind) http.HandlerFunc {
	title := "People"
	if kind == creator.KindGroup {
		title = "Groups"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := pageRequest(r)
		res, err := s.svc.Creators.List(r.Context(), creator.ListOptions{Kind: &kind}, req)
		observePage(req, pageMeta(res), err)
		if err != nil {
			s.htmlFail(w, r, err)
			return
		}
		s.show(w, r, "creator_list.html", page{Title: title, Section: "creators", Page: &res.Page,
			Data: creatorListData{Kind: kind, Creators: res.Items}})
	}
}

func (s *Server) creatorDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.svc.Creators.GetDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.htmlFail(w, r, err)
		return
	}
	s.show(w, r, "creator_detail.html", page{Title: detail.Creator.Name, Section: "creators", Data: detail})
}

// Reading

func (s *Server) readingHome(w http.ResponseWriter, r *http.Request) {
	overview, err := s.svc.Reading.Overview(r.Context())
	if err != nil {
		s.htmlFail(w, r, err)
		return
	}
	s.show(w, r, "reading_home.html", page{Title: "Reading", Section: "reading", Data: overview})
}

func (s *Server) seriesList(w http.ResponseWriter, r *http.Request) {
	req := pageRequest(r)
	res, err := s.svc.Reading.ListSeries(r.Context(), req)
	observePage(req, pageMeta(res), err)
	if err != nil {
		s.htmlFail(w, r, err)
		return
	}
	s.show(w, r, "series_list.html", page{Title: "Series", Section: "reading", Page: &res.Page, Data: res.Items})
}

type seriesDetailData struct {
	Series       *reading.Series
	Publications []reading.Publication
}

func (s *Server) seriesDetail(w http.ResponseWriter, r *http.Request) {
	req := pageRequest(r)
	series, pubs, err := s.svc.Reading.ListSeriesPublications(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		if series != nil {
			observePage(req, nil, err)
		}
		s.htmlFail(w, r, err)
		return
	}
	observePage(req, pageMeta(pubs), nil)
	s.show(w, r, "series_detail.html", page{Title: series.Title, Section: "reading", Page: &pubs.Page,
		Data: seriesDetailData{Series: series, Publications: pubs.Items}})
}

func (s *Server) publicationList(kind reading.PublicationKind) http.HandlerFunc {
	title := "Books"
	if kind == reading.KindPeriodical {
		title = "Periodicals"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := pageRequest(r)
		res, err := s.svc.Reading.ListPublications(r.Context(), reading.ListPublicationsOptions{Kind: &kind}, req)
		observePage(req, pageMeta(res), err)
		if err != nil {
			s.htmlFail(w, r, err)
			return
		}
		s.show(w, r, "publication_list.html", page{Title: title, Section: "reading", Page: &res.Page, Data: res.Items})
	}
}

func (s *Server) publicationDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.svc.Reading.GetPublicationDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.htmlFail(w, r, err)
		return
	}
	s.show(w, r, "publication_detail.html", page{Title: detail.Publication.Title, Section: "reading", Data: detail})
}

func (s *Server) readingYear(w http.ResponseWriter, r *http.Request) {
	year, _ := intParam(chi.URLParam(r, "year"))
	if year < 1 {
		s.htmlFail(w, r, ErrPageNotFound)
		return
	}
	archive, err := s.svc.Reading.YearArchive(r.Context(), year)
	if err != nil {
		s.htmlFail(w, r, err)
		return
	}
	s.show(w, r, "reading_year.html", page{Title: "Read in " + chi.URLParam(r, "year"), Section: "reading", Data: archive})
}

// Events

type eventHomeData struct {
	Kinds  []event.KindCount
	Events []event.Event
}

func (s *Server) eventHome(w http.ResponseWriter, r *http.Request) {
	kinds, err := s.svc.Events.KindCounts(r.Context())
	if err != nil {
		s.htmlFail(w, r, err)
		return
	}
	req := pageRequest(r)
	res, err := s.svc.Events.ListEvents(r.Context(), event.ListEventsOptions{}, req)
	observePage(req, pageMeta(res), err)
	if err != nil {
		s.htmlFail(w, r, err)
		return
	}
	s.show(w, r, "event_list.html", page{Title: "Events", Section: "events", Page: &res.Page,
		Data: eventHomeData{Kinds: kinds, Events: res.Items}})
}

func (s *Server) eventKind(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	kind, ok := event.KindFromSlug(slug)
	if !ok {
		s.htmlFail(w, r, event.ErrInvalidKind)
		return
	}
	kinds, err := s.svc.Events.KindCounts(r.Context())
	if err != nil {
		s.htmlFail(w, r, err)
		return
	}
	req := pageRequest(r)
	res, err := s.svc.Events.ListEventsBySlug(r.Context(), slug, req)
	observePage(req, pageMeta(res), err)
	if err != nil {
		s.htmlFail(w, r, err)
		return
	}
	title := kindTitle(kind)
	s.show(w, r, "event_list.html", page{Title: title, Section: "events", Page: &res.Page,
		Data: eventHomeData{Kinds: kinds, Events: res.Items}})
}

func kindTitle(kind event.Kind) string {
	slug := kind.Slug()
	return strings.ToUpper(slug[:1]) + slug[1:]
}

func (s *Server) eventDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.svc.Events.GetEventDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.htmlFail(w, r, err)
		return
	}
	if detail.Event.Kind.Slug() != chi.URLParam(r, "slug") {
		s.htmlFail(w, r, event.ErrEventNotFound)
		return
	}
	s.show(w, r, "event_detail.html", page{Title: detail.Event.Title, Section: "events", Data: detail})
}

func (s *Server) eventYear(w http.ResponseWriter, r *http.Request) {
	year, _ := intParam(chi.URLParam(r, "year"))
	archive, err := s.svc.Events.YearArchive(r.Context(), year)
	if err != nil {
		s.htmlFail(w, r, err)
		return
	}
	s.show(w, r, "event_year.html", page{Title: "Events in " + chi.URLParam(r, "year"), Section: "events", Data: archive})
}

func (s *Server) venueList(w http.ResponseWriter, r *http.Request) {
	req := pageRequest(r)
	res, err := s.svc.Events.ListVenues(r.Context(), req)
	observePage(req, pageMeta(res), err)
	if err != nil {
		s.htmlFail(w, r, err)
		return
	}
	s.show(w, r, "venue_list.html", page{Title: "Venues", Section: "events", Page: &res.Page, Data: res.Items})
}

func (s *Server) venueDetail(w http.ResponseWriter, r *http.Request) {
	req := pageRequest(r)
	detail, err := s.svc.Events.GetVenueDetail(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		s.htmlFail(w, r, err)
		return
	}
	observePage(req, pageMeta(detail.Events), nil)
	s.show(w, r, "venue_detail.html", page{Title: detail.Venue.Name, Section: "events", Page: &detail.Events.Page, Data: detail})
}

type workListData struct {
	Kind  event.WorkKind
	Works []event.Work
}

func (s *Server) workList(w http.ResponseWriter, r *http.Request) {
	kind, ok := event.WorkKindFromSlug(chi.URLParam(r, "kind"))
	if !ok {
		s.htmlFail(w, r, event.ErrInvalidKind)
		return
	}
	req := pageRequest(r)
	res, err := s.svc.Events.ListWorks(r.Context(), event.ListWorksOptions{Kind: &kind}, req)
	observePage(req, pageMeta(res), err)
	if err != nil {
		s.htmlFail(w, r, err)
		return
	}
	s.show(w, r, "work_list.html", page{Title: kind.Title(), Section: "events", Page: &res.Page,
		Data: workListData{Kind: kind, Works: res.Items}})
}

func (s *Server) workDetail(w http.ResponseWriter, r *http.Request) {
	kind, ok := event.WorkKindFromSlug(chi.URLParam(r, "kind"))
	if !ok {
		s.htmlFail(w, r, event.ErrInvalidKind)
		return
	}
	detail, err := s.svc.Events.GetWorkDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.htmlFail(w, r, err)
		return
	}
	if detail.Work.Kind != kind {
		s.htmlFail(w, r, event.ErrWorkNotFound)
		return
	}
	s.show(w, r, "work_detail.html", page{Title: detail.Work.Title, Section: "events", Data: detail})
}

// Search

type searchData struct {
	Query   string
	Results any
}

func (s *Server) searchPage(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		s.show(w, r, "search.html", page{Title: "Search", Data: searchData{}})
		return
	}
	req := pageRequest(r)
	res, err := s.svc.Search.Search(r.Context(), q, searchOptions(r), req)
	observePage(req, pageMeta(res), err)
	if err != nil {
		s.htmlFail(w, r, err)
		return
	}
	s.show(w, r, "search.html", page{Title: "Search", Page: &res.Page, Data: searchData{Query: q, Results: res.Items}})
}
