package transport

import (
	"errors"
	"net/http"

	"github.com/rpggio/spectator/internal/domain/activity"
	"github.com/rpggio/spectator/internal/domain/creator"
	"github.com/rpggio/spectator/internal/domain/event"
	"github.com/rpggio/spectator/internal/domain/reading"
	"github.com/rpggio/spectator/internal/domain/search"
	"github.com/rpggio/spectator/internal/paginate"
	"github.com/rpggio/spectator/internal/repository"
	"github.com/rpggio/spectator/internal/validation"
)

// ErrPageNotFound is returned for paths that match no page.
var ErrPageNotFound = errors.New("page not found")

// MapError maps a domain error to an HTTP status and API error.
func MapError(err error) (int, *APIError) {
	switch {
	case errors.Is(err, paginate.ErrPageNotAnInteger), errors.Is(err, paginate.ErrPageOutOfRange):
		return http.StatusNotFound, &APIError{Code: "NOT_FOUND", Message: err.Error(), RecoveryHint: "Request page 1 or 'last'"}
	case errors.Is(err, creator.ErrCreatorNotFound),
		errors.Is(err, creator.ErrCreditNotFound),
		errors.Is(err, reading.ErrSeriesNotFound),
		errors.Is(err, reading.ErrPublicationNotFound),
		errors.Is(err, reading.ErrReadingNotFound),
		errors.Is(err, event.ErrEventNotFound),
		errors.Is(err, event.ErrVenueNotFound),
		errors.Is(err, event.ErrWorkNotFound),
		errors.Is(err, event.ErrInvalidKind),
		errors.Is(err, event.ErrNoEventsForYear),
		errors.Is(err, ErrPageNotFound):
		return http.StatusNotFound, &APIError{Code: "NOT_FOUND", Message: err.Error(), RecoveryHint: "Check ID spelling"}
	case errors.Is(err, creator.ErrSubjectNotFound):
		return http.StatusUnprocessableEntity, &APIError{Code: "SUBJECT_NOT_FOUND", Message: err.Error(), RecoveryHint: "Create the publication, event or work first"}
	case errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict, &APIError{Code: "CONFLICT", Message: "record already exists"}
	case errors.Is(err, creator.ErrInvalidInput),
		errors.Is(err, reading.ErrInvalidInput),
		errors.Is(err, event.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, search.ErrInvalidQuery),
		errors.Is(err, repository.ErrInvalidInput):
		apiErr := &APIError{Code: "VALIDATION_ERROR", Message: err.Error()}
		var verr *validation.RequestValidationError
		if errors.As(err, &verr) {
			apiErr.Details = verr.Fields
		}
		return http.StatusBadRequest, apiErr
	default:
		return http.StatusInternalServerError, &APIError{Code: "INTERNAL", Message: "internal error"}
	}
}
