package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/spectator/internal/domain/activity"
	"github.com/rpggio/spectator/internal/domain/creator"
	"github.com/rpggio/spectator/internal/domain/event"
	"github.com/rpggio/spectator/internal/domain/reading"
	"github.com/rpggio/spectator/internal/domain/search"
	"github.com/rpggio/spectator/internal/paginate"
	"github.com/rpggio/spectator/internal/repository"
	"github.com/rpggio/spectator/internal/validation"
)

// ErrUnauthorized is returned for tool calls without a valid API key.
var ErrUnauthorized = errors.New("unauthorized")

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, paginate.ErrPageNotAnInteger), errors.Is(err, paginate.ErrPageOutOfRange):
		return &APIError{Code: "NOT_FOUND", Message: err.Error(), RecoveryHint: "Request page 1 or 'last'"}
	case errors.Is(err, creator.ErrCreatorNotFound),
		errors.Is(err, creator.ErrCreditNotFound),
		errors.Is(err, reading.ErrSeriesNotFound),
		errors.Is(err, reading.ErrPublicationNotFound),
		errors.Is(err, reading.ErrReadingNotFound),
		errors.Is(err, event.ErrEventNotFound),
		errors.Is(err, event.ErrVenueNotFound),
		errors.Is(err, event.ErrWorkNotFound),
		errors.Is(err, event.ErrNoEventsForYear):
		return &APIError{Code: "NOT_FOUND", Message: err.Error(), RecoveryHint: "Check ID spelling or search_catalog"}
	case errors.Is(err, event.ErrInvalidKind):
		return &APIError{Code: "INVALID_KIND", Message: err.Error(), RecoveryHint: "Read spectator://docs/kinds"}
	case errors.Is(err, creator.ErrSubjectNotFound):
		return &APIError{Code: "SUBJECT_NOT_FOUND", Message: err.Error(), RecoveryHint: "Create the publication, event or work first"}
	case errors.Is(err, repository.ErrDuplicate):
		return &APIError{Code: "CONFLICT", Message: "record already exists", RecoveryHint: "Omit id to generate one"}
	case errors.Is(err, ErrUnauthorized):
		return &APIError{Code: "UNAUTHORIZED", Message: err.Error(), RecoveryHint: "Send a bearer API key"}
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
		return apiErr
	default:
		return nil
	}
}
