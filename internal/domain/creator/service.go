package creator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/spectator/internal/domain/activity"
	"github.com/rpggio/spectator/internal/naturalsort"
	"github.com/rpggio/spectator/internal/paginate"
	"github.com/rpggio/spectator/internal/repository"
	"github.com/rpggio/spectator/internal/validation"
)

// Service handles creator and credit operations.
type Service struct {
	repo       Repository
	credits    CreditRepository
	activities ActivityRepository
	policy     paginate.Policy
	logger     *slog.Logger
}

// NewService creates a new creator service.
func NewService(repo Repository, credits CreditRepository, activities ActivityRepository, policy paginate.Policy, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		credits:    credits,
		activities: activities,
		policy:     policy,
		logger:     logger,
	}
}

// CreateRequest defines creator creation inputs.
type CreateRequest struct {
	ID   string `json:"id,omitempty"`
	Kind Kind   `json:"kind" validate:"oneof=individual group"`
	Name string `json:"name" validate:"notblank,max=255"`
}

// UpdateRequest defines creator update inputs. Nil fields are unchanged.
type UpdateRequest struct {
	Kind *Kind   `json:"kind,omitempty" validate:"omitempty,oneof=individual group"`
	Name *string `json:"name,omitempty" validate:"omitempty,notblank,max=255"`
}

// CreditRequest defines credit inputs.
type CreditRequest struct {
	CreatorID   string      `json:"creator_id" validate:"notblank"`
	SubjectType SubjectType `json:"subject_type" validate:"oneof=publication event work"`
	SubjectID   string      `json:"subject_id" validate:"notblank"`
	RoleName    string      `json:"role_name" validate:"max=50"`
	RoleOrder   int         `json:"role_order" validate:"gte=0"`
}

// Create creates a new creator.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Creator, error) {
	if req.Kind == "" {
		req.Kind = KindIndividual
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now()
	c := &Creator{
		ID:         id,
		Kind:       req.Kind,
		Name:       strings.TrimSpace(req.Name),
		CreatedAt:  now,
		ModifiedAt: now,
	}
	c.NameSort = naturalsort.Key(c)

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating creator: %w", err)
	}
	s.record(ctx, c.ID, activity.TypeCreated, "created creator "+c.Name)
	return c, nil
}

// Get fetches a creator by ID.
func (s *Service) Get(ctx context.Context, id string) (*Creator, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCreatorNotFound
		}
		return nil, fmt.Errorf("getting creator: %w", err)
	}
	return c, nil
}

// GetDetail fetches a creator with their credits grouped by subject type.
func (s *Service) GetDetail(ctx context.Context, id string) (*Detail, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	credits, err := s.credits.ForCreator(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing credits: %w", err)
	}

	detail := &Detail{
		Creator:      c,
		Publications: []Credit{},
		Events:       []Credit{},
		Works:        []Credit{},
	}
	for _, credit := range credits {
		switch credit.SubjectType {
		case SubjectPublication:
			detail.Publications = append(detail.Publications, credit)
		case SubjectEvent:
			detail.Events = append(detail.Events, credit)
		case SubjectWork:
			detail.Works = append(detail.Works, credit)
		}
	}
	return detail, nil
}

// Update changes a creator, regenerating its sort key.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Creator, error) {
	if err := validation.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Kind != nil {
		c.Kind = *req.Kind
	}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	c.NameSort = naturalsort.Key(c)
	c.ModifiedAt = time.Now()

	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCreatorNotFound
		}
		return nil, fmt.Errorf("updating creator: %w", err)
	}
	s.record(ctx, c.ID, activity.TypeUpdated, "updated creator "+c.Name)
	return c, nil
}

// Delete removes a creator and their credits.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCreatorNotFound
		}
		return fmt.Errorf("deleting creator: %w", err)
	}
	s.record(ctx, id, activity.TypeDeleted, "deleted creator "+id)
	return nil
}

// List returns one page of creators ordered by sort key.
func (s *Service) List(ctx context.Context, opts ListOptions, req paginate.Request) (*paginate.Result[Creator], error) {
	count, err := s.repo.Count(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("counting creators: %w", err)
	}
	return paginate.Fetch(s.policy, req, count, func(offset, limit int) ([]Creator, error) {
		return s.repo.List(ctx, opts, offset, limit)
	})
}

// AddCredit credits a creator on a subject.
func (s *Service) AddCredit(ctx context.Context, req CreditRequest) (*Credit, error) {
	if err := validation.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	c, err := s.Get(ctx, req.CreatorID)
	if err != nil {
		return nil, err
	}
	if req.RoleOrder == 0 {
		req.RoleOrder = 1
	}

	credit := &Credit{
		ID:          uuid.NewString(),
		CreatorID:   c.ID,
		SubjectType: req.SubjectType,
		SubjectID:   req.SubjectID,
		RoleName:    strings.TrimSpace(req.RoleName),
		RoleOrder:   req.RoleOrder,
		CreatedAt:   time.Now(),
		CreatorName: c.Name,
		CreatorKind: c.Kind,
	}
	if err := s.credits.Add(ctx, credit); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) || errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("adding credit: %w", err)
	}
	s.record(ctx, c.ID, activity.TypeCredited,
		fmt.Sprintf("credited %s on %s %s", c.Name, credit.SubjectType, credit.SubjectID))
	return credit, nil
}

// RemoveCredit deletes a credit.
func (s *Service) RemoveCredit(ctx context.Context, id string) error {
	credit, err := s.credits.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCreditNotFound
		}
		return fmt.Errorf("getting credit: %w", err)
	}
	if err := s.credits.Remove(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCreditNotFound
		}
		return fmt.Errorf("removing credit: %w", err)
	}
	s.record(ctx, credit.CreatorID, activity.TypeUncredited,
		fmt.Sprintf("removed credit on %s %s", credit.SubjectType, credit.SubjectID))
	return nil
}

// Credits lists the credits on a subject in role order.
func (s *Service) Credits(ctx context.Context, subjectType SubjectType, subjectID string) ([]Credit, error) {
	if !subjectType.Valid() {
		return nil, ErrInvalidInput
	}
	credits, err := s.credits.ForSubject(ctx, subjectType, subjectID)
	if err != nil {
		return nil, fmt.Errorf("listing credits: %w", err)
	}
	return credits, nil
}

// Resort recomputes every creator's sort key and returns how many changed.
func (s *Service) Resort(ctx context.Context) (int, error) {
	all, err := s.repo.List(ctx, ListOptions{}, 0, 0)
	if err != nil {
		return 0, fmt.Errorf("listing creators: %w", err)
	}
	changed := 0
	for i := range all {
		c := &all[i]
		key := naturalsort.Truncate(naturalsort.Key(c))
		if key == c.NameSort {
			continue
		}
		if err := s.repo.UpdateSortKey(ctx, c.ID, key); err != nil {
			return changed, fmt.Errorf("updating sort key for %s: %w", c.ID, err)
		}
		changed++
	}
	if changed > 0 {
		s.record(ctx, "", activity.TypeResorted, fmt.Sprintf("resorted %d creators", changed))
	}
	if s.logger != nil {
		s.logger.Info("creators resorted", "total", len(all), "changed", changed)
	}
	return changed, nil
}

func (s *Service) record(ctx context.Context, id string, typ activity.ActivityType, summary string) {
	activity.Record(ctx, s.activities, s.logger, &activity.ActivityEntry{
		SubjectType:  "creator",
		SubjectID:    id,
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    time.Now(),
	})
}
