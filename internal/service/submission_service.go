package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/explorekarawang/directory-api/internal/domain"
	"github.com/explorekarawang/directory-api/internal/repository/ports"
)

type SubmissionCreateInput struct {
	Submitter   domain.Submitter
	ItemType    string
	Payload     json.RawMessage
	ThrottleKey string
}

type SubmissionService struct {
	submissions ports.SubmissionRepository
	throttle    ports.SubmissionThrottle
	now         func() time.Time
}

// NewSubmissionService builds the moderation queue. throttle may be nil, in
// which case submissions are never rate limited.
func NewSubmissionService(submissions ports.SubmissionRepository, throttle ports.SubmissionThrottle) *SubmissionService {
	return &SubmissionService{
		submissions: submissions,
		throttle:    throttle,
		now:         time.Now,
	}
}

func (s *SubmissionService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *SubmissionService) Create(ctx context.Context, input SubmissionCreateInput) (*domain.Submission, error) {
	submitter := domain.Submitter{
		Name:  strings.TrimSpace(input.Submitter.Name),
		Email: normalizeString(input.Submitter.Email),
		Phone: normalizeString(input.Submitter.Phone),
	}
	if submitter.Name == "" {
		return nil, fmt.Errorf("%w: submitter_name is required", ErrValidation)
	}
	itemType, err := domain.ParseItemType(input.ItemType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	payload, err := domain.DecodeSubmissionPayload(itemType, input.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	payload, err = normalizePayload(payload)
	if err != nil {
		return nil, err
	}

	if s.throttle != nil && strings.TrimSpace(input.ThrottleKey) != "" {
		allowed, err := s.throttle.Allow(ctx, strings.TrimSpace(input.ThrottleKey))
		if err != nil {
			return nil, fmt.Errorf("%w: throttle: %v", ErrStoreFailure, err)
		}
		if !allowed {
			return nil, ErrSubmissionThrottled
		}
	}

	now := s.now().UTC()
	submission := &domain.Submission{
		ID:        uuid.New(),
		Submitter: submitter,
		ItemType:  itemType,
		Payload:   payload,
		Status:    domain.SubmissionStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	stored, err := s.submissions.Create(ctx, submission)
	if err != nil {
		return nil, fmt.Errorf("%w: insert submission: %v", ErrStoreFailure, err)
	}
	return stored, nil
}

func normalizePayload(payload domain.SubmissionPayload) (domain.SubmissionPayload, error) {
	switch p := payload.(type) {
	case domain.DestinationPayload:
		p.Title = strings.TrimSpace(p.Title)
		if p.Title == "" {
			return nil, fmt.Errorf("%w: destination title is required", ErrValidation)
		}
		p.Facilities = p.Facilities.Compact()
		return p, nil
	case domain.CulinaryPayload:
		p.Title = strings.TrimSpace(p.Title)
		p.Restaurant = strings.TrimSpace(p.Restaurant)
		if p.Title == "" && p.Restaurant == "" {
			return nil, fmt.Errorf("%w: culinary restaurant or title is required", ErrValidation)
		}
		p.Specialties = p.Specialties.Compact()
		p.Facilities = p.Facilities.Compact()
		return p, nil
	}
	return nil, fmt.Errorf("%w: unsupported payload %T", ErrValidation, payload)
}

func (s *SubmissionService) ListByStatus(ctx context.Context, status string) ([]domain.Submission, error) {
	parsed, err := domain.ParseSubmissionStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	items, err := s.submissions.ListByStatus(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("%w: list submissions: %v", ErrStoreFailure, err)
	}
	return items, nil
}

func (s *SubmissionService) Get(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	submission, err := s.submissions.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("%w: find submission: %v", ErrStoreFailure, err)
	}
	return submission, nil
}

// Approve promotes a pending submission into the content tables and returns the
// updated submission with the id of the created item.
func (s *SubmissionService) Approve(ctx context.Context, id uuid.UUID, notes *string) (*domain.Submission, uuid.UUID, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if !current.IsPending() {
		return nil, uuid.Nil, fmt.Errorf("%w: status is %s", ErrInvalidState, current.Status)
	}

	now := s.now().UTC()
	item, itemID, err := promote(current.Payload, now)
	if err != nil {
		return nil, uuid.Nil, err
	}
	updated, err := s.submissions.Approve(ctx, id, item, normalizeString(notes), now)
	if err != nil {
		return nil, uuid.Nil, s.translateTransitionErr(err, "approve")
	}
	return updated, itemID, nil
}

func (s *SubmissionService) Reject(ctx context.Context, id uuid.UUID, notes *string) (*domain.Submission, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.IsPending() {
		return nil, fmt.Errorf("%w: status is %s", ErrInvalidState, current.Status)
	}
	updated, err := s.submissions.Reject(ctx, id, normalizeString(notes), s.now().UTC())
	if err != nil {
		return nil, s.translateTransitionErr(err, "reject")
	}
	return updated, nil
}

func (s *SubmissionService) translateTransitionErr(err error, action string) error {
	switch {
	case isNotFound(err):
		return ErrSubmissionNotFound
	case errors.Is(err, ports.ErrStateConflict):
		return ErrInvalidState
	}
	return fmt.Errorf("%w: %s submission: %v", ErrStoreFailure, action, err)
}

// promote maps a payload onto a new content row with directory defaults.
func promote(payload domain.SubmissionPayload, at time.Time) (domain.ContentItem, uuid.UUID, error) {
	id := uuid.New()
	switch p := payload.(type) {
	case domain.DestinationPayload:
		return &domain.Destination{
			ID:              id,
			Title:           p.Title,
			Description:     p.Description,
			Image:           p.Image,
			Location:        p.Location,
			Category:        categoryOrDefault(p.Category),
			Facilities:      p.Facilities.Compact(),
			BestTimeToVisit: p.BestTimeToVisit,
			EntranceFee:     p.EntranceFee,
			GoogleMapsLink:  normalizeString(&p.GoogleMapsLink),
			Rating:          domain.DefaultEditorialRating,
			CreatedAt:       at,
			UpdatedAt:       at,
		}, id, nil
	case domain.CulinaryPayload:
		restaurant := strings.TrimSpace(p.Restaurant)
		title := strings.TrimSpace(p.Title)
		if restaurant == "" {
			restaurant = title
		}
		if title == "" {
			title = restaurant
		}
		return &domain.Culinary{
			ID:             id,
			Title:          title,
			Description:    p.Description,
			Image:          p.Image,
			Restaurant:     restaurant,
			Location:       p.Location,
			Category:       categoryOrDefault(p.Category),
			PriceRange:     p.PriceRange,
			OpeningHours:   p.OpeningHours,
			Specialties:    p.Specialties.Compact(),
			Facilities:     p.Facilities.Compact(),
			GoogleMapsLink: normalizeString(&p.GoogleMapsLink),
			Rating:         domain.DefaultEditorialRating,
			CreatedAt:      at,
			UpdatedAt:      at,
		}, id, nil
	}
	return nil, uuid.Nil, fmt.Errorf("%w: unsupported payload %T", ErrValidation, payload)
}

func categoryOrDefault(category string) string {
	if trimmed := strings.TrimSpace(category); trimmed != "" {
		return trimmed
	}
	return domain.DefaultCategory
}
