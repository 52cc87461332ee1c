package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/explorekarawang/directory-api/internal/domain"
	"github.com/explorekarawang/directory-api/internal/repository/ports"
)

type DestinationInput struct {
	Title           string
	Description     string
	Image           string
	Location        string
	Category        string
	CategoryID      *uuid.UUID
	Facilities      []string
	BestTimeToVisit string
	EntranceFee     string
	GoogleMapsLink  *string
	Rating          *float64
}

type CulinaryInput struct {
	Title          string
	Description    string
	Image          string
	Restaurant     string
	Location       string
	Category       string
	CategoryID     *uuid.UUID
	PriceRange     string
	OpeningHours   string
	Specialties    []string
	Facilities     []string
	GoogleMapsLink *string
	Rating         *float64
}

// ContentService manages published destinations and culinary entries. Read
// results carry ledger aggregates next to the editorial rating field.
type ContentService struct {
	destinations ports.DestinationRepository
	culinary     ports.CulinaryRepository
	now          func() time.Time
}

func NewContentService(destinations ports.DestinationRepository, culinary ports.CulinaryRepository) *ContentService {
	return &ContentService{destinations: destinations, culinary: culinary, now: time.Now}
}

func (s *ContentService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *ContentService) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	items, err := s.destinations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list destinations: %v", ErrStoreFailure, err)
	}
	return items, nil
}

func (s *ContentService) GetDestination(ctx context.Context, id uuid.UUID) (*domain.Destination, error) {
	item, err := s.destinations.FindByID(ctx, id)
	if err != nil {
		return nil, contentErr(err, "find destination")
	}
	return item, nil
}

func (s *ContentService) CreateDestination(ctx context.Context, input DestinationInput) (*domain.Destination, error) {
	now := s.now().UTC()
	d := &domain.Destination{ID: uuid.New(), CreatedAt: now}
	if err := applyDestination(d, input, now); err != nil {
		return nil, err
	}
	stored, err := s.destinations.Create(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("%w: insert destination: %v", ErrStoreFailure, err)
	}
	return stored, nil
}

func (s *ContentService) UpdateDestination(ctx context.Context, id uuid.UUID, input DestinationInput) (*domain.Destination, error) {
	existing, err := s.destinations.FindByID(ctx, id)
	if err != nil {
		return nil, contentErr(err, "find destination")
	}
	if err := applyDestination(existing, input, s.now().UTC()); err != nil {
		return nil, err
	}
	updated, err := s.destinations.Update(ctx, existing)
	if err != nil {
		return nil, contentErr(err, "update destination")
	}
	return updated, nil
}

func (s *ContentService) DeleteDestination(ctx context.Context, id uuid.UUID) error {
	if err := s.destinations.Delete(ctx, id); err != nil {
		return contentErr(err, "delete destination")
	}
	return nil
}

func (s *ContentService) ListCulinary(ctx context.Context) ([]domain.Culinary, error) {
	items, err := s.culinary.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list culinary: %v", ErrStoreFailure, err)
	}
	return items, nil
}

func (s *ContentService) GetCulinary(ctx context.Context, id uuid.UUID) (*domain.Culinary, error) {
	item, err := s.culinary.FindByID(ctx, id)
	if err != nil {
		return nil, contentErr(err, "find culinary")
	}
	return item, nil
}

func (s *ContentService) CreateCulinary(ctx context.Context, input CulinaryInput) (*domain.Culinary, error) {
	now := s.now().UTC()
	c := &domain.Culinary{ID: uuid.New(), CreatedAt: now}
	if err := applyCulinary(c, input, now); err != nil {
		return nil, err
	}
	stored, err := s.culinary.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("%w: insert culinary: %v", ErrStoreFailure, err)
	}
	return stored, nil
}

func (s *ContentService) UpdateCulinary(ctx context.Context, id uuid.UUID, input CulinaryInput) (*domain.Culinary, error) {
	existing, err := s.culinary.FindByID(ctx, id)
	if err != nil {
		return nil, contentErr(err, "find culinary")
	}
	if err := applyCulinary(existing, input, s.now().UTC()); err != nil {
		return nil, err
	}
	updated, err := s.culinary.Update(ctx, existing)
	if err != nil {
		return nil, contentErr(err, "update culinary")
	}
	return updated, nil
}

func (s *ContentService) DeleteCulinary(ctx context.Context, id uuid.UUID) error {
	if err := s.culinary.Delete(ctx, id); err != nil {
		return contentErr(err, "delete culinary")
	}
	return nil
}

func applyDestination(d *domain.Destination, in DestinationInput, at time.Time) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	rating, err := editorialRating(in.Rating, d.Rating)
	if err != nil {
		return err
	}
	d.Title = title
	d.Description = strings.TrimSpace(in.Description)
	d.Image = strings.TrimSpace(in.Image)
	d.Location = strings.TrimSpace(in.Location)
	d.Category = categoryOrDefault(in.Category)
	d.CategoryID = in.CategoryID
	d.Facilities = domain.StringList(in.Facilities).Compact()
	d.BestTimeToVisit = strings.TrimSpace(in.BestTimeToVisit)
	d.EntranceFee = strings.TrimSpace(in.EntranceFee)
	d.GoogleMapsLink = normalizeString(in.GoogleMapsLink)
	d.Rating = rating
	d.UpdatedAt = at
	return nil
}

func applyCulinary(c *domain.Culinary, in CulinaryInput, at time.Time) error {
	title := strings.TrimSpace(in.Title)
	restaurant := strings.TrimSpace(in.Restaurant)
	if title == "" && restaurant == "" {
		return fmt.Errorf("%w: restaurant or title is required", ErrValidation)
	}
	if restaurant == "" {
		restaurant = title
	}
	if title == "" {
		title = restaurant
	}
	rating, err := editorialRating(in.Rating, c.Rating)
	if err != nil {
		return err
	}
	c.Title = title
	c.Restaurant = restaurant
	c.Description = strings.TrimSpace(in.Description)
	c.Image = strings.TrimSpace(in.Image)
	c.Location = strings.TrimSpace(in.Location)
	c.Category = categoryOrDefault(in.Category)
	c.CategoryID = in.CategoryID
	c.PriceRange = strings.TrimSpace(in.PriceRange)
	c.OpeningHours = strings.TrimSpace(in.OpeningHours)
	c.Specialties = domain.StringList(in.Specialties).Compact()
	c.Facilities = domain.StringList(in.Facilities).Compact()
	c.GoogleMapsLink = normalizeString(in.GoogleMapsLink)
	c.Rating = rating
	c.UpdatedAt = at
	return nil
}

// editorialRating keeps current when no value is supplied; zero current means a
// new row, which gets the directory default.
func editorialRating(value *float64, current float64) (float64, error) {
	if value == nil {
		if current == 0 {
			return domain.DefaultEditorialRating, nil
		}
		return current, nil
	}
	if *value < 0 || *value > domain.MaxRating {
		return 0, fmt.Errorf("%w: rating must be between 0 and %d", ErrValidation, domain.MaxRating)
	}
	return *value, nil
}

func contentErr(err error, action string) error {
	if isNotFound(err) {
		return ErrContentNotFound
	}
	return fmt.Errorf("%w: %s: %v", ErrStoreFailure, action, err)
}
