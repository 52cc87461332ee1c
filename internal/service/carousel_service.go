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

type SlideButton struct {
	Text *string
	Link *string
}

type CarouselSlideInput struct {
	Title       string
	Description string
	Image       *string
	Primary     SlideButton
	Secondary   SlideButton
	SlideOrder  int
	IsActive    bool
}

// CarouselService manages the landing page hero slides.
type CarouselService struct {
	slides ports.CarouselRepository
	now    func() time.Time
}

func NewCarouselService(slides ports.CarouselRepository) *CarouselService {
	return &CarouselService{slides: slides, now: time.Now}
}

func (s *CarouselService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// ListActive returns the slides shown to visitors.
func (s *CarouselService) ListActive(ctx context.Context) ([]domain.CarouselSlide, error) {
	return s.list(ctx, true)
}

func (s *CarouselService) ListAll(ctx context.Context) ([]domain.CarouselSlide, error) {
	return s.list(ctx, false)
}

func (s *CarouselService) list(ctx context.Context, activeOnly bool) ([]domain.CarouselSlide, error) {
	slides, err := s.slides.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("%w: list slides: %v", ErrStoreFailure, err)
	}
	return slides, nil
}

func (s *CarouselService) Get(ctx context.Context, id uuid.UUID) (*domain.CarouselSlide, error) {
	slide, err := s.slides.FindByID(ctx, id)
	if err != nil {
		return nil, slideErr(err, "find slide")
	}
	return slide, nil
}

func (s *CarouselService) Add(ctx context.Context, input CarouselSlideInput) (*domain.CarouselSlide, error) {
	now := s.now().UTC()
	slide := &domain.CarouselSlide{ID: uuid.New(), CreatedAt: now}
	if err := applySlide(slide, input, now); err != nil {
		return nil, err
	}
	stored, err := s.slides.Create(ctx, slide)
	if err != nil {
		return nil, fmt.Errorf("%w: insert slide: %v", ErrStoreFailure, err)
	}
	return stored, nil
}

func (s *CarouselService) Update(ctx context.Context, id uuid.UUID, input CarouselSlideInput) (*domain.CarouselSlide, error) {
	current, err := s.slides.FindByID(ctx, id)
	if err != nil {
		return nil, slideErr(err, "find slide")
	}
	if err := applySlide(current, input, s.now().UTC()); err != nil {
		return nil, err
	}
	updated, err := s.slides.Update(ctx, current)
	if err != nil {
		return nil, slideErr(err, "update slide")
	}
	return updated, nil
}

func (s *CarouselService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.slides.Delete(ctx, id); err != nil {
		return slideErr(err, "delete slide")
	}
	return nil
}

func applySlide(slide *domain.CarouselSlide, in CarouselSlideInput, at time.Time) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.SlideOrder < 0 {
		return fmt.Errorf("%w: slide_order must not be negative", ErrValidation)
	}
	primary, err := normalizeButton(in.Primary, "button 1")
	if err != nil {
		return err
	}
	secondary, err := normalizeButton(in.Secondary, "button 2")
	if err != nil {
		return err
	}

	slide.Title = title
	slide.Description = strings.TrimSpace(in.Description)
	slide.Image = normalizeString(in.Image)
	slide.ButtonText1, slide.ButtonLink1 = primary.Text, primary.Link
	slide.ButtonText2, slide.ButtonLink2 = secondary.Text, secondary.Link
	slide.SlideOrder = in.SlideOrder
	slide.IsActive = in.IsActive
	slide.UpdatedAt = at
	return nil
}

// normalizeButton requires a link for any labelled button. A link without a
// label is kept; the client falls back to a default caption.
func normalizeButton(b SlideButton, name string) (SlideButton, error) {
	out := SlideButton{Text: normalizeString(b.Text), Link: normalizeString(b.Link)}
	if out.Text != nil && out.Link == nil {
		return SlideButton{}, fmt.Errorf("%w: %s needs a link", ErrValidation, name)
	}
	if out.Link != nil && !strings.HasPrefix(*out.Link, "/") &&
		!strings.HasPrefix(*out.Link, "http://") && !strings.HasPrefix(*out.Link, "https://") {
		return SlideButton{}, fmt.Errorf("%w: %s link must be a path or http(s) URL", ErrValidation, name)
	}
	return out, nil
}

func slideErr(err error, action string) error {
	if isNotFound(err) {
		return ErrSlideNotFound
	}
	return fmt.Errorf("%w: %s: %v", ErrStoreFailure, action, err)
}
