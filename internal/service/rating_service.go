package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/explorekarawang/directory-api/internal/domain"
	"github.com/explorekarawang/directory-api/internal/repository/ports"
)

const (
	defaultMaxRatingMedia   = 5
	defaultMaxCommentLength = 2000
)

type RatingServiceConfig struct {
	MaxMedia         int
	MaxCommentLength int
}

type RatingSubmitInput struct {
	ItemType  string
	ItemID    string
	DeviceID  string
	Rating    int
	Comment   *string
	Media     []string
	IPAddress *string
	UserAgent *string
}

type RatingService struct {
	ratings ports.RatingRepository

	maxMedia         int
	maxCommentLength int
	now              func() time.Time
}

func NewRatingService(ratings ports.RatingRepository, cfg RatingServiceConfig) *RatingService {
	maxMedia := cfg.MaxMedia
	if maxMedia <= 0 {
		maxMedia = defaultMaxRatingMedia
	}
	maxComment := cfg.MaxCommentLength
	if maxComment <= 0 {
		maxComment = defaultMaxCommentLength
	}
	return &RatingService{
		ratings:          ratings,
		maxMedia:         maxMedia,
		maxCommentLength: maxComment,
		now:              time.Now,
	}
}

func (s *RatingService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *RatingService) Submit(ctx context.Context, input RatingSubmitInput) (*domain.Rating, error) {
	itemType, err := domain.ParseItemType(input.ItemType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	itemID := strings.TrimSpace(input.ItemID)
	if itemID == "" {
		return nil, fmt.Errorf("%w: item_id is required", ErrValidation)
	}
	deviceID := strings.TrimSpace(input.DeviceID)
	if deviceID == "" {
		return nil, fmt.Errorf("%w: device id is required", ErrValidation)
	}
	if input.Rating < domain.MinRating || input.Rating > domain.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrValidation, domain.MinRating, domain.MaxRating)
	}
	comment := normalizeString(input.Comment)
	if comment != nil && utf8.RuneCountInString(*comment) > s.maxCommentLength {
		return nil, fmt.Errorf("%w: comment must be at most %d characters", ErrValidation, s.maxCommentLength)
	}
	media := domain.StringList(input.Media).Compact()
	if len(media) > s.maxMedia {
		return nil, fmt.Errorf("%w: at most %d media items allowed", ErrValidation, s.maxMedia)
	}

	exists, err := s.ratings.Exists(ctx, itemType, itemID, deviceID)
	if err != nil {
		return nil, fmt.Errorf("%w: check existing rating: %v", ErrStoreFailure, err)
	}
	if exists {
		return nil, ErrDuplicateRating
	}

	rating := &domain.Rating{
		ID:        uuid.New(),
		ItemType:  itemType,
		ItemID:    itemID,
		DeviceID:  deviceID,
		IPAddress: normalizeString(input.IPAddress),
		UserAgent: normalizeString(input.UserAgent),
		Rating:    input.Rating,
		Comment:   comment,
		Media:     media,
		Visible:   true,
		CreatedAt: s.now().UTC(),
	}
	stored, err := s.ratings.Create(ctx, rating)
	if err != nil {
		// the pre-check races with concurrent submits; the unique key decides
		if errors.Is(err, ports.ErrDuplicateKey) {
			return nil, ErrDuplicateRating
		}
		return nil, fmt.Errorf("%w: insert rating: %v", ErrStoreFailure, err)
	}
	return stored, nil
}

func (s *RatingService) List(ctx context.Context, itemType, itemID string, includeHidden bool) ([]domain.Rating, error) {
	t, id, err := parseItemRef(itemType, itemID)
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratings.ListByItem(ctx, t, id, includeHidden)
	if err != nil {
		return nil, fmt.Errorf("%w: list ratings: %v", ErrStoreFailure, err)
	}
	return ratings, nil
}

func (s *RatingService) ListAll(ctx context.Context) ([]domain.AdminRating, error) {
	ratings, err := s.ratings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list all ratings: %v", ErrStoreFailure, err)
	}
	return ratings, nil
}

func (s *RatingService) ToggleVisibility(ctx context.Context, id uuid.UUID) (bool, error) {
	visible, err := s.ratings.ToggleVisibility(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return false, ErrRatingNotFound
		}
		return false, fmt.Errorf("%w: toggle rating: %v", ErrStoreFailure, err)
	}
	return visible, nil
}

func (s *RatingService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.ratings.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrRatingNotFound
		}
		return fmt.Errorf("%w: delete rating: %v", ErrStoreFailure, err)
	}
	return nil
}

// Average summarises visible ratings of one item. The average is rounded to two
// decimals and nil when nothing visible exists.
func (s *RatingService) Average(ctx context.Context, itemType, itemID string) (*domain.RatingSummary, error) {
	t, id, err := parseItemRef(itemType, itemID)
	if err != nil {
		return nil, err
	}
	byValue, err := s.ratings.CountVisibleByValue(ctx, t, id)
	if err != nil {
		return nil, fmt.Errorf("%w: count ratings: %v", ErrStoreFailure, err)
	}
	return summarize(byValue), nil
}

func summarize(byValue map[int]int) *domain.RatingSummary {
	summary := &domain.RatingSummary{Counts: make(map[int]int, domain.MaxRating)}
	sum := 0
	for v := domain.MinRating; v <= domain.MaxRating; v++ {
		n := byValue[v]
		summary.Counts[v] = n
		summary.Total += n
		sum += v * n
	}
	if summary.Total > 0 {
		avg := math.Round(float64(sum)/float64(summary.Total)*100) / 100
		summary.AvgRating = &avg
	}
	return summary
}

func parseItemRef(itemType, itemID string) (domain.ItemType, string, error) {
	t, err := domain.ParseItemType(itemType)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	id := strings.TrimSpace(itemID)
	if id == "" {
		return "", "", fmt.Errorf("%w: item_id is required", ErrValidation)
	}
	return t, id, nil
}
